package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduverse/school-service/internal/services"
	"github.com/eduverse/school-service/internal/utils"
)

type StudentHandler struct {
	BaseHandler
	studentService services.StudentService
}

func NewStudentHandler(studentService services.StudentService, logger utils.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler:    NewBaseHandler(logger),
		studentService: studentService,
	}
}

// CreateStudent creates a student account and profile
// @Summary Create student
// @Description Creates a user account with the student role plus its student profile
// @Tags students
// @Accept json
// @Produce json
// @Param student body services.CreateStudentRequest true "Student data"
// @Success 201 {object} services.StudentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /students [post]
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req services.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	student, err := h.studentService.Create(c.Request.Context(), actorFromContext(c), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, student)
}

// GetStudent retrieves a student by profile ID
// @Summary Get student
// @Tags students
// @Produce json
// @Param id path string true "Student profile ID"
// @Success 200 {object} services.StudentResponse
// @Failure 404 {object} ErrorResponse
// @Router /students/{id} [get]
func (h *StudentHandler) GetStudent(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	student, err := h.studentService.GetByID(c.Request.Context(), actorFromContext(c), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// GetMe retrieves the calling student's own profile
// @Summary Get own student profile
// @Tags students
// @Produce json
// @Success 200 {object} services.StudentResponse
// @Failure 404 {object} ErrorResponse
// @Router /students/me [get]
func (h *StudentHandler) GetMe(c *gin.Context) {
	student, err := h.studentService.GetMe(c.Request.Context(), actorFromContext(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// ListStudents lists all students in the caller's tenant
// @Summary List students
// @Tags students
// @Produce json
// @Success 200 {array} services.StudentResponse
// @Failure 500 {object} ErrorResponse
// @Router /students [get]
func (h *StudentHandler) ListStudents(c *gin.Context) {
	students, err := h.studentService.List(c.Request.Context(), actorFromContext(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}

// UpdateStudent updates a student's account and profile fields
// @Summary Update student
// @Tags students
// @Accept json
// @Produce json
// @Param id path string true "Student profile ID"
// @Param student body services.UpdateStudentRequest true "Student update data"
// @Success 200 {object} services.StudentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /students/{id} [put]
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	student, err := h.studentService.Update(c.Request.Context(), actorFromContext(c), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// DeleteStudent removes a student profile and its account
// @Summary Delete student
// @Tags students
// @Produce json
// @Param id path string true "Student profile ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /students/{id} [delete]
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Deleting student", "student_id", id)

	if err := h.studentService.Delete(c.Request.Context(), actorFromContext(c), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetMyCourses lists the courses the calling student is enrolled in
// @Summary Get own enrolled courses
// @Tags students
// @Produce json
// @Success 200 {array} models.Course
// @Failure 404 {object} ErrorResponse
// @Router /students/me/courses [get]
func (h *StudentHandler) GetMyCourses(c *gin.Context) {
	courses, err := h.studentService.GetCourses(c.Request.Context(), actorFromContext(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

// GetDashboard returns study progress counts for the caller
// @Summary Student dashboard
// @Tags students
// @Produce json
// @Success 200 {object} services.StudentDashboard
// @Failure 404 {object} ErrorResponse
// @Router /students/me/dashboard [get]
func (h *StudentHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.studentService.Dashboard(c.Request.Context(), actorFromContext(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
