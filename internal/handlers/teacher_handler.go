package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduverse/school-service/internal/services"
	"github.com/eduverse/school-service/internal/utils"
)

type TeacherHandler struct {
	BaseHandler
	teacherService services.TeacherService
}

func NewTeacherHandler(teacherService services.TeacherService, logger utils.Logger) *TeacherHandler {
	return &TeacherHandler{
		BaseHandler:    NewBaseHandler(logger),
		teacherService: teacherService,
	}
}

// CreateTeacher creates a teacher account and profile
// @Summary Create teacher
// @Description Creates a user account with the teacher role plus its teacher profile
// @Tags teachers
// @Accept json
// @Produce json
// @Param teacher body services.CreateTeacherRequest true "Teacher data"
// @Success 201 {object} services.TeacherResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /teachers [post]
func (h *TeacherHandler) CreateTeacher(c *gin.Context) {
	var req services.CreateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	teacher, err := h.teacherService.Create(c.Request.Context(), actorFromContext(c), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, teacher)
}

// GetTeacher retrieves a teacher by profile ID
// @Summary Get teacher
// @Tags teachers
// @Produce json
// @Param id path string true "Teacher profile ID"
// @Success 200 {object} services.TeacherResponse
// @Failure 404 {object} ErrorResponse
// @Router /teachers/{id} [get]
func (h *TeacherHandler) GetTeacher(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	teacher, err := h.teacherService.GetByID(c.Request.Context(), actorFromContext(c), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, teacher)
}

// GetTeacherStudents lists the students across a teacher's assigned courses
// @Summary Get teacher's students
// @Tags teachers
// @Produce json
// @Param id path string true "Teacher profile ID"
// @Success 200 {array} services.StudentResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /teachers/{id}/students [get]
func (h *TeacherHandler) GetTeacherStudents(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	students, err := h.teacherService.ListStudents(c.Request.Context(), actorFromContext(c), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}

// GetMe retrieves the calling teacher's own profile
// @Summary Get own teacher profile
// @Tags teachers
// @Produce json
// @Success 200 {object} services.TeacherResponse
// @Failure 404 {object} ErrorResponse
// @Router /teachers/me [get]
func (h *TeacherHandler) GetMe(c *gin.Context) {
	teacher, err := h.teacherService.GetMe(c.Request.Context(), actorFromContext(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, teacher)
}

// ListTeachers lists all teachers in the caller's tenant
// @Summary List teachers
// @Tags teachers
// @Produce json
// @Success 200 {array} services.TeacherResponse
// @Failure 500 {object} ErrorResponse
// @Router /teachers [get]
func (h *TeacherHandler) ListTeachers(c *gin.Context) {
	teachers, err := h.teacherService.List(c.Request.Context(), actorFromContext(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, teachers)
}

// UpdateTeacher updates a teacher's account and profile fields
// @Summary Update teacher
// @Tags teachers
// @Accept json
// @Produce json
// @Param id path string true "Teacher profile ID"
// @Param teacher body services.UpdateTeacherRequest true "Teacher update data"
// @Success 200 {object} services.TeacherResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /teachers/{id} [put]
func (h *TeacherHandler) UpdateTeacher(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.UpdateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	teacher, err := h.teacherService.Update(c.Request.Context(), actorFromContext(c), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, teacher)
}

// DeleteTeacher removes a teacher profile and its account
// @Summary Delete teacher
// @Tags teachers
// @Produce json
// @Param id path string true "Teacher profile ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /teachers/{id} [delete]
func (h *TeacherHandler) DeleteTeacher(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Deleting teacher", "teacher_id", id)

	if err := h.teacherService.Delete(c.Request.Context(), actorFromContext(c), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetDashboard returns teaching workload counts for the caller
// @Summary Teacher dashboard
// @Tags teachers
// @Produce json
// @Success 200 {object} services.TeacherDashboard
// @Failure 404 {object} ErrorResponse
// @Router /teachers/me/dashboard [get]
func (h *TeacherHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.teacherService.Dashboard(c.Request.Context(), actorFromContext(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
