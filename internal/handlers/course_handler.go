package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduverse/school-service/internal/services"
	"github.com/eduverse/school-service/internal/utils"
)

type CourseHandler struct {
	BaseHandler
	courseService services.CourseService
}

func NewCourseHandler(courseService services.CourseService, logger utils.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler:   NewBaseHandler(logger),
		courseService: courseService,
	}
}

// CreateCourse creates a new course in draft status
// @Summary Create course
// @Description Creates a draft course and records it on the teacher's profile
// @Tags courses
// @Accept json
// @Produce json
// @Param course body services.CreateCourseRequest true "Course data"
// @Success 201 {object} models.Course
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /courses [post]
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req services.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	course, err := h.courseService.Create(c.Request.Context(), actorFromContext(c), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, course)
}

// GetCourse retrieves a course by ID
// @Summary Get course
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} models.Course
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id} [get]
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	course, err := h.courseService.GetByID(c.Request.Context(), actorFromContext(c), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// ListCourses lists courses with filters and pagination
// @Summary List courses
// @Tags courses
// @Produce json
// @Param teacherId query string false "Teacher profile ID"
// @Param status query string false "Course status"
// @Param category query string false "Category"
// @Param search query string false "Title, description or code search"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} services.CourseListResponse
// @Failure 500 {object} ErrorResponse
// @Router /courses [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
	req := services.ListCoursesRequest{
		Page:  parseIntQuery(c, "page", 1),
		Limit: parseIntQuery(c, "limit", 20),
	}
	if teacherID := c.Query("teacherId"); teacherID != "" {
		req.TeacherID = &teacherID
	}
	if status := c.Query("status"); status != "" {
		req.Status = &status
	}
	if category := c.Query("category"); category != "" {
		req.Category = &category
	}
	if search := c.Query("search"); search != "" {
		req.Search = &search
	}

	resp, err := h.courseService.List(c.Request.Context(), actorFromContext(c), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateCourse updates course fields
// @Summary Update course
// @Tags courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param course body services.UpdateCourseRequest true "Course update data"
// @Success 200 {object} models.Course
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id} [put]
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	course, err := h.courseService.Update(c.Request.Context(), actorFromContext(c), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// DeleteCourse deletes a course and cleans up every reference to it
// @Summary Delete course
// @Description Deletes the course and removes it from the teacher's and all students' lists
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} services.DeleteCourseResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Deleting course", "course_id", id)

	resp, err := h.courseService.Delete(c.Request.Context(), actorFromContext(c), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// PublishCourse moves a draft course to published
// @Summary Publish course
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} models.Course
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /courses/{id}/publish [post]
func (h *CourseHandler) PublishCourse(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Publishing course", "course_id", id)

	course, err := h.courseService.Publish(c.Request.Context(), actorFromContext(c), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// EnrollStudent enrolls a student in a course
// @Summary Enroll student
// @Tags courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param enrollment body services.EnrollmentRequest true "Student to enroll"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /courses/{id}/enroll [post]
func (h *CourseHandler) EnrollStudent(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.EnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.courseService.Enroll(c.Request.Context(), actorFromContext(c), id, &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Student enrolled successfully",
	})
}

// UnenrollStudent removes a student from a course
// @Summary Unenroll student
// @Tags courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param enrollment body services.EnrollmentRequest true "Student to unenroll"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /courses/{id}/unenroll [post]
func (h *CourseHandler) UnenrollStudent(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.EnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.courseService.Unenroll(c.Request.Context(), actorFromContext(c), id, &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Student unenrolled successfully",
	})
}

// ReassignTeacher moves a course to another teacher
// @Summary Reassign course teacher
// @Tags courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param request body services.ReassignTeacherRequest true "New teacher"
// @Success 200 {object} models.Course
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /courses/{id}/reassign-teacher [post]
func (h *CourseHandler) ReassignTeacher(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.ReassignTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	course, err := h.courseService.ReassignTeacher(c.Request.Context(), actorFromContext(c), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// ReorderModules rewrites module order within a course
// @Summary Reorder course modules
// @Tags courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param request body services.ReorderModulesRequest true "Module ID sequence"
// @Success 200 {object} models.Course
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /courses/{id}/modules/reorder [put]
func (h *CourseHandler) ReorderModules(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.ReorderModulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	course, err := h.courseService.ReorderModules(c.Request.Context(), actorFromContext(c), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// ReorderLessons rewrites lesson order within a module
// @Summary Reorder module lessons
// @Tags courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param moduleId path string true "Module ID"
// @Param request body services.ReorderLessonsRequest true "Lesson ID sequence"
// @Success 200 {object} models.Course
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /courses/{id}/modules/{moduleId}/lessons/reorder [put]
func (h *CourseHandler) ReorderLessons(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	moduleID := ParseStringIDParam(c, "moduleId")
	if moduleID == "" {
		return
	}

	var req services.ReorderLessonsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	course, err := h.courseService.ReorderLessons(c.Request.Context(), actorFromContext(c), id, moduleID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// GetCourseStudents lists students enrolled in a course
// @Summary Get course students
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {array} services.StudentResponse
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id}/students [get]
func (h *CourseHandler) GetCourseStudents(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	students, err := h.courseService.GetStudents(c.Request.Context(), actorFromContext(c), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}
