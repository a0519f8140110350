package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduverse/school-service/internal/services"
	"github.com/eduverse/school-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type SubmissionHandler struct {
	BaseHandler
	submissionService services.SubmissionService
}

func NewSubmissionHandler(submissionService services.SubmissionService, logger utils.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		BaseHandler:       NewBaseHandler(logger),
		submissionService: submissionService,
	}
}

// SubmitAssignment files the caller's work for an assignment
// @Summary Submit assignment
// @Tags submissions
// @Accept json
// @Produce json
// @Param submission body services.SubmitAssignmentRequest true "Submission data"
// @Success 201 {object} models.AssignmentSubmission
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /submissions [post]
func (h *SubmissionHandler) SubmitAssignment(c *gin.Context) {
	var req services.SubmitAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	submission, err := h.submissionService.Submit(c.Request.Context(), actorFromContext(c), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, submission)
}

// GetSubmission retrieves a submission by ID
// @Summary Get submission
// @Tags submissions
// @Produce json
// @Param id path string true "Submission ID"
// @Success 200 {object} models.AssignmentSubmission
// @Failure 404 {object} ErrorResponse
// @Router /submissions/{id} [get]
func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	submission, err := h.submissionService.GetByID(c.Request.Context(), actorFromContext(c), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

// ListSubmissions lists all submissions in the caller's tenant
// @Summary List submissions
// @Tags submissions
// @Produce json
// @Success 200 {array} models.AssignmentSubmission
// @Failure 500 {object} ErrorResponse
// @Router /submissions [get]
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	submissions, err := h.submissionService.List(c.Request.Context(), actorFromContext(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submissions)
}

// ListByAssignment lists submissions for a specific assignment
// @Summary List submissions by assignment
// @Tags submissions
// @Produce json
// @Param assignment_id path string true "Assignment ID"
// @Success 200 {array} models.AssignmentSubmission
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /submissions/assignment/{assignment_id} [get]
func (h *SubmissionHandler) ListByAssignment(c *gin.Context) {
	assignmentID := ParseStringIDParam(c, "assignment_id")
	if assignmentID == "" {
		return
	}

	submissions, err := h.submissionService.ListByAssignment(c.Request.Context(), actorFromContext(c), assignmentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submissions)
}

// ListMine lists the calling student's own submissions
// @Summary List own submissions
// @Tags submissions
// @Produce json
// @Success 200 {array} models.AssignmentSubmission
// @Failure 404 {object} ErrorResponse
// @Router /submissions/me [get]
func (h *SubmissionHandler) ListMine(c *gin.Context) {
	submissions, err := h.submissionService.ListMine(c.Request.Context(), actorFromContext(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submissions)
}

// GradeSubmission records marks and feedback on a submission
// @Summary Grade submission
// @Tags submissions
// @Accept json
// @Produce json
// @Param id path string true "Submission ID"
// @Param grade body services.GradeSubmissionRequest true "Grade data"
// @Success 200 {object} models.AssignmentSubmission
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /submissions/{id}/grade [post]
func (h *SubmissionHandler) GradeSubmission(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.GradeSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	submission, err := h.submissionService.Grade(c.Request.Context(), actorFromContext(c), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

// DeleteSubmission deletes a submission
// @Summary Delete submission
// @Tags submissions
// @Produce json
// @Param id path string true "Submission ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /submissions/{id} [delete]
func (h *SubmissionHandler) DeleteSubmission(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Deleting submission", "submission_id", id)

	if err := h.submissionService.Delete(c.Request.Context(), actorFromContext(c), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ExportGrades downloads an XLSX workbook of the assignment's grades
// @Summary Export assignment grades
// @Description Streams an XLSX file with one row per submission
// @Tags submissions
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param assignment_id path string true "Assignment ID"
// @Success 200 {file} binary
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /submissions/assignment/{assignment_id}/export [get]
func (h *SubmissionHandler) ExportGrades(c *gin.Context) {
	assignmentID := ParseStringIDParam(c, "assignment_id")
	if assignmentID == "" {
		return
	}

	h.LogRequest(c, "Exporting grades", "assignment_id", assignmentID)

	data, filename, err := h.submissionService.ExportGrades(c.Request.Context(), actorFromContext(c), assignmentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
