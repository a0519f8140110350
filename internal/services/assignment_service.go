package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/eduverse/school-service/internal/events"
	"github.com/eduverse/school-service/internal/models"
	"github.com/eduverse/school-service/internal/repositories"
	"github.com/eduverse/school-service/internal/validator"
)

const (
	AssignmentStatusActive = "active"
	AssignmentStatusClosed = "closed"
)

type assignmentService struct {
	repo           repositories.Repository
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
}

func NewAssignmentService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) AssignmentService {
	return &assignmentService{
		repo:           repo,
		logger:         logger,
		validator:      v,
		eventPublisher: publisher,
	}
}

func (s *assignmentService) Create(ctx context.Context, actor Actor, req *CreateAssignmentRequest) (*models.Assignment, error) {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	tenantID, err := actorTenantID(actor)
	if err != nil {
		return nil, err
	}
	courseID, err := parseObjectID(req.CourseID)
	if err != nil {
		return nil, err
	}

	course, err := s.repo.Course().GetByID(ctx, courseID, tenantID)
	if err != nil {
		return nil, mapRepoErr(err, ErrCourseNotFound)
	}

	if actor.Role == models.RoleTeacher && actor.ProfileID != course.TeacherID.Hex() {
		return nil, NewPermissionError(actor.UserID, "assignment", "create", "not course owner")
	}

	if req.TotalMarks != nil && req.PassingMarks != nil && *req.PassingMarks > *req.TotalMarks {
		return nil, NewBusinessRuleError("passing_exceeds_total", "passing marks cannot exceed total marks")
	}

	status := AssignmentStatusActive
	if req.Status != nil && *req.Status != "" {
		status = *req.Status
	}
	formats := req.AllowedFormats
	if formats == nil {
		formats = []string{}
	}

	now := time.Now().UTC()
	description := req.Description
	assignment := &models.Assignment{
		CourseID:       courseID,
		TeacherID:      course.TeacherID,
		TenantID:       tenantID,
		Title:          strings.TrimSpace(req.Title),
		Description:    &description,
		DueDate:        req.DueDate,
		TotalMarks:     req.TotalMarks,
		PassingMarks:   req.PassingMarks,
		Status:         status,
		FileURL:        req.FileURL,
		AllowedFormats: formats,
		UploadedAt:     now,
		UpdatedAt:      now,
	}

	if err := s.repo.Assignment().Create(ctx, assignment); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.EventAssignmentCreated, map[string]any{
		"assignmentId": assignment.ID.Hex(),
		"courseId":     req.CourseID,
		"tenantId":     actor.TenantID,
	})

	s.logger.Info("Assignment created",
		"assignment_id", assignment.ID.Hex(),
		"course_id", req.CourseID,
		"title", assignment.Title)

	return assignment, nil
}

func (s *assignmentService) GetByID(ctx context.Context, actor Actor, id string) (*models.Assignment, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	tenantID, err := actorTenantID(actor)
	if err != nil {
		return nil, err
	}

	assignment, err := s.repo.Assignment().GetByID(ctx, oid, tenantID)
	if err != nil {
		return nil, mapRepoErr(err, ErrAssignmentNotFound)
	}
	return assignment, nil
}

func (s *assignmentService) List(ctx context.Context, actor Actor, req *ListAssignmentsRequest) (*AssignmentListResponse, error) {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	tenantID, err := actorTenantID(actor)
	if err != nil {
		return nil, err
	}

	filters := repositories.AssignmentFilters{
		TenantID:  &tenantID,
		Status:    req.Status,
		Search:    req.Search,
		DateFrom:  req.DateFrom,
		DateTo:    req.DateTo,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
		Page:      req.Page,
		Limit:     req.Limit,
	}
	if req.CourseID != nil {
		courseID, err := parseObjectID(*req.CourseID)
		if err != nil {
			return nil, err
		}
		filters.CourseID = &courseID
	}
	if actor.Role == models.RoleTeacher {
		teacherID, err := parseObjectID(actor.ProfileID)
		if err != nil {
			return nil, err
		}
		filters.TeacherID = &teacherID
	}

	assignments, total, err := s.repo.Assignment().List(ctx, filters)
	if err != nil {
		return nil, err
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 {
		limit = 10
	}

	return &AssignmentListResponse{
		Assignments: assignments,
		Total:       total,
		Page:        page,
		Limit:       limit,
		TotalPages:  (total + int64(limit) - 1) / int64(limit),
	}, nil
}

func (s *assignmentService) Update(ctx context.Context, actor Actor, id string, req *UpdateAssignmentRequest) (*models.Assignment, error) {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	assignment, err := s.GetByID(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := s.requireOwnership(actor, assignment, "update"); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Title != nil {
		fields["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.DueDate != nil {
		fields["dueDate"] = *req.DueDate
	}
	if req.TotalMarks != nil {
		fields["totalMarks"] = *req.TotalMarks
	}
	if req.PassingMarks != nil {
		fields["passingMarks"] = *req.PassingMarks
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.FileURL != nil {
		fields["fileUrl"] = *req.FileURL
	}
	if req.AllowedFormats != nil {
		fields["allowedFormats"] = req.AllowedFormats
	}
	fields = validator.SanitizeUpdateMap(fields)

	updated, err := s.repo.Assignment().Update(ctx, assignment.ID, fields)
	if err != nil {
		return nil, mapRepoErr(err, ErrAssignmentNotFound)
	}
	return updated, nil
}

func (s *assignmentService) Delete(ctx context.Context, actor Actor, id string) error {
	assignment, err := s.GetByID(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.requireOwnership(actor, assignment, "delete"); err != nil {
		return err
	}

	if err := s.repo.Assignment().Delete(ctx, assignment.ID); err != nil {
		return mapRepoErr(err, ErrAssignmentNotFound)
	}

	s.logger.Info("Assignment deleted", "assignment_id", id, "deleted_by", actor.UserID)
	return nil
}

func (s *assignmentService) requireOwnership(actor Actor, assignment *models.Assignment, action string) error {
	if actor.Role == models.RoleAdmin || actor.Role == models.RoleSuperAdmin {
		return nil
	}
	if actor.Role == models.RoleTeacher && actor.ProfileID == assignment.TeacherID.Hex() {
		return nil
	}
	return NewPermissionError(actor.UserID, "assignment", action, "not assignment owner")
}

func (s *assignmentService) publishEvent(ctx context.Context, eventType string, data any) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		s.logger.Warn("Failed to publish event", "event_type", eventType, "error", err)
	}
}
