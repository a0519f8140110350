package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/eduverse/school-service/internal/events"
	"github.com/eduverse/school-service/internal/models"
	"github.com/eduverse/school-service/internal/repositories"
	"github.com/eduverse/school-service/internal/validator"
)

type submissionService struct {
	repo           repositories.Repository
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
}

func NewSubmissionService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) SubmissionService {
	return &submissionService{
		repo:           repo,
		logger:         logger,
		validator:      v,
		eventPublisher: publisher,
	}
}

// Submit files the student's work for an assignment. The student must be
// enrolled in the assignment's course and may submit only once.
func (s *submissionService) Submit(ctx context.Context, actor Actor, req *SubmitAssignmentRequest) (*models.AssignmentSubmission, error) {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	tenantID, err := actorTenantID(actor)
	if err != nil {
		return nil, err
	}
	assignmentID, err := parseObjectID(req.AssignmentID)
	if err != nil {
		return nil, err
	}
	studentID, err := parseObjectID(actor.ProfileID)
	if err != nil {
		return nil, err
	}

	assignment, err := s.repo.Assignment().GetByID(ctx, assignmentID, tenantID)
	if err != nil {
		return nil, mapRepoErr(err, ErrAssignmentNotFound)
	}

	student, err := s.repo.Student().GetByID(ctx, studentID)
	if err != nil {
		return nil, mapRepoErr(err, ErrStudentNotFound)
	}

	enrolled := false
	for _, id := range student.EnrolledCourses {
		if id == assignment.CourseID {
			enrolled = true
			break
		}
	}
	if !enrolled {
		return nil, NewPermissionError(actor.UserID, "submission", "submit", "not enrolled in the assignment's course")
	}

	existing, err := s.repo.AssignmentSubmission().ListByAssignment(ctx, assignmentID, tenantID)
	if err != nil {
		return nil, err
	}
	for _, sub := range existing {
		if sub.StudentID == studentID {
			return nil, NewBusinessRuleError("already_submitted", "assignment has already been submitted")
		}
	}

	submission := &models.AssignmentSubmission{
		AssignmentID: assignmentID,
		CourseID:     assignment.CourseID,
		StudentID:    studentID,
		TenantID:     tenantID,
		FileURL:      req.FileURL,
		SubmittedAt:  time.Now().UTC(),
	}

	if err := s.repo.AssignmentSubmission().Create(ctx, submission); err != nil {
		return nil, err
	}

	s.logger.Info("Assignment submitted",
		"submission_id", submission.ID.Hex(),
		"assignment_id", req.AssignmentID,
		"student_id", actor.ProfileID)

	return submission, nil
}

func (s *submissionService) GetByID(ctx context.Context, actor Actor, id string) (*models.AssignmentSubmission, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	tenantID, err := actorTenantID(actor)
	if err != nil {
		return nil, err
	}

	submission, err := s.repo.AssignmentSubmission().GetByID(ctx, oid, tenantID)
	if err != nil {
		return nil, mapRepoErr(err, ErrSubmissionNotFound)
	}

	// Students may only read their own submissions.
	if actor.Role == models.RoleStudent && actor.ProfileID != submission.StudentID.Hex() {
		return nil, NewPermissionError(actor.UserID, "submission", "read", "not own submission")
	}
	return submission, nil
}

func (s *submissionService) List(ctx context.Context, actor Actor) ([]*models.AssignmentSubmission, error) {
	tenantID, err := actorTenantID(actor)
	if err != nil {
		return nil, err
	}
	return s.repo.AssignmentSubmission().ListByTenant(ctx, tenantID)
}

func (s *submissionService) ListByAssignment(ctx context.Context, actor Actor, assignmentID string) ([]*models.AssignmentSubmission, error) {
	tenantID, err := actorTenantID(actor)
	if err != nil {
		return nil, err
	}
	oid, err := parseObjectID(assignmentID)
	if err != nil {
		return nil, err
	}

	assignment, err := s.repo.Assignment().GetByID(ctx, oid, tenantID)
	if err != nil {
		return nil, mapRepoErr(err, ErrAssignmentNotFound)
	}

	if err := s.requireAssignmentOwnership(actor, assignment, "list submissions"); err != nil {
		return nil, err
	}

	return s.repo.AssignmentSubmission().ListByAssignment(ctx, oid, tenantID)
}

func (s *submissionService) ListMine(ctx context.Context, actor Actor) ([]*models.AssignmentSubmission, error) {
	tenantID, err := actorTenantID(actor)
	if err != nil {
		return nil, err
	}
	studentID, err := parseObjectID(actor.ProfileID)
	if err != nil {
		return nil, err
	}
	return s.repo.AssignmentSubmission().ListByStudent(ctx, studentID, tenantID)
}

// Grade records marks and feedback on a submission. Only the owning
// teacher or an admin may grade, and marks cannot exceed the assignment's
// total.
func (s *submissionService) Grade(ctx context.Context, actor Actor, id string, req *GradeSubmissionRequest) (*models.AssignmentSubmission, error) {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	tenantID, err := actorTenantID(actor)
	if err != nil {
		return nil, err
	}
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	submission, err := s.repo.AssignmentSubmission().GetByID(ctx, oid, tenantID)
	if err != nil {
		return nil, mapRepoErr(err, ErrSubmissionNotFound)
	}

	assignment, err := s.repo.Assignment().GetByID(ctx, submission.AssignmentID, tenantID)
	if err != nil {
		return nil, mapRepoErr(err, ErrAssignmentNotFound)
	}

	if err := s.requireAssignmentOwnership(actor, assignment, "grade"); err != nil {
		return nil, err
	}

	if assignment.TotalMarks != nil && req.ObtainedMarks > *assignment.TotalMarks {
		return nil, NewBusinessRuleError("marks_exceed_total", "obtained marks cannot exceed the assignment total")
	}

	fields := map[string]any{
		"obtainedMarks": req.ObtainedMarks,
		"gradedAt":      time.Now().UTC(),
	}
	if req.Feedback != nil {
		fields["feedback"] = *req.Feedback
	}

	graded, err := s.repo.AssignmentSubmission().Update(ctx, oid, tenantID, fields)
	if err != nil {
		return nil, mapRepoErr(err, ErrSubmissionNotFound)
	}

	s.publishEvent(ctx, events.EventSubmissionGraded, map[string]any{
		"submissionId":  id,
		"assignmentId":  submission.AssignmentID.Hex(),
		"studentId":     submission.StudentID.Hex(),
		"obtainedMarks": req.ObtainedMarks,
		"tenantId":      actor.TenantID,
	})

	s.logger.Info("Submission graded",
		"submission_id", id,
		"obtained_marks", req.ObtainedMarks,
		"graded_by", actor.UserID)

	return graded, nil
}

func (s *submissionService) Delete(ctx context.Context, actor Actor, id string) error {
	tenantID, err := actorTenantID(actor)
	if err != nil {
		return err
	}
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	submission, err := s.repo.AssignmentSubmission().GetByID(ctx, oid, tenantID)
	if err != nil {
		return mapRepoErr(err, ErrSubmissionNotFound)
	}

	if actor.Role == models.RoleStudent {
		if actor.ProfileID != submission.StudentID.Hex() {
			return NewPermissionError(actor.UserID, "submission", "delete", "not own submission")
		}
		if submission.GradedAt != nil {
			return NewBusinessRuleError("already_graded", "graded submissions cannot be withdrawn")
		}
	}

	if err := s.repo.AssignmentSubmission().Delete(ctx, oid, tenantID); err != nil {
		return mapRepoErr(err, ErrSubmissionNotFound)
	}

	s.logger.Info("Submission deleted", "submission_id", id, "deleted_by", actor.UserID)
	return nil
}

// ExportGrades builds an XLSX workbook of the assignment's submissions and
// returns its bytes plus a suggested filename.
func (s *submissionService) ExportGrades(ctx context.Context, actor Actor, assignmentID string) ([]byte, string, error) {
	tenantID, err := actorTenantID(actor)
	if err != nil {
		return nil, "", err
	}
	oid, err := parseObjectID(assignmentID)
	if err != nil {
		return nil, "", err
	}

	assignment, err := s.repo.Assignment().GetByID(ctx, oid, tenantID)
	if err != nil {
		return nil, "", mapRepoErr(err, ErrAssignmentNotFound)
	}

	if err := s.requireAssignmentOwnership(actor, assignment, "export grades"); err != nil {
		return nil, "", err
	}

	submissions, err := s.repo.AssignmentSubmission().ListByAssignment(ctx, oid, tenantID)
	if err != nil {
		return nil, "", err
	}

	data, err := s.buildGradeSheet(ctx, assignment, submissions)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("grades_%s_%s.xlsx", assignment.Title, time.Now().UTC().Format("2006-01-02"))

	s.logger.Info("Grades exported",
		"assignment_id", assignmentID,
		"submission_count", len(submissions),
		"exported_by", actor.UserID)

	return data, filename, nil
}

func (s *submissionService) buildGradeSheet(ctx context.Context, assignment *models.Assignment, submissions []*models.AssignmentSubmission) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Grades"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Student Name", "Email", "Submitted At", "Obtained Marks", "Total Marks", "Feedback", "Graded At"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, sub := range submissions {
		name, email := s.studentIdentity(ctx, sub.StudentID)

		values := []any{
			name,
			email,
			sub.SubmittedAt.Format(time.RFC3339),
			"",
			"",
			"",
			"",
		}
		if sub.ObtainedMarks != nil {
			values[3] = *sub.ObtainedMarks
		}
		if assignment.TotalMarks != nil {
			values[4] = *assignment.TotalMarks
		}
		if sub.Feedback != nil {
			values[5] = *sub.Feedback
		}
		if sub.GradedAt != nil {
			values[6] = sub.GradedAt.Format(time.RFC3339)
		}

		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", "G", 24); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// studentIdentity resolves a display name and email, falling back to the
// profile id when the account cannot be loaded.
func (s *submissionService) studentIdentity(ctx context.Context, studentID primitive.ObjectID) (string, string) {
	student, err := s.repo.Student().GetByID(ctx, studentID)
	if err != nil {
		return studentID.Hex(), ""
	}
	user, err := s.repo.User().GetByID(ctx, student.UserID)
	if err != nil {
		return studentID.Hex(), ""
	}
	return user.FullName, user.Email
}

func (s *submissionService) requireAssignmentOwnership(actor Actor, assignment *models.Assignment, action string) error {
	if actor.Role == models.RoleAdmin || actor.Role == models.RoleSuperAdmin {
		return nil
	}
	if actor.Role == models.RoleTeacher && actor.ProfileID == assignment.TeacherID.Hex() {
		return nil
	}
	return NewPermissionError(actor.UserID, "submission", action, "not assignment owner")
}

func (s *submissionService) publishEvent(ctx context.Context, eventType string, data any) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		s.logger.Warn("Failed to publish event", "event_type", eventType, "error", err)
	}
}
