package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/eduverse/school-service/internal/models"
	"github.com/eduverse/school-service/internal/repositories"
	"github.com/eduverse/school-service/internal/validator"
)

type studentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewStudentService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) StudentService {
	return &studentService{repo: repo, logger: logger, validator: v}
}

func (s *studentService) Create(ctx context.Context, actor Actor, req *CreateStudentRequest) (*StudentResponse, error) {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	tenantID, err := actorTenantID(actor)
	if err != nil {
		return nil, err
	}

	_, err = s.repo.User().GetByEmail(ctx, req.Email)
	if err := ensureEmailAvailable(err); err != nil {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &models.User{
		FullName:        strings.TrimSpace(req.FullName),
		Email:           strings.ToLower(req.Email),
		Password:        hash,
		Role:            models.RoleStudent,
		Status:          models.UserStudying,
		ProfileImageURL: req.ProfileImageURL,
		ContactNo:       req.ContactNo,
		Country:         req.Country,
		TenantID:        &tenantID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.User().Create(ctx, user); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	student := &models.Student{
		UserID:           user.ID,
		TenantID:         tenantID,
		EnrolledCourses:  []primitive.ObjectID{},
		CompletedCourses: []primitive.ObjectID{},
		ClassName:        req.ClassName,
		RollNo:           req.RollNo,
		Status:           string(models.UserStudying),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Student().Create(ctx, student); err != nil {
		return nil, err
	}

	s.logger.Info("Student created",
		"student_id", student.ID.Hex(),
		"tenant_id", actor.TenantID,
		"created_by", actor.UserID)

	return composeStudentResponse(user, student), nil
}

func (s *studentService) GetByID(ctx context.Context, actor Actor, id string) (*StudentResponse, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	student, err := s.repo.Student().GetByID(ctx, oid)
	if err != nil {
		return nil, mapRepoErr(err, ErrStudentNotFound)
	}
	if student.TenantID.Hex() != actor.TenantID {
		return nil, NewCrossTenantError("student")
	}

	user, err := s.repo.User().GetByID(ctx, student.UserID)
	if err != nil {
		return nil, mapRepoErr(err, ErrUserNotFound)
	}

	return composeStudentResponse(user, student), nil
}

func (s *studentService) GetMe(ctx context.Context, actor Actor) (*StudentResponse, error) {
	return s.GetByID(ctx, actor, actor.ProfileID)
}

func (s *studentService) List(ctx context.Context, actor Actor) ([]*StudentResponse, error) {
	tenantID, err := actorTenantID(actor)
	if err != nil {
		return nil, err
	}

	students, err := s.repo.Student().List(ctx, &tenantID)
	if err != nil {
		return nil, err
	}

	responses := make([]*StudentResponse, 0, len(students))
	for _, student := range students {
		user, err := s.repo.User().GetByID(ctx, student.UserID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				s.logger.Warn("Student profile without account", "student_id", student.ID.Hex())
				continue
			}
			return nil, err
		}
		responses = append(responses, composeStudentResponse(user, student))
	}
	return responses, nil
}

func (s *studentService) Update(ctx context.Context, actor Actor, id string, req *UpdateStudentRequest) (*StudentResponse, error) {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	student, err := s.repo.Student().GetByID(ctx, oid)
	if err != nil {
		return nil, mapRepoErr(err, ErrStudentNotFound)
	}
	if student.TenantID.Hex() != actor.TenantID {
		return nil, NewCrossTenantError("student")
	}

	if actor.Role == models.RoleStudent && actor.ProfileID != id {
		return nil, NewPermissionError(actor.UserID, "student", "update", "not own profile")
	}

	accountFields := map[string]any{}
	if req.FullName != nil {
		accountFields["fullName"] = *req.FullName
	}
	if req.Email != nil {
		accountFields["email"] = *req.Email
	}
	if req.ContactNo != nil {
		accountFields["contactNo"] = *req.ContactNo
	}
	if req.Country != nil {
		accountFields["country"] = *req.Country
	}
	if req.ProfileImageURL != nil {
		accountFields["profileImageUrl"] = *req.ProfileImageURL
	}
	if req.Status != nil {
		accountFields["status"] = *req.Status
	}
	accountFields = validator.SanitizeUpdateMap(accountFields)

	profileFields := map[string]any{}
	if req.ClassName != nil {
		profileFields["className"] = *req.ClassName
	}
	if req.RollNo != nil {
		profileFields["rollNo"] = *req.RollNo
	}
	if req.Status != nil {
		profileFields["status"] = *req.Status
	}
	profileFields = validator.SanitizeUpdateMap(profileFields)

	if email, ok := accountFields["email"].(string); ok {
		if existing, err := s.repo.User().GetByEmail(ctx, email); err == nil && existing.ID != student.UserID {
			return nil, ErrEmailAlreadyExists
		} else if err != nil && !repositories.IsNotFoundError(err) {
			return nil, err
		}
	}

	user, err := s.repo.User().GetByID(ctx, student.UserID)
	if err != nil {
		return nil, mapRepoErr(err, ErrUserNotFound)
	}

	if len(accountFields) > 0 {
		user, err = s.repo.User().Update(ctx, student.UserID, accountFields)
		if err != nil {
			return nil, mapRepoErr(err, ErrUserNotFound)
		}
	}
	if len(profileFields) > 0 {
		student, err = s.repo.Student().Update(ctx, oid, profileFields)
		if err != nil {
			return nil, mapRepoErr(err, ErrStudentNotFound)
		}
	}

	return composeStudentResponse(user, student), nil
}

func (s *studentService) Delete(ctx context.Context, actor Actor, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	student, err := s.repo.Student().GetByID(ctx, oid)
	if err != nil {
		return mapRepoErr(err, ErrStudentNotFound)
	}
	if student.TenantID.Hex() != actor.TenantID {
		return NewCrossTenantError("student")
	}

	if err := s.repo.Student().Delete(ctx, oid); err != nil {
		return mapRepoErr(err, ErrStudentNotFound)
	}
	if err := s.repo.User().Delete(ctx, student.UserID); err != nil && !repositories.IsNotFoundError(err) {
		s.logger.Warn("Failed to delete student account", "student_id", id, "error", err)
	}

	s.logger.Info("Student deleted", "student_id", id, "deleted_by", actor.UserID)
	return nil
}

// GetCourses returns the full course documents the student is enrolled in.
func (s *studentService) GetCourses(ctx context.Context, actor Actor) ([]*models.Course, error) {
	studentID, err := parseObjectID(actor.ProfileID)
	if err != nil {
		return nil, err
	}

	student, err := s.repo.Student().GetByID(ctx, studentID)
	if err != nil {
		return nil, mapRepoErr(err, ErrStudentNotFound)
	}

	return s.repo.Course().ListByIDs(ctx, student.EnrolledCourses)
}

func (s *studentService) Dashboard(ctx context.Context, actor Actor) (*StudentDashboard, error) {
	studentID, err := parseObjectID(actor.ProfileID)
	if err != nil {
		return nil, err
	}

	student, err := s.repo.Student().GetByID(ctx, studentID)
	if err != nil {
		return nil, mapRepoErr(err, ErrStudentNotFound)
	}

	submissions, err := s.repo.AssignmentSubmission().ListByStudent(ctx, studentID, student.TenantID)
	if err != nil {
		return nil, err
	}

	quizzes, err := s.repo.Quiz().ListForCourses(ctx, student.TenantID, student.EnrolledCourses)
	if err != nil {
		return nil, err
	}
	upcoming := 0
	now := time.Now()
	for _, quiz := range quizzes {
		if quiz.DueDate.After(now) && quiz.Status == models.QuizActive {
			upcoming++
		}
	}

	return &StudentDashboard{
		EnrolledCourses:  len(student.EnrolledCourses),
		CompletedCourses: len(student.CompletedCourses),
		UpcomingQuizzes:  upcoming,
		Submissions:      int64(len(submissions)),
	}, nil
}
