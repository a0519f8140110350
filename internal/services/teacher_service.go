package services

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/eduverse/school-service/internal/models"
	"github.com/eduverse/school-service/internal/repositories"
	"github.com/eduverse/school-service/internal/validator"
)

type teacherService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewTeacherService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) TeacherService {
	return &teacherService{repo: repo, logger: logger, validator: v}
}

// Create registers the account and the teacher profile in the actor's tenant.
func (s *teacherService) Create(ctx context.Context, actor Actor, req *CreateTeacherRequest) (*TeacherResponse, error) {
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
		Role:            models.RoleTeacher,
		Status:          models.UserActive,
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

	teacher := &models.Teacher{
		UserID:          user.ID,
		TenantID:        tenantID,
		AssignedCourses: []primitive.ObjectID{},
		Qualifications:  req.Qualifications,
		Subjects:        req.Subjects,
		Status:          string(models.UserActive),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Teacher().Create(ctx, teacher); err != nil {
		return nil, err
	}

	s.logger.Info("Teacher created",
		"teacher_id", teacher.ID.Hex(),
		"tenant_id", actor.TenantID,
		"created_by", actor.UserID)

	return composeTeacherResponse(user, teacher), nil
}

func (s *teacherService) GetByID(ctx context.Context, actor Actor, id string) (*TeacherResponse, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	teacher, err := s.repo.Teacher().GetByID(ctx, oid)
	if err != nil {
		return nil, mapRepoErr(err, ErrTeacherNotFound)
	}
	if teacher.TenantID.Hex() != actor.TenantID {
		return nil, NewCrossTenantError("teacher")
	}

	user, err := s.repo.User().GetByID(ctx, teacher.UserID)
	if err != nil {
		return nil, mapRepoErr(err, ErrUserNotFound)
	}

	return composeTeacherResponse(user, teacher), nil
}

func (s *teacherService) GetMe(ctx context.Context, actor Actor) (*TeacherResponse, error) {
	return s.GetByID(ctx, actor, actor.ProfileID)
}

func (s *teacherService) List(ctx context.Context, actor Actor) ([]*TeacherResponse, error) {
	tenantID, err := actorTenantID(actor)
	if err != nil {
		return nil, err
	}

	teachers, err := s.repo.Teacher().List(ctx, &tenantID)
	if err != nil {
		return nil, err
	}

	responses := make([]*TeacherResponse, 0, len(teachers))
	for _, teacher := range teachers {
		user, err := s.repo.User().GetByID(ctx, teacher.UserID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				s.logger.Warn("Teacher profile without account", "teacher_id", teacher.ID.Hex())
				continue
			}
			return nil, err
		}
		responses = append(responses, composeTeacherResponse(user, teacher))
	}
	return responses, nil
}

// Update partitions the payload: account fields go to the user document,
// profile fields to the teacher document. Both updates run through the
// same sanitization as every partial update.
func (s *teacherService) Update(ctx context.Context, actor Actor, id string, req *UpdateTeacherRequest) (*TeacherResponse, error) {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	teacher, err := s.repo.Teacher().GetByID(ctx, oid)
	if err != nil {
		return nil, mapRepoErr(err, ErrTeacherNotFound)
	}
	if teacher.TenantID.Hex() != actor.TenantID {
		return nil, NewCrossTenantError("teacher")
	}

	// Teachers may only edit their own profile; admins may edit any.
	if actor.Role == models.RoleTeacher && actor.ProfileID != id {
		return nil, NewPermissionError(actor.UserID, "teacher", "update", "not own profile")
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
	if req.Qualifications != nil {
		profileFields["qualifications"] = req.Qualifications
	}
	if req.Subjects != nil {
		profileFields["subjects"] = req.Subjects
	}
	if req.Status != nil {
		profileFields["status"] = *req.Status
	}
	profileFields = validator.SanitizeUpdateMap(profileFields)

	if email, ok := accountFields["email"].(string); ok {
		if existing, err := s.repo.User().GetByEmail(ctx, email); err == nil && existing.ID != teacher.UserID {
			return nil, ErrEmailAlreadyExists
		} else if err != nil && !repositories.IsNotFoundError(err) {
			return nil, err
		}
	}

	user, err := s.repo.User().GetByID(ctx, teacher.UserID)
	if err != nil {
		return nil, mapRepoErr(err, ErrUserNotFound)
	}

	if len(accountFields) > 0 {
		user, err = s.repo.User().Update(ctx, teacher.UserID, accountFields)
		if err != nil {
			return nil, mapRepoErr(err, ErrUserNotFound)
		}
	}
	if len(profileFields) > 0 {
		teacher, err = s.repo.Teacher().Update(ctx, oid, profileFields)
		if err != nil {
			return nil, mapRepoErr(err, ErrTeacherNotFound)
		}
	}

	return composeTeacherResponse(user, teacher), nil
}

// Delete removes both the profile and the account.
func (s *teacherService) Delete(ctx context.Context, actor Actor, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	teacher, err := s.repo.Teacher().GetByID(ctx, oid)
	if err != nil {
		return mapRepoErr(err, ErrTeacherNotFound)
	}
	if teacher.TenantID.Hex() != actor.TenantID {
		return NewCrossTenantError("teacher")
	}

	if err := s.repo.Teacher().Delete(ctx, oid); err != nil {
		return mapRepoErr(err, ErrTeacherNotFound)
	}
	if err := s.repo.User().Delete(ctx, teacher.UserID); err != nil && !repositories.IsNotFoundError(err) {
		s.logger.Warn("Failed to delete teacher account", "teacher_id", id, "error", err)
	}

	s.logger.Info("Teacher deleted", "teacher_id", id, "deleted_by", actor.UserID)
	return nil
}

// ListStudents aggregates the roster across the teacher's assigned courses,
// deduplicating students enrolled in more than one of them.
func (s *teacherService) ListStudents(ctx context.Context, actor Actor, id string) ([]*StudentResponse, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	teacher, err := s.repo.Teacher().GetByID(ctx, oid)
	if err != nil {
		return nil, mapRepoErr(err, ErrTeacherNotFound)
	}
	if teacher.TenantID.Hex() != actor.TenantID {
		return nil, NewCrossTenantError("teacher")
	}

	// Teachers may only view their own roster; admins may view any.
	if actor.Role == models.RoleTeacher && actor.ProfileID != id {
		return nil, NewPermissionError(actor.UserID, "teacher", "list_students", "not own roster")
	}

	seen := make(map[primitive.ObjectID]struct{})
	responses := make([]*StudentResponse, 0)
	for _, courseID := range teacher.AssignedCourses {
		students, err := s.repo.Student().ListByCourse(ctx, teacher.TenantID, courseID)
		if err != nil {
			return nil, err
		}
		for _, student := range students {
			if _, ok := seen[student.ID]; ok {
				continue
			}
			seen[student.ID] = struct{}{}

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
	}

	sort.Slice(responses, func(i, j int) bool {
		return responses[i].FullName < responses[j].FullName
	})
	return responses, nil
}

func (s *teacherService) Dashboard(ctx context.Context, actor Actor) (*TeacherDashboard, error) {
	teacherID, err := parseObjectID(actor.ProfileID)
	if err != nil {
		return nil, err
	}

	teacher, err := s.repo.Teacher().GetByID(ctx, teacherID)
	if err != nil {
		return nil, mapRepoErr(err, ErrTeacherNotFound)
	}

	courses, err := s.repo.Course().CountByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	students, err := s.repo.Student().CountByCourses(ctx, teacher.AssignedCourses)
	if err != nil {
		return nil, err
	}
	assignments, err := s.repo.Assignment().CountByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	quizzes, err := s.repo.Quiz().CountByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	return &TeacherDashboard{
		TotalCourses:     courses,
		TotalStudents:    students,
		TotalAssignments: assignments,
		TotalQuizzes:     quizzes,
	}, nil
}
