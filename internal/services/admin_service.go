package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/eduverse/school-service/internal/models"
	"github.com/eduverse/school-service/internal/repositories"
	"github.com/eduverse/school-service/internal/validator"
)

type adminService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAdminService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) AdminService {
	return &adminService{repo: repo, logger: logger, validator: v}
}

// Create registers a tenant admin. Only super admins may call this, which
// is why the tenant id comes from the payload rather than the actor.
func (s *adminService) Create(ctx context.Context, actor Actor, req *CreateAdminRequest) (*AdminResponse, error) {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	tenantID, err := parseObjectID(req.TenantID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.Tenant().GetByID(ctx, tenantID); err != nil {
		return nil, mapRepoErr(err, ErrTenantNotFound)
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
		Role:            models.RoleAdmin,
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

	admin := &models.Admin{
		UserID:    user.ID,
		TenantID:  tenantID,
		Status:    string(models.UserActive),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Admin().Create(ctx, admin); err != nil {
		return nil, err
	}

	s.logger.Info("Admin created",
		"admin_id", admin.ID.Hex(),
		"tenant_id", req.TenantID,
		"created_by", actor.UserID)

	return composeAdminResponse(user, admin), nil
}

func (s *adminService) GetMe(ctx context.Context, actor Actor) (*AdminResponse, error) {
	oid, err := parseObjectID(actor.ProfileID)
	if err != nil {
		return nil, err
	}

	admin, err := s.repo.Admin().GetByID(ctx, oid)
	if err != nil {
		return nil, mapRepoErr(err, ErrAdminNotFound)
	}

	user, err := s.repo.User().GetByID(ctx, admin.UserID)
	if err != nil {
		return nil, mapRepoErr(err, ErrUserNotFound)
	}

	return composeAdminResponse(user, admin), nil
}

func (s *adminService) Update(ctx context.Context, actor Actor, id string, req *UpdateAdminRequest) (*AdminResponse, error) {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	admin, err := s.repo.Admin().GetByID(ctx, oid)
	if err != nil {
		return nil, mapRepoErr(err, ErrAdminNotFound)
	}
	if actor.Role == models.RoleAdmin && admin.TenantID.Hex() != actor.TenantID {
		return nil, NewCrossTenantError("admin")
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

	if email, ok := accountFields["email"].(string); ok {
		if existing, err := s.repo.User().GetByEmail(ctx, email); err == nil && existing.ID != admin.UserID {
			return nil, ErrEmailAlreadyExists
		} else if err != nil && !repositories.IsNotFoundError(err) {
			return nil, err
		}
	}

	user, err := s.repo.User().GetByID(ctx, admin.UserID)
	if err != nil {
		return nil, mapRepoErr(err, ErrUserNotFound)
	}

	if len(accountFields) > 0 {
		user, err = s.repo.User().Update(ctx, admin.UserID, accountFields)
		if err != nil {
			return nil, mapRepoErr(err, ErrUserNotFound)
		}
		if status, ok := accountFields["status"]; ok {
			if admin, err = s.repo.Admin().Update(ctx, oid, map[string]any{"status": status}); err != nil {
				return nil, mapRepoErr(err, ErrAdminNotFound)
			}
		}
	}

	return composeAdminResponse(user, admin), nil
}

func (s *adminService) Delete(ctx context.Context, actor Actor, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	admin, err := s.repo.Admin().GetByID(ctx, oid)
	if err != nil {
		return mapRepoErr(err, ErrAdminNotFound)
	}

	if err := s.repo.Admin().Delete(ctx, oid); err != nil {
		return mapRepoErr(err, ErrAdminNotFound)
	}
	if err := s.repo.User().Delete(ctx, admin.UserID); err != nil && !repositories.IsNotFoundError(err) {
		s.logger.Warn("Failed to delete admin account", "admin_id", id, "error", err)
	}

	s.logger.Info("Admin deleted", "admin_id", id, "deleted_by", actor.UserID)
	return nil
}

// Dashboard aggregates tenant-wide counts.
func (s *adminService) Dashboard(ctx context.Context, actor Actor) (*AdminDashboard, error) {
	tenantID, err := actorTenantID(actor)
	if err != nil {
		return nil, err
	}

	teachers, err := s.repo.Teacher().List(ctx, &tenantID)
	if err != nil {
		return nil, err
	}
	students, err := s.repo.Student().List(ctx, &tenantID)
	if err != nil {
		return nil, err
	}

	_, totalCourses, err := s.repo.Course().List(ctx, tenantID, repositories.CourseFilters{Limit: 1})
	if err != nil {
		return nil, err
	}
	published := string(models.CoursePublished)
	_, publishedCourses, err := s.repo.Course().List(ctx, tenantID, repositories.CourseFilters{
		Status: &published,
		Limit:  1,
	})
	if err != nil {
		return nil, err
	}

	return &AdminDashboard{
		TotalTeachers:    int64(len(teachers)),
		TotalStudents:    int64(len(students)),
		TotalCourses:     totalCourses,
		PublishedCourses: publishedCourses,
	}, nil
}
