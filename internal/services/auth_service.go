package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/eduverse/school-service/internal/models"
	"github.com/eduverse/school-service/internal/repositories"
	"github.com/eduverse/school-service/internal/validator"
)

// Claims carried in access tokens. TenantID and ProfileID are empty for
// super admins, who are not bound to a tenant.
type Claims struct {
	UserID    string          `json:"uid"`
	TenantID  string          `json:"tid,omitempty"`
	Role      models.UserRole `json:"role"`
	ProfileID string          `json:"pid,omitempty"`
	jwt.RegisteredClaims
}

type authService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	tenants   TenantService
	jwtSecret []byte
	jwtExpiry time.Duration
}

func NewAuthService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, tenants TenantService, jwtSecret string, jwtExpiry time.Duration) AuthService {
	return &authService{
		repo:      repo,
		logger:    logger,
		validator: v,
		tenants:   tenants,
		jwtSecret: []byte(jwtSecret),
		jwtExpiry: jwtExpiry,
	}
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !accountIsActive(user) {
		return nil, ErrAccountInactive
	}

	tenantID, profileID, err := s.resolveProfile(ctx, user)
	if err != nil && !errors.Is(err, errNoProfile) {
		return nil, err
	}

	if err := s.repo.User().UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("Failed to update last login", "user_id", user.ID.Hex(), "error", err)
	}

	s.logger.Info("User logged in", "user_id", user.ID.Hex(), "role", user.Role)

	return s.sessionResponse(user, tenantID, profileID)
}

// AdminSignup bootstraps a school in one call: tenant, admin account and
// admin profile, ordered so a partial failure is retry-safe.
func (s *authService) AdminSignup(ctx context.Context, req *AdminSignupRequest) (*LoginResponse, error) {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	_, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err := ensureEmailAvailable(err); err != nil {
		return nil, err
	}

	tenant, err := s.tenants.Create(ctx, &CreateTenantRequest{
		TenantName: req.TenantName,
		AdminEmail: req.Email,
		Plan:       req.Plan,
	})
	if err != nil {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &models.User{
		FullName:  strings.TrimSpace(req.FullName),
		Email:     strings.ToLower(req.Email),
		Password:  hash,
		Role:      models.RoleAdmin,
		Status:    models.UserActive,
		TenantID:  &tenant.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.User().Create(ctx, user); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	admin := &models.Admin{
		UserID:    user.ID,
		TenantID:  tenant.ID,
		Status:    string(models.UserActive),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Admin().Create(ctx, admin); err != nil {
		return nil, err
	}

	s.logger.Info("Admin signed up",
		"user_id", user.ID.Hex(),
		"tenant_id", tenant.ID.Hex())

	return s.sessionResponse(user, tenant.ID.Hex(), admin.ID.Hex())
}

// TeacherSignup registers a teacher account and profile under an existing
// tenant.
func (s *authService) TeacherSignup(ctx context.Context, req *TeacherSignupRequest) (*LoginResponse, error) {
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
		FullName:  strings.TrimSpace(req.FullName),
		Email:     strings.ToLower(req.Email),
		Password:  hash,
		Role:      models.RoleTeacher,
		Status:    models.UserActive,
		TenantID:  &tenantID,
		CreatedAt: now,
		UpdatedAt: now,
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

	s.logger.Info("Teacher signed up",
		"user_id", user.ID.Hex(),
		"tenant_id", req.TenantID)

	return s.sessionResponse(user, req.TenantID, teacher.ID.Hex())
}

func (s *authService) sessionResponse(user *models.User, tenantID, profileID string) (*LoginResponse, error) {
	token, err := s.generateToken(user, tenantID, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	info := AuthUserInfo{
		ID:              user.ID.Hex(),
		FullName:        user.FullName,
		Email:           user.Email,
		Role:            user.Role,
		ProfileImageURL: user.ProfileImageURL,
	}
	if tenantID != "" {
		info.TenantID = &tenantID
	}
	if profileID != "" {
		info.ProfileID = &profileID
	}

	return &LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.jwtExpiry.Seconds()),
		User:        info,
	}, nil
}

// resolveProfile loads the role-specific profile to pin tenant and profile
// ids into the token.
func (s *authService) resolveProfile(ctx context.Context, user *models.User) (tenantID, profileID string, err error) {
	switch user.Role {
	case models.RoleTeacher:
		teacher, err := s.repo.Teacher().GetByUserID(ctx, user.ID)
		if err != nil {
			return "", "", mapRepoErr(err, errNoProfile)
		}
		return teacher.TenantID.Hex(), teacher.ID.Hex(), nil
	case models.RoleStudent:
		student, err := s.repo.Student().GetByUserID(ctx, user.ID)
		if err != nil {
			return "", "", mapRepoErr(err, errNoProfile)
		}
		return student.TenantID.Hex(), student.ID.Hex(), nil
	case models.RoleAdmin:
		admin, err := s.repo.Admin().GetByUserID(ctx, user.ID)
		if err != nil {
			return "", "", mapRepoErr(err, errNoProfile)
		}
		return admin.TenantID.Hex(), admin.ID.Hex(), nil
	case models.RoleSuperAdmin:
		return "", "", nil
	}
	return "", "", errNoProfile
}

func (s *authService) generateToken(user *models.User, tenantID, profileID string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    user.ID.Hex(),
		TenantID:  tenantID,
		Role:      user.Role,
		ProfileID: profileID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiry)),
			Issuer:    "school-service",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *authService) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// VerifyUser backs the auth middleware: a revoked or deactivated account
// must stop working even while its tokens are still within their TTL.
func (s *authService) VerifyUser(ctx context.Context, userID string) error {
	oid, err := parseObjectID(userID)
	if err != nil {
		return err
	}

	user, err := s.repo.User().GetByID(ctx, oid)
	if err != nil {
		return mapRepoErr(err, ErrUserNotFound)
	}
	if !accountIsActive(user) {
		return ErrAccountInactive
	}
	return nil
}

func (s *authService) ChangePassword(ctx context.Context, userID string, req *ChangePasswordRequest) error {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return errs
	}

	oid, err := parseObjectID(userID)
	if err != nil {
		return err
	}

	user, err := s.repo.User().GetByID(ctx, oid)
	if err != nil {
		return mapRepoErr(err, ErrUserNotFound)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if _, err := s.repo.User().Update(ctx, oid, map[string]any{"password": string(hash)}); err != nil {
		return mapRepoErr(err, ErrUserNotFound)
	}

	s.logger.Info("Password changed", "user_id", userID)
	return nil
}

// hashPassword is shared by the profile creation services.
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
