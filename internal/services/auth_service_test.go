package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/eduverse/school-service/internal/events"
	"github.com/eduverse/school-service/internal/models"
	"github.com/eduverse/school-service/internal/validator"
)

func newAuthFixture(t *testing.T, expiry time.Duration) (*fakeRepository, AuthService) {
	t.Helper()
	repo := newFakeRepository()
	v := validator.New()
	tenants := NewTenantService(repo, testLogger(), v, events.NewMockEventPublisher(testLogger()))
	service := NewAuthService(repo, testLogger(), v, tenants, "test-secret", expiry)
	return repo, service
}

func seedStudentAccount(t *testing.T, repo *fakeRepository, email, password string) (*models.User, *models.Student) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		ID:       primitive.NewObjectID(),
		FullName: "Dana Smith",
		Email:    email,
		Password: string(hash),
		Role:     models.RoleStudent,
		Status:   models.UserActive,
	}
	repo.users.users[user.ID] = user

	student := &models.Student{
		ID:       primitive.NewObjectID(),
		UserID:   user.ID,
		TenantID: primitive.NewObjectID(),
	}
	repo.students.students[student.ID] = student

	return user, student
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials issue a parseable token", func(t *testing.T) {
		repo, service := newAuthFixture(t, time.Hour)
		user, student := seedStudentAccount(t, repo, "dana@example.com", "correct horse")

		resp, err := service.Login(ctx, &LoginRequest{Email: "dana@example.com", Password: "correct horse"})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}

		if resp.TokenType != "bearer" {
			t.Errorf("expected bearer token type, got %s", resp.TokenType)
		}
		if resp.ExpiresIn != 3600 {
			t.Errorf("expected 3600s expiry, got %d", resp.ExpiresIn)
		}
		if resp.User.ProfileID == nil || *resp.User.ProfileID != student.ID.Hex() {
			t.Errorf("profile id not resolved into the response")
		}

		claims, err := service.ParseToken(resp.AccessToken)
		if err != nil {
			t.Fatalf("ParseToken failed: %v", err)
		}
		if claims.UserID != user.ID.Hex() {
			t.Errorf("expected uid %s, got %s", user.ID.Hex(), claims.UserID)
		}
		if claims.Role != models.RoleStudent {
			t.Errorf("expected student role, got %s", claims.Role)
		}
		if claims.TenantID != student.TenantID.Hex() {
			t.Errorf("tenant id not pinned into the token")
		}
		if claims.ProfileID != student.ID.Hex() {
			t.Errorf("profile id not pinned into the token")
		}
	})

	t.Run("wrong password is invalid credentials", func(t *testing.T) {
		repo, service := newAuthFixture(t, time.Hour)
		seedStudentAccount(t, repo, "dana@example.com", "correct horse")

		_, err := service.Login(ctx, &LoginRequest{Email: "dana@example.com", Password: "battery staple"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email is invalid credentials, not not-found", func(t *testing.T) {
		_, service := newAuthFixture(t, time.Hour)

		_, err := service.Login(ctx, &LoginRequest{Email: "ghost@example.com", Password: "whatever"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("inactive accounts cannot log in", func(t *testing.T) {
		repo, service := newAuthFixture(t, time.Hour)
		user, _ := seedStudentAccount(t, repo, "dana@example.com", "correct horse")
		user.Status = models.UserInactive

		_, err := service.Login(ctx, &LoginRequest{Email: "dana@example.com", Password: "correct horse"})
		if !errors.Is(err, ErrAccountInactive) {
			t.Fatalf("expected ErrAccountInactive, got %v", err)
		}
	})

	t.Run("expired tokens are rejected", func(t *testing.T) {
		repo, service := newAuthFixture(t, -time.Minute)
		seedStudentAccount(t, repo, "dana@example.com", "correct horse")

		resp, err := service.Login(ctx, &LoginRequest{Email: "dana@example.com", Password: "correct horse"})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}

		if _, err := service.ParseToken(resp.AccessToken); err == nil {
			t.Fatal("expected an error parsing an expired token")
		}
	})

	t.Run("tampered tokens are rejected", func(t *testing.T) {
		repo, service := newAuthFixture(t, time.Hour)
		seedStudentAccount(t, repo, "dana@example.com", "correct horse")

		resp, err := service.Login(ctx, &LoginRequest{Email: "dana@example.com", Password: "correct horse"})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}

		other := NewAuthService(newFakeRepository(), testLogger(), validator.New(), nil, "different-secret", time.Hour)
		if _, err := other.ParseToken(resp.AccessToken); err == nil {
			t.Fatal("expected a signature error with a different secret")
		}
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("requires the current password", func(t *testing.T) {
		repo, service := newAuthFixture(t, time.Hour)
		user, _ := seedStudentAccount(t, repo, "dana@example.com", "correct horse")

		err := service.ChangePassword(ctx, user.ID.Hex(), &ChangePasswordRequest{
			CurrentPassword: "wrong guess",
			NewPassword:     "a-new-password",
		})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("short new passwords fail validation", func(t *testing.T) {
		repo, service := newAuthFixture(t, time.Hour)
		user, _ := seedStudentAccount(t, repo, "dana@example.com", "correct horse")

		err := service.ChangePassword(ctx, user.ID.Hex(), &ChangePasswordRequest{
			CurrentPassword: "correct horse",
			NewPassword:     "short",
		})
		if err == nil {
			t.Fatal("expected a validation error")
		}
	})
}

func TestAuthService_AdminSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("bootstraps tenant, account and profile", func(t *testing.T) {
		repo, service := newAuthFixture(t, time.Hour)

		resp, err := service.AdminSignup(ctx, &AdminSignupRequest{
			TenantName: "Northside High",
			FullName:   "Dana Smith",
			Email:      "dana@northside.edu",
			Password:   "correct horse",
		})
		if err != nil {
			t.Fatalf("AdminSignup failed: %v", err)
		}

		claims, err := service.ParseToken(resp.AccessToken)
		if err != nil {
			t.Fatalf("issued token does not parse: %v", err)
		}
		if claims.Role != models.RoleAdmin {
			t.Errorf("role = %q, want admin", claims.Role)
		}
		if claims.TenantID == "" || claims.ProfileID == "" {
			t.Errorf("tenant/profile ids missing from claims")
		}

		tenant, err := repo.tenants.GetByName(ctx, "Northside High")
		if err != nil {
			t.Fatalf("tenant not created: %v", err)
		}
		sub, err := repo.subscriptions.GetByTenant(ctx, tenant.ID)
		if err != nil {
			t.Fatalf("default subscription not seeded: %v", err)
		}
		if sub.Plan != "free" {
			t.Errorf("plan = %q, want free", sub.Plan)
		}
		if _, err := repo.admins.GetByID(ctx, mustObjectID(t, claims.ProfileID)); err != nil {
			t.Errorf("admin profile not created: %v", err)
		}
	})

	t.Run("duplicate tenant name is rejected", func(t *testing.T) {
		_, service := newAuthFixture(t, time.Hour)

		first := &AdminSignupRequest{
			TenantName: "Northside High",
			FullName:   "Dana Smith",
			Email:      "dana@northside.edu",
			Password:   "correct horse",
		}
		if _, err := service.AdminSignup(ctx, first); err != nil {
			t.Fatalf("first signup failed: %v", err)
		}

		_, err := service.AdminSignup(ctx, &AdminSignupRequest{
			TenantName: "Northside High",
			FullName:   "Evan Park",
			Email:      "evan@northside.edu",
			Password:   "correct horse",
		})
		if !errors.Is(err, ErrTenantNameExists) {
			t.Fatalf("expected ErrTenantNameExists, got %v", err)
		}
	})

	t.Run("duplicate email is rejected before any writes", func(t *testing.T) {
		repo, service := newAuthFixture(t, time.Hour)
		seedStudentAccount(t, repo, "dana@example.com", "pw")

		_, err := service.AdminSignup(ctx, &AdminSignupRequest{
			TenantName: "Northside High",
			FullName:   "Dana Smith",
			Email:      "dana@example.com",
			Password:   "correct horse",
		})
		if !errors.Is(err, ErrEmailAlreadyExists) {
			t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
		}
		if len(repo.tenants.tenants) != 0 {
			t.Errorf("tenant created despite email conflict")
		}
	})
}

func TestAuthService_TeacherSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("registers teacher under an existing tenant", func(t *testing.T) {
		repo, service := newAuthFixture(t, time.Hour)
		tenant := &models.Tenant{ID: primitive.NewObjectID(), TenantName: "Northside High"}
		repo.tenants.tenants[tenant.ID] = tenant

		resp, err := service.TeacherSignup(ctx, &TeacherSignupRequest{
			TenantID: tenant.ID.Hex(),
			FullName: "Evan Park",
			Email:    "evan@northside.edu",
			Password: "correct horse",
			Subjects: []string{"physics"},
		})
		if err != nil {
			t.Fatalf("TeacherSignup failed: %v", err)
		}

		claims, err := service.ParseToken(resp.AccessToken)
		if err != nil {
			t.Fatalf("issued token does not parse: %v", err)
		}
		if claims.Role != models.RoleTeacher {
			t.Errorf("role = %q, want teacher", claims.Role)
		}
		if claims.TenantID != tenant.ID.Hex() {
			t.Errorf("tenant claim = %q, want %q", claims.TenantID, tenant.ID.Hex())
		}

		teacher, err := repo.teachers.GetByID(ctx, mustObjectID(t, claims.ProfileID))
		if err != nil {
			t.Fatalf("teacher profile not created: %v", err)
		}
		if len(teacher.Subjects) != 1 || teacher.Subjects[0] != "physics" {
			t.Errorf("subjects not recorded: %v", teacher.Subjects)
		}
	})

	t.Run("unknown tenant is rejected", func(t *testing.T) {
		_, service := newAuthFixture(t, time.Hour)

		_, err := service.TeacherSignup(ctx, &TeacherSignupRequest{
			TenantID: primitive.NewObjectID().Hex(),
			FullName: "Evan Park",
			Email:    "evan@northside.edu",
			Password: "correct horse",
		})
		if !errors.Is(err, ErrTenantNotFound) {
			t.Fatalf("expected ErrTenantNotFound, got %v", err)
		}
	})
}

func mustObjectID(t *testing.T, hex string) primitive.ObjectID {
	t.Helper()
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		t.Fatalf("invalid object id %q: %v", hex, err)
	}
	return oid
}

func TestAuthService_VerifyUser(t *testing.T) {
	ctx := context.Background()
	repo, service := newAuthFixture(t, time.Hour)
	user, _ := seedStudentAccount(t, repo, "dana@example.com", "pw")

	if err := service.VerifyUser(ctx, user.ID.Hex()); err != nil {
		t.Fatalf("VerifyUser failed for an active account: %v", err)
	}

	user.Status = models.UserInactive
	if err := service.VerifyUser(ctx, user.ID.Hex()); !errors.Is(err, ErrAccountInactive) {
		t.Fatalf("expected ErrAccountInactive, got %v", err)
	}

	if err := service.VerifyUser(ctx, primitive.NewObjectID().Hex()); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
