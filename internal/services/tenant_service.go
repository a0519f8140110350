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

// Default plan limits applied when a tenant is created without an explicit
// subscription.
var defaultPlanLimits = map[string]models.Subscription{
	"free": {
		Plan: "free", MaxStudents: 50, MaxTeachers: 5, MaxCourses: 10,
		AICredits: 100, StorageGB: 5, PricePerMonth: 0, BillingCycle: "monthly",
	},
	"standard": {
		Plan: "standard", MaxStudents: 500, MaxTeachers: 50, MaxCourses: 100,
		AICredits: 1000, StorageGB: 50, PricePerMonth: 99, BillingCycle: "monthly",
	},
	"premium": {
		Plan: "premium", MaxStudents: 5000, MaxTeachers: 500, MaxCourses: 1000,
		AICredits: 10000, StorageGB: 500, PricePerMonth: 299, BillingCycle: "monthly",
	},
}

type tenantService struct {
	repo           repositories.Repository
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
}

func NewTenantService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) TenantService {
	return &tenantService{
		repo:           repo,
		logger:         logger,
		validator:      v,
		eventPublisher: publisher,
	}
}

// Create registers a tenant and seeds its subscription from the plan's
// default limits.
func (s *tenantService) Create(ctx context.Context, req *CreateTenantRequest) (*models.Tenant, error) {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	if _, err := s.repo.Tenant().GetByName(ctx, req.TenantName); err == nil {
		return nil, ErrTenantNameExists
	} else if !repositories.IsNotFoundError(err) {
		return nil, err
	}

	now := time.Now().UTC()
	tenant := &models.Tenant{
		TenantName:    strings.TrimSpace(req.TenantName),
		AdminEmail:    strings.ToLower(req.AdminEmail),
		TenantLogoURL: req.TenantLogoURL,
		Status:        models.TenantActive,
		CreatedAt:     now,
	}

	if err := s.repo.Tenant().Create(ctx, tenant); err != nil {
		return nil, err
	}

	plan := "free"
	if req.Plan != nil && *req.Plan != "" {
		plan = *req.Plan
	}
	limits, ok := defaultPlanLimits[plan]
	if !ok {
		limits = defaultPlanLimits["free"]
	}

	subscription := limits
	subscription.TenantID = tenant.ID
	subscription.Status = "active"
	subscription.ExpiryDate = now.AddDate(0, 1, 0)
	subscription.CreatedAt = now

	if err := s.repo.Subscription().Create(ctx, &subscription); err != nil {
		s.logger.Error("Failed to seed tenant subscription",
			"tenant_id", tenant.ID.Hex(), "error", err)
	} else {
		if _, err := s.repo.Tenant().Update(ctx, tenant.ID, map[string]any{
			"subscriptionId": subscription.ID,
		}); err != nil {
			s.logger.Warn("Failed to link subscription to tenant",
				"tenant_id", tenant.ID.Hex(), "error", err)
		} else {
			tenant.SubscriptionID = &subscription.ID
		}
	}

	s.publishEvent(ctx, events.EventTenantCreated, map[string]any{
		"tenantId":   tenant.ID.Hex(),
		"tenantName": tenant.TenantName,
		"plan":       subscription.Plan,
	})

	s.logger.Info("Tenant created", "tenant_id", tenant.ID.Hex(), "name", tenant.TenantName)
	return tenant, nil
}

func (s *tenantService) GetByID(ctx context.Context, id string) (*models.Tenant, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	tenant, err := s.repo.Tenant().GetByID(ctx, oid)
	if err != nil {
		return nil, mapRepoErr(err, ErrTenantNotFound)
	}
	return tenant, nil
}

func (s *tenantService) List(ctx context.Context, req *ListTenantsRequest) (*TenantListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	tenants, total, err := s.repo.Tenant().List(ctx, repositories.TenantFilters{
		Status: req.Status,
		Search: req.Search,
		Sort:   req.Sort,
		Skip:   (page - 1) * limit,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	return &TenantListResponse{
		Tenants: tenants,
		Total:   total,
		Page:    page,
		Limit:   limit,
	}, nil
}

func (s *tenantService) Update(ctx context.Context, id string, req *UpdateTenantRequest) (*models.Tenant, error) {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.TenantName != nil {
		fields["tenantName"] = *req.TenantName
	}
	if req.AdminEmail != nil {
		fields["adminEmail"] = strings.ToLower(*req.AdminEmail)
	}
	if req.TenantLogoURL != nil {
		fields["tenantLogoUrl"] = *req.TenantLogoURL
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	fields = validator.SanitizeUpdateMap(fields)

	if name, ok := fields["tenantName"].(string); ok {
		if existing, err := s.repo.Tenant().GetByName(ctx, name); err == nil && existing.ID != oid {
			return nil, ErrTenantNameExists
		} else if err != nil && !repositories.IsNotFoundError(err) {
			return nil, err
		}
	}

	tenant, err := s.repo.Tenant().Update(ctx, oid, fields)
	if err != nil {
		return nil, mapRepoErr(err, ErrTenantNotFound)
	}
	return tenant, nil
}

// Delete removes the tenant and its subscription. Profiles and courses
// under the tenant are left for an offline cleanup job.
func (s *tenantService) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	if err := s.repo.Tenant().Delete(ctx, oid); err != nil {
		return mapRepoErr(err, ErrTenantNotFound)
	}

	if err := s.repo.Subscription().DeleteByTenant(ctx, oid); err != nil && !repositories.IsNotFoundError(err) {
		s.logger.Warn("Failed to delete tenant subscription", "tenant_id", id, "error", err)
	}

	s.logger.Info("Tenant deleted", "tenant_id", id)
	return nil
}

func (s *tenantService) publishEvent(ctx context.Context, eventType string, data any) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		s.logger.Warn("Failed to publish event", "event_type", eventType, "error", err)
	}
}
