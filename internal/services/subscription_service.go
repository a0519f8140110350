package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/eduverse/school-service/internal/events"
	"github.com/eduverse/school-service/internal/models"
	"github.com/eduverse/school-service/internal/repositories"
	"github.com/eduverse/school-service/internal/validator"
)

const (
	SubscriptionActive    = "active"
	SubscriptionExpired   = "expired"
	SubscriptionCancelled = "cancelled"
)

type subscriptionService struct {
	repo           repositories.Repository
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
}

func NewSubscriptionService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) SubscriptionService {
	return &subscriptionService{
		repo:           repo,
		logger:         logger,
		validator:      v,
		eventPublisher: publisher,
	}
}

func (s *subscriptionService) Create(ctx context.Context, req *CreateSubscriptionRequest) (*models.Subscription, error) {
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

	// One subscription per tenant.
	if existing, err := s.repo.Subscription().GetByTenant(ctx, tenantID); err == nil && existing != nil {
		return nil, NewBusinessRuleError("subscription_exists", "tenant already has a subscription")
	} else if err != nil && !repositories.IsNotFoundError(err) {
		return nil, err
	}

	billingCycle := req.BillingCycle
	if billingCycle == "" {
		billingCycle = "monthly"
	}

	subscription := &models.Subscription{
		TenantID:       tenantID,
		Plan:           req.Plan,
		MaxStudents:    req.MaxStudents,
		MaxTeachers:    req.MaxTeachers,
		MaxCourses:     req.MaxCourses,
		AICredits:      req.AICredits,
		StorageGB:      req.StorageGB,
		PricePerMonth:  req.PricePerMonth,
		BillingCycle:   billingCycle,
		Status:         SubscriptionActive,
		ExpiryDate:     req.ExpiryDate,
		PaymentHistory: []models.PaymentRecord{},
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.repo.Subscription().Create(ctx, subscription); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.EventSubscriptionChanged, map[string]any{
		"tenantId": req.TenantID,
		"plan":     req.Plan,
		"action":   "created",
	})

	s.logger.Info("Subscription created",
		"tenant_id", req.TenantID,
		"plan", req.Plan)

	return subscription, nil
}

func (s *subscriptionService) GetByTenant(ctx context.Context, tenantID string) (*models.Subscription, error) {
	oid, err := parseObjectID(tenantID)
	if err != nil {
		return nil, err
	}

	subscription, err := s.repo.Subscription().GetByTenant(ctx, oid)
	if err != nil {
		return nil, mapRepoErr(err, ErrSubscriptionNotFound)
	}
	return subscription, nil
}

func (s *subscriptionService) List(ctx context.Context) ([]*models.Subscription, error) {
	return s.repo.Subscription().List(ctx)
}

func (s *subscriptionService) Update(ctx context.Context, tenantID string, req *UpdateSubscriptionRequest) (*models.Subscription, error) {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	oid, err := parseObjectID(tenantID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Plan != nil {
		fields["plan"] = *req.Plan
	}
	if req.MaxStudents != nil {
		fields["maxStudents"] = *req.MaxStudents
	}
	if req.MaxTeachers != nil {
		fields["maxTeachers"] = *req.MaxTeachers
	}
	if req.MaxCourses != nil {
		fields["maxCourses"] = *req.MaxCourses
	}
	if req.AICredits != nil {
		fields["aiCredits"] = *req.AICredits
	}
	if req.StorageGB != nil {
		fields["storageGb"] = *req.StorageGB
	}
	if req.PricePerMonth != nil {
		fields["pricePerMonth"] = *req.PricePerMonth
	}
	if req.BillingCycle != nil {
		fields["billingCycle"] = *req.BillingCycle
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.ExpiryDate != nil {
		fields["expiryDate"] = *req.ExpiryDate
	}
	fields = validator.SanitizeUpdateMap(fields)

	updated, err := s.repo.Subscription().UpdateByTenant(ctx, oid, fields)
	if err != nil {
		return nil, mapRepoErr(err, ErrSubscriptionNotFound)
	}

	s.publishEvent(ctx, events.EventSubscriptionChanged, map[string]any{
		"tenantId": tenantID,
		"plan":     updated.Plan,
		"action":   "updated",
	})

	s.logger.Info("Subscription updated", "tenant_id", tenantID, "plan", updated.Plan)
	return updated, nil
}

func (s *subscriptionService) Delete(ctx context.Context, tenantID string) error {
	oid, err := parseObjectID(tenantID)
	if err != nil {
		return err
	}

	if err := s.repo.Subscription().DeleteByTenant(ctx, oid); err != nil {
		return mapRepoErr(err, ErrSubscriptionNotFound)
	}

	s.publishEvent(ctx, events.EventSubscriptionChanged, map[string]any{
		"tenantId": tenantID,
		"action":   "deleted",
	})

	s.logger.Info("Subscription deleted", "tenant_id", tenantID)
	return nil
}

func (s *subscriptionService) publishEvent(ctx context.Context, eventType string, data any) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		s.logger.Warn("Failed to publish event", "event_type", eventType, "error", err)
	}
}
