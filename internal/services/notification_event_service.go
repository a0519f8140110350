package services

import (
	"context"
	"log/slog"

	"github.com/eduverse/school-service/internal/events"
	"github.com/eduverse/school-service/internal/repositories"
	"github.com/eduverse/school-service/internal/validator"
)

// BulkNotificationPayload is the event body delivered to the notification
// consumer. The consumer owns fan-out to channels (email, push, in-app).
type BulkNotificationPayload struct {
	UserIDs  []string `json:"userIds"`
	Type     string   `json:"type"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Priority string   `json:"priority"`
}

type notificationEventService struct {
	repo           repositories.Repository
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator
}

func NewNotificationEventService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) NotificationEventService {
	return &notificationEventService{
		repo:           repo,
		eventPublisher: publisher,
		logger:         logger,
		validator:      v,
	}
}

func (s *notificationEventService) SendBulkNotification(ctx context.Context, userIDs []string, req *NotificationRequest) error {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return errs
	}
	if len(userIDs) == 0 {
		return NewBusinessRuleError("no_recipients", "at least one recipient is required")
	}

	priority := req.Priority
	if priority == "" {
		priority = "normal"
	}

	payload := BulkNotificationPayload{
		UserIDs:  userIDs,
		Type:     req.Type,
		Title:    req.Title,
		Message:  req.Message,
		Priority: priority,
	}

	if err := s.eventPublisher.Publish(ctx, events.NewEvent(events.EventBulkNotification, payload)); err != nil {
		s.logger.Error("Failed to publish bulk notification",
			"type", req.Type, "recipient_count", len(userIDs), "error", err)
		return err
	}

	s.logger.Info("Bulk notification published",
		"type", req.Type,
		"recipient_count", len(userIDs),
		"priority", priority)

	return nil
}
