package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is the envelope published to the message broker.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// Event types emitted by the service.
const (
	EventStudentEnrolled     = "course.student_enrolled"
	EventStudentUnenrolled   = "course.student_unenrolled"
	EventCoursePublished     = "course.published"
	EventCourseDeleted       = "course.deleted"
	EventAssignmentCreated   = "assignment.created"
	EventSubmissionGraded    = "assignment.submission_graded"
	EventQuizCreated         = "quiz.created"
	EventQuizDeleted         = "quiz.deleted"
	EventQuizSubmitted       = "quiz.submitted"
	EventTenantCreated       = "tenant.created"
	EventBulkNotification    = "system.bulk_notification"
	EventSubscriptionChanged = "subscription.changed"
)

const (
	eventSource  = "school-service"
	eventVersion = "1.0"
)

// NewEvent builds an event envelope with a fresh ID and timestamp.
func NewEvent(eventType string, data any) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    eventSource,
		Version:   eventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventPublisher publishes domain events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}
