package services

import (
	"errors"
	"fmt"
)

// Sentinel errors mapped to HTTP statuses at the handler layer.
var (
	ErrInvalidID = errors.New("invalid id format")

	ErrTenantNotFound       = errors.New("tenant not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrTeacherNotFound      = errors.New("teacher not found")
	ErrStudentNotFound      = errors.New("student not found")
	ErrAdminNotFound        = errors.New("admin not found")
	ErrCourseNotFound       = errors.New("course not found")
	ErrAssignmentNotFound   = errors.New("assignment not found")
	ErrSubmissionNotFound   = errors.New("submission not found")
	ErrQuizNotFound         = errors.New("quiz not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")

	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrTenantNameExists   = errors.New("tenant name already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is inactive")
)

// PermissionError is returned when an actor may not perform an action on a
// resource. It carries context for logging without leaking it to clients.
type PermissionError struct {
	UserID   string
	Resource string
	Action   string
	Reason   string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: %s on %s (%s)", e.Action, e.Resource, e.Reason)
}

func NewPermissionError(userID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:   userID,
		Resource: resource,
		Action:   action,
		Reason:   reason,
	}
}

// BusinessRuleError is a domain rule violation that maps to 400/409.
type BusinessRuleError struct {
	Rule    string
	Message string
}

func (e *BusinessRuleError) Error() string {
	return e.Message
}

func NewBusinessRuleError(rule, message string) *BusinessRuleError {
	return &BusinessRuleError{Rule: rule, Message: message}
}

// CrossTenantError reports a document that exists but belongs to a
// different tenant than the caller's. Reference marks the case where the
// request payload named the foreign entity, which is bad input rather
// than denied access.
type CrossTenantError struct {
	Resource  string
	Reference bool
}

func (e *CrossTenantError) Error() string {
	return fmt.Sprintf("%s found but belongs to a different tenant", e.Resource)
}

func NewCrossTenantError(resource string) *CrossTenantError {
	return &CrossTenantError{Resource: resource}
}

func NewCrossTenantReferenceError(resource string) *CrossTenantError {
	return &CrossTenantError{Resource: resource, Reference: true}
}

// IsNotFound reports whether err is any of the not-found sentinels.
func IsNotFound(err error) bool {
	for _, sentinel := range []error{
		ErrTenantNotFound, ErrUserNotFound, ErrTeacherNotFound,
		ErrStudentNotFound, ErrAdminNotFound, ErrCourseNotFound,
		ErrAssignmentNotFound, ErrSubmissionNotFound, ErrQuizNotFound,
		ErrSubscriptionNotFound,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
