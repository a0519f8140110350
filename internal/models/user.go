package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleTeacher    UserRole = "teacher"
	RoleStudent    UserRole = "student"
	RoleSuperAdmin UserRole = "super_admin"
)

type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserStudying UserStatus = "studying"
	UserInactive UserStatus = "inactive"
)

// User is the login identity. Role-specific state lives in the linked
// teacher/student/admin profile document.
type User struct {
	ID              primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	FullName        string              `json:"fullName" bson:"fullName"`
	Email           string              `json:"email" bson:"email"` // stored lower-case, unique
	Password        string              `json:"-" bson:"password"`  // bcrypt hash, never serialized
	Role            UserRole            `json:"role" bson:"role"`
	Status          UserStatus          `json:"status" bson:"status"`
	ProfileImageURL *string             `json:"profileImageUrl,omitempty" bson:"profileImageUrl,omitempty"`
	ContactNo       string              `json:"contactNo,omitempty" bson:"contactNo,omitempty"`
	Country         string              `json:"country,omitempty" bson:"country,omitempty"`
	TenantID        *primitive.ObjectID `json:"tenantId,omitempty" bson:"tenantId,omitempty"`
	CreatedAt       time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt" bson:"updatedAt"`
	LastLogin       *time.Time          `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
}

// ActiveStatuses are the user statuses allowed to authenticate.
func ActiveStatuses() []UserStatus {
	return []UserStatus{UserActive, UserStudying}
}
