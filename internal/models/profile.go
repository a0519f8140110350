package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Teacher is the role-specific profile linked one-to-one to a User.
// assignedCourses mirrors which courses reference this teacher as owner;
// the course service maintains it with idempotent set/pull updates.
type Teacher struct {
	ID              primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	UserID          primitive.ObjectID   `json:"userId" bson:"userId"`
	TenantID        primitive.ObjectID   `json:"tenantId" bson:"tenantId"`
	AssignedCourses []primitive.ObjectID `json:"assignedCourses" bson:"assignedCourses"`
	Qualifications  []string             `json:"qualifications" bson:"qualifications"`
	Subjects        []string             `json:"subjects" bson:"subjects"`
	Status          string               `json:"status" bson:"status"`
	CreatedAt       time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// Student profile. enrolledCourses is the authoritative membership list the
// course enrollment counter is paired against.
type Student struct {
	ID               primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	UserID           primitive.ObjectID   `json:"userId" bson:"userId"`
	TenantID         primitive.ObjectID   `json:"tenantId" bson:"tenantId"`
	EnrolledCourses  []primitive.ObjectID `json:"enrolledCourses" bson:"enrolledCourses"`
	CompletedCourses []primitive.ObjectID `json:"completedCourses" bson:"completedCourses"`
	ClassName        *string              `json:"className,omitempty" bson:"className,omitempty"`
	RollNo           *string              `json:"rollNo,omitempty" bson:"rollNo,omitempty"`
	Status           string               `json:"status" bson:"status"`
	CreatedAt        time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// Admin profile.
type Admin struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	TenantID  primitive.ObjectID `json:"tenantId" bson:"tenantId"`
	Status    string             `json:"status" bson:"status"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}
