package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Assignment struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CourseID       primitive.ObjectID `json:"courseId" bson:"courseId"`
	TeacherID      primitive.ObjectID `json:"teacherId" bson:"teacherId"`
	TenantID       primitive.ObjectID `json:"tenantId" bson:"tenantId"`
	Title          string             `json:"title" bson:"title"`
	Description    *string            `json:"description,omitempty" bson:"description,omitempty"`
	DueDate        *time.Time         `json:"dueDate,omitempty" bson:"dueDate,omitempty"`
	TotalMarks     *int               `json:"totalMarks,omitempty" bson:"totalMarks,omitempty"`
	PassingMarks   *int               `json:"passingMarks,omitempty" bson:"passingMarks,omitempty"`
	Status         string             `json:"status" bson:"status"`
	FileURL        *string            `json:"fileUrl,omitempty" bson:"fileUrl,omitempty"`
	AllowedFormats []string           `json:"allowedFormats" bson:"allowedFormats"`
	UploadedAt     time.Time          `json:"uploadedAt" bson:"uploadedAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// AssignmentSubmission is graded in place: obtainedMarks/feedback/gradedAt
// stay unset until a teacher or admin grades it.
type AssignmentSubmission struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	AssignmentID  primitive.ObjectID `json:"assignmentId" bson:"assignmentId"`
	CourseID      primitive.ObjectID `json:"courseId" bson:"courseId"`
	StudentID     primitive.ObjectID `json:"studentId" bson:"studentId"`
	TenantID      primitive.ObjectID `json:"tenantId" bson:"tenantId"`
	FileURL       string             `json:"fileUrl" bson:"fileUrl"`
	SubmittedAt   time.Time          `json:"submittedAt" bson:"submittedAt"`
	ObtainedMarks *int               `json:"obtainedMarks,omitempty" bson:"obtainedMarks,omitempty"`
	Feedback      *string            `json:"feedback,omitempty" bson:"feedback,omitempty"`
	GradedAt      *time.Time         `json:"gradedAt,omitempty" bson:"gradedAt,omitempty"`
}
