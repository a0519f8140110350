package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CourseStatus string

const (
	CourseDraft     CourseStatus = "draft"
	CoursePublished CourseStatus = "published"
)

type Lesson struct {
	ID       string  `json:"id" bson:"id"`
	Title    string  `json:"title" bson:"title"`
	Type     string  `json:"type" bson:"type"` // video, reading, quiz
	Duration *string `json:"duration,omitempty" bson:"duration,omitempty"`
	Content  *string `json:"content,omitempty" bson:"content,omitempty"`
	Order    int     `json:"order" bson:"order"`
}

type Module struct {
	ID          string   `json:"id" bson:"id"`
	Title       string   `json:"title" bson:"title"`
	Description *string  `json:"description,omitempty" bson:"description,omitempty"`
	Content     *string  `json:"content,omitempty" bson:"content,omitempty"`
	Lessons     []Lesson `json:"lessons" bson:"lessons"`
	Order       int      `json:"order" bson:"order"`
}

// Course document. EnrolledStudents is a stored counter paired with student
// enrolledCourses membership; the pair is maintained by the course service
// without a transaction, so it is eventually consistent under crashes.
type Course struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title            string             `json:"title" bson:"title"`
	Description      *string            `json:"description,omitempty" bson:"description,omitempty"`
	Category         string             `json:"category" bson:"category"`
	Level            string             `json:"level" bson:"level"`
	Status           CourseStatus       `json:"status" bson:"status"`
	CourseCode       *string            `json:"courseCode,omitempty" bson:"courseCode,omitempty"`
	Duration         *string            `json:"duration,omitempty" bson:"duration,omitempty"`
	ThumbnailURL     *string            `json:"thumbnailUrl,omitempty" bson:"thumbnailUrl,omitempty"`
	Modules          []Module           `json:"modules" bson:"modules"`
	TeacherID        primitive.ObjectID `json:"teacherId" bson:"teacherId"`
	TenantID         primitive.ObjectID `json:"tenantId" bson:"tenantId"`
	IsPublic         bool               `json:"isPublic" bson:"isPublic"`
	IsFree           bool               `json:"isFree" bson:"isFree"`
	Price            *float64           `json:"price,omitempty" bson:"price,omitempty"`
	Currency         *string            `json:"currency,omitempty" bson:"currency,omitempty"`
	EnrolledStudents int                `json:"enrolledStudents" bson:"enrolledStudents"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
	PublishedAt      *time.Time         `json:"publishedAt,omitempty" bson:"publishedAt,omitempty"`

	// Computed on read, not stored
	InstructorName string `json:"instructorName,omitempty" bson:"-"`
}
