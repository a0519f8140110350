package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type QuizStatus string

const (
	QuizActive   QuizStatus = "active"
	QuizInactive QuizStatus = "inactive"
)

// QuizQuestion is a single MCQ. The answer must match one of the options
// exactly; the validator enforces this on create and update.
type QuizQuestion struct {
	Question string   `json:"question" bson:"question"`
	Options  []string `json:"options" bson:"options"` // 2 to 4 options
	Answer   string   `json:"answer" bson:"answer"`
}

// Quiz lifecycle: active -> (metadata-only edits once a submission exists)
// -> soft-deleted. Soft-deleted quizzes stay in the collection so submission
// history remains resolvable, but every read filters them out.
type Quiz struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CourseID         primitive.ObjectID `json:"courseId" bson:"courseId"`
	CourseName       string             `json:"courseName" bson:"courseName"`
	TeacherID        primitive.ObjectID `json:"teacherId" bson:"teacherId"`
	TenantID         primitive.ObjectID `json:"tenantId" bson:"tenantId"`
	QuizNumber       int                `json:"quizNumber" bson:"quizNumber"`
	Description      *string            `json:"description,omitempty" bson:"description,omitempty"`
	DueDate          time.Time          `json:"dueDate" bson:"dueDate"`
	Questions        []QuizQuestion     `json:"questions" bson:"questions"`
	TimeLimitMinutes *int               `json:"timeLimitMinutes,omitempty" bson:"timeLimitMinutes,omitempty"`
	TotalMarks       int                `json:"totalMarks" bson:"totalMarks"`
	AIGenerated      bool               `json:"aiGenerated" bson:"aiGenerated"`
	Status           QuizStatus         `json:"status" bson:"status"`
	IsDeleted        bool               `json:"-" bson:"isDeleted"`
	DeletedAt        *time.Time         `json:"-" bson:"deletedAt,omitempty"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt        *time.Time         `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// QuizSubmission existence is what locks a quiz's restricted fields.
type QuizSubmission struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	QuizID      primitive.ObjectID `json:"quizId" bson:"quizId"`
	StudentID   primitive.ObjectID `json:"studentId" bson:"studentId"`
	TenantID    primitive.ObjectID `json:"tenantId" bson:"tenantId"`
	Answers     []string           `json:"answers" bson:"answers"`
	Score       *int               `json:"score,omitempty" bson:"score,omitempty"`
	SubmittedAt time.Time          `json:"submittedAt" bson:"submittedAt"`
}
