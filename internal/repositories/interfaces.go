package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/eduverse/school-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type TenantFilters struct {
	Status *string `json:"status"`
	Search *string `json:"search"` // matches tenantName or adminEmail
	Sort   string  `json:"sort"`   // "name", "createdAt", "-createdAt"
	Skip   int     `json:"skip"`
	Limit  int     `json:"limit"`
}

type CourseFilters struct {
	TeacherID *primitive.ObjectID `json:"teacher_id"`
	Status    *string             `json:"status"`
	Category  *string             `json:"category"`
	Search    *string             `json:"search"` // title, description, category, courseCode
	Skip      int                 `json:"skip"`
	Limit     int                 `json:"limit"`
}

type AssignmentFilters struct {
	TenantID  *primitive.ObjectID `json:"tenant_id"`
	TeacherID *primitive.ObjectID `json:"teacher_id"`
	CourseID  *primitive.ObjectID `json:"course_id"`
	Status    *string             `json:"status"`
	Search    *string             `json:"search"` // title, description, status
	DateFrom  *time.Time          `json:"date_from"`
	DateTo    *time.Time          `json:"date_to"`
	SortBy    string              `json:"sort_by"`    // "uploadedAt", "dueDate", "title"
	SortOrder string              `json:"sort_order"` // "asc", "desc"
	Page      int                 `json:"page"`
	Limit     int                 `json:"limit"`
}

type QuizFilters struct {
	TenantID  *primitive.ObjectID `json:"tenant_id"`
	TeacherID *primitive.ObjectID `json:"teacher_id"`
	CourseID  *primitive.ObjectID `json:"course_id"`
	Search    *string             `json:"search"` // description
	Sort      string              `json:"sort"`   // field name, "-" prefix for descending
	Page      int                 `json:"page"`
	Limit     int                 `json:"limit"`
}

// ===== REPOSITORY INTERFACES =====

type TenantRepository interface {
	Create(ctx context.Context, tenant *models.Tenant) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Tenant, error)
	GetByName(ctx context.Context, name string) (*models.Tenant, error)
	List(ctx context.Context, filters TenantFilters) ([]*models.Tenant, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*models.Tenant, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type TeacherRepository interface {
	Create(ctx context.Context, teacher *models.Teacher) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Teacher, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Teacher, error)
	List(ctx context.Context, tenantID *primitive.ObjectID) ([]*models.Teacher, error)
	Update(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*models.Teacher, error)
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Idempotent set/pull maintenance of assignedCourses.
	AddAssignedCourse(ctx context.Context, teacherID, courseID primitive.ObjectID) error
	RemoveAssignedCourse(ctx context.Context, teacherID, courseID primitive.ObjectID) (bool, error)
}

type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Student, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Student, error)
	List(ctx context.Context, tenantID *primitive.ObjectID) ([]*models.Student, error)
	ListByCourse(ctx context.Context, tenantID, courseID primitive.ObjectID) ([]*models.Student, error)
	Update(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*models.Student, error)
	Delete(ctx context.Context, id primitive.ObjectID) error

	// AddEnrolledCourse / RemoveEnrolledCourse report whether the document
	// actually changed, so the caller can guard the paired counter update.
	AddEnrolledCourse(ctx context.Context, studentID, courseID primitive.ObjectID) (bool, error)
	RemoveEnrolledCourse(ctx context.Context, studentID, courseID primitive.ObjectID) (bool, error)
	RemoveCourseFromAll(ctx context.Context, courseID primitive.ObjectID) (int64, error)
	CountByCourses(ctx context.Context, courseIDs []primitive.ObjectID) (int64, error)
}

type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Admin, error)
	Update(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*models.Admin, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id, tenantID primitive.ObjectID) (*models.Course, error)
	GetAnyByID(ctx context.Context, id primitive.ObjectID) (*models.Course, error)
	List(ctx context.Context, tenantID primitive.ObjectID, filters CourseFilters) ([]*models.Course, int64, error)
	ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Course, error)
	Update(ctx context.Context, id, tenantID primitive.ObjectID, fields map[string]any) (*models.Course, error)
	Delete(ctx context.Context, id, tenantID primitive.ObjectID) error
	IncEnrolledStudents(ctx context.Context, id primitive.ObjectID, delta int) error
	CountByTeacher(ctx context.Context, teacherID primitive.ObjectID) (int64, error)
}

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	GetByID(ctx context.Context, id, tenantID primitive.ObjectID) (*models.Assignment, error)
	List(ctx context.Context, filters AssignmentFilters) ([]*models.Assignment, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*models.Assignment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountByTeacher(ctx context.Context, teacherID primitive.ObjectID) (int64, error)
}

type AssignmentSubmissionRepository interface {
	Create(ctx context.Context, submission *models.AssignmentSubmission) error
	GetByID(ctx context.Context, id, tenantID primitive.ObjectID) (*models.AssignmentSubmission, error)
	ListByTenant(ctx context.Context, tenantID primitive.ObjectID) ([]*models.AssignmentSubmission, error)
	ListByStudent(ctx context.Context, studentID, tenantID primitive.ObjectID) ([]*models.AssignmentSubmission, error)
	ListByAssignment(ctx context.Context, assignmentID, tenantID primitive.ObjectID) ([]*models.AssignmentSubmission, error)
	Update(ctx context.Context, id, tenantID primitive.ObjectID, fields map[string]any) (*models.AssignmentSubmission, error)
	Delete(ctx context.Context, id, tenantID primitive.ObjectID) error
}

type QuizRepository interface {
	Create(ctx context.Context, quiz *models.Quiz) error
	// GetByID excludes soft-deleted quizzes.
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Quiz, error)
	List(ctx context.Context, filters QuizFilters) ([]*models.Quiz, int64, error)
	ListForCourses(ctx context.Context, tenantID primitive.ObjectID, courseIDs []primitive.ObjectID) ([]*models.Quiz, error)
	Update(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*models.Quiz, error)
	SoftDelete(ctx context.Context, id primitive.ObjectID) error
	CountByTeacher(ctx context.Context, teacherID primitive.ObjectID) (int64, error)
}

type QuizSubmissionRepository interface {
	Create(ctx context.Context, submission *models.QuizSubmission) error
	CountByQuiz(ctx context.Context, quizID primitive.ObjectID) (int64, error)
	ListByQuiz(ctx context.Context, quizID primitive.ObjectID) ([]*models.QuizSubmission, error)
}

type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *models.Subscription) error
	GetByTenant(ctx context.Context, tenantID primitive.ObjectID) (*models.Subscription, error)
	List(ctx context.Context) ([]*models.Subscription, error)
	UpdateByTenant(ctx context.Context, tenantID primitive.ObjectID, fields map[string]any) (*models.Subscription, error)
	DeleteByTenant(ctx context.Context, tenantID primitive.ObjectID) error
}

// Repository aggregates all per-collection repositories.
type Repository interface {
	Tenant() TenantRepository
	User() UserRepository
	Teacher() TeacherRepository
	Student() StudentRepository
	Admin() AdminRepository
	Course() CourseRepository
	Assignment() AssignmentRepository
	AssignmentSubmission() AssignmentSubmissionRepository
	Quiz() QuizRepository
	QuizSubmission() QuizSubmissionRepository
	Subscription() SubscriptionRepository

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
