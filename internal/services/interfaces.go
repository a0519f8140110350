package services

import (
	"context"
	"time"

	"github.com/eduverse/school-service/internal/models"
)

// Actor identifies the authenticated caller across service operations.
// ProfileID is the role-specific document id (teacher/student/admin).
type Actor struct {
	UserID    string
	TenantID  string
	Role      models.UserRole
	ProfileID string
}

// ===== AUTH =====

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthUserInfo struct {
	ID              string          `json:"id"`
	FullName        string          `json:"fullName"`
	Email           string          `json:"email"`
	Role            models.UserRole `json:"role"`
	TenantID        *string         `json:"tenantId,omitempty"`
	ProfileID       *string         `json:"profileId,omitempty"`
	ProfileImageURL *string         `json:"profileImageUrl,omitempty"`
}

type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType"`
	ExpiresIn   int64        `json:"expiresIn"`
	User        AuthUserInfo `json:"user"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

// AdminSignupRequest bootstraps a school: tenant, admin account and admin
// profile are created in one call.
type AdminSignupRequest struct {
	TenantName string  `json:"tenantName" validate:"required,title"`
	FullName   string  `json:"fullName" validate:"required,title"`
	Email      string  `json:"email" validate:"required,email"`
	Password   string  `json:"password" validate:"required,min=8"`
	Plan       *string `json:"plan"`
}

type TeacherSignupRequest struct {
	TenantID       string   `json:"tenantId" validate:"required,object_id"`
	FullName       string   `json:"fullName" validate:"required,title"`
	Email          string   `json:"email" validate:"required,email"`
	Password       string   `json:"password" validate:"required,min=8"`
	Qualifications []string `json:"qualifications"`
	Subjects       []string `json:"subjects"`
}

type AuthService interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	AdminSignup(ctx context.Context, req *AdminSignupRequest) (*LoginResponse, error)
	TeacherSignup(ctx context.Context, req *TeacherSignupRequest) (*LoginResponse, error)
	ChangePassword(ctx context.Context, userID string, req *ChangePasswordRequest) error
	ParseToken(tokenString string) (*Claims, error)
	// VerifyUser confirms the token's subject still exists and is active.
	VerifyUser(ctx context.Context, userID string) error
}

// ===== TENANTS =====

type CreateTenantRequest struct {
	TenantName    string  `json:"tenantName" validate:"required,title"`
	AdminEmail    string  `json:"adminEmail" validate:"required,email"`
	TenantLogoURL *string `json:"tenantLogoUrl"`
	Plan          *string `json:"plan"`
}

type UpdateTenantRequest struct {
	TenantName    *string `json:"tenantName" validate:"omitempty,title"`
	AdminEmail    *string `json:"adminEmail" validate:"omitempty,email"`
	TenantLogoURL *string `json:"tenantLogoUrl"`
	Status        *string `json:"status" validate:"omitempty,oneof=active suspended"`
}

type ListTenantsRequest struct {
	Status *string `json:"status"`
	Search *string `json:"search"`
	Sort   string  `json:"sort"`
	Page   int     `json:"page"`
	Limit  int     `json:"limit"`
}

type TenantListResponse struct {
	Tenants []*models.Tenant `json:"tenants"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
}

type TenantService interface {
	Create(ctx context.Context, req *CreateTenantRequest) (*models.Tenant, error)
	GetByID(ctx context.Context, id string) (*models.Tenant, error)
	List(ctx context.Context, req *ListTenantsRequest) (*TenantListResponse, error)
	Update(ctx context.Context, id string, req *UpdateTenantRequest) (*models.Tenant, error)
	Delete(ctx context.Context, id string) error
}

// ===== TEACHERS =====

type CreateTeacherRequest struct {
	FullName        string   `json:"fullName" validate:"required,title"`
	Email           string   `json:"email" validate:"required,email"`
	Password        string   `json:"password" validate:"required,min=8"`
	ContactNo       string   `json:"contactNo"`
	Country         string   `json:"country"`
	ProfileImageURL *string  `json:"profileImageUrl"`
	Qualifications  []string `json:"qualifications"`
	Subjects        []string `json:"subjects"`
}

type UpdateTeacherRequest struct {
	FullName        *string  `json:"fullName" validate:"omitempty,title"`
	Email           *string  `json:"email" validate:"omitempty,email"`
	ContactNo       *string  `json:"contactNo"`
	Country         *string  `json:"country"`
	ProfileImageURL *string  `json:"profileImageUrl"`
	Qualifications  []string `json:"qualifications"`
	Subjects        []string `json:"subjects"`
	Status          *string  `json:"status" validate:"omitempty,oneof=active studying inactive"`
}

// TeacherResponse composes the account and the teacher profile.
type TeacherResponse struct {
	ID              string            `json:"id"`
	UserID          string            `json:"userId"`
	TenantID        string            `json:"tenantId"`
	FullName        string            `json:"fullName"`
	Email           string            `json:"email"`
	Role            models.UserRole   `json:"role"`
	Status          models.UserStatus `json:"status"`
	ProfileImageURL *string           `json:"profileImageUrl,omitempty"`
	ContactNo       string            `json:"contactNo,omitempty"`
	Country         string            `json:"country,omitempty"`
	Qualifications  []string          `json:"qualifications"`
	Subjects        []string          `json:"subjects"`
	AssignedCourses []string          `json:"assignedCourses"`
	CreatedAt       time.Time         `json:"createdAt"`
	LastLogin       *time.Time        `json:"lastLogin,omitempty"`
}

type TeacherDashboard struct {
	TotalCourses     int64 `json:"totalCourses"`
	TotalStudents    int64 `json:"totalStudents"`
	TotalAssignments int64 `json:"totalAssignments"`
	TotalQuizzes     int64 `json:"totalQuizzes"`
}

type TeacherService interface {
	Create(ctx context.Context, actor Actor, req *CreateTeacherRequest) (*TeacherResponse, error)
	GetByID(ctx context.Context, actor Actor, id string) (*TeacherResponse, error)
	GetMe(ctx context.Context, actor Actor) (*TeacherResponse, error)
	List(ctx context.Context, actor Actor) ([]*TeacherResponse, error)
	Update(ctx context.Context, actor Actor, id string, req *UpdateTeacherRequest) (*TeacherResponse, error)
	Delete(ctx context.Context, actor Actor, id string) error
	Dashboard(ctx context.Context, actor Actor) (*TeacherDashboard, error)
	ListStudents(ctx context.Context, actor Actor, id string) ([]*StudentResponse, error)
}

// ===== STUDENTS =====

type CreateStudentRequest struct {
	FullName        string  `json:"fullName" validate:"required,title"`
	Email           string  `json:"email" validate:"required,email"`
	Password        string  `json:"password" validate:"required,min=8"`
	ContactNo       string  `json:"contactNo"`
	Country         string  `json:"country"`
	ProfileImageURL *string `json:"profileImageUrl"`
	ClassName       *string `json:"className"`
	RollNo          *string `json:"rollNo"`
}

type UpdateStudentRequest struct {
	FullName        *string `json:"fullName" validate:"omitempty,title"`
	Email           *string `json:"email" validate:"omitempty,email"`
	ContactNo       *string `json:"contactNo"`
	Country         *string `json:"country"`
	ProfileImageURL *string `json:"profileImageUrl"`
	ClassName       *string `json:"className"`
	RollNo          *string `json:"rollNo"`
	Status          *string `json:"status" validate:"omitempty,oneof=active studying inactive"`
}

type StudentResponse struct {
	ID               string            `json:"id"`
	UserID           string            `json:"userId"`
	TenantID         string            `json:"tenantId"`
	FullName         string            `json:"fullName"`
	Email            string            `json:"email"`
	Role             models.UserRole   `json:"role"`
	Status           models.UserStatus `json:"status"`
	ProfileImageURL  *string           `json:"profileImageUrl,omitempty"`
	ContactNo        string            `json:"contactNo,omitempty"`
	Country          string            `json:"country,omitempty"`
	ClassName        *string           `json:"className,omitempty"`
	RollNo           *string           `json:"rollNo,omitempty"`
	EnrolledCourses  []string          `json:"enrolledCourses"`
	CompletedCourses []string          `json:"completedCourses"`
	CreatedAt        time.Time         `json:"createdAt"`
	LastLogin        *time.Time        `json:"lastLogin,omitempty"`
}

type StudentDashboard struct {
	EnrolledCourses  int   `json:"enrolledCourses"`
	CompletedCourses int   `json:"completedCourses"`
	UpcomingQuizzes  int   `json:"upcomingQuizzes"`
	Submissions      int64 `json:"submissions"`
}

type StudentService interface {
	Create(ctx context.Context, actor Actor, req *CreateStudentRequest) (*StudentResponse, error)
	GetByID(ctx context.Context, actor Actor, id string) (*StudentResponse, error)
	GetMe(ctx context.Context, actor Actor) (*StudentResponse, error)
	List(ctx context.Context, actor Actor) ([]*StudentResponse, error)
	Update(ctx context.Context, actor Actor, id string, req *UpdateStudentRequest) (*StudentResponse, error)
	Delete(ctx context.Context, actor Actor, id string) error
	GetCourses(ctx context.Context, actor Actor) ([]*models.Course, error)
	Dashboard(ctx context.Context, actor Actor) (*StudentDashboard, error)
}

// ===== ADMINS =====

type CreateAdminRequest struct {
	FullName        string  `json:"fullName" validate:"required,title"`
	Email           string  `json:"email" validate:"required,email"`
	Password        string  `json:"password" validate:"required,min=8"`
	ContactNo       string  `json:"contactNo"`
	Country         string  `json:"country"`
	ProfileImageURL *string `json:"profileImageUrl"`
	TenantID        string  `json:"tenantId" validate:"required,object_id"`
}

type UpdateAdminRequest struct {
	FullName        *string `json:"fullName" validate:"omitempty,title"`
	Email           *string `json:"email" validate:"omitempty,email"`
	ContactNo       *string `json:"contactNo"`
	Country         *string `json:"country"`
	ProfileImageURL *string `json:"profileImageUrl"`
	Status          *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

type AdminResponse struct {
	ID              string            `json:"id"`
	UserID          string            `json:"userId"`
	TenantID        string            `json:"tenantId"`
	FullName        string            `json:"fullName"`
	Email           string            `json:"email"`
	Role            models.UserRole   `json:"role"`
	Status          models.UserStatus `json:"status"`
	ProfileImageURL *string           `json:"profileImageUrl,omitempty"`
	ContactNo       string            `json:"contactNo,omitempty"`
	Country         string            `json:"country,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	LastLogin       *time.Time        `json:"lastLogin,omitempty"`
}

type AdminDashboard struct {
	TotalTeachers    int64 `json:"totalTeachers"`
	TotalStudents    int64 `json:"totalStudents"`
	TotalCourses     int64 `json:"totalCourses"`
	PublishedCourses int64 `json:"publishedCourses"`
}

type AdminService interface {
	Create(ctx context.Context, actor Actor, req *CreateAdminRequest) (*AdminResponse, error)
	GetMe(ctx context.Context, actor Actor) (*AdminResponse, error)
	Update(ctx context.Context, actor Actor, id string, req *UpdateAdminRequest) (*AdminResponse, error)
	Delete(ctx context.Context, actor Actor, id string) error
	Dashboard(ctx context.Context, actor Actor) (*AdminDashboard, error)
}

// ===== COURSES =====

type CreateCourseRequest struct {
	Title        string          `json:"title" validate:"required,title"`
	Description  *string         `json:"description"`
	Category     string          `json:"category" validate:"required"`
	Level        string          `json:"level" validate:"required"`
	CourseCode   *string         `json:"courseCode"`
	Duration     *string         `json:"duration"`
	ThumbnailURL *string         `json:"thumbnailUrl"`
	Modules      []models.Module `json:"modules"`
	TeacherID    string          `json:"teacherId" validate:"required,object_id"`
	IsPublic     bool            `json:"isPublic"`
	IsFree       bool            `json:"isFree"`
	Price        *float64        `json:"price" validate:"omitempty,min=0"`
	Currency     *string         `json:"currency"`
}

type UpdateCourseRequest struct {
	Title        *string         `json:"title" validate:"omitempty,title"`
	Description  *string         `json:"description"`
	Category     *string         `json:"category"`
	Level        *string         `json:"level"`
	CourseCode   *string         `json:"courseCode"`
	Duration     *string         `json:"duration"`
	ThumbnailURL *string         `json:"thumbnailUrl"`
	Modules      []models.Module `json:"modules"`
	IsPublic     *bool           `json:"isPublic"`
	IsFree       *bool           `json:"isFree"`
	Price        *float64        `json:"price" validate:"omitempty,min=0"`
	Currency     *string         `json:"currency"`
}

type ListCoursesRequest struct {
	TeacherID *string `json:"teacherId" validate:"omitempty,object_id"`
	Status    *string `json:"status" validate:"omitempty,course_status"`
	Category  *string `json:"category"`
	Search    *string `json:"search"`
	Page      int     `json:"page"`
	Limit     int     `json:"limit"`
}

type CourseListResponse struct {
	Courses []*models.Course `json:"courses"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
}

type EnrollmentRequest struct {
	StudentID string `json:"studentId" validate:"required,object_id"`
}

type ReassignTeacherRequest struct {
	TeacherID string `json:"teacherId" validate:"required,object_id"`
}

type ReorderModulesRequest struct {
	ModuleIDs []string `json:"moduleIds" validate:"required,min=1"`
}

type ReorderLessonsRequest struct {
	LessonIDs []string `json:"lessonIds" validate:"required,min=1"`
}

// DeleteCourseResponse reports the cleanup fan-out of a course deletion.
type DeleteCourseResponse struct {
	Message             string `json:"message"`
	RemovedFromStudents int64  `json:"removedFromStudents"`
	TeacherUpdated      bool   `json:"teacherUpdated"`
}

type CourseService interface {
	Create(ctx context.Context, actor Actor, req *CreateCourseRequest) (*models.Course, error)
	GetByID(ctx context.Context, actor Actor, id string) (*models.Course, error)
	List(ctx context.Context, actor Actor, req *ListCoursesRequest) (*CourseListResponse, error)
	Update(ctx context.Context, actor Actor, id string, req *UpdateCourseRequest) (*models.Course, error)
	Delete(ctx context.Context, actor Actor, id string) (*DeleteCourseResponse, error)
	Publish(ctx context.Context, actor Actor, id string) (*models.Course, error)
	Enroll(ctx context.Context, actor Actor, courseID string, req *EnrollmentRequest) error
	Unenroll(ctx context.Context, actor Actor, courseID string, req *EnrollmentRequest) error
	ReassignTeacher(ctx context.Context, actor Actor, courseID string, req *ReassignTeacherRequest) (*models.Course, error)
	ReorderModules(ctx context.Context, actor Actor, courseID string, req *ReorderModulesRequest) (*models.Course, error)
	ReorderLessons(ctx context.Context, actor Actor, courseID, moduleID string, req *ReorderLessonsRequest) (*models.Course, error)
	GetStudents(ctx context.Context, actor Actor, courseID string) ([]*StudentResponse, error)
}

// ===== ASSIGNMENTS =====

type CreateAssignmentRequest struct {
	CourseID       string     `json:"courseId" validate:"required,object_id"`
	Title          string     `json:"title" validate:"required,title"`
	Description    string     `json:"description" validate:"required"`
	DueDate        *time.Time `json:"dueDate" validate:"omitempty,future_date"`
	TotalMarks     *int       `json:"totalMarks" validate:"omitempty,min=1"`
	PassingMarks   *int       `json:"passingMarks" validate:"omitempty,min=0"`
	Status         *string    `json:"status"`
	FileURL        *string    `json:"fileUrl"`
	AllowedFormats []string   `json:"allowedFormats"`
}

type UpdateAssignmentRequest struct {
	Title          *string    `json:"title" validate:"omitempty,title"`
	Description    *string    `json:"description"`
	DueDate        *time.Time `json:"dueDate"`
	TotalMarks     *int       `json:"totalMarks" validate:"omitempty,min=1"`
	PassingMarks   *int       `json:"passingMarks" validate:"omitempty,min=0"`
	Status         *string    `json:"status"`
	FileURL        *string    `json:"fileUrl"`
	AllowedFormats []string   `json:"allowedFormats"`
}

type ListAssignmentsRequest struct {
	CourseID  *string    `json:"courseId" validate:"omitempty,object_id"`
	Status    *string    `json:"status"`
	Search    *string    `json:"search"`
	DateFrom  *time.Time `json:"dateFrom"`
	DateTo    *time.Time `json:"dateTo"`
	SortBy    string     `json:"sortBy"`
	SortOrder string     `json:"sortOrder"`
	Page      int        `json:"page"`
	Limit     int        `json:"limit"`
}

type AssignmentListResponse struct {
	Assignments []*models.Assignment `json:"assignments"`
	Total       int64                `json:"total"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int64                `json:"totalPages"`
}

type AssignmentService interface {
	Create(ctx context.Context, actor Actor, req *CreateAssignmentRequest) (*models.Assignment, error)
	GetByID(ctx context.Context, actor Actor, id string) (*models.Assignment, error)
	List(ctx context.Context, actor Actor, req *ListAssignmentsRequest) (*AssignmentListResponse, error)
	Update(ctx context.Context, actor Actor, id string, req *UpdateAssignmentRequest) (*models.Assignment, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

// ===== ASSIGNMENT SUBMISSIONS =====

type SubmitAssignmentRequest struct {
	AssignmentID string `json:"assignmentId" validate:"required,object_id"`
	FileURL      string `json:"fileUrl" validate:"required,url"`
}

type GradeSubmissionRequest struct {
	ObtainedMarks int     `json:"obtainedMarks" validate:"min=0"`
	Feedback      *string `json:"feedback"`
}

type SubmissionService interface {
	Submit(ctx context.Context, actor Actor, req *SubmitAssignmentRequest) (*models.AssignmentSubmission, error)
	GetByID(ctx context.Context, actor Actor, id string) (*models.AssignmentSubmission, error)
	List(ctx context.Context, actor Actor) ([]*models.AssignmentSubmission, error)
	ListByAssignment(ctx context.Context, actor Actor, assignmentID string) ([]*models.AssignmentSubmission, error)
	ListMine(ctx context.Context, actor Actor) ([]*models.AssignmentSubmission, error)
	Grade(ctx context.Context, actor Actor, id string, req *GradeSubmissionRequest) (*models.AssignmentSubmission, error)
	Delete(ctx context.Context, actor Actor, id string) error
	ExportGrades(ctx context.Context, actor Actor, assignmentID string) ([]byte, string, error)
}

// ===== QUIZZES =====

type CreateQuizRequest struct {
	CourseID         string                `json:"courseId" validate:"required,object_id"`
	QuizNumber       int                   `json:"quizNumber" validate:"required,min=1"`
	Description      *string               `json:"description"`
	DueDate          time.Time             `json:"dueDate" validate:"required"`
	Questions        []models.QuizQuestion `json:"questions" validate:"required,min=1"`
	TimeLimitMinutes *int                  `json:"timeLimitMinutes" validate:"omitempty,min=1"`
	TotalMarks       int                   `json:"totalMarks" validate:"min=0"`
	AIGenerated      bool                  `json:"aiGenerated"`
	Status           *string               `json:"status" validate:"omitempty,quiz_status"`
}

/// UpdateQuizRequest fields split into two groups: the always-editable set
// and the content set (questions, totalMarks, quizNumber) which is dropped
// once the quiz has submissions.
type UpdateQuizRequest struct {
	Description      *string               `json:"description"`
	DueDate          *time.Time            `json:"dueDate"`
	Status           *string               `json:"status" validate:"omitempty,quiz_status"`
	TimeLimitMinutes *int                  `json:"timeLimitMinutes" validate:"omitempty,min=1"`
	AIGenerated      *bool                 `json:"aiGenerated"`
	Questions        []models.QuizQuestion `json:"questions"`
	TotalMarks       *int                  `json:"totalMarks" validate:"omitempty,min=0"`
	QuizNumber       *int                  `json:"quizNumber" validate:"omitempty,min=1"`
}

type ListQuizzesRequest struct {
	CourseID *string `json:"courseId" validate:"omitempty,object_id"`
	Search   *string `json:"search"`
	Sort     string  `json:"sort"`
	Page     int     `json:"page"`
	Limit    int     `json:"limit"`
}

type QuizListResponse struct {
	Quizzes []*models.Quiz `json:"quizzes"`
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	Limit   int            `json:"limit"`
}

// StudentQuizQuestion hides the answer from the student view.
type StudentQuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type StudentQuiz struct {
	ID               string                `json:"id"`
	CourseID         string                `json:"courseId"`
	CourseName       string                `json:"courseName"`
	QuizNumber       int                   `json:"quizNumber"`
	Description      *string               `json:"description,omitempty"`
	DueDate          time.Time             `json:"dueDate"`
	Questions        []StudentQuizQuestion `json:"questions"`
	TimeLimitMinutes *int                  `json:"timeLimitMinutes,omitempty"`
	TotalMarks       int                   `json:"totalMarks"`
	Status           models.QuizStatus     `json:"status"`
	HasSubmitted     bool                  `json:"hasSubmitted"`
}

type SubmitQuizRequest struct {
	Answers []string `json:"answers" validate:"required,min=1"`
}

type QuizService interface {
	Create(ctx context.Context, actor Actor, req *CreateQuizRequest) (*models.Quiz, error)
	GetByID(ctx context.Context, actor Actor, id string) (*models.Quiz, error)
	List(ctx context.Context, actor Actor, req *ListQuizzesRequest) (*QuizListResponse, error)
	Update(ctx context.Context, actor Actor, id string, req *UpdateQuizRequest) (*models.Quiz, error)
	Delete(ctx context.Context, actor Actor, id string) error
	HasSubmissions(ctx context.Context, actor Actor, id string) (bool, int64, error)
	ListForStudent(ctx context.Context, actor Actor) ([]*StudentQuiz, error)
	Submit(ctx context.Context, actor Actor, quizID string, req *SubmitQuizRequest) (*models.QuizSubmission, error)
	ListSubmissions(ctx context.Context, actor Actor, quizID string) ([]*models.QuizSubmission, error)
}

// ===== SUBSCRIPTIONS =====

type CreateSubscriptionRequest struct {
	TenantID      string    `json:"tenantId" validate:"required,object_id"`
	Plan          string    `json:"plan" validate:"required"`
	MaxStudents   int       `json:"maxStudents" validate:"min=0"`
	MaxTeachers   int       `json:"maxTeachers" validate:"min=0"`
	MaxCourses    int       `json:"maxCourses" validate:"min=0"`
	AICredits     int       `json:"aiCredits" validate:"min=0"`
	StorageGB     int       `json:"storageGb" validate:"min=0"`
	PricePerMonth float64   `json:"pricePerMonth" validate:"min=0"`
	BillingCycle  string    `json:"billingCycle" validate:"omitempty,oneof=monthly yearly"`
	ExpiryDate    time.Time `json:"expiryDate" validate:"required"`
}

type UpdateSubscriptionRequest struct {
	Plan          *string    `json:"plan"`
	MaxStudents   *int       `json:"maxStudents" validate:"omitempty,min=0"`
	MaxTeachers   *int       `json:"maxTeachers" validate:"omitempty,min=0"`
	MaxCourses    *int       `json:"maxCourses" validate:"omitempty,min=0"`
	AICredits     *int       `json:"aiCredits" validate:"omitempty,min=0"`
	StorageGB     *int       `json:"storageGb" validate:"omitempty,min=0"`
	PricePerMonth *float64   `json:"pricePerMonth" validate:"omitempty,min=0"`
	BillingCycle  *string    `json:"billingCycle" validate:"omitempty,oneof=monthly yearly"`
	Status        *string    `json:"status" validate:"omitempty,oneof=active expired cancelled"`
	ExpiryDate    *time.Time `json:"expiryDate"`
}

type SubscriptionService interface {
	Create(ctx context.Context, req *CreateSubscriptionRequest) (*models.Subscription, error)
	GetByTenant(ctx context.Context, tenantID string) (*models.Subscription, error)
	List(ctx context.Context) ([]*models.Subscription, error)
	Update(ctx context.Context, tenantID string, req *UpdateSubscriptionRequest) (*models.Subscription, error)
	Delete(ctx context.Context, tenantID string) error
}

// ===== NOTIFICATIONS =====

type NotificationRequest struct {
	Type     string `json:"type" validate:"required"`
	Title    string `json:"title" validate:"required"`
	Message  string `json:"message" validate:"required"`
	Priority string `json:"priority" validate:"omitempty,oneof=low normal high"`
}

type NotificationEventService interface {
	SendBulkNotification(ctx context.Context, userIDs []string, req *NotificationRequest) error
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Auth() AuthService
	Tenant() TenantService
	Teacher() TeacherService
	Student() StudentService
	Admin() AdminService
	Course() CourseService
	Assignment() AssignmentService
	Submission() SubmissionService
	Quiz() QuizService
	Subscription() SubscriptionService
	Notification() NotificationEventService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
