package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/eduverse/school-service/internal/models"
	"github.com/eduverse/school-service/internal/repositories"
)

// In-memory repository fakes shared by the service tests.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeRepository struct {
	tenants       *fakeTenantRepo
	users         *fakeUserRepo
	teachers      *fakeTeacherRepo
	students      *fakeStudentRepo
	admins        *fakeAdminRepo
	courses       *fakeCourseRepo
	assignments   *fakeAssignmentRepo
	submissions   *fakeSubmissionRepo
	quizzes       *fakeQuizRepo
	quizSubs      *fakeQuizSubmissionRepo
	subscriptions *fakeSubscriptionRepo
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		tenants:       &fakeTenantRepo{tenants: map[primitive.ObjectID]*models.Tenant{}},
		users:         &fakeUserRepo{users: map[primitive.ObjectID]*models.User{}},
		teachers:      &fakeTeacherRepo{teachers: map[primitive.ObjectID]*models.Teacher{}},
		students:      &fakeStudentRepo{students: map[primitive.ObjectID]*models.Student{}},
		admins:        &fakeAdminRepo{admins: map[primitive.ObjectID]*models.Admin{}},
		courses:       &fakeCourseRepo{courses: map[primitive.ObjectID]*models.Course{}},
		assignments:   &fakeAssignmentRepo{assignments: map[primitive.ObjectID]*models.Assignment{}},
		submissions:   &fakeSubmissionRepo{submissions: map[primitive.ObjectID]*models.AssignmentSubmission{}},
		quizzes:       &fakeQuizRepo{quizzes: map[primitive.ObjectID]*models.Quiz{}},
		quizSubs:      &fakeQuizSubmissionRepo{},
		subscriptions: &fakeSubscriptionRepo{subs: map[primitive.ObjectID]*models.Subscription{}},
	}
}

func (r *fakeRepository) Tenant() repositories.TenantRepository         { return r.tenants }
func (r *fakeRepository) User() repositories.UserRepository             { return r.users }
func (r *fakeRepository) Teacher() repositories.TeacherRepository       { return r.teachers }
func (r *fakeRepository) Student() repositories.StudentRepository       { return r.students }
func (r *fakeRepository) Admin() repositories.AdminRepository           { return r.admins }
func (r *fakeRepository) Course() repositories.CourseRepository         { return r.courses }
func (r *fakeRepository) Assignment() repositories.AssignmentRepository { return r.assignments }
func (r *fakeRepository) Quiz() repositories.QuizRepository             { return r.quizzes }
func (r *fakeRepository) QuizSubmission() repositories.QuizSubmissionRepository {
	return r.quizSubs
}
func (r *fakeRepository) AssignmentSubmission() repositories.AssignmentSubmissionRepository {
	return r.submissions
}
func (r *fakeRepository) Subscription() repositories.SubscriptionRepository { return r.subscriptions }
func (r *fakeRepository) Ping(ctx context.Context) error                    { return nil }
func (r *fakeRepository) Close(ctx context.Context) error                   { return nil }

// ===== tenants =====

type fakeTenantRepo struct {
	tenants map[primitive.ObjectID]*models.Tenant
}

func (f *fakeTenantRepo) Create(_ context.Context, tenant *models.Tenant) error {
	if tenant.ID.IsZero() {
		tenant.ID = primitive.NewObjectID()
	}
	f.tenants[tenant.ID] = tenant
	return nil
}

func (f *fakeTenantRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Tenant, error) {
	tenant, ok := f.tenants[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return tenant, nil
}

func (f *fakeTenantRepo) GetByName(_ context.Context, name string) (*models.Tenant, error) {
	for _, tenant := range f.tenants {
		if tenant.TenantName == name {
			return tenant, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeTenantRepo) List(_ context.Context, _ repositories.TenantFilters) ([]*models.Tenant, int64, error) {
	out := make([]*models.Tenant, 0, len(f.tenants))
	for _, tenant := range f.tenants {
		out = append(out, tenant)
	}
	return out, int64(len(out)), nil
}

func (f *fakeTenantRepo) Update(_ context.Context, id primitive.ObjectID, fields map[string]any) (*models.Tenant, error) {
	tenant, ok := f.tenants[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if v, ok := fields["tenantName"].(string); ok {
		tenant.TenantName = v
	}
	if v, ok := fields["adminEmail"].(string); ok {
		tenant.AdminEmail = v
	}
	if v, ok := fields["status"].(string); ok {
		tenant.Status = models.TenantStatus(v)
	}
	if v, ok := fields["subscriptionId"].(primitive.ObjectID); ok {
		tenant.SubscriptionID = &v
	}
	return tenant, nil
}

func (f *fakeTenantRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.tenants[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.tenants, id)
	return nil
}

// ===== admins =====

type fakeAdminRepo struct {
	admins map[primitive.ObjectID]*models.Admin
}

func (f *fakeAdminRepo) Create(_ context.Context, admin *models.Admin) error {
	if admin.ID.IsZero() {
		admin.ID = primitive.NewObjectID()
	}
	f.admins[admin.ID] = admin
	return nil
}

func (f *fakeAdminRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Admin, error) {
	admin, ok := f.admins[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return admin, nil
}

func (f *fakeAdminRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) (*models.Admin, error) {
	for _, admin := range f.admins {
		if admin.UserID == userID {
			return admin, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeAdminRepo) Update(_ context.Context, id primitive.ObjectID, _ map[string]any) (*models.Admin, error) {
	admin, ok := f.admins[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return admin, nil
}

func (f *fakeAdminRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(f.admins, id)
	return nil
}

// ===== subscriptions =====

type fakeSubscriptionRepo struct {
	subs map[primitive.ObjectID]*models.Subscription // keyed by tenant id
}

func (f *fakeSubscriptionRepo) Create(_ context.Context, subscription *models.Subscription) error {
	if subscription.ID.IsZero() {
		subscription.ID = primitive.NewObjectID()
	}
	f.subs[subscription.TenantID] = subscription
	return nil
}

func (f *fakeSubscriptionRepo) GetByTenant(_ context.Context, tenantID primitive.ObjectID) (*models.Subscription, error) {
	sub, ok := f.subs[tenantID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return sub, nil
}

func (f *fakeSubscriptionRepo) List(_ context.Context) ([]*models.Subscription, error) {
	out := make([]*models.Subscription, 0, len(f.subs))
	for _, sub := range f.subs {
		out = append(out, sub)
	}
	return out, nil
}

func (f *fakeSubscriptionRepo) UpdateByTenant(_ context.Context, tenantID primitive.ObjectID, fields map[string]any) (*models.Subscription, error) {
	sub, ok := f.subs[tenantID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if v, ok := fields["plan"].(string); ok {
		sub.Plan = v
	}
	if v, ok := fields["maxStudents"].(int); ok {
		sub.MaxStudents = v
	}
	if v, ok := fields["maxTeachers"].(int); ok {
		sub.MaxTeachers = v
	}
	if v, ok := fields["maxCourses"].(int); ok {
		sub.MaxCourses = v
	}
	if v, ok := fields["status"].(string); ok {
		sub.Status = v
	}
	return sub, nil
}

func (f *fakeSubscriptionRepo) DeleteByTenant(_ context.Context, tenantID primitive.ObjectID) error {
	if _, ok := f.subs[tenantID]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.subs, tenantID)
	return nil
}

// ===== users =====

type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, id primitive.ObjectID, _ map[string]any) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, _ primitive.ObjectID) error { return nil }

func (f *fakeUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(f.users, id)
	return nil
}

// ===== teachers =====

type fakeTeacherRepo struct {
	teachers map[primitive.ObjectID]*models.Teacher
}

func (f *fakeTeacherRepo) Create(_ context.Context, teacher *models.Teacher) error {
	if teacher.ID.IsZero() {
		teacher.ID = primitive.NewObjectID()
	}
	f.teachers[teacher.ID] = teacher
	return nil
}

func (f *fakeTeacherRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Teacher, error) {
	teacher, ok := f.teachers[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return teacher, nil
}

func (f *fakeTeacherRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) (*models.Teacher, error) {
	for _, teacher := range f.teachers {
		if teacher.UserID == userID {
			return teacher, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeTeacherRepo) List(_ context.Context, tenantID *primitive.ObjectID) ([]*models.Teacher, error) {
	var out []*models.Teacher
	for _, teacher := range f.teachers {
		if tenantID == nil || teacher.TenantID == *tenantID {
			out = append(out, teacher)
		}
	}
	return out, nil
}

func (f *fakeTeacherRepo) Update(_ context.Context, id primitive.ObjectID, _ map[string]any) (*models.Teacher, error) {
	teacher, ok := f.teachers[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return teacher, nil
}

func (f *fakeTeacherRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(f.teachers, id)
	return nil
}

func (f *fakeTeacherRepo) AddAssignedCourse(_ context.Context, teacherID, courseID primitive.ObjectID) error {
	teacher, ok := f.teachers[teacherID]
	if !ok {
		return repositories.ErrNotFound
	}
	for _, id := range teacher.AssignedCourses {
		if id == courseID {
			return nil
		}
	}
	teacher.AssignedCourses = append(teacher.AssignedCourses, courseID)
	return nil
}

func (f *fakeTeacherRepo) RemoveAssignedCourse(_ context.Context, teacherID, courseID primitive.ObjectID) (bool, error) {
	teacher, ok := f.teachers[teacherID]
	if !ok {
		return false, repositories.ErrNotFound
	}
	for i, id := range teacher.AssignedCourses {
		if id == courseID {
			teacher.AssignedCourses = append(teacher.AssignedCourses[:i], teacher.AssignedCourses[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// ===== students =====

type fakeStudentRepo struct {
	students map[primitive.ObjectID]*models.Student
}

func (f *fakeStudentRepo) Create(_ context.Context, student *models.Student) error {
	if student.ID.IsZero() {
		student.ID = primitive.NewObjectID()
	}
	f.students[student.ID] = student
	return nil
}

func (f *fakeStudentRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Student, error) {
	student, ok := f.students[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return student, nil
}

func (f *fakeStudentRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) (*models.Student, error) {
	for _, student := range f.students {
		if student.UserID == userID {
			return student, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeStudentRepo) List(_ context.Context, tenantID *primitive.ObjectID) ([]*models.Student, error) {
	var out []*models.Student
	for _, student := range f.students {
		if tenantID == nil || student.TenantID == *tenantID {
			out = append(out, student)
		}
	}
	return out, nil
}

func (f *fakeStudentRepo) ListByCourse(_ context.Context, tenantID, courseID primitive.ObjectID) ([]*models.Student, error) {
	var out []*models.Student
	for _, student := range f.students {
		if student.TenantID != tenantID {
			continue
		}
		for _, id := range student.EnrolledCourses {
			if id == courseID {
				out = append(out, student)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeStudentRepo) Update(_ context.Context, id primitive.ObjectID, _ map[string]any) (*models.Student, error) {
	student, ok := f.students[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return student, nil
}

func (f *fakeStudentRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(f.students, id)
	return nil
}

func (f *fakeStudentRepo) AddEnrolledCourse(_ context.Context, studentID, courseID primitive.ObjectID) (bool, error) {
	student, ok := f.students[studentID]
	if !ok {
		return false, repositories.ErrNotFound
	}
	for _, id := range student.EnrolledCourses {
		if id == courseID {
			return false, nil
		}
	}
	student.EnrolledCourses = append(student.EnrolledCourses, courseID)
	return true, nil
}

func (f *fakeStudentRepo) RemoveEnrolledCourse(_ context.Context, studentID, courseID primitive.ObjectID) (bool, error) {
	student, ok := f.students[studentID]
	if !ok {
		return false, repositories.ErrNotFound
	}
	for i, id := range student.EnrolledCourses {
		if id == courseID {
			student.EnrolledCourses = append(student.EnrolledCourses[:i], student.EnrolledCourses[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStudentRepo) RemoveCourseFromAll(_ context.Context, courseID primitive.ObjectID) (int64, error) {
	var removed int64
	for _, student := range f.students {
		for i, id := range student.EnrolledCourses {
			if id == courseID {
				student.EnrolledCourses = append(student.EnrolledCourses[:i], student.EnrolledCourses[i+1:]...)
				removed++
				break
			}
		}
	}
	return removed, nil
}

func (f *fakeStudentRepo) CountByCourses(_ context.Context, courseIDs []primitive.ObjectID) (int64, error) {
	set := map[primitive.ObjectID]bool{}
	for _, id := range courseIDs {
		set[id] = true
	}
	var count int64
	for _, student := range f.students {
		for _, id := range student.EnrolledCourses {
			if set[id] {
				count++
				break
			}
		}
	}
	return count, nil
}

// ===== courses =====

type fakeCourseRepo struct {
	courses  map[primitive.ObjectID]*models.Course
	incCalls []int
}

func (f *fakeCourseRepo) Create(_ context.Context, course *models.Course) error {
	if course.ID.IsZero() {
		course.ID = primitive.NewObjectID()
	}
	f.courses[course.ID] = course
	return nil
}

func (f *fakeCourseRepo) GetByID(_ context.Context, id, tenantID primitive.ObjectID) (*models.Course, error) {
	course, ok := f.courses[id]
	if !ok || course.TenantID != tenantID {
		return nil, repositories.ErrNotFound
	}
	// Return a copy to mirror Mongo's decode-into-fresh-struct semantics;
	// otherwise Update mutates the document a caller already holds.
	copied := *course
	return &copied, nil
}

func (f *fakeCourseRepo) GetAnyByID(_ context.Context, id primitive.ObjectID) (*models.Course, error) {
	course, ok := f.courses[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return course, nil
}

func (f *fakeCourseRepo) List(_ context.Context, tenantID primitive.ObjectID, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	var out []*models.Course
	for _, course := range f.courses {
		if course.TenantID != tenantID {
			continue
		}
		if filters.Status != nil && string(course.Status) != *filters.Status {
			continue
		}
		if filters.TeacherID != nil && course.TeacherID != *filters.TeacherID {
			continue
		}
		out = append(out, course)
	}
	return out, int64(len(out)), nil
}

func (f *fakeCourseRepo) ListByIDs(_ context.Context, ids []primitive.ObjectID) ([]*models.Course, error) {
	var out []*models.Course
	for _, id := range ids {
		if course, ok := f.courses[id]; ok {
			out = append(out, course)
		}
	}
	return out, nil
}

func (f *fakeCourseRepo) Update(_ context.Context, id, tenantID primitive.ObjectID, fields map[string]any) (*models.Course, error) {
	course, ok := f.courses[id]
	if !ok || course.TenantID != tenantID {
		return nil, repositories.ErrNotFound
	}
	for key, value := range fields {
		switch key {
		case "title":
			course.Title = value.(string)
		case "status":
			course.Status = value.(models.CourseStatus)
		case "teacherId":
			course.TeacherID = value.(primitive.ObjectID)
		case "modules":
			course.Modules = value.([]models.Module)
		}
	}
	return course, nil
}

func (f *fakeCourseRepo) Delete(_ context.Context, id, tenantID primitive.ObjectID) error {
	course, ok := f.courses[id]
	if !ok || course.TenantID != tenantID {
		return repositories.ErrNotFound
	}
	delete(f.courses, id)
	return nil
}

func (f *fakeCourseRepo) IncEnrolledStudents(_ context.Context, id primitive.ObjectID, delta int) error {
	course, ok := f.courses[id]
	if !ok {
		return repositories.ErrNotFound
	}
	course.EnrolledStudents += delta
	f.incCalls = append(f.incCalls, delta)
	return nil
}

func (f *fakeCourseRepo) CountByTeacher(_ context.Context, teacherID primitive.ObjectID) (int64, error) {
	var count int64
	for _, course := range f.courses {
		if course.TeacherID == teacherID {
			count++
		}
	}
	return count, nil
}

// ===== assignments =====

type fakeAssignmentRepo struct {
	assignments map[primitive.ObjectID]*models.Assignment
}

func (f *fakeAssignmentRepo) Create(_ context.Context, assignment *models.Assignment) error {
	if assignment.ID.IsZero() {
		assignment.ID = primitive.NewObjectID()
	}
	f.assignments[assignment.ID] = assignment
	return nil
}

func (f *fakeAssignmentRepo) GetByID(_ context.Context, id, tenantID primitive.ObjectID) (*models.Assignment, error) {
	assignment, ok := f.assignments[id]
	if !ok || assignment.TenantID != tenantID {
		return nil, repositories.ErrNotFound
	}
	return assignment, nil
}

func (f *fakeAssignmentRepo) List(_ context.Context, filters repositories.AssignmentFilters) ([]*models.Assignment, int64, error) {
	var out []*models.Assignment
	for _, assignment := range f.assignments {
		if filters.TenantID != nil && assignment.TenantID != *filters.TenantID {
			continue
		}
		if filters.TeacherID != nil && assignment.TeacherID != *filters.TeacherID {
			continue
		}
		if filters.CourseID != nil && assignment.CourseID != *filters.CourseID {
			continue
		}
		out = append(out, assignment)
	}
	return out, int64(len(out)), nil
}

func (f *fakeAssignmentRepo) Update(_ context.Context, id primitive.ObjectID, fields map[string]any) (*models.Assignment, error) {
	assignment, ok := f.assignments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	for key, value := range fields {
		switch key {
		case "title":
			assignment.Title = value.(string)
		case "status":
			assignment.Status = value.(string)
		case "totalMarks":
			marks := value.(int)
			assignment.TotalMarks = &marks
		}
	}
	return assignment, nil
}

func (f *fakeAssignmentRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.assignments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.assignments, id)
	return nil
}

func (f *fakeAssignmentRepo) CountByTeacher(_ context.Context, teacherID primitive.ObjectID) (int64, error) {
	var count int64
	for _, assignment := range f.assignments {
		if assignment.TeacherID == teacherID {
			count++
		}
	}
	return count, nil
}

// ===== assignment submissions =====

type fakeSubmissionRepo struct {
	submissions map[primitive.ObjectID]*models.AssignmentSubmission
}

func (f *fakeSubmissionRepo) Create(_ context.Context, submission *models.AssignmentSubmission) error {
	if submission.ID.IsZero() {
		submission.ID = primitive.NewObjectID()
	}
	f.submissions[submission.ID] = submission
	return nil
}

func (f *fakeSubmissionRepo) GetByID(_ context.Context, id, tenantID primitive.ObjectID) (*models.AssignmentSubmission, error) {
	submission, ok := f.submissions[id]
	if !ok || submission.TenantID != tenantID {
		return nil, repositories.ErrNotFound
	}
	return submission, nil
}

func (f *fakeSubmissionRepo) ListByTenant(_ context.Context, tenantID primitive.ObjectID) ([]*models.AssignmentSubmission, error) {
	var out []*models.AssignmentSubmission
	for _, submission := range f.submissions {
		if submission.TenantID == tenantID {
			out = append(out, submission)
		}
	}
	return out, nil
}

func (f *fakeSubmissionRepo) ListByStudent(_ context.Context, studentID, tenantID primitive.ObjectID) ([]*models.AssignmentSubmission, error) {
	var out []*models.AssignmentSubmission
	for _, submission := range f.submissions {
		if submission.TenantID == tenantID && submission.StudentID == studentID {
			out = append(out, submission)
		}
	}
	return out, nil
}

func (f *fakeSubmissionRepo) ListByAssignment(_ context.Context, assignmentID, tenantID primitive.ObjectID) ([]*models.AssignmentSubmission, error) {
	var out []*models.AssignmentSubmission
	for _, submission := range f.submissions {
		if submission.TenantID == tenantID && submission.AssignmentID == assignmentID {
			out = append(out, submission)
		}
	}
	return out, nil
}

func (f *fakeSubmissionRepo) Update(_ context.Context, id, tenantID primitive.ObjectID, fields map[string]any) (*models.AssignmentSubmission, error) {
	submission, ok := f.submissions[id]
	if !ok || submission.TenantID != tenantID {
		return nil, repositories.ErrNotFound
	}
	for key, value := range fields {
		switch key {
		case "obtainedMarks":
			marks := value.(int)
			submission.ObtainedMarks = &marks
		case "feedback":
			feedback := value.(string)
			submission.Feedback = &feedback
		case "gradedAt":
			gradedAt := value.(time.Time)
			submission.GradedAt = &gradedAt
		}
	}
	return submission, nil
}

func (f *fakeSubmissionRepo) Delete(_ context.Context, id, tenantID primitive.ObjectID) error {
	submission, ok := f.submissions[id]
	if !ok || submission.TenantID != tenantID {
		return repositories.ErrNotFound
	}
	delete(f.submissions, id)
	return nil
}

// ===== quizzes =====

type fakeQuizRepo struct {
	quizzes map[primitive.ObjectID]*models.Quiz
}

func (f *fakeQuizRepo) Create(_ context.Context, quiz *models.Quiz) error {
	if quiz.ID.IsZero() {
		quiz.ID = primitive.NewObjectID()
	}
	f.quizzes[quiz.ID] = quiz
	return nil
}

func (f *fakeQuizRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Quiz, error) {
	quiz, ok := f.quizzes[id]
	if !ok || quiz.IsDeleted {
		return nil, repositories.ErrNotFound
	}
	return quiz, nil
}

func (f *fakeQuizRepo) List(_ context.Context, filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
	var out []*models.Quiz
	for _, quiz := range f.quizzes {
		if quiz.IsDeleted {
			continue
		}
		if filters.TenantID != nil && quiz.TenantID != *filters.TenantID {
			continue
		}
		if filters.TeacherID != nil && quiz.TeacherID != *filters.TeacherID {
			continue
		}
		if filters.CourseID != nil && quiz.CourseID != *filters.CourseID {
			continue
		}
		out = append(out, quiz)
	}
	return out, int64(len(out)), nil
}

func (f *fakeQuizRepo) ListForCourses(_ context.Context, tenantID primitive.ObjectID, courseIDs []primitive.ObjectID) ([]*models.Quiz, error) {
	set := map[primitive.ObjectID]bool{}
	for _, id := range courseIDs {
		set[id] = true
	}
	var out []*models.Quiz
	for _, quiz := range f.quizzes {
		if !quiz.IsDeleted && quiz.TenantID == tenantID && set[quiz.CourseID] {
			out = append(out, quiz)
		}
	}
	return out, nil
}

func (f *fakeQuizRepo) Update(_ context.Context, id primitive.ObjectID, fields map[string]any) (*models.Quiz, error) {
	quiz, ok := f.quizzes[id]
	if !ok || quiz.IsDeleted {
		return nil, repositories.ErrNotFound
	}
	for key, value := range fields {
		switch key {
		case "description":
			desc := value.(string)
			quiz.Description = &desc
		case "dueDate":
			quiz.DueDate = value.(time.Time)
		case "status":
			quiz.Status = value.(models.QuizStatus)
		case "timeLimitMinutes":
			limit := value.(int)
			quiz.TimeLimitMinutes = &limit
		case "aiGenerated":
			quiz.AIGenerated = value.(bool)
		case "questions":
			quiz.Questions = value.([]models.QuizQuestion)
		case "totalMarks":
			quiz.TotalMarks = value.(int)
		case "quizNumber":
			quiz.QuizNumber = value.(int)
		}
	}
	return quiz, nil
}

func (f *fakeQuizRepo) SoftDelete(_ context.Context, id primitive.ObjectID) error {
	quiz, ok := f.quizzes[id]
	if !ok || quiz.IsDeleted {
		return repositories.ErrNotFound
	}
	now := time.Now().UTC()
	quiz.IsDeleted = true
	quiz.DeletedAt = &now
	return nil
}

func (f *fakeQuizRepo) CountByTeacher(_ context.Context, teacherID primitive.ObjectID) (int64, error) {
	var count int64
	for _, quiz := range f.quizzes {
		if !quiz.IsDeleted && quiz.TeacherID == teacherID {
			count++
		}
	}
	return count, nil
}

// ===== quiz submissions =====

type fakeQuizSubmissionRepo struct {
	submissions []*models.QuizSubmission
}

func (f *fakeQuizSubmissionRepo) Create(_ context.Context, submission *models.QuizSubmission) error {
	if submission.ID.IsZero() {
		submission.ID = primitive.NewObjectID()
	}
	f.submissions = append(f.submissions, submission)
	return nil
}

func (f *fakeQuizSubmissionRepo) CountByQuiz(_ context.Context, quizID primitive.ObjectID) (int64, error) {
	var count int64
	for _, sub := range f.submissions {
		if sub.QuizID == quizID {
			count++
		}
	}
	return count, nil
}

func (f *fakeQuizSubmissionRepo) ListByQuiz(_ context.Context, quizID primitive.ObjectID) ([]*models.QuizSubmission, error) {
	var out []*models.QuizSubmission
	for _, sub := range f.submissions {
		if sub.QuizID == quizID {
			out = append(out, sub)
		}
	}
	return out, nil
}
