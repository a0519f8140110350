package services

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eduverse/school-service/internal/events"
	"github.com/eduverse/school-service/internal/models"
	"github.com/eduverse/school-service/internal/repositories"
	"github.com/eduverse/school-service/internal/validator"
)

type courseService struct {
	repo           repositories.Repository
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
}

func NewCourseService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) CourseService {
	return &courseService{
		repo:           repo,
		logger:         logger,
		validator:      v,
		eventPublisher: publisher,
	}
}

func (s *courseService) Create(ctx context.Context, actor Actor, req *CreateCourseRequest) (*models.Course, error) {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	tenantID, err := actorTenantID(actor)
	if err != nil {
		return nil, err
	}

	teacherID, err := parseObjectID(req.TeacherID)
	if err != nil {
		return nil, err
	}

	teacher, err := s.repo.Teacher().GetByID(ctx, teacherID)
	if err != nil {
		return nil, mapRepoErr(err, ErrTeacherNotFound)
	}
	if teacher.TenantID != tenantID {
		return nil, NewCrossTenantReferenceError("teacher")
	}

	// Teachers may only create courses for themselves.
	if actor.Role == models.RoleTeacher && actor.ProfileID != req.TeacherID {
		return nil, NewPermissionError(actor.UserID, "course", "create", "teacher can only create own courses")
	}

	now := time.Now().UTC()
	course := &models.Course{
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Category:     req.Category,
		Level:        req.Level,
		Status:       models.CourseDraft,
		CourseCode:   req.CourseCode,
		Duration:     req.Duration,
		ThumbnailURL: req.ThumbnailURL,
		Modules:      normalizeModules(req.Modules),
		TeacherID:    teacherID,
		TenantID:     tenantID,
		IsPublic:     req.IsPublic,
		IsFree:       req.IsFree,
		Price:        req.Price,
		Currency:     req.Currency,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Course().Create(ctx, course); err != nil {
		return nil, err
	}

	if err := s.repo.Teacher().AddAssignedCourse(ctx, teacherID, course.ID); err != nil {
		s.logger.Warn("Failed to record course on teacher profile",
			"course_id", course.ID.Hex(), "teacher_id", req.TeacherID, "error", err)
	}

	s.logger.Info("Course created",
		"course_id", course.ID.Hex(),
		"teacher_id", req.TeacherID,
		"tenant_id", actor.TenantID)

	return course, nil
}

// normalizeModules assigns ids and sequential order to modules and lessons
// that arrive without them.
func normalizeModules(modules []models.Module) []models.Module {
	out := make([]models.Module, len(modules))
	for i, m := range modules {
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		m.Order = i + 1
		for j := range m.Lessons {
			if m.Lessons[j].ID == "" {
				m.Lessons[j].ID = uuid.NewString()
			}
			m.Lessons[j].Order = j + 1
		}
		out[i] = m
	}
	return out
}

func (s *courseService) GetByID(ctx context.Context, actor Actor, id string) (*models.Course, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	tenantID, err := actorTenantID(actor)
	if err != nil {
		return nil, err
	}

	course, err := s.repo.Course().GetByID(ctx, oid, tenantID)
	if err != nil {
		if !repositories.IsNotFoundError(err) {
			return nil, err
		}
		// Distinguish missing from cross-tenant for a clearer error.
		if _, anyErr := s.repo.Course().GetAnyByID(ctx, oid); anyErr == nil {
			return nil, NewCrossTenantError("course")
		}
		return nil, ErrCourseNotFound
	}

	s.attachInstructorName(ctx, course)
	return course, nil
}

func (s *courseService) attachInstructorName(ctx context.Context, course *models.Course) {
	teacher, err := s.repo.Teacher().GetByID(ctx, course.TeacherID)
	if err != nil {
		return
	}
	user, err := s.repo.User().GetByID(ctx, teacher.UserID)
	if err != nil {
		return
	}
	course.InstructorName = user.FullName
}

func (s *courseService) List(ctx context.Context, actor Actor, req *ListCoursesRequest) (*CourseListResponse, error) {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	tenantID, err := actorTenantID(actor)
	if err != nil {
		return nil, err
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filters := repositories.CourseFilters{
		Status:   req.Status,
		Category: req.Category,
		Search:   req.Search,
		Skip:     (page - 1) * limit,
		Limit:    limit,
	}
	if req.TeacherID != nil {
		teacherID, err := parseObjectID(*req.TeacherID)
		if err != nil {
			return nil, err
		}
		filters.TeacherID = &teacherID
	}

	// Students only see published courses.
	if actor.Role == models.RoleStudent {
		published := string(models.CoursePublished)
		filters.Status = &published
	}

	courses, total, err := s.repo.Course().List(ctx, tenantID, filters)
	if err != nil {
		return nil, err
	}

	for _, course := range courses {
		s.attachInstructorName(ctx, course)
	}

	return &CourseListResponse{
		Courses: courses,
		Total:   total,
		Page:    page,
		Limit:   limit,
	}, nil
}

func (s *courseService) Update(ctx context.Context, actor Actor, id string, req *UpdateCourseRequest) (*models.Course, error) {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	course, err := s.GetByID(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := s.requireOwnership(actor, course, "update"); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Title != nil {
		fields["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.Level != nil {
		fields["level"] = *req.Level
	}
	if req.CourseCode != nil {
		fields["courseCode"] = *req.CourseCode
	}
	if req.Duration != nil {
		fields["duration"] = *req.Duration
	}
	if req.ThumbnailURL != nil {
		fields["thumbnailUrl"] = *req.ThumbnailURL
	}
	if req.Modules != nil {
		fields["modules"] = normalizeModules(req.Modules)
	}
	if req.IsPublic != nil {
		fields["isPublic"] = *req.IsPublic
	}
	if req.IsFree != nil {
		fields["isFree"] = *req.IsFree
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.Currency != nil {
		fields["currency"] = *req.Currency
	}
	fields = validator.SanitizeUpdateMap(fields)

	updated, err := s.repo.Course().Update(ctx, course.ID, course.TenantID, fields)
	if err != nil {
		return nil, mapRepoErr(err, ErrCourseNotFound)
	}

	s.attachInstructorName(ctx, updated)
	return updated, nil
}

// Delete removes the course and cleans up every reference to it: the
// owning teacher's assignedCourses and all students' course lists. The
// response reports the fan-out so callers can audit it.
func (s *courseService) Delete(ctx context.Context, actor Actor, id string) (*DeleteCourseResponse, error) {
	course, err := s.GetByID(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := s.requireOwnership(actor, course, "delete"); err != nil {
		return nil, err
	}

	if err := s.repo.Course().Delete(ctx, course.ID, course.TenantID); err != nil {
		return nil, mapRepoErr(err, ErrCourseNotFound)
	}

	teacherUpdated, err := s.repo.Teacher().RemoveAssignedCourse(ctx, course.TeacherID, course.ID)
	if err != nil {
		s.logger.Warn("Failed to remove course from teacher", "course_id", id, "error", err)
	}

	removed, err := s.repo.Student().RemoveCourseFromAll(ctx, course.ID)
	if err != nil {
		s.logger.Warn("Failed to remove course from students", "course_id", id, "error", err)
	}

	s.publishEvent(ctx, events.EventCourseDeleted, map[string]any{
		"courseId":            id,
		"tenantId":            actor.TenantID,
		"removedFromStudents": removed,
	})

	s.logger.Info("Course deleted",
		"course_id", id,
		"removed_from_students", removed,
		"teacher_updated", teacherUpdated,
		"deleted_by", actor.UserID)

	return &DeleteCourseResponse{
		Message:             "course deleted",
		RemovedFromStudents: removed,
		TeacherUpdated:      teacherUpdated,
	}, nil
}

func (s *courseService) Publish(ctx context.Context, actor Actor, id string) (*models.Course, error) {
	course, err := s.GetByID(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := s.requireOwnership(actor, course, "publish"); err != nil {
		return nil, err
	}

	if errs := s.validator.ValidateCoursePublish(course); len(errs) > 0 {
		return nil, errs
	}

	now := time.Now().UTC()
	updated, err := s.repo.Course().Update(ctx, course.ID, course.TenantID, map[string]any{
		"status":      models.CoursePublished,
		"publishedAt": now,
	})
	if err != nil {
		return nil, mapRepoErr(err, ErrCourseNotFound)
	}

	s.publishEvent(ctx, events.EventCoursePublished, map[string]any{
		"courseId": id,
		"tenantId": actor.TenantID,
		"title":    course.Title,
	})

	s.attachInstructorName(ctx, updated)
	return updated, nil
}

// Enroll adds the student to the course. The stored enrolledStudents
// counter is only incremented when the membership write actually changed
// the document, so retries cannot drift the counter.
func (s *courseService) Enroll(ctx context.Context, actor Actor, courseID string, req *EnrollmentRequest) error {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return errs
	}

	course, err := s.GetByID(ctx, actor, courseID)
	if err != nil {
		return err
	}

	studentID, err := parseObjectID(req.StudentID)
	if err != nil {
		return err
	}

	student, err := s.repo.Student().GetByID(ctx, studentID)
	if err != nil {
		return mapRepoErr(err, ErrStudentNotFound)
	}
	if student.TenantID != course.TenantID {
		return NewCrossTenantReferenceError("student")
	}

	// Students may only enroll themselves.
	if actor.Role == models.RoleStudent && actor.ProfileID != req.StudentID {
		return NewPermissionError(actor.UserID, "course", "enroll", "students can only enroll themselves")
	}

	if course.Status != models.CoursePublished {
		return NewBusinessRuleError("course_not_published", "cannot enroll in an unpublished course")
	}

	modified, err := s.repo.Student().AddEnrolledCourse(ctx, studentID, course.ID)
	if err != nil {
		return err
	}
	if !modified {
		return NewBusinessRuleError("already_enrolled", "student is already enrolled in this course")
	}

	if err := s.repo.Course().IncEnrolledStudents(ctx, course.ID, 1); err != nil {
		s.logger.Error("Failed to bump enrollment counter",
			"course_id", courseID, "student_id", req.StudentID, "error", err)
	}

	s.publishEvent(ctx, events.EventStudentEnrolled, map[string]any{
		"courseId":  courseID,
		"studentId": req.StudentID,
		"tenantId":  actor.TenantID,
	})

	s.logger.Info("Student enrolled", "course_id", courseID, "student_id", req.StudentID)
	return nil
}

func (s *courseService) Unenroll(ctx context.Context, actor Actor, courseID string, req *EnrollmentRequest) error {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return errs
	}

	course, err := s.GetByID(ctx, actor, courseID)
	if err != nil {
		return err
	}

	studentID, err := parseObjectID(req.StudentID)
	if err != nil {
		return err
	}

	student, err := s.repo.Student().GetByID(ctx, studentID)
	if err != nil {
		return mapRepoErr(err, ErrStudentNotFound)
	}
	if student.TenantID != course.TenantID {
		return NewCrossTenantReferenceError("student")
	}

	if actor.Role == models.RoleStudent && actor.ProfileID != req.StudentID {
		return NewPermissionError(actor.UserID, "course", "unenroll", "students can only unenroll themselves")
	}

	modified, err := s.repo.Student().RemoveEnrolledCourse(ctx, studentID, course.ID)
	if err != nil {
		return err
	}
	if !modified {
		return NewBusinessRuleError("not_enrolled", "student is not enrolled in this course")
	}

	if err := s.repo.Course().IncEnrolledStudents(ctx, course.ID, -1); err != nil {
		s.logger.Error("Failed to decrement enrollment counter",
			"course_id", courseID, "student_id", req.StudentID, "error", err)
	}

	s.publishEvent(ctx, events.EventStudentUnenrolled, map[string]any{
		"courseId":  courseID,
		"studentId": req.StudentID,
		"tenantId":  actor.TenantID,
	})

	s.logger.Info("Student unenrolled", "course_id", courseID, "student_id", req.StudentID)
	return nil
}

// ReassignTeacher moves the course to another teacher in the same tenant,
// pulling it from the old profile and adding it to the new one.
func (s *courseService) ReassignTeacher(ctx context.Context, actor Actor, courseID string, req *ReassignTeacherRequest) (*models.Course, error) {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	course, err := s.GetByID(ctx, actor, courseID)
	if err != nil {
		return nil, err
	}

	newTeacherID, err := parseObjectID(req.TeacherID)
	if err != nil {
		return nil, err
	}

	newTeacher, err := s.repo.Teacher().GetByID(ctx, newTeacherID)
	if err != nil {
		return nil, mapRepoErr(err, ErrTeacherNotFound)
	}
	if newTeacher.TenantID != course.TenantID {
		return nil, NewCrossTenantReferenceError("teacher")
	}

	if newTeacherID == course.TeacherID {
		return nil, NewBusinessRuleError("same_teacher", "course is already assigned to this teacher")
	}

	updated, err := s.repo.Course().Update(ctx, course.ID, course.TenantID, map[string]any{
		"teacherId": newTeacherID,
	})
	if err != nil {
		return nil, mapRepoErr(err, ErrCourseNotFound)
	}

	if _, err := s.repo.Teacher().RemoveAssignedCourse(ctx, course.TeacherID, course.ID); err != nil {
		s.logger.Warn("Failed to remove course from previous teacher",
			"course_id", courseID, "error", err)
	}
	if err := s.repo.Teacher().AddAssignedCourse(ctx, newTeacherID, course.ID); err != nil {
		s.logger.Warn("Failed to add course to new teacher",
			"course_id", courseID, "error", err)
	}

	s.logger.Info("Course reassigned",
		"course_id", courseID,
		"from_teacher", course.TeacherID.Hex(),
		"to_teacher", req.TeacherID)

	s.attachInstructorName(ctx, updated)
	return updated, nil
}

// ReorderModules rewrites module order to match the given id sequence.
// Every existing module must appear exactly once.
func (s *courseService) ReorderModules(ctx context.Context, actor Actor, courseID string, req *ReorderModulesRequest) (*models.Course, error) {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	course, err := s.GetByID(ctx, actor, courseID)
	if err != nil {
		return nil, err
	}

	if err := s.requireOwnership(actor, course, "reorder"); err != nil {
		return nil, err
	}

	if len(req.ModuleIDs) != len(course.Modules) {
		return nil, NewBusinessRuleError("module_mismatch", "module id list must cover every module exactly once")
	}

	byID := make(map[string]models.Module, len(course.Modules))
	for _, m := range course.Modules {
		byID[m.ID] = m
	}

	reordered := make([]models.Module, 0, len(req.ModuleIDs))
	for i, id := range req.ModuleIDs {
		m, ok := byID[id]
		if !ok {
			return nil, NewBusinessRuleError("unknown_module", "module id does not belong to this course")
		}
		delete(byID, id)
		m.Order = i + 1
		reordered = append(reordered, m)
	}

	updated, err := s.repo.Course().Update(ctx, course.ID, course.TenantID, map[string]any{
		"modules": reordered,
	})
	if err != nil {
		return nil, mapRepoErr(err, ErrCourseNotFound)
	}

	s.attachInstructorName(ctx, updated)
	return updated, nil
}

// ReorderLessons rewrites lesson order within one module to match the given
// id sequence. Every lesson in the module must appear exactly once.
func (s *courseService) ReorderLessons(ctx context.Context, actor Actor, courseID, moduleID string, req *ReorderLessonsRequest) (*models.Course, error) {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	course, err := s.GetByID(ctx, actor, courseID)
	if err != nil {
		return nil, err
	}

	if err := s.requireOwnership(actor, course, "reorder"); err != nil {
		return nil, err
	}

	moduleIdx := -1
	for i, m := range course.Modules {
		if m.ID == moduleID {
			moduleIdx = i
			break
		}
	}
	if moduleIdx == -1 {
		return nil, NewBusinessRuleError("unknown_module", "module id does not belong to this course")
	}

	module := course.Modules[moduleIdx]
	if len(req.LessonIDs) != len(module.Lessons) {
		return nil, NewBusinessRuleError("lesson_mismatch", "lesson id list must cover every lesson exactly once")
	}

	byID := make(map[string]models.Lesson, len(module.Lessons))
	for _, l := range module.Lessons {
		byID[l.ID] = l
	}

	reordered := make([]models.Lesson, 0, len(req.LessonIDs))
	for i, id := range req.LessonIDs {
		l, ok := byID[id]
		if !ok {
			return nil, NewBusinessRuleError("unknown_lesson", "lesson id does not belong to this module")
		}
		delete(byID, id)
		l.Order = i + 1
		reordered = append(reordered, l)
	}

	modules := make([]models.Module, len(course.Modules))
	copy(modules, course.Modules)
	modules[moduleIdx].Lessons = reordered

	updated, err := s.repo.Course().Update(ctx, course.ID, course.TenantID, map[string]any{
		"modules": modules,
	})
	if err != nil {
		return nil, mapRepoErr(err, ErrCourseNotFound)
	}

	s.attachInstructorName(ctx, updated)
	return updated, nil
}

// GetStudents lists the enrolled students, sorted by name.
func (s *courseService) GetStudents(ctx context.Context, actor Actor, courseID string) ([]*StudentResponse, error) {
	course, err := s.GetByID(ctx, actor, courseID)
	if err != nil {
		return nil, err
	}

	students, err := s.repo.Student().ListByCourse(ctx, course.TenantID, course.ID)
	if err != nil {
		return nil, err
	}

	responses := make([]*StudentResponse, 0, len(students))
	for _, student := range students {
		user, err := s.repo.User().GetByID(ctx, student.UserID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				continue
			}
			return nil, err
		}
		responses = append(responses, composeStudentResponse(user, student))
	}

	sort.Slice(responses, func(i, j int) bool {
		return responses[i].FullName < responses[j].FullName
	})
	return responses, nil
}

// requireOwnership lets admins act on any course in the tenant but
// restricts teachers to their own.
func (s *courseService) requireOwnership(actor Actor, course *models.Course, action string) error {
	if actor.Role == models.RoleAdmin || actor.Role == models.RoleSuperAdmin {
		return nil
	}
	if actor.Role == models.RoleTeacher && actor.ProfileID == course.TeacherID.Hex() {
		return nil
	}
	return NewPermissionError(actor.UserID, "course", action, "not course owner")
}

func (s *courseService) publishEvent(ctx context.Context, eventType string, data any) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		s.logger.Warn("Failed to publish event", "event_type", eventType, "error", err)
	}
}
