package services

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/eduverse/school-service/internal/events"
	"github.com/eduverse/school-service/internal/models"
	"github.com/eduverse/school-service/internal/validator"
)

type courseFixture struct {
	repo      *fakeRepository
	publisher *events.MockEventPublisher
	service   CourseService
	tenantID  primitive.ObjectID
	teacher   *models.Teacher
	course    *models.Course
}

func newCourseFixture(t *testing.T) *courseFixture {
	t.Helper()

	repo := newFakeRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	service := NewCourseService(repo, testLogger(), validator.New(), publisher)

	tenantID := primitive.NewObjectID()
	teacher := &models.Teacher{
		ID:       primitive.NewObjectID(),
		UserID:   primitive.NewObjectID(),
		TenantID: tenantID,
	}
	repo.teachers.teachers[teacher.ID] = teacher

	course := &models.Course{
		ID:        primitive.NewObjectID(),
		Title:     "Algebra Basics",
		Category:  "math",
		Level:     "beginner",
		Status:    models.CoursePublished,
		TeacherID: teacher.ID,
		TenantID:  tenantID,
	}
	repo.courses.courses[course.ID] = course
	teacher.AssignedCourses = []primitive.ObjectID{course.ID}

	return &courseFixture{
		repo:      repo,
		publisher: publisher,
		service:   service,
		tenantID:  tenantID,
		teacher:   teacher,
		course:    course,
	}
}

func (f *courseFixture) addStudent(enrolled ...primitive.ObjectID) *models.Student {
	student := &models.Student{
		ID:              primitive.NewObjectID(),
		UserID:          primitive.NewObjectID(),
		TenantID:        f.tenantID,
		EnrolledCourses: enrolled,
	}
	f.repo.students.students[student.ID] = student
	return student
}

func (f *courseFixture) adminActor() Actor {
	return Actor{
		UserID:    primitive.NewObjectID().Hex(),
		TenantID:  f.tenantID.Hex(),
		Role:      models.RoleAdmin,
		ProfileID: primitive.NewObjectID().Hex(),
	}
}

func (f *courseFixture) studentActor(student *models.Student) Actor {
	return Actor{
		UserID:    student.UserID.Hex(),
		TenantID:  f.tenantID.Hex(),
		Role:      models.RoleStudent,
		ProfileID: student.ID.Hex(),
	}
}

func TestCourseService_Enroll(t *testing.T) {
	ctx := context.Background()

	t.Run("enrolls and bumps the counter once", func(t *testing.T) {
		f := newCourseFixture(t)
		student := f.addStudent()

		err := f.service.Enroll(ctx, f.studentActor(student), f.course.ID.Hex(), &EnrollmentRequest{StudentID: student.ID.Hex()})
		if err != nil {
			t.Fatalf("Enroll failed: %v", err)
		}

		if f.course.EnrolledStudents != 1 {
			t.Errorf("expected counter 1, got %d", f.course.EnrolledStudents)
		}
		if len(student.EnrolledCourses) != 1 || student.EnrolledCourses[0] != f.course.ID {
			t.Errorf("course missing from student's enrolled list")
		}
	})

	t.Run("duplicate enrollment leaves the counter alone", func(t *testing.T) {
		f := newCourseFixture(t)
		student := f.addStudent(f.course.ID)
		f.course.EnrolledStudents = 1

		err := f.service.Enroll(ctx, f.studentActor(student), f.course.ID.Hex(), &EnrollmentRequest{StudentID: student.ID.Hex()})

		var ruleErr *BusinessRuleError
		if !errors.As(err, &ruleErr) || ruleErr.Rule != "already_enrolled" {
			t.Fatalf("expected already_enrolled, got %v", err)
		}
		if f.course.EnrolledStudents != 1 {
			t.Errorf("counter drifted to %d", f.course.EnrolledStudents)
		}
		if len(f.repo.courses.incCalls) != 0 {
			t.Errorf("counter update should not run on a no-op enrollment")
		}
	})

	t.Run("rejects enrollment in a draft course", func(t *testing.T) {
		f := newCourseFixture(t)
		f.course.Status = models.CourseDraft
		student := f.addStudent()

		err := f.service.Enroll(ctx, f.studentActor(student), f.course.ID.Hex(), &EnrollmentRequest{StudentID: student.ID.Hex()})

		var ruleErr *BusinessRuleError
		if !errors.As(err, &ruleErr) || ruleErr.Rule != "course_not_published" {
			t.Fatalf("expected course_not_published, got %v", err)
		}
	})

	t.Run("students cannot enroll someone else", func(t *testing.T) {
		f := newCourseFixture(t)
		student := f.addStudent()
		other := f.addStudent()

		err := f.service.Enroll(ctx, f.studentActor(student), f.course.ID.Hex(), &EnrollmentRequest{StudentID: other.ID.Hex()})

		var permErr *PermissionError
		if !errors.As(err, &permErr) {
			t.Fatalf("expected permission error, got %v", err)
		}
	})

	t.Run("rejects a student from another tenant", func(t *testing.T) {
		f := newCourseFixture(t)
		student := f.addStudent()
		student.TenantID = primitive.NewObjectID()

		err := f.service.Enroll(ctx, f.adminActor(), f.course.ID.Hex(), &EnrollmentRequest{StudentID: student.ID.Hex()})

		var crossErr *CrossTenantError
		if !errors.As(err, &crossErr) {
			t.Fatalf("expected cross-tenant error, got %v", err)
		}
		if !crossErr.Reference {
			t.Fatal("expected a reference error, the payload named the student")
		}
	})
}

func TestCourseService_Unenroll(t *testing.T) {
	ctx := context.Background()

	t.Run("unenrolls and decrements the counter", func(t *testing.T) {
		f := newCourseFixture(t)
		student := f.addStudent(f.course.ID)
		f.course.EnrolledStudents = 1

		err := f.service.Unenroll(ctx, f.studentActor(student), f.course.ID.Hex(), &EnrollmentRequest{StudentID: student.ID.Hex()})
		if err != nil {
			t.Fatalf("Unenroll failed: %v", err)
		}
		if f.course.EnrolledStudents != 0 {
			t.Errorf("expected counter 0, got %d", f.course.EnrolledStudents)
		}
	})

	t.Run("not enrolled is a rule violation", func(t *testing.T) {
		f := newCourseFixture(t)
		student := f.addStudent()

		err := f.service.Unenroll(ctx, f.studentActor(student), f.course.ID.Hex(), &EnrollmentRequest{StudentID: student.ID.Hex()})

		var ruleErr *BusinessRuleError
		if !errors.As(err, &ruleErr) || ruleErr.Rule != "not_enrolled" {
			t.Fatalf("expected not_enrolled, got %v", err)
		}
	})
}

func TestCourseService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("cleans up teacher and student references", func(t *testing.T) {
		f := newCourseFixture(t)
		f.addStudent(f.course.ID)
		f.addStudent(f.course.ID)
		f.addStudent()

		resp, err := f.service.Delete(ctx, f.adminActor(), f.course.ID.Hex())
		if err != nil {
			t.Fatalf("Delete failed: %v", err)
		}

		if resp.RemovedFromStudents != 2 {
			t.Errorf("expected 2 students cleaned, got %d", resp.RemovedFromStudents)
		}
		if !resp.TeacherUpdated {
			t.Errorf("expected teacher's assignedCourses to change")
		}
		if len(f.teacher.AssignedCourses) != 0 {
			t.Errorf("course still on teacher profile")
		}
		if _, ok := f.repo.courses.courses[f.course.ID]; ok {
			t.Errorf("course document still present")
		}
	})

	t.Run("teachers cannot delete another teacher's course", func(t *testing.T) {
		f := newCourseFixture(t)
		actor := Actor{
			UserID:    primitive.NewObjectID().Hex(),
			TenantID:  f.tenantID.Hex(),
			Role:      models.RoleTeacher,
			ProfileID: primitive.NewObjectID().Hex(),
		}

		_, err := f.service.Delete(ctx, actor, f.course.ID.Hex())

		var permErr *PermissionError
		if !errors.As(err, &permErr) {
			t.Fatalf("expected permission error, got %v", err)
		}
	})
}

func TestCourseService_ReassignTeacher(t *testing.T) {
	ctx := context.Background()

	t.Run("moves the course between teacher profiles", func(t *testing.T) {
		f := newCourseFixture(t)
		newTeacher := &models.Teacher{
			ID:       primitive.NewObjectID(),
			UserID:   primitive.NewObjectID(),
			TenantID: f.tenantID,
		}
		f.repo.teachers.teachers[newTeacher.ID] = newTeacher

		updated, err := f.service.ReassignTeacher(ctx, f.adminActor(), f.course.ID.Hex(), &ReassignTeacherRequest{TeacherID: newTeacher.ID.Hex()})
		if err != nil {
			t.Fatalf("ReassignTeacher failed: %v", err)
		}

		if updated.TeacherID != newTeacher.ID {
			t.Errorf("course still owned by the old teacher")
		}
		if len(f.teacher.AssignedCourses) != 0 {
			t.Errorf("course not pulled from the old teacher")
		}
		if len(newTeacher.AssignedCourses) != 1 || newTeacher.AssignedCourses[0] != f.course.ID {
			t.Errorf("course not added to the new teacher")
		}
	})

	t.Run("reassigning to the current teacher is rejected", func(t *testing.T) {
		f := newCourseFixture(t)

		_, err := f.service.ReassignTeacher(ctx, f.adminActor(), f.course.ID.Hex(), &ReassignTeacherRequest{TeacherID: f.teacher.ID.Hex()})

		var ruleErr *BusinessRuleError
		if !errors.As(err, &ruleErr) || ruleErr.Rule != "same_teacher" {
			t.Fatalf("expected same_teacher, got %v", err)
		}
	})

	t.Run("rejects a teacher from another tenant", func(t *testing.T) {
		f := newCourseFixture(t)
		outsider := &models.Teacher{
			ID:       primitive.NewObjectID(),
			TenantID: primitive.NewObjectID(),
		}
		f.repo.teachers.teachers[outsider.ID] = outsider

		_, err := f.service.ReassignTeacher(ctx, f.adminActor(), f.course.ID.Hex(), &ReassignTeacherRequest{TeacherID: outsider.ID.Hex()})

		var crossErr *CrossTenantError
		if !errors.As(err, &crossErr) {
			t.Fatalf("expected cross-tenant error, got %v", err)
		}
		if !crossErr.Reference {
			t.Fatal("expected a reference error, the payload named the teacher")
		}
	})
}

func TestCourseService_ReorderModules(t *testing.T) {
	ctx := context.Background()

	t.Run("rewrites order to match the id sequence", func(t *testing.T) {
		f := newCourseFixture(t)
		f.course.Modules = []models.Module{
			{ID: "m1", Title: "Intro", Order: 1},
			{ID: "m2", Title: "Core", Order: 2},
			{ID: "m3", Title: "Review", Order: 3},
		}

		updated, err := f.service.ReorderModules(ctx, f.adminActor(), f.course.ID.Hex(), &ReorderModulesRequest{
			ModuleIDs: []string{"m3", "m1", "m2"},
		})
		if err != nil {
			t.Fatalf("ReorderModules failed: %v", err)
		}

		want := []string{"m3", "m1", "m2"}
		for i, m := range updated.Modules {
			if m.ID != want[i] {
				t.Errorf("position %d: expected %s, got %s", i, want[i], m.ID)
			}
			if m.Order != i+1 {
				t.Errorf("module %s: expected order %d, got %d", m.ID, i+1, m.Order)
			}
		}
	})

	t.Run("incomplete id list is rejected", func(t *testing.T) {
		f := newCourseFixture(t)
		f.course.Modules = []models.Module{{ID: "m1"}, {ID: "m2"}}

		_, err := f.service.ReorderModules(ctx, f.adminActor(), f.course.ID.Hex(), &ReorderModulesRequest{
			ModuleIDs: []string{"m1"},
		})

		var ruleErr *BusinessRuleError
		if !errors.As(err, &ruleErr) || ruleErr.Rule != "module_mismatch" {
			t.Fatalf("expected module_mismatch, got %v", err)
		}
	})

	t.Run("unknown and duplicated ids are rejected", func(t *testing.T) {
		f := newCourseFixture(t)
		f.course.Modules = []models.Module{{ID: "m1"}, {ID: "m2"}}

		_, err := f.service.ReorderModules(ctx, f.adminActor(), f.course.ID.Hex(), &ReorderModulesRequest{
			ModuleIDs: []string{"m1", "m1"},
		})

		var ruleErr *BusinessRuleError
		if !errors.As(err, &ruleErr) || ruleErr.Rule != "unknown_module" {
			t.Fatalf("expected unknown_module, got %v", err)
		}
	})
}

func TestCourseService_ReorderLessons(t *testing.T) {
	ctx := context.Background()

	lessons := func() []models.Lesson {
		return []models.Lesson{
			{ID: "l1", Title: "Welcome", Order: 1},
			{ID: "l2", Title: "Setup", Order: 2},
			{ID: "l3", Title: "Recap", Order: 3},
		}
	}

	t.Run("rewrites order within the module", func(t *testing.T) {
		f := newCourseFixture(t)
		f.course.Modules = []models.Module{
			{ID: "m1", Title: "Intro", Order: 1, Lessons: lessons()},
			{ID: "m2", Title: "Core", Order: 2, Lessons: []models.Lesson{{ID: "x1", Order: 1}}},
		}

		updated, err := f.service.ReorderLessons(ctx, f.adminActor(), f.course.ID.Hex(), "m1", &ReorderLessonsRequest{
			LessonIDs: []string{"l3", "l1", "l2"},
		})
		if err != nil {
			t.Fatalf("ReorderLessons failed: %v", err)
		}

		want := []string{"l3", "l1", "l2"}
		for i, l := range updated.Modules[0].Lessons {
			if l.ID != want[i] {
				t.Errorf("position %d: expected %s, got %s", i, want[i], l.ID)
			}
			if l.Order != i+1 {
				t.Errorf("lesson %s: expected order %d, got %d", l.ID, i+1, l.Order)
			}
		}
		if got := updated.Modules[1].Lessons[0].ID; got != "x1" {
			t.Errorf("other module touched, lesson is now %s", got)
		}
	})

	t.Run("unknown module is rejected", func(t *testing.T) {
		f := newCourseFixture(t)
		f.course.Modules = []models.Module{{ID: "m1", Lessons: lessons()}}

		_, err := f.service.ReorderLessons(ctx, f.adminActor(), f.course.ID.Hex(), "missing", &ReorderLessonsRequest{
			LessonIDs: []string{"l1", "l2", "l3"},
		})

		var ruleErr *BusinessRuleError
		if !errors.As(err, &ruleErr) || ruleErr.Rule != "unknown_module" {
			t.Fatalf("expected unknown_module, got %v", err)
		}
	})

	t.Run("incomplete id list is rejected", func(t *testing.T) {
		f := newCourseFixture(t)
		f.course.Modules = []models.Module{{ID: "m1", Lessons: lessons()}}

		_, err := f.service.ReorderLessons(ctx, f.adminActor(), f.course.ID.Hex(), "m1", &ReorderLessonsRequest{
			LessonIDs: []string{"l1", "l2"},
		})

		var ruleErr *BusinessRuleError
		if !errors.As(err, &ruleErr) || ruleErr.Rule != "lesson_mismatch" {
			t.Fatalf("expected lesson_mismatch, got %v", err)
		}
	})

	t.Run("unknown and duplicated ids are rejected", func(t *testing.T) {
		f := newCourseFixture(t)
		f.course.Modules = []models.Module{{ID: "m1", Lessons: lessons()}}

		_, err := f.service.ReorderLessons(ctx, f.adminActor(), f.course.ID.Hex(), "m1", &ReorderLessonsRequest{
			LessonIDs: []string{"l1", "l1", "l2"},
		})

		var ruleErr *BusinessRuleError
		if !errors.As(err, &ruleErr) || ruleErr.Rule != "unknown_lesson" {
			t.Fatalf("expected unknown_lesson, got %v", err)
		}
	})
}

func TestCourseService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("cross-tenant reads are reported as such", func(t *testing.T) {
		f := newCourseFixture(t)
		actor := Actor{
			UserID:   primitive.NewObjectID().Hex(),
			TenantID: primitive.NewObjectID().Hex(),
			Role:     models.RoleAdmin,
		}

		_, err := f.service.GetByID(ctx, actor, f.course.ID.Hex())

		var crossErr *CrossTenantError
		if !errors.As(err, &crossErr) {
			t.Fatalf("expected cross-tenant error, got %v", err)
		}
		if crossErr.Reference {
			t.Fatal("reads into another tenant are denied access, not bad input")
		}
	})

	t.Run("missing course maps to not found", func(t *testing.T) {
		f := newCourseFixture(t)

		_, err := f.service.GetByID(ctx, f.adminActor(), primitive.NewObjectID().Hex())
		if !errors.Is(err, ErrCourseNotFound) {
			t.Fatalf("expected ErrCourseNotFound, got %v", err)
		}
	})

	t.Run("malformed id is rejected", func(t *testing.T) {
		f := newCourseFixture(t)

		_, err := f.service.GetByID(ctx, f.adminActor(), "not-a-hex-id")
		if !errors.Is(err, ErrInvalidID) {
			t.Fatalf("expected ErrInvalidID, got %v", err)
		}
	})
}

func TestCourseService_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("publishing a draft emits an event", func(t *testing.T) {
		f := newCourseFixture(t)
		f.course.Status = models.CourseDraft
		f.course.Modules = []models.Module{{ID: "m1", Title: "Intro", Lessons: []models.Lesson{{ID: "l1", Title: "Welcome", Type: "video"}}}}

		updated, err := f.service.Publish(ctx, f.adminActor(), f.course.ID.Hex())
		if err != nil {
			t.Fatalf("Publish failed: %v", err)
		}
		if updated.Status != models.CoursePublished {
			t.Errorf("expected published status, got %s", updated.Status)
		}

		published := f.publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.EventCoursePublished {
			t.Errorf("expected a %s event, got %+v", events.EventCoursePublished, published)
		}
	})

	t.Run("publishing twice fails validation", func(t *testing.T) {
		f := newCourseFixture(t)

		_, err := f.service.Publish(ctx, f.adminActor(), f.course.ID.Hex())
		if err == nil {
			t.Fatal("expected an error publishing an already published course")
		}
	})
}
