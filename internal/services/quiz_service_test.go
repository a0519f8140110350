package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/eduverse/school-service/internal/events"
	"github.com/eduverse/school-service/internal/models"
	"github.com/eduverse/school-service/internal/validator"
)

type quizFixture struct {
	repo      *fakeRepository
	publisher *events.MockEventPublisher
	service   QuizService
	tenantID  primitive.ObjectID
	teacher   *models.Teacher
	course    *models.Course
	quiz      *models.Quiz
}

func newQuizFixture(t *testing.T) *quizFixture {
	t.Helper()

	repo := newFakeRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	service := NewQuizService(repo, testLogger(), validator.New(), publisher)

	tenantID := primitive.NewObjectID()
	teacher := &models.Teacher{
		ID:       primitive.NewObjectID(),
		UserID:   primitive.NewObjectID(),
		TenantID: tenantID,
	}
	repo.teachers.teachers[teacher.ID] = teacher

	course := &models.Course{
		ID:        primitive.NewObjectID(),
		Title:     "World History",
		Category:  "history",
		Level:     "beginner",
		Status:    models.CoursePublished,
		TeacherID: teacher.ID,
		TenantID:  tenantID,
	}
	repo.courses.courses[course.ID] = course

	quiz := &models.Quiz{
		ID:         primitive.NewObjectID(),
		CourseID:   course.ID,
		CourseName: course.Title,
		TeacherID:  teacher.ID,
		TenantID:   tenantID,
		QuizNumber: 1,
		DueDate:    time.Now().Add(48 * time.Hour),
		Questions: []models.QuizQuestion{
			{Question: "Capital of France?", Options: []string{"Paris", "Lyon"}, Answer: "Paris"},
			{Question: "Capital of Spain?", Options: []string{"Madrid", "Seville"}, Answer: "Madrid"},
		},
		TotalMarks: 2,
		Status:     models.QuizActive,
		CreatedAt:  time.Now().UTC(),
	}
	repo.quizzes.quizzes[quiz.ID] = quiz

	return &quizFixture{
		repo:      repo,
		publisher: publisher,
		service:   service,
		tenantID:  tenantID,
		teacher:   teacher,
		course:    course,
		quiz:      quiz,
	}
}

func (f *quizFixture) teacherActor() Actor {
	return Actor{
		UserID:    f.teacher.UserID.Hex(),
		TenantID:  f.tenantID.Hex(),
		Role:      models.RoleTeacher,
		ProfileID: f.teacher.ID.Hex(),
	}
}

func (f *quizFixture) enrolledStudent() (*models.Student, Actor) {
	student := &models.Student{
		ID:              primitive.NewObjectID(),
		UserID:          primitive.NewObjectID(),
		TenantID:        f.tenantID,
		EnrolledCourses: []primitive.ObjectID{f.course.ID},
	}
	f.repo.students.students[student.ID] = student
	actor := Actor{
		UserID:    student.UserID.Hex(),
		TenantID:  f.tenantID.Hex(),
		Role:      models.RoleStudent,
		ProfileID: student.ID.Hex(),
	}
	return student, actor
}

func (f *quizFixture) addSubmission(studentID primitive.ObjectID) {
	f.repo.quizSubs.submissions = append(f.repo.quizSubs.submissions, &models.QuizSubmission{
		ID:          primitive.NewObjectID(),
		QuizID:      f.quiz.ID,
		StudentID:   studentID,
		TenantID:    f.tenantID,
		Answers:     []string{"Paris", "Madrid"},
		SubmittedAt: time.Now().UTC(),
	})
}

func TestQuizService_Update_EditLock(t *testing.T) {
	ctx := context.Background()
	newQuestions := []models.QuizQuestion{
		{Question: "Capital of Italy?", Options: []string{"Rome", "Milan"}, Answer: "Rome"},
	}

	t.Run("content fields apply while no submissions exist", func(t *testing.T) {
		f := newQuizFixture(t)
		marks := 1
		number := 5

		updated, err := f.service.Update(ctx, f.teacherActor(), f.quiz.ID.Hex(), &UpdateQuizRequest{
			Questions:  newQuestions,
			TotalMarks: &marks,
			QuizNumber: &number,
		})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		if len(updated.Questions) != 1 || updated.Questions[0].Question != "Capital of Italy?" {
			t.Errorf("questions not replaced: %+v", updated.Questions)
		}
		if updated.TotalMarks != 1 {
			t.Errorf("expected totalMarks 1, got %d", updated.TotalMarks)
		}
		if updated.QuizNumber != 5 {
			t.Errorf("expected quizNumber 5, got %d", updated.QuizNumber)
		}
	})

	t.Run("content fields are silently dropped once a submission exists", func(t *testing.T) {
		f := newQuizFixture(t)
		f.addSubmission(primitive.NewObjectID())
		marks := 99
		number := 9
		desc := "updated description"

		updated, err := f.service.Update(ctx, f.teacherActor(), f.quiz.ID.Hex(), &UpdateQuizRequest{
			Description: &desc,
			Questions:   newQuestions,
			TotalMarks:  &marks,
			QuizNumber:  &number,
		})
		if err != nil {
			t.Fatalf("Update should succeed with content fields dropped: %v", err)
		}

		if updated.Description == nil || *updated.Description != desc {
			t.Errorf("description should still apply")
		}
		if len(updated.Questions) != 2 {
			t.Errorf("questions must not change after a submission, got %d", len(updated.Questions))
		}
		if updated.TotalMarks != 2 {
			t.Errorf("totalMarks must not change, got %d", updated.TotalMarks)
		}
		if updated.QuizNumber != 1 {
			t.Errorf("quizNumber must not change, got %d", updated.QuizNumber)
		}
	})

	t.Run("metadata-only updates never consult the submission count", func(t *testing.T) {
		f := newQuizFixture(t)
		f.addSubmission(primitive.NewObjectID())
		due := time.Now().Add(96 * time.Hour)
		inactive := string(models.QuizInactive)

		updated, err := f.service.Update(ctx, f.teacherActor(), f.quiz.ID.Hex(), &UpdateQuizRequest{
			DueDate: &due,
			Status:  &inactive,
		})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if updated.Status != models.QuizInactive {
			t.Errorf("expected inactive status, got %s", updated.Status)
		}
		if !updated.DueDate.Equal(due) {
			t.Errorf("due date not applied")
		}
	})

	t.Run("invalid questions are rejected while the lock is open", func(t *testing.T) {
		f := newQuizFixture(t)
		bad := []models.QuizQuestion{
			{Question: "Pick one", Options: []string{"A", "B"}, Answer: "C"},
		}

		_, err := f.service.Update(ctx, f.teacherActor(), f.quiz.ID.Hex(), &UpdateQuizRequest{Questions: bad})
		if err == nil {
			t.Fatal("expected validation error for an answer outside the options")
		}
	})

	t.Run("non-owner teachers are rejected", func(t *testing.T) {
		f := newQuizFixture(t)
		actor := Actor{
			UserID:    primitive.NewObjectID().Hex(),
			TenantID:  f.tenantID.Hex(),
			Role:      models.RoleTeacher,
			ProfileID: primitive.NewObjectID().Hex(),
		}
		desc := "nope"

		_, err := f.service.Update(ctx, actor, f.quiz.ID.Hex(), &UpdateQuizRequest{Description: &desc})

		var permErr *PermissionError
		if !errors.As(err, &permErr) {
			t.Fatalf("expected permission error, got %v", err)
		}
	})
}

func TestQuizService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("soft delete hides the quiz from reads", func(t *testing.T) {
		f := newQuizFixture(t)
		f.addSubmission(primitive.NewObjectID())

		if err := f.service.Delete(ctx, f.teacherActor(), f.quiz.ID.Hex()); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}

		if !f.quiz.IsDeleted || f.quiz.DeletedAt == nil {
			t.Errorf("quiz not marked deleted")
		}
		if _, err := f.service.GetByID(ctx, f.teacherActor(), f.quiz.ID.Hex()); !errors.Is(err, ErrQuizNotFound) {
			t.Errorf("deleted quiz should be invisible, got %v", err)
		}

		published := f.publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.EventQuizDeleted {
			t.Errorf("expected a %s event, got %v", events.EventQuizDeleted, published)
		}
	})

	t.Run("deleting twice reports not found", func(t *testing.T) {
		f := newQuizFixture(t)

		if err := f.service.Delete(ctx, f.teacherActor(), f.quiz.ID.Hex()); err != nil {
			t.Fatalf("first delete failed: %v", err)
		}
		if err := f.service.Delete(ctx, f.teacherActor(), f.quiz.ID.Hex()); !errors.Is(err, ErrQuizNotFound) {
			t.Errorf("expected ErrQuizNotFound, got %v", err)
		}
	})
}

func TestQuizService_ListForStudent(t *testing.T) {
	ctx := context.Background()

	t.Run("answers are stripped from the student view", func(t *testing.T) {
		f := newQuizFixture(t)
		_, actor := f.enrolledStudent()

		quizzes, err := f.service.ListForStudent(ctx, actor)
		if err != nil {
			t.Fatalf("ListForStudent failed: %v", err)
		}
		if len(quizzes) != 1 {
			t.Fatalf("expected 1 quiz, got %d", len(quizzes))
		}

		for _, q := range quizzes[0].Questions {
			if len(q.Options) == 0 {
				t.Errorf("options should be present")
			}
			if q.Question == "" {
				t.Errorf("question text should be present")
			}
		}
		if quizzes[0].HasSubmitted {
			t.Errorf("student has not submitted yet")
		}
	})

	t.Run("inactive quizzes are excluded", func(t *testing.T) {
		f := newQuizFixture(t)
		f.quiz.Status = models.QuizInactive
		_, actor := f.enrolledStudent()

		quizzes, err := f.service.ListForStudent(ctx, actor)
		if err != nil {
			t.Fatalf("ListForStudent failed: %v", err)
		}
		if len(quizzes) != 0 {
			t.Errorf("inactive quiz leaked into the student list")
		}
	})

	t.Run("submitted quizzes are flagged", func(t *testing.T) {
		f := newQuizFixture(t)
		student, actor := f.enrolledStudent()
		f.addSubmission(student.ID)

		quizzes, err := f.service.ListForStudent(ctx, actor)
		if err != nil {
			t.Fatalf("ListForStudent failed: %v", err)
		}
		if len(quizzes) != 1 || !quizzes[0].HasSubmitted {
			t.Errorf("expected hasSubmitted true")
		}
	})
}

func TestQuizService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("scores exact matches one point each", func(t *testing.T) {
		f := newQuizFixture(t)
		_, actor := f.enrolledStudent()

		submission, err := f.service.Submit(ctx, actor, f.quiz.ID.Hex(), &SubmitQuizRequest{
			Answers: []string{"Paris", "Seville"},
		})
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		if submission.Score == nil || *submission.Score != 1 {
			t.Errorf("expected score 1, got %v", submission.Score)
		}
	})

	t.Run("answer count must match question count", func(t *testing.T) {
		f := newQuizFixture(t)
		_, actor := f.enrolledStudent()

		_, err := f.service.Submit(ctx, actor, f.quiz.ID.Hex(), &SubmitQuizRequest{
			Answers: []string{"Paris"},
		})

		var ruleErr *BusinessRuleError
		if !errors.As(err, &ruleErr) || ruleErr.Rule != "answer_count_mismatch" {
			t.Fatalf("expected answer_count_mismatch, got %v", err)
		}
	})

	t.Run("second submission is rejected", func(t *testing.T) {
		f := newQuizFixture(t)
		_, actor := f.enrolledStudent()
		answers := &SubmitQuizRequest{Answers: []string{"Paris", "Madrid"}}

		if _, err := f.service.Submit(ctx, actor, f.quiz.ID.Hex(), answers); err != nil {
			t.Fatalf("first submission failed: %v", err)
		}

		_, err := f.service.Submit(ctx, actor, f.quiz.ID.Hex(), answers)
		var ruleErr *BusinessRuleError
		if !errors.As(err, &ruleErr) || ruleErr.Rule != "already_submitted" {
			t.Fatalf("expected already_submitted, got %v", err)
		}
	})

	t.Run("unenrolled students cannot submit", func(t *testing.T) {
		f := newQuizFixture(t)
		student := &models.Student{
			ID:       primitive.NewObjectID(),
			UserID:   primitive.NewObjectID(),
			TenantID: f.tenantID,
		}
		f.repo.students.students[student.ID] = student
		actor := Actor{
			UserID:    student.UserID.Hex(),
			TenantID:  f.tenantID.Hex(),
			Role:      models.RoleStudent,
			ProfileID: student.ID.Hex(),
		}

		_, err := f.service.Submit(ctx, actor, f.quiz.ID.Hex(), &SubmitQuizRequest{
			Answers: []string{"Paris", "Madrid"},
		})

		var permErr *PermissionError
		if !errors.As(err, &permErr) {
			t.Fatalf("expected permission error, got %v", err)
		}
	})

	t.Run("inactive quizzes reject submissions", func(t *testing.T) {
		f := newQuizFixture(t)
		f.quiz.Status = models.QuizInactive
		_, actor := f.enrolledStudent()

		_, err := f.service.Submit(ctx, actor, f.quiz.ID.Hex(), &SubmitQuizRequest{
			Answers: []string{"Paris", "Madrid"},
		})

		var ruleErr *BusinessRuleError
		if !errors.As(err, &ruleErr) || ruleErr.Rule != "quiz_inactive" {
			t.Fatalf("expected quiz_inactive, got %v", err)
		}
	})
}

func TestQuizService_HasSubmissions(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture(t)

	has, count, err := f.service.HasSubmissions(ctx, f.teacherActor(), f.quiz.ID.Hex())
	if err != nil {
		t.Fatalf("HasSubmissions failed: %v", err)
	}
	if has || count != 0 {
		t.Errorf("expected no submissions, got has=%v count=%d", has, count)
	}

	f.addSubmission(primitive.NewObjectID())
	f.addSubmission(primitive.NewObjectID())

	has, count, err = f.service.HasSubmissions(ctx, f.teacherActor(), f.quiz.ID.Hex())
	if err != nil {
		t.Fatalf("HasSubmissions failed: %v", err)
	}
	if !has || count != 2 {
		t.Errorf("expected 2 submissions, got has=%v count=%d", has, count)
	}
}

func TestQuizService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults totalMarks to the question count", func(t *testing.T) {
		f := newQuizFixture(t)

		quiz, err := f.service.Create(ctx, f.teacherActor(), &CreateQuizRequest{
			CourseID:   f.course.ID.Hex(),
			QuizNumber: 2,
			DueDate:    time.Now().Add(24 * time.Hour),
			Questions: []models.QuizQuestion{
				{Question: "2+2?", Options: []string{"3", "4"}, Answer: "4"},
				{Question: "3+3?", Options: []string{"6", "9"}, Answer: "6"},
				{Question: "5+5?", Options: []string{"10", "11"}, Answer: "10"},
			},
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		if quiz.TotalMarks != 3 {
			t.Errorf("expected totalMarks 3, got %d", quiz.TotalMarks)
		}
		if quiz.Status != models.QuizActive {
			t.Errorf("expected active status, got %s", quiz.Status)
		}
		if quiz.CourseName != f.course.Title {
			t.Errorf("course name not denormalized")
		}
	})

	t.Run("teachers cannot attach quizzes to another teacher's course", func(t *testing.T) {
		f := newQuizFixture(t)
		actor := Actor{
			UserID:    primitive.NewObjectID().Hex(),
			TenantID:  f.tenantID.Hex(),
			Role:      models.RoleTeacher,
			ProfileID: primitive.NewObjectID().Hex(),
		}

		_, err := f.service.Create(ctx, actor, &CreateQuizRequest{
			CourseID:   f.course.ID.Hex(),
			QuizNumber: 2,
			DueDate:    time.Now().Add(24 * time.Hour),
			Questions: []models.QuizQuestion{
				{Question: "2+2?", Options: []string{"3", "4"}, Answer: "4"},
			},
		})

		var permErr *PermissionError
		if !errors.As(err, &permErr) {
			t.Fatalf("expected permission error, got %v", err)
		}
	})
}
