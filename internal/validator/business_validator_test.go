package validator

import (
	"testing"

	"github.com/eduverse/school-service/internal/models"
)

func TestSanitizeUpdateMap(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]any
		want   map[string]any
	}{
		{
			name:   "nil values are dropped",
			fields: map[string]any{"title": "Algebra", "description": nil},
			want:   map[string]any{"title": "Algebra"},
		},
		{
			name:   "console placeholder is dropped",
			fields: map[string]any{"title": "string", "category": "math"},
			want:   map[string]any{"category": "math"},
		},
		{
			name:   "empty strings are dropped by default",
			fields: map[string]any{"title": "", "level": "beginner"},
			want:   map[string]any{"level": "beginner"},
		},
		{
			name:   "clearable fields keep empty strings",
			fields: map[string]any{"thumbnailUrl": "", "profileImageUrl": ""},
			want:   map[string]any{"thumbnailUrl": "", "profileImageUrl": ""},
		},
		{
			name:   "non-string values pass through",
			fields: map[string]any{"totalMarks": 0, "isPublic": false},
			want:   map[string]any{"totalMarks": 0, "isPublic": false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeUpdateMap(tt.fields)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d fields, got %d: %v", len(tt.want), len(got), got)
			}
			for key, want := range tt.want {
				if got[key] != want {
					t.Errorf("field %s: expected %v, got %v", key, want, got[key])
				}
			}
		})
	}
}

func TestValidateQuizQuestions(t *testing.T) {
	v := New()

	tests := []struct {
		name      string
		questions []models.QuizQuestion
		wantErrs  int
	}{
		{
			name: "valid questions",
			questions: []models.QuizQuestion{
				{Question: "2+2?", Options: []string{"3", "4"}, Answer: "4"},
				{Question: "Capital of France?", Options: []string{"Paris", "Lyon", "Nice", "Lille"}, Answer: "Paris"},
			},
			wantErrs: 0,
		},
		{
			name:      "empty list",
			questions: nil,
			wantErrs:  1,
		},
		{
			name: "answer outside options",
			questions: []models.QuizQuestion{
				{Question: "2+2?", Options: []string{"3", "5"}, Answer: "4"},
			},
			wantErrs: 1,
		},
		{
			name: "too few options",
			questions: []models.QuizQuestion{
				{Question: "2+2?", Options: []string{"4"}, Answer: "4"},
			},
			wantErrs: 1,
		},
		{
			name: "too many options",
			questions: []models.QuizQuestion{
				{Question: "2+2?", Options: []string{"1", "2", "3", "4", "5"}, Answer: "4"},
			},
			wantErrs: 1,
		},
		{
			name: "blank question text",
			questions: []models.QuizQuestion{
				{Question: "   ", Options: []string{"3", "4"}, Answer: "4"},
			},
			wantErrs: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.ValidateQuizQuestions(tt.questions)
			if len(errs) != tt.wantErrs {
				t.Errorf("expected %d errors, got %d: %v", tt.wantErrs, len(errs), errs)
			}
		})
	}
}

func TestValidateCoursePublish(t *testing.T) {
	v := New()

	t.Run("draft with modules publishes", func(t *testing.T) {
		course := &models.Course{
			Status:  models.CourseDraft,
			Modules: []models.Module{{ID: "m1", Title: "Intro"}},
		}
		if errs := v.ValidateCoursePublish(course); len(errs) != 0 {
			t.Errorf("expected no errors, got %v", errs)
		}
	})

	t.Run("already published is rejected", func(t *testing.T) {
		course := &models.Course{
			Status:  models.CoursePublished,
			Modules: []models.Module{{ID: "m1"}},
		}
		if errs := v.ValidateCoursePublish(course); len(errs) != 1 {
			t.Errorf("expected 1 error, got %v", errs)
		}
	})

	t.Run("no modules is rejected", func(t *testing.T) {
		course := &models.Course{Status: models.CourseDraft}
		if errs := v.ValidateCoursePublish(course); len(errs) != 1 {
			t.Errorf("expected 1 error, got %v", errs)
		}
	})
}

func TestObjectIDRule(t *testing.T) {
	v := New()

	type payload struct {
		ID string `validate:"required,object_id"`
	}

	if errs := v.ValidateStruct(payload{ID: "64f000000000000000000001"}); len(errs) != 0 {
		t.Errorf("valid hex id rejected: %v", errs)
	}
	if errs := v.ValidateStruct(payload{ID: "not-an-id"}); len(errs) == 0 {
		t.Error("malformed id accepted")
	}
}
