package validator

import (
	"fmt"
	"strings"
	"time"

	"github.com/eduverse/school-service/internal/models"
)

// clearableFields may be explicitly blanked with an empty string; every
// other empty or placeholder value in a partial update is discarded.
var clearableFields = map[string]bool{
	"thumbnailUrl":    true,
	"profileImageUrl": true,
}

// SanitizeUpdateMap filters a partial-update payload down to the fields that
// should actually be written. Nil values, the literal "string" placeholder
// emitted by API consoles, and empty strings (outside the clearable
// allow-list) are all dropped.
func SanitizeUpdateMap(fields map[string]any) map[string]any {
	cleaned := make(map[string]any, len(fields))
	for key, value := range fields {
		if value == nil {
			continue
		}
		if s, ok := value.(string); ok {
			if s == "string" {
				continue
			}
			if s == "" && !clearableFields[key] {
				continue
			}
		}
		cleaned[key] = value
	}
	return cleaned
}

// ValidateQuizQuestions checks each question's answer appears among its
// options and that option counts stay within bounds.
func (v *Validator) ValidateQuizQuestions(questions []models.QuizQuestion) ValidationErrors {
	var errors ValidationErrors

	if len(questions) == 0 {
		errors = append(errors, ValidationError{
			Field:   "questions",
			Message: "quiz must have at least one question",
			Rule:    "business_logic",
		})
		return errors
	}

	for i, q := range questions {
		if strings.TrimSpace(q.Question) == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("questions[%d].question", i),
				Message: "question text cannot be empty",
				Rule:    "business_logic",
			})
		}

		if len(q.Options) < 2 || len(q.Options) > 4 {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("questions[%d].options", i),
				Message: "must have between 2 and 4 options",
				Value:   len(q.Options),
				Rule:    "business_logic",
			})
			continue
		}

		found := false
		for _, opt := range q.Options {
			if opt == q.Answer {
				found = true
				break
			}
		}
		if !found {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("questions[%d].answer", i),
				Message: "answer must be one of the options",
				Value:   q.Answer,
				Rule:    "business_logic",
			})
		}
	}

	return errors
}

// ValidateCoursePublish checks a draft course is complete enough to publish.
func (v *Validator) ValidateCoursePublish(course *models.Course) ValidationErrors {
	var errors ValidationErrors

	if course.Status == models.CoursePublished {
		errors = append(errors, ValidationError{
			Field:   "status",
			Message: "course is already published",
			Value:   course.Status,
			Rule:    "status_transition",
		})
	}

	if len(course.Modules) == 0 {
		errors = append(errors, ValidationError{
			Field:   "modules",
			Message: "course must have at least one module before publishing",
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateDueDate rejects due dates in the past on create paths.
func (v *Validator) ValidateDueDate(field string, dueDate *time.Time) ValidationErrors {
	if dueDate != nil && dueDate.Before(time.Now()) {
		return ValidationErrors{{
			Field:   field,
			Message: "must be in the future",
			Value:   dueDate,
			Rule:    "business_logic",
		}}
	}
	return nil
}
