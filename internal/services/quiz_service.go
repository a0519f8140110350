package services

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/eduverse/school-service/internal/events"
	"github.com/eduverse/school-service/internal/models"
	"github.com/eduverse/school-service/internal/repositories"
	"github.com/eduverse/school-service/internal/validator"
)

type quizService struct {
	repo           repositories.Repository
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
}

func NewQuizService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) QuizService {
	return &quizService{
		repo:           repo,
		logger:         logger,
		validator:      v,
		eventPublisher: publisher,
	}
}

func (s *quizService) Create(ctx context.Context, actor Actor, req *CreateQuizRequest) (*models.Quiz, error) {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}
	if errs := s.validator.ValidateQuizQuestions(req.Questions); len(errs) > 0 {
		return nil, errs
	}

	tenantID, err := actorTenantID(actor)
	if err != nil {
		return nil, err
	}
	courseID, err := parseObjectID(req.CourseID)
	if err != nil {
		return nil, err
	}

	course, err := s.repo.Course().GetByID(ctx, courseID, tenantID)
	if err != nil {
		return nil, mapRepoErr(err, ErrCourseNotFound)
	}

	if actor.Role == models.RoleTeacher && actor.ProfileID != course.TeacherID.Hex() {
		return nil, NewPermissionError(actor.UserID, "quiz", "create", "not course owner")
	}

	status := models.QuizActive
	if req.Status != nil {
		status = models.QuizStatus(*req.Status)
	}
	totalMarks := req.TotalMarks
	if totalMarks <= 0 {
		totalMarks = len(req.Questions)
	}

	quiz := &models.Quiz{
		CourseID:         courseID,
		CourseName:       course.Title,
		TeacherID:        course.TeacherID,
		TenantID:         tenantID,
		QuizNumber:       req.QuizNumber,
		Description:      req.Description,
		DueDate:          req.DueDate,
		Questions:        req.Questions,
		TimeLimitMinutes: req.TimeLimitMinutes,
		TotalMarks:       totalMarks,
		AIGenerated:      req.AIGenerated,
		Status:           status,
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.repo.Quiz().Create(ctx, quiz); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.EventQuizCreated, map[string]any{
		"quizId":   quiz.ID.Hex(),
		"courseId": req.CourseID,
		"tenantId": actor.TenantID,
	})

	s.logger.Info("Quiz created",
		"quiz_id", quiz.ID.Hex(),
		"course_id", req.CourseID,
		"question_count", len(quiz.Questions))

	return quiz, nil
}

func (s *quizService) GetByID(ctx context.Context, actor Actor, id string) (*models.Quiz, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	tenantID, err := actorTenantID(actor)
	if err != nil {
		return nil, err
	}

	quiz, err := s.repo.Quiz().GetByID(ctx, oid)
	if err != nil {
		return nil, mapRepoErr(err, ErrQuizNotFound)
	}
	if quiz.TenantID != tenantID {
		return nil, NewCrossTenantError("quiz")
	}
	return quiz, nil
}

func (s *quizService) List(ctx context.Context, actor Actor, req *ListQuizzesRequest) (*QuizListResponse, error) {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	tenantID, err := actorTenantID(actor)
	if err != nil {
		return nil, err
	}

	filters := repositories.QuizFilters{
		TenantID: &tenantID,
		Search:   req.Search,
		Sort:     req.Sort,
		Page:     req.Page,
		Limit:    req.Limit,
	}
	if req.CourseID != nil {
		courseID, err := parseObjectID(*req.CourseID)
		if err != nil {
			return nil, err
		}
		filters.CourseID = &courseID
	}

	// Teachers only see their own quizzes.
	if actor.Role == models.RoleTeacher {
		teacherID, err := parseObjectID(actor.ProfileID)
		if err != nil {
			return nil, err
		}
		filters.TeacherID = &teacherID
	}

	quizzes, total, err := s.repo.Quiz().List(ctx, filters)
	if err != nil {
		return nil, err
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	limit := filters.Limit
	if limit < 1 {
		limit = 10
	}

	return &QuizListResponse{
		Quizzes: quizzes,
		Total:   total,
		Page:    page,
		Limit:   limit,
	}, nil
}

// Update applies the change with an edit lock on graded content. Once any
// submission exists for the quiz, questions, totalMarks and quizNumber are
// silently dropped from the update rather than rejected, so clients that
// resend the whole form still succeed.
func (s *quizService) Update(ctx context.Context, actor Actor, id string, req *UpdateQuizRequest) (*models.Quiz, error) {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	quiz, err := s.GetByID(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := s.requireOwnership(actor, quiz, "update"); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.DueDate != nil {
		fields["dueDate"] = *req.DueDate
	}
	if req.Status != nil {
		fields["status"] = models.QuizStatus(*req.Status)
	}
	if req.TimeLimitMinutes != nil {
		fields["timeLimitMinutes"] = *req.TimeLimitMinutes
	}
	if req.AIGenerated != nil {
		fields["aiGenerated"] = *req.AIGenerated
	}

	wantsContentChange := req.Questions != nil || req.TotalMarks != nil || req.QuizNumber != nil
	if wantsContentChange {
		count, err := s.repo.QuizSubmission().CountByQuiz(ctx, quiz.ID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			s.logger.Info("Quiz content fields dropped, submissions exist",
				"quiz_id", id, "submission_count", count)
		} else {
			if req.Questions != nil {
				if errs := s.validator.ValidateQuizQuestions(req.Questions); len(errs) > 0 {
					return nil, errs
				}
				fields["questions"] = req.Questions
			}
			if req.TotalMarks != nil {
				fields["totalMarks"] = *req.TotalMarks
			}
			if req.QuizNumber != nil {
				fields["quizNumber"] = *req.QuizNumber
			}
		}
	}

	fields = validator.SanitizeUpdateMap(fields)
	if len(fields) == 0 {
		return quiz, nil
	}

	updated, err := s.repo.Quiz().Update(ctx, quiz.ID, fields)
	if err != nil {
		return nil, mapRepoErr(err, ErrQuizNotFound)
	}
	return updated, nil
}

// Delete soft-deletes the quiz. Submissions always allow this; only the
// content edit path is locked.
func (s *quizService) Delete(ctx context.Context, actor Actor, id string) error {
	quiz, err := s.GetByID(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.requireOwnership(actor, quiz, "delete"); err != nil {
		return err
	}

	if err := s.repo.Quiz().SoftDelete(ctx, quiz.ID); err != nil {
		return mapRepoErr(err, ErrQuizNotFound)
	}

	s.publishEvent(ctx, events.EventQuizDeleted, map[string]any{
		"quizId":   id,
		"courseId": quiz.CourseID.Hex(),
		"tenantId": actor.TenantID,
	})

	s.logger.Info("Quiz soft-deleted", "quiz_id", id, "deleted_by", actor.UserID)
	return nil
}

func (s *quizService) HasSubmissions(ctx context.Context, actor Actor, id string) (bool, int64, error) {
	quiz, err := s.GetByID(ctx, actor, id)
	if err != nil {
		return false, 0, err
	}

	count, err := s.repo.QuizSubmission().CountByQuiz(ctx, quiz.ID)
	if err != nil {
		return false, 0, err
	}
	return count > 0, count, nil
}

// ListForStudent returns upcoming and past quizzes for the student's
// enrolled courses with answers stripped.
func (s *quizService) ListForStudent(ctx context.Context, actor Actor) ([]*StudentQuiz, error) {
	tenantID, err := actorTenantID(actor)
	if err != nil {
		return nil, err
	}
	studentID, err := parseObjectID(actor.ProfileID)
	if err != nil {
		return nil, err
	}

	student, err := s.repo.Student().GetByID(ctx, studentID)
	if err != nil {
		return nil, mapRepoErr(err, ErrStudentNotFound)
	}

	if len(student.EnrolledCourses) == 0 {
		return []*StudentQuiz{}, nil
	}

	quizzes, err := s.repo.Quiz().ListForCourses(ctx, tenantID, student.EnrolledCourses)
	if err != nil {
		return nil, err
	}

	out := make([]*StudentQuiz, 0, len(quizzes))
	for _, quiz := range quizzes {
		if quiz.Status != models.QuizActive {
			continue
		}
		submitted, err := s.hasStudentSubmitted(ctx, quiz.ID, studentID)
		if err != nil {
			return nil, err
		}
		out = append(out, toStudentQuiz(quiz, submitted))
	}
	return out, nil
}

func (s *quizService) hasStudentSubmitted(ctx context.Context, quizID, studentID primitive.ObjectID) (bool, error) {
	submissions, err := s.repo.QuizSubmission().ListByQuiz(ctx, quizID)
	if err != nil {
		return false, err
	}
	for _, sub := range submissions {
		if sub.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func toStudentQuiz(quiz *models.Quiz, submitted bool) *StudentQuiz {
	questions := make([]StudentQuizQuestion, len(quiz.Questions))
	for i, q := range quiz.Questions {
		questions[i] = StudentQuizQuestion{
			Question: q.Question,
			Options:  q.Options,
		}
	}
	return &StudentQuiz{
		ID:               quiz.ID.Hex(),
		CourseID:         quiz.CourseID.Hex(),
		CourseName:       quiz.CourseName,
		QuizNumber:       quiz.QuizNumber,
		Description:      quiz.Description,
		DueDate:          quiz.DueDate,
		Questions:        questions,
		TimeLimitMinutes: quiz.TimeLimitMinutes,
		TotalMarks:       quiz.TotalMarks,
		Status:           quiz.Status,
		HasSubmitted:     submitted,
	}
}

// Submit records the student's answers and auto-scores them. One point per
// question whose answer matches exactly.
func (s *quizService) Submit(ctx context.Context, actor Actor, quizID string, req *SubmitQuizRequest) (*models.QuizSubmission, error) {
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	quiz, err := s.GetByID(ctx, actor, quizID)
	if err != nil {
		return nil, err
	}

	studentID, err := parseObjectID(actor.ProfileID)
	if err != nil {
		return nil, err
	}

	student, err := s.repo.Student().GetByID(ctx, studentID)
	if err != nil {
		return nil, mapRepoErr(err, ErrStudentNotFound)
	}

	enrolled := false
	for _, id := range student.EnrolledCourses {
		if id == quiz.CourseID {
			enrolled = true
			break
		}
	}
	if !enrolled {
		return nil, NewPermissionError(actor.UserID, "quiz", "submit", "not enrolled in the quiz's course")
	}

	if quiz.Status != models.QuizActive {
		return nil, NewBusinessRuleError("quiz_inactive", "quiz is not accepting submissions")
	}

	if len(req.Answers) != len(quiz.Questions) {
		return nil, NewBusinessRuleError("answer_count_mismatch", "one answer per question is required")
	}

	submitted, err := s.hasStudentSubmitted(ctx, quiz.ID, studentID)
	if err != nil {
		return nil, err
	}
	if submitted {
		return nil, NewBusinessRuleError("already_submitted", "quiz has already been submitted")
	}

	score := scoreQuiz(quiz.Questions, req.Answers)
	submission := &models.QuizSubmission{
		QuizID:      quiz.ID,
		StudentID:   studentID,
		TenantID:    quiz.TenantID,
		Answers:     req.Answers,
		Score:       &score,
		SubmittedAt: time.Now().UTC(),
	}

	if err := s.repo.QuizSubmission().Create(ctx, submission); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.EventQuizSubmitted, map[string]any{
		"quizId":    quizID,
		"studentId": actor.ProfileID,
		"score":     score,
		"tenantId":  actor.TenantID,
	})

	s.logger.Info("Quiz submitted",
		"quiz_id", quizID,
		"student_id", actor.ProfileID,
		"score", score,
		"total", len(quiz.Questions))

	return submission, nil
}

func scoreQuiz(questions []models.QuizQuestion, answers []string) int {
	score := 0
	for i, q := range questions {
		if i < len(answers) && answers[i] == q.Answer {
			score++
		}
	}
	return score
}

func (s *quizService) ListSubmissions(ctx context.Context, actor Actor, quizID string) ([]*models.QuizSubmission, error) {
	quiz, err := s.GetByID(ctx, actor, quizID)
	if err != nil {
		return nil, err
	}

	if err := s.requireOwnership(actor, quiz, "list submissions"); err != nil {
		return nil, err
	}

	return s.repo.QuizSubmission().ListByQuiz(ctx, quiz.ID)
}

func (s *quizService) requireOwnership(actor Actor, quiz *models.Quiz, action string) error {
	if actor.Role == models.RoleAdmin || actor.Role == models.RoleSuperAdmin {
		return nil
	}
	if actor.Role == models.RoleTeacher && actor.ProfileID == quiz.TeacherID.Hex() {
		return nil
	}
	return NewPermissionError(actor.UserID, "quiz", action, "not quiz owner")
}

func (s *quizService) publishEvent(ctx context.Context, eventType string, data any) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		s.logger.Warn("Failed to publish event", "event_type", eventType, "error", err)
	}
}
