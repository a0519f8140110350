package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/eduverse/school-service/internal/models"
	"github.com/eduverse/school-service/internal/repositories"
)

// notDeleted excludes soft-deleted quizzes from every read path.
var notDeleted = bson.M{"$ne": true}

type QuizMongoDB struct {
	coll *mongo.Collection
}

func NewQuizMongoDB(db *mongo.Database) repositories.QuizRepository {
	return &QuizMongoDB{coll: db.Collection(quizzesCollection)}
}

func (q *QuizMongoDB) Create(ctx context.Context, quiz *models.Quiz) error {
	return insertOne(ctx, q.coll, quiz)
}

func (q *QuizMongoDB) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Quiz, error) {
	return findOne[models.Quiz](ctx, q.coll, bson.M{"_id": id, "isDeleted": notDeleted})
}

func (q *QuizMongoDB) List(ctx context.Context, filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
	filter := bson.M{"isDeleted": notDeleted}
	if filters.TenantID != nil {
		filter["tenantId"] = *filters.TenantID
	}
	if filters.TeacherID != nil {
		filter["teacherId"] = *filters.TeacherID
	}
	if filters.CourseID != nil {
		filter["courseId"] = *filters.CourseID
	}
	if filters.Search != nil && *filters.Search != "" {
		filter["description"] = searchRegex(*filters.Search)
	}

	total, err := q.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count quizzes: %w", err)
	}

	sort := filters.Sort
	if sort == "" {
		sort = "-createdAt"
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	limit := filters.Limit
	if limit < 1 {
		limit = 10
	}

	cursor, err := q.coll.Find(ctx, filter, findOptions((page-1)*limit, limit, sort))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list quizzes: %w", err)
	}

	quizzes, err := decodeAll[models.Quiz](ctx, cursor)
	if err != nil {
		return nil, 0, err
	}
	return quizzes, total, nil
}

func (q *QuizMongoDB) ListForCourses(ctx context.Context, tenantID primitive.ObjectID, courseIDs []primitive.ObjectID) ([]*models.Quiz, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}
	cursor, err := q.coll.Find(ctx, bson.M{
		"tenantId":  tenantID,
		"courseId":  bson.M{"$in": courseIDs},
		"isDeleted": notDeleted,
	}, findOptions(0, 0, "dueDate"))
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes for courses: %w", err)
	}
	return decodeAll[models.Quiz](ctx, cursor)
}

func (q *QuizMongoDB) Update(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*models.Quiz, error) {
	return findOneAndUpdate[models.Quiz](ctx, q.coll,
		bson.M{"_id": id, "isDeleted": notDeleted}, setFields(fields))
}

func (q *QuizMongoDB) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	result, err := q.coll.UpdateOne(ctx,
		bson.M{"_id": id, "isDeleted": notDeleted},
		bson.M{"$set": bson.M{"isDeleted": true, "deletedAt": time.Now().UTC()}})
	if err != nil {
		return fmt.Errorf("failed to delete quiz: %w", err)
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (q *QuizMongoDB) CountByTeacher(ctx context.Context, teacherID primitive.ObjectID) (int64, error) {
	count, err := q.coll.CountDocuments(ctx, bson.M{"teacherId": teacherID, "isDeleted": notDeleted})
	if err != nil {
		return 0, fmt.Errorf("failed to count quizzes by teacher: %w", err)
	}
	return count, nil
}

type QuizSubmissionMongoDB struct {
	coll *mongo.Collection
}

func NewQuizSubmissionMongoDB(db *mongo.Database) repositories.QuizSubmissionRepository {
	return &QuizSubmissionMongoDB{coll: db.Collection(quizSubmissionsCollection)}
}

func (s *QuizSubmissionMongoDB) Create(ctx context.Context, submission *models.QuizSubmission) error {
	return insertOne(ctx, s.coll, submission)
}

func (s *QuizSubmissionMongoDB) CountByQuiz(ctx context.Context, quizID primitive.ObjectID) (int64, error) {
	count, err := s.coll.CountDocuments(ctx, bson.M{"quizId": quizID})
	if err != nil {
		return 0, fmt.Errorf("failed to count quiz submissions: %w", err)
	}
	return count, nil
}

func (s *QuizSubmissionMongoDB) ListByQuiz(ctx context.Context, quizID primitive.ObjectID) ([]*models.QuizSubmission, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"quizId": quizID}, findOptions(0, 0, "-submittedAt"))
	if err != nil {
		return nil, fmt.Errorf("failed to list quiz submissions: %w", err)
	}
	return decodeAll[models.QuizSubmission](ctx, cursor)
}
