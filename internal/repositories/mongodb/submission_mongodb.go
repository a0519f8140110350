package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/eduverse/school-service/internal/models"
	"github.com/eduverse/school-service/internal/repositories"
)

type AssignmentSubmissionMongoDB struct {
	coll *mongo.Collection
}

func NewAssignmentSubmissionMongoDB(db *mongo.Database) repositories.AssignmentSubmissionRepository {
	return &AssignmentSubmissionMongoDB{coll: db.Collection(assignmentSubmissionsCollection)}
}

func (s *AssignmentSubmissionMongoDB) Create(ctx context.Context, submission *models.AssignmentSubmission) error {
	return insertOne(ctx, s.coll, submission)
}

func (s *AssignmentSubmissionMongoDB) GetByID(ctx context.Context, id, tenantID primitive.ObjectID) (*models.AssignmentSubmission, error) {
	return findOne[models.AssignmentSubmission](ctx, s.coll, bson.M{"_id": id, "tenantId": tenantID})
}

func (s *AssignmentSubmissionMongoDB) ListByTenant(ctx context.Context, tenantID primitive.ObjectID) ([]*models.AssignmentSubmission, error) {
	return s.list(ctx, bson.M{"tenantId": tenantID})
}

func (s *AssignmentSubmissionMongoDB) ListByStudent(ctx context.Context, studentID, tenantID primitive.ObjectID) ([]*models.AssignmentSubmission, error) {
	return s.list(ctx, bson.M{"studentId": studentID, "tenantId": tenantID})
}

func (s *AssignmentSubmissionMongoDB) ListByAssignment(ctx context.Context, assignmentID, tenantID primitive.ObjectID) ([]*models.AssignmentSubmission, error) {
	return s.list(ctx, bson.M{"assignmentId": assignmentID, "tenantId": tenantID})
}

func (s *AssignmentSubmissionMongoDB) list(ctx context.Context, filter bson.M) ([]*models.AssignmentSubmission, error) {
	cursor, err := s.coll.Find(ctx, filter, findOptions(0, 0, "-submittedAt"))
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return decodeAll[models.AssignmentSubmission](ctx, cursor)
}

func (s *AssignmentSubmissionMongoDB) Update(ctx context.Context, id, tenantID primitive.ObjectID, fields map[string]any) (*models.AssignmentSubmission, error) {
	return findOneAndUpdate[models.AssignmentSubmission](ctx, s.coll,
		bson.M{"_id": id, "tenantId": tenantID}, bson.M{"$set": fields})
}

func (s *AssignmentSubmissionMongoDB) Delete(ctx context.Context, id, tenantID primitive.ObjectID) error {
	return deleteOne(ctx, s.coll, bson.M{"_id": id, "tenantId": tenantID})
}
