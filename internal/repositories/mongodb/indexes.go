package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// indexModels lists the indexes every collection relies on.
func indexModels() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		usersCollection: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "tenantId", Value: 1}}},
		},
		tenantsCollection: {
			{
				Keys:    bson.D{{Key: "tenantName", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		teachersCollection: {
			{Keys: bson.D{{Key: "tenantId", Value: 1}}},
			{
				Keys:    bson.D{{Key: "userId", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		studentsCollection: {
			{Keys: bson.D{{Key: "tenantId", Value: 1}}},
			{
				Keys:    bson.D{{Key: "userId", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		adminsCollection: {
			{Keys: bson.D{{Key: "tenantId", Value: 1}}},
			{
				Keys:    bson.D{{Key: "userId", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		coursesCollection: {
			{Keys: bson.D{{Key: "tenantId", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "teacherId", Value: 1}}},
		},
		assignmentsCollection: {
			{Keys: bson.D{{Key: "courseId", Value: 1}}},
			{Keys: bson.D{{Key: "tenantId", Value: 1}}},
		},
		assignmentSubmissionsCollection: {
			{
				Keys:    bson.D{{Key: "assignmentId", Value: 1}, {Key: "studentId", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "tenantId", Value: 1}}},
		},
		quizzesCollection: {
			{Keys: bson.D{{Key: "courseId", Value: 1}, {Key: "isDeleted", Value: 1}}},
			{Keys: bson.D{{Key: "tenantId", Value: 1}}},
		},
		quizSubmissionsCollection: {
			{
				Keys:    bson.D{{Key: "quizId", Value: 1}, {Key: "studentId", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "tenantId", Value: 1}}},
		},
		subscriptionsCollection: {
			{
				Keys:    bson.D{{Key: "tenantId", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
	}
}

// EnsureIndexes creates the indexes every collection relies on. Creation is
// idempotent, so this runs on every startup.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	for collection, models := range indexModels() {
		if _, err := r.db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", collection, err)
		}
	}

	return nil
}
