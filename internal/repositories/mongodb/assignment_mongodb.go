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

type AssignmentMongoDB struct {
	coll *mongo.Collection
}

func NewAssignmentMongoDB(db *mongo.Database) repositories.AssignmentRepository {
	return &AssignmentMongoDB{coll: db.Collection(assignmentsCollection)}
}

func (a *AssignmentMongoDB) Create(ctx context.Context, assignment *models.Assignment) error {
	return insertOne(ctx, a.coll, assignment)
}

func (a *AssignmentMongoDB) GetByID(ctx context.Context, id, tenantID primitive.ObjectID) (*models.Assignment, error) {
	return findOne[models.Assignment](ctx, a.coll, bson.M{"_id": id, "tenantId": tenantID})
}

func (a *AssignmentMongoDB) List(ctx context.Context, filters repositories.AssignmentFilters) ([]*models.Assignment, int64, error) {
	filter := bson.M{}
	if filters.TenantID != nil {
		filter["tenantId"] = *filters.TenantID
	}
	if filters.TeacherID != nil {
		filter["teacherId"] = *filters.TeacherID
	}
	if filters.CourseID != nil {
		filter["courseId"] = *filters.CourseID
	}
	if filters.Status != nil {
		filter["status"] = *filters.Status
	}
	if filters.Search != nil && *filters.Search != "" {
		regex := searchRegex(*filters.Search)
		filter["$or"] = bson.A{
			bson.M{"title": regex},
			bson.M{"description": regex},
			bson.M{"status": regex},
		}
	}
	if filters.DateFrom != nil || filters.DateTo != nil {
		dateRange := bson.M{}
		if filters.DateFrom != nil {
			dateRange["$gte"] = *filters.DateFrom
		}
		if filters.DateTo != nil {
			dateRange["$lte"] = *filters.DateTo
		}
		filter["uploadedAt"] = dateRange
	}

	total, err := a.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count assignments: %w", err)
	}

	sortBy := filters.SortBy
	if sortBy == "" {
		sortBy = "uploadedAt"
	}
	sort := sortBy
	if filters.SortOrder != "asc" {
		sort = "-" + sortBy
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	limit := filters.Limit
	if limit < 1 {
		limit = 10
	}

	cursor, err := a.coll.Find(ctx, filter, findOptions((page-1)*limit, limit, sort))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list assignments: %w", err)
	}

	assignments, err := decodeAll[models.Assignment](ctx, cursor)
	if err != nil {
		return nil, 0, err
	}
	return assignments, total, nil
}

func (a *AssignmentMongoDB) Update(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*models.Assignment, error) {
	return findOneAndUpdate[models.Assignment](ctx, a.coll, bson.M{"_id": id}, setFields(fields))
}

func (a *AssignmentMongoDB) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteOne(ctx, a.coll, bson.M{"_id": id})
}

func (a *AssignmentMongoDB) CountByTeacher(ctx context.Context, teacherID primitive.ObjectID) (int64, error) {
	count, err := a.coll.CountDocuments(ctx, bson.M{"teacherId": teacherID})
	if err != nil {
		return 0, fmt.Errorf("failed to count assignments by teacher: %w", err)
	}
	return count, nil
}
