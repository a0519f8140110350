package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/eduverse/school-service/internal/cache"
	"github.com/eduverse/school-service/internal/models"
	"github.com/eduverse/school-service/internal/repositories"
)

type CourseMongoDB struct {
	coll         *mongo.Collection
	cacheManager *cache.CacheManager
}

func NewCourseMongoDB(db *mongo.Database, cacheManager *cache.CacheManager) repositories.CourseRepository {
	return &CourseMongoDB{
		coll:         db.Collection(coursesCollection),
		cacheManager: cacheManager,
	}
}

func (c *CourseMongoDB) Create(ctx context.Context, course *models.Course) error {
	if err := insertOne(ctx, c.coll, course); err != nil {
		return err
	}
	cache.SafeInvalidatePattern(ctx, c.cacheManager.Course, fmt.Sprintf("list:%s:*", course.TenantID.Hex()))
	return nil
}

// GetByID retrieves a course scoped to the tenant, with caching.
func (c *CourseMongoDB) GetByID(ctx context.Context, id, tenantID primitive.ObjectID) (*models.Course, error) {
	cacheKey := fmt.Sprintf("id:%s:%s", tenantID.Hex(), id.Hex())
	var course models.Course

	err := c.cacheManager.Course.CacheOrExecute(ctx, cacheKey, &course, cache.CourseCacheConfig.TTL, func() (interface{}, error) {
		return findOne[models.Course](ctx, c.coll, bson.M{"_id": id, "tenantId": tenantID})
	})
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// GetAnyByID looks a course up without tenant scoping. Callers use it to
// distinguish "does not exist" from "exists in another tenant".
func (c *CourseMongoDB) GetAnyByID(ctx context.Context, id primitive.ObjectID) (*models.Course, error) {
	return findOne[models.Course](ctx, c.coll, bson.M{"_id": id})
}

func (c *CourseMongoDB) List(ctx context.Context, tenantID primitive.ObjectID, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	filter := bson.M{"tenantId": tenantID}
	if filters.TeacherID != nil {
		filter["teacherId"] = *filters.TeacherID
	}
	if filters.Status != nil {
		filter["status"] = *filters.Status
	}
	if filters.Category != nil {
		filter["category"] = *filters.Category
	}
	if filters.Search != nil && *filters.Search != "" {
		regex := searchRegex(*filters.Search)
		filter["$or"] = bson.A{
			bson.M{"title": regex},
			bson.M{"description": regex},
			bson.M{"category": regex},
			bson.M{"courseCode": regex},
		}
	}

	total, err := c.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count courses: %w", err)
	}

	cursor, err := c.coll.Find(ctx, filter, findOptions(filters.Skip, filters.Limit, "-createdAt"))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list courses: %w", err)
	}

	courses, err := decodeAll[models.Course](ctx, cursor)
	if err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

func (c *CourseMongoDB) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := c.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to list courses by ids: %w", err)
	}
	return decodeAll[models.Course](ctx, cursor)
}

func (c *CourseMongoDB) Update(ctx context.Context, id, tenantID primitive.ObjectID, fields map[string]any) (*models.Course, error) {
	course, err := findOneAndUpdate[models.Course](ctx, c.coll, bson.M{"_id": id, "tenantId": tenantID}, setFields(fields))
	if err != nil {
		return nil, err
	}
	cache.InvalidateCourseCache(ctx, c.cacheManager, tenantID.Hex(), id.Hex())
	return course, nil
}

func (c *CourseMongoDB) Delete(ctx context.Context, id, tenantID primitive.ObjectID) error {
	if err := deleteOne(ctx, c.coll, bson.M{"_id": id, "tenantId": tenantID}); err != nil {
		return err
	}
	cache.InvalidateCourseCache(ctx, c.cacheManager, tenantID.Hex(), id.Hex())
	return nil
}

func (c *CourseMongoDB) IncEnrolledStudents(ctx context.Context, id primitive.ObjectID, delta int) error {
	result, err := c.coll.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$inc": bson.M{"enrolledStudents": delta}})
	if err != nil {
		return fmt.Errorf("failed to update enrolled count: %w", err)
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	cache.SafeInvalidatePattern(ctx, c.cacheManager.Course, fmt.Sprintf("id:*:%s", id.Hex()))
	return nil
}

func (c *CourseMongoDB) CountByTeacher(ctx context.Context, teacherID primitive.ObjectID) (int64, error) {
	count, err := c.coll.CountDocuments(ctx, bson.M{"teacherId": teacherID})
	if err != nil {
		return 0, fmt.Errorf("failed to count courses by teacher: %w", err)
	}
	return count, nil
}
