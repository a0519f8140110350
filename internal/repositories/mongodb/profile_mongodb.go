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

// ===== TEACHER PROFILES =====

type TeacherMongoDB struct {
	coll *mongo.Collection
}

func NewTeacherMongoDB(db *mongo.Database) repositories.TeacherRepository {
	return &TeacherMongoDB{coll: db.Collection(teachersCollection)}
}

func (t *TeacherMongoDB) Create(ctx context.Context, teacher *models.Teacher) error {
	return insertOne(ctx, t.coll, teacher)
}

func (t *TeacherMongoDB) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Teacher, error) {
	return findOne[models.Teacher](ctx, t.coll, bson.M{"_id": id})
}

func (t *TeacherMongoDB) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Teacher, error) {
	return findOne[models.Teacher](ctx, t.coll, bson.M{"userId": userID})
}

func (t *TeacherMongoDB) List(ctx context.Context, tenantID *primitive.ObjectID) ([]*models.Teacher, error) {
	filter := bson.M{}
	if tenantID != nil {
		filter["tenantId"] = *tenantID
	}
	cursor, err := t.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list teachers: %w", err)
	}
	return decodeAll[models.Teacher](ctx, cursor)
}

func (t *TeacherMongoDB) Update(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*models.Teacher, error) {
	return findOneAndUpdate[models.Teacher](ctx, t.coll, bson.M{"_id": id}, setFields(fields))
}

func (t *TeacherMongoDB) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteOne(ctx, t.coll, bson.M{"_id": id})
}

func (t *TeacherMongoDB) AddAssignedCourse(ctx context.Context, teacherID, courseID primitive.ObjectID) error {
	_, err := t.coll.UpdateOne(ctx, bson.M{"_id": teacherID},
		bson.M{"$addToSet": bson.M{"assignedCourses": courseID}})
	if err != nil {
		return fmt.Errorf("failed to assign course to teacher: %w", err)
	}
	return nil
}

func (t *TeacherMongoDB) RemoveAssignedCourse(ctx context.Context, teacherID, courseID primitive.ObjectID) (bool, error) {
	result, err := t.coll.UpdateOne(ctx, bson.M{"_id": teacherID},
		bson.M{"$pull": bson.M{"assignedCourses": courseID}})
	if err != nil {
		return false, fmt.Errorf("failed to remove course from teacher: %w", err)
	}
	return result.ModifiedCount > 0, nil
}

// ===== STUDENT PROFILES =====

type StudentMongoDB struct {
	coll *mongo.Collection
}

func NewStudentMongoDB(db *mongo.Database) repositories.StudentRepository {
	return &StudentMongoDB{coll: db.Collection(studentsCollection)}
}

func (s *StudentMongoDB) Create(ctx context.Context, student *models.Student) error {
	return insertOne(ctx, s.coll, student)
}

func (s *StudentMongoDB) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Student, error) {
	return findOne[models.Student](ctx, s.coll, bson.M{"_id": id})
}

func (s *StudentMongoDB) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Student, error) {
	return findOne[models.Student](ctx, s.coll, bson.M{"userId": userID})
}

func (s *StudentMongoDB) List(ctx context.Context, tenantID *primitive.ObjectID) ([]*models.Student, error) {
	filter := bson.M{}
	if tenantID != nil {
		filter["tenantId"] = *tenantID
	}
	cursor, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return decodeAll[models.Student](ctx, cursor)
}

func (s *StudentMongoDB) ListByCourse(ctx context.Context, tenantID, courseID primitive.ObjectID) ([]*models.Student, error) {
	cursor, err := s.coll.Find(ctx, bson.M{
		"tenantId":        tenantID,
		"enrolledCourses": courseID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list students by course: %w", err)
	}
	return decodeAll[models.Student](ctx, cursor)
}

func (s *StudentMongoDB) Update(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*models.Student, error) {
	return findOneAndUpdate[models.Student](ctx, s.coll, bson.M{"_id": id}, setFields(fields))
}

func (s *StudentMongoDB) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteOne(ctx, s.coll, bson.M{"_id": id})
}

func (s *StudentMongoDB) AddEnrolledCourse(ctx context.Context, studentID, courseID primitive.ObjectID) (bool, error) {
	result, err := s.coll.UpdateOne(ctx, bson.M{"_id": studentID},
		bson.M{"$addToSet": bson.M{"enrolledCourses": courseID}})
	if err != nil {
		return false, fmt.Errorf("failed to enroll student: %w", err)
	}
	return result.ModifiedCount > 0, nil
}

func (s *StudentMongoDB) RemoveEnrolledCourse(ctx context.Context, studentID, courseID primitive.ObjectID) (bool, error) {
	result, err := s.coll.UpdateOne(ctx, bson.M{"_id": studentID},
		bson.M{"$pull": bson.M{"enrolledCourses": courseID}})
	if err != nil {
		return false, fmt.Errorf("failed to unenroll student: %w", err)
	}
	return result.ModifiedCount > 0, nil
}

// RemoveCourseFromAll pulls the course out of every student's enrolled and
// completed lists, returning how many students were touched.
func (s *StudentMongoDB) RemoveCourseFromAll(ctx context.Context, courseID primitive.ObjectID) (int64, error) {
	result, err := s.coll.UpdateMany(ctx,
		bson.M{"$or": bson.A{
			bson.M{"enrolledCourses": courseID},
			bson.M{"completedCourses": courseID},
		}},
		bson.M{"$pull": bson.M{
			"enrolledCourses":  courseID,
			"completedCourses": courseID,
		}})
	if err != nil {
		return 0, fmt.Errorf("failed to remove course from students: %w", err)
	}
	return result.ModifiedCount, nil
}

func (s *StudentMongoDB) CountByCourses(ctx context.Context, courseIDs []primitive.ObjectID) (int64, error) {
	if len(courseIDs) == 0 {
		return 0, nil
	}
	count, err := s.coll.CountDocuments(ctx, bson.M{"enrolledCourses": bson.M{"$in": courseIDs}})
	if err != nil {
		return 0, fmt.Errorf("failed to count students by courses: %w", err)
	}
	return count, nil
}

// ===== ADMIN PROFILES =====

type AdminMongoDB struct {
	coll *mongo.Collection
}

func NewAdminMongoDB(db *mongo.Database) repositories.AdminRepository {
	return &AdminMongoDB{coll: db.Collection(adminsCollection)}
}

func (a *AdminMongoDB) Create(ctx context.Context, admin *models.Admin) error {
	return insertOne(ctx, a.coll, admin)
}

func (a *AdminMongoDB) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	return findOne[models.Admin](ctx, a.coll, bson.M{"_id": id})
}

func (a *AdminMongoDB) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Admin, error) {
	return findOne[models.Admin](ctx, a.coll, bson.M{"userId": userID})
}

func (a *AdminMongoDB) Update(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*models.Admin, error) {
	return findOneAndUpdate[models.Admin](ctx, a.coll, bson.M{"_id": id}, setFields(fields))
}

func (a *AdminMongoDB) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteOne(ctx, a.coll, bson.M{"_id": id})
}
