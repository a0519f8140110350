package mongodb

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/eduverse/school-service/internal/cache"
	"github.com/eduverse/school-service/internal/repositories"
)

// Collection names
const (
	tenantsCollection               = "tenants"
	usersCollection                 = "users"
	teachersCollection              = "teachers"
	studentsCollection              = "students"
	adminsCollection                = "admins"
	coursesCollection               = "courses"
	assignmentsCollection           = "assignments"
	assignmentSubmissionsCollection = "assignment_submissions"
	quizzesCollection               = "quizzes"
	quizSubmissionsCollection       = "quiz_submissions"
	subscriptionsCollection         = "subscriptions"
)

// MongoRepository implements the main Repository interface
type MongoRepository struct {
	db           *mongo.Database
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	tenant               repositories.TenantRepository
	user                 repositories.UserRepository
	teacher              repositories.TeacherRepository
	student              repositories.StudentRepository
	admin                repositories.AdminRepository
	course               repositories.CourseRepository
	assignment           repositories.AssignmentRepository
	assignmentSubmission repositories.AssignmentSubmissionRepository
	quiz                 repositories.QuizRepository
	quizSubmission       repositories.QuizSubmissionRepository
	subscription         repositories.SubscriptionRepository
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	DB          *mongo.Database
	RedisClient *redis.Client
}

// NewMongoRepository creates a new repository manager with all sub-repositories
func NewMongoRepository(config RepositoryConfig) *MongoRepository {
	cacheManager := cache.NewCacheManager(config.RedisClient)

	repo := &MongoRepository{
		db:           config.DB,
		redisClient:  config.RedisClient,
		cacheManager: cacheManager,
	}

	repo.tenant = NewTenantMongoDB(config.DB)
	repo.user = NewUserMongoDB(config.DB)
	repo.teacher = NewTeacherMongoDB(config.DB)
	repo.student = NewStudentMongoDB(config.DB)
	repo.admin = NewAdminMongoDB(config.DB)
	repo.course = NewCourseMongoDB(config.DB, cacheManager)
	repo.assignment = NewAssignmentMongoDB(config.DB)
	repo.assignmentSubmission = NewAssignmentSubmissionMongoDB(config.DB)
	repo.quiz = NewQuizMongoDB(config.DB)
	repo.quizSubmission = NewQuizSubmissionMongoDB(config.DB)
	repo.subscription = NewSubscriptionMongoDB(config.DB, cacheManager)

	return repo
}

func (r *MongoRepository) Tenant() repositories.TenantRepository   { return r.tenant }
func (r *MongoRepository) User() repositories.UserRepository       { return r.user }
func (r *MongoRepository) Teacher() repositories.TeacherRepository { return r.teacher }
func (r *MongoRepository) Student() repositories.StudentRepository { return r.student }
func (r *MongoRepository) Admin() repositories.AdminRepository     { return r.admin }
func (r *MongoRepository) Course() repositories.CourseRepository   { return r.course }
func (r *MongoRepository) Assignment() repositories.AssignmentRepository {
	return r.assignment
}
func (r *MongoRepository) AssignmentSubmission() repositories.AssignmentSubmissionRepository {
	return r.assignmentSubmission
}
func (r *MongoRepository) Quiz() repositories.QuizRepository { return r.quiz }
func (r *MongoRepository) QuizSubmission() repositories.QuizSubmissionRepository {
	return r.quizSubmission
}
func (r *MongoRepository) Subscription() repositories.SubscriptionRepository {
	return r.subscription
}

// Ping checks the health of database and cache connections
func (r *MongoRepository) Ping(ctx context.Context) error {
	if err := r.db.Client().Ping(ctx, nil); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if r.redisClient != nil {
		if err := r.cacheManager.HealthCheck(ctx); err != nil {
			return fmt.Errorf("cache ping failed: %w", err)
		}
	}

	return nil
}

// Close closes all connections
func (r *MongoRepository) Close(ctx context.Context) error {
	if err := r.db.Client().Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}

	return nil
}
