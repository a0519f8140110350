package mongodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/eduverse/school-service/internal/models"
	"github.com/eduverse/school-service/internal/repositories"
)

type UserMongoDB struct {
	coll *mongo.Collection
}

func NewUserMongoDB(db *mongo.Database) repositories.UserRepository {
	return &UserMongoDB{coll: db.Collection(usersCollection)}
}

func (u *UserMongoDB) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(user.Email)
	return insertOne(ctx, u.coll, user)
}

func (u *UserMongoDB) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return findOne[models.User](ctx, u.coll, bson.M{"_id": id})
}

func (u *UserMongoDB) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, u.coll, bson.M{"email": strings.ToLower(email)})
}

func (u *UserMongoDB) Update(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*models.User, error) {
	if email, ok := fields["email"].(string); ok {
		fields["email"] = strings.ToLower(email)
	}
	return findOneAndUpdate[models.User](ctx, u.coll, bson.M{"_id": id}, setFields(fields))
}

func (u *UserMongoDB) UpdateLastLogin(ctx context.Context, id primitive.ObjectID) error {
	_, err := u.coll.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"lastLogin": time.Now().UTC()}})
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

func (u *UserMongoDB) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteOne(ctx, u.coll, bson.M{"_id": id})
}
