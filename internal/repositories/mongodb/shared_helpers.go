package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eduverse/school-service/internal/repositories"
)

// searchRegex builds a case-insensitive substring match for $regex filters.
// The input is quoted so user-supplied text cannot inject regex operators.
func searchRegex(term string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(strings.TrimSpace(term)), "$options": "i"}
}

// setFields wraps a sanitized field map into a $set update, stamping updatedAt.
func setFields(fields map[string]any) bson.M {
	set := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}
	return bson.M{"$set": set}
}

// findOptions builds skip/limit/sort options for list queries. Sort accepts a
// field name with an optional "-" prefix for descending order.
func findOptions(skip, limit int, sort string) *options.FindOptions {
	opts := options.Find()
	if skip > 0 {
		opts.SetSkip(int64(skip))
	}
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	if sort != "" {
		dir := 1
		field := sort
		if strings.HasPrefix(sort, "-") {
			dir = -1
			field = sort[1:]
		}
		opts.SetSort(bson.D{{Key: field, Value: dir}})
	}
	return opts
}

// decodeAll drains a cursor into a slice of T pointers.
func decodeAll[T any](ctx context.Context, cursor *mongo.Cursor) ([]*T, error) {
	defer cursor.Close(ctx)

	var results []*T
	for cursor.Next(ctx) {
		item := new(T)
		if err := cursor.Decode(item); err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
		results = append(results, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return results, nil
}

// findOne runs FindOne and maps mongo.ErrNoDocuments to the repository
// not-found sentinel.
func findOne[T any](ctx context.Context, coll *mongo.Collection, filter bson.M) (*T, error) {
	result := new(T)
	err := coll.FindOne(ctx, filter).Decode(result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find document: %w", err)
	}
	return result, nil
}

// findOneAndUpdate applies a $set update and returns the updated document.
func findOneAndUpdate[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, update bson.M) (*T, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	result := new(T)
	err := coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update document: %w", err)
	}
	return result, nil
}

// deleteOne removes a single document, mapping zero deletions to not-found.
func deleteOne(ctx context.Context, coll *mongo.Collection, filter bson.M) error {
	result, err := coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if result.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// insertOne wraps InsertOne, mapping duplicate key violations.
func insertOne(ctx context.Context, coll *mongo.Collection, doc any) error {
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repositories.ErrDuplicateKey
		}
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}
