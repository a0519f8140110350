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

type SubscriptionMongoDB struct {
	coll         *mongo.Collection
	cacheManager *cache.CacheManager
}

func NewSubscriptionMongoDB(db *mongo.Database, cacheManager *cache.CacheManager) repositories.SubscriptionRepository {
	return &SubscriptionMongoDB{
		coll:         db.Collection(subscriptionsCollection),
		cacheManager: cacheManager,
	}
}

func (s *SubscriptionMongoDB) Create(ctx context.Context, subscription *models.Subscription) error {
	if err := insertOne(ctx, s.coll, subscription); err != nil {
		return err
	}
	cache.InvalidateSubscriptionCache(ctx, s.cacheManager, subscription.TenantID.Hex())
	return nil
}

// GetByTenant retrieves a tenant's subscription, with caching. Plans change
// rarely so this read carries the long TTL.
func (s *SubscriptionMongoDB) GetByTenant(ctx context.Context, tenantID primitive.ObjectID) (*models.Subscription, error) {
	cacheKey := fmt.Sprintf("tenant:%s", tenantID.Hex())
	var subscription models.Subscription

	err := s.cacheManager.Subscription.CacheOrExecute(ctx, cacheKey, &subscription, cache.SubscriptionCacheConfig.TTL, func() (interface{}, error) {
		return findOne[models.Subscription](ctx, s.coll, bson.M{"tenantId": tenantID})
	})
	if err != nil {
		return nil, err
	}
	return &subscription, nil
}

func (s *SubscriptionMongoDB) List(ctx context.Context) ([]*models.Subscription, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, findOptions(0, 0, "-createdAt"))
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return decodeAll[models.Subscription](ctx, cursor)
}

func (s *SubscriptionMongoDB) UpdateByTenant(ctx context.Context, tenantID primitive.ObjectID, fields map[string]any) (*models.Subscription, error) {
	subscription, err := findOneAndUpdate[models.Subscription](ctx, s.coll, bson.M{"tenantId": tenantID}, setFields(fields))
	if err != nil {
		return nil, err
	}
	cache.InvalidateSubscriptionCache(ctx, s.cacheManager, tenantID.Hex())
	return subscription, nil
}

func (s *SubscriptionMongoDB) DeleteByTenant(ctx context.Context, tenantID primitive.ObjectID) error {
	if err := deleteOne(ctx, s.coll, bson.M{"tenantId": tenantID}); err != nil {
		return err
	}
	cache.InvalidateSubscriptionCache(ctx, s.cacheManager, tenantID.Hex())
	return nil
}
