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

type TenantMongoDB struct {
	coll *mongo.Collection
}

func NewTenantMongoDB(db *mongo.Database) repositories.TenantRepository {
	return &TenantMongoDB{coll: db.Collection(tenantsCollection)}
}

func (t *TenantMongoDB) Create(ctx context.Context, tenant *models.Tenant) error {
	return insertOne(ctx, t.coll, tenant)
}

func (t *TenantMongoDB) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Tenant, error) {
	return findOne[models.Tenant](ctx, t.coll, bson.M{"_id": id})
}

func (t *TenantMongoDB) GetByName(ctx context.Context, name string) (*models.Tenant, error) {
	return findOne[models.Tenant](ctx, t.coll, bson.M{"tenantName": name})
}

func (t *TenantMongoDB) List(ctx context.Context, filters repositories.TenantFilters) ([]*models.Tenant, int64, error) {
	filter := bson.M{}
	if filters.Status != nil {
		filter["status"] = *filters.Status
	}
	if filters.Search != nil && *filters.Search != "" {
		regex := searchRegex(*filters.Search)
		filter["$or"] = bson.A{
			bson.M{"tenantName": regex},
			bson.M{"adminEmail": regex},
		}
	}

	total, err := t.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count tenants: %w", err)
	}

	sort := filters.Sort
	if sort == "" {
		sort = "-createdAt"
	} else if sort == "name" {
		sort = "tenantName"
	}

	cursor, err := t.coll.Find(ctx, filter, findOptions(filters.Skip, filters.Limit, sort))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tenants: %w", err)
	}

	tenants, err := decodeAll[models.Tenant](ctx, cursor)
	if err != nil {
		return nil, 0, err
	}
	return tenants, total, nil
}

func (t *TenantMongoDB) Update(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*models.Tenant, error) {
	return findOneAndUpdate[models.Tenant](ctx, t.coll, bson.M{"_id": id}, setFields(fields))
}

func (t *TenantMongoDB) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteOne(ctx, t.coll, bson.M{"_id": id})
}
