package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TenantStatus string

const (
	TenantActive    TenantStatus = "active"
	TenantSuspended TenantStatus = "suspended"
)

// Tenant is an isolated school instance. Every other document carries a
// tenantId referencing one of these; queries must filter by it.
type Tenant struct {
	ID             primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	TenantName     string              `json:"tenantName" bson:"tenantName"`
	TenantLogoURL  *string             `json:"tenantLogoUrl,omitempty" bson:"tenantLogoUrl,omitempty"`
	AdminEmail     string              `json:"adminEmail" bson:"adminEmail"`
	SubscriptionID *primitive.ObjectID `json:"subscriptionId,omitempty" bson:"subscriptionId,omitempty"`
	Status         TenantStatus        `json:"status" bson:"status"`
	CreatedAt      time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt      *time.Time          `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}
