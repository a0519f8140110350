package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentRecord struct {
	Amount    float64   `json:"amount" bson:"amount"`
	Method    string    `json:"method,omitempty" bson:"method,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Subscription holds per-tenant plan limits.
type Subscription struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TenantID       primitive.ObjectID `json:"tenantId" bson:"tenantId"`
	Plan           string             `json:"plan" bson:"plan"`
	MaxStudents    int                `json:"maxStudents" bson:"maxStudents"`
	MaxTeachers    int                `json:"maxTeachers" bson:"maxTeachers"`
	MaxCourses     int                `json:"maxCourses" bson:"maxCourses"`
	AICredits      int                `json:"aiCredits" bson:"aiCredits"`
	StorageGB      int                `json:"storageGb" bson:"storageGb"`
	PricePerMonth  float64            `json:"pricePerMonth" bson:"pricePerMonth"`
	BillingCycle   string             `json:"billingCycle" bson:"billingCycle"`
	Status         string             `json:"status" bson:"status"`
	ExpiryDate     time.Time          `json:"expiryDate" bson:"expiryDate"`
	PaymentHistory []PaymentRecord    `json:"paymentHistory" bson:"paymentHistory"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      *time.Time         `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}
