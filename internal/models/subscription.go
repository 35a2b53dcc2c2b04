package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Subscription is a single tracked subscription. CategoryID holds the raw
// reference; Category is filled in by the store's $lookup on reads.
type Subscription struct {
	ID          primitive.ObjectID `json:"id"          bson:"_id,omitempty"`
	Name        string             `json:"name"        bson:"name"`
	Price       float64            `json:"price"       bson:"price"`
	Duration    string             `json:"duration"    bson:"duration"` // "Monthly", "Yearly"
	CategoryID  primitive.ObjectID `json:"-"           bson:"category_id"`
	Category    *Category          `json:"category"    bson:"category,omitempty"`
	Description string             `json:"description" bson:"description"`
	IsActive    bool               `json:"isActive"    bson:"is_active"`
	CreatedAt   time.Time          `json:"createdAt"   bson:"created_at"`
}

// SubscriptionInput is the JSON body for POST/PUT /api/subscriptions.
// Price is a pointer so a present-but-zero price passes the required check.
type SubscriptionInput struct {
	Name        string   `json:"name"        validate:"required"`
	Price       *float64 `json:"price"       validate:"required"`
	Duration    string   `json:"duration"    validate:"required"`
	Category    string   `json:"category"    validate:"required"`
	Description string   `json:"description" validate:"required"`
	IsActive    *bool    `json:"isActive"`
}
