package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category groups subscriptions (e.g. "Streaming", "Utilities").
type Category struct {
	ID          primitive.ObjectID `json:"id"          bson:"_id,omitempty"`
	Name        string             `json:"name"        bson:"name"`
	Description string             `json:"description" bson:"description"`
	CreatedAt   time.Time          `json:"createdAt"   bson:"created_at"`
}

// CategoryInput is the JSON body for POST/PUT /api/categories.
type CategoryInput struct {
	Name        string `json:"name"        validate:"required"`
	Description string `json:"description" validate:"required"`
}
