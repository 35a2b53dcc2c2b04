package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reminder is a due-date note owned by a single user. UserID always refers to
// the authenticated creator; callers never set it through the API.
type Reminder struct {
	ID          primitive.ObjectID `json:"id"          bson:"_id,omitempty"`
	Title       string             `json:"title"       bson:"title"`
	Description string             `json:"description" bson:"description"`
	DueDate     time.Time          `json:"dueDate"     bson:"due_date"`
	UserID      string             `json:"userId"      bson:"user_id"`
	Completed   bool               `json:"completed"   bson:"completed"`
	CreatedAt   time.Time          `json:"createdAt"   bson:"created_at"`
}

// ReminderInput is the JSON body for POST /api/reminders.
type ReminderInput struct {
	Title       string    `json:"title"       validate:"required"`
	Description string    `json:"description" validate:"required"`
	DueDate     time.Time `json:"dueDate"     validate:"required"`
	Completed   bool      `json:"completed"`
}
