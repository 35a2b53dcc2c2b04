package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/subtrack/internal/apperr"
	"github.com/ayush/subtrack/internal/models"
)

// ReminderStore handles reminder CRUD in MongoDB. Every query is scoped to
// the owning user id; there is no unscoped access path.
type ReminderStore struct {
	col *mongo.Collection
}

func NewReminderStore(db *mongo.Database) *ReminderStore {
	return &ReminderStore{col: db.Collection("reminders")}
}

func (s *ReminderStore) FindAllByUser(ctx context.Context, userID string) ([]models.Reminder, error) {
	opts := options.Find().SetSort(bson.D{{Key: "due_date", Value: 1}})
	cur, err := s.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rems []models.Reminder
	if err := cur.All(ctx, &rems); err != nil {
		return nil, err
	}
	return rems, nil
}

func (s *ReminderStore) Create(ctx context.Context, rem *models.Reminder) (*models.Reminder, error) {
	rem.CreatedAt = time.Now()
	res, err := s.col.InsertOne(ctx, rem)
	if err != nil {
		return nil, err
	}
	rem.ID = res.InsertedID.(primitive.ObjectID)
	return rem, nil
}

// DeleteByIDAndUser removes a reminder only when both the id and the owner
// match. A foreign or unknown id reports not-found either way, so callers
// cannot probe for other users' reminders.
func (s *ReminderStore) DeleteByIDAndUser(ctx context.Context, id, userID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.New(apperr.NotFound, "Reminder not found")
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "Reminder not found")
	}
	return nil
}
