package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ayush/subtrack/internal/apperr"
	"github.com/ayush/subtrack/internal/models"
)

// SubscriptionStore handles subscription CRUD in MongoDB. Reads run an
// aggregation that embeds the referenced category document.
type SubscriptionStore struct {
	col *mongo.Collection
}

func NewSubscriptionStore(db *mongo.Database) *SubscriptionStore {
	return &SubscriptionStore{col: db.Collection("subscriptions")}
}

// expandCategory joins the categories collection on category_id. A dangling
// reference leaves the category field null rather than dropping the record.
func expandCategory() []bson.M {
	return []bson.M{
		{"$lookup": bson.M{
			"from":         "categories",
			"localField":   "category_id",
			"foreignField": "_id",
			"as":           "category",
		}},
		{"$unwind": bson.M{
			"path":                       "$category",
			"preserveNullAndEmptyArrays": true,
		}},
	}
}

func (s *SubscriptionStore) FindAll(ctx context.Context) ([]models.Subscription, error) {
	pipeline := append([]bson.M{
		{"$sort": bson.M{"created_at": -1}},
	}, expandCategory()...)

	cur, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var subs []models.Subscription
	if err := cur.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (s *SubscriptionStore) FindByID(ctx context.Context, id string) (*models.Subscription, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.New(apperr.Validation, "Invalid subscription ID")
	}

	pipeline := append([]bson.M{
		{"$match": bson.M{"_id": oid}},
	}, expandCategory()...)

	cur, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var subs []models.Subscription
	if err := cur.All(ctx, &subs); err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return nil, apperr.New(apperr.NotFound, "Subscription not found")
	}
	return &subs[0], nil
}

// Create inserts a new subscription and returns its id. Callers re-fetch
// through FindByID to get the category-expanded record.
func (s *SubscriptionStore) Create(ctx context.Context, sub *models.Subscription) (string, error) {
	sub.CreatedAt = time.Now()
	res, err := s.col.InsertOne(ctx, sub)
	if err != nil {
		return "", err
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (s *SubscriptionStore) UpdateByID(ctx context.Context, id string, fields bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.New(apperr.Validation, "Invalid subscription ID")
	}
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "Subscription not found")
	}
	return nil
}

func (s *SubscriptionStore) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.New(apperr.NotFound, "Subscription not found")
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "Subscription not found")
	}
	return nil
}
