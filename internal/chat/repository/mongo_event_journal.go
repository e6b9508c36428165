package repository

import (
	"context"
	"time"

	"messaging_service/internal/chat/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EventJournal keeps published events so reconnecting clients can catch up
type EventJournal interface {
	Publisher
	ListSince(ctx context.Context, userID uint, since time.Time, limit int64) ([]domain.Event, error)
}

type mongoEventJournal struct {
	coll *mongo.Collection
}

// NewMongoEventJournal create an EventJournal backed by the chat_events collection
func NewMongoEventJournal(db *mongo.Database) EventJournal {
	return &mongoEventJournal{coll: db.Collection("chat_events")}
}

// EnsureIndexes index recipients + created_at for replay queries
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("chat_events").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "recipients", Value: 1}, {Key: "created_at", Value: 1}},
	})
	return err
}

// Publish store the event
func (j *mongoEventJournal) Publish(ctx context.Context, event domain.Event) error {
	_, err := j.coll.InsertOne(ctx, event)
	return err
}

// ListSince events addressed to userID after since, oldest first
func (j *mongoEventJournal) ListSince(ctx context.Context, userID uint, since time.Time, limit int64) ([]domain.Event, error) {
	filter := bson.M{
		"recipients": userID,
		"created_at": bson.M{"$gt": since},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := j.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	events := []domain.Event{}
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
