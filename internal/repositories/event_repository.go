package repositories

import (
	"context"
	"time"

	"github.com/mallardapp/mallard/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EventRepository defines the interface for the notification activity trail
type EventRepository interface {
	Record(ctx context.Context, event *models.NotificationEvent) error
	ListByNotification(ctx context.Context, notifID uint) ([]models.NotificationEvent, error)
}

// MongoEventRepository implements EventRepository for MongoDB
type MongoEventRepository struct {
	collection *mongo.Collection
}

// NewMongoEventRepository creates a new MongoEventRepository
func NewMongoEventRepository(db *mongo.Database) *MongoEventRepository {
	return &MongoEventRepository{collection: db.Collection("notification_events")}
}

// Record appends one event to the trail
func (r *MongoEventRepository) Record(ctx context.Context, event *models.NotificationEvent) error {
	event.ID = primitive.NewObjectID()
	event.At = time.Now()
	_, err := r.collection.InsertOne(ctx, event)
	return err
}

// ListByNotification returns the trail for one notification, oldest first
func (r *MongoEventRepository) ListByNotification(ctx context.Context, notifID uint) ([]models.NotificationEvent, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"notif_id": notifID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := []models.NotificationEvent{}
	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
