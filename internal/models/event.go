package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification event actions.
const (
	EventCreated = "created"
	EventEdited  = "edited"
	EventDeleted = "deleted"
)

// NotificationEvent is one entry in the notification activity trail (MongoDB).
type NotificationEvent struct {
	ID      primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	NotifID uint               `json:"notif_id" bson:"notif_id"`
	Actor   string             `json:"actor" bson:"actor"`
	Action  string             `json:"action" bson:"action"` // created, edited, deleted
	Type    string             `json:"type" bson:"type"`
	At      time.Time          `json:"at" bson:"at"`
}
