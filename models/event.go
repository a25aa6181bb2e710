package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event statuses.
const (
	EventUpcoming  = "upcoming"
	EventOngoing   = "ongoing"
	EventCompleted = "completed"
	EventCancelled = "cancelled"
)

func ValidEventStatus(status string) bool {
	switch status {
	case EventUpcoming, EventOngoing, EventCompleted, EventCancelled:
		return true
	}
	return false
}

type Event struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title           string               `bson:"title" json:"title"`
	Description     string               `bson:"description,omitempty" json:"description,omitempty"`
	Date            time.Time            `bson:"date" json:"date"`
	Location        string               `bson:"location,omitempty" json:"location,omitempty"`
	Category        string               `bson:"category,omitempty" json:"category,omitempty"`
	Status          string               `bson:"status" json:"status"` // upcoming, ongoing, completed, cancelled
	Capacity        int                  `bson:"capacity" json:"capacity"` // 0 means unlimited
	RegisteredCount int                  `bson:"registered_count" json:"registered_count"`
	RegisteredUsers []primitive.ObjectID `bson:"registered_users" json:"registered_users"`
	ImageURL        string               `bson:"image_url,omitempty" json:"image_url,omitempty"`
	CreatedAt       time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time            `bson:"updated_at" json:"updated_at"`
}
