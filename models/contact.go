package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContactMessage struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name      string              `bson:"name" json:"name"`
	Email     string              `bson:"email" json:"email"`
	Subject   string              `bson:"subject" json:"subject"`
	Message   string              `bson:"message" json:"message"`
	UserID    *primitive.ObjectID `bson:"user_id,omitempty" json:"user_id"` // nil for anonymous submissions
	Status    string              `bson:"status" json:"status"`             // pending, read, replied
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
}
