package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment lives embedded in its discussion document. The ID is a uuid
// assigned on creation so a retried append can be told apart from a new one.
type Comment struct {
	ID              string             `bson:"id" json:"id"`
	UserID          primitive.ObjectID `bson:"user_id" json:"user_id"`
	UserDisplayName string             `bson:"user_display_name" json:"user_display_name"`
	Content         string             `bson:"content" json:"content"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
}

type Discussion struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"user_id" json:"user_id"`
	UserDisplayName string             `bson:"user_display_name" json:"user_display_name"`
	Title           string             `bson:"title" json:"title"`
	Content         string             `bson:"content" json:"content"`
	Category        string             `bson:"category,omitempty" json:"category,omitempty"`
	Comments        []Comment          `bson:"comments" json:"comments"`
	LikesCount      int                `bson:"likes_count" json:"likes_count"`
	ViewsCount      int                `bson:"views_count" json:"views_count"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}
