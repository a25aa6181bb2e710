package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Post struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Summary   string             `bson:"summary,omitempty" json:"summary,omitempty"`
	Content   string             `bson:"content" json:"content"`
	Category  string             `bson:"category,omitempty" json:"category,omitempty"`
	ImageURL  string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Featured  bool               `bson:"featured" json:"featured"`
	Published bool               `bson:"published" json:"published"`
	Author    string             `bson:"author" json:"author"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
