package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user can hold. "user" is the default on signup,
// "member" is granted by an admin, "admin" gates the admin routes.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
	RoleUser   = "user"
)

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleMember || role == RoleUser
}

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DisplayName  string             `bson:"display_name" json:"display_name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	PhotoURL     string             `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	Role         string             `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}
