package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Proposal statuses. A proposal starts "pending"; an admin either approves
// or rejects it, and both outcomes are terminal.
const (
	ProposalPending  = "pending"
	ProposalApproved = "approved"
	ProposalRejected = "rejected"
)

type EventProposal struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID               primitive.ObjectID `bson:"user_id" json:"user_id"`
	Title                string             `bson:"title" json:"title"`
	Date                 string             `bson:"date" json:"date"` // YYYY-MM-DD
	Time                 string             `bson:"time,omitempty" json:"time,omitempty"` // HH:MM
	Location             string             `bson:"location,omitempty" json:"location,omitempty"`
	Description          string             `bson:"description,omitempty" json:"description,omitempty"`
	Category             string             `bson:"category,omitempty" json:"category,omitempty"`
	Organizer            string             `bson:"organizer" json:"organizer"`
	OrganizerEmail       string             `bson:"organizer_email" json:"organizer_email"`
	OrganizerPhone       string             `bson:"organizer_phone,omitempty" json:"organizer_phone,omitempty"`
	Capacity             int                `bson:"capacity" json:"capacity"`
	RegistrationRequired bool               `bson:"registration_required" json:"registration_required"`
	Status               string             `bson:"status" json:"status"` // pending, approved, rejected
	CreatedAt            time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt            time.Time          `bson:"updated_at" json:"updated_at"`
}
