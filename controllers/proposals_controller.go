package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/orionsociety/astroclub-backend/config"
	models "github.com/orionsociety/astroclub-backend/models"
	utils "github.com/orionsociety/astroclub-backend/utils"
)

/// canTransitionProposal encodes the proposal state machine: a pending
// proposal can be approved or rejected, and both outcomes are terminal.
func canTransitionProposal(from, to string) bool {
	if from != models.ProposalPending {
		return false
	}
	return to == models.ProposalApproved || to == models.ProposalRejected
}

type proposalInput struct {
	Title                string `json:"title" binding:"required"`
	Date                 string `json:"date" binding:"required"`
	Time                 string `json:"time"`
	Location             string `json:"location"`
	Description          string `json:"description"`
	Category             string `json:"category"`
	Organizer            string `json:"organizer" binding:"required"`
	OrganizerEmail       string `json:"organizer_email" binding:"required,email"`
	OrganizerPhone       string `json:"organizer_phone"`
	Capacity             int    `json:"capacity"`
	RegistrationRequired bool   `json:"registration_required"`

	// Status is accepted but never honored; every proposal starts pending.
	Status string `json:"status"`
}

// newProposal builds the stored document from a submission. The status
// is always pending no matter what the caller sent.
func newProposal(userID primitive.ObjectID, input *proposalInput, now time.Time) models.EventProposal {
	return models.EventProposal{
		ID:                   primitive.NewObjectID(),
		UserID:               userID,
		Title:                input.Title,
		Date:                 input.Date,
		Time:                 input.Time,
		Location:             input.Location,
		Description:          input.Description,
		Category:             input.Category,
		Organizer:            input.Organizer,
		OrganizerEmail:       input.OrganizerEmail,
		OrganizerPhone:       input.OrganizerPhone,
		Capacity:             input.Capacity,
		RegistrationRequired: input.RegistrationRequired,
		Status:               models.ProposalPending,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

// ---------------- CREATE ----------------
func CreateProposal(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")
		userID, err := primitive.ObjectIDFromHex(uid)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}

		var input proposalInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if _, err := time.Parse("2006-01-02", input.Date); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, use YYYY-MM-DD"})
			return
		}
		if input.Capacity < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "capacity cannot be negative"})
			return
		}

		proposal := newProposal(userID, &input, time.Now())

		col := cfg.Collection("event_proposals")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := col.InsertOne(ctx, proposal); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not submit proposal"})
			return
		}

		c.JSON(http.StatusCreated, proposal)
	}
}

// ---------------- LIST ----------------
func ListProposals(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")
		userID, err := primitive.ObjectIDFromHex(uid)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}

		col := cfg.Collection("event_proposals")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// --- Build filter: members see their own, admins see everything ---
		filter := bson.M{}
		if c.GetString("role") != models.RoleAdmin {
			filter["user_id"] = userID
		}
		if status := c.Query("status"); status != "" {
			filter["status"] = status
		}

		cursor, err := col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch proposals"})
			return
		}

		var proposals []models.EventProposal
		if err := cursor.All(ctx, &proposals); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode proposals"})
			return
		}

		if len(proposals) == 0 {
			c.JSON(http.StatusOK, []models.EventProposal{})
			return
		}

		c.JSON(http.StatusOK, proposals)
	}
}

// ---------------- GET ----------------
func GetProposal(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid proposal id"})
			return
		}

		var proposal models.EventProposal
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err = cfg.Collection("event_proposals").
			FindOne(ctx, bson.M{"_id": oid}).
			Decode(&proposal)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "proposal not found"})
			return
		}

		// Owner or admin only.
		role := c.GetString("role")
		if role != models.RoleAdmin && proposal.UserID.Hex() != c.GetString("user_id") {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}

		c.JSON(http.StatusOK, proposal)
	}
}

// ---------------- STATUS TRANSITION ----------------
func UpdateProposalStatus(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid proposal id"})
			return
		}

		var input struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		col := cfg.Collection("event_proposals")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var existing models.EventProposal
		if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "proposal not found"})
			return
		}

		if !canTransitionProposal(existing.Status, input.Status) {
			c.JSON(http.StatusConflict, gin.H{
				"error": fmt.Sprintf("cannot transition proposal from %q to %q", existing.Status, input.Status),
			})
			return
		}

		// Filter on the current status so two concurrent decisions cannot
		// both land.
		res, err := col.UpdateOne(ctx,
			bson.M{"_id": oid, "status": models.ProposalPending},
			bson.M{"$set": bson.M{"status": input.Status, "updated_at": time.Now()}},
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update proposal"})
			return
		}
		if res.ModifiedCount == 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "proposal was already decided"})
			return
		}

		// Approval publishes the event straight onto the calendar.
		var createdEvent *models.Event
		if input.Status == models.ProposalApproved {
			event := eventFromProposal(&existing)
			if _, err := cfg.Collection("events").InsertOne(ctx, event); err != nil {
				log.Printf("could not create event from approved proposal %s: %v", oid.Hex(), err)
			} else {
				createdEvent = event
			}
		}

		notifyProposalDecision(&existing, input.Status)

		c.JSON(http.StatusOK, gin.H{
			"message": "proposal " + input.Status,
			"id":      oid.Hex(),
			"event":   createdEvent,
		})
	}
}

// ---------------- DELETE ----------------
func DeleteProposal(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid proposal id"})
			return
		}

		col := cfg.Collection("event_proposals")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := col.DeleteOne(ctx, bson.M{"_id": oid})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete proposal"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "proposal not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "proposal deleted", "id": oid.Hex()})
	}
}

// eventFromProposal builds the published event for an approved proposal.
func eventFromProposal(p *models.EventProposal) *models.Event {
	date, err := time.Parse("2006-01-02 15:04", p.Date+" "+p.Time)
	if err != nil {
		// Proposals always carry a valid date; the time field is optional.
		date, _ = time.Parse("2006-01-02", p.Date)
	}

	now := time.Now()
	return &models.Event{
		ID:              primitive.NewObjectID(),
		Title:           p.Title,
		Description:     p.Description,
		Date:            date,
		Location:        p.Location,
		Category:        p.Category,
		Status:          models.EventUpcoming,
		Capacity:        p.Capacity,
		RegisteredCount: 0,
		RegisteredUsers: []primitive.ObjectID{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func notifyProposalDecision(p *models.EventProposal, status string) {
	subject := fmt.Sprintf("Your event proposal %q was %s", p.Title, status)
	body := fmt.Sprintf("<p>Hello %s,</p><p>Your proposal <strong>%s</strong> (%s) has been <strong>%s</strong>.</p>",
		p.Organizer, p.Title, p.Date, status)
	if err := utils.SendEmail(p.OrganizerEmail, p.Organizer, subject, body); err != nil {
		log.Printf("proposal decision email failed for %s: %v", p.ID.Hex(), err)
	}
}
