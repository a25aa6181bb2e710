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

// ---------------- CREATE ----------------
// Public endpoint; a signed-in caller gets their id attached, anonymous
// submissions store no user id.
func CreateContactMessage(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Name    string `json:"name" binding:"required"`
			Email   string `json:"email" binding:"required,email"`
			Subject string `json:"subject" binding:"required"`
			Message string `json:"message" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var userID *primitive.ObjectID
		if uid := c.GetString("user_id"); uid != "" {
			if oid, err := primitive.ObjectIDFromHex(uid); err == nil {
				userID = &oid
			}
		}

		msg := models.ContactMessage{
			ID:        primitive.NewObjectID(),
			Name:      input.Name,
			Email:     input.Email,
			Subject:   input.Subject,
			Message:   input.Message,
			UserID:    userID,
			Status:    "pending",
			CreatedAt: time.Now(),
		}

		col := cfg.Collection("contact_messages")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := col.InsertOne(ctx, msg); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not send message"})
			return
		}

		// Notify the club inbox; a mail failure never fails the submission.
		if cfg.AdminEmail != "" {
			subject := fmt.Sprintf("New contact message: %s", msg.Subject)
			body := fmt.Sprintf("<p>From: %s (%s)</p><p>%s</p>", msg.Name, msg.Email, msg.Message)
			if err := utils.SendEmail(cfg.AdminEmail, "Site Admin", subject, body); err != nil {
				log.Printf("contact notification email failed: %v", err)
			}
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "message sent",
			"id":      msg.ID.Hex(),
		})
	}
}

// ---------------- LIST (admin) ----------------
func ListContactMessages(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		col := cfg.Collection("contact_messages")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		filter := bson.M{}
		if status := c.Query("status"); status != "" {
			filter["status"] = status
		}

		cursor, err := col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch messages"})
			return
		}

		var messages []models.ContactMessage
		if err := cursor.All(ctx, &messages); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode messages"})
			return
		}

		if len(messages) == 0 {
			c.JSON(http.StatusOK, []models.ContactMessage{})
			return
		}

		c.JSON(http.StatusOK, messages)
	}
}

// ---------------- UPDATE STATUS (admin) ----------------
func UpdateContactMessageStatus(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
			return
		}

		var input struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		col := cfg.Collection("contact_messages")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"status": input.Status}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update message"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "status updated", "id": oid.Hex()})
	}
}

// ---------------- DELETE (admin) ----------------
func DeleteContactMessage(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
			return
		}

		col := cfg.Collection("contact_messages")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := col.DeleteOne(ctx, bson.M{"_id": oid})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete message"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "message deleted", "id": oid.Hex()})
	}
}
