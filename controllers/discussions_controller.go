package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/orionsociety/astroclub-backend/config"
	models "github.com/orionsociety/astroclub-backend/models"
	utils "github.com/orionsociety/astroclub-backend/utils"
)

// displayNameFor resolves the author name denormalized into discussions
// and comments. Falls back to the email local part so the name is never
// empty.
func displayNameFor(ctx context.Context, cfg *config.Config, userID primitive.ObjectID) string {
	var user models.User
	if err := cfg.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return ""
	}
	if user.DisplayName != "" {
		return user.DisplayName
	}
	return strings.SplitN(user.Email, "@", 2)[0]
}

// ---------------- CREATE ----------------
func CreateDiscussion(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")
		userID, err := primitive.ObjectIDFromHex(uid)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}

		var input struct {
			Title    string `json:"title" binding:"required"`
			Content  string `json:"content" binding:"required"`
			Category string `json:"category"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		name := displayNameFor(ctx, cfg, userID)
		if name == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}

		now := time.Now()
		discussion := models.Discussion{
			ID:              primitive.NewObjectID(),
			UserID:          userID,
			UserDisplayName: name,
			Title:           input.Title,
			Content:         utils.SanitizeHTML(input.Content),
			Category:        input.Category,
			Comments:        []models.Comment{},
			LikesCount:      0,
			ViewsCount:      0,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		if _, err := cfg.Collection("discussions").InsertOne(ctx, discussion); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create discussion"})
			return
		}

		c.JSON(http.StatusCreated, discussion)
	}
}

// ---------------- LIST ----------------
func ListDiscussions(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		col := cfg.Collection("discussions")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// --- Build filter ---
		filter := bson.M{}
		if category := c.Query("category"); category != "" {
			filter["category"] = category
		}
		if q := c.Query("q"); q != "" {
			filter["title"] = bson.M{"$regex": q, "$options": "i"}
		}

		sortField := "created_at"
		if c.Query("sort") == "popular" {
			sortField = "likes_count"
		}
		findOpts := options.Find().SetSort(bson.D{{Key: sortField, Value: -1}})
		if limit := c.Query("limit"); limit != "" {
			if n, err := parsePositiveInt(limit); err == nil {
				findOpts.SetLimit(int64(n))
			}
		}

		cursor, err := col.Find(ctx, filter, findOpts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch discussions"})
			return
		}

		var discussions []models.Discussion
		if err := cursor.All(ctx, &discussions); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode discussions"})
			return
		}

		if len(discussions) == 0 {
			c.JSON(http.StatusOK, []models.Discussion{})
			return
		}

		c.JSON(http.StatusOK, discussions)
	}
}

// ---------------- GET ----------------
// Reading a discussion bumps its view counter in the same call.
func GetDiscussion(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid discussion id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var discussion models.Discussion
		err = cfg.Collection("discussions").FindOneAndUpdate(
			ctx,
			bson.M{"_id": oid},
			bson.M{"$inc": bson.M{"views_count": 1}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&discussion)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "discussion not found"})
			return
		}

		c.JSON(http.StatusOK, discussion)
	}
}

// commentID prefers the client-supplied idempotency id so a retried
// request produces the same comment id as the original attempt.
func commentID(clientID string) string {
	if clientID != "" {
		return clientID
	}
	return uuid.NewString()
}

// commentPushFilter only matches while the comment id is absent, making
// the append idempotent under retries.
func commentPushFilter(discussionID primitive.ObjectID, commentID string) bson.M {
	return bson.M{
		"_id":         discussionID,
		"comments.id": bson.M{"$ne": commentID},
	}
}

// ---------------- ADD COMMENT ----------------
func AddComment(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")
		userID, err := primitive.ObjectIDFromHex(uid)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}

		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid discussion id"})
			return
		}

		var input struct {
			Content string `json:"content" binding:"required"`
			// Optional idempotency id; a client retry resending the same
			// id maps onto the already-applied comment instead of a
			// duplicate.
			ClientID string `json:"client_id"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if len(input.ClientID) > 64 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "client_id too long"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		name := displayNameFor(ctx, cfg, userID)
		if name == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}

		comment := models.Comment{
			ID:              commentID(input.ClientID),
			UserID:          userID,
			UserDisplayName: name,
			Content:         utils.SanitizeHTML(input.Content),
			CreatedAt:       time.Now(),
		}

		col := cfg.Collection("discussions")
		res, err := col.UpdateOne(
			ctx,
			commentPushFilter(oid, comment.ID),
			bson.M{
				"$push": bson.M{"comments": comment},
				"$set":  bson.M{"updated_at": comment.CreatedAt},
			},
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not post comment"})
			return
		}
		if res.MatchedCount == 0 {
			var discussion models.Discussion
			if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&discussion); err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "discussion not found"})
				return
			}
			// The id is already in the thread: this is a retry, answer
			// with the comment that made it in.
			for _, existing := range discussion.Comments {
				if existing.ID == comment.ID {
					c.JSON(http.StatusOK, existing)
					return
				}
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not post comment"})
			return
		}

		c.JSON(http.StatusCreated, comment)
	}
}

// ---------------- LIKE ----------------
func LikeDiscussion(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid discussion id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := cfg.Collection("discussions").UpdateOne(
			ctx,
			bson.M{"_id": oid},
			bson.M{"$inc": bson.M{"likes_count": 1}},
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not like discussion"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "discussion not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "discussion liked", "id": oid.Hex()})
	}
}

// ---------------- DELETE ----------------
func DeleteDiscussion(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		requesterID := c.GetString("user_id")
		if requesterID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid discussion id"})
			return
		}

		col := cfg.Collection("discussions")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var existing models.Discussion
		if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "discussion not found"})
			return
		}

		if role != models.RoleAdmin && existing.UserID.Hex() != requesterID {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}

		res, err := col.DeleteOne(ctx, bson.M{"_id": oid})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete discussion"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "discussion not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "discussion deleted", "id": oid.Hex()})
	}
}
