package controllers

import (
	"context"
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

// parseEventDate accepts RFC3339 plus the date-only and date-time forms
// the admin UI sends.
func parseEventDate(raw string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		layouts := []string{"2006-01-02", "2006-01-02 15:04", "2006-01-02 15:04:05"}
		for _, layout := range layouts {
			if t, e := time.Parse(layout, raw); e == nil {
				return t, nil
			}
		}
		return time.Time{}, err
	}
	return parsed, nil
}

// ---------------- CREATE ----------------
func CreateEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		// --- Bind form fields ---
		var input struct {
			Title       string `form:"title" binding:"required"`
			Description string `form:"description"`
			Date        string `form:"date" binding:"required"`
			Location    string `form:"location"`
			Category    string `form:"category"`
			Status      string `form:"status"`
			Capacity    int    `form:"capacity"`
		}

		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		date, err := parseEventDate(input.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, use RFC3339 or YYYY-MM-DD"})
			return
		}

		status := input.Status
		if status == "" {
			status = models.EventUpcoming
		}
		if !models.ValidEventStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event status"})
			return
		}
		if input.Capacity < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "capacity cannot be negative"})
			return
		}

		// --- Handle cover image upload ---
		var imageURL string
		form, err := c.MultipartForm()
		if err != nil && err != http.ErrNotMultipart {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data"})
			return
		}
		if form != nil {
			if files := form.File["image"]; len(files) > 0 {
				file, err := files[0].Open()
				if err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open file"})
					return
				}
				url, err := utils.UploadEventImage(file)
				file.Close()
				if err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{
						"error":   "image upload failed",
						"details": err.Error(),
						"file":    files[0].Filename,
					})
					return
				}
				imageURL = url
			}
		}

		// --- Save event ---
		now := time.Now()
		event := models.Event{
			ID:              primitive.NewObjectID(),
			Title:           input.Title,
			Description:     input.Description,
			Date:            date,
			Location:        input.Location,
			Category:        input.Category,
			Status:          status,
			Capacity:        input.Capacity,
			RegisteredCount: 0,
			RegisteredUsers: []primitive.ObjectID{},
			ImageURL:        imageURL,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		col := cfg.Collection("events")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := col.InsertOne(ctx, event); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create event"})
			return
		}

		c.JSON(http.StatusCreated, event)
	}
}

// ---------------- LIST ----------------
func ListEvents(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		col := cfg.Collection("events")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// --- Build filter ---
		filter := bson.M{}
		if status := c.Query("status"); status != "" {
			filter["status"] = status
		}
		if category := c.Query("category"); category != "" {
			filter["category"] = category
		}
		if q := c.Query("q"); q != "" {
			filter["title"] = bson.M{"$regex": q, "$options": "i"}
		}

		findOpts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
		if limit := c.Query("limit"); limit != "" {
			if n, err := parsePositiveInt(limit); err == nil {
				findOpts.SetLimit(int64(n))
			}
		}

		// --- Fetch data ---
		cursor, err := col.Find(ctx, filter, findOpts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch events"})
			return
		}

		var events []models.Event
		if err := cursor.All(ctx, &events); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode events"})
			return
		}

		if len(events) == 0 {
			c.JSON(http.StatusOK, []models.Event{})
			return
		}

		// --- Pick the most recently updated event ---
		latest := events[0]
		ids := make([]primitive.ObjectID, 0, len(events))
		for _, ev := range events {
			ids = append(ids, ev.ID)
			if ev.UpdatedAt.After(latest.UpdatedAt) {
				latest = ev
			}
		}

		// --- Conditional GET over the whole result set ---
		etag := utils.GenerateListETag(ids, latest.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)
		c.Header("Last-Modified", latest.UpdatedAt.UTC().Format(http.TimeFormat))

		c.JSON(http.StatusOK, events)
	}
}

// ---------------- GET ----------------
func GetEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
			return
		}

		var event models.Event
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err = cfg.Collection("events").
			FindOne(ctx, bson.M{"_id": eventID}).
			Decode(&event)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}

		etag := utils.GenerateETag(event.ID, event.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)

		c.JSON(http.StatusOK, event)
	}
}

// ---------------- UPDATE ----------------
func UpdateEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		objID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
			return
		}

		col := cfg.Collection("events")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var existing models.Event
		if err := col.FindOne(ctx, bson.M{"_id": objID}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}

		// --- Bind input (form-data for mixed text + file upload) ---
		var input struct {
			Title       string `form:"title"`
			Description string `form:"description"`
			Date        string `form:"date"`
			Location    string `form:"location"`
			Category    string `form:"category"`
			Status      string `form:"status"`
			Capacity    *int   `form:"capacity"`
		}

		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// --- Prepare update document ---
		update := bson.M{"updated_at": time.Now()}

		if input.Title != "" {
			update["title"] = input.Title
		}
		if input.Description != "" {
			update["description"] = input.Description
		}
		if input.Location != "" {
			update["location"] = input.Location
		}
		if input.Category != "" {
			update["category"] = input.Category
		}
		if input.Status != "" {
			if !models.ValidEventStatus(input.Status) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event status"})
				return
			}
			update["status"] = input.Status
		}
		if input.Capacity != nil {
			if *input.Capacity < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "capacity cannot be negative"})
				return
			}
			update["capacity"] = *input.Capacity
		}
		if input.Date != "" {
			date, err := parseEventDate(input.Date)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, use RFC3339 or YYYY-MM-DD"})
				return
			}
			update["date"] = date
		}

		// --- Replace cover image when a new one is uploaded ---
		form, _ := c.MultipartForm()
		if form != nil {
			if files := form.File["image"]; len(files) > 0 {
				file, err := files[0].Open()
				if err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open image"})
					return
				}
				url, err := utils.UploadEventImage(file)
				file.Close()
				if err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "image upload failed", "details": err.Error()})
					return
				}
				update["image_url"] = url
				if existing.ImageURL != "" {
					utils.DeleteFromCloudinary(existing.ImageURL)
				}
			}
		}

		if len(update) == 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		if _, err := col.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update event"})
			return
		}

		var updated models.Event
		if err := col.FindOne(ctx, bson.M{"_id": objID}).Decode(&updated); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve updated event"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "event updated successfully",
			"event":   updated,
		})
	}
}

// ---------------- DELETE ----------------
func DeleteEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
			return
		}

		col := cfg.Collection("events")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var existing models.Event
		if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}

		res, err := col.DeleteOne(ctx, bson.M{"_id": oid})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete event"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}

		// Blob cleanup is best-effort; the document is already gone.
		if existing.ImageURL != "" {
			utils.DeleteFromCloudinary(existing.ImageURL)
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "event deleted successfully",
			"id":      oid.Hex(),
		})
	}
}

// registrationFilter matches the event only while this registration can
// still succeed: upcoming, caller not yet registered, and a seat left
// (capacity 0 means unlimited). Together with registrationUpdate this
// makes the whole admission decision one document-level operation, so
// two racing registrations cannot both slip past a stale count and a
// double-click matches zero documents the second time.
func registrationFilter(eventID, userID primitive.ObjectID) bson.M {
	return bson.M{
		"_id":              eventID,
		"status":           models.EventUpcoming,
		"registered_users": bson.M{"$ne": userID},
		"$or": bson.A{
			bson.M{"capacity": bson.M{"$lte": 0}},
			bson.M{"$expr": bson.M{"$lt": bson.A{"$registered_count", "$capacity"}}},
		},
	}
}

// registrationUpdate moves the membership array and the counter in the
// same update document; they can never diverge.
func registrationUpdate(userID primitive.ObjectID, now time.Time) bson.M {
	return bson.M{
		"$addToSet": bson.M{"registered_users": userID},
		"$inc":      bson.M{"registered_count": 1},
		"$set":      bson.M{"updated_at": now},
	}
}

// registrationFailure inspects the event's current state to explain why
// the conditional update matched nothing.
func registrationFailure(event *models.Event, userID primitive.ObjectID) (int, string) {
	for _, registered := range event.RegisteredUsers {
		if registered == userID {
			return http.StatusConflict, "already registered for this event"
		}
	}
	if event.Status != models.EventUpcoming {
		return http.StatusBadRequest, "registration is closed for this event"
	}
	return http.StatusBadRequest, "event is full"
}

// ---------------- REGISTER ----------------
func RegisterForEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")
		userID, err := primitive.ObjectIDFromHex(uid)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}

		eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
			return
		}

		col := cfg.Collection("events")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := col.UpdateOne(ctx, registrationFilter(eventID, userID), registrationUpdate(userID, time.Now()))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not register for event"})
			return
		}

		if res.ModifiedCount == 0 {
			// Re-read to tell the caller which precondition failed.
			var event models.Event
			if err := col.FindOne(ctx, bson.M{"_id": eventID}).Decode(&event); err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
				return
			}
			code, msg := registrationFailure(&event, userID)
			c.JSON(code, gin.H{"error": msg})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "registered for event",
			"id":      eventID.Hex(),
		})
	}
}

// ---------------- UNREGISTER ----------------
func UnregisterFromEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")
		userID, err := primitive.ObjectIDFromHex(uid)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}

		eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
			return
		}

		col := cfg.Collection("events")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		// Mirror of registration: only a current member can leave, and the
		// counter moves in the same update as the array.
		filter := bson.M{
			"_id":              eventID,
			"registered_users": userID,
		}
		change := bson.M{
			"$pull": bson.M{"registered_users": userID},
			"$inc":  bson.M{"registered_count": -1},
			"$set":  bson.M{"updated_at": time.Now()},
		}

		res, err := col.UpdateOne(ctx, filter, change)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not cancel registration"})
			return
		}
		if res.ModifiedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "not registered for this event"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "registration cancelled",
			"id":      eventID.Hex(),
		})
	}
}
