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

// ---------------- CREATE ----------------
func CreatePost(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		// --- Bind form fields ---
		var input struct {
			Title     string `form:"title" binding:"required"`
			Summary   string `form:"summary"`
			Content   string `form:"content" binding:"required"`
			Category  string `form:"category"`
			Author    string `form:"author" binding:"required"`
			Featured  bool   `form:"featured"`
			Published bool   `form:"published"`
		}

		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// --- Handle header image upload ---
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
				url, err := utils.UploadPostImage(file)
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

		// --- Save post ---
		now := time.Now()
		post := models.Post{
			ID:        primitive.NewObjectID(),
			Title:     input.Title,
			Summary:   input.Summary,
			Content:   utils.SanitizeHTML(input.Content),
			Category:  input.Category,
			ImageURL:  imageURL,
			Featured:  input.Featured,
			Published: input.Published,
			Author:    input.Author,
			CreatedAt: now,
			UpdatedAt: now,
		}

		col := cfg.Collection("posts")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := col.InsertOne(ctx, post); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create post"})
			return
		}

		c.JSON(http.StatusCreated, post)
	}
}

// postListFilter builds the list filter. publishedOnly pins the public
// blog to published posts; the admin listing sees drafts too.
func postListFilter(publishedOnly bool, category, featured, q string) bson.M {
	filter := bson.M{}
	if publishedOnly {
		filter["published"] = true
	}
	if category != "" {
		filter["category"] = category
	}
	if featured == "true" {
		filter["featured"] = true
	}
	if q != "" {
		filter["title"] = bson.M{"$regex": q, "$options": "i"}
	}
	return filter
}

func fetchPosts(c *gin.Context, cfg *config.Config, publishedOnly bool) {
	col := cfg.Collection("posts")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := postListFilter(publishedOnly, c.Query("category"), c.Query("featured"), c.Query("q"))

	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit := c.Query("limit"); limit != "" {
		if n, err := parsePositiveInt(limit); err == nil {
			findOpts.SetLimit(int64(n))
		}
	}

	cursor, err := col.Find(ctx, filter, findOpts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch posts"})
		return
	}

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode posts"})
		return
	}

	if len(posts) == 0 {
		c.JSON(http.StatusOK, []models.Post{})
		return
	}

	// --- Conditional GET over the whole result set ---
	latest := posts[0]
	ids := make([]primitive.ObjectID, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
		if p.UpdatedAt.After(latest.UpdatedAt) {
			latest = p
		}
	}

	etag := utils.GenerateListETag(ids, latest.UpdatedAt)
	if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Header("ETag", etag)
	c.Header("Last-Modified", latest.UpdatedAt.UTC().Format(http.TimeFormat))

	c.JSON(http.StatusOK, posts)
}

// ---------------- LIST (public) ----------------
// Only published posts are visible on the public blog.
func ListPosts(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		fetchPosts(c, cfg, true)
	}
}

// ---------------- LIST (admin) ----------------
// Admins see drafts too.
func ListAllPosts(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		fetchPosts(c, cfg, false)
	}
}

// ---------------- GET ----------------
func GetPost(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		postID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
			return
		}

		var post models.Post
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err = cfg.Collection("posts").
			FindOne(ctx, bson.M{"_id": postID}).
			Decode(&post)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}

		// Drafts are invisible to everyone but admins.
		if !post.Published && c.GetString("role") != models.RoleAdmin {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}

		etag := utils.GenerateETag(post.ID, post.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)

		c.JSON(http.StatusOK, post)
	}
}

// ---------------- UPDATE ----------------
func UpdatePost(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		objID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
			return
		}

		col := cfg.Collection("posts")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var existing models.Post
		if err := col.FindOne(ctx, bson.M{"_id": objID}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}

		// --- Bind input (form-data for mixed text + file upload) ---
		var input struct {
			Title     string `form:"title"`
			Summary   string `form:"summary"`
			Content   string `form:"content"`
			Category  string `form:"category"`
			Author    string `form:"author"`
			Featured  *bool  `form:"featured"`
			Published *bool  `form:"published"`
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
		if input.Summary != "" {
			update["summary"] = input.Summary
		}
		if input.Content != "" {
			update["content"] = utils.SanitizeHTML(input.Content)
		}
		if input.Category != "" {
			update["category"] = input.Category
		}
		if input.Author != "" {
			update["author"] = input.Author
		}
		if input.Featured != nil {
			update["featured"] = *input.Featured
		}
		if input.Published != nil {
			update["published"] = *input.Published
		}

		// --- Replace header image when a new one is uploaded ---
		form, _ := c.MultipartForm()
		if form != nil {
			if files := form.File["image"]; len(files) > 0 {
				file, err := files[0].Open()
				if err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open image"})
					return
				}
				url, err := utils.UploadPostImage(file)
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
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update post"})
			return
		}

		var updated models.Post
		if err := col.FindOne(ctx, bson.M{"_id": objID}).Decode(&updated); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve updated post"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "post updated successfully",
			"post":    updated,
		})
	}
}

// ---------------- DELETE ----------------
func DeletePost(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
			return
		}

		col := cfg.Collection("posts")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var existing models.Post
		if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}

		res, err := col.DeleteOne(ctx, bson.M{"_id": oid})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete post"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}

		if existing.ImageURL != "" {
			utils.DeleteFromCloudinary(existing.ImageURL)
		}

		c.JSON(http.StatusOK, gin.H{"message": "post deleted successfully", "id": oid.Hex()})
	}
}
