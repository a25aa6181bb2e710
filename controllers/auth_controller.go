package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	config "github.com/orionsociety/astroclub-backend/config"
	models "github.com/orionsociety/astroclub-backend/models"
	utils "github.com/orionsociety/astroclub-backend/utils"
)

func issueTokens(cfg *config.Config, user *models.User) (gin.H, error) {
	access, err := utils.GenerateAccessToken(cfg.JWTSecret, user.ID.Hex(), user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := utils.GenerateRefreshToken(cfg.RefreshSecret, user.ID.Hex(), user.Role)
	if err != nil {
		return nil, err
	}
	return gin.H{
		"access_token":  access,
		"refresh_token": refresh,
		"user":          user,
	}, nil
}

// ---------------- REGISTER ----------------
func Register(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Name            string `json:"name" binding:"required"`
			Email           string `json:"email" binding:"required,email"`
			Password        string `json:"password" binding:"required,min=8"`
			ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		email := strings.ToLower(strings.TrimSpace(input.Email))

		col := cfg.Collection("users")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		// --- Reject duplicate email ---
		var existing models.User
		err := col.FindOne(ctx, bson.M{"email": email}).Decode(&existing)
		if err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "an account with this email already exists"})
			return
		}
		if err != mongo.ErrNoDocuments {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not check existing accounts"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
			return
		}

		user := models.User{
			ID:           primitive.NewObjectID(),
			DisplayName:  strings.TrimSpace(input.Name),
			Email:        email,
			PasswordHash: string(hash),
			Role:         models.RoleUser,
			CreatedAt:    time.Now(),
		}

		if _, err := col.InsertOne(ctx, user); err != nil {
			// The unique email index catches the race the pre-check cannot.
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "an account with this email already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create account"})
			return
		}

		resp, err := issueTokens(cfg, &user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue tokens"})
			return
		}
		c.JSON(http.StatusCreated, resp)
	}
}

// ---------------- LOGIN ----------------
func Login(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		email := strings.ToLower(strings.TrimSpace(input.Email))

		var user models.User
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := cfg.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}

		resp, err := issueTokens(cfg, &user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue tokens"})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// ---------------- GOOGLE LOGIN ----------------
func GoogleLogin(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			IDToken string `json:"id_token" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		info, err := utils.VerifyGoogleIDToken(c.Request.Context(), input.IDToken, cfg.GoogleClientID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "google sign-in failed"})
			return
		}

		col := cfg.Collection("users")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		email := strings.ToLower(info.Email)

		var user models.User
		err = col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
		if err == mongo.ErrNoDocuments {
			// First sign-in creates the account from the token claims.
			user = models.User{
				ID:          primitive.NewObjectID(),
				DisplayName: info.Name,
				Email:       email,
				PhotoURL:    info.Picture,
				Role:        models.RoleUser,
				CreatedAt:   time.Now(),
			}
			if user.DisplayName == "" {
				user.DisplayName = strings.SplitN(email, "@", 2)[0]
			}
			if _, err := col.InsertOne(ctx, user); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create account"})
				return
			}
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not look up account"})
			return
		}

		resp, err := issueTokens(cfg, &user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue tokens"})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// ---------------- REFRESH ----------------
func RefreshToken(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			RefreshToken string `json:"refresh_token" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		claims, err := utils.ParseToken(cfg.RefreshSecret, input.RefreshToken, "refresh")
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}

		// Re-read the user so a role change takes effect on refresh.
		var user models.User
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := cfg.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "account no longer exists"})
			return
		}

		resp, err := issueTokens(cfg, &user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue tokens"})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// ---------------- ME ----------------
func Me(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")
		userID, err := primitive.ObjectIDFromHex(uid)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}

		var user models.User
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := cfg.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		c.JSON(http.StatusOK, user)
	}
}
