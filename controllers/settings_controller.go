package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/orionsociety/astroclub-backend/config"
	models "github.com/orionsociety/astroclub-backend/models"
)

// ---------------- GET ----------------
// Public read of the singleton settings document; defaults before an
// admin has ever saved.
func GetSettings(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var settings models.SiteSettings
		err := cfg.Collection("site_settings").
			FindOne(ctx, bson.M{"_id": models.SiteSettingsID}).
			Decode(&settings)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusOK, models.DefaultSiteSettings())
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch settings"})
			return
		}

		c.JSON(http.StatusOK, settings)
	}
}

// ---------------- UPDATE (admin) ----------------
func UpdateSettings(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			General  models.GeneralSettings  `json:"general"`
			Social   models.SocialSettings   `json:"social"`
			Featured models.FeaturedSettings `json:"featured"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		settings := models.SiteSettings{
			ID:        models.SiteSettingsID,
			General:   input.General,
			Social:    input.Social,
			Featured:  input.Featured,
			UpdatedAt: time.Now(),
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_, err := cfg.Collection("site_settings").ReplaceOne(
			ctx,
			bson.M{"_id": models.SiteSettingsID},
			settings,
			options.Replace().SetUpsert(true),
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save settings"})
			return
		}

		c.JSON(http.StatusOK, settings)
	}
}
