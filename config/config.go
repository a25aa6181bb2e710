package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type Config struct {
	Port           string
	MongoURI       string
	DBName         string
	JWTSecret      string
	RefreshSecret  string
	AdminEmail     string
	GoogleClientID string
	AllowedOrigins []string

	MongoClient *mongo.Client
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	c := &Config{
		Port:           os.Getenv("PORT"),
		MongoURI:       os.Getenv("MONGO_URI"),
		DBName:         os.Getenv("DB_NAME"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		RefreshSecret:  os.Getenv("JWT_REFRESH_SECRET"),
		AdminEmail:     os.Getenv("ADMIN_EMAIL"),
		GoogleClientID: os.Getenv("GOOGLE_CLIENT_ID"),
	}

	if c.Port == "" {
		c.Port = "8080"
	}
	if c.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI is required")
	}
	if c.DBName == "" {
		c.DBName = "astroclub"
	}
	if c.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if c.RefreshSecret == "" {
		c.RefreshSecret = c.JWTSecret
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.AllowedOrigins = append(c.AllowedOrigins, o)
			}
		}
	}

	return c, nil
}

// ConnectMongo dials the cluster and verifies it answers before the
// server starts taking requests.
func (c *Config) ConnectMongo(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(c.MongoURI))
	if err != nil {
		return fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}

	// The unique index is what actually enforces one account per email;
	// the registration handler's pre-check only supplies the friendly 409.
	_, err = client.Database(c.DBName).Collection("users").Indexes().CreateOne(ctx, UserEmailIndex())
	if err != nil {
		return fmt.Errorf("users email index: %w", err)
	}

	c.MongoClient = client
	return nil
}

// UserEmailIndex enforces email uniqueness at the store level, closing
// the find-then-insert race between two concurrent registrations.
func UserEmailIndex() mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
}

// Collection is shorthand for the database collection handle the
// controllers use on every call.
func (c *Config) Collection(name string) *mongo.Collection {
	return c.MongoClient.Database(c.DBName).Collection(name)
}
