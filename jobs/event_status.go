package jobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"

	config "github.com/orionsociety/astroclub-backend/config"
	models "github.com/orionsociety/astroclub-backend/models"
)

// How long after its start time an ongoing event is considered finished.
const eventDuration = 6 * time.Hour

// StartEventStatusRefresher advances event statuses on a schedule so the
// calendar stays honest without anyone clicking through the admin panel:
// upcoming events whose date has arrived become ongoing, ongoing events
// past their window become completed. Cancelled events are never touched.
func StartEventStatusRefresher(cfg *config.Config) *cron.Cron {
	c := cron.New()
	c.AddFunc("@every 10m", func() {
		RefreshEventStatuses(cfg)
	})
	c.Start()
	return c
}

func RefreshEventStatuses(cfg *config.Config) {
	col := cfg.Collection("events")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now()

	res, err := col.UpdateMany(ctx,
		bson.M{"status": models.EventUpcoming, "date": bson.M{"$lte": now}},
		bson.M{"$set": bson.M{"status": models.EventOngoing, "updated_at": now}},
	)
	if err != nil {
		log.Printf("event status refresh (upcoming->ongoing) failed: %v", err)
	} else if res.ModifiedCount > 0 {
		log.Printf("marked %d event(s) ongoing", res.ModifiedCount)
	}

	res, err = col.UpdateMany(ctx,
		bson.M{"status": models.EventOngoing, "date": bson.M{"$lte": now.Add(-eventDuration)}},
		bson.M{"$set": bson.M{"status": models.EventCompleted, "updated_at": now}},
	)
	if err != nil {
		log.Printf("event status refresh (ongoing->completed) failed: %v", err)
	} else if res.ModifiedCount > 0 {
		log.Printf("marked %d event(s) completed", res.ModifiedCount)
	}
}
