package utils

import (
	"log"
	"time"

	"learnhub/cache"
	"learnhub/database"

	"github.com/robfig/cron/v3"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[LEADERBOARD-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// InitializeSchedulers starts the background cron jobs and returns the
// scheduler so the caller owns its lifecycle
func InitializeSchedulers() *cron.Cron {
	c := cron.New()

	// Refresh the points leaderboard cache every 5 minutes
	if _, err := c.AddFunc("*/5 * * * *", func() {
		if err := RefreshLeaderboard(database.Database.Db, cache.Client); err != nil {
			logScheduler("Refresh failed: " + err.Error())
			return
		}
		logScheduler("Leaderboard cache refreshed")
	}); err != nil {
		log.Fatalf("Failed to register leaderboard job: %v", err)
	}

	// Expire stale course invitations hourly
	if _, err := c.AddFunc("0 * * * *", func() {
		res := database.Database.Db.Table("course_invitations").
			Where("status = ? AND expires_at < ? AND is_deleted = ?", "PENDING", time.Now(), false).
			Update("status", "EXPIRED")
		if res.Error != nil {
			logScheduler("Invitation expiry sweep failed: " + res.Error.Error())
			return
		}
		if res.RowsAffected > 0 {
			logScheduler("Expired invitations: " + time.Now().Format(time.RFC3339))
		}
	}); err != nil {
		log.Fatalf("Failed to register invitation expiry job: %v", err)
	}

	c.Start()
	return c
}
