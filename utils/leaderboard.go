package utils

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	leaderboardKey = "leaderboard:points"
	leaderboardTTL = 10 * time.Minute
	leaderboardTop = 20
)

// LeaderboardEntry is one row of the points leaderboard
type LeaderboardEntry struct {
	UserID      uint   `json:"user_id"`
	Name        string `json:"name"`
	TotalPoints int    `json:"total_points"`
}

// RefreshLeaderboard recomputes the top learners by total points and caches
// the result in redis
func RefreshLeaderboard(db *gorm.DB, rdb *redis.Client) error {
	entries, err := queryLeaderboard(db)
	if err != nil {
		return err
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return rdb.Set(context.Background(), leaderboardKey, data, leaderboardTTL).Err()
}

// GetLeaderboard returns the cached leaderboard, falling back to the database
// (and repopulating the cache) on a miss
func GetLeaderboard(db *gorm.DB, rdb *redis.Client) ([]LeaderboardEntry, error) {
	ctx := context.Background()

	data, err := rdb.Get(ctx, leaderboardKey).Result()
	if err == nil {
		var entries []LeaderboardEntry
		if err := json.Unmarshal([]byte(data), &entries); err == nil {
			return entries, nil
		}
	} else if err != redis.Nil {
		log.Printf("Leaderboard cache read failed: %v", err)
	}

	entries, err := queryLeaderboard(db)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(entries); err == nil {
		if err := rdb.Set(ctx, leaderboardKey, payload, leaderboardTTL).Err(); err != nil {
			log.Printf("Leaderboard cache write failed: %v", err)
		}
	}
	return entries, nil
}

// InvalidateLeaderboard drops the cached leaderboard, forcing the next read
// to hit the database. Called after a points award.
func InvalidateLeaderboard(rdb *redis.Client) {
	if err := rdb.Del(context.Background(), leaderboardKey).Err(); err != nil {
		log.Printf("Leaderboard cache invalidation failed: %v", err)
	}
}

func queryLeaderboard(db *gorm.DB) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry
	err := db.Table("points_ledgers").
		Select("points_ledgers.user_id, users.name, points_ledgers.total_points").
		Joins("JOIN users ON users.id = points_ledgers.user_id").
		Where("points_ledgers.is_deleted = ? AND users.is_deleted = ?", false, false).
		Order("points_ledgers.total_points desc").
		Limit(leaderboardTop).
		Scan(&entries).Error
	return entries, err
}
