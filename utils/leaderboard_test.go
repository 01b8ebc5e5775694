package utils

import (
	"context"
	"testing"

	"learnhub/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupLeaderboardTest(t *testing.T) (*gorm.DB, *redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.PointsLedger{}))

	users := []models.User{
		{Name: "Alice", Email: "alice@example.com", Password: "x"},
		{Name: "Bob", Email: "bob@example.com", Password: "x"},
		{Name: "Cara", Email: "cara@example.com", Password: "x"},
	}
	require.NoError(t, db.Create(&users).Error)

	ledgers := []models.PointsLedger{
		{UserID: users[0].ID, TotalPoints: 12},
		{UserID: users[1].ID, TotalPoints: 30},
		{UserID: users[2].ID, TotalPoints: 7},
	}
	require.NoError(t, db.Create(&ledgers).Error)

	return db, rdb, mr
}

func TestGetLeaderboardOrdersAndCaches(t *testing.T) {
	db, rdb, mr := setupLeaderboardTest(t)

	entries, err := GetLeaderboard(db, rdb)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Bob", entries[0].Name)
	assert.Equal(t, 30, entries[0].TotalPoints)
	assert.Equal(t, "Cara", entries[2].Name)

	// the read populated the cache
	assert.True(t, mr.Exists(leaderboardKey))

	// a stale cache is served as-is until invalidated
	require.NoError(t, db.Model(&models.PointsLedger{}).
		Where("user_id = ?", entries[2].UserID).
		Update("total_points", 100).Error)

	cached, err := GetLeaderboard(db, rdb)
	require.NoError(t, err)
	assert.Equal(t, "Bob", cached[0].Name)

	InvalidateLeaderboard(rdb)
	fresh, err := GetLeaderboard(db, rdb)
	require.NoError(t, err)
	assert.Equal(t, "Cara", fresh[0].Name)
	assert.Equal(t, 100, fresh[0].TotalPoints)
}

func TestRefreshLeaderboardWritesCache(t *testing.T) {
	db, rdb, mr := setupLeaderboardTest(t)

	require.NoError(t, RefreshLeaderboard(db, rdb))
	require.True(t, mr.Exists(leaderboardKey))

	got, err := rdb.Get(context.Background(), leaderboardKey).Result()
	require.NoError(t, err)
	assert.Contains(t, got, "Bob")
}
