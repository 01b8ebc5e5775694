package cache

import (
	"context"
	"log"

	"learnhub/config"

	"github.com/redis/go-redis/v9"
)

// Client is the global redis client
var Client *redis.Client

// ConnectRedis establishes the redis connection used for leaderboard caching
func ConnectRedis() {
	Client = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       0,
	})

	if err := Client.Ping(context.Background()).Err(); err != nil {
		log.Printf("Warning: redis not reachable at %s: %v", config.AppConfig.RedisAddr, err)
	}
}
