package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"travelkang/config"
)

// NewRedisClient connects and pings once so a bad address fails at boot.
func NewRedisClient(cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}
