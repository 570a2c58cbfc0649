package database

import (
	"context"
	"time"

	"polyglot-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// InitRedis builds the cache client. A failed ping is returned alongside the
// client so the caller can log it and keep running: the cache is optional.
func InitRedis(config utils.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return client, client.Ping(pingCtx).Err()
}
