// Package cache initializes the shared Redis client.
package cache

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect dials Redis at the given address. Returns nil when Redis is
// unreachable; callers fail open without it.
func Connect(addr string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis connection warning: %v (continuing without cache)", err)
		return nil
	}
	log.Println("Redis connected successfully")
	return client
}
