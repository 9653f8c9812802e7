package common

import (
	"context"
	"fmt"
	"time"

	"mepapp/calltrack/internal/config"
	"mepapp/calltrack/internal/logging"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to the configured Redis and pings it once.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	logging.Info("Initializing Redis client", "addr", cfg.Addr(), "db", cfg.DB)

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logging.Info("Connected to Redis", "addr", cfg.Addr())
	return client, nil
}

// NewStaffCache returns a Redis-backed cache when Redis is configured and
// reachable, and an in-memory cache otherwise.
func NewStaffCache(redisCfg config.RedisConfig, cacheCfg config.CacheConfig) CacheInterface {
	if redisCfg.Enabled() {
		client, err := NewRedisClient(redisCfg)
		if err == nil {
			return NewRedisCacheService(client)
		}
		logging.Warn("Redis unavailable, falling back to in-memory cache", "error", err.Error())
	}
	return NewCacheService(cacheCfg.StaffTTL, cacheCfg.CleanupInterval)
}
