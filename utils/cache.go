// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"time"

	"imobil/config"

	"github.com/go-redis/redis/v8"
)

// OTPCacheClient backs pending codes and request counters.
var OTPCacheClient *redis.Client

// NewRedisClient connects to the configured Redis server on the given DB and pings it.
func NewRedisClient(db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         config.AppConfig.RedisAddr,
		Password:     config.AppConfig.RedisPassword,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis (db %d): %w", db, err)
	}
	return client, nil
}

// InitOTPCache initializes the Redis client used for OTP state.
func InitOTPCache() error {
	client, err := NewRedisClient(config.AppConfig.RedisOTPDB)
	if err != nil {
		return err
	}
	OTPCacheClient = client
	return nil
}

// GetOTPCacheClient returns the Redis client for OTP state.
func GetOTPCacheClient() *redis.Client {
	return OTPCacheClient
}
