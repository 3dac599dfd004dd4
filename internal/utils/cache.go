package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"strconv"       // Version formatting
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// GetCache retrieves a value from Redis and unmarshals it into dest.
// A nil client behaves as a permanent cache miss.
func GetCache(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	if rdb == nil {
		return false, nil
	}
	val, err := rdb.Get(ctx, key).Result() // Get value from Redis
	if err == redis.Nil {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// SetCache sets a value in Redis with a specified TTL
func SetCache(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	if rdb == nil {
		return nil
	}
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}

// CacheVersion returns the current generation of a namespace; "0" when unset or unavailable
func CacheVersion(ctx context.Context, rdb *redis.Client, namespace string) string {
	if rdb == nil {
		return "0"
	}
	v, err := rdb.Get(ctx, namespace+":version").Int64()
	if err != nil {
		return "0"
	}
	return strconv.FormatInt(v, 10)
}

// BumpCacheVersion invalidates every key built from the namespace's previous version
func BumpCacheVersion(ctx context.Context, rdb *redis.Client, namespace string) error {
	if rdb == nil {
		return nil
	}
	return rdb.Incr(ctx, namespace+":version").Err()
}
