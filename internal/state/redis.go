package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/username/datepicker-bot/internal/menu"
)

// RedisConfig contains configuration options for the Redis store
type RedisConfig struct {
	// Client is the Redis client instance
	Client *redis.Client

	// KeyPrefix is the prefix for all Redis keys
	// Default: "datepicker:state:"
	KeyPrefix string

	// TTL bounds how long an untouched keyboard keeps its state; zero keeps it forever
	TTL time.Duration
}

// RedisStore keeps one JSON value per message in Redis
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisStore creates a Redis-backed store
func NewRedisStore(config RedisConfig) (*RedisStore, error) {
	if config.Client == nil {
		return nil, fmt.Errorf("redis client is required")
	}

	if config.KeyPrefix == "" {
		config.KeyPrefix = "datepicker:state:"
	}

	return &RedisStore{
		client:    config.Client,
		keyPrefix: config.KeyPrefix,
		ttl:       config.TTL,
	}, nil
}

// Load returns the state stored under key; ok is false when there is none
func (r *RedisStore) Load(ctx context.Context, key string) (menu.State, bool, error) {
	if key == "" {
		return menu.State{}, false, ErrEmptyKey
	}

	val, err := r.client.Get(ctx, r.keyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return menu.State{}, false, nil
		}
		return menu.State{}, false, fmt.Errorf("failed to get key %s: %w", r.keyPrefix+key, err)
	}

	var s menu.State
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return menu.State{}, false, fmt.Errorf("failed to unmarshal stored state: %w", err)
	}
	return s, true, nil
}

// Save stores s under key, replacing any previous state
func (r *RedisStore) Save(ctx context.Context, key string, s menu.State) error {
	if key == "" {
		return ErrEmptyKey
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := r.client.Set(ctx, r.keyPrefix+key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", r.keyPrefix+key, err)
	}
	return nil
}

// Delete removes the state under key; a missing key is not an error
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", r.keyPrefix+key, err)
	}
	return nil
}

// Close closes the underlying client
func (r *RedisStore) Close() error {
	return r.client.Close()
}
