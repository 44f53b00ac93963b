package redis_utils

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"autobooks/src/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrKeyNotFound = errors.New("key does not exist")

// RedisHandler encapsulates the Redis client and provides utility methods.
type RedisHandler struct {
	client *redis.Client
	prefix string
}

// NewRedisHandler connects to the configured Redis. Keys are namespaced under prefix.
func NewRedisHandler(ctx context.Context, cfg config.RedisConfig, prefix string) (*RedisHandler, error) {
	opts := &redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.Database,
	}
	if cfg.TLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}
	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisHandler{client: client, prefix: prefix}, nil
}

func (r *RedisHandler) key(k string) string {
	return r.prefix + k
}

// Set stores a JSON encoded value in Redis with an optional expiration.
func (r *RedisHandler) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to serialize value: %w", err)
	}
	return r.client.Set(ctx, r.key(key), data, expiration).Err()
}

// Get retrieves and deserializes the value of a key into result.
// It returns ErrKeyNotFound when the key is absent.
func (r *RedisHandler) Get(ctx context.Context, key string, result interface{}) error {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	} else if err != nil {
		return fmt.Errorf("failed to get key: %w", err)
	}

	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("failed to deserialize value: %w", err)
	}
	return nil
}

func (r *RedisHandler) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

// GenerateUUID derives a deterministic UUID (version 5) from the inputs.
// The worker uses it as the lock key of a depreciation period.
func GenerateUUID(inputs ...string) string {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	combined := ""
	for _, input := range inputs {
		combined += input + "|"
	}
	return uuid.NewSHA1(namespace, []byte(combined)).String()
}

// AcquireLock sets key if absent, returning false when another holder owns it.
func (r *RedisHandler) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return r.client.SetNX(ctx, r.key(key), time.Now().UTC().Format(time.RFC3339), ttl).Result()
}

func (r *RedisHandler) Close() error {
	return r.client.Close()
}
