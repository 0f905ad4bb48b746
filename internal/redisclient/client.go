package redisclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewClient creates a new Redis client. ttl applies to cached records.
func NewClient(addr, password string, db int, ttl time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb, ttl: ttl}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping checks the Redis connection
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// RecordKey returns the cache key for a record, e.g. "product:<id>".
func RecordKey(model, id string) string {
	return fmt.Sprintf("%s:%s", strings.ToLower(model), id)
}

// GetRecord loads a cached record into dest. The boolean is false on a miss.
func (c *Client) GetRecord(ctx context.Context, model, id string, dest interface{}) (bool, error) {
	data, err := c.rdb.Get(ctx, RecordKey(model, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decode cached %s %s: %w", model, id, err)
	}
	return true, nil
}

// SetRecord caches a record for the configured TTL
func (c *Client) SetRecord(ctx context.Context, model, id string, record interface{}) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode %s %s: %w", model, id, err)
	}
	return c.rdb.Set(ctx, RecordKey(model, id), data, c.ttl).Err()
}

// InvalidateRecord removes a cached record
func (c *Client) InvalidateRecord(ctx context.Context, model, id string) error {
	return c.rdb.Del(ctx, RecordKey(model, id)).Err()
}

// SetIdempotencyKey stores value under key unless the key already exists.
// It reports whether the key was stored.
func (c *Client) SetIdempotencyKey(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, fmt.Sprintf("idempotency:%s", key), value, ttl).Result()
}

// GetIdempotencyKey returns the value stored for key, if any
func (c *Client) GetIdempotencyKey(ctx context.Context, key string) (string, bool, error) {
	val, err := c.rdb.Get(ctx, fmt.Sprintf("idempotency:%s", key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}
