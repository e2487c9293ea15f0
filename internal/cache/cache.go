package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client is a thin JSON cache over redis. A nil *Client is valid and makes
// every operation a no-op, so callers never branch on whether caching is
// enabled.
type Client struct {
	redisdb *redis.Client
	ttl     time.Duration
}

type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

func New(cfg Config) *Client {
	if cfg.Addr == "" {
		return nil
	}

	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}

	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &Client{redisdb: redisdb, ttl: cfg.TTL}
}

func (c *Client) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.redisdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.redisdb.Close()
}

// GetJSON unmarshals the cached value into out. The bool reports a hit.
func (c *Client) GetJSON(ctx context.Context, key string, out interface{}) (bool, error) {
	if c == nil {
		return false, nil
	}

	raw, err := c.redisdb.Get(ctx, key).Bytes()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return false, err
	}

	return true, nil
}

func (c *Client) SetJSON(ctx context.Context, key string, val interface{}) error {
	if c == nil {
		return nil
	}

	raw, err := json.Marshal(val)

	if err != nil {
		return err
	}

	return c.redisdb.Set(ctx, key, raw, c.ttl).Err()
}

func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if c == nil || len(keys) == 0 {
		return nil
	}

	return c.redisdb.Del(ctx, keys...).Err()
}
