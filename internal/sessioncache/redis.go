package sessioncache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yshchur/contacts-api/internal/models"
)

type RedisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client, prefix: "session:"}
}

// Connect parses the redis URL, opens a client, and verifies it with a ping.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func (c *RedisCache) key(jti string) string {
	return c.prefix + jti
}

func (c *RedisCache) Lookup(ctx context.Context, jti string) (*models.Identity, error) {
	val, err := c.client.Get(ctx, c.key(jti)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	identity := &models.Identity{}
	if err := json.Unmarshal([]byte(val), identity); err != nil {
		return nil, fmt.Errorf("sessioncache: unmarshal: %w", err)
	}
	return identity, nil
}

func (c *RedisCache) Store(ctx context.Context, jti string, identity *models.Identity, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("sessioncache: marshal: %w", err)
	}
	return c.client.Set(ctx, c.key(jti), data, ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context, jti string) error {
	return c.client.Del(ctx, c.key(jti)).Err()
}
