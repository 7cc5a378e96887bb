package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisMedium keeps values as plain Redis strings.
type RedisMedium struct {
	client *redis.Client
}

// NewRedisMedium connects using a redis:// URL and pings the server.
func NewRedisMedium(ctx context.Context, redisURL string) (*RedisMedium, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisMedium{client: client}, nil
}

func (m *RedisMedium) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := m.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

func (m *RedisMedium) Put(ctx context.Context, key string, value []byte) error {
	if err := m.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (m *RedisMedium) Close() error {
	return m.client.Close()
}
