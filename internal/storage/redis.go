package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis adapts a Redis server to the KV interface. Keys are listed
// with SCAN and batch-fetched with MGET.
type Redis struct {
	client *redis.Client
}

func NewRedis(addr, password string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: ping %s: %w", ErrUnavailable, addr, err)
	}

	return &Redis{client: client}, nil
}

func (s *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: get %s: %w", ErrUnavailable, key, err)
	}
	return val, true, nil
}

func (s *Redis) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %w", ErrUnavailable, key, err)
	}
	return nil
}

func (s *Redis) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: del %s: %w", ErrUnavailable, key, err)
	}
	return nil
}

func (s *Redis) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: scan %s*: %w", ErrUnavailable, prefix, err)
	}
	return keys, nil
}

func (s *Redis) MultiGet(ctx context.Context, keys []string) (map[string]string, error) {
	if len(keys) == 0 {
		return map[string]string{}, nil
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: mget %d keys: %w", ErrUnavailable, len(keys), err)
	}
	values := make(map[string]string, len(keys))
	for i, v := range vals {
		if s, ok := v.(string); ok {
			values[keys[i]] = s
		}
	}
	return values, nil
}

func (s *Redis) Close() error {
	return s.client.Close()
}
