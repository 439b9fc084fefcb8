package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "abcid:"

// RedisStore keeps the id of one visitor session in Redis, so that every
// server process handling that session signs with the same id.
type RedisStore struct {
	client redis.Cmdable
	key    string
}

// NewRedisStore returns a store for the given session.
func NewRedisStore(client redis.Cmdable, sessionID string) *RedisStore {
	return &RedisStore{client: client, key: redisKeyPrefix + sessionID}
}

// NewRedisClient connects using a redis:// or rediss:// URL.
func NewRedisClient(rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

// Key returns the Redis key holding the id.
func (s *RedisStore) Key() string {
	return s.key
}

func (s *RedisStore) Get(ctx context.Context) (string, bool, error) {
	id, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

func (s *RedisStore) Set(ctx context.Context, id string, ttl time.Duration) error {
	return s.client.Set(ctx, s.key, id, ttl).Err()
}
