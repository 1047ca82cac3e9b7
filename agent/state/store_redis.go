package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	URL string `envconfig:"URL" split_words:"true" required:"true"`
}

// redisKV is the subset of redis.Cmdable used by RedisStore.
type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisStore persists CallSession documents in a Redis server.
type RedisStore struct {
	client redisKV
	opts   kvOptions
}

func NewRedisStore(cfg RedisConfig, opts ...StoreOption) (*RedisStore, error) {
	raw := strings.TrimSpace(cfg.URL)
	if raw == "" {
		return nil, errors.New("redis url is required")
	}
	redisOpts, err := redis.ParseURL(raw)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return newRedisStore(redis.NewClient(redisOpts), opts...)
}

func newRedisStore(client redisKV, opts ...StoreOption) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	o, err := buildKVOptions(opts)
	if err != nil {
		return nil, err
	}
	return &RedisStore{client: client, opts: o}, nil
}

func (s *RedisStore) Load(ctx context.Context, callID string) (*CallSession, error) {
	key, err := s.opts.key(callID)
	if err != nil {
		return nil, err
	}

	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return decodeSession(raw)
}

func (s *RedisStore) Save(ctx context.Context, sess *CallSession) error {
	payload, key, err := encodeSession(sess, s.opts)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, key, payload, s.opts.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
