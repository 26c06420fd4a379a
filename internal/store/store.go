package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/groundswell-hq/actionkit-adapter/pkg/model"
)

// ErrNotFound is returned when a key is absent from the store.
var ErrNotFound = errors.New("store: not found")

// Store defines the contract for caching supporter data.
type Store interface {
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	GetJSON(ctx context.Context, key string, dest any) error
	CacheSupporter(ctx context.Context, s *model.Supporter, ttl time.Duration) error
	GetCachedSupporter(ctx context.Context, clientID, supporterID string) (*model.Supporter, error)
	BustSupporter(ctx context.Context, clientID, supporterID string) error
	HealthCheck(ctx context.Context) error
	Close() error
}

// RedisStore is a Redis-backed Store.
type RedisStore struct {
	redis  *redis.Client
	logger *zap.Logger
}

// New connects to Redis and returns a RedisStore.
func New(addr string, db int, password string, logger *zap.Logger) (*RedisStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		DB:       db,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisStore{redis: rdb, logger: logger}, nil
}

// NewWithClient wraps an existing Redis client (used in tests with miniredis).
func NewWithClient(rdb *redis.Client, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStore{redis: rdb, logger: logger}
}

// SetJSON marshals value and stores it under key with the given TTL.
func (s *RedisStore) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.redis.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// GetJSON fetches key and unmarshals it into dest. Returns ErrNotFound on miss.
func (s *RedisStore) GetJSON(ctx context.Context, key string, dest any) error {
	data, err := s.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return nil
}

func supporterKey(clientID, supporterID string) string {
	return fmt.Sprintf("supporter:%s:%s", clientID, supporterID)
}

// CacheSupporter stores a canonical supporter record with TTL.
func (s *RedisStore) CacheSupporter(ctx context.Context, sup *model.Supporter, ttl time.Duration) error {
	return s.SetJSON(ctx, supporterKey(sup.ClientID, sup.ID), sup, ttl)
}

// GetCachedSupporter returns a cached supporter record, or ErrNotFound.
func (s *RedisStore) GetCachedSupporter(ctx context.Context, clientID, supporterID string) (*model.Supporter, error) {
	var sup model.Supporter
	if err := s.GetJSON(ctx, supporterKey(clientID, supporterID), &sup); err != nil {
		return nil, err
	}
	return &sup, nil
}

// BustSupporter drops a cached supporter record (after updates).
func (s *RedisStore) BustSupporter(ctx context.Context, clientID, supporterID string) error {
	if err := s.redis.Del(ctx, supporterKey(clientID, supporterID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// HealthCheck pings Redis.
func (s *RedisStore) HealthCheck(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error {
	return s.redis.Close()
}
