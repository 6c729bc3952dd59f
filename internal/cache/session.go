// Package cache holds the Redis-backed session store and catalog cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront/internal/domain"
)

var ErrCacheMiss = errors.New("cache miss")

type SessionStore interface {
	Get(ctx context.Context, sid string) (*domain.Session, error)
	Set(ctx context.Context, s *domain.Session) error
	Delete(ctx context.Context, sid string) error
}

type RedisSessionStore struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisSessionStore{client: client, baseTTL: ttl}
}

func (r *RedisSessionStore) Get(ctx context.Context, sid string) (*domain.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var s domain.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal session failed: %w", err)
	}
	return &s, nil
}

func (r *RedisSessionStore) Set(ctx context.Context, s *domain.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session failed: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(s.ID), data, r.ttl()).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisSessionStore) Delete(ctx context.Context, sid string) error {
	if err := r.client.Del(ctx, sessionKey(sid)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// ttl spreads expiry over an extra 5% of the base so sessions created
// together do not all expire together.
func (r *RedisSessionStore) ttl() time.Duration {
	spread := int64(r.baseTTL / 20)
	if spread <= 0 {
		return r.baseTTL
	}
	return r.baseTTL + time.Duration(rand.Int63n(spread))
}

func sessionKey(sid string) string {
	return fmt.Sprintf("session:%s", sid)
}
