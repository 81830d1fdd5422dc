// Package session keeps server-side session state in Redis: revoked token ids
// and per-username failed login counters. A Store with a nil client is a no-op.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	revokedKeyPrefix  = "session:revoked:"
	failuresKeyPrefix = "login_failures:"
)

// Store wraps a Redis client
type Store struct {
	rdb         *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewStore creates a Store. rdb may be nil.
func NewStore(rdb *redis.Client, maxAttempts int, window time.Duration) *Store {
	return &Store{rdb: rdb, maxAttempts: maxAttempts, window: window}
}

// NewRedisClient opens a client and pings it
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// Enabled reports whether a Redis client is configured
func (s *Store) Enabled() bool {
	return s != nil && s.rdb != nil
}

// Revoke denylists tokenID until the token would have expired anyway
func (s *Store) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if !s.Enabled() || tokenID == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.rdb.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID has been denylisted
func (s *Store) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	n, err := s.rdb.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session revocation: %w", err)
	}
	return n > 0, nil
}

// LoginAllowed reports whether username is still under the failed attempt limit
func (s *Store) LoginAllowed(ctx context.Context, username string) (bool, error) {
	if !s.Enabled() || s.maxAttempts <= 0 {
		return true, nil
	}
	count, err := s.rdb.Get(ctx, failuresKey(username)).Int()
	if errors.Is(err, redis.Nil) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read login failures: %w", err)
	}
	return count < s.maxAttempts, nil
}

// RecordLoginFailure increments the counter; the window starts at the first failure
func (s *Store) RecordLoginFailure(ctx context.Context, username string) error {
	if !s.Enabled() || s.maxAttempts <= 0 {
		return nil
	}
	key := failuresKey(username)
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, s.window)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record login failure: %w", err)
	}
	return nil
}

// ResetLoginFailures clears the counter after a successful login
func (s *Store) ResetLoginFailures(ctx context.Context, username string) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.rdb.Del(ctx, failuresKey(username)).Err(); err != nil {
		return fmt.Errorf("failed to reset login failures: %w", err)
	}
	return nil
}

func failuresKey(username string) string {
	return failuresKeyPrefix + strings.ToLower(username)
}
