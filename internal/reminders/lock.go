package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/careconnect/careconnect-api/pkg/logging"
)

const lockKey = "careconnect:reminders:sweep-lock"

// RunLock serializes sweep runs across processes. Acquire reports whether
// this process holds the lock for the current run.
type RunLock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// RedisLock is a RunLock backed by a Redis SET NX key with a TTL. The TTL
// bounds how long a crashed sweeper can block the next run.
type RedisLock struct {
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewRedisLock creates a Redis-backed run lock. Returns nil when client is
// nil so callers can fall back to NoopLock.
func NewRedisLock(client *redis.Client, ttl time.Duration, logger *logging.Logger) *RedisLock {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RedisLock{client: client, ttl: ttl, logger: logger}
}

// Acquire attempts to take the sweep lock.
func (l *RedisLock) Acquire(ctx context.Context) (bool, error) {
	ok, err := l.client.SetNX(ctx, lockKey, time.Now().UTC().Format(time.RFC3339), l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("reminders: acquire lock: %w", err)
	}
	if !ok {
		l.logger.Info("reminder sweep already running elsewhere, skipping")
	}
	return ok, nil
}

// Release drops the sweep lock.
func (l *RedisLock) Release(ctx context.Context) error {
	if err := l.client.Del(ctx, lockKey).Err(); err != nil {
		return fmt.Errorf("reminders: release lock: %w", err)
	}
	return nil
}

// NoopLock always grants the lock. Used for single-process deployments.
type NoopLock struct{}

func (NoopLock) Acquire(_ context.Context) (bool, error) { return true, nil }
func (NoopLock) Release(_ context.Context) error         { return nil }

var _ RunLock = (*RedisLock)(nil)
var _ RunLock = NoopLock{}
