package storage

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/lodgepole/rentbilling/pkg/config"
)

// runLockTTL keeps the daily lock shorter than the schedule interval so a
// crashed holder never blocks the next day's run.
const runLockTTL = 23 * time.Hour

// RunLock serializes billing runs across service replicas using a Redis
// SETNX lock keyed by run date.
type RunLock struct {
	client *redis.Client
}

// NewRunLock creates a Redis-backed run lock and verifies connectivity
func NewRunLock(cfg config.RedisConfig) (*RunLock, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB >= 0 {
		opts.DB = cfg.DB
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RunLock{client: client}, nil
}

func lockKey(runDate time.Time) string {
	return fmt.Sprintf("billing:runlock:%s", runDate.Format("2006-01-02"))
}

// Acquire attempts to take the lock for the given run date. Returns false
// when another replica already holds it.
func (l *RunLock) Acquire(ctx context.Context, runDate time.Time) (bool, error) {
	holder, _ := os.Hostname()

	ok, err := l.client.SetNX(ctx, lockKey(runDate), holder, runLockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire run lock: %w", err)
	}
	return ok, nil
}

// Release frees the lock for the given run date so a run can be retried the
// same day.
func (l *RunLock) Release(ctx context.Context, runDate time.Time) error {
	if err := l.client.Del(ctx, lockKey(runDate)).Err(); err != nil {
		return fmt.Errorf("failed to release run lock: %w", err)
	}
	return nil
}

// Client returns the underlying Redis client for health checks
func (l *RunLock) Client() *redis.Client {
	return l.client
}

// Close closes the Redis connection
func (l *RunLock) Close() error {
	return l.client.Close()
}
