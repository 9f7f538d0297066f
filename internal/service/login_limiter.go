package service

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter throttles repeated login attempts per email.
type LoginLimiter interface {
	Allow(ctx context.Context, email string) (bool, error)
	Reset(ctx context.Context, email string) error
}

type redisLoginLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewRedisLoginLimiter builds a fixed-window limiter on top of Redis.
func NewRedisLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = 10
	}
	if window <= 0 {
		window = 5 * time.Minute
	}
	return &redisLoginLimiter{client: client, maxAttempts: maxAttempts, window: window}
}

func (l *redisLoginLimiter) Allow(ctx context.Context, email string) (bool, error) {
	key := attemptKey(email)
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		_ = l.client.Expire(ctx, key, l.window).Err()
	}
	return count <= int64(l.maxAttempts), nil
}

func (l *redisLoginLimiter) Reset(ctx context.Context, email string) error {
	return l.client.Del(ctx, attemptKey(email)).Err()
}

func attemptKey(email string) string {
	return "login_attempts:" + strings.ToLower(email)
}
