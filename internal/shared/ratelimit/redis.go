package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "exitlayer:rl:"

// RedisStore shares counters across instances with INCR + PEXPIRE per window.
type RedisStore struct {
	client redis.UniversalClient
	now    func() time.Time
}

// NewRedisStore wraps a go-redis client; now defaults to time.Now.
func NewRedisStore(client redis.UniversalClient, now func() time.Time) *RedisStore {
	if now == nil {
		now = time.Now
	}
	return &RedisStore{client: client, now: now}
}

// NewRedisClient parses a redis:// URL.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

func (s *RedisStore) Hit(ctx context.Context, key string, rule Rule) (Result, error) {
	now := s.now()
	if !rule.Enabled() {
		return Result{Allowed: true, Limit: rule.Limit, Remaining: rule.Limit, ResetAt: now}, nil
	}
	start := windowStart(now, rule.Window)
	reset := start.Add(rule.Window)
	rkey := fmt.Sprintf("%s%s:%d", redisKeyPrefix, key, start.Unix())

	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, rkey)
		p.PExpire(ctx, rkey, rule.Window)
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("rate limit hit: %w", err)
	}
	return result(int(incr.Val()), rule, reset), nil
}
