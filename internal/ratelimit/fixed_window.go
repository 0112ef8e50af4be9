package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"lecturebot/internal/providers"
	"lecturebot/internal/structures"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "lecturebot:ratelimit"

var fixedWindowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

type LimiterInterface interface {
	Allow(ctx context.Context, key string) bool
}

// FixedWindowLimiter caps deliveries per key in a fixed time window.
// Counters live in Redis so several bot processes share one quota.
type FixedWindowLimiter struct {
	limit  int
	window time.Duration

	redisClient *redis.Client
	redisPrefix string
}

func NewRedisFixedWindowLimiter(addr, password, prefix string, limit int, window time.Duration) (*FixedWindowLimiter, error) {
	if limit <= 0 || window <= 0 {
		return nil, errors.New("rate limiter requires positive limit and window")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("rate limiter redis addr is required")
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &FixedWindowLimiter{
		limit:  limit,
		window: window,
		redisClient: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		redisPrefix: prefix,
	}, nil
}

// NewLimiter builds the delivery limiter from config; disabled limits allow everything.
func NewLimiter(conf *structures.Config, logger providers.Logger) (LimiterInterface, func(), error) {
	rl := conf.RateLimit
	if !rl.Enabled {
		return noopLimiter{}, func() {}, nil
	}
	limiter, err := NewRedisFixedWindowLimiter(conf.Persistence.RedisAddr, conf.Persistence.RedisPassword, defaultPrefix, rl.Limit, rl.Window)
	if err != nil {
		return nil, nil, err
	}
	logger.Infof(providers.TypeApp, "Delivery rate limit: %d per %s", rl.Limit, rl.Window)
	return limiter, func() { _ = limiter.Close() }, nil
}

// Allow returns true when the key is within quota.
// On Redis failures it fails closed and returns false.
func (l *FixedWindowLimiter) Allow(ctx context.Context, key string) bool {
	if l == nil {
		return false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		key = "unknown"
	}

	windowMs := l.window.Milliseconds()
	if windowMs <= 0 {
		return true
	}
	windowSlot := time.Now().UTC().UnixMilli() / windowMs
	redisKey := fmt.Sprintf("%s:%s:%d", l.redisPrefix, key, windowSlot)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	res, err := fixedWindowScript.Run(ctx, l.redisClient, []string{redisKey}, windowMs).Int64()
	if err != nil {
		return false
	}
	return res <= int64(l.limit)
}

func (l *FixedWindowLimiter) Close() error {
	return l.redisClient.Close()
}

type noopLimiter struct{}

func (noopLimiter) Allow(_ context.Context, _ string) bool { return true }
