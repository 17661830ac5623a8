package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/Arun270647/tma-demo-repo/core"
)

const keyPrefix = "ratelimit:"

// Limiter allows at most a fixed number of hits per key within a fixed window.
type Limiter interface {
	// Allow records a hit for key and reports whether it is within the limit.
	Allow(ctx context.Context, key string) (bool, error)
}

// New returns a redis-backed Limiter when a redis address is configured,
// and an in-process one otherwise.
func New(conf *core.Config) Limiter {
	if conf.Redis.Address == "" {
		return NewMemoryLimiter(conf.RateLimit.Requests, conf.RateLimit.Window)
	}
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Address,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
	return NewRedisLimiter(client, conf.RateLimit.Requests, conf.RateLimit.Window)
}

type redisLimiter struct {
	client   redis.Cmdable
	requests int
	window   time.Duration
}

var _ Limiter = (*redisLimiter)(nil)

func NewRedisLimiter(client redis.Cmdable, requests int, window time.Duration) Limiter {
	return &redisLimiter{client: client, requests: requests, window: window}
}

func (l *redisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	key = keyPrefix + key

	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return false, errors.Wrap(err, "counting hits")
	}
	// a counter without expiry is a new window, or one whose EXPIRE was lost
	if ttl.Val() < 0 {
		if err = l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return false, errors.Wrap(err, "setting window")
		}
	}
	return incr.Val() <= int64(l.requests), nil
}

type memoryLimiter struct {
	mu       sync.Mutex
	hits     *cache.Cache
	requests int
	window   time.Duration
}

var _ Limiter = (*memoryLimiter)(nil)

func NewMemoryLimiter(requests int, window time.Duration) Limiter {
	return &memoryLimiter{
		hits:     cache.New(window, 2*window),
		requests: requests,
		window:   window,
	}
}

func (l *memoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.hits.Add(key, 1, l.window); err == nil {
		return l.requests >= 1, nil
	}
	n, err := l.hits.IncrementInt(key, 1)
	if err != nil {
		// expired between Add and IncrementInt
		l.hits.Set(key, 1, l.window)
		return l.requests >= 1, nil
	}
	return n <= l.requests, nil
}
