package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arun270647/tma-demo-repo/core"
)

func TestMemoryLimiter_Allow(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLimiter(5, time.Hour)

	for i := 1; i <= 5; i++ {
		ok, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok, "hit %d", i)
	}
	ok, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok, "6th hit must be rejected")

	ok, err = l.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, ok, "keys are limited independently")
}

func TestMemoryLimiter_windowExpires(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLimiter(1, 50*time.Millisecond)

	ok, _ := l.Allow(ctx, "k")
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, "k")
	assert.False(t, ok)

	time.Sleep(80 * time.Millisecond)
	ok, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryLimiter_concurrent(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLimiter(10, time.Hour)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow(ctx, "shared"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 10, allowed)
}

func newTestRedisLimiter(t *testing.T, requests int, window time.Duration) (Limiter, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLimiter(client, requests, window), srv
}

func TestRedisLimiter_Allow(t *testing.T) {
	ctx := context.Background()
	l, srv := newTestRedisLimiter(t, 5, time.Hour)

	for i := 1; i <= 5; i++ {
		ok, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok, "hit %d", i)
	}
	ok, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok, "6th hit must be rejected")
	assert.Equal(t, time.Hour, srv.TTL(keyPrefix+"10.0.0.1"))

	ok, err = l.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, ok, "keys are limited independently")

	srv.FastForward(time.Hour)
	ok, err = l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok, "a new window opens once the previous one expired")
}

func TestRedisLimiter_rearmsWindowWithoutExpiry(t *testing.T) {
	ctx := context.Background()
	l, srv := newTestRedisLimiter(t, 5, time.Hour)

	// a counter left over the limit with no expiry, as after a failed EXPIRE
	require.NoError(t, srv.Set(keyPrefix+"10.0.0.1", "5"))
	require.Equal(t, time.Duration(0), srv.TTL(keyPrefix+"10.0.0.1"))

	ok, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, time.Hour, srv.TTL(keyPrefix+"10.0.0.1"))

	srv.FastForward(time.Hour)
	ok, err = l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok, "the client is not locked out forever")
}

func TestRedisLimiter_unavailable(t *testing.T) {
	l, srv := newTestRedisLimiter(t, 5, time.Hour)
	srv.Close()

	_, err := l.Allow(context.Background(), "10.0.0.1")
	assert.Error(t, err)
}

func TestNew_withoutRedis(t *testing.T) {
	conf := core.NewTestConfig()
	conf.Redis.Address = ""
	l := New(conf)
	_, ok := l.(*memoryLimiter)
	assert.True(t, ok, fmt.Sprintf("got %T", l))
}
