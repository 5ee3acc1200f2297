// internal/adapters/redis_adapter/limiter_test.go
package redis_a_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redis_a "github.com/ammerola/stockcart-be/internal/adapters/redis_adapter"
	"github.com/ammerola/stockcart-be/test/helpers"
)

func setupLimiter(t *testing.T, maxFailures int, lockout time.Duration) (*redis_a.LoginLimiter, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })

	return redis_a.NewLoginLimiter(client, maxFailures, lockout, helpers.TestLogger()), srv
}

func TestLoginLimiter_AllowsFreshKey(t *testing.T) {
	limiter, _ := setupLimiter(t, 3, time.Minute)

	allowed, err := limiter.Allow(context.Background(), "a@x.com", "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestLoginLimiter_BlocksAfterMaxFailures(t *testing.T) {
	limiter, _ := setupLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		blocked, err := limiter.Failure(ctx, "a@x.com", "10.0.0.1")
		require.NoError(t, err)
		assert.False(t, blocked)
	}

	blocked, err := limiter.Failure(ctx, "a@x.com", "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, blocked)

	allowed, err := limiter.Allow(ctx, "a@x.com", "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestLoginLimiter_KeysAreIndependent(t *testing.T) {
	limiter, _ := setupLimiter(t, 1, time.Minute)
	ctx := context.Background()

	blocked, err := limiter.Failure(ctx, "a@x.com", "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, blocked)

	// Same email from another address is unaffected.
	allowed, err := limiter.Allow(ctx, "a@x.com", "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.Allow(ctx, "b@x.com", "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestLoginLimiter_SuccessResetsCounter(t *testing.T) {
	limiter, _ := setupLimiter(t, 2, time.Minute)
	ctx := context.Background()

	_, err := limiter.Failure(ctx, "a@x.com", "10.0.0.1")
	require.NoError(t, err)
	_, err = limiter.Failure(ctx, "a@x.com", "10.0.0.1")
	require.NoError(t, err)

	allowed, err := limiter.Allow(ctx, "a@x.com", "10.0.0.1")
	require.NoError(t, err)
	require.False(t, allowed)

	require.NoError(t, limiter.Success(ctx, "a@x.com", "10.0.0.1"))

	allowed, err = limiter.Allow(ctx, "a@x.com", "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestLoginLimiter_LockoutExpires(t *testing.T) {
	limiter, srv := setupLimiter(t, 1, time.Minute)
	ctx := context.Background()

	blocked, err := limiter.Failure(ctx, "a@x.com", "10.0.0.1")
	require.NoError(t, err)
	require.True(t, blocked)

	srv.FastForward(2 * time.Minute)

	allowed, err := limiter.Allow(ctx, "a@x.com", "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)
}
