// internal/adapters/redis_adapter/limiter.go
package redis_a

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ammerola/stockcart-be/internal/core/ports"
)

const failureKeyPrefix = "login:failures:"

// LoginLimiter counts failed login attempts per (email, client IP) in
// Redis and locks the pair out once the threshold is reached. The counter
// expires on its own, so a lockout always ends after the configured
// window.
type LoginLimiter struct {
	client      *redis.Client
	maxFailures int
	lockout     time.Duration
	logger      *slog.Logger
}

// Statically assert that *LoginLimiter implements the port.
var _ ports.LoginLimiter = (*LoginLimiter)(nil)

// NewLoginLimiter creates a limiter with the given threshold and lockout
// window.
func NewLoginLimiter(client *redis.Client, maxFailures int, lockout time.Duration, logger *slog.Logger) *LoginLimiter {
	if maxFailures <= 0 {
		maxFailures = 10
	}
	if lockout <= 0 {
		lockout = 15 * time.Minute
	}
	return &LoginLimiter{
		client:      client,
		maxFailures: maxFailures,
		lockout:     lockout,
		logger:      logger.With(slog.String("component", "login_limiter")),
	}
}

// Allow reports whether a login attempt for the key may proceed.
func (l *LoginLimiter) Allow(ctx context.Context, email, ip string) (bool, error) {
	count, err := l.client.Get(ctx, l.key(email, ip)).Int64()
	if err != nil {
		if err == redis.Nil {
			return true, nil
		}
		return false, fmt.Errorf("redis get error: %w", err)
	}
	return count < int64(l.maxFailures), nil
}

// Failure records a failed attempt and reports whether the key is now
// locked out.
func (l *LoginLimiter) Failure(ctx context.Context, email, ip string) (bool, error) {
	key := l.key(email, ip)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis incr error: %w", err)
	}

	// Refresh the window on every failure; the lockout lasts as long as
	// failures keep coming.
	if err := l.client.Expire(ctx, key, l.lockout).Err(); err != nil {
		return false, fmt.Errorf("redis expire error: %w", err)
	}

	blocked := count >= int64(l.maxFailures)
	if blocked {
		l.logger.WarnContext(ctx, "login lockout reached",
			slog.Int64("failures", count))
	}
	return blocked, nil
}

// Success clears the failure counter after a successful login.
func (l *LoginLimiter) Success(ctx context.Context, email, ip string) error {
	if err := l.client.Del(ctx, l.key(email, ip)).Err(); err != nil {
		return fmt.Errorf("redis del error: %w", err)
	}
	return nil
}

// key hashes email and IP together so neither appears verbatim in Redis.
func (l *LoginLimiter) key(email, ip string) string {
	sum := sha256.Sum256([]byte(email + "|" + ip))
	return failureKeyPrefix + hex.EncodeToString(sum[:16])
}
