package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shelterstock/shelterstock/internal/shared"
)

// ErrLoginLocked is returned while an email is locked out after repeated failures.
var ErrLoginLocked = fmt.Errorf("%w: too many failed login attempts", shared.ErrTooManyRequests)

// LoginThrottle counts failed logins per email in redis.
// A nil *LoginThrottle disables throttling.
type LoginThrottle struct {
	client      redis.Cmdable
	maxAttempts int
	lockout     time.Duration
}

// NewLoginThrottle builds a throttle allowing maxAttempts failures per lockout window.
func NewLoginThrottle(client redis.Cmdable, maxAttempts int, lockout time.Duration) *LoginThrottle {
	if client == nil || maxAttempts <= 0 || lockout <= 0 {
		return nil
	}
	return &LoginThrottle{client: client, maxAttempts: maxAttempts, lockout: lockout}
}

func throttleKey(email string) string {
	return "auth:login:failures:" + email
}

// Allow fails with ErrLoginLocked once the failure budget for email is spent.
func (t *LoginThrottle) Allow(ctx context.Context, email string) error {
	if t == nil {
		return nil
	}
	n, err := t.client.Get(ctx, throttleKey(email)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("auth: read login throttle: %w", err)
	}
	if n >= t.maxAttempts {
		return ErrLoginLocked
	}
	return nil
}

// Fail records one failed attempt. The window starts at the first failure.
func (t *LoginThrottle) Fail(ctx context.Context, email string) error {
	if t == nil {
		return nil
	}
	key := throttleKey(email)
	n, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("auth: record login failure: %w", err)
	}
	if n == 1 {
		if err := t.client.Expire(ctx, key, t.lockout).Err(); err != nil {
			return fmt.Errorf("auth: expire login throttle: %w", err)
		}
	}
	return nil
}

// Reset clears the failure counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, email string) error {
	if t == nil {
		return nil
	}
	return t.client.Del(ctx, throttleKey(email)).Err()
}
