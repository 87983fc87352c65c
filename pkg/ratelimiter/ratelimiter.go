package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"slotskolan.se/forum/pkg/apperror"
)

const (
	ScopeGlobal = "global"
	ScopeThread = "thread"
	ScopePost   = "post"
)

// RateLimitError is returned when a cooldown is still active.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return e.Message
}

func (e *RateLimitError) Unwrap() error {
	return apperror.ErrRateLimitExceeded
}

func key(userID uuid.UUID, scope string) string {
	return fmt.Sprintf("rate_limit:user:%s:%s", userID.String(), scope)
}

// CheckAndSetRateLimit reports whether the action is allowed and, if so, starts the cooldown.
// A nil client disables rate limiting.
func CheckAndSetRateLimit(ctx context.Context, rdb *redis.Client, userID uuid.UUID, scope string, limit time.Duration) (bool, error) {
	if rdb == nil || limit <= 0 {
		return true, nil
	}

	wasSet, err := rdb.SetNX(ctx, key(userID, scope), "locked", limit).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

func GetRateLimitTTL(ctx context.Context, rdb *redis.Client, userID uuid.UUID, scope string) (time.Duration, error) {
	if rdb == nil {
		return 0, nil
	}
	return rdb.TTL(ctx, key(userID, scope)).Result()
}

func ClearRateLimit(ctx context.Context, rdb *redis.Client, userID uuid.UUID, scope string) error {
	if rdb == nil {
		return nil
	}
	_, err := rdb.Del(ctx, key(userID, scope)).Result()
	return err
}

// Acquire checks the global cooldown and the scoped cooldown in order. On success it
// returns a release func that clears both, for callers whose action failed afterwards.
func Acquire(ctx context.Context, rdb *redis.Client, userID uuid.UUID, global time.Duration, scope string, scoped time.Duration) (func(), error) {
	if rdb == nil {
		return func() {}, nil
	}

	allowed, err := CheckAndSetRateLimit(ctx, rdb, userID, ScopeGlobal, global)
	if err != nil {
		return nil, err
	}
	if !allowed {
		ttl, _ := GetRateLimitTTL(ctx, rdb, userID, ScopeGlobal)
		return nil, &RateLimitError{
			Message:    fmt.Sprintf("Du gör det där för snabbt. Vänta %.0f sekunder", ttl.Seconds()),
			RetryAfter: ttl,
		}
	}

	allowed, err = CheckAndSetRateLimit(ctx, rdb, userID, scope, scoped)
	if err != nil {
		_ = ClearRateLimit(ctx, rdb, userID, ScopeGlobal)
		return nil, err
	}
	if !allowed {
		_ = ClearRateLimit(ctx, rdb, userID, ScopeGlobal)
		ttl, _ := GetRateLimitTTL(ctx, rdb, userID, scope)
		return nil, &RateLimitError{
			Message:    fmt.Sprintf("Vänta %.0f sekunder innan du skriver igen", ttl.Seconds()),
			RetryAfter: ttl,
		}
	}

	release := func() {
		_ = ClearRateLimit(context.Background(), rdb, userID, ScopeGlobal)
		_ = ClearRateLimit(context.Background(), rdb, userID, scope)
	}
	return release, nil
}

// Limits are the cooldowns applied to content creation.
type Limits struct {
	Global time.Duration
	Thread time.Duration
	Post   time.Duration
}
