package ratelimiter

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"slotskolan.se/forum/pkg/apperror"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func TestCheckAndSetRateLimit(t *testing.T) {
	_, rdb := setupRedis(t)
	ctx := context.Background()
	userID := uuid.New()

	allowed, err := CheckAndSetRateLimit(ctx, rdb, userID, ScopePost, 10*time.Second)
	if err != nil || !allowed {
		t.Fatalf("first call = %v, %v; want allowed", allowed, err)
	}
	allowed, err = CheckAndSetRateLimit(ctx, rdb, userID, ScopePost, 10*time.Second)
	if err != nil || allowed {
		t.Fatalf("second call = %v, %v; want denied", allowed, err)
	}

	// Scopes and users are independent.
	if allowed, _ := CheckAndSetRateLimit(ctx, rdb, userID, ScopeThread, 10*time.Second); !allowed {
		t.Error("thread scope was blocked by the post cooldown")
	}
	if allowed, _ := CheckAndSetRateLimit(ctx, rdb, uuid.New(), ScopePost, 10*time.Second); !allowed {
		t.Error("another user was blocked")
	}
}

func TestCheckAndSetRateLimitExpires(t *testing.T) {
	mr, rdb := setupRedis(t)
	ctx := context.Background()
	userID := uuid.New()

	if allowed, _ := CheckAndSetRateLimit(ctx, rdb, userID, ScopePost, 10*time.Second); !allowed {
		t.Fatal("first call denied")
	}
	mr.FastForward(11 * time.Second)
	if allowed, _ := CheckAndSetRateLimit(ctx, rdb, userID, ScopePost, 10*time.Second); !allowed {
		t.Error("cooldown did not expire")
	}
}

func TestAcquireDeniesWithRetryAfter(t *testing.T) {
	_, rdb := setupRedis(t)
	ctx := context.Background()
	userID := uuid.New()

	if _, err := Acquire(ctx, rdb, userID, 5*time.Second, ScopePost, 10*time.Second); err != nil {
		t.Fatalf("first Acquire: %v", err)
	}

	_, err := Acquire(ctx, rdb, userID, 5*time.Second, ScopePost, 10*time.Second)
	var rlErr *RateLimitError
	if !errors.As(err, &rlErr) {
		t.Fatalf("second Acquire error = %v, want *RateLimitError", err)
	}
	if rlErr.RetryAfter <= 0 || rlErr.RetryAfter > 5*time.Second {
		t.Errorf("RetryAfter = %v, want within the global cooldown", rlErr.RetryAfter)
	}
	if !errors.Is(err, apperror.ErrRateLimitExceeded) {
		t.Error("error does not unwrap to ErrRateLimitExceeded")
	}
	if code := apperror.MapErrorToStatus(err); code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", code)
	}
}

func TestAcquireScopedDenialClearsGlobal(t *testing.T) {
	mr, rdb := setupRedis(t)
	ctx := context.Background()
	userID := uuid.New()

	if _, err := Acquire(ctx, rdb, userID, 5*time.Second, ScopeThread, 2*time.Minute); err != nil {
		t.Fatalf("first Acquire: %v", err)
	}
	// Global cooldown over, thread cooldown still running.
	mr.FastForward(6 * time.Second)
	if mr.Exists(key(userID, ScopeGlobal)) {
		t.Fatal("global key survived its TTL")
	}

	_, err := Acquire(ctx, rdb, userID, 5*time.Second, ScopeThread, 2*time.Minute)
	var rlErr *RateLimitError
	if !errors.As(err, &rlErr) {
		t.Fatalf("second Acquire error = %v, want *RateLimitError", err)
	}
	if rlErr.RetryAfter <= 5*time.Second {
		t.Errorf("RetryAfter = %v, want the remaining thread cooldown", rlErr.RetryAfter)
	}
	if mr.Exists(key(userID, ScopeGlobal)) {
		t.Error("scoped denial left the global cooldown set")
	}

	// Other scopes are not blocked by the refused attempt.
	if _, err := Acquire(ctx, rdb, userID, 5*time.Second, ScopePost, 10*time.Second); err != nil {
		t.Errorf("post Acquire after thread denial: %v", err)
	}
}

func TestAcquireReleaseClearsBothKeys(t *testing.T) {
	mr, rdb := setupRedis(t)
	ctx := context.Background()
	userID := uuid.New()

	release, err := Acquire(ctx, rdb, userID, 5*time.Second, ScopePost, 10*time.Second)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if !mr.Exists(key(userID, ScopeGlobal)) || !mr.Exists(key(userID, ScopePost)) {
		t.Fatal("Acquire did not set both cooldowns")
	}

	release()
	if mr.Exists(key(userID, ScopeGlobal)) || mr.Exists(key(userID, ScopePost)) {
		t.Error("release left a cooldown behind")
	}
	if _, err := Acquire(ctx, rdb, userID, 5*time.Second, ScopePost, 10*time.Second); err != nil {
		t.Errorf("Acquire after release: %v", err)
	}
}

func TestAcquireWithoutRedis(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		release, err := Acquire(ctx, nil, userID, 5*time.Second, ScopePost, 10*time.Second)
		if err != nil {
			t.Fatalf("Acquire #%d: %v", i+1, err)
		}
		release()
	}
}
