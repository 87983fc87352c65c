package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"slotskolan.se/forum/pkg/ratelimiter"
	"slotskolan.se/forum/pkg/response"
)

const throttleIdle = 24 * time.Hour

// IPThrottle is an in-process token bucket per client IP. It guards the
// credential endpoints, which run before any user is known.
type IPThrottle struct {
	mu        sync.Mutex
	every     time.Duration
	burst     int
	limiters  map[string]*rate.Limiter
	lastSeen  map[string]time.Time
	lastPrune time.Time
}

// NewIPThrottle allows burst requests per IP, refilled once every interval.
// A zero interval disables throttling.
func NewIPThrottle(every time.Duration, burst int) *IPThrottle {
	if burst < 1 {
		burst = 1
	}
	return &IPThrottle{
		every:     every,
		burst:     burst,
		limiters:  make(map[string]*rate.Limiter),
		lastSeen:  make(map[string]time.Time),
		lastPrune: time.Now(),
	}
}

func (t *IPThrottle) limiter(ip string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	if now.Sub(t.lastPrune) > time.Hour {
		for key, seen := range t.lastSeen {
			if now.Sub(seen) > throttleIdle {
				delete(t.limiters, key)
				delete(t.lastSeen, key)
			}
		}
		t.lastPrune = now
	}

	limiter, exists := t.limiters[ip]
	if !exists {
		limiter = rate.NewLimiter(rate.Every(t.every), t.burst)
		t.limiters[ip] = limiter
	}
	t.lastSeen[ip] = now
	return limiter
}

func (t *IPThrottle) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if t.every <= 0 {
			c.Next()
			return
		}

		reservation := t.limiter(c.ClientIP()).Reserve()
		if delay := reservation.Delay(); delay > 0 {
			// A refused request must not consume the next token.
			reservation.Cancel()
			response.ResponseError(c, &ratelimiter.RateLimitError{
				Message:    "För många försök. Vänta en stund och försök igen",
				RetryAfter: delay,
			})
			return
		}
		c.Next()
	}
}
