package response

import (
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"slotskolan.se/forum/pkg/apperror"
	"slotskolan.se/forum/pkg/ratelimiter"
)

var exposeDetails atomic.Bool

// SetExposeDetails toggles the raw error text in the "details" field of 500 responses.
func SetExposeDetails(enabled bool) {
	exposeDetails.Store(enabled)
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	var rateLimitErr *ratelimiter.RateLimitError
	if errors.As(err, &rateLimitErr) {
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(rateLimitErr.RetryAfter)))
	}

	code := apperror.MapErrorToStatus(err)

	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error] %s %s: %v", c.Request.Method, c.FullPath(), err)

		body := gin.H{"error": apperror.ErrInternal.Error()}
		if exposeDetails.Load() {
			body["details"] = err.Error()
		}
		c.AbortWithStatusJSON(code, body)
		return
	}

	c.AbortWithStatusJSON(code, gin.H{"error": err.Error()})
}

// retryAfterSeconds rounds up so a client never retries before the window ends.
func retryAfterSeconds(d time.Duration) int {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}
