package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMapErrorToStatus(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want int
	}{
		{"app error code wins", NotFound("Tråden hittades inte"), http.StatusNotFound},
		{"wrapped app error", fmt.Errorf("load: %w", Forbidden("nej")), http.StatusForbidden},
		{"sentinel unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"wrapped sentinel bad request", fmt.Errorf("x: %w", ErrInvalidInput), http.StatusBadRequest},
		{"conflict", Conflict("redan hanterad"), http.StatusConflict},
		{"rate limit", ErrRateLimitExceeded, http.StatusTooManyRequests},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MapErrorToStatus(tc.err); got != tc.want {
				t.Errorf("MapErrorToStatus(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

func TestAppErrorMessage(t *testing.T) {
	err := BadRequest("Titeln får inte vara tom")
	if err.Error() != "Titeln får inte vara tom" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, ErrBadRequest) {
		t.Error("expected BadRequest to unwrap to ErrBadRequest")
	}

	bare := New(http.StatusInternalServerError, "", nil)
	if bare.Error() != http.StatusText(http.StatusInternalServerError) {
		t.Errorf("unexpected fallback message %q", bare.Error())
	}
}
