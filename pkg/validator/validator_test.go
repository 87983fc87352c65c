package validator

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"

	"slotskolan.se/forum/pkg/apperror"
)

type sample struct {
	Title  string `validate:"required,max=5"`
	Email  string `validate:"required,email"`
	Status string `validate:"oneof=RESOLVED REJECTED"`
}

func TestFormatValidationError(t *testing.T) {
	v := validator.New()
	err := v.Struct(sample{Title: "för lång titel", Email: "nope", Status: "OPEN"})
	if err == nil {
		t.Fatal("expected validation error")
	}

	msg := FormatValidationError(err)
	for _, want := range []string{
		"Titel får vara högst 5 tecken",
		"E-post måste vara en giltig e-postadress",
		"Status måste vara ett av: RESOLVED REJECTED",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q does not contain %q", msg, want)
		}
	}
}

func TestBindErrorIsBadRequest(t *testing.T) {
	err := BindError(errors.New("unexpected EOF"))
	if apperror.MapErrorToStatus(err) != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", apperror.MapErrorToStatus(err))
	}
	if err.Error() != "Ogiltig förfrågan" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
