package token

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestIssueAndParse(t *testing.T) {
	m := NewManager("secret", time.Hour)
	id := uuid.New()

	signed, err := m.Issue(id)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	got, err := m.Parse(signed)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if got != id {
		t.Errorf("Parse() = %s, want %s", got, id)
	}
}

func TestParseRejectsForeignSecretAndExpiry(t *testing.T) {
	id := uuid.New()

	signed, _ := NewManager("other", time.Hour).Issue(id)
	if _, err := NewManager("secret", time.Hour).Parse(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for foreign secret, got %v", err)
	}

	expired, _ := NewManager("secret", -time.Minute).Issue(id)
	if _, err := NewManager("secret", time.Hour).Parse(expired); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}

	if _, err := NewManager("secret", time.Hour).Parse("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for garbage, got %v", err)
	}
}
