package service_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"bookswap/internal/domain"
	"bookswap/internal/service"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestSessions_TokenRoundtrip(t *testing.T) {
	sessions := service.NewSessions(testSecret, time.Hour)
	user := &domain.User{ID: "alice", DisplayName: "Alice", Email: "alice@example.com"}

	token, err := sessions.Token(user)
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty token")
	}

	userID, err := sessions.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if userID != "alice" {
		t.Fatalf("expected alice, got %s", userID)
	}
}

func TestSessions_RejectsTamperedToken(t *testing.T) {
	sessions := service.NewSessions(testSecret, time.Hour)
	user := &domain.User{ID: "alice", Email: "alice@example.com"}

	token, err := sessions.Token(user)
	if err != nil {
		t.Fatalf("Token: %v", err)
	}

	// Flip a character in the signature segment.
	parts := strings.Split(token, ".")
	sig := []byte(parts[2])
	if sig[0] == 'a' {
		sig[0] = 'b'
	} else {
		sig[0] = 'a'
	}
	parts[2] = string(sig)
	tampered := strings.Join(parts, ".")

	if _, err := sessions.Validate(tampered); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestSessions_RejectsWrongSecret(t *testing.T) {
	issuer := service.NewSessions(testSecret, time.Hour)
	validator := service.NewSessions("another-secret-another-secret-xx", time.Hour)
	user := &domain.User{ID: "alice", Email: "alice@example.com"}

	token, err := issuer.Token(user)
	if err != nil {
		t.Fatalf("Token: %v", err)
	}

	if _, err := validator.Validate(token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestSessions_RejectsExpiredToken(t *testing.T) {
	sessions := service.NewSessions(testSecret, -time.Minute)
	user := &domain.User{ID: "alice", Email: "alice@example.com"}

	token, err := sessions.Token(user)
	if err != nil {
		t.Fatalf("Token: %v", err)
	}

	if _, err := sessions.Validate(token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestSessions_RejectsGarbage(t *testing.T) {
	sessions := service.NewSessions(testSecret, time.Hour)
	if _, err := sessions.Validate("not-a-token"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
