package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopstack/catalog/internal/auth"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	m := auth.NewManager("test-secret", 7*24*time.Hour)

	raw, expiresAt, err := m.GenerateSessionToken("user-1", "a@example.com")

	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if until := time.Until(expiresAt); until < 6*24*time.Hour {
		t.Fatalf("expiry too close: %v", until)
	}

	claims, err := m.VerifySessionToken(raw)

	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if claims.UserID != "user-1" {
		t.Errorf("got userID %q, want %q", claims.UserID, "user-1")
	}

	if claims.Email != "a@example.com" {
		t.Errorf("got email %q, want %q", claims.Email, "a@example.com")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := auth.NewManager("test-secret", -time.Minute)

	raw, _, err := m.GenerateSessionToken("user-1", "a@example.com")

	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := m.VerifySessionToken(raw); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := auth.NewManager("secret-a", time.Hour)
	verifier := auth.NewManager("secret-b", time.Hour)

	raw, _, err := issuer.GenerateSessionToken("user-1", "a@example.com")

	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := verifier.VerifySessionToken(raw); err == nil {
		t.Fatal("expected error for token signed with a different secret")
	}
}

func TestMissingSecret(t *testing.T) {
	m := auth.NewManager("", time.Hour)

	if m.SecretConfigured() {
		t.Fatal("SecretConfigured should be false for an empty secret")
	}

	_, _, err := m.GenerateSessionToken("user-1", "a@example.com")

	if !errors.Is(err, auth.ErrNoSecret) {
		t.Fatalf("got %v, want ErrNoSecret", err)
	}

	_, err = m.VerifySessionToken("anything")

	if !errors.Is(err, auth.ErrNoSecret) {
		t.Fatalf("got %v, want ErrNoSecret", err)
	}
}
