package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMockAuthSignUpAndLogin(t *testing.T) {
	auth := NewMockAuthService("test-secret", time.Hour)

	user, err := auth.SignUp("alice@example.com", "password123", "Alice Johnson")
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	if user.ID == "" {
		t.Error("Expected a generated user id")
	}
	if user.DisplayName != "Alice Johnson" {
		t.Errorf("Expected display name preserved, got %q", user.DisplayName)
	}

	if _, err := auth.SignUp("alice@example.com", "other", "Alice"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("Expected ErrEmailTaken, got %v", err)
	}

	token, _, err := auth.Login("alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	identity, err := auth.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if identity.ID != user.ID {
		t.Errorf("Expected identity id %q, got %q", user.ID, identity.ID)
	}
	if identity.DisplayName != "Alice Johnson" {
		t.Errorf("Expected display name in identity, got %q", identity.DisplayName)
	}
}

func TestMockAuthRejectsBadCredentials(t *testing.T) {
	auth := NewMockAuthService("test-secret", time.Hour)
	auth.SignUp("bob@example.com", "password123", "Bob")

	if _, _, err := auth.Login("bob@example.com", "wrong"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("Expected ErrBadCredentials for wrong password, got %v", err)
	}
	if _, _, err := auth.Login("nobody@example.com", "password123"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("Expected ErrBadCredentials for unknown user, got %v", err)
	}
}

func TestMockAuthRejectsBadTokens(t *testing.T) {
	auth := NewMockAuthService("test-secret", time.Hour)

	if _, err := auth.Verify(context.Background(), "not-a-token"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized for garbage token, got %v", err)
	}

	// Token signed with a different secret.
	other := NewMockAuthService("other-secret", time.Hour)
	other.SignUp("carol@example.com", "password123", "Carol")
	token, _, err := other.Login("carol@example.com", "password123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if _, err := auth.Verify(context.Background(), token); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized for foreign token, got %v", err)
	}
}

func TestMockAuthExpiredToken(t *testing.T) {
	auth := NewMockAuthService("test-secret", -time.Minute)
	auth.SignUp("dave@example.com", "password123", "Dave")

	token, _, err := auth.Login("dave@example.com", "password123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if _, err := auth.Verify(context.Background(), token); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized for expired token, got %v", err)
	}
}

func TestPopulateTestUsers(t *testing.T) {
	auth := NewMockAuthService("test-secret", time.Hour)
	PopulateTestUsers(auth)

	for _, email := range []string{"alice@example.com", "bob@example.com", "carol@example.com"} {
		if _, _, err := auth.Login(email, "password123"); err != nil {
			t.Errorf("Seeded user %s cannot log in: %v", email, err)
		}
	}

	// Running the seed twice must not clobber existing accounts.
	PopulateTestUsers(auth)
	if _, _, err := auth.Login("alice@example.com", "password123"); err != nil {
		t.Errorf("Re-seeding broke an existing account: %v", err)
	}
}
