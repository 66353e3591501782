package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass", 4)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatalf("hash must not equal the plain password")
	}
	if !CheckPassword(hash, "s3cret-pass") {
		t.Fatalf("expected password to match its hash")
	}
	if CheckPassword(hash, "wrong-pass") {
		t.Fatalf("expected mismatched password to fail")
	}
}

func TestTokenIssueAndVerify(t *testing.T) {
	mgr := NewTokenManager("test-secret", time.Hour)

	token, err := mgr.Issue("user-123")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	userID, err := mgr.Verify(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if userID != "user-123" {
		t.Fatalf("expected user-123, got %q", userID)
	}
}

func TestTokenExpiry(t *testing.T) {
	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	mgr := NewTokenManager("test-secret", time.Hour).WithClock(func() time.Time { return issued })

	token, err := mgr.Issue("user-123")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	mgr.WithClock(func() time.Time { return issued.Add(2 * time.Hour) })
	if _, err := mgr.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenWrongSecretRejected(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).Issue("user-123")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := NewTokenManager("secret-b", time.Hour).Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestTokenGarbageRejected(t *testing.T) {
	mgr := NewTokenManager("test-secret", time.Hour)
	if _, err := mgr.Verify("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestUserIDContextRoundTrip(t *testing.T) {
	ctx := WithUserID(context.Background(), "user-9")
	id, ok := UserIDFromContext(ctx)
	if !ok || id != "user-9" {
		t.Fatalf("expected user-9, got %q (ok=%v)", id, ok)
	}

	if _, ok := UserIDFromContext(context.Background()); ok {
		t.Fatalf("expected no user in fresh context")
	}
}
