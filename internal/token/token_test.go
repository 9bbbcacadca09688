package token

import (
	"testing"
	"time"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	tokenString, err := m.Sign("user-123", "driver@example.com", RoleDriver)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	id, err := m.Verify(tokenString)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.UserID != "user-123" {
		t.Errorf("expected user-123, got %s", id.UserID)
	}
	if id.Role != RoleDriver {
		t.Errorf("expected DRIVER, got %s", id.Role)
	}
	if id.Email != "driver@example.com" {
		t.Errorf("expected driver@example.com, got %s", id.Email)
	}
}

func TestVerifyBearerPrefix(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	tokenString, err := m.Sign("user-123", "parent@example.com", RoleParent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := m.Verify("Bearer " + tokenString); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	other := NewManager("other-secret", time.Hour)

	tokenString, err := m.Sign("user-123", "a@example.com", RoleAdmin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := other.Verify(tokenString); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestVerifyExpired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)

	tokenString, err := m.Sign("user-123", "a@example.com", RoleAdmin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := m.Verify(tokenString); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestVerifyGarbage(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	if _, err := m.Verify("not-a-token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}
