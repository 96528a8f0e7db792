package auth

import (
	"errors"
	"testing"
	"time"
)

func TestSignerRoundTrip(t *testing.T) {
	s, err := NewSigner("secret", time.Hour, "dev")
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	token, err := s.Sign("user-1", "a@example.com", "Ada")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	claims, err := s.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "user-1" || claims.Email != "a@example.com" || claims.Name != "Ada" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestSignerRejectsForeignSecret(t *testing.T) {
	a, _ := NewSigner("secret-a", time.Hour, "dev")
	b, _ := NewSigner("secret-b", time.Hour, "dev")
	token, err := a.Sign("user-1", "", "")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := b.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestSignerRejectsExpiredToken(t *testing.T) {
	s, _ := NewSigner("secret", time.Minute, "dev")
	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return issued }
	token, err := s.Sign("user-1", "", "")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	s.now = func() time.Time { return issued.Add(2 * time.Minute) }
	if _, err := s.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestNewSignerRequiresSecretInProduction(t *testing.T) {
	if _, err := NewSigner("", time.Hour, "production"); err == nil {
		t.Fatalf("expected error without secret in production")
	}
}

func TestHasherCompare(t *testing.T) {
	h := NewHasher(4)
	hash, err := h.Hash("correct horse")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if err := h.Compare(hash, "correct horse"); err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if err := h.Compare(hash, "battery staple"); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
}
