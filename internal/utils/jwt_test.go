package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewAccessTokenRoundTrip(t *testing.T) {
	at, err := NewAccessToken("testsecret", 42, "owner@example.com", "owner", 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if at.Token == "" {
		t.Fatal("expected non-empty token")
	}

	tok, err := jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("testsecret"), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("parse signed token: %v", err)
	}
	claims := tok.Claims.(jwt.MapClaims)
	if sub, _ := claims["sub"].(float64); uint64(sub) != 42 {
		t.Fatalf("expected sub=42, got %v", claims["sub"])
	}
	if claims["email"] != "owner@example.com" {
		t.Fatalf("expected email claim, got %v", claims["email"])
	}
	if claims["role"] != "owner" {
		t.Fatalf("expected role=owner, got %v", claims["role"])
	}
	if until := time.Until(at.Exp); until < 14*time.Minute || until > 16*time.Minute {
		t.Fatalf("expiry not ~15m out: %v", at.Exp)
	}
}

func TestAccessTokenRejectsWrongSecret(t *testing.T) {
	at, err := NewAccessToken("secret-a", 1, "a@b.c", "owner", 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	tok, err := jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("secret-b"), nil
	})
	if err == nil && tok.Valid {
		t.Fatal("token verified with the wrong secret")
	}
}

func TestNewRefreshToken(t *testing.T) {
	r1, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	r2, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	if len(r1.Raw) != 96 {
		t.Fatalf("expected 96 hex chars, got %d", len(r1.Raw))
	}
	if r1.Raw == r2.Raw {
		t.Fatal("two refresh tokens should not collide")
	}
	if until := time.Until(r1.Exp); until < 6*24*time.Hour {
		t.Fatalf("expiry not ~7 days out: %v", r1.Exp)
	}
}

func TestHashRefreshRaw(t *testing.T) {
	a := HashRefreshRaw("token-one")
	b := HashRefreshRaw("token-one")
	c := HashRefreshRaw("token-two")
	if a != b {
		t.Fatal("hash must be deterministic")
	}
	if a == c {
		t.Fatal("different tokens must hash differently")
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
}
