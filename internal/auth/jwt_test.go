package auth

import (
	"testing"
	"time"

	"travelkang/config"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 7 * 24 * time.Hour,
		Issuer:        "travelkang-test",
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	tok, err := GenerateAccessToken(cfg, "user-1", "u@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := ParseAccessToken(cfg, tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserUUID != "user-1" || claims.Email != "u@example.com" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestAccessTokenWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	tok, err := GenerateAccessToken(cfg, "user-1", "u@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	other := testJWTConfig()
	other.AccessSecret = "different"
	if _, err := ParseAccessToken(other, tok); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAccessTokenExpired(t *testing.T) {
	cfg := testJWTConfig()
	cfg.AccessExpiry = -time.Minute
	tok, err := GenerateAccessToken(cfg, "user-1", "u@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseAccessToken(cfg, tok); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	tok, err := GenerateRefreshToken(cfg, "user-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	sub, err := ParseRefreshToken(cfg, tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sub != "user-1" {
		t.Errorf("expected subject user-1, got %s", sub)
	}
}

func TestRefreshTokenRejectedAsAccess(t *testing.T) {
	cfg := testJWTConfig()
	tok, err := GenerateRefreshToken(cfg, "user-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	// Secrets differ, so a refresh token must never pass the access parser.
	if _, err := ParseAccessToken(cfg, tok); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
