package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/suryakv/ecommerce-backend/pkg/config"
)

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "ecommerce-backend",
		ExpirationMinutes: 30,
	}
	now := time.Now().UTC()

	token, err := MintAccessToken(cfg, now, AccessTokenPayload{
		Email: "surya@example.com",
		Role:  "customer",
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if claims.Email != "surya@example.com" {
		t.Fatalf("expected email to round-trip, got %q", claims.Email)
	}
	if claims.Role != "customer" {
		t.Fatalf("unexpected role %q", claims.Role)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("unexpected issuer %q", claims.Issuer)
	}
	if claims.ID == "" {
		t.Fatalf("expected generated jti")
	}
	if !claims.ExpiresAt.After(now) {
		t.Fatalf("expiry should be in the future")
	}
}

func TestMintAccessTokenValidation(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "ecommerce-backend", ExpirationMinutes: 30}

	if _, err := MintAccessToken(config.JWTConfig{Issuer: "x", ExpirationMinutes: 5}, time.Now(), AccessTokenPayload{Email: "a@b.c"}); err == nil {
		t.Fatalf("expected error for missing secret")
	}
	if _, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{Email: "  "}); err == nil || !strings.Contains(err.Error(), "email") {
		t.Fatalf("expected email validation error, got %v", err)
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "ecommerce-backend", ExpirationMinutes: 30}
	token, err := MintAccessToken(cfg, time.Now().UTC(), AccessTokenPayload{Email: "surya@example.com", Role: "admin"})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	cfg.Secret = "other"
	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatalf("expected signature validation failure")
	}
}
