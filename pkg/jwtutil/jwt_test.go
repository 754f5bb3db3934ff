package jwtutil

import (
	"testing"
	"time"
)

func testConfig() *JWTConfig {
	return &JWTConfig{
		SigningKey:        "test-signing-key",
		AccessExpiration:  time.Hour,
		RefreshExpiration: 24 * time.Hour,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	util := NewJWTUtil(testConfig())

	token, err := util.GenerateAccessToken(7, "jane@auca.ac.rw", "LECTURER", "Jane Lecturer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := util.ValidateToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != 7 {
		t.Fatalf("expected user 7, got %d", claims.UserID)
	}
	if claims.Email != "jane@auca.ac.rw" || claims.Role != "LECTURER" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Kind != KindAccess {
		t.Fatalf("expected access kind, got %q", claims.Kind)
	}
}

func TestRefreshTokenKind(t *testing.T) {
	util := NewJWTUtil(testConfig())

	token, err := util.GenerateRefreshToken(7, "jane@auca.ac.rw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := util.ValidateToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Kind != KindRefresh {
		t.Fatalf("expected refresh kind, got %q", claims.Kind)
	}
	// Refresh tokens carry no role, nothing to authorize with directly
	if claims.Role != "" {
		t.Fatalf("expected empty role, got %q", claims.Role)
	}
}

func TestValidateRejectsWrongKey(t *testing.T) {
	util := NewJWTUtil(testConfig())
	other := NewJWTUtil(&JWTConfig{
		SigningKey:        "another-key",
		AccessExpiration:  time.Hour,
		RefreshExpiration: 24 * time.Hour,
	})

	token, err := util.GenerateAccessToken(7, "jane@auca.ac.rw", "LECTURER", "Jane Lecturer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := other.ValidateToken(token); err == nil {
		t.Fatal("expected validation to fail with a different signing key")
	}
}

func TestValidateRejectsExpired(t *testing.T) {
	util := NewJWTUtil(&JWTConfig{
		SigningKey:        "test-signing-key",
		AccessExpiration:  -time.Minute,
		RefreshExpiration: 24 * time.Hour,
	})

	token, err := util.GenerateAccessToken(7, "jane@auca.ac.rw", "LECTURER", "Jane Lecturer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := util.ValidateToken(token); err == nil {
		t.Fatal("expected validation to fail for an expired token")
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	util := NewJWTUtil(testConfig())
	if _, err := util.ValidateToken("not-a-token"); err == nil {
		t.Fatal("expected validation to fail for a malformed token")
	}
}
