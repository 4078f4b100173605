package utils

import (
	"testing"
	"time"

	"github.com/xelth-com/jobintake/internal/config"
	"github.com/xelth-com/jobintake/internal/models"
)

func TestPasswordHashing(t *testing.T) {
	password := "secret123"

	// Test Hashing
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	if hash == password {
		t.Error("Hash should not match plaintext password")
	}
	if len(hash) == 0 {
		t.Error("Hash should not be empty")
	}

	if !CheckPasswordHash(password, hash) {
		t.Error("Password should match hash")
	}
	if CheckPasswordHash("wrongpassword", hash) {
		t.Error("Wrong password should not match hash")
	}
}

func TestJWT(t *testing.T) {
	cfg := &config.Config{
		JWTSecret: "test-secret-key-12345",
	}

	user := &models.UserAuth{
		ID:    "uuid-1234",
		Email: "test@example.com",
	}

	accessToken, refreshToken, err := GenerateTokens(user, cfg)
	if err != nil {
		t.Fatalf("Failed to generate tokens: %v", err)
	}
	if accessToken == "" || refreshToken == "" {
		t.Error("Tokens should not be empty")
	}

	claims, err := ValidateToken(accessToken, cfg.JWTSecret)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}

	if claims["id"] != user.ID {
		t.Errorf("Expected user ID %s, got %v", user.ID, claims["id"])
	}
	if claims["email"] != user.Email {
		t.Errorf("Expected email %s, got %v", user.Email, claims["email"])
	}
	if jti, _ := claims["jti"].(string); jti == "" {
		t.Error("Access token should carry a jti")
	}

	refreshClaims, err := ValidateToken(refreshToken, cfg.JWTSecret)
	if err != nil {
		t.Fatalf("Failed to validate refresh token: %v", err)
	}
	if refreshClaims["type"] != PurposeRefresh {
		t.Errorf("Expected refresh type, got %v", refreshClaims["type"])
	}
	if jti, _ := refreshClaims["jti"].(string); jti == "" || jti == claims["jti"] {
		t.Error("Refresh token should carry its own jti")
	}

	// second sign-in gets a distinct token id
	other, _, err := GenerateTokens(user, cfg)
	if err != nil {
		t.Fatalf("Failed to generate tokens: %v", err)
	}
	otherClaims, _ := ValidateToken(other, cfg.JWTSecret)
	if otherClaims["jti"] == claims["jti"] {
		t.Error("Each access token should have its own jti")
	}

	_, err = ValidateToken(accessToken, "wrong-key")
	if err == nil {
		t.Error("Validation should fail with wrong key")
	}
}

func TestActionToken(t *testing.T) {
	secret := "test-secret-key-12345"

	token, err := GenerateActionToken("uuid-1234", PurposeConfirmEmail, time.Hour, secret)
	if err != nil {
		t.Fatalf("Failed to generate action token: %v", err)
	}

	id, err := ValidateActionToken(token, PurposeConfirmEmail, secret)
	if err != nil {
		t.Fatalf("Failed to validate action token: %v", err)
	}
	if id != "uuid-1234" {
		t.Errorf("Expected uuid-1234, got %s", id)
	}

	if _, err := ValidateActionToken(token, PurposeResetPassword, secret); err == nil {
		t.Error("Confirmation token should not pass as reset token")
	}

	expired, _ := GenerateActionToken("uuid-1234", PurposeResetPassword, -time.Minute, secret)
	if _, err := ValidateActionToken(expired, PurposeResetPassword, secret); err == nil {
		t.Error("Expired token should be rejected")
	}
}
