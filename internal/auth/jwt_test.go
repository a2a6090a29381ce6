package auth

import (
	"testing"
)

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewJWTService("test-secret", "helldivers2-gaming-website")

	token, err := svc.GenerateToken("123456789", "Alpha", true)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}

	if claims.UserID != "123456789" {
		t.Errorf("expected user id 123456789, got %s", claims.UserID)
	}
	if claims.Username != "Alpha" {
		t.Errorf("expected username Alpha, got %s", claims.Username)
	}
	if !claims.IsAdmin {
		t.Error("expected admin claim")
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	minted := NewJWTService("secret-a", "site")
	verifier := NewJWTService("secret-b", "site")

	token, err := minted.GenerateToken("1", "Alpha", false)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := verifier.ValidateToken(token); err == nil {
		t.Error("expected validation failure with mismatched secret")
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := NewJWTService("test-secret", "site")
	if _, err := svc.ValidateToken("not.a.token"); err == nil {
		t.Error("expected error for malformed token")
	}
}
