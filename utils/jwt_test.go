package utils

import "testing"

const testSecret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(testSecret, "abc123", "member")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ParseToken(testSecret, token, "access")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if claims.UserID != "abc123" {
		t.Errorf("user id: got %q, want %q", claims.UserID, "abc123")
	}
	if claims.Role != "member" {
		t.Errorf("role: got %q, want %q", claims.Role, "member")
	}
	if claims.Type != "access" {
		t.Errorf("type: got %q, want %q", claims.Type, "access")
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(testSecret, "abc123", "user")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := ParseToken("another-secret", token, "access"); err == nil {
		t.Error("token signed with a different secret was accepted")
	}
}

func TestRefreshTokenNotUsableAsAccess(t *testing.T) {
	token, err := GenerateRefreshToken(testSecret, "abc123", "user")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := ParseToken(testSecret, token, "access"); err == nil {
		t.Error("refresh token was accepted where an access token is required")
	}
	if _, err := ParseToken(testSecret, token, "refresh"); err != nil {
		t.Errorf("refresh token rejected as refresh: %v", err)
	}
}

func TestParseTokenGarbage(t *testing.T) {
	if _, err := ParseToken(testSecret, "not.a.token", "access"); err == nil {
		t.Error("garbage token was accepted")
	}
}
