package auth

import (
	"errors"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	adminID := uuid.New()

	token, err := GenerateToken(NewClaims(adminID, "alice", time.Hour), secret)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	claims, err := ParseToken(token, secret)
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}

	if claims.Username != "alice" {
		t.Fatalf("expected username alice, got %q", claims.Username)
	}

	got, err := claims.AdminUUID()
	if err != nil {
		t.Fatalf("failed to parse admin id: %v", err)
	}
	if got != adminID {
		t.Fatalf("expected admin id %s, got %s", adminID, got)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken(NewClaims(uuid.New(), "alice", time.Hour), []byte("right"))
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := ParseToken(token, []byte("wrong")); err == nil {
		t.Fatal("expected verification to fail with wrong secret")
	}
}

func TestParseToken_Expired(t *testing.T) {
	token, err := GenerateToken(NewClaims(uuid.New(), "alice", -time.Minute), []byte("secret"))
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	_, err = ParseToken(token, []byte("secret"))
	if err == nil {
		t.Fatal("expected expired token to be rejected")
	}
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected token-expired error, got %v", err)
	}
}
