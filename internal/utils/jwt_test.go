package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func TestTokenRoundTrip(t *testing.T) {
	userID := primitive.NewObjectID()

	pair, err := GenerateTokenPair(userID, "admin", "admin@example.com", testSecret)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	claims, err := ValidateToken(pair.AccessToken, testSecret)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("user id mismatch: %s", claims.UserID.Hex())
	}
	if claims.Role != "admin" {
		t.Fatalf("role mismatch: %s", claims.Role)
	}
}

func TestExpiredTokenError(t *testing.T) {
	claims := &JWTClaims{
		UserID: primitive.NewObjectID(),
		Role:   "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}

	_, err = ValidateToken(signed, testSecret)
	if err != ErrExpiredToken {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
	// The message is part of the API contract with the web client.
	if err.Error() != "Token expired" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestWrongSecretRejected(t *testing.T) {
	pair, err := GenerateTokenPair(primitive.NewObjectID(), "user", "u@example.com", testSecret)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	if _, err := ValidateToken(pair.AccessToken, "other-secret"); err == nil {
		t.Fatal("token signed with another secret must be rejected")
	}
}
