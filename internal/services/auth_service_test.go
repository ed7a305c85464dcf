package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"gorent/internal/models"
	"gorent/pkg/mailer"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

func authFixture(t *testing.T, cacheFake *fakeCache) *authService {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	user := &models.User{
		ID:       primitive.NewObjectID(),
		Email:    "rider@example.com",
		Password: string(hash),
		Role:     models.UserRoleUser,
		Status:   models.UserStatusActive,
	}

	svc := NewAuthService(
		&fakeUserRepo{user: user, byEmail: user},
		cacheFake,
		mailer.NoopMailer{},
		&AuthConfig{
			JWTSecret:        "test-secret",
			MaxLoginAttempts: 5,
			LoginLockoutTime: 15 * time.Minute,
		},
		testLogger(t),
	).(*authService)

	return svc
}

func TestLoginIssuesTokens(t *testing.T) {
	svc := authFixture(t, &fakeCache{})

	response, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "rider@example.com",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if response.AccessToken == "" || response.RefreshToken == "" {
		t.Fatal("expected a token pair")
	}
}

func TestLoginWrongPasswordRejected(t *testing.T) {
	cacheFake := &fakeCache{}
	svc := authFixture(t, cacheFake)

	_, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "rider@example.com",
		Password: "not-it",
	})
	if err == nil {
		t.Fatal("expected wrong password to be rejected")
	}
	if cacheFake.failedLogins != 1 {
		t.Fatalf("expected one recorded miss, got %d", cacheFake.failedLogins)
	}
}

func TestLoginLockoutBlocksCorrectPassword(t *testing.T) {
	// Counter already at the limit: even the right password must wait out
	// the lockout TTL.
	cacheFake := &fakeCache{failedLogins: 5}
	svc := authFixture(t, cacheFake)

	_, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "rider@example.com",
		Password: "s3cret-pass",
	})
	if err == nil {
		t.Fatal("expected the lockout to block the login")
	}
	if !strings.Contains(err.Error(), "too many failed attempts") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoginRepeatedMissesLockTheAccount(t *testing.T) {
	cacheFake := &fakeCache{}
	svc := authFixture(t, cacheFake)

	wrong := &LoginRequest{Email: "rider@example.com", Password: "not-it"}
	for i := 0; i < 5; i++ {
		if _, err := svc.Login(context.Background(), wrong); err == nil {
			t.Fatal("expected wrong password to be rejected")
		}
	}

	_, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "rider@example.com",
		Password: "s3cret-pass",
	})
	if err == nil {
		t.Fatal("expected accumulated misses to lock the account")
	}
}

func TestLoginSuccessResetsCounter(t *testing.T) {
	cacheFake := &fakeCache{failedLogins: 2}
	svc := authFixture(t, cacheFake)

	if _, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "rider@example.com",
		Password: "s3cret-pass",
	}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if cacheFake.failedLogins != 0 {
		t.Fatalf("expected counter reset, got %d", cacheFake.failedLogins)
	}
}
