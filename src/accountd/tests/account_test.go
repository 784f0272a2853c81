package tests

import (
	"testing"
	"time"

	"github.com/castelan/accountd/src/accountd/account"
	"github.com/castelan/accountd/src/common/errors"
)

// =============================================================================
// Token Service Tests
// =============================================================================

func TestTokenService_GenerateAndValidate(t *testing.T) {
	settings := newMockSettingsStore()
	svc := account.NewTokenService(account.DefaultTokenConfig(), settings)

	user := account.NewUser("token@example.com", "Tok", "hash", account.RoleUser)
	token, err := svc.GenerateToken(user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}

	if claims.UserID != user.ID {
		t.Fatalf("expected user id %q, got %q", user.ID, claims.UserID)
	}
	if claims.Email != user.Email {
		t.Fatalf("expected email %q, got %q", user.Email, claims.Email)
	}
	if claims.Role != account.RoleUser {
		t.Fatalf("expected role %q, got %q", account.RoleUser, claims.Role)
	}
	if claims.TokenID == "" {
		t.Fatal("expected a token id")
	}
}

func TestTokenService_SecretPersistence(t *testing.T) {
	settings := newMockSettingsStore()

	// First service generates and stores the secret
	svc1 := account.NewTokenService(account.DefaultTokenConfig(), settings)
	user := account.NewUser("persist@example.com", "", "hash", account.RoleUser)
	token, err := svc1.GenerateToken(user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if settings.settings["jwt_secret"] == "" {
		t.Fatal("expected secret to be persisted in settings")
	}

	// A second service sharing the same settings accepts the token
	svc2 := account.NewTokenService(account.DefaultTokenConfig(), settings)
	if _, err := svc2.ValidateToken(token); err != nil {
		t.Fatalf("token rejected after service restart: %v", err)
	}
}

func TestTokenService_RejectsTamperedToken(t *testing.T) {
	svc := account.NewTokenService(account.DefaultTokenConfig(), newMockSettingsStore())

	user := account.NewUser("tamper@example.com", "", "hash", account.RoleUser)
	token, err := svc.GenerateToken(user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	tampered := token[:len(token)-4] + "xxxx"
	if _, err := svc.ValidateToken(tampered); !errors.Is(err, errors.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for tampered token, got: %v", err)
	}
}

func TestTokenService_RejectsForeignSecret(t *testing.T) {
	svcA := account.NewTokenService(account.DefaultTokenConfig(), newMockSettingsStore())
	svcB := account.NewTokenService(account.DefaultTokenConfig(), newMockSettingsStore())

	user := account.NewUser("foreign@example.com", "", "hash", account.RoleUser)
	token, err := svcA.GenerateToken(user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := svcB.ValidateToken(token); err == nil {
		t.Fatal("expected token signed by another service to be rejected")
	}
}

func TestTokenService_RejectsExpiredToken(t *testing.T) {
	cfg := account.TokenConfig{
		Issuer:        "accountd",
		TokenDuration: -time.Hour,
	}
	svc := account.NewTokenService(cfg, newMockSettingsStore())

	user := account.NewUser("expired@example.com", "", "hash", account.RoleUser)
	token, err := svc.GenerateToken(user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := svc.ValidateToken(token); !errors.Is(err, errors.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got: %v", err)
	}
}

func TestTokenService_DefaultDuration(t *testing.T) {
	cfg := account.DefaultTokenConfig()
	if cfg.TokenDuration != 24*time.Hour {
		t.Fatalf("expected 24h default token duration, got %v", cfg.TokenDuration)
	}
	if cfg.Issuer != "accountd" {
		t.Fatalf("expected issuer 'accountd', got %q", cfg.Issuer)
	}
}
