package account

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/castelan/accountd/src/common/errors"
)

// TokenService handles access token generation and validation
type TokenService struct {
	secretKey     []byte
	issuer        string
	tokenDuration time.Duration
}

// TokenConfig holds token service configuration
type TokenConfig struct {
	Issuer        string
	TokenDuration time.Duration
}

// DefaultTokenConfig returns default token configuration
func DefaultTokenConfig() TokenConfig {
	return TokenConfig{
		Issuer:        "accountd",
		TokenDuration: 24 * time.Hour,
	}
}

// SettingsStore interface for getting/setting persistent settings
type SettingsStore interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
}

// generateSecretKey generates a random 256-bit secret key
func generateSecretKey() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to a default (not recommended for production)
		return "accountd-default-secret-key-change-me"
	}
	return hex.EncodeToString(bytes)
}

// NewTokenService creates a new token service with a persistent secret key.
// The key is generated on first startup and stored in the settings table so
// tokens remain valid across restarts.
func NewTokenService(cfg TokenConfig, settings SettingsStore) *TokenService {
	secretKey, err := settings.GetSetting("jwt_secret")
	if err != nil || secretKey == "" {
		secretKey = generateSecretKey()
		settings.SetSetting("jwt_secret", secretKey)
	}

	return &TokenService{
		secretKey:     []byte(secretKey),
		issuer:        cfg.Issuer,
		tokenDuration: cfg.TokenDuration,
	}
}

// jwtClaims represents the full JWT claims structure
type jwtClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// Claims holds the validated identity carried by an access token
type Claims struct {
	UserID  string
	Email   string
	Role    string
	TokenID string
}

// GenerateToken generates a signed access token for a user
func (s *TokenService) GenerateToken(user *User) (string, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(s.tokenDuration)

	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
		},
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

// ValidateToken validates an access token and returns the claims
func (s *TokenService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.ErrTokenExpired
		}
		return nil, errors.ErrTokenInvalid.WithCause(err)
	}

	claims, ok := token.Claims.(*jwtClaims)
	if !ok || !token.Valid {
		return nil, errors.ErrTokenInvalid
	}

	return &Claims{
		UserID:  claims.UserID,
		Email:   claims.Email,
		Role:    claims.Role,
		TokenID: claims.ID,
	}, nil
}

// TokenDuration returns the configured token lifetime
func (s *TokenService) TokenDuration() time.Duration {
	return s.tokenDuration
}
