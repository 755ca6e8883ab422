package auth

import (
	"context"
	"testing"
	"time"

	"github.com/phrazzld/storefront-api/internal/config"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/stretchr/testify/require"
)

// DefaultJWTConfig returns a JWT configuration suitable for tests.
func DefaultJWTConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                   "test-jwt-secret-that-is-32-chars-long",
		TokenLifetimeMinutes:        30,
		RefreshTokenLifetimeMinutes: 1440,
		BcryptCost:                  4,
	}
}

// NewJWTServiceWithClock builds a JWT service whose notion of "now" comes from timeFunc.
func NewJWTServiceWithClock(cfg config.AuthConfig, timeFunc func() time.Time) (JWTService, error) {
	return newHMACJWTService(cfg, timeFunc)
}

// RequireTestJWTService creates a JWT service with DefaultJWTConfig.
func RequireTestJWTService(t *testing.T) JWTService {
	t.Helper()
	svc, err := NewJWTService(DefaultJWTConfig())
	require.NoError(t, err, "Failed to create test JWT service")
	return svc
}

// AuthHeaderForTesting returns a "Bearer <token>" header value for the account.
func AuthHeaderForTesting(t *testing.T, svc JWTService, accountID int64, role domain.Role) string {
	t.Helper()
	token, err := svc.GenerateToken(context.Background(), accountID, role)
	require.NoError(t, err, "Failed to generate auth header")
	return "Bearer " + token
}
