package auth

import (
	"context"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
)

// Token types carried in the "type" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// JWTService defines the interface for issuing and validating account tokens.
type JWTService interface {
	// GenerateToken creates a signed access token for the account.
	GenerateToken(ctx context.Context, accountID int64, role domain.Role) (string, error)

	// ValidateToken verifies an access token and returns its claims.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateRefreshToken creates a signed refresh token for the account.
	// Refresh tokens live longer and can only be exchanged for a new pair.
	GenerateRefreshToken(ctx context.Context, accountID int64, role domain.Role) (string, error)

	// ValidateRefreshToken verifies a refresh token and returns its claims.
	ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error)

	// AccessTokenLifetime reports how long issued access tokens stay valid.
	AccessTokenLifetime() time.Duration
}

// Claims is the validated content of a token.
type Claims struct {
	AccountID int64
	Role      domain.Role
	TokenType string
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}

// Principal returns the caller identity carried by the claims.
func (c *Claims) Principal() Principal {
	return Principal{AccountID: c.AccountID, Role: c.Role, IssuedAt: c.IssuedAt}
}

// Principal is an authenticated caller.
type Principal struct {
	AccountID int64
	Role      domain.Role
	IssuedAt  time.Time
}

// TokenPair is what login and refresh hand back to a client.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// IssueTokenPair generates an access and a refresh token for the same account.
func IssueTokenPair(ctx context.Context, svc JWTService, accountID int64, role domain.Role, now time.Time) (*TokenPair, error) {
	access, err := svc.GenerateToken(ctx, accountID, role)
	if err != nil {
		return nil, err
	}
	refresh, err := svc.GenerateRefreshToken(ctx, accountID, role)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(svc.AccessTokenLifetime()).UTC(),
	}, nil
}
