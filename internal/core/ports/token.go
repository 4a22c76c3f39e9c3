package ports

import (
	"context"
	"time"

	"github.com/devfolio/portfolio-api/internal/core/domain"
)

// VerifyOptions tunes a single verification call.
type VerifyOptions struct {
	// IgnoreExpiration accepts tokens whose exp is in the past.
	IgnoreExpiration bool
}

// TokenPair is the access/refresh pair minted for one login session.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	SessionID    string
}

// TokenIssuer mints signed tokens for an identity.
type TokenIssuer interface {
	// IssueSession starts a new session and mints both of its tokens.
	IssueSession(user *domain.User) (*TokenPair, error)
	// IssueSessionAccessToken mints an access token inside an existing session.
	IssueSessionAccessToken(user *domain.User, sessionID string) (string, error)
}

// TokenVerifier validates a raw bearer token and returns its claims.
// It fails with domain.ErrInvalidToken or domain.ErrTokenExpired.
type TokenVerifier interface {
	Verify(token string, opts VerifyOptions) (*domain.TokenClaims, error)
}

// TokenRevocationStore remembers token and session ids that must no longer be
// accepted.
type TokenRevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// IdentityFinder is the part of the identity store the access guard needs.
type IdentityFinder interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
