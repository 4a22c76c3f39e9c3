package domain

import "time"

// TokenType distinguishes short-lived access tokens from refresh tokens.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// TokenClaims is the decoded payload of a signed token. It is never persisted.
type TokenClaims struct {
	Subject   string
	Username  string
	Role      Role
	Type      TokenType
	TokenID   string
	SessionID string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// AuthContext is the identity attached to a single request once the access
// guard has resolved it. Handlers receive it by value.
type AuthContext struct {
	UserID   string
	Username string
	Role     Role

	// TokenID and TokenExpiry identify the credential that authenticated the
	// request, so it can be revoked on logout.
	TokenID     string
	TokenExpiry time.Time
	// SessionID is shared by the access/refresh pair minted at login.
	SessionID string
}
