package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/devfolio/portfolio-api/internal/core/domain"
	"github.com/devfolio/portfolio-api/internal/core/ports"
)

const bearerPrefix = "Bearer "

// GuardStage names the step of the guard pipeline a request reached.
type GuardStage string

const (
	StageNoToken          GuardStage = "no_token"
	StageTokenExtracted   GuardStage = "token_extracted"
	StageVerified         GuardStage = "verified"
	StageIdentityResolved GuardStage = "identity_resolved"
	StageAttached         GuardStage = "attached"
)

// GuardPolicy parameterises a Guard. The plain, admin and refresh variants
// are policies over the same pipeline.
type GuardPolicy struct {
	Name string
	// IgnoreExpiration accepts expired tokens (refresh flow only).
	IgnoreExpiration bool
	// AllowRefreshTokens admits refresh-typed tokens in addition to access tokens.
	AllowRefreshTokens bool
	// MaxTokenAge bounds how old (by iat) an accepted token may be. Zero disables.
	MaxTokenAge time.Duration
	// Roles is the route's role declaration; empty admits any identity.
	Roles []domain.Role
}

// GuardError is the single rejection type produced by the guard. It unwraps to
// domain.ErrUnauthenticated or domain.ErrForbidden; Reason is for logs only.
type GuardError struct {
	Stage  GuardStage
	Reason error
	kind   error
}

func (e *GuardError) Error() string {
	return fmt.Sprintf("guard rejected at %s: %v", e.Stage, e.Reason)
}

func (e *GuardError) Unwrap() error { return e.kind }

func unauthenticated(stage GuardStage, reason error) *GuardError {
	return &GuardError{Stage: stage, Reason: reason, kind: domain.ErrUnauthenticated}
}

// Guard authenticates a request from its Authorization header and produces
// the AuthContext handlers run with. It never writes anything.
type Guard struct {
	policy     GuardPolicy
	verifier   ports.TokenVerifier
	identities ports.IdentityFinder
	revoked    ports.TokenRevocationStore
	now        func() time.Time
	log        zerolog.Logger
}

// NewGuard builds a guard for policy. revoked may be nil when revocation is
// not configured.
func NewGuard(
	policy GuardPolicy,
	verifier ports.TokenVerifier,
	identities ports.IdentityFinder,
	revoked ports.TokenRevocationStore,
	log zerolog.Logger,
) *Guard {
	if policy.Name == "" {
		policy.Name = "auth"
	}
	return &Guard{
		policy:     policy,
		verifier:   verifier,
		identities: identities,
		revoked:    revoked,
		now:        time.Now,
		log:        log.With().Str("guard", policy.Name).Logger(),
	}
}

// Policy returns the policy the guard was built with.
func (g *Guard) Policy() GuardPolicy {
	return g.policy
}

// Authenticate runs the pipeline for the given Authorization header value.
func (g *Guard) Authenticate(ctx context.Context, authorization string) (domain.AuthContext, error) {
	token, ok := extractBearer(authorization)
	if !ok {
		return domain.AuthContext{}, unauthenticated(StageNoToken, errors.New("missing or malformed authorization header"))
	}

	claims, err := g.verifier.Verify(token, ports.VerifyOptions{IgnoreExpiration: g.policy.IgnoreExpiration})
	if err != nil {
		return domain.AuthContext{}, unauthenticated(StageTokenExtracted, err)
	}
	if claims.Type == domain.TokenRefresh && !g.policy.AllowRefreshTokens {
		return domain.AuthContext{}, unauthenticated(StageTokenExtracted, errors.New("refresh token presented to access guard"))
	}
	if g.policy.MaxTokenAge > 0 && g.now().Sub(claims.IssuedAt) > g.policy.MaxTokenAge {
		return domain.AuthContext{}, unauthenticated(StageTokenExtracted, domain.ErrTokenExpired)
	}
	if err := g.checkRevocation(ctx, claims.TokenID, claims.SessionID); err != nil {
		return domain.AuthContext{}, unauthenticated(StageVerified, err)
	}

	user, err := g.identities.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			err = domain.ErrIdentityNotFound
		}
		return domain.AuthContext{}, unauthenticated(StageVerified, err)
	}

	auth := domain.AuthContext{
		UserID:      user.ID,
		Username:    user.Username,
		Role:        user.Role,
		TokenID:     claims.TokenID,
		TokenExpiry: claims.ExpiresAt,
		SessionID:   claims.SessionID,
	}

	if !Allow(g.policy.Roles, auth) {
		return domain.AuthContext{}, &GuardError{
			Stage:  StageIdentityResolved,
			Reason: fmt.Errorf("role %s not in %v", auth.Role, g.policy.Roles),
			kind:   domain.ErrForbidden,
		}
	}

	return auth, nil
}

// checkRevocation rejects a token when either its own id or its session id
// has been revoked.
func (g *Guard) checkRevocation(ctx context.Context, ids ...string) error {
	if g.revoked == nil {
		return nil
	}
	for _, id := range ids {
		if id == "" {
			continue
		}
		revoked, err := g.revoked.IsRevoked(ctx, id)
		if err != nil {
			g.log.Error().Err(err).Msg("revocation lookup failed, rejecting token")
			return fmt.Errorf("revocation lookup: %w", err)
		}
		if revoked {
			return domain.ErrTokenRevoked
		}
	}
	return nil
}

// extractBearer matches "Bearer <token>" exactly: case-sensitive scheme, one
// space, and a token without whitespace.
func extractBearer(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := header[len(bearerPrefix):]
	if token == "" || strings.ContainsAny(token, " \t\r\n") {
		return "", false
	}
	return token, true
}
