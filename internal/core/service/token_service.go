package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/devfolio/portfolio-api/internal/core/domain"
	"github.com/devfolio/portfolio-api/internal/core/ports"
)

const (
	defaultAccessTTL  = time.Hour
	defaultRefreshTTL = 7 * 24 * time.Hour
)

var errMissingSecret = errors.New("token service: signing secret is required")

// TokenConfig is injected into the token service at construction.
type TokenConfig struct {
	Secret string
	// RefreshSecret signs refresh tokens. Empty means Secret is reused.
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// TokenService issues and verifies HS256 tokens.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

var (
	_ ports.TokenIssuer   = (*TokenService)(nil)
	_ ports.TokenVerifier = (*TokenService)(nil)
)

type tokenClaims struct {
	Username  string           `json:"username"`
	Role      domain.Role      `json:"role"`
	Type      domain.TokenType `json:"typ"`
	SessionID string           `json:"sid,omitempty"`
	jwt.RegisteredClaims
}

// NewTokenService returns an error when no secret is configured; callers treat
// that as fatal at start-up.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, errMissingSecret
	}
	refreshSecret := cfg.RefreshSecret
	if refreshSecret == "" {
		refreshSecret = cfg.Secret
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = defaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = defaultRefreshTTL
	}
	return &TokenService{
		accessSecret:  []byte(cfg.Secret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           time.Now,
	}, nil
}

// RefreshTTL is the maximum lifetime of any credential this service issues.
func (s *TokenService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

// IssueSession mints an access/refresh pair bound to a fresh session id.
func (s *TokenService) IssueSession(user *domain.User) (*ports.TokenPair, error) {
	sid := uuid.NewString()
	access, err := s.issue(user, domain.TokenAccess, sid)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issue(user, domain.TokenRefresh, sid)
	if err != nil {
		return nil, err
	}
	return &ports.TokenPair{AccessToken: access, RefreshToken: refresh, SessionID: sid}, nil
}

// IssueSessionAccessToken mints an access token for sessionID. An empty id
// starts a new session.
func (s *TokenService) IssueSessionAccessToken(user *domain.User, sessionID string) (string, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	return s.issue(user, domain.TokenAccess, sessionID)
}

// IssueAccessToken mints a standalone access token in its own session.
func (s *TokenService) IssueAccessToken(user *domain.User) (string, error) {
	return s.issue(user, domain.TokenAccess, uuid.NewString())
}

// IssueRefreshToken mints a standalone refresh token in its own session.
func (s *TokenService) IssueRefreshToken(user *domain.User) (string, error) {
	return s.issue(user, domain.TokenRefresh, uuid.NewString())
}

func (s *TokenService) issue(user *domain.User, typ domain.TokenType, sessionID string) (string, error) {
	ttl, secret := s.accessTTL, s.accessSecret
	if typ == domain.TokenRefresh {
		ttl, secret = s.refreshTTL, s.refreshSecret
	}
	now := s.now().UTC()
	claims := tokenClaims{
		Username:  user.Username,
		Role:      user.Role,
		Type:      typ,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, nil
}

// Verify checks signature and, unless opts.IgnoreExpiration is set, expiry.
func (s *TokenService) Verify(token string, opts ports.VerifyOptions) (*domain.TokenClaims, error) {
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if opts.IgnoreExpiration {
		parserOpts = append(parserOpts, jwt.WithoutClaimsValidation())
	}

	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, s.keyFor, parserOpts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, domain.ErrInvalidToken
	}
	if claims.Type != domain.TokenAccess && claims.Type != domain.TokenRefresh {
		return nil, domain.ErrInvalidToken
	}

	out := &domain.TokenClaims{
		Subject:   claims.Subject,
		Username:  claims.Username,
		Role:      claims.Role,
		Type:      claims.Type,
		TokenID:   claims.ID,
		SessionID: claims.SessionID,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// keyFor selects the secret from the still unverified typ claim.
func (s *TokenService) keyFor(token *jwt.Token) (interface{}, error) {
	claims, ok := token.Claims.(*tokenClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Type == domain.TokenRefresh {
		return s.refreshSecret, nil
	}
	return s.accessSecret, nil
}
