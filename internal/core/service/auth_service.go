package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/devfolio/portfolio-api/internal/core/domain"
	"github.com/devfolio/portfolio-api/internal/core/ports"
)

const minPasswordLength = 8

// AuthService implements registration, login, refresh and logout.
type AuthService struct {
	repo    ports.UserRepository
	tokens  ports.TokenIssuer
	revoked ports.TokenRevocationStore
	maxTTL  time.Duration
	logger  zerolog.Logger
	now     func() time.Time
}

// NewAuthService wires the service. revoked may be nil, in which case logout
// only succeeds without revoking anything. maxTTL bounds revocation entries.
func NewAuthService(
	repo ports.UserRepository,
	tokens ports.TokenIssuer,
	revoked ports.TokenRevocationStore,
	maxTTL time.Duration,
	logger zerolog.Logger,
) *AuthService {
	if maxTTL <= 0 {
		maxTTL = defaultRefreshTTL
	}
	return &AuthService{
		repo:    repo,
		tokens:  tokens,
		revoked: revoked,
		maxTTL:  maxTTL,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	return s.create(ctx, input, domain.RoleUser)
}

func (s *AuthService) create(ctx context.Context, input ports.RegisterInput, role domain.Role) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.TrimSpace(input.Username)
	if email == "" || username == "" || len(input.Password) < minPasswordLength {
		return nil, domain.ErrValidation
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.ErrValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", created.ID).Str("role", string(role)).Msg("user registered")
	return created, nil
}

// Login answers ErrInvalidCredentials for both unknown emails and wrong
// passwords so callers cannot probe which accounts exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	pair, err := s.tokens.IssueSession(user)
	if err != nil {
		return nil, err
	}

	return &ports.LoginResult{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken, User: user}, nil
}

// Refresh mints a new access token for an identity already resolved by the
// refresh guard. The token stays in the refresh token's session.
func (s *AuthService) Refresh(ctx context.Context, auth domain.AuthContext) (string, error) {
	user, err := s.repo.FindByID(ctx, auth.UserID)
	if err != nil {
		return "", err
	}
	return s.tokens.IssueSessionAccessToken(user, auth.SessionID)
}

// Logout revokes the credential that authenticated the request and the
// session it belongs to, which also retires the session's refresh token.
func (s *AuthService) Logout(ctx context.Context, auth domain.AuthContext) error {
	if s.revoked == nil {
		return nil
	}
	ttl := s.maxTTL
	if !auth.TokenExpiry.IsZero() {
		if remaining := auth.TokenExpiry.Sub(s.now()); remaining > ttl {
			ttl = remaining
		}
	}
	for _, id := range []string{auth.TokenID, auth.SessionID} {
		if id == "" {
			continue
		}
		if err := s.revoked.Revoke(ctx, id, ttl); err != nil {
			return err
		}
	}
	s.logger.Info().Str("user_id", auth.UserID).Str("session_id", auth.SessionID).Msg("session revoked")
	return nil
}

// EnsureAdmin seeds an administrator unless an account with that email exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, input ports.RegisterInput) error {
	_, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}
	if _, err := s.create(ctx, input, domain.RoleAdmin); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil
		}
		return err
	}
	return nil
}
