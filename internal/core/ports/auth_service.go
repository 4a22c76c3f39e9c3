package ports

import (
	"context"

	"github.com/devfolio/portfolio-api/internal/core/domain"
)

// RegisterInput carries the data needed to create an identity.
type RegisterInput struct {
	Email    string
	Username string
	Password string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *domain.User
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Refresh(ctx context.Context, auth domain.AuthContext) (string, error)
	Logout(ctx context.Context, auth domain.AuthContext) error
}
