package ports

import (
	"context"

	"github.com/devfolio/portfolio-api/internal/core/domain"
)

// ListUsersFilter carries the pagination parameters for listing users.
type ListUsersFilter struct {
	Page  int // 1-based
	Limit int
}

// UserRepository defines persistence operations for identities.
// Implementations guarantee atomic single-document reads and updates.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error)
	// SetProfileImage stores filename on the user and returns the filename it replaced.
	SetProfileImage(ctx context.Context, id, filename string) (previous string, err error)
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
}
