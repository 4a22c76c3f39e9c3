package ports

import (
	"context"

	"github.com/devfolio/portfolio-api/internal/core/domain"
)

// ListUsersResult is returned by ProfileService.List.
type ListUsersResult struct {
	Items      []*domain.User
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ImageReplacement is the outcome of swapping a profile image.
type ImageReplacement struct {
	Asset *domain.Asset
	User  *domain.User
}

type ProfileService interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	List(ctx context.Context, page, limit int) (*ListUsersResult, error)
	Update(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error)
	ReplaceImage(ctx context.Context, userID string, upload domain.Upload) (*ImageReplacement, error)
}
