package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/devfolio/portfolio-api/internal/core/domain"
	"github.com/devfolio/portfolio-api/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type ProfileService struct {
	repo    ports.UserRepository
	assets  ports.AssetStore
	cleaner ports.AssetCleaner
	logger  zerolog.Logger
}

func NewProfileService(repo ports.UserRepository, assets ports.AssetStore, cleaner ports.AssetCleaner, logger zerolog.Logger) *ProfileService {
	return &ProfileService{repo: repo, assets: assets, cleaner: cleaner, logger: logger}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

// List returns a page of users, newest first.
func (s *ProfileService) List(ctx context.Context, page, limit int) (*ports.ListUsersResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	users, total, err := s.repo.List(ctx, ports.ListUsersFilter{Page: page, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListUsersResult{
		Items:      users,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

func (s *ProfileService) Update(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error) {
	if update.Empty() {
		return s.repo.FindByID(ctx, userID)
	}
	return s.repo.UpdateProfile(ctx, userID, update)
}

// ReplaceImage stores a new profile image, points the user at it and schedules
// removal of the image it supersedes.
func (s *ProfileService) ReplaceImage(ctx context.Context, userID string, upload domain.Upload) (*ports.ImageReplacement, error) {
	asset, err := s.assets.Store(ctx, upload, domain.CategoryProfileImage, userID)
	if err != nil {
		return nil, err
	}

	previous, err := s.repo.SetProfileImage(ctx, userID, asset.Filename)
	if err != nil {
		// The record never referenced the new file; remove it now.
		if delErr := s.assets.Delete(ctx, asset.Filename, domain.CategoryProfileImage); delErr != nil {
			s.logger.Warn().Err(delErr).Str("filename", asset.Filename).Msg("failed to remove orphaned profile image")
		}
		return nil, err
	}

	if previous != "" && previous != asset.Filename {
		s.cleaner.Enqueue(domain.AssetRef{Filename: previous, Category: domain.CategoryProfileImage})
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", userID).Str("filename", asset.Filename).Msg("profile image replaced")
	return &ports.ImageReplacement{Asset: asset, User: user}, nil
}
