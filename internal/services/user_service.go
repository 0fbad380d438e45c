package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/BradenHooton/wikiboard/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	Upsert(ctx context.Context, identity models.Identity) (*models.User, error)
	UpdateProfile(ctx context.Context, id, name, bio string) (*models.User, error)
	UpdateAvatar(ctx context.Context, id, url string) (*models.User, error)
	UpdateBackground(ctx context.Context, id, url string) (*models.User, error)
}

// UserService handles user business logic
type UserService struct {
	repo   UserRepository
	logger *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(repo UserRepository, logger *slog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		logger: logger,
	}
}

// SyncIdentity records a verified identity and returns the stored user with
// its local role, badge and ban fields.
func (s *UserService) SyncIdentity(ctx context.Context, identity models.Identity) (*models.User, error) {
	if identity.Subject == "" {
		return nil, models.ErrUnauthorized
	}

	user, err := s.repo.Upsert(ctx, identity)
	if err != nil {
		return nil, storeError(ctx, s.logger, "failed to sync identity", err,
			slog.String("user_id", identity.Subject))
	}

	return user, nil
}

// GetProfile retrieves a user by ID
func (s *UserService) GetProfile(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.InfoContext(ctx, "user not found", slog.String("user_id", id))
			return nil, models.ErrNotFound
		}
		return nil, storeError(ctx, s.logger, "failed to get user", err, slog.String("user_id", id))
	}

	return user, nil
}

// UpdateProfile sets the caller's display name and bio
func (s *UserService) UpdateProfile(ctx context.Context, current *models.User, name, bio string) (*models.User, error) {
	if current == nil {
		return nil, models.ErrUnauthorized
	}

	user, err := s.repo.UpdateProfile(ctx, current.ID, name, bio)
	if err != nil {
		return nil, storeError(ctx, s.logger, "failed to update profile", err, slog.String("user_id", current.ID))
	}

	s.logger.InfoContext(ctx, "profile updated", slog.String("user_id", current.ID))
	return user, nil
}

// SetAvatar replaces the caller's avatar. An empty url clears it.
func (s *UserService) SetAvatar(ctx context.Context, current *models.User, url string) (*models.User, error) {
	if current == nil {
		return nil, models.ErrUnauthorized
	}

	user, err := s.repo.UpdateAvatar(ctx, current.ID, url)
	if err != nil {
		return nil, storeError(ctx, s.logger, "failed to update avatar", err, slog.String("user_id", current.ID))
	}

	return user, nil
}

// SetBackground replaces the caller's profile background. An empty url clears it.
func (s *UserService) SetBackground(ctx context.Context, current *models.User, url string) (*models.User, error) {
	if current == nil {
		return nil, models.ErrUnauthorized
	}

	user, err := s.repo.UpdateBackground(ctx, current.ID, url)
	if err != nil {
		return nil, storeError(ctx, s.logger, "failed to update background", err, slog.String("user_id", current.ID))
	}

	return user, nil
}
