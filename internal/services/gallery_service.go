package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/BradenHooton/wikiboard/internal/models"
)

// ImageRepository defines gallery persistence
type ImageRepository interface {
	Create(ctx context.Context, img *models.UserImage) (*models.UserImage, error)
	GetByID(ctx context.Context, id string) (*models.UserImage, error)
	ListByUser(ctx context.Context, userID string) ([]*models.UserImage, error)
	Rename(ctx context.Context, id, userID string, fileName *string) (*models.UserImage, error)
	DeleteOwned(ctx context.Context, id, userID string) (bool, error)
}

// GalleryService manages per-user image galleries
type GalleryService struct {
	repo   ImageRepository
	logger *slog.Logger
}

func NewGalleryService(repo ImageRepository, logger *slog.Logger) *GalleryService {
	return &GalleryService{repo: repo, logger: logger}
}

func (s *GalleryService) ListImages(ctx context.Context, userID string) ([]*models.UserImage, error) {
	images, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeError(ctx, s.logger, "failed to list images", err, slog.String("user_id", userID))
	}
	return images, nil
}

// AddImage stores an image URL (or data URL) in actor's gallery.
func (s *GalleryService) AddImage(ctx context.Context, actor *models.User, imageURL string, fileName *string) (*models.UserImage, error) {
	if actor == nil {
		return nil, models.ErrUnauthorized
	}
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return nil, models.NewValidationError("image_url", "")
	}

	img, err := s.repo.Create(ctx, &models.UserImage{
		UserID:   actor.ID,
		ImageURL: imageURL,
		FileName: fileName,
	})
	if err != nil {
		return nil, storeError(ctx, s.logger, "failed to add image", err, slog.String("user_id", actor.ID))
	}

	return img, nil
}

// RenameImage sets the file name of one of actor's images.
func (s *GalleryService) RenameImage(ctx context.Context, actor *models.User, id string, fileName *string) (*models.UserImage, error) {
	if actor == nil {
		return nil, models.ErrUnauthorized
	}

	img, err := s.repo.Rename(ctx, id, actor.ID, fileName)
	if err == nil {
		return img, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, storeError(ctx, s.logger, "failed to rename image", err, slog.String("image_id", id))
	}

	return nil, s.missOrForbidden(ctx, id)
}

// DeleteImage removes one of actor's images. Ownership is enforced by the
// delete statement itself.
func (s *GalleryService) DeleteImage(ctx context.Context, actor *models.User, id string) error {
	if actor == nil {
		return models.ErrUnauthorized
	}

	removed, err := s.repo.DeleteOwned(ctx, id, actor.ID)
	if err != nil {
		return storeError(ctx, s.logger, "failed to delete image", err, slog.String("image_id", id))
	}
	if removed {
		return nil
	}

	return s.missOrForbidden(ctx, id)
}

// missOrForbidden distinguishes an absent image from someone else's.
func (s *GalleryService) missOrForbidden(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return storeError(ctx, s.logger, "failed to get image", err, slog.String("image_id", id))
	}
	return models.ErrForbidden
}
