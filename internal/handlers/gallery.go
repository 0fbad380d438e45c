package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/BradenHooton/wikiboard/internal/auth"
	"github.com/BradenHooton/wikiboard/internal/models"
	pkghttp "github.com/BradenHooton/wikiboard/pkg/http"
)

// GalleryService defines the gallery operations the HTTP layer needs
type GalleryService interface {
	ListImages(ctx context.Context, userID string) ([]*models.UserImage, error)
	AddImage(ctx context.Context, actor *models.User, imageURL string, fileName *string) (*models.UserImage, error)
	RenameImage(ctx context.Context, actor *models.User, id string, fileName *string) (*models.UserImage, error)
	DeleteImage(ctx context.Context, actor *models.User, id string) error
}

// GalleryHandler handles personal image gallery requests
type GalleryHandler struct {
	service GalleryService
	logger  *slog.Logger
}

func NewGalleryHandler(service GalleryService, logger *slog.Logger) *GalleryHandler {
	return &GalleryHandler{service: service, logger: logger}
}

// AddImageRequest adds an image to the caller's gallery
type AddImageRequest struct {
	ImageURL string  `json:"image_url" validate:"required"`
	FileName *string `json:"file_name" validate:"omitempty,max=255"`
}

// RenameImageRequest changes an image's display name. Null clears it.
type RenameImageRequest struct {
	FileName *string `json:"file_name" validate:"omitempty,max=255"`
}

// ListImagesResponse represents a user's gallery
type ListImagesResponse struct {
	Images []*ImageResponse `json:"images"`
	Total  int              `json:"total"`
}

// ListImages returns a user's gallery
//
// @Router /users/{id}/images [get]
func (h *GalleryHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	images, err := h.service.ListImages(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	resp := &ListImagesResponse{Images: make([]*ImageResponse, len(images)), Total: len(images)}
	for i, img := range images {
		resp.Images[i] = imageToResponse(img)
	}
	pkghttp.WriteJSON(w, http.StatusOK, resp)
}

// AddImage stores a new gallery image for the caller
//
// @Router /images [post]
func (h *GalleryHandler) AddImage(w http.ResponseWriter, r *http.Request) {
	var req AddImageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	img, err := h.service.AddImage(r.Context(), auth.CurrentUser(r.Context()), req.ImageURL, req.FileName)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, imageToResponse(img))
}

// RenameImage updates the file name of one of the caller's images
//
// @Router /images/{id} [put]
func (h *GalleryHandler) RenameImage(w http.ResponseWriter, r *http.Request) {
	var req RenameImageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	img, err := h.service.RenameImage(r.Context(), auth.CurrentUser(r.Context()), chi.URLParam(r, "id"), req.FileName)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, imageToResponse(img))
}

// DeleteImage removes one of the caller's images
//
// @Router /images/{id} [delete]
func (h *GalleryHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteImage(r.Context(), auth.CurrentUser(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
