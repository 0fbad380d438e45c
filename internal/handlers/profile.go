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

// ProfileService defines the profile operations the HTTP layer needs
type ProfileService interface {
	GetProfile(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, current *models.User, name, bio string) (*models.User, error)
	SetAvatar(ctx context.Context, current *models.User, url string) (*models.User, error)
	SetBackground(ctx context.Context, current *models.User, url string) (*models.User, error)
}

// ProfileHandler handles user profile HTTP requests
type ProfileHandler struct {
	service ProfileService
	logger  *slog.Logger
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(service ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{service: service, logger: logger}
}

// UpdateProfileRequest represents the editable profile text
type UpdateProfileRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
	Bio  string `json:"bio" validate:"max=2000"`
}

// ProfileImageRequest sets the avatar or background image. An empty URL clears it.
type ProfileImageRequest struct {
	URL string `json:"url" validate:"max=2048"`
}

// GetProfile returns a user's public profile
//
// @Router /users/{id} [get]
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, profileToResponse(user))
}

// Me returns the authenticated user's full record
//
// @Router /me [get]
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := auth.CurrentUser(r.Context())
	if user == nil {
		pkghttp.WriteUnauthorized(w, "authentication required")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, userToResponse(user))
}

// BanStatus reports the ban decision made for this request. It is reachable
// while banned so clients can explain the restriction.
//
// @Router /me/ban-status [get]
func (h *ProfileHandler) BanStatus(w http.ResponseWriter, r *http.Request) {
	pkghttp.WriteJSON(w, http.StatusOK, banStatusToResponse(auth.BanDecision(r.Context())))
}

// UpdateProfile sets the current user's name and bio
//
// @Router /me/profile [put]
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), auth.CurrentUser(r.Context()), req.Name, req.Bio)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, userToResponse(user))
}

// SetAvatar sets the current user's avatar URL
//
// @Router /me/avatar [put]
func (h *ProfileHandler) SetAvatar(w http.ResponseWriter, r *http.Request) {
	h.setImage(w, r, h.service.SetAvatar)
}

// SetBackground sets the current user's profile background URL
//
// @Router /me/background [put]
func (h *ProfileHandler) SetBackground(w http.ResponseWriter, r *http.Request) {
	h.setImage(w, r, h.service.SetBackground)
}

func (h *ProfileHandler) setImage(
	w http.ResponseWriter,
	r *http.Request,
	set func(ctx context.Context, current *models.User, url string) (*models.User, error),
) {
	var req ProfileImageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := set(r.Context(), auth.CurrentUser(r.Context()), req.URL)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, userToResponse(user))
}
