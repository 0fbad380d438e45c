package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/BradenHooton/wikiboard/internal/auth"
	"github.com/BradenHooton/wikiboard/internal/models"
	"github.com/BradenHooton/wikiboard/internal/services"
	pkghttp "github.com/BradenHooton/wikiboard/pkg/http"
)

// EntryService defines the entry operations the HTTP layer needs
type EntryService interface {
	CreateEntry(ctx context.Context, actor *models.User, in services.CreateEntryInput) (*models.WikiEntry, error)
	GetEntry(ctx context.Context, requester *models.User, id, token string) (*models.EntryView, error)
	ListApproved(ctx context.Context, limit, offset int) ([]*models.EntryView, error)
	ListByUser(ctx context.Context, requester *models.User, userID string, limit, offset int) ([]*models.EntryView, error)
	ListModerationQueue(ctx context.Context, actor *models.User, status string, limit, offset int) ([]*models.EntryView, error)
	UpdateEntry(ctx context.Context, actor *models.User, id string, patch models.EntryPatch) (*models.WikiEntry, error)
	DeleteEntry(ctx context.Context, actor *models.User, id string) error
	ModerateEntry(ctx context.Context, actor *models.User, id, status string) (*models.WikiEntry, error)
	SetVerification(ctx context.Context, actor *models.User, id, verification string) (*models.WikiEntry, error)
}

// EntryHandler handles wiki entry HTTP requests
type EntryHandler struct {
	service EntryService
	logger  *slog.Logger
}

// NewEntryHandler creates a new EntryHandler
func NewEntryHandler(service EntryService, logger *slog.Logger) *EntryHandler {
	return &EntryHandler{service: service, logger: logger}
}

// CreateEntryRequest represents the request body for creating an entry.
// Status and verification are read so that clients echoing a full entry are
// not rejected, then dropped: a new entry is always pending.
type CreateEntryRequest struct {
	Title        string          `json:"title" validate:"required,min=1,max=200"`
	Description  string          `json:"description" validate:"max=20000"`
	ImageURL     *string         `json:"image_url" validate:"omitempty,max=2048"`
	IsSpecial    bool            `json:"is_special"`
	Status       json.RawMessage `json:"status"`
	Verification json.RawMessage `json:"verification"`
}

// UpdateEntryRequest represents an owner edit. Absent fields are unchanged
// and an empty image_url removes the image. Status and verification are
// ignored; only moderators change them.
type UpdateEntryRequest struct {
	Title        *string         `json:"title" validate:"omitempty,min=1,max=200"`
	Description  *string         `json:"description" validate:"omitempty,max=20000"`
	ImageURL     *string         `json:"image_url" validate:"omitempty,max=2048"`
	IsSpecial    *bool           `json:"is_special"`
	Status       json.RawMessage `json:"status"`
	Verification json.RawMessage `json:"verification"`
}

// ListEntriesResponse represents a page of entries
type ListEntriesResponse struct {
	Entries []*EntryResponse `json:"entries"`
	Total   int              `json:"total"`
}

func newListEntriesResponse(views []*models.EntryView, viewer *models.User) *ListEntriesResponse {
	entries := entryViewsToResponse(views, viewer)
	return &ListEntriesResponse{Entries: entries, Total: len(entries)}
}

// ListEntries returns approved, non-special entries
//
// @Router /entries [get]
func (h *EntryHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := pageParams(w, r)
	if !ok {
		return
	}

	views, err := h.service.ListApproved(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, newListEntriesResponse(views, auth.CurrentUser(r.Context())))
}

// GetEntry returns a single entry subject to the visibility rule. The
// special-post token is read from the token query parameter.
//
// @Router /entries/{id} [get]
// @Router /special/{id} [get]
func (h *EntryHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	viewer := auth.CurrentUser(r.Context())

	view, err := h.service.GetEntry(r.Context(), viewer, id, r.URL.Query().Get("token"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, entryViewToResponse(view, viewer))
}

// ListUserEntries returns a user's entries. Owners see all of their own.
//
// @Router /users/{id}/entries [get]
func (h *EntryHandler) ListUserEntries(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := pageParams(w, r)
	if !ok {
		return
	}
	viewer := auth.CurrentUser(r.Context())

	views, err := h.service.ListByUser(r.Context(), viewer, chi.URLParam(r, "id"), limit, offset)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, newListEntriesResponse(views, viewer))
}

// CreateEntry stores a new entry in pending status
//
// @Router /entries [post]
func (h *EntryHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req CreateEntryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	actor := auth.CurrentUser(r.Context())

	entry, err := h.service.CreateEntry(r.Context(), actor, services.CreateEntryInput{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		IsSpecial:   req.IsSpecial,
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, entryToResponse(entry, actor))
}

// UpdateEntry applies an owner edit, which always returns the entry to pending
//
// @Router /entries/{id} [put]
func (h *EntryHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	var req UpdateEntryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	actor := auth.CurrentUser(r.Context())

	entry, err := h.service.UpdateEntry(r.Context(), actor, chi.URLParam(r, "id"), models.EntryPatch{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		IsSpecial:   req.IsSpecial,
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, entryToResponse(entry, actor))
}

// DeleteEntry removes an entry; owner or admin only
//
// @Router /entries/{id} [delete]
func (h *EntryHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteEntry(r.Context(), auth.CurrentUser(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
