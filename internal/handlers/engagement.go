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

// EngagementService defines the comment and like operations the HTTP layer needs
type EngagementService interface {
	AddComment(ctx context.Context, actor *models.User, entryID, token, content string) (*models.Comment, error)
	ListComments(ctx context.Context, requester *models.User, entryID, token string) ([]*models.Comment, error)
	DeleteComment(ctx context.Context, actor *models.User, id string) error
	LikeEntry(ctx context.Context, actor *models.User, entryID, token string) (int64, error)
	UnlikeEntry(ctx context.Context, actor *models.User, entryID string) (int64, error)
}

// EngagementHandler handles comments and likes
type EngagementHandler struct {
	service EngagementService
	logger  *slog.Logger
}

func NewEngagementHandler(service EngagementService, logger *slog.Logger) *EngagementHandler {
	return &EngagementHandler{service: service, logger: logger}
}

// AddCommentRequest represents a new comment
type AddCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=5000"`
}

// ListCommentsResponse represents an entry's comments
type ListCommentsResponse struct {
	Comments []*CommentResponse `json:"comments"`
	Total    int                `json:"total"`
}

// ListComments returns comments on an entry the caller may see
//
// @Router /entries/{id}/comments [get]
func (h *EngagementHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.service.ListComments(r.Context(), auth.CurrentUser(r.Context()), chi.URLParam(r, "id"), r.URL.Query().Get("token"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	resp := &ListCommentsResponse{Comments: make([]*CommentResponse, len(comments)), Total: len(comments)}
	for i, c := range comments {
		resp.Comments[i] = commentToResponse(c)
	}
	pkghttp.WriteJSON(w, http.StatusOK, resp)
}

// AddComment comments on an entry the caller may see
//
// @Router /entries/{id}/comments [post]
func (h *EngagementHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req AddCommentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	comment, err := h.service.AddComment(r.Context(), auth.CurrentUser(r.Context()), chi.URLParam(r, "id"), r.URL.Query().Get("token"), req.Content)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, commentToResponse(comment))
}

// DeleteComment removes a comment; its author or a moderator only
//
// @Router /comments/{id} [delete]
func (h *EngagementHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteComment(r.Context(), auth.CurrentUser(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LikeEntry likes an entry once per user
//
// @Router /entries/{id}/like [post]
func (h *EngagementHandler) LikeEntry(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "id")
	count, err := h.service.LikeEntry(r.Context(), auth.CurrentUser(r.Context()), entryID, r.URL.Query().Get("token"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, &LikeCountResponse{EntryID: entryID, LikeCount: count})
}

// UnlikeEntry removes the caller's like
//
// @Router /entries/{id}/like [delete]
func (h *EngagementHandler) UnlikeEntry(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "id")
	count, err := h.service.UnlikeEntry(r.Context(), auth.CurrentUser(r.Context()), entryID)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, &LikeCountResponse{EntryID: entryID, LikeCount: count})
}
