package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/BradenHooton/wikiboard/internal/auth"
	"github.com/BradenHooton/wikiboard/internal/models"
	"github.com/BradenHooton/wikiboard/internal/services"
	pkghttp "github.com/BradenHooton/wikiboard/pkg/http"
)

// AdminService defines the user management operations the HTTP layer needs
type AdminService interface {
	ListUsers(ctx context.Context, actor *models.User, limit, offset int) ([]*models.User, error)
	BanUser(ctx context.Context, actor *models.User, targetID, reason string, until *time.Time) (*models.User, error)
	UnbanUser(ctx context.Context, actor *models.User, targetID string) (*models.User, error)
	DeleteUser(ctx context.Context, actor *models.User, targetID string) error
	SetRole(ctx context.Context, actor *models.User, targetID, role string) (*models.User, error)
	SetBadge(ctx context.Context, actor *models.User, targetID, badge string) (*models.User, error)
	GetDashboardStats(ctx context.Context, actor *models.User) (*services.DashboardStats, error)
}

// AuditReader lists recent audit rows
type AuditReader interface {
	ListRecent(ctx context.Context, filter models.AuditFilter) ([]*models.AuditLog, error)
}

// AdminHandler handles administrator requests. Routes are mounted behind
// RequireCapability; the service checks capabilities again.
type AdminHandler struct {
	service AdminService
	audit   AuditReader
	logger  *slog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(service AdminService, audit AuditReader, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{service: service, audit: audit, logger: logger}
}

// BanUserRequest bans a user. A missing until is a permanent ban.
type BanUserRequest struct {
	Reason string     `json:"reason" validate:"required,min=1,max=500"`
	Until  *time.Time `json:"until"`
}

// SetRoleRequest changes a user's role
type SetRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user moderator admin"`
}

// SetBadgeRequest changes a user's badge
type SetBadgeRequest struct {
	Badge string `json:"badge" validate:"required,oneof=none green_check red_check black_check"`
}

// ListUsersResponse represents a page of users
type ListUsersResponse struct {
	Users []*UserResponse `json:"users"`
	Total int             `json:"total"`
}

// ListAuditLogsResponse represents recent audit rows
type ListAuditLogsResponse struct {
	Logs  []*AuditLogResponse `json:"logs"`
	Total int                 `json:"total"`
}

// ListUsers retrieves users with pagination
//
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := pageParams(w, r)
	if !ok {
		return
	}

	users, err := h.service.ListUsers(r.Context(), auth.CurrentUser(r.Context()), limit, offset)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	out := usersToResponse(users)
	pkghttp.WriteJSON(w, http.StatusOK, &ListUsersResponse{Users: out, Total: len(out)})
}

// BanUser sets a user's ban fields
//
// @Router /admin/users/{id}/ban [post]
func (h *AdminHandler) BanUser(w http.ResponseWriter, r *http.Request) {
	var req BanUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.service.BanUser(r.Context(), auth.CurrentUser(r.Context()), chi.URLParam(r, "id"), req.Reason, req.Until)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, userToResponse(user))
}

// UnbanUser clears a user's ban fields
//
// @Router /admin/users/{id}/unban [post]
func (h *AdminHandler) UnbanUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.UnbanUser(r.Context(), auth.CurrentUser(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, userToResponse(user))
}

// DeleteUser removes a user and everything they own
//
// @Router /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteUser(r.Context(), auth.CurrentUser(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetRole changes a user's role
//
// @Router /admin/users/{id}/role [put]
func (h *AdminHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	var req SetRoleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.service.SetRole(r.Context(), auth.CurrentUser(r.Context()), chi.URLParam(r, "id"), req.Role)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, userToResponse(user))
}

// SetBadge changes a user's badge
//
// @Router /admin/users/{id}/badge [put]
func (h *AdminHandler) SetBadge(w http.ResponseWriter, r *http.Request) {
	var req SetBadgeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.service.SetBadge(r.Context(), auth.CurrentUser(r.Context()), chi.URLParam(r, "id"), req.Badge)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, userToResponse(user))
}

// DashboardStats returns aggregate counts
//
// @Router /admin/dashboard/stats [get]
func (h *AdminHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetDashboardStats(r.Context(), auth.CurrentUser(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, statsToResponse(stats))
}

// ListAuditLogs returns recent audit rows, optionally filtered by ?event_type=
// and ?user_id= (actor or target)
//
// @Router /admin/audit [get]
func (h *AdminHandler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := pageParams(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	logs, err := h.audit.ListRecent(r.Context(), models.AuditFilter{
		EventType: query.Get("event_type"),
		UserID:    query.Get("user_id"),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	resp := &ListAuditLogsResponse{Logs: make([]*AuditLogResponse, len(logs)), Total: len(logs)}
	for i, l := range logs {
		resp.Logs[i] = auditLogToResponse(l)
	}
	pkghttp.WriteJSON(w, http.StatusOK, resp)
}
