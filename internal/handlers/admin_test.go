package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BradenHooton/wikiboard/internal/handlers"
	"github.com/BradenHooton/wikiboard/internal/models"
	"github.com/BradenHooton/wikiboard/internal/services"
)

func adminRequest(t *testing.T, method, url, id string, body interface{}) *http.Request {
	req := handlers.NewTestRequest(t, method, url, body)
	if id != "" {
		req = handlers.WithChiRouteContext(req, map[string]string{"id": id})
	}
	return handlers.WithUserContext(req, handlers.NewTestUser("admin1", models.RoleAdmin))
}

func TestBanUser_Timed(t *testing.T) {
	var gotUntil *time.Time
	mock := &handlers.MockAdminService{
		BanUserFunc: func(ctx context.Context, actor *models.User, targetID, reason string, until *time.Time) (*models.User, error) {
			assert.Equal(t, "u1", targetID)
			assert.Equal(t, "spam", reason)
			gotUntil = until
			u := handlers.NewTestUser(targetID, models.RoleUser)
			u.IsBanned = true
			u.BanReason = &reason
			u.BannedUntil = until
			return u, nil
		},
	}
	h := handlers.NewAdminHandler(mock, &handlers.MockAuditReader{}, handlers.NewTestLogger())

	req := adminRequest(t, http.MethodPost, "/admin/users/u1/ban", "u1", map[string]string{
		"reason": "spam",
		"until":  "2026-03-02T12:00:00Z",
	})
	w := httptest.NewRecorder()
	h.BanUser(w, req)

	var resp handlers.UserResponse
	handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
	require.NotNil(t, gotUntil)
	assert.True(t, gotUntil.Equal(time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)))
	assert.True(t, resp.IsBanned)
	require.NotNil(t, resp.BannedUntil)
	assert.Equal(t, "2026-03-02T12:00:00Z", *resp.BannedUntil)
}

func TestBanUser_PermanentWhenUntilOmitted(t *testing.T) {
	mock := &handlers.MockAdminService{
		BanUserFunc: func(ctx context.Context, actor *models.User, targetID, reason string, until *time.Time) (*models.User, error) {
			assert.Nil(t, until)
			u := handlers.NewTestUser(targetID, models.RoleUser)
			u.IsBanned = true
			return u, nil
		},
	}
	h := handlers.NewAdminHandler(mock, &handlers.MockAuditReader{}, handlers.NewTestLogger())

	w := httptest.NewRecorder()
	h.BanUser(w, adminRequest(t, http.MethodPost, "/admin/users/u1/ban", "u1", map[string]string{"reason": "abuse"}))

	var resp handlers.UserResponse
	handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Nil(t, resp.BannedUntil)
}

func TestBanUser_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{name: "missing reason", body: map[string]string{}, wantStatus: http.StatusBadRequest, wantCode: "validation_error"},
		{name: "bad time", body: map[string]string{"reason": "x", "until": "tomorrow"}, wantStatus: http.StatusBadRequest, wantCode: "validation_error"},
		{name: "past until", body: map[string]string{"reason": "x"}, serviceErr: models.NewValidationError("until", "2020-01-01T00:00:00Z"), wantStatus: http.StatusBadRequest, wantCode: "validation_error"},
		{name: "self ban", body: map[string]string{"reason": "x"}, serviceErr: models.ErrForbidden, wantStatus: http.StatusForbidden, wantCode: "forbidden"},
		{name: "unknown user", body: map[string]string{"reason": "x"}, serviceErr: models.ErrNotFound, wantStatus: http.StatusNotFound, wantCode: "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &handlers.MockAdminService{
				BanUserFunc: func(ctx context.Context, actor *models.User, targetID, reason string, until *time.Time) (*models.User, error) {
					return nil, tt.serviceErr
				},
			}
			h := handlers.NewAdminHandler(mock, &handlers.MockAuditReader{}, handlers.NewTestLogger())

			w := httptest.NewRecorder()
			h.BanUser(w, adminRequest(t, http.MethodPost, "/admin/users/u1/ban", "u1", tt.body))

			handlers.AssertErrorResponse(t, w, tt.wantStatus, tt.wantCode)
		})
	}
}

func TestUnbanAndDeleteUser(t *testing.T) {
	mock := &handlers.MockAdminService{
		UnbanUserFunc: func(ctx context.Context, actor *models.User, targetID string) (*models.User, error) {
			return handlers.NewTestUser(targetID, models.RoleUser), nil
		},
		DeleteUserFunc: func(ctx context.Context, actor *models.User, targetID string) error {
			assert.Equal(t, "u1", targetID)
			return nil
		},
	}
	h := handlers.NewAdminHandler(mock, &handlers.MockAuditReader{}, handlers.NewTestLogger())

	w := httptest.NewRecorder()
	h.UnbanUser(w, adminRequest(t, http.MethodPost, "/admin/users/u1/unban", "u1", nil))
	var resp handlers.UserResponse
	handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.False(t, resp.IsBanned)

	w = httptest.NewRecorder()
	h.DeleteUser(w, adminRequest(t, http.MethodDelete, "/admin/users/u1", "u1", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSetRoleAndBadge_Validation(t *testing.T) {
	mock := &handlers.MockAdminService{
		SetRoleFunc: func(ctx context.Context, actor *models.User, targetID, role string) (*models.User, error) {
			return handlers.NewTestUser(targetID, role), nil
		},
		SetBadgeFunc: func(ctx context.Context, actor *models.User, targetID, badge string) (*models.User, error) {
			u := handlers.NewTestUser(targetID, models.RoleUser)
			u.Badge = badge
			return u, nil
		},
	}
	h := handlers.NewAdminHandler(mock, &handlers.MockAuditReader{}, handlers.NewTestLogger())

	w := httptest.NewRecorder()
	h.SetRole(w, adminRequest(t, http.MethodPut, "/admin/users/u1/role", "u1", map[string]string{"role": "moderator"}))
	var resp handlers.UserResponse
	handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, models.RoleModerator, resp.Role)

	w = httptest.NewRecorder()
	h.SetRole(w, adminRequest(t, http.MethodPut, "/admin/users/u1/role", "u1", map[string]string{"role": "owner"}))
	handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "validation_error")

	w = httptest.NewRecorder()
	h.SetBadge(w, adminRequest(t, http.MethodPut, "/admin/users/u1/badge", "u1", map[string]string{"badge": "red_check"}))
	handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, models.BadgeRedCheck, resp.Badge)

	w = httptest.NewRecorder()
	h.SetBadge(w, adminRequest(t, http.MethodPut, "/admin/users/u1/badge", "u1", map[string]string{"badge": "gold"}))
	handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "validation_error")
}

func TestDashboardStats(t *testing.T) {
	mock := &handlers.MockAdminService{
		GetDashboardStatsFunc: func(ctx context.Context, actor *models.User) (*services.DashboardStats, error) {
			return &services.DashboardStats{
				TotalUsers:      10,
				BannedUsers:     2,
				EntriesByStatus: map[models.EntryStatus]int64{models.EntryStatusPending: 4, models.EntryStatusApproved: 6},
				OpenReports:     3,
			}, nil
		},
	}
	h := handlers.NewAdminHandler(mock, &handlers.MockAuditReader{}, handlers.NewTestLogger())

	w := httptest.NewRecorder()
	h.DashboardStats(w, adminRequest(t, http.MethodGet, "/admin/dashboard/stats", "", nil))

	var resp handlers.DashboardStatsResponse
	handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, int64(10), resp.TotalUsers)
	assert.Equal(t, int64(2), resp.BannedUsers)
	assert.Equal(t, int64(4), resp.EntriesByStatus["pending"])
	assert.Equal(t, int64(3), resp.OpenReports)
}

func TestListAuditLogs(t *testing.T) {
	actor := "admin1"
	audit := &handlers.MockAuditReader{
		ListRecentFunc: func(ctx context.Context, filter models.AuditFilter) ([]*models.AuditLog, error) {
			assert.Equal(t, models.AuditEventTypeBan, filter.EventType)
			assert.Equal(t, "u9", filter.UserID)
			assert.Equal(t, 5, filter.Limit)
			return []*models.AuditLog{{
				ID:        uuid.New(),
				EventType: models.AuditEventTypeBan,
				ActorID:   &actor,
				Action:    models.AuditActionUpdate,
				Success:   true,
				Metadata:  models.AuditMetadata{"reason": "spam"},
			}}, nil
		},
	}
	h := handlers.NewAdminHandler(&handlers.MockAdminService{}, audit, handlers.NewTestLogger())

	w := httptest.NewRecorder()
	h.ListAuditLogs(w, adminRequest(t, http.MethodGet, "/admin/audit?event_type=user_ban&user_id=u9&limit=5", "", nil))

	var resp handlers.ListAuditLogsResponse
	handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
	require.Len(t, resp.Logs, 1)
	assert.Equal(t, "spam", resp.Logs[0].Metadata["reason"])
	assert.Equal(t, "admin1", *resp.Logs[0].ActorID)
}
