package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BradenHooton/wikiboard/internal/handlers"
	"github.com/BradenHooton/wikiboard/internal/models"
	"github.com/BradenHooton/wikiboard/internal/policy"
)

func TestGetProfile_HidesPrivateFields(t *testing.T) {
	mock := &handlers.MockProfileService{
		GetProfileFunc: func(ctx context.Context, id string) (*models.User, error) {
			u := handlers.NewTestUser(id, models.RoleUser)
			u.Bio = "hello"
			return u, nil
		},
	}
	h := handlers.NewProfileHandler(mock, handlers.NewTestLogger())

	req := handlers.NewTestRequest(t, http.MethodGet, "/users/u1", nil)
	req = handlers.WithChiRouteContext(req, map[string]string{"id": "u1"})
	w := httptest.NewRecorder()
	h.GetProfile(w, req)

	var body map[string]interface{}
	handlers.AssertJSONResponse(t, w, http.StatusOK, &body)
	assert.Equal(t, "hello", body["bio"])
	assert.NotContains(t, body, "email")
	assert.NotContains(t, body, "ban_reason")
}

func TestGetProfile_NotFound(t *testing.T) {
	h := handlers.NewProfileHandler(&handlers.MockProfileService{}, handlers.NewTestLogger())

	req := handlers.NewTestRequest(t, http.MethodGet, "/users/nobody", nil)
	req = handlers.WithChiRouteContext(req, map[string]string{"id": "nobody"})
	w := httptest.NewRecorder()
	h.GetProfile(w, req)

	handlers.AssertErrorResponse(t, w, http.StatusNotFound, "not_found")
}

func TestMe(t *testing.T) {
	h := handlers.NewProfileHandler(&handlers.MockProfileService{}, handlers.NewTestLogger())

	w := httptest.NewRecorder()
	h.Me(w, handlers.NewTestRequest(t, http.MethodGet, "/me", nil))
	handlers.AssertErrorResponse(t, w, http.StatusUnauthorized, "unauthorized")

	legacy := handlers.NewTestUser("u1", models.RoleUser)
	legacy.IsAdmin = true
	req := handlers.WithUserContext(handlers.NewTestRequest(t, http.MethodGet, "/me", nil), legacy)
	w = httptest.NewRecorder()
	h.Me(w, req)

	var resp handlers.UserResponse
	handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, "u1@example.com", resp.Email)
	assert.Equal(t, models.RoleAdmin, resp.Role)
}

func TestBanStatus(t *testing.T) {
	until := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		decision  policy.BanDecision
		wantUntil *string
	}{
		{name: "not banned", decision: policy.BanDecision{}},
		{name: "permanent", decision: policy.BanDecision{Banned: true, Reason: "spam"}},
		{
			name:      "timed",
			decision:  policy.BanDecision{Banned: true, Reason: "spam", Until: &until},
			wantUntil: func() *string { s := "2026-03-02T12:00:00Z"; return &s }(),
		},
	}

	h := handlers.NewProfileHandler(&handlers.MockProfileService{}, handlers.NewTestLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := handlers.NewTestRequest(t, http.MethodGet, "/me/ban-status", nil)
			req = handlers.WithUserContext(req, handlers.NewTestUser("u1", models.RoleUser))
			req = handlers.WithBanContext(req, tt.decision)
			w := httptest.NewRecorder()
			h.BanStatus(w, req)

			var resp handlers.BanStatusResponse
			handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
			assert.Equal(t, tt.decision.Banned, resp.Banned)
			assert.Equal(t, tt.decision.Reason, resp.Reason)
			assert.Equal(t, tt.wantUntil, resp.Until)
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	mock := &handlers.MockProfileService{
		UpdateProfileFunc: func(ctx context.Context, current *models.User, name, bio string) (*models.User, error) {
			u := *current
			u.Name, u.Bio = name, bio
			return &u, nil
		},
	}
	h := handlers.NewProfileHandler(mock, handlers.NewTestLogger())

	req := handlers.NewTestRequest(t, http.MethodPut, "/me/profile", map[string]string{"name": "Gopher", "bio": "digs"})
	req = handlers.WithUserContext(req, handlers.NewTestUser("u1", models.RoleUser))
	w := httptest.NewRecorder()
	h.UpdateProfile(w, req)

	var resp handlers.UserResponse
	handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, "Gopher", resp.Name)
	assert.Equal(t, "digs", resp.Bio)

	req = handlers.NewTestRequest(t, http.MethodPut, "/me/profile", map[string]string{"bio": "no name"})
	req = handlers.WithUserContext(req, handlers.NewTestUser("u1", models.RoleUser))
	w = httptest.NewRecorder()
	h.UpdateProfile(w, req)
	handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "validation_error")
}

func TestSetAvatarAndBackground(t *testing.T) {
	var avatar, background string
	mock := &handlers.MockProfileService{
		SetAvatarFunc: func(ctx context.Context, current *models.User, url string) (*models.User, error) {
			avatar = url
			return current, nil
		},
		SetBackgroundFunc: func(ctx context.Context, current *models.User, url string) (*models.User, error) {
			background = url
			return current, nil
		},
	}
	h := handlers.NewProfileHandler(mock, handlers.NewTestLogger())
	user := handlers.NewTestUser("u1", models.RoleUser)

	req := handlers.WithUserContext(handlers.NewTestRequest(t, http.MethodPut, "/me/avatar", map[string]string{"url": "https://img/a.png"}), user)
	w := httptest.NewRecorder()
	h.SetAvatar(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = handlers.WithUserContext(handlers.NewTestRequest(t, http.MethodPut, "/me/background", map[string]string{"url": "https://img/b.png"}), user)
	w = httptest.NewRecorder()
	h.SetBackground(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "https://img/a.png", avatar)
	assert.Equal(t, "https://img/b.png", background)
}
