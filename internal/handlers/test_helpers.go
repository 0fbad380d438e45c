package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/BradenHooton/wikiboard/internal/auth"
	"github.com/BradenHooton/wikiboard/internal/models"
	"github.com/BradenHooton/wikiboard/internal/policy"
	"github.com/BradenHooton/wikiboard/internal/services"
	pkghttp "github.com/BradenHooton/wikiboard/pkg/http"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithUserContext stores user as the authenticated caller
func WithUserContext(req *http.Request, user *models.User) *http.Request {
	return req.WithContext(auth.WithUser(req.Context(), user))
}

// WithBanContext stores the ban decision the auth middleware would have made
func WithBanContext(req *http.Request, decision policy.BanDecision) *http.Request {
	return req.WithContext(auth.WithBanDecision(req.Context(), decision))
}

// WithChiRouteContext sets chi URL parameters on the request
func WithChiRouteContext(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// NewTestUser builds a user with the given role
func NewTestUser(id, role string) *models.User {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return &models.User{
		ID:        id,
		Email:     id + "@example.com",
		Name:      "User " + id,
		Role:      role,
		Badge:     models.BadgeNone,
		IsAdmin:   role == models.RoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestLogger returns a logger that discards output
func NewTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	contentType := w.Header().Get("Content-Type")
	assert.Equal(t, "application/json", contentType, "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
}

// MockEntryService implements EntryService for testing
type MockEntryService struct {
	CreateEntryFunc         func(ctx context.Context, actor *models.User, in services.CreateEntryInput) (*models.WikiEntry, error)
	GetEntryFunc            func(ctx context.Context, requester *models.User, id, token string) (*models.EntryView, error)
	ListApprovedFunc        func(ctx context.Context, limit, offset int) ([]*models.EntryView, error)
	ListByUserFunc          func(ctx context.Context, requester *models.User, userID string, limit, offset int) ([]*models.EntryView, error)
	ListModerationQueueFunc func(ctx context.Context, actor *models.User, status string, limit, offset int) ([]*models.EntryView, error)
	UpdateEntryFunc         func(ctx context.Context, actor *models.User, id string, patch models.EntryPatch) (*models.WikiEntry, error)
	DeleteEntryFunc         func(ctx context.Context, actor *models.User, id string) error
	ModerateEntryFunc       func(ctx context.Context, actor *models.User, id, status string) (*models.WikiEntry, error)
	SetVerificationFunc     func(ctx context.Context, actor *models.User, id, verification string) (*models.WikiEntry, error)
}

func (m *MockEntryService) CreateEntry(ctx context.Context, actor *models.User, in services.CreateEntryInput) (*models.WikiEntry, error) {
	if m.CreateEntryFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.CreateEntryFunc(ctx, actor, in)
}

func (m *MockEntryService) GetEntry(ctx context.Context, requester *models.User, id, token string) (*models.EntryView, error) {
	if m.GetEntryFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetEntryFunc(ctx, requester, id, token)
}

func (m *MockEntryService) ListApproved(ctx context.Context, limit, offset int) ([]*models.EntryView, error) {
	if m.ListApprovedFunc == nil {
		return nil, nil
	}
	return m.ListApprovedFunc(ctx, limit, offset)
}

func (m *MockEntryService) ListByUser(ctx context.Context, requester *models.User, userID string, limit, offset int) ([]*models.EntryView, error) {
	if m.ListByUserFunc == nil {
		return nil, nil
	}
	return m.ListByUserFunc(ctx, requester, userID, limit, offset)
}

func (m *MockEntryService) ListModerationQueue(ctx context.Context, actor *models.User, status string, limit, offset int) ([]*models.EntryView, error) {
	if m.ListModerationQueueFunc == nil {
		return nil, nil
	}
	return m.ListModerationQueueFunc(ctx, actor, status, limit, offset)
}

func (m *MockEntryService) UpdateEntry(ctx context.Context, actor *models.User, id string, patch models.EntryPatch) (*models.WikiEntry, error) {
	if m.UpdateEntryFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateEntryFunc(ctx, actor, id, patch)
}

func (m *MockEntryService) DeleteEntry(ctx context.Context, actor *models.User, id string) error {
	if m.DeleteEntryFunc == nil {
		return nil
	}
	return m.DeleteEntryFunc(ctx, actor, id)
}

func (m *MockEntryService) ModerateEntry(ctx context.Context, actor *models.User, id, status string) (*models.WikiEntry, error) {
	if m.ModerateEntryFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.ModerateEntryFunc(ctx, actor, id, status)
}

func (m *MockEntryService) SetVerification(ctx context.Context, actor *models.User, id, verification string) (*models.WikiEntry, error) {
	if m.SetVerificationFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.SetVerificationFunc(ctx, actor, id, verification)
}

// MockProfileService implements ProfileService for testing
type MockProfileService struct {
	GetProfileFunc    func(ctx context.Context, id string) (*models.User, error)
	UpdateProfileFunc func(ctx context.Context, current *models.User, name, bio string) (*models.User, error)
	SetAvatarFunc     func(ctx context.Context, current *models.User, url string) (*models.User, error)
	SetBackgroundFunc func(ctx context.Context, current *models.User, url string) (*models.User, error)
}

func (m *MockProfileService) GetProfile(ctx context.Context, id string) (*models.User, error) {
	if m.GetProfileFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetProfileFunc(ctx, id)
}

func (m *MockProfileService) UpdateProfile(ctx context.Context, current *models.User, name, bio string) (*models.User, error) {
	if m.UpdateProfileFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.UpdateProfileFunc(ctx, current, name, bio)
}

func (m *MockProfileService) SetAvatar(ctx context.Context, current *models.User, url string) (*models.User, error) {
	if m.SetAvatarFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.SetAvatarFunc(ctx, current, url)
}

func (m *MockProfileService) SetBackground(ctx context.Context, current *models.User, url string) (*models.User, error) {
	if m.SetBackgroundFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.SetBackgroundFunc(ctx, current, url)
}

// MockGalleryService implements GalleryService for testing
type MockGalleryService struct {
	ListImagesFunc  func(ctx context.Context, userID string) ([]*models.UserImage, error)
	AddImageFunc    func(ctx context.Context, actor *models.User, imageURL string, fileName *string) (*models.UserImage, error)
	RenameImageFunc func(ctx context.Context, actor *models.User, id string, fileName *string) (*models.UserImage, error)
	DeleteImageFunc func(ctx context.Context, actor *models.User, id string) error
}

func (m *MockGalleryService) ListImages(ctx context.Context, userID string) ([]*models.UserImage, error) {
	if m.ListImagesFunc == nil {
		return nil, nil
	}
	return m.ListImagesFunc(ctx, userID)
}

func (m *MockGalleryService) AddImage(ctx context.Context, actor *models.User, imageURL string, fileName *string) (*models.UserImage, error) {
	if m.AddImageFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.AddImageFunc(ctx, actor, imageURL, fileName)
}

func (m *MockGalleryService) RenameImage(ctx context.Context, actor *models.User, id string, fileName *string) (*models.UserImage, error) {
	if m.RenameImageFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.RenameImageFunc(ctx, actor, id, fileName)
}

func (m *MockGalleryService) DeleteImage(ctx context.Context, actor *models.User, id string) error {
	if m.DeleteImageFunc == nil {
		return nil
	}
	return m.DeleteImageFunc(ctx, actor, id)
}

// MockReportService implements ReportService for testing
type MockReportService struct {
	CreateReportFunc       func(ctx context.Context, actor *models.User, entryID, reason string, description *string) (*models.ContentReport, error)
	ListReportsFunc        func(ctx context.Context, actor *models.User, status string, limit, offset int) ([]*models.ContentReport, error)
	UpdateReportStatusFunc func(ctx context.Context, actor *models.User, id, status string) (*models.ContentReport, error)
	ListMyReportsFunc      func(ctx context.Context, actor *models.User) ([]*models.ContentReport, error)
}

func (m *MockReportService) CreateReport(ctx context.Context, actor *models.User, entryID, reason string, description *string) (*models.ContentReport, error) {
	if m.CreateReportFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.CreateReportFunc(ctx, actor, entryID, reason, description)
}

func (m *MockReportService) ListReports(ctx context.Context, actor *models.User, status string, limit, offset int) ([]*models.ContentReport, error) {
	if m.ListReportsFunc == nil {
		return nil, nil
	}
	return m.ListReportsFunc(ctx, actor, status, limit, offset)
}

func (m *MockReportService) UpdateReportStatus(ctx context.Context, actor *models.User, id, status string) (*models.ContentReport, error) {
	if m.UpdateReportStatusFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateReportStatusFunc(ctx, actor, id, status)
}

func (m *MockReportService) ListMyReports(ctx context.Context, actor *models.User) ([]*models.ContentReport, error) {
	if m.ListMyReportsFunc == nil {
		return nil, nil
	}
	return m.ListMyReportsFunc(ctx, actor)
}

// MockEngagementService implements EngagementService for testing
type MockEngagementService struct {
	AddCommentFunc    func(ctx context.Context, actor *models.User, entryID, token, content string) (*models.Comment, error)
	ListCommentsFunc  func(ctx context.Context, requester *models.User, entryID, token string) ([]*models.Comment, error)
	DeleteCommentFunc func(ctx context.Context, actor *models.User, id string) error
	LikeEntryFunc     func(ctx context.Context, actor *models.User, entryID, token string) (int64, error)
	UnlikeEntryFunc   func(ctx context.Context, actor *models.User, entryID string) (int64, error)
}

func (m *MockEngagementService) AddComment(ctx context.Context, actor *models.User, entryID, token, content string) (*models.Comment, error) {
	if m.AddCommentFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.AddCommentFunc(ctx, actor, entryID, token, content)
}

func (m *MockEngagementService) ListComments(ctx context.Context, requester *models.User, entryID, token string) ([]*models.Comment, error) {
	if m.ListCommentsFunc == nil {
		return nil, nil
	}
	return m.ListCommentsFunc(ctx, requester, entryID, token)
}

func (m *MockEngagementService) DeleteComment(ctx context.Context, actor *models.User, id string) error {
	if m.DeleteCommentFunc == nil {
		return nil
	}
	return m.DeleteCommentFunc(ctx, actor, id)
}

func (m *MockEngagementService) LikeEntry(ctx context.Context, actor *models.User, entryID, token string) (int64, error) {
	if m.LikeEntryFunc == nil {
		return 0, models.ErrInternalServer
	}
	return m.LikeEntryFunc(ctx, actor, entryID, token)
}

func (m *MockEngagementService) UnlikeEntry(ctx context.Context, actor *models.User, entryID string) (int64, error) {
	if m.UnlikeEntryFunc == nil {
		return 0, models.ErrInternalServer
	}
	return m.UnlikeEntryFunc(ctx, actor, entryID)
}

// MockAdminService implements AdminService for testing
type MockAdminService struct {
	ListUsersFunc         func(ctx context.Context, actor *models.User, limit, offset int) ([]*models.User, error)
	BanUserFunc           func(ctx context.Context, actor *models.User, targetID, reason string, until *time.Time) (*models.User, error)
	UnbanUserFunc         func(ctx context.Context, actor *models.User, targetID string) (*models.User, error)
	DeleteUserFunc        func(ctx context.Context, actor *models.User, targetID string) error
	SetRoleFunc           func(ctx context.Context, actor *models.User, targetID, role string) (*models.User, error)
	SetBadgeFunc          func(ctx context.Context, actor *models.User, targetID, badge string) (*models.User, error)
	GetDashboardStatsFunc func(ctx context.Context, actor *models.User) (*services.DashboardStats, error)
}

func (m *MockAdminService) ListUsers(ctx context.Context, actor *models.User, limit, offset int) ([]*models.User, error) {
	if m.ListUsersFunc == nil {
		return nil, nil
	}
	return m.ListUsersFunc(ctx, actor, limit, offset)
}

func (m *MockAdminService) BanUser(ctx context.Context, actor *models.User, targetID, reason string, until *time.Time) (*models.User, error) {
	if m.BanUserFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.BanUserFunc(ctx, actor, targetID, reason, until)
}

func (m *MockAdminService) UnbanUser(ctx context.Context, actor *models.User, targetID string) (*models.User, error) {
	if m.UnbanUserFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UnbanUserFunc(ctx, actor, targetID)
}

func (m *MockAdminService) DeleteUser(ctx context.Context, actor *models.User, targetID string) error {
	if m.DeleteUserFunc == nil {
		return nil
	}
	return m.DeleteUserFunc(ctx, actor, targetID)
}

func (m *MockAdminService) SetRole(ctx context.Context, actor *models.User, targetID, role string) (*models.User, error) {
	if m.SetRoleFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.SetRoleFunc(ctx, actor, targetID, role)
}

func (m *MockAdminService) SetBadge(ctx context.Context, actor *models.User, targetID, badge string) (*models.User, error) {
	if m.SetBadgeFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.SetBadgeFunc(ctx, actor, targetID, badge)
}

func (m *MockAdminService) GetDashboardStats(ctx context.Context, actor *models.User) (*services.DashboardStats, error) {
	if m.GetDashboardStatsFunc == nil {
		return &services.DashboardStats{}, nil
	}
	return m.GetDashboardStatsFunc(ctx, actor)
}

// MockAuditReader implements AuditReader for testing
type MockAuditReader struct {
	ListRecentFunc func(ctx context.Context, filter models.AuditFilter) ([]*models.AuditLog, error)
}

func (m *MockAuditReader) ListRecent(ctx context.Context, filter models.AuditFilter) ([]*models.AuditLog, error) {
	if m.ListRecentFunc == nil {
		return nil, nil
	}
	return m.ListRecentFunc(ctx, filter)
}
