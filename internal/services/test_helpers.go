package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/BradenHooton/wikiboard/internal/models"
)

// MockUserRepository implements the user repository interfaces for testing
type MockUserRepository struct {
	GetByIDFunc          func(ctx context.Context, id string) (*models.User, error)
	ListFunc             func(ctx context.Context, limit, offset int) ([]*models.User, error)
	UpsertFunc           func(ctx context.Context, identity models.Identity) (*models.User, error)
	UpdateProfileFunc    func(ctx context.Context, id, name, bio string) (*models.User, error)
	UpdateAvatarFunc     func(ctx context.Context, id, url string) (*models.User, error)
	UpdateBackgroundFunc func(ctx context.Context, id, url string) (*models.User, error)
	SetRoleFunc          func(ctx context.Context, id, role string) (*models.User, error)
	SetBadgeFunc         func(ctx context.Context, id, badge string) (*models.User, error)
	BanFunc              func(ctx context.Context, id, reason string, until *time.Time) (*models.User, error)
	UnbanFunc            func(ctx context.Context, id string) (*models.User, error)
	ClearExpiredBanFunc  func(ctx context.Context, id string, now time.Time) (bool, error)
	DeleteFunc           func(ctx context.Context, id string) error
	CountUsersFunc       func(ctx context.Context, now time.Time) (int64, int64, error)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return []*models.User{}, nil
}

func (m *MockUserRepository) Upsert(ctx context.Context, identity models.Identity) (*models.User, error) {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, identity)
	}
	return &models.User{ID: identity.Subject, Email: identity.Email, Name: identity.Name, Role: models.RoleUser}, nil
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id, name, bio string) (*models.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, id, name, bio)
	}
	return &models.User{ID: id, Name: name, Bio: bio}, nil
}

func (m *MockUserRepository) UpdateAvatar(ctx context.Context, id, url string) (*models.User, error) {
	if m.UpdateAvatarFunc != nil {
		return m.UpdateAvatarFunc(ctx, id, url)
	}
	return &models.User{ID: id, AvatarURL: url}, nil
}

func (m *MockUserRepository) UpdateBackground(ctx context.Context, id, url string) (*models.User, error) {
	if m.UpdateBackgroundFunc != nil {
		return m.UpdateBackgroundFunc(ctx, id, url)
	}
	return &models.User{ID: id, BackgroundURL: url}, nil
}

func (m *MockUserRepository) SetRole(ctx context.Context, id, role string) (*models.User, error) {
	if m.SetRoleFunc != nil {
		return m.SetRoleFunc(ctx, id, role)
	}
	return &models.User{ID: id, Role: role, IsAdmin: role == models.RoleAdmin}, nil
}

func (m *MockUserRepository) SetBadge(ctx context.Context, id, badge string) (*models.User, error) {
	if m.SetBadgeFunc != nil {
		return m.SetBadgeFunc(ctx, id, badge)
	}
	return &models.User{ID: id, Badge: badge}, nil
}

func (m *MockUserRepository) Ban(ctx context.Context, id, reason string, until *time.Time) (*models.User, error) {
	if m.BanFunc != nil {
		return m.BanFunc(ctx, id, reason, until)
	}
	return &models.User{ID: id, IsBanned: true, BanReason: &reason, BannedUntil: until}, nil
}

func (m *MockUserRepository) Unban(ctx context.Context, id string) (*models.User, error) {
	if m.UnbanFunc != nil {
		return m.UnbanFunc(ctx, id)
	}
	return &models.User{ID: id}, nil
}

func (m *MockUserRepository) ClearExpiredBan(ctx context.Context, id string, now time.Time) (bool, error) {
	if m.ClearExpiredBanFunc != nil {
		return m.ClearExpiredBanFunc(ctx, id, now)
	}
	return true, nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockUserRepository) CountUsers(ctx context.Context, now time.Time) (int64, int64, error) {
	if m.CountUsersFunc != nil {
		return m.CountUsersFunc(ctx, now)
	}
	return 0, 0, nil
}

// MockEntryRepository implements EntryRepository for testing
type MockEntryRepository struct {
	CreateFunc          func(ctx context.Context, entry *models.WikiEntry) (*models.WikiEntry, error)
	GetByIDFunc         func(ctx context.Context, id string) (*models.WikiEntry, error)
	GetViewFunc         func(ctx context.Context, id string) (*models.EntryView, error)
	ListFunc            func(ctx context.Context, filter models.EntryFilter) ([]*models.EntryView, error)
	UpdateContentFunc   func(ctx context.Context, entry *models.WikiEntry) (*models.WikiEntry, error)
	SetStatusFunc       func(ctx context.Context, id string, status models.EntryStatus) (*models.WikiEntry, error)
	SetVerificationFunc func(ctx context.Context, id string, v models.Verification) (*models.WikiEntry, error)
	DeleteFunc          func(ctx context.Context, id string) error
	CountByStatusFunc   func(ctx context.Context) (map[models.EntryStatus]int64, error)
}

func (m *MockEntryRepository) Create(ctx context.Context, entry *models.WikiEntry) (*models.WikiEntry, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, entry)
	}
	created := *entry
	created.ID = "entry-new"
	return &created, nil
}

func (m *MockEntryRepository) GetByID(ctx context.Context, id string) (*models.WikiEntry, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockEntryRepository) GetView(ctx context.Context, id string) (*models.EntryView, error) {
	if m.GetViewFunc != nil {
		return m.GetViewFunc(ctx, id)
	}
	if m.GetByIDFunc != nil {
		entry, err := m.GetByIDFunc(ctx, id)
		if err != nil {
			return nil, err
		}
		return &models.EntryView{Entry: entry, Author: models.EntryAuthor{ID: entry.UserID}}, nil
	}
	return nil, models.ErrNotFound
}

func (m *MockEntryRepository) List(ctx context.Context, filter models.EntryFilter) ([]*models.EntryView, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []*models.EntryView{}, nil
}

func (m *MockEntryRepository) UpdateContent(ctx context.Context, entry *models.WikiEntry) (*models.WikiEntry, error) {
	if m.UpdateContentFunc != nil {
		return m.UpdateContentFunc(ctx, entry)
	}
	updated := *entry
	updated.Status = models.EntryStatusPending
	return &updated, nil
}

func (m *MockEntryRepository) SetStatus(ctx context.Context, id string, status models.EntryStatus) (*models.WikiEntry, error) {
	if m.SetStatusFunc != nil {
		return m.SetStatusFunc(ctx, id, status)
	}
	entry, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	entry.Status = status
	return entry, nil
}

func (m *MockEntryRepository) SetVerification(ctx context.Context, id string, v models.Verification) (*models.WikiEntry, error) {
	if m.SetVerificationFunc != nil {
		return m.SetVerificationFunc(ctx, id, v)
	}
	entry, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	entry.Verification = v
	return entry, nil
}

func (m *MockEntryRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockEntryRepository) CountByStatus(ctx context.Context) (map[models.EntryStatus]int64, error) {
	if m.CountByStatusFunc != nil {
		return m.CountByStatusFunc(ctx)
	}
	return map[models.EntryStatus]int64{}, nil
}

// MockImageRepository implements ImageRepository for testing
type MockImageRepository struct {
	CreateFunc      func(ctx context.Context, img *models.UserImage) (*models.UserImage, error)
	GetByIDFunc     func(ctx context.Context, id string) (*models.UserImage, error)
	ListByUserFunc  func(ctx context.Context, userID string) ([]*models.UserImage, error)
	RenameFunc      func(ctx context.Context, id, userID string, fileName *string) (*models.UserImage, error)
	DeleteOwnedFunc func(ctx context.Context, id, userID string) (bool, error)
}

func (m *MockImageRepository) Create(ctx context.Context, img *models.UserImage) (*models.UserImage, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, img)
	}
	created := *img
	created.ID = "image-new"
	return &created, nil
}

func (m *MockImageRepository) GetByID(ctx context.Context, id string) (*models.UserImage, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockImageRepository) ListByUser(ctx context.Context, userID string) ([]*models.UserImage, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return []*models.UserImage{}, nil
}

func (m *MockImageRepository) Rename(ctx context.Context, id, userID string, fileName *string) (*models.UserImage, error) {
	if m.RenameFunc != nil {
		return m.RenameFunc(ctx, id, userID, fileName)
	}
	return nil, models.ErrNotFound
}

func (m *MockImageRepository) DeleteOwned(ctx context.Context, id, userID string) (bool, error) {
	if m.DeleteOwnedFunc != nil {
		return m.DeleteOwnedFunc(ctx, id, userID)
	}
	return false, nil
}

// MockReportRepository implements ReportRepository for testing
type MockReportRepository struct {
	CreateFunc         func(ctx context.Context, rep *models.ContentReport) (*models.ContentReport, error)
	ListFunc           func(ctx context.Context, status models.ReportStatus, limit, offset int) ([]*models.ContentReport, error)
	ListByReporterFunc func(ctx context.Context, reporterID string) ([]*models.ContentReport, error)
	UpdateStatusFunc   func(ctx context.Context, id string, status models.ReportStatus) (*models.ContentReport, error)
	CountOpenFunc      func(ctx context.Context) (int64, error)
}

func (m *MockReportRepository) Create(ctx context.Context, rep *models.ContentReport) (*models.ContentReport, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, rep)
	}
	created := *rep
	created.ID = "report-new"
	return &created, nil
}

func (m *MockReportRepository) List(ctx context.Context, status models.ReportStatus, limit, offset int) ([]*models.ContentReport, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, status, limit, offset)
	}
	return []*models.ContentReport{}, nil
}

func (m *MockReportRepository) ListByReporter(ctx context.Context, reporterID string) ([]*models.ContentReport, error) {
	if m.ListByReporterFunc != nil {
		return m.ListByReporterFunc(ctx, reporterID)
	}
	return []*models.ContentReport{}, nil
}

func (m *MockReportRepository) UpdateStatus(ctx context.Context, id string, status models.ReportStatus) (*models.ContentReport, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	return &models.ContentReport{ID: id, Status: status}, nil
}

func (m *MockReportRepository) CountOpen(ctx context.Context) (int64, error) {
	if m.CountOpenFunc != nil {
		return m.CountOpenFunc(ctx)
	}
	return 0, nil
}

// MockCommentRepository implements CommentRepository for testing
type MockCommentRepository struct {
	CreateFunc      func(ctx context.Context, c *models.Comment) (*models.Comment, error)
	GetByIDFunc     func(ctx context.Context, id string) (*models.Comment, error)
	ListByEntryFunc func(ctx context.Context, entryID string) ([]*models.Comment, error)
	DeleteFunc      func(ctx context.Context, id string) error
}

func (m *MockCommentRepository) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	created := *c
	created.ID = "comment-new"
	return &created, nil
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockCommentRepository) ListByEntry(ctx context.Context, entryID string) ([]*models.Comment, error) {
	if m.ListByEntryFunc != nil {
		return m.ListByEntryFunc(ctx, entryID)
	}
	return []*models.Comment{}, nil
}

func (m *MockCommentRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockLikeRepository is an in-memory like store enforcing (entry, user) uniqueness
type MockLikeRepository struct {
	mu    sync.Mutex
	likes map[[2]string]bool
}

func NewMockLikeRepository() *MockLikeRepository {
	return &MockLikeRepository{likes: make(map[[2]string]bool)}
}

func (m *MockLikeRepository) Create(ctx context.Context, entryID, userID string) (*models.Like, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := [2]string{entryID, userID}
	if m.likes[key] {
		return nil, models.ErrConflict
	}
	m.likes[key] = true
	return &models.Like{EntryID: entryID, UserID: userID, CreatedAt: time.Now()}, nil
}

func (m *MockLikeRepository) Delete(ctx context.Context, entryID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := [2]string{entryID, userID}
	if !m.likes[key] {
		return false, nil
	}
	delete(m.likes, key)
	return true, nil
}

func (m *MockLikeRepository) CountByEntry(ctx context.Context, entryID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for key := range m.likes {
		if key[0] == entryID {
			n++
		}
	}
	return n, nil
}

// MockAuditLogRepository implements AuditLogRepository for testing
type MockAuditLogRepository struct {
	CreateFunc func(ctx context.Context, log *models.AuditLog) (*models.AuditLog, error)
	ListFunc   func(ctx context.Context, filter models.AuditFilter) ([]*models.AuditLog, error)
}

func (m *MockAuditLogRepository) Create(ctx context.Context, log *models.AuditLog) (*models.AuditLog, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	return log, nil
}

func (m *MockAuditLogRepository) List(ctx context.Context, filter models.AuditFilter) ([]*models.AuditLog, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []*models.AuditLog{}, nil
}

// RecordingAuditor collects audit records in memory
type RecordingAuditor struct {
	mu      sync.Mutex
	Records []AuditRecord
}

func (a *RecordingAuditor) Record(ctx context.Context, event AuditRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Records = append(a.Records, event)
}

// RecordingNotifier collects moderation notifications in memory
type RecordingNotifier struct {
	Err   error
	Sent  []*models.WikiEntry
	Owner []*models.User
}

func (n *RecordingNotifier) NotifyModerationDecision(ctx context.Context, owner *models.User, entry *models.WikiEntry) error {
	n.Owner = append(n.Owner, owner)
	n.Sent = append(n.Sent, entry)
	return n.Err
}

// Test data factory functions

func NewTestUser(id, role string) *models.User {
	return &models.User{
		ID:        id,
		Email:     id + "@example.com",
		Name:      "User " + id,
		Role:      role,
		Badge:     models.BadgeNone,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func NewTestEntry(id, ownerID string, status models.EntryStatus) *models.WikiEntry {
	return &models.WikiEntry{
		ID:           id,
		UserID:       ownerID,
		Title:        "Entry " + id,
		Description:  "Description of " + id,
		Status:       status,
		Verification: models.VerificationUnknown,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func NewTestSpecialEntry(id, ownerID, token string) *models.WikiEntry {
	entry := NewTestEntry(id, ownerID, models.EntryStatusApproved)
	entry.IsSpecial = true
	entry.SpecialAccessToken = &token
	return entry
}

// NewTestLogger returns a logger that discards output
func NewTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
