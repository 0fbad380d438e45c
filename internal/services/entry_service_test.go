package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BradenHooton/wikiboard/internal/metrics"
	"github.com/BradenHooton/wikiboard/internal/models"
)

// entryStore is a single-entry in-memory store. Writes touch only the
// columns the matching SQL touches. When snapshot is set, GetByID returns it
// instead of the live row, replaying a read that a concurrent write has since
// overtaken.
type entryStore struct {
	entry    *models.WikiEntry
	snapshot *models.WikiEntry
	updates  int
}

func (s *entryStore) live(id string) (*models.WikiEntry, error) {
	if s.entry == nil || s.entry.ID != id {
		return nil, models.ErrNotFound
	}
	return s.entry, nil
}

func (s *entryStore) repo() *MockEntryRepository {
	return &MockEntryRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.WikiEntry, error) {
			row, err := s.live(id)
			if err != nil {
				return nil, err
			}
			if s.snapshot != nil {
				row = s.snapshot
			}
			copied := *row
			return &copied, nil
		},
		UpdateContentFunc: func(ctx context.Context, entry *models.WikiEntry) (*models.WikiEntry, error) {
			row, err := s.live(entry.ID)
			if err != nil || row.UserID != entry.UserID {
				return nil, models.ErrNotFound
			}
			s.updates++
			row.Title = entry.Title
			row.Description = entry.Description
			row.ImageURL = entry.ImageURL
			row.IsSpecial = entry.IsSpecial
			row.SpecialAccessToken = entry.SpecialAccessToken
			row.Status = models.EntryStatusPending
			copied := *row
			return &copied, nil
		},
		SetStatusFunc: func(ctx context.Context, id string, status models.EntryStatus) (*models.WikiEntry, error) {
			row, err := s.live(id)
			if err != nil {
				return nil, err
			}
			s.updates++
			row.Status = status
			copied := *row
			return &copied, nil
		},
		SetVerificationFunc: func(ctx context.Context, id string, v models.Verification) (*models.WikiEntry, error) {
			row, err := s.live(id)
			if err != nil {
				return nil, err
			}
			s.updates++
			row.Verification = v
			copied := *row
			return &copied, nil
		},
	}
}

func newEntryService(repo *MockEntryRepository, users *MockUserRepository, auditor *RecordingAuditor, notifier *RecordingNotifier) *EntryService {
	if users == nil {
		users = &MockUserRepository{}
	}
	return NewEntryService(repo, users, auditor, notifier, nil, NewTestLogger())
}

func TestEntryService_CreateEntry_ForcesPending(t *testing.T) {
	var stored *models.WikiEntry
	repo := &MockEntryRepository{
		CreateFunc: func(ctx context.Context, entry *models.WikiEntry) (*models.WikiEntry, error) {
			stored = entry
			created := *entry
			created.ID = "e1"
			return &created, nil
		},
	}
	svc := newEntryService(repo, nil, &RecordingAuditor{}, &RecordingNotifier{})

	entry, err := svc.CreateEntry(context.Background(), NewTestUser("alice", models.RoleAdmin), CreateEntryInput{
		Title:       "  Hello  ",
		Description: "World",
	})

	require.NoError(t, err)
	assert.Equal(t, "e1", entry.ID)
	assert.Equal(t, "alice", stored.UserID)
	assert.Equal(t, "Hello", stored.Title)
	assert.Equal(t, models.EntryStatusPending, stored.Status)
	assert.Equal(t, models.VerificationUnknown, stored.Verification)
	assert.Nil(t, stored.SpecialAccessToken)
}

func TestEntryService_CreateEntry_SpecialGetsToken(t *testing.T) {
	svc := newEntryService(&MockEntryRepository{}, nil, &RecordingAuditor{}, &RecordingNotifier{}).
		WithTokenSource(func() (string, error) { return "tok-1", nil })

	entry, err := svc.CreateEntry(context.Background(), NewTestUser("alice", models.RoleUser), CreateEntryInput{
		Title:     "Secret",
		IsSpecial: true,
	})

	require.NoError(t, err)
	assert.True(t, entry.IsSpecial)
	require.NotNil(t, entry.SpecialAccessToken)
	assert.Equal(t, "tok-1", *entry.SpecialAccessToken)
}

func TestEntryService_CreateEntry_Validation(t *testing.T) {
	svc := newEntryService(&MockEntryRepository{}, nil, &RecordingAuditor{}, &RecordingNotifier{})

	_, err := svc.CreateEntry(context.Background(), NewTestUser("alice", models.RoleUser), CreateEntryInput{Title: "   "})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.CreateEntry(context.Background(), nil, CreateEntryInput{Title: "x"})
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestEntryService_CreateEntry_EmptyImageURLIsNoImage(t *testing.T) {
	empty := "  "
	svc := newEntryService(&MockEntryRepository{}, nil, &RecordingAuditor{}, &RecordingNotifier{})

	entry, err := svc.CreateEntry(context.Background(), NewTestUser("alice", models.RoleUser), CreateEntryInput{
		Title: "x", ImageURL: &empty,
	})

	require.NoError(t, err)
	assert.Nil(t, entry.ImageURL)
}

func TestEntryService_GetEntry_Visibility(t *testing.T) {
	store := &entryStore{entry: NewTestEntry("e1", "alice", models.EntryStatusPending)}
	svc := newEntryService(store.repo(), nil, &RecordingAuditor{}, &RecordingNotifier{})
	ctx := context.Background()

	_, err := svc.GetEntry(ctx, nil, "e1", "")
	assert.ErrorIs(t, err, models.ErrAccessDenied)

	view, err := svc.GetEntry(ctx, NewTestUser("alice", models.RoleUser), "e1", "")
	require.NoError(t, err)
	assert.Equal(t, "e1", view.Entry.ID)

	_, err = svc.GetEntry(ctx, NewTestUser("mod", models.RoleModerator), "e1", "")
	assert.NoError(t, err)

	_, err = svc.GetEntry(ctx, nil, "missing", "")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestEntryService_GetEntry_SpecialToken(t *testing.T) {
	store := &entryStore{entry: NewTestSpecialEntry("e1", "alice", "the-token")}
	svc := newEntryService(store.repo(), nil, &RecordingAuditor{}, &RecordingNotifier{})
	ctx := context.Background()

	_, err := svc.GetEntry(ctx, nil, "e1", "")
	assert.ErrorIs(t, err, models.ErrAccessDenied)

	_, err = svc.GetEntry(ctx, NewTestUser("bob", models.RoleUser), "e1", "wrong")
	assert.ErrorIs(t, err, models.ErrAccessDenied)

	_, err = svc.GetEntry(ctx, nil, "e1", "the-token")
	assert.NoError(t, err)
}

func TestEntryService_GetEntry_StoreFailure(t *testing.T) {
	repo := &MockEntryRepository{
		GetViewFunc: func(ctx context.Context, id string) (*models.EntryView, error) {
			return nil, errors.New("connection reset")
		},
	}
	svc := newEntryService(repo, nil, &RecordingAuditor{}, &RecordingNotifier{})

	_, err := svc.GetEntry(context.Background(), nil, "e1", "")
	assert.Equal(t, models.ErrInternalServer, err)
}

func TestEntryService_ListApproved_Filter(t *testing.T) {
	var got models.EntryFilter
	repo := &MockEntryRepository{
		ListFunc: func(ctx context.Context, filter models.EntryFilter) ([]*models.EntryView, error) {
			got = filter
			return []*models.EntryView{}, nil
		},
	}
	svc := newEntryService(repo, nil, &RecordingAuditor{}, &RecordingNotifier{})

	_, err := svc.ListApproved(context.Background(), 0, -3)

	require.NoError(t, err)
	assert.Equal(t, models.EntryStatusApproved, got.Status)
	assert.False(t, got.IncludeSpecial)
	assert.Equal(t, 50, got.Limit)
	assert.Equal(t, 0, got.Offset)
}

func TestEntryService_ListByUser(t *testing.T) {
	tests := []struct {
		name        string
		requester   *models.User
		wantStatus  models.EntryStatus
		wantSpecial bool
	}{
		{name: "owner sees all", requester: NewTestUser("alice", models.RoleUser), wantStatus: "", wantSpecial: true},
		{name: "moderator sees all", requester: NewTestUser("mod", models.RoleModerator), wantStatus: "", wantSpecial: true},
		{name: "stranger sees public", requester: NewTestUser("bob", models.RoleUser), wantStatus: models.EntryStatusApproved},
		{name: "anonymous sees public", requester: nil, wantStatus: models.EntryStatusApproved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got models.EntryFilter
			repo := &MockEntryRepository{
				ListFunc: func(ctx context.Context, filter models.EntryFilter) ([]*models.EntryView, error) {
					got = filter
					return nil, nil
				},
			}
			svc := newEntryService(repo, nil, &RecordingAuditor{}, &RecordingNotifier{})

			_, err := svc.ListByUser(context.Background(), tt.requester, "alice", 10, 0)

			require.NoError(t, err)
			assert.Equal(t, "alice", got.UserID)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantSpecial, got.IncludeSpecial)
		})
	}
}

func TestEntryService_ListModerationQueue(t *testing.T) {
	var got models.EntryFilter
	repo := &MockEntryRepository{
		ListFunc: func(ctx context.Context, filter models.EntryFilter) ([]*models.EntryView, error) {
			got = filter
			return nil, nil
		},
	}
	svc := newEntryService(repo, nil, &RecordingAuditor{}, &RecordingNotifier{})
	ctx := context.Background()

	_, err := svc.ListModerationQueue(ctx, NewTestUser("bob", models.RoleUser), "", 10, 0)
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = svc.ListModerationQueue(ctx, NewTestUser("mod", models.RoleModerator), "bogus", 10, 0)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.ListModerationQueue(ctx, NewTestUser("mod", models.RoleModerator), "pending", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, models.EntryStatusPending, got.Status)
	assert.True(t, got.IncludeSpecial)
}

func TestEntryService_UpdateEntry_ResetsApprovedToPending(t *testing.T) {
	store := &entryStore{entry: NewTestEntry("e1", "alice", models.EntryStatusApproved)}
	registry := prometheus.NewRegistry()
	m, err := metrics.NewModerationMetrics(registry)
	require.NoError(t, err)
	svc := NewEntryService(store.repo(), &MockUserRepository{}, &RecordingAuditor{}, &RecordingNotifier{}, m, NewTestLogger())

	title := "Edited"
	updated, err := svc.UpdateEntry(context.Background(), NewTestUser("alice", models.RoleUser), "e1", models.EntryPatch{Title: &title})

	require.NoError(t, err)
	assert.Equal(t, "Edited", updated.Title)
	assert.Equal(t, models.EntryStatusPending, updated.Status)
	assert.Equal(t, models.EntryStatusPending, store.entry.Status)

	expected := `
# HELP wikiboard_entry_edit_resets_total Owner edits that sent an entry back to pending
# TYPE wikiboard_entry_edit_resets_total counter
wikiboard_entry_edit_resets_total 1
`
	assert.NoError(t, testutil.CollectAndCompare(m, strings.NewReader(expected), "wikiboard_entry_edit_resets_total"))
}

func TestEntryService_UpdateEntry_NonOwnerForbidden(t *testing.T) {
	store := &entryStore{entry: NewTestEntry("e1", "alice", models.EntryStatusApproved)}
	svc := newEntryService(store.repo(), nil, &RecordingAuditor{}, &RecordingNotifier{})
	title := "Hijacked"

	for _, actor := range []*models.User{
		NewTestUser("bob", models.RoleUser),
		NewTestUser("mod", models.RoleModerator),
		NewTestUser("root", models.RoleAdmin),
	} {
		_, err := svc.UpdateEntry(context.Background(), actor, "e1", models.EntryPatch{Title: &title})
		assert.ErrorIs(t, err, models.ErrForbidden)
	}

	assert.Equal(t, 0, store.updates)
	assert.Equal(t, models.EntryStatusApproved, store.entry.Status)
}

func TestEntryService_UpdateEntry_NotFound(t *testing.T) {
	store := &entryStore{}
	svc := newEntryService(store.repo(), nil, &RecordingAuditor{}, &RecordingNotifier{})

	_, err := svc.UpdateEntry(context.Background(), NewTestUser("alice", models.RoleUser), "nope", models.EntryPatch{})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestEntryService_UpdateEntry_EnableSpecialIssuesToken(t *testing.T) {
	store := &entryStore{entry: NewTestEntry("e1", "alice", models.EntryStatusApproved)}
	svc := newEntryService(store.repo(), nil, &RecordingAuditor{}, &RecordingNotifier{}).
		WithTokenSource(func() (string, error) { return "fresh", nil })
	on := true

	updated, err := svc.UpdateEntry(context.Background(), NewTestUser("alice", models.RoleUser), "e1", models.EntryPatch{IsSpecial: &on})

	require.NoError(t, err)
	assert.True(t, updated.IsSpecial)
	require.NotNil(t, updated.SpecialAccessToken)
	assert.Equal(t, "fresh", *updated.SpecialAccessToken)
}

func TestEntryService_ModerateEntry(t *testing.T) {
	store := &entryStore{entry: NewTestEntry("e1", "alice", models.EntryStatusPending)}
	auditor := &RecordingAuditor{}
	notifier := &RecordingNotifier{}
	users := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return NewTestUser(id, models.RoleUser), nil
		},
	}
	svc := newEntryService(store.repo(), users, auditor, notifier)

	updated, err := svc.ModerateEntry(context.Background(), NewTestUser("mod", models.RoleModerator), "e1", "approved")

	require.NoError(t, err)
	assert.Equal(t, models.EntryStatusApproved, updated.Status)
	assert.Equal(t, "Entry e1", updated.Title)

	require.Len(t, auditor.Records, 1)
	assert.Equal(t, models.AuditEventTypeModeration, auditor.Records[0].EventType)
	assert.Equal(t, "pending", auditor.Records[0].Metadata["from"])
	assert.Equal(t, "approved", auditor.Records[0].Metadata["to"])

	require.Len(t, notifier.Sent, 1)
	assert.Equal(t, "alice", notifier.Owner[0].ID)
}

func TestEntryService_ModerateEntry_ForbiddenLeavesStatus(t *testing.T) {
	store := &entryStore{entry: NewTestEntry("e1", "alice", models.EntryStatusPending)}
	auditor := &RecordingAuditor{}
	svc := newEntryService(store.repo(), nil, auditor, &RecordingNotifier{})

	for _, actor := range []*models.User{nil, NewTestUser("bob", models.RoleUser), NewTestUser("alice", models.RoleUser)} {
		_, err := svc.ModerateEntry(context.Background(), actor, "e1", "approved")
		assert.ErrorIs(t, err, models.ErrForbidden)
	}

	assert.Equal(t, models.EntryStatusPending, store.entry.Status)
	assert.Equal(t, 0, store.updates)
	assert.Empty(t, auditor.Records)
}

func TestEntryService_ModerateEntry_InvalidStatus(t *testing.T) {
	store := &entryStore{entry: NewTestEntry("e1", "alice", models.EntryStatusPending)}
	svc := newEntryService(store.repo(), nil, &RecordingAuditor{}, &RecordingNotifier{})

	_, err := svc.ModerateEntry(context.Background(), NewTestUser("mod", models.RoleModerator), "e1", "published")

	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Equal(t, 0, store.updates)
}

func TestEntryService_ModerateEntry_NotificationFailureIsNonFatal(t *testing.T) {
	store := &entryStore{entry: NewTestEntry("e1", "alice", models.EntryStatusPending)}
	users := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return NewTestUser(id, models.RoleUser), nil
		},
	}
	notifier := &RecordingNotifier{Err: errors.New("ses throttled")}
	svc := newEntryService(store.repo(), users, &RecordingAuditor{}, notifier)

	updated, err := svc.ModerateEntry(context.Background(), NewTestUser("root", models.RoleAdmin), "e1", "rejected")

	require.NoError(t, err)
	assert.Equal(t, models.EntryStatusRejected, updated.Status)
}

func TestEntryService_ModerateEntry_KeepsConcurrentOwnerEdit(t *testing.T) {
	// The moderator read the entry before the owner's edit committed.
	before := NewTestEntry("e1", "alice", models.EntryStatusPending)
	before.Title = "Old title"
	after := *before
	after.Title = "New title"
	after.Description = "rewritten"
	store := &entryStore{entry: &after, snapshot: before}
	svc := newEntryService(store.repo(), nil, &RecordingAuditor{}, &RecordingNotifier{})

	updated, err := svc.ModerateEntry(context.Background(), NewTestUser("mod", models.RoleModerator), "e1", "approved")

	require.NoError(t, err)
	assert.Equal(t, models.EntryStatusApproved, store.entry.Status)
	assert.Equal(t, "New title", store.entry.Title)
	assert.Equal(t, "rewritten", store.entry.Description)
	assert.Equal(t, "New title", updated.Title)
}

func TestEntryService_UpdateEntry_KeepsConcurrentVerification(t *testing.T) {
	// The owner read the entry before an admin marked it verified.
	before := NewTestEntry("e1", "alice", models.EntryStatusApproved)
	after := *before
	after.Verification = models.VerificationVerified
	store := &entryStore{entry: &after, snapshot: before}
	svc := newEntryService(store.repo(), nil, &RecordingAuditor{}, &RecordingNotifier{})
	title := "Edited"

	updated, err := svc.UpdateEntry(context.Background(), NewTestUser("alice", models.RoleUser), "e1", models.EntryPatch{Title: &title})

	require.NoError(t, err)
	assert.Equal(t, models.VerificationVerified, store.entry.Verification)
	assert.Equal(t, models.VerificationVerified, updated.Verification)
	assert.Equal(t, "Edited", store.entry.Title)
	assert.Equal(t, models.EntryStatusPending, store.entry.Status)
}

func TestEntryService_SetVerification_KeepsConcurrentEdit(t *testing.T) {
	before := NewTestEntry("e1", "alice", models.EntryStatusApproved)
	after := *before
	after.Title = "Owner edit"
	after.Status = models.EntryStatusPending
	store := &entryStore{entry: &after, snapshot: before}
	svc := newEntryService(store.repo(), nil, &RecordingAuditor{}, &RecordingNotifier{})

	_, err := svc.SetVerification(context.Background(), NewTestUser("root", models.RoleAdmin), "e1", "fake")

	require.NoError(t, err)
	assert.Equal(t, models.VerificationFake, store.entry.Verification)
	assert.Equal(t, "Owner edit", store.entry.Title)
	assert.Equal(t, models.EntryStatusPending, store.entry.Status)
}

func TestEntryService_SetVerification(t *testing.T) {
	store := &entryStore{entry: NewTestEntry("e1", "alice", models.EntryStatusRejected)}
	auditor := &RecordingAuditor{}
	svc := newEntryService(store.repo(), nil, auditor, &RecordingNotifier{})
	ctx := context.Background()

	_, err := svc.SetVerification(ctx, NewTestUser("mod", models.RoleModerator), "e1", "verified")
	assert.ErrorIs(t, err, models.ErrForbidden)

	updated, err := svc.SetVerification(ctx, NewTestUser("root", models.RoleAdmin), "e1", "verified")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationVerified, updated.Verification)
	assert.Equal(t, models.EntryStatusRejected, updated.Status)
	require.Len(t, auditor.Records, 1)
	assert.Equal(t, models.AuditEventTypeVerification, auditor.Records[0].EventType)
}

func TestEntryService_DeleteEntry(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		actor      *models.User
		wantErr    error
		wantDelete bool
		wantAudit  bool
	}{
		{name: "owner", actor: NewTestUser("alice", models.RoleUser), wantDelete: true},
		{name: "admin", actor: NewTestUser("root", models.RoleAdmin), wantDelete: true, wantAudit: true},
		{name: "legacy admin flag", actor: &models.User{ID: "old", Role: models.RoleUser, IsAdmin: true}, wantDelete: true, wantAudit: true},
		{name: "moderator", actor: NewTestUser("mod", models.RoleModerator), wantErr: models.ErrForbidden},
		{name: "stranger", actor: NewTestUser("bob", models.RoleUser), wantErr: models.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deleted := false
			store := &entryStore{entry: NewTestEntry("e1", "alice", models.EntryStatusApproved)}
			repo := store.repo()
			repo.DeleteFunc = func(ctx context.Context, id string) error {
				deleted = true
				return nil
			}
			auditor := &RecordingAuditor{}
			svc := newEntryService(repo, nil, auditor, &RecordingNotifier{})

			err := svc.DeleteEntry(ctx, tt.actor, "e1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantDelete, deleted)
			assert.Equal(t, tt.wantAudit, len(auditor.Records) == 1)
		})
	}
}
