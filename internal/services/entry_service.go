package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/BradenHooton/wikiboard/internal/metrics"
	"github.com/BradenHooton/wikiboard/internal/models"
	"github.com/BradenHooton/wikiboard/internal/policy"
)

// EntryRepository defines the interface for wiki entry data access
type EntryRepository interface {
	Create(ctx context.Context, entry *models.WikiEntry) (*models.WikiEntry, error)
	GetByID(ctx context.Context, id string) (*models.WikiEntry, error)
	GetView(ctx context.Context, id string) (*models.EntryView, error)
	List(ctx context.Context, filter models.EntryFilter) ([]*models.EntryView, error)
	UpdateContent(ctx context.Context, entry *models.WikiEntry) (*models.WikiEntry, error)
	SetStatus(ctx context.Context, id string, status models.EntryStatus) (*models.WikiEntry, error)
	SetVerification(ctx context.Context, id string, v models.Verification) (*models.WikiEntry, error)
	Delete(ctx context.Context, id string) error
}

// OwnerLookup resolves the owner of an entry for notifications
type OwnerLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// CreateEntryInput is the caller-controlled part of a new entry. It has no
// status or verification; those always start at their defaults.
type CreateEntryInput struct {
	Title       string
	Description string
	ImageURL    *string
	IsSpecial   bool
}

// EntryService implements the moderation workflow for wiki entries
type EntryService struct {
	entries  EntryRepository
	owners   OwnerLookup
	audit    Auditor
	notifier Notifier
	metrics  *metrics.ModerationMetrics
	tokens   policy.TokenSource
	logger   *slog.Logger
}

func NewEntryService(
	entries EntryRepository,
	owners OwnerLookup,
	audit Auditor,
	notifier Notifier,
	m *metrics.ModerationMetrics,
	logger *slog.Logger,
) *EntryService {
	return &EntryService{
		entries:  entries,
		owners:   owners,
		audit:    audit,
		notifier: notifier,
		metrics:  m,
		tokens:   policy.NewSpecialAccessToken,
		logger:   logger,
	}
}

// WithTokenSource replaces the special-post token generator.
func (s *EntryService) WithTokenSource(tokens policy.TokenSource) *EntryService {
	s.tokens = tokens
	return s
}

// CreateEntry stores a new pending entry owned by actor.
func (s *EntryService) CreateEntry(ctx context.Context, actor *models.User, in CreateEntryInput) (*models.WikiEntry, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("title", "")
	}

	entry, err := policy.NewEntry(actor, title, in.Description, normalizeURL(in.ImageURL), in.IsSpecial, s.tokens)
	if err != nil {
		if actor == nil {
			return nil, err
		}
		s.logger.ErrorContext(ctx, "failed to build entry", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	created, err := s.entries.Create(ctx, entry)
	if err != nil {
		return nil, storeError(ctx, s.logger, "failed to create entry", err, slog.String("user_id", actor.ID))
	}

	s.logger.InfoContext(ctx, "entry created",
		slog.String("entry_id", created.ID),
		slog.String("user_id", actor.ID),
		slog.Bool("special", created.IsSpecial))
	return created, nil
}

// GetEntry returns the entry if requester may see it. requester is nil for
// anonymous callers and token is the optional special-post token.
func (s *EntryService) GetEntry(ctx context.Context, requester *models.User, id, token string) (*models.EntryView, error) {
	view, err := s.entries.GetView(ctx, id)
	if err != nil {
		return nil, storeError(ctx, s.logger, "failed to get entry", err, slog.String("entry_id", id))
	}

	switch policy.ResolveVisibility(view.Entry, requester, token) {
	case policy.VisibilityVisible:
		return view, nil
	case policy.VisibilityAccessDenied:
		return nil, models.ErrAccessDenied
	default:
		return nil, models.ErrNotFound
	}
}

// ListApproved returns public entries: approved and not special.
func (s *EntryService) ListApproved(ctx context.Context, limit, offset int) ([]*models.EntryView, error) {
	limit, offset = clampPage(limit, offset)

	views, err := s.entries.List(ctx, models.EntryFilter{
		Status: models.EntryStatusApproved,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, storeError(ctx, s.logger, "failed to list entries", err)
	}

	return views, nil
}

// ListByUser returns userID's entries. The owner and moderators see every
// entry; everyone else sees only the public ones.
func (s *EntryService) ListByUser(ctx context.Context, requester *models.User, userID string, limit, offset int) ([]*models.EntryView, error) {
	limit, offset = clampPage(limit, offset)

	filter := models.EntryFilter{UserID: userID, Limit: limit, Offset: offset}
	if requester != nil && (requester.ID == userID || policy.HasCapability(requester, policy.CapModerate)) {
		filter.IncludeSpecial = true
	} else {
		filter.Status = models.EntryStatusApproved
	}

	views, err := s.entries.List(ctx, filter)
	if err != nil {
		return nil, storeError(ctx, s.logger, "failed to list user entries", err, slog.String("user_id", userID))
	}

	return views, nil
}

// ListModerationQueue returns entries for review, optionally of one status.
func (s *EntryService) ListModerationQueue(ctx context.Context, actor *models.User, status string, limit, offset int) ([]*models.EntryView, error) {
	if !policy.HasCapability(actor, policy.CapModerate) {
		return nil, models.ErrForbidden
	}

	filter := models.EntryFilter{IncludeSpecial: true}
	if status != "" {
		parsed, err := models.ParseEntryStatus(status)
		if err != nil {
			return nil, err
		}
		filter.Status = parsed
	}
	filter.Limit, filter.Offset = clampPage(limit, offset)

	views, err := s.entries.List(ctx, filter)
	if err != nil {
		return nil, storeError(ctx, s.logger, "failed to list moderation queue", err)
	}

	return views, nil
}

// UpdateEntry applies an owner edit and sends the entry back to pending.
func (s *EntryService) UpdateEntry(ctx context.Context, actor *models.User, id string, patch models.EntryPatch) (*models.WikiEntry, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, models.NewValidationError("title", "")
		}
		patch.Title = &title
	}

	entry, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(ctx, s.logger, "failed to get entry", err, slog.String("entry_id", id))
	}

	prevStatus := entry.Status
	if err := policy.ApplyOwnerEdit(entry, actor, patch, s.tokens); err != nil {
		if errors.Is(err, models.ErrForbidden) || errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		s.logger.ErrorContext(ctx, "failed to apply entry edit", slog.String("entry_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	updated, err := s.entries.UpdateContent(ctx, entry)
	if err != nil {
		return nil, storeError(ctx, s.logger, "failed to update entry", err, slog.String("entry_id", id))
	}

	if prevStatus != models.EntryStatusPending {
		s.metrics.RecordEditReset()
		s.logger.InfoContext(ctx, "entry returned to moderation",
			slog.String("entry_id", id),
			slog.String("previous_status", string(prevStatus)))
	}

	return updated, nil
}

// DeleteEntry removes an entry owned by actor, or any entry for admins.
func (s *EntryService) DeleteEntry(ctx context.Context, actor *models.User, id string) error {
	entry, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return storeError(ctx, s.logger, "failed to get entry", err, slog.String("entry_id", id))
	}

	if !policy.CanDeleteEntry(entry, actor) {
		return models.ErrForbidden
	}

	if err := s.entries.Delete(ctx, id); err != nil {
		return storeError(ctx, s.logger, "failed to delete entry", err, slog.String("entry_id", id))
	}

	if !policy.IsOwner(entry, actor) {
		s.audit.Record(ctx, AuditRecord{
			EventType:    models.AuditEventTypeEntryDelete,
			Actor:        actor,
			TargetID:     id,
			ResourceType: models.AuditResourceTypeEntry,
			Action:       models.AuditActionDelete,
			Metadata:     models.AuditMetadata{"owner_id": entry.UserID, "title": entry.Title},
		})
	}

	return nil
}

// ModerateEntry sets the moderation status of an entry.
func (s *EntryService) ModerateEntry(ctx context.Context, actor *models.User, id, status string) (*models.WikiEntry, error) {
	if !policy.HasCapability(actor, policy.CapModerate) {
		return nil, models.ErrForbidden
	}

	entry, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(ctx, s.logger, "failed to get entry", err, slog.String("entry_id", id))
	}

	prev, err := policy.ApplyModeration(entry, actor, status)
	if err != nil {
		return nil, err
	}

	updated, err := s.entries.SetStatus(ctx, id, entry.Status)
	if err != nil {
		return nil, storeError(ctx, s.logger, "failed to moderate entry", err, slog.String("entry_id", id))
	}

	s.audit.Record(ctx, AuditRecord{
		EventType:    models.AuditEventTypeModeration,
		Actor:        actor,
		TargetID:     id,
		ResourceType: models.AuditResourceTypeEntry,
		Action:       models.AuditActionUpdate,
		Metadata:     models.NewTransitionMetadata("status", string(prev), string(updated.Status)),
	})
	s.metrics.RecordDecision(string(updated.Status))

	if prev != updated.Status {
		s.notifyOwner(ctx, updated)
	}

	return updated, nil
}

// SetVerification sets an entry's verification marker. Status is untouched.
func (s *EntryService) SetVerification(ctx context.Context, actor *models.User, id, verification string) (*models.WikiEntry, error) {
	if !policy.HasCapability(actor, policy.CapVerify) {
		return nil, models.ErrForbidden
	}

	entry, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(ctx, s.logger, "failed to get entry", err, slog.String("entry_id", id))
	}

	prev, err := policy.ApplyVerification(entry, actor, verification)
	if err != nil {
		return nil, err
	}

	updated, err := s.entries.SetVerification(ctx, id, entry.Verification)
	if err != nil {
		return nil, storeError(ctx, s.logger, "failed to set verification", err, slog.String("entry_id", id))
	}

	s.audit.Record(ctx, AuditRecord{
		EventType:    models.AuditEventTypeVerification,
		Actor:        actor,
		TargetID:     id,
		ResourceType: models.AuditResourceTypeEntry,
		Action:       models.AuditActionUpdate,
		Metadata:     models.NewTransitionMetadata("verification", string(prev), string(updated.Verification)),
	})
	s.metrics.RecordVerification(string(updated.Verification))

	return updated, nil
}

func (s *EntryService) notifyOwner(ctx context.Context, entry *models.WikiEntry) {
	owner, err := s.owners.GetByID(ctx, entry.UserID)
	if err != nil {
		s.logger.WarnContext(ctx, "moderation notification skipped: owner lookup failed",
			slog.String("entry_id", entry.ID),
			slog.Any("error", err))
		return
	}

	if err := s.notifier.NotifyModerationDecision(ctx, owner, entry); err != nil {
		s.logger.WarnContext(ctx, "moderation notification failed",
			slog.String("entry_id", entry.ID),
			slog.Any("error", err))
	}
}

// normalizeURL maps an empty image URL to no image.
func normalizeURL(url *string) *string {
	if url == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*url)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
