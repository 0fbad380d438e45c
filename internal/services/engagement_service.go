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

// CommentRepository defines comment persistence
type CommentRepository interface {
	Create(ctx context.Context, c *models.Comment) (*models.Comment, error)
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByEntry(ctx context.Context, entryID string) ([]*models.Comment, error)
	Delete(ctx context.Context, id string) error
}

// LikeRepository defines like persistence
type LikeRepository interface {
	Create(ctx context.Context, entryID, userID string) (*models.Like, error)
	Delete(ctx context.Context, entryID, userID string) (bool, error)
	CountByEntry(ctx context.Context, entryID string) (int64, error)
}

// maxCommentLength bounds a single comment in characters.
const maxCommentLength = 2000

// EngagementService handles comments and likes on visible entries
type EngagementService struct {
	comments CommentRepository
	likes    LikeRepository
	entries  EntryLookup
	audit    Auditor
	metrics  *metrics.ModerationMetrics
	logger   *slog.Logger
}

func NewEngagementService(
	comments CommentRepository,
	likes LikeRepository,
	entries EntryLookup,
	audit Auditor,
	m *metrics.ModerationMetrics,
	logger *slog.Logger,
) *EngagementService {
	return &EngagementService{
		comments: comments,
		likes:    likes,
		entries:  entries,
		audit:    audit,
		metrics:  m,
		logger:   logger,
	}
}

// visibleEntry loads an entry and applies the read rule for requester.
func (s *EngagementService) visibleEntry(ctx context.Context, requester *models.User, entryID, token string) (*models.WikiEntry, error) {
	entry, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		return nil, storeError(ctx, s.logger, "failed to get entry", err, slog.String("entry_id", entryID))
	}

	switch policy.ResolveVisibility(entry, requester, token) {
	case policy.VisibilityVisible:
		return entry, nil
	case policy.VisibilityAccessDenied:
		return nil, models.ErrAccessDenied
	default:
		return nil, models.ErrNotFound
	}
}

// AddComment posts a comment on an entry actor can see.
func (s *EngagementService) AddComment(ctx context.Context, actor *models.User, entryID, token, content string) (*models.Comment, error) {
	if actor == nil {
		return nil, models.ErrUnauthorized
	}

	content = strings.TrimSpace(content)
	if content == "" || len([]rune(content)) > maxCommentLength {
		return nil, models.NewValidationError("content", "")
	}

	if _, err := s.visibleEntry(ctx, actor, entryID, token); err != nil {
		return nil, err
	}

	c, err := s.comments.Create(ctx, &models.Comment{EntryID: entryID, UserID: actor.ID, Content: content})
	if err != nil {
		return nil, storeError(ctx, s.logger, "failed to create comment", err, slog.String("entry_id", entryID))
	}

	return c, nil
}

// ListComments returns the comments of an entry requester can see.
func (s *EngagementService) ListComments(ctx context.Context, requester *models.User, entryID, token string) ([]*models.Comment, error) {
	if _, err := s.visibleEntry(ctx, requester, entryID, token); err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByEntry(ctx, entryID)
	if err != nil {
		return nil, storeError(ctx, s.logger, "failed to list comments", err, slog.String("entry_id", entryID))
	}

	return comments, nil
}

// DeleteComment removes a comment. Only its author or a moderator may.
func (s *EngagementService) DeleteComment(ctx context.Context, actor *models.User, id string) error {
	if actor == nil {
		return models.ErrUnauthorized
	}

	c, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return storeError(ctx, s.logger, "failed to get comment", err, slog.String("comment_id", id))
	}

	if !policy.CanDeleteComment(c, actor) {
		return models.ErrForbidden
	}

	if err := s.comments.Delete(ctx, id); err != nil {
		return storeError(ctx, s.logger, "failed to delete comment", err, slog.String("comment_id", id))
	}

	if c.UserID != actor.ID {
		s.audit.Record(ctx, AuditRecord{
			EventType:    models.AuditEventTypeCommentPurge,
			Actor:        actor,
			TargetID:     id,
			ResourceType: models.AuditResourceTypeComment,
			Action:       models.AuditActionDelete,
			Metadata:     models.AuditMetadata{"author_id": c.UserID, "entry_id": c.EntryID},
		})
	}

	return nil
}

// LikeEntry likes an entry actor can see and returns the new like count.
// Liking twice returns ErrConflict and leaves a single like.
func (s *EngagementService) LikeEntry(ctx context.Context, actor *models.User, entryID, token string) (int64, error) {
	if actor == nil {
		return 0, models.ErrUnauthorized
	}

	if _, err := s.visibleEntry(ctx, actor, entryID, token); err != nil {
		return 0, err
	}

	if _, err := s.likes.Create(ctx, entryID, actor.ID); err != nil {
		if errors.Is(err, models.ErrConflict) {
			s.metrics.RecordDuplicateLike()
			return 0, models.ErrConflict
		}
		return 0, storeError(ctx, s.logger, "failed to like entry", err, slog.String("entry_id", entryID))
	}

	return s.countLikes(ctx, entryID)
}

// UnlikeEntry removes actor's like and returns the new like count.
func (s *EngagementService) UnlikeEntry(ctx context.Context, actor *models.User, entryID string) (int64, error) {
	if actor == nil {
		return 0, models.ErrUnauthorized
	}

	removed, err := s.likes.Delete(ctx, entryID, actor.ID)
	if err != nil {
		return 0, storeError(ctx, s.logger, "failed to unlike entry", err, slog.String("entry_id", entryID))
	}
	if !removed {
		return 0, models.ErrNotFound
	}

	return s.countLikes(ctx, entryID)
}

func (s *EngagementService) countLikes(ctx context.Context, entryID string) (int64, error) {
	n, err := s.likes.CountByEntry(ctx, entryID)
	if err != nil {
		return 0, storeError(ctx, s.logger, "failed to count likes", err, slog.String("entry_id", entryID))
	}
	return n, nil
}
