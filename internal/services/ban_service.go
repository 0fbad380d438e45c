package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/BradenHooton/wikiboard/internal/metrics"
	"github.com/BradenHooton/wikiboard/internal/models"
	"github.com/BradenHooton/wikiboard/internal/policy"
)

// BanRepository clears lapsed timed bans and reloads users whose stored ban
// changed under a check
type BanRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	ClearExpiredBan(ctx context.Context, id string, now time.Time) (bool, error)
}

// BanService runs the ban check on each authenticated request
type BanService struct {
	repo    BanRepository
	metrics *metrics.ModerationMetrics
	now     func() time.Time
	logger  *slog.Logger
}

func NewBanService(repo BanRepository, m *metrics.ModerationMetrics, logger *slog.Logger) *BanService {
	return &BanService{
		repo:    repo,
		metrics: m,
		now:     time.Now,
		logger:  logger,
	}
}

// WithClock replaces the time source.
func (s *BanService) WithClock(now func() time.Time) *BanService {
	s.now = now
	return s
}

// CheckBanStatus evaluates user's ban at the current time. A lapsed timed ban
// is cleared in the store with a conditional update and in user itself, so
// repeating the check writes nothing. When the conditional update matches no
// row the stored ban changed since user was loaded (cleared by another
// request, or re-issued by an admin), so the user is reloaded and the fresh
// ban fields decide.
func (s *BanService) CheckBanStatus(ctx context.Context, user *models.User) (policy.BanDecision, error) {
	now := s.now()
	decision := policy.EvaluateBan(user, now)
	if !decision.Expired {
		return decision, nil
	}

	cleared, err := s.repo.ClearExpiredBan(ctx, user.ID, now)
	if err != nil {
		return policy.BanDecision{}, storeError(ctx, s.logger, "failed to clear expired ban", err,
			slog.String("user_id", user.ID))
	}

	if cleared {
		policy.ClearBan(user)
		s.metrics.RecordBanCleared()
		s.logger.InfoContext(ctx, "expired ban cleared", slog.String("user_id", user.ID))
		return decision, nil
	}

	fresh, err := s.repo.GetByID(ctx, user.ID)
	if err != nil {
		return policy.BanDecision{}, storeError(ctx, s.logger, "failed to reload user after ban check", err,
			slog.String("user_id", user.ID))
	}
	user.IsBanned = fresh.IsBanned
	user.BanReason = fresh.BanReason
	user.BannedUntil = fresh.BannedUntil

	decision = policy.EvaluateBan(user, now)
	if decision.Expired {
		// Admin bans never end in the past, so a lapsed reload is a clear in flight.
		policy.ClearBan(user)
		return policy.BanDecision{}, nil
	}
	if decision.Banned {
		s.logger.InfoContext(ctx, "ban re-issued during expiry check", slog.String("user_id", user.ID))
	}
	return decision, nil
}
