// Package maintenance holds operator-run batch jobs against the store.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/BradenHooton/wikiboard/internal/metrics"
)

// ExpiredBanClearer clears every timed ban that has lapsed at now
type ExpiredBanClearer interface {
	ClearExpiredBans(ctx context.Context, now time.Time) (int64, error)
}

// BanSweeper clears lapsed timed bans in bulk. Lazy expiry on the ban check
// stays authoritative; a sweep only brings stored flags and dashboard counts
// in line for users who have not been back since their ban ran out.
type BanSweeper struct {
	repo    ExpiredBanClearer
	metrics *metrics.ModerationMetrics
	logger  *slog.Logger
	timeout time.Duration
	now     func() time.Time
}

// NewBanSweeper creates a new ban sweeper
func NewBanSweeper(repo ExpiredBanClearer, m *metrics.ModerationMetrics, logger *slog.Logger) *BanSweeper {
	return &BanSweeper{
		repo:    repo,
		metrics: m,
		logger:  logger,
		timeout: 30 * time.Second,
		now:     time.Now,
	}
}

// Sweep clears lapsed bans once and returns how many users were cleared
func (s *BanSweeper) Sweep(ctx context.Context) (int64, error) {
	sweepCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cleared, err := s.repo.ClearExpiredBans(sweepCtx, s.now())
	if err != nil {
		s.logger.Error("failed to clear expired bans", slog.Any("error", err))
		return 0, err
	}

	if cleared > 0 {
		s.metrics.RecordBansCleared(cleared)
	}
	s.logger.Info("ban sweep finished", slog.Int64("users_cleared", cleared))
	return cleared, nil
}
