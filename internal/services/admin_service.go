package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/BradenHooton/wikiboard/internal/metrics"
	"github.com/BradenHooton/wikiboard/internal/models"
	"github.com/BradenHooton/wikiboard/internal/policy"
)

// AdminUserRepository is the subset of UserRepository methods needed by AdminService.
type AdminUserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	Ban(ctx context.Context, id, reason string, until *time.Time) (*models.User, error)
	Unban(ctx context.Context, id string) (*models.User, error)
	Delete(ctx context.Context, id string) error
	SetRole(ctx context.Context, id, role string) (*models.User, error)
	SetBadge(ctx context.Context, id, badge string) (*models.User, error)
	CountUsers(ctx context.Context, now time.Time) (total, banned int64, err error)
}

// AdminEntryRepository provides entry counts for the dashboard.
type AdminEntryRepository interface {
	CountByStatus(ctx context.Context) (map[models.EntryStatus]int64, error)
}

// AdminReportRepository provides report counts for the dashboard.
type AdminReportRepository interface {
	CountOpen(ctx context.Context) (int64, error)
}

// DashboardStats contains aggregate admin metrics.
type DashboardStats struct {
	TotalUsers      int64
	BannedUsers     int64
	EntriesByStatus map[models.EntryStatus]int64
	OpenReports     int64
}

// AdminService implements user administration and the admin dashboard.
type AdminService struct {
	users   AdminUserRepository
	entries AdminEntryRepository
	reports AdminReportRepository
	audit   Auditor
	metrics *metrics.ModerationMetrics
	now     func() time.Time
	logger  *slog.Logger
}

// NewAdminService creates a new AdminService.
func NewAdminService(
	users AdminUserRepository,
	entries AdminEntryRepository,
	reports AdminReportRepository,
	audit Auditor,
	m *metrics.ModerationMetrics,
	logger *slog.Logger,
) *AdminService {
	return &AdminService{
		users:   users,
		entries: entries,
		reports: reports,
		audit:   audit,
		metrics: m,
		now:     time.Now,
		logger:  logger,
	}
}

// WithClock replaces the time source.
func (s *AdminService) WithClock(now func() time.Time) *AdminService {
	s.now = now
	return s
}

func (s *AdminService) requireManager(ctx context.Context, actor *models.User, op string) error {
	if actor == nil {
		return models.ErrUnauthorized
	}
	if !policy.HasCapability(actor, policy.CapManageUsers) {
		s.logger.WarnContext(ctx, "admin operation denied",
			slog.String("operation", op),
			slog.String("actor_id", actor.ID))
		return models.ErrForbidden
	}
	return nil
}

// ListUsers returns a page of users.
func (s *AdminService) ListUsers(ctx context.Context, actor *models.User, limit, offset int) ([]*models.User, error) {
	if err := s.requireManager(ctx, actor, "list_users"); err != nil {
		return nil, err
	}
	limit, offset = clampPage(limit, offset)

	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, storeError(ctx, s.logger, "failed to list users", err,
			slog.Int("limit", limit), slog.Int("offset", offset))
	}

	return users, nil
}

// BanUser bans targetID. A nil until is permanent; an until not in the
// future is rejected. Admins cannot ban themselves.
func (s *AdminService) BanUser(ctx context.Context, actor *models.User, targetID, reason string, until *time.Time) (*models.User, error) {
	if err := s.requireManager(ctx, actor, "ban_user"); err != nil {
		return nil, err
	}
	if actor.ID == targetID {
		return nil, models.ErrForbidden
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, models.NewValidationError("reason", "")
	}
	if until != nil && !until.After(s.now()) {
		return nil, models.NewValidationError("until", until.Format(time.RFC3339))
	}

	user, err := s.users.Ban(ctx, targetID, reason, until)
	if err != nil {
		return nil, storeError(ctx, s.logger, "failed to ban user", err, slog.String("target_id", targetID))
	}

	metadata := models.AuditMetadata{"reason": reason, "permanent": until == nil}
	if until != nil {
		metadata["until"] = until.UTC().Format(time.RFC3339)
	}
	s.audit.Record(ctx, AuditRecord{
		EventType:    models.AuditEventTypeBan,
		Actor:        actor,
		TargetID:     targetID,
		ResourceType: models.AuditResourceTypeUser,
		Action:       models.AuditActionUpdate,
		Metadata:     metadata,
	})
	s.metrics.RecordBanIssued()

	return user, nil
}

// UnbanUser clears all ban fields of targetID.
func (s *AdminService) UnbanUser(ctx context.Context, actor *models.User, targetID string) (*models.User, error) {
	if err := s.requireManager(ctx, actor, "unban_user"); err != nil {
		return nil, err
	}

	user, err := s.users.Unban(ctx, targetID)
	if err != nil {
		return nil, storeError(ctx, s.logger, "failed to unban user", err, slog.String("target_id", targetID))
	}

	s.audit.Record(ctx, AuditRecord{
		EventType:    models.AuditEventTypeUnban,
		Actor:        actor,
		TargetID:     targetID,
		ResourceType: models.AuditResourceTypeUser,
		Action:       models.AuditActionUpdate,
	})

	return user, nil
}

// DeleteUser removes targetID and everything they own.
func (s *AdminService) DeleteUser(ctx context.Context, actor *models.User, targetID string) error {
	if err := s.requireManager(ctx, actor, "delete_user"); err != nil {
		return err
	}
	if actor.ID == targetID {
		return models.ErrForbidden
	}

	if err := s.users.Delete(ctx, targetID); err != nil {
		return storeError(ctx, s.logger, "failed to delete user", err, slog.String("target_id", targetID))
	}

	s.audit.Record(ctx, AuditRecord{
		EventType:    models.AuditEventTypeUserDelete,
		Actor:        actor,
		TargetID:     targetID,
		ResourceType: models.AuditResourceTypeUser,
		Action:       models.AuditActionDelete,
	})

	s.logger.InfoContext(ctx, "user deleted", slog.String("user_id", targetID))
	return nil
}

// SetRole changes targetID's role; the legacy admin flag follows it.
func (s *AdminService) SetRole(ctx context.Context, actor *models.User, targetID, role string) (*models.User, error) {
	if err := s.requireManager(ctx, actor, "set_role"); err != nil {
		return nil, err
	}

	role, err := models.ParseRole(role)
	if err != nil {
		return nil, err
	}

	prev, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, storeError(ctx, s.logger, "failed to get user", err, slog.String("target_id", targetID))
	}

	user, err := s.users.SetRole(ctx, targetID, role)
	if err != nil {
		return nil, storeError(ctx, s.logger, "failed to set role", err, slog.String("target_id", targetID))
	}

	s.audit.Record(ctx, AuditRecord{
		EventType:    models.AuditEventTypeRoleChange,
		Actor:        actor,
		TargetID:     targetID,
		ResourceType: models.AuditResourceTypeUser,
		Action:       models.AuditActionUpdate,
		Metadata:     models.NewTransitionMetadata("role", policy.EffectiveRole(prev), role),
	})

	return user, nil
}

// SetBadge changes targetID's cosmetic badge.
func (s *AdminService) SetBadge(ctx context.Context, actor *models.User, targetID, badge string) (*models.User, error) {
	if err := s.requireManager(ctx, actor, "set_badge"); err != nil {
		return nil, err
	}

	badge, err := models.ParseBadge(badge)
	if err != nil {
		return nil, err
	}

	user, err := s.users.SetBadge(ctx, targetID, badge)
	if err != nil {
		return nil, storeError(ctx, s.logger, "failed to set badge", err, slog.String("target_id", targetID))
	}

	s.audit.Record(ctx, AuditRecord{
		EventType:    models.AuditEventTypeBadgeChange,
		Actor:        actor,
		TargetID:     targetID,
		ResourceType: models.AuditResourceTypeUser,
		Action:       models.AuditActionUpdate,
		Metadata:     models.AuditMetadata{"badge": badge},
	})

	return user, nil
}

// GetDashboardStats returns aggregate user, entry and report counts.
func (s *AdminService) GetDashboardStats(ctx context.Context, actor *models.User) (*DashboardStats, error) {
	if err := s.requireManager(ctx, actor, "dashboard_stats"); err != nil {
		return nil, err
	}

	total, banned, err := s.users.CountUsers(ctx, s.now())
	if err != nil {
		return nil, storeError(ctx, s.logger, "dashboard: failed to count users", err)
	}

	byStatus, err := s.entries.CountByStatus(ctx)
	if err != nil {
		return nil, storeError(ctx, s.logger, "dashboard: failed to count entries", err)
	}

	openReports, err := s.reports.CountOpen(ctx)
	if err != nil {
		return nil, storeError(ctx, s.logger, "dashboard: failed to count reports", err)
	}

	return &DashboardStats{
		TotalUsers:      total,
		BannedUsers:     banned,
		EntriesByStatus: byStatus,
		OpenReports:     openReports,
	}, nil
}
