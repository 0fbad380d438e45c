package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/BradenHooton/wikiboard/internal/metrics"
	"github.com/BradenHooton/wikiboard/internal/models"
	"github.com/BradenHooton/wikiboard/internal/policy"
)

// ReportRepository defines content report persistence
type ReportRepository interface {
	Create(ctx context.Context, rep *models.ContentReport) (*models.ContentReport, error)
	List(ctx context.Context, status models.ReportStatus, limit, offset int) ([]*models.ContentReport, error)
	ListByReporter(ctx context.Context, reporterID string) ([]*models.ContentReport, error)
	UpdateStatus(ctx context.Context, id string, status models.ReportStatus) (*models.ContentReport, error)
}

// EntryLookup loads a single entry
type EntryLookup interface {
	GetByID(ctx context.Context, id string) (*models.WikiEntry, error)
}

// ReportService handles content reports and their review
type ReportService struct {
	reports ReportRepository
	entries EntryLookup
	audit   Auditor
	metrics *metrics.ModerationMetrics
	logger  *slog.Logger
}

func NewReportService(reports ReportRepository, entries EntryLookup, audit Auditor, m *metrics.ModerationMetrics, logger *slog.Logger) *ReportService {
	return &ReportService{
		reports: reports,
		entries: entries,
		audit:   audit,
		metrics: m,
		logger:  logger,
	}
}

// CreateReport files a pending report against an existing entry.
func (s *ReportService) CreateReport(ctx context.Context, actor *models.User, entryID, reason string, description *string) (*models.ContentReport, error) {
	if actor == nil {
		return nil, models.ErrUnauthorized
	}

	parsed, err := models.ParseReportReason(reason)
	if err != nil {
		return nil, err
	}

	if _, err := s.entries.GetByID(ctx, entryID); err != nil {
		return nil, storeError(ctx, s.logger, "failed to get reported entry", err, slog.String("entry_id", entryID))
	}

	if description != nil {
		trimmed := strings.TrimSpace(*description)
		if trimmed == "" {
			description = nil
		} else {
			description = &trimmed
		}
	}

	rep, err := s.reports.Create(ctx, &models.ContentReport{
		EntryID:     entryID,
		ReporterID:  actor.ID,
		Reason:      parsed,
		Description: description,
		Status:      models.ReportStatusPending,
	})
	if err != nil {
		return nil, storeError(ctx, s.logger, "failed to create report", err, slog.String("entry_id", entryID))
	}

	s.metrics.RecordReport(string(parsed))
	s.logger.InfoContext(ctx, "content report filed",
		slog.String("report_id", rep.ID),
		slog.String("entry_id", entryID),
		slog.String("reason", string(parsed)))
	return rep, nil
}

// ListReports returns reports for review, optionally of one status.
func (s *ReportService) ListReports(ctx context.Context, actor *models.User, status string, limit, offset int) ([]*models.ContentReport, error) {
	if !policy.HasCapability(actor, policy.CapReviewReports) {
		return nil, models.ErrForbidden
	}

	var filter models.ReportStatus
	if status != "" {
		parsed, err := models.ParseReportStatus(status)
		if err != nil {
			return nil, err
		}
		filter = parsed
	}
	limit, offset = clampPage(limit, offset)

	reports, err := s.reports.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, storeError(ctx, s.logger, "failed to list reports", err)
	}

	return reports, nil
}

// UpdateReportStatus moves a report to any review status.
func (s *ReportService) UpdateReportStatus(ctx context.Context, actor *models.User, id, status string) (*models.ContentReport, error) {
	if !policy.HasCapability(actor, policy.CapReviewReports) {
		return nil, models.ErrForbidden
	}

	parsed, err := models.ParseReportStatus(status)
	if err != nil {
		return nil, err
	}

	rep, err := s.reports.UpdateStatus(ctx, id, parsed)
	if err != nil {
		return nil, storeError(ctx, s.logger, "failed to update report", err, slog.String("report_id", id))
	}

	s.audit.Record(ctx, AuditRecord{
		EventType:    models.AuditEventTypeReportReview,
		Actor:        actor,
		TargetID:     id,
		ResourceType: models.AuditResourceTypeReport,
		Action:       models.AuditActionUpdate,
		Metadata:     models.AuditMetadata{"status": string(parsed), "entry_id": rep.EntryID},
	})

	return rep, nil
}

// ListMyReports returns the reports actor has filed.
func (s *ReportService) ListMyReports(ctx context.Context, actor *models.User) ([]*models.ContentReport, error) {
	if actor == nil {
		return nil, models.ErrUnauthorized
	}

	reports, err := s.reports.ListByReporter(ctx, actor.ID)
	if err != nil {
		return nil, storeError(ctx, s.logger, "failed to list own reports", err, slog.String("user_id", actor.ID))
	}

	return reports, nil
}
