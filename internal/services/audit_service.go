package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/BradenHooton/wikiboard/internal/models"
	pkglogger "github.com/BradenHooton/wikiboard/pkg/logger"
)

// AuditLogRepository defines the audit log persistence used by AuditService
type AuditLogRepository interface {
	Create(ctx context.Context, log *models.AuditLog) (*models.AuditLog, error)
	List(ctx context.Context, filter models.AuditFilter) ([]*models.AuditLog, error)
}

// Auditor records privileged actions. Recording never fails the caller.
type Auditor interface {
	Record(ctx context.Context, event AuditRecord)
}

// AuditRecord describes one privileged action.
type AuditRecord struct {
	EventType    string
	Actor        *models.User
	TargetID     string
	ResourceType string
	Action       string
	Metadata     models.AuditMetadata
}

type requestMetaKey struct{}

// RequestMeta carries the caller's network details for audit rows.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// WithRequestMeta attaches request metadata to ctx for later audit records.
func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

func requestMetaFrom(ctx context.Context) RequestMeta {
	meta, _ := ctx.Value(requestMetaKey{}).(RequestMeta)
	return meta
}

// AuditService handles audit logging with dual-write pattern (slog + database)
type AuditService struct {
	repo        AuditLogRepository
	auditLogger *pkglogger.AuditLogger
	logger      *slog.Logger
}

// NewAuditService creates a new AuditService
func NewAuditService(repo AuditLogRepository, logger *slog.Logger) *AuditService {
	return &AuditService{
		repo:        repo,
		auditLogger: pkglogger.NewAuditLogger(logger),
		logger:      logger,
	}
}

// Record writes an audit line and persists the row. A persistence failure is
// logged and swallowed.
func (s *AuditService) Record(ctx context.Context, event AuditRecord) {
	meta := requestMetaFrom(ctx)

	log := &models.AuditLog{
		EventType: event.EventType,
		Action:    event.Action,
		Success:   true,
		Metadata:  event.Metadata,
	}
	if event.Actor != nil {
		log.ActorID = stringPtr(event.Actor.ID)
	}
	if event.TargetID != "" {
		log.TargetID = stringPtr(event.TargetID)
		log.ResourceID = stringPtr(event.TargetID)
	}
	if event.ResourceType != "" {
		log.ResourceType = stringPtr(event.ResourceType)
	}
	if meta.IPAddress != "" {
		log.IPAddress = stringPtr(meta.IPAddress)
	}
	if meta.UserAgent != "" {
		log.UserAgent = stringPtr(meta.UserAgent)
	}

	// Dual-write: immediate slog output
	line := pkglogger.AuditEvent{
		EventType:    event.EventType,
		TargetID:     event.TargetID,
		ResourceType: event.ResourceType,
		Action:       event.Action,
		IPAddress:    meta.IPAddress,
		Success:      true,
		Metadata:     make(map[string]string, len(event.Metadata)),
	}
	if event.Actor != nil {
		line.ActorID = event.Actor.ID
	}
	for k, v := range event.Metadata {
		line.Metadata[k] = fmt.Sprint(v)
	}
	s.auditLogger.LogPrivilegedAction(ctx, line)

	if _, err := s.repo.Create(ctx, log); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist audit log",
			slog.String("event_type", event.EventType),
			slog.Any("error", err),
		)
	}
}

// ListRecent returns the newest audit rows matching filter. The page is clamped.
func (s *AuditService) ListRecent(ctx context.Context, filter models.AuditFilter) ([]*models.AuditLog, error) {
	filter.Limit, filter.Offset = clampPage(filter.Limit, filter.Offset)

	logs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, storeError(ctx, s.logger, "failed to list audit logs", err)
	}

	return logs, nil
}

func stringPtr(s string) *string {
	return &s
}
