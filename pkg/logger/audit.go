package logger

import (
	"context"
	"log/slog"
	"sort"
	"time"
)

// AuditEvent represents a privileged action worth an audit line
type AuditEvent struct {
	EventType     string
	ActorID       string
	TargetID      string
	ResourceType  string
	Action        string
	IPAddress     string
	Success       bool
	FailureReason string
	Metadata      map[string]string
}

// AuditLogger provides audit logging functionality
type AuditLogger struct {
	logger *slog.Logger
}

// NewAuditLogger creates a new audit logger
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return &AuditLogger{
		logger: logger,
	}
}

// LogPrivilegedAction logs a moderation or administration action
func (al *AuditLogger) LogPrivilegedAction(ctx context.Context, event AuditEvent) {
	attrs := []slog.Attr{
		slog.String("audit_type", "privileged"),
		slog.String("event_type", event.EventType),
		slog.String("action", event.Action),
		slog.Bool("success", event.Success),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}

	if event.ActorID != "" {
		attrs = append(attrs, slog.String("actor_id", event.ActorID))
	}
	if event.TargetID != "" {
		attrs = append(attrs, slog.String("target_id", event.TargetID))
	}
	if event.ResourceType != "" {
		attrs = append(attrs, slog.String("resource_type", event.ResourceType))
	}
	if event.IPAddress != "" {
		attrs = append(attrs, slog.String("ip_address", event.IPAddress))
	}
	if event.FailureReason != "" {
		attrs = append(attrs, slog.String("failure_reason", event.FailureReason))
	}

	keys := make([]string, 0, len(event.Metadata))
	for key := range event.Metadata {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		attrs = append(attrs, slog.String(key, event.Metadata[key]))
	}

	level := slog.LevelInfo
	if !event.Success {
		level = slog.LevelWarn
	}
	al.logger.LogAttrs(ctx, level, "audit", attrs...)
}
