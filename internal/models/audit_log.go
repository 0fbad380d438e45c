package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types for audit logging
const (
	AuditEventTypeModeration   = "entry_moderation"
	AuditEventTypeVerification = "entry_verification"
	AuditEventTypeEntryDelete  = "entry_delete"
	AuditEventTypeBan          = "user_ban"
	AuditEventTypeUnban        = "user_unban"
	AuditEventTypeRoleChange   = "role_change"
	AuditEventTypeBadgeChange  = "badge_change"
	AuditEventTypeUserDelete   = "user_delete"
	AuditEventTypeReportReview = "report_review"
	AuditEventTypeCommentPurge = "comment_delete"
)

// Resource types
const (
	AuditResourceTypeUser    = "user"
	AuditResourceTypeEntry   = "wiki_entry"
	AuditResourceTypeReport  = "content_report"
	AuditResourceTypeComment = "comment"
)

// Actions
const (
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
)

// AuditFilter narrows audit listings. UserID matches actor or target.
type AuditFilter struct {
	EventType string
	UserID    string
	Limit     int
	Offset    int
}

// AuditLog is one persisted privileged action
type AuditLog struct {
	ID            uuid.UUID     `db:"id"`
	EventType     string        `db:"event_type"`
	ActorID       *string       `db:"actor_id"`
	TargetID      *string       `db:"target_id"`
	ResourceType  *string       `db:"resource_type"`
	ResourceID    *string       `db:"resource_id"`
	Action        string        `db:"action"`
	Success       bool          `db:"success"`
	FailureReason *string       `db:"failure_reason"`
	IPAddress     *string       `db:"ip_address"`
	UserAgent     *string       `db:"user_agent"`
	Metadata      AuditMetadata `db:"metadata"`
	CreatedAt     time.Time     `db:"created_at"`
}

// AuditMetadata holds additional context for audit events
type AuditMetadata map[string]interface{}

// Scan implements sql.Scanner for JSONB
func (am *AuditMetadata) Scan(value interface{}) error {
	if value == nil {
		*am = make(AuditMetadata)
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return ErrValidation
	}

	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return err
	}
	*am = AuditMetadata(m)
	return nil
}

// Value implements driver.Valuer for JSONB
func (am AuditMetadata) Value() (driver.Value, error) {
	if am == nil {
		return nil, nil
	}
	return json.Marshal(map[string]interface{}(am))
}

// NewTransitionMetadata records a field moving from one value to another.
func NewTransitionMetadata(field, from, to string) AuditMetadata {
	return AuditMetadata{
		"field": field,
		"from":  from,
		"to":    to,
	}
}
