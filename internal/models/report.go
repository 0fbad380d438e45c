package models

import "time"

// ReportReason categorizes a content report.
type ReportReason string

const (
	ReportReasonSpam           ReportReason = "spam"
	ReportReasonHarassment     ReportReason = "harassment"
	ReportReasonMisinformation ReportReason = "misinformation"
	ReportReasonInappropriate  ReportReason = "inappropriate"
	ReportReasonCopyright      ReportReason = "copyright"
	ReportReasonOther          ReportReason = "other"
)

// ReportStatus tracks review progress of a content report.
type ReportStatus string

const (
	ReportStatusPending       ReportStatus = "pending"
	ReportStatusInvestigating ReportStatus = "investigating"
	ReportStatusResolved      ReportStatus = "resolved"
	ReportStatusDismissed     ReportStatus = "dismissed"
)

// ParseReportReason validates a report reason.
func ParseReportReason(s string) (ReportReason, error) {
	switch ReportReason(s) {
	case ReportReasonSpam, ReportReasonHarassment, ReportReasonMisinformation,
		ReportReasonInappropriate, ReportReasonCopyright, ReportReasonOther:
		return ReportReason(s), nil
	}
	return "", NewValidationError("reason", s)
}

// ParseReportStatus validates a report status.
func ParseReportStatus(s string) (ReportStatus, error) {
	switch ReportStatus(s) {
	case ReportStatusPending, ReportStatusInvestigating, ReportStatusResolved, ReportStatusDismissed:
		return ReportStatus(s), nil
	}
	return "", NewValidationError("status", s)
}

type ContentReport struct {
	ID          string
	EntryID     string
	ReporterID  string
	Reason      ReportReason
	Description *string
	Status      ReportStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
