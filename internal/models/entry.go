package models

import "time"

// EntryStatus is the moderation state of a wiki entry.
type EntryStatus string

const (
	EntryStatusPending  EntryStatus = "pending"
	EntryStatusApproved EntryStatus = "approved"
	EntryStatusRejected EntryStatus = "rejected"
)

// Verification is the admin-assigned authenticity marker of an entry.
// It is independent of EntryStatus.
type Verification string

const (
	VerificationVerified Verification = "verified"
	VerificationFake     Verification = "fake"
	VerificationUnknown  Verification = "unknown"
)

// ParseEntryStatus validates a moderation status value.
func ParseEntryStatus(s string) (EntryStatus, error) {
	switch EntryStatus(s) {
	case EntryStatusPending, EntryStatusApproved, EntryStatusRejected:
		return EntryStatus(s), nil
	}
	return "", NewValidationError("status", s)
}

// ParseVerification validates a verification value.
func ParseVerification(s string) (Verification, error) {
	switch Verification(s) {
	case VerificationVerified, VerificationFake, VerificationUnknown:
		return Verification(s), nil
	}
	return "", NewValidationError("verification", s)
}

type WikiEntry struct {
	ID                 string
	UserID             string
	Title              string
	Description        string
	ImageURL           *string
	Status             EntryStatus
	Verification       Verification
	IsSpecial          bool
	SpecialAccessToken *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// EntryAuthor is the slice of the owning user shown next to an entry.
type EntryAuthor struct {
	ID        string
	Name      string
	AvatarURL string
	Badge     string
}

// EntryView is an entry joined with its author and engagement counts.
type EntryView struct {
	Entry        *WikiEntry
	Author       EntryAuthor
	LikeCount    int64
	CommentCount int64
}

// EntryPatch carries an owner's partial edit. Nil fields are left unchanged.
// It has no status field; owner edits always reset status to pending.
type EntryPatch struct {
	Title       *string
	Description *string
	ImageURL    *string
	IsSpecial   *bool
}

// EntryFilter narrows entry listings.
type EntryFilter struct {
	UserID         string
	Status         EntryStatus
	IncludeSpecial bool
	Limit          int
	Offset         int
}
