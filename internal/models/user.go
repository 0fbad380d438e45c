package models

import (
	"time"
)

// Role values
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// Badge values. Badges are cosmetic and never affect authorization.
const (
	BadgeNone       = "none"
	BadgeGreenCheck = "green_check"
	BadgeRedCheck   = "red_check"
	BadgeBlackCheck = "black_check"
)

var validRoles = map[string]bool{
	RoleUser:      true,
	RoleModerator: true,
	RoleAdmin:     true,
}

var validBadges = map[string]bool{
	BadgeNone:       true,
	BadgeGreenCheck: true,
	BadgeRedCheck:   true,
	BadgeBlackCheck: true,
}

type User struct {
	ID            string // subject issued by the identity provider
	Email         string
	Name          string
	Bio           string
	AvatarURL     string
	BackgroundURL string
	Role          string
	Badge         string
	IsAdmin       bool // legacy privilege flag, kept in sync with Role
	IsBanned      bool
	BannedUntil   *time.Time // nil with IsBanned means permanent
	BanReason     *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ParseRole validates a role value.
func ParseRole(role string) (string, error) {
	if !validRoles[role] {
		return "", NewValidationError("role", role)
	}
	return role, nil
}

// ParseBadge validates a badge value.
func ParseBadge(badge string) (string, error) {
	if !validBadges[badge] {
		return "", NewValidationError("badge", badge)
	}
	return badge, nil
}

// Identity is the verified subject of an identity provider token.
type Identity struct {
	Subject   string
	Email     string
	Name      string
	AvatarURL string
}
