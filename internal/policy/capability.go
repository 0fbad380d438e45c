// Package policy holds the access and moderation decisions for wiki entries
// and users. Everything here is pure: callers load records, pass the current
// user explicitly, and persist whatever the decision implies.
package policy

import "github.com/BradenHooton/wikiboard/internal/models"

// Capability is an abstract permission derived from a user's role.
type Capability string

const (
	// CapModerate allows approving/rejecting entries, reading any entry and
	// removing other users' comments.
	CapModerate Capability = "moderate"
	// CapReviewReports allows listing content reports and changing their status.
	CapReviewReports Capability = "reports.review"
	// CapVerify allows setting an entry's verification marker.
	CapVerify Capability = "entries.verify"
	// CapDeleteAnyEntry allows deleting entries owned by other users.
	CapDeleteAnyEntry Capability = "entries.delete_any"
	// CapManageUsers allows ban, unban, delete, role and badge changes.
	CapManageUsers Capability = "users.manage"
)

var roleCapabilities = map[string]map[Capability]bool{
	models.RoleModerator: {
		CapModerate:      true,
		CapReviewReports: true,
	},
	models.RoleAdmin: {
		CapModerate:       true,
		CapReviewReports:  true,
		CapVerify:         true,
		CapDeleteAnyEntry: true,
		CapManageUsers:    true,
	},
}

// IsAdmin reports whether either privilege signal marks the user as admin.
func IsAdmin(user *models.User) bool {
	if user == nil {
		return false
	}
	return user.Role == models.RoleAdmin || user.IsAdmin
}

// EffectiveRole folds the legacy IsAdmin flag into the role.
func EffectiveRole(user *models.User) string {
	if user == nil {
		return ""
	}
	if IsAdmin(user) {
		return models.RoleAdmin
	}
	return user.Role
}

// HasCapability is the single authorization check for role-derived permissions.
// A nil user has no capabilities.
func HasCapability(user *models.User, c Capability) bool {
	if user == nil {
		return false
	}
	return roleCapabilities[EffectiveRole(user)][c]
}
