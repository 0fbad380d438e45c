package policy

import (
	"time"

	"github.com/BradenHooton/wikiboard/internal/models"
)

// BanDecision is the result of evaluating a user's ban fields at a moment.
type BanDecision struct {
	Banned bool
	Reason string
	Until  *time.Time
	// Expired is set when the record still says banned but the ban has lapsed.
	// The caller is expected to clear the stored ban fields.
	Expired bool
}

// EvaluateBan applies lazy expiry to a user's ban. A ban whose end is at or
// before now has lapsed. A nil BannedUntil is a permanent ban.
func EvaluateBan(user *models.User, now time.Time) BanDecision {
	if user == nil || !user.IsBanned {
		return BanDecision{}
	}
	if user.BannedUntil != nil && !user.BannedUntil.After(now) {
		return BanDecision{Expired: true}
	}

	d := BanDecision{Banned: true, Until: user.BannedUntil}
	if user.BanReason != nil {
		d.Reason = *user.BanReason
	}
	return d
}

// ClearBan resets the ban fields on an in-memory user.
func ClearBan(user *models.User) {
	user.IsBanned = false
	user.BanReason = nil
	user.BannedUntil = nil
}
