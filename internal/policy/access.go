package policy

import (
	"crypto/subtle"

	"github.com/BradenHooton/wikiboard/internal/models"
)

// Visibility is the outcome of an entry read decision.
type Visibility int

const (
	VisibilityNotFound Visibility = iota
	VisibilityVisible
	VisibilityAccessDenied
)

func (v Visibility) String() string {
	switch v {
	case VisibilityVisible:
		return "visible"
	case VisibilityAccessDenied:
		return "access_denied"
	default:
		return "not_found"
	}
}

// ResolveVisibility decides whether requester may read entry. requester is nil
// for anonymous callers; token is the special-post token from the query, or "".
//
// Rules, first match wins:
//  1. no entry: not found
//  2. owner: visible
//  3. moderator capability: visible
//  4. special entry: visible only with the exact access token
//  5. otherwise visible only once approved
func ResolveVisibility(entry *models.WikiEntry, requester *models.User, token string) Visibility {
	if entry == nil {
		return VisibilityNotFound
	}
	if IsOwner(entry, requester) {
		return VisibilityVisible
	}
	if HasCapability(requester, CapModerate) {
		return VisibilityVisible
	}
	if entry.IsSpecial {
		if TokenMatches(entry.SpecialAccessToken, token) {
			return VisibilityVisible
		}
		return VisibilityAccessDenied
	}
	if entry.Status == models.EntryStatusApproved {
		return VisibilityVisible
	}
	return VisibilityAccessDenied
}

// IsOwner reports whether requester owns entry.
func IsOwner(entry *models.WikiEntry, requester *models.User) bool {
	return entry != nil && requester != nil && requester.ID != "" && requester.ID == entry.UserID
}

// TokenMatches compares a supplied token against the stored one in constant
// time. An absent or empty stored token never matches.
func TokenMatches(stored *string, supplied string) bool {
	if stored == nil || *stored == "" || supplied == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(*stored), []byte(supplied)) == 1
}
