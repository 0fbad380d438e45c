package policy

import (
	"github.com/BradenHooton/wikiboard/internal/models"
)

// TokenSource issues special-post access tokens.
type TokenSource func() (string, error)

// NewEntry builds an entry owned by owner. Status always starts pending and
// verification unknown, whatever the caller asked for.
func NewEntry(owner *models.User, title, description string, imageURL *string, isSpecial bool, issue TokenSource) (*models.WikiEntry, error) {
	if owner == nil {
		return nil, models.ErrUnauthorized
	}

	entry := &models.WikiEntry{
		UserID:       owner.ID,
		Title:        title,
		Description:  description,
		ImageURL:     imageURL,
		Status:       models.EntryStatusPending,
		Verification: models.VerificationUnknown,
	}

	if isSpecial {
		if err := enableSpecial(entry, issue); err != nil {
			return nil, err
		}
	}

	return entry, nil
}

// ApplyOwnerEdit applies patch to entry on behalf of editor. Only the owner may
// edit, and any successful edit sends the entry back to pending.
func ApplyOwnerEdit(entry *models.WikiEntry, editor *models.User, patch models.EntryPatch, issue TokenSource) error {
	if entry == nil {
		return models.ErrNotFound
	}
	if !IsOwner(entry, editor) {
		return models.ErrForbidden
	}

	if patch.Title != nil {
		entry.Title = *patch.Title
	}
	if patch.Description != nil {
		entry.Description = *patch.Description
	}
	if patch.ImageURL != nil {
		if *patch.ImageURL == "" {
			entry.ImageURL = nil
		} else {
			url := *patch.ImageURL
			entry.ImageURL = &url
		}
	}
	if patch.IsSpecial != nil {
		switch {
		case *patch.IsSpecial && !entry.IsSpecial:
			if err := enableSpecial(entry, issue); err != nil {
				return err
			}
		case !*patch.IsSpecial:
			// The stored token stays but is inert until the next enable re-issues it.
			entry.IsSpecial = false
		}
	}

	entry.Status = models.EntryStatusPending
	return nil
}

// ApplyModeration sets entry status on behalf of a moderator and returns the
// previous status. Callers without CapModerate get ErrForbidden and the entry
// is left untouched.
func ApplyModeration(entry *models.WikiEntry, moderator *models.User, status string) (models.EntryStatus, error) {
	if entry == nil {
		return "", models.ErrNotFound
	}
	if !HasCapability(moderator, CapModerate) {
		return "", models.ErrForbidden
	}

	next, err := models.ParseEntryStatus(status)
	if err != nil {
		return "", err
	}

	prev := entry.Status
	entry.Status = next
	return prev, nil
}

// ApplyVerification sets the verification marker and returns the previous value.
// Status is never touched.
func ApplyVerification(entry *models.WikiEntry, actor *models.User, verification string) (models.Verification, error) {
	if entry == nil {
		return "", models.ErrNotFound
	}
	if !HasCapability(actor, CapVerify) {
		return "", models.ErrForbidden
	}

	next, err := models.ParseVerification(verification)
	if err != nil {
		return "", err
	}

	prev := entry.Verification
	entry.Verification = next
	return prev, nil
}

// CanDeleteEntry reports whether actor may delete entry.
func CanDeleteEntry(entry *models.WikiEntry, actor *models.User) bool {
	return IsOwner(entry, actor) || HasCapability(actor, CapDeleteAnyEntry)
}

// CanDeleteComment reports whether actor may delete comment.
func CanDeleteComment(comment *models.Comment, actor *models.User) bool {
	if comment == nil || actor == nil {
		return false
	}
	return comment.UserID == actor.ID || HasCapability(actor, CapModerate)
}

func enableSpecial(entry *models.WikiEntry, issue TokenSource) error {
	if issue == nil {
		issue = NewSpecialAccessToken
	}
	token, err := issue()
	if err != nil {
		return err
	}
	entry.IsSpecial = true
	entry.SpecialAccessToken = &token
	return nil
}
