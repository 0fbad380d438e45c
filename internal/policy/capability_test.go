package policy

import (
	"testing"

	"github.com/BradenHooton/wikiboard/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestHasCapability(t *testing.T) {
	user := &models.User{ID: "u1", Role: models.RoleUser}
	moderator := &models.User{ID: "m1", Role: models.RoleModerator}
	admin := &models.User{ID: "a1", Role: models.RoleAdmin}
	legacyAdmin := &models.User{ID: "a2", Role: models.RoleUser, IsAdmin: true}

	tests := []struct {
		name string
		user *models.User
		cap  Capability
		want bool
	}{
		{name: "anonymous cannot moderate", user: nil, cap: CapModerate, want: false},
		{name: "user cannot moderate", user: user, cap: CapModerate, want: false},
		{name: "moderator can moderate", user: moderator, cap: CapModerate, want: true},
		{name: "moderator can review reports", user: moderator, cap: CapReviewReports, want: true},
		{name: "moderator cannot verify", user: moderator, cap: CapVerify, want: false},
		{name: "moderator cannot manage users", user: moderator, cap: CapManageUsers, want: false},
		{name: "moderator cannot delete others' entries", user: moderator, cap: CapDeleteAnyEntry, want: false},
		{name: "admin can manage users", user: admin, cap: CapManageUsers, want: true},
		{name: "admin can verify", user: admin, cap: CapVerify, want: true},
		{name: "legacy flag grants admin", user: legacyAdmin, cap: CapManageUsers, want: true},
		{name: "legacy flag grants moderation", user: legacyAdmin, cap: CapModerate, want: true},
		{name: "unknown role has nothing", user: &models.User{Role: "guest"}, cap: CapModerate, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasCapability(tt.user, tt.cap))
		})
	}
}

func TestEffectiveRole(t *testing.T) {
	assert.Equal(t, "", EffectiveRole(nil))
	assert.Equal(t, models.RoleModerator, EffectiveRole(&models.User{Role: models.RoleModerator}))
	assert.Equal(t, models.RoleAdmin, EffectiveRole(&models.User{Role: models.RoleModerator, IsAdmin: true}))
}
