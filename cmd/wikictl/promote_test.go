package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BradenHooton/wikiboard/internal/models"
)

type fakeRoles struct {
	users map[string]*models.User
	err   error
}

func (f *fakeRoles) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return u, nil
}

func (f *fakeRoles) SetRole(ctx context.Context, id, role string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u := f.users[id]
	u.Role = role
	u.IsAdmin = role == models.RoleAdmin
	return u, nil
}

func TestPromote(t *testing.T) {
	repo := &fakeRoles{users: map[string]*models.User{"u1": {ID: "u1", Role: models.RoleUser}}}

	user, err := promote(context.Background(), repo, "u1", "admin")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.True(t, user.IsAdmin)
}

func TestPromote_Errors(t *testing.T) {
	tests := []struct {
		name    string
		userID  string
		role    string
		repoErr error
		want    error
	}{
		{name: "invalid role", userID: "u1", role: "owner", want: models.ErrValidation},
		{name: "unknown user", userID: "ghost", role: "admin", want: models.ErrNotFound},
		{name: "store failure", userID: "u1", role: "moderator", repoErr: errors.New("conn reset")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRoles{users: map[string]*models.User{"u1": {ID: "u1", Role: models.RoleUser}}, err: tt.repoErr}
			_, err := promote(context.Background(), repo, tt.userID, tt.role)
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestRootCommand_Wiring(t *testing.T) {
	root := rootCommand()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"migrate", "promote", "token"}, names)

	migrate, _, err := root.Find([]string{"migrate", "status"})
	require.NoError(t, err)
	assert.Equal(t, "status", migrate.Name())

	promoteCmd, _, err := root.Find([]string{"promote"})
	require.NoError(t, err)
	assert.Equal(t, "admin", promoteCmd.Flag("role").DefValue)
}
