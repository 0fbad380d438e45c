package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BradenHooton/wikiboard/internal/models"
)

func TestUserService_SyncIdentity(t *testing.T) {
	var got models.Identity
	repo := &MockUserRepository{
		UpsertFunc: func(ctx context.Context, identity models.Identity) (*models.User, error) {
			got = identity
			return &models.User{ID: identity.Subject, Email: identity.Email, Role: models.RoleModerator}, nil
		},
	}
	svc := NewUserService(repo, NewTestLogger())

	user, err := svc.SyncIdentity(context.Background(), models.Identity{Subject: "sub-1", Email: "a@example.com"})

	require.NoError(t, err)
	assert.Equal(t, "sub-1", got.Subject)
	assert.Equal(t, "sub-1", user.ID)
	assert.Equal(t, models.RoleModerator, user.Role)
}

func TestUserService_SyncIdentity_EmptySubject(t *testing.T) {
	repo := &MockUserRepository{
		UpsertFunc: func(ctx context.Context, identity models.Identity) (*models.User, error) {
			t.Fatal("upsert must not be called")
			return nil, nil
		},
	}
	svc := NewUserService(repo, NewTestLogger())

	_, err := svc.SyncIdentity(context.Background(), models.Identity{Email: "a@example.com"})

	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestUserService_SyncIdentity_DatabaseError(t *testing.T) {
	repo := &MockUserRepository{
		UpsertFunc: func(ctx context.Context, identity models.Identity) (*models.User, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := NewUserService(repo, NewTestLogger())

	_, err := svc.SyncIdentity(context.Background(), models.Identity{Subject: "sub-1"})

	assert.Equal(t, models.ErrInternalServer, err)
}

func TestUserService_GetProfile(t *testing.T) {
	repo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			if id == "alice" {
				return NewTestUser("alice", models.RoleUser), nil
			}
			return nil, models.ErrNotFound
		},
	}
	svc := NewUserService(repo, NewTestLogger())

	user, err := svc.GetProfile(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)

	_, err = svc.GetProfile(context.Background(), "ghost")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUserService_UpdateProfile(t *testing.T) {
	var gotID string
	repo := &MockUserRepository{
		UpdateProfileFunc: func(ctx context.Context, id, name, bio string) (*models.User, error) {
			gotID = id
			return &models.User{ID: id, Name: name, Bio: bio}, nil
		},
	}
	svc := NewUserService(repo, NewTestLogger())

	user, err := svc.UpdateProfile(context.Background(), NewTestUser("alice", models.RoleUser), "Alice", "hello")

	require.NoError(t, err)
	assert.Equal(t, "alice", gotID)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "hello", user.Bio)

	_, err = svc.UpdateProfile(context.Background(), nil, "x", "y")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestUserService_SetAvatarAndBackground(t *testing.T) {
	svc := NewUserService(&MockUserRepository{}, NewTestLogger())
	alice := NewTestUser("alice", models.RoleUser)

	user, err := svc.SetAvatar(context.Background(), alice, "https://cdn.example.com/a.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.png", user.AvatarURL)

	user, err = svc.SetBackground(context.Background(), alice, "")
	require.NoError(t, err)
	assert.Empty(t, user.BackgroundURL)

	_, err = svc.SetAvatar(context.Background(), nil, "x")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}
