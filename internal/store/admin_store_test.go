package store

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidhost/console/internal/api"
	"vidhost/console/internal/service"
)

func TestAdminCreateAppendsConfirmedRecord(t *testing.T) {
	env := newStoreEnv(t)
	env.backend.SeedAdmin("existing", "existing@example.com")

	s := NewAdminStore(env.admins, zerolog.Nop())
	require.NoError(t, s.Load(context.Background()))

	admin, err := s.Create(context.Background(), service.CreateAdminInput{
		Username:        "ops",
		Email:           "ops@example.com",
		Password:        "secret",
		ConfirmPassword: "secret",
	})
	require.NoError(t, err)

	admins := s.Admins()
	require.Len(t, admins, 2)
	assert.Equal(t, admin.ID, admins[1].ID, "server record is appended, not guessed")
}

func TestAdminCreateConflictLeavesListUnchanged(t *testing.T) {
	env := newStoreEnv(t)
	env.backend.SeedAdmin("taken", "taken@example.com")

	s := NewAdminStore(env.admins, zerolog.Nop())
	require.NoError(t, s.Load(context.Background()))
	before := s.Admins()

	_, err := s.Create(context.Background(), service.CreateAdminInput{
		Username:        "other",
		Email:           "taken@example.com",
		Password:        "secret",
		ConfirmPassword: "secret",
	})
	require.Error(t, err)
	assert.Equal(t, "email", api.FieldOf(err))
	assert.Equal(t, before, s.Admins())
}

func TestAdminUpdateRollsBackOnFailure(t *testing.T) {
	env := newStoreEnv(t)
	seeded := env.backend.SeedAdmin("ops", "ops@example.com")

	s := NewAdminStore(env.admins, zerolog.Nop())
	require.NoError(t, s.Load(context.Background()))
	before := s.Admins()

	env.backend.FailNext("admin-update")
	_, err := s.Update(context.Background(), seeded.ID, service.AdminPatch{Username: "renamed"})
	require.Error(t, err)

	assert.Equal(t, before, s.Admins(), "failed update restores the snapshot")
}

func TestAdminUpdateKeepsServerRecord(t *testing.T) {
	env := newStoreEnv(t)
	seeded := env.backend.SeedAdmin("ops", "ops@example.com")

	s := NewAdminStore(env.admins, zerolog.Nop())
	require.NoError(t, s.Load(context.Background()))

	updated, err := s.Update(context.Background(), seeded.ID, service.AdminPatch{Email: "new@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.Equal(t, "ops", updated.Username)

	admins := s.Admins()
	require.Len(t, admins, 1)
	assert.Equal(t, updated.UpdatedAt, admins[0].UpdatedAt, "cache holds the confirmed record")
}

func TestAdminDeleteFailureReloadsTruth(t *testing.T) {
	env := newStoreEnv(t)
	seeded := env.backend.SeedAdmin("ops", "ops@example.com")
	env.backend.SeedAdmin("other", "other@example.com")

	s := NewAdminStore(env.admins, zerolog.Nop())
	require.NoError(t, s.Load(context.Background()))

	env.backend.FailNext("admin-delete")
	require.Error(t, s.Delete(context.Background(), seeded.ID))

	assert.Len(t, s.Admins(), 2, "optimistic removal reconciled from the server")
}

func TestAdminDelete(t *testing.T) {
	env := newStoreEnv(t)
	seeded := env.backend.SeedAdmin("ops", "ops@example.com")

	s := NewAdminStore(env.admins, zerolog.Nop())
	require.NoError(t, s.Load(context.Background()))

	require.NoError(t, s.Delete(context.Background(), seeded.ID))
	assert.Empty(t, s.Admins())
	assert.Empty(t, env.backend.Admins())
}

func TestAdminShouldRefetch(t *testing.T) {
	env := newStoreEnv(t)
	s := NewAdminStore(env.admins, zerolog.Nop())

	assert.True(t, s.ShouldRefetch())
	require.NoError(t, s.Load(context.Background()))
	assert.False(t, s.ShouldRefetch())
	s.Invalidate()
	assert.True(t, s.ShouldRefetch())
}
