package session

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidhost/console/internal/models"
	"vidhost/console/internal/storage"
)

func newStorage(t *testing.T) *storage.Storage {
	t.Helper()
	st, err := storage.Open(t.TempDir())
	require.NoError(t, err)
	return st
}

func TestSetThenAuthenticated(t *testing.T) {
	s := New(newStorage(t), zerolog.Nop())
	assert.False(t, s.IsAuthenticated())

	user := models.User{ID: "u1", Username: "ops", Email: "ops@example.com", Role: models.UserRoleAdmin}
	require.NoError(t, s.Set(user, "tok-1"))

	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "tok-1", s.Token())

	got, ok := s.User()
	require.True(t, ok)
	assert.Equal(t, user, got)
}

func TestClearThenNotAuthenticated(t *testing.T) {
	s := New(newStorage(t), zerolog.Nop())
	require.NoError(t, s.Set(models.User{ID: "u1"}, "tok"))
	require.NoError(t, s.Clear())

	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
	_, ok := s.User()
	assert.False(t, ok)
}

func TestSetRejectsIncompleteSession(t *testing.T) {
	s := New(newStorage(t), zerolog.Nop())

	assert.ErrorIs(t, s.Set(models.User{}, "tok"), ErrIncomplete)
	assert.ErrorIs(t, s.Set(models.User{ID: "u1"}, ""), ErrIncomplete)
	assert.False(t, s.IsAuthenticated())
}

func TestHydrateAcrossRestarts(t *testing.T) {
	st := newStorage(t)
	user := models.User{ID: "u1", Username: "ops", Role: models.UserRoleSuperAdmin}

	first := New(st, zerolog.Nop())
	require.NoError(t, first.Set(user, "tok-99"))

	// A new store over the same directory reconstructs the session
	// without any network involvement.
	second := New(st, zerolog.Nop())
	assert.True(t, second.IsAuthenticated())
	assert.True(t, second.IsSuperAdmin())
	assert.Equal(t, "tok-99", second.Token())
}

func TestHydrateDiscardsIncompleteRecord(t *testing.T) {
	st := newStorage(t)
	require.NoError(t, st.WriteSession(storage.PersistedSession{
		User: models.User{ID: "u1"},
		// token missing
	}))

	s := New(st, zerolog.Nop())
	assert.False(t, s.IsAuthenticated())

	// The broken record is gone for good.
	_, err := st.ReadSession()
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIsSuperAdmin(t *testing.T) {
	s := New(newStorage(t), zerolog.Nop())
	require.NoError(t, s.Set(models.User{ID: "u1", Role: models.UserRoleAdmin}, "tok"))
	assert.False(t, s.IsSuperAdmin())

	require.NoError(t, s.Set(models.User{ID: "u2", Role: models.UserRoleSuperAdmin}, "tok2"))
	assert.True(t, s.IsSuperAdmin())
}
