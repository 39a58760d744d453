package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidhost/console/internal/models"
)

func TestSessionRoundTrip(t *testing.T) {
	st, err := Open(t.TempDir())
	require.NoError(t, err)

	_, err = st.ReadSession()
	require.ErrorIs(t, err, ErrNotFound)

	want := PersistedSession{
		User:  models.User{ID: "u1", Username: "root", Email: "root@example.com", Role: models.UserRoleSuperAdmin},
		Token: "tok-123",
	}
	require.NoError(t, st.WriteSession(want))

	got, err := st.ReadSession()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestClearSessionKeepsPreferences(t *testing.T) {
	st, err := Open(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, st.WriteSession(PersistedSession{
		User:  models.User{ID: "u1"},
		Token: "tok",
	}))
	require.NoError(t, st.WritePreferences(Preferences{Theme: "dark", PageSize: 25}))

	require.NoError(t, st.ClearSession())

	_, err = st.ReadSession()
	assert.ErrorIs(t, err, ErrNotFound)

	prefs, err := st.ReadPreferences()
	require.NoError(t, err)
	assert.Equal(t, "dark", prefs.Theme)
	assert.Equal(t, 25, prefs.PageSize)
}

func TestClearSessionWhenMissing(t *testing.T) {
	st, err := Open(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, st.ClearSession())
}

func TestDeviceIDStable(t *testing.T) {
	dir := t.TempDir()
	st, err := Open(dir)
	require.NoError(t, err)

	first, err := st.DeviceID()
	require.NoError(t, err)
	require.NotEmpty(t, first)

	again, err := st.DeviceID()
	require.NoError(t, err)
	assert.Equal(t, first, again)

	// A fresh handle over the same directory sees the same id.
	st2, err := Open(dir)
	require.NoError(t, err)
	other, err := st2.DeviceID()
	require.NoError(t, err)
	assert.Equal(t, first, other)
}

func TestReadPreferencesMissing(t *testing.T) {
	st, err := Open(t.TempDir())
	require.NoError(t, err)

	_, err = st.ReadPreferences()
	assert.True(t, errors.Is(err, ErrNotFound))
}
