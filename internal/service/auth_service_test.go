package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidhost/console/internal/api"
	"vidhost/console/internal/apitest"
	"vidhost/console/internal/config"
	"vidhost/console/internal/models"
	"vidhost/console/internal/session"
	"vidhost/console/internal/storage"
)

func testLimits() config.UploadConfig {
	return config.UploadConfig{
		MaxVideoBytes:     2 << 30,
		MaxThumbnailBytes: 10 << 20,
		VideoTypes:        []string{"video/mp4", "video/webm", "video/ogg"},
		ThumbnailTypes:    []string{"image/jpeg", "image/png", "image/webp", "image/gif"},
	}
}

type testEnv struct {
	backend  *apitest.Server
	sessions *session.Store
	client   *api.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	backend := apitest.New()
	t.Cleanup(backend.Close)

	st, err := storage.Open(t.TempDir())
	require.NoError(t, err)

	sessions := session.New(st, zerolog.Nop())
	client := api.New(backend.URL(), 0, sessions, "device-test", zerolog.Nop())

	return &testEnv{backend: backend, sessions: sessions, client: client}
}

// signIn installs a valid session without going through the login flow.
func (e *testEnv) signIn(t *testing.T, user models.User) {
	t.Helper()
	require.NoError(t, e.sessions.Set(user, e.backend.MintToken(user)))
}

func TestLoginStoresSession(t *testing.T) {
	env := newTestEnv(t)
	seeded := env.backend.SeedUser("root", "a@b.com", "secret", models.UserRoleSuperAdmin)
	svc := NewAuthService(env.client, env.sessions, zerolog.Nop())

	user, err := svc.Login(context.Background(), LoginInput{Email: "a@b.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, user.ID)

	require.True(t, env.sessions.IsAuthenticated())
	assert.NotEmpty(t, env.sessions.Token())

	// The installed token authenticates subsequent requests.
	env.backend.SeedVideos(1)
	videos := NewVideoService(env.client, testLimits(), zerolog.Nop())
	page, err := videos.List(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}

func TestLoginBadCredentialsLeavesSessionIntact(t *testing.T) {
	env := newTestEnv(t)
	existing := env.backend.SeedUser("root", "a@b.com", "secret", models.UserRoleSuperAdmin)
	env.signIn(t, existing)
	before := env.sessions.Token()

	svc := NewAuthService(env.client, env.sessions, zerolog.Nop())
	_, err := svc.Login(context.Background(), LoginInput{Email: "a@b.com", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// A bad login must not wipe the still-valid session.
	assert.True(t, env.sessions.IsAuthenticated())
	assert.Equal(t, before, env.sessions.Token())
}

func TestLogoutClearsSession(t *testing.T) {
	env := newTestEnv(t)
	user := env.backend.SeedUser("root", "a@b.com", "secret", models.UserRoleAdmin)
	env.signIn(t, user)

	svc := NewAuthService(env.client, env.sessions, zerolog.Nop())
	require.NoError(t, svc.Logout())
	assert.False(t, env.sessions.IsAuthenticated())
}

func TestRequestPasswordResetAlwaysAcks(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAuthService(env.client, env.sessions, zerolog.Nop())

	// Unknown accounts still ack, so callers cannot probe for existence.
	assert.NoError(t, svc.RequestPasswordReset(context.Background(), "nobody@example.com"))
}

func TestResetPassword(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAuthService(env.client, env.sessions, zerolog.Nop())
	ctx := context.Background()

	assert.ErrorIs(t, svc.ResetPassword(ctx, "", "newpass"), ErrResetTokenInvalid)
	assert.ErrorIs(t, svc.ResetPassword(ctx, "bogus", "newpass"), ErrResetTokenInvalid)

	env.backend.AllowResetToken("tok-valid")
	assert.NoError(t, svc.ResetPassword(ctx, "tok-valid", "newpass"))
}
