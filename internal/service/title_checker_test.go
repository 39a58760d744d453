package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidhost/console/internal/models"
)

func TestTitleCheckerAvailable(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t, env.backend.SeedUser("root", "a@b.com", "pw", models.UserRoleAdmin))
	env.backend.SeedVideos(1)

	checker := NewTitleChecker(NewVideoService(env.client, testLimits(), zerolog.Nop()))

	available, err := checker.Available(context.Background(), "Video 1")
	require.NoError(t, err)
	assert.False(t, available)

	free, err := checker.Available(context.Background(), "  Something Else  ")
	require.NoError(t, err)
	assert.True(t, free, "title is trimmed before the probe")
}

func TestTitleCheckerEmptyTitleSkipsNetwork(t *testing.T) {
	env := newTestEnv(t)
	checker := NewTitleChecker(NewVideoService(env.client, testLimits(), zerolog.Nop()))

	before := env.backend.RequestCount()
	available, err := checker.Available(context.Background(), "   ")
	require.NoError(t, err)
	assert.False(t, available)
	assert.Equal(t, before, env.backend.RequestCount())
}

func TestTitleCheckerHonorsCancellation(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t, env.backend.SeedUser("root", "a@b.com", "pw", models.UserRoleAdmin))
	checker := NewTitleChecker(NewVideoService(env.client, testLimits(), zerolog.Nop()))

	// First call consumes the burst token; an already-cancelled context
	// cannot wait out the pause.
	_, err := checker.Available(context.Background(), "warmup")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = checker.Available(ctx, "second")
	assert.Error(t, err)
}
