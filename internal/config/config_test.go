package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, "http://localhost:5000", cfg.API.BaseURL)
	assert.Equal(t, time.Duration(0), cfg.API.Timeout)

	assert.Equal(t, int64(2)<<30, cfg.Upload.MaxVideoBytes)
	assert.Equal(t, int64(10)<<20, cfg.Upload.MaxThumbnailBytes)
	assert.Equal(t, []string{"video/mp4", "video/webm", "video/ogg"}, cfg.Upload.VideoTypes)
	assert.Contains(t, cfg.Upload.ThumbnailTypes, "image/webp")
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CONSOLE_PAGESIZE", "25")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.PageSize)
}
