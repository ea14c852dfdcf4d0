package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("RECIPEBOX_API_BASE_URL", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Empty(t, cfg.APIBaseURL)
	assert.Equal(t, "Basic", cfg.AuthScheme)
	assert.Equal(t, "group.recipebox", cfg.StorageGroup)
	assert.Equal(t, "FULL", cfg.SyncMode)
	assert.Equal(t, 500*time.Millisecond, cfg.SearchDebounce)
	assert.Zero(t, cfg.RequestRate)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("RECIPEBOX_API_BASE_URL", "https://api.example.com")
	t.Setenv("RECIPEBOX_SEARCH_DEBOUNCE", "250ms")
	t.Setenv("RECIPEBOX_REQUEST_RATE", "2.5")
	t.Setenv("RECIPEBOX_ENV", "development")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
	assert.Equal(t, 250*time.Millisecond, cfg.SearchDebounce)
	assert.InDelta(t, 2.5, cfg.RequestRate, 0.0001)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_DotenvFile(t *testing.T) {
	// godotenv never overrides variables that are already set, so make sure
	// the key starts out unset for this process.
	t.Setenv("RECIPEBOX_STORAGE_GROUP", "")
	require.NoError(t, os.Unsetenv("RECIPEBOX_STORAGE_GROUP"))
	t.Cleanup(func() { os.Unsetenv("RECIPEBOX_STORAGE_GROUP") })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("RECIPEBOX_STORAGE_GROUP=group.test\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "group.test", cfg.StorageGroup)
}

func TestLoad_MissingDotenvIsIgnored(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.env"))
	assert.NoError(t, err)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("RECIPEBOX_SEARCH_DEBOUNCE", "soon")

	_, err := Load("")
	assert.Error(t, err)
}
