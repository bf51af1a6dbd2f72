package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing-on-purpose.yaml"))
	// A missing explicit path is an error, so load with no path instead
	require.Error(t, err)

	chdirTemp(t)
	cfg, err = Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "passport.db", cfg.Database.Path)
	assert.Equal(t, "memory", cfg.Session.Backend)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
	assert.Empty(t, cfg.Gemini.APIKey)
}

func TestLoadFromFile(t *testing.T) {
	dir := chdirTemp(t)

	content := []byte("server:\n  port: 9090\ndatabase:\n  path: /tmp/test.db\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o644))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
	// Untouched values keep their defaults
	assert.Equal(t, "memory", cfg.Session.Backend)
}

func TestEnvOverrides(t *testing.T) {
	chdirTemp(t)

	t.Setenv("PASSPORT_SERVER_PORT", "7070")
	t.Setenv("PASSPORT_GEMINI_API_KEY", "test-key")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "test-key", cfg.Gemini.APIKey)
}

func TestRedisBackendRequiresURL(t *testing.T) {
	chdirTemp(t)

	t.Setenv("PASSPORT_SESSION_BACKEND", "redis")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis_url")

	t.Setenv("PASSPORT_SESSION_REDIS_URL", "redis://localhost:6379")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "redis://localhost:6379", cfg.Session.RedisURL)
}

// chdirTemp moves the test into an empty directory so stray config files
// in the working tree cannot leak into the load path.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}
