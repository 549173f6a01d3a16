package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"MOVIEFINDER_CONFIG", "PORT", "GRPC_ADDR", "TMDB_API_KEY", "TMDB_BASE_URL",
		"TMDB_LANGUAGE", "TMDB_TIMEOUT", "PUBLIC_DIR", "MANIFEST_PATH", "OPENAPI_PATH",
		"STREAM_HEARTBEAT", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, ":8000", cfg.Addr())
	assert.Equal(t, 25*time.Second, cfg.StreamHeartbeat)
	assert.Zero(t, cfg.TMDBTimeout)
}

func TestLoadConfig_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("TMDB_API_KEY", " secret ")
	t.Setenv("TMDB_TIMEOUT", "10")
	t.Setenv("STREAM_HEARTBEAT", "500ms")
	t.Setenv("GRPC_ADDR", ":9091")
	t.Setenv("LOG_FORMAT", "JSON")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, "secret", cfg.TMDBAPIKey)
	assert.Equal(t, 10*time.Second, cfg.TMDBTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.StreamHeartbeat)
	assert.Equal(t, ":9091", cfg.GRPCAddr)
	assert.True(t, cfg.LogJSON)
}

func TestLoadConfig_BadDurationKeepsDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("STREAM_HEARTBEAT", "soon")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 25*time.Second, cfg.StreamHeartbeat)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "moviefinder.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "7000"
tmdb_base_url: http://localhost:9000/3
tmdb_language: de-DE
stream_heartbeat: 5s
log_level: debug
`), 0o644))
	t.Setenv("MOVIEFINDER_CONFIG", path)
	t.Setenv("TMDB_LANGUAGE", "fr-FR")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, "http://localhost:9000/3", cfg.TMDBBaseURL)
	assert.Equal(t, "fr-FR", cfg.TMDBLanguage, "environment wins over the file")
	assert.Equal(t, 5*time.Second, cfg.StreamHeartbeat)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, defaultPublicDir, cfg.PublicDir)
}

func TestLoadConfig_BadFile(t *testing.T) {
	clearEnv(t)

	t.Setenv("MOVIEFINDER_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := LoadConfig()
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [unterminated"), 0o644))
	t.Setenv("MOVIEFINDER_CONFIG", path)
	_, err = LoadConfig()
	require.Error(t, err)
}
