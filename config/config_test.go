package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultServiceURL, cfg.Endpoint.URL)
	assert.Equal(t, 30, cfg.Endpoint.TimeoutSeconds)
	assert.Equal(t, 0, cfg.Endpoint.MaxRequestsPerMinute)
	assert.False(t, cfg.Query.Debug)
}

func TestLoadIsCached(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	first, err := Load()
	require.NoError(t, err)
	second, err := Load()
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sparq.toml")
	content := `
[endpoint]
url = "http://localhost:8890/sparql/"
timeout_seconds = 5

[query]
debug = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8890/sparql/", cfg.Endpoint.URL)
	assert.Equal(t, 5, cfg.Endpoint.TimeoutSeconds)
	// Unset keys fall back to defaults
	assert.Equal(t, 0, cfg.Endpoint.MaxRequestsPerMinute)
	assert.True(t, cfg.Query.Debug)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestEnvOverride(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	t.Setenv("SPARQ_ENDPOINT_URL", "http://example.org/sparql/")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://example.org/sparql/", cfg.Endpoint.URL)
}
