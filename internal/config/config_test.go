package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_FILE", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "sk-key", cfg.Mock.OpenAIAPIKey)
	assert.Equal(t, "cl-key", cfg.Mock.AnthropicAPIKey)
	assert.False(t, cfg.Auth.RequireKey)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_ENV", "production")
	t.Setenv("MOCK_OPENAI_API_KEY", "sk-env")
	t.Setenv("AUTH_REQUIRE_KEY", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "sk-env", cfg.Mock.OpenAIAPIKey)
	assert.True(t, cfg.Auth.RequireKey)
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "custom.yaml")
	content := `
server:
  port: "7070"
  write_timeout: 5s
mock:
  anthropic_api_key: "cl-file"
metrics:
  path: "prom"
tracing:
  enabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "cl-file", cfg.Mock.AnthropicAPIKey)
	assert.Equal(t, "sk-key", cfg.Mock.OpenAIAPIKey)
	assert.Equal(t, "/prom", cfg.Metrics.Path)
	assert.True(t, cfg.Tracing.Enabled)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	_, err := LoadConfig()
	assert.Error(t, err)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
