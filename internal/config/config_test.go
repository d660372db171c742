package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig drops a config.yaml under the fake XDG config home. The env
// redirect only works where os.UserConfigDir honors XDG_CONFIG_HOME.
func writeConfig(t *testing.T, xdgHome, content string) {
	t.Helper()
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("XDG_CONFIG_HOME redirect requires a unix config dir")
	}
	dir := filepath.Join(xdgHome, "mailmind")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))
}

func TestLoad_Defaults(t *testing.T) {
	// Point the config dir somewhere empty so no user file interferes.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8081", cfg.Server.BaseURL)
	assert.Equal(t, "FORMAL", cfg.Defaults.Tone)
	assert.Equal(t, "V2_STRUCTURED", cfg.Defaults.PromptVersion)
	assert.Equal(t, "GEMINI", cfg.Defaults.Provider)
	assert.False(t, cfg.Debug)
	assert.False(t, cfg.Trace)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("MAILMIND_SERVER_BASE_URL", "https://mail.example.com")
	t.Setenv("MAILMIND_DEFAULTS_TONE", "FRIENDLY")
	t.Setenv("MAILMIND_DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://mail.example.com", cfg.Server.BaseURL)
	assert.Equal(t, "FRIENDLY", cfg.Defaults.Tone)
	assert.True(t, cfg.Debug)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	writeConfig(t, dir, `
server:
  base_url: http://10.0.0.5:9090
defaults:
  provider: OLLAMA
`)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:9090", cfg.Server.BaseURL)
	assert.Equal(t, "OLLAMA", cfg.Defaults.Provider)
	// Unset keys keep their defaults.
	assert.Equal(t, "FORMAL", cfg.Defaults.Tone)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	writeConfig(t, dir, "server: [not: valid")

	_, err := Load()
	assert.Error(t, err)
}
