package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, v := range []string{
		"AIHOMEE_DATA_DIR", "AIHOMEE_ANTHROPIC_API_KEY", "AIHOMEE_OPENAI_API_KEY",
		"AIHOMEE_GOOGLE_API_KEY", "AIHOMEE_MISTRAL_API_KEY", "AIHOMEE_LOG_LEVEL",
	} {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".aihomee"), cfg.DataDir)
	assert.Equal(t, "avfoundation", cfg.CaptureFormat)
	assert.Equal(t, ":default", cfg.CaptureDevice)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Empty(t, cfg.AnthropicKey)

	assert.DirExists(t, cfg.DataDir)
	assert.Equal(t, filepath.Join(cfg.DataDir, "state.db"), cfg.StateDBPath())
}

func TestLoadReadsConfigFile(t *testing.T) {
	home := isolate(t)
	configDir := filepath.Join(home, ".config", "aihomee")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(`
data_dir = "~/homee-data"
anthropic_api_key = "sk-file"
mistral_api_key = "sk-mst"
capture_format = "pulse"
log_level = "debug"
`), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "homee-data"), cfg.DataDir)
	assert.Equal(t, "sk-file", cfg.AnthropicKey)
	assert.Equal(t, "sk-mst", cfg.MistralKey)
	assert.Equal(t, "pulse", cfg.CaptureFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestEnvOverridesConfigFile(t *testing.T) {
	home := isolate(t)
	configDir := filepath.Join(home, ".config", "aihomee")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(`
anthropic_api_key = "sk-file"
`), 0o644))

	t.Setenv("AIHOMEE_ANTHROPIC_API_KEY", "sk-env")
	t.Setenv("AIHOMEE_DATA_DIR", filepath.Join(home, "elsewhere"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-env", cfg.AnthropicKey)
	assert.Equal(t, filepath.Join(home, "elsewhere"), cfg.DataDir)
}
