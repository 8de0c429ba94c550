package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds machine-level settings: where state lives, how audio is
// captured, and credential fallbacks for first runs. User-level settings
// (agents, web tools, stored credentials) live in the settings store.
type Config struct {
	DataDir string

	// Credential fallbacks, used when the settings store has none.
	AnthropicKey string
	OpenAIKey    string
	GoogleKey    string
	MistralKey   string

	// ffmpeg capture parameters. The defaults target the macOS default
	// microphone; Linux users typically set format to "pulse" or "alsa".
	CaptureFormat string
	CaptureDevice string

	LogLevel string
}

type fileConfig struct {
	DataDir       string `toml:"data_dir"`
	AnthropicKey  string `toml:"anthropic_api_key"`
	OpenAIKey     string `toml:"openai_api_key"`
	GoogleKey     string `toml:"google_api_key"`
	MistralKey    string `toml:"mistral_api_key"`
	CaptureFormat string `toml:"capture_format"`
	CaptureDevice string `toml:"capture_device"`
	LogLevel      string `toml:"log_level"`
}

func Load() (*Config, error) {
	cfg := &Config{
		DataDir:       defaultDataDir(),
		CaptureFormat: "avfoundation",
		CaptureDevice: ":default",
		LogLevel:      "warn",
	}

	if configPath := configFilePath(); configPath != "" {
		var fc fileConfig
		if _, err := toml.DecodeFile(configPath, &fc); err == nil {
			if fc.DataDir != "" {
				cfg.DataDir = expandTilde(fc.DataDir)
			}
			cfg.AnthropicKey = fc.AnthropicKey
			cfg.OpenAIKey = fc.OpenAIKey
			cfg.GoogleKey = fc.GoogleKey
			cfg.MistralKey = fc.MistralKey
			if fc.CaptureFormat != "" {
				cfg.CaptureFormat = fc.CaptureFormat
			}
			if fc.CaptureDevice != "" {
				cfg.CaptureDevice = fc.CaptureDevice
			}
			if fc.LogLevel != "" {
				cfg.LogLevel = fc.LogLevel
			}
		}
	}

	applyEnvOverrides(cfg)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}

	return cfg, nil
}

// StateDBPath is where the slot database lives.
func (c *Config) StateDBPath() string {
	return filepath.Join(c.DataDir, "state.db")
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("AIHOMEE_ANTHROPIC_API_KEY"); v != "" {
		cfg.AnthropicKey = v
	}
	if v := os.Getenv("AIHOMEE_OPENAI_API_KEY"); v != "" {
		cfg.OpenAIKey = v
	}
	if v := os.Getenv("AIHOMEE_GOOGLE_API_KEY"); v != "" {
		cfg.GoogleKey = v
	}
	if v := os.Getenv("AIHOMEE_MISTRAL_API_KEY"); v != "" {
		cfg.MistralKey = v
	}
	if v := os.Getenv("AIHOMEE_DATA_DIR"); v != "" {
		cfg.DataDir = expandTilde(v)
	}
	if v := os.Getenv("AIHOMEE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

func configFilePath() string {
	var configDir string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		configDir = filepath.Join(xdg, "aihomee")
	} else if home, err := os.UserHomeDir(); err == nil {
		configDir = filepath.Join(home, ".config", "aihomee")
	} else {
		return ""
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

func defaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".aihomee")
	}
	return filepath.Join(".", ".aihomee")
}

func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
