// Package config loads MailMind client configuration from the config file,
// environment, and flags, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the resolved client configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Defaults DefaultsConfig `mapstructure:"defaults"`
	Debug    bool           `mapstructure:"debug"`
	Trace    bool           `mapstructure:"trace"`
}

// ServerConfig locates the backend.
type ServerConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// DefaultsConfig pre-selects options in the generation views.
type DefaultsConfig struct {
	Tone          string `mapstructure:"tone"`
	PromptVersion string `mapstructure:"prompt_version"`
	Provider      string `mapstructure:"provider"`
}

// Dir returns the per-user config directory.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "mailmind"), nil
}

// Load reads config.yaml from the user config dir (if present) and applies
// MAILMIND_* environment overrides. A missing file is not an error; the
// defaults below apply.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	dir, err := Dir()
	if err == nil {
		v.AddConfigPath(dir)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("MAILMIND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.base_url", "http://localhost:8081")
	v.SetDefault("defaults.tone", "FORMAL")
	v.SetDefault("defaults.prompt_version", "V2_STRUCTURED")
	v.SetDefault("defaults.provider", "GEMINI")
	v.SetDefault("debug", false)
	v.SetDefault("trace", false)
}
