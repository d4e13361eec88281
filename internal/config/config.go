package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abhisek/aptiz/internal/assessment"
)

// Config holds application configuration loaded from files and
// environment variables.
type Config struct {
	Env     string        `mapstructure:"env"`      // environment name (local, production)
	BaseURL string        `mapstructure:"base_url"` // assessment service root URL
	Timeout time.Duration `mapstructure:"timeout"`  // per-request timeout
	Retry   Retry         `mapstructure:"retry"`    // opt-in retry section
}

// Retry is the file form of the client retry knobs. Retries stay off
// unless Enabled is set.
type Retry struct {
	Enabled     bool          `mapstructure:"enabled"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	InitialWait time.Duration `mapstructure:"initial_wait"`
	MaxWait     time.Duration `mapstructure:"max_wait"`
	Multiplier  float64       `mapstructure:"multiplier"`
}

// Client converts the loaded configuration into the client package form.
// A disabled retry section maps to the zero RetryConfig, which the
// factory treats as "no retry layer".
func (c *Config) Client() assessment.Config {
	out := assessment.Config{
		BaseURL: c.BaseURL,
		Timeout: c.Timeout,
	}
	if c.Retry.Enabled {
		out.Retry = assessment.RetryConfig{
			MaxAttempts: c.Retry.MaxAttempts,
			InitialWait: c.Retry.InitialWait,
			MaxWait:     c.Retry.MaxWait,
			Multiplier:  c.Retry.Multiplier,
		}
	}
	return out
}

// Load reads configuration in order: defaults, an aptiz.yaml when one is
// present, APTIZ_* environment variables, then any changed flags from the
// given set on top. A .env file in the working directory is folded into
// the environment first. flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("aptiz")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/aptiz")

	v.SetDefault("env", "local")
	v.SetDefault("base_url", "http://localhost:8000")
	v.SetDefault("timeout", "15s")
	v.SetDefault("retry.enabled", false)
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.initial_wait", "500ms")
	v.SetDefault("retry.max_wait", "5s")
	v.SetDefault("retry.multiplier", 2.0)

	v.SetEnvPrefix("APTIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		// Flag names are dashed while config keys are not, so each
		// binding is explicit.
		for key, name := range map[string]string{
			"base_url":      "base-url",
			"timeout":       "timeout",
			"retry.enabled": "retry",
		} {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag --%s: %w", name, err)
				}
			}
		}
	}

	// A missing config file is fine; anything else is not.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
