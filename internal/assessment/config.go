package assessment

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds everything needed to build a client stack.
type Config struct {
	// BaseURL is the assessment service root, e.g. "http://localhost:8000".
	BaseURL string

	// Timeout bounds a single HTTP exchange. Default: 15s.
	Timeout time.Duration

	// Retry configures the opt-in retry decorator. The zero value keeps
	// retries off; DefaultRetryConfig returns the recommended settings
	// for callers that want them.
	Retry RetryConfig
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults and retries off.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:8000",
		Timeout: defaultTimeout,
	}
}

// DefaultRetryConfig returns the recommended retry settings for callers
// that opt in.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 500 * time.Millisecond,
		MaxWait:     5 * time.Second,
		Multiplier:  2.0,
	}
}

// Validate checks the configuration for values that cannot work.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL %q must use http or https", c.BaseURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if c.Retry.MaxAttempts > 1 {
		if c.Retry.InitialWait <= 0 {
			return fmt.Errorf("retry initial wait must be positive")
		}
		if c.Retry.Multiplier < 1 {
			return fmt.Errorf("retry multiplier must be at least 1")
		}
	}
	return nil
}
