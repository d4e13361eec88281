package assessment

import (
	"fmt"

	"go.uber.org/zap"
)

// NewService builds the client stack from configuration.
// Decorators wrap in order: caller → retry → logging → HTTP client.
// Retry applies only when the config asks for more than one attempt;
// a nil logger skips the logging layer.
func NewService(cfg Config, log *zap.Logger) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("assessment config: %w", err)
	}

	var opts []ClientOption
	if cfg.Timeout > 0 {
		opts = append(opts, WithTimeout(cfg.Timeout))
	}

	var svc Service = NewClient(cfg.BaseURL, opts...)
	if log != nil {
		svc = WithLogging(svc, log)
	}
	if cfg.Retry.MaxAttempts > 1 {
		svc = WithRetry(svc, cfg.Retry)
	}
	return svc, nil
}
