package assessment

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryService is a decorator that retries transient failures with
// exponential backoff and jitter. Retries are strictly opt-in: a bare
// Client never retries.
type RetryService struct {
	inner  Service
	config RetryConfig
}

// WithRetry wraps a Service with retry logic.
func WithRetry(s Service, cfg RetryConfig) Service {
	return &RetryService{inner: s, config: cfg}
}

func (r *RetryService) Start(ctx context.Context, in StartInput) (*Session, error) {
	return retryCall(ctx, r.config, func() (*Session, error) {
		return r.inner.Start(ctx, in)
	})
}

func (r *RetryService) NextQuestion(ctx context.Context, sessionID string) (*Question, error) {
	return retryCall(ctx, r.config, func() (*Question, error) {
		return r.inner.NextQuestion(ctx, sessionID)
	})
}

func (r *RetryService) SubmitAnswer(ctx context.Context, sub Submission) (*AnswerResult, error) {
	return retryCall(ctx, r.config, func() (*AnswerResult, error) {
		return r.inner.SubmitAnswer(ctx, sub)
	})
}

// Health passes through untouched. It reports a boolean, so there is no
// failure to retry.
func (r *RetryService) Health(ctx context.Context) bool {
	return r.inner.Health(ctx)
}

func retryCall[T any](ctx context.Context, cfg RetryConfig, call func() (*T, error)) (*T, error) {
	if cfg.MaxAttempts < 1 {
		return call()
	}

	var lastErr error
	for attempt := range cfg.MaxAttempts {
		result, err := call()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !shouldRetry(err) {
			return nil, err
		}

		// Last attempt, don't sleep, just return the error.
		if attempt == cfg.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff(cfg, attempt)):
		}
	}

	return nil, lastErr
}

// shouldRetry determines if an error is retryable. Only failures that
// could resolve on their own qualify: network errors and 5xx statuses.
func shouldRetry(err error) bool {
	// Context errors are never retried.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Completion is the end of the session, not a failure.
	if errors.Is(err, ErrSessionComplete) {
		return false
	}

	var te *TransportError
	if errors.As(err, &te) {
		return te.Status == 0 || te.Status >= 500
	}

	// Everything else is a server verdict or a decode problem; repeating
	// the request will not change it.
	return false
}

// backoff computes the wait duration for the given attempt.
func backoff(cfg RetryConfig, attempt int) time.Duration {
	wait := float64(cfg.InitialWait) * math.Pow(cfg.Multiplier, float64(attempt))
	if wait > float64(cfg.MaxWait) {
		wait = float64(cfg.MaxWait)
	}

	// Add ±20% jitter.
	jitter := wait * 0.2 * (2*rand.Float64() - 1)
	wait += jitter

	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
