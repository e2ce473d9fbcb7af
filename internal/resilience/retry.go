package resilience

import (
	"context"
	"time"

	"github.com/davidbz/plangate/internal/domain"
)

// RetryConfig configures the retry behavior.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial).
	// Default: 3
	MaxAttempts int

	// InitialDelay is the delay before the first retry. Each following
	// delay doubles it.
	// Default: 1s
	InitialDelay time.Duration

	// MaxDelay caps the doubled delay. It is raised to InitialDelay when lower.
	// Default: 30s
	MaxDelay time.Duration

	// OnRetry is called before each retry wait.
	OnRetry func(ctx context.Context, providerID string, attempt int, err *domain.Error, delay time.Duration)

	// Sleep waits for d or until ctx ends.
	// Default: a timer select on the calling goroutine.
	Sleep func(ctx context.Context, d time.Duration) error
}

const defaultMaxDelay = 30 * time.Second

// Retry re-runs a provider call on retryable failures with exponential backoff.
type Retry struct {
	config RetryConfig
}

// NewRetry creates a new retry handler.
func NewRetry(config RetryConfig) *Retry {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.InitialDelay <= 0 {
		config.InitialDelay = time.Second
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = defaultMaxDelay
	}
	config.MaxDelay = max(config.MaxDelay, config.InitialDelay)
	if config.Sleep == nil {
		config.Sleep = sleep
	}

	return &Retry{config: config}
}

// Execute runs op until it succeeds, fails with a non-retryable error, or
// MaxAttempts is reached. The last error is returned unchanged.
func (r *Retry) Execute(
	ctx context.Context,
	providerID string,
	op func(context.Context) (*domain.Response, error),
) (*domain.Response, error) {
	var lastErr *domain.Error

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		resp, err := op(ctx)
		if err == nil {
			return resp, nil
		}

		lastErr = domain.AsError(providerID, err)
		if !r.shouldRetry(ctx, lastErr, attempt) {
			return nil, lastErr
		}

		delay := r.Delay(attempt)
		if r.config.OnRetry != nil {
			r.config.OnRetry(ctx, providerID, attempt+1, lastErr, delay)
		}

		if err := r.config.Sleep(ctx, delay); err != nil {
			return nil, domain.AsError(providerID, err)
		}
	}

	return nil, lastErr
}

// Delay returns the wait after the given failed attempt:
// InitialDelay * 2^(attempt-1), capped at MaxDelay.
func (r *Retry) Delay(attempt int) time.Duration {
	delay := r.config.InitialDelay
	for i := 1; i < attempt && delay < r.config.MaxDelay; i++ {
		delay *= 2
	}
	return min(delay, r.config.MaxDelay)
}

func (r *Retry) shouldRetry(ctx context.Context, err *domain.Error, attempt int) bool {
	if attempt >= r.config.MaxAttempts || !err.Retryable {
		return false
	}
	return ctx.Err() == nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
