package resilience

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/davidbz/plangate/internal/domain"
	"github.com/davidbz/plangate/internal/observability"
)

// Hooks receive resilience events. Any field may be nil.
type Hooks struct {
	OnRetry       func(ctx context.Context, providerID string, attempt int, err *domain.Error, delay time.Duration)
	OnStateChange func(providerID string, from, to State)
	OnCacheLookup func(ctx context.Context, providerID string, hit bool)
	OnCall        func(ctx context.Context, providerID string, duration time.Duration, err *domain.Error)
	OnSkip        func(ctx context.Context, providerID, reason string)
}

// Skip reasons reported through OnSkip.
const (
	SkipReasonCircuitOpen = "circuit_open"
	SkipReasonFailed      = "failed"
)

// NewObservedHooks logs every event through the context logger and records
// it on metrics. metrics may be nil.
func NewObservedHooks(metrics *observability.Metrics) Hooks {
	return Hooks{
		OnRetry: func(ctx context.Context, providerID string, attempt int, err *domain.Error, delay time.Duration) {
			providerLogger(ctx, providerID).Warn("retrying provider call",
				observability.Int("attempt", attempt),
				observability.Duration("delay", delay),
				observability.String("error_type", string(err.Type)),
				observability.Error(err),
			)
			metrics.RecordRetry(ctx, providerID, attempt)
		},
		OnStateChange: func(providerID string, from, to State) {
			ctx := context.Background()
			logger := providerLogger(ctx, providerID)
			fields := []observability.Field{
				observability.String("from", from.String()),
				observability.String("to", to.String()),
			}
			if to == StateOpen {
				logger.Warn("circuit breaker opened", fields...)
			} else {
				logger.Info("circuit breaker state changed", fields...)
			}
			metrics.RecordBreakerTransition(ctx, providerID, from.String(), to.String())
		},
		OnCacheLookup: func(ctx context.Context, providerID string, hit bool) {
			if hit {
				providerLogger(ctx, providerID).Debug("response served from cache")
			}
			metrics.RecordCacheLookup(ctx, providerID, hit)
		},
		OnCall: func(ctx context.Context, providerID string, duration time.Duration, err *domain.Error) {
			errorType := ""
			if err != nil {
				errorType = string(err.Type)
				providerLogger(ctx, providerID).Error("provider call failed",
					observability.String("error_type", errorType),
					observability.Bool("retryable", err.Retryable),
					observability.Duration("duration", duration),
					observability.Error(err),
				)
			}
			metrics.RecordCall(ctx, providerID, duration, errorType)
		},
		OnSkip: func(ctx context.Context, providerID, reason string) {
			providerLogger(ctx, providerID).Info("fallback moving past provider",
				observability.String("reason", reason),
			)
			metrics.RecordFallback(ctx, providerID, reason)
		},
	}
}

// providerLogger tags the context logger with providerID exactly once.
func providerLogger(ctx context.Context, providerID string) *zap.Logger {
	return observability.FromContext(observability.WithProvider(ctx, providerID))
}

func (h Hooks) cacheLookup(ctx context.Context, providerID string, hit bool) {
	if h.OnCacheLookup != nil {
		h.OnCacheLookup(ctx, providerID, hit)
	}
}

func (h Hooks) call(ctx context.Context, providerID string, duration time.Duration, err *domain.Error) {
	if h.OnCall != nil {
		h.OnCall(ctx, providerID, duration, err)
	}
}

func (h Hooks) skip(ctx context.Context, providerID, reason string) {
	if h.OnSkip != nil {
		h.OnSkip(ctx, providerID, reason)
	}
}
