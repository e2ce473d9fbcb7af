package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/davidbz/plangate"

// Metrics records gateway counters through OpenTelemetry.
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	calls       metric.Int64Counter
	retries     metric.Int64Counter
	cache       metric.Int64Counter
	transitions metric.Int64Counter
	fallbacks   metric.Int64Counter
	latency     metric.Float64Histogram
}

// NewMetrics creates the instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	calls, err := meter.Int64Counter(
		"plangate.provider.calls",
		metric.WithDescription("Provider calls by outcome"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	retries, err := meter.Int64Counter(
		"plangate.provider.retries",
		metric.WithDescription("Retry attempts after a retryable failure"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	cache, err := meter.Int64Counter(
		"plangate.cache.lookups",
		metric.WithDescription("Response cache lookups by result"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	transitions, err := meter.Int64Counter(
		"plangate.breaker.transitions",
		metric.WithDescription("Circuit breaker state transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, err
	}

	fallbacks, err := meter.Int64Counter(
		"plangate.fallback.skips",
		metric.WithDescription("Candidates skipped or failed over in a fallback chain"),
		metric.WithUnit("{candidate}"),
	)
	if err != nil {
		return nil, err
	}

	latency, err := meter.Float64Histogram(
		"plangate.provider.latency_ms",
		metric.WithDescription("Provider call latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		calls:       calls,
		retries:     retries,
		cache:       cache,
		transitions: transitions,
		fallbacks:   fallbacks,
		latency:     latency,
	}, nil
}

// RecordCall records one terminal provider call. errorType is empty on success.
func (m *Metrics) RecordCall(ctx context.Context, providerID string, duration time.Duration, errorType string) {
	if m == nil {
		return
	}

	outcome := "success"
	if errorType != "" {
		outcome = "failure"
	}

	attrs := metric.WithAttributes(
		attribute.String("provider", providerID),
		attribute.String("outcome", outcome),
		attribute.String("error_type", errorType),
	)
	m.calls.Add(ctx, 1, attrs)
	m.latency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attribute.String("provider", providerID)))
}

// RecordRetry records a retry before the given attempt number.
func (m *Metrics) RecordRetry(ctx context.Context, providerID string, attempt int) {
	if m == nil {
		return
	}
	m.retries.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", providerID),
		attribute.Int("attempt", attempt),
	))
}

// RecordCacheLookup records a cache hit or miss.
func (m *Metrics) RecordCacheLookup(ctx context.Context, providerID string, hit bool) {
	if m == nil {
		return
	}

	result := "miss"
	if hit {
		result = "hit"
	}
	m.cache.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", providerID),
		attribute.String("result", result),
	))
}

// RecordBreakerTransition records a circuit state change.
func (m *Metrics) RecordBreakerTransition(ctx context.Context, providerID, from, to string) {
	if m == nil {
		return
	}
	m.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", providerID),
		attribute.String("from", from),
		attribute.String("to", to),
	))
}

// RecordFallback records that a candidate was passed over.
func (m *Metrics) RecordFallback(ctx context.Context, providerID, reason string) {
	if m == nil {
		return
	}
	m.fallbacks.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", providerID),
		attribute.String("reason", reason),
	))
}
