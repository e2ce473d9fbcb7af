package resilience

import (
	"context"
	"errors"

	"github.com/davidbz/plangate/internal/domain"
	"github.com/davidbz/plangate/internal/observability"
)

// ErrNoCandidates is returned when a fallback chain is empty.
var ErrNoCandidates = errors.New("no fallback candidates")

// Fallback tries an ordered list of clients until one succeeds.
type Fallback struct {
	hooks Hooks
}

// NewFallback creates a fallback handler.
func NewFallback(hooks Hooks) *Fallback {
	return &Fallback{hooks: hooks}
}

// RequestBuilder builds the request sent to one candidate, typically from
// that candidate's own defaults.
type RequestBuilder func(candidate *Client) *domain.Request

// Execute sends to each candidate in order and returns the first success.
// Candidates whose breaker is open are skipped without a call. When every
// candidate fails the last error is returned.
func (f *Fallback) Execute(ctx context.Context, candidates []*Client, build RequestBuilder) (*domain.Response, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	var lastErr error
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		providerID := candidate.ProviderID()
		candidateCtx := observability.WithProvider(ctx, providerID)

		if candidate.BreakerState() == StateOpen {
			lastErr = domain.NewCircuitOpenError(providerID)
			f.hooks.skip(candidateCtx, providerID, SkipReasonCircuitOpen)
			continue
		}

		resp, err := candidate.Send(candidateCtx, build(candidate))
		if err == nil {
			return resp, nil
		}

		lastErr = err
		f.hooks.skip(candidateCtx, providerID, SkipReasonFailed)
	}

	return nil, lastErr
}
