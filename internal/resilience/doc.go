// Package resilience wraps provider calls with a response cache, a
// per-provider circuit breaker, retry with exponential backoff, and an
// ordered fallback chain.
//
// # Circuit breaker
//
// Each provider id owns one breaker for the life of the process:
//
//	closed ──(threshold failures in window)──> open
//	open ──(open duration elapsed)──> half-open
//	half-open ──(trial succeeds)──> closed
//	half-open ──(trial fails)──> open
//
// Only one trial is admitted while half-open; every other caller fails fast
// with a CIRCUIT_OPEN error.
//
// # Retry
//
// Only retryable errors are retried. The wait before attempt n+1 is
// InitialDelay * 2^(n-1), with no jitter, so timing stays predictable.
//
// # Usage
//
//	client := resilience.NewClient(provider,
//		resilience.WithCache(store),
//		resilience.WithBreaker(breakers.Get(provider.ProviderID())),
//		resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{})),
//	)
//	resp, err := client.Send(ctx, req)
package resilience
