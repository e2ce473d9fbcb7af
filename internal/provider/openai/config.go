package openai

import "time"

// Config contains settings for one OpenAI-compatible vendor.
// Connection fields map to OpenAI SDK options:
//   - APIKey: Maps to option.WithAPIKey()
//   - BaseURL: Maps to option.WithBaseURL()
//   - Timeout: Maps to option.WithRequestTimeout()
//
// SDK retries are always disabled with option.WithMaxRetries(0); retrying
// belongs to the resilience layer.
type Config struct {
	ID          string
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}
