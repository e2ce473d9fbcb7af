package domain

// Request represents a single normalized LLM call.
type Request struct {
	Prompt       string  `json:"prompt"`
	SystemPrompt string  `json:"system_prompt,omitempty"`
	Model        string  `json:"model"`
	MaxTokens    int     `json:"max_tokens"`
	Temperature  float64 `json:"temperature"`
}

// Response represents a successful provider reply.
type Response struct {
	Content    string `json:"content"`
	Model      string `json:"model"`
	ProviderID string `json:"provider_id"`
	TokensUsed int    `json:"tokens_used"`
	LatencyMs  int64  `json:"latency_ms"`
	FromCache  bool   `json:"from_cache"`
}

// CachedCopy returns a clone marked as served from cache.
func (r *Response) CachedCopy() *Response {
	clone := *r
	clone.FromCache = true
	clone.LatencyMs = 0
	return &clone
}

// Defaults holds the per-provider values used when a caller leaves a parameter unset.
type Defaults struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

// ModelParams is the fixed set of tunables a caller may pass with a prompt.
// Empty strings, non-positive MaxTokens and a nil Temperature mean "use the
// provider default". A Temperature of 0 is honored.
type ModelParams struct {
	SystemPrompt string   `json:"system_prompt,omitempty"`
	Model        string   `json:"model,omitempty"`
	MaxTokens    int      `json:"max_tokens,omitempty"`
	Temperature  *float64 `json:"temperature,omitempty"`
}

// Float returns a pointer to v, for ModelParams.Temperature.
func Float(v float64) *float64 {
	return &v
}

// BuildRequest resolves caller parameters against provider defaults.
func BuildRequest(prompt string, params ModelParams, defaults Defaults) *Request {
	req := &Request{
		Prompt:       prompt,
		SystemPrompt: params.SystemPrompt,
		Model:        params.Model,
		MaxTokens:    params.MaxTokens,
		Temperature:  defaults.Temperature,
	}

	if req.Model == "" {
		req.Model = defaults.Model
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = defaults.MaxTokens
	}
	if params.Temperature != nil {
		req.Temperature = *params.Temperature
	}

	return req
}
