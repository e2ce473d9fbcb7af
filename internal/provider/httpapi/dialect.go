package httpapi

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/davidbz/plangate/internal/domain"
)

// Dialect names a wire format spoken by a vendor.
type Dialect string

const (
	DialectAnthropic Dialect = "anthropic"
	DialectGemini    Dialect = "gemini"
	DialectOllama    Dialect = "ollama"
)

const anthropicVersion = "2023-06-01"

// dialect describes one vendor wire format as data: where to send, which
// headers to set, how to shape the body and where to read the answer.
type dialect struct {
	requiresKey bool
	overloaded  []int

	endpoint  func(baseURL string, req *domain.Request) string
	headers   func(h http.Header, apiKey string)
	body      func(req *domain.Request) ([]byte, error)
	content   func(body gjson.Result) (string, bool)
	tokens    func(body gjson.Result) int
	healthURL func(baseURL string) string
}

// dialects is the vendor table. Adding a vendor that speaks an existing
// dialect needs configuration only.
var dialects = map[Dialect]dialect{
	DialectAnthropic: {
		requiresKey: true,
		overloaded:  []int{529},
		endpoint: func(baseURL string, _ *domain.Request) string {
			return baseURL
		},
		headers: func(h http.Header, apiKey string) {
			h.Set("x-api-key", apiKey)
			h.Set("anthropic-version", anthropicVersion)
		},
		body: func(req *domain.Request) ([]byte, error) {
			return build(
				field{"model", req.Model},
				field{"max_tokens", req.MaxTokens},
				field{"temperature", req.Temperature},
				optional("system", req.SystemPrompt),
				field{"messages", []message{{Role: "user", Content: req.Prompt}}},
			)
		},
		content: func(body gjson.Result) (string, bool) {
			first := body.Get("content.0")
			if first.Get("type").String() != "text" {
				return "", false
			}
			text := first.Get("text")
			return text.String(), text.Exists()
		},
		tokens: func(body gjson.Result) int {
			return int(body.Get("usage.input_tokens").Int() + body.Get("usage.output_tokens").Int())
		},
	},

	DialectGemini: {
		requiresKey: true,
		endpoint: func(baseURL string, req *domain.Request) string {
			return fmt.Sprintf("%s/models/%s:generateContent", baseURL, url.PathEscape(req.Model))
		},
		headers: func(h http.Header, apiKey string) {
			h.Set("x-goog-api-key", apiKey)
		},
		body: func(req *domain.Request) ([]byte, error) {
			fields := []field{
				{"contents", []geminiContent{{Role: "user", Parts: []geminiPart{{Text: req.Prompt}}}}},
				{"generationConfig.maxOutputTokens", req.MaxTokens},
				{"generationConfig.temperature", req.Temperature},
			}
			if req.SystemPrompt != "" {
				fields = append(fields, field{"systemInstruction.parts", []geminiPart{{Text: req.SystemPrompt}}})
			}
			return build(fields...)
		},
		content: func(body gjson.Result) (string, bool) {
			text := body.Get("candidates.0.content.parts.0.text")
			return text.String(), text.Exists()
		},
		tokens: func(body gjson.Result) int {
			return int(body.Get("usageMetadata.totalTokenCount").Int())
		},
	},

	DialectOllama: {
		endpoint: func(baseURL string, _ *domain.Request) string {
			return baseURL + "/api/chat"
		},
		headers: func(http.Header, string) {},
		body: func(req *domain.Request) ([]byte, error) {
			messages := make([]message, 0, 2)
			if req.SystemPrompt != "" {
				messages = append(messages, message{Role: "system", Content: req.SystemPrompt})
			}
			messages = append(messages, message{Role: "user", Content: req.Prompt})

			return build(
				field{"model", req.Model},
				field{"stream", false},
				field{"messages", messages},
				field{"options.temperature", req.Temperature},
				field{"options.num_predict", req.MaxTokens},
			)
		},
		content: func(body gjson.Result) (string, bool) {
			text := body.Get("message.content")
			return text.String(), text.Exists()
		},
		tokens: func(body gjson.Result) int {
			return int(body.Get("eval_count").Int())
		},
		healthURL: func(baseURL string) string {
			return baseURL
		},
	},
}

// Dialects returns the supported dialect names.
func Dialects() []Dialect {
	return []Dialect{DialectAnthropic, DialectGemini, DialectOllama}
}

func lookup(name Dialect) (dialect, bool) {
	d, ok := dialects[Dialect(strings.ToLower(string(name)))]
	return d, ok
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type field struct {
	path  string
	value any
}

// optional yields a field only when value is non-empty.
func optional(path, value string) field {
	if value == "" {
		return field{}
	}
	return field{path, value}
}

func build(fields ...field) ([]byte, error) {
	body := []byte(`{}`)
	for _, f := range fields {
		if f.path == "" {
			continue
		}

		var err error
		body, err = sjson.SetBytes(body, f.path, f.value)
		if err != nil {
			return nil, fmt.Errorf("failed to set %s: %w", f.path, err)
		}
	}
	return body, nil
}
