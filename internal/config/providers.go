package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/davidbz/plangate/internal/domain"
	"github.com/davidbz/plangate/internal/provider"
)

// ProviderFile is the optional YAML provider table.
//
//	providers:
//	  - id: acme
//	    kind: openai
//	    base_url: https://llm.acme.example/v1
//	    api_key: ${ACME_API_KEY}
//	    model: acme-large
//	    timeout: 30s
//
// Entries whose id matches a built-in vendor override its non-empty fields;
// others are appended to the catalog.
type ProviderFile struct {
	Providers []provider.Spec `yaml:"providers"`
}

// LoadProviderFile reads a provider table and expands environment variables.
func LoadProviderFile(path string) (*ProviderFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read provider file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var file ProviderFile
	if err := yaml.Unmarshal([]byte(expanded), &file); err != nil {
		return nil, fmt.Errorf("parse provider file: %w", err)
	}

	for i, spec := range file.Providers {
		if spec.ID == "" {
			return nil, fmt.Errorf("provider file entry %d: id is required", i)
		}
	}

	return &file, nil
}

// ProviderSpecs merges the built-in catalog with environment overrides and
// the provider file. Every spec gets the planner's token and temperature
// defaults unless it sets its own.
func (c *Config) ProviderSpecs() ([]provider.Spec, error) {
	overrides := map[string]VendorConfig{
		"longcat":  c.Providers.LongCat,
		"deepseek": c.Providers.DeepSeek,
		"openai":   c.Providers.OpenAI,
		"gemini":   c.Providers.Gemini,
		"groq":     c.Providers.Groq,
		"iflow":    c.Providers.IFlow,
		"claude":   c.Providers.Claude,
		"ollama":   c.Providers.Ollama,
	}

	specs := provider.Builtins()
	for i := range specs {
		if vendor, ok := overrides[specs[i].ID]; ok {
			specs[i] = applyVendor(specs[i], vendor)
		}
	}

	if c.Providers.File != "" {
		file, err := LoadProviderFile(c.Providers.File)
		if err != nil {
			return nil, err
		}
		specs = mergeSpecs(specs, file.Providers)
	}

	for i := range specs {
		if specs[i].MaxTokens <= 0 {
			specs[i].MaxTokens = c.Planner.MaxTokens
		}
		if specs[i].Temperature == nil {
			specs[i].Temperature = domain.Float(c.Planner.Temperature)
		}
	}

	return specs, nil
}

func applyVendor(spec provider.Spec, vendor VendorConfig) provider.Spec {
	if vendor.APIKey != "" {
		spec.APIKey = vendor.APIKey
	}
	if vendor.BaseURL != "" {
		spec.BaseURL = vendor.BaseURL
	}
	if vendor.Model != "" {
		spec.Model = vendor.Model
	}
	if vendor.Timeout > 0 {
		spec.Timeout = vendor.Timeout
	}
	return spec
}

func mergeSpecs(base, extra []provider.Spec) []provider.Spec {
	index := make(map[string]int, len(base))
	for i, spec := range base {
		index[strings.ToLower(spec.ID)] = i
	}

	for _, spec := range extra {
		i, ok := index[strings.ToLower(spec.ID)]
		if !ok {
			if spec.Kind == "" {
				spec.Kind = provider.KindOpenAI
			}
			index[strings.ToLower(spec.ID)] = len(base)
			base = append(base, spec)
			continue
		}

		merged := applyVendor(base[i], VendorConfig{
			APIKey:  spec.APIKey,
			BaseURL: spec.BaseURL,
			Model:   spec.Model,
			Timeout: spec.Timeout,
		})
		if spec.Kind != "" {
			merged.Kind = spec.Kind
		}
		if spec.MaxTokens > 0 {
			merged.MaxTokens = spec.MaxTokens
		}
		if spec.Temperature != nil {
			merged.Temperature = spec.Temperature
		}
		base[i] = merged
	}

	return base
}
