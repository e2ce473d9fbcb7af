package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// Fingerprint returns the deterministic cache key of a request sent to a provider.
// Format: fp:<providerID>:<hex(SHA-256(canonical JSON))>
func Fingerprint(providerID string, req *Request) (string, error) {
	if req == nil {
		return "", fmt.Errorf("fingerprint: request cannot be nil")
	}

	return FingerprintFields(providerID, map[string]any{
		"provider_id":   providerID,
		"model":         req.Model,
		"system_prompt": req.SystemPrompt,
		"prompt":        req.Prompt,
		"max_tokens":    req.MaxTokens,
		"temperature":   req.Temperature,
	})
}

// FingerprintFields hashes an arbitrary parameter map. Key order never affects the result.
func FingerprintFields(providerID string, fields map[string]any) (string, error) {
	canonical, err := canonicalizeMap(fields)
	if err != nil {
		return "", fmt.Errorf("fingerprint: failed to canonicalize: %w", err)
	}

	hash := sha256.Sum256(canonical)
	return fmt.Sprintf("fp:%s:%s", providerID, hex.EncodeToString(hash[:])), nil
}

func canonicalize(v any) ([]byte, error) {
	switch val := v.(type) {
	case nil:
		return []byte("null"), nil
	case map[string]any:
		return canonicalizeMap(val)
	case []any:
		return canonicalizeSlice(val)
	default:
		return json.Marshal(v)
	}
}

func canonicalizeMap(m map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := []byte("{")
	for i, k := range keys {
		if i > 0 {
			result = append(result, ',')
		}

		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		result = append(result, keyBytes...)
		result = append(result, ':')

		valBytes, err := canonicalize(m[k])
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, '}')

	return result, nil
}

func canonicalizeSlice(s []any) ([]byte, error) {
	result := []byte("[")
	for i, v := range s {
		if i > 0 {
			result = append(result, ',')
		}

		valBytes, err := canonicalize(v)
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, ']')

	return result, nil
}
