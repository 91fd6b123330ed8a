package config

import (
	"fmt"

	"github.com/pullconf/pullconf/internal/perr"
)

// APIKeyHash returns the client document's api_key_hash field: 64
// lowercase hex characters (SHA-256 of the shared secret, spec §3).
func (c RawClient) APIKeyHash() (string, error) {
	v, ok := c.Doc["api_key_hash"]
	if !ok {
		return "", &perr.ConfigError{File: c.File, Reason: "missing required key \"api_key_hash\""}
	}
	s, ok := v.(string)
	if !ok {
		return "", &perr.ConfigError{File: c.File, Field: "api_key_hash", Reason: fmt.Sprintf("expected string, got %T", v)}
	}
	if len(s) != 64 || !isLowerHex(s) {
		return "", &perr.ConfigError{File: c.File, Field: "api_key_hash", Reason: "must be 64 lowercase hex characters"}
	}
	return s, nil
}

func isLowerHex(s string) bool {
	for _, c := range s {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}

// Variables returns the client document's variables table, or an empty
// map if absent.
func (c RawClient) Variables() (map[string]any, error) {
	v, ok := c.Doc["variables"]
	if !ok {
		return map[string]any{}, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &perr.ConfigError{File: c.File, Field: "variables", Reason: fmt.Sprintf("expected table, got %T", v)}
	}
	return m, nil
}

// GroupNames returns the client document's list of inherited group names.
func (c RawClient) GroupNames() ([]string, error) {
	v, ok := c.Doc["groups"]
	if !ok {
		return nil, nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, &perr.ConfigError{File: c.File, Field: "groups", Reason: fmt.Sprintf("expected array, got %T", v)}
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		s, ok := e.(string)
		if !ok {
			return nil, &perr.ConfigError{File: c.File, Field: "groups", Reason: fmt.Sprintf("expected string, got %T", e)}
		}
		out = append(out, s)
	}
	return out, nil
}

// Resources returns the raw list of resource tables declared in doc.
func Resources(file string, doc map[string]any) ([]map[string]any, error) {
	v, ok := doc["resources"]
	if !ok {
		return nil, nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, &perr.ConfigError{File: file, Field: "resources", Reason: fmt.Sprintf("expected array, got %T", v)}
	}
	out := make([]map[string]any, 0, len(arr))
	for i, e := range arr {
		m, ok := e.(map[string]any)
		if !ok {
			return nil, &perr.ConfigError{File: file, Field: "resources", Reason: fmt.Sprintf("entry %d is not a table", i)}
		}
		out = append(out, m)
	}
	return out, nil
}
