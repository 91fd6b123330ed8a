package resource

import (
	"fmt"

	"github.com/pullconf/pullconf/internal/perr"
)

// fieldError builds a ConfigError for a single malformed field. file and
// key are filled in by the caller (resource parse functions) once known.
func fieldError(file, key, field, reason string) error {
	return &perr.ConfigError{File: file, Resource: key, Field: field, Reason: reason}
}

// typeMismatch reports that a resolved value's Go type disagrees with a
// parameter's declared shape (spec §4.B TypeMismatch).
func typeMismatch(file, key, field, want string, got any) error {
	return &perr.ConfigError{
		File: file, Resource: key, Field: field,
		Reason: fmt.Sprintf("type mismatch: expected %s, got %T", want, got),
	}
}

func getString(tree map[string]any, file, key, field string, required bool) (string, error) {
	v, ok := tree[field]
	if !ok {
		if required {
			return "", fieldError(file, key, field, "missing required field")
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", typeMismatch(file, key, field, "string", v)
	}
	return s, nil
}

func getStringDefault(tree map[string]any, file, key, field, def string) (string, error) {
	v, ok := tree[field]
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", typeMismatch(file, key, field, "string", v)
	}
	return s, nil
}

func getBoolDefault(tree map[string]any, file, key, field string, def bool) (bool, error) {
	v, ok := tree[field]
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, typeMismatch(file, key, field, "bool", v)
	}
	return b, nil
}

// getInt accepts both int64 (TOML integers decode to int64) and float64
// (defensive, in case of a permissive decoder), returning ok=false only
// when the field is genuinely absent.
func getInt(tree map[string]any, file, key, field string) (int, bool, error) {
	v, ok := tree[field]
	if !ok {
		return 0, false, nil
	}
	switch n := v.(type) {
	case int64:
		return int(n), true, nil
	case int:
		return n, true, nil
	case float64:
		return int(n), true, nil
	default:
		return 0, false, typeMismatch(file, key, field, "integer", v)
	}
}

func getStringSlice(tree map[string]any, file, key, field string) ([]string, error) {
	v, ok := tree[field]
	if !ok {
		return nil, nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, typeMismatch(file, key, field, "array", v)
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		s, ok := e.(string)
		if !ok {
			return nil, typeMismatch(file, key, field, "array of string", v)
		}
		out = append(out, s)
	}
	return out, nil
}

// getRequires parses the `requires` meta-parameter into a Ref list. Each
// entry must be a table with a "type" string and the primary field for
// that type (none for singleton kinds); other keys are ignored.
func getRequires(tree map[string]any, file, key string) ([]Ref, error) {
	v, ok := tree["requires"]
	if !ok {
		return nil, nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, typeMismatch(file, key, "requires", "array", v)
	}
	out := make([]Ref, 0, len(arr))
	for i, e := range arr {
		m, ok := e.(map[string]any)
		if !ok {
			return nil, fieldError(file, key, "requires", fmt.Sprintf("entry %d is not a table", i))
		}
		typ, ok := m["type"].(string)
		if !ok || typ == "" {
			return nil, fieldError(file, key, "requires", fmt.Sprintf("entry %d missing \"type\"", i))
		}
		kind := Kind(typ)
		field, ok := primaryField[kind]
		if !ok {
			return nil, fieldError(file, key, "requires", fmt.Sprintf("entry %d has unknown type %q", i, typ))
		}
		var refKey string
		if field == "" {
			refKey = singletonKey
		} else {
			s, ok := m[field].(string)
			if !ok || s == "" {
				return nil, fieldError(file, key, "requires", fmt.Sprintf("entry %d missing %q", i, field))
			}
			refKey = s
		}
		out = append(out, Ref{Kind: kind, Key: refKey})
	}
	return out, nil
}

// primaryField names the field that holds each kind's primary parameter,
// used both to compute a resource's own identity key and to resolve
// `requires` references pointing at it. Singleton kinds map to "".
var primaryField = map[Kind]string{
	KindFile:          "path",
	KindDirectory:     "path",
	KindSymlink:       "path",
	KindHost:          "ip_address",
	KindUser:          "name",
	KindGroup:         "name",
	KindAptPackage:    "name",
	KindAptPreference: "name",
	KindCronJob:       "name",
	KindResolvConf:    "",
}
