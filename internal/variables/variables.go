// Package variables implements pullconf's variable resolver (spec §4.B):
// whole-value substitution of $pullconf::NAME references across a resource
// parameter tree, with cycle detection and reserved names.
//
// Resolution operates on the generic value tree produced by the TOML
// decoder (map[string]any / []any / string / int64 / bool) — the same
// representation the resource parser later typechecks against its
// per-field expectations (see internal/resource), keeping this package
// kind-agnostic per the design notes in SPEC_FULL.md.
package variables

import (
	"fmt"
	"strings"
)

const refPrefix = "$pullconf::"

// metaParameters are exempt from expansion: references inside them are
// copied verbatim, never substituted.
var metaParameters = map[string]bool{
	"type":     true,
	"requires": true,
}

// UnknownVariableError is returned when a $pullconf::K reference names a
// variable absent from both the reserved map and the client's variables.
type UnknownVariableError struct{ Name string }

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("unknown variable %q", e.Name)
}

// CycleError is returned when resolving a variable revisits a name whose
// resolution is already in progress.
type CycleError struct{ Chain []string }

func (e *CycleError) Error() string {
	return fmt.Sprintf("variable cycle: %s", strings.Join(e.Chain, " -> "))
}

// Resolver resolves $pullconf:: references against one client's variable
// bindings plus a fixed set of reserved names (currently just "hostname").
type Resolver struct {
	vars     map[string]any
	reserved map[string]any
	resolved map[string]any
	stack    []string
	inFlight map[string]bool
}

// New builds a Resolver for one client. reserved typically contains
// {"hostname": <client-basename>}.
func New(vars map[string]any, reserved map[string]any) *Resolver {
	return &Resolver{
		vars:     vars,
		reserved: reserved,
		resolved: make(map[string]any),
		inFlight: make(map[string]bool),
	}
}

// ParseRef reports whether s is exactly a $pullconf:: reference and, if so,
// the variable name it names. A partial match like "prefix$pullconf::x" is
// not a reference — it's returned as an opaque literal string elsewhere.
func ParseRef(s string) (name string, ok bool) {
	if !strings.HasPrefix(s, refPrefix) {
		return "", false
	}
	return s[len(refPrefix):], true
}

// ResolveTree substitutes references within a parameter tree. Top-level
// keys named in metaParameters are copied without expansion; everything
// else is resolved recursively.
func (r *Resolver) ResolveTree(tree map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(tree))
	for k, v := range tree {
		if metaParameters[k] {
			out[k] = v
			continue
		}
		rv, err := r.resolveValue(v)
		if err != nil {
			return nil, err
		}
		out[k] = rv
	}
	return out, nil
}

func (r *Resolver) resolveValue(v any) (any, error) {
	switch t := v.(type) {
	case string:
		if name, ok := ParseRef(t); ok {
			return r.resolveVariable(name)
		}
		return t, nil
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			rv, err := r.resolveValue(e)
			if err != nil {
				return nil, err
			}
			out[i] = rv
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			rv, err := r.resolveValue(e)
			if err != nil {
				return nil, err
			}
			out[k] = rv
		}
		return out, nil
	default:
		return v, nil
	}
}

// resolveVariable resolves a single named variable, memoizing the result
// and detecting cycles through the in-progress stack.
func (r *Resolver) resolveVariable(name string) (any, error) {
	if v, ok := r.resolved[name]; ok {
		return v, nil
	}
	if r.inFlight[name] {
		return nil, &CycleError{Chain: append(append([]string{}, r.stack...), name)}
	}

	raw, ok := r.reserved[name]
	if !ok {
		raw, ok = r.vars[name]
	}
	if !ok {
		return nil, &UnknownVariableError{Name: name}
	}

	r.inFlight[name] = true
	r.stack = append(r.stack, name)
	resolvedVal, err := r.resolveValue(raw)
	r.stack = r.stack[:len(r.stack)-1]
	delete(r.inFlight, name)
	if err != nil {
		return nil, err
	}

	r.resolved[name] = resolvedVal
	return resolvedVal, nil
}
