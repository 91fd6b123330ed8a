// Package perr defines pullconf's error taxonomy (spec §7): typed errors
// that carry enough structured context — file, resource, field, identity
// keys — for the loader, assembler, and dependency engine to report
// meaningful diagnostics, while still composing with errors.Is/As.
package perr

import "fmt"

// ConfigError reports a malformed or invalid on-disk resource document:
// bad TOML, unknown fields, out-of-range values, malformed paths/modes.
// Fails the reload of the single offending file (spec §4.A).
type ConfigError struct {
	File     string // path of the client/group document, e.g. ".../clients/web1.toml"
	Resource string // resource identity key or index, if applicable
	Field    string
	Reason   string
	Err      error
}

func (e *ConfigError) Error() string {
	s := fmt.Sprintf("config error in %s", e.File)
	if e.Resource != "" {
		s += fmt.Sprintf(" resource %s", e.Resource)
	}
	if e.Field != "" {
		s += fmt.Sprintf(" field %q", e.Field)
	}
	s += ": " + e.Reason
	return s
}

func (e *ConfigError) Unwrap() error { return e.Err }

// CompositionError reports duplicate identities, cross-kind path
// collisions, or unresolved explicit requires within one client's
// candidate catalog (spec §4.D). Fails the affected client only.
type CompositionError struct {
	Client string
	Reason string
	Keys   []string // identity keys involved
}

func (e *CompositionError) Error() string {
	if len(e.Keys) > 0 {
		return fmt.Sprintf("composition error for client %s: %s (%v)", e.Client, e.Reason, e.Keys)
	}
	return fmt.Sprintf("composition error for client %s: %s", e.Client, e.Reason)
}

// GraphError reports a dependency cycle or an illogical explicit edge
// (spec §4.F). Fails the affected client.
type GraphError struct {
	Client string
	Reason string
	Cycle  []string // identity keys participating in a cycle, if any
}

func (e *GraphError) Error() string {
	if len(e.Cycle) > 0 {
		return fmt.Sprintf("graph error for client %s: %s: cycle %v", e.Client, e.Reason, e.Cycle)
	}
	return fmt.Sprintf("graph error for client %s: %s", e.Client, e.Reason)
}

// AuthError reports missing/invalid credentials or a client/hostname
// mismatch at the API surface (spec §4.H). Never carries catalog detail.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string { return "auth error: " + e.Reason }

// NotFoundError reports a missing client or asset.
type NotFoundError struct {
	Kind string // "client" or "asset"
	ID   string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s not found: %s", e.Kind, e.ID) }

// ApplyError reports a client-side applier failure for one resource. It
// propagates only to the resource's transitive dependents, which the
// scheduler marks Skipped rather than Failed (spec §4.I, §7).
type ApplyError struct {
	Identity string
	Err      error
}

func (e *ApplyError) Error() string { return fmt.Sprintf("apply error for %s: %v", e.Identity, e.Err) }

func (e *ApplyError) Unwrap() error { return e.Err }
