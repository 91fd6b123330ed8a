// Package applier implements the client-side per-resource appliers (spec
// §6 "Applier contract"). Their internals are explicitly out of the
// spec's core design ("OS plumbing, not design") but the contract
// boundary — apply(Resource) → Result<Applied|NoChange, Error> — is
// exercised end-to-end by the scheduler.
package applier

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/pullconf/pullconf/internal/assets"
	"github.com/pullconf/pullconf/internal/perr"
	"github.com/pullconf/pullconf/internal/wire"
)

// Status is the applier's report of what it did.
type Status int

const (
	Applied Status = iota
	NoChange
)

func (s Status) String() string {
	if s == Applied {
		return "applied"
	}
	return "no-change"
}

// Runner executes external commands. Its default implementation shells
// out via os/exec; tests substitute a fake to avoid touching the host.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner is the production Runner, backed by os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("%s %v: %w: %s", name, args, err, out)
	}
	return out, nil
}

// Dispatcher routes a wire.Resource to its kind-specific applier.
type Dispatcher struct {
	Run    Runner
	Assets *assets.Root
}

// NewDispatcher builds a Dispatcher with the production Runner.
func NewDispatcher(assetRoot *assets.Root) *Dispatcher {
	return &Dispatcher{Run: ExecRunner{}, Assets: assetRoot}
}

// Apply dispatches r to its kind-specific applier function. Any failure
// is wrapped as a *perr.ApplyError so the scheduler and its callers see
// the same taxonomy the server side uses (spec §7), regardless of which
// kind produced it.
func (d *Dispatcher) Apply(ctx context.Context, r wire.Resource) (Status, error) {
	status, err := d.dispatch(ctx, r)
	if err != nil {
		return status, &perr.ApplyError{Identity: r.ID.Kind + ":" + r.ID.Key, Err: err}
	}
	return status, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, r wire.Resource) (Status, error) {
	switch r.ID.Kind {
	case "file":
		return d.applyFile(ctx, r)
	case "directory":
		return d.applyDirectory(ctx, r)
	case "symlink":
		return d.applySymlink(ctx, r)
	case "host":
		return d.applyHost(ctx, r)
	case "user":
		return d.applyUser(ctx, r)
	case "group":
		return d.applyGroup(ctx, r)
	case "apt::package":
		return d.applyAptPackage(ctx, r)
	case "apt::preference":
		return d.applyAptPreference(ctx, r)
	case "cron::job":
		return d.applyCronJob(ctx, r)
	case "resolv.conf":
		return d.applyResolvConf(ctx, r)
	default:
		return NoChange, fmt.Errorf("no applier registered for kind %q", r.ID.Kind)
	}
}

func attrString(r wire.Resource, key string) string {
	s, _ := r.Attributes[key].(string)
	return s
}

func attrBool(r wire.Resource, key string) bool {
	b, _ := r.Attributes[key].(bool)
	return b
}

func attrStringSlice(r wire.Resource, key string) []string {
	v, ok := r.Attributes[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(v))
	for _, e := range v {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func attrInt(r wire.Resource, key string) int {
	switch n := r.Attributes[key].(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}
