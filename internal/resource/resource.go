package resource

// Ref is an explicit dependency reference as written in a `requires`
// entry: {type = "...", <primary-parameter> = "..."}. It is an alias of
// ID; the name marks values not yet proven to resolve to a real resource
// in the same catalog, which depgraph.Build checks (spec §4.E).
type Ref = ID

// Resource is the common interface every kind-specific struct satisfies.
// Parsing and invariant checks live in each kind's own file and are
// reached through Parse's switch on Kind; implicit dependency rules and
// wire attributes are computed by type switches in internal/depgraph and
// internal/wire, not through this interface.
type Resource interface {
	Identity() ID
	EnsureState() Ensure
	// Explicit returns the resource's declared `requires` list, already
	// shaped as IDs (resolution — proving the target exists — happens in
	// the dependency inferencer, not here).
	Explicit() []Ref
	// Origin names which client/group file this resource was declared in
	// and at which level, for error messages and precedence.
	Origin() (file string, level Level)
	setSource(file string, level Level)
}

// base is embedded by every kind-specific resource struct.
type base struct {
	Ensure   Ensure
	Requires []Ref
	file     string
	level    Level
}

func (b *base) EnsureState() Ensure   { return b.Ensure }
func (b *base) Explicit() []Ref       { return b.Requires }
func (b *base) Origin() (string, Level) { return b.file, b.level }
func (b *base) setSource(file string, level Level) {
	b.file = file
	b.level = level
}

// SetSource is called by the loader/assembler once a resource has been
// parsed, recording which file produced it.
func SetSource(r Resource, file string, level Level) {
	r.setSource(file, level)
}
