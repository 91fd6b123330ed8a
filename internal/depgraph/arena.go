// Package depgraph implements the dependency inferencer and cycle checker
// (spec §4.E, §4.F). Resources are addressed by dense integer index into
// an arena rather than by pointer, so edge sets can be represented as
// roaring.Bitmap over indices instead of map[resource.ID]struct{} — an
// index-plus-bitmap shape applied to resource-to-resource edges (spec
// Design Notes, "cyclic object graphs").
package depgraph

import "github.com/pullconf/pullconf/internal/resource"

// Arena assigns each resource in a catalog a stable, dense integer index
// and holds the reverse mapping back to its identity and value.
type Arena struct {
	ids    []resource.ID
	byID   map[resource.ID]int
	values []resource.Resource
}

// NewArena builds an arena over resources, in the order given. Order is
// preserved in ids/values so callers that need deterministic iteration
// (e.g. the assembler, which already sorted its candidate list) get it
// for free.
func NewArena(resources []resource.Resource) *Arena {
	a := &Arena{
		byID:   make(map[resource.ID]int, len(resources)),
		ids:    make([]resource.ID, len(resources)),
		values: make([]resource.Resource, len(resources)),
	}
	for i, r := range resources {
		id := r.Identity()
		a.byID[id] = i
		a.ids[i] = id
		a.values[i] = r
	}
	return a
}

// Len returns the number of resources in the arena.
func (a *Arena) Len() int { return len(a.ids) }

// Index returns the dense index for id, or ok=false if id is not present.
func (a *Arena) Index(id resource.ID) (int, bool) {
	i, ok := a.byID[id]
	return i, ok
}

// ID returns the identity at index i.
func (a *Arena) ID(i int) resource.ID { return a.ids[i] }

// Resource returns the resource value at index i.
func (a *Arena) Resource(i int) resource.Resource { return a.values[i] }

// All returns every resource in arena order.
func (a *Arena) All() []resource.Resource { return a.values }
