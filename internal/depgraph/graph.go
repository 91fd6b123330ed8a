package depgraph

import (
	"fmt"

	"github.com/pullconf/pullconf/internal/perr"
	"github.com/pullconf/pullconf/internal/resource"
)

// Graph is a validated dependency graph over one client's candidate
// catalog: a DAG whose edges are the union of explicit `requires` and
// the implicit rules of spec §4.E.
type Graph struct {
	arena         *Arena
	explicit      []*bitmapSet
	implicit      []*bitmapSet
	purgeChildren map[int][]resource.ID
}

// Build resolves explicit requires, infers implicit edges, and checks the
// result for cycles and illogical edges (spec §4.E, §4.F). client names
// the client the resources belong to, for error messages only.
func Build(client string, a *Arena) (*Graph, error) {
	explicit := make([]*bitmapSet, a.Len())
	for i := 0; i < a.Len(); i++ {
		explicit[i] = newBitmapSet()
		r := a.Resource(i)
		for _, ref := range r.Explicit() {
			j, ok := a.Index(ref)
			if !ok {
				return nil, &perr.CompositionError{
					Client: client,
					Reason: fmt.Sprintf("resource %s requires %s, which does not exist in this catalog", a.ID(i), ref),
				}
			}
			explicit[i].Add(j)
		}
	}

	implicit, purgeChildren := inferImplicit(a)

	g := &Graph{arena: a, explicit: explicit, implicit: implicit, purgeChildren: purgeChildren}

	if cycle := g.findCycle(); cycle != nil {
		return nil, &perr.GraphError{Client: client, Reason: "dependency cycle", Cycle: cycle}
	}
	if err := g.checkIllogicalEdges(client); err != nil {
		return nil, err
	}
	return g, nil
}

// Arena exposes the underlying arena for callers that need to map
// indices back to resources (the scheduler, the wire encoder).
func (g *Graph) Arena() *Arena { return g.arena }

// Dependencies returns the indices resource i directly depends on
// (explicit ∪ implicit).
func (g *Graph) Dependencies(i int) []int {
	all := g.explicit[i].Clone()
	all.Or(g.implicit[i])
	return all.Items()
}

// ExplicitDependencies returns only the resolved `requires` edges of i.
func (g *Graph) ExplicitDependencies(i int) []int { return g.explicit[i].Items() }

// ImplicitDependencies returns only the inferred edges of i.
func (g *Graph) ImplicitDependencies(i int) []int { return g.implicit[i].Items() }

// PurgeChildren returns the managed immediate children of a purge=true
// directory at index i, or nil if i is not such a directory.
func (g *Graph) PurgeChildren(i int) []resource.ID { return g.purgeChildren[i] }
