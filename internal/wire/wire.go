// Package wire implements the catalog JSON wire format frozen by spec
// §6 and SPEC_FULL.md §6 (Open Question: exact shape was previously
// unpinned in the source material).
package wire

import (
	"encoding/json"

	"github.com/pullconf/pullconf/internal/catalog"
	"github.com/pullconf/pullconf/internal/resource"
)

// ID is the wire form of a resource identity.
type ID struct {
	Kind string `json:"kind"`
	Key  string `json:"key"`
}

func idOf(id resource.ID) ID { return ID{Kind: string(id.Kind), Key: id.Key} }

// Resource is the wire form of one catalog entry.
type Resource struct {
	ID               ID             `json:"id"`
	Attributes       map[string]any `json:"attributes"`
	Requires         []ID           `json:"requires"`
	ImplicitRequires []ID           `json:"implicit_requires"`
	PurgeChildren    []string       `json:"purge_children,omitempty"`
}

// Catalog is the wire form of a full client catalog.
type Catalog struct {
	Resources []Resource `json:"resources"`
}

// Encode renders a compiled catalog into its wire form.
func Encode(c *catalog.Catalog) *Catalog {
	arena := c.Graph.Arena()
	out := &Catalog{Resources: make([]Resource, 0, arena.Len())}
	for i := 0; i < arena.Len(); i++ {
		r := arena.Resource(i)

		explicit := make([]ID, 0, len(c.Graph.ExplicitDependencies(i)))
		for _, j := range c.Graph.ExplicitDependencies(i) {
			explicit = append(explicit, idOf(arena.ID(j)))
		}
		implicit := make([]ID, 0, len(c.Graph.ImplicitDependencies(i)))
		for _, j := range c.Graph.ImplicitDependencies(i) {
			implicit = append(implicit, idOf(arena.ID(j)))
		}
		var purge []string
		for _, id := range c.Graph.PurgeChildren(i) {
			purge = append(purge, id.String())
		}

		out.Resources = append(out.Resources, Resource{
			ID:               idOf(r.Identity()),
			Attributes:       attributesOf(r),
			Requires:         explicit,
			ImplicitRequires: implicit,
			PurgeChildren:    purge,
		})
	}
	return out
}

// MarshalJSON is a convenience wrapper for handlers that just need bytes.
func MarshalJSON(c *catalog.Catalog) ([]byte, error) {
	return json.Marshal(Encode(c))
}
