// Package catalog implements the catalog assembler (spec §4.D) and the
// hot-swappable catalog store (spec §4.G): for each client, it unions the
// client's own resources with those inherited from its groups, applies
// client-wins precedence, and publishes the result behind an atomically
// swapped snapshot.
package catalog

import (
	"fmt"
	"sort"

	"github.com/pullconf/pullconf/internal/config"
	"github.com/pullconf/pullconf/internal/depgraph"
	"github.com/pullconf/pullconf/internal/perr"
	"github.com/pullconf/pullconf/internal/resource"
	"github.com/pullconf/pullconf/internal/variables"
)

// Catalog is one client's fully validated, dependency-ordered set of
// resources — the unit the store publishes and the API serves.
type Catalog struct {
	Hostname   string
	APIKeyHash string
	Graph      *depgraph.Graph
}

// Resources returns the catalog's resources in arena order.
func (c *Catalog) Resources() []resource.Resource { return c.Graph.Arena().All() }

// Assemble builds one client's catalog from its raw document and its
// resolved groups (spec §4.D then §4.E/§4.F via depgraph.Build).
func Assemble(client config.RawClient, groups map[string]config.RawGroup) (*Catalog, error) {
	hash, err := client.APIKeyHash()
	if err != nil {
		return nil, err
	}
	vars, err := client.Variables()
	if err != nil {
		return nil, err
	}
	resolver := variables.New(vars, map[string]any{"hostname": client.Hostname})

	clientResources, err := parseAll(client.File, client.Doc, resolver, resource.LevelClient)
	if err != nil {
		return nil, err
	}
	clientByKey := make(map[string]resource.Resource, len(clientResources))
	for _, r := range clientResources {
		key := uniquenessKey(r)
		if _, dup := clientByKey[key]; dup {
			return nil, &perr.CompositionError{Client: client.Hostname, Reason: "duplicate identity within client document", Keys: []string{key}}
		}
		clientByKey[key] = r
	}

	groupNames, err := client.GroupNames()
	if err != nil {
		return nil, err
	}

	type groupHit struct {
		group string
		res   resource.Resource
	}
	hits := make(map[string][]groupHit)
	for _, gname := range groupNames {
		g, ok := groups[gname]
		if !ok {
			return nil, &perr.CompositionError{Client: client.Hostname, Reason: fmt.Sprintf("references unknown group %q", gname)}
		}
		grpResources, err := parseAll(g.File, g.Doc, resolver, resource.LevelGroup)
		if err != nil {
			return nil, err
		}
		for _, r := range grpResources {
			key := uniquenessKey(r)
			hits[key] = append(hits[key], groupHit{group: gname, res: r})
		}
	}

	final := make([]resource.Resource, 0, len(clientResources))
	final = append(final, clientResources...)

	keys := make([]string, 0, len(hits))
	for k := range hits {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if _, winsAtClient := clientByKey[key]; winsAtClient {
			continue // client copy wins; all group copies dropped
		}
		entries := hits[key]
		if len(entries) > 1 {
			groupsInvolved := make([]string, 0, len(entries))
			for _, e := range entries {
				groupsInvolved = append(groupsInvolved, e.group)
			}
			return nil, &perr.CompositionError{
				Client: client.Hostname,
				Reason: fmt.Sprintf("identity %q collides across groups %v", key, groupsInvolved),
				Keys:   []string{key},
			}
		}
		final = append(final, entries[0].res)
	}

	if err := checkSingletonFileConflicts(client.Hostname, final); err != nil {
		return nil, err
	}

	arena := depgraph.NewArena(final)
	graph, err := depgraph.Build(client.Hostname, arena)
	if err != nil {
		return nil, err
	}

	return &Catalog{Hostname: client.Hostname, APIKeyHash: hash, Graph: graph}, nil
}

func parseAll(file string, doc map[string]any, resolver *variables.Resolver, level resource.Level) ([]resource.Resource, error) {
	raw, err := config.Resources(file, doc)
	if err != nil {
		return nil, err
	}
	out := make([]resource.Resource, 0, len(raw))
	for i, tree := range raw {
		resolved, err := resolver.ResolveTree(tree)
		if err != nil {
			return nil, &perr.ConfigError{File: file, Reason: err.Error()}
		}
		r, err := resource.Parse(resolved, file, level, i)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// checkSingletonFileConflicts enforces spec §3 invariant 7: a resolv.conf
// resource together with a file/symlink at /etc/resolv.conf that itself
// carries content or source is a conflict, and likewise for host/hosts.
func checkSingletonFileConflicts(client string, resources []resource.Resource) error {
	var hasHost, hasResolvConf bool
	for _, r := range resources {
		switch r.(type) {
		case *resource.Host:
			hasHost = true
		case *resource.ResolvConf:
			hasResolvConf = true
		}
	}
	for _, r := range resources {
		switch v := r.(type) {
		case *resource.File:
			if hasHost && v.Path == "/etc/hosts" && (v.Content != nil || v.Source != nil) {
				return &perr.CompositionError{Client: client, Reason: "a host resource is present alongside a /etc/hosts file carrying content or source"}
			}
			if hasResolvConf && v.Path == "/etc/resolv.conf" && (v.Content != nil || v.Source != nil) {
				return &perr.CompositionError{Client: client, Reason: "a resolv.conf resource is present alongside a /etc/resolv.conf file carrying content or source"}
			}
		}
	}
	return nil
}
