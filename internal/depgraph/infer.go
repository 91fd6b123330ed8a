package depgraph

import "github.com/pullconf/pullconf/internal/resource"

// pathOf returns the filesystem path a resource occupies, for kinds whose
// identity or fixed location participates in ancestry inference (spec
// §4.E bullets 1 and 5 collapse to the same rule: any path-bearing
// resource depends on directory/symlink ancestors of its own path).
func pathOf(r resource.Resource) (string, bool) {
	switch v := r.(type) {
	case *resource.File:
		return v.Path, true
	case *resource.Directory:
		return v.Path, true
	case *resource.Symlink:
		return v.Path, true
	case *resource.AptPreference:
		return v.Path(), true
	case *resource.CronJob:
		return v.Path(), true
	default:
		return "", false
	}
}

// isDirLike reports whether a resource can serve as a filesystem ancestor
// (only directories and symlinks — a symlink may point into a directory
// tree that other resources traverse through).
func isDirLike(r resource.Resource) bool {
	switch r.(type) {
	case *resource.Directory, *resource.Symlink:
		return true
	default:
		return false
	}
}

// inferImplicit computes the implicit edge set for every resource in the
// arena (spec §4.E) and the purge-children map for directories with
// purge=true. It never fails: unresolvable implicit targets simply
// produce no edge, since implicit rules only fire when the target
// resource actually exists in the catalog.
func inferImplicit(a *Arena) (edges []*bitmapSet, purgeChildren map[int][]resource.ID) {
	edges = make([]*bitmapSet, a.Len())
	for i := range edges {
		edges[i] = newBitmapSet()
	}
	purgeChildren = make(map[int][]resource.ID)

	var etcHosts, etcResolvConf = -1, -1
	for i := 0; i < a.Len(); i++ {
		if p, ok := pathOf(a.Resource(i)); ok && isDirLike(a.Resource(i)) {
			switch p {
			case "/etc/hosts":
				etcHosts = i
			case "/etc/resolv.conf":
				etcResolvConf = i
			}
		}
		// file/symlink resources at these paths also count (spec invariant 7
		// forbids a resolv.conf+content/source combination, but a bare
		// present/absent file entry at that path is still a valid singleton).
		if p, ok := pathOf(a.Resource(i)); ok {
			switch p {
			case "/etc/hosts":
				if etcHosts == -1 {
					etcHosts = i
				}
			case "/etc/resolv.conf":
				if etcResolvConf == -1 {
					etcResolvConf = i
				}
			}
		}
	}

	for i := 0; i < a.Len(); i++ {
		r := a.Resource(i)

		// Filesystem ancestry: depend on every directory/symlink whose path
		// is a proper ancestor of this resource's own path.
		if p, ok := pathOf(r); ok {
			for j := 0; j < a.Len(); j++ {
				if i == j || !isDirLike(a.Resource(j)) {
					continue
				}
				if q, ok := pathOf(a.Resource(j)); ok && resource.AncestorOf(q, p) {
					edges[i].Add(j)
				}
			}
		}

		switch v := r.(type) {
		case *resource.User:
			for _, gname := range v.Groups {
				if j, ok := a.Index(resource.ID{Kind: resource.KindGroup, Key: gname}); ok {
					edges[i].Add(j)
				}
			}
		case *resource.Group:
			for j := 0; j < a.Len(); j++ {
				if u, ok := a.Resource(j).(*resource.User); ok && u.PrimaryGroup == v.Name {
					edges[i].Add(j)
				}
			}
		case *resource.Host:
			if etcHosts != -1 {
				edges[i].Add(etcHosts)
			}
		case *resource.ResolvConf:
			if etcResolvConf != -1 {
				edges[i].Add(etcResolvConf)
			}
		}

		if d, ok := r.(*resource.Directory); ok && d.Purge {
			var children []resource.ID
			for j := 0; j < a.Len(); j++ {
				if j == i {
					continue
				}
				if p, ok := pathOf(a.Resource(j)); ok && resource.ParentOf(d.Path, p) {
					children = append(children, a.ID(j))
				}
			}
			purgeChildren[i] = children
		}
	}

	return edges, purgeChildren
}
