package catalog

import "github.com/pullconf/pullconf/internal/resource"

// uniquenessKey returns the identity namespace a resource occupies for
// duplicate detection (spec §3 invariants 1-4). file, directory, and
// symlink share one namespace keyed by path; every other kind uses its
// own Identity() string, which already segregates by kind.
func uniquenessKey(r resource.Resource) string {
	switch v := r.(type) {
	case *resource.File:
		return "path:" + v.Path
	case *resource.Directory:
		return "path:" + v.Path
	case *resource.Symlink:
		return "path:" + v.Path
	default:
		return r.Identity().String()
	}
}
