package depgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pullconf/pullconf/internal/resource"
)

func mustParse(t *testing.T, tree map[string]any) resource.Resource {
	t.Helper()
	r, err := resource.Parse(tree, "test.toml", resource.LevelClient, 0)
	require.NoError(t, err)
	return r
}

func TestAncestryInference(t *testing.T) {
	a := mustParse(t, map[string]any{"type": "directory", "path": "/a"})
	b := mustParse(t, map[string]any{"type": "directory", "path": "/a/b"})
	c := mustParse(t, map[string]any{"type": "file", "path": "/a/b/c", "content": "x"})

	arena := NewArena([]resource.Resource{a, b, c})
	g, err := Build("h", arena)
	require.NoError(t, err)

	ia, _ := arena.Index(a.Identity())
	ib, _ := arena.Index(b.Identity())
	ic, _ := arena.Index(c.Identity())

	assert.Empty(t, g.Dependencies(ia))
	assert.Equal(t, []int{ia}, g.Dependencies(ib))
	assert.Equal(t, []int{ia, ib}, g.Dependencies(ic))
}

func TestUserGroupCoupling(t *testing.T) {
	u := mustParse(t, map[string]any{"type": "user", "name": "alice", "groups": []any{"wheel"}})
	grp := mustParse(t, map[string]any{"type": "group", "name": "wheel"})
	primary := mustParse(t, map[string]any{"type": "group", "name": "alice"})

	arena := NewArena([]resource.Resource{u, grp, primary})
	g, err := Build("h", arena)
	require.NoError(t, err)

	iu, _ := arena.Index(u.Identity())
	iwheel, _ := arena.Index(grp.Identity())
	iprimary, _ := arena.Index(primary.Identity())

	assert.Contains(t, g.Dependencies(iu), iwheel)
	assert.Contains(t, g.Dependencies(iprimary), iu)
}

func TestExplicitRequiresUnresolvedFails(t *testing.T) {
	f := mustParse(t, map[string]any{
		"type": "file", "path": "/etc/motd", "content": "hi",
		"requires": []any{map[string]any{"type": "user", "name": "ghost"}},
	})
	arena := NewArena([]resource.Resource{f})
	_, err := Build("h", arena)
	assert.Error(t, err)
}

func TestCycleRejection(t *testing.T) {
	a := mustParse(t, map[string]any{
		"type": "user", "name": "a",
		"requires": []any{map[string]any{"type": "user", "name": "b"}},
	})
	b := mustParse(t, map[string]any{
		"type": "user", "name": "b",
		"requires": []any{map[string]any{"type": "user", "name": "a"}},
	})
	arena := NewArena([]resource.Resource{a, b})
	_, err := Build("h", arena)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestIllogicalEdgeRejected(t *testing.T) {
	parent := mustParse(t, map[string]any{
		"type": "directory", "path": "/a",
		"requires": []any{map[string]any{"type": "directory", "path": "/a/b"}},
	})
	child := mustParse(t, map[string]any{"type": "directory", "path": "/a/b"})
	arena := NewArena([]resource.Resource{parent, child})
	_, err := Build("h", arena)
	assert.Error(t, err)
}

func TestPurgeChildrenTracked(t *testing.T) {
	dir := mustParse(t, map[string]any{"type": "directory", "path": "/srv/app", "purge": true})
	f := mustParse(t, map[string]any{"type": "file", "path": "/srv/app/config.yml", "content": "x"})
	arena := NewArena([]resource.Resource{dir, f})
	g, err := Build("h", arena)
	require.NoError(t, err)

	idir, _ := arena.Index(dir.Identity())
	children := g.PurgeChildren(idir)
	require.Len(t, children, 1)
	assert.Equal(t, f.Identity(), children[0])
}
