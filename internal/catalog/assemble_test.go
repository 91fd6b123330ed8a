package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeToml(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

const validHash = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

func TestGroupPrecedence(t *testing.T) {
	root := t.TempDir()
	writeToml(t, filepath.Join(root, "clients"), "h.toml", `
api_key_hash = "`+validHash+`"
groups = ["common"]

[[resources]]
type = "file"
path = "/etc/motd"
content = "client"
`)
	writeToml(t, filepath.Join(root, "groups"), "common.toml", `
[[resources]]
type = "file"
path = "/etc/motd"
content = "group"
`)

	catalogs, err := Compile(root)
	require.NoError(t, err)
	require.Len(t, catalogs, 1)
	require.Len(t, catalogs[0].Resources(), 1)

	f := catalogs[0].Resources()[0]
	assert.Equal(t, "/etc/motd", f.Identity().Key)
}

func TestVariableSubstitutionComplexType(t *testing.T) {
	root := t.TempDir()
	writeToml(t, filepath.Join(root, "clients"), "h.toml", `
api_key_hash = "`+validHash+`"

[variables]
x = "b"
aliases = ["a", "$pullconf::x"]

[[resources]]
type = "host"
ip_address = "10.0.0.1"
hostname = "svc"
aliases = "$pullconf::aliases"
`)
	catalogs, err := Compile(root)
	require.NoError(t, err)
	require.Len(t, catalogs, 1)
}

func TestCrossFileConflictHostsFile(t *testing.T) {
	root := t.TempDir()
	writeToml(t, filepath.Join(root, "clients"), "h.toml", `
api_key_hash = "`+validHash+`"

[[resources]]
type = "file"
path = "/etc/hosts"
content = "1.2.3.4 x"

[[resources]]
type = "host"
ip_address = "1.2.3.4"
hostname = "x"
`)
	_, err := Compile(root)
	assert.Error(t, err)
}

func TestDuplicateWithinClientFails(t *testing.T) {
	root := t.TempDir()
	writeToml(t, filepath.Join(root, "clients"), "h.toml", `
api_key_hash = "`+validHash+`"

[[resources]]
type = "directory"
path = "/srv"

[[resources]]
type = "directory"
path = "/srv"
`)
	_, err := Compile(root)
	assert.Error(t, err)
}

func TestGroupCollisionAcrossGroupsFails(t *testing.T) {
	root := t.TempDir()
	writeToml(t, filepath.Join(root, "clients"), "h.toml", `
api_key_hash = "`+validHash+`"
groups = ["g1", "g2"]
`)
	writeToml(t, filepath.Join(root, "groups"), "g1.toml", `
[[resources]]
type = "directory"
path = "/srv"
`)
	writeToml(t, filepath.Join(root, "groups"), "g2.toml", `
[[resources]]
type = "directory"
path = "/srv"
`)
	_, err := Compile(root)
	assert.Error(t, err)
}

func TestUnknownGroupReferenceFails(t *testing.T) {
	root := t.TempDir()
	writeToml(t, filepath.Join(root, "clients"), "h.toml", `
api_key_hash = "`+validHash+`"
groups = ["nope"]
`)
	_, err := Compile(root)
	assert.Error(t, err)
}

func TestCompileFailsWholeReloadOnOneBadClient(t *testing.T) {
	root := t.TempDir()
	writeToml(t, filepath.Join(root, "clients"), "good.toml", `
api_key_hash = "`+validHash+`"
`)
	writeToml(t, filepath.Join(root, "clients"), "bad.toml", `
api_key_hash = "not-a-valid-hash"
`)
	_, err := Compile(root)
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Len(t, ce.Failures, 1)
}

func TestStoreSwapAndGet(t *testing.T) {
	root := t.TempDir()
	writeToml(t, filepath.Join(root, "clients"), "h.toml", `
api_key_hash = "`+validHash+`"
`)
	catalogs, err := Compile(root)
	require.NoError(t, err)

	store := NewStore()
	_, ok := store.Get("h")
	assert.False(t, ok)

	store.Swap(catalogs)
	c, ok := store.Get("h")
	require.True(t, ok)
	assert.Equal(t, "h", c.Hostname)
}
