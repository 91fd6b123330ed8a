package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadClientsAndGroups(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "clients"), "web-1.toml", `
api_key_hash = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
groups = ["common"]

[variables]
role = "web"

[[resources]]
type = "directory"
path = "/srv/app"
`)
	writeFile(t, filepath.Join(root, "clients"), "notes.txt", "ignore me")
	writeFile(t, filepath.Join(root, "clients"), ".hidden.toml", "ignore me too")
	writeFile(t, filepath.Join(root, "groups"), "common.toml", `
[[resources]]
type = "file"
path = "/etc/motd"
content = "hello"
`)

	clients, groups, err := Load(root)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	require.Len(t, groups, 1)

	assert.Equal(t, "web-1", clients[0].Hostname)
	hash, err := clients[0].APIKeyHash()
	require.NoError(t, err)
	assert.Len(t, hash, 64)

	names, err := clients[0].GroupNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"common"}, names)

	vars, err := clients[0].Variables()
	require.NoError(t, err)
	assert.Equal(t, "web", vars["role"])

	res, err := Resources(clients[0].File, clients[0].Doc)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "directory", res[0]["type"])

	assert.Equal(t, "common", groups[0].Name)
}

func TestLoadRejectsUnknownTopLevelKey(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "clients"), "web-1.toml", `
api_key_hash = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
bogus = true
`)
	_, _, err := Load(root)
	assert.Error(t, err)
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "clients"), "web-1.toml", "not = [valid")
	_, _, err := Load(root)
	assert.Error(t, err)
}

func TestLoadMissingDirsIsEmptyNotError(t *testing.T) {
	root := t.TempDir()
	clients, groups, err := Load(root)
	require.NoError(t, err)
	assert.Empty(t, clients)
	assert.Empty(t, groups)
}
