package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFile(t *testing.T) {
	tree := map[string]any{
		"type":    "file",
		"path":    "/etc/motd",
		"content": "hello",
		"requires": []any{
			map[string]any{"type": "directory", "path": "/etc"},
		},
	}
	r, err := Parse(tree, "clients/web-1.toml", LevelClient, 0)
	require.NoError(t, err)

	f, ok := r.(*File)
	require.True(t, ok)
	assert.Equal(t, "/etc/motd", f.Path)
	assert.Equal(t, "0644", f.Mode)
	assert.Equal(t, "root", f.Owner)
	assert.Equal(t, EnsurePresent, f.EnsureState())
	require.NotNil(t, f.Content)
	assert.Equal(t, "hello", *f.Content)
	assert.Nil(t, f.Source)

	require.Len(t, f.Explicit(), 1)
	assert.Equal(t, ID{Kind: KindDirectory, Key: "/etc"}, f.Explicit()[0])

	file, level := f.Origin()
	assert.Equal(t, "clients/web-1.toml", file)
	assert.Equal(t, LevelClient, level)
}

func TestParseFileRejectsContentAndSource(t *testing.T) {
	tree := map[string]any{
		"type":    "file",
		"path":    "/etc/motd",
		"content": "hello",
		"source":  "motd.tmpl",
	}
	_, err := Parse(tree, "clients/web-1.toml", LevelClient, 0)
	assert.Error(t, err)
}

func TestParseDirectoryDefaults(t *testing.T) {
	tree := map[string]any{"type": "directory", "path": "/srv/app"}
	r, err := Parse(tree, "f.toml", LevelGroup, 1)
	require.NoError(t, err)
	d := r.(*Directory)
	assert.Equal(t, "0755", d.Mode)
	assert.False(t, d.Purge)
	assert.Equal(t, EnsurePresent, d.EnsureState())
}

func TestParseUserDefaults(t *testing.T) {
	tree := map[string]any{"type": "user", "name": "deploy"}
	r, err := Parse(tree, "f.toml", LevelClient, 0)
	require.NoError(t, err)
	u := r.(*User)
	assert.Equal(t, "deploy", u.PrimaryGroup)
	assert.Equal(t, "/home/deploy", u.Home)
	assert.Equal(t, "/bin/bash", u.Shell)
	assert.Nil(t, u.UID)
	assert.False(t, u.System)
	assert.Equal(t, "!", u.Password)
	assert.Equal(t, "", u.ExpiryDate)
}

func TestParseUserRejectsPrimaryGroupInGroups(t *testing.T) {
	tree := map[string]any{"type": "user", "name": "deploy", "groups": []any{"deploy"}}
	_, err := Parse(tree, "f.toml", LevelClient, 0)
	assert.Error(t, err)
}

func TestParseUserValidatesPassword(t *testing.T) {
	tree := map[string]any{"type": "user", "name": "deploy", "password": "not-a-hash"}
	_, err := Parse(tree, "f.toml", LevelClient, 0)
	assert.Error(t, err)

	tree2 := map[string]any{"type": "user", "name": "deploy", "password": "$6$rounds=5000$abc$def"}
	r, err := Parse(tree2, "f.toml", LevelClient, 0)
	require.NoError(t, err)
	assert.Equal(t, "$6$rounds=5000$abc$def", r.(*User).Password)
}

func TestParseUserValidatesExpiryDate(t *testing.T) {
	tree := map[string]any{"type": "user", "name": "deploy", "expiry_date": "not-a-date"}
	_, err := Parse(tree, "f.toml", LevelClient, 0)
	assert.Error(t, err)

	tree2 := map[string]any{"type": "user", "name": "deploy", "expiry_date": "2027-01-15"}
	r, err := Parse(tree2, "f.toml", LevelClient, 0)
	require.NoError(t, err)
	assert.Equal(t, "2027-01-15", r.(*User).ExpiryDate)
}

func TestParseHostRejectsMoreThanFourAliases(t *testing.T) {
	tree := map[string]any{
		"type":       "host",
		"ip_address": "10.0.0.1",
		"hostname":   "web-1",
		"aliases":    []any{"a", "b", "c", "d", "e"},
	}
	_, err := Parse(tree, "f.toml", LevelClient, 0)
	assert.Error(t, err)
}

func TestParseAptPackageValidatesNameAndVersion(t *testing.T) {
	tree := map[string]any{"type": "apt::package", "name": "a"}
	_, err := Parse(tree, "f.toml", LevelClient, 0)
	assert.Error(t, err)

	tree2 := map[string]any{"type": "apt::package", "name": "nginx", "version": "1:0.0.0-1#"}
	_, err = Parse(tree2, "f.toml", LevelClient, 0)
	assert.Error(t, err)

	tree3 := map[string]any{"type": "apt::package", "name": "nginx", "version": "1:1.18.0-6.1+deb11u3"}
	_, err = Parse(tree3, "f.toml", LevelClient, 0)
	assert.NoError(t, err)
}

func TestParseCronJobValidatesName(t *testing.T) {
	tree := map[string]any{"type": "cron::job", "name": "bad name!", "schedule": "* * * * *", "command": "true"}
	_, err := Parse(tree, "f.toml", LevelClient, 0)
	assert.Error(t, err)

	tree2 := map[string]any{"type": "cron::job", "name": "nightly-backup", "schedule": "* * * * *", "command": "true"}
	_, err = Parse(tree2, "f.toml", LevelClient, 0)
	assert.NoError(t, err)
}

func TestParseHostValidatesFields(t *testing.T) {
	tree := map[string]any{
		"type":       "host",
		"ip_address": "not-an-ip",
		"hostname":   "web-1",
	}
	_, err := Parse(tree, "f.toml", LevelClient, 0)
	assert.Error(t, err)
}

func TestParseAptPackagePurgeOnlyValid(t *testing.T) {
	tree := map[string]any{"type": "apt::package", "name": "nginx", "ensure": "purged"}
	_, err := Parse(tree, "f.toml", LevelClient, 0)
	assert.NoError(t, err)

	tree2 := map[string]any{"type": "directory", "path": "/tmp", "ensure": "purged"}
	_, err = Parse(tree2, "f.toml", LevelClient, 0)
	assert.Error(t, err)
}

func TestParseResolvConfAllowsEmptyNameservers(t *testing.T) {
	tree := map[string]any{"type": "resolv.conf", "nameservers": []any{}}
	r, err := Parse(tree, "f.toml", LevelClient, 0)
	require.NoError(t, err)
	assert.Equal(t, ID{Kind: KindResolvConf, Key: singletonKey}, r.Identity())

	tree2 := map[string]any{"type": "resolv.conf", "nameservers": []any{"1.1.1.1"}}
	r2, err := Parse(tree2, "f.toml", LevelClient, 0)
	require.NoError(t, err)
	assert.Equal(t, ID{Kind: KindResolvConf, Key: singletonKey}, r2.Identity())
}

func TestParseResolvConfValidatesSortlistAndOptions(t *testing.T) {
	tree := map[string]any{"type": "resolv.conf", "sortlist": []any{"not-an-ip"}}
	_, err := Parse(tree, "f.toml", LevelClient, 0)
	assert.Error(t, err)

	tree2 := map[string]any{"type": "resolv.conf", "sortlist": []any{"10.0.0.0/255.255.255.0"}}
	_, err = Parse(tree2, "f.toml", LevelClient, 0)
	assert.NoError(t, err)

	tree3 := map[string]any{"type": "resolv.conf", "options": []any{"bogus-option"}}
	_, err = Parse(tree3, "f.toml", LevelClient, 0)
	assert.Error(t, err)

	tree4 := map[string]any{"type": "resolv.conf", "options": []any{"ndots:5", "rotate"}}
	_, err = Parse(tree4, "f.toml", LevelClient, 0)
	assert.NoError(t, err)
}

func TestParseUnknownType(t *testing.T) {
	tree := map[string]any{"type": "bogus"}
	_, err := Parse(tree, "f.toml", LevelClient, 0)
	assert.Error(t, err)
}

func TestParseMissingType(t *testing.T) {
	tree := map[string]any{"path": "/etc/motd"}
	_, err := Parse(tree, "f.toml", LevelClient, 0)
	assert.Error(t, err)
}

func TestKindPriorityOrdering(t *testing.T) {
	assert.Less(t, KindPriority(KindDirectory), KindPriority(KindFile))
	assert.Less(t, KindPriority(KindFile), KindPriority(KindHost))
	assert.Equal(t, len(AllKinds), KindPriority(Kind("nope")))
}
