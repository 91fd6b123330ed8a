package applier

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pullconf/pullconf/internal/wire"
)

type fakeRunner struct {
	calls [][]string
	out   []byte
	err   error
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.out, f.err
}

func currentUserOwnership(t *testing.T) (string, string) {
	t.Helper()
	// deliberately empty: skip chown when no owner/group asserted in a test
	return "", ""
}

func TestApplyFileCreatesAndIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "motd")
	owner, group := currentUserOwnership(t)

	r := wire.Resource{
		ID: wire.ID{Kind: "file", Key: path},
		Attributes: map[string]any{
			"ensure": "present", "mode": "0644", "owner": owner, "group": group, "content": "hello",
		},
	}
	d := &Dispatcher{Run: &fakeRunner{}}

	status, err := d.applyFile(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, Applied, status)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	status, err = d.applyFile(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, NoChange, status)
}

func TestApplyFileAbsentRemoves(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gone")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	r := wire.Resource{ID: wire.ID{Kind: "file", Key: path}, Attributes: map[string]any{"ensure": "absent"}}
	d := &Dispatcher{Run: &fakeRunner{}}
	status, err := d.applyFile(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, Applied, status)

	status, err = d.applyFile(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, NoChange, status)
}

func TestApplyDirectoryCreatesAndPurges(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "app")
	keep := filepath.Join(dir, "keep.txt")
	drop := filepath.Join(dir, "drop.txt")

	r := wire.Resource{
		ID:         wire.ID{Kind: "directory", Key: dir},
		Attributes: map[string]any{"ensure": "present", "mode": "0755", "owner": "", "group": "", "purge": true},
	}
	d := &Dispatcher{Run: &fakeRunner{}}
	status, err := d.applyDirectory(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, Applied, status)

	require.NoError(t, os.WriteFile(keep, []byte("k"), 0o644))
	require.NoError(t, os.WriteFile(drop, []byte("d"), 0o644))

	r.PurgeChildren = []string{"file:" + keep}
	_, err = d.applyDirectory(context.Background(), r)
	require.NoError(t, err)

	_, err = os.Stat(keep)
	assert.NoError(t, err)
	_, err = os.Stat(drop)
	assert.True(t, os.IsNotExist(err))
}

func TestApplySymlinkCreatesAndIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	link := filepath.Join(dir, "cur")
	target := filepath.Join(dir, "target")

	r := wire.Resource{
		ID:         wire.ID{Kind: "symlink", Key: link},
		Attributes: map[string]any{"ensure": "present", "target": target},
	}
	d := &Dispatcher{Run: &fakeRunner{}}
	status, err := d.applySymlink(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, Applied, status)

	status, err = d.applySymlink(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, NoChange, status)
}

func TestApplyGroupUsesRunnerNotSyscalls(t *testing.T) {
	run := &fakeRunner{}
	d := &Dispatcher{Run: run}
	r := wire.Resource{
		ID:         wire.ID{Kind: "group", Key: "this-group-should-not-exist-anywhere"},
		Attributes: map[string]any{"ensure": "present"},
	}
	status, err := d.applyGroup(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, Applied, status)
	require.Len(t, run.calls, 1)
	assert.Equal(t, "groupadd", run.calls[0][0])
}

func TestApplyGroupSystemFlag(t *testing.T) {
	run := &fakeRunner{}
	d := &Dispatcher{Run: run}
	r := wire.Resource{
		ID:         wire.ID{Kind: "group", Key: "this-system-group-should-not-exist-anywhere"},
		Attributes: map[string]any{"ensure": "present", "system": true},
	}
	status, err := d.applyGroup(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, Applied, status)
	require.Len(t, run.calls, 1)
	assert.Contains(t, run.calls[0], "--system")
}

func TestApplyResolvConfRendersSortlist(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resolv.conf")
	old := resolvConfPath
	resolvConfPath = path
	t.Cleanup(func() { resolvConfPath = old })

	r := wire.Resource{
		ID: wire.ID{Kind: "resolv.conf", Key: "singleton"},
		Attributes: map[string]any{
			"ensure":      "present",
			"nameservers": []any{"1.1.1.1"},
			"sortlist":    []any{"10.0.0.0/255.255.255.0"},
		},
	}
	d := &Dispatcher{Run: &fakeRunner{}}
	status, err := d.applyResolvConf(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, Applied, status)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sortlist 10.0.0.0/255.255.255.0")
}

func TestDispatchUnknownKind(t *testing.T) {
	d := &Dispatcher{Run: &fakeRunner{}}
	_, err := d.Apply(context.Background(), wire.Resource{ID: wire.ID{Kind: "bogus"}})
	assert.Error(t, err)
}
