package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndRecent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reloads.db")
	store, err := Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Record(Entry{At: time.Unix(1000, 0), Success: true, Clients: 3}))
	require.NoError(t, store.Record(Entry{At: time.Unix(2000, 0), Success: false, Clients: 0, Failures: []string{"web-1: bad toml"}}))

	entries, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.False(t, entries[0].Success)
	assert.Equal(t, []string{"web-1: bad toml"}, entries[0].Failures)
	assert.True(t, entries[1].Success)
	assert.Equal(t, 3, entries[1].Clients)
}

func TestRecentRespectsLimit(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reloads.db")
	store, err := Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(Entry{At: time.Unix(int64(i), 0), Success: true, Clients: i}))
	}

	entries, err := store.Recent(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 4, entries[0].Clients)
	assert.Equal(t, 3, entries[1].Clients)
}
