package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pullconf/pullconf/internal/wire"
)

func id(kind, key string) wire.ID { return wire.ID{Kind: kind, Key: key} }

func TestSchedulerAncestryOrder(t *testing.T) {
	cat := &wire.Catalog{Resources: []wire.Resource{
		{ID: id("file", "/a/b/c")},
		{ID: id("directory", "/a/b"), Requires: nil},
		{ID: id("directory", "/a")},
	}}
	cat.Resources[0].ImplicitRequires = []wire.ID{id("directory", "/a/b")}
	cat.Resources[1].ImplicitRequires = []wire.ID{id("directory", "/a")}

	report := Run(context.Background(), cat, func(ctx context.Context, r wire.Resource) (bool, error) {
		return true, nil
	})

	require.Len(t, report.Order, 3)
	assert.Equal(t, id("directory", "/a"), report.Order[0])
	assert.Equal(t, id("directory", "/a/b"), report.Order[1])
	assert.Equal(t, id("file", "/a/b/c"), report.Order[2])

	for _, o := range report.Outcomes {
		assert.Equal(t, Applied, o.State)
	}
}

func TestSkipPropagation(t *testing.T) {
	// A <- B <- C (C depends on B depends on A); A fails.
	cat := &wire.Catalog{Resources: []wire.Resource{
		{ID: id("user", "a")},
		{ID: id("user", "b"), Requires: []wire.ID{id("user", "a")}},
		{ID: id("user", "c"), Requires: []wire.ID{id("user", "b")}},
	}}

	report := Run(context.Background(), cat, func(ctx context.Context, r wire.Resource) (bool, error) {
		if r.ID.Key == "a" {
			return false, errors.New("boom")
		}
		return true, nil
	})

	states := map[string]State{}
	for _, o := range report.Outcomes {
		states[o.ID.Key] = o.State
	}
	assert.Equal(t, Failed, states["a"])
	assert.Equal(t, Skipped, states["b"])
	assert.Equal(t, Skipped, states["c"])
	assert.Empty(t, report.Unreachable)
}

func TestKindPriorityTieBreak(t *testing.T) {
	cat := &wire.Catalog{Resources: []wire.Resource{
		{ID: id("file", "/z")},
		{ID: id("directory", "/y")},
		{ID: id("directory", "/a")},
	}}
	report := Run(context.Background(), cat, func(ctx context.Context, r wire.Resource) (bool, error) {
		return true, nil
	})
	require.Len(t, report.Order, 3)
	assert.Equal(t, id("directory", "/a"), report.Order[0])
	assert.Equal(t, id("directory", "/y"), report.Order[1])
	assert.Equal(t, id("file", "/z"), report.Order[2])
}
