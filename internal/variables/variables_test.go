package variables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSimpleReference(t *testing.T) {
	r := New(map[string]any{"x": "b"}, nil)
	out, err := r.ResolveTree(map[string]any{"value": "$pullconf::x"})
	require.NoError(t, err)
	assert.Equal(t, "b", out["value"])
}

func TestResolveComplexTypeThroughArray(t *testing.T) {
	r := New(map[string]any{"x": "b", "aliases": []any{"a", "$pullconf::x"}}, nil)
	out, err := r.ResolveTree(map[string]any{"aliases": "$pullconf::aliases"})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, out["aliases"])
}

func TestReservedHostname(t *testing.T) {
	r := New(nil, map[string]any{"hostname": "web-1"})
	out, err := r.ResolveTree(map[string]any{"comment": "$pullconf::hostname"})
	require.NoError(t, err)
	assert.Equal(t, "web-1", out["comment"])
}

func TestUnknownVariable(t *testing.T) {
	r := New(nil, nil)
	_, err := r.ResolveTree(map[string]any{"value": "$pullconf::missing"})
	var uerr *UnknownVariableError
	assert.ErrorAs(t, err, &uerr)
}

func TestVariableCycle(t *testing.T) {
	r := New(map[string]any{"a": "$pullconf::b", "b": "$pullconf::a"}, nil)
	_, err := r.ResolveTree(map[string]any{"value": "$pullconf::a"})
	var cerr *CycleError
	assert.ErrorAs(t, err, &cerr)
}

func TestMetaParametersNotExpanded(t *testing.T) {
	r := New(nil, nil)
	out, err := r.ResolveTree(map[string]any{
		"type":     "file",
		"requires": []any{map[string]any{"type": "$pullconf::whatever"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "file", out["type"])
	reqs := out["requires"].([]any)
	assert.Equal(t, "$pullconf::whatever", reqs[0].(map[string]any)["type"])
}

func TestPartialReferenceIsOpaque(t *testing.T) {
	r := New(map[string]any{"x": "b"}, nil)
	out, err := r.ResolveTree(map[string]any{"value": "prefix$pullconf::x"})
	require.NoError(t, err)
	assert.Equal(t, "prefix$pullconf::x", out["value"])
}

func TestResolutionIsIdempotent(t *testing.T) {
	r1 := New(map[string]any{"x": "b"}, nil)
	tree := map[string]any{"value": "$pullconf::x"}
	first, err := r1.ResolveTree(tree)
	require.NoError(t, err)

	r2 := New(map[string]any{"x": "b"}, nil)
	second, err := r2.ResolveTree(first)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
