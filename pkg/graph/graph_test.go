package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFiltersLinks(t *testing.T) {
	t.Parallel()
	g := New(map[string][]string{
		"a": {"b", "a", "outside", "b"},
		"b": {"c"},
		"c": nil,
	})

	assert.Equal(t, 3, g.Len())
	assert.Equal(t, []string{"a", "b", "c"}, g.Pages())
	links, err := g.Links("a")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, links)
	assert.Equal(t, 2, g.NumLinks())
	assert.True(t, g.LinksTo("b", "c"))
	assert.False(t, g.LinksTo("c", "b"))
	assert.True(t, g.Dangling("c"))
	assert.False(t, g.Dangling("a"))
	assert.False(t, g.Dangling("missing"))
	assert.False(t, g.Has("outside"))
}

func TestLinksUnknownPage(t *testing.T) {
	t.Parallel()
	_, err := New(map[string][]string{"a": nil}).Links("b")
	assert.ErrorIs(t, err, ErrUnknownPage)
}

func TestGraphIsReadOnly(t *testing.T) {
	t.Parallel()
	adjacency := map[string][]string{"a": {"b"}, "b": nil}
	g := New(adjacency)
	adjacency["a"][0] = "a"
	adjacency["c"] = nil

	pages := g.Pages()
	pages[0] = "z"
	copied := g.AdjacencyList()
	copied["a"] = nil

	assert.Equal(t, map[string][]string{"a": {"b"}, "b": {}}, g.AdjacencyList())
	assert.Equal(t, []string{"a", "b"}, g.Pages())
}

func TestDirected(t *testing.T) {
	t.Parallel()
	g := New(map[string][]string{"a": {"b", "c"}, "b": {"c"}, "c": nil})
	directed, pages := g.Directed()
	assert.Equal(t, []string{"a", "b", "c"}, pages)
	assert.Equal(t, 3, directed.Nodes().Len())
	assert.True(t, directed.HasEdgeFromTo(0, 1))
	assert.True(t, directed.HasEdgeFromTo(0, 2))
	assert.True(t, directed.HasEdgeFromTo(1, 2))
	assert.False(t, directed.HasEdgeFromTo(2, 0))
}
