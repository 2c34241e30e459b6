package graph

import (
	"gonum.org/v1/gonum/graph/simple"
)

// Directed converts the corpus to a gonum directed graph. The node ID of a
// page is its index in the returned slice.
func (g *Graph) Directed() (*simple.DirectedGraph, []string) {
	directed := simple.NewDirectedGraph()
	ids := make(map[string]int64, len(g.pages))
	for i, page := range g.pages {
		ids[page] = int64(i)
		directed.AddNode(simple.Node(i))
	}
	for _, page := range g.pages {
		for target := range g.links[page] {
			directed.SetEdge(directed.NewEdge(simple.Node(ids[page]), simple.Node(ids[target])))
		}
	}
	return directed, g.Pages()
}
