package graph

import (
	"fmt"
	"io"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
)

var renderFormats = map[string]graphviz.Format{
	"dot": graphviz.Format("dot"),
	"svg": graphviz.SVG,
	"png": graphviz.PNG,
}

// Render draws the corpus with Graphviz. Every page is labelled with its
// rank and its font grows with it.
func Render(w io.Writer, g *Graph, ranks map[string]float64, format string) error {
	f, ok := renderFormats[format]
	if !ok {
		return fmt.Errorf("unknown render format %q", format)
	}
	gv := graphviz.New()
	defer gv.Close()
	graph, err := gv.Graph()
	if err != nil {
		return err
	}
	defer graph.Close()

	nodes := make(map[string]*cgraph.Node, g.Len())
	for _, page := range g.pages {
		node, err := graph.CreateNode(page)
		if err != nil {
			return err
		}
		node.SetLabel(fmt.Sprintf("%s\n%.4f", page, ranks[page]))
		node.SetFontSize(10 + 40*ranks[page])
		nodes[page] = node
	}
	for _, page := range g.pages {
		links, _ := g.Links(page)
		for _, target := range links {
			if _, err := graph.CreateEdge(page+"->"+target, nodes[page], nodes[target]); err != nil {
				return err
			}
		}
	}
	return gv.Render(graph, f, w)
}
