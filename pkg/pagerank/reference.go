package pagerank

import (
	"github.com/lioia/corpus-pagerank/pkg/graph"
	"gonum.org/v1/gonum/graph/network"
)

// Reference computes PageRank with gonum's power iteration. It shares the
// dangling-page policy of IteratePageRank and serves as a cross-check.
func Reference(g *graph.Graph, damping, tolerance float64) (Distribution, error) {
	if g.Len() == 0 {
		return nil, ErrEmptyCorpus
	}
	if err := validateDamping(damping); err != nil {
		return nil, err
	}
	directed, pages := g.Directed()
	scores := network.PageRank(directed, damping, tolerance)
	ranks := make(Distribution, len(pages))
	for id, score := range scores {
		ranks[pages[id]] = score
	}
	return ranks, nil
}
