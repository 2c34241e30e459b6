package pagerank

import (
	"fmt"

	"github.com/lioia/corpus-pagerank/pkg/graph"
)

// Transition returns the probability distribution over the next page to
// visit from page.
//
// With probability damping a link of page is followed, with probability
// 1-damping a page is chosen uniformly from the whole corpus. A dangling
// page jumps uniformly to any page, itself included, regardless of damping.
func Transition(g *graph.Graph, page string, damping float64) (Distribution, error) {
	n := g.Len()
	if n == 0 {
		return nil, ErrEmptyCorpus
	}
	if !g.Has(page) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPage, page)
	}
	if err := validateDamping(damping); err != nil {
		return nil, err
	}

	randomJump := 1 / float64(n)
	linkJump := 0.0
	if k := g.OutDegree(page); k > 0 {
		randomJump = (1 - damping) / float64(n)
		linkJump = damping / float64(k)
	}

	probability := make(Distribution, n)
	for _, p := range g.Pages() {
		probability[p] = randomJump
		if g.LinksTo(page, p) {
			probability[p] += linkJump
		}
	}
	return probability, nil
}
