package pagerank

import (
	"context"
	"fmt"
	"math"

	"github.com/lioia/corpus-pagerank/pkg/graph"
	"github.com/lioia/corpus-pagerank/pkg/utils"
)

// Iteration is the outcome of IteratePageRank.
type Iteration struct {
	Ranks     Distribution
	Passes    int  // number of full update passes
	Converged bool // false if MaxIterations was reached first
}

// IteratePageRank computes PageRank by repeatedly applying
//
//	PR(p) = (1 - d)/n + d * sum_(q in B_p) PR(q) / N_q
//
// until no page changes by opts.Threshold or more within a pass. Every pass
// reads only the ranks of the previous one. Dangling pages are treated as
// linking to every page, themselves included.
func IteratePageRank(ctx context.Context, g *graph.Graph, opts Options) (Iteration, error) {
	n := g.Len()
	if n == 0 {
		return Iteration{}, ErrEmptyCorpus
	}
	if err := validateDamping(opts.Damping); err != nil {
		return Iteration{}, err
	}
	if !(opts.Threshold > 0) {
		return Iteration{}, fmt.Errorf("%w: %v", ErrInvalidThreshold, opts.Threshold)
	}

	pages := g.Pages()
	// Working copy of the outbound links: dangling pages link to everyone
	outLinks := make(map[string][]string, n)
	for _, page := range pages {
		links, err := g.Links(page)
		if err != nil {
			return Iteration{}, err
		}
		if len(links) == 0 {
			links = pages
		}
		outLinks[page] = links
	}
	// B_p: pages linking to p
	inLinks := make(map[string][]string, n)
	for _, page := range pages {
		for _, target := range outLinks[page] {
			inLinks[target] = append(inLinks[target], page)
		}
	}

	base := (1 - opts.Damping) / float64(n)
	ranks := make(Distribution, n)
	for _, page := range pages {
		ranks[page] = 1 / float64(n)
	}

	for pass := 1; opts.MaxIterations <= 0 || pass <= opts.MaxIterations; pass++ {
		if err := ctx.Err(); err != nil {
			return Iteration{}, err
		}
		newRanks := make(Distribution, n)
		changed := false
		for _, page := range pages {
			sum := 0.0
			for _, q := range inLinks[page] {
				sum += ranks[q] / float64(len(outLinks[q]))
			}
			newRanks[page] = base + opts.Damping*sum
			if math.Abs(newRanks[page]-ranks[page]) >= opts.Threshold {
				changed = true
			}
		}
		ranks = newRanks
		if !changed {
			utils.ComputeLog("iteration", "Convergence check success (%d passes)", pass)
			return Iteration{Ranks: ranks, Passes: pass, Converged: true}, nil
		}
	}
	utils.WarnLog("iteration", "No convergence after %d passes", opts.MaxIterations)
	return Iteration{Ranks: ranks, Passes: opts.MaxIterations, Converged: false}, nil
}
