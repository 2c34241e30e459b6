package pagerank

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/lioia/corpus-pagerank/pkg/graph"
	"github.com/lioia/corpus-pagerank/pkg/utils"
	"gonum.org/v1/gonum/stat/distuv"
)

// Steps between two context checks of the random walk.
const cancelCheckInterval = 1 << 12

// SamplePageRank estimates PageRank with a random walk of opts.Samples steps
// starting from a uniformly chosen page. The rank of a page is the fraction
// of steps spent on it, so pages never visited are absent from the result.
func SamplePageRank(ctx context.Context, g *graph.Graph, opts Options) (Distribution, error) {
	n := g.Len()
	if n == 0 {
		return nil, ErrEmptyCorpus
	}
	if err := validateDamping(opts.Damping); err != nil {
		return nil, err
	}
	if opts.Samples <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSamples, opts.Samples)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	src := rand.NewPCG(seed, seed)
	rng := rand.New(src)

	// Transition model of every page, indexed like pages
	pages := g.Pages()
	models := make([]distuv.Categorical, n)
	for i, page := range pages {
		probability, err := Transition(g, page, opts.Damping)
		if err != nil {
			return nil, err
		}
		weights := make([]float64, n)
		for j, p := range pages {
			weights[j] = probability[p]
		}
		models[i] = distuv.NewCategorical(weights, src)
	}

	visits := make([]int, n)
	state := rng.IntN(n)
	for i := 0; i < opts.Samples; i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		visits[state]++
		state = int(models[state].Rand())
	}

	ranks := make(Distribution, n)
	for i, count := range visits {
		if count > 0 {
			ranks[pages[i]] = float64(count) / float64(opts.Samples)
		}
	}
	utils.ComputeLog("sampling", "Sampled %d steps over %d pages (%d visited)", opts.Samples, n, len(ranks))
	return ranks, nil
}
