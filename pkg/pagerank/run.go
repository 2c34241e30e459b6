package pagerank

import (
	"context"

	"github.com/lioia/corpus-pagerank/pkg/graph"
)

// Report holds the outputs of both estimators over the same corpus.
type Report struct {
	Sampling  Distribution
	Iteration Iteration
}

// Run validates opts and runs the sampling and the iterative estimator.
func Run(ctx context.Context, g *graph.Graph, opts Options) (Report, error) {
	if g.Len() == 0 {
		return Report{}, ErrEmptyCorpus
	}
	if err := opts.Validate(); err != nil {
		return Report{}, err
	}
	sampling, err := SamplePageRank(ctx, g, opts)
	if err != nil {
		return Report{}, err
	}
	iteration, err := IteratePageRank(ctx, g, opts)
	if err != nil {
		return Report{}, err
	}
	return Report{Sampling: sampling, Iteration: iteration}, nil
}
