package node

import (
	"context"
	"errors"
	"time"

	"github.com/lioia/corpus-pagerank/pkg/graph"
	"github.com/lioia/corpus-pagerank/pkg/pagerank"
	"github.com/lioia/corpus-pagerank/pkg/utils"
)

// Ranker runs both estimators for jobs received by any transport.
type Ranker struct {
	Defaults pagerank.Options
	Metrics  *Metrics // optional
}

func (r *Ranker) Rank(ctx context.Context, job Job) (Result, error) {
	g := graph.New(job.Pages)
	start := time.Now()
	report, err := pagerank.Run(ctx, g, job.Options(r.Defaults))
	r.Metrics.observe(g.Len(), report, err, time.Since(start))
	if err != nil {
		return Result{}, err
	}
	utils.ServerLog("Ranked job %q: %d pages, %d passes", job.ID, g.Len(), report.Iteration.Passes)
	return Result{
		ID:        job.ID,
		Sampling:  report.Sampling,
		Iteration: report.Iteration.Ranks,
		Passes:    report.Iteration.Passes,
		Converged: report.Iteration.Converged,
	}, nil
}

// IsInvalid reports whether err is caused by the job itself, so retrying it
// cannot succeed.
func IsInvalid(err error) bool {
	for _, target := range []error{
		ErrInvalidJob,
		pagerank.ErrEmptyCorpus,
		pagerank.ErrUnknownPage,
		pagerank.ErrInvalidDamping,
		pagerank.ErrInvalidSamples,
		pagerank.ErrInvalidThreshold,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
