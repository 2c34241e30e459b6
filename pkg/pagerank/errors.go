package pagerank

import (
	"errors"

	"github.com/lioia/corpus-pagerank/pkg/graph"
)

var (
	ErrEmptyCorpus      = graph.ErrEmptyCorpus
	ErrUnknownPage      = graph.ErrUnknownPage
	ErrInvalidDamping   = errors.New("damping factor must be within [0, 1]")
	ErrInvalidSamples   = errors.New("number of samples must be positive")
	ErrInvalidThreshold = errors.New("convergence threshold must be positive")
)
