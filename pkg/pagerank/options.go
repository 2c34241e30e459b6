package pagerank

import (
	"fmt"
	"math"
)

const (
	DefaultDamping       = 0.85
	DefaultSamples       = 10000
	DefaultThreshold     = 0.001
	DefaultMaxIterations = 1000
)

// Options configures both estimators.
type Options struct {
	Damping       float64 // probability of following a link; typically 0.85
	Samples       int     // random walk length of the sampling estimator
	Seed          uint64  // random walk seed; 0 picks a random one
	Threshold     float64 // per-page absolute convergence threshold
	MaxIterations int     // upper bound on passes of the iterative estimator; <= 0 means unbounded
}

// DefaultOptions returns damping 0.85, 10000 samples, threshold 0.001 and
// at most 1000 iteration passes.
func DefaultOptions() Options {
	return Options{
		Damping:       DefaultDamping,
		Samples:       DefaultSamples,
		Threshold:     DefaultThreshold,
		MaxIterations: DefaultMaxIterations,
	}
}

func (o Options) Validate() error {
	if err := validateDamping(o.Damping); err != nil {
		return err
	}
	if o.Samples <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSamples, o.Samples)
	}
	if !(o.Threshold > 0) {
		return fmt.Errorf("%w: %v", ErrInvalidThreshold, o.Threshold)
	}
	return nil
}

func validateDamping(damping float64) error {
	if math.IsNaN(damping) || damping < 0 || damping > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidDamping, damping)
	}
	return nil
}
