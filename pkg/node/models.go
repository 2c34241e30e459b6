package node

import (
	"errors"
	"fmt"
	"math"

	"github.com/lioia/corpus-pagerank/pkg/pagerank"
	"google.golang.org/protobuf/types/known/structpb"
)

const contentType = "application/x-protobuf"

var ErrInvalidJob = errors.New("invalid job")

// Job is a request to rank a whole corpus. Unset parameters fall back to
// the defaults of the node running it.
type Job struct {
	ID            string              `json:"id,omitempty"`
	Pages         map[string][]string `json:"pages"`
	Damping       *float64            `json:"damping,omitempty"`
	Samples       *int                `json:"samples,omitempty"`
	Seed          *uint64             `json:"seed,omitempty"`
	Threshold     *float64            `json:"threshold,omitempty"`
	MaxIterations *int                `json:"max_iterations,omitempty"`
}

type Result struct {
	ID        string                `json:"id,omitempty"`
	Sampling  pagerank.Distribution `json:"sampling"`
	Iteration pagerank.Distribution `json:"iteration"`
	Passes    int                   `json:"passes"`
	Converged bool                  `json:"converged"`
}

// Options applies the job parameters on top of defaults.
func (j Job) Options(defaults pagerank.Options) pagerank.Options {
	opts := defaults
	if j.Damping != nil {
		opts.Damping = *j.Damping
	}
	if j.Samples != nil {
		opts.Samples = *j.Samples
	}
	if j.Seed != nil {
		opts.Seed = *j.Seed
	}
	if j.Threshold != nil {
		opts.Threshold = *j.Threshold
	}
	if j.MaxIterations != nil {
		opts.MaxIterations = *j.MaxIterations
	}
	return opts
}

// JobToStruct encodes a job as a protobuf Struct:
// {id, pages: {page: [links...]}, damping, samples, seed, threshold, max_iterations}
func JobToStruct(j Job) (*structpb.Struct, error) {
	pages := make(map[string]any, len(j.Pages))
	for page, links := range j.Pages {
		list := make([]any, len(links))
		for i, link := range links {
			list[i] = link
		}
		pages[page] = list
	}
	fields := map[string]any{"pages": pages}
	if j.ID != "" {
		fields["id"] = j.ID
	}
	if j.Damping != nil {
		fields["damping"] = *j.Damping
	}
	if j.Samples != nil {
		fields["samples"] = float64(*j.Samples)
	}
	if j.Seed != nil {
		fields["seed"] = float64(*j.Seed)
	}
	if j.Threshold != nil {
		fields["threshold"] = *j.Threshold
	}
	if j.MaxIterations != nil {
		fields["max_iterations"] = float64(*j.MaxIterations)
	}
	return structpb.NewStruct(fields)
}

func JobFromStruct(s *structpb.Struct) (Job, error) {
	fields := s.GetFields()
	pages := fields["pages"].GetStructValue()
	if pages == nil {
		return Job{}, fmt.Errorf("%w: missing pages", ErrInvalidJob)
	}
	job := Job{
		ID:    fields["id"].GetStringValue(),
		Pages: make(map[string][]string, len(pages.GetFields())),
	}
	for page, v := range pages.GetFields() {
		values := v.GetListValue().GetValues()
		links := make([]string, 0, len(values))
		for _, link := range values {
			if _, ok := link.GetKind().(*structpb.Value_StringValue); !ok {
				return Job{}, fmt.Errorf("%w: link of %q is not a string", ErrInvalidJob, page)
			}
			links = append(links, link.GetStringValue())
		}
		job.Pages[page] = links
	}
	if damping, ok, err := numberField(fields, "damping"); err != nil {
		return Job{}, err
	} else if ok {
		job.Damping = &damping
	}
	if samples, ok, err := integerField(fields, "samples", math.MinInt32, math.MaxInt32); err != nil {
		return Job{}, err
	} else if ok {
		n := int(samples)
		job.Samples = &n
	}
	if seed, ok, err := integerField(fields, "seed", 0, maxExactSeed); err != nil {
		return Job{}, err
	} else if ok {
		n := uint64(seed)
		job.Seed = &n
	}
	if threshold, ok, err := numberField(fields, "threshold"); err != nil {
		return Job{}, err
	} else if ok {
		job.Threshold = &threshold
	}
	if maxIterations, ok, err := integerField(fields, "max_iterations", math.MinInt32, math.MaxInt32); err != nil {
		return Job{}, err
	} else if ok {
		n := int(maxIterations)
		job.MaxIterations = &n
	}
	return job, nil
}

// Struct numbers are float64: larger seeds lose precision.
const maxExactSeed = 1 << 53

// numberField reads an optional finite number.
func numberField(fields map[string]*structpb.Value, name string) (float64, bool, error) {
	v, ok := fields[name]
	if !ok {
		return 0, false, nil
	}
	n, isNumber := v.GetKind().(*structpb.Value_NumberValue)
	if !isNumber {
		return 0, false, fmt.Errorf("%w: %s is not a number", ErrInvalidJob, name)
	}
	if math.IsNaN(n.NumberValue) || math.IsInf(n.NumberValue, 0) {
		return 0, false, fmt.Errorf("%w: %s is %v", ErrInvalidJob, name, n.NumberValue)
	}
	return n.NumberValue, true, nil
}

// integerField reads an optional integral number within [lo, hi].
func integerField(fields map[string]*structpb.Value, name string, lo, hi float64) (float64, bool, error) {
	x, ok, err := numberField(fields, name)
	if err != nil || !ok {
		return 0, ok, err
	}
	if x != math.Trunc(x) || x < lo || x > hi {
		return 0, false, fmt.Errorf("%w: %s must be an integer in [%.0f, %.0f], got %v", ErrInvalidJob, name, lo, hi, x)
	}
	return x, true, nil
}

// ResultToStruct encodes a result as a protobuf Struct:
// {id, sampling: {page: rank}, iteration: {page: rank}, passes, converged}
func ResultToStruct(r Result) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"id":        r.ID,
		"sampling":  ranksToMap(r.Sampling),
		"iteration": ranksToMap(r.Iteration),
		"passes":    float64(r.Passes),
		"converged": r.Converged,
	})
}

func ResultFromStruct(s *structpb.Struct) Result {
	fields := s.GetFields()
	return Result{
		ID:        fields["id"].GetStringValue(),
		Sampling:  ranksFromStruct(fields["sampling"].GetStructValue()),
		Iteration: ranksFromStruct(fields["iteration"].GetStructValue()),
		Passes:    int(fields["passes"].GetNumberValue()),
		Converged: fields["converged"].GetBoolValue(),
	}
}

func ranksToMap(ranks pagerank.Distribution) map[string]any {
	m := make(map[string]any, len(ranks))
	for page, rank := range ranks {
		m[page] = rank
	}
	return m
}

func ranksFromStruct(s *structpb.Struct) pagerank.Distribution {
	ranks := make(pagerank.Distribution, len(s.GetFields()))
	for page, v := range s.GetFields() {
		ranks[page] = v.GetNumberValue()
	}
	return ranks
}
