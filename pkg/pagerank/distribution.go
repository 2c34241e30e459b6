package pagerank

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Distribution maps every page to a probability. Used both for transition
// probabilities and for rank estimates.
type Distribution map[string]float64

// Pages returns the pages of the distribution in lexical order.
func (d Distribution) Pages() []string {
	pages := make([]string, 0, len(d))
	for page := range d {
		pages = append(pages, page)
	}
	sort.Strings(pages)
	return pages
}

func (d Distribution) Sum() float64 {
	values := make([]float64, 0, len(d))
	for _, page := range d.Pages() {
		values = append(values, d[page])
	}
	return floats.Sum(values)
}

// Distance computes the L1 distance between two distributions. A page
// missing from one of them counts as 0.
func (d Distribution) Distance(other Distribution) float64 {
	distance := 0.0
	for page, v := range d {
		distance += math.Abs(v - other[page])
	}
	for page, v := range other {
		if _, ok := d[page]; !ok {
			distance += math.Abs(v)
		}
	}
	return distance
}
