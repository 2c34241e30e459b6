package graph

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrEmptyCorpus = errors.New("empty corpus")
	ErrUnknownPage = errors.New("unknown page")
)

// Graph is an immutable link graph: every page maps to the set of pages it
// links to. Every link target is itself a page and no page links to itself.
// A Graph has no mutation methods and can be shared between goroutines.
type Graph struct {
	links map[string]map[string]struct{}
	pages []string // sorted keys of links
}

// New builds a Graph from an adjacency list. Links to pages outside the
// corpus and self-links are dropped, duplicate links collapse.
func New(adjacency map[string][]string) *Graph {
	g := &Graph{
		links: make(map[string]map[string]struct{}, len(adjacency)),
		pages: make([]string, 0, len(adjacency)),
	}
	for page := range adjacency {
		g.links[page] = make(map[string]struct{})
		g.pages = append(g.pages, page)
	}
	sort.Strings(g.pages)
	// Only include links to other pages in the corpus
	for page, targets := range adjacency {
		for _, target := range targets {
			if target == page {
				continue
			}
			if _, ok := g.links[target]; !ok {
				continue
			}
			g.links[page][target] = struct{}{}
		}
	}
	return g
}

// Len returns the number of pages in the corpus.
func (g *Graph) Len() int { return len(g.pages) }

// Pages returns every page of the corpus in lexical order.
func (g *Graph) Pages() []string {
	pages := make([]string, len(g.pages))
	copy(pages, g.pages)
	return pages
}

func (g *Graph) Has(page string) bool {
	_, ok := g.links[page]
	return ok
}

// Links returns the sorted outbound links of page.
func (g *Graph) Links(page string) ([]string, error) {
	out, ok := g.links[page]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPage, page)
	}
	links := make([]string, 0, len(out))
	for target := range out {
		links = append(links, target)
	}
	sort.Strings(links)
	return links, nil
}

// LinksTo reports whether page links to target.
func (g *Graph) LinksTo(page, target string) bool {
	_, ok := g.links[page][target]
	return ok
}

// OutDegree returns the number of outbound links of page (0 for unknown pages).
func (g *Graph) OutDegree(page string) int { return len(g.links[page]) }

// Dangling reports whether page is part of the corpus and has no outbound links.
func (g *Graph) Dangling(page string) bool {
	out, ok := g.links[page]
	return ok && len(out) == 0
}

// AdjacencyList returns a fresh copy of the graph as page -> sorted links.
func (g *Graph) AdjacencyList() map[string][]string {
	adjacency := make(map[string][]string, len(g.pages))
	for _, page := range g.pages {
		adjacency[page], _ = g.Links(page)
	}
	return adjacency
}

// NumLinks returns the total number of links of the corpus.
func (g *Graph) NumLinks() int {
	total := 0
	for _, out := range g.links {
		total += len(out)
	}
	return total
}
