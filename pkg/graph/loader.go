package graph

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/lioia/corpus-pagerank/pkg/utils"
)

// LoadResource loads a corpus from a network edge list (http/https), a
// directory of HTML pages or a local edge list file.
func LoadResource(resource string) (*Graph, error) {
	var bytes []byte
	// Check if it's a network resource or a local one
	if strings.HasPrefix(resource, "http://") || strings.HasPrefix(resource, "https://") {
		// Loading file from network
		resp, err := http.Get(resource)
		if err != nil {
			utils.WarnLog("loader", "Could not load network file at %s: %v", resource, err)
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("could not load %s: %s", resource, resp.Status)
		}
		// Read response body
		bytes, err = io.ReadAll(resp.Body)
		if err != nil {
			utils.WarnLog("loader", "Could not load body from request: %v", err)
			return nil, err
		}
	} else {
		info, err := os.Stat(resource)
		if err != nil {
			return nil, err
		}
		// A directory is an HTML corpus
		if info.IsDir() {
			return Crawl(resource)
		}
		// Loading file from local filesystem
		bytes, err = os.ReadFile(resource)
		if err != nil {
			utils.WarnLog("loader", "Could not read graph at %s: %v", resource, err)
			return nil, err
		}
	}
	// Parse graph file into graph representation
	g, err := LoadFromBytes(bytes)
	if err != nil {
		return nil, fmt.Errorf("could not load graph from %s: %w", resource, err)
	}
	return g, nil
}

// LoadFromBytes parses an edge list: one "from to" pair per line, separated
// by a space or a comma. A line holding a single page declares a page with
// no links of its own.
func LoadFromBytes(contents []byte) (*Graph, error) {
	adjacency := make(map[string][]string)
	// Split file contents in lines (based on newline delimiter)
	lines := strings.Split(strings.ReplaceAll(string(contents), "\r\n", "\n"), "\n")
	for i, line := range lines {
		from, to, skip, err := convertLine(line)
		// There was an error loading the line
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		// Comment line -> no new page to add
		if skip {
			continue
		}
		// First time encountering this page, so it has to be created
		if _, ok := adjacency[from]; !ok {
			adjacency[from] = nil
		}
		if to == "" {
			continue
		}
		if _, ok := adjacency[to]; !ok {
			adjacency[to] = nil
		}
		adjacency[from] = append(adjacency[from], to)
	}
	if len(adjacency) == 0 {
		return nil, ErrEmptyCorpus
	}
	return New(adjacency), nil
}

func convertLine(line string) (string, string, bool, error) {
	line = strings.TrimSpace(line)
	// Skip comment lines
	if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") || line == "" {
		return "", "", true, nil
	}
	// Split line in FromPage and ToPage
	tokens := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	switch len(tokens) {
	case 1:
		return tokens[0], "", false, nil
	case 2:
		return tokens[0], tokens[1], false, nil
	}
	return "", "", false, fmt.Errorf("could not convert line %q", line)
}
