package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

// Ranking is a named rank estimate, e.g. the output of one estimator.
type Ranking struct {
	Name  string // key in structured formats
	Title string // heading in text format
	Ranks map[string]float64
}

// Print writes the title followed by one "  page: rank" line per page,
// sorted by page, with four decimal digits.
func Print(w io.Writer, title string, ranks map[string]float64) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	pages := make([]string, 0, len(ranks))
	for page := range ranks {
		pages = append(pages, page)
	}
	sort.Strings(pages)
	for _, page := range pages {
		if _, err := fmt.Fprintf(w, "  %s: %.4f\n", page, ranks[page]); err != nil {
			return err
		}
	}
	return nil
}

// Encode serializes rankings as "text", "json" or "toml".
func Encode(w io.Writer, format string, rankings ...Ranking) error {
	switch format {
	case "", "text":
		for _, r := range rankings {
			if err := Print(w, r.Title, r.Ranks); err != nil {
				return err
			}
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(byName(rankings))
	case "toml":
		return toml.NewEncoder(w).Encode(byName(rankings))
	}
	return fmt.Errorf("unknown output format %q", format)
}

// Write encodes rankings into the output file.
func Write(output, format string, rankings ...Ranking) error {
	var buf bytes.Buffer
	if err := Encode(&buf, format, rankings...); err != nil {
		return err
	}
	return os.WriteFile(output, buf.Bytes(), 0o644)
}

func byName(rankings []Ranking) map[string]map[string]float64 {
	named := make(map[string]map[string]float64, len(rankings))
	for _, r := range rankings {
		named[r.Name] = r.Ranks
	}
	return named
}
