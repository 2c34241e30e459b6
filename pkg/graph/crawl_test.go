package graph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	pages := map[string]string{
		"1.html": `<!DOCTYPE html><html><body>
			<a href="2.html">Two</a>
			<a class="x" href="1.html">Self</a>
			<a href="https://example.com">Outside</a>
		</body></html>`,
		"2.html": `<html><body><a href="1.html">One</a><A HREF="3.html">Three</A><a>no href</a></body></html>`,
		"3.html": `<html><body><p>No links</p></body></html>`,
		"notes.txt": `<a href="1.html">ignored</a>`,
	}
	for name, contents := range pages {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.html"), 0o755))
	return dir
}

func TestCrawl(t *testing.T) {
	t.Parallel()
	g, err := Crawl(writeCorpus(t))
	require.NoError(t, err)

	assert.Equal(t, map[string][]string{
		"1.html": {"2.html"},
		"2.html": {"1.html", "3.html"},
		"3.html": {},
	}, g.AdjacencyList())
}

func TestCrawlEmptyDirectory(t *testing.T) {
	t.Parallel()
	_, err := Crawl(t.TempDir())
	assert.ErrorIs(t, err, ErrEmptyCorpus)
}
