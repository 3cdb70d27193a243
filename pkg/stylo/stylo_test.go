package stylo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/cognicore/stylo/pkg/stylo/config"
	"github.com/cognicore/stylo/pkg/stylo/features"
	"github.com/cognicore/stylo/pkg/stylo/gutenberg"
)

const (
	startMarker = "*** START ***"
	endMarker   = "*** END ***"
)

type fixtureBook struct {
	author string
	title  string
	body   string
}

// newFixtureServer serves Gutendex-style metadata and plain text
// bodies for the given books.
func newFixtureServer(t *testing.T, books map[int]fixtureBook) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/books/", func(w http.ResponseWriter, r *http.Request) {
		var id int
		if _, err := fmt.Sscanf(r.URL.Path, "/books/%d", &id); err != nil {
			http.NotFound(w, r)
			return
		}
		book, ok := books[id]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, `{
			"title": %q,
			"authors": [{"name": %q}],
			"formats": {"text/plain; charset=utf-8": "%s/files/%d.txt"}
		}`, book.title, book.author, srv.URL, id)
	})

	mux.HandleFunc("/files/", func(w http.ResponseWriter, r *http.Request) {
		var id int
		if _, err := fmt.Sscanf(r.URL.Path, "/files/%d.txt", &id); err != nil {
			http.NotFound(w, r)
			return
		}
		book, ok := books[id]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, "header\n%s\n%s\n%s\nfooter", startMarker, book.body, endMarker)
	})

	return srv
}

func fixtureConfig(baseURL string) *config.Config {
	return &config.Config{
		Gutenberg: config.Gutenberg{
			URL:         baseURL + "/books/",
			TextTag:     "text/plain",
			StartMarker: startMarker,
			EndMarker:   endMarker,
		},
		Workers:        4,
		TimeoutSeconds: 5,
		Chunking:       config.Chunking{Enabled: true, Size: 50, Overlap: 10},
		Authors: map[string][]int{
			"A": {1, 2},
			"B": {3},
		},
	}
}

func TestEndToEnd(t *testing.T) {
	srv := newFixtureServer(t, map[int]fixtureBook{
		1: {author: "A", title: "X", body: "first book. it has words."},
		2: {author: "A", title: "Y", body: "second book. it has other words."},
		3: {author: "B", title: "Z", body: "third book. entirely different words."},
	})

	cfg := fixtureConfig(srv.URL)
	s := New(Options{Config: cfg})
	ctx := context.Background()

	// Fetch by author, realize texts, cache to disk.
	res := s.FetchBooksByAuthors(ctx, []string{"A", "B"})
	if err := res.Err(); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(res.Books) != 3 {
		t.Fatalf("expected 3 books, got %d", len(res.Books))
	}
	if realized := s.RealizeTexts(ctx, res.Books); realized != 3 {
		t.Fatalf("expected 3 realized texts, got %d", realized)
	}

	dir := filepath.Join(t.TempDir(), "books")
	if failures := s.SaveBooks(ctx, dir, res.Books); len(failures) != 0 {
		t.Fatalf("save: %v", failures)
	}

	// Reload from the cache; the round trip preserves the labels and
	// text regardless of return order.
	loaded, err := s.LoadBooks(ctx, dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 3 {
		t.Fatalf("expected 3 cached books, got %d", len(loaded))
	}
	for _, b := range loaded {
		if _, ok := b.Text(); !ok {
			t.Errorf("book %d lost its text across the round trip", b.ID())
		}
	}

	// Dataset with chunking disabled: exactly one row per book.
	d, err := s.BuildDataset(ctx, loaded, BuildOptions{DisableChunking: true})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if d.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", d.Len())
	}

	authors := make(map[string]int)
	titles := make(map[string]int)
	for _, row := range d.Rows() {
		authors[row.Author]++
		titles[row.Title]++
	}
	if authors["a"] != 2 || authors["b"] != 1 {
		t.Errorf("author labels = %v, want a:2 b:1", authors)
	}
	for _, title := range []string{"x", "y", "z"} {
		if titles[title] != 1 {
			t.Errorf("title %q seen %d times, want 1", title, titles[title])
		}
	}

	// The rows carry real feature values from all default groups.
	row := d.Rows()[0]
	if row.Features["total_words"] <= 0 {
		t.Errorf("lexical features missing: %v", row.Features["total_words"])
	}
	if _, ok := row.Features["flesch_reading_ease"]; !ok {
		t.Error("stylometric features missing")
	}
	if _, ok := row.Features["avg_sentence_length_words"]; !ok {
		t.Error("syntactic features missing")
	}
}

func TestBuildDatasetUsesConfiguredChunking(t *testing.T) {
	cfg := fixtureConfig("http://unused.invalid")
	cfg.Chunking = config.Chunking{Enabled: true, Size: 4, Overlap: 1}
	s := New(Options{Config: cfg})

	// 10 tokens with size 4 / overlap 1 → 3 windows.
	book, err := gutenberg.FromSnapshot(gutenberg.Snapshot{
		ID:       1,
		Author:   "a",
		Title:    "x",
		Realized: true,
		Text:     "w1 w2 w3 w4 w5 w6 w7 w8 w9 w10",
	})
	if err != nil {
		t.Fatal(err)
	}

	ds, err := s.BuildDataset(context.Background(), []*gutenberg.Book{book}, BuildOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if ds.Len() != 3 {
		t.Errorf("expected 3 chunk rows, got %d", ds.Len())
	}
}

func TestSourcesKeepLabelsWithoutText(t *testing.T) {
	book, err := gutenberg.FromSnapshot(gutenberg.Snapshot{
		ID: 9, Author: "a", Title: "x", Realized: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	srcs := Sources([]*gutenberg.Book{book})
	if len(srcs) != 1 {
		t.Fatal("expected one source")
	}
	if srcs[0] != (features.Source{Author: "a", Title: "x", Text: ""}) {
		t.Errorf("unexpected source: %+v", srcs[0])
	}
}
