package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/cognicore/stylo/pkg/stylo/gutenberg"
	"github.com/cognicore/stylo/pkg/stylo/internalerr"
)

func testBook(t *testing.T, id int, author, title, text string) *gutenberg.Book {
	t.Helper()
	b, err := gutenberg.FromSnapshot(gutenberg.Snapshot{
		ID:       id,
		Author:   author,
		Title:    title,
		Realized: text != "",
		Text:     text,
	})
	if err != nil {
		t.Fatal(err)
	}
	return b
}

type triple struct{ author, title, text string }

func triples(books []*gutenberg.Book) []triple {
	out := make([]triple, len(books))
	for i, b := range books {
		text, _ := b.Text()
		out[i] = triple{b.Author(), b.Title(), text}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].author != out[j].author {
			return out[i].author < out[j].author
		}
		return out[i].title < out[j].title
	})
	return out
}

func TestSaveLoadRoundTrip(t *testing.T) {
	root := t.TempDir()
	store := New(4)

	books := []*gutenberg.Book{
		testBook(t, 1, "poe_edgar_allan", "the_raven", "quoth the raven"),
		testBook(t, 2, "poe_edgar_allan", "the_gold_bug", "a scarabaeus"),
		testBook(t, 3, "austen_jane", "emma", "emma woodhouse"),
		testBook(t, 4, "austen_jane", "persuasion", "sir walter elliot"),
	}

	if failures := store.Save(context.Background(), root, books); len(failures) != 0 {
		t.Fatalf("save failures: %v", failures)
	}

	loaded, err := store.Load(context.Background(), root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != len(books) {
		t.Fatalf("expected %d books, got %d", len(books), len(loaded))
	}

	// Load order is completion order; compare as sets.
	want := triples(books)
	got := triples(loaded)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("triple %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSaveDirectoryLayout(t *testing.T) {
	root := t.TempDir()
	store := New(2)

	books := []*gutenberg.Book{
		testBook(t, 1, "poe_edgar_allan", "the_raven", "x"),
		testBook(t, 2, "", "", "y"),
	}
	if failures := store.Save(context.Background(), root, books); len(failures) != 0 {
		t.Fatalf("save failures: %v", failures)
	}

	for _, path := range []string{
		filepath.Join(root, "poe_edgar_allan", "the_raven.json"),
		filepath.Join(root, "unknown", "untitled.json"),
	} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected %s: %v", path, err)
		}
	}
}

func TestSaveSamePathSerialized(t *testing.T) {
	root := t.TempDir()
	store := New(8)

	// All five books collide on the same destination path. The
	// per-path lock makes the writes sequential; the surviving
	// snapshot is one of them, not an interleaving.
	var books []*gutenberg.Book
	for i := 1; i <= 5; i++ {
		books = append(books, testBook(t, i, "same_author", "same_title", "body"))
	}
	if failures := store.Save(context.Background(), root, books); len(failures) != 0 {
		t.Fatalf("save failures: %v", failures)
	}

	loaded, err := store.Load(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected a single surviving snapshot, got %d", len(loaded))
	}
	if text, ok := loaded[0].Text(); !ok || text != "body" {
		t.Errorf("surviving snapshot corrupted: %q, %v", text, ok)
	}
}

func TestLoadMissingRoot(t *testing.T) {
	store := New(2)
	_, err := store.Load(context.Background(), filepath.Join(t.TempDir(), "absent"))
	if !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadEmptyRoot(t *testing.T) {
	store := New(2)
	books, err := store.Load(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("empty root should load cleanly: %v", err)
	}
	if len(books) != 0 {
		t.Errorf("expected no books, got %d", len(books))
	}
}

func TestLoadIgnoresForeignFiles(t *testing.T) {
	root := t.TempDir()
	store := New(2)

	if failures := store.Save(context.Background(), root,
		[]*gutenberg.Book{testBook(t, 1, "a", "b", "t")}); len(failures) != 0 {
		t.Fatal(failures)
	}

	// Stray files at the root and wrong extensions inside author
	// directories are skipped.
	if err := os.WriteFile(filepath.Join(root, "README.md"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "a", "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	books, err := store.Load(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}
	if len(books) != 1 {
		t.Errorf("expected 1 book, got %d", len(books))
	}
}

func TestLoadCorruptSnapshot(t *testing.T) {
	root := t.TempDir()
	store := New(2)

	dir := filepath.Join(root, "someone")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Load(context.Background(), root); err == nil {
		t.Error("expected an error for a corrupt snapshot")
	}
}

func TestBookPath(t *testing.T) {
	b := testBook(t, 1, "poe_edgar_allan", "the_raven", "")
	got := BookPath("/data", b)
	want := filepath.Join("/data", "poe_edgar_allan", "the_raven.json")
	if got != want {
		t.Errorf("BookPath = %q, want %q", got, want)
	}
}
