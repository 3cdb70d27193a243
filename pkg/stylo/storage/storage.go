// Package storage persists fetched books to a directory tree
// partitioned by author and loads them back. One JSON snapshot file
// per book, named after the normalized title:
//
//	{root}/{author|"unknown"}/{title|"untitled"}.json
//
// Saves and loads run concurrently over a bounded worker pool and
// return results in completion order.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/cognicore/stylo/pkg/stylo/gutenberg"
	"github.com/cognicore/stylo/pkg/stylo/internalerr"
)

// Ext is the snapshot file extension. Load only picks up files that
// carry it.
const Ext = ".json"

// Fallback path components for books with incomplete metadata.
const (
	unknownAuthor = "unknown"
	untitled      = "untitled"
)

// Store reads and writes book snapshots under a root directory.
type Store struct {
	workers int

	// pathMu serializes writes per destination path. Two books that
	// normalize to the same author and title would otherwise race
	// with an undefined surviving snapshot.
	mu      sync.Mutex
	pathsMu map[string]*sync.Mutex
}

// New creates a store. workers bounds the save/load pool; zero means
// one worker per CPU.
func New(workers int) *Store {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Store{workers: workers, pathsMu: make(map[string]*sync.Mutex)}
}

// BookPath returns the snapshot path for a book under root.
func BookPath(root string, b *gutenberg.Book) string {
	author := b.Author()
	if author == "" {
		author = unknownAuthor
	}
	title := b.Title()
	if title == "" {
		title = untitled
	}
	return filepath.Join(root, author, title+Ext)
}

// SaveFailure records one book that could not be persisted.
type SaveFailure struct {
	ID   int
	Path string
	Err  error
}

// Save persists every book concurrently, creating author directories
// as needed. Each save is independent: a failure leaves the sibling
// files in place, so a partial batch failure produces a partially
// populated tree. All failures are collected and returned together.
func (s *Store) Save(ctx context.Context, root string, books []*gutenberg.Book) []SaveFailure {
	if len(books) == 0 {
		return nil
	}

	workers := s.workers
	if workers > len(books) {
		workers = len(books)
	}

	jobs := make(chan *gutenberg.Book)
	failures := make(chan SaveFailure, len(books))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for b := range jobs {
				if err := s.saveOne(root, b); err != nil {
					failures <- SaveFailure{ID: b.ID(), Path: BookPath(root, b), Err: err}
				}
			}
		}()
	}

	for _, b := range books {
		select {
		case jobs <- b:
		case <-ctx.Done():
			failures <- SaveFailure{ID: b.ID(), Err: ctx.Err()}
		}
	}
	close(jobs)
	wg.Wait()
	close(failures)

	var out []SaveFailure
	for f := range failures {
		out = append(out, f)
	}
	return out
}

func (s *Store) saveOne(root string, b *gutenberg.Book) error {
	path := BookPath(root, b)

	unlock := s.lockPath(path)
	defer unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create author directory: %w", err)
	}

	data, err := json.MarshalIndent(b.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode book %d: %w", b.ID(), err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write book %d: %w", b.ID(), err)
	}
	return nil
}

// lockPath acquires the per-path write lock and returns its release.
func (s *Store) lockPath(path string) func() {
	s.mu.Lock()
	m, ok := s.pathsMu[path]
	if !ok {
		m = &sync.Mutex{}
		s.pathsMu[path] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// Load reads every snapshot under root. A missing root fails with
// ErrNotFound before any work happens. Books come back in completion
// order; callers needing a stable order must sort by ID or labels.
func (s *Store) Load(ctx context.Context, root string) ([]*gutenberg.Book, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("store root %s: %w", root, internalerr.ErrNotFound)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("store root %s is not a directory: %w", root, internalerr.ErrNotFound)
	}

	paths, err := snapshotPaths(root)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, nil
	}

	workers := s.workers
	if workers > len(paths) {
		workers = len(paths)
	}

	type outcome struct {
		book *gutenberg.Book
		err  error
	}

	jobs := make(chan string)
	results := make(chan outcome, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				book, err := loadOne(path)
				results <- outcome{book: book, err: err}
			}
		}()
	}

	for _, path := range paths {
		select {
		case jobs <- path:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	var books []*gutenberg.Book
	for out := range results {
		if out.err != nil {
			return nil, out.err
		}
		books = append(books, out.book)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

// snapshotPaths enumerates immediate author subdirectories and the
// snapshot files inside them. Stray files at the root level are
// ignored.
func snapshotPaths(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(root, entry.Name()))
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			if f.IsDir() || filepath.Ext(f.Name()) != Ext {
				continue
			}
			paths = append(paths, filepath.Join(root, entry.Name(), f.Name()))
		}
	}
	return paths, nil
}

func loadOne(path string) (*gutenberg.Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}

	var snap gutenberg.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}

	book, err := gutenberg.FromSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}
	return book, nil
}
