// Package stylo builds labeled feature datasets from public-domain
// texts for authorship analysis. It fetches books concurrently from a
// Gutendex-style API, caches them on disk partitioned by author,
// splits their texts into overlapping token windows, and extracts
// lexical, syntactic, stylometric and semantic feature vectors into
// one tabular dataset keyed by author and title.
package stylo

import (
	"context"

	"github.com/cognicore/stylo/pkg/stylo/chunk"
	"github.com/cognicore/stylo/pkg/stylo/config"
	"github.com/cognicore/stylo/pkg/stylo/features"
	"github.com/cognicore/stylo/pkg/stylo/gutenberg"
	"github.com/cognicore/stylo/pkg/stylo/storage"
)

// Stylo is the main pipeline facade, wiring the fetcher, the store
// and the feature pipeline behind one configuration value.
type Stylo struct {
	cfg    *config.Config
	client *gutenberg.Client
	store  *storage.Store
}

// Options configures a Stylo instance. Only Config is required;
// Client and Store default to instances built from it.
type Options struct {
	Config *config.Config
	Client *gutenberg.Client
	Store  *storage.Store
}

// New creates a Stylo instance with the given dependencies.
func New(opts Options) *Stylo {
	client := opts.Client
	if client == nil {
		client = gutenberg.NewClient(opts.Config)
	}
	store := opts.Store
	if store == nil {
		store = storage.New(opts.Config.Workers)
	}
	return &Stylo{cfg: opts.Config, client: client, store: store}
}

// FetchBooks fetches books by ID concurrently. See
// gutenberg.Client.FetchBooks for the batch contract.
func (s *Stylo) FetchBooks(ctx context.Context, ids []int) *gutenberg.BatchResult {
	return s.client.FetchBooks(ctx, ids)
}

// FetchBooksByAuthors fetches the configured books of each author.
// Authors missing from configuration come back in Unresolved.
func (s *Stylo) FetchBooksByAuthors(ctx context.Context, authors []string) *gutenberg.BatchResult {
	return s.client.FetchBooksByAuthors(ctx, authors)
}

// RealizeTexts downloads the text body of every book concurrently
// and returns how many books ended up with text. Failures are soft
// and memoized per book.
func (s *Stylo) RealizeTexts(ctx context.Context, books []*gutenberg.Book) int {
	return s.client.RealizeTexts(ctx, books)
}

// SaveBooks persists books under dir, one author directory each.
func (s *Stylo) SaveBooks(ctx context.Context, dir string, books []*gutenberg.Book) []storage.SaveFailure {
	return s.store.Save(ctx, dir, books)
}

// LoadBooks loads every cached book under dir.
func (s *Stylo) LoadBooks(ctx context.Context, dir string) ([]*gutenberg.Book, error) {
	return s.store.Load(ctx, dir)
}

// BuildOptions configures a dataset build through the facade.
type BuildOptions struct {
	// Groups selects the feature families; nil means the default
	// set.
	Groups []features.Group

	// DisableChunking forces whole-document rows even when the
	// configuration enables chunking.
	DisableChunking bool

	// VocabularySize caps the semantic vocabulary.
	VocabularySize int
}

// BuildDataset extracts features from the books into one labeled
// dataset, one row per chunk. Window geometry and the compute pool
// size come from the configuration.
func (s *Stylo) BuildDataset(ctx context.Context, books []*gutenberg.Book, opts BuildOptions) (*features.Dataset, error) {
	split := s.cfg.Chunking.Enabled && !opts.DisableChunking

	var chunker *chunk.Chunker
	if split {
		var err error
		chunker, err = chunk.New(s.cfg.Chunking.Size, s.cfg.Chunking.Overlap)
		if err != nil {
			return nil, err
		}
	}

	return features.BuildDataset(ctx, Sources(books), features.BuildOptions{
		Groups:         opts.Groups,
		Split:          split,
		Chunker:        chunker,
		Workers:        s.cfg.Workers,
		VocabularySize: opts.VocabularySize,
	})
}

// Sources converts books into pipeline sources. Books whose text was
// never realized, or whose realization failed, contribute an empty
// text and keep their labels.
func Sources(books []*gutenberg.Book) []features.Source {
	out := make([]features.Source, len(books))
	for i, b := range books {
		text, _ := b.Text()
		out[i] = features.Source{
			Author: b.Author(),
			Title:  b.Title(),
			Text:   text,
		}
	}
	return out
}
