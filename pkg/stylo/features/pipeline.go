package features

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/cognicore/stylo/pkg/stylo/chunk"
)

// Source is one labeled document entering the pipeline. Text may be
// empty when content retrieval failed; the pipeline degrades to an
// empty (all-zero) feature row rather than dropping the labels.
type Source struct {
	Author string
	Title  string
	Text   string
}

// BuildOptions configures a dataset build.
type BuildOptions struct {
	// Groups selects the feature families; nil means DefaultGroups.
	Groups []Group

	// Split enables chunking. When false every document becomes a
	// single chunk spanning its whole text.
	Split bool

	// Chunker supplies the window geometry when Split is set; nil
	// means the default geometry.
	Chunker *chunk.Chunker

	// Workers bounds the extraction pool. Zero means one worker per
	// CPU. Extraction is CPU-bound, so this pool is sized separately
	// from the fetch/store I/O pools.
	Workers int

	// VocabularySize caps the semantic vocabulary when the semantic
	// group is requested. Zero means DefaultVocabularySize.
	VocabularySize int
}

// BuildDataset extracts the requested feature groups from every
// source and returns one row per chunk, labeled with the source's
// author and title. Documents are processed concurrently; rows are
// flattened in completion order, so row order across documents is
// not stable between runs. Callers needing a stable order sort by
// the label columns.
func BuildDataset(ctx context.Context, sources []Source, opts BuildOptions) (*Dataset, error) {
	groups := opts.Groups
	if len(groups) == 0 {
		groups = DefaultGroups()
	}

	chunker := opts.Chunker
	if opts.Split && chunker == nil {
		var err error
		chunker, err = chunk.New(chunk.DefaultSize, chunk.DefaultOverlap)
		if err != nil {
			return nil, err
		}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(sources) && len(sources) > 0 {
		workers = len(sources)
	}

	// Phase 1: chunk and annotate every document. Annotations are
	// shared by the semantic fit and the extraction phase, so each
	// chunk is tokenized exactly once.
	annotated, err := annotateAll(ctx, sources, chunker, opts.Split, workers)
	if err != nil {
		return nil, err
	}

	// Phase 2: fit the semantic model over the whole corpus if the
	// semantic group was requested.
	var semantic *SemanticModel
	for _, g := range groups {
		if g == GroupSemantic {
			var all []*Annotation
			for _, doc := range annotated {
				all = append(all, doc.chunks...)
			}
			semantic = FitSemantic(all, opts.VocabularySize)
			break
		}
	}

	extractors, err := Extractors(groups, semantic)
	if err != nil {
		return nil, err
	}

	// Phase 3: fan extraction out per document and flatten the rows
	// in completion order.
	jobs := make(chan annotatedDoc)
	results := make(chan []Row, len(annotated))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for doc := range jobs {
				rows := make([]Row, 0, len(doc.chunks))
				for _, a := range doc.chunks {
					rows = append(rows, Row{
						Author:   doc.author,
						Title:    doc.title,
						Features: Extract(a, extractors),
					})
				}
				results <- rows
			}
		}()
	}

	for _, doc := range annotated {
		select {
		case jobs <- doc:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("dataset build cancelled: %w", err)
	}

	var rows []Row
	for batch := range results {
		rows = append(rows, batch...)
	}
	return NewDataset(rows), nil
}

// annotatedDoc is one document after chunking and annotation.
type annotatedDoc struct {
	author string
	title  string
	chunks []*Annotation
}

func annotateAll(ctx context.Context, sources []Source, chunker *chunk.Chunker, split bool, workers int) ([]annotatedDoc, error) {
	if len(sources) == 0 {
		return nil, nil
	}

	out := make([]annotatedDoc, len(sources))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				src := sources[idx]
				var spans []string
				if split {
					spans = chunker.Split(src.Text)
				} else {
					// Whole document as one chunk; an empty text
					// still yields a labeled all-zero row.
					spans = []string{src.Text}
				}
				chunks := make([]*Annotation, len(spans))
				for i, span := range spans {
					chunks[i] = Annotate(span)
				}
				out[idx] = annotatedDoc{author: src.Author, title: src.Title, chunks: chunks}
			}
		}()
	}

	for idx := range sources {
		select {
		case jobs <- idx:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("annotation cancelled: %w", err)
	}
	return out, nil
}
