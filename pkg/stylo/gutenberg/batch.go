package gutenberg

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/cognicore/stylo/pkg/stylo/internalerr"
)

// Failure records one book that could not be fetched.
type Failure struct {
	ID  int
	Err error
}

// BatchResult is the outcome of a concurrent fetch. Books are in
// completion order, not submission order; callers that need the
// correspondence must match on ID, author or title. The batch policy
// is collect-all: one failed ID never aborts its siblings, and every
// failed ID is reported in Failures rather than dropped.
type BatchResult struct {
	Books      []*Book
	Failures   []Failure
	Unresolved []string // author names absent from configuration
}

// Err summarizes the failures, or returns nil when everything
// succeeded.
func (r *BatchResult) Err() error {
	if len(r.Failures) == 0 && len(r.Unresolved) == 0 {
		return nil
	}
	return fmt.Errorf("batch fetch: %d of %d books failed, %d authors unresolved: %w",
		len(r.Failures), len(r.Failures)+len(r.Books), len(r.Unresolved),
		internalerr.ErrRetrieval)
}

// FetchBooks fetches every ID concurrently over a bounded worker
// pool. Duplicates in ids are fetched again, matching the input
// contract. Context cancellation stops dispatching; IDs never
// dispatched are reported as failures with the context error.
func (c *Client) FetchBooks(ctx context.Context, ids []int) *BatchResult {
	res := &BatchResult{}
	if len(ids) == 0 {
		return res
	}

	workers := c.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(ids) {
		workers = len(ids)
	}

	type outcome struct {
		id   int
		book *Book
		err  error
	}

	jobs := make(chan int)
	results := make(chan outcome)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				book, err := c.FetchBook(ctx, id)
				results <- outcome{id: id, book: book, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, id := range ids {
			select {
			case jobs <- id:
			case <-ctx.Done():
				results <- outcome{id: id, err: ctx.Err()}
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	collected := 0
	for out := range results {
		collected++
		if out.err != nil {
			res.Failures = append(res.Failures, Failure{ID: out.id, Err: out.err})
		} else {
			res.Books = append(res.Books, out.book)
		}
		if collected == len(ids) {
			break
		}
	}
	// Drain any stragglers so the workers can exit.
	go func() {
		for range results {
		}
	}()

	return res
}

// FetchBooksByAuthors resolves each author's ID list from
// configuration and fetches the union concurrently. Authors missing
// from configuration are reported in Unresolved instead of being
// silently skipped.
func (c *Client) FetchBooksByAuthors(ctx context.Context, authors []string) *BatchResult {
	var ids []int
	var unresolved []string
	for _, author := range authors {
		list, ok := c.authors[author]
		if !ok {
			unresolved = append(unresolved, author)
			continue
		}
		ids = append(ids, list...)
	}

	res := c.FetchBooks(ctx, ids)
	res.Unresolved = unresolved
	return res
}

// RealizeTexts downloads the text of every book concurrently over the
// same bounded pool. Failures are soft and already memoized on the
// books; the returned count is how many books ended up with text.
func (c *Client) RealizeTexts(ctx context.Context, books []*Book) int {
	if len(books) == 0 {
		return 0
	}

	workers := c.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(books) {
		workers = len(books)
	}

	jobs := make(chan *Book)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for b := range jobs {
				// Errors are logged by RealizeText and recorded on
				// the book itself.
				_ = c.RealizeText(ctx, b)
			}
		}()
	}

	for _, b := range books {
		select {
		case jobs <- b:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(jobs)
	wg.Wait()

	realized := 0
	for _, b := range books {
		if _, ok := b.Text(); ok {
			realized++
		}
	}
	return realized
}
