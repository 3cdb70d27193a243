// Package gutenberg fetches book metadata and texts from a
// Gutendex-style bibliographic API and assembles them into Book
// values ready for storage and feature extraction.
package gutenberg

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/cognicore/stylo/pkg/stylo/internalerr"
	"github.com/cognicore/stylo/pkg/stylo/textnorm"
)

// AuthorRef is one entry of the metadata authors list.
type AuthorRef struct {
	Name string `json:"name"`
}

// Metadata is the raw metadata snapshot for a book. Only the fields
// the pipeline reads are decoded; everything else in the API response
// is ignored.
type Metadata struct {
	Title   string            `json:"title"`
	Authors []AuthorRef       `json:"authors"`
	Formats map[string]string `json:"formats"`
}

// htmlLabel marks the fallback download format. When no format label
// contains the configured text tag, an HTML format is used instead
// and its markup is stripped after download.
const htmlLabel = "text/html"

// Book is a single fetched book: an immutable ID, the metadata
// snapshot it was constructed from, and derived fields computed from
// the snapshot at most once. Text is realized separately through a
// Client and memoized, including a failed realization.
type Book struct {
	id   int
	meta Metadata

	author string // normalized, "" when metadata lists no authors
	title  string // normalized, "" when metadata has no title
	url    string // download URL, "" when no format matched
	html   bool   // url points at an HTML format

	mu       sync.Mutex
	realized bool
	text     string
}

// NewBook validates the ID and derives the author, title and
// download URL from the metadata snapshot. textTag selects the
// preferred format label.
func NewBook(id int, meta Metadata, textTag string) (*Book, error) {
	if id <= 0 {
		return nil, fmt.Errorf("book ID must be positive, got %d: %w",
			id, internalerr.ErrInvalidInput)
	}

	b := &Book{id: id, meta: meta}
	if len(meta.Authors) > 0 && meta.Authors[0].Name != "" {
		b.author = textnorm.Normalize(meta.Authors[0].Name)
	}
	if meta.Title != "" {
		b.title = textnorm.Normalize(meta.Title)
	}
	b.url, b.html = resolveFormat(meta.Formats, textTag)
	return b, nil
}

// resolveFormat picks the download URL: the first format whose label
// contains tag, falling back to an HTML format. Labels are scanned in
// sorted order so the choice is deterministic.
func resolveFormat(formats map[string]string, tag string) (url string, isHTML bool) {
	if len(formats) == 0 {
		return "", false
	}
	labels := make([]string, 0, len(formats))
	for label := range formats {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		if tag != "" && strings.Contains(label, tag) {
			return formats[label], strings.Contains(label, htmlLabel)
		}
	}
	for _, label := range labels {
		if strings.Contains(label, htmlLabel) {
			return formats[label], true
		}
	}
	return "", false
}

// ID returns the book's identifier. Always positive.
func (b *Book) ID() int { return b.id }

// Author returns the normalized first listed author, or "".
func (b *Book) Author() string { return b.author }

// Title returns the normalized title, or "".
func (b *Book) Title() string { return b.title }

// DownloadURL returns the resolved content URL, or "" when no format
// matched.
func (b *Book) DownloadURL() string { return b.url }

// Metadata returns the raw metadata snapshot.
func (b *Book) Metadata() Metadata { return b.meta }

// Text returns the realized text and whether realization succeeded.
// It never triggers a fetch; use Client.RealizeText for that.
func (b *Book) Text() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text, b.realized && b.text != ""
}

// Realized reports whether a realization attempt has happened,
// successful or not.
func (b *Book) Realized() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.realized
}

// setText records the outcome of a realization attempt. The first
// outcome wins; later calls are ignored so the field stays memoized.
func (b *Book) setText(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.realized {
		return
	}
	b.realized = true
	b.text = text
}

func (b *Book) String() string {
	return fmt.Sprintf("Book %d: %s by %s", b.id, b.title, b.author)
}

// Snapshot is the serialized form of a Book. The schema is explicit
// so persisted books stay readable and testable outside the process
// that wrote them.
type Snapshot struct {
	ID          int      `json:"id"`
	Author      string   `json:"author"`
	Title       string   `json:"title"`
	DownloadURL string   `json:"download_url,omitempty"`
	HTMLFormat  bool     `json:"html_format,omitempty"`
	Realized    bool     `json:"realized"`
	Text        string   `json:"text,omitempty"`
	Metadata    Metadata `json:"metadata"`
}

// Snapshot captures the book including any realized text, so a
// reload never has to re-fetch content that was already downloaded.
func (b *Book) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Snapshot{
		ID:          b.id,
		Author:      b.author,
		Title:       b.title,
		DownloadURL: b.url,
		HTMLFormat:  b.html,
		Realized:    b.realized,
		Text:        b.text,
		Metadata:    b.meta,
	}
}

// FromSnapshot rebuilds a Book from its serialized form.
func FromSnapshot(s Snapshot) (*Book, error) {
	if s.ID <= 0 {
		return nil, fmt.Errorf("snapshot book ID must be positive, got %d: %w",
			s.ID, internalerr.ErrInvalidInput)
	}
	return &Book{
		id:       s.ID,
		meta:     s.Metadata,
		author:   s.Author,
		title:    s.Title,
		url:      s.DownloadURL,
		html:     s.HTMLFormat,
		realized: s.Realized,
		text:     s.Text,
	}, nil
}
