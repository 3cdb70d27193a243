// Package chunk splits text into overlapping fixed-size token windows.
package chunk

import (
	"fmt"
	"strings"

	"github.com/cognicore/stylo/pkg/stylo/internalerr"
	"github.com/cognicore/stylo/pkg/stylo/textnorm"
)

// Default window geometry, in tokens.
const (
	DefaultSize    = 500
	DefaultOverlap = 100
)

// Chunker produces overlapping token windows. Window i starts at
// token index i*(Size-Overlap) and spans up to Size tokens; the last
// window keeps its ragged tail rather than being padded or dropped.
type Chunker struct {
	size    int
	overlap int
}

// New creates a chunker. Size must be positive and Overlap must be in
// [0, Size); otherwise the step would be zero or negative and the
// window sequence would never advance.
func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d: %w",
			size, internalerr.ErrInvalidInput)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d: %w",
			size, overlap, internalerr.ErrInvalidInput)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Size returns the window length in tokens.
func (c *Chunker) Size() int { return c.size }

// Overlap returns the number of tokens shared by consecutive windows.
func (c *Chunker) Overlap() int { return c.overlap }

// Split tokenizes text on whitespace and returns the windows, in
// order. Empty or all-whitespace input yields no windows.
func (c *Chunker) Split(text string) []string {
	tokens := textnorm.Fields(text)
	if len(tokens) == 0 {
		return nil
	}

	step := c.size - c.overlap
	var chunks []string
	for start := 0; start < len(tokens); start += step {
		end := start + c.size
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, strings.Join(tokens[start:end], " "))
		if end == len(tokens) {
			break
		}
	}
	return chunks
}
