// Package textnorm provides the string normalization shared by the
// storage layer (filename generation) and the feature pipeline
// (content normalization before extraction).
package textnorm

import (
	"strings"
	"unicode"
)

// Normalize lowercases a label and collapses runs of commas and
// whitespace into single underscores. Used for author and title
// labels and the directory/file names derived from them.
//
// "The Great Gatsby" → "the_great_gatsby"
// "Poe, Edgar Allan" → "poe_edgar_allan"
func Normalize(s string) string {
	var b strings.Builder
	sep := false
	for _, r := range strings.TrimSpace(s) {
		if r == ',' || unicode.IsSpace(r) {
			sep = true
			continue
		}
		if sep && b.Len() > 0 {
			b.WriteByte('_')
		}
		sep = false
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// NormalizeContent prepares a text span for feature extraction:
// casefold, drop punctuation, symbols and digits, collapse whitespace.
func NormalizeContent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
		// Punctuation, digits and symbols are dropped outright, so
		// "don't" becomes "dont" rather than two tokens.
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Fields splits text into whitespace-separated tokens.
// Empty or all-whitespace input yields a nil slice.
func Fields(s string) []string {
	return strings.Fields(s)
}

// Sentences splits raw text into sentences on terminal punctuation.
// It is a boundary heuristic, not a full segmenter: runs of '.', '!'
// and '?' end a sentence. Text without terminal punctuation is a
// single sentence.
func Sentences(s string) []string {
	var out []string
	var b strings.Builder
	flush := func() {
		sent := strings.TrimSpace(b.String())
		if sent != "" {
			out = append(out, sent)
		}
		b.Reset()
	}
	term := false
	for _, r := range s {
		if r == '.' || r == '!' || r == '?' {
			b.WriteRune(r)
			term = true
			continue
		}
		if term && unicode.IsSpace(r) {
			flush()
			term = false
			continue
		}
		term = false
		b.WriteRune(r)
	}
	flush()
	return out
}

// Paragraphs splits raw text into non-empty newline-delimited blocks.
func Paragraphs(s string) []string {
	var out []string
	for _, p := range strings.Split(s, "\n") {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}
