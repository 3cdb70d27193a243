// Package features turns text chunks into named numeric feature
// vectors and aggregates them into a labeled tabular dataset for
// authorship analysis.
//
// Extractors are grouped into families (lexical, syntactic,
// stylometric, semantic). Every extractor is a pure function of the
// chunk annotation: deterministic, never panicking, and returning
// zero-valued defaults for a chunk with no tokens.
package features

import (
	"fmt"

	"github.com/cognicore/stylo/pkg/stylo/internalerr"
	"github.com/cognicore/stylo/pkg/stylo/textnorm"
)

// Group identifies a feature family.
type Group string

const (
	GroupLexical     Group = "lexical"
	GroupSyntactic   Group = "syntactic"
	GroupStylometric Group = "stylometric"
	GroupSemantic    Group = "semantic"
)

// DefaultGroups returns the families enabled when the caller does not
// choose. Semantic is opt-in because it needs a corpus-level fit
// before per-chunk extraction.
func DefaultGroups() []Group {
	return []Group{GroupLexical, GroupSyntactic, GroupStylometric}
}

// ParseGroup converts a name into a Group.
func ParseGroup(name string) (Group, error) {
	switch Group(name) {
	case GroupLexical, GroupSyntactic, GroupStylometric, GroupSemantic:
		return Group(name), nil
	}
	return "", fmt.Errorf("unknown feature group %q: %w", name, internalerr.ErrInvalidInput)
}

// Annotation is the per-chunk view extractors work from: the raw
// span, its normalized form, and the token, sentence and paragraph
// segmentations. Computed once per chunk and shared by all groups.
type Annotation struct {
	Raw        string
	Normalized string
	Tokens     []string // tokens of the normalized text
	Sentences  []string // sentences of the raw text
	Paragraphs []string // paragraphs of the raw text
}

// Annotate builds the annotation for one chunk.
func Annotate(raw string) *Annotation {
	normalized := textnorm.NormalizeContent(raw)
	return &Annotation{
		Raw:        raw,
		Normalized: normalized,
		Tokens:     textnorm.Fields(normalized),
		Sentences:  textnorm.Sentences(raw),
		Paragraphs: textnorm.Paragraphs(raw),
	}
}

// Extractor maps a chunk annotation to named numeric features.
type Extractor func(a *Annotation) map[string]float64

// Extractors resolves the extractor for each requested group. The
// semantic group needs a fitted model; requesting it without one is
// an input error.
func Extractors(groups []Group, semantic *SemanticModel) ([]Extractor, error) {
	if len(groups) == 0 {
		groups = DefaultGroups()
	}

	var out []Extractor
	for _, g := range groups {
		switch g {
		case GroupLexical:
			out = append(out, ExtractLexical)
		case GroupSyntactic:
			out = append(out, ExtractSyntactic)
		case GroupStylometric:
			out = append(out, ExtractStylometric)
		case GroupSemantic:
			if semantic == nil {
				return nil, fmt.Errorf("semantic group requires a fitted model: %w",
					internalerr.ErrInvalidInput)
			}
			out = append(out, semantic.Extract)
		default:
			return nil, fmt.Errorf("unknown feature group %q: %w", g, internalerr.ErrInvalidInput)
		}
	}
	return out, nil
}

// Extract runs the extractors over one chunk and merges their
// outputs. Later groups win on a name collision, which does not
// happen with the built-in families.
func Extract(a *Annotation, extractors []Extractor) map[string]float64 {
	merged := make(map[string]float64)
	for _, ex := range extractors {
		for name, value := range ex(a) {
			merged[name] = value
		}
	}
	return merged
}
