package features

import (
	"math"
	"sort"
)

// DefaultVocabularySize caps the semantic vocabulary.
const DefaultVocabularySize = 1000

// SemanticModel holds corpus-level term statistics for TF-IDF
// features. It is fitted once over every chunk of the corpus and then
// applied per chunk; fitting and extraction are separate phases so
// the per-chunk extractors stay pure.
type SemanticModel struct {
	vocabulary []string
	df         map[string]int64
	totalDocs  int64
}

// FitSemantic builds the model from the corpus chunks. The
// vocabulary keeps the maxTerms highest-frequency terms, function
// words excluded; zero means DefaultVocabularySize.
func FitSemantic(chunks []*Annotation, maxTerms int) *SemanticModel {
	if maxTerms <= 0 {
		maxTerms = DefaultVocabularySize
	}

	df := make(map[string]int64)
	tf := make(map[string]int64)
	for _, a := range chunks {
		seen := make(map[string]struct{})
		for _, tok := range a.Tokens {
			if isFunctionWord(tok) {
				continue
			}
			tf[tok]++
			if _, ok := seen[tok]; !ok {
				seen[tok] = struct{}{}
				df[tok]++
			}
		}
	}

	terms := make([]string, 0, len(tf))
	for term := range tf {
		terms = append(terms, term)
	}
	// Highest corpus frequency first; ties broken alphabetically so
	// the vocabulary is deterministic.
	sort.Slice(terms, func(i, j int) bool {
		if tf[terms[i]] != tf[terms[j]] {
			return tf[terms[i]] > tf[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > maxTerms {
		terms = terms[:maxTerms]
	}

	return &SemanticModel{
		vocabulary: terms,
		df:         df,
		totalDocs:  int64(len(chunks)),
	}
}

// Vocabulary returns the selected terms, highest corpus frequency
// first.
func (m *SemanticModel) Vocabulary() []string {
	out := make([]string, len(m.vocabulary))
	copy(out, m.vocabulary)
	return out
}

// idf uses the smoothed form log((1+N)/(1+df)) + 1, which keeps
// every vocabulary term's weight positive.
func (m *SemanticModel) idf(term string) float64 {
	return math.Log(float64(1+m.totalDocs)/float64(1+m.df[term])) + 1
}

// Extract emits tfidf_<term> for every vocabulary term: relative
// term frequency in the chunk times the corpus IDF. Chunks with no
// tokens yield all zeros.
func (m *SemanticModel) Extract(a *Annotation) map[string]float64 {
	out := make(map[string]float64, len(m.vocabulary))

	counts := make(map[string]int64, len(a.Tokens))
	var total int64
	for _, tok := range a.Tokens {
		if isFunctionWord(tok) {
			continue
		}
		counts[tok]++
		total++
	}

	for _, term := range m.vocabulary {
		name := "tfidf_" + term
		if total == 0 || counts[term] == 0 {
			out[name] = 0
			continue
		}
		tf := float64(counts[term]) / float64(total)
		out[name] = tf * m.idf(term)
	}
	return out
}
