package features

import (
	"strings"

	"github.com/cognicore/stylo/pkg/stylo/textnorm"
)

// Part-of-speech classes emitted by the heuristic tagger. The tagger
// resolves closed classes from word lists and open classes from
// suffix shape; it is a coarse approximation whose value lies in
// relative frequencies being comparable across authors, not in
// per-token accuracy.
const (
	posDet   = "DET"
	posPron  = "PRON"
	posAdp   = "ADP"
	posConj  = "CONJ"
	posAux   = "AUX"
	posVerb  = "VERB"
	posAdv   = "ADV"
	posAdj   = "ADJ"
	posNoun  = "NOUN"
	posOther = "OTHER"
)

var posClosedClass = map[string]string{
	"the": posDet, "a": posDet, "an": posDet, "this": posDet,
	"that": posDet, "these": posDet, "those": posDet, "each": posDet,
	"every": posDet, "some": posDet, "any": posDet, "no": posDet,

	"i": posPron, "you": posPron, "he": posPron, "she": posPron,
	"it": posPron, "we": posPron, "they": posPron, "me": posPron,
	"him": posPron, "her": posPron, "us": posPron, "them": posPron,
	"my": posPron, "your": posPron, "his": posPron, "its": posPron,
	"our": posPron, "their": posPron, "who": posPron, "whom": posPron,
	"which": posPron, "what": posPron, "mine": posPron, "yours": posPron,
	"hers": posPron, "ours": posPron, "theirs": posPron,

	"in": posAdp, "on": posAdp, "at": posAdp, "by": posAdp,
	"for": posAdp, "with": posAdp, "about": posAdp, "against": posAdp,
	"between": posAdp, "into": posAdp, "through": posAdp, "during": posAdp,
	"before": posAdp, "after": posAdp, "above": posAdp, "below": posAdp,
	"to": posAdp, "from": posAdp, "up": posAdp, "down": posAdp,
	"of": posAdp, "off": posAdp, "over": posAdp, "under": posAdp,
	"upon": posAdp, "within": posAdp, "without": posAdp,

	"and": posConj, "but": posConj, "or": posConj, "nor": posConj,
	"so": posConj, "yet": posConj, "because": posConj, "although": posConj,
	"while": posConj, "if": posConj, "unless": posConj, "since": posConj,

	"is": posAux, "am": posAux, "are": posAux, "was": posAux,
	"were": posAux, "be": posAux, "been": posAux, "being": posAux,
	"have": posAux, "has": posAux, "had": posAux, "do": posAux,
	"does": posAux, "did": posAux, "will": posAux, "would": posAux,
	"shall": posAux, "should": posAux, "may": posAux, "might": posAux,
	"must": posAux, "can": posAux, "could": posAux,
}

// passiveAux are the "be" forms that open a passive construction.
var passiveAux = map[string]struct{}{
	"is": {}, "am": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "being": {}, "gets": {}, "got": {},
}

// tagToken assigns a POS class to a normalized token.
func tagToken(tok string) string {
	if tok == "" {
		return posOther
	}
	if class, ok := posClosedClass[tok]; ok {
		return class
	}
	switch {
	case strings.HasSuffix(tok, "ly"):
		return posAdv
	case strings.HasSuffix(tok, "ing"), strings.HasSuffix(tok, "ize"),
		strings.HasSuffix(tok, "ise"), strings.HasSuffix(tok, "ify"):
		return posVerb
	case strings.HasSuffix(tok, "ed"), strings.HasSuffix(tok, "en"):
		return posVerb
	case strings.HasSuffix(tok, "ous"), strings.HasSuffix(tok, "ful"),
		strings.HasSuffix(tok, "ive"), strings.HasSuffix(tok, "able"),
		strings.HasSuffix(tok, "ible"), strings.HasSuffix(tok, "al"),
		strings.HasSuffix(tok, "ic"), strings.HasSuffix(tok, "less"):
		return posAdj
	default:
		return posNoun
	}
}

// participleLike reports whether a token plausibly ends a passive
// construction ("was taken", "is carried").
func participleLike(tok string) bool {
	return strings.HasSuffix(tok, "ed") || strings.HasSuffix(tok, "en") ||
		strings.HasSuffix(tok, "wn") || strings.HasSuffix(tok, "ne")
}

// ExtractSyntactic computes sentence-structure features of a chunk:
//
//	avg_sentence_length_words  mean tokens per sentence
//	passive_voice_ratio        sentences with a passive construction / sentences
//	pos_<CLASS>                relative frequency of each POS class
//
// A chunk with no tokens yields all zeros.
func ExtractSyntactic(a *Annotation) map[string]float64 {
	out := map[string]float64{
		"avg_sentence_length_words": 0,
		"passive_voice_ratio":       0,
	}

	total := len(a.Tokens)
	if total > 0 {
		counts := make(map[string]int)
		for _, tok := range a.Tokens {
			counts[tagToken(tok)]++
		}
		for class, n := range counts {
			out["pos_"+class] = float64(n) / float64(total)
		}
	}

	if len(a.Sentences) == 0 {
		return out
	}

	tokenSum := 0
	passive := 0
	for _, sent := range a.Sentences {
		toks := textnorm.Fields(textnorm.NormalizeContent(sent))
		tokenSum += len(toks)
		if hasPassive(toks) {
			passive++
		}
	}
	out["avg_sentence_length_words"] = float64(tokenSum) / float64(len(a.Sentences))
	out["passive_voice_ratio"] = float64(passive) / float64(len(a.Sentences))
	return out
}

// hasPassive looks for a passive auxiliary followed by a
// participle-shaped word within the next two tokens, skipping one
// optional adverb ("was quickly taken").
func hasPassive(toks []string) bool {
	for i, tok := range toks {
		if _, ok := passiveAux[tok]; !ok {
			continue
		}
		for j := i + 1; j < len(toks) && j <= i+2; j++ {
			next := toks[j]
			if j == i+1 && strings.HasSuffix(next, "ly") {
				continue
			}
			if participleLike(next) && !isFunctionWord(next) {
				return true
			}
			break
		}
	}
	return false
}
