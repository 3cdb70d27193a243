package features

// functionWords is the closed-class English word list used for the
// per-word relative frequency features and for stopword filtering in
// the semantic vocabulary. Relative frequencies of function words are
// among the oldest and most robust authorship signals.
var functionWords = []string{
	"a", "about", "above", "after", "again", "against", "all", "am",
	"an", "and", "any", "are", "as", "at", "be", "because", "been",
	"before", "being", "below", "between", "both", "but", "by", "can",
	"could", "did", "do", "does", "down", "during", "each", "few",
	"for", "from", "further", "had", "has", "have", "he", "her",
	"here", "hers", "him", "his", "how", "i", "if", "in", "into",
	"is", "it", "its", "just", "me", "more", "most", "my", "no",
	"nor", "not", "now", "of", "off", "on", "once", "only", "or",
	"other", "our", "ours", "out", "over", "own", "same", "she",
	"should", "so", "some", "such", "than", "that", "the", "their",
	"theirs", "them", "then", "there", "these", "they", "this",
	"those", "through", "to", "too", "under", "until", "up", "upon",
	"very", "was", "we", "were", "what", "when", "where", "which",
	"while", "who", "whom", "why", "will", "with", "would", "you",
	"your", "yours",
}

var functionWordSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(functionWords))
	for _, w := range functionWords {
		set[w] = struct{}{}
	}
	return set
}()

// isFunctionWord reports whether a normalized token is a closed-class
// word.
func isFunctionWord(token string) bool {
	_, ok := functionWordSet[token]
	return ok
}

// ExtractLexical computes vocabulary-level features of a chunk:
//
//	total_words       token count
//	unique_words      distinct token count
//	type_token_ratio  unique / total
//	avg_word_length   mean token length in runes
//	hapax_ratio       tokens occurring exactly once / total
//	fw_<word>         relative frequency of each function word
//
// A chunk with no tokens yields all zeros.
func ExtractLexical(a *Annotation) map[string]float64 {
	out := make(map[string]float64, 5+len(functionWords))

	counts := make(map[string]int, len(a.Tokens))
	runeTotal := 0
	for _, tok := range a.Tokens {
		counts[tok]++
		runeTotal += len([]rune(tok))
	}
	total := len(a.Tokens)

	hapax := 0
	for _, n := range counts {
		if n == 1 {
			hapax++
		}
	}

	out["total_words"] = float64(total)
	out["unique_words"] = float64(len(counts))
	out["type_token_ratio"] = 0
	out["avg_word_length"] = 0
	out["hapax_ratio"] = 0
	if total > 0 {
		out["type_token_ratio"] = float64(len(counts)) / float64(total)
		out["avg_word_length"] = float64(runeTotal) / float64(total)
		out["hapax_ratio"] = float64(hapax) / float64(total)
	}

	for _, fw := range functionWords {
		name := "fw_" + fw
		if total > 0 {
			out[name] = float64(counts[fw]) / float64(total)
		} else {
			out[name] = 0
		}
	}
	return out
}
