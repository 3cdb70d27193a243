package features

import (
	"strings"

	"github.com/cognicore/stylo/pkg/stylo/textnorm"
)

// Word-length thresholds for the long/short word ratios.
const (
	longWordLen  = 6 // strictly longer counts as long
	shortWordLen = 3 // this length or shorter counts as short
)

// countSyllables estimates the syllables of a normalized word by
// counting vowel groups, discounting a silent final "e" and keeping a
// minimum of one. Heuristic, but consistent, which is what the
// readability deltas between authors need.
func countSyllables(word string) int {
	if word == "" {
		return 0
	}
	isVowel := func(r rune) bool {
		return strings.ContainsRune("aeiouy", r)
	}

	count := 0
	prevVowel := false
	for _, r := range word {
		v := isVowel(r)
		if v && !prevVowel {
			count++
		}
		prevVowel = v
	}
	if strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") && count > 1 {
		count--
	}
	if count < 1 {
		count = 1
	}
	return count
}

// ExtractStylometric computes readability and structure features:
//
//	flesch_reading_ease          206.835 - 1.015*W/S - 84.6*Sy/W
//	flesch_kincaid_grade         0.39*W/S + 11.8*Sy/W - 15.59
//	automated_readability_index  4.71*C/W + 0.5*W/S - 21.43
//	avg_sentence_length          mean tokens per sentence
//	avg_paragraph_length         mean sentences per paragraph
//	long_word_ratio              words longer than 6 characters / words
//	short_word_ratio             words of 3 characters or fewer / words
//
// W = words, S = sentences, Sy = syllables, C = letter characters.
// A chunk with no tokens yields all zeros.
func ExtractStylometric(a *Annotation) map[string]float64 {
	out := map[string]float64{
		"flesch_reading_ease":         0,
		"flesch_kincaid_grade":        0,
		"automated_readability_index": 0,
		"avg_sentence_length":         0,
		"avg_paragraph_length":        0,
		"long_word_ratio":             0,
		"short_word_ratio":            0,
	}

	words := a.Tokens
	if len(words) == 0 {
		return out
	}

	syllables := 0
	chars := 0
	long, short := 0, 0
	for _, w := range words {
		syllables += countSyllables(w)
		n := len([]rune(w))
		chars += n
		if n > longWordLen {
			long++
		}
		if n <= shortWordLen {
			short++
		}
	}

	sentences := len(a.Sentences)
	if sentences == 0 {
		sentences = 1
	}

	w := float64(len(words))
	s := float64(sentences)
	sy := float64(syllables)
	c := float64(chars)

	out["flesch_reading_ease"] = 206.835 - 1.015*(w/s) - 84.6*(sy/w)
	out["flesch_kincaid_grade"] = 0.39*(w/s) + 11.8*(sy/w) - 15.59
	out["automated_readability_index"] = 4.71*(c/w) + 0.5*(w/s) - 21.43
	out["avg_sentence_length"] = w / s
	out["long_word_ratio"] = float64(long) / w
	out["short_word_ratio"] = float64(short) / w

	if n := len(a.Paragraphs); n > 0 {
		total := 0
		for _, p := range a.Paragraphs {
			total += len(textnorm.Sentences(p))
		}
		out["avg_paragraph_length"] = float64(total) / float64(n)
	}
	return out
}
