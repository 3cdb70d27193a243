package textnorm

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "title with spaces",
			input: "The Great Gatsby",
			want:  "the_great_gatsby",
		},
		{
			name:  "author with comma",
			input: "Poe, Edgar Allan",
			want:  "poe_edgar_allan",
		},
		{
			name:  "surrounding whitespace",
			input: "  Moby Dick  ",
			want:  "moby_dick",
		},
		{
			name:  "consecutive separators collapse",
			input: "Dickens,,  Charles",
			want:  "dickens_charles",
		},
		{
			name:  "already normalized",
			input: "ulysses",
			want:  "ulysses",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeContent(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "case folding",
			input: "The Quick BROWN Fox",
			want:  "the quick brown fox",
		},
		{
			name:  "punctuation removed in place",
			input: "don't stop, believing!",
			want:  "dont stop believing",
		},
		{
			name:  "digits dropped",
			input: "chapter 42 begins",
			want:  "chapter begins",
		},
		{
			name:  "whitespace collapsed",
			input: "one\t\ttwo\n\nthree",
			want:  "one two three",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeContent(tt.input); got != tt.want {
				t.Errorf("NormalizeContent(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSentences(t *testing.T) {
	got := Sentences("It was the best of times. It was the worst of times! Was it?")
	want := []string{
		"It was the best of times.",
		"It was the worst of times!",
		"Was it?",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Sentences() = %v, want %v", got, want)
	}
}

func TestSentencesNoTerminator(t *testing.T) {
	got := Sentences("no punctuation at all")
	if len(got) != 1 {
		t.Fatalf("expected a single sentence, got %d", len(got))
	}
}

func TestSentencesEmpty(t *testing.T) {
	if got := Sentences("   "); got != nil {
		t.Errorf("expected nil for blank input, got %v", got)
	}
}

func TestParagraphs(t *testing.T) {
	got := Paragraphs("first paragraph\n\n  \nsecond paragraph\n")
	if len(got) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d: %v", len(got), got)
	}
}
