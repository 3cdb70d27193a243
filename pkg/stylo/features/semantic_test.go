package features

import "testing"

func annotateAllChunks(texts ...string) []*Annotation {
	out := make([]*Annotation, len(texts))
	for i, s := range texts {
		out[i] = Annotate(s)
	}
	return out
}

func TestFitSemanticVocabulary(t *testing.T) {
	chunks := annotateAllChunks(
		"raven raven raven nevermore",
		"raven chamber door",
		"the the the the", // function words never enter the vocabulary
	)
	m := FitSemantic(chunks, 2)

	vocab := m.Vocabulary()
	if len(vocab) != 2 {
		t.Fatalf("vocabulary size = %d, want 2", len(vocab))
	}
	if vocab[0] != "raven" {
		t.Errorf("most frequent term should lead, got %v", vocab)
	}
	for _, term := range vocab {
		if isFunctionWord(term) {
			t.Errorf("function word %q in vocabulary", term)
		}
	}
}

func TestSemanticExtract(t *testing.T) {
	chunks := annotateAllChunks(
		"raven nevermore",
		"raven chamber",
	)
	m := FitSemantic(chunks, 0)

	got := m.Extract(chunks[0])
	if got["tfidf_raven"] <= 0 {
		t.Errorf("tfidf_raven = %v, want positive", got["tfidf_raven"])
	}
	if got["tfidf_chamber"] != 0 {
		t.Errorf("tfidf_chamber = %v, want 0 for a term absent from the chunk", got["tfidf_chamber"])
	}
	// "nevermore" appears in fewer chunks than "raven", so it weighs
	// more where it does appear.
	if got["tfidf_nevermore"] <= got["tfidf_raven"] {
		t.Errorf("rarer term should outweigh: nevermore=%v raven=%v",
			got["tfidf_nevermore"], got["tfidf_raven"])
	}
}

func TestSemanticExtractEmptyChunk(t *testing.T) {
	m := FitSemantic(annotateAllChunks("some corpus text"), 0)
	got := m.Extract(Annotate(""))
	for name, value := range got {
		if value != 0 {
			t.Errorf("%s = %v, want 0 for an empty chunk", name, value)
		}
	}
}

func TestFitSemanticDeterministic(t *testing.T) {
	chunks := annotateAllChunks("alpha beta", "beta gamma", "gamma alpha")
	first := FitSemantic(chunks, 10).Vocabulary()
	for i := 0; i < 10; i++ {
		if got := FitSemantic(chunks, 10).Vocabulary(); len(got) != len(first) {
			t.Fatal("vocabulary size unstable")
		} else {
			for j := range got {
				if got[j] != first[j] {
					t.Fatalf("vocabulary order unstable: %v vs %v", got, first)
				}
			}
		}
	}
}
