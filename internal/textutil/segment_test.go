package textutil

import (
	"strings"
	"testing"
)

func TestSegmenter_BasicSplit(t *testing.T) {
	s := NewSegmenter(10)

	sentences := s.Segment("The vaccine reduced infections by half. The trial covered ten thousand people.")
	if len(sentences) != 2 {
		t.Fatalf("Expected 2 sentences, got %d: %v", len(sentences), sentences)
	}
	if !strings.HasSuffix(sentences[0], ".") {
		t.Errorf("Expected terminator kept on sentence, got %q", sentences[0])
	}
}

func TestSegmenter_Abbreviations(t *testing.T) {
	s := NewSegmenter(10)

	sentences := s.Segment("Dr. Smith confirmed the result. The U.S. economy grew again.")
	if len(sentences) != 2 {
		t.Fatalf("Expected 2 sentences, got %d: %v", len(sentences), sentences)
	}
	if !strings.Contains(sentences[0], "Dr. Smith") {
		t.Errorf("Expected abbreviation restored, got %q", sentences[0])
	}
	if !strings.Contains(sentences[1], "U.S.") {
		t.Errorf("Expected acronym restored, got %q", sentences[1])
	}
}

func TestSegmenter_Decimals(t *testing.T) {
	s := NewSegmenter(10)

	sentences := s.Segment("The planet is 4.5 billion years old. Nobody disputes this figure.")
	if len(sentences) != 2 {
		t.Fatalf("Expected 2 sentences, got %d: %v", len(sentences), sentences)
	}
	if !strings.Contains(sentences[0], "4.5 billion") {
		t.Errorf("Expected decimal preserved, got %q", sentences[0])
	}
}

func TestSegmenter_QuestionAndExclamation(t *testing.T) {
	s := NewSegmenter(10)

	sentences := s.Segment("Could this be true? The data says it is absolutely real!")
	if len(sentences) != 2 {
		t.Fatalf("Expected 2 sentences, got %d: %v", len(sentences), sentences)
	}
	if !strings.HasSuffix(sentences[0], "?") {
		t.Errorf("Expected question mark kept, got %q", sentences[0])
	}
}

func TestSegmenter_MinLengthFilter(t *testing.T) {
	s := NewSegmenter(15)

	sentences := s.Segment("Yes. The committee approved the proposal unanimously.")
	if len(sentences) != 1 {
		t.Fatalf("Expected short fragment dropped, got %d: %v", len(sentences), sentences)
	}
}

func TestSegmenter_EmptyInput(t *testing.T) {
	s := NewSegmenter(15)

	if got := s.Segment(""); got != nil {
		t.Errorf("Expected nil for empty input, got %v", got)
	}
	if got := s.Segment("   \n\t  "); got != nil {
		t.Errorf("Expected nil for whitespace input, got %v", got)
	}
}

func TestSegmenter_Deterministic(t *testing.T) {
	s := NewSegmenter(15)
	text := "Prof. Jones published on Jan. 5. The E.U. responded within 2.5 days. Markets moved fast."

	first := s.Segment(text)
	second := s.Segment(text)

	if len(first) != len(second) {
		t.Fatalf("Expected identical results, got %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Sentence %d differs: %q vs %q", i, first[i], second[i])
		}
	}
}
