// Package textutil holds the pure text primitives the pipeline is built on:
// sentence segmentation, token-set similarity, and HTML text extraction.
package textutil

import (
	"regexp"
	"strings"
)

// Segmenter splits raw article text into sentence-like units.
// It protects known abbreviations, decimals, and acronyms from producing
// false boundaries via a mark-and-restore strategy.
type Segmenter struct {
	minLen int
}

// NewSegmenter creates a segmenter that discards fragments shorter than minLen
func NewSegmenter(minLen int) *Segmenter {
	if minLen <= 0 {
		minLen = 15
	}
	return &Segmenter{minLen: minLen}
}

// dotMark temporarily replaces periods that are not sentence boundaries
const dotMark = "\x01"

var abbreviations = []string{
	"Dr.", "Mr.", "Mrs.", "Ms.", "Prof.", "Rev.", "Gen.", "Sen.", "Gov.",
	"Jr.", "Sr.", "St.", "Mt.", "Ft.",
	"U.S.", "U.K.", "U.N.", "E.U.", "D.C.",
	"e.g.", "i.e.", "etc.", "vs.", "cf.", "al.",
	"Inc.", "Ltd.", "Co.", "Corp.",
	"Fig.", "No.", "Vol.", "pp.", "approx.", "est.",
	"Jan.", "Feb.", "Mar.", "Apr.", "Jun.", "Jul.", "Aug.", "Sep.", "Sept.", "Oct.", "Nov.", "Dec.",
}

var (
	reDecimal = regexp.MustCompile(`(\d)\.(\d)`)
	reAcronym = regexp.MustCompile(`\b([A-Za-z])\.([A-Za-z])\.`)
)

// Segment splits text into sentences. Pure function: no state is retained
// between calls.
func (s *Segmenter) Segment(text string) []string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return nil
	}

	protected := protectDots(text)

	var sentences []string
	var current strings.Builder

	runes := []rune(protected)
	for i, r := range runes {
		current.WriteRune(r)

		if r != '.' && r != '!' && r != '?' {
			continue
		}
		// Boundary only at end of text or before a space
		if i+1 < len(runes) && runes[i+1] != ' ' {
			continue
		}

		if sent := s.finish(current.String()); sent != "" {
			sentences = append(sentences, sent)
		}
		current.Reset()
	}

	if sent := s.finish(current.String()); sent != "" {
		sentences = append(sentences, sent)
	}

	return sentences
}

func (s *Segmenter) finish(raw string) string {
	sent := strings.TrimSpace(restoreDots(raw))
	if len(sent) < s.minLen {
		return ""
	}
	return sent
}

func protectDots(text string) string {
	for _, abbr := range abbreviations {
		text = strings.ReplaceAll(text, abbr, strings.ReplaceAll(abbr, ".", dotMark))
	}

	// Decimals: a period between two digits is never a boundary
	text = reDecimal.ReplaceAllString(text, "$1"+dotMark+"$2")

	// Acronyms not covered by the list (single letter, dot, single letter).
	// Matches consume overlapping pairs, so loop until stable.
	for {
		next := reAcronym.ReplaceAllString(text, "$1"+dotMark+"$2"+dotMark)
		if next == text {
			break
		}
		text = next
	}

	return text
}

func restoreDots(text string) string {
	return strings.ReplaceAll(text, dotMark, ".")
}
