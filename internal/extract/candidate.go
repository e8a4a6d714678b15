// Package extract turns raw article text into a ranked list of claim
// candidates.
package extract

import (
	"regexp"
	"strings"

	"trustlens/internal/model"
)

// Signals is the structured record of which heuristics fired for a sentence
type Signals struct {
	FactualVerb bool    `json:"factual_verb"`
	ClaimMarker bool    `json:"claim_marker"`
	Percentage  bool    `json:"percentage"`
	LargeNumber bool    `json:"large_number"`
	NamedEntity bool    `json:"named_entity"`
	Date        bool    `json:"date"`
	Quote       bool    `json:"quote"`
	Opinion     bool    `json:"opinion"`
	Question    bool    `json:"question"`
	Structure   float64 `json:"structure"` // -1..1
}

// CandidateResult is the scorer's verdict on a single sentence
type CandidateResult struct {
	IsClaim    bool
	Confidence float64
	Signals    Signals
}

// CandidateScorer scores a sentence for claim-likeness using weighted
// heuristic signals. Pure and deterministic: no I/O, no hidden state.
type CandidateScorer struct {
	cfg model.ExtractionConfig
}

// NewCandidateScorer creates a scorer with the given configuration
func NewCandidateScorer(cfg model.ExtractionConfig) *CandidateScorer {
	return &CandidateScorer{cfg: cfg}
}

var factualVerbs = []string{
	"is", "are", "was", "were", "has", "have", "had",
	"found", "finds", "shows", "show", "showed", "shown",
	"announced", "confirmed", "reported", "revealed", "demonstrated",
	"proved", "discovered", "estimated", "measured", "recorded",
	"increased", "decreased", "reduced", "reduces", "caused", "causes",
}

var claimMarkers = []string{
	"according to", "studies show", "study shows", "research shows",
	"research suggests", "data reveals", "data shows", "data show",
	"scientists say", "experts say", "report finds", "survey found",
	"evidence suggests", "statistics show", "analysis shows",
}

var opinionMarkers = []string{
	"i believe", "i think", "in my opinion", "we believe", "arguably",
	"it seems", "seemingly", "probably", "perhaps", "allegedly",
	"some say", "many feel",
}

var prepositions = []string{" of ", " in ", " by ", " from ", " with ", " during ", " among "}

var (
	rePercentage  = regexp.MustCompile(`\b\d+(?:\.\d+)?\s?(?:%|percent|per cent)`)
	reLargeNumber = regexp.MustCompile(`(?i)\b\d+(?:[.,]\d+)?\s?(?:hundred|thousand|million|billion|trillion)\b`)
	reDate        = regexp.MustCompile(`\b(?:1[89]|20)\d{2}\b|(?i)\b(?:january|february|march|april|may|june|july|august|september|october|november|december)\b`)
	reNamedEntity = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+\b`)
	reAllCapsWord = regexp.MustCompile(`\b[A-Z]{4,}\b`)
)

// Score evaluates one sentence. Sentences ending in "?" are never claims.
func (s *CandidateScorer) Score(sentence string) CandidateResult {
	trimmed := strings.TrimSpace(sentence)
	if trimmed == "" {
		return CandidateResult{}
	}

	if strings.HasSuffix(trimmed, "?") {
		return CandidateResult{Signals: Signals{Question: true}}
	}

	lower := strings.ToLower(trimmed)

	sig := Signals{
		FactualVerb: containsWord(lower, factualVerbs),
		ClaimMarker: containsPhrase(lower, claimMarkers),
		Percentage:  rePercentage.MatchString(trimmed),
		LargeNumber: reLargeNumber.MatchString(trimmed),
		NamedEntity: reNamedEntity.MatchString(trimmed),
		Date:        reDate.MatchString(trimmed),
		Quote:       strings.ContainsAny(trimmed, `"“”`),
		Opinion:     containsPhrase(lower, opinionMarkers),
		Structure:   structuralScore(trimmed, lower),
	}

	w := s.cfg.Weights
	raw := 0.0
	if sig.FactualVerb {
		raw += w.FactualVerb
	}
	if sig.ClaimMarker {
		raw += w.ClaimMarker
	}
	if sig.Percentage || sig.LargeNumber {
		raw += w.Percentage
	}
	if sig.NamedEntity {
		raw += w.NamedEntity
	}
	if sig.Date {
		raw += w.Date
	}
	if sig.Quote {
		raw += w.Quote
	}
	raw += sig.Structure * w.Structure

	// Cap before normalizing so sentences lighting up every signal do not
	// drift past 1.0.
	maxRaw := w.FactualVerb + w.ClaimMarker + w.Percentage + w.NamedEntity + w.Date + w.Quote + w.Structure
	if raw > maxRaw {
		raw = maxRaw
	}
	if raw < 0 {
		raw = 0
	}

	confidence := 0.0
	if maxRaw > 0 {
		confidence = raw / maxRaw
	}
	if sig.Opinion {
		confidence *= s.cfg.OpinionPenalty
	}

	secondary := 0
	if sig.Percentage || sig.LargeNumber {
		secondary++
	}
	if sig.NamedEntity {
		secondary++
	}
	if sig.Date {
		secondary++
	}
	if sig.Quote {
		secondary++
	}

	accepted := sig.FactualVerb || sig.ClaimMarker || sig.Percentage || sig.LargeNumber || secondary >= 2

	return CandidateResult{
		IsClaim:    accepted && confidence >= s.cfg.AcceptanceFloor,
		Confidence: confidence,
		Signals:    sig,
	}
}

// structuralScore rewards moderate length and clause structure, penalizes
// shouting and fragments. Result is in [-1, 1].
func structuralScore(sentence, lower string) float64 {
	score := 0.0

	words := len(strings.Fields(sentence))
	switch {
	case words >= 5 && words <= 30:
		score += 0.5
	case words < 5:
		score -= 0.5
	}

	if strings.Contains(sentence, ",") {
		score += 0.25
	}
	for _, prep := range prepositions {
		if strings.Contains(lower, prep) {
			score += 0.25
			break
		}
	}

	if strings.Count(sentence, "!") > 1 {
		score -= 0.5
	}
	if len(reAllCapsWord.FindAllString(sentence, -1)) >= 2 {
		score -= 0.5
	}

	if score > 1 {
		score = 1
	}
	if score < -1 {
		score = -1
	}
	return score
}

func containsWord(lower string, words []string) bool {
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '\'')
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	for _, w := range words {
		if _, ok := set[w]; ok {
			return true
		}
	}
	return false
}

func containsPhrase(lower string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
