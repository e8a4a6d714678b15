package model

import "time"

// Confidence is the coarse trust band attached to scores
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Weight maps a confidence band to its numeric value for averaging
func (c Confidence) Weight() float64 {
	switch c {
	case ConfidenceHigh:
		return 1.0
	case ConfidenceMedium:
		return 0.6
	default:
		return 0.3
	}
}

// BandFromMean buckets a mean confidence weight back into a band
func BandFromMean(mean float64) Confidence {
	switch {
	case mean >= 0.8:
		return ConfidenceHigh
	case mean >= 0.5:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// NeutralScore is the score assigned when no evidence source reported
const NeutralScore = 5

// SourceScore is one evidence source's verdict on a claim
type SourceScore struct {
	Source      string     `json:"source"`
	Score       float64    `json:"score"`       // 0-10, meaningless when Unavailable
	Unavailable bool       `json:"unavailable"` // Source produced no numeric score
	Confidence  Confidence `json:"confidence"`
	Explanation string     `json:"explanation"`
	URL         string     `json:"url,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// NeutralSourceScore builds the fallback score for a failed or empty source
func NeutralSourceScore(source, explanation, errMsg string) SourceScore {
	return SourceScore{
		Source:      source,
		Score:       NeutralScore,
		Unavailable: true,
		Confidence:  ConfidenceLow,
		Explanation: explanation,
		Error:       errMsg,
	}
}

// AggregateScore is the weighted combination of all enabled source scores
type AggregateScore struct {
	Components map[string]SourceScore `json:"components"`
	Final      int                    `json:"final"` // 0-10, integer-rounded weighted mean
	Confidence Confidence             `json:"confidence"`
	Timestamp  time.Time              `json:"timestamp"`
}

// Relationship classifies how an authoritative match relates to a claim
type Relationship string

const (
	RelationSupports    Relationship = "supports"
	RelationContradicts Relationship = "contradicts"
	RelationTangential  Relationship = "tangential"
)

// Score maps the relationship to the trust score it imposes
func (r Relationship) Score() int {
	switch r {
	case RelationSupports:
		return 9
	case RelationContradicts:
		return 2
	default:
		return NeutralScore
	}
}

// OverrideResult is an authoritative-source match that supersedes the
// aggregate score when present
type OverrideResult struct {
	Source       string       `json:"source"`
	URL          string       `json:"url"`
	Relationship Relationship `json:"relationship"`
	Confidence   float64      `json:"confidence"` // 0-1
	Explanation  string       `json:"explanation"`
	Score        int          `json:"score"` // Derived from Relationship
}
