package model

import "time"

// ClaimReport is the per-claim tuple handed to consumers: the raw claim, its
// canonical form, the aggregate breakdown, an optional override, and the
// score a consumer should display.
type ClaimReport struct {
	Candidate  ClaimCandidate  `json:"candidate"`
	Normalized NormalizedClaim `json:"normalized"`
	Aggregate  AggregateScore  `json:"aggregate"`
	Override   *OverrideResult `json:"override,omitempty"`
	FinalScore int             `json:"final_score"`
}

// DisplayScore returns the override score when an override is present,
// otherwise the aggregate final score.
func (r *ClaimReport) DisplayScore() int {
	if r.Override != nil {
		return r.Override.Score
	}
	return r.Aggregate.Final
}

// DocumentReport is the complete analysis of one article
type DocumentReport struct {
	Domain     string        `json:"domain,omitempty"` // Originating domain, host-provided
	SourceURL  string        `json:"source_url,omitempty"`
	AnalyzedAt time.Time     `json:"analyzed_at"`
	Claims     []ClaimReport `json:"claims"`

	// Document-level extraction diagnostics
	SentenceCount       int     `json:"sentence_count"`
	ExtractorConfidence float64 `json:"extractor_confidence"` // Aggregate heuristic confidence
	ExternalUsed        bool    `json:"external_used"`        // Whether the external classifier ran
}
