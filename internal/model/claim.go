package model

// ExtractionMethod records where a claim candidate came from
type ExtractionMethod string

const (
	MethodHeuristic ExtractionMethod = "heuristic" // Weighted-signal extraction
	MethodExternal  ExtractionMethod = "external"  // External classifier escalation
)

// ClaimCandidate is a sentence-level factual assertion found in article text
type ClaimCandidate struct {
	Text       string           `json:"text"`
	Confidence float64          `json:"confidence"` // Heuristic claim-likelihood, 0-1
	Method     ExtractionMethod `json:"method"`
	Position   int              `json:"position"` // Character offset in source document, -1 if unknown
}

// ClaimType categorizes the subject matter of a claim
type ClaimType string

const (
	ClaimTypeHealth        ClaimType = "health"
	ClaimTypePolitical     ClaimType = "political"
	ClaimTypeScientific    ClaimType = "scientific"
	ClaimTypeEnvironmental ClaimType = "environmental"
	ClaimTypeEconomic      ClaimType = "economic"
	ClaimTypeOther         ClaimType = "other"
)

// EntityType classifies an extracted entity
type EntityType string

const (
	EntityNumber         EntityType = "number"
	EntityQuote          EntityType = "quote"
	EntityProperNoun     EntityType = "proper_noun"
	EntityScientificTerm EntityType = "scientific_term"
)

// Entity is a structured token pulled out of a claim during normalization
type Entity struct {
	Type  EntityType `json:"type"`
	Value string     `json:"value"`
	Unit  string     `json:"unit,omitempty"` // For numbers: "%", "billion", "million", ...
}

// NormalizedClaim is the canonical form of a claim used for evidence lookup
type NormalizedClaim struct {
	OriginalClaim   string    `json:"original_claim"`
	NormalizedClaim string    `json:"normalized_claim"` // Lowercased, filler-word-reduced
	Entities        []Entity  `json:"entities"`
	SearchQueries   []string  `json:"search_queries"` // Up to 3 lookup variants
	ClaimType       ClaimType `json:"claim_type"`
	Confidence      float64   `json:"confidence"`
}
