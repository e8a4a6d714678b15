package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Service exposes the collaborator tasks the pipeline escalates to.
// All methods return ErrUnavailable when no client is configured and
// degrade to looser parsing before giving up on malformed output.
type Service struct {
	client Client
	logger *zap.Logger
}

// NewService creates a task service over a client. A nil client means the
// collaborator is disabled.
func NewService(client Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, logger: logger}
}

// Enabled reports whether a collaborator client is configured
func (s *Service) Enabled() bool {
	return s != nil && s.client != nil
}

func (s *Service) complete(ctx context.Context, system, prompt string) (string, error) {
	if !s.Enabled() {
		return "", ErrUnavailable
	}
	return s.client.Complete(ctx, Request{
		System:      system,
		Prompt:      prompt,
		Temperature: 0.2, // Structured extraction wants focused output
	})
}

// ExternalClaim is a claim returned by the external classifier
type ExternalClaim struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// ClassifyClaims asks the collaborator to identify factual claims in a
// bounded text excerpt. Unparsable output degrades to quoted-fragment
// extraction and finally to an empty list.
func (s *Service) ClassifyClaims(ctx context.Context, excerpt string) ([]ExternalClaim, error) {
	prompt := fmt.Sprintf(`Identify the factual claims in the following article text.
Return ONLY a JSON array of objects: [{"text": "...", "confidence": 0.0-1.0}]
Confidence reflects how clearly the sentence asserts a checkable fact.

Text:
%s`, excerpt)

	raw, err := s.complete(ctx, "You extract factual claims from news text as strict JSON.", prompt)
	if err != nil {
		return nil, err
	}

	var claims []ExternalClaim
	if err := DecodeJSON(raw, &claims); err == nil {
		return validClaims(claims), nil
	}

	// Fragment strategy: every quoted string becomes a medium-confidence claim
	s.logger.Warn("claim classification response unparsable, using fragments")
	var out []ExternalClaim
	for _, text := range ExtractStrings(raw) {
		if len(text) >= 20 {
			out = append(out, ExternalClaim{Text: text, Confidence: 0.5})
		}
	}
	return out, nil
}

func validClaims(claims []ExternalClaim) []ExternalClaim {
	var out []ExternalClaim
	for _, c := range claims {
		c.Text = strings.TrimSpace(c.Text)
		if c.Text == "" {
			continue
		}
		if c.Confidence <= 0 || c.Confidence > 1 {
			c.Confidence = 0.5
		}
		out = append(out, c)
	}
	return out
}

// ExternalEntity mirrors model.Entity across the collaborator boundary
type ExternalEntity struct {
	Type  string `json:"type"`
	Value string `json:"value"`
	Unit  string `json:"unit,omitempty"`
}

// ExternalNormalization is the collaborator's canonical form of a claim
type ExternalNormalization struct {
	NormalizedClaim string           `json:"normalized_claim"`
	Entities        []ExternalEntity `json:"entities"`
	SearchQueries   []string         `json:"search_queries"`
	ClaimType       string           `json:"claim_type"`
	Confidence      float64          `json:"confidence"`
}

// NormalizeClaim asks the collaborator for a semantic normalization of a
// claim. Malformed output falls back to per-field regex extraction.
func (s *Service) NormalizeClaim(ctx context.Context, claim string) (*ExternalNormalization, error) {
	prompt := fmt.Sprintf(`Normalize this claim for fact-checking. Return ONLY JSON:
{"normalized_claim": "...", "entities": [{"type": "number|quote|proper_noun|scientific_term", "value": "...", "unit": "..."}],
 "search_queries": ["...", "..."], "claim_type": "health|political|scientific|environmental|economic|other", "confidence": 0.0-1.0}

Claim: %s`, claim)

	raw, err := s.complete(ctx, "You normalize factual claims as strict JSON.", prompt)
	if err != nil {
		return nil, err
	}

	var norm ExternalNormalization
	if err := DecodeJSON(raw, &norm); err == nil && norm.NormalizedClaim != "" {
		return &norm, nil
	}

	// Field-regex fallback
	s.logger.Warn("normalization response unparsable, using field extraction")
	norm = ExternalNormalization{
		NormalizedClaim: ExtractField(raw, "normalized_claim"),
		ClaimType:       ExtractField(raw, "claim_type"),
	}
	if conf, ok := ExtractNumberField(raw, "confidence"); ok {
		norm.Confidence = conf
	}
	if norm.NormalizedClaim == "" {
		return nil, ErrUnparsable
	}
	return &norm, nil
}

// EvidenceAssessment is the collaborator's judgement of how well a set of
// evidence excerpts supports a claim.
type EvidenceAssessment struct {
	Score       float64 `json:"score"` // 0-10
	Confidence  string  `json:"confidence"`
	Explanation string  `json:"explanation"`
}

// AssessEvidence asks the collaborator to score claim support given
// evidence excerpts.
func (s *Service) AssessEvidence(ctx context.Context, claim string, excerpts []string) (*EvidenceAssessment, error) {
	var sb strings.Builder
	for i, e := range excerpts {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&sb, "%d. %s\n", i+1, e)
	}

	prompt := fmt.Sprintf(`How well does this evidence support the claim?
Return ONLY JSON: {"score": 0-10, "confidence": "high|medium|low", "explanation": "..."}

Claim: %s

Evidence:
%s`, claim, sb.String())

	raw, err := s.complete(ctx, "You assess evidence support for claims as strict JSON.", prompt)
	if err != nil {
		return nil, err
	}

	var assessment EvidenceAssessment
	if err := DecodeJSON(raw, &assessment); err == nil {
		return clampAssessment(&assessment), nil
	}

	s.logger.Warn("evidence assessment response unparsable, using field extraction")
	if score, ok := ExtractNumberField(raw, "score"); ok {
		assessment = EvidenceAssessment{
			Score:       score,
			Confidence:  ExtractField(raw, "confidence"),
			Explanation: ExtractField(raw, "explanation"),
		}
		return clampAssessment(&assessment), nil
	}
	return nil, ErrUnparsable
}

func clampAssessment(a *EvidenceAssessment) *EvidenceAssessment {
	if a.Score < 0 {
		a.Score = 0
	}
	if a.Score > 10 {
		a.Score = 10
	}
	return a
}

// CoherenceAnalysis is the collaborator's manipulation-indicator report for
// the article text surrounding a claim.
type CoherenceAnalysis struct {
	Score       float64  `json:"score"` // 0-10, 10 = no red flags
	Flags       []string `json:"flags"`
	Explanation string   `json:"explanation"`
}

// AnalyzeCoherence asks the collaborator to scan surrounding article text
// for manipulation indicators.
func (s *Service) AnalyzeCoherence(ctx context.Context, claim, surrounding string) (*CoherenceAnalysis, error) {
	prompt := fmt.Sprintf(`Analyze this article text for manipulation indicators: sensational language,
unsupported extraordinary claims, vague attribution.
Return ONLY JSON: {"score": 0-10, "flags": ["..."], "explanation": "..."}
Score 10 means no red flags.

Claim under review: %s

Article text:
%s`, claim, surrounding)

	raw, err := s.complete(ctx, "You detect manipulation indicators in news text as strict JSON.", prompt)
	if err != nil {
		return nil, err
	}

	var analysis CoherenceAnalysis
	if err := DecodeJSON(raw, &analysis); err == nil {
		return &analysis, nil
	}

	s.logger.Warn("coherence response unparsable, using field extraction")
	if score, ok := ExtractNumberField(raw, "score"); ok {
		return &CoherenceAnalysis{
			Score:       score,
			Explanation: ExtractField(raw, "explanation"),
		}, nil
	}
	return nil, ErrUnparsable
}

// RelationshipVerdict classifies how an authoritative excerpt relates to a
// claim.
type RelationshipVerdict struct {
	Relationship string  `json:"relationship"` // supports, contradicts, tangential
	Confidence   float64 `json:"confidence"`
	Explanation  string  `json:"explanation"`
}

// ClassifyRelationship asks the collaborator whether an excerpt supports,
// contradicts, or is tangential to a claim.
func (s *Service) ClassifyRelationship(ctx context.Context, claim, excerpt string) (*RelationshipVerdict, error) {
	prompt := fmt.Sprintf(`Does this excerpt support, contradict, or only touch tangentially on the claim?
Return ONLY JSON: {"relationship": "supports|contradicts|tangential", "confidence": 0.0-1.0, "explanation": "..."}

Claim: %s

Excerpt: %s`, claim, excerpt)

	raw, err := s.complete(ctx, "You classify claim-evidence relationships as strict JSON.", prompt)
	if err != nil {
		return nil, err
	}

	var verdict RelationshipVerdict
	if err := DecodeJSON(raw, &verdict); err == nil && verdict.Relationship != "" {
		return &verdict, nil
	}

	s.logger.Warn("relationship response unparsable, using field extraction")
	rel := ExtractField(raw, "relationship")
	if rel == "" {
		return nil, ErrUnparsable
	}
	verdict = RelationshipVerdict{
		Relationship: rel,
		Explanation:  ExtractField(raw, "explanation"),
	}
	if conf, ok := ExtractNumberField(raw, "confidence"); ok {
		verdict.Confidence = conf
	}
	return &verdict, nil
}
