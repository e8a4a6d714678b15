// Package override checks normalized claims against a small allowlist of
// authoritative domains; a sufficiently relevant match supersedes the
// aggregate score.
package override

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"trustlens/internal/llm"
	"trustlens/internal/model"
	"trustlens/internal/textutil"
)

// Match is an excerpt found on an authoritative domain
type Match struct {
	Excerpt string
	URL     string
}

// AuthoritySearcher searches one authoritative domain for text overlapping
// a claim. Implementations are external collaborators.
type AuthoritySearcher interface {
	Search(ctx context.Context, query, domain string) ([]Match, error)
}

// Evaluator finds authoritative overrides for claims
type Evaluator struct {
	cfg      model.OverrideConfig
	searcher AuthoritySearcher
	svc      *llm.Service
	logger   *zap.Logger
}

// NewEvaluator creates an override evaluator. A nil searcher disables
// override checking entirely.
func NewEvaluator(cfg model.OverrideConfig, searcher AuthoritySearcher, svc *llm.Service, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{
		cfg:      cfg,
		searcher: searcher,
		svc:      svc,
		logger:   logger,
	}
}

// Check searches the authoritative allowlist for a corroborating or
// contradicting match. Returns nil when no valid override exists.
func (e *Evaluator) Check(ctx context.Context, claim model.NormalizedClaim) *model.OverrideResult {
	if e.searcher == nil || claim.NormalizedClaim == "" {
		return nil
	}

	query := claim.NormalizedClaim
	if len(claim.SearchQueries) > 0 {
		query = claim.SearchQueries[0]
	}

	var best *model.OverrideResult
	for _, domain := range e.cfg.Domains {
		matches, err := e.searcher.Search(ctx, query, domain)
		if err != nil {
			e.logger.Warn("authority search failed",
				zap.String("domain", domain), zap.Error(err))
			continue
		}

		for _, match := range matches {
			relevance := textutil.Jaccard(claim.NormalizedClaim, match.Excerpt)
			if relevance < e.cfg.RelevanceFloor {
				continue
			}

			result, valid := e.classify(ctx, claim, match, relevance, domain)
			if !valid {
				continue
			}
			if best == nil || result.Confidence > best.Confidence {
				best = result
			}
		}
	}

	return best
}

// classify resolves the claim-match relationship, preferring the external
// classifier and falling back to the relevance-threshold heuristic.
func (e *Evaluator) classify(ctx context.Context, claim model.NormalizedClaim, match Match, relevance float64, domain string) (*model.OverrideResult, bool) {
	if e.svc.Enabled() {
		verdict, err := e.svc.ClassifyRelationship(ctx, claim.OriginalClaim, match.Excerpt)
		if err == nil {
			if verdict.Confidence < 0.5 {
				return nil, false
			}
			relationship := parseRelationship(verdict.Relationship)
			return &model.OverrideResult{
				Source:       domain,
				URL:          match.URL,
				Relationship: relationship,
				Confidence:   verdict.Confidence,
				Explanation:  verdict.Explanation,
				Score:        relationship.Score(),
			}, true
		}
		e.logger.Warn("relationship classification failed, using relevance heuristic", zap.Error(err))
	}

	if relevance <= e.cfg.ValidFloor {
		return nil, false
	}

	relationship := model.RelationTangential
	if relevance > e.cfg.SupportsFloor {
		relationship = model.RelationSupports
	}

	return &model.OverrideResult{
		Source:       domain,
		URL:          match.URL,
		Relationship: relationship,
		Confidence:   relevance,
		Explanation:  fmt.Sprintf("authoritative match on %s with relevance %.2f", domain, relevance),
		Score:        relationship.Score(),
	}, true
}

func parseRelationship(raw string) model.Relationship {
	switch model.Relationship(strings.ToLower(strings.TrimSpace(raw))) {
	case model.RelationSupports:
		return model.RelationSupports
	case model.RelationContradicts:
		return model.RelationContradicts
	default:
		return model.RelationTangential
	}
}
