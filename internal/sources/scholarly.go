package sources

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"trustlens/internal/llm"
	"trustlens/internal/model"
	"trustlens/internal/textutil"
	"trustlens/internal/worker"
)

// EvidenceItem is one scholarly search hit
type EvidenceItem struct {
	Title   string
	Excerpt string
	URL     string
	Year    int // 0 if unknown
}

// ScholarlyProvider searches one academic or reference source.
// ClaimTypes limits which claims the provider is queried for; empty means
// all types (a medical-literature source lists only health).
type ScholarlyProvider interface {
	Name() string
	ClaimTypes() []model.ClaimType
	Search(ctx context.Context, query string) ([]EvidenceItem, error)
}

// Scholarly searches academic sources filtered by claim type and scores how
// well the evidence supports the claim, via the external assessor when
// available and a similarity-recency heuristic otherwise.
type Scholarly struct {
	providers []ScholarlyProvider
	svc       *llm.Service
	retryer   *worker.Retryer
	logger    *zap.Logger
	now       func() time.Time
}

// NewScholarly creates the scholarly adapter
func NewScholarly(providers []ScholarlyProvider, svc *llm.Service, retryer *worker.Retryer, logger *zap.Logger) *Scholarly {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scholarly{
		providers: providers,
		svc:       svc,
		retryer:   retryer,
		logger:    logger,
		now:       time.Now,
	}
}

// Name returns the adapter name
func (s *Scholarly) Name() string {
	return model.SourceScholarly
}

// Query gathers evidence from applicable providers and scores support
func (s *Scholarly) Query(ctx context.Context, in Input) (model.SourceScore, error) {
	query := primaryQuery(in.Claim)

	var evidence []EvidenceItem
	for _, provider := range s.providers {
		if !providerApplies(provider, in.Claim.ClaimType) {
			continue
		}

		var items []EvidenceItem
		err := s.retryer.Do(ctx, func(ctx context.Context) error {
			var searchErr error
			items, searchErr = provider.Search(ctx, query)
			return searchErr
		})
		if err != nil {
			s.logger.Warn("scholarly provider failed",
				zap.String("provider", provider.Name()), zap.Error(err))
			continue
		}
		evidence = append(evidence, items...)
	}

	if len(evidence) == 0 {
		return model.SourceScore{
			Source:      s.Name(),
			Score:       model.NeutralScore,
			Unavailable: true,
			Confidence:  model.ConfidenceLow,
			Explanation: "no scholarly evidence found",
		}, nil
	}

	// Rank by similarity to the claim before scoring
	sort.SliceStable(evidence, func(i, j int) bool {
		return textutil.Jaccard(in.Claim.NormalizedClaim, evidence[i].Excerpt) >
			textutil.Jaccard(in.Claim.NormalizedClaim, evidence[j].Excerpt)
	})

	if s.svc.Enabled() {
		if score, ok := s.assessExternally(ctx, in.Claim, evidence); ok {
			return score, nil
		}
	}

	return s.closedFormScore(in.Claim, evidence), nil
}

func providerApplies(provider ScholarlyProvider, claimType model.ClaimType) bool {
	types := provider.ClaimTypes()
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if t == claimType {
			return true
		}
	}
	return false
}

func (s *Scholarly) assessExternally(ctx context.Context, claim model.NormalizedClaim, evidence []EvidenceItem) (model.SourceScore, bool) {
	excerpts := make([]string, 0, len(evidence))
	for _, item := range evidence {
		excerpts = append(excerpts, item.Excerpt)
	}

	assessment, err := s.svc.AssessEvidence(ctx, claim.OriginalClaim, excerpts)
	if err != nil {
		s.logger.Warn("evidence assessment failed, using closed-form fallback", zap.Error(err))
		return model.SourceScore{}, false
	}

	confidence := model.ConfidenceMedium
	switch assessment.Confidence {
	case string(model.ConfidenceHigh):
		confidence = model.ConfidenceHigh
	case string(model.ConfidenceLow):
		confidence = model.ConfidenceLow
	}

	return model.SourceScore{
		Source:      s.Name(),
		Score:       assessment.Score,
		Confidence:  confidence,
		Explanation: assessment.Explanation,
		URL:         evidence[0].URL,
	}, true
}

// closedFormScore is the similarity-times-recency fallback: each item
// contributes Jaccard similarity scaled by how recent it is.
func (s *Scholarly) closedFormScore(claim model.NormalizedClaim, evidence []EvidenceItem) model.SourceScore {
	currentYear := s.now().Year()

	top := evidence
	if len(top) > 3 {
		top = top[:3]
	}

	sum := 0.0
	for _, item := range top {
		similarity := textutil.Jaccard(claim.NormalizedClaim, item.Excerpt)
		sum += similarity * recencyFactor(currentYear, item.Year)
	}
	support := sum / float64(len(top))

	confidence := model.ConfidenceLow
	if len(evidence) >= 3 {
		confidence = model.ConfidenceMedium
	}

	return model.SourceScore{
		Source:      s.Name(),
		Score:       support * 10,
		Confidence:  confidence,
		Explanation: fmt.Sprintf("%d scholarly results, similarity-recency support %.2f", len(evidence), support),
		URL:         evidence[0].URL,
	}
}

// recencyFactor decays 0.05 per year past the third, floored at 0.3
func recencyFactor(currentYear, year int) float64 {
	if year <= 0 {
		return 0.7 // Unknown age
	}
	age := currentYear - year
	if age <= 3 {
		return 1
	}
	factor := 1 - 0.05*float64(age-3)
	if factor < 0.3 {
		factor = 0.3
	}
	return factor
}
