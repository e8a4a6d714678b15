package sources

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"trustlens/internal/model"
	"trustlens/internal/worker"
)

// Verdict is a fact-checking service's rating for a claim
type Verdict struct {
	Rating  string // Service vocabulary, e.g. "Mostly True", "Pants on Fire"
	URL     string
	Service string
}

// FactCheckProvider looks a claim up against one fact-checking service.
// A (nil, nil) return means no hit.
type FactCheckProvider interface {
	Name() string
	Lookup(ctx context.Context, query string) (*Verdict, error)
}

// verdictScale maps service verdict vocabularies onto the common 0-10 scale
var verdictScale = map[string]float64{
	"true":          10,
	"correct":       10,
	"accurate":      9,
	"mostly true":   8,
	"mostly correct": 8,
	"half true":     5,
	"half-true":     5,
	"mixture":       5,
	"mixed":         5,
	"unproven":      5,
	"unverified":    5,
	"misleading":    3,
	"mostly false":  2,
	"inaccurate":    2,
	"false":         1,
	"incorrect":     1,
	"pants on fire": 0,
	"fabricated":    0,
}

// MapVerdict translates a service rating into the common scale
func MapVerdict(rating string) (float64, bool) {
	score, ok := verdictScale[strings.ToLower(strings.TrimSpace(strings.TrimSuffix(rating, "!")))]
	return score, ok
}

// FactChecker queries fact-checking services in priority order, stopping at
// the first hit.
type FactChecker struct {
	providers []FactCheckProvider
	retryer   *worker.Retryer
	logger    *zap.Logger
}

// NewFactChecker creates the fact-checker adapter. Providers are tried in
// the given order.
func NewFactChecker(providers []FactCheckProvider, retryer *worker.Retryer, logger *zap.Logger) *FactChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FactChecker{
		providers: providers,
		retryer:   retryer,
		logger:    logger,
	}
}

// Name returns the adapter name
func (f *FactChecker) Name() string {
	return model.SourceFactChecker
}

// Query looks the claim up; no hit anywhere yields a neutral low-confidence
// score rather than an error.
func (f *FactChecker) Query(ctx context.Context, in Input) (model.SourceScore, error) {
	query := primaryQuery(in.Claim)

	for _, provider := range f.providers {
		var verdict *Verdict
		err := f.retryer.Do(ctx, func(ctx context.Context) error {
			var lookupErr error
			verdict, lookupErr = provider.Lookup(ctx, query)
			return lookupErr
		})
		if err != nil {
			f.logger.Warn("fact-check provider failed",
				zap.String("provider", provider.Name()), zap.Error(err))
			continue
		}
		if verdict == nil {
			continue
		}

		score, known := MapVerdict(verdict.Rating)
		if !known {
			f.logger.Warn("unknown verdict rating",
				zap.String("provider", provider.Name()), zap.String("rating", verdict.Rating))
			continue
		}

		return model.SourceScore{
			Source:      f.Name(),
			Score:       score,
			Confidence:  model.ConfidenceHigh,
			Explanation: fmt.Sprintf("%s rated this claim %q", verdict.Service, verdict.Rating),
			URL:         verdict.URL,
		}, nil
	}

	return model.SourceScore{
		Source:      f.Name(),
		Score:       model.NeutralScore,
		Confidence:  model.ConfidenceLow,
		Explanation: "no fact-check coverage found for this claim",
	}, nil
}
