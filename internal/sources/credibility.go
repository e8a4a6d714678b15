package sources

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"trustlens/internal/model"
	"trustlens/internal/worker"
)

// ErrUnrated is returned by providers that have no rating for a domain
var ErrUnrated = errors.New("domain not rated")

// CredibilityProvider rates the credibility of a publishing domain on the
// 0-10 scale.
type CredibilityProvider interface {
	Name() string
	Rate(ctx context.Context, domain string) (float64, error)
}

// Credibility resolves the credibility of the domain hosting the article,
// averaging whatever providers respond.
type Credibility struct {
	providers []CredibilityProvider
	retryer   *worker.Retryer
	logger    *zap.Logger
}

// NewCredibility creates the source-credibility adapter
func NewCredibility(providers []CredibilityProvider, retryer *worker.Retryer, logger *zap.Logger) *Credibility {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Credibility{
		providers: providers,
		retryer:   retryer,
		logger:    logger,
	}
}

// Name returns the adapter name
func (c *Credibility) Name() string {
	return model.SourceCredibility
}

// Query rates the article's domain. Confidence scales with how many
// providers responded.
func (c *Credibility) Query(ctx context.Context, in Input) (model.SourceScore, error) {
	domain := normalizeDomain(in.Domain)
	if domain == "" {
		return model.SourceScore{
			Source:      c.Name(),
			Score:       model.NeutralScore,
			Unavailable: true,
			Confidence:  model.ConfidenceLow,
			Explanation: "no originating domain provided",
		}, nil
	}

	responded := 0
	sum := 0.0
	for _, provider := range c.providers {
		var rating float64
		err := c.retryer.Do(ctx, func(ctx context.Context) error {
			var rateErr error
			rating, rateErr = provider.Rate(ctx, domain)
			return rateErr
		})
		if err != nil {
			if !errors.Is(err, ErrUnrated) {
				c.logger.Warn("credibility provider failed",
					zap.String("provider", provider.Name()), zap.Error(err))
			}
			continue
		}
		responded++
		sum += rating
	}

	if responded == 0 {
		return model.SourceScore{
			Source:      c.Name(),
			Score:       model.NeutralScore,
			Unavailable: true,
			Confidence:  model.ConfidenceLow,
			Explanation: fmt.Sprintf("no credibility rating available for %s", domain),
		}, nil
	}

	confidence := model.ConfidenceLow
	ratio := float64(responded) / float64(len(c.providers))
	switch {
	case ratio >= 0.75:
		confidence = model.ConfidenceHigh
	case ratio >= 0.5:
		confidence = model.ConfidenceMedium
	}

	return model.SourceScore{
		Source:      c.Name(),
		Score:       sum / float64(responded),
		Confidence:  confidence,
		Explanation: fmt.Sprintf("%d of %d providers rated %s", responded, len(c.providers), domain),
	}, nil
}

func normalizeDomain(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	domain = strings.TrimPrefix(domain, "www.")
	return domain
}

// StaticCredibilityProvider rates domains from a fixed table. Used as the
// built-in provider; external rating services plug in alongside it.
type StaticCredibilityProvider struct {
	name    string
	ratings map[string]float64
}

// NewStaticCredibilityProvider creates a table-backed provider
func NewStaticCredibilityProvider(name string, ratings map[string]float64) *StaticCredibilityProvider {
	return &StaticCredibilityProvider{name: name, ratings: ratings}
}

// DefaultCredibilityRatings is the built-in domain rating table
func DefaultCredibilityRatings() map[string]float64 {
	return map[string]float64{
		"reuters.com":     9.5,
		"apnews.com":      9.5,
		"bbc.com":         9,
		"bbc.co.uk":       9,
		"npr.org":         9,
		"nature.com":      9.5,
		"economist.com":   8.5,
		"nytimes.com":     8.5,
		"theguardian.com": 8.5,
		"wsj.com":         8.5,
		"washingtonpost.com": 8,
		"cnn.com":         7,
		"foxnews.com":     6,
		"nypost.com":      5,
		"dailymail.co.uk": 4,
		"breitbart.com":   3,
		"infowars.com":    1,
		"naturalnews.com": 1.5,
	}
}

// Name returns the provider name
func (p *StaticCredibilityProvider) Name() string {
	return p.name
}

// Rate returns the table rating for domain, matching registrable suffixes
// so sub.example.com resolves to example.com.
func (p *StaticCredibilityProvider) Rate(_ context.Context, domain string) (float64, error) {
	if rating, ok := p.ratings[domain]; ok {
		return rating, nil
	}
	for rated, rating := range p.ratings {
		if strings.HasSuffix(domain, "."+rated) {
			return rating, nil
		}
	}
	return 0, ErrUnrated
}
