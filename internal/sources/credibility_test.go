package sources

import (
	"context"
	"testing"

	"trustlens/internal/model"
)

type fakeCredibility struct {
	name   string
	rating float64
	err    error
}

func (f *fakeCredibility) Name() string { return f.name }

func (f *fakeCredibility) Rate(_ context.Context, _ string) (float64, error) {
	return f.rating, f.err
}

func TestCredibility_AveragesResponders(t *testing.T) {
	providers := []CredibilityProvider{
		&fakeCredibility{name: "a", rating: 8},
		&fakeCredibility{name: "b", rating: 6},
	}

	c := NewCredibility(providers, testRetryer(), nil)
	in := claimInput("claim")
	in.Domain = "example.com"

	score, err := c.Query(context.Background(), in)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if score.Score != 7 {
		t.Errorf("Expected average 7, got %f", score.Score)
	}
	if score.Confidence != model.ConfidenceHigh {
		t.Errorf("Expected high confidence with all providers responding, got %s", score.Confidence)
	}
}

func TestCredibility_ConfidenceScalesWithResponders(t *testing.T) {
	providers := []CredibilityProvider{
		&fakeCredibility{name: "a", rating: 8},
		&fakeCredibility{name: "b", err: ErrUnrated},
	}

	c := NewCredibility(providers, testRetryer(), nil)
	in := claimInput("claim")
	in.Domain = "example.com"

	score, _ := c.Query(context.Background(), in)
	if score.Confidence != model.ConfidenceMedium {
		t.Errorf("Expected medium confidence at half coverage, got %s", score.Confidence)
	}
}

func TestCredibility_NoDomainUnavailable(t *testing.T) {
	c := NewCredibility([]CredibilityProvider{&fakeCredibility{name: "a", rating: 8}}, testRetryer(), nil)

	score, err := c.Query(context.Background(), claimInput("claim"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !score.Unavailable {
		t.Error("Expected unavailable without an originating domain")
	}
}

func TestCredibility_AllUnratedUnavailable(t *testing.T) {
	c := NewCredibility([]CredibilityProvider{&fakeCredibility{name: "a", err: ErrUnrated}}, testRetryer(), nil)
	in := claimInput("claim")
	in.Domain = "unrated.example"

	score, _ := c.Query(context.Background(), in)
	if !score.Unavailable {
		t.Error("Expected unavailable when nobody rates the domain")
	}
	if score.Score != float64(model.NeutralScore) {
		t.Errorf("Expected neutral score, got %f", score.Score)
	}
}

func TestStaticCredibilityProvider_SuffixMatch(t *testing.T) {
	p := NewStaticCredibilityProvider("builtin", DefaultCredibilityRatings())

	if rating, err := p.Rate(context.Background(), "reuters.com"); err != nil || rating != 9.5 {
		t.Errorf("Expected 9.5 for reuters.com, got %f err=%v", rating, err)
	}
	if rating, err := p.Rate(context.Background(), "news.bbc.co.uk"); err != nil || rating != 9 {
		t.Errorf("Expected subdomain to match bbc.co.uk, got %f err=%v", rating, err)
	}
	if _, err := p.Rate(context.Background(), "unknown.example"); err != ErrUnrated {
		t.Errorf("Expected ErrUnrated, got %v", err)
	}
}

func TestNormalizeDomain(t *testing.T) {
	if got := normalizeDomain("  WWW.Example.COM "); got != "example.com" {
		t.Errorf("Expected example.com, got %q", got)
	}
}
