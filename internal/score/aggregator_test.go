package score

import (
	"context"
	"errors"
	"testing"
	"time"

	"trustlens/internal/cache"
	"trustlens/internal/model"
	"trustlens/internal/sources"
)

type fakeSource struct {
	name  string
	score model.SourceScore
	err   error
	calls int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Query(_ context.Context, _ sources.Input) (model.SourceScore, error) {
	f.calls++
	return f.score, f.err
}

func testInput(text string) sources.Input {
	return sources.Input{
		Claim: model.NormalizedClaim{OriginalClaim: text, NormalizedClaim: text},
	}
}

func testConfig() model.SourcesConfig {
	cfg := model.DefaultConfig().Sources
	cfg.Enabled = nil // All sources
	return cfg
}

func TestAggregator_WeightedMean(t *testing.T) {
	srcs := []sources.Source{
		&fakeSource{name: model.SourceFactChecker, score: model.SourceScore{Score: 10, Confidence: model.ConfidenceHigh}},
		&fakeSource{name: model.SourceScholarly, score: model.SourceScore{Score: 5, Confidence: model.ConfidenceHigh}},
		&fakeSource{name: model.SourceCredibility, score: model.SourceScore{Score: 5, Confidence: model.ConfidenceHigh}},
		&fakeSource{name: model.SourceCoherence, score: model.SourceScore{Score: 5, Confidence: model.ConfidenceHigh}},
	}

	a := NewAggregator(testConfig(), model.RetryConfig{}, srcs, nil, nil)
	agg := a.ScoreClaim(context.Background(), testInput("claim"))

	// 10*.35 + 5*.30 + 5*.20 + 5*.15 = 6.75, rounds to 7
	if agg.Final != 7 {
		t.Errorf("Expected weighted mean 7, got %d", agg.Final)
	}
	if agg.Confidence != model.ConfidenceHigh {
		t.Errorf("Expected high confidence, got %s", agg.Confidence)
	}
	if len(agg.Components) != 4 {
		t.Errorf("Expected 4 components, got %d", len(agg.Components))
	}
}

func TestAggregator_RenormalizesOverAvailable(t *testing.T) {
	srcs := []sources.Source{
		&fakeSource{name: model.SourceFactChecker, score: model.SourceScore{Score: 9, Confidence: model.ConfidenceHigh}},
		&fakeSource{name: model.SourceScholarly, score: model.SourceScore{Score: model.NeutralScore, Unavailable: true, Confidence: model.ConfidenceLow}},
	}

	a := NewAggregator(testConfig(), model.RetryConfig{}, srcs, nil, nil)
	agg := a.ScoreClaim(context.Background(), testInput("claim"))

	// Only the fact checker participates, so its score carries fully
	if agg.Final != 9 {
		t.Errorf("Expected 9 with weights renormalized, got %d", agg.Final)
	}
}

func TestAggregator_AllFailNeutral(t *testing.T) {
	srcs := []sources.Source{
		&fakeSource{name: model.SourceFactChecker, err: errors.New("down")},
		&fakeSource{name: model.SourceScholarly, err: errors.New("down")},
		&fakeSource{name: model.SourceCredibility, err: errors.New("down")},
		&fakeSource{name: model.SourceCoherence, err: errors.New("down")},
	}

	a := NewAggregator(testConfig(), model.RetryConfig{}, srcs, nil, nil)
	agg := a.ScoreClaim(context.Background(), testInput("claim"))

	if agg.Final != model.NeutralScore {
		t.Errorf("Expected neutral score when every source fails, got %d", agg.Final)
	}
	if agg.Confidence != model.ConfidenceLow {
		t.Errorf("Expected low confidence, got %s", agg.Confidence)
	}
	if len(agg.Components) != 4 {
		t.Fatalf("Expected all components recorded, got %d", len(agg.Components))
	}
	for name, component := range agg.Components {
		if component.Error == "" {
			t.Errorf("Expected error recorded for %s", name)
		}
	}
}

func TestAggregator_BoundedOutput(t *testing.T) {
	srcs := []sources.Source{
		&fakeSource{name: model.SourceFactChecker, score: model.SourceScore{Score: 10, Confidence: model.ConfidenceHigh}},
		&fakeSource{name: model.SourceScholarly, score: model.SourceScore{Score: 10, Confidence: model.ConfidenceHigh}},
	}

	a := NewAggregator(testConfig(), model.RetryConfig{}, srcs, nil, nil)
	agg := a.ScoreClaim(context.Background(), testInput("claim"))
	if agg.Final < 0 || agg.Final > 10 {
		t.Errorf("Expected final score in [0,10], got %d", agg.Final)
	}
}

func TestAggregator_EnabledFilter(t *testing.T) {
	fact := &fakeSource{name: model.SourceFactChecker, score: model.SourceScore{Score: 10, Confidence: model.ConfidenceHigh}}
	coher := &fakeSource{name: model.SourceCoherence, score: model.SourceScore{Score: 2, Confidence: model.ConfidenceHigh}}

	cfg := testConfig()
	cfg.Enabled = map[string]bool{model.SourceFactChecker: true}

	a := NewAggregator(cfg, model.RetryConfig{}, []sources.Source{fact, coher}, nil, nil)
	agg := a.ScoreClaim(context.Background(), testInput("claim"))

	if coher.calls != 0 {
		t.Errorf("Expected disabled source skipped, got %d calls", coher.calls)
	}
	if len(agg.Components) != 1 {
		t.Errorf("Expected 1 component, got %d", len(agg.Components))
	}
}

func TestAggregator_BreakerSkipsFailingSource(t *testing.T) {
	src := &fakeSource{name: model.SourceFactChecker, err: errors.New("down")}
	retry := model.RetryConfig{BreakerTrips: 2, BreakerCoolS: 60}

	a := NewAggregator(testConfig(), retry, []sources.Source{src}, nil, nil)

	for i := 0; i < 5; i++ {
		agg := a.ScoreClaim(context.Background(), testInput("claim"))
		if agg.Final != model.NeutralScore {
			t.Fatalf("Expected neutral score on failure, got %d", agg.Final)
		}
	}

	// After two failures the breaker opens and stops calling the adapter
	if src.calls != 2 {
		t.Errorf("Expected 2 calls before the breaker opened, got %d", src.calls)
	}
}

func TestAggregator_CachesByClaim(t *testing.T) {
	src := &fakeSource{name: model.SourceFactChecker, score: model.SourceScore{Score: 8, Confidence: model.ConfidenceHigh}}
	store := cache.NewMemoryCache(time.Minute, time.Minute)

	a := NewAggregator(testConfig(), model.RetryConfig{}, []sources.Source{src}, store, nil)

	first := a.ScoreClaim(context.Background(), testInput("cached claim"))
	second := a.ScoreClaim(context.Background(), testInput("cached claim"))

	if src.calls != 1 {
		t.Errorf("Expected source queried once, got %d calls", src.calls)
	}
	if first.Final != second.Final {
		t.Errorf("Expected identical cached result, got %d vs %d", first.Final, second.Final)
	}
}
