// Package score combines the evidence source adapters into one weighted
// trust score per claim.
package score

import (
	"context"
	"encoding/json"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"trustlens/internal/cache"
	"trustlens/internal/model"
	"trustlens/internal/sources"
	"trustlens/internal/worker"
)

// Aggregator runs all enabled adapters concurrently and folds their scores
// into an AggregateScore. Results are cached by claim-text hash. Each source
// sits behind its own circuit breaker so a persistently failing adapter is
// skipped instead of burning its timeout on every claim.
type Aggregator struct {
	cfg      model.SourcesConfig
	sources  []sources.Source
	breakers map[string]*worker.CircuitBreaker
	store    cache.Cache
	logger   *zap.Logger
	now      func() time.Time
}

// NewAggregator creates an aggregator. store may be nil to disable caching.
func NewAggregator(cfg model.SourcesConfig, retry model.RetryConfig, srcs []sources.Source, store cache.Cache, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}

	breakers := make(map[string]*worker.CircuitBreaker, len(srcs))
	cooldown := time.Duration(retry.BreakerCoolS) * time.Second
	for _, src := range srcs {
		breakers[src.Name()] = worker.NewCircuitBreaker(retry.BreakerTrips, cooldown)
	}

	return &Aggregator{
		cfg:      cfg,
		sources:  srcs,
		breakers: breakers,
		store:    store,
		logger:   logger,
		now:      time.Now,
	}
}

// ScoreClaim scores one normalized claim. Adapter failures become neutral
// component scores; the call itself never fails.
func (a *Aggregator) ScoreClaim(ctx context.Context, in sources.Input) model.AggregateScore {
	key := cache.ClaimKey("score", in.Claim.OriginalClaim)
	if a.store != nil {
		if data, ok := a.store.Get(key); ok {
			var cached model.AggregateScore
			if json.Unmarshal(data, &cached) == nil {
				return cached
			}
		}
	}

	enabled := a.enabledSources()

	// Every adapter settles (success or failure) before aggregation
	results := make([]model.SourceScore, len(enabled))
	var wg sync.WaitGroup
	for i, src := range enabled {
		wg.Add(1)
		go func(idx int, src sources.Source) {
			defer wg.Done()
			results[idx] = a.querySource(ctx, src, in)
		}(i, src)
	}
	wg.Wait()

	components := make(map[string]model.SourceScore, len(results))
	for _, result := range results {
		components[result.Source] = result
	}

	aggregate := model.AggregateScore{
		Components: components,
		Final:      a.finalScore(components),
		Confidence: overallConfidence(components),
		Timestamp:  a.now().UTC(),
	}

	if a.store != nil {
		if data, err := json.Marshal(aggregate); err == nil {
			ttl := time.Duration(a.cfg.CacheTTLHours) * time.Hour
			_ = a.store.Set(key, data, ttl)
		}
	}

	return aggregate
}

func (a *Aggregator) enabledSources() []sources.Source {
	if a.cfg.Enabled == nil {
		return a.sources
	}
	var enabled []sources.Source
	for _, src := range a.sources {
		if a.cfg.Enabled[src.Name()] {
			enabled = append(enabled, src)
		}
	}
	return enabled
}

// querySource runs one adapter under its own timeout, converting any
// failure into a neutral low-confidence score.
func (a *Aggregator) querySource(ctx context.Context, src sources.Source, in sources.Input) model.SourceScore {
	timeout := time.Duration(a.cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var result model.SourceScore
	err := a.breakers[src.Name()].Do(ctx, func(ctx context.Context) error {
		var queryErr error
		result, queryErr = src.Query(ctx, in)
		return queryErr
	})
	if err != nil {
		a.logger.Warn("evidence source failed",
			zap.String("source", src.Name()), zap.Error(err))
		return model.NeutralSourceScore(src.Name(), "source failed", err.Error())
	}
	result.Source = src.Name()
	return result
}

// finalScore is the weighted mean over sources that reported a numeric
// score, with weights renormalized over those sources. No reporters means
// neutral.
func (a *Aggregator) finalScore(components map[string]model.SourceScore) int {
	weightSum := 0.0
	scoreSum := 0.0
	for name, component := range components {
		if component.Unavailable || component.Error != "" {
			continue
		}
		weight, ok := a.cfg.Weights[name]
		if !ok {
			weight = 1
		}
		weightSum += weight
		scoreSum += component.Score * weight
	}

	if weightSum == 0 {
		return model.NeutralScore
	}
	return int(math.Round(scoreSum / weightSum))
}

// overallConfidence buckets the mean of per-source confidence weights
func overallConfidence(components map[string]model.SourceScore) model.Confidence {
	if len(components) == 0 {
		return model.ConfidenceLow
	}
	sum := 0.0
	for _, component := range components {
		sum += component.Confidence.Weight()
	}
	return model.BandFromMean(sum / float64(len(components)))
}
