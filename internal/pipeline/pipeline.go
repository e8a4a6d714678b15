// Package pipeline orchestrates the full claim-scoring flow: extraction,
// normalization, aggregate scoring, and override checking.
package pipeline

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"trustlens/internal/cache"
	"trustlens/internal/extract"
	"trustlens/internal/llm"
	"trustlens/internal/model"
	"trustlens/internal/normalize"
	"trustlens/internal/override"
	"trustlens/internal/score"
	"trustlens/internal/sources"
	"trustlens/internal/textutil"
	"trustlens/internal/worker"
)

// Deps carries the host-wired collaborators. Everything is optional: a
// zero Deps yields a heuristic-only pipeline with built-in credibility
// ratings and no override checking.
type Deps struct {
	LLM                  llm.Client
	FactCheckProviders   []sources.FactCheckProvider
	ScholarlyProviders   []sources.ScholarlyProvider
	CredibilityProviders []sources.CredibilityProvider
	AuthoritySearcher    override.AuthoritySearcher
	Cache                cache.Cache
	Logger               *zap.Logger
}

// Pipeline analyzes documents into per-claim trust scores
type Pipeline struct {
	cfg        *model.Config
	extractor  *extract.Extractor
	normalizer *normalize.Normalizer
	aggregator *score.Aggregator
	evaluator  *override.Evaluator
	logger     *zap.Logger
}

// New wires a pipeline from configuration and dependencies
func New(cfg *model.Config, deps Deps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	svc := llm.NewService(deps.LLM, logger)
	retryer := worker.NewRetryer(cfg.Retry)

	credProviders := deps.CredibilityProviders
	if credProviders == nil {
		credProviders = []sources.CredibilityProvider{
			sources.NewStaticCredibilityProvider("builtin", sources.DefaultCredibilityRatings()),
		}
	}

	srcs := []sources.Source{
		sources.NewFactChecker(deps.FactCheckProviders, retryer, logger),
		sources.NewScholarly(deps.ScholarlyProviders, svc, retryer, logger),
		sources.NewCredibility(credProviders, retryer, logger),
		sources.NewCoherence(svc, logger),
	}

	normTTL := time.Duration(cfg.Cache.NormTTLHours) * time.Hour

	return &Pipeline{
		cfg:        cfg,
		extractor:  extract.NewExtractor(cfg.Extraction, svc, logger),
		normalizer: normalize.NewNormalizer(cfg.Normalization, svc, deps.Cache, normTTL, logger),
		aggregator: score.NewAggregator(cfg.Sources, cfg.Retry, srcs, deps.Cache, logger),
		evaluator:  override.NewEvaluator(cfg.Override, deps.AuthoritySearcher, svc, logger),
		logger:     logger,
	}
}

// AnalyzeText runs the full pipeline over plain article text. Empty or
// malformed input yields a report with zero claims, never an error.
func (p *Pipeline) AnalyzeText(ctx context.Context, text, domain, sourceURL string) (*model.DocumentReport, error) {
	report := &model.DocumentReport{
		Domain:     domain,
		SourceURL:  sourceURL,
		AnalyzedAt: time.Now().UTC(),
		Claims:     []model.ClaimReport{},
	}

	if strings.TrimSpace(text) == "" {
		return report, nil
	}

	extraction := p.extractor.Extract(ctx, text)
	report.SentenceCount = extraction.SentenceCount
	report.ExtractorConfidence = extraction.AggregateConfidence
	report.ExternalUsed = extraction.ExternalUsed

	candidates := extraction.Candidates
	if len(candidates) == 0 {
		return report, nil
	}

	p.logger.Info("claims extracted",
		zap.Int("claims", len(candidates)),
		zap.Float64("aggregate_confidence", extraction.AggregateConfidence))

	batchSize := p.cfg.Batch.Size
	if batchSize <= 0 {
		batchSize = 5
	}

	results := make([]model.ClaimReport, len(candidates))
	processed := 0

	// Claims run in fixed-size batches; each batch settles completely
	// before the next is scheduled. Cancellation stops scheduling new
	// batches but lets the in-flight batch drain.
	for start := 0; start < len(candidates); start += batchSize {
		if ctx.Err() != nil {
			p.logger.Warn("analysis cancelled", zap.Int("processed", processed))
			break
		}

		end := start + batchSize
		if end > len(candidates) {
			end = len(candidates)
		}

		g := new(errgroup.Group)
		for i := start; i < end; i++ {
			idx := i
			g.Go(func() error {
				results[idx] = p.processClaim(ctx, text, domain, candidates[idx])
				return nil
			})
		}
		_ = g.Wait()
		processed = end
	}

	report.Claims = results[:processed]
	return report, nil
}

// AnalyzeHTML extracts visible text from HTML and analyzes it
func (p *Pipeline) AnalyzeHTML(ctx context.Context, htmlContent, domain, sourceURL string) (*model.DocumentReport, error) {
	text, err := textutil.ExtractText(htmlContent)
	if err != nil {
		p.logger.Warn("html parse failed, treating input as plain text", zap.Error(err))
		text = htmlContent
	}
	return p.AnalyzeText(ctx, text, domain, sourceURL)
}

// processClaim normalizes one claim, then runs aggregate scoring and the
// override check in parallel.
func (p *Pipeline) processClaim(ctx context.Context, docText, domain string, candidate model.ClaimCandidate) model.ClaimReport {
	normalized := p.normalizer.Normalize(ctx, candidate.Text)

	in := sources.Input{
		Claim:   normalized,
		Domain:  domain,
		Context: surrounding(docText, candidate),
	}

	var (
		aggregate model.AggregateScore
		ovr       *model.OverrideResult
		wg        sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		aggregate = p.aggregator.ScoreClaim(ctx, in)
	}()
	go func() {
		defer wg.Done()
		ovr = p.evaluator.Check(ctx, normalized)
	}()
	wg.Wait()

	report := model.ClaimReport{
		Candidate:  candidate,
		Normalized: normalized,
		Aggregate:  aggregate,
		Override:   ovr,
	}
	report.FinalScore = report.DisplayScore()
	return report
}

// surrounding returns a window of article text around the claim for the
// coherence adapter.
func surrounding(docText string, candidate model.ClaimCandidate) string {
	const window = 300

	if candidate.Position < 0 {
		if len(docText) > 2*window {
			return docText[:2*window]
		}
		return docText
	}

	start := candidate.Position - window
	if start < 0 {
		start = 0
	}
	end := candidate.Position + len(candidate.Text) + window
	if end > len(docText) {
		end = len(docText)
	}
	return docText[start:end]
}
