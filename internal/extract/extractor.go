package extract

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"trustlens/internal/llm"
	"trustlens/internal/model"
	"trustlens/internal/textutil"
)

// Result is a full-document extraction outcome
type Result struct {
	Candidates          []model.ClaimCandidate
	SentenceCount       int
	AggregateConfidence float64
	ExternalUsed        bool
}

// Extractor runs segmentation and candidate scoring over a document and
// optionally escalates to the external classifier when heuristic confidence
// is low.
type Extractor struct {
	segmenter *textutil.Segmenter
	scorer    *CandidateScorer
	svc       *llm.Service
	cfg       model.ExtractionConfig
	logger    *zap.Logger
}

// NewExtractor creates an extractor. svc may be a disabled service; hybrid
// escalation then silently degrades to heuristic-only results.
func NewExtractor(cfg model.ExtractionConfig, svc *llm.Service, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		segmenter: textutil.NewSegmenter(cfg.MinSentenceLength),
		scorer:    NewCandidateScorer(cfg),
		svc:       svc,
		cfg:       cfg,
		logger:    logger,
	}
}

// Extract returns claim candidates ranked by confidence, truncated to the
// configured maximum. Malformed or empty input yields an empty result,
// never an error.
func (e *Extractor) Extract(ctx context.Context, doc string) Result {
	doc = strings.TrimSpace(doc)
	if len(doc) < e.cfg.MinSentenceLength {
		return Result{}
	}

	sentences := e.segmenter.Segment(doc)

	var candidates []model.ClaimCandidate
	statistical := 0
	highConfidence := 0

	for _, sentence := range sentences {
		res := e.scorer.Score(sentence)
		if res.Signals.Percentage || res.Signals.LargeNumber {
			statistical++
		}
		if !res.IsClaim {
			continue
		}

		candidates = append(candidates, model.ClaimCandidate{
			Text:       sentence,
			Confidence: res.Confidence,
			Method:     model.MethodHeuristic,
			Position:   strings.Index(doc, sentence),
		})
		if res.Confidence >= 0.6 {
			highConfidence++
		}
	}

	aggregate := aggregateConfidence(candidates, len(sentences), statistical, highConfidence)

	externalUsed := false
	if e.cfg.Hybrid && aggregate < e.cfg.HybridThreshold && e.svc.Enabled() {
		external := e.escalate(ctx, doc)
		if len(external) > 0 {
			candidates = mergeCandidates(candidates, external, e.cfg.DedupeSimilarity)
		}
		externalUsed = true
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
	if e.cfg.MaxClaims > 0 && len(candidates) > e.cfg.MaxClaims {
		candidates = candidates[:e.cfg.MaxClaims]
	}

	return Result{
		Candidates:          candidates,
		SentenceCount:       len(sentences),
		AggregateConfidence: aggregate,
		ExternalUsed:        externalUsed,
	}
}

// aggregateConfidence estimates how trustworthy the heuristic pass was for
// the whole document: mean claim confidence, bonus for statistical density
// and multiple strong claims, penalty for sparse extraction.
func aggregateConfidence(candidates []model.ClaimCandidate, sentences, statistical, highConfidence int) float64 {
	if len(candidates) == 0 || sentences == 0 {
		return 0
	}

	sum := 0.0
	for _, c := range candidates {
		sum += c.Confidence
	}
	confidence := sum / float64(len(candidates))

	if float64(statistical)/float64(sentences) > 0.2 {
		confidence += 0.1
	}
	if highConfidence >= 3 {
		confidence += 0.1
	}
	if len(candidates) < sentences/20 {
		confidence -= 0.2
	}

	if confidence > 1 {
		confidence = 1
	}
	if confidence < 0 {
		confidence = 0
	}
	return confidence
}

// escalate sends a bounded excerpt to the external classifier. Any failure
// degrades to an empty supplemental list.
func (e *Extractor) escalate(ctx context.Context, doc string) []model.ClaimCandidate {
	excerpt := doc
	if runes := []rune(doc); len(runes) > e.cfg.ExcerptLimit {
		excerpt = string(runes[:e.cfg.ExcerptLimit])
	}

	claims, err := e.svc.ClassifyClaims(ctx, excerpt)
	if err != nil {
		e.logger.Warn("external claim classification failed", zap.Error(err))
		return nil
	}

	out := make([]model.ClaimCandidate, 0, len(claims))
	for _, c := range claims {
		out = append(out, model.ClaimCandidate{
			Text:       c.Text,
			Confidence: c.Confidence,
			Method:     model.MethodExternal,
			Position:   strings.Index(doc, c.Text),
		})
	}
	return out
}

// mergeCandidates appends external candidates that are not near-duplicates
// of existing ones (token-set Jaccard above the threshold).
func mergeCandidates(existing, external []model.ClaimCandidate, threshold float64) []model.ClaimCandidate {
	merged := existing
	for _, candidate := range external {
		duplicate := false
		for _, have := range merged {
			if textutil.Jaccard(candidate.Text, have.Text) > threshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			merged = append(merged, candidate)
		}
	}
	return merged
}
