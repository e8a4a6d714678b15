package sources

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"trustlens/internal/llm"
	"trustlens/internal/model"
)

// redFlag is a manipulation indicator pattern with a severity penalty
type redFlag struct {
	phrase   string
	severity float64
	kind     string
}

var redFlags = []redFlag{
	// Sensational language
	{"you won't believe", 1.5, "sensational"},
	{"shocking", 1.0, "sensational"},
	{"mind-blowing", 1.0, "sensational"},
	{"jaw-dropping", 1.0, "sensational"},
	{"the truth they don't want you to know", 2.0, "sensational"},
	{"wake up", 1.0, "sensational"},

	// Unsupported extraordinary claims
	{"100% effective", 1.5, "extraordinary"},
	{"miracle cure", 2.0, "extraordinary"},
	{"cures everything", 2.0, "extraordinary"},
	{"proves beyond doubt", 1.5, "extraordinary"},
	{"never before seen", 1.0, "extraordinary"},
	{"guaranteed", 1.0, "extraordinary"},

	// Vague attribution
	{"some people say", 1.0, "vague attribution"},
	{"many believe", 1.0, "vague attribution"},
	{"sources say", 0.5, "vague attribution"},
	{"it is said", 1.0, "vague attribution"},
	{"everyone knows", 1.5, "vague attribution"},
}

// Coherence analyzes surrounding article text for manipulation indicators,
// via the external analyzer when available and a red-flag phrase list
// otherwise.
type Coherence struct {
	svc    *llm.Service
	logger *zap.Logger
}

// NewCoherence creates the coherence adapter
func NewCoherence(svc *llm.Service, logger *zap.Logger) *Coherence {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coherence{svc: svc, logger: logger}
}

// Name returns the adapter name
func (c *Coherence) Name() string {
	return model.SourceCoherence
}

// Query scores the article context for manipulation indicators
func (c *Coherence) Query(ctx context.Context, in Input) (model.SourceScore, error) {
	text := in.Context
	if strings.TrimSpace(text) == "" {
		text = in.Claim.OriginalClaim
	}

	if c.svc.Enabled() {
		analysis, err := c.svc.AnalyzeCoherence(ctx, in.Claim.OriginalClaim, text)
		if err == nil {
			explanation := analysis.Explanation
			if explanation == "" && len(analysis.Flags) > 0 {
				explanation = "flags: " + strings.Join(analysis.Flags, "; ")
			}
			return model.SourceScore{
				Source:      c.Name(),
				Score:       clampScore(analysis.Score),
				Confidence:  model.ConfidenceMedium,
				Explanation: explanation,
			}, nil
		}
		c.logger.Warn("coherence analysis failed, using red-flag fallback", zap.Error(err))
	}

	return c.patternScore(text), nil
}

// patternScore is the closed-form fallback: penalize by flag count times
// severity.
func (c *Coherence) patternScore(text string) model.SourceScore {
	lower := strings.ToLower(text)

	penalty := 0.0
	var flagged []string
	for _, flag := range redFlags {
		count := strings.Count(lower, flag.phrase)
		if count == 0 {
			continue
		}
		penalty += float64(count) * flag.severity
		flagged = append(flagged, fmt.Sprintf("%s (%q)", flag.kind, flag.phrase))
	}

	explanation := "no manipulation indicators detected"
	if len(flagged) > 0 {
		explanation = "red flags: " + strings.Join(flagged, ", ")
	}

	return model.SourceScore{
		Source:      c.Name(),
		Score:       clampScore(10 - penalty),
		Confidence:  model.ConfidenceLow,
		Explanation: explanation,
	}
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}
