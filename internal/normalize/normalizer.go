// Package normalize maps raw claim text to its canonical form: simplified
// text, extracted entities, search queries, and a claim-type classification.
package normalize

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"trustlens/internal/cache"
	"trustlens/internal/llm"
	"trustlens/internal/model"
)

// Normalizer derives NormalizedClaims, memoized by claim-text hash.
// Heuristics run first; the external collaborator is consulted only when
// they come up short.
type Normalizer struct {
	cfg    model.NormalizationConfig
	svc    *llm.Service
	store  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewNormalizer creates a normalizer. store may be nil to disable
// memoization; svc may be a disabled service.
func NewNormalizer(cfg model.NormalizationConfig, svc *llm.Service, store cache.Cache, ttl time.Duration, logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{
		cfg:    cfg,
		svc:    svc,
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

// Normalize converts claim text into its canonical form. Never fails: an
// empty claim yields an empty normalization typed "other".
func (n *Normalizer) Normalize(ctx context.Context, claimText string) model.NormalizedClaim {
	claimText = strings.TrimSpace(claimText)
	if claimText == "" {
		return model.NormalizedClaim{ClaimType: model.ClaimTypeOther}
	}

	key := cache.ClaimKey("norm", claimText)
	if n.store != nil {
		if data, ok := n.store.Get(key); ok {
			var cached model.NormalizedClaim
			if json.Unmarshal(data, &cached) == nil {
				return cached
			}
		}
	}

	norm := heuristicNormalize(claimText, n.cfg.MaxQueries)

	if (len(norm.Entities) == 0 || norm.Confidence < n.cfg.EscalationConfidence) && n.svc.Enabled() {
		external, err := n.svc.NormalizeClaim(ctx, claimText)
		if err != nil {
			n.logger.Warn("semantic normalization failed, keeping heuristic result", zap.Error(err))
		} else {
			norm = mergeNormalization(norm, external, n.cfg.MaxQueries)
		}
	}

	if n.store != nil {
		if data, err := json.Marshal(norm); err == nil {
			_ = n.store.Set(key, data, n.ttl)
		}
	}

	return norm
}

var fillerWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "that": {}, "this": {}, "these": {},
	"those": {}, "very": {}, "really": {}, "just": {}, "quite": {},
	"rather": {}, "somewhat": {}, "indeed": {}, "simply": {}, "also": {},
}

var scientificTerms = []string{
	"vaccine", "dna", "rna", "virus", "bacteria", "protein", "genome",
	"molecule", "enzyme", "antibody", "neuron", "quantum", "isotope",
	"radiation", "fossil", "species", "evolution", "photosynthesis",
}

var claimTypeKeywords = []struct {
	claimType model.ClaimType
	keywords  []string
}{
	{model.ClaimTypeHealth, []string{
		"vaccine", "disease", "hospital", "hospitalization", "cancer", "drug",
		"medical", "health", "virus", "patient", "treatment", "symptom",
		"infection", "clinical",
	}},
	{model.ClaimTypeScientific, []string{
		"study", "studies", "research", "scientist", "university", "physics",
		"biology", "earth", "species", "nasa", "experiment", "discovered",
		"laboratory", "galaxy", "planet",
	}},
	{model.ClaimTypeEnvironmental, []string{
		"climate", "warming", "emission", "emissions", "pollution", "carbon",
		"ocean", "forest", "wildlife", "deforestation", "renewable",
	}},
	{model.ClaimTypePolitical, []string{
		"election", "government", "president", "senator", "congress",
		"parliament", "policy", "vote", "voted", "legislation", "minister",
	}},
	{model.ClaimTypeEconomic, []string{
		"economy", "economic", "inflation", "gdp", "unemployment", "market",
		"price", "prices", "tax", "taxes", "trade", "wages", "revenue",
	}},
}

var (
	reNumberUnit = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(%|percent|hundred|thousand|million|billion|trillion|kg|km|miles?|years?)?`)
	reQuoted     = regexp.MustCompile(`"([^"]+)"|“([^”]+)”`)
	reProperNoun = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+\b`)
	rePunct      = regexp.MustCompile(`[^\p{L}\p{N}%.\s]`)
)

// heuristicNormalize is the closed-form normalization pass
func heuristicNormalize(claimText string, maxQueries int) model.NormalizedClaim {
	simplified := simplify(claimText)
	entities := extractEntities(claimText)
	claimType := classifyType(claimText)

	confidence := 0.4
	if n := len(entities); n > 2 {
		confidence += 0.3
	} else {
		confidence += 0.15 * float64(n)
	}
	if claimType != model.ClaimTypeOther {
		confidence += 0.15
	}

	return model.NormalizedClaim{
		OriginalClaim:   claimText,
		NormalizedClaim: simplified,
		Entities:        entities,
		SearchQueries:   buildQueries(claimText, simplified, entities, maxQueries),
		ClaimType:       claimType,
		Confidence:      confidence,
	}
}

// simplify lowercases, strips punctuation, and drops filler words. The
// result is never empty for non-empty input.
func simplify(text string) string {
	lower := strings.ToLower(rePunct.ReplaceAllString(text, " "))

	var kept []string
	for _, token := range strings.Fields(lower) {
		token = strings.Trim(token, ".")
		if token == "" {
			continue
		}
		if _, filler := fillerWords[token]; filler {
			continue
		}
		kept = append(kept, token)
	}

	if len(kept) == 0 {
		return strings.ToLower(strings.TrimSpace(text))
	}
	return strings.Join(kept, " ")
}

func extractEntities(text string) []model.Entity {
	var entities []model.Entity
	seen := make(map[string]bool)

	add := func(e model.Entity) {
		key := string(e.Type) + "|" + strings.ToLower(e.Value)
		if !seen[key] {
			seen[key] = true
			entities = append(entities, e)
		}
	}

	for _, m := range reNumberUnit.FindAllStringSubmatch(text, -1) {
		if m[1] == "" {
			continue
		}
		add(model.Entity{Type: model.EntityNumber, Value: m[1], Unit: strings.ToLower(m[2])})
	}

	for _, m := range reQuoted.FindAllStringSubmatch(text, -1) {
		quote := m[1]
		if quote == "" {
			quote = m[2]
		}
		add(model.Entity{Type: model.EntityQuote, Value: quote})
	}

	for _, m := range reProperNoun.FindAllString(text, -1) {
		add(model.Entity{Type: model.EntityProperNoun, Value: m})
	}

	lower := strings.ToLower(text)
	for _, term := range scientificTerms {
		if strings.Contains(lower, term) {
			add(model.Entity{Type: model.EntityScientificTerm, Value: term})
		}
	}

	return entities
}

// classifyType picks the keyword bucket with the most hits; ties go to the
// earlier bucket, no hits default to "other".
func classifyType(text string) model.ClaimType {
	lower := strings.ToLower(text)

	best := model.ClaimTypeOther
	bestHits := 0
	for _, bucket := range claimTypeKeywords {
		hits := 0
		for _, kw := range bucket.keywords {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		if hits > bestHits {
			bestHits = hits
			best = bucket.claimType
		}
	}
	return best
}

func buildQueries(original, simplified string, entities []model.Entity, maxQueries int) []string {
	if maxQueries <= 0 {
		maxQueries = 3
	}

	var queries []string
	seen := make(map[string]bool)
	add := func(q string) {
		q = strings.TrimSpace(q)
		if q == "" || seen[q] || len(queries) >= maxQueries {
			return
		}
		seen[q] = true
		queries = append(queries, q)
	}

	trimmed := original
	if len(trimmed) > 120 {
		trimmed = trimmed[:120]
	}
	add(trimmed)
	add(simplified)

	var terms []string
	for _, e := range entities {
		if e.Type == model.EntityProperNoun || e.Type == model.EntityNumber {
			value := e.Value
			if e.Unit != "" {
				value += " " + e.Unit
			}
			terms = append(terms, value)
		}
	}
	add(strings.Join(terms, " "))

	return queries
}

// mergeNormalization folds an external result into the heuristic one:
// entity union, max confidence, external fields preferred when present.
func mergeNormalization(heur model.NormalizedClaim, ext *llm.ExternalNormalization, maxQueries int) model.NormalizedClaim {
	merged := heur

	if ext.NormalizedClaim != "" {
		merged.NormalizedClaim = ext.NormalizedClaim
	}
	if t := parseClaimType(ext.ClaimType); t != "" {
		merged.ClaimType = t
	}
	if len(ext.SearchQueries) > 0 {
		queries := ext.SearchQueries
		if len(queries) > maxQueries {
			queries = queries[:maxQueries]
		}
		merged.SearchQueries = queries
	}
	if ext.Confidence > merged.Confidence {
		merged.Confidence = ext.Confidence
	}

	seen := make(map[string]bool, len(merged.Entities))
	for _, e := range merged.Entities {
		seen[string(e.Type)+"|"+strings.ToLower(e.Value)] = true
	}
	for _, e := range ext.Entities {
		entity := model.Entity{
			Type:  model.EntityType(e.Type),
			Value: e.Value,
			Unit:  e.Unit,
		}
		key := string(entity.Type) + "|" + strings.ToLower(entity.Value)
		if entity.Value != "" && !seen[key] {
			seen[key] = true
			merged.Entities = append(merged.Entities, entity)
		}
	}

	return merged
}

func parseClaimType(raw string) model.ClaimType {
	switch model.ClaimType(strings.ToLower(strings.TrimSpace(raw))) {
	case model.ClaimTypeHealth:
		return model.ClaimTypeHealth
	case model.ClaimTypePolitical:
		return model.ClaimTypePolitical
	case model.ClaimTypeScientific:
		return model.ClaimTypeScientific
	case model.ClaimTypeEnvironmental:
		return model.ClaimTypeEnvironmental
	case model.ClaimTypeEconomic:
		return model.ClaimTypeEconomic
	case model.ClaimTypeOther:
		return model.ClaimTypeOther
	default:
		return ""
	}
}
