// Package sources defines the evidence source adapters: independent signal
// providers that each contribute a 0-10 score and confidence for a claim.
package sources

import (
	"context"

	"trustlens/internal/model"
)

// Input is what adapters receive for one claim
type Input struct {
	Claim   model.NormalizedClaim
	Domain  string // Originating article domain, host-provided
	Context string // Surrounding article text
}

// Source is one independently failable evidence signal provider. A failure
// in one source must never abort the others; the aggregator converts
// returned errors into neutral scores.
type Source interface {
	Name() string
	Query(ctx context.Context, in Input) (model.SourceScore, error)
}

// primaryQuery picks the lookup string for a claim
func primaryQuery(claim model.NormalizedClaim) string {
	if len(claim.SearchQueries) > 0 {
		return claim.SearchQueries[0]
	}
	if claim.NormalizedClaim != "" {
		return claim.NormalizedClaim
	}
	return claim.OriginalClaim
}
