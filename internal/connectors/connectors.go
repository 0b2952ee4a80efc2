// Package connectors defines the contract shared by listing data sources
// and the opportunity-keyword extraction both of them apply to remarks.
package connectors

import (
	"context"
	"strings"

	"flipfinder/internal/domain"
)

// Criteria narrows a listing search. Zero values mean "no filter".
type Criteria struct {
	Area            string   // ZIP code or city name
	MaxPrice        float64  // Maximum list price
	MaxDaysOnMarket int      // Skip stale listings beyond this
	PropertyTypes   []string // e.g. Residential, Condo/Co-Op, Townhouse
}

// Source supplies property listings from one upstream system. The core
// pipeline does not care how the records are obtained; failures are
// surfaced as-is from the collaborator.
type Source interface {
	Name() string
	Fetch(ctx context.Context, criteria Criteria) ([]domain.Property, error)
}

// Enricher attaches additional data (comps, tax records) to a property
// fetched by a Source, returning the enriched copy.
type Enricher interface {
	Enrich(ctx context.Context, p domain.Property) (domain.Property, error)
}

// opportunityKeywords are listing-remark terms that hint at a motivated
// seller or a property priced for condition.
var opportunityKeywords = []string{
	"as-is", "fixer", "needs work", "handyman", "tlc", "potential", "opportunity",
	"estate sale", "foreclosure", "bank owned", "reo", "short sale", "distressed",
	"investor", "renovation", "remodel", "restore", "flip", "under market", "bargain",
	"motivated", "must sell", "bring offer", "priced to sell", "reduced",
}

// ExtractKeywords returns the opportunity keywords present in the given
// listing remarks, lowercased, in canonical order.
func ExtractKeywords(remarks string) []string {
	lowered := strings.ToLower(remarks)
	var found []string
	for _, term := range opportunityKeywords {
		if strings.Contains(lowered, term) {
			found = append(found, term)
		}
	}
	return found
}

// DefaultPropertyTypes are the listing categories searched when the
// caller does not narrow them.
func DefaultPropertyTypes() []string {
	return []string{"Residential", "Condo/Co-Op", "Townhouse"}
}
