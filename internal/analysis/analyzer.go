// Package analysis implements the financial core of the flip finder:
// ARV estimation from comparable sales, heuristic repair costing, the
// 70% rule, ROI computation and batch scoring/ranking of deals.
package analysis

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"flipfinder/internal/domain"
)

// AnalyzerConfig controls how deals are computed
type AnalyzerConfig struct {
	ARVMethod     ARVMethod // mean or median over comp price-per-sqft
	HoldingMonths float64   // Buy-renovate-sell cycle length
	MinROI        float64   // Minimum ROI percentage for a qualifying deal
}

// Analyzer turns Properties into Deals. It is a pure computation over its
// inputs: identical Property, configuration and reference time always
// produce an identical Deal (IDs aside).
type Analyzer struct {
	cfg  AnalyzerConfig
	asOf time.Time
	log  zerolog.Logger
}

// NewAnalyzer creates an analyzer. The reference time fixes "today" for
// age-based heuristics so a batch is internally consistent.
func NewAnalyzer(cfg AnalyzerConfig, asOf time.Time, log zerolog.Logger) *Analyzer {
	if cfg.ARVMethod == "" {
		cfg.ARVMethod = ARVMethodMean
	}
	if cfg.HoldingMonths <= 0 {
		cfg.HoldingMonths = DefaultHoldingMonths
	}
	return &Analyzer{
		cfg:  cfg,
		asOf: asOf,
		log:  log.With().Str("component", "analyzer").Logger(),
	}
}

// Analyze computes the full deal economics for one property.
//
// Bad data never fails the batch: properties with non-positive price or
// square footage produce a Deal with StatusInvalidInput, properties
// without usable comps produce StatusInsufficientComps. Both are
// excluded from ranking downstream but stay in the result set.
func (a *Analyzer) Analyze(p domain.Property) domain.Deal {
	deal := domain.Deal{
		ID:         uuid.NewString(),
		PropertyID: p.ID,
		Address:    p.FullAddress(),
		Status:     domain.StatusOK,
		AnalyzedAt: a.asOf,
		ListPrice:  p.ListPrice,
		Property:   p,
	}

	if p.ListPrice <= 0 || p.SquareFeet <= 0 {
		a.log.Warn().Str("property", p.ID).
			Float64("list_price", p.ListPrice).
			Float64("sqft", p.SquareFeet).
			Msg("Property has non-positive price or size, marking deal invalid")
		deal.Status = domain.StatusInvalidInput
		return deal
	}

	arv, err := EstimateARV(p, a.cfg.ARVMethod)
	if err != nil {
		if errors.Is(err, ErrInsufficientComparables) {
			a.log.Warn().Str("property", p.ID).Msg("No usable comparables, deal left unscored")
			deal.Status = domain.StatusInsufficientComps
			return deal
		}
		// EstimateARV only reports the comparables condition today; treat
		// anything else as invalid input rather than aborting the batch.
		deal.Status = domain.StatusInvalidInput
		return deal
	}

	deal.ARV = arv
	deal.Repairs = EstimateRepairs(p, a.asOf)
	deal.ClosingCosts = ClosingCosts(p.ListPrice, arv)
	deal.HoldingCosts = HoldingCosts(p.ListPrice, a.cfg.HoldingMonths)

	// Total cash invested: purchase + repairs + transaction + carrying costs.
	// ROI is profit over that total, as a percentage.
	deal.TotalInvestment = p.ListPrice + deal.Repairs.Total + deal.ClosingCosts + deal.HoldingCosts
	deal.Profit = arv - deal.TotalInvestment
	deal.ROI = deal.Profit / deal.TotalInvestment * 100

	// 70% rule: never pay more than 70% of ARV minus repair costs
	deal.MaxPurchasePrice = 0.70*arv - deal.Repairs.Total
	deal.Meets70Rule = p.ListPrice <= deal.MaxPurchasePrice
	deal.Qualifies = deal.ROI >= a.cfg.MinROI

	a.log.Debug().
		Str("address", deal.Address).
		Float64("arv", deal.ARV).
		Float64("repairs", deal.Repairs.Total).
		Float64("roi", deal.ROI).
		Bool("qualifies", deal.Qualifies).
		Msg("Deal analyzed")

	return deal
}

// AnalyzeBatch analyzes every property in the slice, preserving order
func (a *Analyzer) AnalyzeBatch(properties []domain.Property) []domain.Deal {
	deals := make([]domain.Deal, 0, len(properties))
	for _, p := range properties {
		deals = append(deals, a.Analyze(p))
	}
	return deals
}
