package analysis

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"flipfinder/internal/domain"
)

// Recognized weight option keys
const (
	OptionROIWeight    = "roi_weight"
	OptionMarginWeight = "margin_weight"
	OptionRepairWeight = "repair_weight"
	OptionRiskWeight   = "risk_weight"
	OptionMinROI       = "min_roi"
)

// Weights configures the relative importance of each scoring factor.
// Values are relative; they do not have to sum to 1.
type Weights struct {
	ROI    float64 // Return on investment
	Margin float64 // Absolute profit margin
	Repair float64 // Repair cost burden (lower cost scores higher)
	Risk   float64 // Project risk (lower risk scores higher)
}

// DefaultWeights mirror the profit-first weighting of the original tool
func DefaultWeights() Weights {
	return Weights{ROI: 0.30, Margin: 0.40, Repair: 0.15, Risk: 0.15}
}

// WeightsFromOptions builds Weights from a caller-supplied option map.
// All four weight keys must be present; a missing key is reported as
// ErrMissingWeight naming the offending option.
func WeightsFromOptions(opts map[string]float64) (Weights, error) {
	var w Weights
	for _, key := range []string{OptionROIWeight, OptionMarginWeight, OptionRepairWeight, OptionRiskWeight} {
		v, ok := opts[key]
		if !ok {
			return Weights{}, fmt.Errorf("%w: %s", ErrMissingWeight, key)
		}
		switch key {
		case OptionROIWeight:
			w.ROI = v
		case OptionMarginWeight:
			w.Margin = v
		case OptionRepairWeight:
			w.Repair = v
		case OptionRiskWeight:
			w.Risk = v
		}
	}
	return w, nil
}

// ScoreWithOptions scores a batch from a raw option map. A missing
// weight key unscores the whole batch: every deal comes back in Excluded
// carrying StatusMissingWeight and the error names the absent option.
// When min_roi is present it re-evaluates each ranked deal's Qualifies
// flag against it.
func ScoreWithOptions(deals []domain.Deal, opts map[string]float64, log zerolog.Logger) (Ranking, error) {
	weights, err := WeightsFromOptions(opts)
	if err != nil {
		var ranking Ranking
		for _, d := range deals {
			d.Status = domain.StatusMissingWeight
			ranking.Excluded = append(ranking.Excluded, d)
		}
		return ranking, err
	}

	ranking := NewScorer(weights, log).Score(deals)

	if minROI, ok := opts[OptionMinROI]; ok {
		for i := range ranking.Ranked {
			ranking.Ranked[i].Qualifies = ranking.Ranked[i].ROI >= minROI
		}
	}

	return ranking, nil
}

// Ranking is the scorer output. Ranked and Excluded together are a
// permutation of the input: no deal is lost or duplicated.
type Ranking struct {
	Ranked   []domain.Deal // Scored deals, best first
	Excluded []domain.Deal // Deals that could not be scored (bad input / no comps)
}

// Scorer assigns composite scores to analyzed deals and ranks them
type Scorer struct {
	weights Weights
	log     zerolog.Logger
}

// NewScorer creates a scorer with the given factor weights
func NewScorer(weights Weights, log zerolog.Logger) *Scorer {
	return &Scorer{
		weights: weights,
		log:     log.With().Str("component", "scorer").Logger(),
	}
}

// Score normalizes each factor to 0-1 across the batch via min-max,
// computes the weighted sum per deal and sorts descending. Ties are
// broken by higher ROI, then lower repair cost, so re-sorting an already
// ranked batch is a no-op.
//
// Deals with a non-ok status are moved to Excluded untouched. The input
// slice is not modified.
func (s *Scorer) Score(deals []domain.Deal) Ranking {
	var ranking Ranking
	for _, d := range deals {
		if d.Scored() {
			ranking.Ranked = append(ranking.Ranked, d)
		} else {
			ranking.Excluded = append(ranking.Excluded, d)
		}
	}

	if len(ranking.Ranked) == 0 {
		s.log.Warn().Int("excluded", len(ranking.Excluded)).Msg("No scorable deals in batch")
		return ranking
	}

	rois := factorRange(ranking.Ranked, func(d domain.Deal) float64 { return d.ROI })
	margins := factorRange(ranking.Ranked, func(d domain.Deal) float64 { return d.Profit })
	repairs := factorRange(ranking.Ranked, func(d domain.Deal) float64 { return d.Repairs.Total })
	risks := factorRange(ranking.Ranked, riskFactor)

	for i := range ranking.Ranked {
		d := &ranking.Ranked[i]
		score := s.weights.ROI*rois.normalize(d.ROI) +
			s.weights.Margin*margins.normalize(d.Profit) +
			// Repair cost and risk are inverted: cheaper and safer is better
			s.weights.Repair*(1-repairs.normalize(d.Repairs.Total)) +
			s.weights.Risk*(1-risks.normalize(riskFactor(*d)))
		d.Score = score
	}

	sort.SliceStable(ranking.Ranked, func(i, j int) bool {
		a, b := ranking.Ranked[i], ranking.Ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.ROI != b.ROI {
			return a.ROI > b.ROI
		}
		return a.Repairs.Total < b.Repairs.Total
	})

	for i := range ranking.Ranked {
		ranking.Ranked[i].Rank = i + 1
	}

	s.log.Info().
		Int("ranked", len(ranking.Ranked)).
		Int("excluded", len(ranking.Excluded)).
		Float64("top_score", ranking.Ranked[0].Score).
		Msg("Deals scored")

	return ranking
}

// riskFactor estimates project risk from the renovation scope and how
// long the listing has sat on the market. Both push risk up; the value
// is only meaningful relative to other deals in the batch.
func riskFactor(d domain.Deal) float64 {
	levelRisk := map[domain.RenovationLevel]float64{
		domain.LevelCosmetic:  0.25,
		domain.LevelModerate:  0.50,
		domain.LevelExtensive: 0.75,
		domain.LevelComplete:  1.00,
	}[d.Repairs.Level]

	domRisk := float64(d.Property.DaysOnMarket) / 180
	if domRisk > 1 {
		domRisk = 1
	}

	return 0.6*levelRisk + 0.4*domRisk
}

// valueRange holds min/max for min-max normalization of one factor
type valueRange struct {
	min, max float64
}

func factorRange(deals []domain.Deal, factor func(domain.Deal) float64) valueRange {
	r := valueRange{min: factor(deals[0]), max: factor(deals[0])}
	for _, d := range deals[1:] {
		v := factor(d)
		if v < r.min {
			r.min = v
		}
		if v > r.max {
			r.max = v
		}
	}
	return r
}

// normalize maps v into 0-1. A degenerate range (all values equal)
// contributes 0 so it cannot dominate the composite score.
func (r valueRange) normalize(v float64) float64 {
	if r.max == r.min {
		return 0
	}
	return (v - r.min) / (r.max - r.min)
}
