package analysis

import (
	"strings"
	"time"

	"flipfinder/internal/domain"
)

// Per-sqft renovation cost by level
var levelSqftCosts = map[domain.RenovationLevel]float64{
	domain.LevelCosmetic:  15,  // Paint, flooring, minor repairs
	domain.LevelModerate:  30,  // Some updating of kitchens/baths, some systems
	domain.LevelExtensive: 60,  // Major renovations, kitchen/bath remodels
	domain.LevelComplete:  100, // Complete gut and rebuild interior
}

// Line item costs for specific systems
const (
	roofRepairCost     = 2500
	roofReplaceCost    = 10000
	hvacRepairCost     = 1500
	hvacReplaceCost    = 8000
	electricalUpdate   = 5000
	plumbingUpdate     = 5000
	contingencyPercent = 0.10
	maxBathroomsCosted = 3
)

var kitchenCosts = map[domain.RenovationLevel]float64{
	domain.LevelModerate:  15000,
	domain.LevelExtensive: 15000,
	domain.LevelComplete:  30000, // High-end remodel for full gut jobs
}

var bathroomCosts = map[domain.RenovationLevel]float64{
	domain.LevelModerate:  7500,
	domain.LevelExtensive: 7500,
	domain.LevelComplete:  15000,
}

var extensiveIndicators = []string{
	"fixer", "needs work", "tlc", "handyman special", "distressed",
	"as-is", "needs renovation",
}

var moderateIndicators = []string{
	"dated", "original", "some updating", "could use", "older",
}

// EstimateRenovationLevel infers how much work a property needs from its
// age, listing description and opportunity keywords. The baseline comes
// from age and is pushed upward by keyword evidence, never downward.
func EstimateRenovationLevel(p domain.Property, asOf time.Time) domain.RenovationLevel {
	base := domain.LevelModerate
	if age, known := p.Age(asOf); known {
		switch {
		case age > 50:
			base = domain.LevelExtensive
		case age > 30:
			base = domain.LevelModerate
		default:
			base = domain.LevelCosmetic
		}
	}

	description := strings.ToLower(p.Description)

	seriousIssues := 0
	for _, system := range [][]string{
		{"roof", "leak"},
		{"hvac", "furnace", "cooling"},
		{"foundation", "structural"},
		{"electrical", "wiring"},
		{"plumbing", "pipes"},
	} {
		if containsAny(description, system) {
			seriousIssues++
		}
	}

	extensiveCount := countIndicators(description, p.Keywords, extensiveIndicators)
	moderateCount := countIndicators(description, p.Keywords, moderateIndicators)

	switch {
	case extensiveCount >= 2 || seriousIssues >= 2:
		return domain.LevelExtensive
	case extensiveCount >= 1 || moderateCount >= 2 || seriousIssues >= 1:
		if base == domain.LevelExtensive {
			return base
		}
		return domain.LevelModerate
	case moderateCount >= 1 && base == domain.LevelCosmetic:
		return domain.LevelModerate
	default:
		return base
	}
}

// EstimateRepairs produces an itemized renovation estimate: a per-sqft
// base cost for the inferred level, system line items driven by listing
// remarks and age, and a 10% contingency on the subtotal.
func EstimateRepairs(p domain.Property, asOf time.Time) domain.RepairEstimate {
	level := EstimateRenovationLevel(p, asOf)

	est := domain.RepairEstimate{
		Level:     level,
		BaseCost:  p.SquareFeet * levelSqftCosts[level],
		LineItems: map[string]float64{},
	}

	description := strings.ToLower(p.Description)

	// Roof: skip when the listing advertises a recent replacement
	if containsAny(description, []string{"roof", "leak", "ceiling"}) &&
		!containsAny(description, []string{"new roof", "roof replaced"}) {
		if containsAny(description, []string{"roof leak", "roof damage"}) {
			est.LineItems["roof"] = roofReplaceCost
		} else {
			est.LineItems["roof"] = roofRepairCost
		}
	}

	if containsAny(description, []string{"hvac", "furnace", "air conditioning", "cooling"}) &&
		!containsAny(description, []string{"new hvac", "new furnace"}) {
		if containsAny(description, []string{"hvac issue", "heating problem"}) {
			est.LineItems["hvac"] = hvacReplaceCost
		} else {
			est.LineItems["hvac"] = hvacRepairCost
		}
	}

	if cost, ok := kitchenCosts[level]; ok {
		est.LineItems["kitchen"] = cost
	}
	if cost, ok := bathroomCosts[level]; ok {
		baths := p.Bathrooms
		if baths > maxBathroomsCosted {
			baths = maxBathroomsCosted
		}
		if baths > 0 {
			est.LineItems["bathrooms"] = cost * baths
		}
	}

	// Older homes likely need electrical and plumbing brought up to code
	if age, known := p.Age(asOf); known && age > 30 {
		est.LineItems["electrical"] = electricalUpdate
		est.LineItems["plumbing"] = plumbingUpdate
	}

	subtotal := est.BaseCost
	for _, cost := range est.LineItems {
		subtotal += cost
	}
	est.Contingency = subtotal * contingencyPercent
	est.Total = subtotal + est.Contingency

	return est
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

// countIndicators counts indicator terms present in either the listing
// description or the extracted opportunity keywords.
func countIndicators(description string, keywords, indicators []string) int {
	count := 0
	for _, ind := range indicators {
		if strings.Contains(description, ind) {
			count++
			continue
		}
		for _, kw := range keywords {
			if strings.Contains(kw, ind) {
				count++
				break
			}
		}
	}
	return count
}
