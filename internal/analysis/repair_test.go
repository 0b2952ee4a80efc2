package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"flipfinder/internal/domain"
)

var repairAsOf = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func TestEstimateRenovationLevel_ByAge(t *testing.T) {
	tests := []struct {
		name      string
		yearBuilt int
		want      domain.RenovationLevel
	}{
		{"new construction", 2020, domain.LevelCosmetic},
		{"forty years old", 1985, domain.LevelModerate},
		{"sixty years old", 1965, domain.LevelExtensive},
		{"unknown year defaults moderate", 0, domain.LevelModerate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := domain.Property{YearBuilt: tt.yearBuilt}
			assert.Equal(t, tt.want, EstimateRenovationLevel(p, repairAsOf))
		})
	}
}

func TestEstimateRenovationLevel_KeywordsPushUpward(t *testing.T) {
	// A young house described as a fixer with TLC needs goes extensive
	p := domain.Property{
		YearBuilt:   2015,
		Description: "Fixer upper, needs TLC throughout",
		Keywords:    []string{"fixer", "tlc"},
	}
	assert.Equal(t, domain.LevelExtensive, EstimateRenovationLevel(p, repairAsOf))
}

func TestEstimateRenovationLevel_SeriousIssuesEscalate(t *testing.T) {
	p := domain.Property{
		YearBuilt:   2015,
		Description: "Roof leak in the bedroom, foundation crack in basement",
	}
	assert.Equal(t, domain.LevelExtensive, EstimateRenovationLevel(p, repairAsOf))
}

func TestEstimateRenovationLevel_NeverDowngrades(t *testing.T) {
	// Old house with one moderate keyword stays extensive
	p := domain.Property{
		YearBuilt:   1960,
		Description: "Dated kitchen",
	}
	assert.Equal(t, domain.LevelExtensive, EstimateRenovationLevel(p, repairAsOf))
}

func TestEstimateRepairs_ModerateHouseItemized(t *testing.T) {
	p := domain.Property{
		SquareFeet: 1000,
		Bathrooms:  2,
		YearBuilt:  1985, // 40 years: moderate, plus electrical+plumbing updates
	}

	est := EstimateRepairs(p, repairAsOf)

	assert.Equal(t, domain.LevelModerate, est.Level)
	assert.InDelta(t, 30000, est.BaseCost, 0.01)
	assert.InDelta(t, 15000, est.LineItems["kitchen"], 0.01)
	assert.InDelta(t, 15000, est.LineItems["bathrooms"], 0.01)
	assert.InDelta(t, 5000, est.LineItems["electrical"], 0.01)
	assert.InDelta(t, 5000, est.LineItems["plumbing"], 0.01)

	// 10% contingency on the subtotal
	assert.InDelta(t, 7000, est.Contingency, 0.01)
	assert.InDelta(t, 77000, est.Total, 0.01)
}

func TestEstimateRepairs_RoofLeakMeansReplacement(t *testing.T) {
	p := domain.Property{SquareFeet: 1000, YearBuilt: 2015, Description: "roof leak upstairs"}

	est := EstimateRepairs(p, repairAsOf)
	assert.InDelta(t, 10000, est.LineItems["roof"], 0.01)
}

func TestEstimateRepairs_NewRoofSkipsLineItem(t *testing.T) {
	p := domain.Property{SquareFeet: 1000, YearBuilt: 2015, Description: "new roof installed 2023"}

	est := EstimateRepairs(p, repairAsOf)
	assert.NotContains(t, est.LineItems, "roof")
}

func TestEstimateRepairs_BathroomCountCapped(t *testing.T) {
	p := domain.Property{SquareFeet: 2000, Bathrooms: 5, YearBuilt: 1985}

	est := EstimateRepairs(p, repairAsOf)
	assert.InDelta(t, 7500*3, est.LineItems["bathrooms"], 0.01)
}

func TestEstimateRepairs_YoungHouseHasNoSystemUpdates(t *testing.T) {
	p := domain.Property{SquareFeet: 1200, Bathrooms: 2, YearBuilt: 2018}

	est := EstimateRepairs(p, repairAsOf)
	assert.Equal(t, domain.LevelCosmetic, est.Level)
	assert.NotContains(t, est.LineItems, "electrical")
	assert.NotContains(t, est.LineItems, "plumbing")
	assert.NotContains(t, est.LineItems, "kitchen")
}

func TestClosingCosts(t *testing.T) {
	// 3% on a 200k purchase + (6% + 2%) on a 300k resale
	assert.InDelta(t, 6000+18000+6000, ClosingCosts(200000, 300000), 0.01)
}

func TestHoldingCosts(t *testing.T) {
	// (7% + 1.5% + 0.5%)/12 on 240k is 1800/month, plus 200 utilities
	assert.InDelta(t, 4*2000, HoldingCosts(240000, 4), 0.01)
}
