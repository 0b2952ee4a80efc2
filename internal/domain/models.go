// Package domain contains the core data model of the flip finder.
// Properties are immutable inputs gathered by the connectors; Deals are
// derived records produced by the analyzer. A Deal is always derived from
// exactly one Property and is recomputed, never mutated in place, whenever
// its inputs change.
package domain

import (
	"fmt"
	"time"
)

// Source identifies where a property listing came from
type Source string

const (
	SourceMLS    Source = "mls"
	SourceRedfin Source = "redfin"
)

// Comp is a comparable sale used to estimate after-repair value
type Comp struct {
	Address    string    `json:"address"`
	SaleDate   time.Time `json:"sale_date"`
	Price      float64   `json:"price"`
	SquareFeet float64   `json:"square_feet"`
	Bedrooms   int       `json:"bedrooms"`
	Bathrooms  float64   `json:"bathrooms"`
	Distance   float64   `json:"distance"` // miles from the subject property
}

// PricePerSqft returns the sale price per square foot, or 0 when the
// comp has no usable square footage.
func (c Comp) PricePerSqft() float64 {
	if c.SquareFeet <= 0 {
		return 0
	}
	return c.Price / c.SquareFeet
}

// TaxAssessment holds county assessor data attached during enrichment
type TaxAssessment struct {
	AssessedValue float64 `json:"assessed_value"`
	AnnualTax     float64 `json:"annual_tax"`
	LastSaleDate  string  `json:"last_sale_date"`
	LastSalePrice float64 `json:"last_sale_price"`
	Zoning        string  `json:"zoning"`
}

// Property is a single listing merged from one data source.
// The normalized street address is the deduplication key: within one run at
// most one Property survives per unique address across merged sources.
type Property struct {
	ID           string   `json:"id"`     // Source listing ID (MLS number or REDFIN_<id>)
	Source       Source   `json:"source"` // Which connector produced the record
	Address      string   `json:"address"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	Zip          string   `json:"zip"`
	ListPrice    float64  `json:"list_price"`
	Bedrooms     int      `json:"bedrooms"`
	Bathrooms    float64  `json:"bathrooms"`
	SquareFeet   float64  `json:"square_feet"`
	LotSize      string   `json:"lot_size"`
	YearBuilt    int      `json:"year_built"`
	DaysOnMarket int      `json:"days_on_market"`
	Description  string   `json:"description"`
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
	Keywords     []string `json:"keywords"` // Opportunity keywords found in listing remarks

	Comps []Comp         `json:"comps,omitempty"`
	Tax   *TaxAssessment `json:"tax,omitempty"`
}

// FullAddress returns the address formatted with city, state and ZIP
func (p Property) FullAddress() string {
	return fmt.Sprintf("%s, %s, %s %s", p.Address, p.City, p.State, p.Zip)
}

// Age returns the property age in years as of the given time.
// The second return value is false when the year built is unknown.
func (p Property) Age(asOf time.Time) (int, bool) {
	if p.YearBuilt <= 0 {
		return 0, false
	}
	return asOf.Year() - p.YearBuilt, true
}

// PricePerSqft returns list price per square foot, or 0 when unknown
func (p Property) PricePerSqft() float64 {
	if p.SquareFeet <= 0 {
		return 0
	}
	return p.ListPrice / p.SquareFeet
}

// DealStatus describes whether a deal could be fully analyzed.
// Bad input never aborts a batch: the affected Deal carries a non-ok
// status and is excluded from ranking instead.
type DealStatus string

const (
	// StatusOK - the deal was analyzed and scored
	StatusOK DealStatus = "ok"
	// StatusInsufficientComps - no usable comparable sales, ARV unknown
	StatusInsufficientComps DealStatus = "insufficient_comps"
	// StatusInvalidInput - non-positive list price or square footage
	StatusInvalidInput DealStatus = "invalid_input"
	// StatusMissingWeight - scoring configuration lacked a required weight
	StatusMissingWeight DealStatus = "missing_weight"
)

// RenovationLevel classifies how much work a property needs
type RenovationLevel string

const (
	LevelCosmetic  RenovationLevel = "cosmetic"
	LevelModerate  RenovationLevel = "moderate"
	LevelExtensive RenovationLevel = "extensive"
	LevelComplete  RenovationLevel = "complete"
)

// RepairEstimate is the itemized renovation cost estimate for a property
type RepairEstimate struct {
	Level       RenovationLevel    `json:"level"`
	BaseCost    float64            `json:"base_cost"`   // Square footage * per-sqft cost for the level
	LineItems   map[string]float64 `json:"line_items"`  // Roof, HVAC, kitchen, bathrooms, ...
	Contingency float64            `json:"contingency"` // 10% buffer on top of base + line items
	Total       float64            `json:"total"`
}

// Deal is the financial analysis of a single Property.
// All monetary fields are dollars; ROI is a percentage.
type Deal struct {
	ID         string     `json:"id"`
	PropertyID string     `json:"property_id"`
	Address    string     `json:"address"`
	Status     DealStatus `json:"status"`
	AnalyzedAt time.Time  `json:"analyzed_at"`

	ListPrice        float64        `json:"list_price"`
	ARV              float64        `json:"arv"`
	Repairs          RepairEstimate `json:"repairs"`
	ClosingCosts     float64        `json:"closing_costs"`
	HoldingCosts     float64        `json:"holding_costs"`
	TotalInvestment  float64        `json:"total_investment"`
	Profit           float64        `json:"profit"`
	ROI              float64        `json:"roi"`
	MaxPurchasePrice float64        `json:"max_purchase_price"` // 70% rule: 0.70*ARV - repairs
	Meets70Rule      bool           `json:"meets_70_rule"`
	Qualifies        bool           `json:"qualifies"` // ROI >= configured minimum

	Score float64 `json:"score"`
	Rank  int     `json:"rank"` // 1-based position after scoring; 0 when unranked

	Property Property `json:"property"`
}

// Scored reports whether the deal was fully analyzed and can be ranked
func (d Deal) Scored() bool {
	return d.Status == StatusOK
}
