package analysis

// Transaction cost assumptions. These mirror typical flip economics:
// purchase-side closing on the buy, agent commission and seller-side
// closing on the resale at ARV.
const (
	purchaseClosingPct = 0.03
	agentCommissionPct = 0.06
	sellerClosingPct   = 0.02
)

// Monthly holding cost assumptions, expressed as annual rates on the
// purchase price except for the flat utilities charge.
const (
	mortgageRate     = 0.07
	propertyTaxRate  = 0.015
	insuranceRate    = 0.005
	monthlyUtilities = 200.0
)

// DefaultHoldingMonths is the assumed buy-renovate-sell cycle length
const DefaultHoldingMonths = 4.0

// ClosingCosts returns the combined purchase and resale transaction
// costs for a purchase at purchasePrice and a sale at salePrice.
func ClosingCosts(purchasePrice, salePrice float64) float64 {
	purchase := purchasePrice * purchaseClosingPct
	commission := salePrice * agentCommissionPct
	seller := salePrice * sellerClosingPct
	return purchase + commission + seller
}

// HoldingCosts returns carrying costs over the given number of months:
// financing, property tax and insurance accrue monthly on the purchase
// price, utilities are flat per month.
func HoldingCosts(purchasePrice, months float64) float64 {
	monthly := purchasePrice*(mortgageRate+propertyTaxRate+insuranceRate)/12 + monthlyUtilities
	return monthly * months
}
