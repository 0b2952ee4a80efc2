package market

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flipfinder/internal/domain"
)

type stubCompSource struct {
	comps []domain.Comp
	err   error
}

func (s *stubCompSource) FetchSoldComps(ctx context.Context, p domain.Property) ([]domain.Comp, error) {
	return s.comps, s.err
}

func subject() domain.Property {
	return domain.Property{
		ID:         "MLS123",
		Address:    "123 Main St",
		ListPrice:  300000,
		SquareFeet: 1500,
		Bedrooms:   3,
		Bathrooms:  2,
	}
}

func TestEnrich_PrefersRealComps(t *testing.T) {
	real := []domain.Comp{{Address: "125 Main St", Price: 350000, SquareFeet: 1400}}
	e := NewEnricher(&stubCompSource{comps: real}, zerolog.Nop())

	enriched, err := e.Enrich(context.Background(), subject())
	require.NoError(t, err)

	assert.Equal(t, real, enriched.Comps)
	require.NotNil(t, enriched.Tax)
}

func TestEnrich_FallsBackToSyntheticOnSourceError(t *testing.T) {
	e := NewEnricher(&stubCompSource{err: errors.New("blocked")}, zerolog.Nop())

	enriched, err := e.Enrich(context.Background(), subject())
	require.NoError(t, err)

	assert.Len(t, enriched.Comps, 5)
}

func TestEnrich_SyntheticCompsAreDeterministic(t *testing.T) {
	e := NewEnricher(nil, zerolog.Nop())

	first, err := e.Enrich(context.Background(), subject())
	require.NoError(t, err)
	second, err := e.Enrich(context.Background(), subject())
	require.NoError(t, err)

	require.Len(t, first.Comps, 5)
	for i := range first.Comps {
		assert.Equal(t, first.Comps[i].Price, second.Comps[i].Price)
		assert.Equal(t, first.Comps[i].SquareFeet, second.Comps[i].SquareFeet)
	}
}

func TestEnrich_SyntheticCompsTrackSubjectPricePerSqft(t *testing.T) {
	e := NewEnricher(nil, zerolog.Nop())

	enriched, err := e.Enrich(context.Background(), subject())
	require.NoError(t, err)

	basePSF := 300000.0 / 1500.0
	for _, comp := range enriched.Comps {
		psf := comp.PricePerSqft()
		assert.Greater(t, psf, basePSF*0.80)
		assert.Less(t, psf, basePSF*1.20)
		assert.Positive(t, comp.SquareFeet)
		assert.False(t, comp.SaleDate.IsZero())
	}
}

func TestEnrich_UnusableSubjectGetsNoComps(t *testing.T) {
	e := NewEnricher(nil, zerolog.Nop())

	p := subject()
	p.SquareFeet = 0

	enriched, err := e.Enrich(context.Background(), p)
	require.NoError(t, err)
	assert.Empty(t, enriched.Comps)
}

func TestEstimateTax(t *testing.T) {
	tax := estimateTax(subject())
	require.NotNil(t, tax)
	assert.InDelta(t, 240000, tax.AssessedValue, 0.01)
	assert.InDelta(t, 3000, tax.AnnualTax, 0.01)

	assert.Nil(t, estimateTax(domain.Property{}))
}
