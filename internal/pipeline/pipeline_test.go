package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flipfinder/internal/analysis"
	"flipfinder/internal/connectors"
	"flipfinder/internal/domain"
)

type stubSource struct {
	name       string
	properties []domain.Property
	err        error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(ctx context.Context, criteria connectors.Criteria) ([]domain.Property, error) {
	return s.properties, s.err
}

type stubEnricher struct{ calls int }

func (e *stubEnricher) Enrich(ctx context.Context, p domain.Property) (domain.Property, error) {
	e.calls++
	p.Comps = []domain.Comp{
		{Price: 400000, SquareFeet: 1000},
		{Price: 420000, SquareFeet: 1000},
		{Price: 440000, SquareFeet: 1000},
	}
	return p, nil
}

type recordedRuns struct {
	runs []Result
	err  error
}

func (r *recordedRuns) RecordRun(run Result) error {
	r.runs = append(r.runs, run)
	return r.err
}

func listing(id, address string) domain.Property {
	return domain.Property{
		ID:         id,
		Address:    address,
		ListPrice:  250000,
		SquareFeet: 1000,
		YearBuilt:  2000,
	}
}

func newTestPipeline(sources []connectors.Source, enricher connectors.Enricher, recorder RunRecorder) *Pipeline {
	asOf := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	analyzer := analysis.NewAnalyzer(analysis.AnalyzerConfig{MinROI: 20}, asOf, zerolog.Nop())
	scorer := analysis.NewScorer(analysis.DefaultWeights(), zerolog.Nop())
	return New(sources, enricher, analyzer, scorer, recorder, zerolog.Nop())
}

func TestRun_MergesAndDeduplicatesAcrossSources(t *testing.T) {
	mls := &stubSource{name: "mls", properties: []domain.Property{
		listing("MLS1", "123 Main Street"),
		listing("MLS2", "456 Oak Avenue"),
	}}
	redfin := &stubSource{name: "redfin", properties: []domain.Property{
		listing("RF1", "123 MAIN ST"), // Same house, different spelling
		listing("RF2", "789 Elm Court"),
	}}

	p := newTestPipeline([]connectors.Source{mls, redfin}, &stubEnricher{}, nil)
	result, err := p.Run(context.Background(), connectors.Criteria{Area: "22204"})
	require.NoError(t, err)

	assert.Equal(t, 4, result.Fetched)
	assert.Equal(t, 1, result.Duplicates)

	total := len(result.Ranking.Ranked) + len(result.Ranking.Excluded)
	assert.Equal(t, 3, total)

	// First source wins for a duplicated address
	ids := map[string]bool{}
	for _, d := range append(result.Ranking.Ranked, result.Ranking.Excluded...) {
		ids[d.PropertyID] = true
	}
	assert.True(t, ids["MLS1"])
	assert.False(t, ids["RF1"])
}

func TestRun_AnalysisAfterDedup(t *testing.T) {
	enricher := &stubEnricher{}
	src := &stubSource{name: "mls", properties: []domain.Property{
		listing("A", "1 First St"),
		listing("B", "1 FIRST ST"),
	}}

	p := newTestPipeline([]connectors.Source{src}, enricher, nil)
	_, err := p.Run(context.Background(), connectors.Criteria{})
	require.NoError(t, err)

	// The duplicate must be dropped before enrichment and analysis
	assert.Equal(t, 1, enricher.calls)
}

func TestRun_SourceFailureAbortsRun(t *testing.T) {
	boom := errors.New("upstream down")
	src := &stubSource{name: "mls", err: boom}

	p := newTestPipeline([]connectors.Source{src}, nil, nil)
	result, err := p.Run(context.Background(), connectors.Criteria{})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "mls")
}

func TestRun_RecordsOutcome(t *testing.T) {
	recorder := &recordedRuns{}
	src := &stubSource{name: "mls", properties: []domain.Property{listing("A", "1 First St")}}

	p := newTestPipeline([]connectors.Source{src}, &stubEnricher{}, recorder)
	result, err := p.Run(context.Background(), connectors.Criteria{Area: "22204"})
	require.NoError(t, err)

	require.Len(t, recorder.runs, 1)
	assert.Equal(t, result.RunID, recorder.runs[0].RunID)
	assert.Equal(t, "22204", recorder.runs[0].Criteria.Area)
}

func TestRun_RecorderFailureDoesNotAbort(t *testing.T) {
	recorder := &recordedRuns{err: errors.New("disk full")}
	src := &stubSource{name: "mls", properties: []domain.Property{listing("A", "1 First St")}}

	p := newTestPipeline([]connectors.Source{src}, &stubEnricher{}, recorder)
	result, err := p.Run(context.Background(), connectors.Criteria{})

	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestRun_ListingsWithoutAddressesSurvive(t *testing.T) {
	src := &stubSource{name: "mls", properties: []domain.Property{
		listing("A", ""),
		listing("B", ""),
	}}

	p := newTestPipeline([]connectors.Source{src}, &stubEnricher{}, nil)
	result, err := p.Run(context.Background(), connectors.Criteria{})
	require.NoError(t, err)

	assert.Zero(t, result.Duplicates)
	assert.Equal(t, 2, len(result.Ranking.Ranked)+len(result.Ranking.Excluded))
}

func TestResult_Qualifying(t *testing.T) {
	result := Result{
		Ranking: analysis.Ranking{
			Ranked: []domain.Deal{
				{ID: "a", Status: domain.StatusOK, Qualifies: true},
				{ID: "b", Status: domain.StatusOK, Qualifies: false},
				{ID: "c", Status: domain.StatusOK, Qualifies: true},
			},
		},
	}

	qualifying := result.Qualifying()
	require.Len(t, qualifying, 2)
	assert.Equal(t, "a", qualifying[0].ID)
	assert.Equal(t, "c", qualifying[1].ID)
}
