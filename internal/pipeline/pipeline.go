// Package pipeline wires the flip-finder batch flow: fetch listings from
// the selected sources, normalize and deduplicate them, enrich with comps
// and public records, analyze each property into a deal and rank the
// results. The whole flow is synchronous, single-threaded batch work.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"flipfinder/internal/analysis"
	"flipfinder/internal/connectors"
	"flipfinder/internal/domain"
)

// RunRecorder persists the outcome of a pipeline run. Persistence is
// best-effort supporting infrastructure: a recording failure is logged,
// not propagated.
type RunRecorder interface {
	RecordRun(run Result) error
}

// Result is the outcome of one pipeline run
type Result struct {
	RunID      string
	StartedAt  time.Time
	Criteria   connectors.Criteria
	Fetched    int // Listings fetched across all sources, pre-dedup
	Duplicates int // Listings dropped by address deduplication
	Ranking    analysis.Ranking
}

// Qualifying returns the ranked deals whose ROI met the minimum
func (r Result) Qualifying() []domain.Deal {
	var out []domain.Deal
	for _, d := range r.Ranking.Ranked {
		if d.Qualifies {
			out = append(out, d)
		}
	}
	return out
}

// Pipeline runs the fetch-analyze-score batch
type Pipeline struct {
	sources  []connectors.Source
	enricher connectors.Enricher
	analyzer *analysis.Analyzer
	scorer   *analysis.Scorer
	recorder RunRecorder // optional
	log      zerolog.Logger
}

// New creates a pipeline over the given sources and analysis components
func New(
	sources []connectors.Source,
	enricher connectors.Enricher,
	analyzer *analysis.Analyzer,
	scorer *analysis.Scorer,
	recorder RunRecorder,
	log zerolog.Logger,
) *Pipeline {
	return &Pipeline{
		sources:  sources,
		enricher: enricher,
		analyzer: analyzer,
		scorer:   scorer,
		recorder: recorder,
		log:      log.With().Str("component", "pipeline").Logger(),
	}
}

// Run executes one batch. Listings are merged and deduplicated across
// sources BEFORE analysis so each address is analyzed at most once.
// A source that fails aborts the run; bad individual listings do not.
func (p *Pipeline) Run(ctx context.Context, criteria connectors.Criteria) (*Result, error) {
	result := &Result{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Criteria:  criteria,
	}

	var properties []domain.Property
	for _, source := range p.sources {
		p.log.Info().Str("source", source.Name()).Msg("Fetching property listings")
		fetched, err := source.Fetch(ctx, criteria)
		if err != nil {
			return nil, fmt.Errorf("fetching listings from %s: %w", source.Name(), err)
		}
		p.log.Info().Str("source", source.Name()).Int("count", len(fetched)).Msg("Listings fetched")
		properties = append(properties, fetched...)
	}
	result.Fetched = len(properties)

	unique := p.dedupe(properties)
	result.Duplicates = len(properties) - len(unique)
	if result.Duplicates > 0 {
		p.log.Info().
			Int("unique", len(unique)).
			Int("duplicates", result.Duplicates).
			Msg("Deduplicated listings by address")
	}

	if p.enricher != nil {
		for i, prop := range unique {
			enriched, err := p.enricher.Enrich(ctx, prop)
			if err != nil {
				// Enrichment failure degrades the single property (the
				// analyzer will flag it), it does not abort the batch.
				p.log.Warn().Err(err).Str("property", prop.ID).Msg("Enrichment failed")
				continue
			}
			unique[i] = enriched
		}
	}

	deals := p.analyzer.AnalyzeBatch(unique)
	result.Ranking = p.scorer.Score(deals)

	if p.recorder != nil {
		if err := p.recorder.RecordRun(*result); err != nil {
			p.log.Warn().Err(err).Msg("Failed to persist run results")
		}
	}

	return result, nil
}

// dedupe keeps the first listing seen per normalized address. Source
// order therefore decides which record survives for addresses listed in
// more than one system.
func (p *Pipeline) dedupe(properties []domain.Property) []domain.Property {
	seen := make(map[string]struct{}, len(properties))
	unique := make([]domain.Property, 0, len(properties))

	for _, prop := range properties {
		key := NormalizeAddress(prop.Address)
		if key == "" {
			// Listings without an address cannot be deduplicated; keep them
			unique = append(unique, prop)
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, prop)
	}

	return unique
}
