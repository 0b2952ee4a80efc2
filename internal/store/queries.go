package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"flipfinder/internal/domain"
	"flipfinder/internal/pipeline"
)

// RunSummary is one persisted pipeline run
type RunSummary struct {
	ID         string
	StartedAt  time.Time
	Area       string
	Budget     float64
	MinROI     float64
	Fetched    int
	Duplicates int
	Ranked     int
	Excluded   int
	Qualifying int
}

// Repository persists pipeline runs and their ranked deals
type Repository struct {
	db     *DB
	minROI float64
	log    zerolog.Logger
}

// NewRepository creates a run repository. minROI is stored alongside
// each run so historical results can be interpreted later.
func NewRepository(db *DB, minROI float64, log zerolog.Logger) *Repository {
	return &Repository{
		db:     db,
		minROI: minROI,
		log:    log.With().Str("component", "store").Logger(),
	}
}

// RecordRun implements pipeline.RunRecorder: the run row and all its
// deals are written in one transaction.
func (r *Repository) RecordRun(run pipeline.Result) error {
	return r.db.WithTransaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO runs (id, started_at, area, budget, min_roi, fetched, duplicates, ranked, excluded, qualifying)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.RunID,
			run.StartedAt.UTC().Format(time.RFC3339),
			run.Criteria.Area,
			run.Criteria.MaxPrice,
			r.minROI,
			run.Fetched,
			run.Duplicates,
			len(run.Ranking.Ranked),
			len(run.Ranking.Excluded),
			len(run.Qualifying()),
		)
		if err != nil {
			return fmt.Errorf("inserting run: %w", err)
		}

		insertDeal, err := tx.Prepare(
			`INSERT INTO deals (id, run_id, rank, property_id, address, status, list_price, arv,
			                    repair_costs, renovation_level, closing_costs, holding_costs,
			                    total_investment, profit, roi, max_purchase, meets_70_rule, qualifies, score)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("preparing deal insert: %w", err)
		}
		defer insertDeal.Close()

		for _, deal := range append(run.Ranking.Ranked, run.Ranking.Excluded...) {
			if _, err := insertDeal.Exec(
				deal.ID, run.RunID, deal.Rank, deal.PropertyID, deal.Address, string(deal.Status),
				deal.ListPrice, deal.ARV, deal.Repairs.Total, string(deal.Repairs.Level),
				deal.ClosingCosts, deal.HoldingCosts, deal.TotalInvestment, deal.Profit,
				deal.ROI, deal.MaxPurchasePrice, boolToInt(deal.Meets70Rule),
				boolToInt(deal.Qualifies), deal.Score,
			); err != nil {
				return fmt.Errorf("inserting deal %s: %w", deal.ID, err)
			}
		}

		return nil
	})
}

// RecentRuns returns the most recent runs, newest first
func (r *Repository) RecentRuns(limit int) ([]RunSummary, error) {
	rows, err := r.db.conn.Query(
		`SELECT id, started_at, area, budget, min_roi, fetched, duplicates, ranked, excluded, qualifying
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var run RunSummary
		var startedAt string
		if err := rows.Scan(&run.ID, &startedAt, &run.Area, &run.Budget, &run.MinROI,
			&run.Fetched, &run.Duplicates, &run.Ranked, &run.Excluded, &run.Qualifying); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		run.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	return runs, nil
}

// TopDeals returns the best-ranked deals of a run
func (r *Repository) TopDeals(runID string, limit int) ([]domain.Deal, error) {
	rows, err := r.db.conn.Query(
		`SELECT id, rank, property_id, address, status, list_price, arv, repair_costs,
		        renovation_level, closing_costs, holding_costs, total_investment, profit,
		        roi, max_purchase, meets_70_rule, qualifies, score
		 FROM deals WHERE run_id = ? AND rank > 0 ORDER BY rank ASC LIMIT ?`, runID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying deals: %w", err)
	}
	defer rows.Close()

	var deals []domain.Deal
	for rows.Next() {
		var deal domain.Deal
		var status, level string
		var meets70, qualifies int
		if err := rows.Scan(&deal.ID, &deal.Rank, &deal.PropertyID, &deal.Address, &status,
			&deal.ListPrice, &deal.ARV, &deal.Repairs.Total, &level, &deal.ClosingCosts,
			&deal.HoldingCosts, &deal.TotalInvestment, &deal.Profit, &deal.ROI,
			&deal.MaxPurchasePrice, &meets70, &qualifies, &deal.Score); err != nil {
			return nil, fmt.Errorf("scanning deal: %w", err)
		}
		deal.Status = domain.DealStatus(status)
		deal.Repairs.Level = domain.RenovationLevel(level)
		deal.Meets70Rule = meets70 == 1
		deal.Qualifies = qualifies == 1
		deals = append(deals, deal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating deals: %w", err)
	}

	return deals, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
