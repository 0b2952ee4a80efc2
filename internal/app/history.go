package app

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"flipfinder/internal/export"
	"flipfinder/internal/store"
)

var (
	historyLimit int
	historyRunID string

	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "Review past search runs",
		Long: `History lists recent search runs stored in the local database. Pass
--run with a run ID to see that run's top-ranked deals instead.`,
		Example: `  # Recent runs
  flipfinder history

  # Top deals of one run
  flipfinder history --run 5f2b9c31-...`,
		RunE: runHistory,
	}
)

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "number of rows to show")
	historyCmd.Flags().StringVar(&historyRunID, "run", "", "show the top deals of this run")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	repo := store.NewRepository(db, 0, log)

	if historyRunID != "" {
		deals, err := repo.TopDeals(historyRunID, historyLimit)
		if err != nil {
			return err
		}
		if len(deals) == 0 {
			fmt.Printf("No ranked deals recorded for run %s\n", historyRunID)
			return nil
		}
		export.RenderTable(os.Stdout, deals, historyLimit)
		return nil
	}

	runs, err := repo.RecentRuns(historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet. Start with: flipfinder search --area <zip>")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Run ID", "Started", "Area", "Budget", "Min ROI", "Fetched", "Ranked", "Qualifying"})
	for _, run := range runs {
		budget := "-"
		if run.Budget > 0 {
			budget = fmt.Sprintf("$%.0f", run.Budget)
		}
		t.AppendRow(table.Row{
			run.ID,
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			run.Area,
			budget,
			fmt.Sprintf("%.0f%%", run.MinROI),
			run.Fetched,
			run.Ranked,
			run.Qualifying,
		})
	}
	t.Render()

	return nil
}
