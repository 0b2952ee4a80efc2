package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"flipfinder/internal/analysis"
	"flipfinder/internal/config"
	"flipfinder/internal/connectors"
	"flipfinder/internal/connectors/market"
	"flipfinder/internal/connectors/mls"
	"flipfinder/internal/connectors/redfin"
	"flipfinder/internal/export"
	"flipfinder/internal/pipeline"
	"flipfinder/internal/store"
)

var (
	searchArea      string
	searchBudget    float64
	searchMinROI    float64
	searchSource    string
	searchMaxDays   int
	searchMonths    float64
	searchARVMethod string
	searchExport    bool
	searchNotify    bool
	searchVisualize bool

	searchROIWeight    float64
	searchMarginWeight float64
	searchRepairWeight float64
	searchRiskWeight   float64

	searchCmd = &cobra.Command{
		Use:   "search",
		Short: "Search an area for fix-and-flip deals",
		Long: `Search fetches active listings for an area, deduplicates them by
address across sources, enriches each property with comparable sales and
tax records, analyzes the deal economics and prints the ranked results.

Weights control the composite score. Either leave all four at their
defaults or override all four together; a partial override is rejected.`,
		Example: `  # ZIP code search with a purchase budget
  flipfinder search --area 22204 --budget 450000

  # Higher ROI bar, Excel export and email digest
  flipfinder search --area 22204 --roi 25 --export --notify

  # Custom score weighting (all four weights required)
  flipfinder search --area 22204 \
    --roi-weight 0.4 --margin-weight 0.3 --repair-weight 0.2 --risk-weight 0.1`,
		RunE: runSearch,
	}
)

func init() {
	searchCmd.Flags().StringVar(&searchArea, "area", "", "ZIP code or city to search (required)")
	searchCmd.Flags().Float64Var(&searchBudget, "budget", 0, "maximum list price, 0 for no cap")
	searchCmd.Flags().Float64Var(&searchMinROI, "roi", 20.0, "minimum ROI percentage for a qualifying deal")
	searchCmd.Flags().StringVar(&searchSource, "source", "both", "listing source: mls, redfin or both")
	searchCmd.Flags().IntVar(&searchMaxDays, "days", 90, "skip listings older than this many days on market")
	searchCmd.Flags().Float64Var(&searchMonths, "holding-months", analysis.DefaultHoldingMonths, "expected buy-renovate-sell cycle in months")
	searchCmd.Flags().StringVar(&searchARVMethod, "arv-method", string(analysis.ARVMethodMean), "comp aggregation: mean or median")
	searchCmd.Flags().BoolVar(&searchExport, "export", false, "write results to an Excel workbook")
	searchCmd.Flags().BoolVar(&searchNotify, "notify", false, "email a digest of the top deals")
	searchCmd.Flags().BoolVar(&searchVisualize, "visualize", false, "write an HTML dashboard of the results")

	searchCmd.Flags().Float64Var(&searchROIWeight, "roi-weight", 0, "score weight for ROI")
	searchCmd.Flags().Float64Var(&searchMarginWeight, "margin-weight", 0, "score weight for absolute profit")
	searchCmd.Flags().Float64Var(&searchRepairWeight, "repair-weight", 0, "score weight for repair cost burden")
	searchCmd.Flags().Float64Var(&searchRiskWeight, "risk-weight", 0, "score weight for project risk")

	_ = searchCmd.MarkFlagRequired("area")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	weights, err := resolveWeights(cmd)
	if err != nil {
		return err
	}

	sources, err := buildSources(cfg, log)
	if err != nil {
		return err
	}

	var compSource market.CompSource
	if searchSource != "mls" {
		compSource = redfin.New(redfin.Config{
			BaseURL:  cfg.Redfin.BaseURL,
			Market:   cfg.Redfin.Market,
			RegionID: cfg.Redfin.RegionID,
		}, log)
	}
	enricher := market.NewEnricher(compSource, log)

	analyzer := analysis.NewAnalyzer(analysis.AnalyzerConfig{
		ARVMethod:     analysis.ARVMethod(searchARVMethod),
		HoldingMonths: searchMonths,
		MinROI:        searchMinROI,
	}, time.Now(), log)
	scorer := analysis.NewScorer(weights, log)

	db, err := store.Open(cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	repo := store.NewRepository(db, searchMinROI, log)

	pipe := pipeline.New(sources, enricher, analyzer, scorer, repo, log)

	// ZIP+4 input collapses to the 5-digit ZIP the sources filter on
	criteria := connectors.Criteria{
		Area:            pipeline.CleanZip(searchArea),
		MaxPrice:        searchBudget,
		MaxDaysOnMarket: searchMaxDays,
		PropertyTypes:   connectors.DefaultPropertyTypes(),
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	result, err := pipe.Run(ctx, criteria)
	if err != nil {
		return err
	}

	printSearchSummary(result)
	return exportResults(cfg, log, result)
}

// resolveWeights returns the default weights unless any weight flag was
// set, in which case all four must be present.
func resolveWeights(cmd *cobra.Command) (analysis.Weights, error) {
	flagForOption := map[string]string{
		analysis.OptionROIWeight:    "roi-weight",
		analysis.OptionMarginWeight: "margin-weight",
		analysis.OptionRepairWeight: "repair-weight",
		analysis.OptionRiskWeight:   "risk-weight",
	}

	anySet := false
	opts := make(map[string]float64)
	for option, flag := range flagForOption {
		if cmd.Flags().Changed(flag) {
			anySet = true
			v, _ := cmd.Flags().GetFloat64(flag)
			opts[option] = v
		}
	}

	if !anySet {
		return analysis.DefaultWeights(), nil
	}
	return analysis.WeightsFromOptions(opts)
}

// buildSources selects the listing connectors for --source. MLS requires
// credentials; "both" silently degrades to Redfin only when they are
// absent, but asking for mls explicitly without credentials is an error.
func buildSources(cfg *config.Config, log zerolog.Logger) ([]connectors.Source, error) {
	mlsConfigured := cfg.MLS.ClientID != "" && cfg.MLS.ClientSecret != ""

	var sources []connectors.Source
	switch searchSource {
	case "mls":
		if !mlsConfigured {
			return nil, fmt.Errorf("source mls requires BRIGHT_MLS_CLIENT_ID and BRIGHT_MLS_CLIENT_SECRET")
		}
		sources = append(sources, mls.New(mls.Config(cfg.MLS), log))
	case "redfin":
		sources = append(sources, redfin.New(redfin.Config(cfg.Redfin), log))
	case "both":
		if mlsConfigured {
			sources = append(sources, mls.New(mls.Config(cfg.MLS), log))
		} else {
			log.Warn().Msg("MLS credentials not configured, searching Redfin only")
		}
		sources = append(sources, redfin.New(redfin.Config(cfg.Redfin), log))
	default:
		return nil, fmt.Errorf("unknown source %q: expected mls, redfin or both", searchSource)
	}

	return sources, nil
}

func printSearchSummary(result *pipeline.Result) {
	ranked := result.Ranking.Ranked
	qualifying := result.Qualifying()

	fmt.Printf("\nAnalyzed %d unique listings (%d fetched, %d duplicates dropped)\n",
		len(ranked)+len(result.Ranking.Excluded), result.Fetched, result.Duplicates)
	fmt.Printf("%d deals ranked, %d qualify at %.0f%%+ ROI\n\n",
		len(ranked), len(qualifying), searchMinROI)

	if len(ranked) == 0 {
		fmt.Println("No scorable deals found. Try widening the search area or budget.")
		return
	}

	export.RenderTable(os.Stdout, ranked, 5)
	fmt.Println()
}

// exportResults writes the requested artifacts for the qualifying deals,
// falling back to all ranked deals when nothing qualified.
func exportResults(cfg *config.Config, log zerolog.Logger, result *pipeline.Result) error {
	if !searchExport && !searchNotify && !searchVisualize {
		return nil
	}

	deals := result.Qualifying()
	if len(deals) == 0 {
		deals = result.Ranking.Ranked
	}
	if len(deals) == 0 {
		fmt.Println("Nothing to export.")
		return nil
	}

	stamp := time.Now().Format("20060102_150405")

	var excelPath string
	if searchExport || searchNotify {
		excelPath = filepath.Join(cfg.OutputDir, fmt.Sprintf("deals_%s.xlsx", stamp))
		if err := export.NewExcelExporter(log).Export(deals, excelPath); err != nil {
			return fmt.Errorf("exporting to Excel: %w", err)
		}
		fmt.Printf("Excel report: %s\n", excelPath)
	}

	if searchVisualize {
		dashPath := filepath.Join(cfg.OutputDir, fmt.Sprintf("dashboard_%s.html", stamp))
		if err := export.NewDashboardExporter(log).Export(deals, dashPath); err != nil {
			return fmt.Errorf("exporting dashboard: %w", err)
		}
		fmt.Printf("Dashboard: %s\n", dashPath)
	}

	if searchNotify {
		notifier := export.NewNotifier(export.EmailConfig(cfg.SMTP), log)
		if err := notifier.Notify(deals, searchArea, excelPath); err != nil {
			return fmt.Errorf("sending notification: %w", err)
		}
		fmt.Printf("Emailed digest to %s\n", cfg.SMTP.Recipient)
	}

	return nil
}
