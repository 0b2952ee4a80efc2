package export

import (
	"fmt"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/rs/zerolog"

	"flipfinder/internal/domain"
)

// maxChartDeals keeps the bar charts readable when a run returns a large batch
const maxChartDeals = 20

// DashboardExporter renders ranked deals as a standalone HTML page of
// profit and ROI charts.
type DashboardExporter struct {
	log zerolog.Logger
}

// NewDashboardExporter creates a dashboard exporter
func NewDashboardExporter(log zerolog.Logger) *DashboardExporter {
	return &DashboardExporter{log: log.With().Str("component", "dashboard_exporter").Logger()}
}

// Export writes the dashboard to path. Deals beyond maxChartDeals are
// omitted from the charts.
func (d *DashboardExporter) Export(deals []domain.Deal, path string) error {
	if len(deals) == 0 {
		return fmt.Errorf("no deals to visualize")
	}
	if len(deals) > maxChartDeals {
		deals = deals[:maxChartDeals]
	}

	labels := make([]string, 0, len(deals))
	profits := make([]opts.BarData, 0, len(deals))
	rois := make([]opts.BarData, 0, len(deals))
	for _, deal := range deals {
		labels = append(labels, shortLabel(deal))
		profits = append(profits, opts.BarData{Value: round2(deal.Profit)})
		rois = append(rois, opts.BarData{Value: round2(deal.ROI)})
	}

	profitChart := charts.NewBar()
	profitChart.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Estimated Profit by Property",
			Subtitle: "Sale proceeds minus purchase, repair, closing and holding costs",
		}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: 45}}),
		charts.WithInitializationOpts(opts.Initialization{Width: "1100px", Height: "450px"}),
	)
	profitChart.SetXAxis(labels).AddSeries("Profit ($)", profits)

	roiChart := charts.NewBar()
	roiChart.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Return on Investment by Property",
			Subtitle: "Profit as a percentage of total cash invested",
		}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: 45}}),
		charts.WithInitializationOpts(opts.Initialization{Width: "1100px", Height: "450px"}),
	)
	roiChart.SetXAxis(labels).AddSeries("ROI (%)", rois)

	page := components.NewPage()
	page.PageTitle = "Flip Finder Dashboard"
	page.AddCharts(profitChart, roiChart)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating dashboard file: %w", err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("rendering dashboard: %w", err)
	}

	d.log.Info().Str("path", path).Int("deals", len(deals)).Msg("Exported dashboard")
	return nil
}

// shortLabel truncates addresses so axis labels stay legible
func shortLabel(deal domain.Deal) string {
	addr := deal.Address
	if len(addr) > 25 {
		addr = addr[:22] + "..."
	}
	return fmt.Sprintf("#%d %s", deal.Rank, addr)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
