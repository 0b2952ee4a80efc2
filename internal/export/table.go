package export

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"flipfinder/internal/domain"
)

// RenderTable writes a terminal summary of the top deals to w
func RenderTable(w io.Writer, deals []domain.Deal, limit int) {
	if len(deals) > limit {
		deals = deals[:limit]
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Rank", "Address", "List Price", "ARV", "Repairs", "Profit", "ROI", "Score"})

	for _, deal := range deals {
		t.AppendRow(table.Row{
			deal.Rank,
			deal.Address,
			fmt.Sprintf("$%.0f", deal.ListPrice),
			fmt.Sprintf("$%.0f", deal.ARV),
			fmt.Sprintf("$%.0f", deal.Repairs.Total),
			fmt.Sprintf("$%.0f", deal.Profit),
			fmt.Sprintf("%.1f%%", deal.ROI),
			fmt.Sprintf("%.1f", deal.Score),
		})
	}

	t.Render()
}
