package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// renderTable renders rows under headers in go-pretty's rounded style.
// rightCols lists 1-based column numbers to right-align; headers and every
// other column stay left-aligned. heiconv tables are small and fixed-width,
// so callers pass rows directly instead of going through an adapter layer.
func renderTable(headers table.Row, rows []table.Row, rightCols ...int) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(headers)
	tw.AppendRows(rows)

	if len(rightCols) > 0 {
		configs := make([]table.ColumnConfig, 0, len(rightCols))
		for _, col := range rightCols {
			configs = append(configs, table.ColumnConfig{
				Number:      col,
				Align:       text.AlignRight,
				AlignHeader: text.AlignLeft,
			})
		}
		tw.SetColumnConfigs(configs)
	}

	return tw.Render()
}
