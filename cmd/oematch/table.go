package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/javajack/oematch"
)

var resultHeaders = table.Row{"#", "Input", "Code", "Application", "Year", "OEM", "Drive", "Image", "Price"}

// renderResults renders the first limit rows as a table. A negative limit
// renders every row.
func renderResults(results []oematch.ResultRow, limit int) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(resultHeaders)

	shown := results
	if limit >= 0 && limit < len(results) {
		shown = results[:limit]
	}
	for i, r := range shown {
		tw.AppendRow(table.Row{
			i + 1,
			r.Input,
			dash(r.AuxiliaryCode),
			dash(r.Application),
			dash(r.Year),
			dash(r.MatchedIdentifier),
			dash(r.Drive),
			dash(r.ImageLabel),
			dash(oematch.Text(r.Price)),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 6, WidthMax: 40},
		{Number: 9, Align: text.AlignRight},
	})
	tw.SetCaption(fmt.Sprintf("showing %d of %d rows", len(shown), len(results)))
	return tw.Render()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
