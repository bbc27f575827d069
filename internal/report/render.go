package report

import (
	"io"

	"github.com/joannescode/etllm-pagbank/internal/extract"
	"github.com/olekukonko/tablewriter"
)

// Render writes the result table in terminal form
func Render(out io.Writer, table extract.Table) {
	tw := tablewriter.NewWriter(out)
	tw.SetHeader(extract.Columns())
	tw.SetAutoWrapText(false)

	for _, rec := range table.Rows {
		tw.Append([]string{rec.Buyer, rec.Bank, rec.Amount})
	}

	tw.Render()
}
