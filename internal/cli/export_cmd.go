package cli

import (
	"fmt"
	"os"

	"github.com/joannescode/etllm-pagbank/internal/extract"
	"github.com/joannescode/etllm-pagbank/internal/report"
	"github.com/joannescode/etllm-pagbank/internal/services"
	"github.com/spf13/cobra"
)

// exportCmd writes every stored transaction to a CSV file
var exportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Export stored transactions to CSV",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		service := services.NewStatementService(db, cfg)

		txns, total, err := service.ListTransactions(int(^uint(0)>>1), 0)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: failed to load transactions: %v\n", err)
			os.Exit(1)
		}

		table := extract.Table{Rows: make([]extract.Record, 0, len(txns))}
		for _, t := range txns {
			table.Rows = append(table.Rows, extract.Record{
				Buyer:  t.Buyer,
				Bank:   t.Bank,
				Amount: t.Amount,
			})
		}

		w := &report.CSVWriter{}
		if err := w.WriteToFile(args[0], table); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Exported %d of %d transactions to %s\n", len(table.Rows), total, args[0])
	},
}
