package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/joannescode/etllm-pagbank/internal/extract"
)

// CSVWriter writes result tables to CSV format.
type CSVWriter struct{}

// WriteToFile writes the table to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, table extract.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, table)
}

// Write writes the table in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, table extract.Table) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	if err := writer.Write(extract.Columns()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, rec := range table.Rows {
		if err := writer.Write([]string{rec.Buyer, rec.Bank, rec.Amount}); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}
