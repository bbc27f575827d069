package extract

import (
	"strings"
)

// NotFound is the placeholder substituted for a field whose sequence is
// shorter than the row index.
const NotFound = "Não encontrado"

// Result table column names
const (
	ColumnBuyer  = "COMPRADOR"
	ColumnBank   = "BANCO"
	ColumnAmount = "VALOR"
)

// Columns returns the result table column names in order
func Columns() []string {
	return []string{ColumnBuyer, ColumnBank, ColumnAmount}
}

// Record is one assembled result row
type Record struct {
	Buyer  string
	Bank   string
	Amount string
}

// Table is the ordered collection of assembled records
type Table struct {
	Rows []Record
}

// Assemble aligns the three field sequences positionally into uniform rows.
// Row count is the maximum of the three lengths. Bank names are trimmed,
// amounts get the "R$ " currency prefix; a missing value becomes NotFound
// (never prefixed). Pure function.
func Assemble(f Fields) Table {
	rows := len(f.Buyers)
	if len(f.Banks) > rows {
		rows = len(f.Banks)
	}
	if len(f.Amounts) > rows {
		rows = len(f.Amounts)
	}

	table := Table{Rows: make([]Record, 0, rows)}
	for i := 0; i < rows; i++ {
		rec := Record{Buyer: NotFound, Bank: NotFound, Amount: NotFound}
		if i < len(f.Buyers) {
			rec.Buyer = f.Buyers[i]
		}
		if i < len(f.Banks) {
			rec.Bank = strings.TrimSpace(f.Banks[i])
		}
		if i < len(f.Amounts) {
			rec.Amount = "R$ " + f.Amounts[i]
		}
		table.Rows = append(table.Rows, rec)
	}

	return table
}
