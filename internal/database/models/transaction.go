package models

import (
	"time"
)

// Transaction is one assembled result row: the payer, the paying bank and
// the net amount of a single PagBank payment. Rows are aligned positionally
// from the parsed field sequences, so a row is tied to its extraction run,
// not to an individual email.
type Transaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RunID     string    `gorm:"index;size:36;not null" json:"run_id"`
	Buyer     string    `gorm:"size:255" json:"comprador"`
	Bank      string    `gorm:"size:255" json:"banco"`
	Amount    string    `gorm:"size:50" json:"valor"`
	CreatedAt time.Time `json:"created_at"`
}
