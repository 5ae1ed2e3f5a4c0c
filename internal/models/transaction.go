package models

import "time"

// Transaction is the row shape of the transactions table (the header of a posting).
type Transaction struct {
	TransactionID   string    `db:"transaction_id"`
	TransactionDate time.Time `db:"transaction_date"`
	TransactionType string    `db:"transaction_type"`
	Reference       string    `db:"reference"`
	Description     *string   `db:"description"`
	Sequence        int64     `db:"seq"`
	AuditFields
}

// Entry is the row shape of the entries table.
type Entry struct {
	EntryID       string  `db:"entry_id"`
	TransactionID string  `db:"transaction_id"`
	LineNo        int     `db:"line_no"`
	AccountID     string  `db:"account_id"`
	Description   *string `db:"description"`
	Debit         int64   `db:"debit"`
	Credit        int64   `db:"credit"`
}
