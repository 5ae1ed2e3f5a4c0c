package domain

import (
	"fmt"
	"time"
)

// TransactionType classifies a posted transaction by business event.
type TransactionType string

const (
	Journal  TransactionType = "journal"
	Sale     TransactionType = "sale"
	Purchase TransactionType = "purchase"
	Receipt  TransactionType = "receipt"
	Payment  TransactionType = "payment"
)

var referencePrefixes = map[TransactionType]string{
	Journal:  "JE",
	Sale:     "INV",
	Purchase: "PUR",
	Receipt:  "RCT",
	Payment:  "PMT",
}

// TransactionTypes lists every supported transaction type.
var TransactionTypes = []TransactionType{Journal, Sale, Purchase, Receipt, Payment}

func (t TransactionType) IsValid() bool {
	_, ok := referencePrefixes[t]
	return ok
}

// ReferencePrefix returns the conventional reference prefix for t, e.g. "INV" for sales.
func (t TransactionType) ReferencePrefix() string {
	return referencePrefixes[t]
}

// ParseTransactionType validates s against the supported transaction types.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
	return t, nil
}

// EntrySide is the side of an entry that carries its amount.
type EntrySide string

const (
	Debit  EntrySide = "debit"
	Credit EntrySide = "credit"
)

// Entry is a single debit or credit line owned by one Transaction.
type Entry struct {
	EntryID       string `json:"entryID"`
	TransactionID string `json:"transactionID"`
	LineNo        int    `json:"lineNo"`
	AccountID     string `json:"accountID"`
	Description   string `json:"description"`
	Debit         Money  `json:"debit"`
	Credit        Money  `json:"credit"`
}

// Side returns the side that carries the amount. Callers must have validated the entry.
func (e Entry) Side() EntrySide {
	if e.Debit != 0 {
		return Debit
	}
	return Credit
}

// Amount returns the non-zero amount of the entry.
func (e Entry) Amount() Money {
	if e.Debit != 0 {
		return e.Debit
	}
	return e.Credit
}

// Transaction is a balanced set of entries posted as one unit.
type Transaction struct {
	TransactionID   string          `json:"transactionID"`
	Date            time.Time       `json:"date"`
	TransactionType TransactionType `json:"transactionType"`
	Reference       string          `json:"reference"`
	Description     string          `json:"description"`
	Entries         []Entry         `json:"entries"`
	// Sequence orders transactions created on the same date; assigned by storage.
	Sequence int64 `json:"-"`
	AuditFields
}

// Totals sums both sides of the transaction.
func (t Transaction) Totals() (debit, credit Money) {
	for _, e := range t.Entries {
		debit += e.Debit
		credit += e.Credit
	}
	return debit, credit
}

// AccountIDs returns the distinct account ids referenced by the entries, in entry order.
func (t Transaction) AccountIDs() []string {
	seen := make(map[string]struct{}, len(t.Entries))
	ids := make([]string, 0, len(t.Entries))
	for _, e := range t.Entries {
		if _, ok := seen[e.AccountID]; ok {
			continue
		}
		seen[e.AccountID] = struct{}{}
		ids = append(ids, e.AccountID)
	}
	return ids
}

// TruncateToDate drops the time of day, keeping the calendar date in UTC.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
