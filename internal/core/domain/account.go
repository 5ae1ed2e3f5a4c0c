package domain

import "fmt"

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "asset"
	Liability AccountType = "liability"
	Equity    AccountType = "equity"
	Income    AccountType = "income"
	Expense   AccountType = "expense"
)

// AccountTypes lists every account type in chart-of-accounts order.
var AccountTypes = []AccountType{Asset, Liability, Equity, Income, Expense}

// IsValid reports whether t belongs to the closed set of account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Income, Expense:
		return true
	}
	return false
}

// IncreasesOnDebit reports whether the natural balance side of t is debit.
// Asset and expense balances grow with debits; the others grow with credits.
func (t AccountType) IncreasesOnDebit() bool {
	return t == Asset || t == Expense
}

// ParseAccountType validates s against the closed set.
func ParseAccountType(s string) (AccountType, error) {
	t := AccountType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("unknown account type %q", s)
	}
	return t, nil
}

// Account represents an entry in the chart of accounts.
type Account struct {
	AccountID      string         `json:"accountID"`
	Code           string         `json:"code"`
	Name           string         `json:"name"`
	AccountType    AccountType    `json:"accountType"`
	Classification Classification `json:"classification"`
	Description    string         `json:"description"`
	ParentID       string         `json:"parentID,omitempty"`
	Balance        Money          `json:"balance"`
	IsActive       bool           `json:"isActive"`
	AuditFields
}
