package domain

import "time"

// AccountFilter narrows account listings. Zero values mean "no restriction".
type AccountFilter struct {
	AccountType AccountType
	ActiveOnly  bool
}

// TransactionFilter narrows transaction listings. Dates are inclusive calendar dates.
type TransactionFilter struct {
	TransactionType TransactionType
	From            *time.Time
	To              *time.Time
	Reference       string
	AccountID       string
	Limit           int
	NextToken       string
}

// TransactionPage is one page of transactions, newest first.
type TransactionPage struct {
	Transactions []Transaction `json:"transactions"`
	NextToken    string        `json:"nextToken,omitempty"`
}
