package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format accepted and returned by the API.
const DateLayout = "2006-01-02"

// EntryRequest is one debit or credit line of a transaction being posted.
type EntryRequest struct {
	AccountID   string          `json:"accountID"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit" swaggertype:"string" example:"100.00"`
	Credit      decimal.Decimal `json:"credit" swaggertype:"string" example:"0"`
}

// PostTransactionRequest defines the data needed to post a transaction.
type PostTransactionRequest struct {
	Date            string         `json:"date" example:"2026-01-31"`
	TransactionType string         `json:"transactionType" example:"journal"`
	Reference       string         `json:"reference"` // generated from the type prefix when empty
	Description     string         `json:"description"`
	Entries         []EntryRequest `json:"entries"`
}

// ReverseTransactionRequest optionally sets the date of a reversing transaction.
type ReverseTransactionRequest struct {
	Date string `json:"date"` // defaults to today
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	TransactionType string  `form:"type"`
	From            string  `form:"from"`
	To              string  `form:"to"`
	Reference       string  `form:"reference"`
	AccountID       string  `form:"accountId"`
	Limit           int     `form:"limit"`
	NextToken       *string `form:"nextToken"`
}

// EntryResponse defines the data returned for an entry.
type EntryResponse struct {
	EntryID     string          `json:"entryID"`
	LineNo      int             `json:"lineNo"`
	AccountID   string          `json:"accountID"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit" swaggertype:"string"`
	Credit      decimal.Decimal `json:"credit" swaggertype:"string"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID   string                 `json:"transactionID"`
	Date            string                 `json:"date"`
	TransactionType domain.TransactionType `json:"transactionType"`
	Reference       string                 `json:"reference"`
	Description     string                 `json:"description"`
	TotalDebit      decimal.Decimal        `json:"totalDebit" swaggertype:"string"`
	TotalCredit     decimal.Decimal        `json:"totalCredit" swaggertype:"string"`
	Entries         []EntryResponse        `json:"entries"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToEntryResponse converts a domain.Entry to EntryResponse DTO
func ToEntryResponse(e domain.Entry) EntryResponse {
	return EntryResponse{
		EntryID:     e.EntryID,
		LineNo:      e.LineNo,
		AccountID:   e.AccountID,
		Description: e.Description,
		Debit:       e.Debit.Decimal(),
		Credit:      e.Credit.Decimal(),
	}
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	entries := make([]EntryResponse, len(txn.Entries))
	for i, e := range txn.Entries {
		entries[i] = ToEntryResponse(e)
	}
	debit, credit := txn.Totals()
	return TransactionResponse{
		TransactionID:   txn.TransactionID,
		Date:            txn.Date.Format(DateLayout),
		TransactionType: txn.TransactionType,
		Reference:       txn.Reference,
		Description:     txn.Description,
		TotalDebit:      debit.Decimal(),
		TotalCredit:     credit.Decimal(),
		Entries:         entries,
		CreatedAt:       txn.CreatedAt,
		UpdatedAt:       txn.UpdatedAt,
	}
}

// ToListTransactionsResponse converts a domain.TransactionPage to ListTransactionsResponse DTO
func ToListTransactionsResponse(page *domain.TransactionPage) ListTransactionsResponse {
	res := ListTransactionsResponse{Transactions: make([]TransactionResponse, len(page.Transactions))}
	for i := range page.Transactions {
		res.Transactions[i] = ToTransactionResponse(&page.Transactions[i])
	}
	if page.NextToken != "" {
		token := page.NextToken
		res.NextToken = &token
	}
	return res
}
