package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// TransactionReaderSvc defines read operations for posted transactions
type TransactionReaderSvc interface {
	// GetTransactionByID retrieves a transaction with its entries.
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a page of transactions, newest first.
	ListTransactions(ctx context.Context, filter domain.TransactionFilter) (*domain.TransactionPage, error)
}

// TransactionWriterSvc defines posting operations
type TransactionWriterSvc interface {
	// PostTransaction validates and atomically posts a transaction and its balance effects.
	PostTransaction(ctx context.Context, req dto.PostTransactionRequest) (*domain.Transaction, error)

	// DeleteTransaction atomically reverses a transaction's balance effects and removes it.
	DeleteTransaction(ctx context.Context, transactionID string) error

	// ReverseTransaction posts a new transaction that offsets an existing one, leaving it in place.
	ReverseTransaction(ctx context.Context, transactionID string, req dto.ReverseTransactionRequest) (*domain.Transaction, error)
}

// LedgerSvcFacade combines all ledger service interfaces
type LedgerSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
