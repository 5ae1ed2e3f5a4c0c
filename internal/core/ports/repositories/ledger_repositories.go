package repositories

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// TransactionReader defines read operations for posted transactions.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction together with its entries in line order.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns transactions matching filter ordered by date desc then sequence desc.
	ListTransactions(ctx context.Context, filter domain.TransactionFilter) (domain.TransactionPage, error)
}

// LedgerTx is the set of operations available inside one storage unit of work.
// Everything done through a LedgerTx commits or rolls back together.
type LedgerTx interface {
	// FindAccountsByIDsForUpdate loads accounts and holds them against concurrent balance changes
	// until the unit of work ends.
	FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// AdjustAccountBalance atomically applies delta to the stored balance and returns the new balance.
	AdjustAccountBalance(ctx context.Context, accountID string, delta domain.Money) (domain.Money, error)

	// SaveTransaction persists the header and all entries. It assigns the storage sequence.
	SaveTransaction(ctx context.Context, txn *domain.Transaction) error

	// FindTransactionByID reads a transaction and its entries inside the unit of work.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// DeleteTransaction removes the entries and then the header.
	DeleteTransaction(ctx context.Context, transactionID string) error
}

// TransactionManager runs fn inside a single durable atomic unit.
// If fn returns an error, or the commit fails, nothing fn wrote is kept.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionManager
}
