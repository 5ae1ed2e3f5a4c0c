package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// ReportingService defines read-only aggregate and filtered views of the ledger
type ReportingService interface {
	// TrialBalance lists every active account's balance grouped by type.
	TrialBalance(ctx context.Context) (*domain.TrialBalance, error)

	// TransactionsByType returns all transactions of one type, newest first.
	TransactionsByType(ctx context.Context, transactionType domain.TransactionType) ([]domain.Transaction, error)

	// TransactionsInRange returns all transactions dated within [start, end], newest first.
	TransactionsInRange(ctx context.Context, start, end time.Time) ([]domain.Transaction, error)

	// TransactionsByReference returns transactions carrying reference.
	TransactionsByReference(ctx context.Context, reference string) ([]domain.Transaction, error)

	// AccountActivity returns the transactions that touch one account.
	AccountActivity(ctx context.Context, accountID string) ([]domain.Transaction, error)
}
