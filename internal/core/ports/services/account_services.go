package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts retrieves accounts matching filter, ordered by code.
	ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error)

	// ListAccountsByType retrieves accounts whose type matches exactly.
	ListAccountsByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount validates and persists a new account.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)

	// UpdateAccount applies a partial update. The balance is never changed.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)

	// DeactivateAccount excludes an account from new postings.
	DeactivateAccount(ctx context.Context, accountID string) (*domain.Account, error)

	// ActivateAccount re-enables postings to an account.
	ActivateAccount(ctx context.Context, accountID string) (*domain.Account, error)

	// DeleteAccount removes an account that no entry references.
	DeleteAccount(ctx context.Context, accountID string) error

	// SeedDefaultAccounts creates the default chart of accounts, skipping codes already in use.
	SeedDefaultAccounts(ctx context.Context) ([]domain.Account, error)
}

// AccountBalanceSvc is used by the ledger engine only; it is not exposed to HTTP callers.
type AccountBalanceSvc interface {
	AdjustBalance(ctx context.Context, tx portsrepo.LedgerTx, accountID string, delta domain.Money) (domain.Money, error)
}

// AccountSvcFacade combines the caller-facing account service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
