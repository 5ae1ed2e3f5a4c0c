// Package memory is an in-process persistence adapter. Units of work are serialised
// under one lock and undone from a log on failure.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
)

// Store keeps accounts and transactions in maps guarded by a single RWMutex.
type Store struct {
	mu           sync.RWMutex
	accounts     map[string]domain.Account
	codes        map[string]string
	transactions map[string]domain.Transaction
	entryCounts  map[string]int
	seq          int64
}

var (
	_ portsrepo.AccountRepositoryFacade     = (*Store)(nil)
	_ portsrepo.TransactionRepositoryFacade = (*Store)(nil)
)

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		accounts:     make(map[string]domain.Account),
		codes:        make(map[string]string),
		transactions: make(map[string]domain.Transaction),
		entryCounts:  make(map[string]int),
	}
}

// NewRepositoryProvider exposes the store through the repository ports.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     store,
		TransactionRepo: store,
	}
}

func (s *Store) SaveAccount(ctx context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.codes[account.Code]; exists {
		return &apperrors.ConflictError{Resource: "account", Field: "code", Value: account.Code}
	}
	if _, exists := s.accounts[account.AccountID]; exists {
		return &apperrors.ConflictError{Resource: "account", Field: "id", Value: account.AccountID}
	}
	s.accounts[account.AccountID] = account
	s.codes[account.Code] = account.AccountID
	return nil
}

func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return nil, &apperrors.NotFoundError{Resource: "account", ID: accountID}
	}
	return &account, nil
}

func (s *Store) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.codes[code]
	if !ok {
		return nil, &apperrors.NotFoundError{Resource: "account", ID: code}
	}
	account := s.accounts[id]
	return &account, nil
}

func (s *Store) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findAccounts(accountIDs), nil
}

func (s *Store) findAccounts(accountIDs []string) map[string]domain.Account {
	found := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if account, ok := s.accounts[id]; ok {
			found[id] = account
		}
	}
	return found
}

func (s *Store) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		if filter.AccountType != "" && account.AccountType != filter.AccountType {
			continue
		}
		if filter.ActiveOnly && !account.IsActive {
			continue
		}
		out = append(out, account)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// UpdateAccount stores every field except the balance, which only AdjustAccountBalance changes.
func (s *Store) UpdateAccount(ctx context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.accounts[account.AccountID]
	if !ok {
		return &apperrors.NotFoundError{Resource: "account", ID: account.AccountID}
	}
	if owner, exists := s.codes[account.Code]; exists && owner != account.AccountID {
		return &apperrors.ConflictError{Resource: "account", Field: "code", Value: account.Code}
	}

	if (account.Code != current.Code || account.AccountType != current.AccountType) && s.entryCounts[account.AccountID] > 0 {
		return apperrors.NewAccountInUseError(current.Code)
	}

	account.Balance = current.Balance
	account.CreatedAt = current.CreatedAt
	delete(s.codes, current.Code)
	s.codes[account.Code] = account.AccountID
	s.accounts[account.AccountID] = account
	return nil
}

func (s *Store) DeleteAccount(ctx context.Context, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return &apperrors.NotFoundError{Resource: "account", ID: accountID}
	}
	if s.entryCounts[accountID] > 0 {
		return apperrors.NewAccountInUseError(account.Code)
	}
	if !account.Balance.IsZero() {
		return &apperrors.ConflictError{Resource: "account", Value: account.Code, Reason: "balance must be zero"}
	}
	for _, other := range s.accounts {
		if other.ParentID == accountID {
			return &apperrors.ConflictError{Resource: "account", Value: account.Code, Reason: "account has child accounts"}
		}
	}
	delete(s.accounts, accountID)
	delete(s.codes, account.Code)
	return nil
}

func (s *Store) AccountHasEntries(ctx context.Context, accountID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entryCounts[accountID] > 0, nil
}

func (s *Store) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findTransaction(transactionID)
}

func (s *Store) findTransaction(transactionID string) (*domain.Transaction, error) {
	txn, ok := s.transactions[transactionID]
	if !ok {
		return nil, &apperrors.NotFoundError{Resource: "transaction", ID: transactionID}
	}
	out := cloneTransaction(txn)
	return &out, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter domain.TransactionFilter) (domain.TransactionPage, error) {
	var cursor *pagination.Cursor
	if filter.NextToken != "" {
		c, err := pagination.DecodeToken(filter.NextToken)
		if err != nil {
			return domain.TransactionPage{}, apperrors.NewValidationError("nextToken", "Invalid pagination token")
		}
		cursor = &c
	}

	s.mu.RLock()
	matched := make([]domain.Transaction, 0)
	for _, txn := range s.transactions {
		if matches(txn, filter) && (cursor == nil || cursor.Before(txn.Date, txn.Sequence)) {
			matched = append(matched, txn)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.After(matched[j].Date)
		}
		return matched[i].Sequence > matched[j].Sequence
	})

	page := domain.TransactionPage{}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		last := matched[filter.Limit-1]
		page.NextToken = pagination.EncodeToken(last.Date, last.Sequence)
		matched = matched[:filter.Limit]
	}
	page.Transactions = make([]domain.Transaction, len(matched))
	for i, txn := range matched {
		page.Transactions[i] = cloneTransaction(txn)
	}
	return page, nil
}

func matches(txn domain.Transaction, filter domain.TransactionFilter) bool {
	if filter.TransactionType != "" && txn.TransactionType != filter.TransactionType {
		return false
	}
	if filter.From != nil && txn.Date.Before(domain.TruncateToDate(*filter.From)) {
		return false
	}
	if filter.To != nil && txn.Date.After(domain.TruncateToDate(*filter.To)) {
		return false
	}
	if filter.Reference != "" && txn.Reference != filter.Reference {
		return false
	}
	if filter.AccountID != "" {
		for _, e := range txn.Entries {
			if e.AccountID == filter.AccountID {
				return true
			}
		}
		return false
	}
	return true
}

func cloneTransaction(txn domain.Transaction) domain.Transaction {
	entries := make([]domain.Entry, len(txn.Entries))
	copy(entries, txn.Entries)
	txn.Entries = entries
	return txn
}
