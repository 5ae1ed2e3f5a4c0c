package memory

import (
	"context"
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

// WithinTransaction holds the write lock for the whole of fn. Every mutation made through the
// LedgerTx records its inverse; if fn fails or panics the inverses run newest first.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &ledgerTx{store: s}
	defer func() {
		if r := recover(); r != nil {
			tx.rollback()
			panic(r)
		}
	}()
	if err := fn(ctx, tx); err != nil {
		tx.rollback()
		return err
	}
	if err := ctx.Err(); err != nil {
		tx.rollback()
		return apperrors.NewStorageError("commit", err)
	}
	return nil
}

type ledgerTx struct {
	store *Store
	undo  []func()
}

var _ portsrepo.LedgerTx = (*ledgerTx)(nil)

func (tx *ledgerTx) rollback() {
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.undo = nil
}

// FindAccountsByIDsForUpdate needs no extra locking: the store lock is already held.
func (tx *ledgerTx) FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	return tx.store.findAccounts(accountIDs), nil
}

func (tx *ledgerTx) AdjustAccountBalance(ctx context.Context, accountID string, delta domain.Money) (domain.Money, error) {
	account, ok := tx.store.accounts[accountID]
	if !ok {
		return 0, &apperrors.NotFoundError{Resource: "account", ID: accountID}
	}
	previous := account.Balance
	balance, err := previous.Add(delta)
	if err != nil {
		return 0, apperrors.NewStorageError("adjust balance", fmt.Errorf("account %s: %w", accountID, err))
	}

	account.Balance = balance
	tx.store.accounts[accountID] = account
	tx.undo = append(tx.undo, func() {
		restored := tx.store.accounts[accountID]
		restored.Balance = previous
		tx.store.accounts[accountID] = restored
	})
	return balance, nil
}

func (tx *ledgerTx) SaveTransaction(ctx context.Context, txn *domain.Transaction) error {
	if _, exists := tx.store.transactions[txn.TransactionID]; exists {
		return &apperrors.ConflictError{Resource: "transaction", Field: "id", Value: txn.TransactionID}
	}

	previousSeq := tx.store.seq
	tx.store.seq++
	txn.Sequence = tx.store.seq
	tx.store.transactions[txn.TransactionID] = cloneTransaction(*txn)
	tx.countEntries(txn.Entries, 1)

	id := txn.TransactionID
	entries := txn.Entries
	tx.undo = append(tx.undo, func() {
		delete(tx.store.transactions, id)
		tx.countEntries(entries, -1)
		tx.store.seq = previousSeq
	})
	return nil
}

func (tx *ledgerTx) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return tx.store.findTransaction(transactionID)
}

func (tx *ledgerTx) DeleteTransaction(ctx context.Context, transactionID string) error {
	txn, ok := tx.store.transactions[transactionID]
	if !ok {
		return &apperrors.NotFoundError{Resource: "transaction", ID: transactionID}
	}

	delete(tx.store.transactions, transactionID)
	tx.countEntries(txn.Entries, -1)
	tx.undo = append(tx.undo, func() {
		tx.store.transactions[transactionID] = txn
		tx.countEntries(txn.Entries, 1)
	})
	return nil
}

func (tx *ledgerTx) countEntries(entries []domain.Entry, delta int) {
	for _, e := range entries {
		tx.store.entryCounts[e.AccountID] += delta
		if tx.store.entryCounts[e.AccountID] <= 0 {
			delete(tx.store.entryCounts, e.AccountID)
		}
	}
}
