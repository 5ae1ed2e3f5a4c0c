package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200

	reversalReferencePrefix = "REV-"
	maxReferenceLength      = 64
)

// LedgerService is the ledger engine: it validates and atomically posts and deletes transactions.
type LedgerService struct {
	BaseService
	txnRepo  portsrepo.TransactionRepositoryFacade
	balances portssvc.AccountBalanceSvc
}

var _ portssvc.LedgerSvcFacade = (*LedgerService)(nil)

// NewLedgerService creates a new ledger service with the provided options
func NewLedgerService(txnRepo portsrepo.TransactionRepositoryFacade, balances portssvc.AccountBalanceSvc, options ...ServiceOption) *LedgerService {
	svc := &LedgerService{
		txnRepo:  txnRepo,
		balances: balances,
	}
	svc.apply(options)
	return svc
}

// PostTransaction validates req and posts it. Validation failures never write anything;
// a failure after the first write rolls everything back and returns a PostingFailedError.
func (s *LedgerService) PostTransaction(ctx context.Context, req dto.PostTransactionRequest) (*domain.Transaction, error) {
	txn, err := s.buildTransaction(req)
	if err != nil {
		return nil, err
	}
	return s.post(ctx, txn)
}

func (s *LedgerService) buildTransaction(req dto.PostTransactionRequest) (domain.Transaction, error) {
	verr := &apperrors.ValidationError{}

	var date time.Time
	rawDate := strings.TrimSpace(req.Date)
	if rawDate == "" {
		verr.Add("date", "Date is required")
	} else if parsed, err := time.Parse(dto.DateLayout, rawDate); err != nil {
		verr.Add("date", "Date must be formatted as YYYY-MM-DD")
	} else {
		date = parsed
	}

	txnType := domain.TransactionType(strings.TrimSpace(req.TransactionType))
	if txnType == "" {
		verr.Add("transactionType", "Transaction type is required")
	} else if !txnType.IsValid() {
		verr.Add("transactionType", "Transaction type must be one of journal, sale, purchase, receipt, payment")
	}

	if utf8.RuneCountInString(strings.TrimSpace(req.Reference)) > maxReferenceLength {
		verr.Add("reference", fmt.Sprintf("Reference must be at most %d characters", maxReferenceLength))
	}

	if len(req.Entries) < accounting.MinEntries {
		verr.Add("entries", fmt.Sprintf("A transaction requires at least %d entries", accounting.MinEntries))
	}
	if err := verr.OrNil(); err != nil {
		return domain.Transaction{}, err
	}

	entries := make([]domain.Entry, len(req.Entries))
	for i, e := range req.Entries {
		debit, err := domain.NewMoneyFromDecimal(e.Debit)
		if err != nil {
			return domain.Transaction{}, &apperrors.InvalidEntryError{Index: i, Reason: "debit: " + err.Error(), Err: err}
		}
		credit, err := domain.NewMoneyFromDecimal(e.Credit)
		if err != nil {
			return domain.Transaction{}, &apperrors.InvalidEntryError{Index: i, Reason: "credit: " + err.Error(), Err: err}
		}
		entries[i] = domain.Entry{
			LineNo:      i,
			AccountID:   strings.TrimSpace(e.AccountID),
			Description: strings.TrimSpace(e.Description),
			Debit:       debit,
			Credit:      credit,
		}
	}
	if err := accounting.ValidateEntries(entries); err != nil {
		return domain.Transaction{}, err
	}

	return domain.Transaction{
		Date:            date,
		TransactionType: txnType,
		Reference:       strings.TrimSpace(req.Reference),
		Description:     strings.TrimSpace(req.Description),
		Entries:         entries,
	}, nil
}

// post runs the write path for an already shape-validated transaction.
func (s *LedgerService) post(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error) {
	now := s.Now()
	txn.TransactionID = s.NewID()
	txn.CreatedAt = now
	txn.UpdatedAt = now
	if txn.Reference == "" {
		txn.Reference = s.generateReference(txn.TransactionType, txn.Date)
	}
	for i := range txn.Entries {
		txn.Entries[i].EntryID = s.NewID()
		txn.Entries[i].TransactionID = txn.TransactionID
		txn.Entries[i].LineNo = i
	}

	written := false
	err := s.txnRepo.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		accountTypes, err := s.lockAccounts(ctx, tx, txn.Entries, true)
		if err != nil {
			return err
		}
		changes, err := accounting.BalanceChanges(txn.Entries, accountTypes)
		if err != nil {
			return err
		}

		written = true
		if err := tx.SaveTransaction(ctx, &txn); err != nil {
			return err
		}
		return s.applyChanges(ctx, tx, changes)
	})
	if err != nil {
		if written {
			return nil, &apperrors.PostingFailedError{Operation: "post", TransactionID: txn.TransactionID, Cause: err}
		}
		return nil, err
	}
	s.InvalidateReports(ctx)

	debit, _ := txn.Totals()
	s.LogInfo(ctx, "Transaction posted",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("reference", txn.Reference),
		slog.String("type", string(txn.TransactionType)),
		slog.Int("entries", len(txn.Entries)),
		slog.String("amount", debit.String()))
	return &txn, nil
}

// DeleteTransaction reverses the balance effect of a transaction using the same type rule it was
// posted with, then removes its entries and header, all in one unit of work.
func (s *LedgerService) DeleteTransaction(ctx context.Context, transactionID string) error {
	written := false
	err := s.txnRepo.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		txn, err := tx.FindTransactionByID(ctx, transactionID)
		if err != nil {
			return err
		}
		accountTypes, err := s.lockAccounts(ctx, tx, txn.Entries, false)
		if err != nil {
			return err
		}
		changes, err := accounting.BalanceChanges(txn.Entries, accountTypes)
		if err != nil {
			return err
		}

		written = true
		if err := s.applyChanges(ctx, tx, accounting.InvertChanges(changes)); err != nil {
			return err
		}
		return tx.DeleteTransaction(ctx, transactionID)
	})
	if err != nil {
		if written {
			return &apperrors.PostingFailedError{Operation: "delete", TransactionID: transactionID, Cause: err}
		}
		return err
	}
	s.InvalidateReports(ctx)

	s.LogInfo(ctx, "Transaction deleted", slog.String("transaction_id", transactionID))
	return nil
}

// ReverseTransaction posts a mirror image of an existing transaction, swapping every entry's side.
// The original stays in place; both remain visible in listings.
func (s *LedgerService) ReverseTransaction(ctx context.Context, transactionID string, req dto.ReverseTransactionRequest) (*domain.Transaction, error) {
	original, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	date := domain.TruncateToDate(s.Now())
	if raw := strings.TrimSpace(req.Date); raw != "" {
		parsed, err := time.Parse(dto.DateLayout, raw)
		if err != nil {
			return nil, apperrors.NewValidationError("date", "Date must be formatted as YYYY-MM-DD")
		}
		date = parsed
	}

	reference := reversalReferencePrefix + original.Reference
	if utf8.RuneCountInString(reference) > maxReferenceLength {
		return nil, apperrors.NewValidationError("reference",
			fmt.Sprintf("Reversal reference %q exceeds %d characters", reference, maxReferenceLength))
	}

	entries := make([]domain.Entry, len(original.Entries))
	for i, e := range original.Entries {
		entries[i] = domain.Entry{
			AccountID:   e.AccountID,
			Description: e.Description,
			Debit:       e.Credit,
			Credit:      e.Debit,
		}
	}
	if err := accounting.ValidateEntries(entries); err != nil {
		return nil, err
	}

	reversal, err := s.post(ctx, domain.Transaction{
		Date:            date,
		TransactionType: original.TransactionType,
		Reference:       reference,
		Description:     "Reversal of " + original.Reference,
		Entries:         entries,
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Transaction reversed",
		slog.String("original_transaction_id", transactionID),
		slog.String("reversal_transaction_id", reversal.TransactionID))
	return reversal, nil
}

func (s *LedgerService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return s.txnRepo.FindTransactionByID(ctx, transactionID)
}

func (s *LedgerService) ListTransactions(ctx context.Context, filter domain.TransactionFilter) (*domain.TransactionPage, error) {
	if err := validateTransactionFilter(filter); err != nil {
		return nil, err
	}
	filter.Limit = pagination.NormalizeLimit(filter.Limit, defaultPageSize, maxPageSize)

	page, err := s.txnRepo.ListTransactions(ctx, filter)
	if err != nil {
		return nil, err
	}
	if page.Transactions == nil {
		page.Transactions = []domain.Transaction{}
	}
	return &page, nil
}

func validateTransactionFilter(filter domain.TransactionFilter) error {
	verr := &apperrors.ValidationError{}
	if filter.TransactionType != "" && !filter.TransactionType.IsValid() {
		verr.Add("type", "Transaction type must be one of journal, sale, purchase, receipt, payment")
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		verr.Add("from", "Start date must not be after end date")
	}
	if filter.NextToken != "" {
		if _, err := pagination.DecodeToken(filter.NextToken); err != nil {
			verr.Add("nextToken", "Invalid pagination token")
		}
	}
	return verr.OrNil()
}

// lockAccounts fetches every referenced account in one batch, holding them for the unit of work,
// and returns their types. Ids are sorted so concurrent postings lock in the same order.
func (s *LedgerService) lockAccounts(ctx context.Context, tx portsrepo.LedgerTx, entries []domain.Entry, requireActive bool) (map[string]domain.AccountType, error) {
	ids := domain.Transaction{Entries: entries}.AccountIDs()
	sort.Strings(ids)

	accounts, err := tx.FindAccountsByIDsForUpdate(ctx, ids)
	if err != nil {
		return nil, err
	}

	accountTypes := make(map[string]domain.AccountType, len(accounts))
	for i, e := range entries {
		account, ok := accounts[e.AccountID]
		if !ok {
			return nil, &apperrors.InvalidEntryError{
				Index:  i,
				Reason: fmt.Sprintf("account %s does not exist", e.AccountID),
				Err:    &apperrors.NotFoundError{Resource: "account", ID: e.AccountID},
			}
		}
		if requireActive && !account.IsActive {
			return nil, &apperrors.InactiveAccountError{AccountID: e.AccountID, Index: i}
		}
		accountTypes[e.AccountID] = account.AccountType
	}
	return accountTypes, nil
}

// applyChanges adjusts balances in account id order. Zero net deltas are skipped.
func (s *LedgerService) applyChanges(ctx context.Context, tx portsrepo.LedgerTx, changes map[string]domain.Money) error {
	ids := make([]string, 0, len(changes))
	for id := range changes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		delta := changes[id]
		if delta.IsZero() {
			continue
		}
		if _, err := s.balances.AdjustBalance(ctx, tx, id, delta); err != nil {
			return fmt.Errorf("adjusting balance of account %s: %w", id, err)
		}
	}
	return nil
}

// generateReference builds "<PREFIX>-<YYYYMMDD>-<6 hex>" from the transaction type convention.
func (s *LedgerService) generateReference(txnType domain.TransactionType, date time.Time) string {
	suffix := strings.ReplaceAll(s.NewID(), "-", "")
	if len(suffix) > 6 {
		suffix = suffix[:6]
	}
	return fmt.Sprintf("%s-%s-%s", txnType.ReferencePrefix(), date.Format("20060102"), strings.ToUpper(suffix))
}
