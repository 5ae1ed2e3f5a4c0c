package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
)

const trialBalanceCacheKey = "reports:trial-balance"

// ReportService implements the read-only reporting facade
type ReportService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	txnRepo     portsrepo.TransactionReader
}

var _ portssvc.ReportingService = (*ReportService)(nil)

// NewReportService creates a new reporting service with the provided options
func NewReportService(accountRepo portsrepo.AccountReader, txnRepo portsrepo.TransactionReader, options ...ServiceOption) *ReportService {
	svc := &ReportService{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
	}
	svc.apply(options)
	return svc
}

// TrialBalance lists every active account's balance. The type totals and Difference cover all
// accounts, inactive ones included, so Difference is the global zero-sum check.
func (s *ReportService) TrialBalance(ctx context.Context) (*domain.TrialBalance, error) {
	if s.ReportCache == nil {
		return s.computeTrialBalance(ctx)
	}

	var tb domain.TrialBalance
	err := s.ReportCache.FetchJSON(ctx, trialBalanceCacheKey, &tb, func(ctx context.Context) (any, error) {
		return s.computeTrialBalance(ctx)
	})
	if err != nil {
		// The cache is an optimisation; fall back to a direct read.
		s.LogError(ctx, err, "Trial balance cache unavailable")
		return s.computeTrialBalance(ctx)
	}
	return &tb, nil
}

func (s *ReportService) computeTrialBalance(ctx context.Context) (*domain.TrialBalance, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, domain.AccountFilter{})
	if err != nil {
		return nil, err
	}

	tb := &domain.TrialBalance{
		Rows:   make([]domain.TrialBalanceRow, 0, len(accounts)),
		ByType: make(map[domain.AccountType]domain.Money, len(domain.AccountTypes)),
	}
	for _, t := range domain.AccountTypes {
		tb.ByType[t] = 0
	}

	for _, acc := range accounts {
		tb.ByType[acc.AccountType] += acc.Balance
		if acc.AccountType.IncreasesOnDebit() {
			tb.DebitTypeTotal += acc.Balance
		} else {
			tb.CreditTypeTotal += acc.Balance
		}
		if !acc.IsActive {
			continue
		}
		tb.Rows = append(tb.Rows, domain.TrialBalanceRow{
			AccountID:      acc.AccountID,
			Code:           acc.Code,
			AccountName:    acc.Name,
			AccountType:    acc.AccountType,
			Classification: acc.Classification,
			Balance:        acc.Balance,
		})
	}
	tb.Difference = tb.DebitTypeTotal - tb.CreditTypeTotal
	tb.Balanced = tb.Difference.IsZero()

	s.LogDebug(ctx, "Trial balance computed",
		slog.Int("accounts", len(tb.Rows)),
		slog.String("difference", tb.Difference.String()))
	return tb, nil
}

func (s *ReportService) TransactionsByType(ctx context.Context, transactionType domain.TransactionType) ([]domain.Transaction, error) {
	if !transactionType.IsValid() {
		return nil, apperrors.NewValidationError("type", "Transaction type must be one of journal, sale, purchase, receipt, payment")
	}
	return s.collect(ctx, domain.TransactionFilter{TransactionType: transactionType})
}

func (s *ReportService) TransactionsInRange(ctx context.Context, start, end time.Time) ([]domain.Transaction, error) {
	from := domain.TruncateToDate(start)
	to := domain.TruncateToDate(end)
	if from.After(to) {
		return nil, apperrors.NewValidationError("from", "Start date must not be after end date")
	}
	return s.collect(ctx, domain.TransactionFilter{From: &from, To: &to})
}

func (s *ReportService) TransactionsByReference(ctx context.Context, reference string) ([]domain.Transaction, error) {
	if reference == "" {
		return nil, apperrors.NewValidationError("reference", "Reference is required")
	}
	return s.collect(ctx, domain.TransactionFilter{Reference: reference})
}

func (s *ReportService) AccountActivity(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	return s.collect(ctx, domain.TransactionFilter{AccountID: accountID})
}

// collect walks every page of a listing.
func (s *ReportService) collect(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	filter.Limit = maxPageSize
	out := []domain.Transaction{}
	for {
		page, err := s.txnRepo.ListTransactions(ctx, filter)
		if err != nil {
			return nil, err
		}
		out = append(out, page.Transactions...)
		if page.NextToken == "" {
			return out, nil
		}
		filter.NextToken = page.NextToken
	}
}
