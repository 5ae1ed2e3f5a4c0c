package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/adapters/database/memory"
	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var fixedNow = time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// ledgerFixture wires the services over a fresh memory store.
type ledgerFixture struct {
	suite.Suite
	ctx      context.Context
	store    *memory.Store
	accounts *services.AccountService
	ledger   *services.LedgerService
	reports  *services.ReportService
}

func (f *ledgerFixture) SetupTest() {
	f.ctx = context.Background()
	f.store = memory.NewStore()
	f.accounts = services.NewAccountService(f.store, services.WithClock(fixedClock))
	f.ledger = services.NewLedgerService(f.store, f.accounts, services.WithClock(fixedClock))
	f.reports = services.NewReportService(f.store, f.store, services.WithClock(fixedClock))
}

func (f *ledgerFixture) createAccount(code string, accountType domain.AccountType) *domain.Account {
	acc, err := f.accounts.CreateAccount(f.ctx, dto.CreateAccountRequest{
		Code:           code,
		Name:           "Account " + code,
		AccountType:    string(accountType),
		Classification: string(domain.ClassificationsFor(accountType)[0]),
	})
	f.Require().NoError(err)
	return acc
}

func (f *ledgerFixture) balance(accountID string) domain.Money {
	acc, err := f.accounts.GetAccountByID(f.ctx, accountID)
	f.Require().NoError(err)
	return acc.Balance
}

func debit(accountID, amount string) dto.EntryRequest {
	return dto.EntryRequest{AccountID: accountID, Debit: decimal.RequireFromString(amount)}
}

func credit(accountID, amount string) dto.EntryRequest {
	return dto.EntryRequest{AccountID: accountID, Credit: decimal.RequireFromString(amount)}
}

func journal(entries ...dto.EntryRequest) dto.PostTransactionRequest {
	return dto.PostTransactionRequest{
		Date:            "2026-03-01",
		TransactionType: string(domain.Journal),
		Description:     "test posting",
		Entries:         entries,
	}
}

type LedgerServiceTestSuite struct {
	ledgerFixture
	cash     *domain.Account
	sales    *domain.Account
	payable  *domain.Account
	rent     *domain.Account
	capital  *domain.Account
	all      []*domain.Account
}

func (s *LedgerServiceTestSuite) SetupTest() {
	s.ledgerFixture.SetupTest()
	s.cash = s.createAccount("1001", domain.Asset)
	s.sales = s.createAccount("4001", domain.Income)
	s.payable = s.createAccount("2001", domain.Liability)
	s.rent = s.createAccount("5001", domain.Expense)
	s.capital = s.createAccount("3001", domain.Equity)
	s.all = []*domain.Account{s.cash, s.sales, s.payable, s.rent, s.capital}
}

func TestLedgerService(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}

// assertZeroSum checks that debit-increasing and credit-increasing balances net to zero.
func (s *LedgerServiceTestSuite) assertZeroSum() {
	var debitSide, creditSide domain.Money
	for _, acc := range s.all {
		b := s.balance(acc.AccountID)
		if acc.AccountType.IncreasesOnDebit() {
			debitSide += b
		} else {
			creditSide += b
		}
	}
	s.Equal(debitSide, creditSide)
}

func (s *LedgerServiceTestSuite) listAll() []domain.Transaction {
	page, err := s.ledger.ListTransactions(s.ctx, domain.TransactionFilter{Limit: 200})
	s.Require().NoError(err)
	return page.Transactions
}

func (s *LedgerServiceTestSuite) TestPostAndDeleteScenario() {
	txn, err := s.ledger.PostTransaction(s.ctx, journal(debit(s.cash.AccountID, "100"), credit(s.sales.AccountID, "100")))
	s.Require().NoError(err)

	s.Equal(domain.MustMoney("100"), s.balance(s.cash.AccountID))
	s.Equal(domain.MustMoney("100"), s.balance(s.sales.AccountID))

	stored, err := s.ledger.GetTransactionByID(s.ctx, txn.TransactionID)
	s.Require().NoError(err)
	s.Len(stored.Entries, 2)
	s.Equal(txn.TransactionID, stored.Entries[0].TransactionID)

	s.Require().NoError(s.ledger.DeleteTransaction(s.ctx, txn.TransactionID))

	s.Equal(domain.Money(0), s.balance(s.cash.AccountID))
	s.Equal(domain.Money(0), s.balance(s.sales.AccountID))
	s.Empty(s.listAll())

	_, err = s.ledger.GetTransactionByID(s.ctx, txn.TransactionID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerServiceTestSuite) TestImbalancedScenarioLeavesNoTrace() {
	_, err := s.ledger.PostTransaction(s.ctx, journal(debit(s.cash.AccountID, "60"), credit(s.sales.AccountID, "50")))

	var imbalanced *apperrors.ImbalancedTransactionError
	s.Require().ErrorAs(err, &imbalanced)
	s.Equal(int64(6000), imbalanced.TotalDebit)
	s.Equal(int64(5000), imbalanced.TotalCredit)
	s.ErrorIs(err, apperrors.ErrImbalancedTransaction)

	s.Equal(domain.Money(0), s.balance(s.cash.AccountID))
	s.Equal(domain.Money(0), s.balance(s.sales.AccountID))
	s.Empty(s.listAll())
}

func (s *LedgerServiceTestSuite) TestTypeSignCorrectness() {
	cases := []struct {
		name    string
		account func() *domain.Account
		side    func(string, string) dto.EntryRequest
		other   func(string, string) dto.EntryRequest
		want    domain.Money
	}{
		{"debit asset increases", func() *domain.Account { return s.cash }, debit, credit, domain.MustMoney("100")},
		{"credit asset decreases", func() *domain.Account { return s.cash }, credit, debit, domain.MustMoney("-100")},
		{"debit expense increases", func() *domain.Account { return s.rent }, debit, credit, domain.MustMoney("100")},
		{"debit liability decreases", func() *domain.Account { return s.payable }, debit, credit, domain.MustMoney("-100")},
		{"credit liability increases", func() *domain.Account { return s.payable }, credit, debit, domain.MustMoney("100")},
		{"credit income increases", func() *domain.Account { return s.sales }, credit, debit, domain.MustMoney("100")},
		{"debit equity decreases", func() *domain.Account { return s.capital }, debit, credit, domain.MustMoney("-100")},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.SetupTest()
			target := tc.account()
			// Offset against an account of a different type so only target is measured.
			offset := s.rent
			if target.AccountID == s.rent.AccountID {
				offset = s.cash
			}
			_, err := s.ledger.PostTransaction(s.ctx, journal(tc.side(target.AccountID, "100"), tc.other(offset.AccountID, "100")))
			s.Require().NoError(err)
			s.Equal(tc.want, s.balance(target.AccountID))
		})
	}
}

func (s *LedgerServiceTestSuite) TestDeleteRestoresBalancesExactly() {
	_, err := s.ledger.PostTransaction(s.ctx, journal(debit(s.cash.AccountID, "1000.00"), credit(s.capital.AccountID, "1000.00")))
	s.Require().NoError(err)

	before := map[string]domain.Money{}
	for _, acc := range s.all {
		before[acc.AccountID] = s.balance(acc.AccountID)
	}

	txn, err := s.ledger.PostTransaction(s.ctx, journal(
		debit(s.rent.AccountID, "12.34"),
		debit(s.cash.AccountID, "0.66"),
		credit(s.payable.AccountID, "10.00"),
		credit(s.cash.AccountID, "3.00"),
	))
	s.Require().NoError(err)
	s.Require().NoError(s.ledger.DeleteTransaction(s.ctx, txn.TransactionID))

	for _, acc := range s.all {
		s.Equal(before[acc.AccountID], s.balance(acc.AccountID), acc.Code)
	}
}

func (s *LedgerServiceTestSuite) TestGlobalZeroSumAcrossPostingsAndDeletes() {
	posted := []string{}
	reqs := []dto.PostTransactionRequest{
		journal(debit(s.cash.AccountID, "500"), credit(s.capital.AccountID, "500")),
		journal(debit(s.rent.AccountID, "120.50"), credit(s.cash.AccountID, "120.50")),
		journal(debit(s.cash.AccountID, "80"), credit(s.sales.AccountID, "80")),
		journal(debit(s.rent.AccountID, "40"), credit(s.payable.AccountID, "40")),
		journal(debit(s.payable.AccountID, "40"), credit(s.cash.AccountID, "40")),
	}
	for _, req := range reqs {
		txn, err := s.ledger.PostTransaction(s.ctx, req)
		s.Require().NoError(err)
		posted = append(posted, txn.TransactionID)
		s.assertZeroSum()
	}

	s.Require().NoError(s.ledger.DeleteTransaction(s.ctx, posted[1]))
	s.assertZeroSum()
	s.Require().NoError(s.ledger.DeleteTransaction(s.ctx, posted[3]))
	s.assertZeroSum()

	tb, err := s.reports.TrialBalance(s.ctx)
	s.Require().NoError(err)
	s.True(tb.Balanced)
	s.Equal(domain.Money(0), tb.Difference)
}

func (s *LedgerServiceTestSuite) TestMalformedEntriesRejected() {
	s.Run("both sides on one entry", func() {
		_, err := s.ledger.PostTransaction(s.ctx, journal(
			dto.EntryRequest{AccountID: s.cash.AccountID, Debit: decimal.NewFromInt(50), Credit: decimal.NewFromInt(50)},
			credit(s.sales.AccountID, "0"),
		))
		var invalid *apperrors.InvalidEntryError
		s.Require().ErrorAs(err, &invalid)
		s.Equal(0, invalid.Index)
	})

	s.Run("single entry", func() {
		_, err := s.ledger.PostTransaction(s.ctx, journal(debit(s.cash.AccountID, "50")))
		var verr *apperrors.ValidationError
		s.Require().ErrorAs(err, &verr)
		s.Contains(verr.Fields, "entries")
	})

	s.Run("zero entry", func() {
		_, err := s.ledger.PostTransaction(s.ctx, journal(debit(s.cash.AccountID, "50"), credit(s.sales.AccountID, "50"), debit(s.rent.AccountID, "0")))
		var invalid *apperrors.InvalidEntryError
		s.Require().ErrorAs(err, &invalid)
		s.Equal(2, invalid.Index)
	})

	s.Run("negative amount", func() {
		_, err := s.ledger.PostTransaction(s.ctx, journal(debit(s.cash.AccountID, "-5"), credit(s.sales.AccountID, "-5")))
		s.ErrorIs(err, apperrors.ErrInvalidEntry)
	})

	s.Run("sub-cent amount", func() {
		_, err := s.ledger.PostTransaction(s.ctx, journal(debit(s.cash.AccountID, "1.005"), credit(s.sales.AccountID, "1.005")))
		s.ErrorIs(err, apperrors.ErrInvalidEntry)
	})

	s.Run("missing account", func() {
		_, err := s.ledger.PostTransaction(s.ctx, journal(debit(s.cash.AccountID, "5"), credit("no-such-account", "5")))
		var invalid *apperrors.InvalidEntryError
		s.Require().ErrorAs(err, &invalid)
		s.Equal(1, invalid.Index)
		s.ErrorIs(err, apperrors.ErrNotFound)
	})

	s.Run("deactivated account", func() {
		_, err := s.accounts.DeactivateAccount(s.ctx, s.sales.AccountID)
		s.Require().NoError(err)

		_, err = s.ledger.PostTransaction(s.ctx, journal(debit(s.cash.AccountID, "5"), credit(s.sales.AccountID, "5")))
		var inactive *apperrors.InactiveAccountError
		s.Require().ErrorAs(err, &inactive)
		s.Equal(s.sales.AccountID, inactive.AccountID)
		s.Equal(1, inactive.Index)
	})

	s.Empty(s.listAll())
	s.Equal(domain.Money(0), s.balance(s.cash.AccountID))
}

func (s *LedgerServiceTestSuite) TestHeaderValidation() {
	_, err := s.ledger.PostTransaction(s.ctx, dto.PostTransactionRequest{
		Date:            "03/01/2026",
		TransactionType: "refund",
		Entries:         []dto.EntryRequest{debit(s.cash.AccountID, "1"), credit(s.sales.AccountID, "1")},
	})
	var verr *apperrors.ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields, "date")
	s.Contains(verr.Fields, "transactionType")

	_, err = s.ledger.PostTransaction(s.ctx, dto.PostTransactionRequest{Entries: []dto.EntryRequest{debit(s.cash.AccountID, "1"), credit(s.sales.AccountID, "1")}})
	s.Require().ErrorAs(err, &verr)
	s.Equal("Date is required", verr.Fields["date"])
	s.Equal("Transaction type is required", verr.Fields["transactionType"])
}

func (s *LedgerServiceTestSuite) TestGeneratedReferenceUsesTypePrefix() {
	req := journal(debit(s.cash.AccountID, "10"), credit(s.sales.AccountID, "10"))
	req.TransactionType = string(domain.Sale)
	txn, err := s.ledger.PostTransaction(s.ctx, req)
	s.Require().NoError(err)
	s.True(strings.HasPrefix(txn.Reference, "INV-20260301-"), txn.Reference)

	req.Reference = "  CUSTOM-1 "
	txn, err = s.ledger.PostTransaction(s.ctx, req)
	s.Require().NoError(err)
	s.Equal("CUSTOM-1", txn.Reference)
	s.Equal(fixedNow, txn.CreatedAt)
}

func (s *LedgerServiceTestSuite) TestSameAccountOnBothSidesNetsToZero() {
	txn, err := s.ledger.PostTransaction(s.ctx, journal(debit(s.cash.AccountID, "25"), credit(s.cash.AccountID, "25")))
	s.Require().NoError(err)
	s.Len(txn.Entries, 2)
	s.Equal(domain.Money(0), s.balance(s.cash.AccountID))
}

func (s *LedgerServiceTestSuite) TestReverseTransaction() {
	original, err := s.ledger.PostTransaction(s.ctx, journal(debit(s.rent.AccountID, "75"), credit(s.cash.AccountID, "75")))
	s.Require().NoError(err)

	reversal, err := s.ledger.ReverseTransaction(s.ctx, original.TransactionID, dto.ReverseTransactionRequest{Date: "2026-03-05"})
	s.Require().NoError(err)

	s.Equal("REV-"+original.Reference, reversal.Reference)
	s.Equal(original.TransactionType, reversal.TransactionType)
	s.Equal(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), reversal.Date)
	s.Equal(original.Entries[0].Debit, reversal.Entries[0].Credit)
	s.Equal(domain.Money(0), s.balance(s.rent.AccountID))
	s.Equal(domain.Money(0), s.balance(s.cash.AccountID))
	s.Len(s.listAll(), 2)

	_, err = s.ledger.ReverseTransaction(s.ctx, "missing", dto.ReverseTransactionRequest{})
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerServiceTestSuite) TestReferenceLongerThanColumnIsRejected() {
	req := journal(debit(s.cash.AccountID, "10"), credit(s.sales.AccountID, "10"))
	req.Reference = strings.Repeat("R", 80)

	_, err := s.ledger.PostTransaction(s.ctx, req)
	var verr *apperrors.ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Equal("Reference must be at most 64 characters", verr.Fields["reference"])
	s.Empty(s.listAll())
	s.Equal(domain.Money(0), s.balance(s.cash.AccountID))

	req.Reference = strings.Repeat("R", 64)
	txn, err := s.ledger.PostTransaction(s.ctx, req)
	s.Require().NoError(err)
	s.Len(txn.Reference, 64)
}

func (s *LedgerServiceTestSuite) TestReversalReferenceOverflowFailsBeforeWriting() {
	for _, n := range []int{61, 64} {
		s.Run(fmt.Sprintf("reference of %d characters", n), func() {
			s.SetupTest()
			req := journal(debit(s.rent.AccountID, "75"), credit(s.cash.AccountID, "75"))
			req.Reference = strings.Repeat("R", n)
			original, err := s.ledger.PostTransaction(s.ctx, req)
			s.Require().NoError(err)

			_, err = s.ledger.ReverseTransaction(s.ctx, original.TransactionID, dto.ReverseTransactionRequest{})
			s.ErrorIs(err, apperrors.ErrValidation)
			s.NotErrorIs(err, apperrors.ErrPostingFailed)

			s.Len(s.listAll(), 1)
			s.Equal(domain.MustMoney("75"), s.balance(s.rent.AccountID))
		})
	}
}

func (s *LedgerServiceTestSuite) TestReversalReferenceAtLimitIsPosted() {
	req := journal(debit(s.rent.AccountID, "75"), credit(s.cash.AccountID, "75"))
	req.Reference = strings.Repeat("R", 60)
	original, err := s.ledger.PostTransaction(s.ctx, req)
	s.Require().NoError(err)

	reversal, err := s.ledger.ReverseTransaction(s.ctx, original.TransactionID, dto.ReverseTransactionRequest{})
	s.Require().NoError(err)
	s.Len(reversal.Reference, 64)
}

func (s *LedgerServiceTestSuite) TestDeleteUnknownTransaction() {
	err := s.ledger.DeleteTransaction(s.ctx, "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.NotErrorIs(err, apperrors.ErrPostingFailed)
}

func (s *LedgerServiceTestSuite) TestDeleteSucceedsForDeactivatedAccount() {
	txn, err := s.ledger.PostTransaction(s.ctx, journal(debit(s.cash.AccountID, "9"), credit(s.sales.AccountID, "9")))
	s.Require().NoError(err)
	_, err = s.accounts.DeactivateAccount(s.ctx, s.sales.AccountID)
	s.Require().NoError(err)

	s.Require().NoError(s.ledger.DeleteTransaction(s.ctx, txn.TransactionID))
	s.Equal(domain.Money(0), s.balance(s.sales.AccountID))
}

func (s *LedgerServiceTestSuite) TestListTransactionsPagination() {
	for d := 1; d <= 5; d++ {
		req := journal(debit(s.cash.AccountID, "1"), credit(s.sales.AccountID, "1"))
		req.Date = fmt.Sprintf("2026-03-%02d", d)
		_, err := s.ledger.PostTransaction(s.ctx, req)
		s.Require().NoError(err)
	}

	page, err := s.ledger.ListTransactions(s.ctx, domain.TransactionFilter{Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(page.Transactions, 2)
	s.Equal("2026-03-05", page.Transactions[0].Date.Format(dto.DateLayout))
	s.NotEmpty(page.NextToken)

	seen := len(page.Transactions)
	for page.NextToken != "" {
		page, err = s.ledger.ListTransactions(s.ctx, domain.TransactionFilter{Limit: 2, NextToken: page.NextToken})
		s.Require().NoError(err)
		seen += len(page.Transactions)
	}
	s.Equal(5, seen)

	_, err = s.ledger.ListTransactions(s.ctx, domain.TransactionFilter{NextToken: "%%%"})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerServiceTestSuite) TestConcurrentPostingsKeepBalancesConsistent() {
	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.ledger.PostTransaction(s.ctx, journal(debit(s.cash.AccountID, "1.25"), credit(s.sales.AccountID, "1.25")))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.NoError(err)
	}

	s.Equal(domain.MustMoney("25"), s.balance(s.cash.AccountID))
	s.Equal(domain.MustMoney("25"), s.balance(s.sales.AccountID))
	s.Len(s.listAll(), workers)
}

// failingRepo fails balance adjustments for one account after the write path has begun.
type failingRepo struct {
	*memory.Store
	failAccount string
}

func (r *failingRepo) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	return r.Store.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		return fn(ctx, &failingTx{LedgerTx: tx, failAccount: r.failAccount})
	})
}

type failingTx struct {
	portsrepo.LedgerTx
	failAccount string
}

func (t *failingTx) AdjustAccountBalance(ctx context.Context, accountID string, delta domain.Money) (domain.Money, error) {
	if accountID == t.failAccount {
		return 0, apperrors.NewStorageError("adjust balance", errors.New("connection reset"))
	}
	return t.LedgerTx.AdjustAccountBalance(ctx, accountID, delta)
}

func (s *LedgerServiceTestSuite) TestPartialWriteIsRolledBack() {
	// Account ids are applied in sorted order, so fail on the larger one to force a prior write.
	first, second := s.cash.AccountID, s.sales.AccountID
	if first > second {
		first, second = second, first
	}
	repo := &failingRepo{Store: s.store, failAccount: second}
	ledger := services.NewLedgerService(repo, s.accounts)

	_, err := ledger.PostTransaction(s.ctx, journal(debit(s.cash.AccountID, "10"), credit(s.sales.AccountID, "10")))

	var failed *apperrors.PostingFailedError
	s.Require().ErrorAs(err, &failed)
	s.Equal("post", failed.Operation)
	s.ErrorIs(err, apperrors.ErrStorage)
	s.Equal(domain.Money(0), s.balance(first))
	s.Equal(domain.Money(0), s.balance(second))
	s.Empty(s.listAll())
}

func (s *LedgerServiceTestSuite) TestPartialDeleteIsRolledBack() {
	txn, err := s.ledger.PostTransaction(s.ctx, journal(debit(s.cash.AccountID, "10"), credit(s.sales.AccountID, "10")))
	s.Require().NoError(err)

	second := s.cash.AccountID
	if s.sales.AccountID > second {
		second = s.sales.AccountID
	}
	ledger := services.NewLedgerService(&failingRepo{Store: s.store, failAccount: second}, s.accounts)

	err = ledger.DeleteTransaction(s.ctx, txn.TransactionID)
	var failed *apperrors.PostingFailedError
	s.Require().ErrorAs(err, &failed)
	s.Equal("delete", failed.Operation)

	s.Equal(domain.MustMoney("10"), s.balance(s.cash.AccountID))
	s.Equal(domain.MustMoney("10"), s.balance(s.sales.AccountID))
	s.Len(s.listAll(), 1)
}

// --- mock based unit-of-work tests ---

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, filter domain.TransactionFilter) (domain.TransactionPage, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(domain.TransactionPage), args.Error(1)
}

// WithinTransaction hands fn the mocked LedgerTx passed as the first return value.
func (m *MockTransactionRepository) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	args := m.Called(ctx)
	if err := args.Error(1); err != nil {
		return err
	}
	return fn(ctx, args.Get(0).(portsrepo.LedgerTx))
}

type MockLedgerTx struct {
	mock.Mock
}

func (m *MockLedgerTx) FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockLedgerTx) AdjustAccountBalance(ctx context.Context, accountID string, delta domain.Money) (domain.Money, error) {
	args := m.Called(ctx, accountID, delta)
	return args.Get(0).(domain.Money), args.Error(1)
}

func (m *MockLedgerTx) SaveTransaction(ctx context.Context, txn *domain.Transaction) error {
	return m.Called(ctx, txn).Error(0)
}

func (m *MockLedgerTx) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerTx) DeleteTransaction(ctx context.Context, transactionID string) error {
	return m.Called(ctx, transactionID).Error(0)
}

type ledgerMockSuite struct {
	suite.Suite
	repo   *MockTransactionRepository
	tx     *MockLedgerTx
	ledger *services.LedgerService
	locked map[string]domain.Account
}

func (s *ledgerMockSuite) SetupTest() {
	s.repo = new(MockTransactionRepository)
	s.tx = new(MockLedgerTx)
	s.ledger = services.NewLedgerService(s.repo, services.NewAccountService(memory.NewStore()))
	s.locked = map[string]domain.Account{
		"a-cash":  {AccountID: "a-cash", AccountType: domain.Asset, IsActive: true},
		"b-sales": {AccountID: "b-sales", AccountType: domain.Income, IsActive: true},
	}
}

func (s *ledgerMockSuite) TearDownTest() {
	s.repo.AssertExpectations(s.T())
	s.tx.AssertExpectations(s.T())
}

func TestLedgerServiceUnitOfWork(t *testing.T) {
	suite.Run(t, new(ledgerMockSuite))
}

func (s *ledgerMockSuite) TestSaveFailureIsPostingFailed() {
	ctx := context.Background()
	s.repo.On("WithinTransaction", ctx).Return(s.tx, nil).Once()
	s.tx.On("FindAccountsByIDsForUpdate", ctx, []string{"a-cash", "b-sales"}).Return(s.locked, nil).Once()
	s.tx.On("SaveTransaction", ctx, mock.AnythingOfType("*domain.Transaction")).Return(errors.New("insert failed")).Once()

	_, err := s.ledger.PostTransaction(ctx, journal(credit("b-sales", "3"), debit("a-cash", "3")))

	s.ErrorIs(err, apperrors.ErrPostingFailed)
	s.tx.AssertNotCalled(s.T(), "AdjustAccountBalance", mock.Anything, mock.Anything, mock.Anything)
}

func (s *ledgerMockSuite) TestLockFailureBeforeWriteIsReturnedAsIs() {
	ctx := context.Background()
	lockErr := apperrors.NewStorageError("lock accounts", errors.New("timeout"))
	s.repo.On("WithinTransaction", ctx).Return(s.tx, nil).Once()
	s.tx.On("FindAccountsByIDsForUpdate", ctx, mock.Anything).Return(nil, lockErr).Once()

	_, err := s.ledger.PostTransaction(ctx, journal(debit("a-cash", "3"), credit("b-sales", "3")))

	s.ErrorIs(err, apperrors.ErrStorage)
	s.NotErrorIs(err, apperrors.ErrPostingFailed)
}

func (s *ledgerMockSuite) TestAccountsLockedOnceAndAdjustedInOrder() {
	ctx := context.Background()
	s.repo.On("WithinTransaction", ctx).Return(s.tx, nil).Once()
	s.tx.On("FindAccountsByIDsForUpdate", ctx, []string{"a-cash", "b-sales"}).Return(s.locked, nil).Once()
	s.tx.On("SaveTransaction", ctx, mock.AnythingOfType("*domain.Transaction")).Return(nil).Once()
	adjustCash := s.tx.On("AdjustAccountBalance", ctx, "a-cash", domain.MustMoney("7")).Return(domain.MustMoney("7"), nil).Once()
	s.tx.On("AdjustAccountBalance", ctx, "b-sales", domain.MustMoney("7")).Return(domain.MustMoney("7"), nil).Once().NotBefore(adjustCash)

	_, err := s.ledger.PostTransaction(ctx, journal(
		credit("b-sales", "4"),
		debit("a-cash", "7"),
		credit("b-sales", "3"),
	))
	s.NoError(err)
}

func (s *ledgerMockSuite) TestBeginFailure() {
	ctx := context.Background()
	s.repo.On("WithinTransaction", ctx).Return(nil, apperrors.NewStorageError("begin", errors.New("pool closed"))).Once()

	_, err := s.ledger.PostTransaction(ctx, journal(debit("a-cash", "3"), credit("b-sales", "3")))

	s.ErrorIs(err, apperrors.ErrStorage)
	s.NotErrorIs(err, apperrors.ErrPostingFailed)
}
