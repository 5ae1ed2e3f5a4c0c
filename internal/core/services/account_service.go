package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/go-playground/validator/v10"
)

// AccountService is the account registry: it owns the chart of accounts and
// applies balance deltas on behalf of the ledger engine.
type AccountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	validate    *validator.Validate
}

var (
	_ portssvc.AccountSvcFacade  = (*AccountService)(nil)
	_ portssvc.AccountBalanceSvc = (*AccountService)(nil)
)

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...ServiceOption) *AccountService {
	svc := &AccountService{
		accountRepo: repo,
		validate:    newAccountValidator(),
	}
	svc.apply(options)
	return svc
}

func (s *AccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	fields := accountFields{
		Code:           strings.TrimSpace(req.Code),
		Name:           strings.TrimSpace(req.Name),
		AccountType:    strings.TrimSpace(req.AccountType),
		Classification: strings.TrimSpace(req.Classification),
		Description:    strings.TrimSpace(req.Description),
	}
	verr := validateAccountFields(s.validate, fields)

	initialBalance, err := domain.NewMoneyFromDecimal(req.InitialBalance)
	switch {
	case err != nil:
		verr.Add("initialBalance", "Initial balance must have at most 2 decimal places")
	case initialBalance.IsNegative():
		verr.Add("initialBalance", "Initial balance cannot be negative")
	}

	parentID := strings.TrimSpace(req.ParentAccountID)
	if err := s.checkParent(ctx, verr, "", parentID, domain.AccountType(fields.AccountType)); err != nil {
		return nil, err
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if err := s.ensureCodeAvailable(ctx, fields.Code, ""); err != nil {
		return nil, err
	}

	now := s.Now()
	account := domain.Account{
		AccountID:      s.NewID(),
		Code:           fields.Code,
		Name:           fields.Name,
		AccountType:    domain.AccountType(fields.AccountType),
		Classification: domain.Classification(fields.Classification),
		Description:    fields.Description,
		ParentID:       parentID,
		Balance:        initialBalance,
		IsActive:       req.IsActive == nil || *req.IsActive,
		AuditFields:    domain.AuditFields{CreatedAt: now, UpdatedAt: now},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		return nil, err
	}
	s.InvalidateReports(ctx)

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("code", account.Code))
	return &account, nil
}

func (s *AccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

func (s *AccountService) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	if filter.AccountType != "" && !filter.AccountType.IsValid() {
		return nil, apperrors.NewValidationError("type", "Account type must be one of asset, liability, equity, income, expense")
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, filter)
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *AccountService) ListAccountsByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error) {
	if !accountType.IsValid() {
		return nil, apperrors.NewValidationError("type", "Account type must be one of asset, liability, equity, income, expense")
	}
	return s.ListAccounts(ctx, domain.AccountFilter{AccountType: accountType})
}

func (s *AccountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	current, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	updated := *current
	if req.Code != nil {
		updated.Code = strings.TrimSpace(*req.Code)
	}
	if req.Name != nil {
		updated.Name = strings.TrimSpace(*req.Name)
	}
	if req.AccountType != nil {
		updated.AccountType = domain.AccountType(strings.TrimSpace(*req.AccountType))
	}
	if req.Classification != nil {
		updated.Classification = domain.Classification(strings.TrimSpace(*req.Classification))
	}
	if req.Description != nil {
		updated.Description = strings.TrimSpace(*req.Description)
	}
	if req.ParentAccountID != nil {
		updated.ParentID = strings.TrimSpace(*req.ParentAccountID)
	}
	if req.IsActive != nil {
		updated.IsActive = *req.IsActive
	}

	if updated == *current {
		s.LogDebug(ctx, "No fields changed for account update", slog.String("account_id", accountID))
		return current, nil
	}

	verr := validateAccountFields(s.validate, accountFields{
		Code:           updated.Code,
		Name:           updated.Name,
		AccountType:    string(updated.AccountType),
		Classification: string(updated.Classification),
		Description:    updated.Description,
	})

	codeChanged := updated.Code != current.Code
	typeChanged := updated.AccountType != current.AccountType
	if typeChanged && req.Classification == nil {
		verr.Add("classification", "Classification is required when changing the account type")
	}

	if codeChanged || typeChanged {
		used, err := s.accountRepo.AccountHasEntries(ctx, accountID)
		if err != nil {
			return nil, err
		}
		if used {
			addInUseMessages(verr, codeChanged, typeChanged)
		}
	}

	if updated.ParentID != "" && (updated.ParentID != current.ParentID || typeChanged) {
		if err := s.checkParent(ctx, verr, accountID, updated.ParentID, updated.AccountType); err != nil {
			return nil, err
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if codeChanged {
		if err := s.ensureCodeAvailable(ctx, updated.Code, accountID); err != nil {
			return nil, err
		}
	}

	updated.UpdatedAt = s.Now()
	if err := s.accountRepo.UpdateAccount(ctx, updated); err != nil {
		// A posting can land between the usage check above and the write.
		if errors.Is(err, apperrors.ErrAccountInUse) {
			verr = &apperrors.ValidationError{}
			addInUseMessages(verr, codeChanged, typeChanged)
			return nil, verr
		}
		return nil, err
	}
	s.InvalidateReports(ctx)

	s.LogInfo(ctx, "Account updated successfully", slog.String("account_id", accountID))
	return &updated, nil
}

func (s *AccountService) DeactivateAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.setActive(ctx, accountID, false)
}

func (s *AccountService) ActivateAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.setActive(ctx, accountID, true)
}

func (s *AccountService) setActive(ctx context.Context, accountID string, active bool) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.IsActive == active {
		return account, nil
	}

	account.IsActive = active
	account.UpdatedAt = s.Now()
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		return nil, err
	}
	s.InvalidateReports(ctx)

	s.LogInfo(ctx, "Account active flag changed",
		slog.String("account_id", accountID),
		slog.Bool("is_active", active))
	return account, nil
}

// DeleteAccount removes an account that has no entries, no child accounts and a zero balance.
// The repository checks those conditions atomically with the delete.
func (s *AccountService) DeleteAccount(ctx context.Context, accountID string) error {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		return err
	}
	s.InvalidateReports(ctx)

	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID), slog.String("code", account.Code))
	return nil
}

func (s *AccountService) SeedDefaultAccounts(ctx context.Context) ([]domain.Account, error) {
	created := make([]domain.Account, 0, len(domain.DefaultChartOfAccounts))
	for _, tmpl := range domain.DefaultChartOfAccounts {
		account, err := s.CreateAccount(ctx, dto.CreateAccountRequest{
			Code:           tmpl.Code,
			Name:           tmpl.Name,
			AccountType:    string(tmpl.AccountType),
			Classification: string(tmpl.Classification),
			Description:    tmpl.Description,
		})
		if errors.Is(err, apperrors.ErrConflict) {
			continue
		}
		if err != nil {
			return created, err
		}
		created = append(created, *account)
	}

	s.LogInfo(ctx, "Default chart of accounts seeded", slog.Int("created", len(created)))
	return created, nil
}

// AdjustBalance applies a signed delta inside the caller's unit of work and returns the new balance.
func (s *AccountService) AdjustBalance(ctx context.Context, tx portsrepo.LedgerTx, accountID string, delta domain.Money) (domain.Money, error) {
	balance, err := tx.AdjustAccountBalance(ctx, accountID, delta)
	if err != nil {
		return 0, err
	}
	s.LogDebug(ctx, "Account balance adjusted",
		slog.String("account_id", accountID),
		slog.String("delta", delta.String()),
		slog.String("balance", balance.String()))
	return balance, nil
}

func (s *AccountService) ensureCodeAvailable(ctx context.Context, code, selfID string) error {
	existing, err := s.accountRepo.FindAccountByCode(ctx, code)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.AccountID == selfID:
		return nil
	}
	return &apperrors.ConflictError{Resource: "account", Field: "code", Value: code}
}

func addInUseMessages(verr *apperrors.ValidationError, codeChanged, typeChanged bool) {
	if codeChanged {
		verr.Add("code", "Account code cannot change once entries reference the account")
	}
	if typeChanged {
		verr.Add("accountType", "Account type cannot change once entries reference the account")
	}
}

// checkParent records a validation message when parentID is unusable for an account of accountType.
func (s *AccountService) checkParent(ctx context.Context, verr *apperrors.ValidationError, selfID, parentID string, accountType domain.AccountType) error {
	if parentID == "" {
		return nil
	}
	if parentID == selfID {
		verr.Add("parentAccountID", "An account cannot be its own parent")
		return nil
	}
	parent, err := s.accountRepo.FindAccountByID(ctx, parentID)
	if errors.Is(err, apperrors.ErrNotFound) {
		verr.Add("parentAccountID", "Parent account does not exist")
		return nil
	}
	if err != nil {
		return err
	}
	if accountType.IsValid() && parent.AccountType != accountType {
		verr.Add("parentAccountID", "Parent account must have the same account type")
	}
	return nil
}
