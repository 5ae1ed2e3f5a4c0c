package pgsql

import (
	"context"
	"errors"
	"strings"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `account_id, code, name, account_type, classification, description, parent_account_id, balance, is_active, created_at, updated_at`

// queryer is satisfied by both the pool and an open transaction.
type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PgxAccountRepository struct {
	BaseRepository
}

// NewPgxAccountRepository creates a new repository for account data.
func NewPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.Classification,
		&m.Description,
		&m.ParentAccountID,
		&m.Balance,
		&m.IsActive,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

func collectAccounts(rows pgx.Rows) ([]models.Account, error) {
	defer rows.Close()
	var out []models.Account
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID, m.Code, m.Name, m.AccountType, m.Classification,
		m.Description, m.ParentAccountID, m.Balance, m.IsActive,
		m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		switch pgErrorCode(err) {
		case pgUniqueViolation:
			return &apperrors.ConflictError{Resource: "account", Field: "code", Value: account.Code}
		case pgForeignKeyViolation:
			return &apperrors.NotFoundError{Resource: "parent account", ID: account.ParentID}
		}
		return storageErr("save account", err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return r.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_id = $1;`, accountID)
}

// FindAccountByCode retrieves an account by its chart code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	return r.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE code = $1;`, code)
}

func (r *PgxAccountRepository) findOne(ctx context.Context, query, key string) (*domain.Account, error) {
	m, err := scanAccount(r.Pool.QueryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &apperrors.NotFoundError{Resource: "account", ID: key}
		}
		return nil, storageErr("find account", err)
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	return findAccountsByIDs(ctx, r.Pool, accountIDs, false)
}

func findAccountsByIDs(ctx context.Context, q queryer, accountIDs []string, forUpdate bool) (map[string]domain.Account, error) {
	accounts := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return accounts, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1) ORDER BY account_id`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	rows, err := q.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, storageErr("find accounts", err)
	}
	ms, err := collectAccounts(rows)
	if err != nil {
		return nil, storageErr("scan accounts", err)
	}
	for _, m := range ms {
		accounts[m.AccountID] = mapping.ToDomainAccount(m)
	}
	return accounts, nil
}

// ListAccounts retrieves accounts ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	var (
		conds []string
		args  []any
	)
	if filter.AccountType != "" {
		args = append(args, string(filter.AccountType))
		conds = append(conds, "account_type = $1")
	}
	if filter.ActiveOnly {
		conds = append(conds, "is_active")
	}
	query := `SELECT ` + accountColumns + ` FROM accounts`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY code;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list accounts", err)
	}
	ms, err := collectAccounts(rows)
	if err != nil {
		return nil, storageErr("scan accounts", err)
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

// UpdateAccount writes the descriptive fields and the active flag. The balance column is left alone.
// The row is locked first so a concurrent posting either commits before the usage check or waits
// for this update.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) (err error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = r.Rollback(ctx, tx)
		}
	}()

	current, err := lockAccount(ctx, tx, account.AccountID)
	if err != nil {
		return err
	}
	if current.Code != account.Code || current.AccountType != string(account.AccountType) {
		used, err := accountHasEntries(ctx, tx, account.AccountID)
		if err != nil {
			return err
		}
		if used {
			return apperrors.NewAccountInUseError(current.Code)
		}
	}

	m := mapping.ToModelAccount(account)
	query := `
		UPDATE accounts
		SET code = $2, name = $3, account_type = $4, classification = $5,
			description = $6, parent_account_id = $7, is_active = $8, updated_at = $9
		WHERE account_id = $1;
	`
	_, err = tx.Exec(ctx, query,
		m.AccountID, m.Code, m.Name, m.AccountType, m.Classification,
		m.Description, m.ParentAccountID, m.IsActive, m.UpdatedAt,
	)
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return &apperrors.ConflictError{Resource: "account", Field: "code", Value: account.Code}
		}
		return storageErr("update account", err)
	}
	return r.Commit(ctx, tx)
}

// DeleteAccount removes an account row once nothing references it and its balance is zero.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, accountID string) (err error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = r.Rollback(ctx, tx)
		}
	}()

	current, err := lockAccount(ctx, tx, accountID)
	if err != nil {
		return err
	}
	used, err := accountHasEntries(ctx, tx, accountID)
	if err != nil {
		return err
	}
	if used {
		return apperrors.NewAccountInUseError(current.Code)
	}
	if current.Balance != 0 {
		return &apperrors.ConflictError{Resource: "account", Value: current.Code, Reason: "balance must be zero"}
	}

	_, err = tx.Exec(ctx, `DELETE FROM accounts WHERE account_id = $1;`, accountID)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return &apperrors.ConflictError{Resource: "account", Value: current.Code, Reason: "account has child accounts"}
		}
		return storageErr("delete account", err)
	}
	return r.Commit(ctx, tx)
}

func lockAccount(ctx context.Context, q queryer, accountID string) (models.Account, error) {
	m, err := scanAccount(q.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_id = $1 FOR UPDATE;`, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return m, &apperrors.NotFoundError{Resource: "account", ID: accountID}
		}
		return m, storageErr("lock account", err)
	}
	return m, nil
}

func accountHasEntries(ctx context.Context, q queryer, accountID string) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM entries WHERE account_id = $1);`, accountID).Scan(&exists)
	if err != nil {
		return false, storageErr("check account usage", err)
	}
	return exists, nil
}

// AccountHasEntries reports whether any posted entry references the account.
func (r *PgxAccountRepository) AccountHasEntries(ctx context.Context, accountID string) (bool, error) {
	return accountHasEntries(ctx, r.Pool, accountID)
}
