package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	transactionColumns = `transaction_id, transaction_date, transaction_type, reference, description, seq, created_at, updated_at`
	entryColumns       = `entry_id, transaction_id, line_no, account_id, description, debit, credit`
)

type PgxTransactionRepository struct {
	BaseRepository
}

// NewPgxTransactionRepository creates a new repository for posted transactions.
func NewPgxTransactionRepository(pool *pgxpool.Pool) *PgxTransactionRepository {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

// WithinTransaction runs fn inside one database transaction. fn's error or a failed
// commit rolls everything back.
func (r *PgxTransactionRepository) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	// Will be ignored if transaction is committed successfully
	defer r.Rollback(context.WithoutCancel(ctx), tx) //nolint:errcheck

	if err := fn(ctx, &pgxLedgerTx{tx: tx}); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// FindTransactionByID retrieves a transaction with its entries.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return findTransactionByID(ctx, r.Pool, transactionID, false)
}

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.TransactionDate,
		&m.TransactionType,
		&m.Reference,
		&m.Description,
		&m.Sequence,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

func findTransactionByID(ctx context.Context, q queryer, transactionID string, forUpdate bool) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	m, err := scanTransaction(q.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &apperrors.NotFoundError{Resource: "transaction", ID: transactionID}
		}
		return nil, storageErr("find transaction", err)
	}
	entries, err := loadEntries(ctx, q, []string{transactionID})
	if err != nil {
		return nil, err
	}
	txn := mapping.ToDomainTransaction(m, entries[transactionID])
	return &txn, nil
}

// loadEntries fetches the entries of every listed transaction, grouped by transaction in line order.
func loadEntries(ctx context.Context, q queryer, transactionIDs []string) (map[string][]models.Entry, error) {
	grouped := make(map[string][]models.Entry, len(transactionIDs))
	if len(transactionIDs) == 0 {
		return grouped, nil
	}
	rows, err := q.Query(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE transaction_id = ANY($1) ORDER BY transaction_id, line_no;`,
		transactionIDs)
	if err != nil {
		return nil, storageErr("load entries", err)
	}
	defer rows.Close()
	for rows.Next() {
		var e models.Entry
		if err := rows.Scan(&e.EntryID, &e.TransactionID, &e.LineNo, &e.AccountID, &e.Description, &e.Debit, &e.Credit); err != nil {
			return nil, storageErr("scan entry", err)
		}
		grouped[e.TransactionID] = append(grouped[e.TransactionID], e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("load entries", err)
	}
	return grouped, nil
}

// ListTransactions filters transactions and pages them newest first using a (date, seq) cursor.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, filter domain.TransactionFilter) (domain.TransactionPage, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.TransactionType != "" {
		conds = append(conds, "t.transaction_type = "+arg(string(filter.TransactionType)))
	}
	if filter.From != nil {
		conds = append(conds, "t.transaction_date >= "+arg(domain.TruncateToDate(*filter.From)))
	}
	if filter.To != nil {
		conds = append(conds, "t.transaction_date <= "+arg(domain.TruncateToDate(*filter.To)))
	}
	if filter.Reference != "" {
		conds = append(conds, "t.reference = "+arg(filter.Reference))
	}
	if filter.AccountID != "" {
		conds = append(conds, "EXISTS (SELECT 1 FROM entries e WHERE e.transaction_id = t.transaction_id AND e.account_id = "+arg(filter.AccountID)+")")
	}
	if filter.NextToken != "" {
		cursor, err := pagination.DecodeToken(filter.NextToken)
		if err != nil {
			return domain.TransactionPage{}, apperrors.NewValidationError("nextToken", "Invalid pagination token")
		}
		conds = append(conds, fmt.Sprintf("(t.transaction_date, t.seq) < (%s, %s)", arg(cursor.Date), arg(cursor.Sequence)))
	}

	query := `SELECT ` + prefixed("t.", transactionColumns) + ` FROM transactions t`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY t.transaction_date DESC, t.seq DESC`
	if filter.Limit > 0 {
		// Fetch one extra row to know whether another page exists.
		query += ` LIMIT ` + arg(filter.Limit+1)
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return domain.TransactionPage{}, storageErr("list transactions", err)
	}
	var headers []models.Transaction
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			rows.Close()
			return domain.TransactionPage{}, storageErr("scan transaction", err)
		}
		headers = append(headers, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return domain.TransactionPage{}, storageErr("list transactions", err)
	}

	page := domain.TransactionPage{}
	if filter.Limit > 0 && len(headers) > filter.Limit {
		headers = headers[:filter.Limit]
		last := headers[len(headers)-1]
		page.NextToken = pagination.EncodeToken(last.TransactionDate, last.Sequence)
	}

	ids := make([]string, len(headers))
	for i, h := range headers {
		ids[i] = h.TransactionID
	}
	entries, err := loadEntries(ctx, r.Pool, ids)
	if err != nil {
		return domain.TransactionPage{}, err
	}
	page.Transactions = make([]domain.Transaction, len(headers))
	for i, h := range headers {
		page.Transactions[i] = mapping.ToDomainTransaction(h, entries[h.TransactionID])
	}
	return page, nil
}

func prefixed(prefix, columns string) string {
	cols := strings.Split(columns, ", ")
	for i, c := range cols {
		cols[i] = prefix + c
	}
	return strings.Join(cols, ", ")
}

// pgxLedgerTx implements LedgerTx over an open pgx transaction.
type pgxLedgerTx struct {
	tx pgx.Tx
}

var _ portsrepo.LedgerTx = (*pgxLedgerTx)(nil)

// FindAccountsByIDsForUpdate locks the rows in account_id order so concurrent postings
// touching overlapping accounts cannot deadlock.
func (t *pgxLedgerTx) FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	return findAccountsByIDs(ctx, t.tx, accountIDs, true)
}

func (t *pgxLedgerTx) AdjustAccountBalance(ctx context.Context, accountID string, delta domain.Money) (domain.Money, error) {
	var balance int64
	err := t.tx.QueryRow(ctx, `
		UPDATE accounts
		SET balance = balance + $2, updated_at = now()
		WHERE account_id = $1
		RETURNING balance;
	`, accountID, int64(delta)).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, &apperrors.NotFoundError{Resource: "account", ID: accountID}
		}
		return 0, storageErr("adjust balance", err)
	}
	return domain.Money(balance), nil
}

// SaveTransaction inserts the header, takes the generated seq, then inserts all entries in one batch.
func (t *pgxLedgerTx) SaveTransaction(ctx context.Context, txn *domain.Transaction) error {
	m := mapping.ToModelTransaction(*txn)
	err := t.tx.QueryRow(ctx, `
		INSERT INTO transactions (transaction_id, transaction_date, transaction_type, reference, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING seq;
	`, m.TransactionID, m.TransactionDate, m.TransactionType, m.Reference, m.Description, m.CreatedAt, m.UpdatedAt).Scan(&m.Sequence)
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return &apperrors.ConflictError{Resource: "transaction", Field: "id", Value: txn.TransactionID}
		}
		return storageErr("insert transaction", err)
	}

	batch := &pgx.Batch{}
	entryQuery := `INSERT INTO entries (` + entryColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7);`
	for _, e := range txn.Entries {
		me := mapping.ToModelEntry(e)
		batch.Queue(entryQuery, me.EntryID, me.TransactionID, me.LineNo, me.AccountID, me.Description, me.Debit, me.Credit)
	}
	br := t.tx.SendBatch(ctx, batch)
	for i := range txn.Entries {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return storageErr(fmt.Sprintf("insert entry %d", i), err)
		}
	}
	if err := br.Close(); err != nil {
		return storageErr("insert entries", err)
	}

	txn.Sequence = m.Sequence
	return nil
}

func (t *pgxLedgerTx) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return findTransactionByID(ctx, t.tx, transactionID, true)
}

func (t *pgxLedgerTx) DeleteTransaction(ctx context.Context, transactionID string) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM entries WHERE transaction_id = $1;`, transactionID); err != nil {
		return storageErr("delete entries", err)
	}
	tag, err := t.tx.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return storageErr("delete transaction", err)
	}
	if tag.RowsAffected() == 0 {
		return &apperrors.NotFoundError{Resource: "transaction", ID: transactionID}
	}
	return nil
}
