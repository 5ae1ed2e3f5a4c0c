package models

// Account is the row shape of the accounts table. Balance is stored in minor units.
type Account struct {
	AccountID       string  `db:"account_id"`
	Code            string  `db:"code"`
	Name            string  `db:"name"`
	AccountType     string  `db:"account_type"`
	Classification  string  `db:"classification"`
	Description     *string `db:"description"`
	ParentAccountID *string `db:"parent_account_id"`
	Balance         int64   `db:"balance"`
	IsActive        bool    `db:"is_active"`
	AuditFields
}
