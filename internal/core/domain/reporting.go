package domain

// TrialBalanceRow is one active account's current balance.
type TrialBalanceRow struct {
	AccountID      string         `json:"accountID"`
	Code           string         `json:"code"`
	AccountName    string         `json:"accountName"`
	AccountType    AccountType    `json:"accountType"`
	Classification Classification `json:"classification"`
	Balance        Money          `json:"balance"`
}

// TrialBalance lists active account balances grouped by type.
// Difference is zero when every posting balanced and opening balances net out.
type TrialBalance struct {
	Rows            []TrialBalanceRow     `json:"rows"`
	ByType          map[AccountType]Money `json:"byType"`
	DebitTypeTotal  Money                 `json:"debitTypeTotal"`
	CreditTypeTotal Money                 `json:"creditTypeTotal"`
	Difference      Money                 `json:"difference"`
	Balanced        bool                  `json:"balanced"`
}
