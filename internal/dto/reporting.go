package dto

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceRowResponse is one account line of the trial balance.
type TrialBalanceRowResponse struct {
	AccountID      string                `json:"accountID"`
	Code           string                `json:"code"`
	AccountName    string                `json:"accountName"`
	AccountType    domain.AccountType    `json:"accountType"`
	Classification domain.Classification `json:"classification"`
	Balance        decimal.Decimal       `json:"balance" swaggertype:"string"`
}

// TrialBalanceResponse defines the data returned for the trial balance.
type TrialBalanceResponse struct {
	Rows            []TrialBalanceRowResponse  `json:"rows"`
	ByType          map[string]decimal.Decimal `json:"byType" swaggertype:"object"`
	DebitTypeTotal  decimal.Decimal            `json:"debitTypeTotal" swaggertype:"string"`
	CreditTypeTotal decimal.Decimal            `json:"creditTypeTotal" swaggertype:"string"`
	Difference      decimal.Decimal            `json:"difference" swaggertype:"string"`
	Balanced        bool                       `json:"balanced"`
}

// ToTrialBalanceResponse converts a domain.TrialBalance to TrialBalanceResponse DTO
func ToTrialBalanceResponse(tb *domain.TrialBalance) TrialBalanceResponse {
	rows := make([]TrialBalanceRowResponse, len(tb.Rows))
	for i, r := range tb.Rows {
		rows[i] = TrialBalanceRowResponse{
			AccountID:      r.AccountID,
			Code:           r.Code,
			AccountName:    r.AccountName,
			AccountType:    r.AccountType,
			Classification: r.Classification,
			Balance:        r.Balance.Decimal(),
		}
	}
	byType := make(map[string]decimal.Decimal, len(tb.ByType))
	for t, total := range tb.ByType {
		byType[string(t)] = total.Decimal()
	}
	return TrialBalanceResponse{
		Rows:            rows,
		ByType:          byType,
		DebitTypeTotal:  tb.DebitTypeTotal.Decimal(),
		CreditTypeTotal: tb.CreditTypeTotal.Decimal(),
		Difference:      tb.Difference.Decimal(),
		Balanced:        tb.Balanced,
	}
}
