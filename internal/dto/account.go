package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
// Field rules (digits-only code, type/classification consistency) are enforced by the account service.
type CreateAccountRequest struct {
	Code            string          `json:"code" example:"1001"`
	Name            string          `json:"name" example:"Cash"`
	AccountType     string          `json:"accountType" example:"asset"`
	Classification  string          `json:"classification" example:"current-asset"`
	Description     string          `json:"description"`
	ParentAccountID string          `json:"parentAccountID"`
	InitialBalance  decimal.Decimal `json:"initialBalance" swaggertype:"string" example:"0.00"`
	IsActive        *bool           `json:"isActive"` // defaults to true
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
// There is deliberately no balance field.
type UpdateAccountRequest struct {
	Code            *string `json:"code"`
	Name            *string `json:"name"`
	AccountType     *string `json:"accountType"`
	Classification  *string `json:"classification"`
	Description     *string `json:"description"`
	ParentAccountID *string `json:"parentAccountID"`
	IsActive        *bool   `json:"isActive"`
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	AccountType string `form:"type"`
	ActiveOnly  bool   `form:"activeOnly"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string                `json:"accountID"`
	Code            string                `json:"code"`
	Name            string                `json:"name"`
	AccountType     domain.AccountType    `json:"accountType"`
	Classification  domain.Classification `json:"classification"`
	Description     string                `json:"description"`
	ParentAccountID string                `json:"parentAccountID,omitempty"`
	Balance         decimal.Decimal       `json:"balance" swaggertype:"string"`
	IsActive        bool                  `json:"isActive"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       acc.AccountID,
		Code:            acc.Code,
		Name:            acc.Name,
		AccountType:     acc.AccountType,
		Classification:  acc.Classification,
		Description:     acc.Description,
		ParentAccountID: acc.ParentID,
		Balance:         acc.Balance.Decimal(),
		IsActive:        acc.IsActive,
		CreatedAt:       acc.CreatedAt,
		UpdatedAt:       acc.UpdatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a ListAccountsResponse
func ToListAccountResponse(accounts []domain.Account) ListAccountsResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return ListAccountsResponse{Accounts: res}
}
