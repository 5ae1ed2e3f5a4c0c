package accounting

import (
	"fmt"
	"strings"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// MinEntries is the smallest number of entries a transaction may carry.
const MinEntries = 2

// CalculateSignedAmount applies the correct sign to an entry amount based on account type and entry side.
// DEBIT to ASSET/EXPENSE and CREDIT to LIABILITY/EQUITY/INCOME increase the balance.
func CalculateSignedAmount(entry domain.Entry, accountType domain.AccountType) (domain.Money, error) {
	if !accountType.IsValid() {
		return 0, fmt.Errorf("unknown account type '%s' encountered for account ID %s", accountType, entry.AccountID)
	}
	amount := entry.Amount()
	if (entry.Side() == domain.Debit) != accountType.IncreasesOnDebit() {
		amount = amount.Neg()
	}
	return amount, nil
}

// BalanceChanges aggregates the signed balance delta of every account touched by entries.
func BalanceChanges(entries []domain.Entry, accountTypes map[string]domain.AccountType) (map[string]domain.Money, error) {
	changes := make(map[string]domain.Money, len(entries))
	for i, entry := range entries {
		accountType, ok := accountTypes[entry.AccountID]
		if !ok {
			return nil, fmt.Errorf("account type not found for account ID %s (entry %d)", entry.AccountID, i)
		}
		signed, err := CalculateSignedAmount(entry, accountType)
		if err != nil {
			return nil, err
		}
		total, err := changes[entry.AccountID].Add(signed)
		if err != nil {
			return nil, fmt.Errorf("balance change for account %s: %w", entry.AccountID, err)
		}
		changes[entry.AccountID] = total
	}
	return changes, nil
}

// InvertChanges negates every delta, producing the reversal of a posting.
func InvertChanges(changes map[string]domain.Money) map[string]domain.Money {
	inverted := make(map[string]domain.Money, len(changes))
	for id, delta := range changes {
		inverted[id] = delta.Neg()
	}
	return inverted
}

// ValidateEntries checks entry shape and the balance law. It needs no account data and
// runs before any storage access.
func ValidateEntries(entries []domain.Entry) error {
	if len(entries) < MinEntries {
		return apperrors.NewValidationError("entries", fmt.Sprintf("a transaction requires at least %d entries", MinEntries))
	}

	var totalDebit, totalCredit domain.Money
	for i, entry := range entries {
		if strings.TrimSpace(entry.AccountID) == "" {
			return &apperrors.InvalidEntryError{Index: i, Reason: "account is required"}
		}
		if entry.Debit.IsNegative() || entry.Credit.IsNegative() {
			return &apperrors.InvalidEntryError{Index: i, Reason: "amounts cannot be negative"}
		}
		if entry.Debit != 0 && entry.Credit != 0 {
			return &apperrors.InvalidEntryError{Index: i, Reason: "entry cannot have both a debit and a credit"}
		}
		if entry.Debit == 0 && entry.Credit == 0 {
			return &apperrors.InvalidEntryError{Index: i, Reason: "entry must have a non-zero debit or credit"}
		}

		var err error
		if totalDebit, err = totalDebit.Add(entry.Debit); err != nil {
			return &apperrors.InvalidEntryError{Index: i, Reason: "debit total overflows", Err: err}
		}
		if totalCredit, err = totalCredit.Add(entry.Credit); err != nil {
			return &apperrors.InvalidEntryError{Index: i, Reason: "credit total overflows", Err: err}
		}
	}

	return ValidateBalance(totalDebit, totalCredit)
}

// ValidateBalance enforces sum(debit) == sum(credit) > 0.
func ValidateBalance(totalDebit, totalCredit domain.Money) error {
	if totalDebit != totalCredit || totalDebit <= 0 {
		return &apperrors.ImbalancedTransactionError{TotalDebit: int64(totalDebit), TotalCredit: int64(totalCredit)}
	}
	return nil
}
