package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestTransactionType_ReferencePrefix(t *testing.T) {
	tests := map[domain.TransactionType]string{
		domain.Journal:  "JE",
		domain.Sale:     "INV",
		domain.Purchase: "PUR",
		domain.Receipt:  "RCT",
		domain.Payment:  "PMT",
	}
	for txnType, prefix := range tests {
		assert.Equal(t, prefix, txnType.ReferencePrefix())
	}
	assert.False(t, domain.TransactionType("refund").IsValid())
}

func TestTransaction_TotalsAndAccountIDs(t *testing.T) {
	txn := domain.Transaction{Entries: []domain.Entry{
		{AccountID: "a", Debit: 100},
		{AccountID: "b", Credit: 60},
		{AccountID: "a", Credit: 40},
	}}
	debit, credit := txn.Totals()
	assert.Equal(t, domain.Money(100), debit)
	assert.Equal(t, domain.Money(100), credit)
	assert.Equal(t, []string{"a", "b"}, txn.AccountIDs())
}

func TestEntry_SideAndAmount(t *testing.T) {
	debit := domain.Entry{Debit: 250}
	credit := domain.Entry{Credit: 75}
	assert.Equal(t, domain.Debit, debit.Side())
	assert.Equal(t, domain.Money(250), debit.Amount())
	assert.Equal(t, domain.Credit, credit.Side())
	assert.Equal(t, domain.Money(75), credit.Amount())
}

func TestTruncateToDate(t *testing.T) {
	in := time.Date(2026, 3, 14, 23, 59, 0, 0, time.FixedZone("x", 3600))
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), domain.TruncateToDate(in))
}
