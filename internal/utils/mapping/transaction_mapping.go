package mapping

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// ToModelTransaction converts a domain Transaction header to its row shape. Entries are mapped separately.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:   d.TransactionID,
		TransactionDate: d.Date,
		TransactionType: string(d.TransactionType),
		Reference:       d.Reference,
		Description:     nullableString(d.Description),
		Sequence:        d.Sequence,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a transaction row and its entry rows to a domain Transaction.
func ToDomainTransaction(m models.Transaction, entries []models.Entry) domain.Transaction {
	return domain.Transaction{
		TransactionID:   m.TransactionID,
		Date:            domain.TruncateToDate(m.TransactionDate),
		TransactionType: domain.TransactionType(m.TransactionType),
		Reference:       m.Reference,
		Description:     derefString(m.Description),
		Entries:         ToDomainEntrySlice(entries),
		Sequence:        m.Sequence,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelEntry converts a domain Entry to a model Entry
func ToModelEntry(d domain.Entry) models.Entry {
	return models.Entry{
		EntryID:       d.EntryID,
		TransactionID: d.TransactionID,
		LineNo:        d.LineNo,
		AccountID:     d.AccountID,
		Description:   nullableString(d.Description),
		Debit:         int64(d.Debit),
		Credit:        int64(d.Credit),
	}
}

// ToDomainEntry converts a model Entry to a domain Entry
func ToDomainEntry(m models.Entry) domain.Entry {
	return domain.Entry{
		EntryID:       m.EntryID,
		TransactionID: m.TransactionID,
		LineNo:        m.LineNo,
		AccountID:     m.AccountID,
		Description:   derefString(m.Description),
		Debit:         domain.Money(m.Debit),
		Credit:        domain.Money(m.Credit),
	}
}

// ToDomainEntrySlice converts a slice of model Entries to a slice of domain Entries
func ToDomainEntrySlice(ms []models.Entry) []domain.Entry {
	ds := make([]domain.Entry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainEntry(m)
	}
	return ds
}
