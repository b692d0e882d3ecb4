package mapping

import (
	"github.com/openbooks/ledger_backend/internal/core/domain"
	"github.com/openbooks/ledger_backend/internal/models"
)

// ToModelJournalEntry converts a domain journal entry for DB storage.
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:     d.EntryID,
		JournalID:   d.JournalID,
		Reference:   d.Reference,
		EntryDate:   d.EntryDate,
		Description: d.Description,
		Status:      string(d.Status),
		TotalAmount: d.TotalAmount,
		PostedAt:    d.PostedAt,
		PostedBy:    d.PostedBy,
		ReversedAt:  d.ReversedAt,
		ReversedBy:  d.ReversedBy,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a scanned entry row to the domain representation.
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:     m.EntryID,
		JournalID:   m.JournalID,
		Reference:   m.Reference,
		EntryDate:   m.EntryDate,
		Description: m.Description,
		Status:      domain.EntryStatus(m.Status),
		TotalAmount: m.TotalAmount,
		PostedAt:    m.PostedAt,
		PostedBy:    m.PostedBy,
		ReversedAt:  m.ReversedAt,
		ReversedBy:  m.ReversedBy,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelEntryLine converts a domain entry line for DB storage.
func ToModelEntryLine(d domain.EntryLine) models.EntryLine {
	return models.EntryLine{
		LineID:      d.LineID,
		EntryID:     d.EntryID,
		AccountID:   d.AccountID,
		PartnerID:   d.PartnerID,
		Debit:       d.Debit,
		Credit:      d.Credit,
		Description: d.Description,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEntryLine converts a scanned line row to the domain representation.
func ToDomainEntryLine(m models.EntryLine) domain.EntryLine {
	return domain.EntryLine{
		LineID:      m.LineID,
		EntryID:     m.EntryID,
		AccountID:   m.AccountID,
		PartnerID:   m.PartnerID,
		Debit:       m.Debit,
		Credit:      m.Credit,
		Description: m.Description,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainEntryLineSlice converts a slice of line rows.
func ToDomainEntryLineSlice(ms []models.EntryLine) []domain.EntryLine {
	lines := make([]domain.EntryLine, len(ms))
	for i, m := range ms {
		lines[i] = ToDomainEntryLine(m)
	}
	return lines
}
