package mapping

import (
	"github.com/openbooks/ledger_backend/internal/core/domain"
	"github.com/openbooks/ledger_backend/internal/models"
)

// ToModelAccount converts a domain account for DB storage.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:       d.AccountID,
		Code:            d.Code,
		Name:            d.Name,
		AccountType:     string(d.AccountType),
		ParentAccountID: d.ParentAccountID,
		Level:           d.Level,
		Description:     d.Description,
		IsActive:        d.IsActive,
		Balance:         d.Balance,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a scanned account row to the domain representation.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:       m.AccountID,
		Code:            m.Code,
		Name:            m.Name,
		AccountType:     domain.AccountType(m.AccountType),
		ParentAccountID: m.ParentAccountID,
		Level:           m.Level,
		Description:     m.Description,
		IsActive:        m.IsActive,
		Balance:         m.Balance,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournal converts a domain journal for DB storage.
func ToModelJournal(d domain.Journal) models.Journal {
	return models.Journal{
		JournalID:              d.JournalID,
		Code:                   d.Code,
		Name:                   d.Name,
		JournalType:            string(d.JournalType),
		DefaultDebitAccountID:  d.DefaultDebitAccountID,
		DefaultCreditAccountID: d.DefaultCreditAccountID,
		IsActive:               d.IsActive,
		AuditFields:            ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournal converts a scanned journal row to the domain representation.
func ToDomainJournal(m models.Journal) domain.Journal {
	return domain.Journal{
		JournalID:              m.JournalID,
		Code:                   m.Code,
		Name:                   m.Name,
		JournalType:            domain.JournalType(m.JournalType),
		DefaultDebitAccountID:  m.DefaultDebitAccountID,
		DefaultCreditAccountID: m.DefaultCreditAccountID,
		IsActive:               m.IsActive,
		AuditFields:            ToDomainAuditFields(m.AuditFields),
	}
}
