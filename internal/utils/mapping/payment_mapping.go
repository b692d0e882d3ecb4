package mapping

import (
	"github.com/openbooks/ledger_backend/internal/core/domain"
	"github.com/openbooks/ledger_backend/internal/models"
)

// ToModelPayment converts a domain payment for DB storage.
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:   d.PaymentID,
		Number:      d.Number,
		PartnerID:   d.PartnerID,
		JournalID:   d.JournalID,
		PaymentType: string(d.PaymentType),
		Status:      string(d.Status),
		Method:      string(d.Method),
		PaymentDate: d.PaymentDate,
		Amount:      d.Amount,
		Allocated:   d.Allocated,
		Reference:   d.Reference,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayment converts a scanned payment row to the domain representation.
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:   m.PaymentID,
		Number:      m.Number,
		PartnerID:   m.PartnerID,
		JournalID:   m.JournalID,
		PaymentType: domain.PaymentType(m.PaymentType),
		Status:      domain.PaymentStatus(m.Status),
		Method:      domain.PaymentMethod(m.Method),
		PaymentDate: m.PaymentDate,
		Amount:      m.Amount,
		Allocated:   m.Allocated,
		Reference:   m.Reference,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelTranche converts a domain tranche for DB storage.
func ToModelTranche(d domain.PaymentTranche) models.PaymentTranche {
	return models.PaymentTranche{
		TrancheID:   d.TrancheID,
		PaymentID:   d.PaymentID,
		InvoiceID:   d.InvoiceID,
		Amount:      d.Amount,
		Status:      string(d.Status),
		PaymentDate: d.PaymentDate,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToModelReconciliation converts a domain reconciliation for DB storage.
func ToModelReconciliation(d domain.Reconciliation) models.Reconciliation {
	return models.Reconciliation{
		ReconciliationID: d.ReconciliationID,
		InvoiceID:        d.InvoiceID,
		PaymentID:        d.PaymentID,
		TrancheID:        d.TrancheID,
		Amount:           d.Amount,
		Status:           string(d.Status),
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTranche converts a scanned tranche row to the domain representation.
func ToDomainTranche(m models.PaymentTranche) domain.PaymentTranche {
	return domain.PaymentTranche{
		TrancheID:   m.TrancheID,
		PaymentID:   m.PaymentID,
		InvoiceID:   m.InvoiceID,
		Amount:      m.Amount,
		Status:      domain.TrancheStatus(m.Status),
		PaymentDate: m.PaymentDate,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainReconciliation converts a scanned reconciliation row to the domain representation.
func ToDomainReconciliation(m models.Reconciliation) domain.Reconciliation {
	return domain.Reconciliation{
		ReconciliationID: m.ReconciliationID,
		InvoiceID:        m.InvoiceID,
		PaymentID:        m.PaymentID,
		TrancheID:        m.TrancheID,
		Amount:           m.Amount,
		Status:           domain.ReconciliationStatus(m.Status),
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelPartner converts a domain partner for DB storage.
func ToModelPartner(d domain.Partner) models.Partner {
	return models.Partner{
		PartnerID:   d.PartnerID,
		Name:        d.Name,
		PartnerType: string(d.PartnerType),
		Email:       d.Email,
		Phone:       d.Phone,
		CreditLimit: d.CreditLimit,
		TotalDebit:  d.TotalDebit,
		TotalCredit: d.TotalCredit,
		Balance:     d.Balance,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPartner converts a scanned partner row to the domain representation.
func ToDomainPartner(m models.Partner) domain.Partner {
	return domain.Partner{
		PartnerID:   m.PartnerID,
		Name:        m.Name,
		PartnerType: domain.PartnerType(m.PartnerType),
		Email:       m.Email,
		Phone:       m.Phone,
		CreditLimit: m.CreditLimit,
		TotalDebit:  m.TotalDebit,
		TotalCredit: m.TotalCredit,
		Balance:     m.Balance,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
