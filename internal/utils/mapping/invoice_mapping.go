package mapping

import (
	"github.com/openbooks/ledger_backend/internal/core/domain"
	"github.com/openbooks/ledger_backend/internal/models"
)

// ToModelInvoice converts a domain invoice for DB storage.
func ToModelInvoice(d domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:   d.InvoiceID,
		Number:      d.Number,
		PartnerID:   d.PartnerID,
		JournalID:   d.JournalID,
		InvoiceType: string(d.InvoiceType),
		Status:      string(d.Status),
		InvoiceDate: d.InvoiceDate,
		DueDate:     d.DueDate,
		Subtotal:    d.Subtotal,
		VATAmount:   d.VATAmount,
		Total:       d.Total,
		Paid:        d.Paid,
		Remaining:   d.Remaining,
		EntryID:     d.EntryID,
		Notes:       d.Notes,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a scanned invoice row to the domain representation.
func ToDomainInvoice(m models.Invoice) domain.Invoice {
	return domain.Invoice{
		InvoiceID:   m.InvoiceID,
		Number:      m.Number,
		PartnerID:   m.PartnerID,
		JournalID:   m.JournalID,
		InvoiceType: domain.InvoiceType(m.InvoiceType),
		Status:      domain.InvoiceStatus(m.Status),
		InvoiceDate: m.InvoiceDate,
		DueDate:     m.DueDate,
		Subtotal:    m.Subtotal,
		VATAmount:   m.VATAmount,
		Total:       m.Total,
		Paid:        m.Paid,
		Remaining:   m.Remaining,
		EntryID:     m.EntryID,
		Notes:       m.Notes,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelInvoiceLine converts a domain invoice line for DB storage.
func ToModelInvoiceLine(d domain.InvoiceLine) models.InvoiceLine {
	return models.InvoiceLine{
		LineID:      d.LineID,
		InvoiceID:   d.InvoiceID,
		Sequence:    d.Sequence,
		Description: d.Description,
		Quantity:    d.Quantity,
		UnitPrice:   d.UnitPrice,
		Discount:    d.Discount,
		VATRate:     d.VATRate,
		LineTotal:   d.LineTotal,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoiceLine converts a scanned invoice line row to the domain representation.
func ToDomainInvoiceLine(m models.InvoiceLine) domain.InvoiceLine {
	return domain.InvoiceLine{
		LineID:      m.LineID,
		InvoiceID:   m.InvoiceID,
		Sequence:    m.Sequence,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		Discount:    m.Discount,
		VATRate:     m.VATRate,
		LineTotal:   m.LineTotal,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainInvoiceLineSlice converts a slice of invoice line rows.
func ToDomainInvoiceLineSlice(ms []models.InvoiceLine) []domain.InvoiceLine {
	lines := make([]domain.InvoiceLine, len(ms))
	for i, m := range ms {
		lines[i] = ToDomainInvoiceLine(m)
	}
	return lines
}
