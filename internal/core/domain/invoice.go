package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceType classifies an invoice document.
type InvoiceType string

const (
	SalesInvoice    InvoiceType = "SALES"
	PurchaseInvoice InvoiceType = "PURCHASE"
	CreditNote      InvoiceType = "CREDIT_NOTE"
	DebitNote       InvoiceType = "DEBIT_NOTE"
)

// IsValid reports whether t is one of the known invoice types.
func (t InvoiceType) IsValid() bool {
	switch t {
	case SalesInvoice, PurchaseInvoice, CreditNote, DebitNote:
		return true
	}
	return false
}

// InvoiceStatus indicates the settlement lifecycle state of an invoice.
// Transitions: DRAFT -> VALIDATED -> POSTED -> {PARTIAL, PAID};
// CANCELLED is reachable from any state before PAID.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "DRAFT"
	InvoiceValidated InvoiceStatus = "VALIDATED"
	InvoicePosted    InvoiceStatus = "POSTED"
	InvoicePartial   InvoiceStatus = "PARTIAL"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
)

// Invoice is a client or supplier invoice tracked by the ledger.
// Invariant: Paid + Remaining == Total at all times.
type Invoice struct {
	InvoiceID   string          `json:"invoiceID"` // Primary key (UUID)
	Number      string          `json:"number"`    // Unique invoice number
	PartnerID   string          `json:"partnerID"` // FK -> Partner
	JournalID   string          `json:"journalID"` // FK -> Journal
	InvoiceType InvoiceType     `json:"invoiceType"`
	Status      InvoiceStatus   `json:"status"`
	InvoiceDate time.Time       `json:"invoiceDate"`
	DueDate     *time.Time      `json:"dueDate"`
	Subtotal    decimal.Decimal `json:"subtotal"`  // HT: total excluding tax
	VATAmount   decimal.Decimal `json:"vatAmount"` // Total VAT across lines
	Total       decimal.Decimal `json:"total"`     // TTC: total including tax
	Paid        decimal.Decimal `json:"paid"`
	Remaining   decimal.Decimal `json:"remaining"`
	EntryID     string          `json:"entryID"` // Nullable FK -> JournalEntry posted for this invoice
	Notes       string          `json:"notes"`
	Lines       []InvoiceLine   `json:"lines,omitempty"`
	AuditFields
}

// InvoiceLine is an ordered line on an invoice.
// LineTotal = Quantity * UnitPrice * (1 - Discount/100), excluding VAT.
type InvoiceLine struct {
	LineID      string          `json:"lineID"`    // Primary key (UUID)
	InvoiceID   string          `json:"invoiceID"` // FK -> Invoice
	Sequence    int             `json:"sequence"`  // Order within the invoice
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Discount    decimal.Decimal `json:"discount"` // Percentage, 0..100
	VATRate     decimal.Decimal `json:"vatRate"`  // Percentage, e.g. 20
	LineTotal   decimal.Decimal `json:"lineTotal"`
	AuditFields
}
