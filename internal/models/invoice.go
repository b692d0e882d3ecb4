package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is the invoices table row.
type Invoice struct {
	InvoiceID   string          `db:"invoice_id"`
	Number      string          `db:"number"`
	PartnerID   string          `db:"partner_id"`
	JournalID   string          `db:"journal_id"`
	InvoiceType string          `db:"invoice_type"`
	Status      string          `db:"status"`
	InvoiceDate time.Time       `db:"invoice_date"`
	DueDate     *time.Time      `db:"due_date"`
	Subtotal    decimal.Decimal `db:"subtotal"`
	VATAmount   decimal.Decimal `db:"vat_amount"`
	Total       decimal.Decimal `db:"total"`
	Paid        decimal.Decimal `db:"paid"`
	Remaining   decimal.Decimal `db:"remaining"`
	EntryID     string          `db:"entry_id"` // Nullable
	Notes       string          `db:"notes"`
	AuditFields
}

// InvoiceLine is the invoice_lines table row.
type InvoiceLine struct {
	LineID      string          `db:"line_id"`
	InvoiceID   string          `db:"invoice_id"`
	Sequence    int             `db:"sequence"`
	Description string          `db:"description"`
	Quantity    decimal.Decimal `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	Discount    decimal.Decimal `db:"discount"`
	VATRate     decimal.Decimal `db:"vat_rate"`
	LineTotal   decimal.Decimal `db:"line_total"`
	AuditFields
}
