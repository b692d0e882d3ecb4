package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openbooks/ledger_backend/internal/core/domain"
)

// InvoiceReader defines read operations for invoice data.
type InvoiceReader interface {
	// FindInvoiceByID retrieves a specific invoice by its unique identifier.
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// FindInvoiceByNumber retrieves an invoice by its unique number.
	FindInvoiceByNumber(ctx context.Context, number string) (*domain.Invoice, error)

	// FindLinesByInvoiceID retrieves the ordered lines of an invoice.
	FindLinesByInvoiceID(ctx context.Context, invoiceID string) ([]domain.InvoiceLine, error)

	// ListInvoices retrieves a page of invoices, optionally filtered by partner
	// and status, plus the total count.
	ListInvoices(ctx context.Context, partnerID *string, status *domain.InvoiceStatus, limit, offset int) ([]domain.Invoice, int64, error)
}

// InvoiceWriter defines write operations for invoice data.
type InvoiceWriter interface {
	// SaveInvoice persists a new invoice with its lines in one transaction.
	SaveInvoice(ctx context.Context, invoice domain.Invoice, lines []domain.InvoiceLine) error

	// UpdateInvoiceStatus transitions an invoice between lifecycle states.
	// The expected current status is re-checked under a row lock.
	UpdateInvoiceStatus(ctx context.Context, invoiceID string, expected, next domain.InvoiceStatus, userID string, now time.Time) error

	// PostInvoiceWithEntry transitions a VALIDATED invoice to POSTED, persists
	// the already-posted journal entry with its lines, applies the balance
	// changes to the accounts and links the entry to the invoice, all in one
	// transaction. Either everything commits or nothing does.
	PostInvoiceWithEntry(ctx context.Context, invoiceID string, entry domain.JournalEntry, lines []domain.EntryLine, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error

	// CancelInvoice transitions an invoice to CANCELLED and unwinds its posted
	// tranches in one transaction: each tranche and its reconciliation record
	// are marked cancelled and the allocated amount is returned to the
	// payment. The updated invoice is returned.
	CancelInvoice(ctx context.Context, invoiceID string, userID string, now time.Time) (*domain.Invoice, error)
}

// InvoiceRepositoryFacade combines all invoice-related repository interfaces.
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}
