package services

import (
	"context"

	"github.com/openbooks/ledger_backend/internal/core/domain"
	"github.com/openbooks/ledger_backend/internal/dto"
)

// InvoiceSvcFacade defines invoice lifecycle operations.
// Lifecycle: DRAFT -> VALIDATED -> POSTED -> {PARTIAL, PAID};
// CANCELLED is reachable from any state before PAID.
type InvoiceSvcFacade interface {
	// CreateInvoice computes totals from the lines and persists a draft.
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, error)

	// GetInvoiceByID retrieves an invoice with its lines.
	GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// ListInvoices retrieves a page of invoices.
	ListInvoices(ctx context.Context, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error)

	// ValidateInvoice transitions DRAFT -> VALIDATED.
	ValidateInvoice(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error)

	// PostInvoice transitions VALIDATED -> POSTED. When the invoice's journal
	// carries default accounts, a balanced journal entry is created and posted
	// for the invoice in the same operation.
	PostInvoice(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error)

	// CancelInvoice cancels an invoice from any state before PAID.
	CancelInvoice(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error)
}
