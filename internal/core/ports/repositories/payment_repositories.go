package repositories

import (
	"context"
	"time"

	"github.com/openbooks/ledger_backend/internal/core/domain"
)

// PaymentReader defines read operations for payment data.
type PaymentReader interface {
	// FindPaymentByID retrieves a specific payment by its unique identifier.
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// FindPaymentByNumber retrieves a payment by its unique number.
	FindPaymentByNumber(ctx context.Context, number string) (*domain.Payment, error)

	// FindTranchesByPaymentID retrieves all tranches of a payment.
	FindTranchesByPaymentID(ctx context.Context, paymentID string) ([]domain.PaymentTranche, error)

	// FindTranchesByInvoiceID retrieves all tranches allocated to an invoice.
	FindTranchesByInvoiceID(ctx context.Context, invoiceID string) ([]domain.PaymentTranche, error)

	// ListPayments retrieves a page of payments, optionally filtered by partner
	// and status, plus the total count.
	ListPayments(ctx context.Context, partnerID *string, status *domain.PaymentStatus, limit, offset int) ([]domain.Payment, int64, error)

	// ListReconciliations retrieves reconciliation records filtered by invoice
	// and/or payment.
	ListReconciliations(ctx context.Context, invoiceID, paymentID *string) ([]domain.Reconciliation, error)
}

// PaymentWriter defines write operations for payment data.
type PaymentWriter interface {
	// SavePayment persists a new payment.
	SavePayment(ctx context.Context, payment domain.Payment) error

	// UpdatePaymentStatus transitions a payment between lifecycle states.
	// The expected current status is re-checked under a row lock.
	UpdatePaymentStatus(ctx context.Context, paymentID string, expected, next domain.PaymentStatus, userID string, now time.Time) error

	// PostTranche allocates part of a payment to an invoice in one transaction:
	// the invoice and payment rows are locked FOR UPDATE, the over-allocation
	// invariants are re-checked under the locks, the invoice paid/remaining and
	// payment allocated totals are adjusted, and a completed reconciliation
	// record is written. Returns the updated invoice.
	PostTranche(ctx context.Context, tranche domain.PaymentTranche, userID string, now time.Time) (*domain.Invoice, error)

	// CancelTranche reverses a posted tranche in one transaction: restores the
	// invoice paid/remaining and payment allocated totals, re-derives the
	// invoice status, and marks the tranche and its reconciliation cancelled.
	// Returns the updated invoice.
	CancelTranche(ctx context.Context, trancheID string, userID string, now time.Time) (*domain.Invoice, error)
}

// PaymentRepositoryFacade combines all payment-related repository interfaces.
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}
