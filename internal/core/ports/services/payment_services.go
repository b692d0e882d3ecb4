package services

import (
	"context"

	"github.com/openbooks/ledger_backend/internal/core/domain"
	"github.com/openbooks/ledger_backend/internal/dto"
)

// PaymentSvcFacade defines payment and reconciliation operations.
type PaymentSvcFacade interface {
	// CreatePayment persists a draft payment.
	CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, creatorUserID string) (*domain.Payment, error)

	// GetPaymentByID retrieves a payment with its tranches.
	GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// ListPayments retrieves a page of payments.
	ListPayments(ctx context.Context, params dto.ListPaymentsParams) (*dto.ListPaymentsResponse, error)

	// ValidatePayment transitions DRAFT -> VALIDATED.
	ValidatePayment(ctx context.Context, paymentID string, userID string) (*domain.Payment, error)

	// PostPayment transitions VALIDATED -> POSTED. Only posted payments can be
	// allocated to invoices.
	PostPayment(ctx context.Context, paymentID string, userID string) (*domain.Payment, error)

	// CancelPayment cancels a payment that has no posted tranches.
	CancelPayment(ctx context.Context, paymentID string, userID string) (*domain.Payment, error)

	// PostTranche allocates part of a posted payment to a posted invoice,
	// atomically adjusting the invoice paid/remaining totals and writing a
	// reconciliation record.
	PostTranche(ctx context.Context, paymentID string, req dto.PostTrancheRequest, userID string) (*domain.PaymentTranche, error)

	// CancelTranche reverses a posted tranche and its reconciliation.
	CancelTranche(ctx context.Context, trancheID string, userID string) error

	// ListReconciliations retrieves reconciliation records filtered by invoice
	// and/or payment.
	ListReconciliations(ctx context.Context, invoiceID, paymentID *string) ([]domain.Reconciliation, error)
}
