package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks/ledger_backend/internal/apperrors"
	"github.com/openbooks/ledger_backend/internal/core/domain"
	portsrepo "github.com/openbooks/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/openbooks/ledger_backend/internal/core/ports/services"
	"github.com/openbooks/ledger_backend/internal/dto"
	"github.com/openbooks/ledger_backend/internal/middleware"
)

// paymentService implements payment and reconciliation operations.
type paymentService struct {
	paymentRepo portsrepo.PaymentRepositoryFacade
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	partnerRepo portsrepo.PartnerRepositoryFacade
	journalRepo portsrepo.JournalRepositoryFacade
}

// NewPaymentService creates a new payment service.
func NewPaymentService(paymentRepo portsrepo.PaymentRepositoryFacade, invoiceRepo portsrepo.InvoiceRepositoryFacade, partnerRepo portsrepo.PartnerRepositoryFacade, journalRepo portsrepo.JournalRepositoryFacade) portssvc.PaymentSvcFacade {
	return &paymentService{
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
		partnerRepo: partnerRepo,
		journalRepo: journalRepo,
	}
}

// Ensure paymentService implements the portssvc.PaymentSvcFacade interface
var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// CreatePayment persists a draft payment.
func (s *paymentService) CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, creatorUserID string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.PaymentType.IsValid() {
		return nil, fmt.Errorf("%w: unknown payment type %q", apperrors.ErrValidation, req.PaymentType)
	}
	if !req.Method.IsValid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", apperrors.ErrValidation, req.Method)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}

	existing, err := s.paymentRepo.FindPaymentByNumber(ctx, req.Number)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to check payment number uniqueness", slog.String("error", err.Error()), slog.String("number", req.Number))
		return nil, fmt.Errorf("failed to check payment number: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: payment number %s", apperrors.ErrDuplicate, req.Number)
	}

	partner, err := s.partnerRepo.FindPartnerByID(ctx, req.PartnerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: partner %s", apperrors.ErrNotFound, req.PartnerID)
		}
		logger.Error("Failed to fetch partner for payment", slog.String("error", err.Error()), slog.String("partner_id", req.PartnerID))
		return nil, fmt.Errorf("failed to fetch partner: %w", err)
	}
	if !partner.IsActive {
		return nil, fmt.Errorf("%w: partner %s is inactive", apperrors.ErrValidation, req.PartnerID)
	}

	journal, err := s.journalRepo.FindJournalByID(ctx, req.JournalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: journal %s", apperrors.ErrNotFound, req.JournalID)
		}
		logger.Error("Failed to fetch journal for payment", slog.String("error", err.Error()), slog.String("journal_id", req.JournalID))
		return nil, fmt.Errorf("failed to fetch journal: %w", err)
	}
	if !journal.IsActive {
		return nil, fmt.Errorf("%w: journal %s is inactive", apperrors.ErrValidation, req.JournalID)
	}

	now := time.Now().UTC()
	payment := domain.Payment{
		PaymentID:   uuid.NewString(),
		Number:      req.Number,
		PartnerID:   req.PartnerID,
		JournalID:   req.JournalID,
		PaymentType: req.PaymentType,
		Status:      domain.PaymentDraft,
		Method:      req.Method,
		PaymentDate: req.PaymentDate,
		Amount:      req.Amount,
		Allocated:   decimal.Zero,
		Reference:   req.Reference,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.paymentRepo.SavePayment(ctx, payment); err != nil {
		logger.Error("Failed to save payment", slog.String("error", err.Error()), slog.String("number", req.Number))
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	logger.Info("Payment created successfully", slog.String("payment_id", payment.PaymentID), slog.String("number", req.Number))
	return &payment, nil
}

// GetPaymentByID retrieves a payment with its tranches.
func (s *paymentService) GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find payment by ID", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		}
		return nil, fmt.Errorf("failed to find payment by ID %s: %w", paymentID, err)
	}

	tranches, err := s.paymentRepo.FindTranchesByPaymentID(ctx, paymentID)
	if err != nil {
		logger.Error("Failed to fetch payment tranches", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		return nil, fmt.Errorf("failed to retrieve tranches for payment %s: %w", paymentID, apperrors.ErrInternal)
	}
	payment.Tranches = tranches

	return payment, nil
}

// ListPayments retrieves a page of payments.
func (s *paymentService) ListPayments(ctx context.Context, params dto.ListPaymentsParams) (*dto.ListPaymentsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	params.Normalize()

	var status *domain.PaymentStatus
	if params.Status != nil && *params.Status != "" {
		st := domain.PaymentStatus(*params.Status)
		switch st {
		case domain.PaymentDraft, domain.PaymentValidated, domain.PaymentPosted, domain.PaymentCancelled:
			status = &st
		default:
			return nil, fmt.Errorf("%w: unknown payment status %q", apperrors.ErrValidation, *params.Status)
		}
	}

	payments, total, err := s.paymentRepo.ListPayments(ctx, params.PartnerID, status, params.PageSize, params.Offset())
	if err != nil {
		logger.Error("Failed to list payments", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve payments: %w", err)
	}

	resp := &dto.ListPaymentsResponse{
		Payments: dto.ToPaymentResponses(payments),
		Meta:     dto.NewListMeta(params.ListParams, total),
	}

	logger.Debug("Payments listed successfully", slog.Int("count", len(payments)))
	return resp, nil
}

// transitionPayment moves a payment from one expected status to the next.
func (s *paymentService) transitionPayment(ctx context.Context, paymentID string, expected, next domain.PaymentStatus, userID string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status != expected {
		return nil, fmt.Errorf("%w: payment status is %s, expected %s", apperrors.ErrInvalidState, payment.Status, expected)
	}

	now := time.Now().UTC()
	if err := s.paymentRepo.UpdatePaymentStatus(ctx, paymentID, expected, next, userID, now); err != nil {
		logger.Error("Failed to update payment status", slog.String("error", err.Error()), slog.String("payment_id", paymentID), slog.String("next_status", string(next)))
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}

	payment.Status = next
	payment.LastUpdatedAt = now
	payment.LastUpdatedBy = userID
	return payment, nil
}

// ValidatePayment transitions DRAFT -> VALIDATED.
func (s *paymentService) ValidatePayment(ctx context.Context, paymentID string, userID string) (*domain.Payment, error) {
	payment, err := s.transitionPayment(ctx, paymentID, domain.PaymentDraft, domain.PaymentValidated, userID)
	if err != nil {
		return nil, err
	}
	middleware.GetLoggerFromCtx(ctx).Info("Payment validated successfully", slog.String("payment_id", paymentID))
	return payment, nil
}

// PostPayment transitions VALIDATED -> POSTED.
func (s *paymentService) PostPayment(ctx context.Context, paymentID string, userID string) (*domain.Payment, error) {
	payment, err := s.transitionPayment(ctx, paymentID, domain.PaymentValidated, domain.PaymentPosted, userID)
	if err != nil {
		return nil, err
	}
	middleware.GetLoggerFromCtx(ctx).Info("Payment posted successfully", slog.String("payment_id", paymentID))
	return payment, nil
}

// CancelPayment cancels a payment that has no posted tranches.
func (s *paymentService) CancelPayment(ctx context.Context, paymentID string, userID string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status == domain.PaymentCancelled {
		return nil, fmt.Errorf("%w: payment is already cancelled", apperrors.ErrInvalidState)
	}
	if payment.Allocated.IsPositive() {
		return nil, fmt.Errorf("%w: payment has %s allocated, cancel its tranches first", apperrors.ErrInvalidState, payment.Allocated.String())
	}

	now := time.Now().UTC()
	if err := s.paymentRepo.UpdatePaymentStatus(ctx, paymentID, payment.Status, domain.PaymentCancelled, userID, now); err != nil {
		logger.Error("Failed to cancel payment", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		return nil, fmt.Errorf("failed to cancel payment: %w", err)
	}

	logger.Info("Payment cancelled successfully", slog.String("payment_id", paymentID))
	payment.Status = domain.PaymentCancelled
	payment.LastUpdatedAt = now
	payment.LastUpdatedBy = userID
	return payment, nil
}

// PostTranche allocates part of a posted payment to a posted invoice. The
// over-allocation checks here are advisory; the repository re-checks them
// under row locks before committing.
func (s *paymentService) PostTranche(ctx context.Context, paymentID string, req dto.PostTrancheRequest, userID string) (*domain.PaymentTranche, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: tranche amount must be positive", apperrors.ErrValidation)
	}

	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status != domain.PaymentPosted {
		return nil, fmt.Errorf("%w: payment status is %s, expected POSTED", apperrors.ErrInvalidState, payment.Status)
	}
	if req.Amount.GreaterThan(payment.Unallocated()) {
		return nil, fmt.Errorf("%w: tranche amount %s exceeds unallocated %s", apperrors.ErrOverAllocation, req.Amount.String(), payment.Unallocated().String())
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, req.InvoiceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invoice %s", apperrors.ErrNotFound, req.InvoiceID)
		}
		logger.Error("Failed to fetch invoice for tranche", slog.String("error", err.Error()), slog.String("invoice_id", req.InvoiceID))
		return nil, fmt.Errorf("failed to fetch invoice: %w", err)
	}
	if invoice.Status != domain.InvoicePosted && invoice.Status != domain.InvoicePartial {
		return nil, fmt.Errorf("%w: invoice status is %s, expected POSTED or PARTIAL", apperrors.ErrInvalidState, invoice.Status)
	}
	if invoice.PartnerID != payment.PartnerID {
		return nil, fmt.Errorf("%w: invoice and payment belong to different partners", apperrors.ErrValidation)
	}
	if req.Amount.GreaterThan(invoice.Remaining) {
		return nil, fmt.Errorf("%w: tranche amount %s exceeds invoice remaining %s", apperrors.ErrOverAllocation, req.Amount.String(), invoice.Remaining.String())
	}

	now := time.Now().UTC()
	tranche := domain.PaymentTranche{
		TrancheID:   uuid.NewString(),
		PaymentID:   paymentID,
		InvoiceID:   req.InvoiceID,
		Amount:      req.Amount,
		Status:      domain.TranchePosted,
		PaymentDate: payment.PaymentDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	updatedInvoice, err := s.paymentRepo.PostTranche(ctx, tranche, userID, now)
	if err != nil {
		logger.Error("Failed to post tranche", slog.String("error", err.Error()), slog.String("payment_id", paymentID), slog.String("invoice_id", req.InvoiceID))
		return nil, fmt.Errorf("failed to post tranche: %w", err)
	}

	logger.Info("Tranche posted successfully",
		slog.String("tranche_id", tranche.TrancheID),
		slog.String("payment_id", paymentID),
		slog.String("invoice_id", req.InvoiceID),
		slog.String("invoice_status", string(updatedInvoice.Status)))
	return &tranche, nil
}

// CancelTranche reverses a posted tranche and its reconciliation.
func (s *paymentService) CancelTranche(ctx context.Context, trancheID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	updatedInvoice, err := s.paymentRepo.CancelTranche(ctx, trancheID, userID, now)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrConflict) {
			logger.Error("Failed to cancel tranche", slog.String("error", err.Error()), slog.String("tranche_id", trancheID))
		}
		return fmt.Errorf("failed to cancel tranche: %w", err)
	}

	logger.Info("Tranche cancelled successfully",
		slog.String("tranche_id", trancheID),
		slog.String("invoice_id", updatedInvoice.InvoiceID),
		slog.String("invoice_status", string(updatedInvoice.Status)))
	return nil
}

// ListReconciliations retrieves reconciliation records filtered by invoice
// and/or payment.
func (s *paymentService) ListReconciliations(ctx context.Context, invoiceID, paymentID *string) ([]domain.Reconciliation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	recs, err := s.paymentRepo.ListReconciliations(ctx, invoiceID, paymentID)
	if err != nil {
		logger.Error("Failed to list reconciliations", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve reconciliations: %w", err)
	}
	return recs, nil
}
