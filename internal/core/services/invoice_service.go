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
	"github.com/openbooks/ledger_backend/internal/utils/accounting"
)

// invoiceService implements invoice lifecycle operations.
type invoiceService struct {
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	partnerRepo portsrepo.PartnerRepositoryFacade
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewInvoiceService creates a new invoice service. The account repository is
// used to build the accounting entry when an invoice's journal carries
// default accounts.
func NewInvoiceService(invoiceRepo portsrepo.InvoiceRepositoryFacade, partnerRepo portsrepo.PartnerRepositoryFacade, journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		partnerRepo: partnerRepo,
		journalRepo: journalRepo,
		accountRepo: accountRepo,
	}
}

// Ensure invoiceService implements the portssvc.InvoiceSvcFacade interface
var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// CreateInvoice computes totals from the lines and persists a draft.
// Caller-provided totals are never trusted.
func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.InvoiceType.IsValid() {
		return nil, fmt.Errorf("%w: unknown invoice type %q", apperrors.ErrValidation, req.InvoiceType)
	}

	existing, err := s.invoiceRepo.FindInvoiceByNumber(ctx, req.Number)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to check invoice number uniqueness", slog.String("error", err.Error()), slog.String("number", req.Number))
		return nil, fmt.Errorf("failed to check invoice number: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: invoice number %s", apperrors.ErrDuplicate, req.Number)
	}

	partner, err := s.partnerRepo.FindPartnerByID(ctx, req.PartnerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: partner %s", apperrors.ErrNotFound, req.PartnerID)
		}
		logger.Error("Failed to fetch partner for invoice", slog.String("error", err.Error()), slog.String("partner_id", req.PartnerID))
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
		logger.Error("Failed to fetch journal for invoice", slog.String("error", err.Error()), slog.String("journal_id", req.JournalID))
		return nil, fmt.Errorf("failed to fetch journal: %w", err)
	}
	if !journal.IsActive {
		return nil, fmt.Errorf("%w: journal %s is inactive", apperrors.ErrValidation, req.JournalID)
	}

	now := time.Now().UTC()
	invoiceID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorUserID,
	}

	subtotal := decimal.Zero
	vatAmount := decimal.Zero
	lines := make([]domain.InvoiceLine, len(req.Lines))
	for i, lr := range req.Lines {
		if lr.Quantity.IsNegative() || lr.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: quantity and unit price must not be negative on line %d", apperrors.ErrValidation, i+1)
		}
		if lr.Discount.IsNegative() || lr.Discount.GreaterThan(decimal.NewFromInt(100)) {
			return nil, fmt.Errorf("%w: discount must be between 0 and 100 on line %d", apperrors.ErrValidation, i+1)
		}
		if lr.VATRate.IsNegative() {
			return nil, fmt.Errorf("%w: VAT rate must not be negative on line %d", apperrors.ErrValidation, i+1)
		}

		lineTotal := accounting.InvoiceLineTotal(lr.Quantity, lr.UnitPrice, lr.Discount)
		lineVAT := accounting.InvoiceLineVAT(lineTotal, lr.VATRate)
		subtotal = subtotal.Add(lineTotal)
		vatAmount = vatAmount.Add(lineVAT)

		lines[i] = domain.InvoiceLine{
			LineID:      uuid.NewString(),
			InvoiceID:   invoiceID,
			Sequence:    i + 1,
			Description: lr.Description,
			Quantity:    lr.Quantity,
			UnitPrice:   lr.UnitPrice,
			Discount:    lr.Discount,
			VATRate:     lr.VATRate,
			LineTotal:   lineTotal,
			AuditFields: audit,
		}
	}

	total := subtotal.Add(vatAmount)
	invoice := domain.Invoice{
		InvoiceID:   invoiceID,
		Number:      req.Number,
		PartnerID:   req.PartnerID,
		JournalID:   req.JournalID,
		InvoiceType: req.InvoiceType,
		Status:      domain.InvoiceDraft,
		InvoiceDate: req.InvoiceDate,
		DueDate:     req.DueDate,
		Subtotal:    subtotal,
		VATAmount:   vatAmount,
		Total:       total,
		Paid:        decimal.Zero,
		Remaining:   total,
		Notes:       req.Notes,
		AuditFields: audit,
	}

	if err := s.invoiceRepo.SaveInvoice(ctx, invoice, lines); err != nil {
		logger.Error("Failed to save invoice", slog.String("error", err.Error()), slog.String("number", req.Number))
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	logger.Info("Invoice created successfully", slog.String("invoice_id", invoiceID), slog.String("number", req.Number))
	invoice.Lines = lines
	return &invoice, nil
}

// GetInvoiceByID retrieves an invoice with its lines.
func (s *invoiceService) GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find invoice by ID", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		}
		return nil, fmt.Errorf("failed to find invoice by ID %s: %w", invoiceID, err)
	}

	lines, err := s.invoiceRepo.FindLinesByInvoiceID(ctx, invoiceID)
	if err != nil {
		logger.Error("Failed to fetch invoice lines", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		return nil, fmt.Errorf("failed to retrieve lines for invoice %s: %w", invoiceID, apperrors.ErrInternal)
	}
	invoice.Lines = lines

	return invoice, nil
}

// ListInvoices retrieves a page of invoices.
func (s *invoiceService) ListInvoices(ctx context.Context, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	params.Normalize()

	var status *domain.InvoiceStatus
	if params.Status != nil && *params.Status != "" {
		st := domain.InvoiceStatus(*params.Status)
		switch st {
		case domain.InvoiceDraft, domain.InvoiceValidated, domain.InvoicePosted,
			domain.InvoicePartial, domain.InvoicePaid, domain.InvoiceCancelled:
			status = &st
		default:
			return nil, fmt.Errorf("%w: unknown invoice status %q", apperrors.ErrValidation, *params.Status)
		}
	}

	invoices, total, err := s.invoiceRepo.ListInvoices(ctx, params.PartnerID, status, params.PageSize, params.Offset())
	if err != nil {
		logger.Error("Failed to list invoices", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve invoices: %w", err)
	}

	resp := &dto.ListInvoicesResponse{
		Invoices: dto.ToInvoiceResponses(invoices),
		Meta:     dto.NewListMeta(params.ListParams, total),
	}

	logger.Debug("Invoices listed successfully", slog.Int("count", len(invoices)))
	return resp, nil
}

// ValidateInvoice transitions DRAFT -> VALIDATED.
func (s *invoiceService) ValidateInvoice(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != domain.InvoiceDraft {
		return nil, fmt.Errorf("%w: invoice status is %s, expected DRAFT", apperrors.ErrInvalidState, invoice.Status)
	}

	now := time.Now().UTC()
	if err := s.invoiceRepo.UpdateInvoiceStatus(ctx, invoiceID, domain.InvoiceDraft, domain.InvoiceValidated, userID, now); err != nil {
		logger.Error("Failed to validate invoice", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		return nil, fmt.Errorf("failed to validate invoice: %w", err)
	}

	logger.Info("Invoice validated successfully", slog.String("invoice_id", invoiceID))
	invoice.Status = domain.InvoiceValidated
	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = userID
	return invoice, nil
}

// PostInvoice transitions VALIDATED -> POSTED. When the invoice's journal has
// both default accounts configured, a balanced journal entry for the invoice
// total is persisted, applied to account balances and linked to the invoice
// in the same transaction as the status change. A failure at any step leaves
// the invoice VALIDATED, so the call can be retried.
func (s *invoiceService) PostInvoice(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != domain.InvoiceValidated {
		return nil, fmt.Errorf("%w: invoice status is %s, expected VALIDATED", apperrors.ErrInvalidState, invoice.Status)
	}

	journal, err := s.journalRepo.FindJournalByID(ctx, invoice.JournalID)
	if err != nil {
		logger.Error("Failed to fetch journal for invoice posting", slog.String("error", err.Error()), slog.String("journal_id", invoice.JournalID))
		return nil, fmt.Errorf("failed to fetch journal: %w", err)
	}

	now := time.Now().UTC()

	if journal.DefaultDebitAccountID == "" || journal.DefaultCreditAccountID == "" {
		if err := s.invoiceRepo.UpdateInvoiceStatus(ctx, invoiceID, domain.InvoiceValidated, domain.InvoicePosted, userID, now); err != nil {
			logger.Error("Failed to post invoice", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
			return nil, fmt.Errorf("failed to post invoice: %w", err)
		}
		logger.Info("Invoice posted without entry, journal has no default accounts", slog.String("invoice_id", invoiceID))
		invoice.Status = domain.InvoicePosted
		invoice.LastUpdatedAt = now
		invoice.LastUpdatedBy = userID
		return invoice, nil
	}

	debitAccountID := journal.DefaultDebitAccountID
	creditAccountID := journal.DefaultCreditAccountID
	// Credit notes move money the opposite way of the invoice they correct.
	if invoice.InvoiceType == domain.CreditNote {
		debitAccountID, creditAccountID = creditAccountID, debitAccountID
	}

	entryID := uuid.NewString()
	lines := buildLines([]dto.EntryLineRequest{
		{AccountID: debitAccountID, PartnerID: &invoice.PartnerID, Debit: invoice.Total},
		{AccountID: creditAccountID, PartnerID: &invoice.PartnerID, Credit: invoice.Total},
	}, entryID, userID, now)

	if err := accounting.ValidateEntryBalance(lines); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnbalanced, err.Error())
	}
	accounts, err := fetchLineAccounts(ctx, s.accountRepo, lines)
	if err != nil {
		logger.Error("Default accounts unusable for invoice posting", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		return nil, err
	}
	balanceChanges, err := calculateBalanceChanges(lines, accounts)
	if err != nil {
		logger.Error("Failed to calculate balance changes", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		return nil, fmt.Errorf("internal error calculating balance changes: %w", err)
	}

	entry := domain.JournalEntry{
		EntryID:     entryID,
		JournalID:   invoice.JournalID,
		Reference:   invoice.Number,
		EntryDate:   invoice.InvoiceDate,
		Description: fmt.Sprintf("Invoice %s", invoice.Number),
		Status:      domain.EntryPosted,
		TotalAmount: invoice.Total,
		PostedAt:    &now,
		PostedBy:    userID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.invoiceRepo.PostInvoiceWithEntry(ctx, invoiceID, entry, lines, balanceChanges, userID, now); err != nil {
		logger.Error("Failed to post invoice with entry", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to post invoice: %w", err)
	}

	logger.Info("Invoice posted successfully", slog.String("invoice_id", invoiceID), slog.String("entry_id", entryID))
	invoice.Status = domain.InvoicePosted
	invoice.EntryID = entryID
	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = userID
	return invoice, nil
}

// CancelInvoice cancels an invoice from any state before PAID. Partially paid
// invoices are allowed: their posted tranches are cancelled and the allocated
// amounts returned to the payments, atomically with the status change.
func (s *invoiceService) CancelInvoice(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	switch invoice.Status {
	case domain.InvoicePaid:
		return nil, fmt.Errorf("%w: paid invoices cannot be cancelled", apperrors.ErrInvalidState)
	case domain.InvoiceCancelled:
		return nil, fmt.Errorf("%w: invoice is already cancelled", apperrors.ErrInvalidState)
	}

	now := time.Now().UTC()
	cancelled, err := s.invoiceRepo.CancelInvoice(ctx, invoiceID, userID, now)
	if err != nil {
		logger.Error("Failed to cancel invoice", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		return nil, fmt.Errorf("failed to cancel invoice: %w", err)
	}

	logger.Info("Invoice cancelled successfully", slog.String("invoice_id", invoiceID))
	return cancelled, nil
}
