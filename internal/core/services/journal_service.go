package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openbooks/ledger_backend/internal/apperrors"
	"github.com/openbooks/ledger_backend/internal/core/domain"
	portsrepo "github.com/openbooks/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/openbooks/ledger_backend/internal/core/ports/services"
	"github.com/openbooks/ledger_backend/internal/dto"
	"github.com/openbooks/ledger_backend/internal/middleware"
)

// journalService implements the journal registry operations.
type journalService struct {
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewJournalService creates a new journal registry service.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
	}
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// validateDefaultAccounts checks that both default accounts, when set, exist.
func (s *journalService) validateDefaultAccounts(ctx context.Context, debitID, creditID string) error {
	ids := make([]string, 0, 2)
	if debitID != "" {
		ids = append(ids, debitID)
	}
	if creditID != "" {
		ids = append(ids, creditID)
	}
	if len(ids) == 0 {
		return nil
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to fetch default accounts: %w", err)
	}
	for _, id := range ids {
		if _, found := accounts[id]; !found {
			return fmt.Errorf("%w: default account %s", apperrors.ErrNotFound, id)
		}
	}
	return nil
}

// CreateJournal creates a new posting channel.
func (s *journalService) CreateJournal(ctx context.Context, req dto.CreateJournalRequest, creatorUserID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.JournalType.IsValid() {
		return nil, fmt.Errorf("%w: unknown journal type %q", apperrors.ErrValidation, req.JournalType)
	}

	existing, err := s.journalRepo.FindJournalByCode(ctx, req.Code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to check journal code uniqueness", slog.String("error", err.Error()), slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to check journal code: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: journal code %s", apperrors.ErrDuplicate, req.Code)
	}

	debitID := ""
	if req.DefaultDebitAccountID != nil {
		debitID = *req.DefaultDebitAccountID
	}
	creditID := ""
	if req.DefaultCreditAccountID != nil {
		creditID = *req.DefaultCreditAccountID
	}
	if err := s.validateDefaultAccounts(ctx, debitID, creditID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	journal := domain.Journal{
		JournalID:              uuid.NewString(),
		Code:                   req.Code,
		Name:                   req.Name,
		JournalType:            req.JournalType,
		DefaultDebitAccountID:  debitID,
		DefaultCreditAccountID: creditID,
		IsActive:               true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.journalRepo.SaveJournal(ctx, journal); err != nil {
		logger.Error("Failed to save journal", slog.String("error", err.Error()), slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to save journal: %w", err)
	}

	logger.Info("Journal created successfully", slog.String("journal_id", journal.JournalID), slog.String("code", journal.Code))
	return &journal, nil
}

// GetJournalByID retrieves a specific journal.
func (s *journalService) GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find journal by ID", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		}
		return nil, fmt.Errorf("failed to find journal by ID %s: %w", journalID, err)
	}
	return journal, nil
}

// ListJournals retrieves a page of journals.
func (s *journalService) ListJournals(ctx context.Context, params dto.ListParams) (*dto.ListJournalsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	params.Normalize()

	journals, total, err := s.journalRepo.ListJournals(ctx, params.PageSize, params.Offset())
	if err != nil {
		logger.Error("Failed to list journals", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve journals: %w", err)
	}

	resp := &dto.ListJournalsResponse{
		Journals: dto.ToJournalResponses(journals),
		Meta:     dto.NewListMeta(params, total),
	}

	logger.Debug("Journals listed successfully", slog.Int("count", len(journals)))
	return resp, nil
}

// UpdateJournal updates a journal's mutable fields. Code and type are fixed
// once created so references stay stable.
func (s *journalService) UpdateJournal(ctx context.Context, journalID string, req dto.UpdateJournalRequest, userID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find journal for update", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		}
		return nil, err
	}

	updated := false
	if req.Name != nil {
		journal.Name = *req.Name
		updated = true
	}
	if req.DefaultDebitAccountID != nil {
		journal.DefaultDebitAccountID = *req.DefaultDebitAccountID
		updated = true
	}
	if req.DefaultCreditAccountID != nil {
		journal.DefaultCreditAccountID = *req.DefaultCreditAccountID
		updated = true
	}
	if req.IsActive != nil {
		journal.IsActive = *req.IsActive
		updated = true
	}

	if !updated {
		logger.Debug("No fields provided for journal update", slog.String("journal_id", journalID))
		return journal, nil
	}

	if err := s.validateDefaultAccounts(ctx, journal.DefaultDebitAccountID, journal.DefaultCreditAccountID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	journal.LastUpdatedAt = now
	journal.LastUpdatedBy = userID

	if err := s.journalRepo.UpdateJournal(ctx, *journal); err != nil {
		logger.Error("Failed to save journal update", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		return nil, fmt.Errorf("failed to save journal update: %w", err)
	}

	logger.Info("Journal updated successfully", slog.String("journal_id", journalID))
	return journal, nil
}
