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

// entryService implements the journal entry engine.
type entryService struct {
	entryRepo   portsrepo.EntryRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	journalRepo portsrepo.JournalRepositoryFacade
}

// NewEntryService creates a new journal entry service.
func NewEntryService(entryRepo portsrepo.EntryRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, journalRepo portsrepo.JournalRepositoryFacade) portssvc.EntrySvcFacade {
	return &entryService{
		entryRepo:   entryRepo,
		accountRepo: accountRepo,
		journalRepo: journalRepo,
	}
}

// Ensure entryService implements the portssvc.EntrySvcFacade interface
var _ portssvc.EntrySvcFacade = (*entryService)(nil)

// buildLines converts request lines into domain lines attached to an entry.
func buildLines(reqLines []dto.EntryLineRequest, entryID, userID string, now time.Time) []domain.EntryLine {
	lines := make([]domain.EntryLine, len(reqLines))
	for i, lr := range reqLines {
		partnerID := ""
		if lr.PartnerID != nil {
			partnerID = *lr.PartnerID
		}
		lines[i] = domain.EntryLine{
			LineID:      uuid.NewString(),
			EntryID:     entryID,
			AccountID:   lr.AccountID,
			PartnerID:   partnerID,
			Debit:       lr.Debit,
			Credit:      lr.Credit,
			Description: lr.Description,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}
	return lines
}

// fetchLineAccounts loads the accounts referenced by a set of lines and
// verifies that each exists and is active.
func fetchLineAccounts(ctx context.Context, accountRepo portsrepo.AccountRepositoryFacade, lines []domain.EntryLine) (map[string]domain.Account, error) {
	ids := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.AccountID]; !ok {
			seen[line.AccountID] = struct{}{}
			ids = append(ids, line.AccountID)
		}
	}

	accounts, err := accountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range ids {
		acc, found := accounts[id]
		if !found {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, id)
		}
	}
	return accounts, nil
}

// calculateBalanceChanges nets the signed effect of all lines per account.
func calculateBalanceChanges(lines []domain.EntryLine, accounts map[string]domain.Account) (map[string]decimal.Decimal, error) {
	balanceChanges := make(map[string]decimal.Decimal)
	for _, line := range lines {
		acc, ok := accounts[line.AccountID]
		if !ok {
			return nil, fmt.Errorf("account %s missing during balance calculation", line.AccountID)
		}
		signedAmount, err := accounting.CalculateSignedAmount(line, acc.AccountType)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate signed amount: %w", err)
		}
		balanceChanges[line.AccountID] = balanceChanges[line.AccountID].Add(signedAmount)
	}
	return balanceChanges, nil
}

// CreateEntry validates the double-entry invariant and persists a draft.
func (s *entryService) CreateEntry(ctx context.Context, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	journal, err := s.journalRepo.FindJournalByID(ctx, req.JournalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: journal %s", apperrors.ErrNotFound, req.JournalID)
		}
		logger.Error("Failed to fetch journal for entry creation", slog.String("error", err.Error()), slog.String("journal_id", req.JournalID))
		return nil, fmt.Errorf("failed to fetch journal: %w", err)
	}
	if !journal.IsActive {
		return nil, fmt.Errorf("%w: journal %s is inactive", apperrors.ErrValidation, req.JournalID)
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()
	lines := buildLines(req.Lines, entryID, creatorUserID, now)

	if err := accounting.ValidateEntryBalance(lines); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnbalanced, err.Error())
	}

	if _, err := fetchLineAccounts(ctx, s.accountRepo, lines); err != nil {
		return nil, err
	}

	debits, _ := accounting.SumSides(lines)
	entry := domain.JournalEntry{
		EntryID:     entryID,
		JournalID:   req.JournalID,
		Reference:   req.Reference,
		EntryDate:   req.EntryDate,
		Description: req.Description,
		Status:      domain.EntryDraft,
		TotalAmount: debits,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.entryRepo.SaveEntry(ctx, entry, lines); err != nil {
		logger.Error("Failed to save entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}

	logger.Info("Entry created successfully", slog.String("entry_id", entryID), slog.String("journal_id", req.JournalID))
	entry.Lines = lines
	return &entry, nil
}

// GetEntryByID retrieves an entry with its lines.
func (s *entryService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find entry by ID", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, fmt.Errorf("failed to find entry by ID %s: %w", entryID, err)
	}

	lines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		logger.Error("Failed to fetch lines for entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to retrieve lines for entry %s: %w", entryID, apperrors.ErrInternal)
	}
	entry.Lines = lines

	return entry, nil
}

// UpdateEntry replaces a draft entry's header and lines atomically.
// Posted and reversed entries are immutable.
func (s *entryService) UpdateEntry(ctx context.Context, entryID string, req dto.UpdateEntryRequest, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find entry for update", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, err
	}

	if entry.Status != domain.EntryDraft {
		return nil, fmt.Errorf("%w: entry status is %s, expected DRAFT", apperrors.ErrInvalidState, entry.Status)
	}

	now := time.Now().UTC()
	lines := buildLines(req.Lines, entryID, userID, now)

	if err := accounting.ValidateEntryBalance(lines); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnbalanced, err.Error())
	}

	if _, err := fetchLineAccounts(ctx, s.accountRepo, lines); err != nil {
		return nil, err
	}

	debits, _ := accounting.SumSides(lines)
	entry.Reference = req.Reference
	entry.EntryDate = req.EntryDate
	entry.Description = req.Description
	entry.TotalAmount = debits
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID

	if err := s.entryRepo.ReplaceEntryLines(ctx, *entry, lines); err != nil {
		logger.Error("Failed to replace entry lines", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}

	logger.Info("Entry updated successfully", slog.String("entry_id", entryID))
	entry.Lines = lines
	return entry, nil
}

// PostEntry transitions a draft to POSTED and updates account balances in one
// atomic unit of work. The repository re-checks the draft status under a row
// lock, so two concurrent posts of the same entry cannot both succeed.
func (s *entryService) PostEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find entry for posting", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, err
	}

	if entry.Status != domain.EntryDraft {
		return nil, fmt.Errorf("%w: entry status is %s, expected DRAFT", apperrors.ErrInvalidState, entry.Status)
	}

	lines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		logger.Error("Failed to fetch lines for posting", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to retrieve lines for entry %s: %w", entryID, err)
	}

	// Posted entries are immutable, so the invariant must hold here.
	if err := accounting.ValidateEntryBalance(lines); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnbalanced, err.Error())
	}

	accounts, err := fetchLineAccounts(ctx, s.accountRepo, lines)
	if err != nil {
		return nil, err
	}

	balanceChanges, err := calculateBalanceChanges(lines, accounts)
	if err != nil {
		logger.Error("Failed to calculate balance changes", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("internal error calculating balance changes: %w", err)
	}

	now := time.Now().UTC()
	if err := s.entryRepo.PostEntry(ctx, entryID, userID, now, balanceChanges); err != nil {
		logger.Error("Failed to post entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to post entry: %w", err)
	}

	logger.Info("Entry posted successfully", slog.String("entry_id", entryID), slog.Int("line_count", len(lines)))

	entry.Status = domain.EntryPosted
	entry.PostedAt = &now
	entry.PostedBy = userID
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID
	entry.Lines = lines
	return entry, nil
}

// ReverseEntry transitions a posted entry to REVERSED. This is a status
// change only: the entry's lines stay in place and account balances keep the
// posted amounts. Reports that recompute from lines filter on POSTED, so
// after a reversal the cached account balance and the recomputed balance
// diverge by the reversed amounts (see DESIGN.md). Producing a balancing
// counter-entry is left to the caller creating and posting an explicit new
// entry.
func (s *entryService) ReverseEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find entry for reversal", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, err
	}

	if entry.Status != domain.EntryPosted {
		return nil, fmt.Errorf("%w: entry status is %s, expected POSTED", apperrors.ErrInvalidState, entry.Status)
	}

	now := time.Now().UTC()
	if err := s.entryRepo.MarkEntryReversed(ctx, entryID, userID, now); err != nil {
		logger.Error("Failed to reverse entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to reverse entry: %w", err)
	}

	logger.Info("Entry reversed successfully", slog.String("entry_id", entryID))

	entry.Status = domain.EntryReversed
	entry.ReversedAt = &now
	entry.ReversedBy = userID
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID
	return entry, nil
}

// DeleteEntry removes a draft entry and its lines.
func (s *entryService) DeleteEntry(ctx context.Context, entryID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return err
	}

	if entry.Status != domain.EntryDraft {
		return fmt.Errorf("%w: entry status is %s, expected DRAFT", apperrors.ErrInvalidState, entry.Status)
	}

	if err := s.entryRepo.DeleteEntry(ctx, entryID); err != nil {
		logger.Error("Failed to delete entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	logger.Info("Entry deleted successfully", slog.String("entry_id", entryID))
	return nil
}

// ListEntries retrieves a page of entries within a date range.
func (s *entryService) ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	params.Normalize()

	if params.To.Before(params.From) {
		return nil, fmt.Errorf("%w: date range end precedes start", apperrors.ErrValidation)
	}

	var status *domain.EntryStatus
	if params.Status != nil && *params.Status != "" {
		st := domain.EntryStatus(*params.Status)
		switch st {
		case domain.EntryDraft, domain.EntryPosted, domain.EntryReversed:
			status = &st
		default:
			return nil, fmt.Errorf("%w: unknown entry status %q", apperrors.ErrValidation, *params.Status)
		}
	}

	entries, total, err := s.entryRepo.ListEntriesByDateRange(ctx, params.From, params.To, status, params.PageSize, params.Offset())
	if err != nil {
		logger.Error("Failed to list entries", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve entries: %w", err)
	}

	responses := make([]dto.EntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = dto.ToEntryResponse(&e)
	}

	resp := &dto.ListEntriesResponse{
		Entries: responses,
		Meta:    dto.NewListMeta(params.ListParams, total),
	}

	logger.Debug("Entries listed successfully", slog.Int("count", len(entries)))
	return resp, nil
}

// ListLinesByAccount retrieves a cursor-paginated list of posted lines for one account.
func (s *entryService) ListLinesByAccount(ctx context.Context, accountID string, params dto.ListEntryLinesParams) (*dto.ListEntryLinesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	lines, nextToken, err := s.entryRepo.ListLinesByAccountID(ctx, accountID, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list lines by account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to retrieve lines: %w", err)
	}

	resp := &dto.ListEntryLinesResponse{
		Lines:     dto.ToEntryLineResponses(lines),
		NextToken: nextToken,
	}

	logger.Debug("Lines listed successfully for account", slog.String("account_id", accountID), slog.Int("count", len(lines)))
	return resp, nil
}
