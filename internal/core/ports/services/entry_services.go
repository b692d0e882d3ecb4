package services

import (
	"context"

	"github.com/openbooks/ledger_backend/internal/core/domain"
	"github.com/openbooks/ledger_backend/internal/dto"
)

// EntrySvcFacade defines the journal entry engine operations.
// Entry lifecycle: DRAFT -> POSTED -> REVERSED; drafts may be deleted.
type EntrySvcFacade interface {
	// CreateEntry validates the double-entry invariant and persists a draft.
	CreateEntry(ctx context.Context, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error)

	// GetEntryByID retrieves an entry with its lines.
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// UpdateEntry replaces a draft entry's header and lines atomically.
	UpdateEntry(ctx context.Context, entryID string, req dto.UpdateEntryRequest, userID string) (*domain.JournalEntry, error)

	// PostEntry transitions a draft to POSTED and updates account balances in
	// one atomic unit of work.
	PostEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error)

	// ReverseEntry transitions a posted entry to REVERSED. Status change only:
	// no inverse posting is generated and balances are left as posted.
	ReverseEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error)

	// DeleteEntry removes a draft entry and its lines.
	DeleteEntry(ctx context.Context, entryID string) error

	// ListEntries retrieves a page of entries within a date range.
	ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)

	// ListLinesByAccount retrieves a cursor-paginated list of posted lines for one account.
	ListLinesByAccount(ctx context.Context, accountID string, params dto.ListEntryLinesParams) (*dto.ListEntryLinesResponse, error)
}
