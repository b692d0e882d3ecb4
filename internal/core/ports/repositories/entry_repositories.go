package repositories

import (
	"context"
	"time"

	"github.com/openbooks/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryReader defines read operations for journal entry data.
type EntryReader interface {
	// FindEntryByID retrieves a specific entry header by its unique identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves all lines of a single entry.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.EntryLine, error)

	// FindLinesByEntryIDs retrieves lines for multiple entries, grouped by entry ID.
	FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.EntryLine, error)

	// ListEntriesByDateRange retrieves a page of entry headers with entry_date in
	// [from, to], optionally filtered by status, plus the total count.
	ListEntriesByDateRange(ctx context.Context, from, to time.Time, status *domain.EntryStatus, limit, offset int) ([]domain.JournalEntry, int64, error)

	// ListLinesByAccountID retrieves a cursor-paginated list of posted lines for
	// one account, newest first. Returns the lines and the next-page token.
	ListLinesByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.EntryLine, *string, error)
}

// EntryWriter defines write operations for journal entry data.
type EntryWriter interface {
	// SaveEntry persists a new draft entry with its lines in one transaction.
	// Draft entries have no effect on account balances.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.EntryLine) error

	// ReplaceEntryLines updates a draft entry's header and replaces all of its
	// lines atomically.
	ReplaceEntryLines(ctx context.Context, entry domain.JournalEntry, lines []domain.EntryLine) error

	// PostEntry transitions a draft entry to POSTED and applies the given signed
	// balance deltas to the touched accounts, all in one transaction. The status
	// check is re-done under the row lock so two concurrent posts cannot both
	// succeed.
	PostEntry(ctx context.Context, entryID string, userID string, postedAt time.Time, balanceChanges map[string]decimal.Decimal) error

	// MarkEntryReversed flips a posted entry's status to REVERSED and stamps the
	// reversing user. It deliberately does not touch balances; see the service.
	MarkEntryReversed(ctx context.Context, entryID string, userID string, reversedAt time.Time) error

	// DeleteEntry removes a draft entry and all of its lines in one transaction.
	DeleteEntry(ctx context.Context, entryID string) error
}

// EntryRepositoryFacade combines all entry-related repository interfaces.
type EntryRepositoryFacade interface {
	EntryReader
	EntryWriter
}
