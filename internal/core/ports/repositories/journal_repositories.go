package repositories

import (
	"context"

	"github.com/openbooks/ledger_backend/internal/core/domain"
)

// JournalReader defines read operations for journal registry data.
type JournalReader interface {
	// FindJournalByID retrieves a specific journal by its unique identifier.
	FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// FindJournalByCode retrieves a journal by its unique code.
	FindJournalByCode(ctx context.Context, code string) (*domain.Journal, error)

	// ListJournals retrieves a page of journals and the total count.
	ListJournals(ctx context.Context, limit, offset int) ([]domain.Journal, int64, error)
}

// JournalWriter defines write operations for journal registry data.
type JournalWriter interface {
	// SaveJournal persists a new journal.
	SaveJournal(ctx context.Context, journal domain.Journal) error

	// UpdateJournal updates an existing journal's details.
	UpdateJournal(ctx context.Context, journal domain.Journal) error
}

// JournalRepositoryFacade combines all journal registry repository interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
