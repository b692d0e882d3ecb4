package services

import (
	"context"

	"github.com/openbooks/ledger_backend/internal/core/domain"
	"github.com/openbooks/ledger_backend/internal/dto"
)

// JournalSvcFacade defines the journal registry operations.
type JournalSvcFacade interface {
	// CreateJournal creates a new posting channel.
	CreateJournal(ctx context.Context, req dto.CreateJournalRequest, creatorUserID string) (*domain.Journal, error)

	// GetJournalByID retrieves a journal.
	GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// ListJournals retrieves a page of journals.
	ListJournals(ctx context.Context, params dto.ListParams) (*dto.ListJournalsResponse, error)

	// UpdateJournal updates a journal's mutable fields.
	UpdateJournal(ctx context.Context, journalID string, req dto.UpdateJournalRequest, userID string) (*domain.Journal, error)
}
