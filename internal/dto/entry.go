package dto

import (
	"time"

	"github.com/openbooks/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryLineRequest is one posting line in a create/update entry request.
// Exactly one of Debit and Credit must be positive.
type EntryLineRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	PartnerID   *string         `json:"partnerID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// CreateEntryRequest defines the data needed to create a draft journal entry.
type CreateEntryRequest struct {
	JournalID   string             `json:"journalID" binding:"required"`
	Reference   string             `json:"reference" binding:"required"`
	EntryDate   time.Time          `json:"entryDate" binding:"required"`
	Description string             `json:"description"`
	Lines       []EntryLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// UpdateEntryRequest replaces a draft entry's header fields and all its lines.
type UpdateEntryRequest struct {
	Reference   string             `json:"reference" binding:"required"`
	EntryDate   time.Time          `json:"entryDate" binding:"required"`
	Description string             `json:"description"`
	Lines       []EntryLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// EntryLineResponse defines the data returned for an entry line.
type EntryLineResponse struct {
	LineID      string          `json:"lineID"`
	EntryID     string          `json:"entryID"`
	AccountID   string          `json:"accountID"`
	PartnerID   string          `json:"partnerID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID     string              `json:"entryID"`
	JournalID   string              `json:"journalID"`
	Reference   string              `json:"reference"`
	EntryDate   time.Time           `json:"entryDate"`
	Description string              `json:"description"`
	Status      domain.EntryStatus  `json:"status"`
	TotalAmount decimal.Decimal     `json:"totalAmount"`
	PostedAt    *time.Time          `json:"postedAt,omitempty"`
	PostedBy    string              `json:"postedBy,omitempty"`
	ReversedAt  *time.Time          `json:"reversedAt,omitempty"`
	ReversedBy  string              `json:"reversedBy,omitempty"`
	Lines       []EntryLineResponse `json:"lines,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	CreatedBy   string              `json:"createdBy"`
}

// ToEntryLineResponse converts a domain.EntryLine to its response DTO.
func ToEntryLineResponse(l *domain.EntryLine) EntryLineResponse {
	return EntryLineResponse{
		LineID:      l.LineID,
		EntryID:     l.EntryID,
		AccountID:   l.AccountID,
		PartnerID:   l.PartnerID,
		Debit:       l.Debit,
		Credit:      l.Credit,
		Description: l.Description,
	}
}

// ToEntryLineResponses converts a slice of domain entry lines.
func ToEntryLineResponses(lines []domain.EntryLine) []EntryLineResponse {
	res := make([]EntryLineResponse, len(lines))
	for i, l := range lines {
		res[i] = ToEntryLineResponse(&l)
	}
	return res
}

// ToEntryResponse converts a domain.JournalEntry to its response DTO.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	return EntryResponse{
		EntryID:     e.EntryID,
		JournalID:   e.JournalID,
		Reference:   e.Reference,
		EntryDate:   e.EntryDate,
		Description: e.Description,
		Status:      e.Status,
		TotalAmount: e.TotalAmount,
		PostedAt:    e.PostedAt,
		PostedBy:    e.PostedBy,
		ReversedAt:  e.ReversedAt,
		ReversedBy:  e.ReversedBy,
		Lines:       ToEntryLineResponses(e.Lines),
		CreatedAt:   e.CreatedAt,
		CreatedBy:   e.CreatedBy,
	}
}

// ListEntriesParams defines query parameters for listing entries by date range.
type ListEntriesParams struct {
	From   time.Time `form:"from" binding:"required" time_format:"2006-01-02"`
	To     time.Time `form:"to" binding:"required" time_format:"2006-01-02"`
	Status *string   `form:"status"`
	ListParams
}

// ListEntriesResponse wraps a page of entries with pagination metadata.
type ListEntriesResponse struct {
	Entries []EntryResponse `json:"entries"`
	Meta    ListMeta        `json:"meta"`
}

// ListEntryLinesParams defines cursor pagination parameters for per-account line listing.
type ListEntryLinesParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListEntryLinesResponse wraps posted lines of one account with the next-page cursor.
type ListEntryLinesResponse struct {
	Lines     []EntryLineResponse `json:"lines"`
	NextToken *string             `json:"nextToken,omitempty"`
}
