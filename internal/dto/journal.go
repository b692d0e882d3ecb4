package dto

import (
	"time"

	"github.com/openbooks/ledger_backend/internal/core/domain"
)

// CreateJournalRequest defines the data needed to create a posting channel.
type CreateJournalRequest struct {
	Code                   string             `json:"code" binding:"required"`
	Name                   string             `json:"name" binding:"required"`
	JournalType            domain.JournalType `json:"journalType" binding:"required,oneof=SALES PURCHASE BANK CASH MISCELLANEOUS"`
	DefaultDebitAccountID  *string            `json:"defaultDebitAccountID"`
	DefaultCreditAccountID *string            `json:"defaultCreditAccountID"`
}

// UpdateJournalRequest defines the data allowed for updating a journal.
type UpdateJournalRequest struct {
	Name                   *string `json:"name"`
	DefaultDebitAccountID  *string `json:"defaultDebitAccountID"`
	DefaultCreditAccountID *string `json:"defaultCreditAccountID"`
	IsActive               *bool   `json:"isActive"`
}

// JournalResponse defines the data returned for a journal.
type JournalResponse struct {
	JournalID              string             `json:"journalID"`
	Code                   string             `json:"code"`
	Name                   string             `json:"name"`
	JournalType            domain.JournalType `json:"journalType"`
	DefaultDebitAccountID  string             `json:"defaultDebitAccountID"`
	DefaultCreditAccountID string             `json:"defaultCreditAccountID"`
	IsActive               bool               `json:"isActive"`
	CreatedAt              time.Time          `json:"createdAt"`
	CreatedBy              string             `json:"createdBy"`
}

// ToJournalResponse converts a domain.Journal to its response DTO.
func ToJournalResponse(j *domain.Journal) JournalResponse {
	return JournalResponse{
		JournalID:              j.JournalID,
		Code:                   j.Code,
		Name:                   j.Name,
		JournalType:            j.JournalType,
		DefaultDebitAccountID:  j.DefaultDebitAccountID,
		DefaultCreditAccountID: j.DefaultCreditAccountID,
		IsActive:               j.IsActive,
		CreatedAt:              j.CreatedAt,
		CreatedBy:              j.CreatedBy,
	}
}

// ToJournalResponses converts a slice of domain journals.
func ToJournalResponses(journals []domain.Journal) []JournalResponse {
	res := make([]JournalResponse, len(journals))
	for i, j := range journals {
		res[i] = ToJournalResponse(&j)
	}
	return res
}

// ListJournalsResponse wraps a page of journals with pagination metadata.
type ListJournalsResponse struct {
	Journals []JournalResponse `json:"journals"`
	Meta     ListMeta          `json:"meta"`
}
