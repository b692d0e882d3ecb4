package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the lifecycle state of a journal entry.
// Transitions: DRAFT -> POSTED -> REVERSED. Draft entries may be deleted;
// posted entries are immutable.
type EntryStatus string

const (
	EntryDraft    EntryStatus = "DRAFT"
	EntryPosted   EntryStatus = "POSTED"
	EntryReversed EntryStatus = "REVERSED"
)

// JournalEntry represents a single, balanced financial event composed of
// multiple lines. Only posted entries contribute to account balances.
type JournalEntry struct {
	EntryID     string          `json:"entryID"`   // Primary key (UUID)
	JournalID   string          `json:"journalID"` // FK -> Journal
	Reference   string          `json:"reference"`
	EntryDate   time.Time       `json:"entryDate"` // Date the event occurred
	Description string          `json:"description"`
	Status      EntryStatus     `json:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount"` // Sum of the debit side
	PostedAt    *time.Time      `json:"postedAt"`    // Set when Status = POSTED
	PostedBy    string          `json:"postedBy"`    // UserID that posted the entry
	ReversedAt  *time.Time      `json:"reversedAt"`  // Set when Status = REVERSED
	ReversedBy  string          `json:"reversedBy"`  // UserID that reversed the entry
	Lines       []EntryLine     `json:"lines,omitempty"`
	AuditFields
}

// EntryLine is a single posting line within a journal entry, affecting one
// account. Exactly one of Debit and Credit is non-zero.
type EntryLine struct {
	LineID      string          `json:"lineID"`  // Primary key (UUID)
	EntryID     string          `json:"entryID"` // FK -> JournalEntry
	AccountID   string          `json:"accountID"`
	PartnerID   string          `json:"partnerID"` // Nullable FK -> Partner
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
	AuditFields
}

// IsDebit reports whether the line carries its amount on the debit side.
func (l EntryLine) IsDebit() bool {
	return l.Debit.IsPositive()
}

// Amount returns the non-zero side of the line.
func (l EntryLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.Debit
	}
	return l.Credit
}
