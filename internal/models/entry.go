package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is the journal_entries table row.
type JournalEntry struct {
	EntryID     string          `db:"entry_id"`
	JournalID   string          `db:"journal_id"`
	Reference   string          `db:"reference"`
	EntryDate   time.Time       `db:"entry_date"`
	Description string          `db:"description"`
	Status      string          `db:"status"`
	TotalAmount decimal.Decimal `db:"total_amount"`
	PostedAt    *time.Time      `db:"posted_at"`
	PostedBy    string          `db:"posted_by"` // Nullable
	ReversedAt  *time.Time      `db:"reversed_at"`
	ReversedBy  string          `db:"reversed_by"` // Nullable
	AuditFields
}

// EntryLine is the entry_lines table row.
type EntryLine struct {
	LineID      string          `db:"line_id"`
	EntryID     string          `db:"entry_id"`
	AccountID   string          `db:"account_id"`
	PartnerID   string          `db:"partner_id"` // Nullable
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	Description string          `db:"description"`
	AuditFields
}
