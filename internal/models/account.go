package models

import (
	"github.com/shopspring/decimal"
)

// Account is the accounts table row.
// ParentAccountID uses string for the nullable self-reference; the repository
// maps empty string to NULL.
type Account struct {
	AccountID       string          `db:"account_id"`
	Code            string          `db:"code"`
	Name            string          `db:"name"`
	AccountType     string          `db:"account_type"`
	ParentAccountID string          `db:"parent_account_id"` // Nullable
	Level           int             `db:"level"`
	Description     string          `db:"description"`
	IsActive        bool            `db:"is_active"`
	Balance         decimal.Decimal `db:"balance"` // Cached balance maintained at posting time
	AuditFields
}

// Journal is the journals table row.
type Journal struct {
	JournalID              string `db:"journal_id"`
	Code                   string `db:"code"`
	Name                   string `db:"name"`
	JournalType            string `db:"journal_type"`
	DefaultDebitAccountID  string `db:"default_debit_account_id"`  // Nullable
	DefaultCreditAccountID string `db:"default_credit_account_id"` // Nullable
	IsActive               bool   `db:"is_active"`
	AuditFields
}
