package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset      AccountType = "ASSET"
	Liability  AccountType = "LIABILITY"
	Equity     AccountType = "EQUITY"
	Revenue    AccountType = "REVENUE"
	Expense    AccountType = "EXPENSE"
	VAT        AccountType = "VAT"
	Bank       AccountType = "BANK"
	Cash       AccountType = "CASH"
	Receivable AccountType = "RECEIVABLE"
	Payable    AccountType = "PAYABLE"
)

// IsDebitNormal reports whether balances of this account type grow on the debit side.
// Bank, cash and receivable accounts behave like assets; VAT and payable like liabilities.
func (t AccountType) IsDebitNormal() bool {
	switch t {
	case Asset, Expense, Bank, Cash, Receivable:
		return true
	default:
		return false
	}
}

// IsValid reports whether t is one of the known account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense, VAT, Bank, Cash, Receivable, Payable:
		return true
	}
	return false
}

// Account represents a node in the chart of accounts.
// The hierarchy is flat: each account carries its parent's ID and a derived level,
// never an in-memory pointer to the parent.
type Account struct {
	AccountID       string          `json:"accountID"`       // Primary key (UUID)
	Code            string          `json:"code"`            // Unique account code, e.g. "411000"
	Name            string          `json:"name"`            // User-defined name
	AccountType     AccountType     `json:"accountType"`     // ASSET, LIABILITY, etc.
	ParentAccountID string          `json:"parentAccountID"` // Nullable self-reference
	Level           int             `json:"level"`           // Root = 1, child = parent.Level+1
	Description     string          `json:"description"`
	IsActive        bool            `json:"isActive"`
	Balance         decimal.Decimal `json:"balance"` // Cached balance, updated at posting time only; reversals do not subtract
	AuditFields
}
