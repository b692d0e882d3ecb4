package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is the payments table row.
type Payment struct {
	PaymentID   string          `db:"payment_id"`
	Number      string          `db:"number"`
	PartnerID   string          `db:"partner_id"`
	JournalID   string          `db:"journal_id"`
	PaymentType string          `db:"payment_type"`
	Status      string          `db:"status"`
	Method      string          `db:"method"`
	PaymentDate time.Time       `db:"payment_date"`
	Amount      decimal.Decimal `db:"amount"`
	Allocated   decimal.Decimal `db:"allocated"`
	Reference   string          `db:"reference"`
	AuditFields
}

// PaymentTranche is the payment_tranches table row.
type PaymentTranche struct {
	TrancheID   string          `db:"tranche_id"`
	PaymentID   string          `db:"payment_id"`
	InvoiceID   string          `db:"invoice_id"`
	Amount      decimal.Decimal `db:"amount"`
	Status      string          `db:"status"`
	PaymentDate time.Time       `db:"payment_date"`
	AuditFields
}

// Reconciliation is the reconciliations table row.
type Reconciliation struct {
	ReconciliationID string          `db:"reconciliation_id"`
	InvoiceID        string          `db:"invoice_id"`
	PaymentID        string          `db:"payment_id"`
	TrancheID        string          `db:"tranche_id"`
	Amount           decimal.Decimal `db:"amount"`
	Status           string          `db:"status"`
	AuditFields
}

// Partner is the partners table row.
type Partner struct {
	PartnerID   string          `db:"partner_id"`
	Name        string          `db:"name"`
	PartnerType string          `db:"partner_type"`
	Email       string          `db:"email"`
	Phone       string          `db:"phone"`
	CreditLimit decimal.Decimal `db:"credit_limit"`
	TotalDebit  decimal.Decimal `db:"total_debit"`
	TotalCredit decimal.Decimal `db:"total_credit"`
	Balance     decimal.Decimal `db:"balance"`
	IsActive    bool            `db:"is_active"`
	AuditFields
}
