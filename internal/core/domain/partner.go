package domain

import "github.com/shopspring/decimal"

// PartnerType distinguishes the two counterparty kinds.
type PartnerType string

const (
	Client   PartnerType = "CLIENT"
	Supplier PartnerType = "SUPPLIER"
)

// Partner is a client or supplier counterparty. Ownership belongs to the
// CRM/SRM modules; the ledger carries it as reference data for invoices,
// payments and entry lines.
type Partner struct {
	PartnerID   string          `json:"partnerID"` // Primary key (UUID)
	Name        string          `json:"name"`
	PartnerType PartnerType     `json:"partnerType"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	CreditLimit decimal.Decimal `json:"creditLimit"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	Balance     decimal.Decimal `json:"balance"`
	IsActive    bool            `json:"isActive"`
	AuditFields
}
