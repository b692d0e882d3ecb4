package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType indicates the direction of a payment.
type PaymentType string

const (
	IncomingPayment PaymentType = "INCOMING"
	OutgoingPayment PaymentType = "OUTGOING"
)

// IsValid reports whether t is one of the known payment types.
func (t PaymentType) IsValid() bool {
	return t == IncomingPayment || t == OutgoingPayment
}

// PaymentMethod is how a payment was made.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "CASH"
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	MethodCheck        PaymentMethod = "CHECK"
	MethodCreditCard   PaymentMethod = "CREDIT_CARD"
	MethodOther        PaymentMethod = "OTHER"
)

// IsValid reports whether m is one of the known payment methods.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodCash, MethodBankTransfer, MethodCheck, MethodCreditCard, MethodOther:
		return true
	}
	return false
}

// PaymentStatus indicates the lifecycle state of a payment.
type PaymentStatus string

const (
	PaymentDraft     PaymentStatus = "DRAFT"
	PaymentValidated PaymentStatus = "VALIDATED"
	PaymentPosted    PaymentStatus = "POSTED"
	PaymentCancelled PaymentStatus = "CANCELLED"
)

// Payment is money received from or paid to a partner. Its amount is spread
// across invoices via tranches; Allocated tracks the sum of posted tranches.
type Payment struct {
	PaymentID   string           `json:"paymentID"` // Primary key (UUID)
	Number      string           `json:"number"`    // Unique payment number
	PartnerID   string           `json:"partnerID"` // FK -> Partner
	JournalID   string           `json:"journalID"` // FK -> Journal
	PaymentType PaymentType      `json:"paymentType"`
	Status      PaymentStatus    `json:"status"`
	Method      PaymentMethod    `json:"method"`
	PaymentDate time.Time        `json:"paymentDate"`
	Amount      decimal.Decimal  `json:"amount"`
	Allocated   decimal.Decimal  `json:"allocated"` // Sum of posted tranche amounts, <= Amount
	Reference   string           `json:"reference"`
	Tranches    []PaymentTranche `json:"tranches,omitempty"`
	AuditFields
}

// Unallocated returns the portion of the payment not yet allocated to invoices.
func (p Payment) Unallocated() decimal.Decimal {
	return p.Amount.Sub(p.Allocated)
}

// TrancheStatus indicates the lifecycle state of a payment tranche.
type TrancheStatus string

const (
	TranchePosted    TrancheStatus = "POSTED"
	TrancheCancelled TrancheStatus = "CANCELLED"
)

// PaymentTranche allocates part of one payment's amount to one invoice.
type PaymentTranche struct {
	TrancheID   string          `json:"trancheID"` // Primary key (UUID)
	PaymentID   string          `json:"paymentID"` // FK -> Payment
	InvoiceID   string          `json:"invoiceID"` // FK -> Invoice
	Amount      decimal.Decimal `json:"amount"`
	Status      TrancheStatus   `json:"status"`
	PaymentDate time.Time       `json:"paymentDate"`
	AuditFields
}
