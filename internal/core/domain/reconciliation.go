package domain

import "github.com/shopspring/decimal"

// ReconciliationStatus indicates whether a matched allocation is still open.
type ReconciliationStatus string

const (
	ReconciliationPending   ReconciliationStatus = "PENDING"
	ReconciliationCompleted ReconciliationStatus = "COMPLETED"
	ReconciliationCancelled ReconciliationStatus = "CANCELLED"
)

// Reconciliation records that a specific tranche of a payment was matched to
// an invoice. It is an append-only cross-reference, queryable independently
// of the mutable invoice totals.
type Reconciliation struct {
	ReconciliationID string               `json:"reconciliationID"` // Primary key (UUID)
	InvoiceID        string               `json:"invoiceID"`        // FK -> Invoice
	PaymentID        string               `json:"paymentID"`        // FK -> Payment
	TrancheID        string               `json:"trancheID"`        // FK -> PaymentTranche
	Amount           decimal.Decimal      `json:"amount"`
	Status           ReconciliationStatus `json:"status"`
	AuditFields
}
