package dto

import (
	"time"

	"github.com/openbooks/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest defines the data needed to record a draft payment.
type CreatePaymentRequest struct {
	Number      string               `json:"number" binding:"required"`
	PartnerID   string               `json:"partnerID" binding:"required"`
	JournalID   string               `json:"journalID" binding:"required"`
	PaymentType domain.PaymentType   `json:"paymentType" binding:"required,oneof=INCOMING OUTGOING"`
	Method      domain.PaymentMethod `json:"method" binding:"required,oneof=CASH BANK_TRANSFER CHECK CREDIT_CARD OTHER"`
	PaymentDate time.Time            `json:"paymentDate" binding:"required"`
	Amount      decimal.Decimal      `json:"amount" binding:"required"`
	Reference   string               `json:"reference"`
}

// PostTrancheRequest allocates part of a payment to one invoice.
type PostTrancheRequest struct {
	InvoiceID string          `json:"invoiceID" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
}

// TrancheResponse defines the data returned for a payment tranche.
type TrancheResponse struct {
	TrancheID   string               `json:"trancheID"`
	PaymentID   string               `json:"paymentID"`
	InvoiceID   string               `json:"invoiceID"`
	Amount      decimal.Decimal      `json:"amount"`
	Status      domain.TrancheStatus `json:"status"`
	PaymentDate time.Time            `json:"paymentDate"`
}

// PaymentResponse defines the data returned for a payment.
type PaymentResponse struct {
	PaymentID   string               `json:"paymentID"`
	Number      string               `json:"number"`
	PartnerID   string               `json:"partnerID"`
	JournalID   string               `json:"journalID"`
	PaymentType domain.PaymentType   `json:"paymentType"`
	Status      domain.PaymentStatus `json:"status"`
	Method      domain.PaymentMethod `json:"method"`
	PaymentDate time.Time            `json:"paymentDate"`
	Amount      decimal.Decimal      `json:"amount"`
	Allocated   decimal.Decimal      `json:"allocated"`
	Unallocated decimal.Decimal      `json:"unallocated"`
	Reference   string               `json:"reference,omitempty"`
	Tranches    []TrancheResponse    `json:"tranches,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
	CreatedBy   string               `json:"createdBy"`
}

// ToTrancheResponse converts a domain.PaymentTranche to its response DTO.
func ToTrancheResponse(t *domain.PaymentTranche) TrancheResponse {
	return TrancheResponse{
		TrancheID:   t.TrancheID,
		PaymentID:   t.PaymentID,
		InvoiceID:   t.InvoiceID,
		Amount:      t.Amount,
		Status:      t.Status,
		PaymentDate: t.PaymentDate,
	}
}

// ToTrancheResponses converts a slice of domain tranches.
func ToTrancheResponses(tranches []domain.PaymentTranche) []TrancheResponse {
	res := make([]TrancheResponse, len(tranches))
	for i, t := range tranches {
		res[i] = ToTrancheResponse(&t)
	}
	return res
}

// ToPaymentResponse converts a domain.Payment to its response DTO.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:   p.PaymentID,
		Number:      p.Number,
		PartnerID:   p.PartnerID,
		JournalID:   p.JournalID,
		PaymentType: p.PaymentType,
		Status:      p.Status,
		Method:      p.Method,
		PaymentDate: p.PaymentDate,
		Amount:      p.Amount,
		Allocated:   p.Allocated,
		Unallocated: p.Unallocated(),
		Reference:   p.Reference,
		Tranches:    ToTrancheResponses(p.Tranches),
		CreatedAt:   p.CreatedAt,
		CreatedBy:   p.CreatedBy,
	}
}

// ToPaymentResponses converts a slice of domain payments.
func ToPaymentResponses(payments []domain.Payment) []PaymentResponse {
	res := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		res[i] = ToPaymentResponse(&p)
	}
	return res
}

// ListPaymentsParams defines query parameters for listing payments.
type ListPaymentsParams struct {
	PartnerID *string `form:"partnerID"`
	Status    *string `form:"status"`
	ListParams
}

// ListPaymentsResponse wraps a page of payments with pagination metadata.
type ListPaymentsResponse struct {
	Payments []PaymentResponse `json:"payments"`
	Meta     ListMeta          `json:"meta"`
}

// ReconciliationResponse defines the data returned for a reconciliation record.
type ReconciliationResponse struct {
	ReconciliationID string                      `json:"reconciliationID"`
	InvoiceID        string                      `json:"invoiceID"`
	PaymentID        string                      `json:"paymentID"`
	TrancheID        string                      `json:"trancheID"`
	Amount           decimal.Decimal             `json:"amount"`
	Status           domain.ReconciliationStatus `json:"status"`
	CreatedAt        time.Time                   `json:"createdAt"`
}

// ToReconciliationResponses converts a slice of domain reconciliations.
func ToReconciliationResponses(recs []domain.Reconciliation) []ReconciliationResponse {
	res := make([]ReconciliationResponse, len(recs))
	for i, r := range recs {
		res[i] = ReconciliationResponse{
			ReconciliationID: r.ReconciliationID,
			InvoiceID:        r.InvoiceID,
			PaymentID:        r.PaymentID,
			TrancheID:        r.TrancheID,
			Amount:           r.Amount,
			Status:           r.Status,
			CreatedAt:        r.CreatedAt,
		}
	}
	return res
}
