package dto

import (
	"time"

	"github.com/openbooks/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InvoiceLineRequest is one line in a create invoice request.
type InvoiceLineRequest struct {
	Description string          `json:"description" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unitPrice" binding:"required"`
	Discount    decimal.Decimal `json:"discount"` // Percentage, 0..100
	VATRate     decimal.Decimal `json:"vatRate"`  // Percentage
}

// CreateInvoiceRequest defines the data needed to create a draft invoice.
// Totals are computed from the lines, never taken from the caller.
type CreateInvoiceRequest struct {
	Number      string               `json:"number" binding:"required"`
	PartnerID   string               `json:"partnerID" binding:"required"`
	JournalID   string               `json:"journalID" binding:"required"`
	InvoiceType domain.InvoiceType   `json:"invoiceType" binding:"required,oneof=SALES PURCHASE CREDIT_NOTE DEBIT_NOTE"`
	InvoiceDate time.Time            `json:"invoiceDate" binding:"required"`
	DueDate     *time.Time           `json:"dueDate"`
	Notes       string               `json:"notes"`
	Lines       []InvoiceLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// InvoiceLineResponse defines the data returned for an invoice line.
type InvoiceLineResponse struct {
	LineID      string          `json:"lineID"`
	Sequence    int             `json:"sequence"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Discount    decimal.Decimal `json:"discount"`
	VATRate     decimal.Decimal `json:"vatRate"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// InvoiceResponse defines the data returned for an invoice.
type InvoiceResponse struct {
	InvoiceID   string                `json:"invoiceID"`
	Number      string                `json:"number"`
	PartnerID   string                `json:"partnerID"`
	JournalID   string                `json:"journalID"`
	InvoiceType domain.InvoiceType    `json:"invoiceType"`
	Status      domain.InvoiceStatus  `json:"status"`
	InvoiceDate time.Time             `json:"invoiceDate"`
	DueDate     *time.Time            `json:"dueDate,omitempty"`
	Subtotal    decimal.Decimal       `json:"subtotal"`
	VATAmount   decimal.Decimal       `json:"vatAmount"`
	Total       decimal.Decimal       `json:"total"`
	Paid        decimal.Decimal       `json:"paid"`
	Remaining   decimal.Decimal       `json:"remaining"`
	EntryID     string                `json:"entryID,omitempty"`
	Notes       string                `json:"notes,omitempty"`
	Lines       []InvoiceLineResponse `json:"lines,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
	CreatedBy   string                `json:"createdBy"`
}

// ToInvoiceLineResponse converts a domain.InvoiceLine to its response DTO.
func ToInvoiceLineResponse(l *domain.InvoiceLine) InvoiceLineResponse {
	return InvoiceLineResponse{
		LineID:      l.LineID,
		Sequence:    l.Sequence,
		Description: l.Description,
		Quantity:    l.Quantity,
		UnitPrice:   l.UnitPrice,
		Discount:    l.Discount,
		VATRate:     l.VATRate,
		LineTotal:   l.LineTotal,
	}
}

// ToInvoiceResponse converts a domain.Invoice to its response DTO.
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	lines := make([]InvoiceLineResponse, len(inv.Lines))
	for i, l := range inv.Lines {
		lines[i] = ToInvoiceLineResponse(&l)
	}
	return InvoiceResponse{
		InvoiceID:   inv.InvoiceID,
		Number:      inv.Number,
		PartnerID:   inv.PartnerID,
		JournalID:   inv.JournalID,
		InvoiceType: inv.InvoiceType,
		Status:      inv.Status,
		InvoiceDate: inv.InvoiceDate,
		DueDate:     inv.DueDate,
		Subtotal:    inv.Subtotal,
		VATAmount:   inv.VATAmount,
		Total:       inv.Total,
		Paid:        inv.Paid,
		Remaining:   inv.Remaining,
		EntryID:     inv.EntryID,
		Notes:       inv.Notes,
		Lines:       lines,
		CreatedAt:   inv.CreatedAt,
		CreatedBy:   inv.CreatedBy,
	}
}

// ToInvoiceResponses converts a slice of domain invoices.
func ToInvoiceResponses(invoices []domain.Invoice) []InvoiceResponse {
	res := make([]InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		res[i] = ToInvoiceResponse(&inv)
	}
	return res
}

// ListInvoicesParams defines query parameters for listing invoices.
type ListInvoicesParams struct {
	PartnerID *string `form:"partnerID"`
	Status    *string `form:"status"`
	ListParams
}

// ListInvoicesResponse wraps a page of invoices with pagination metadata.
type ListInvoicesResponse struct {
	Invoices []InvoiceResponse `json:"invoices"`
	Meta     ListMeta          `json:"meta"`
}
