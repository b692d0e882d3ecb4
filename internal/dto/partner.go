package dto

import (
	"time"

	"github.com/openbooks/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePartnerRequest defines the data needed to create a partner.
type CreatePartnerRequest struct {
	Name        string             `json:"name" binding:"required"`
	PartnerType domain.PartnerType `json:"partnerType" binding:"required,oneof=CLIENT SUPPLIER"`
	Email       string             `json:"email" binding:"omitempty,email"`
	Phone       string             `json:"phone"`
	CreditLimit decimal.Decimal    `json:"creditLimit"`
}

// UpdatePartnerRequest defines the data allowed for updating a partner.
type UpdatePartnerRequest struct {
	Name        *string          `json:"name"`
	Email       *string          `json:"email"`
	Phone       *string          `json:"phone"`
	CreditLimit *decimal.Decimal `json:"creditLimit"`
	IsActive    *bool            `json:"isActive"`
}

// PartnerResponse defines the data returned for a partner.
type PartnerResponse struct {
	PartnerID   string             `json:"partnerID"`
	Name        string             `json:"name"`
	PartnerType domain.PartnerType `json:"partnerType"`
	Email       string             `json:"email,omitempty"`
	Phone       string             `json:"phone,omitempty"`
	CreditLimit decimal.Decimal    `json:"creditLimit"`
	TotalDebit  decimal.Decimal    `json:"totalDebit"`
	TotalCredit decimal.Decimal    `json:"totalCredit"`
	Balance     decimal.Decimal    `json:"balance"`
	IsActive    bool               `json:"isActive"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// ToPartnerResponse converts a domain.Partner to its response DTO.
func ToPartnerResponse(p *domain.Partner) PartnerResponse {
	return PartnerResponse{
		PartnerID:   p.PartnerID,
		Name:        p.Name,
		PartnerType: p.PartnerType,
		Email:       p.Email,
		Phone:       p.Phone,
		CreditLimit: p.CreditLimit,
		TotalDebit:  p.TotalDebit,
		TotalCredit: p.TotalCredit,
		Balance:     p.Balance,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
	}
}

// ToPartnerResponses converts a slice of domain partners.
func ToPartnerResponses(partners []domain.Partner) []PartnerResponse {
	res := make([]PartnerResponse, len(partners))
	for i, p := range partners {
		res[i] = ToPartnerResponse(&p)
	}
	return res
}

// ListPartnersParams defines query parameters for listing partners.
type ListPartnersParams struct {
	PartnerType *string `form:"partnerType"`
	ListParams
}

// ListPartnersResponse wraps a page of partners with pagination metadata.
type ListPartnersResponse struct {
	Partners []PartnerResponse `json:"partners"`
	Meta     ListMeta          `json:"meta"`
}
