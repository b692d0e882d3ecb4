package services

import (
	"context"

	"github.com/openbooks/ledger_backend/internal/core/domain"
	"github.com/openbooks/ledger_backend/internal/dto"
)

// PartnerSvcFacade defines the partner directory operations.
type PartnerSvcFacade interface {
	CreatePartner(ctx context.Context, req dto.CreatePartnerRequest, userID string) (*domain.Partner, error)
	GetPartnerByID(ctx context.Context, partnerID string) (*domain.Partner, error)
	ListPartners(ctx context.Context, params dto.ListPartnersParams) (*dto.ListPartnersResponse, error)
	UpdatePartner(ctx context.Context, partnerID string, req dto.UpdatePartnerRequest, userID string) (*domain.Partner, error)
	DeactivatePartner(ctx context.Context, partnerID string, userID string) error
}
