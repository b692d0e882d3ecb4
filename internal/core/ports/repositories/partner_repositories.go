package repositories

import (
	"context"

	"github.com/openbooks/ledger_backend/internal/core/domain"
)

// PartnerReader defines read operations for partner reference data.
type PartnerReader interface {
	// FindPartnerByID retrieves a specific partner by its unique identifier.
	FindPartnerByID(ctx context.Context, partnerID string) (*domain.Partner, error)

	// ListPartners retrieves a page of partners, optionally filtered by type,
	// plus the total count.
	ListPartners(ctx context.Context, partnerType *domain.PartnerType, limit, offset int) ([]domain.Partner, int64, error)
}

// PartnerWriter defines write operations for partner reference data.
type PartnerWriter interface {
	// SavePartner persists a new partner.
	SavePartner(ctx context.Context, partner domain.Partner) error

	// UpdatePartner updates an existing partner's details.
	UpdatePartner(ctx context.Context, partner domain.Partner) error
}

// PartnerRepositoryFacade combines all partner-related repository interfaces.
type PartnerRepositoryFacade interface {
	PartnerReader
	PartnerWriter
}
