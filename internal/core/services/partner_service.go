package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks/ledger_backend/internal/apperrors"
	"github.com/openbooks/ledger_backend/internal/core/domain"
	portsrepo "github.com/openbooks/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/openbooks/ledger_backend/internal/core/ports/services"
	"github.com/openbooks/ledger_backend/internal/dto"
	"github.com/openbooks/ledger_backend/internal/middleware"
)

// partnerService implements the partner directory operations.
type partnerService struct {
	partnerRepo portsrepo.PartnerRepositoryFacade
}

// NewPartnerService creates a new partner service.
func NewPartnerService(partnerRepo portsrepo.PartnerRepositoryFacade) portssvc.PartnerSvcFacade {
	return &partnerService{
		partnerRepo: partnerRepo,
	}
}

// Ensure partnerService implements the portssvc.PartnerSvcFacade interface
var _ portssvc.PartnerSvcFacade = (*partnerService)(nil)

// CreatePartner creates a new partner.
func (s *partnerService) CreatePartner(ctx context.Context, req dto.CreatePartnerRequest, userID string) (*domain.Partner, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.PartnerType != domain.Client && req.PartnerType != domain.Supplier {
		return nil, fmt.Errorf("%w: unknown partner type %q", apperrors.ErrValidation, req.PartnerType)
	}
	if req.CreditLimit.IsNegative() {
		return nil, fmt.Errorf("%w: credit limit must not be negative", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	partner := domain.Partner{
		PartnerID:   uuid.NewString(),
		Name:        req.Name,
		PartnerType: req.PartnerType,
		Email:       req.Email,
		Phone:       req.Phone,
		CreditLimit: req.CreditLimit,
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
		Balance:     decimal.Zero,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.partnerRepo.SavePartner(ctx, partner); err != nil {
		logger.Error("Failed to save partner", slog.String("error", err.Error()), slog.String("name", req.Name))
		return nil, fmt.Errorf("failed to save partner: %w", err)
	}

	logger.Info("Partner created successfully", slog.String("partner_id", partner.PartnerID))
	return &partner, nil
}

// GetPartnerByID retrieves a specific partner.
func (s *partnerService) GetPartnerByID(ctx context.Context, partnerID string) (*domain.Partner, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	partner, err := s.partnerRepo.FindPartnerByID(ctx, partnerID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find partner by ID", slog.String("error", err.Error()), slog.String("partner_id", partnerID))
		}
		return nil, fmt.Errorf("failed to find partner by ID %s: %w", partnerID, err)
	}
	return partner, nil
}

// ListPartners retrieves a page of partners.
func (s *partnerService) ListPartners(ctx context.Context, params dto.ListPartnersParams) (*dto.ListPartnersResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	params.Normalize()

	var partnerType *domain.PartnerType
	if params.PartnerType != nil && *params.PartnerType != "" {
		pt := domain.PartnerType(*params.PartnerType)
		if pt != domain.Client && pt != domain.Supplier {
			return nil, fmt.Errorf("%w: unknown partner type %q", apperrors.ErrValidation, *params.PartnerType)
		}
		partnerType = &pt
	}

	partners, total, err := s.partnerRepo.ListPartners(ctx, partnerType, params.PageSize, params.Offset())
	if err != nil {
		logger.Error("Failed to list partners", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve partners: %w", err)
	}

	resp := &dto.ListPartnersResponse{
		Partners: dto.ToPartnerResponses(partners),
		Meta:     dto.NewListMeta(params.ListParams, total),
	}

	logger.Debug("Partners listed successfully", slog.Int("count", len(partners)))
	return resp, nil
}

// UpdatePartner updates a partner's mutable fields.
func (s *partnerService) UpdatePartner(ctx context.Context, partnerID string, req dto.UpdatePartnerRequest, userID string) (*domain.Partner, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	partner, err := s.partnerRepo.FindPartnerByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		partner.Name = *req.Name
		updated = true
	}
	if req.Email != nil {
		partner.Email = *req.Email
		updated = true
	}
	if req.Phone != nil {
		partner.Phone = *req.Phone
		updated = true
	}
	if req.CreditLimit != nil {
		if req.CreditLimit.IsNegative() {
			return nil, fmt.Errorf("%w: credit limit must not be negative", apperrors.ErrValidation)
		}
		partner.CreditLimit = *req.CreditLimit
		updated = true
	}
	if req.IsActive != nil {
		partner.IsActive = *req.IsActive
		updated = true
	}

	if !updated {
		logger.Debug("No fields provided for partner update", slog.String("partner_id", partnerID))
		return partner, nil
	}

	now := time.Now().UTC()
	partner.LastUpdatedAt = now
	partner.LastUpdatedBy = userID

	if err := s.partnerRepo.UpdatePartner(ctx, *partner); err != nil {
		logger.Error("Failed to save partner update", slog.String("error", err.Error()), slog.String("partner_id", partnerID))
		return nil, fmt.Errorf("failed to save partner update: %w", err)
	}

	logger.Info("Partner updated successfully", slog.String("partner_id", partnerID))
	return partner, nil
}

// DeactivatePartner marks a partner inactive. Existing documents keep their
// references; new invoices and payments reject inactive partners.
func (s *partnerService) DeactivatePartner(ctx context.Context, partnerID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	partner, err := s.partnerRepo.FindPartnerByID(ctx, partnerID)
	if err != nil {
		return err
	}
	if !partner.IsActive {
		return fmt.Errorf("%w: partner is already inactive", apperrors.ErrConflict)
	}

	now := time.Now().UTC()
	partner.IsActive = false
	partner.LastUpdatedAt = now
	partner.LastUpdatedBy = userID

	if err := s.partnerRepo.UpdatePartner(ctx, *partner); err != nil {
		logger.Error("Failed to deactivate partner", slog.String("error", err.Error()), slog.String("partner_id", partnerID))
		return fmt.Errorf("failed to deactivate partner: %w", err)
	}

	logger.Info("Partner deactivated successfully", slog.String("partner_id", partnerID))
	return nil
}
