package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/openbooks/ledger_backend/internal/apperrors"
	"github.com/openbooks/ledger_backend/internal/core/domain"
	portssvc "github.com/openbooks/ledger_backend/internal/core/ports/services"
	"github.com/openbooks/ledger_backend/internal/core/services"
	"github.com/openbooks/ledger_backend/internal/dto"
)

type PartnerServiceTestSuite struct {
	suite.Suite
	mockPartnerRepo *MockPartnerRepository
	service         portssvc.PartnerSvcFacade

	ctx    context.Context
	userID string
}

func (suite *PartnerServiceTestSuite) SetupTest() {
	suite.mockPartnerRepo = new(MockPartnerRepository)
	suite.service = services.NewPartnerService(suite.mockPartnerRepo)

	suite.ctx = context.Background()
	suite.userID = uuid.NewString()
}

func (suite *PartnerServiceTestSuite) activePartner() *domain.Partner {
	return &domain.Partner{
		PartnerID:   uuid.NewString(),
		Name:        "Acme SARL",
		PartnerType: domain.Client,
		Email:       "billing@acme.example",
		CreditLimit: decimal.NewFromInt(10000),
		IsActive:    true,
	}
}

func (suite *PartnerServiceTestSuite) TestCreatePartner_Success() {
	req := dto.CreatePartnerRequest{
		Name:        "Acme SARL",
		PartnerType: domain.Client,
		Email:       "billing@acme.example",
		CreditLimit: decimal.NewFromInt(10000),
	}

	suite.mockPartnerRepo.On("SavePartner", suite.ctx, mock.MatchedBy(func(p domain.Partner) bool {
		return p.Name == req.Name && p.IsActive && p.Balance.IsZero() && p.TotalDebit.IsZero()
	})).Return(nil).Once()

	partner, err := suite.service.CreatePartner(suite.ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(partner.IsActive)
	suite.Equal(domain.Client, partner.PartnerType)
	suite.mockPartnerRepo.AssertExpectations(suite.T())
}

func (suite *PartnerServiceTestSuite) TestCreatePartner_UnknownType() {
	req := dto.CreatePartnerRequest{Name: "Ghost", PartnerType: domain.PartnerType("RESELLER")}

	partner, err := suite.service.CreatePartner(suite.ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(partner)
	suite.mockPartnerRepo.AssertNotCalled(suite.T(), "SavePartner")
}

func (suite *PartnerServiceTestSuite) TestCreatePartner_NegativeCreditLimit() {
	req := dto.CreatePartnerRequest{
		Name:        "Acme SARL",
		PartnerType: domain.Supplier,
		CreditLimit: decimal.NewFromInt(-1),
	}

	partner, err := suite.service.CreatePartner(suite.ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(partner)
}

func (suite *PartnerServiceTestSuite) TestUpdatePartner_PartialFields() {
	partner := suite.activePartner()
	newName := "Acme Holdings SARL"
	newLimit := decimal.NewFromInt(25000)
	req := dto.UpdatePartnerRequest{Name: &newName, CreditLimit: &newLimit}

	suite.mockPartnerRepo.On("FindPartnerByID", suite.ctx, partner.PartnerID).Return(partner, nil).Once()
	suite.mockPartnerRepo.On("UpdatePartner", suite.ctx, mock.MatchedBy(func(p domain.Partner) bool {
		return p.Name == newName && p.CreditLimit.Equal(newLimit) && p.Email == "billing@acme.example"
	})).Return(nil).Once()

	updated, err := suite.service.UpdatePartner(suite.ctx, partner.PartnerID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(newName, updated.Name)
	suite.mockPartnerRepo.AssertExpectations(suite.T())
}

func (suite *PartnerServiceTestSuite) TestUpdatePartner_NegativeCreditLimit() {
	partner := suite.activePartner()
	badLimit := decimal.NewFromInt(-500)
	req := dto.UpdatePartnerRequest{CreditLimit: &badLimit}

	suite.mockPartnerRepo.On("FindPartnerByID", suite.ctx, partner.PartnerID).Return(partner, nil).Once()

	updated, err := suite.service.UpdatePartner(suite.ctx, partner.PartnerID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(updated)
	suite.mockPartnerRepo.AssertNotCalled(suite.T(), "UpdatePartner")
}

func (suite *PartnerServiceTestSuite) TestUpdatePartner_NoFieldsIsNoOp() {
	partner := suite.activePartner()

	suite.mockPartnerRepo.On("FindPartnerByID", suite.ctx, partner.PartnerID).Return(partner, nil).Once()

	updated, err := suite.service.UpdatePartner(suite.ctx, partner.PartnerID, dto.UpdatePartnerRequest{}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(partner.PartnerID, updated.PartnerID)
	suite.mockPartnerRepo.AssertNotCalled(suite.T(), "UpdatePartner")
}

func (suite *PartnerServiceTestSuite) TestDeactivatePartner_Success() {
	partner := suite.activePartner()

	suite.mockPartnerRepo.On("FindPartnerByID", suite.ctx, partner.PartnerID).Return(partner, nil).Once()
	suite.mockPartnerRepo.On("UpdatePartner", suite.ctx, mock.MatchedBy(func(p domain.Partner) bool {
		return p.PartnerID == partner.PartnerID && !p.IsActive
	})).Return(nil).Once()

	err := suite.service.DeactivatePartner(suite.ctx, partner.PartnerID, suite.userID)

	suite.Require().NoError(err)
	suite.mockPartnerRepo.AssertExpectations(suite.T())
}

func (suite *PartnerServiceTestSuite) TestDeactivatePartner_AlreadyInactive() {
	partner := suite.activePartner()
	partner.IsActive = false

	suite.mockPartnerRepo.On("FindPartnerByID", suite.ctx, partner.PartnerID).Return(partner, nil).Once()

	err := suite.service.DeactivatePartner(suite.ctx, partner.PartnerID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockPartnerRepo.AssertNotCalled(suite.T(), "UpdatePartner")
}

func (suite *PartnerServiceTestSuite) TestListPartners_InvalidType() {
	badType := "RESELLER"
	params := dto.ListPartnersParams{PartnerType: &badType}

	resp, err := suite.service.ListPartners(suite.ctx, params)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(resp)
	suite.mockPartnerRepo.AssertNotCalled(suite.T(), "ListPartners")
}

func (suite *PartnerServiceTestSuite) TestListPartners_FilterByType() {
	suppliers := []domain.Partner{
		{PartnerID: uuid.NewString(), Name: "Supplies Inc", PartnerType: domain.Supplier, IsActive: true},
	}
	typeFilter := string(domain.Supplier)
	params := dto.ListPartnersParams{PartnerType: &typeFilter}

	suite.mockPartnerRepo.On("ListPartners", suite.ctx, mock.MatchedBy(func(pt *domain.PartnerType) bool {
		return pt != nil && *pt == domain.Supplier
	}), mock.AnythingOfType("int"), 0).Return(suppliers, int64(1), nil).Once()

	resp, err := suite.service.ListPartners(suite.ctx, params)

	suite.Require().NoError(err)
	suite.Len(resp.Partners, 1)
	suite.Equal(int64(1), resp.Meta.TotalCount)
	suite.mockPartnerRepo.AssertExpectations(suite.T())
}

func TestPartnerService(t *testing.T) {
	suite.Run(t, new(PartnerServiceTestSuite))
}
