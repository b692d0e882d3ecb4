package services_test

import (
	"context"
	"testing"
	"time"

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

type PaymentServiceTestSuite struct {
	suite.Suite
	mockPaymentRepo *MockPaymentRepository
	mockInvoiceRepo *MockInvoiceRepository
	mockPartnerRepo *MockPartnerRepository
	mockJournalRepo *MockJournalRepository
	service         portssvc.PaymentSvcFacade

	ctx     context.Context
	userID  string
	partner domain.Partner
	journal domain.Journal
}

func (suite *PaymentServiceTestSuite) SetupTest() {
	suite.mockPaymentRepo = new(MockPaymentRepository)
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockPartnerRepo = new(MockPartnerRepository)
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.service = services.NewPaymentService(suite.mockPaymentRepo, suite.mockInvoiceRepo, suite.mockPartnerRepo, suite.mockJournalRepo)

	suite.ctx = context.Background()
	suite.userID = uuid.NewString()
	suite.partner = domain.Partner{
		PartnerID:   uuid.NewString(),
		Name:        "Acme SARL",
		PartnerType: domain.Client,
		IsActive:    true,
	}
	suite.journal = domain.Journal{
		JournalID:   uuid.NewString(),
		Code:        "BNK",
		JournalType: domain.BankJournal,
		IsActive:    true,
	}
}

func (suite *PaymentServiceTestSuite) postedPayment(amount, allocated int64) *domain.Payment {
	return &domain.Payment{
		PaymentID:   uuid.NewString(),
		Number:      "PAY-2024-001",
		PartnerID:   suite.partner.PartnerID,
		JournalID:   suite.journal.JournalID,
		PaymentType: domain.IncomingPayment,
		Status:      domain.PaymentPosted,
		Method:      domain.MethodBankTransfer,
		PaymentDate: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromInt(amount),
		Allocated:   decimal.NewFromInt(allocated),
	}
}

func (suite *PaymentServiceTestSuite) postedInvoice(remaining int64) *domain.Invoice {
	total := decimal.NewFromInt(remaining)
	return &domain.Invoice{
		InvoiceID: uuid.NewString(),
		Number:    "INV-2024-001",
		PartnerID: suite.partner.PartnerID,
		Status:    domain.InvoicePosted,
		Total:     total,
		Paid:      decimal.Zero,
		Remaining: total,
	}
}

func (suite *PaymentServiceTestSuite) TestCreatePayment_Success() {
	req := dto.CreatePaymentRequest{
		Number:      "PAY-2024-001",
		PartnerID:   suite.partner.PartnerID,
		JournalID:   suite.journal.JournalID,
		PaymentType: domain.IncomingPayment,
		Method:      domain.MethodBankTransfer,
		PaymentDate: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromInt(500),
	}

	suite.mockPaymentRepo.On("FindPaymentByNumber", suite.ctx, req.Number).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockPartnerRepo.On("FindPartnerByID", suite.ctx, suite.partner.PartnerID).Return(&suite.partner, nil).Once()
	suite.mockJournalRepo.On("FindJournalByID", suite.ctx, suite.journal.JournalID).Return(&suite.journal, nil).Once()
	suite.mockPaymentRepo.On("SavePayment", suite.ctx, mock.MatchedBy(func(p domain.Payment) bool {
		return p.Status == domain.PaymentDraft && p.Allocated.IsZero() && p.Amount.Equal(req.Amount)
	})).Return(nil).Once()

	payment, err := suite.service.CreatePayment(suite.ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.PaymentDraft, payment.Status)
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestCreatePayment_NonPositiveAmount() {
	req := dto.CreatePaymentRequest{
		Number:      "PAY-2024-002",
		PartnerID:   suite.partner.PartnerID,
		JournalID:   suite.journal.JournalID,
		PaymentType: domain.IncomingPayment,
		Method:      domain.MethodCash,
		PaymentDate: time.Now().UTC(),
		Amount:      decimal.Zero,
	}

	payment, err := suite.service.CreatePayment(suite.ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(payment)
}

func (suite *PaymentServiceTestSuite) TestPaymentLifecycle_Transitions() {
	payment := suite.postedPayment(500, 0)
	payment.Status = domain.PaymentDraft

	suite.mockPaymentRepo.On("FindPaymentByID", suite.ctx, payment.PaymentID).Return(payment, nil).Once()
	suite.mockPaymentRepo.On("UpdatePaymentStatus", suite.ctx, payment.PaymentID, domain.PaymentDraft, domain.PaymentValidated, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	validated, err := suite.service.ValidatePayment(suite.ctx, payment.PaymentID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.PaymentValidated, validated.Status)
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestPostPayment_RequiresValidated() {
	payment := suite.postedPayment(500, 0)
	payment.Status = domain.PaymentDraft

	suite.mockPaymentRepo.On("FindPaymentByID", suite.ctx, payment.PaymentID).Return(payment, nil).Once()

	posted, err := suite.service.PostPayment(suite.ctx, payment.PaymentID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.Nil(posted)
}

func (suite *PaymentServiceTestSuite) TestCancelPayment_WithAllocationsRejected() {
	payment := suite.postedPayment(500, 200)

	suite.mockPaymentRepo.On("FindPaymentByID", suite.ctx, payment.PaymentID).Return(payment, nil).Once()

	cancelled, err := suite.service.CancelPayment(suite.ctx, payment.PaymentID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.Nil(cancelled)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "UpdatePaymentStatus")
}

func (suite *PaymentServiceTestSuite) TestPostTranche_Success() {
	payment := suite.postedPayment(500, 0)
	invoice := suite.postedInvoice(300)
	req := dto.PostTrancheRequest{InvoiceID: invoice.InvoiceID, Amount: decimal.NewFromInt(300)}

	updated := *invoice
	updated.Paid = decimal.NewFromInt(300)
	updated.Remaining = decimal.Zero
	updated.Status = domain.InvoicePaid

	suite.mockPaymentRepo.On("FindPaymentByID", suite.ctx, payment.PaymentID).Return(payment, nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockPaymentRepo.On("PostTranche", suite.ctx, mock.MatchedBy(func(t domain.PaymentTranche) bool {
		return t.PaymentID == payment.PaymentID &&
			t.InvoiceID == invoice.InvoiceID &&
			t.Amount.Equal(req.Amount) &&
			t.Status == domain.TranchePosted
	}), suite.userID, mock.AnythingOfType("time.Time")).Return(&updated, nil).Once()

	tranche, err := suite.service.PostTranche(suite.ctx, payment.PaymentID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(tranche)
	suite.Equal(domain.TranchePosted, tranche.Status)
	suite.True(tranche.Amount.Equal(req.Amount))
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestPostTranche_ExceedsUnallocated() {
	payment := suite.postedPayment(500, 450)
	req := dto.PostTrancheRequest{InvoiceID: uuid.NewString(), Amount: decimal.NewFromInt(100)}

	suite.mockPaymentRepo.On("FindPaymentByID", suite.ctx, payment.PaymentID).Return(payment, nil).Once()

	tranche, err := suite.service.PostTranche(suite.ctx, payment.PaymentID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrOverAllocation)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(tranche)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "PostTranche")
}

func (suite *PaymentServiceTestSuite) TestPostTranche_ExceedsInvoiceRemaining() {
	payment := suite.postedPayment(500, 0)
	invoice := suite.postedInvoice(100)
	req := dto.PostTrancheRequest{InvoiceID: invoice.InvoiceID, Amount: decimal.NewFromInt(200)}

	suite.mockPaymentRepo.On("FindPaymentByID", suite.ctx, payment.PaymentID).Return(payment, nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, invoice.InvoiceID).Return(invoice, nil).Once()

	tranche, err := suite.service.PostTranche(suite.ctx, payment.PaymentID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrOverAllocation)
	suite.Nil(tranche)
}

func (suite *PaymentServiceTestSuite) TestPostTranche_PartnerMismatch() {
	payment := suite.postedPayment(500, 0)
	invoice := suite.postedInvoice(300)
	invoice.PartnerID = uuid.NewString()
	req := dto.PostTrancheRequest{InvoiceID: invoice.InvoiceID, Amount: decimal.NewFromInt(100)}

	suite.mockPaymentRepo.On("FindPaymentByID", suite.ctx, payment.PaymentID).Return(payment, nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, invoice.InvoiceID).Return(invoice, nil).Once()

	tranche, err := suite.service.PostTranche(suite.ctx, payment.PaymentID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(tranche)
}

func (suite *PaymentServiceTestSuite) TestPostTranche_PaymentNotPosted() {
	payment := suite.postedPayment(500, 0)
	payment.Status = domain.PaymentValidated
	req := dto.PostTrancheRequest{InvoiceID: uuid.NewString(), Amount: decimal.NewFromInt(100)}

	suite.mockPaymentRepo.On("FindPaymentByID", suite.ctx, payment.PaymentID).Return(payment, nil).Once()

	tranche, err := suite.service.PostTranche(suite.ctx, payment.PaymentID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.Nil(tranche)
}

func (suite *PaymentServiceTestSuite) TestPostTranche_DraftInvoiceRejected() {
	payment := suite.postedPayment(500, 0)
	invoice := suite.postedInvoice(300)
	invoice.Status = domain.InvoiceDraft
	req := dto.PostTrancheRequest{InvoiceID: invoice.InvoiceID, Amount: decimal.NewFromInt(100)}

	suite.mockPaymentRepo.On("FindPaymentByID", suite.ctx, payment.PaymentID).Return(payment, nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, invoice.InvoiceID).Return(invoice, nil).Once()

	tranche, err := suite.service.PostTranche(suite.ctx, payment.PaymentID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.Nil(tranche)
}

func (suite *PaymentServiceTestSuite) TestCancelTranche_Success() {
	trancheID := uuid.NewString()
	restored := suite.postedInvoice(300)
	restored.Status = domain.InvoicePartial

	suite.mockPaymentRepo.On("CancelTranche", suite.ctx, trancheID, suite.userID, mock.AnythingOfType("time.Time")).Return(restored, nil).Once()

	err := suite.service.CancelTranche(suite.ctx, trancheID, suite.userID)

	suite.Require().NoError(err)
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestCancelTranche_NotPosted() {
	trancheID := uuid.NewString()

	suite.mockPaymentRepo.On("CancelTranche", suite.ctx, trancheID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil, apperrors.ErrConflict).Once()

	err := suite.service.CancelTranche(suite.ctx, trancheID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func TestPaymentService(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}
