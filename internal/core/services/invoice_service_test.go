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

type InvoiceServiceTestSuite struct {
	suite.Suite
	mockInvoiceRepo *MockInvoiceRepository
	mockPartnerRepo *MockPartnerRepository
	mockJournalRepo *MockJournalRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.InvoiceSvcFacade

	ctx     context.Context
	userID  string
	partner domain.Partner
	journal domain.Journal
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockPartnerRepo = new(MockPartnerRepository)
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewInvoiceService(suite.mockInvoiceRepo, suite.mockPartnerRepo, suite.mockJournalRepo, suite.mockAccountRepo)

	suite.ctx = context.Background()
	suite.userID = uuid.NewString()
	suite.partner = domain.Partner{
		PartnerID:   uuid.NewString(),
		Name:        "Acme SARL",
		PartnerType: domain.Client,
		IsActive:    true,
	}
	suite.journal = domain.Journal{
		JournalID:              uuid.NewString(),
		Code:                   "SAL",
		JournalType:            domain.SalesJournal,
		DefaultDebitAccountID:  uuid.NewString(),
		DefaultCreditAccountID: uuid.NewString(),
		IsActive:               true,
	}
}

// defaultAccounts returns an active receivable and revenue account pair for
// the suite journal's default accounts.
func (suite *InvoiceServiceTestSuite) defaultAccounts() map[string]domain.Account {
	return map[string]domain.Account{
		suite.journal.DefaultDebitAccountID: {
			AccountID:   suite.journal.DefaultDebitAccountID,
			AccountType: domain.Receivable,
			IsActive:    true,
		},
		suite.journal.DefaultCreditAccountID: {
			AccountID:   suite.journal.DefaultCreditAccountID,
			AccountType: domain.Revenue,
			IsActive:    true,
		},
	}
}

func (suite *InvoiceServiceTestSuite) createRequest() dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		Number:      "INV-2024-001",
		PartnerID:   suite.partner.PartnerID,
		JournalID:   suite.journal.JournalID,
		InvoiceType: domain.SalesInvoice,
		InvoiceDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Lines: []dto.InvoiceLineRequest{
			{Description: "Widget", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(50), VATRate: decimal.NewFromInt(20)},
			{Description: "Gadget", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(100), Discount: decimal.NewFromInt(10)},
		},
	}
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_ComputesTotals() {
	req := suite.createRequest()

	suite.mockInvoiceRepo.On("FindInvoiceByNumber", suite.ctx, req.Number).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockPartnerRepo.On("FindPartnerByID", suite.ctx, suite.partner.PartnerID).Return(&suite.partner, nil).Once()
	suite.mockJournalRepo.On("FindJournalByID", suite.ctx, suite.journal.JournalID).Return(&suite.journal, nil).Once()
	suite.mockInvoiceRepo.On("SaveInvoice", suite.ctx, mock.AnythingOfType("domain.Invoice"), mock.AnythingOfType("[]domain.InvoiceLine")).Return(nil).Once()

	invoice, err := suite.service.CreateInvoice(suite.ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(invoice)
	// Line 1: 10 * 50 = 500 plus 20% VAT = 100. Line 2: 2 * 100 less 10% = 180.
	suite.True(invoice.Subtotal.Equal(decimal.NewFromInt(680)), "subtotal was %s", invoice.Subtotal)
	suite.True(invoice.VATAmount.Equal(decimal.NewFromInt(100)), "vat was %s", invoice.VATAmount)
	suite.True(invoice.Total.Equal(decimal.NewFromInt(780)), "total was %s", invoice.Total)
	suite.True(invoice.Paid.IsZero())
	suite.True(invoice.Remaining.Equal(invoice.Total))
	suite.Equal(domain.InvoiceDraft, invoice.Status)
	suite.Len(invoice.Lines, 2)
	suite.Equal(1, invoice.Lines[0].Sequence)
	suite.Equal(2, invoice.Lines[1].Sequence)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_DuplicateNumber() {
	req := suite.createRequest()
	existing := &domain.Invoice{InvoiceID: uuid.NewString(), Number: req.Number}

	suite.mockInvoiceRepo.On("FindInvoiceByNumber", suite.ctx, req.Number).Return(existing, nil).Once()

	invoice, err := suite.service.CreateInvoice(suite.ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Nil(invoice)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_NegativeQuantity() {
	req := suite.createRequest()
	req.Lines[0].Quantity = decimal.NewFromInt(-1)

	suite.mockInvoiceRepo.On("FindInvoiceByNumber", suite.ctx, req.Number).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockPartnerRepo.On("FindPartnerByID", suite.ctx, suite.partner.PartnerID).Return(&suite.partner, nil).Once()
	suite.mockJournalRepo.On("FindJournalByID", suite.ctx, suite.journal.JournalID).Return(&suite.journal, nil).Once()

	invoice, err := suite.service.CreateInvoice(suite.ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(invoice)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_InactivePartner() {
	req := suite.createRequest()
	inactive := suite.partner
	inactive.IsActive = false

	suite.mockInvoiceRepo.On("FindInvoiceByNumber", suite.ctx, req.Number).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockPartnerRepo.On("FindPartnerByID", suite.ctx, suite.partner.PartnerID).Return(&inactive, nil).Once()

	invoice, err := suite.service.CreateInvoice(suite.ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(invoice)
}

func (suite *InvoiceServiceTestSuite) TestValidateInvoice_DraftOnly() {
	invoiceID := uuid.NewString()
	validated := &domain.Invoice{InvoiceID: invoiceID, Status: domain.InvoiceValidated}

	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, invoiceID).Return(validated, nil).Once()

	result, err := suite.service.ValidateInvoice(suite.ctx, invoiceID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.Nil(result)
}

func (suite *InvoiceServiceTestSuite) TestPostInvoice_PostsEntryInOneUnit() {
	invoiceID := uuid.NewString()
	total := decimal.NewFromInt(780)
	invoice := &domain.Invoice{
		InvoiceID:   invoiceID,
		Number:      "INV-2024-001",
		PartnerID:   suite.partner.PartnerID,
		JournalID:   suite.journal.JournalID,
		InvoiceType: domain.SalesInvoice,
		Status:      domain.InvoiceValidated,
		InvoiceDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Total:       total,
		Remaining:   total,
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, invoiceID).Return(invoice, nil).Once()
	suite.mockJournalRepo.On("FindJournalByID", suite.ctx, suite.journal.JournalID).Return(&suite.journal, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, mock.AnythingOfType("[]string")).Return(suite.defaultAccounts(), nil).Once()
	suite.mockInvoiceRepo.On("PostInvoiceWithEntry", suite.ctx, invoiceID,
		mock.MatchedBy(func(entry domain.JournalEntry) bool {
			return entry.Status == domain.EntryPosted &&
				entry.Reference == invoice.Number &&
				entry.TotalAmount.Equal(total) &&
				entry.PostedAt != nil &&
				entry.PostedBy == suite.userID
		}),
		mock.MatchedBy(func(lines []domain.EntryLine) bool {
			return len(lines) == 2 &&
				lines[0].AccountID == suite.journal.DefaultDebitAccountID &&
				lines[0].Debit.Equal(total) &&
				lines[1].AccountID == suite.journal.DefaultCreditAccountID &&
				lines[1].Credit.Equal(total)
		}),
		mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
			// Receivable is debit-normal, revenue is credit-normal, so both
			// default accounts grow by the invoice total.
			return len(changes) == 2 &&
				changes[suite.journal.DefaultDebitAccountID].Equal(total) &&
				changes[suite.journal.DefaultCreditAccountID].Equal(total)
		}),
		suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	result, err := suite.service.PostInvoice(suite.ctx, invoiceID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoicePosted, result.Status)
	suite.NotEmpty(result.EntryID)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "UpdateInvoiceStatus")
}

func (suite *InvoiceServiceTestSuite) TestPostInvoice_CreditNoteSwapsSides() {
	invoiceID := uuid.NewString()
	total := decimal.NewFromInt(120)
	invoice := &domain.Invoice{
		InvoiceID:   invoiceID,
		Number:      "CN-2024-001",
		PartnerID:   suite.partner.PartnerID,
		JournalID:   suite.journal.JournalID,
		InvoiceType: domain.CreditNote,
		Status:      domain.InvoiceValidated,
		InvoiceDate: time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC),
		Total:       total,
		Remaining:   total,
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, invoiceID).Return(invoice, nil).Once()
	suite.mockJournalRepo.On("FindJournalByID", suite.ctx, suite.journal.JournalID).Return(&suite.journal, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, mock.AnythingOfType("[]string")).Return(suite.defaultAccounts(), nil).Once()
	suite.mockInvoiceRepo.On("PostInvoiceWithEntry", suite.ctx, invoiceID,
		mock.AnythingOfType("domain.JournalEntry"),
		mock.MatchedBy(func(lines []domain.EntryLine) bool {
			// A credit note debits the journal's default credit account and vice versa.
			return len(lines) == 2 &&
				lines[0].AccountID == suite.journal.DefaultCreditAccountID &&
				lines[0].Debit.Equal(total) &&
				lines[1].AccountID == suite.journal.DefaultDebitAccountID &&
				lines[1].Credit.Equal(total)
		}),
		mock.AnythingOfType("map[string]decimal.Decimal"),
		suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	result, err := suite.service.PostInvoice(suite.ctx, invoiceID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoicePosted, result.Status)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestPostInvoice_NoDefaultAccounts() {
	invoiceID := uuid.NewString()
	bare := suite.journal
	bare.DefaultDebitAccountID = ""
	bare.DefaultCreditAccountID = ""
	invoice := &domain.Invoice{
		InvoiceID: invoiceID,
		JournalID: bare.JournalID,
		Status:    domain.InvoiceValidated,
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, invoiceID).Return(invoice, nil).Once()
	suite.mockJournalRepo.On("FindJournalByID", suite.ctx, bare.JournalID).Return(&bare, nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoiceStatus", suite.ctx, invoiceID, domain.InvoiceValidated, domain.InvoicePosted, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	result, err := suite.service.PostInvoice(suite.ctx, invoiceID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoicePosted, result.Status)
	suite.Empty(result.EntryID)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "PostInvoiceWithEntry")
}

func (suite *InvoiceServiceTestSuite) TestPostInvoice_InactiveAccountLeavesInvoiceValidated() {
	invoiceID := uuid.NewString()
	total := decimal.NewFromInt(300)
	invoice := &domain.Invoice{
		InvoiceID:   invoiceID,
		Number:      "INV-2024-009",
		PartnerID:   suite.partner.PartnerID,
		JournalID:   suite.journal.JournalID,
		InvoiceType: domain.SalesInvoice,
		Status:      domain.InvoiceValidated,
		Total:       total,
		Remaining:   total,
	}
	accounts := suite.defaultAccounts()
	deactivated := accounts[suite.journal.DefaultCreditAccountID]
	deactivated.IsActive = false
	accounts[suite.journal.DefaultCreditAccountID] = deactivated

	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, invoiceID).Return(invoice, nil).Once()
	suite.mockJournalRepo.On("FindJournalByID", suite.ctx, suite.journal.JournalID).Return(&suite.journal, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, mock.AnythingOfType("[]string")).Return(accounts, nil).Once()

	result, err := suite.service.PostInvoice(suite.ctx, invoiceID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(result)
	// Nothing was written, so the invoice stays VALIDATED and the call can be
	// retried once the account situation is fixed.
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "UpdateInvoiceStatus")
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "PostInvoiceWithEntry")
}

func (suite *InvoiceServiceTestSuite) TestCancelInvoice_PaidRejected() {
	invoiceID := uuid.NewString()
	paid := &domain.Invoice{InvoiceID: invoiceID, Status: domain.InvoicePaid}

	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, invoiceID).Return(paid, nil).Once()

	result, err := suite.service.CancelInvoice(suite.ctx, invoiceID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.Nil(result)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "CancelInvoice")
}

func (suite *InvoiceServiceTestSuite) TestCancelInvoice_PartiallyPaidUnwindsTranches() {
	invoiceID := uuid.NewString()
	total := decimal.NewFromInt(150)
	partial := &domain.Invoice{
		InvoiceID: invoiceID,
		Status:    domain.InvoicePartial,
		Total:     total,
		Paid:      decimal.NewFromInt(100),
		Remaining: decimal.NewFromInt(50),
	}
	cancelled := &domain.Invoice{
		InvoiceID: invoiceID,
		Status:    domain.InvoiceCancelled,
		Total:     total,
		Paid:      decimal.Zero,
		Remaining: total,
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, invoiceID).Return(partial, nil).Once()
	suite.mockInvoiceRepo.On("CancelInvoice", suite.ctx, invoiceID, suite.userID, mock.AnythingOfType("time.Time")).Return(cancelled, nil).Once()

	result, err := suite.service.CancelInvoice(suite.ctx, invoiceID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceCancelled, result.Status)
	suite.True(result.Paid.IsZero())
	suite.True(result.Remaining.Equal(total))
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestCancelInvoice_DraftSuccess() {
	invoiceID := uuid.NewString()
	draft := &domain.Invoice{InvoiceID: invoiceID, Status: domain.InvoiceDraft, Paid: decimal.Zero}
	cancelled := &domain.Invoice{InvoiceID: invoiceID, Status: domain.InvoiceCancelled, Paid: decimal.Zero}

	suite.mockInvoiceRepo.On("FindInvoiceByID", suite.ctx, invoiceID).Return(draft, nil).Once()
	suite.mockInvoiceRepo.On("CancelInvoice", suite.ctx, invoiceID, suite.userID, mock.AnythingOfType("time.Time")).Return(cancelled, nil).Once()

	result, err := suite.service.CancelInvoice(suite.ctx, invoiceID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceCancelled, result.Status)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func TestInvoiceService(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}
