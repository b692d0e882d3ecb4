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

type EntryServiceTestSuite struct {
	suite.Suite
	mockEntryRepo   *MockEntryRepository
	mockAccountRepo *MockAccountRepository
	mockJournalRepo *MockJournalRepository
	service         portssvc.EntrySvcFacade

	ctx            context.Context
	userID         string
	journal        domain.Journal
	bankAccount    domain.Account
	revenueAccount domain.Account
}

func (suite *EntryServiceTestSuite) SetupTest() {
	suite.mockEntryRepo = new(MockEntryRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.service = services.NewEntryService(suite.mockEntryRepo, suite.mockAccountRepo, suite.mockJournalRepo)

	suite.ctx = context.Background()
	suite.userID = uuid.NewString()

	suite.journal = domain.Journal{
		JournalID:   uuid.NewString(),
		Code:        "SAL",
		Name:        "Sales",
		JournalType: domain.SalesJournal,
		IsActive:    true,
	}
	suite.bankAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "512000",
		Name:        "Bank",
		AccountType: domain.Bank,
		IsActive:    true,
	}
	suite.revenueAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "701000",
		Name:        "Product sales",
		AccountType: domain.Revenue,
		IsActive:    true,
	}
}

func (suite *EntryServiceTestSuite) lineAccounts() map[string]domain.Account {
	return map[string]domain.Account{
		suite.bankAccount.AccountID:    suite.bankAccount,
		suite.revenueAccount.AccountID: suite.revenueAccount,
	}
}

func (suite *EntryServiceTestSuite) balancedRequest(amount decimal.Decimal) dto.CreateEntryRequest {
	return dto.CreateEntryRequest{
		JournalID: suite.journal.JournalID,
		Reference: "INV-001",
		EntryDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Lines: []dto.EntryLineRequest{
			{AccountID: suite.bankAccount.AccountID, Debit: amount},
			{AccountID: suite.revenueAccount.AccountID, Credit: amount},
		},
	}
}

func (suite *EntryServiceTestSuite) TestCreateEntry_Success() {
	req := suite.balancedRequest(decimal.NewFromInt(150))

	suite.mockJournalRepo.On("FindJournalByID", suite.ctx, suite.journal.JournalID).Return(&suite.journal, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, mock.Anything).Return(suite.lineAccounts(), nil).Once()
	suite.mockEntryRepo.On("SaveEntry", suite.ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.EntryLine")).Return(nil).Once()

	entry, err := suite.service.CreateEntry(suite.ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal(domain.EntryDraft, entry.Status)
	suite.True(entry.TotalAmount.Equal(decimal.NewFromInt(150)))
	suite.Len(entry.Lines, 2)
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func (suite *EntryServiceTestSuite) TestCreateEntry_Unbalanced() {
	req := suite.balancedRequest(decimal.NewFromInt(150))
	req.Lines[1].Credit = decimal.NewFromInt(149)

	suite.mockJournalRepo.On("FindJournalByID", suite.ctx, suite.journal.JournalID).Return(&suite.journal, nil).Once()

	entry, err := suite.service.CreateEntry(suite.ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnbalanced)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(entry)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestCreateEntry_BothSidesSet() {
	req := suite.balancedRequest(decimal.NewFromInt(100))
	req.Lines[0].Credit = decimal.NewFromInt(100)

	suite.mockJournalRepo.On("FindJournalByID", suite.ctx, suite.journal.JournalID).Return(&suite.journal, nil).Once()

	entry, err := suite.service.CreateEntry(suite.ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnbalanced)
	suite.Nil(entry)
}

func (suite *EntryServiceTestSuite) TestCreateEntry_InactiveJournal() {
	req := suite.balancedRequest(decimal.NewFromInt(50))
	inactive := suite.journal
	inactive.IsActive = false

	suite.mockJournalRepo.On("FindJournalByID", suite.ctx, suite.journal.JournalID).Return(&inactive, nil).Once()

	entry, err := suite.service.CreateEntry(suite.ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(entry)
}

func (suite *EntryServiceTestSuite) TestCreateEntry_InactiveAccount() {
	req := suite.balancedRequest(decimal.NewFromInt(50))
	accounts := suite.lineAccounts()
	frozen := accounts[suite.revenueAccount.AccountID]
	frozen.IsActive = false
	accounts[suite.revenueAccount.AccountID] = frozen

	suite.mockJournalRepo.On("FindJournalByID", suite.ctx, suite.journal.JournalID).Return(&suite.journal, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, mock.Anything).Return(accounts, nil).Once()

	entry, err := suite.service.CreateEntry(suite.ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(entry)
}

func (suite *EntryServiceTestSuite) TestCreateEntry_UnknownAccount() {
	req := suite.balancedRequest(decimal.NewFromInt(50))
	accounts := suite.lineAccounts()
	delete(accounts, suite.revenueAccount.AccountID)

	suite.mockJournalRepo.On("FindJournalByID", suite.ctx, suite.journal.JournalID).Return(&suite.journal, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, mock.Anything).Return(accounts, nil).Once()

	entry, err := suite.service.CreateEntry(suite.ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(entry)
}

func (suite *EntryServiceTestSuite) TestPostEntry_Success() {
	entryID := uuid.NewString()
	amount := decimal.NewFromInt(200)
	draft := &domain.JournalEntry{
		EntryID:     entryID,
		JournalID:   suite.journal.JournalID,
		Status:      domain.EntryDraft,
		TotalAmount: amount,
	}
	lines := []domain.EntryLine{
		{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.bankAccount.AccountID, Debit: amount},
		{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.revenueAccount.AccountID, Credit: amount},
	}

	suite.mockEntryRepo.On("FindEntryByID", suite.ctx, entryID).Return(draft, nil).Once()
	suite.mockEntryRepo.On("FindLinesByEntryID", suite.ctx, entryID).Return(lines, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, mock.Anything).Return(suite.lineAccounts(), nil).Once()
	suite.mockEntryRepo.On("PostEntry", suite.ctx, entryID, suite.userID, mock.AnythingOfType("time.Time"),
		mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
			// Debit to a bank account and credit to a revenue account both
			// increase the respective balances by the posted amount.
			return changes[suite.bankAccount.AccountID].Equal(amount) &&
				changes[suite.revenueAccount.AccountID].Equal(amount)
		})).Return(nil).Once()

	posted, err := suite.service.PostEntry(suite.ctx, entryID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.EntryPosted, posted.Status)
	suite.Require().NotNil(posted.PostedAt)
	suite.Equal(suite.userID, posted.PostedBy)
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func (suite *EntryServiceTestSuite) TestPostEntry_AlreadyPosted() {
	entryID := uuid.NewString()
	posted := &domain.JournalEntry{EntryID: entryID, Status: domain.EntryPosted}

	suite.mockEntryRepo.On("FindEntryByID", suite.ctx, entryID).Return(posted, nil).Once()

	result, err := suite.service.PostEntry(suite.ctx, entryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.Nil(result)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestReverseEntry_StatusFlipOnly() {
	entryID := uuid.NewString()
	posted := &domain.JournalEntry{EntryID: entryID, Status: domain.EntryPosted}

	suite.mockEntryRepo.On("FindEntryByID", suite.ctx, entryID).Return(posted, nil).Once()
	suite.mockEntryRepo.On("MarkEntryReversed", suite.ctx, entryID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	reversed, err := suite.service.ReverseEntry(suite.ctx, entryID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.EntryReversed, reversed.Status)
	suite.Require().NotNil(reversed.ReversedAt)
	suite.Equal(suite.userID, reversed.ReversedBy)
	// Reversal never touches balances: the cached account balance keeps the
	// posted amounts while reports recomputed from POSTED lines drop them.
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountsByIDs", mock.Anything, mock.Anything)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccountBalancesInTx")
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func (suite *EntryServiceTestSuite) TestReverseEntry_DraftRejected() {
	entryID := uuid.NewString()
	draft := &domain.JournalEntry{EntryID: entryID, Status: domain.EntryDraft}

	suite.mockEntryRepo.On("FindEntryByID", suite.ctx, entryID).Return(draft, nil).Once()

	reversed, err := suite.service.ReverseEntry(suite.ctx, entryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.Nil(reversed)
}

func (suite *EntryServiceTestSuite) TestReverseEntry_AlreadyReversed() {
	entryID := uuid.NewString()
	already := &domain.JournalEntry{EntryID: entryID, Status: domain.EntryReversed}

	suite.mockEntryRepo.On("FindEntryByID", suite.ctx, entryID).Return(already, nil).Once()

	reversed, err := suite.service.ReverseEntry(suite.ctx, entryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.Nil(reversed)
}

func (suite *EntryServiceTestSuite) TestUpdateEntry_PostedImmutable() {
	entryID := uuid.NewString()
	posted := &domain.JournalEntry{EntryID: entryID, Status: domain.EntryPosted}
	req := dto.UpdateEntryRequest{
		Reference: "INV-002",
		EntryDate: time.Now().UTC(),
		Lines: []dto.EntryLineRequest{
			{AccountID: suite.bankAccount.AccountID, Debit: decimal.NewFromInt(10)},
			{AccountID: suite.revenueAccount.AccountID, Credit: decimal.NewFromInt(10)},
		},
	}

	suite.mockEntryRepo.On("FindEntryByID", suite.ctx, entryID).Return(posted, nil).Once()

	updated, err := suite.service.UpdateEntry(suite.ctx, entryID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.Nil(updated)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "ReplaceEntryLines", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestDeleteEntry_DraftOnly() {
	entryID := uuid.NewString()
	draft := &domain.JournalEntry{EntryID: entryID, Status: domain.EntryDraft}

	suite.mockEntryRepo.On("FindEntryByID", suite.ctx, entryID).Return(draft, nil).Once()
	suite.mockEntryRepo.On("DeleteEntry", suite.ctx, entryID).Return(nil).Once()

	err := suite.service.DeleteEntry(suite.ctx, entryID)

	suite.Require().NoError(err)
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func (suite *EntryServiceTestSuite) TestDeleteEntry_PostedRejected() {
	entryID := uuid.NewString()
	posted := &domain.JournalEntry{EntryID: entryID, Status: domain.EntryPosted}

	suite.mockEntryRepo.On("FindEntryByID", suite.ctx, entryID).Return(posted, nil).Once()

	err := suite.service.DeleteEntry(suite.ctx, entryID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "DeleteEntry", mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestListEntries_InvalidStatus() {
	bad := "UNKNOWN"
	params := dto.ListEntriesParams{Status: &bad}

	resp, err := suite.service.ListEntries(suite.ctx, params)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(resp)
}

func (suite *EntryServiceTestSuite) TestListEntries_InvertedRange() {
	params := dto.ListEntriesParams{
		From: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}

	resp, err := suite.service.ListEntries(suite.ctx, params)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(resp)
}

func TestEntryService(t *testing.T) {
	suite.Run(t, new(EntryServiceTestSuite))
}
