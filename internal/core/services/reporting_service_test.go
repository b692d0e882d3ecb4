package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/openbooks/ledger_backend/internal/apperrors"
	"github.com/openbooks/ledger_backend/internal/core/domain"
	portssvc "github.com/openbooks/ledger_backend/internal/core/ports/services"
	"github.com/openbooks/ledger_backend/internal/core/services"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	mockReportingRepo *MockReportingRepository
	mockAccountRepo   *MockAccountRepository
	service           portssvc.ReportingSvcFacade

	ctx  context.Context
	asOf time.Time
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockReportingRepo = new(MockReportingRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewReportingService(suite.mockReportingRepo, suite.mockAccountRepo)

	suite.ctx = context.Background()
	suite.asOf = time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)
}

func (suite *ReportingServiceTestSuite) TestGetAccountBalance_Success() {
	account := &domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "512000",
		Name:        "Bank",
		AccountType: domain.Bank,
		IsActive:    true,
	}
	balance := &domain.AccountBalance{
		AccountID: account.AccountID,
		Debit:     decimal.NewFromInt(900),
		Credit:    decimal.NewFromInt(400),
		Balance:   decimal.NewFromInt(500),
	}

	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, account.AccountID).Return(account, nil).Once()
	suite.mockReportingRepo.On("GetAccountBalanceData", suite.ctx, account.AccountID, suite.asOf).Return(balance, nil).Once()

	result, err := suite.service.GetAccountBalance(suite.ctx, account.AccountID, suite.asOf)

	suite.Require().NoError(err)
	suite.Equal("512000", result.AccountCode)
	suite.Equal(domain.Bank, result.AccountType)
	suite.True(result.Balance.Equal(decimal.NewFromInt(500)))
	suite.mockReportingRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestGetAccountBalance_NoActivityReturnsZeros() {
	account := &domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "701000",
		AccountType: domain.Revenue,
		IsActive:    true,
	}

	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, account.AccountID).Return(account, nil).Once()
	suite.mockReportingRepo.On("GetAccountBalanceData", suite.ctx, account.AccountID, suite.asOf).Return(nil, nil).Once()

	result, err := suite.service.GetAccountBalance(suite.ctx, account.AccountID, suite.asOf)

	suite.Require().NoError(err)
	suite.True(result.Debit.IsZero())
	suite.True(result.Credit.IsZero())
	suite.True(result.Balance.IsZero())
	suite.Equal("701000", result.AccountCode)
}

func (suite *ReportingServiceTestSuite) TestGetAccountBalance_UnknownAccount() {
	accountID := uuid.NewString()

	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, accountID).Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.service.GetAccountBalance(suite.ctx, accountID, suite.asOf)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(result)
	suite.mockReportingRepo.AssertNotCalled(suite.T(), "GetAccountBalanceData")
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_Success() {
	rows := []domain.TrialBalanceRow{
		{AccountID: uuid.NewString(), AccountCode: "512000", AccountName: "Bank", AccountType: domain.Bank, Debit: decimal.NewFromInt(500), Credit: decimal.Zero},
		{AccountID: uuid.NewString(), AccountCode: "701000", AccountName: "Sales", AccountType: domain.Revenue, Debit: decimal.Zero, Credit: decimal.NewFromInt(500)},
	}

	suite.mockReportingRepo.On("GetTrialBalanceData", suite.ctx, suite.asOf).Return(rows, nil).Once()

	result, err := suite.service.TrialBalance(suite.ctx, suite.asOf)

	suite.Require().NoError(err)
	suite.Len(result, 2)
	suite.mockReportingRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestProfitAndLoss_ComputesNetProfit() {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	revenue := []domain.AccountAmount{
		{AccountID: uuid.NewString(), AccountCode: "701000", Name: "Sales", NetAmount: decimal.NewFromInt(1200)},
		{AccountID: uuid.NewString(), AccountCode: "706000", Name: "Services", NetAmount: decimal.NewFromInt(300)},
	}
	expenses := []domain.AccountAmount{
		{AccountID: uuid.NewString(), AccountCode: "601000", Name: "Purchases", NetAmount: decimal.NewFromInt(900)},
	}

	suite.mockReportingRepo.On("GetProfitAndLossData", suite.ctx, from, suite.asOf).Return(revenue, expenses, nil).Once()

	report, err := suite.service.ProfitAndLoss(suite.ctx, from, suite.asOf)

	suite.Require().NoError(err)
	suite.Len(report.Revenue, 2)
	suite.Len(report.Expenses, 1)
	suite.True(report.NetProfit.Equal(decimal.NewFromInt(600)))
	suite.mockReportingRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestProfitAndLoss_OmitsZeroNetAccounts() {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	revenue := []domain.AccountAmount{
		{AccountID: uuid.NewString(), AccountCode: "701000", Name: "Sales", NetAmount: decimal.NewFromInt(1000)},
		{AccountID: uuid.NewString(), AccountCode: "708000", Name: "Rebilled costs", NetAmount: decimal.Zero},
	}
	expenses := []domain.AccountAmount{
		{AccountID: uuid.NewString(), AccountCode: "601000", Name: "Purchases", NetAmount: decimal.Zero},
	}

	suite.mockReportingRepo.On("GetProfitAndLossData", suite.ctx, from, suite.asOf).Return(revenue, expenses, nil).Once()

	report, err := suite.service.ProfitAndLoss(suite.ctx, from, suite.asOf)

	suite.Require().NoError(err)
	// Accounts whose activity nets to zero carry no information on the statement.
	suite.Len(report.Revenue, 1)
	suite.Equal("701000", report.Revenue[0].AccountCode)
	suite.Empty(report.Expenses)
	suite.True(report.NetProfit.Equal(decimal.NewFromInt(1000)))
}

func (suite *ReportingServiceTestSuite) TestProfitAndLoss_InvertedPeriod() {
	from := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	report, err := suite.service.ProfitAndLoss(suite.ctx, from, to)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(report)
	suite.mockReportingRepo.AssertNotCalled(suite.T(), "GetProfitAndLossData")
}

func (suite *ReportingServiceTestSuite) TestBalanceSheet_ComputesTotals() {
	assets := []domain.AccountAmount{
		{AccountID: uuid.NewString(), AccountCode: "512000", Name: "Bank", NetAmount: decimal.NewFromInt(800)},
		{AccountID: uuid.NewString(), AccountCode: "411000", Name: "Receivables", NetAmount: decimal.NewFromInt(200)},
	}
	liabilities := []domain.AccountAmount{
		{AccountID: uuid.NewString(), AccountCode: "401000", Name: "Payables", NetAmount: decimal.NewFromInt(400)},
	}
	equity := []domain.AccountAmount{
		{AccountID: uuid.NewString(), AccountCode: "101000", Name: "Capital", NetAmount: decimal.NewFromInt(600)},
	}

	suite.mockReportingRepo.On("GetBalanceSheetData", suite.ctx, suite.asOf).Return(assets, liabilities, equity, nil).Once()

	report, err := suite.service.BalanceSheet(suite.ctx, suite.asOf)

	suite.Require().NoError(err)
	suite.True(report.TotalAssets.Equal(decimal.NewFromInt(1000)))
	suite.True(report.TotalLiabilities.Equal(decimal.NewFromInt(400)))
	suite.True(report.TotalEquity.Equal(decimal.NewFromInt(600)))
	suite.True(report.TotalAssets.Equal(report.TotalLiabilities.Add(report.TotalEquity)))
	suite.mockReportingRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestBalanceSheet_OmitsZeroNetAccounts() {
	assets := []domain.AccountAmount{
		{AccountID: uuid.NewString(), AccountCode: "512000", Name: "Bank", NetAmount: decimal.NewFromInt(500)},
		{AccountID: uuid.NewString(), AccountCode: "411000", Name: "Receivables", NetAmount: decimal.Zero},
	}
	liabilities := []domain.AccountAmount{
		{AccountID: uuid.NewString(), AccountCode: "401000", Name: "Payables", NetAmount: decimal.Zero},
	}
	equity := []domain.AccountAmount{
		{AccountID: uuid.NewString(), AccountCode: "101000", Name: "Capital", NetAmount: decimal.NewFromInt(500)},
	}

	suite.mockReportingRepo.On("GetBalanceSheetData", suite.ctx, suite.asOf).Return(assets, liabilities, equity, nil).Once()

	report, err := suite.service.BalanceSheet(suite.ctx, suite.asOf)

	suite.Require().NoError(err)
	suite.Len(report.Assets, 1)
	suite.Empty(report.Liabilities)
	suite.Len(report.Equity, 1)
	suite.True(report.TotalAssets.Equal(decimal.NewFromInt(500)))
	suite.True(report.TotalLiabilities.IsZero())
	suite.True(report.TotalEquity.Equal(decimal.NewFromInt(500)))
}

func TestReportingService(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
