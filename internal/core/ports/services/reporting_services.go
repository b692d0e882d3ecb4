package services

import (
	"context"
	"time"

	"github.com/openbooks/ledger_backend/internal/core/domain"
)

// ReportingSvcFacade defines the balance and financial statement queries.
// All of them read posted entries only.
type ReportingSvcFacade interface {
	// GetAccountBalance returns one account's debit/credit totals and signed
	// balance as of a date.
	GetAccountBalance(ctx context.Context, accountID string, asOf time.Time) (*domain.AccountBalance, error)

	// TrialBalance generates the trial balance as of a date.
	TrialBalance(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error)

	// ProfitAndLoss generates the profit and loss report for a period.
	ProfitAndLoss(ctx context.Context, from, to time.Time) (*domain.PAndLReport, error)

	// BalanceSheet generates the balance sheet as of a date.
	BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error)
}
