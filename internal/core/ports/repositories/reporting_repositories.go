package repositories

import (
	"context"
	"time"

	"github.com/openbooks/ledger_backend/internal/core/domain"
)

// ReportingRepository defines operations for retrieving financial report data.
// All queries aggregate over POSTED entries only.
type ReportingRepository interface {
	// GetAccountBalanceData sums the debit and credit sides of all posted lines
	// for one account with entry_date <= asOf.
	GetAccountBalanceData(ctx context.Context, accountID string, asOf time.Time) (*domain.AccountBalance, error)

	// GetTrialBalanceData retrieves per-account debit/credit totals as of a date,
	// ordered by account code. Accounts with no posted activity are omitted.
	GetTrialBalanceData(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error)

	// GetProfitAndLossData retrieves revenue and expense net amounts for a period.
	GetProfitAndLossData(ctx context.Context, from, to time.Time) ([]domain.AccountAmount, []domain.AccountAmount, error)

	// GetBalanceSheetData retrieves asset, liability and equity net amounts as of a date.
	GetBalanceSheetData(ctx context.Context, asOf time.Time) ([]domain.AccountAmount, []domain.AccountAmount, []domain.AccountAmount, error)
}
