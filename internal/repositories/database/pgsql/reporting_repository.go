package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/openbooks/ledger_backend/internal/apperrors"
	"github.com/openbooks/ledger_backend/internal/core/domain"
	portsrepo "github.com/openbooks/ledger_backend/internal/core/ports/repositories"
)

// ReportingRepository runs the aggregate queries behind the financial reports.
// All aggregations cover POSTED entries only; drafts and reversed entries never
// appear in a report.
type ReportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new repository for reporting data.
func newReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &ReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure ReportingRepository implements portsrepo.ReportingRepository
var _ portsrepo.ReportingRepository = (*ReportingRepository)(nil)

// GetAccountBalanceData sums the debit and credit sides of all posted lines for
// one account with entry_date <= asOf. An account with no posted activity still
// yields a row with zero sums.
func (r *ReportingRepository) GetAccountBalanceData(ctx context.Context, accountID string, asOf time.Time) (*domain.AccountBalance, error) {
	query := `
		SELECT a.account_id, a.code, a.account_type,
		       COALESCE(SUM(pl.debit), 0) AS debit,
		       COALESCE(SUM(pl.credit), 0) AS credit
		FROM accounts a
		LEFT JOIN (
			SELECT l.account_id, l.debit, l.credit
			FROM entry_lines l
			JOIN journal_entries e ON e.entry_id = l.entry_id
			WHERE e.status = 'POSTED' AND e.entry_date <= $2
		) pl ON pl.account_id = a.account_id
		WHERE a.account_id = $1
		GROUP BY a.account_id, a.code, a.account_type;
	`

	var result domain.AccountBalance
	err := r.Pool.QueryRow(ctx, query, accountID, asOf).Scan(
		&result.AccountID,
		&result.AccountCode,
		&result.AccountType,
		&result.Debit,
		&result.Credit,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query balance for account %s: %w", accountID, err)
	}

	// The balance is signed per the account type's normal side.
	if result.AccountType.IsDebitNormal() {
		result.Balance = result.Debit.Sub(result.Credit)
	} else {
		result.Balance = result.Credit.Sub(result.Debit)
	}
	return &result, nil
}

// GetTrialBalanceData retrieves per-account debit and credit totals as of a
// date, ordered by account code. Accounts with no posted activity are
// omitted. Inactive accounts with posted history are kept: dropping them
// would break the equality of the debit and credit totals.
func (r *ReportingRepository) GetTrialBalanceData(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT a.account_id, a.code, a.name, a.account_type,
		       SUM(l.debit) AS debit,
		       SUM(l.credit) AS credit
		FROM entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		JOIN accounts a ON a.account_id = l.account_id
		WHERE e.status = 'POSTED' AND e.entry_date <= $1
		GROUP BY a.account_id, a.code, a.name, a.account_type
		ORDER BY a.code;
	`

	rows, err := r.Pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query trial balance data: %w", err)
	}
	defer rows.Close()

	result := []domain.TrialBalanceRow{}
	for rows.Next() {
		var row domain.TrialBalanceRow
		err := rows.Scan(
			&row.AccountID,
			&row.AccountCode,
			&row.AccountName,
			&row.AccountType,
			&row.Debit,
			&row.Credit,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trial balance row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trial balance rows: %w", err)
	}

	return result, nil
}

// accountAmountRow is one aggregated account row before signing.
type accountAmountRow struct {
	accountID   string
	accountCode string
	name        string
	accountType domain.AccountType
	debit       decimal.Decimal
	credit      decimal.Decimal
}

// queryAccountAmounts aggregates posted debit/credit sums per account for the
// given account types within a date window.
func (r *ReportingRepository) queryAccountAmounts(ctx context.Context, accountTypes []string, from, to time.Time) ([]accountAmountRow, error) {
	query := `
		SELECT a.account_id, a.code, a.name, a.account_type,
		       SUM(l.debit) AS debit,
		       SUM(l.credit) AS credit
		FROM entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		JOIN accounts a ON a.account_id = l.account_id
		WHERE e.status = 'POSTED'
		  AND e.entry_date >= $1 AND e.entry_date <= $2
		  AND a.account_type = ANY($3)
		GROUP BY a.account_id, a.code, a.name, a.account_type
		ORDER BY a.code;
	`

	rows, err := r.Pool.Query(ctx, query, from, to, accountTypes)
	if err != nil {
		return nil, fmt.Errorf("failed to query account amounts: %w", err)
	}
	defer rows.Close()

	result := []accountAmountRow{}
	for rows.Next() {
		var row accountAmountRow
		err := rows.Scan(
			&row.accountID,
			&row.accountCode,
			&row.name,
			&row.accountType,
			&row.debit,
			&row.credit,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account amount row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account amount rows: %w", err)
	}

	return result, nil
}

// toAccountAmount signs the aggregated sums per the account type's normal side.
func toAccountAmount(row accountAmountRow) domain.AccountAmount {
	net := row.credit.Sub(row.debit)
	if row.accountType.IsDebitNormal() {
		net = row.debit.Sub(row.credit)
	}
	return domain.AccountAmount{
		AccountID:   row.accountID,
		AccountCode: row.accountCode,
		Name:        row.name,
		NetAmount:   net,
	}
}

// GetProfitAndLossData retrieves revenue and expense net amounts for a period.
func (r *ReportingRepository) GetProfitAndLossData(ctx context.Context, from, to time.Time) ([]domain.AccountAmount, []domain.AccountAmount, error) {
	types := []string{string(domain.Revenue), string(domain.Expense)}
	rows, err := r.queryAccountAmounts(ctx, types, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query profit and loss data: %w", err)
	}

	revenue := []domain.AccountAmount{}
	expenses := []domain.AccountAmount{}
	for _, row := range rows {
		if row.accountType == domain.Revenue {
			revenue = append(revenue, toAccountAmount(row))
		} else {
			expenses = append(expenses, toAccountAmount(row))
		}
	}
	return revenue, expenses, nil
}

// earliestEntryDate is the lower bound used for as-of reports, which cover all
// posted history up to the given date.
var earliestEntryDate = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)

// GetBalanceSheetData retrieves asset, liability and equity net amounts as of a
// date. Bank, cash and receivable accounts report under assets; VAT and payable
// under liabilities.
func (r *ReportingRepository) GetBalanceSheetData(ctx context.Context, asOf time.Time) ([]domain.AccountAmount, []domain.AccountAmount, []domain.AccountAmount, error) {
	types := []string{
		string(domain.Asset), string(domain.Bank), string(domain.Cash), string(domain.Receivable),
		string(domain.Liability), string(domain.VAT), string(domain.Payable),
		string(domain.Equity),
	}
	rows, err := r.queryAccountAmounts(ctx, types, earliestEntryDate, asOf)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to query balance sheet data: %w", err)
	}

	assets := []domain.AccountAmount{}
	liabilities := []domain.AccountAmount{}
	equity := []domain.AccountAmount{}
	for _, row := range rows {
		switch row.accountType {
		case domain.Asset, domain.Bank, domain.Cash, domain.Receivable:
			assets = append(assets, toAccountAmount(row))
		case domain.Equity:
			equity = append(equity, toAccountAmount(row))
		default:
			liabilities = append(liabilities, toAccountAmount(row))
		}
	}
	return assets, liabilities, equity, nil
}
