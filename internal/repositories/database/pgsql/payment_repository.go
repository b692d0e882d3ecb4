package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/openbooks/ledger_backend/internal/apperrors"
	"github.com/openbooks/ledger_backend/internal/core/domain"
	portsrepo "github.com/openbooks/ledger_backend/internal/core/ports/repositories"
	"github.com/openbooks/ledger_backend/internal/models"
	"github.com/openbooks/ledger_backend/internal/utils/mapping"
)

type PgxPaymentRepository struct {
	BaseRepository
}

// newPgxPaymentRepository creates a new repository for payment, tranche and
// reconciliation data.
func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxPaymentRepository implements portsrepo.PaymentRepositoryFacade
var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

const paymentColumns = `payment_id, number, partner_id, journal_id, payment_type, status, method, payment_date, amount, allocated, reference, created_at, created_by, last_updated_at, last_updated_by`

const trancheColumns = `tranche_id, payment_id, invoice_id, amount, status, payment_date, created_at, created_by, last_updated_at, last_updated_by`

// scanPayment reads one payment row into its domain representation.
func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var m models.Payment

	err := row.Scan(
		&m.PaymentID,
		&m.Number,
		&m.PartnerID,
		&m.JournalID,
		&m.PaymentType,
		&m.Status,
		&m.Method,
		&m.PaymentDate,
		&m.Amount,
		&m.Allocated,
		&m.Reference,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	p := mapping.ToDomainPayment(m)
	return &p, nil
}

// scanTranche reads one tranche row into its domain representation.
func scanTranche(row pgx.Row) (*domain.PaymentTranche, error) {
	var m models.PaymentTranche

	err := row.Scan(
		&m.TrancheID,
		&m.PaymentID,
		&m.InvoiceID,
		&m.Amount,
		&m.Status,
		&m.PaymentDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	t := mapping.ToDomainTranche(m)
	return &t, nil
}

// SavePayment persists a new payment.
func (r *PgxPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	m := mapping.ToModelPayment(payment)

	query := `
		INSERT INTO payments (payment_id, number, partner_id, journal_id, payment_type, status, method, payment_date, amount, allocated, reference, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`

	_, err := r.Pool.Exec(ctx, query,
		m.PaymentID,
		m.Number,
		m.PartnerID,
		m.JournalID,
		m.PaymentType,
		m.Status,
		m.Method,
		m.PaymentDate,
		m.Amount,
		m.Allocated,
		m.Reference,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: payment number %s already exists", apperrors.ErrDuplicate, m.Number)
		}
		return fmt.Errorf("failed to save payment %s: %w", m.PaymentID, err)
	}
	return nil
}

// FindPaymentByID retrieves a payment by its ID.
func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1;`

	p, err := scanPayment(r.Pool.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment by ID %s: %w", paymentID, err)
	}
	return p, nil
}

// FindPaymentByNumber retrieves a payment by its unique number.
func (r *PgxPaymentRepository) FindPaymentByNumber(ctx context.Context, number string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE number = $1;`

	p, err := scanPayment(r.Pool.QueryRow(ctx, query, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment by number %s: %w", number, err)
	}
	return p, nil
}

// findTranches retrieves tranches matching one filter column.
func (r *PgxPaymentRepository) findTranches(ctx context.Context, column, value string) ([]domain.PaymentTranche, error) {
	query := `SELECT ` + trancheColumns + ` FROM payment_tranches WHERE ` + column + ` = $1 ORDER BY created_at;`

	rows, err := r.Pool.Query(ctx, query, value)
	if err != nil {
		return nil, fmt.Errorf("failed to query tranches by %s %s: %w", column, value, err)
	}
	defer rows.Close()

	tranches := []domain.PaymentTranche{}
	for rows.Next() {
		t, err := scanTranche(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tranche row: %w", err)
		}
		tranches = append(tranches, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tranche rows: %w", err)
	}

	return tranches, nil
}

// FindTranchesByPaymentID retrieves all tranches of a payment.
func (r *PgxPaymentRepository) FindTranchesByPaymentID(ctx context.Context, paymentID string) ([]domain.PaymentTranche, error) {
	return r.findTranches(ctx, "payment_id", paymentID)
}

// FindTranchesByInvoiceID retrieves all tranches allocated to an invoice.
func (r *PgxPaymentRepository) FindTranchesByInvoiceID(ctx context.Context, invoiceID string) ([]domain.PaymentTranche, error) {
	return r.findTranches(ctx, "invoice_id", invoiceID)
}

// ListPayments retrieves a page of payments, optionally filtered by partner
// and status, newest first, plus the total matching count.
func (r *PgxPaymentRepository) ListPayments(ctx context.Context, partnerID *string, status *domain.PaymentStatus, limit, offset int) ([]domain.Payment, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	filterClause := `WHERE 1=1`
	args := []interface{}{}
	if partnerID != nil && *partnerID != "" {
		args = append(args, *partnerID)
		filterClause += ` AND partner_id = $` + strconv.Itoa(len(args))
	}
	if status != nil {
		args = append(args, string(*status))
		filterClause += ` AND status = $` + strconv.Itoa(len(args))
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM payments ` + filterClause + `;`
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	query := `SELECT ` + paymentColumns + ` FROM payments ` + filterClause +
		` ORDER BY payment_date DESC, created_at DESC LIMIT $` + strconv.Itoa(len(args)+1) +
		` OFFSET $` + strconv.Itoa(len(args)+2) + `;`
	args = append(args, limit, offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payment row: %w", err)
		}
		payments = append(payments, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating payment rows: %w", err)
	}

	return payments, total, nil
}

// ListReconciliations retrieves reconciliation records filtered by invoice
// and/or payment, newest first.
func (r *PgxPaymentRepository) ListReconciliations(ctx context.Context, invoiceID, paymentID *string) ([]domain.Reconciliation, error) {
	filterClause := `WHERE 1=1`
	args := []interface{}{}
	if invoiceID != nil && *invoiceID != "" {
		args = append(args, *invoiceID)
		filterClause += ` AND invoice_id = $` + strconv.Itoa(len(args))
	}
	if paymentID != nil && *paymentID != "" {
		args = append(args, *paymentID)
		filterClause += ` AND payment_id = $` + strconv.Itoa(len(args))
	}

	query := `
		SELECT reconciliation_id, invoice_id, payment_id, tranche_id, amount, status, created_at, created_by, last_updated_at, last_updated_by
		FROM reconciliations ` + filterClause + `
		ORDER BY created_at DESC;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reconciliations: %w", err)
	}
	defer rows.Close()

	recs := []domain.Reconciliation{}
	for rows.Next() {
		var m models.Reconciliation
		err := rows.Scan(
			&m.ReconciliationID,
			&m.InvoiceID,
			&m.PaymentID,
			&m.TrancheID,
			&m.Amount,
			&m.Status,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reconciliation row: %w", err)
		}
		recs = append(recs, mapping.ToDomainReconciliation(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reconciliation rows: %w", err)
	}

	return recs, nil
}

// lockPayment selects a payment FOR UPDATE within a transaction.
func lockPayment(ctx context.Context, tx pgx.Tx, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1 FOR UPDATE;`

	p, err := scanPayment(tx.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock payment "+paymentID, err)
	}
	return p, nil
}

// UpdatePaymentStatus transitions a payment between lifecycle states. The
// expected current status is re-checked under the row lock.
func (r *PgxPaymentRepository) UpdatePaymentStatus(ctx context.Context, paymentID string, expected, next domain.PaymentStatus, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer r.Rollback(ctx, tx)

	p, err := lockPayment(ctx, tx, paymentID)
	if err != nil {
		return err
	}
	if p.Status != expected {
		return fmt.Errorf("%w: payment %s is %s, expected %s", apperrors.ErrConflict, paymentID, p.Status, expected)
	}

	updateQuery := `
		UPDATE payments
		SET status = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE payment_id = $1;
	`
	if _, err := tx.Exec(ctx, updateQuery, paymentID, string(next), now, userID); err != nil {
		return apperrors.NewAppError(500, "failed to update payment status "+paymentID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction for payment "+paymentID, err)
	}
	return nil
}

// applyInvoiceAllocation writes an invoice's paid/remaining totals and the
// status those totals imply.
func applyInvoiceAllocation(ctx context.Context, tx pgx.Tx, invoice *domain.Invoice, paid, remaining decimal.Decimal, userID string, now time.Time) error {
	var status domain.InvoiceStatus
	switch {
	case remaining.IsZero():
		status = domain.InvoicePaid
	case paid.IsPositive():
		status = domain.InvoicePartial
	default:
		status = domain.InvoicePosted
	}

	query := `
		UPDATE invoices
		SET paid = $2,
		    remaining = $3,
		    status = $4,
		    last_updated_at = $5,
		    last_updated_by = $6
		WHERE invoice_id = $1;
	`
	if _, err := tx.Exec(ctx, query, invoice.InvoiceID, paid, remaining, string(status), now, userID); err != nil {
		return apperrors.NewAppError(500, "failed to update invoice allocation "+invoice.InvoiceID, err)
	}

	invoice.Paid = paid
	invoice.Remaining = remaining
	invoice.Status = status
	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = userID
	return nil
}

// updatePaymentAllocated writes a payment's allocated total.
func updatePaymentAllocated(ctx context.Context, tx pgx.Tx, paymentID string, allocated decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE payments
		SET allocated = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE payment_id = $1;
	`
	if _, err := tx.Exec(ctx, query, paymentID, allocated, now, userID); err != nil {
		return apperrors.NewAppError(500, "failed to update payment allocation "+paymentID, err)
	}
	return nil
}

// PostTranche allocates part of a payment to an invoice in one transaction.
// The invoice and payment rows are locked FOR UPDATE and the over-allocation
// invariants are re-checked under the locks, so concurrent allocations cannot
// overshoot either total. Returns the updated invoice.
func (r *PgxPaymentRepository) PostTranche(ctx context.Context, tranche domain.PaymentTranche, userID string, now time.Time) (*domain.Invoice, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer r.Rollback(ctx, tx)

	// Lock order is invoices before payments everywhere, so concurrent
	// allocations cannot deadlock.
	invoice, err := lockInvoice(ctx, tx, tranche.InvoiceID)
	if err != nil {
		return nil, err
	}
	payment, err := lockPayment(ctx, tx, tranche.PaymentID)
	if err != nil {
		return nil, err
	}

	if payment.Status != domain.PaymentPosted {
		return nil, fmt.Errorf("%w: payment %s is %s, only posted payments can be allocated", apperrors.ErrConflict, payment.PaymentID, payment.Status)
	}
	if invoice.Status != domain.InvoicePosted && invoice.Status != domain.InvoicePartial {
		return nil, fmt.Errorf("%w: invoice %s is %s, only posted or partially paid invoices accept tranches", apperrors.ErrConflict, invoice.InvoiceID, invoice.Status)
	}
	unallocated := payment.Amount.Sub(payment.Allocated)
	if tranche.Amount.GreaterThan(unallocated) {
		return nil, fmt.Errorf("%w: tranche amount %s exceeds unallocated payment amount %s", apperrors.ErrConflict, tranche.Amount.String(), unallocated.String())
	}
	if tranche.Amount.GreaterThan(invoice.Remaining) {
		return nil, fmt.Errorf("%w: tranche amount %s exceeds invoice remaining amount %s", apperrors.ErrConflict, tranche.Amount.String(), invoice.Remaining.String())
	}

	if err := applyInvoiceAllocation(ctx, tx, invoice, invoice.Paid.Add(tranche.Amount), invoice.Remaining.Sub(tranche.Amount), userID, now); err != nil {
		return nil, err
	}
	if err := updatePaymentAllocated(ctx, tx, payment.PaymentID, payment.Allocated.Add(tranche.Amount), userID, now); err != nil {
		return nil, err
	}

	mt := mapping.ToModelTranche(tranche)
	trancheQuery := `
		INSERT INTO payment_tranches (tranche_id, payment_id, invoice_id, amount, status, payment_date, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	if _, err := tx.Exec(ctx, trancheQuery,
		mt.TrancheID,
		mt.PaymentID,
		mt.InvoiceID,
		mt.Amount,
		mt.Status,
		mt.PaymentDate,
		mt.CreatedAt,
		mt.CreatedBy,
		mt.LastUpdatedAt,
		mt.LastUpdatedBy,
	); err != nil {
		return nil, apperrors.NewAppError(500, "failed to insert tranche "+mt.TrancheID, err)
	}

	recQuery := `
		INSERT INTO reconciliations (reconciliation_id, invoice_id, payment_id, tranche_id, amount, status, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	if _, err := tx.Exec(ctx, recQuery,
		uuid.NewString(),
		tranche.InvoiceID,
		tranche.PaymentID,
		tranche.TrancheID,
		tranche.Amount,
		string(domain.ReconciliationCompleted),
		now,
		userID,
		now,
		userID,
	); err != nil {
		return nil, apperrors.NewAppError(500, "failed to insert reconciliation for tranche "+tranche.TrancheID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, apperrors.NewAppError(500, "failed to commit transaction for tranche "+tranche.TrancheID, err)
	}
	return invoice, nil
}

// CancelTranche reverses a posted tranche in one transaction and returns the
// updated invoice.
func (r *PgxPaymentRepository) CancelTranche(ctx context.Context, trancheID string, userID string, now time.Time) (*domain.Invoice, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer r.Rollback(ctx, tx)

	trancheQuery := `SELECT ` + trancheColumns + ` FROM payment_tranches WHERE tranche_id = $1 FOR UPDATE;`
	tranche, err := scanTranche(tx.QueryRow(ctx, trancheQuery, trancheID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock tranche "+trancheID, err)
	}
	if tranche.Status != domain.TranchePosted {
		return nil, fmt.Errorf("%w: tranche %s is %s, only posted tranches can be cancelled", apperrors.ErrConflict, trancheID, tranche.Status)
	}

	invoice, err := lockInvoice(ctx, tx, tranche.InvoiceID)
	if err != nil {
		return nil, err
	}
	payment, err := lockPayment(ctx, tx, tranche.PaymentID)
	if err != nil {
		return nil, err
	}

	if err := applyInvoiceAllocation(ctx, tx, invoice, invoice.Paid.Sub(tranche.Amount), invoice.Remaining.Add(tranche.Amount), userID, now); err != nil {
		return nil, err
	}
	if err := updatePaymentAllocated(ctx, tx, payment.PaymentID, payment.Allocated.Sub(tranche.Amount), userID, now); err != nil {
		return nil, err
	}

	cancelTrancheQuery := `
		UPDATE payment_tranches
		SET status = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE tranche_id = $1;
	`
	if _, err := tx.Exec(ctx, cancelTrancheQuery, trancheID, string(domain.TrancheCancelled), now, userID); err != nil {
		return nil, apperrors.NewAppError(500, "failed to cancel tranche "+trancheID, err)
	}

	cancelRecQuery := `
		UPDATE reconciliations
		SET status = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE tranche_id = $1;
	`
	if _, err := tx.Exec(ctx, cancelRecQuery, trancheID, string(domain.ReconciliationCancelled), now, userID); err != nil {
		return nil, apperrors.NewAppError(500, "failed to cancel reconciliation for tranche "+trancheID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, apperrors.NewAppError(500, "failed to commit transaction for tranche "+trancheID, err)
	}
	return invoice, nil
}
