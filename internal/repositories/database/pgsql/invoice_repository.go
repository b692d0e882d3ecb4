package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

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

type PgxInvoiceRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxInvoiceRepository creates a new repository for invoice data. The
// account repository is needed to apply balance changes when an invoice is
// posted together with its journal entry.
func newPgxInvoiceRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

// Ensure PgxInvoiceRepository implements portsrepo.InvoiceRepositoryFacade
var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

const invoiceColumns = `invoice_id, number, partner_id, journal_id, invoice_type, status, invoice_date, due_date, subtotal, vat_amount, total, paid, remaining, entry_id, notes, created_at, created_by, last_updated_at, last_updated_by`

// scanInvoice reads one invoice row into its domain representation.
func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var m models.Invoice
	var entryID sql.NullString

	err := row.Scan(
		&m.InvoiceID,
		&m.Number,
		&m.PartnerID,
		&m.JournalID,
		&m.InvoiceType,
		&m.Status,
		&m.InvoiceDate,
		&m.DueDate,
		&m.Subtotal,
		&m.VATAmount,
		&m.Total,
		&m.Paid,
		&m.Remaining,
		&entryID,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if entryID.Valid {
		m.EntryID = entryID.String
	}
	inv := mapping.ToDomainInvoice(m)
	return &inv, nil
}

// SaveInvoice persists a new invoice header and its lines in one transaction.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice, lines []domain.InvoiceLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelInvoice(invoice)
	headerQuery := `
		INSERT INTO invoices (invoice_id, number, partner_id, journal_id, invoice_type, status, invoice_date, due_date, subtotal, vat_amount, total, paid, remaining, entry_id, notes, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	_, err = tx.Exec(ctx, headerQuery,
		m.InvoiceID,
		m.Number,
		m.PartnerID,
		m.JournalID,
		m.InvoiceType,
		m.Status,
		m.InvoiceDate,
		m.DueDate,
		m.Subtotal,
		m.VATAmount,
		m.Total,
		m.Paid,
		m.Remaining,
		nullableID(m.EntryID),
		m.Notes,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: invoice number %s already exists", apperrors.ErrDuplicate, m.Number)
		}
		return apperrors.NewAppError(500, "failed to insert invoice "+m.InvoiceID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO invoice_lines (line_id, invoice_id, sequence, description, quantity, unit_price, discount, vat_rate, line_total, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	for _, line := range lines {
		ml := mapping.ToModelInvoiceLine(line)
		batch.Queue(lineQuery,
			ml.LineID,
			ml.InvoiceID,
			ml.Sequence,
			ml.Description,
			ml.Quantity,
			ml.UnitPrice,
			ml.Discount,
			ml.VATRate,
			ml.LineTotal,
			ml.CreatedAt,
			ml.CreatedBy,
			ml.LastUpdatedAt,
			ml.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute line batch for invoice "+m.InvoiceID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction for invoice "+m.InvoiceID, err)
	}
	return nil
}

// FindInvoiceByID retrieves an invoice by its ID.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1;`

	inv, err := scanInvoice(r.Pool.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice by ID %s: %w", invoiceID, err)
	}
	return inv, nil
}

// FindInvoiceByNumber retrieves an invoice by its unique number.
func (r *PgxInvoiceRepository) FindInvoiceByNumber(ctx context.Context, number string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE number = $1;`

	inv, err := scanInvoice(r.Pool.QueryRow(ctx, query, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice by number %s: %w", number, err)
	}
	return inv, nil
}

// FindLinesByInvoiceID retrieves invoice lines in sequence order.
func (r *PgxInvoiceRepository) FindLinesByInvoiceID(ctx context.Context, invoiceID string) ([]domain.InvoiceLine, error) {
	query := `
		SELECT line_id, invoice_id, sequence, description, quantity, unit_price, discount, vat_rate, line_total, created_at, created_by, last_updated_at, last_updated_by
		FROM invoice_lines
		WHERE invoice_id = $1
		ORDER BY sequence;
	`
	rows, err := r.Pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for invoice %s: %w", invoiceID, err)
	}
	defer rows.Close()

	lines := []models.InvoiceLine{}
	for rows.Next() {
		var m models.InvoiceLine
		err := rows.Scan(
			&m.LineID,
			&m.InvoiceID,
			&m.Sequence,
			&m.Description,
			&m.Quantity,
			&m.UnitPrice,
			&m.Discount,
			&m.VATRate,
			&m.LineTotal,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line row for invoice %s: %w", invoiceID, err)
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows for invoice %s: %w", invoiceID, err)
	}

	return mapping.ToDomainInvoiceLineSlice(lines), nil
}

// ListInvoices retrieves a page of invoices, optionally filtered by partner
// and status, newest first, plus the total matching count.
func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, partnerID *string, status *domain.InvoiceStatus, limit, offset int) ([]domain.Invoice, int64, error) {
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
	countQuery := `SELECT COUNT(*) FROM invoices ` + filterClause + `;`
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices ` + filterClause +
		` ORDER BY invoice_date DESC, created_at DESC LIMIT $` + strconv.Itoa(len(args)+1) +
		` OFFSET $` + strconv.Itoa(len(args)+2) + `;`
	args = append(args, limit, offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	invoices := []domain.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		invoices = append(invoices, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating invoice rows: %w", err)
	}

	return invoices, total, nil
}

// lockInvoice selects an invoice FOR UPDATE within a transaction.
func lockInvoice(ctx context.Context, tx pgx.Tx, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1 FOR UPDATE;`

	inv, err := scanInvoice(tx.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock invoice "+invoiceID, err)
	}
	return inv, nil
}

// UpdateInvoiceStatus transitions an invoice between lifecycle states. The
// expected current status is re-checked under the row lock so two concurrent
// transitions cannot both succeed.
func (r *PgxInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, invoiceID string, expected, next domain.InvoiceStatus, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer r.Rollback(ctx, tx)

	inv, err := lockInvoice(ctx, tx, invoiceID)
	if err != nil {
		return err
	}
	if inv.Status != expected {
		return fmt.Errorf("%w: invoice %s is %s, expected %s", apperrors.ErrConflict, invoiceID, inv.Status, expected)
	}

	updateQuery := `
		UPDATE invoices
		SET status = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE invoice_id = $1;
	`
	if _, err := tx.Exec(ctx, updateQuery, invoiceID, string(next), now, userID); err != nil {
		return apperrors.NewAppError(500, "failed to update invoice status "+invoiceID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction for invoice "+invoiceID, err)
	}
	return nil
}

// PostInvoiceWithEntry transitions a VALIDATED invoice to POSTED, persists the
// already-posted journal entry with its lines, applies the balance deltas to
// the touched accounts and links the entry to the invoice, all in one
// transaction. The status check is re-done under the row lock so two
// concurrent posts cannot both succeed, and a failure at any step leaves the
// invoice untouched.
func (r *PgxInvoiceRepository) PostInvoiceWithEntry(ctx context.Context, invoiceID string, entry domain.JournalEntry, lines []domain.EntryLine, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer r.Rollback(ctx, tx)

	inv, err := lockInvoice(ctx, tx, invoiceID)
	if err != nil {
		return err
	}
	if inv.Status != domain.InvoiceValidated {
		return fmt.Errorf("%w: invoice %s is %s, expected %s", apperrors.ErrConflict, invoiceID, inv.Status, domain.InvoiceValidated)
	}

	if err := insertEntryHeader(ctx, tx, entry); err != nil {
		return err
	}
	batch := &pgx.Batch{}
	for _, line := range lines {
		queueEntryLine(batch, line)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute line batch for entry "+entry.EntryID, err)
	}

	accountIDs := make([]string, 0, len(balanceChanges))
	for accID := range balanceChanges {
		accountIDs = append(accountIDs, accID)
	}
	if _, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs); err != nil {
		return apperrors.NewAppError(500, "failed to lock accounts for update", err)
	}
	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, userID, now); err != nil {
		return apperrors.NewAppError(500, "failed to update account balances", err)
	}

	updateQuery := `
		UPDATE invoices
		SET status = $2,
		    entry_id = $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE invoice_id = $1;
	`
	if _, err := tx.Exec(ctx, updateQuery, invoiceID, string(domain.InvoicePosted), entry.EntryID, now, userID); err != nil {
		return apperrors.NewAppError(500, "failed to mark invoice posted "+invoiceID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction for invoice "+invoiceID, err)
	}
	return nil
}

// CancelInvoice transitions an invoice to CANCELLED and unwinds its posted
// tranches in one transaction. Each tranche and its reconciliation record are
// marked cancelled and the allocated amounts are returned to their payments.
// Paid and already-cancelled invoices are rejected under the row lock.
func (r *PgxInvoiceRepository) CancelInvoice(ctx context.Context, invoiceID string, userID string, now time.Time) (*domain.Invoice, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer r.Rollback(ctx, tx)

	// Lock order is invoices before payments everywhere, so cancellation
	// cannot deadlock against concurrent allocations.
	invoice, err := lockInvoice(ctx, tx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status == domain.InvoicePaid || invoice.Status == domain.InvoiceCancelled {
		return nil, fmt.Errorf("%w: invoice %s is %s and cannot be cancelled", apperrors.ErrConflict, invoiceID, invoice.Status)
	}

	trancheQuery := `SELECT ` + trancheColumns + ` FROM payment_tranches WHERE invoice_id = $1 AND status = $2 FOR UPDATE;`
	rows, err := tx.Query(ctx, trancheQuery, invoiceID, string(domain.TranchePosted))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to lock tranches for invoice "+invoiceID, err)
	}
	tranches := []domain.PaymentTranche{}
	for rows.Next() {
		t, err := scanTranche(rows)
		if err != nil {
			rows.Close()
			return nil, apperrors.NewAppError(500, "failed to scan tranche row for invoice "+invoiceID, err)
		}
		tranches = append(tranches, *t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating tranche rows for invoice "+invoiceID, err)
	}

	for _, tranche := range tranches {
		payment, err := lockPayment(ctx, tx, tranche.PaymentID)
		if err != nil {
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
		if _, err := tx.Exec(ctx, cancelTrancheQuery, tranche.TrancheID, string(domain.TrancheCancelled), now, userID); err != nil {
			return nil, apperrors.NewAppError(500, "failed to cancel tranche "+tranche.TrancheID, err)
		}

		cancelRecQuery := `
			UPDATE reconciliations
			SET status = $2,
			    last_updated_at = $3,
			    last_updated_by = $4
			WHERE tranche_id = $1;
		`
		if _, err := tx.Exec(ctx, cancelRecQuery, tranche.TrancheID, string(domain.ReconciliationCancelled), now, userID); err != nil {
			return nil, apperrors.NewAppError(500, "failed to cancel reconciliation for tranche "+tranche.TrancheID, err)
		}
	}

	cancelQuery := `
		UPDATE invoices
		SET status = $2,
		    paid = $3,
		    remaining = $4,
		    last_updated_at = $5,
		    last_updated_by = $6
		WHERE invoice_id = $1;
	`
	if _, err := tx.Exec(ctx, cancelQuery, invoiceID, string(domain.InvoiceCancelled), decimal.Zero, invoice.Total, now, userID); err != nil {
		return nil, apperrors.NewAppError(500, "failed to cancel invoice "+invoiceID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, apperrors.NewAppError(500, "failed to commit transaction for invoice "+invoiceID, err)
	}

	invoice.Status = domain.InvoiceCancelled
	invoice.Paid = decimal.Zero
	invoice.Remaining = invoice.Total
	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = userID
	return invoice, nil
}
