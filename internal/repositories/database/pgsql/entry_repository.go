package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/openbooks/ledger_backend/internal/apperrors"
	"github.com/openbooks/ledger_backend/internal/core/domain"
	portsrepo "github.com/openbooks/ledger_backend/internal/core/ports/repositories"
	"github.com/openbooks/ledger_backend/internal/models"
	"github.com/openbooks/ledger_backend/internal/utils/mapping"
	"github.com/openbooks/ledger_backend/internal/utils/pagination"
)

type PgxEntryRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxEntryRepository creates a new repository for journal entry and line data.
// Posting needs the account repository's in-transaction balance helpers.
func newPgxEntryRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.EntryRepositoryFacade {
	return &PgxEntryRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

// Ensure PgxEntryRepository implements portsrepo.EntryRepositoryFacade
var _ portsrepo.EntryRepositoryFacade = (*PgxEntryRepository)(nil)

const entryColumns = `entry_id, journal_id, reference, entry_date, description, status, total_amount, posted_at, posted_by, reversed_at, reversed_by, created_at, created_by, last_updated_at, last_updated_by`

const entryLineColumns = `line_id, entry_id, account_id, partner_id, debit, credit, description, created_at, created_by, last_updated_at, last_updated_by`

const insertEntryLineQuery = `
	INSERT INTO entry_lines (line_id, entry_id, account_id, partner_id, debit, credit, description, created_at, created_by, last_updated_at, last_updated_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
`

// scanEntry reads one journal entry header row into its domain representation.
func scanEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var m models.JournalEntry
	var postedBy, reversedBy sql.NullString

	err := row.Scan(
		&m.EntryID,
		&m.JournalID,
		&m.Reference,
		&m.EntryDate,
		&m.Description,
		&m.Status,
		&m.TotalAmount,
		&m.PostedAt,
		&postedBy,
		&m.ReversedAt,
		&reversedBy,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if postedBy.Valid {
		m.PostedBy = postedBy.String
	}
	if reversedBy.Valid {
		m.ReversedBy = reversedBy.String
	}
	e := mapping.ToDomainJournalEntry(m)
	return &e, nil
}

// scanEntryLine reads one entry line row into its model representation.
func scanEntryLine(row pgx.Row) (models.EntryLine, error) {
	var m models.EntryLine
	var partnerID sql.NullString

	err := row.Scan(
		&m.LineID,
		&m.EntryID,
		&m.AccountID,
		&partnerID,
		&m.Debit,
		&m.Credit,
		&m.Description,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.EntryLine{}, err
	}
	if partnerID.Valid {
		m.PartnerID = partnerID.String
	}
	return m, nil
}

// queueEntryLine adds a line insert to a batch.
func queueEntryLine(batch *pgx.Batch, line domain.EntryLine) {
	m := mapping.ToModelEntryLine(line)
	batch.Queue(insertEntryLineQuery,
		m.LineID,
		m.EntryID,
		m.AccountID,
		nullableID(m.PartnerID),
		m.Debit,
		m.Credit,
		m.Description,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
}

// FindEntryByID retrieves a specific entry header by its ID.
func (r *PgxEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`

	e, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entry by ID %s: %w", entryID, err)
	}
	return e, nil
}

// FindLinesByEntryID retrieves all lines of a single entry in creation order.
func (r *PgxEntryRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.EntryLine, error) {
	query := `SELECT ` + entryLineColumns + ` FROM entry_lines WHERE entry_id = $1 ORDER BY created_at, line_id;`

	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entry %s: %w", entryID, err)
	}
	defer rows.Close()

	lines := []models.EntryLine{}
	for rows.Next() {
		m, err := scanEntryLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line row for entry %s: %w", entryID, err)
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows for entry %s: %w", entryID, err)
	}

	return mapping.ToDomainEntryLineSlice(lines), nil
}

// FindLinesByEntryIDs retrieves lines for multiple entries, grouped by entry ID.
// Entries with no lines still get an empty slice in the result.
func (r *PgxEntryRepository) FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.EntryLine, error) {
	if len(entryIDs) == 0 {
		return map[string][]domain.EntryLine{}, nil
	}

	query := `SELECT ` + entryLineColumns + ` FROM entry_lines WHERE entry_id = ANY($1) ORDER BY entry_id, created_at, line_id;`

	rows, err := r.Pool.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entry IDs: %w", err)
	}
	defer rows.Close()

	linesMap := make(map[string][]domain.EntryLine)
	for rows.Next() {
		m, err := scanEntryLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line row during batch fetch: %w", err)
		}
		line := mapping.ToDomainEntryLine(m)
		linesMap[line.EntryID] = append(linesMap[line.EntryID], line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows during batch fetch: %w", err)
	}

	for _, id := range entryIDs {
		if _, exists := linesMap[id]; !exists {
			linesMap[id] = []domain.EntryLine{}
		}
	}

	return linesMap, nil
}

// ListEntriesByDateRange retrieves a page of entry headers with entry_date in
// [from, to], optionally filtered by status, plus the total matching count.
func (r *PgxEntryRepository) ListEntriesByDateRange(ctx context.Context, from, to time.Time, status *domain.EntryStatus, limit, offset int) ([]domain.JournalEntry, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	filterClause := `WHERE entry_date >= $1 AND entry_date <= $2`
	args := []interface{}{from, to}
	if status != nil {
		args = append(args, string(*status))
		filterClause += ` AND status = $` + strconv.Itoa(len(args))
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM journal_entries ` + filterClause + `;`
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count entries: %w", err)
	}

	query := `SELECT ` + entryColumns + ` FROM journal_entries ` + filterClause +
		` ORDER BY entry_date DESC, created_at DESC LIMIT $` + strconv.Itoa(len(args)+1) +
		` OFFSET $` + strconv.Itoa(len(args)+2) + `;`
	args = append(args, limit, offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan entry row: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating entry rows: %w", err)
	}

	return entries, total, nil
}

// ListLinesByAccountID retrieves a paginated list of posted lines for a specific
// account using token-based pagination, newest entries first.
// It returns the lines, a token for the next page, and an error.
func (r *PgxEntryRepository) ListLinesByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.EntryLine, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to determine whether there is a next page.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT l.line_id, l.entry_id, l.account_id, l.partner_id, l.debit, l.credit, l.description,
		       l.created_at, l.created_by, l.last_updated_at, l.last_updated_by, e.entry_date
		FROM entry_lines l
		JOIN journal_entries e ON l.entry_id = e.entry_id
		WHERE l.account_id = $1 AND e.status = 'POSTED'
	`
	// Ordering must be stable so the cursor positions uniquely.
	orderByClause := `ORDER BY e.entry_date DESC, l.created_at DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{accountID}

	if nextToken != nil && *nextToken != "" {
		lastEntryDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}

		// Tuple comparison keeps the cursor condition aligned with the ordering.
		cursorClause := `AND (e.entry_date, l.created_at) < ($2, $3)`
		args = append(args, lastEntryDate, lastCreatedAt)

		query := baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}

	if err != nil {
		return nil, nil, fmt.Errorf("failed to query lines for account %s: %w", accountID, err)
	}
	defer rows.Close()

	type lineWithDate struct {
		line      models.EntryLine
		entryDate time.Time
	}

	fetched := make([]lineWithDate, 0, fetchLimit)
	for rows.Next() {
		var m models.EntryLine
		var partnerID sql.NullString
		var entryDate time.Time

		scanErr := rows.Scan(
			&m.LineID,
			&m.EntryID,
			&m.AccountID,
			&partnerID,
			&m.Debit,
			&m.Credit,
			&m.Description,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
			&entryDate,
		)
		if scanErr != nil {
			return nil, nil, fmt.Errorf("failed to scan line row for account %s: %w", accountID, scanErr)
		}
		if partnerID.Valid {
			m.PartnerID = partnerID.String
		}
		fetched = append(fetched, lineWithDate{line: m, entryDate: entryDate})
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating line rows for account %s: %w", accountID, err)
	}

	var nextTokenVal *string
	results := fetched
	if len(fetched) > limit {
		// The token points at the last item included in this page; the next
		// query starts strictly after it.
		last := fetched[limit-1]
		token := pagination.EncodeToken(last.entryDate, last.line.CreatedAt)
		nextTokenVal = &token
		results = fetched[:limit]
	}

	lines := make([]domain.EntryLine, len(results))
	for i, f := range results {
		lines[i] = mapping.ToDomainEntryLine(f.line)
	}

	return lines, nextTokenVal, nil
}

// SaveEntry persists a new draft entry header and its lines in one transaction.
func (r *PgxEntryRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.EntryLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer r.Rollback(ctx, tx)

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

	if err := r.Commit(ctx, tx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction for entry "+entry.EntryID, err)
	}
	return nil
}

// insertEntryHeader inserts the journal_entries row within a transaction.
func insertEntryHeader(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)

	query := `
		INSERT INTO journal_entries (entry_id, journal_id, reference, entry_date, description, status, total_amount, posted_at, posted_by, reversed_at, reversed_by, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`

	_, err := tx.Exec(ctx, query,
		m.EntryID,
		m.JournalID,
		m.Reference,
		m.EntryDate,
		m.Description,
		m.Status,
		m.TotalAmount,
		m.PostedAt,
		nullableID(m.PostedBy),
		m.ReversedAt,
		nullableID(m.ReversedBy),
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert entry "+m.EntryID, err)
	}
	return nil
}

// ReplaceEntryLines updates a draft entry's header and replaces all of its
// lines atomically. The draft status is re-checked under the row lock.
func (r *PgxEntryRepository) ReplaceEntryLines(ctx context.Context, entry domain.JournalEntry, lines []domain.EntryLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer r.Rollback(ctx, tx)

	status, err := lockEntryStatus(ctx, tx, entry.EntryID)
	if err != nil {
		return err
	}
	if status != domain.EntryDraft {
		return fmt.Errorf("%w: entry %s is %s, only draft entries can be edited", apperrors.ErrConflict, entry.EntryID, status)
	}

	m := mapping.ToModelJournalEntry(entry)
	headerQuery := `
		UPDATE journal_entries
		SET journal_id = $2,
		    reference = $3,
		    entry_date = $4,
		    description = $5,
		    total_amount = $6,
		    last_updated_at = $7,
		    last_updated_by = $8
		WHERE entry_id = $1;
	`
	if _, err := tx.Exec(ctx, headerQuery,
		m.EntryID,
		m.JournalID,
		m.Reference,
		m.EntryDate,
		m.Description,
		m.TotalAmount,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	); err != nil {
		return apperrors.NewAppError(500, "failed to update entry header "+m.EntryID, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM entry_lines WHERE entry_id = $1;`, entry.EntryID); err != nil {
		return apperrors.NewAppError(500, "failed to delete old lines for entry "+entry.EntryID, err)
	}

	batch := &pgx.Batch{}
	for _, line := range lines {
		queueEntryLine(batch, line)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute line batch for entry "+entry.EntryID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction for entry "+entry.EntryID, err)
	}
	return nil
}

// lockEntryStatus selects an entry's status FOR UPDATE within a transaction.
func lockEntryStatus(ctx context.Context, tx pgx.Tx, entryID string) (domain.EntryStatus, error) {
	var status string
	err := tx.QueryRow(ctx, `SELECT status FROM journal_entries WHERE entry_id = $1 FOR UPDATE;`, entryID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrNotFound
		}
		return "", apperrors.NewAppError(500, "failed to lock entry "+entryID, err)
	}
	return domain.EntryStatus(status), nil
}

// PostEntry transitions a draft entry to POSTED and applies the signed balance
// deltas to the touched accounts, all in one transaction. The status check is
// re-done under the row lock so two concurrent posts cannot both succeed.
func (r *PgxEntryRepository) PostEntry(ctx context.Context, entryID string, userID string, postedAt time.Time, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer r.Rollback(ctx, tx)

	status, err := lockEntryStatus(ctx, tx, entryID)
	if err != nil {
		return err
	}
	if status != domain.EntryDraft {
		return fmt.Errorf("%w: entry %s is %s, only draft entries can be posted", apperrors.ErrConflict, entryID, status)
	}

	updateQuery := `
		UPDATE journal_entries
		SET status = $2,
		    posted_at = $3,
		    posted_by = $4,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE entry_id = $1;
	`
	if _, err := tx.Exec(ctx, updateQuery, entryID, string(domain.EntryPosted), postedAt, userID); err != nil {
		return apperrors.NewAppError(500, "failed to mark entry posted "+entryID, err)
	}

	accountIDs := make([]string, 0, len(balanceChanges))
	for accID := range balanceChanges {
		accountIDs = append(accountIDs, accID)
	}

	if _, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs); err != nil {
		return apperrors.NewAppError(500, "failed to lock accounts for update", err)
	}
	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, userID, postedAt); err != nil {
		return apperrors.NewAppError(500, "failed to update account balances", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction for entry "+entryID, err)
	}
	return nil
}

// MarkEntryReversed flips a posted entry's status to REVERSED and stamps the
// reversing user. Balances are left untouched.
func (r *PgxEntryRepository) MarkEntryReversed(ctx context.Context, entryID string, userID string, reversedAt time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = $2,
		    reversed_at = $3,
		    reversed_by = $4,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE entry_id = $1 AND status = $5;
	`

	cmdTag, err := r.Pool.Exec(ctx, query,
		entryID,
		string(domain.EntryReversed),
		reversedAt,
		userID,
		string(domain.EntryPosted),
	)
	if err != nil {
		return fmt.Errorf("failed to mark entry reversed %s: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Either the entry does not exist or it is not in POSTED status.
		if _, findErr := r.FindEntryByID(ctx, entryID); findErr != nil {
			return findErr
		}
		return fmt.Errorf("%w: entry %s is not posted, cannot reverse", apperrors.ErrConflict, entryID)
	}
	return nil
}

// DeleteEntry removes a draft entry and all of its lines in one transaction.
func (r *PgxEntryRepository) DeleteEntry(ctx context.Context, entryID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer r.Rollback(ctx, tx)

	status, err := lockEntryStatus(ctx, tx, entryID)
	if err != nil {
		return err
	}
	if status != domain.EntryDraft {
		return fmt.Errorf("%w: entry %s is %s, only draft entries can be deleted", apperrors.ErrConflict, entryID, status)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM entry_lines WHERE entry_id = $1;`, entryID); err != nil {
		return apperrors.NewAppError(500, "failed to delete lines for entry "+entryID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1;`, entryID); err != nil {
		return apperrors.NewAppError(500, "failed to delete entry "+entryID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction for entry "+entryID, err)
	}
	return nil
}
