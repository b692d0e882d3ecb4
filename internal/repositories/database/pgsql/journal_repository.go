package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openbooks/ledger_backend/internal/apperrors"
	"github.com/openbooks/ledger_backend/internal/core/domain"
	portsrepo "github.com/openbooks/ledger_backend/internal/core/ports/repositories"
	"github.com/openbooks/ledger_backend/internal/models"
	"github.com/openbooks/ledger_backend/internal/utils/mapping"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal registry data.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const journalColumns = `journal_id, code, name, journal_type, default_debit_account_id, default_credit_account_id, is_active, created_at, created_by, last_updated_at, last_updated_by`

// scanJournal reads one journal row into its domain representation.
func scanJournal(row pgx.Row) (*domain.Journal, error) {
	var m models.Journal
	var debitID, creditID sql.NullString

	err := row.Scan(
		&m.JournalID,
		&m.Code,
		&m.Name,
		&m.JournalType,
		&debitID,
		&creditID,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if debitID.Valid {
		m.DefaultDebitAccountID = debitID.String
	}
	if creditID.Valid {
		m.DefaultCreditAccountID = creditID.String
	}
	j := mapping.ToDomainJournal(m)
	return &j, nil
}

// nullableID maps empty string to SQL NULL.
func nullableID(id string) sql.NullString {
	if id == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: id, Valid: true}
}

// SaveJournal inserts a new journal.
func (r *PgxJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal) error {
	m := mapping.ToModelJournal(journal)

	query := `
		INSERT INTO journals (journal_id, code, name, journal_type, default_debit_account_id, default_credit_account_id, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`

	_, err := r.Pool.Exec(ctx, query,
		m.JournalID,
		m.Code,
		m.Name,
		m.JournalType,
		nullableID(m.DefaultDebitAccountID),
		nullableID(m.DefaultCreditAccountID),
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: journal code %s already exists", apperrors.ErrDuplicate, m.Code)
		}
		return fmt.Errorf("failed to save journal %s: %w", m.JournalID, err)
	}
	return nil
}

// FindJournalByID retrieves a journal by its ID.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE journal_id = $1;`

	j, err := scanJournal(r.Pool.QueryRow(ctx, query, journalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find journal by ID %s: %w", journalID, err)
	}
	return j, nil
}

// FindJournalByCode retrieves a journal by its unique code.
func (r *PgxJournalRepository) FindJournalByCode(ctx context.Context, code string) (*domain.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE code = $1;`

	j, err := scanJournal(r.Pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find journal by code %s: %w", code, err)
	}
	return j, nil
}

// ListJournals retrieves a paginated list of journals ordered by code, plus
// the total count.
func (r *PgxJournalRepository) ListJournals(ctx context.Context, limit, offset int) ([]domain.Journal, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var total int64
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM journals;`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count journals: %w", err)
	}

	query := `SELECT ` + journalColumns + ` FROM journals ORDER BY code LIMIT $1 OFFSET $2;`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query journals: %w", err)
	}
	defer rows.Close()

	journals := []domain.Journal{}
	for rows.Next() {
		j, err := scanJournal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan journal row: %w", err)
		}
		journals = append(journals, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating journal rows: %w", err)
	}

	return journals, total, nil
}

// UpdateJournal updates a journal's mutable fields. Code and type are fixed.
func (r *PgxJournalRepository) UpdateJournal(ctx context.Context, journal domain.Journal) error {
	m := mapping.ToModelJournal(journal)

	query := `
		UPDATE journals
		SET name = $2,
		    default_debit_account_id = $3,
		    default_credit_account_id = $4,
		    is_active = $5,
		    last_updated_at = $6,
		    last_updated_by = $7
		WHERE journal_id = $1;
	`

	cmdTag, err := r.Pool.Exec(ctx, query,
		m.JournalID,
		m.Name,
		nullableID(m.DefaultDebitAccountID),
		nullableID(m.DefaultCreditAccountID),
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update journal %s: %w", m.JournalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
