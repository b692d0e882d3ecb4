package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openbooks/ledger_backend/internal/apperrors"
	"github.com/openbooks/ledger_backend/internal/core/domain"
	portsrepo "github.com/openbooks/ledger_backend/internal/core/ports/repositories"
	"github.com/openbooks/ledger_backend/internal/models"
	"github.com/openbooks/ledger_backend/internal/utils/mapping"
)

type PgxPartnerRepository struct {
	BaseRepository
}

// newPgxPartnerRepository creates a new repository for partner reference data.
func newPgxPartnerRepository(pool *pgxpool.Pool) portsrepo.PartnerRepositoryFacade {
	return &PgxPartnerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxPartnerRepository implements portsrepo.PartnerRepositoryFacade
var _ portsrepo.PartnerRepositoryFacade = (*PgxPartnerRepository)(nil)

const partnerColumns = `partner_id, name, partner_type, email, phone, credit_limit, total_debit, total_credit, balance, is_active, created_at, created_by, last_updated_at, last_updated_by`

// scanPartner reads one partner row into its domain representation.
func scanPartner(row pgx.Row) (*domain.Partner, error) {
	var m models.Partner

	err := row.Scan(
		&m.PartnerID,
		&m.Name,
		&m.PartnerType,
		&m.Email,
		&m.Phone,
		&m.CreditLimit,
		&m.TotalDebit,
		&m.TotalCredit,
		&m.Balance,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	p := mapping.ToDomainPartner(m)
	return &p, nil
}

// SavePartner persists a new partner.
func (r *PgxPartnerRepository) SavePartner(ctx context.Context, partner domain.Partner) error {
	m := mapping.ToModelPartner(partner)

	query := `
		INSERT INTO partners (partner_id, name, partner_type, email, phone, credit_limit, total_debit, total_credit, balance, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`

	_, err := r.Pool.Exec(ctx, query,
		m.PartnerID,
		m.Name,
		m.PartnerType,
		m.Email,
		m.Phone,
		m.CreditLimit,
		m.TotalDebit,
		m.TotalCredit,
		m.Balance,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: partner %s already exists", apperrors.ErrDuplicate, m.PartnerID)
		}
		return fmt.Errorf("failed to save partner %s: %w", m.PartnerID, err)
	}
	return nil
}

// FindPartnerByID retrieves a partner by its ID.
func (r *PgxPartnerRepository) FindPartnerByID(ctx context.Context, partnerID string) (*domain.Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partners WHERE partner_id = $1;`

	p, err := scanPartner(r.Pool.QueryRow(ctx, query, partnerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find partner by ID %s: %w", partnerID, err)
	}
	return p, nil
}

// ListPartners retrieves a page of partners ordered by name, optionally
// filtered by type, plus the total matching count.
func (r *PgxPartnerRepository) ListPartners(ctx context.Context, partnerType *domain.PartnerType, limit, offset int) ([]domain.Partner, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	filterClause := ``
	args := []interface{}{}
	if partnerType != nil {
		args = append(args, string(*partnerType))
		filterClause = `WHERE partner_type = $` + strconv.Itoa(len(args))
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM partners ` + filterClause + `;`
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count partners: %w", err)
	}

	query := `SELECT ` + partnerColumns + ` FROM partners ` + filterClause +
		` ORDER BY name LIMIT $` + strconv.Itoa(len(args)+1) +
		` OFFSET $` + strconv.Itoa(len(args)+2) + `;`
	args = append(args, limit, offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query partners: %w", err)
	}
	defer rows.Close()

	partners := []domain.Partner{}
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan partner row: %w", err)
		}
		partners = append(partners, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating partner rows: %w", err)
	}

	return partners, total, nil
}

// UpdatePartner updates an existing partner's details.
func (r *PgxPartnerRepository) UpdatePartner(ctx context.Context, partner domain.Partner) error {
	m := mapping.ToModelPartner(partner)

	query := `
		UPDATE partners
		SET name = $2,
		    email = $3,
		    phone = $4,
		    credit_limit = $5,
		    is_active = $6,
		    last_updated_at = $7,
		    last_updated_by = $8
		WHERE partner_id = $1;
	`

	cmdTag, err := r.Pool.Exec(ctx, query,
		m.PartnerID,
		m.Name,
		m.Email,
		m.Phone,
		m.CreditLimit,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update partner %s: %w", m.PartnerID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
