package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"casetrack/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CaseRepository struct {
	db *pgxpool.Pool
}

func NewCaseRepository(db *pgxpool.Pool) domain.CaseRepository {
	return &CaseRepository{db: db}
}

const caseColumns = `id, case_number, title, priority, status, section_under_ipc, deadline, assigned_officer_id, created_at, updated_at`

func scanCase(row pgx.Row) (*domain.Case, error) {
	var c domain.Case
	if err := row.Scan(
		&c.ID,
		&c.CaseNumber,
		&c.Title,
		&c.Priority,
		&c.Status,
		&c.SectionUnderIPC,
		&c.Deadline,
		&c.AssignedOfficerID,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCaseNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CaseRepository) Create(ctx context.Context, c *domain.Case) error {
	query := `
		INSERT INTO cases (id, case_number, title, priority, status, section_under_ipc, deadline, assigned_officer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := r.db.Exec(ctx, query,
		c.ID,
		c.CaseNumber,
		c.Title,
		c.Priority,
		c.Status,
		c.SectionUnderIPC,
		c.Deadline,
		c.AssignedOfficerID,
		now,
		now,
	); err != nil {
		return translateError(err)
	}

	return nil
}

func (r *CaseRepository) GetByID(ctx context.Context, caseID uuid.UUID) (*domain.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE id = $1`
	return scanCase(r.db.QueryRow(ctx, query, caseID))
}

func (r *CaseRepository) List(ctx context.Context) ([]*domain.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query cases: %w", err)
	}
	defer rows.Close()

	var cases []*domain.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cases: %w", err)
		}
		cases = append(cases, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return cases, nil
}

func (r *CaseRepository) CountByOfficer(ctx context.Context, officerID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM cases WHERE assigned_officer_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, officerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count assigned cases: %w", err)
	}

	return count, nil
}

func (r *CaseRepository) UpdateStatus(ctx context.Context, caseID uuid.UUID, status domain.CaseStatus) error {
	query := `UPDATE cases SET status = $1, updated_at = $2 WHERE id = $3`

	ct, err := r.db.Exec(ctx, query, status, time.Now().UTC(), caseID)
	if err != nil {
		return translateError(err)
	}

	if ct.RowsAffected() == 0 {
		return domain.ErrCaseNotFound
	}

	return nil
}

func (r *CaseRepository) UpdateAssignee(ctx context.Context, caseID uuid.UUID, officerID uuid.UUID) error {
	query := `UPDATE cases SET assigned_officer_id = $1, updated_at = $2 WHERE id = $3`

	ct, err := r.db.Exec(ctx, query, officerID, time.Now().UTC(), caseID)
	if err != nil {
		return translateError(err)
	}

	if ct.RowsAffected() == 0 {
		return domain.ErrCaseNotFound
	}

	return nil
}
