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

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, name, rank, email, password, role, is_verified, created_at, updated_at, deleted_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Rank,
		&u.Email,
		&u.Password,
		&u.Role,
		&u.Verified,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.DeletedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND deleted_at IS NULL`
	return scanUser(r.db.QueryRow(ctx, query, userID))
}

func (r *UserRepository) GetByIDUnscoped(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, userID))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND deleted_at IS NULL`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE deleted_at IS NULL ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan users: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, name, rank, email, password, role, is_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.db.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Rank,
		user.Email,
		user.Password,
		user.Role,
		user.Verified,
		now,
		now,
	); err != nil {
		return translateError(err)
	}

	return nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET name = $1, rank = $2, updated_at = $3
		WHERE id = $4 AND deleted_at IS NULL
	`

	ct, err := r.db.Exec(ctx, query, user.Name, user.Rank, time.Now().UTC(), user.ID)
	if err != nil {
		return translateError(err)
	}

	if ct.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, userID uuid.UUID, role domain.Role) error {
	query := `UPDATE users SET role = $1, updated_at = $2 WHERE id = $3 AND deleted_at IS NULL`

	ct, err := r.db.Exec(ctx, query, role, time.Now().UTC(), userID)
	if err != nil {
		return translateError(err)
	}

	if ct.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	query := `UPDATE users SET password = $1, updated_at = $2 WHERE email = $3 AND deleted_at IS NULL`

	ct, err := r.db.Exec(ctx, query, passwordHash, time.Now().UTC(), email)
	if err != nil {
		return translateError(err)
	}

	if ct.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) SoftDelete(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE users SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`

	ct, err := r.db.Exec(ctx, query, time.Now().UTC(), userID)
	if err != nil {
		return err
	}

	if ct.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

const pendingColumns = `id, name, rank, email, password, created_at`

func scanPending(row pgx.Row) (*domain.PendingUser, error) {
	var p domain.PendingUser
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Rank,
		&p.Email,
		&p.Password,
		&p.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPendingNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *UserRepository) GetPendingByID(ctx context.Context, pendingID uuid.UUID) (*domain.PendingUser, error) {
	query := `SELECT ` + pendingColumns + ` FROM pending_users WHERE id = $1`
	return scanPending(r.db.QueryRow(ctx, query, pendingID))
}

func (r *UserRepository) GetPendingByEmail(ctx context.Context, email string) (*domain.PendingUser, error) {
	query := `SELECT ` + pendingColumns + ` FROM pending_users WHERE email = $1`
	return scanPending(r.db.QueryRow(ctx, query, email))
}

func (r *UserRepository) ListPending(ctx context.Context) ([]*domain.PendingUser, error) {
	query := `SELECT ` + pendingColumns + ` FROM pending_users ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending users: %w", err)
	}
	defer rows.Close()

	var pending []*domain.PendingUser
	for rows.Next() {
		p, err := scanPending(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending users: %w", err)
		}
		pending = append(pending, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return pending, nil
}

func (r *UserRepository) CreatePending(ctx context.Context, pending *domain.PendingUser) error {
	query := `
		INSERT INTO pending_users (id, name, rank, email, password, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	pending.CreatedAt = time.Now().UTC()

	if _, err := r.db.Exec(ctx, query,
		pending.ID,
		pending.Name,
		pending.Rank,
		pending.Email,
		pending.Password,
		pending.CreatedAt,
	); err != nil {
		return translateError(err)
	}

	return nil
}

func (r *UserRepository) DeletePending(ctx context.Context, email string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM pending_users WHERE email = $1`, email)
	return err
}
