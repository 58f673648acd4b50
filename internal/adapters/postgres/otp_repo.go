package postgres

import (
	"context"
	"errors"
	"time"

	"casetrack/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OTPRepository struct {
	db *pgxpool.Pool
}

func NewOTPRepository(db *pgxpool.Pool) domain.OTPRepository {
	return &OTPRepository{db: db}
}

func (r *OTPRepository) Upsert(ctx context.Context, code *domain.OneTimeCode) error {
	// Last writer wins: a concurrent re-issue for the same email replaces the
	// previous code, so at most one code per email is ever valid.
	query := `
		INSERT INTO otps (email, code, purpose, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE
		SET code = EXCLUDED.code, purpose = EXCLUDED.purpose,
		    expires_at = EXCLUDED.expires_at, created_at = EXCLUDED.created_at
	`

	code.CreatedAt = time.Now().UTC()

	if _, err := r.db.Exec(ctx, query,
		code.Email,
		code.Code,
		code.Purpose,
		code.ExpiresAt,
		code.CreatedAt,
	); err != nil {
		return translateError(err)
	}

	return nil
}

func (r *OTPRepository) GetByEmail(ctx context.Context, email string) (*domain.OneTimeCode, error) {
	query := `SELECT email, code, purpose, expires_at, created_at FROM otps WHERE email = $1`

	var c domain.OneTimeCode
	if err := r.db.QueryRow(ctx, query, email).Scan(
		&c.Email,
		&c.Code,
		&c.Purpose,
		&c.ExpiresAt,
		&c.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOTPNotFound
		}
		return nil, err
	}

	return &c, nil
}

func (r *OTPRepository) Delete(ctx context.Context, email string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM otps WHERE email = $1`, email)
	return err
}

func (r *OTPRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	ct, err := r.db.Exec(ctx, `DELETE FROM otps WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}
