package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/F0u4d8/whelhost-PMS-sub002/internal/domain"
)

type AccessCodeRepository interface {
	Create(ctx context.Context, q Querier, c *domain.AccessCode) error
	ListByBooking(ctx context.Context, q Querier, bookingID int64) ([]domain.AccessCode, error)
	// RevokeAllForBooking deactivates every active code for the booking and
	// returns how many rows changed.
	RevokeAllForBooking(ctx context.Context, q Querier, bookingID int64, at time.Time) (int64, error)
	CountActive(ctx context.Context, q Querier, bookingID int64) (int64, error)
}

type accessCodeRepository struct{}

func NewAccessCodeRepository() AccessCodeRepository { return &accessCodeRepository{} }

const accessCodeCols = `id, booking_id, provider, device_id, code, valid_from, valid_until, is_active, revoked_at, created_at`

func scanAccessCode(row pgx.Row) (*domain.AccessCode, error) {
	var c domain.AccessCode
	err := row.Scan(&c.ID, &c.BookingID, &c.Provider, &c.DeviceID, &c.Code,
		&c.ValidFrom, &c.ValidUntil, &c.IsActive, &c.RevokedAt, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *accessCodeRepository) Create(ctx context.Context, q Querier, c *domain.AccessCode) error {
	const sql = `INSERT INTO access_codes (booking_id, provider, device_id, code, valid_from, valid_until, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,true)
		RETURNING ` + accessCodeCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	created, err := scanAccessCode(q.QueryRow(ctx, sql, c.BookingID, c.Provider, c.DeviceID,
		c.Code, c.ValidFrom, c.ValidUntil))
	if err != nil {
		return err
	}
	*c = *created
	return nil
}

func (r *accessCodeRepository) ListByBooking(ctx context.Context, q Querier, bookingID int64) ([]domain.AccessCode, error) {
	const sql = `SELECT ` + accessCodeCols + ` FROM access_codes WHERE booking_id=$1 ORDER BY id`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := q.Query(ctx, sql, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AccessCode
	for rows.Next() {
		var c domain.AccessCode
		if err := rows.Scan(&c.ID, &c.BookingID, &c.Provider, &c.DeviceID, &c.Code,
			&c.ValidFrom, &c.ValidUntil, &c.IsActive, &c.RevokedAt, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *accessCodeRepository) RevokeAllForBooking(ctx context.Context, q Querier, bookingID int64, at time.Time) (int64, error) {
	const sql = `UPDATE access_codes SET is_active=false, revoked_at=$2
		WHERE booking_id=$1 AND is_active=true`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := q.Exec(ctx, sql, bookingID, at)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func (r *accessCodeRepository) CountActive(ctx context.Context, q Querier, bookingID int64) (int64, error) {
	const sql = `SELECT count(*) FROM access_codes WHERE booking_id=$1 AND is_active=true`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var n int64
	if err := q.QueryRow(ctx, sql, bookingID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
