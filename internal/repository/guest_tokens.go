package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/F0u4d8/whelhost-PMS-sub002/internal/domain"
)

type GuestTokenRepository interface {
	Create(ctx context.Context, q Querier, t *domain.GuestAccessToken) error
	GetByID(ctx context.Context, q Querier, id string) (*domain.GuestAccessToken, error)
	MarkUsed(ctx context.Context, q Querier, id string, at time.Time) error
	DeleteExpired(ctx context.Context, q Querier) (int64, error)
}

type guestTokenRepository struct{}

func NewGuestTokenRepository() GuestTokenRepository { return &guestTokenRepository{} }

const guestTokenCols = `id, booking_id, secret_hash, expires_at, used_at, created_at`

func scanGuestToken(row pgx.Row) (*domain.GuestAccessToken, error) {
	var t domain.GuestAccessToken
	err := row.Scan(&t.ID, &t.BookingID, &t.SecretHash, &t.ExpiresAt, &t.UsedAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *guestTokenRepository) Create(ctx context.Context, q Querier, t *domain.GuestAccessToken) error {
	const sql = `INSERT INTO guest_access_tokens (id, booking_id, secret_hash, expires_at)
		VALUES ($1,$2,$3,$4)
		RETURNING ` + guestTokenCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	created, err := scanGuestToken(q.QueryRow(ctx, sql, t.ID, t.BookingID, t.SecretHash, t.ExpiresAt))
	if err != nil {
		return err
	}
	*t = *created
	return nil
}

func (r *guestTokenRepository) GetByID(ctx context.Context, q Querier, id string) (*domain.GuestAccessToken, error) {
	const sql = `SELECT ` + guestTokenCols + ` FROM guest_access_tokens WHERE id=$1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanGuestToken(q.QueryRow(ctx, sql, id))
}

func (r *guestTokenRepository) MarkUsed(ctx context.Context, q Querier, id string, at time.Time) error {
	const sql = `UPDATE guest_access_tokens SET used_at=$2 WHERE id=$1 AND used_at IS NULL`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := q.Exec(ctx, sql, id, at)
	return err
}

func (r *guestTokenRepository) DeleteExpired(ctx context.Context, q Querier) (int64, error) {
	const sql = `DELETE FROM guest_access_tokens WHERE expires_at < now()`

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	ct, err := q.Exec(ctx, sql)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}
