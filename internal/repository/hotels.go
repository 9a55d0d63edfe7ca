package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/F0u4d8/whelhost-PMS-sub002/internal/domain"
)

type HotelRepository interface {
	Create(ctx context.Context, q Querier, h *domain.Hotel) error
	GetByID(ctx context.Context, q Querier, id int64) (*domain.Hotel, error)
	ListByOwner(ctx context.Context, q Querier, ownerID int64) ([]domain.Hotel, error)
	ListIDsByOwner(ctx context.Context, q Querier, ownerID int64) ([]int64, error)
	Update(ctx context.Context, q Querier, id int64, patch domain.HotelPatch) (*domain.Hotel, error)
	Delete(ctx context.Context, q Querier, id int64) (bool, error)
}

type hotelRepository struct{}

func NewHotelRepository() HotelRepository { return &hotelRepository{} }

const hotelCols = `id, owner_id, name, timezone, currency, lock_provider, created_at, updated_at`

func scanHotel(row pgx.Row) (*domain.Hotel, error) {
	var h domain.Hotel
	err := row.Scan(&h.ID, &h.OwnerID, &h.Name, &h.Timezone, &h.Currency,
		&h.LockProvider, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &h, nil
}

func (r *hotelRepository) Create(ctx context.Context, q Querier, h *domain.Hotel) error {
	const sql = `INSERT INTO hotels (owner_id, name, timezone, currency, lock_provider)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING ` + hotelCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	created, err := scanHotel(q.QueryRow(ctx, sql, h.OwnerID, h.Name, h.Timezone, h.Currency, h.LockProvider))
	if err != nil {
		return err
	}
	*h = *created
	return nil
}

func (r *hotelRepository) GetByID(ctx context.Context, q Querier, id int64) (*domain.Hotel, error) {
	const sql = `SELECT ` + hotelCols + ` FROM hotels WHERE id=$1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanHotel(q.QueryRow(ctx, sql, id))
}

func (r *hotelRepository) ListByOwner(ctx context.Context, q Querier, ownerID int64) ([]domain.Hotel, error) {
	const sql = `SELECT ` + hotelCols + ` FROM hotels WHERE owner_id=$1 ORDER BY id`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := q.Query(ctx, sql, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Hotel
	for rows.Next() {
		var h domain.Hotel
		if err := rows.Scan(&h.ID, &h.OwnerID, &h.Name, &h.Timezone, &h.Currency,
			&h.LockProvider, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *hotelRepository) ListIDsByOwner(ctx context.Context, q Querier, ownerID int64) ([]int64, error) {
	const sql = `SELECT id FROM hotels WHERE owner_id=$1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := q.Query(ctx, sql, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *hotelRepository) Update(ctx context.Context, q Querier, id int64, patch domain.HotelPatch) (*domain.Hotel, error) {
	const sql = `UPDATE hotels SET
			name = COALESCE($2, name),
			timezone = COALESCE($3, timezone),
			currency = COALESCE($4, currency),
			lock_provider = COALESCE($5, lock_provider),
			updated_at = now()
		WHERE id=$1
		RETURNING ` + hotelCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanHotel(q.QueryRow(ctx, sql, id, patch.Name, patch.Timezone, patch.Currency, patch.LockProvider))
}

func (r *hotelRepository) Delete(ctx context.Context, q Querier, id int64) (bool, error) {
	const sql = `DELETE FROM hotels WHERE id=$1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := q.Exec(ctx, sql, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}
