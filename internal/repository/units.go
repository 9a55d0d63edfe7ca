package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/F0u4d8/whelhost-PMS-sub002/internal/domain"
)

type UnitRepository interface {
	Create(ctx context.Context, q Querier, u *domain.Unit) error
	GetByID(ctx context.Context, q Querier, id int64) (*domain.Unit, error)
	// GetForUpdate locks the unit row for the remainder of the transaction.
	// The booking conflict check runs under this lock so two concurrent
	// creates for the same unit serialize instead of racing.
	GetForUpdate(ctx context.Context, q Querier, id int64) (*domain.Unit, error)
	ListByHotel(ctx context.Context, q Querier, hotelID int64) ([]domain.Unit, error)
	Update(ctx context.Context, q Querier, id int64, patch domain.UnitPatch) (*domain.Unit, error)
	UpdateStatus(ctx context.Context, q Querier, id int64, status domain.UnitStatus) error
	Delete(ctx context.Context, q Querier, id int64) (bool, error)
}

type unitRepository struct{}

func NewUnitRepository() UnitRepository { return &unitRepository{} }

const unitCols = `id, hotel_id, room_type_id, name, floor, base_rate_cents, status, lock_device_id, created_at, updated_at`

func scanUnit(row pgx.Row) (*domain.Unit, error) {
	var u domain.Unit
	err := row.Scan(&u.ID, &u.HotelID, &u.RoomTypeID, &u.Name, &u.Floor,
		&u.BaseRateCents, &u.Status, &u.LockDeviceID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *unitRepository) Create(ctx context.Context, q Querier, u *domain.Unit) error {
	const sql = `INSERT INTO units (hotel_id, room_type_id, name, floor, base_rate_cents, status, lock_device_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING ` + unitCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if u.Status == "" {
		u.Status = domain.UnitAvailable
	}
	created, err := scanUnit(q.QueryRow(ctx, sql, u.HotelID, u.RoomTypeID, u.Name, u.Floor,
		u.BaseRateCents, u.Status, u.LockDeviceID))
	if err != nil {
		return err
	}
	*u = *created
	return nil
}

func (r *unitRepository) GetByID(ctx context.Context, q Querier, id int64) (*domain.Unit, error) {
	const sql = `SELECT ` + unitCols + ` FROM units WHERE id=$1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanUnit(q.QueryRow(ctx, sql, id))
}

func (r *unitRepository) GetForUpdate(ctx context.Context, q Querier, id int64) (*domain.Unit, error) {
	const sql = `SELECT ` + unitCols + ` FROM units WHERE id=$1 FOR UPDATE`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanUnit(q.QueryRow(ctx, sql, id))
}

func (r *unitRepository) ListByHotel(ctx context.Context, q Querier, hotelID int64) ([]domain.Unit, error) {
	const sql = `SELECT ` + unitCols + ` FROM units WHERE hotel_id=$1 ORDER BY id`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := q.Query(ctx, sql, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Unit
	for rows.Next() {
		var u domain.Unit
		if err := rows.Scan(&u.ID, &u.HotelID, &u.RoomTypeID, &u.Name, &u.Floor,
			&u.BaseRateCents, &u.Status, &u.LockDeviceID, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *unitRepository) Update(ctx context.Context, q Querier, id int64, patch domain.UnitPatch) (*domain.Unit, error) {
	const sql = `UPDATE units SET
			room_type_id = COALESCE($2, room_type_id),
			name = COALESCE($3, name),
			floor = COALESCE($4, floor),
			base_rate_cents = COALESCE($5, base_rate_cents),
			status = COALESCE($6, status),
			lock_device_id = COALESCE($7, lock_device_id),
			updated_at = now()
		WHERE id=$1
		RETURNING ` + unitCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanUnit(q.QueryRow(ctx, sql, id, patch.RoomTypeID, patch.Name, patch.Floor,
		patch.BaseRateCents, patch.Status, patch.LockDeviceID))
}

func (r *unitRepository) UpdateStatus(ctx context.Context, q Querier, id int64, status domain.UnitStatus) error {
	const sql = `UPDATE units SET status=$2, updated_at=now() WHERE id=$1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := q.Exec(ctx, sql, id, status)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *unitRepository) Delete(ctx context.Context, q Querier, id int64) (bool, error) {
	const sql = `DELETE FROM units WHERE id=$1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := q.Exec(ctx, sql, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}
