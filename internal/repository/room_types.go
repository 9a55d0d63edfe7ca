package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/F0u4d8/whelhost-PMS-sub002/internal/domain"
)

type RoomTypeRepository interface {
	Create(ctx context.Context, q Querier, rt *domain.RoomType) error
	GetByID(ctx context.Context, q Querier, id int64) (*domain.RoomType, error)
	ListByHotel(ctx context.Context, q Querier, hotelID int64) ([]domain.RoomType, error)
	Update(ctx context.Context, q Querier, rt *domain.RoomType) (*domain.RoomType, error)
	Delete(ctx context.Context, q Querier, id int64) (bool, error)
}

type roomTypeRepository struct{}

func NewRoomTypeRepository() RoomTypeRepository { return &roomTypeRepository{} }

const roomTypeCols = `id, hotel_id, name, max_guests, description, created_at`

func scanRoomType(row pgx.Row) (*domain.RoomType, error) {
	var rt domain.RoomType
	err := row.Scan(&rt.ID, &rt.HotelID, &rt.Name, &rt.MaxGuests, &rt.Description, &rt.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &rt, nil
}

func (r *roomTypeRepository) Create(ctx context.Context, q Querier, rt *domain.RoomType) error {
	const sql = `INSERT INTO room_types (hotel_id, name, max_guests, description)
		VALUES ($1,$2,$3,$4)
		RETURNING ` + roomTypeCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	created, err := scanRoomType(q.QueryRow(ctx, sql, rt.HotelID, rt.Name, rt.MaxGuests, rt.Description))
	if err != nil {
		return err
	}
	*rt = *created
	return nil
}

func (r *roomTypeRepository) GetByID(ctx context.Context, q Querier, id int64) (*domain.RoomType, error) {
	const sql = `SELECT ` + roomTypeCols + ` FROM room_types WHERE id=$1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanRoomType(q.QueryRow(ctx, sql, id))
}

func (r *roomTypeRepository) ListByHotel(ctx context.Context, q Querier, hotelID int64) ([]domain.RoomType, error) {
	const sql = `SELECT ` + roomTypeCols + ` FROM room_types WHERE hotel_id=$1 ORDER BY id`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := q.Query(ctx, sql, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RoomType
	for rows.Next() {
		var rt domain.RoomType
		if err := rows.Scan(&rt.ID, &rt.HotelID, &rt.Name, &rt.MaxGuests, &rt.Description, &rt.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

func (r *roomTypeRepository) Update(ctx context.Context, q Querier, rt *domain.RoomType) (*domain.RoomType, error) {
	const sql = `UPDATE room_types SET name=$2, max_guests=$3, description=$4 WHERE id=$1
		RETURNING ` + roomTypeCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanRoomType(q.QueryRow(ctx, sql, rt.ID, rt.Name, rt.MaxGuests, rt.Description))
}

func (r *roomTypeRepository) Delete(ctx context.Context, q Querier, id int64) (bool, error) {
	const sql = `DELETE FROM room_types WHERE id=$1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := q.Exec(ctx, sql, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}
