package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/F0u4d8/whelhost-PMS-sub002/internal/domain"
)

type GuestRepository interface {
	Create(ctx context.Context, q Querier, g *domain.Guest) error
	GetByID(ctx context.Context, q Querier, id int64) (*domain.Guest, error)
	// FindByEmail scopes the lookup to one hotel so two properties can share
	// a guest email without colliding.
	FindByEmail(ctx context.Context, q Querier, hotelID int64, email string) (*domain.Guest, error)
	ListByHotel(ctx context.Context, q Querier, hotelID int64) ([]domain.Guest, error)
}

type guestRepository struct{}

func NewGuestRepository() GuestRepository { return &guestRepository{} }

const guestCols = `id, hotel_id, full_name, email, phone, created_at`

func scanGuest(row pgx.Row) (*domain.Guest, error) {
	var g domain.Guest
	err := row.Scan(&g.ID, &g.HotelID, &g.FullName, &g.Email, &g.Phone, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *guestRepository) Create(ctx context.Context, q Querier, g *domain.Guest) error {
	const sql = `INSERT INTO guests (hotel_id, full_name, email, phone)
		VALUES ($1,$2,$3,$4)
		RETURNING ` + guestCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	created, err := scanGuest(q.QueryRow(ctx, sql, g.HotelID, g.FullName, g.Email, g.Phone))
	if err != nil {
		return err
	}
	*g = *created
	return nil
}

func (r *guestRepository) GetByID(ctx context.Context, q Querier, id int64) (*domain.Guest, error) {
	const sql = `SELECT ` + guestCols + ` FROM guests WHERE id=$1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanGuest(q.QueryRow(ctx, sql, id))
}

func (r *guestRepository) FindByEmail(ctx context.Context, q Querier, hotelID int64, email string) (*domain.Guest, error) {
	const sql = `SELECT ` + guestCols + ` FROM guests
		WHERE hotel_id=$1 AND lower(email)=lower($2)
		ORDER BY id LIMIT 1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanGuest(q.QueryRow(ctx, sql, hotelID, email))
}

func (r *guestRepository) ListByHotel(ctx context.Context, q Querier, hotelID int64) ([]domain.Guest, error) {
	const sql = `SELECT ` + guestCols + ` FROM guests WHERE hotel_id=$1 ORDER BY id`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := q.Query(ctx, sql, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Guest
	for rows.Next() {
		var g domain.Guest
		if err := rows.Scan(&g.ID, &g.HotelID, &g.FullName, &g.Email, &g.Phone, &g.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
