package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/F0u4d8/whelhost-PMS-sub002/internal/domain"
)

type BookingFilter struct {
	HotelIDs []int64
	Status   *domain.BookingStatus
	Limit    int
	Offset   int
}

type BookingRepository interface {
	Create(ctx context.Context, q Querier, b *domain.Booking) error
	GetByID(ctx context.Context, q Querier, id int64) (*domain.Booking, error)
	// GetForUpdate locks the booking row so concurrent transitions on the
	// same booking serialize.
	GetForUpdate(ctx context.Context, q Querier, id int64) (*domain.Booking, error)
	List(ctx context.Context, q Querier, f BookingFilter) ([]domain.Booking, error)
	// HasConflict reports whether a blocking booking overlaps
	// [checkIn, checkOut) on the unit. excludeID skips the booking being
	// edited (0 skips nothing). sameDayTurnover switches the boundary
	// comparison to strict so a check-out day may equal a check-in day.
	HasConflict(ctx context.Context, q Querier, unitID int64, checkIn, checkOut time.Time, excludeID int64, sameDayTurnover bool) (bool, error)
	UpdateStatus(ctx context.Context, q Querier, id int64, to domain.BookingStatus, at time.Time) (*domain.Booking, error)
}

type bookingRepository struct{}

func NewBookingRepository() BookingRepository { return &bookingRepository{} }

const bookingCols = `id, hotel_id, unit_id, guest_id, reference, status,
check_in, check_out, adults, children, source,
total_amount_cents, paid_amount_cents,
checked_in_at, checked_out_at, cancelled_at,
created_at, updated_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(&b.ID, &b.HotelID, &b.UnitID, &b.GuestID, &b.Reference, &b.Status,
		&b.CheckIn, &b.CheckOut, &b.Adults, &b.Children, &b.Source,
		&b.TotalAmountCents, &b.PaidAmountCents,
		&b.CheckedInAt, &b.CheckedOutAt, &b.CancelledAt,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) Create(ctx context.Context, q Querier, b *domain.Booking) error {
	const sql = `INSERT INTO bookings (
		hotel_id, unit_id, guest_id, reference, status,
		check_in, check_out, adults, children, source,
		total_amount_cents, paid_amount_cents
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,0)
	RETURNING ` + bookingCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	created, err := scanBooking(q.QueryRow(ctx, sql,
		b.HotelID, b.UnitID, b.GuestID, b.Reference, b.Status,
		b.CheckIn, b.CheckOut, b.Adults, b.Children, b.Source,
		b.TotalAmountCents))
	if err != nil {
		return err
	}
	*b = *created
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, q Querier, id int64) (*domain.Booking, error) {
	const sql = `SELECT ` + bookingCols + ` FROM bookings WHERE id=$1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanBooking(q.QueryRow(ctx, sql, id))
}

func (r *bookingRepository) GetForUpdate(ctx context.Context, q Querier, id int64) (*domain.Booking, error) {
	const sql = `SELECT ` + bookingCols + ` FROM bookings WHERE id=$1 FOR UPDATE`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanBooking(q.QueryRow(ctx, sql, id))
}

func (r *bookingRepository) List(ctx context.Context, q Querier, f BookingFilter) ([]domain.Booking, error) {
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	const sql = `SELECT ` + bookingCols + ` FROM bookings
		WHERE hotel_id = ANY($1)
		  AND ($2::text IS NULL OR status = $2)
		ORDER BY check_in DESC, id DESC
		LIMIT $3 OFFSET $4`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := q.Query(ctx, sql, f.HotelIDs, f.Status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Booking, 0, limit)
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.HotelID, &b.UnitID, &b.GuestID, &b.Reference, &b.Status,
			&b.CheckIn, &b.CheckOut, &b.Adults, &b.Children, &b.Source,
			&b.TotalAmountCents, &b.PaidAmountCents,
			&b.CheckedInAt, &b.CheckedOutAt, &b.CancelledAt,
			&b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *bookingRepository) HasConflict(ctx context.Context, q Querier, unitID int64, checkIn, checkOut time.Time, excludeID int64, sameDayTurnover bool) (bool, error) {
	// Inclusive comparison is the historical behavior: touching intervals
	// count as a conflict. sameDayTurnover switches both ends to strict.
	sql := `SELECT EXISTS (
		SELECT 1 FROM bookings
		WHERE unit_id = $1
		  AND status NOT IN ('cancelled', 'checked_out')
		  AND id <> $4
		  AND check_in <= $3 AND check_out >= $2
	)`
	if sameDayTurnover {
		sql = `SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE unit_id = $1
			  AND status NOT IN ('cancelled', 'checked_out')
			  AND id <> $4
			  AND check_in < $3 AND check_out > $2
		)`
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var exists bool
	if err := q.QueryRow(ctx, sql, unitID, checkIn, checkOut, excludeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, q Querier, id int64, to domain.BookingStatus, at time.Time) (*domain.Booking, error) {
	const sql = `UPDATE bookings SET
			status = $2,
			checked_in_at  = CASE WHEN $2 = 'checked_in'  THEN $3 ELSE checked_in_at  END,
			checked_out_at = CASE WHEN $2 = 'checked_out' THEN $3 ELSE checked_out_at END,
			cancelled_at   = CASE WHEN $2 = 'cancelled'   THEN $3 ELSE cancelled_at   END,
			updated_at = now()
		WHERE id = $1
		RETURNING ` + bookingCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanBooking(q.QueryRow(ctx, sql, id, to, at))
}
