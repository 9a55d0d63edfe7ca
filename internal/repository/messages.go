package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/F0u4d8/whelhost-PMS-sub002/internal/domain"
)

type MessageRepository interface {
	Create(ctx context.Context, q Querier, m *domain.Message) error
	ListByBooking(ctx context.Context, q Querier, bookingID int64) ([]domain.Message, error)
}

type messageRepository struct{}

func NewMessageRepository() MessageRepository { return &messageRepository{} }

const messageCols = `id, hotel_id, booking_id, direction, channel, subject, body, sent_at, created_at`

func (r *messageRepository) Create(ctx context.Context, q Querier, m *domain.Message) error {
	const sql = `INSERT INTO messages (hotel_id, booking_id, direction, channel, subject, body, sent_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING ` + messageCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var created domain.Message
	err := q.QueryRow(ctx, sql, m.HotelID, m.BookingID, m.Direction, m.Channel,
		m.Subject, m.Body, m.SentAt).Scan(
		&created.ID, &created.HotelID, &created.BookingID, &created.Direction,
		&created.Channel, &created.Subject, &created.Body, &created.SentAt, &created.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	*m = created
	return nil
}

func (r *messageRepository) ListByBooking(ctx context.Context, q Querier, bookingID int64) ([]domain.Message, error) {
	const sql = `SELECT ` + messageCols + ` FROM messages WHERE booking_id=$1 ORDER BY id`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := q.Query(ctx, sql, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.HotelID, &m.BookingID, &m.Direction, &m.Channel,
			&m.Subject, &m.Body, &m.SentAt, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
