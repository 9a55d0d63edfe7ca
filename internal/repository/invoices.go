package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/F0u4d8/whelhost-PMS-sub002/internal/domain"
)

type InvoiceRepository interface {
	Create(ctx context.Context, q Querier, inv *domain.Invoice) error
	GetByID(ctx context.Context, q Querier, id int64) (*domain.Invoice, error)
	ListByBooking(ctx context.Context, q Querier, bookingID int64) ([]domain.Invoice, error)
	MarkPaid(ctx context.Context, q Querier, id int64, at time.Time) (*domain.Invoice, error)
	CreatePayment(ctx context.Context, q Querier, p *domain.Payment) error
	// AddPaidAmount bumps the booking's paid_amount counter after a capture.
	AddPaidAmount(ctx context.Context, q Querier, bookingID, amountCents int64) error
}

type invoiceRepository struct{}

func NewInvoiceRepository() InvoiceRepository { return &invoiceRepository{} }

const invoiceCols = `id, hotel_id, booking_id, number, amount_cents, currency, status, issued_at, paid_at, created_at`

func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := row.Scan(&inv.ID, &inv.HotelID, &inv.BookingID, &inv.Number, &inv.AmountCents,
		&inv.Currency, &inv.Status, &inv.IssuedAt, &inv.PaidAt, &inv.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *invoiceRepository) Create(ctx context.Context, q Querier, inv *domain.Invoice) error {
	const sql = `INSERT INTO invoices (hotel_id, booking_id, number, amount_cents, currency, status, issued_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING ` + invoiceCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	created, err := scanInvoice(q.QueryRow(ctx, sql, inv.HotelID, inv.BookingID, inv.Number,
		inv.AmountCents, inv.Currency, inv.Status, inv.IssuedAt))
	if err != nil {
		return err
	}
	*inv = *created
	return nil
}

func (r *invoiceRepository) GetByID(ctx context.Context, q Querier, id int64) (*domain.Invoice, error) {
	const sql = `SELECT ` + invoiceCols + ` FROM invoices WHERE id=$1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanInvoice(q.QueryRow(ctx, sql, id))
}

func (r *invoiceRepository) ListByBooking(ctx context.Context, q Querier, bookingID int64) ([]domain.Invoice, error) {
	const sql = `SELECT ` + invoiceCols + ` FROM invoices WHERE booking_id=$1 ORDER BY id`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := q.Query(ctx, sql, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Invoice
	for rows.Next() {
		var inv domain.Invoice
		if err := rows.Scan(&inv.ID, &inv.HotelID, &inv.BookingID, &inv.Number, &inv.AmountCents,
			&inv.Currency, &inv.Status, &inv.IssuedAt, &inv.PaidAt, &inv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *invoiceRepository) MarkPaid(ctx context.Context, q Querier, id int64, at time.Time) (*domain.Invoice, error) {
	const sql = `UPDATE invoices SET status='paid', paid_at=$2 WHERE id=$1
		RETURNING ` + invoiceCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanInvoice(q.QueryRow(ctx, sql, id, at))
}

func (r *invoiceRepository) CreatePayment(ctx context.Context, q Querier, p *domain.Payment) error {
	const sql = `INSERT INTO payments (invoice_id, gateway, gateway_ref, amount_cents, status, failure_msg)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return q.QueryRow(ctx, sql, p.InvoiceID, p.Gateway, p.GatewayRef, p.AmountCents,
		p.Status, p.FailureMsg).Scan(&p.ID, &p.CreatedAt)
}

func (r *invoiceRepository) AddPaidAmount(ctx context.Context, q Querier, bookingID, amountCents int64) error {
	const sql = `UPDATE bookings SET paid_amount_cents = paid_amount_cents + $2, updated_at=now() WHERE id=$1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := q.Exec(ctx, sql, bookingID, amountCents)
	return err
}
