package repository

import (
	"context"
	"time"
)

// OccupancyRow is one day of the occupancy report.
type OccupancyRow struct {
	Day           time.Time `json:"day"`
	UnitsTotal    int64     `json:"units_total"`
	UnitsOccupied int64     `json:"units_occupied"`
}

// RevenueRow aggregates captured payments per day.
type RevenueRow struct {
	Day           time.Time `json:"day"`
	BookingsCount int64     `json:"bookings_count"`
	RevenueCents  int64     `json:"revenue_cents"`
}

type ReportRepository interface {
	Occupancy(ctx context.Context, q Querier, hotelID int64, from, to time.Time) ([]OccupancyRow, error)
	Revenue(ctx context.Context, q Querier, hotelID int64, from, to time.Time) ([]RevenueRow, error)
}

type reportRepository struct{}

func NewReportRepository() ReportRepository { return &reportRepository{} }

func (r *reportRepository) Occupancy(ctx context.Context, q Querier, hotelID int64, from, to time.Time) ([]OccupancyRow, error) {
	const sql = `
		SELECT d.day,
		       (SELECT count(*) FROM units u WHERE u.hotel_id = $1) AS units_total,
		       count(b.id) AS units_occupied
		FROM generate_series($2::date, $3::date, interval '1 day') AS d(day)
		LEFT JOIN bookings b
		       ON b.hotel_id = $1
		      AND b.status NOT IN ('cancelled')
		      AND b.check_in <= d.day AND b.check_out > d.day
		GROUP BY d.day
		ORDER BY d.day`

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rows, err := q.Query(ctx, sql, hotelID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OccupancyRow
	for rows.Next() {
		var row OccupancyRow
		if err := rows.Scan(&row.Day, &row.UnitsTotal, &row.UnitsOccupied); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *reportRepository) Revenue(ctx context.Context, q Querier, hotelID int64, from, to time.Time) ([]RevenueRow, error) {
	const sql = `
		SELECT date_trunc('day', p.created_at) AS day,
		       count(DISTINCT i.booking_id) AS bookings_count,
		       COALESCE(sum(p.amount_cents), 0) AS revenue_cents
		FROM payments p
		JOIN invoices i ON i.id = p.invoice_id
		WHERE i.hotel_id = $1
		  AND p.status = 'captured'
		  AND p.created_at >= $2 AND p.created_at < $3
		GROUP BY 1
		ORDER BY 1`

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rows, err := q.Query(ctx, sql, hotelID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RevenueRow
	for rows.Next() {
		var row RevenueRow
		if err := rows.Scan(&row.Day, &row.BookingsCount, &row.RevenueCents); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
