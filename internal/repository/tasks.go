package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/F0u4d8/whelhost-PMS-sub002/internal/domain"
)

type TaskFilter struct {
	HotelIDs []int64
	Status   *domain.TaskStatus
	Limit    int
	Offset   int
}

type TaskRepository interface {
	Create(ctx context.Context, q Querier, t *domain.Task) error
	GetByID(ctx context.Context, q Querier, id int64) (*domain.Task, error)
	List(ctx context.Context, q Querier, f TaskFilter) ([]domain.Task, error)
	Complete(ctx context.Context, q Querier, id int64, at time.Time) (*domain.Task, error)
}

type taskRepository struct{}

func NewTaskRepository() TaskRepository { return &taskRepository{} }

const taskCols = `id, hotel_id, booking_id, unit_id, title, kind, status, due_date, created_at, done_at`

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	err := row.Scan(&t.ID, &t.HotelID, &t.BookingID, &t.UnitID, &t.Title, &t.Kind,
		&t.Status, &t.DueDate, &t.CreatedAt, &t.DoneAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *taskRepository) Create(ctx context.Context, q Querier, t *domain.Task) error {
	const sql = `INSERT INTO tasks (hotel_id, booking_id, unit_id, title, kind, status, due_date)
		VALUES ($1,$2,$3,$4,$5,'open',$6)
		RETURNING ` + taskCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	created, err := scanTask(q.QueryRow(ctx, sql, t.HotelID, t.BookingID, t.UnitID, t.Title, t.Kind, t.DueDate))
	if err != nil {
		return err
	}
	*t = *created
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, q Querier, id int64) (*domain.Task, error) {
	const sql = `SELECT ` + taskCols + ` FROM tasks WHERE id=$1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanTask(q.QueryRow(ctx, sql, id))
}

func (r *taskRepository) List(ctx context.Context, q Querier, f TaskFilter) ([]domain.Task, error) {
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	const sql = `SELECT ` + taskCols + ` FROM tasks
		WHERE hotel_id = ANY($1)
		  AND ($2::text IS NULL OR status = $2)
		ORDER BY due_date, id
		LIMIT $3 OFFSET $4`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := q.Query(ctx, sql, f.HotelIDs, f.Status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.HotelID, &t.BookingID, &t.UnitID, &t.Title, &t.Kind,
			&t.Status, &t.DueDate, &t.CreatedAt, &t.DoneAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *taskRepository) Complete(ctx context.Context, q Querier, id int64, at time.Time) (*domain.Task, error) {
	const sql = `UPDATE tasks SET status='done', done_at=$2 WHERE id=$1
		RETURNING ` + taskCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanTask(q.QueryRow(ctx, sql, id, at))
}
