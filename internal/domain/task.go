package domain

import "time"

type TaskStatus string

const (
	TaskOpen TaskStatus = "open"
	TaskDone TaskStatus = "done"
)

type TaskKind string

const (
	TaskCleaningPrep TaskKind = "cleaning_prep"
	TaskCleaning     TaskKind = "cleaning"
	TaskMaintenance  TaskKind = "maintenance"
)

type Task struct {
	ID        int64      `json:"id"`
	HotelID   int64      `json:"hotel_id"`
	BookingID *int64     `json:"booking_id,omitempty"`
	UnitID    *int64     `json:"unit_id,omitempty"`
	Title     string     `json:"title"`
	Kind      TaskKind   `json:"kind"`
	Status    TaskStatus `json:"status"`
	DueDate   time.Time  `json:"due_date"`
	CreatedAt time.Time  `json:"created_at"`
	DoneAt    *time.Time `json:"done_at,omitempty"`
}
