package domain

import "time"

type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingCheckedIn  BookingStatus = "checked_in"
	BookingCheckedOut BookingStatus = "checked_out"
	BookingCancelled  BookingStatus = "cancelled"
)

func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case BookingPending, BookingConfirmed, BookingCheckedIn, BookingCheckedOut, BookingCancelled:
		return BookingStatus(s), true
	default:
		return "", false
	}
}

// Terminal reports whether no further transition may leave this status.
func (s BookingStatus) Terminal() bool {
	return s == BookingCheckedOut || s == BookingCancelled
}

// Blocks reports whether a booking in this status occupies its unit's
// calendar. Cancelled and checked-out bookings never conflict.
func (s BookingStatus) Blocks() bool {
	return s != BookingCancelled && s != BookingCheckedOut
}

type BookingSource string

const (
	SourceDirect  BookingSource = "direct"
	SourceWalkIn  BookingSource = "walk_in"
	SourceChannel BookingSource = "channel"
)

type Booking struct {
	ID        int64         `json:"id"`
	HotelID   int64         `json:"hotel_id"`
	UnitID    int64         `json:"unit_id"`
	GuestID   int64         `json:"guest_id"`
	Reference string        `json:"reference"`
	Status    BookingStatus `json:"status"`

	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
	Adults   int       `json:"adults"`
	Children int       `json:"children"`

	Source           BookingSource `json:"source"`
	TotalAmountCents int64         `json:"total_amount_cents"`
	PaidAmountCents  int64         `json:"paid_amount_cents"`

	CheckedInAt  *time.Time `json:"checked_in_at,omitempty"`
	CheckedOutAt *time.Time `json:"checked_out_at,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BookingCreateReq struct {
	HotelID          int64           `json:"hotel_id"`
	UnitID           int64           `json:"unit_id"`
	GuestID          int64           `json:"guest_id"`
	Guest            *GuestCreateReq `json:"guest,omitempty"`
	CheckIn          time.Time       `json:"check_in"`
	CheckOut         time.Time       `json:"check_out"`
	Adults           int             `json:"adults"`
	Children         int             `json:"children"`
	Source           BookingSource   `json:"source"`
	Status           BookingStatus   `json:"status"`
	TotalAmountCents int64           `json:"total_amount_cents"`
}

// CheckOutResult carries the side-effect artifacts of a completed check-out.
type CheckOutResult struct {
	Booking      *Booking `json:"booking"`
	RevokedCodes int      `json:"revoked_codes"`
	CleaningTask *Task    `json:"cleaning_task,omitempty"`
	BillURL      string   `json:"bill_url"`
}

type CheckInResult struct {
	Booking  *Booking `json:"booking"`
	PrepTask *Task    `json:"prep_task,omitempty"`
}
