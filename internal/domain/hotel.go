package domain

import "time"

type Hotel struct {
	ID           int64     `json:"id"`
	OwnerID      int64     `json:"owner_id"`
	Name         string    `json:"name"`
	Timezone     string    `json:"timezone"`
	Currency     string    `json:"currency"`
	LockProvider string    `json:"lock_provider,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type HotelPatch struct {
	Name         *string `json:"name,omitempty"`
	Timezone     *string `json:"timezone,omitempty"`
	Currency     *string `json:"currency,omitempty"`
	LockProvider *string `json:"lock_provider,omitempty"`
}

type UnitStatus string

const (
	UnitAvailable   UnitStatus = "available"
	UnitOccupied    UnitStatus = "occupied"
	UnitMaintenance UnitStatus = "maintenance"
)

func ParseUnitStatus(s string) (UnitStatus, bool) {
	switch UnitStatus(s) {
	case UnitAvailable, UnitOccupied, UnitMaintenance:
		return UnitStatus(s), true
	default:
		return "", false
	}
}

type Unit struct {
	ID            int64      `json:"id"`
	HotelID       int64      `json:"hotel_id"`
	RoomTypeID    *int64     `json:"room_type_id,omitempty"`
	Name          string     `json:"name"`
	Floor         string     `json:"floor,omitempty"`
	BaseRateCents int64      `json:"base_rate_cents"`
	Status        UnitStatus `json:"status"`
	LockDeviceID  string     `json:"lock_device_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type UnitPatch struct {
	RoomTypeID    *int64  `json:"room_type_id,omitempty"`
	Name          *string `json:"name,omitempty"`
	Floor         *string `json:"floor,omitempty"`
	BaseRateCents *int64  `json:"base_rate_cents,omitempty"`
	Status        *string `json:"status,omitempty"`
	LockDeviceID  *string `json:"lock_device_id,omitempty"`
}

type RoomType struct {
	ID          int64     `json:"id"`
	HotelID     int64     `json:"hotel_id"`
	Name        string    `json:"name"`
	MaxGuests   int       `json:"max_guests"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Guest struct {
	ID        int64     `json:"id"`
	HotelID   int64     `json:"hotel_id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type GuestCreateReq struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
}
