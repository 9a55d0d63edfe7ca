package domain

import "time"

type AccessCode struct {
	ID         int64      `json:"id"`
	BookingID  int64      `json:"booking_id"`
	Provider   string     `json:"provider"`
	DeviceID   string     `json:"device_id,omitempty"`
	Code       string     `json:"code"`
	ValidFrom  time.Time  `json:"valid_from"`
	ValidUntil time.Time  `json:"valid_until"`
	IsActive   bool       `json:"is_active"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type AccessCodeReq struct {
	Type      string    `json:"type,omitempty"`
	ValidFrom time.Time `json:"valid_from"`
	ValidTo   time.Time `json:"valid_to"`
}

// GuestAccessToken grants bearer access to a single booking's bill.
// Only the argon2id hash of the secret half is stored.
type GuestAccessToken struct {
	ID         string     `json:"id"`
	BookingID  int64      `json:"booking_id"`
	SecretHash string     `json:"-"`
	ExpiresAt  time.Time  `json:"expires_at"`
	UsedAt     *time.Time `json:"used_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Bill is the guest-visible statement resolved from a bill token.
type Bill struct {
	BookingReference string    `json:"booking_reference"`
	HotelName        string    `json:"hotel_name"`
	GuestName        string    `json:"guest_name"`
	CheckIn          time.Time `json:"check_in"`
	CheckOut         time.Time `json:"check_out"`
	Nights           int       `json:"nights"`
	TotalAmountCents int64     `json:"total_amount_cents"`
	PaidAmountCents  int64     `json:"paid_amount_cents"`
	BalanceCents     int64     `json:"balance_cents"`
	Currency         string    `json:"currency"`
}
