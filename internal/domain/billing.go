package domain

import "time"

type InvoiceStatus string

const (
	InvoiceDraft  InvoiceStatus = "draft"
	InvoiceIssued InvoiceStatus = "issued"
	InvoicePaid   InvoiceStatus = "paid"
	InvoiceVoid   InvoiceStatus = "void"
)

type Invoice struct {
	ID          int64         `json:"id"`
	HotelID     int64         `json:"hotel_id"`
	BookingID   int64         `json:"booking_id"`
	Number      string        `json:"number"`
	AmountCents int64         `json:"amount_cents"`
	Currency    string        `json:"currency"`
	Status      InvoiceStatus `json:"status"`
	IssuedAt    *time.Time    `json:"issued_at,omitempty"`
	PaidAt      *time.Time    `json:"paid_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

type PaymentStatus string

const (
	PaymentInitiated PaymentStatus = "initiated"
	PaymentCaptured  PaymentStatus = "captured"
	PaymentFailed    PaymentStatus = "failed"
)

type Payment struct {
	ID          int64         `json:"id"`
	InvoiceID   int64         `json:"invoice_id"`
	Gateway     string        `json:"gateway"`
	GatewayRef  string        `json:"gateway_ref,omitempty"`
	AmountCents int64         `json:"amount_cents"`
	Status      PaymentStatus `json:"status"`
	FailureMsg  string        `json:"failure_msg,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}
