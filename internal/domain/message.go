package domain

import "time"

type MessageDirection string

const (
	MessageOutbound MessageDirection = "outbound"
	MessageInbound  MessageDirection = "inbound"
)

type MessageChannel string

const (
	ChannelEmail MessageChannel = "email"
	ChannelNote  MessageChannel = "note"
)

type Message struct {
	ID        int64            `json:"id"`
	HotelID   int64            `json:"hotel_id"`
	BookingID int64            `json:"booking_id"`
	Direction MessageDirection `json:"direction"`
	Channel   MessageChannel   `json:"channel"`
	Subject   string           `json:"subject"`
	Body      string           `json:"body"`
	SentAt    *time.Time       `json:"sent_at,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

type MessageSendReq struct {
	Channel MessageChannel `json:"channel"`
	Subject string         `json:"subject"`
	Body    string         `json:"body"`
}
