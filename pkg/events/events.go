package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/F0u4d8/whelhost-PMS-sub002/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type Subscriber interface {
	Subscribe(subject string, handler func(msg *Message)) error
	QueueSubscribe(subject, queue string, handler func(msg *Message)) error
	Close() error
}

type EventBus interface {
	Publisher
	Subscriber
}

type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
	ID        string
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Subscribe(subject string, handler func(msg *Message)) error {
	_, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
			ID:        fmt.Sprintf("%d", time.Now().UnixNano()),
		})
	})
	return err
}

func (n *NATSEventBus) QueueSubscribe(subject, queue string, handler func(msg *Message)) error {
	_, err := n.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
			ID:        fmt.Sprintf("%d", time.Now().UnixNano()),
		})
	})
	return err
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// NoopEventBus drops everything. Used in tests and when NATS is not configured.
type NoopEventBus struct{}

func (NoopEventBus) Publish(context.Context, string, interface{}) error { return nil }
func (NoopEventBus) Subscribe(string, func(msg *Message)) error         { return nil }
func (NoopEventBus) QueueSubscribe(string, string, func(msg *Message)) error {
	return nil
}
func (NoopEventBus) Close() error { return nil }

// Event subjects
const (
	BookingCreated    = "booking.created"
	BookingCheckedIn  = "booking.checked_in"
	BookingCheckedOut = "booking.checked_out"
	BookingCancelled  = "booking.cancelled"

	TaskCreated = "task.created"

	AccessIssued  = "access.issued"
	AccessRevoked = "access.revoked"

	MessageSent = "message.sent"

	InvoicePaid = "invoice.paid"
)

// Event payloads
type BookingCreatedEvent struct {
	BookingID  int64     `json:"booking_id"`
	HotelID    int64     `json:"hotel_id"`
	UnitID     int64     `json:"unit_id"`
	GuestEmail string    `json:"guest_email"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

type BookingTransitionEvent struct {
	BookingID int64     `json:"booking_id"`
	HotelID   int64     `json:"hotel_id"`
	UnitID    int64     `json:"unit_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	At        time.Time `json:"at"`
}

type TaskCreatedEvent struct {
	TaskID    int64     `json:"task_id"`
	HotelID   int64     `json:"hotel_id"`
	BookingID int64     `json:"booking_id"`
	Kind      string    `json:"kind"`
	DueDate   time.Time `json:"due_date"`
}

type AccessCodeEvent struct {
	AccessCodeID int64     `json:"access_code_id"`
	BookingID    int64     `json:"booking_id"`
	Provider     string    `json:"provider"`
	ValidFrom    time.Time `json:"valid_from"`
	ValidUntil   time.Time `json:"valid_until"`
}

type MessageSentEvent struct {
	MessageID int64  `json:"message_id"`
	BookingID int64  `json:"booking_id"`
	HotelID   int64  `json:"hotel_id"`
	Channel   string `json:"channel"`
	Subject   string `json:"subject"`
}

type InvoicePaidEvent struct {
	InvoiceID   int64  `json:"invoice_id"`
	BookingID   int64  `json:"booking_id"`
	HotelID     int64  `json:"hotel_id"`
	AmountCents int64  `json:"amount_cents"`
	Gateway     string `json:"gateway"`
	GatewayRef  string `json:"gateway_ref"`
}
