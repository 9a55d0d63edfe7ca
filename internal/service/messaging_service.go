package service

import (
	"context"
	"time"

	"github.com/F0u4d8/whelhost-PMS-sub002/internal/domain"
	"github.com/F0u4d8/whelhost-PMS-sub002/internal/mailer"
	"github.com/F0u4d8/whelhost-PMS-sub002/internal/repository"
	"github.com/F0u4d8/whelhost-PMS-sub002/pkg/events"
	"github.com/F0u4d8/whelhost-PMS-sub002/pkg/logger"
)

type MessagingService interface {
	Send(ctx context.Context, hotelIDs []int64, bookingID int64, req *domain.MessageSendReq) (*domain.Message, error)
	ListByBooking(ctx context.Context, hotelIDs []int64, bookingID int64) ([]domain.Message, error)
}

type messagingService struct {
	db       repository.Querier
	messages repository.MessageRepository
	bookings repository.BookingRepository
	guests   repository.GuestRepository
	mail     mailer.Service
	eventBus events.EventBus
}

func NewMessagingService(
	db repository.Querier,
	messages repository.MessageRepository,
	bookings repository.BookingRepository,
	guests repository.GuestRepository,
	mail mailer.Service,
	eventBus events.EventBus,
) MessagingService {
	return &messagingService{
		db:       db,
		messages: messages,
		bookings: bookings,
		guests:   guests,
		mail:     mail,
		eventBus: eventBus,
	}
}

func (s *messagingService) Send(ctx context.Context, hotelIDs []int64, bookingID int64, req *domain.MessageSendReq) (*domain.Message, error) {
	if req.Body == "" {
		return nil, domain.Invalid("body", "is required")
	}
	channel := req.Channel
	if channel == "" {
		channel = domain.ChannelEmail
	}
	if channel != domain.ChannelEmail && channel != domain.ChannelNote {
		return nil, domain.Invalid("channel", "must be email or note")
	}
	if channel == domain.ChannelEmail && req.Subject == "" {
		return nil, domain.Invalid("subject", "is required for email messages")
	}

	booking, err := s.bookings.GetByID(ctx, s.db, bookingID)
	if err != nil {
		return nil, err
	}
	if !ownsHotel(hotelIDs, booking.HotelID) {
		return nil, domain.ErrNotFound
	}

	msg := &domain.Message{
		HotelID:   booking.HotelID,
		BookingID: booking.ID,
		Direction: domain.MessageOutbound,
		Channel:   channel,
		Subject:   req.Subject,
		Body:      req.Body,
	}

	if channel == domain.ChannelEmail {
		guest, err := s.guests.GetByID(ctx, s.db, booking.GuestID)
		if err != nil {
			return nil, err
		}
		if err := s.mail.Send(guest.Email, guest.FullName, req.Subject, req.Body, ""); err != nil {
			return nil, &domain.UpstreamError{System: "mail", Err: err}
		}
		now := time.Now().UTC()
		msg.SentAt = &now
	}

	if err := s.messages.Create(ctx, s.db, msg); err != nil {
		return nil, err
	}

	if err := s.eventBus.Publish(ctx, events.MessageSent, events.MessageSentEvent{
		MessageID: msg.ID,
		BookingID: msg.BookingID,
		HotelID:   msg.HotelID,
		Channel:   string(msg.Channel),
		Subject:   msg.Subject,
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish message sent event", "error", err, "message_id", msg.ID)
	}

	return msg, nil
}

func (s *messagingService) ListByBooking(ctx context.Context, hotelIDs []int64, bookingID int64) ([]domain.Message, error) {
	booking, err := s.bookings.GetByID(ctx, s.db, bookingID)
	if err != nil {
		return nil, err
	}
	if !ownsHotel(hotelIDs, booking.HotelID) {
		return nil, domain.ErrNotFound
	}
	return s.messages.ListByBooking(ctx, s.db, bookingID)
}
