package service

import (
	"context"

	"github.com/F0u4d8/whelhost-PMS-sub002/internal/domain"
	"github.com/F0u4d8/whelhost-PMS-sub002/internal/locks"
	"github.com/F0u4d8/whelhost-PMS-sub002/internal/repository"
	"github.com/F0u4d8/whelhost-PMS-sub002/pkg/config"
	"github.com/F0u4d8/whelhost-PMS-sub002/pkg/events"
	"github.com/F0u4d8/whelhost-PMS-sub002/pkg/logger"
)

type AccessService interface {
	Issue(ctx context.Context, hotelIDs []int64, bookingID int64, req *domain.AccessCodeReq) (*domain.AccessCode, error)
	ListByBooking(ctx context.Context, hotelIDs []int64, bookingID int64) ([]domain.AccessCode, error)
}

type accessService struct {
	db          repository.Querier
	bookings    repository.BookingRepository
	units       repository.UnitRepository
	hotels      repository.HotelRepository
	guests      repository.GuestRepository
	accessCodes repository.AccessCodeRepository
	registry    *locks.Registry
	eventBus    events.EventBus
	cfg         *config.Config
}

func NewAccessService(
	db repository.Querier,
	bookings repository.BookingRepository,
	units repository.UnitRepository,
	hotels repository.HotelRepository,
	guests repository.GuestRepository,
	accessCodes repository.AccessCodeRepository,
	registry *locks.Registry,
	eventBus events.EventBus,
	cfg *config.Config,
) AccessService {
	return &accessService{
		db:          db,
		bookings:    bookings,
		units:       units,
		hotels:      hotels,
		guests:      guests,
		accessCodes: accessCodes,
		registry:    registry,
		eventBus:    eventBus,
		cfg:         cfg,
	}
}

func (s *accessService) Issue(ctx context.Context, hotelIDs []int64, bookingID int64, req *domain.AccessCodeReq) (*domain.AccessCode, error) {
	booking, err := s.bookings.GetByID(ctx, s.db, bookingID)
	if err != nil {
		return nil, err
	}
	if !ownsHotel(hotelIDs, booking.HotelID) {
		return nil, domain.ErrNotFound
	}
	if booking.Status != domain.BookingConfirmed && booking.Status != domain.BookingCheckedIn {
		return nil, domain.Invalid("booking", "access codes require a confirmed or checked-in booking")
	}

	hotel, err := s.hotels.GetByID(ctx, s.db, booking.HotelID)
	if err != nil {
		return nil, err
	}

	// Per-request override, then the hotel's provider, then the deployment
	// default. No provider anywhere means the hotel has no locks.
	providerName := req.Type
	if providerName == "" {
		providerName = hotel.LockProvider
	}
	if providerName == "" {
		providerName = s.cfg.Locks.DefaultProvider
	}
	if providerName == "" {
		return nil, domain.Invalid("lock_provider", "hotel has no lock provider configured")
	}

	unit, err := s.units.GetByID(ctx, s.db, booking.UnitID)
	if err != nil {
		return nil, err
	}

	validFrom := req.ValidFrom
	validUntil := req.ValidTo
	if validFrom.IsZero() {
		validFrom = booking.CheckIn
	}
	if validUntil.IsZero() {
		validUntil = booking.CheckOut
	}
	if !validUntil.After(validFrom) {
		return nil, domain.Invalid("valid_to", "must be after valid_from")
	}

	guestName := ""
	if guest, err := s.guests.GetByID(ctx, s.db, booking.GuestID); err == nil {
		guestName = guest.FullName
	}

	provider := s.registry.For(providerName)
	issued, err := provider.Generate(ctx, locks.Request{
		DeviceID:   unit.LockDeviceID,
		GuestName:  guestName,
		ValidFrom:  validFrom,
		ValidUntil: validUntil,
		Credential: s.credentialFor(provider.Kind()),
	})
	if err != nil {
		return nil, &domain.UpstreamError{System: "lock provider " + providerName, Err: err}
	}

	code := &domain.AccessCode{
		BookingID:  booking.ID,
		Provider:   string(provider.Kind()),
		DeviceID:   unit.LockDeviceID,
		Code:       issued.Code,
		ValidFrom:  validFrom,
		ValidUntil: validUntil,
		IsActive:   true,
	}
	if err := s.accessCodes.Create(ctx, s.db, code); err != nil {
		return nil, err
	}

	if err := s.eventBus.Publish(ctx, events.AccessIssued, events.AccessCodeEvent{
		AccessCodeID: code.ID,
		BookingID:    booking.ID,
		Provider:     code.Provider,
		ValidFrom:    validFrom,
		ValidUntil:   validUntil,
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish access issued event", "error", err, "booking_id", booking.ID)
	}

	return code, nil
}

func (s *accessService) credentialFor(kind locks.Kind) string {
	switch kind {
	case locks.KindTTLock:
		return s.cfg.Locks.TTLockSecret
	case locks.KindNuki:
		return s.cfg.Locks.NukiAPIKey
	case locks.KindESP32:
		return s.cfg.Locks.ESP32SharedKey
	default:
		return ""
	}
}

func (s *accessService) ListByBooking(ctx context.Context, hotelIDs []int64, bookingID int64) ([]domain.AccessCode, error) {
	booking, err := s.bookings.GetByID(ctx, s.db, bookingID)
	if err != nil {
		return nil, err
	}
	if !ownsHotel(hotelIDs, booking.HotelID) {
		return nil, domain.ErrNotFound
	}
	return s.accessCodes.ListByBooking(ctx, s.db, bookingID)
}
