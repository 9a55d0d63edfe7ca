// Package service implements the business rules on top of the repository
// layer. Booking lifecycle transitions run inside a single database
// transaction so a failed side effect rolls the status change back too.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"

	"github.com/F0u4d8/whelhost-PMS-sub002/internal/domain"
	"github.com/F0u4d8/whelhost-PMS-sub002/internal/mailer"
	"github.com/F0u4d8/whelhost-PMS-sub002/internal/repository"
	"github.com/F0u4d8/whelhost-PMS-sub002/pkg/config"
	"github.com/F0u4d8/whelhost-PMS-sub002/pkg/events"
	"github.com/F0u4d8/whelhost-PMS-sub002/pkg/logger"
)

type BookingService interface {
	Create(ctx context.Context, hotelIDs []int64, req *domain.BookingCreateReq) (*domain.Booking, error)
	Get(ctx context.Context, hotelIDs []int64, id int64) (*domain.Booking, error)
	List(ctx context.Context, hotelIDs []int64, status *domain.BookingStatus, limit, offset int) ([]domain.Booking, error)
	Confirm(ctx context.Context, hotelIDs []int64, id int64) (*domain.Booking, error)
	CheckIn(ctx context.Context, hotelIDs []int64, id int64) (*domain.CheckInResult, error)
	CheckOut(ctx context.Context, hotelIDs []int64, id int64) (*domain.CheckOutResult, error)
	Cancel(ctx context.Context, hotelIDs []int64, id int64) (*domain.Booking, error)
}

type bookingService struct {
	db          repository.Querier
	tx          repository.TxRunner
	bookings    repository.BookingRepository
	units       repository.UnitRepository
	guests      repository.GuestRepository
	hotels      repository.HotelRepository
	tasks       repository.TaskRepository
	accessCodes repository.AccessCodeRepository
	guestTokens repository.GuestTokenRepository
	messages    repository.MessageRepository
	mail        mailer.Service
	eventBus    events.EventBus
	cfg         *config.Config
}

func NewBookingService(
	db repository.Querier,
	tx repository.TxRunner,
	bookings repository.BookingRepository,
	units repository.UnitRepository,
	guests repository.GuestRepository,
	hotels repository.HotelRepository,
	tasks repository.TaskRepository,
	accessCodes repository.AccessCodeRepository,
	guestTokens repository.GuestTokenRepository,
	messages repository.MessageRepository,
	mail mailer.Service,
	eventBus events.EventBus,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		db:          db,
		tx:          tx,
		bookings:    bookings,
		units:       units,
		guests:      guests,
		hotels:      hotels,
		tasks:       tasks,
		accessCodes: accessCodes,
		guestTokens: guestTokens,
		messages:    messages,
		mail:        mail,
		eventBus:    eventBus,
		cfg:         cfg,
	}
}

// ownsHotel reports whether id is in the caller's resolved hotel set.
func ownsHotel(hotelIDs []int64, id int64) bool {
	for _, h := range hotelIDs {
		if h == id {
			return true
		}
	}
	return false
}

func newBookingReference() string {
	return "WH-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

func (s *bookingService) Create(ctx context.Context, hotelIDs []int64, req *domain.BookingCreateReq) (*domain.Booking, error) {
	if err := s.validateCreate(req); err != nil {
		return nil, err
	}
	if !ownsHotel(hotelIDs, req.HotelID) {
		return nil, domain.ErrNotFound
	}

	status := req.Status
	if status == "" {
		status = domain.BookingPending
	}
	source := req.Source
	if source == "" {
		source = domain.SourceDirect
	}

	var booking *domain.Booking
	err := s.tx.InTx(ctx, func(q repository.Querier) error {
		// Lock the unit row first so concurrent creates for the same unit
		// serialize; the conflict check below runs under this lock.
		unit, err := s.units.GetForUpdate(ctx, q, req.UnitID)
		if err != nil {
			return err
		}
		if unit.HotelID != req.HotelID {
			return domain.ErrNotFound
		}

		conflict, err := s.bookings.HasConflict(ctx, q, req.UnitID, req.CheckIn, req.CheckOut, 0, s.cfg.Booking.SameDayTurnover)
		if err != nil {
			return fmt.Errorf("conflict check failed: %w", err)
		}
		if conflict {
			return &domain.ConflictError{UnitID: req.UnitID}
		}

		guestID, err := s.resolveGuest(ctx, q, req)
		if err != nil {
			return err
		}

		total := req.TotalAmountCents
		if total == 0 {
			nights := int64(req.CheckOut.Sub(req.CheckIn).Hours() / 24)
			if nights < 1 {
				nights = 1
			}
			total = nights * unit.BaseRateCents
		}

		b := &domain.Booking{
			HotelID:          req.HotelID,
			UnitID:           req.UnitID,
			GuestID:          guestID,
			Reference:        newBookingReference(),
			Status:           status,
			CheckIn:          req.CheckIn,
			CheckOut:         req.CheckOut,
			Adults:           req.Adults,
			Children:         req.Children,
			Source:           source,
			TotalAmountCents: total,
		}
		if err := s.bookings.Create(ctx, q, b); err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		// A confirmed booking starting today takes the unit immediately.
		if status == domain.BookingConfirmed && sameDay(req.CheckIn, time.Now().UTC()) {
			if err := s.units.UpdateStatus(ctx, q, unit.ID, domain.UnitOccupied); err != nil {
				return err
			}
		}

		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	guest, gerr := s.guests.GetByID(ctx, s.db, booking.GuestID)
	guestEmail := ""
	if gerr == nil {
		guestEmail = guest.Email
	}
	event := events.BookingCreatedEvent{
		BookingID:  booking.ID,
		HotelID:    booking.HotelID,
		UnitID:     booking.UnitID,
		GuestEmail: guestEmail,
		CheckIn:    booking.CheckIn,
		CheckOut:   booking.CheckOut,
		Status:     string(booking.Status),
		CreatedAt:  booking.CreatedAt,
	}
	if err := s.eventBus.Publish(ctx, events.BookingCreated, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish booking created event", "error", err, "booking_id", booking.ID)
	}

	return booking, nil
}

func (s *bookingService) validateCreate(req *domain.BookingCreateReq) error {
	if req.HotelID == 0 {
		return domain.Invalid("hotel_id", "is required")
	}
	if req.UnitID == 0 {
		return domain.Invalid("unit_id", "is required")
	}
	if req.CheckIn.IsZero() || req.CheckOut.IsZero() {
		return domain.Invalid("check_in", "check_in and check_out are required")
	}
	if !req.CheckOut.After(req.CheckIn) {
		return domain.Invalid("check_out", "must be after check_in")
	}
	if req.Adults < 1 {
		return domain.Invalid("adults", "at least one adult is required")
	}
	if req.GuestID == 0 && req.Guest == nil {
		return domain.Invalid("guest", "guest_id or an inline guest is required")
	}
	if req.Guest != nil {
		if req.Guest.FullName == "" {
			return domain.Invalid("guest.full_name", "is required")
		}
		if req.Guest.Email == "" {
			return domain.Invalid("guest.email", "is required")
		}
	}
	if req.Status != "" && req.Status != domain.BookingPending && req.Status != domain.BookingConfirmed {
		return domain.Invalid("status", "new bookings start as pending or confirmed")
	}
	if req.Source != "" {
		switch req.Source {
		case domain.SourceDirect, domain.SourceWalkIn, domain.SourceChannel:
		default:
			return domain.Invalid("source", "unknown booking source")
		}
	}
	return nil
}

// resolveGuest returns the guest to attach: an existing id, a match by email
// within the hotel, or a freshly created profile.
func (s *bookingService) resolveGuest(ctx context.Context, q repository.Querier, req *domain.BookingCreateReq) (int64, error) {
	if req.GuestID != 0 {
		g, err := s.guests.GetByID(ctx, q, req.GuestID)
		if err != nil {
			return 0, err
		}
		if g.HotelID != req.HotelID {
			return 0, domain.ErrNotFound
		}
		return g.ID, nil
	}

	existing, err := s.guests.FindByEmail(ctx, q, req.HotelID, req.Guest.Email)
	if err == nil {
		return existing.ID, nil
	}
	if err != domain.ErrNotFound {
		return 0, err
	}

	g := &domain.Guest{
		HotelID:  req.HotelID,
		FullName: req.Guest.FullName,
		Email:    req.Guest.Email,
		Phone:    req.Guest.Phone,
	}
	if err := s.guests.Create(ctx, q, g); err != nil {
		return 0, fmt.Errorf("failed to create guest: %w", err)
	}
	return g.ID, nil
}

func (s *bookingService) Get(ctx context.Context, hotelIDs []int64, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if !ownsHotel(hotelIDs, b.HotelID) {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

func (s *bookingService) List(ctx context.Context, hotelIDs []int64, status *domain.BookingStatus, limit, offset int) ([]domain.Booking, error) {
	if len(hotelIDs) == 0 {
		return []domain.Booking{}, nil
	}
	return s.bookings.List(ctx, s.db, repository.BookingFilter{
		HotelIDs: hotelIDs,
		Status:   status,
		Limit:    limit,
		Offset:   offset,
	})
}

func (s *bookingService) Confirm(ctx context.Context, hotelIDs []int64, id int64) (*domain.Booking, error) {
	var booking *domain.Booking
	err := s.tx.InTx(ctx, func(q repository.Querier) error {
		b, err := s.bookings.GetForUpdate(ctx, q, id)
		if err != nil {
			return err
		}
		if !ownsHotel(hotelIDs, b.HotelID) {
			return domain.ErrNotFound
		}
		if b.Status != domain.BookingPending {
			return &domain.TransitionError{From: b.Status, To: domain.BookingConfirmed}
		}
		booking, err = s.bookings.UpdateStatus(ctx, q, id, domain.BookingConfirmed, time.Now().UTC())
		return err
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) CheckIn(ctx context.Context, hotelIDs []int64, id int64) (*domain.CheckInResult, error) {
	now := time.Now().UTC()
	result := &domain.CheckInResult{}
	var from domain.BookingStatus

	err := s.tx.InTx(ctx, func(q repository.Querier) error {
		b, err := s.bookings.GetForUpdate(ctx, q, id)
		if err != nil {
			return err
		}
		if !ownsHotel(hotelIDs, b.HotelID) {
			return domain.ErrNotFound
		}
		if b.Status != domain.BookingConfirmed {
			return &domain.TransitionError{From: b.Status, To: domain.BookingCheckedIn}
		}
		from = b.Status

		updated, err := s.bookings.UpdateStatus(ctx, q, id, domain.BookingCheckedIn, now)
		if err != nil {
			return err
		}
		if err := s.units.UpdateStatus(ctx, q, b.UnitID, domain.UnitOccupied); err != nil {
			return err
		}

		// Housekeeping gets a heads-up for the departure day.
		task := &domain.Task{
			HotelID:   b.HotelID,
			BookingID: &b.ID,
			UnitID:    &b.UnitID,
			Title:     fmt.Sprintf("Prepare cleaning for %s", b.Reference),
			Kind:      domain.TaskCleaningPrep,
			DueDate:   b.CheckOut,
		}
		if err := s.tasks.Create(ctx, q, task); err != nil {
			return err
		}

		result.Booking = updated
		result.PrepTask = task
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishTransition(ctx, events.BookingCheckedIn, result.Booking, from, now)
	s.publishTask(ctx, result.PrepTask)
	return result, nil
}

func (s *bookingService) CheckOut(ctx context.Context, hotelIDs []int64, id int64) (*domain.CheckOutResult, error) {
	now := time.Now().UTC()
	result := &domain.CheckOutResult{}
	var from domain.BookingStatus
	var guest *domain.Guest
	var hotel *domain.Hotel

	err := s.tx.InTx(ctx, func(q repository.Querier) error {
		b, err := s.bookings.GetForUpdate(ctx, q, id)
		if err != nil {
			return err
		}
		if !ownsHotel(hotelIDs, b.HotelID) {
			return domain.ErrNotFound
		}
		if b.Status != domain.BookingCheckedIn {
			return &domain.TransitionError{From: b.Status, To: domain.BookingCheckedOut}
		}
		from = b.Status

		updated, err := s.bookings.UpdateStatus(ctx, q, id, domain.BookingCheckedOut, now)
		if err != nil {
			return err
		}
		if err := s.units.UpdateStatus(ctx, q, b.UnitID, domain.UnitAvailable); err != nil {
			return err
		}

		revoked, err := s.accessCodes.RevokeAllForBooking(ctx, q, b.ID, now)
		if err != nil {
			return err
		}

		task := &domain.Task{
			HotelID:   b.HotelID,
			BookingID: &b.ID,
			UnitID:    &b.UnitID,
			Title:     fmt.Sprintf("Clean unit after %s", b.Reference),
			Kind:      domain.TaskCleaning,
			DueDate:   now,
		}
		if err := s.tasks.Create(ctx, q, task); err != nil {
			return err
		}

		billURL, err := s.mintBillToken(ctx, q, b.ID, now)
		if err != nil {
			return err
		}

		hotel, err = s.hotels.GetByID(ctx, q, b.HotelID)
		if err != nil {
			return err
		}
		guest, err = s.guests.GetByID(ctx, q, b.GuestID)
		if err != nil {
			return err
		}

		msg := &domain.Message{
			HotelID:   b.HotelID,
			BookingID: b.ID,
			Direction: domain.MessageOutbound,
			Channel:   domain.ChannelEmail,
			Subject:   fmt.Sprintf("Your bill from %s", hotel.Name),
			Body:      fmt.Sprintf("Thank you for staying with us. Your bill is available at %s", billURL),
			SentAt:    &now,
		}
		if err := s.messages.Create(ctx, q, msg); err != nil {
			return err
		}

		result.Booking = updated
		result.RevokedCodes = int(revoked)
		result.CleaningTask = task
		result.BillURL = billURL
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Mail delivery is best effort; the check-out already committed.
	if err := s.mail.SendBill(guest.Email, guest.FullName, hotel.Name, result.BillURL); err != nil {
		logger.ErrorContext(ctx, "Failed to send bill email", "error", err, "booking_id", id)
	}

	s.publishTransition(ctx, events.BookingCheckedOut, result.Booking, from, now)
	s.publishTask(ctx, result.CleaningTask)
	if result.RevokedCodes > 0 {
		if err := s.eventBus.Publish(ctx, events.AccessRevoked, events.AccessCodeEvent{
			BookingID: id,
		}); err != nil {
			logger.ErrorContext(ctx, "Failed to publish access revoked event", "error", err, "booking_id", id)
		}
	}
	return result, nil
}

// mintBillToken creates a long-lived bearer token for the guest bill page.
// The persisted half is an argon2id hash; the plaintext secret only ever
// appears in the returned URL.
func (s *bookingService) mintBillToken(ctx context.Context, q repository.Querier, bookingID int64, now time.Time) (string, error) {
	id := uuid.NewString()
	secret := uuid.NewString()

	hash, err := argon2id.CreateHash(secret, argon2id.DefaultParams)
	if err != nil {
		return "", fmt.Errorf("failed to hash bill token: %w", err)
	}

	token := &domain.GuestAccessToken{
		ID:         id,
		BookingID:  bookingID,
		SecretHash: hash,
		ExpiresAt:  now.Add(s.cfg.Auth.BillTokenTTL),
	}
	if err := s.guestTokens.Create(ctx, q, token); err != nil {
		return "", err
	}

	base := strings.TrimRight(s.cfg.Email.BillBaseURL, "/")
	return fmt.Sprintf("%s/guest/bills/%s.%s", base, id, secret), nil
}

func (s *bookingService) Cancel(ctx context.Context, hotelIDs []int64, id int64) (*domain.Booking, error) {
	now := time.Now().UTC()
	var booking *domain.Booking
	var from domain.BookingStatus

	err := s.tx.InTx(ctx, func(q repository.Querier) error {
		b, err := s.bookings.GetForUpdate(ctx, q, id)
		if err != nil {
			return err
		}
		if !ownsHotel(hotelIDs, b.HotelID) {
			return domain.ErrNotFound
		}
		if b.Status.Terminal() {
			return &domain.TransitionError{From: b.Status, To: domain.BookingCancelled}
		}
		from = b.Status

		booking, err = s.bookings.UpdateStatus(ctx, q, id, domain.BookingCancelled, now)
		if err != nil {
			return err
		}
		if from == domain.BookingCheckedIn {
			if err := s.units.UpdateStatus(ctx, q, b.UnitID, domain.UnitAvailable); err != nil {
				return err
			}
		}
		if _, err := s.accessCodes.RevokeAllForBooking(ctx, q, b.ID, now); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishTransition(ctx, events.BookingCancelled, booking, from, now)
	return booking, nil
}

func (s *bookingService) publishTransition(ctx context.Context, subject string, b *domain.Booking, from domain.BookingStatus, at time.Time) {
	event := events.BookingTransitionEvent{
		BookingID: b.ID,
		HotelID:   b.HotelID,
		UnitID:    b.UnitID,
		From:      string(from),
		To:        string(b.Status),
		At:        at,
	}
	if err := s.eventBus.Publish(ctx, subject, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish booking transition event", "error", err, "booking_id", b.ID, "subject", subject)
	}
}

func (s *bookingService) publishTask(ctx context.Context, t *domain.Task) {
	if t == nil {
		return
	}
	bookingID := int64(0)
	if t.BookingID != nil {
		bookingID = *t.BookingID
	}
	event := events.TaskCreatedEvent{
		TaskID:    t.ID,
		HotelID:   t.HotelID,
		BookingID: bookingID,
		Kind:      string(t.Kind),
		DueDate:   t.DueDate,
	}
	if err := s.eventBus.Publish(ctx, events.TaskCreated, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish task created event", "error", err, "task_id", t.ID)
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
