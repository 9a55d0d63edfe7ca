package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"

	"github.com/F0u4d8/whelhost-PMS-sub002/internal/domain"
	"github.com/F0u4d8/whelhost-PMS-sub002/internal/service"
	"github.com/F0u4d8/whelhost-PMS-sub002/pkg/config"
	"github.com/F0u4d8/whelhost-PMS-sub002/pkg/events"
)

type bookingFixture struct {
	svc         service.BookingService
	bookings    *mockBookingRepo
	units       *mockUnitRepo
	guests      *mockGuestRepo
	hotels      *mockHotelRepo
	tasks       *mockTaskRepo
	accessCodes *mockAccessCodeRepo
	guestTokens *mockGuestTokenRepo
	messages    *mockMessageRepo
	mail        *mockMailer
	cfg         *config.Config
}

func newBookingFixture(sameDayTurnover bool) *bookingFixture {
	f := &bookingFixture{
		bookings:    newMockBookingRepo(),
		units:       newMockUnitRepo(),
		guests:      newMockGuestRepo(),
		hotels:      newMockHotelRepo(),
		tasks:       newMockTaskRepo(),
		accessCodes: newMockAccessCodeRepo(),
		guestTokens: newMockGuestTokenRepo(),
		messages:    newMockMessageRepo(),
		mail:        &mockMailer{},
		cfg: &config.Config{
			Booking: config.BookingConfig{SameDayTurnover: sameDayTurnover},
			Auth:    config.AuthConfig{BillTokenTTL: 365 * 24 * time.Hour},
			Email:   config.EmailConfig{BillBaseURL: "https://pay.example.com"},
		},
	}

	f.hotels.add(&domain.Hotel{ID: 1, OwnerID: 10, Name: "Sunset Lodge", Currency: "SAR"})
	f.units.add(&domain.Unit{ID: 1, HotelID: 1, Name: "101", BaseRateCents: 25_000, Status: domain.UnitAvailable})
	f.guests.add(&domain.Guest{ID: 1, HotelID: 1, FullName: "Sara Odeh", Email: "sara@example.com"})

	f.svc = service.NewBookingService(
		nil, mockTx{},
		f.bookings, f.units, f.guests, f.hotels, f.tasks,
		f.accessCodes, f.guestTokens, f.messages,
		f.mail, events.NoopEventBus{}, f.cfg,
	)
	return f
}

var ownedHotels = []int64{1}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func (f *bookingFixture) seedBooking(status domain.BookingStatus, checkIn, checkOut string) *domain.Booking {
	return f.bookings.add(&domain.Booking{
		HotelID:   1,
		UnitID:    1,
		GuestID:   1,
		Reference: "WH-SEED",
		Status:    status,
		CheckIn:   day(checkIn),
		CheckOut:  day(checkOut),
		Adults:    2,
	})
}

func createReq(checkIn, checkOut string) *domain.BookingCreateReq {
	return &domain.BookingCreateReq{
		HotelID:  1,
		UnitID:   1,
		GuestID:  1,
		CheckIn:  day(checkIn),
		CheckOut: day(checkOut),
		Adults:   2,
	}
}

func TestCreateBookingOverlapConflicts(t *testing.T) {
	f := newBookingFixture(false)
	f.seedBooking(domain.BookingConfirmed, "2024-06-01", "2024-06-05")

	_, err := f.svc.Create(context.Background(), ownedHotels, createReq("2024-06-04", "2024-06-08"))
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestCreateBookingTouchingDatesConflictByDefault(t *testing.T) {
	f := newBookingFixture(false)
	f.seedBooking(domain.BookingConfirmed, "2024-06-01", "2024-06-05")

	_, err := f.svc.Create(context.Background(), ownedHotels, createReq("2024-06-05", "2024-06-08"))
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict error for touching dates, got %v", err)
	}
}

func TestCreateBookingSameDayTurnoverAllowsTouchingDates(t *testing.T) {
	f := newBookingFixture(true)
	f.seedBooking(domain.BookingConfirmed, "2024-06-01", "2024-06-05")

	b, err := f.svc.Create(context.Background(), ownedHotels, createReq("2024-06-05", "2024-06-08"))
	if err != nil {
		t.Fatalf("expected touching dates to be allowed, got %v", err)
	}
	if b.Status != domain.BookingPending {
		t.Errorf("expected new booking to be pending, got %s", b.Status)
	}
}

func TestCreateBookingCancelledDoesNotBlock(t *testing.T) {
	f := newBookingFixture(false)
	f.seedBooking(domain.BookingCancelled, "2024-06-01", "2024-06-05")

	if _, err := f.svc.Create(context.Background(), ownedHotels, createReq("2024-06-02", "2024-06-04")); err != nil {
		t.Fatalf("cancelled booking should not block, got %v", err)
	}
}

func TestCreateBookingInlineGuestReusedByEmail(t *testing.T) {
	f := newBookingFixture(false)

	req := createReq("2024-07-01", "2024-07-03")
	req.GuestID = 0
	req.Guest = &domain.GuestCreateReq{FullName: "Sara Odeh", Email: "sara@example.com"}

	b, err := f.svc.Create(context.Background(), ownedHotels, req)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if b.GuestID != 1 {
		t.Errorf("expected existing guest 1 to be reused, got %d", b.GuestID)
	}

	req2 := createReq("2024-07-05", "2024-07-07")
	req2.GuestID = 0
	req2.Guest = &domain.GuestCreateReq{FullName: "New Guest", Email: "new@example.com"}

	b2, err := f.svc.Create(context.Background(), ownedHotels, req2)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if b2.GuestID == 1 {
		t.Error("expected a new guest profile for an unseen email")
	}
}

func TestCreateBookingDefaultsTotalFromBaseRate(t *testing.T) {
	f := newBookingFixture(false)

	b, err := f.svc.Create(context.Background(), ownedHotels, createReq("2024-07-01", "2024-07-04"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if b.TotalAmountCents != 3*25_000 {
		t.Errorf("expected 3 nights at base rate = 75000, got %d", b.TotalAmountCents)
	}
	if !strings.HasPrefix(b.Reference, "WH-") {
		t.Errorf("unexpected reference format %q", b.Reference)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	f := newBookingFixture(false)

	cases := []struct {
		name   string
		mutate func(*domain.BookingCreateReq)
	}{
		{"checkout before checkin", func(r *domain.BookingCreateReq) { r.CheckOut = day("2024-06-01"); r.CheckIn = day("2024-06-03") }},
		{"zero adults", func(r *domain.BookingCreateReq) { r.Adults = 0 }},
		{"no guest", func(r *domain.BookingCreateReq) { r.GuestID = 0; r.Guest = nil }},
		{"bad initial status", func(r *domain.BookingCreateReq) { r.Status = domain.BookingCheckedIn }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := createReq("2024-06-01", "2024-06-03")
			tc.mutate(req)
			if _, err := f.svc.Create(context.Background(), ownedHotels, req); !domain.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateBookingForeignHotelNotFound(t *testing.T) {
	f := newBookingFixture(false)

	req := createReq("2024-06-01", "2024-06-03")
	if _, err := f.svc.Create(context.Background(), []int64{99}, req); err != domain.ErrNotFound {
		t.Fatalf("expected not found for unowned hotel, got %v", err)
	}
}

func TestConfirmOnlyFromPending(t *testing.T) {
	f := newBookingFixture(false)
	pending := f.seedBooking(domain.BookingPending, "2024-06-01", "2024-06-03")

	b, err := f.svc.Confirm(context.Background(), ownedHotels, pending.ID)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if b.Status != domain.BookingConfirmed {
		t.Errorf("expected confirmed, got %s", b.Status)
	}

	if _, err := f.svc.Confirm(context.Background(), ownedHotels, pending.ID); !domain.IsValidation(err) {
		t.Errorf("expected transition error on double confirm, got %v", err)
	}
}

func TestCheckInSideEffects(t *testing.T) {
	f := newBookingFixture(false)
	b := f.seedBooking(domain.BookingConfirmed, "2024-06-01", "2024-06-05")

	res, err := f.svc.CheckIn(context.Background(), ownedHotels, b.ID)
	if err != nil {
		t.Fatalf("check-in failed: %v", err)
	}
	if res.Booking.Status != domain.BookingCheckedIn {
		t.Errorf("expected checked_in, got %s", res.Booking.Status)
	}
	if res.Booking.CheckedInAt == nil {
		t.Error("expected checked_in_at to be stamped")
	}

	unit, _ := f.units.GetByID(context.Background(), nil, 1)
	if unit.Status != domain.UnitOccupied {
		t.Errorf("expected unit occupied, got %s", unit.Status)
	}

	if res.PrepTask == nil {
		t.Fatal("expected a cleaning prep task")
	}
	if res.PrepTask.Kind != domain.TaskCleaningPrep {
		t.Errorf("expected cleaning_prep task, got %s", res.PrepTask.Kind)
	}
	if !res.PrepTask.DueDate.Equal(b.CheckOut) {
		t.Errorf("expected prep task due on check-out day, got %s", res.PrepTask.DueDate)
	}
}

func TestCheckInRequiresConfirmed(t *testing.T) {
	f := newBookingFixture(false)
	pending := f.seedBooking(domain.BookingPending, "2024-06-01", "2024-06-05")

	if _, err := f.svc.CheckIn(context.Background(), ownedHotels, pending.ID); !domain.IsValidation(err) {
		t.Fatalf("expected transition error for pending booking, got %v", err)
	}
}

func TestDoubleCheckInFails(t *testing.T) {
	f := newBookingFixture(false)
	b := f.seedBooking(domain.BookingConfirmed, "2024-06-01", "2024-06-05")

	if _, err := f.svc.CheckIn(context.Background(), ownedHotels, b.ID); err != nil {
		t.Fatalf("first check-in failed: %v", err)
	}
	if _, err := f.svc.CheckIn(context.Background(), ownedHotels, b.ID); !domain.IsValidation(err) {
		t.Fatalf("expected transition error on second check-in, got %v", err)
	}
}

func TestCheckOutSideEffects(t *testing.T) {
	f := newBookingFixture(false)
	b := f.seedBooking(domain.BookingCheckedIn, "2024-06-01", "2024-06-05")
	f.units.units[1].Status = domain.UnitOccupied

	now := time.Now().UTC()
	f.accessCodes.Create(context.Background(), nil, &domain.AccessCode{BookingID: b.ID, Code: "111111", IsActive: true, ValidFrom: now, ValidUntil: now.Add(time.Hour)})
	f.accessCodes.Create(context.Background(), nil, &domain.AccessCode{BookingID: b.ID, Code: "222222", IsActive: true, ValidFrom: now, ValidUntil: now.Add(time.Hour)})

	res, err := f.svc.CheckOut(context.Background(), ownedHotels, b.ID)
	if err != nil {
		t.Fatalf("check-out failed: %v", err)
	}
	if res.Booking.Status != domain.BookingCheckedOut {
		t.Errorf("expected checked_out, got %s", res.Booking.Status)
	}
	if res.RevokedCodes != 2 {
		t.Errorf("expected 2 revoked codes, got %d", res.RevokedCodes)
	}
	if n, _ := f.accessCodes.CountActive(context.Background(), nil, b.ID); n != 0 {
		t.Errorf("expected no active codes after check-out, got %d", n)
	}

	unit, _ := f.units.GetByID(context.Background(), nil, 1)
	if unit.Status != domain.UnitAvailable {
		t.Errorf("expected unit available after check-out, got %s", unit.Status)
	}

	if res.CleaningTask == nil || res.CleaningTask.Kind != domain.TaskCleaning {
		t.Errorf("expected a cleaning task, got %+v", res.CleaningTask)
	}

	if !strings.HasPrefix(res.BillURL, "https://pay.example.com/guest/bills/") {
		t.Fatalf("unexpected bill URL %q", res.BillURL)
	}
	token := strings.TrimPrefix(res.BillURL, "https://pay.example.com/guest/bills/")
	id, secret, ok := strings.Cut(token, ".")
	if !ok {
		t.Fatalf("bill token %q is not id.secret", token)
	}
	stored, err := f.guestTokens.GetByID(context.Background(), nil, id)
	if err != nil {
		t.Fatalf("bill token not persisted: %v", err)
	}
	if stored.SecretHash == secret {
		t.Error("secret must not be stored in plaintext")
	}
	if match, _ := argon2id.ComparePasswordAndHash(secret, stored.SecretHash); !match {
		t.Error("stored hash does not verify the URL secret")
	}

	msgs, _ := f.messages.ListByBooking(context.Background(), nil, b.ID)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 bill message, got %d", len(msgs))
	}
	if len(f.mail.billURLs) != 1 || f.mail.billURLs[0] != res.BillURL {
		t.Errorf("expected bill email with URL %q, got %v", res.BillURL, f.mail.billURLs)
	}
}

func TestCheckOutRequiresCheckedIn(t *testing.T) {
	f := newBookingFixture(false)
	b := f.seedBooking(domain.BookingConfirmed, "2024-06-01", "2024-06-05")

	if _, err := f.svc.CheckOut(context.Background(), ownedHotels, b.ID); !domain.IsValidation(err) {
		t.Fatalf("expected transition error, got %v", err)
	}
}

func TestCheckOutSurvivesMailFailure(t *testing.T) {
	f := newBookingFixture(false)
	f.mail.sendErr = context.DeadlineExceeded
	b := f.seedBooking(domain.BookingCheckedIn, "2024-06-01", "2024-06-05")

	if _, err := f.svc.CheckOut(context.Background(), ownedHotels, b.ID); err != nil {
		t.Fatalf("mail failure must not fail check-out, got %v", err)
	}
}

func TestCancelFromCheckedInFreesUnit(t *testing.T) {
	f := newBookingFixture(false)
	b := f.seedBooking(domain.BookingCheckedIn, "2024-06-01", "2024-06-05")
	f.units.units[1].Status = domain.UnitOccupied

	cancelled, err := f.svc.Cancel(context.Background(), ownedHotels, b.ID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != domain.BookingCancelled {
		t.Errorf("expected cancelled, got %s", cancelled.Status)
	}
	unit, _ := f.units.GetByID(context.Background(), nil, 1)
	if unit.Status != domain.UnitAvailable {
		t.Errorf("expected unit freed on cancel, got %s", unit.Status)
	}
}

func TestCancelTerminalFails(t *testing.T) {
	f := newBookingFixture(false)

	for _, status := range []domain.BookingStatus{domain.BookingCheckedOut, domain.BookingCancelled} {
		b := f.seedBooking(status, "2024-06-01", "2024-06-05")
		if _, err := f.svc.Cancel(context.Background(), ownedHotels, b.ID); !domain.IsValidation(err) {
			t.Errorf("expected transition error cancelling %s booking, got %v", status, err)
		}
	}
}

func TestGetScopedToOwnedHotels(t *testing.T) {
	f := newBookingFixture(false)
	b := f.seedBooking(domain.BookingConfirmed, "2024-06-01", "2024-06-05")

	if _, err := f.svc.Get(context.Background(), []int64{2, 3}, b.ID); err != domain.ErrNotFound {
		t.Fatalf("expected not found for unowned booking, got %v", err)
	}
	if _, err := f.svc.Get(context.Background(), ownedHotels, b.ID); err != nil {
		t.Fatalf("owner should see the booking, got %v", err)
	}
}
