package service_test

import (
	"context"
	"time"

	"github.com/F0u4d8/whelhost-PMS-sub002/internal/domain"
	"github.com/F0u4d8/whelhost-PMS-sub002/internal/repository"
)

// ---------- Mocks ----------

// mockTx runs the function without a real transaction. The mock repos below
// ignore the Querier argument, so nil is fine.
type mockTx struct{}

func (mockTx) InTx(_ context.Context, fn func(q repository.Querier) error) error {
	return fn(nil)
}

type mockBookingRepo struct {
	bookings map[int64]*domain.Booking
	nextID   int64
}

func newMockBookingRepo() *mockBookingRepo {
	return &mockBookingRepo{bookings: make(map[int64]*domain.Booking), nextID: 1}
}

func (m *mockBookingRepo) add(b *domain.Booking) *domain.Booking {
	if b.ID == 0 {
		b.ID = m.nextID
		m.nextID++
	} else if b.ID >= m.nextID {
		m.nextID = b.ID + 1
	}
	m.bookings[b.ID] = b
	return b
}

func (m *mockBookingRepo) Create(_ context.Context, _ repository.Querier, b *domain.Booking) error {
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	m.add(b)
	return nil
}

func (m *mockBookingRepo) GetByID(_ context.Context, _ repository.Querier, id int64) (*domain.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *mockBookingRepo) GetForUpdate(ctx context.Context, q repository.Querier, id int64) (*domain.Booking, error) {
	return m.GetByID(ctx, q, id)
}

func (m *mockBookingRepo) List(_ context.Context, _ repository.Querier, f repository.BookingFilter) ([]domain.Booking, error) {
	out := []domain.Booking{}
	for _, b := range m.bookings {
		inSet := false
		for _, h := range f.HotelIDs {
			if b.HotelID == h {
				inSet = true
			}
		}
		if !inSet {
			continue
		}
		if f.Status != nil && b.Status != *f.Status {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

// HasConflict mirrors the SQL overlap predicate: inclusive bounds by default,
// strict bounds when sameDayTurnover is set.
func (m *mockBookingRepo) HasConflict(_ context.Context, _ repository.Querier, unitID int64, checkIn, checkOut time.Time, excludeID int64, sameDayTurnover bool) (bool, error) {
	for _, b := range m.bookings {
		if b.UnitID != unitID || b.ID == excludeID || !b.Status.Blocks() {
			continue
		}
		if sameDayTurnover {
			if b.CheckIn.Before(checkOut) && b.CheckOut.After(checkIn) {
				return true, nil
			}
		} else {
			if !b.CheckIn.After(checkOut) && !b.CheckOut.Before(checkIn) {
				return true, nil
			}
		}
	}
	return false, nil
}

func (m *mockBookingRepo) UpdateStatus(_ context.Context, _ repository.Querier, id int64, to domain.BookingStatus, at time.Time) (*domain.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	b.Status = to
	switch to {
	case domain.BookingCheckedIn:
		b.CheckedInAt = &at
	case domain.BookingCheckedOut:
		b.CheckedOutAt = &at
	case domain.BookingCancelled:
		b.CancelledAt = &at
	}
	b.UpdatedAt = at
	cp := *b
	return &cp, nil
}

type mockUnitRepo struct {
	units map[int64]*domain.Unit
}

func newMockUnitRepo() *mockUnitRepo {
	return &mockUnitRepo{units: make(map[int64]*domain.Unit)}
}

func (m *mockUnitRepo) add(u *domain.Unit) *domain.Unit {
	m.units[u.ID] = u
	return u
}

func (m *mockUnitRepo) Create(_ context.Context, _ repository.Querier, u *domain.Unit) error {
	u.ID = int64(len(m.units) + 1)
	m.units[u.ID] = u
	return nil
}

func (m *mockUnitRepo) GetByID(_ context.Context, _ repository.Querier, id int64) (*domain.Unit, error) {
	u, ok := m.units[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUnitRepo) GetForUpdate(ctx context.Context, q repository.Querier, id int64) (*domain.Unit, error) {
	return m.GetByID(ctx, q, id)
}

func (m *mockUnitRepo) ListByHotel(_ context.Context, _ repository.Querier, hotelID int64) ([]domain.Unit, error) {
	out := []domain.Unit{}
	for _, u := range m.units {
		if u.HotelID == hotelID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *mockUnitRepo) Update(_ context.Context, _ repository.Querier, id int64, patch domain.UnitPatch) (*domain.Unit, error) {
	u, ok := m.units[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Status != nil {
		u.Status = domain.UnitStatus(*patch.Status)
	}
	if patch.LockDeviceID != nil {
		u.LockDeviceID = *patch.LockDeviceID
	}
	cp := *u
	return &cp, nil
}

func (m *mockUnitRepo) UpdateStatus(_ context.Context, _ repository.Querier, id int64, status domain.UnitStatus) error {
	u, ok := m.units[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Status = status
	return nil
}

func (m *mockUnitRepo) Delete(_ context.Context, _ repository.Querier, id int64) (bool, error) {
	if _, ok := m.units[id]; !ok {
		return false, nil
	}
	delete(m.units, id)
	return true, nil
}

type mockGuestRepo struct {
	guests map[int64]*domain.Guest
	nextID int64
}

func newMockGuestRepo() *mockGuestRepo {
	return &mockGuestRepo{guests: make(map[int64]*domain.Guest), nextID: 1}
}

func (m *mockGuestRepo) add(g *domain.Guest) *domain.Guest {
	if g.ID == 0 {
		g.ID = m.nextID
		m.nextID++
	} else if g.ID >= m.nextID {
		m.nextID = g.ID + 1
	}
	m.guests[g.ID] = g
	return g
}

func (m *mockGuestRepo) Create(_ context.Context, _ repository.Querier, g *domain.Guest) error {
	m.add(g)
	return nil
}

func (m *mockGuestRepo) GetByID(_ context.Context, _ repository.Querier, id int64) (*domain.Guest, error) {
	g, ok := m.guests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (m *mockGuestRepo) FindByEmail(_ context.Context, _ repository.Querier, hotelID int64, email string) (*domain.Guest, error) {
	for _, g := range m.guests {
		if g.HotelID == hotelID && g.Email == email {
			cp := *g
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockGuestRepo) ListByHotel(_ context.Context, _ repository.Querier, hotelID int64) ([]domain.Guest, error) {
	out := []domain.Guest{}
	for _, g := range m.guests {
		if g.HotelID == hotelID {
			out = append(out, *g)
		}
	}
	return out, nil
}

type mockHotelRepo struct {
	hotels map[int64]*domain.Hotel
}

func newMockHotelRepo() *mockHotelRepo {
	return &mockHotelRepo{hotels: make(map[int64]*domain.Hotel)}
}

func (m *mockHotelRepo) add(h *domain.Hotel) *domain.Hotel {
	m.hotels[h.ID] = h
	return h
}

func (m *mockHotelRepo) Create(_ context.Context, _ repository.Querier, h *domain.Hotel) error {
	h.ID = int64(len(m.hotels) + 1)
	m.hotels[h.ID] = h
	return nil
}

func (m *mockHotelRepo) GetByID(_ context.Context, _ repository.Querier, id int64) (*domain.Hotel, error) {
	h, ok := m.hotels[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *h
	return &cp, nil
}

func (m *mockHotelRepo) ListByOwner(_ context.Context, _ repository.Querier, ownerID int64) ([]domain.Hotel, error) {
	out := []domain.Hotel{}
	for _, h := range m.hotels {
		if h.OwnerID == ownerID {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (m *mockHotelRepo) ListIDsByOwner(_ context.Context, _ repository.Querier, ownerID int64) ([]int64, error) {
	out := []int64{}
	for _, h := range m.hotels {
		if h.OwnerID == ownerID {
			out = append(out, h.ID)
		}
	}
	return out, nil
}

func (m *mockHotelRepo) Update(_ context.Context, _ repository.Querier, id int64, patch domain.HotelPatch) (*domain.Hotel, error) {
	h, ok := m.hotels[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if patch.Name != nil {
		h.Name = *patch.Name
	}
	if patch.LockProvider != nil {
		h.LockProvider = *patch.LockProvider
	}
	cp := *h
	return &cp, nil
}

func (m *mockHotelRepo) Delete(_ context.Context, _ repository.Querier, id int64) (bool, error) {
	if _, ok := m.hotels[id]; !ok {
		return false, nil
	}
	delete(m.hotels, id)
	return true, nil
}

type mockTaskRepo struct {
	tasks  []*domain.Task
	nextID int64
}

func newMockTaskRepo() *mockTaskRepo { return &mockTaskRepo{nextID: 1} }

func (m *mockTaskRepo) Create(_ context.Context, _ repository.Querier, t *domain.Task) error {
	t.ID = m.nextID
	m.nextID++
	t.Status = domain.TaskOpen
	t.CreatedAt = time.Now().UTC()
	m.tasks = append(m.tasks, t)
	return nil
}

func (m *mockTaskRepo) GetByID(_ context.Context, _ repository.Querier, id int64) (*domain.Task, error) {
	for _, t := range m.tasks {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockTaskRepo) List(_ context.Context, _ repository.Querier, f repository.TaskFilter) ([]domain.Task, error) {
	out := []domain.Task{}
	for _, t := range m.tasks {
		for _, h := range f.HotelIDs {
			if t.HotelID == h {
				out = append(out, *t)
			}
		}
	}
	return out, nil
}

func (m *mockTaskRepo) Complete(_ context.Context, _ repository.Querier, id int64, at time.Time) (*domain.Task, error) {
	for _, t := range m.tasks {
		if t.ID == id {
			t.Status = domain.TaskDone
			t.DoneAt = &at
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

type mockAccessCodeRepo struct {
	codes  []*domain.AccessCode
	nextID int64
}

func newMockAccessCodeRepo() *mockAccessCodeRepo { return &mockAccessCodeRepo{nextID: 1} }

func (m *mockAccessCodeRepo) Create(_ context.Context, _ repository.Querier, c *domain.AccessCode) error {
	c.ID = m.nextID
	m.nextID++
	c.CreatedAt = time.Now().UTC()
	m.codes = append(m.codes, c)
	return nil
}

func (m *mockAccessCodeRepo) ListByBooking(_ context.Context, _ repository.Querier, bookingID int64) ([]domain.AccessCode, error) {
	out := []domain.AccessCode{}
	for _, c := range m.codes {
		if c.BookingID == bookingID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *mockAccessCodeRepo) RevokeAllForBooking(_ context.Context, _ repository.Querier, bookingID int64, at time.Time) (int64, error) {
	var n int64
	for _, c := range m.codes {
		if c.BookingID == bookingID && c.IsActive {
			c.IsActive = false
			c.RevokedAt = &at
			n++
		}
	}
	return n, nil
}

func (m *mockAccessCodeRepo) CountActive(_ context.Context, _ repository.Querier, bookingID int64) (int64, error) {
	var n int64
	for _, c := range m.codes {
		if c.BookingID == bookingID && c.IsActive {
			n++
		}
	}
	return n, nil
}

type mockGuestTokenRepo struct {
	tokens map[string]*domain.GuestAccessToken
}

func newMockGuestTokenRepo() *mockGuestTokenRepo {
	return &mockGuestTokenRepo{tokens: make(map[string]*domain.GuestAccessToken)}
}

func (m *mockGuestTokenRepo) Create(_ context.Context, _ repository.Querier, t *domain.GuestAccessToken) error {
	t.CreatedAt = time.Now().UTC()
	m.tokens[t.ID] = t
	return nil
}

func (m *mockGuestTokenRepo) GetByID(_ context.Context, _ repository.Querier, id string) (*domain.GuestAccessToken, error) {
	t, ok := m.tokens[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *mockGuestTokenRepo) MarkUsed(_ context.Context, _ repository.Querier, id string, at time.Time) error {
	t, ok := m.tokens[id]
	if !ok {
		return domain.ErrNotFound
	}
	t.UsedAt = &at
	return nil
}

func (m *mockGuestTokenRepo) DeleteExpired(_ context.Context, _ repository.Querier) (int64, error) {
	var n int64
	now := time.Now().UTC()
	for id, t := range m.tokens {
		if t.ExpiresAt.Before(now) {
			delete(m.tokens, id)
			n++
		}
	}
	return n, nil
}

type mockMessageRepo struct {
	messages []*domain.Message
	nextID   int64
}

func newMockMessageRepo() *mockMessageRepo { return &mockMessageRepo{nextID: 1} }

func (m *mockMessageRepo) Create(_ context.Context, _ repository.Querier, msg *domain.Message) error {
	msg.ID = m.nextID
	m.nextID++
	msg.CreatedAt = time.Now().UTC()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockMessageRepo) ListByBooking(_ context.Context, _ repository.Querier, bookingID int64) ([]domain.Message, error) {
	out := []domain.Message{}
	for _, msg := range m.messages {
		if msg.BookingID == bookingID {
			out = append(out, *msg)
		}
	}
	return out, nil
}

type mockMailer struct {
	sent     []string // subjects in send order
	billURLs []string
	sendErr  error
}

func (m *mockMailer) Send(toEmail, toName, subject, text, html string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, subject)
	return nil
}

func (m *mockMailer) SendBill(toEmail, toName, hotelName, billURL string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.billURLs = append(m.billURLs, billURL)
	return nil
}
