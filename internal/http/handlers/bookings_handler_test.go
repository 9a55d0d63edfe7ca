package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/F0u4d8/whelhost-PMS-sub002/internal/domain"
	"github.com/F0u4d8/whelhost-PMS-sub002/internal/http/handlers"
	appmw "github.com/F0u4d8/whelhost-PMS-sub002/internal/http/middleware"
	"github.com/F0u4d8/whelhost-PMS-sub002/internal/service"
)

// ---------- Mocks ----------

type mockBookingService struct {
	booking    *domain.Booking
	bookings   []domain.Booking
	checkOut   *domain.CheckOutResult
	err        error
	lastHotels []int64
}

func (m *mockBookingService) Create(_ context.Context, hotelIDs []int64, _ *domain.BookingCreateReq) (*domain.Booking, error) {
	m.lastHotels = hotelIDs
	return m.booking, m.err
}

func (m *mockBookingService) Get(_ context.Context, hotelIDs []int64, _ int64) (*domain.Booking, error) {
	m.lastHotels = hotelIDs
	return m.booking, m.err
}

func (m *mockBookingService) List(_ context.Context, hotelIDs []int64, _ *domain.BookingStatus, _, _ int) ([]domain.Booking, error) {
	m.lastHotels = hotelIDs
	return m.bookings, m.err
}

func (m *mockBookingService) Confirm(_ context.Context, _ []int64, _ int64) (*domain.Booking, error) {
	return m.booking, m.err
}

func (m *mockBookingService) CheckIn(_ context.Context, _ []int64, _ int64) (*domain.CheckInResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.CheckInResult{Booking: m.booking}, nil
}

func (m *mockBookingService) CheckOut(_ context.Context, _ []int64, _ int64) (*domain.CheckOutResult, error) {
	return m.checkOut, m.err
}

func (m *mockBookingService) Cancel(_ context.Context, _ []int64, _ int64) (*domain.Booking, error) {
	return m.booking, m.err
}

type mockAccessService struct {
	code *domain.AccessCode
	err  error
}

func (m *mockAccessService) Issue(_ context.Context, _ []int64, _ int64, _ *domain.AccessCodeReq) (*domain.AccessCode, error) {
	return m.code, m.err
}

func (m *mockAccessService) ListByBooking(_ context.Context, _ []int64, _ int64) ([]domain.AccessCode, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []domain.AccessCode{*m.code}, nil
}

type mockMessagingService struct {
	msg *domain.Message
	err error
}

func (m *mockMessagingService) Send(_ context.Context, _ []int64, _ int64, _ *domain.MessageSendReq) (*domain.Message, error) {
	return m.msg, m.err
}

func (m *mockMessagingService) ListByBooking(_ context.Context, _ []int64, _ int64) ([]domain.Message, error) {
	return nil, m.err
}

type mockBillingService struct {
	invoice *domain.Invoice
	payment *domain.Payment
	bill    *domain.Bill
	err     error
}

func (m *mockBillingService) CreateInvoice(_ context.Context, _ []int64, _ int64, _ *service.InvoiceCreateReq) (*domain.Invoice, error) {
	return m.invoice, m.err
}

func (m *mockBillingService) GetInvoice(_ context.Context, _ []int64, _ int64) (*domain.Invoice, error) {
	return m.invoice, m.err
}

func (m *mockBillingService) ListByBooking(_ context.Context, _ []int64, _ int64) ([]domain.Invoice, error) {
	return nil, m.err
}

func (m *mockBillingService) Pay(_ context.Context, _ []int64, _ int64, _ *service.PayReq) (*domain.Payment, error) {
	return m.payment, m.err
}

func (m *mockBillingService) ResolveBill(_ context.Context, _ string) (*domain.Bill, error) {
	return m.bill, m.err
}

// ---------- Helpers ----------

func asOwner(r *http.Request) *http.Request {
	owner := &appmw.Owner{ID: 10, Email: "owner@example.com", HotelIDs: []int64{1, 2}}
	return r.WithContext(appmw.WithOwner(r.Context(), owner))
}

func testRouter(b *mockBookingService, a *mockAccessService, msg *mockMessagingService, bill *mockBillingService) chi.Router {
	h := handlers.NewBookingsHandler(b, a, msg, bill)
	r := chi.NewRouter()
	r.Mount("/bookings", h.Routes())
	return r
}

func sampleBooking() *domain.Booking {
	return &domain.Booking{
		ID: 1, HotelID: 1, UnitID: 1, GuestID: 1,
		Reference: "WH-TEST", Status: domain.BookingConfirmed,
		CheckIn:  time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC),
		Adults:   2,
	}
}

// ---------- Tests ----------

func TestCreateBooking(t *testing.T) {
	svc := &mockBookingService{booking: sampleBooking()}
	r := testRouter(svc, &mockAccessService{}, &mockMessagingService{}, &mockBillingService{})

	body, _ := json.Marshal(map[string]any{
		"hotel_id": 1, "unit_id": 1, "guest_id": 1,
		"check_in": "2024-06-01T00:00:00Z", "check_out": "2024-06-05T00:00:00Z",
		"adults": 2,
	})
	req := asOwner(httptest.NewRequest(http.MethodPost, "/bookings/", bytes.NewReader(body)))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var out domain.Booking
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if out.Reference != "WH-TEST" {
		t.Errorf("unexpected booking %+v", out)
	}
	if len(svc.lastHotels) != 2 {
		t.Errorf("expected resolved hotel set to reach the service, got %v", svc.lastHotels)
	}
}

func TestCreateBookingBadJSON(t *testing.T) {
	r := testRouter(&mockBookingService{}, &mockAccessService{}, &mockMessagingService{}, &mockBillingService{})

	req := asOwner(httptest.NewRequest(http.MethodPost, "/bookings/", bytes.NewReader([]byte("{"))))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateBookingConflictIs409(t *testing.T) {
	svc := &mockBookingService{err: &domain.ConflictError{UnitID: 1}}
	r := testRouter(svc, &mockAccessService{}, &mockMessagingService{}, &mockBillingService{})

	body, _ := json.Marshal(map[string]any{"hotel_id": 1})
	req := asOwner(httptest.NewRequest(http.MethodPost, "/bookings/", bytes.NewReader(body)))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	var out map[string]string
	json.Unmarshal(rec.Body.Bytes(), &out)
	if out["code"] != "CONFLICT" {
		t.Errorf("expected CONFLICT code, got %v", out)
	}
}

func TestTransitionErrorIs400(t *testing.T) {
	svc := &mockBookingService{err: &domain.TransitionError{From: domain.BookingPending, To: domain.BookingCheckedIn}}
	r := testRouter(svc, &mockAccessService{}, &mockMessagingService{}, &mockBillingService{})

	req := asOwner(httptest.NewRequest(http.MethodPost, "/bookings/1/check-in", nil))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestNotFoundIs404(t *testing.T) {
	svc := &mockBookingService{err: domain.ErrNotFound}
	r := testRouter(svc, &mockAccessService{}, &mockMessagingService{}, &mockBillingService{})

	req := asOwner(httptest.NewRequest(http.MethodGet, "/bookings/999", nil))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCheckOutReturnsResult(t *testing.T) {
	svc := &mockBookingService{checkOut: &domain.CheckOutResult{
		Booking:      sampleBooking(),
		RevokedCodes: 2,
		BillURL:      "https://pay.example.com/guest/bills/id.secret",
	}}
	r := testRouter(svc, &mockAccessService{}, &mockMessagingService{}, &mockBillingService{})

	req := asOwner(httptest.NewRequest(http.MethodPost, "/bookings/1/check-out", nil))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var out domain.CheckOutResult
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if out.RevokedCodes != 2 || out.BillURL == "" {
		t.Errorf("unexpected check-out result %+v", out)
	}
}

func TestIssueAccessCode(t *testing.T) {
	access := &mockAccessService{code: &domain.AccessCode{ID: 1, BookingID: 1, Provider: "ttlock", Code: "123456", IsActive: true}}
	r := testRouter(&mockBookingService{}, access, &mockMessagingService{}, &mockBillingService{})

	req := asOwner(httptest.NewRequest(http.MethodPost, "/bookings/1/access-codes", nil))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var out domain.AccessCode
	json.Unmarshal(rec.Body.Bytes(), &out)
	if out.Code != "123456" {
		t.Errorf("unexpected access code %+v", out)
	}
}

func TestIssueAccessCodeWithoutProviderIs400(t *testing.T) {
	access := &mockAccessService{err: domain.Invalid("lock_provider", "hotel has no lock provider configured")}
	r := testRouter(&mockBookingService{}, access, &mockMessagingService{}, &mockBillingService{})

	req := asOwner(httptest.NewRequest(http.MethodPost, "/bookings/1/access-codes", nil))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUpstreamErrorIs502(t *testing.T) {
	access := &mockAccessService{err: &domain.UpstreamError{System: "lock provider ttlock", Err: context.DeadlineExceeded}}
	r := testRouter(&mockBookingService{}, access, &mockMessagingService{}, &mockBillingService{})

	req := asOwner(httptest.NewRequest(http.MethodPost, "/bookings/1/access-codes", nil))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestListBookingsRejectsUnknownStatus(t *testing.T) {
	r := testRouter(&mockBookingService{}, &mockAccessService{}, &mockMessagingService{}, &mockBillingService{})

	req := asOwner(httptest.NewRequest(http.MethodGet, "/bookings/?status=sleeping", nil))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
