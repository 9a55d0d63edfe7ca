package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"

	"github.com/F0u4d8/whelhost-PMS-sub002/internal/domain"
	"github.com/F0u4d8/whelhost-PMS-sub002/internal/payments"
	"github.com/F0u4d8/whelhost-PMS-sub002/internal/repository"
	"github.com/F0u4d8/whelhost-PMS-sub002/pkg/events"
	"github.com/F0u4d8/whelhost-PMS-sub002/pkg/logger"
)

type InvoiceCreateReq struct {
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency,omitempty"`
}

type PayReq struct {
	// Source is the tokenized payment method from the client-side widget.
	Source string `json:"source"`
}

type BillingService interface {
	CreateInvoice(ctx context.Context, hotelIDs []int64, bookingID int64, req *InvoiceCreateReq) (*domain.Invoice, error)
	GetInvoice(ctx context.Context, hotelIDs []int64, id int64) (*domain.Invoice, error)
	ListByBooking(ctx context.Context, hotelIDs []int64, bookingID int64) ([]domain.Invoice, error)
	Pay(ctx context.Context, hotelIDs []int64, invoiceID int64, req *PayReq) (*domain.Payment, error)
	// ResolveBill authenticates a guest bill token of the form "id.secret"
	// and returns the statement for its checked-out booking.
	ResolveBill(ctx context.Context, token string) (*domain.Bill, error)
}

type billingService struct {
	db          repository.Querier
	tx          repository.TxRunner
	invoices    repository.InvoiceRepository
	bookings    repository.BookingRepository
	hotels      repository.HotelRepository
	guests      repository.GuestRepository
	guestTokens repository.GuestTokenRepository
	gateway     payments.Gateway
	eventBus    events.EventBus
}

func NewBillingService(
	db repository.Querier,
	tx repository.TxRunner,
	invoices repository.InvoiceRepository,
	bookings repository.BookingRepository,
	hotels repository.HotelRepository,
	guests repository.GuestRepository,
	guestTokens repository.GuestTokenRepository,
	gateway payments.Gateway,
	eventBus events.EventBus,
) BillingService {
	return &billingService{
		db:          db,
		tx:          tx,
		invoices:    invoices,
		bookings:    bookings,
		hotels:      hotels,
		guests:      guests,
		guestTokens: guestTokens,
		gateway:     gateway,
		eventBus:    eventBus,
	}
}

func newInvoiceNumber() string {
	return "INV-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

func (s *billingService) CreateInvoice(ctx context.Context, hotelIDs []int64, bookingID int64, req *InvoiceCreateReq) (*domain.Invoice, error) {
	booking, err := s.bookings.GetByID(ctx, s.db, bookingID)
	if err != nil {
		return nil, err
	}
	if !ownsHotel(hotelIDs, booking.HotelID) {
		return nil, domain.ErrNotFound
	}

	amount := req.AmountCents
	if amount == 0 {
		amount = booking.TotalAmountCents - booking.PaidAmountCents
	}
	if amount <= 0 {
		return nil, domain.Invalid("amount_cents", "must be positive")
	}

	currency := req.Currency
	if currency == "" {
		hotel, err := s.hotels.GetByID(ctx, s.db, booking.HotelID)
		if err != nil {
			return nil, err
		}
		currency = hotel.Currency
	}

	now := time.Now().UTC()
	inv := &domain.Invoice{
		HotelID:     booking.HotelID,
		BookingID:   booking.ID,
		Number:      newInvoiceNumber(),
		AmountCents: amount,
		Currency:    currency,
		Status:      domain.InvoiceIssued,
		IssuedAt:    &now,
	}
	if err := s.invoices.Create(ctx, s.db, inv); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	return inv, nil
}

func (s *billingService) GetInvoice(ctx context.Context, hotelIDs []int64, id int64) (*domain.Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if !ownsHotel(hotelIDs, inv.HotelID) {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

func (s *billingService) ListByBooking(ctx context.Context, hotelIDs []int64, bookingID int64) ([]domain.Invoice, error) {
	booking, err := s.bookings.GetByID(ctx, s.db, bookingID)
	if err != nil {
		return nil, err
	}
	if !ownsHotel(hotelIDs, booking.HotelID) {
		return nil, domain.ErrNotFound
	}
	return s.invoices.ListByBooking(ctx, s.db, bookingID)
}

func (s *billingService) Pay(ctx context.Context, hotelIDs []int64, invoiceID int64, req *PayReq) (*domain.Payment, error) {
	if req.Source == "" {
		return nil, domain.Invalid("source", "is required")
	}

	inv, err := s.invoices.GetByID(ctx, s.db, invoiceID)
	if err != nil {
		return nil, err
	}
	if !ownsHotel(hotelIDs, inv.HotelID) {
		return nil, domain.ErrNotFound
	}
	switch inv.Status {
	case domain.InvoicePaid:
		return nil, domain.Invalid("invoice", "is already paid")
	case domain.InvoiceVoid:
		return nil, domain.Invalid("invoice", "is void")
	}

	result, err := s.gateway.Charge(ctx, payments.Charge{
		AmountCents: inv.AmountCents,
		Currency:    inv.Currency,
		Description: "Invoice " + inv.Number,
		Source:      req.Source,
	})
	if err != nil {
		// The raw gateway error stays in the logs; callers see a sanitized
		// upstream failure.
		logger.ErrorContext(ctx, "Payment gateway charge failed", "error", err, "invoice_id", inv.ID, "gateway", s.gateway.Name())
		return nil, &domain.UpstreamError{System: "payment gateway", Err: fmt.Errorf("charge was not processed")}
	}

	payment := &domain.Payment{
		InvoiceID:   inv.ID,
		Gateway:     s.gateway.Name(),
		GatewayRef:  result.Ref,
		AmountCents: inv.AmountCents,
		Status:      domain.PaymentCaptured,
	}
	if !result.Captured {
		payment.Status = domain.PaymentFailed
		payment.FailureMsg = result.Message
		if err := s.invoices.CreatePayment(ctx, s.db, payment); err != nil {
			return nil, err
		}
		return payment, nil
	}

	now := time.Now().UTC()
	err = s.tx.InTx(ctx, func(q repository.Querier) error {
		if err := s.invoices.CreatePayment(ctx, q, payment); err != nil {
			return err
		}
		if _, err := s.invoices.MarkPaid(ctx, q, inv.ID, now); err != nil {
			return err
		}
		return s.invoices.AddPaidAmount(ctx, q, inv.BookingID, inv.AmountCents)
	})
	if err != nil {
		return nil, err
	}

	if err := s.eventBus.Publish(ctx, events.InvoicePaid, events.InvoicePaidEvent{
		InvoiceID:   inv.ID,
		BookingID:   inv.BookingID,
		HotelID:     inv.HotelID,
		AmountCents: inv.AmountCents,
		Gateway:     payment.Gateway,
		GatewayRef:  payment.GatewayRef,
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to publish invoice paid event", "error", err, "invoice_id", inv.ID)
	}

	return payment, nil
}

func (s *billingService) ResolveBill(ctx context.Context, token string) (*domain.Bill, error) {
	id, secret, ok := strings.Cut(token, ".")
	if !ok || id == "" || secret == "" {
		return nil, domain.ErrUnauthorized
	}

	stored, err := s.guestTokens.GetByID(ctx, s.db, id)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if time.Now().UTC().After(stored.ExpiresAt) {
		return nil, domain.ErrUnauthorized
	}

	match, err := argon2id.ComparePasswordAndHash(secret, stored.SecretHash)
	if err != nil || !match {
		return nil, domain.ErrUnauthorized
	}

	booking, err := s.bookings.GetByID(ctx, s.db, stored.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.BookingCheckedOut {
		return nil, domain.ErrUnauthorized
	}

	hotel, err := s.hotels.GetByID(ctx, s.db, booking.HotelID)
	if err != nil {
		return nil, err
	}
	guest, err := s.guests.GetByID(ctx, s.db, booking.GuestID)
	if err != nil {
		return nil, err
	}

	if stored.UsedAt == nil {
		if err := s.guestTokens.MarkUsed(ctx, s.db, stored.ID, time.Now().UTC()); err != nil {
			logger.ErrorContext(ctx, "Failed to mark bill token used", "error", err, "token_id", stored.ID)
		}
	}

	nights := int(booking.CheckOut.Sub(booking.CheckIn).Hours() / 24)
	if nights < 1 {
		nights = 1
	}

	return &domain.Bill{
		BookingReference: booking.Reference,
		HotelName:        hotel.Name,
		GuestName:        guest.FullName,
		CheckIn:          booking.CheckIn,
		CheckOut:         booking.CheckOut,
		Nights:           nights,
		TotalAmountCents: booking.TotalAmountCents,
		PaidAmountCents:  booking.PaidAmountCents,
		BalanceCents:     booking.TotalAmountCents - booking.PaidAmountCents,
		Currency:         hotel.Currency,
	}, nil
}
