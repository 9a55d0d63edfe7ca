package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/F0u4d8/whelhost-PMS-sub002/internal/domain"
	appmw "github.com/F0u4d8/whelhost-PMS-sub002/internal/http/middleware"
	"github.com/F0u4d8/whelhost-PMS-sub002/internal/http/response"
	"github.com/F0u4d8/whelhost-PMS-sub002/internal/service"
)

type BookingsHandler struct {
	bookings  service.BookingService
	access    service.AccessService
	messaging service.MessagingService
	billing   service.BillingService
}

func NewBookingsHandler(
	bookings service.BookingService,
	access service.AccessService,
	messaging service.MessagingService,
	billing service.BillingService,
) *BookingsHandler {
	return &BookingsHandler{bookings: bookings, access: access, messaging: messaging, billing: billing}
}

func (h *BookingsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)

	r.Post("/{id}/confirm", h.confirm)
	r.Post("/{id}/check-in", h.checkIn)
	r.Post("/{id}/check-out", h.checkOut)
	r.Post("/{id}/cancel", h.cancel)

	r.Post("/{id}/access-codes", h.issueAccessCode)
	r.Post("/{id}/generate-access", h.issueAccessCode)
	r.Get("/{id}/access-codes", h.listAccessCodes)

	r.Post("/{id}/messages", h.sendMessage)
	r.Get("/{id}/messages", h.listMessages)

	r.Post("/{id}/invoices", h.createInvoice)
	r.Get("/{id}/invoices", h.listInvoices)
	return r
}

func (h *BookingsHandler) create(w http.ResponseWriter, r *http.Request) {
	owner := appmw.CurrentOwner(r)

	var in domain.BookingCreateReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	booking, err := h.bookings.Create(r.Context(), owner.HotelIDs, &in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, booking)
}

func (h *BookingsHandler) list(w http.ResponseWriter, r *http.Request) {
	owner := appmw.CurrentOwner(r)

	var status *domain.BookingStatus
	if s := r.URL.Query().Get("status"); s != "" {
		parsed, ok := domain.ParseBookingStatus(s)
		if !ok {
			response.BadRequest(w, "unknown booking status")
			return
		}
		status = &parsed
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	hotelIDs := owner.HotelIDs
	if s := r.URL.Query().Get("hotel_id"); s != "" {
		hotelID, err := strconv.ParseInt(s, 10, 64)
		if err != nil || hotelID <= 0 {
			response.BadRequest(w, "invalid hotel_id")
			return
		}
		owned := false
		for _, id := range owner.HotelIDs {
			if id == hotelID {
				owned = true
				break
			}
		}
		if !owned {
			response.NotFound(w, "hotel not found")
			return
		}
		hotelIDs = []int64{hotelID}
	}

	bookings, err := h.bookings.List(r.Context(), hotelIDs, status, limit, offset)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, bookings)
}

func (h *BookingsHandler) get(w http.ResponseWriter, r *http.Request) {
	owner := appmw.CurrentOwner(r)
	id, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "invalid booking id")
		return
	}

	booking, err := h.bookings.Get(r.Context(), owner.HotelIDs, id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, booking)
}

func (h *BookingsHandler) confirm(w http.ResponseWriter, r *http.Request) {
	owner := appmw.CurrentOwner(r)
	id, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "invalid booking id")
		return
	}

	booking, err := h.bookings.Confirm(r.Context(), owner.HotelIDs, id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, booking)
}

func (h *BookingsHandler) checkIn(w http.ResponseWriter, r *http.Request) {
	owner := appmw.CurrentOwner(r)
	id, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "invalid booking id")
		return
	}

	result, err := h.bookings.CheckIn(r.Context(), owner.HotelIDs, id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, result)
}

func (h *BookingsHandler) checkOut(w http.ResponseWriter, r *http.Request) {
	owner := appmw.CurrentOwner(r)
	id, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "invalid booking id")
		return
	}

	result, err := h.bookings.CheckOut(r.Context(), owner.HotelIDs, id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, result)
}

func (h *BookingsHandler) cancel(w http.ResponseWriter, r *http.Request) {
	owner := appmw.CurrentOwner(r)
	id, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "invalid booking id")
		return
	}

	booking, err := h.bookings.Cancel(r.Context(), owner.HotelIDs, id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, booking)
}

func (h *BookingsHandler) issueAccessCode(w http.ResponseWriter, r *http.Request) {
	owner := appmw.CurrentOwner(r)
	id, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "invalid booking id")
		return
	}

	var in domain.AccessCodeReq
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			response.BadRequest(w, "invalid json")
			return
		}
	}

	code, err := h.access.Issue(r.Context(), owner.HotelIDs, id, &in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, code)
}

func (h *BookingsHandler) listAccessCodes(w http.ResponseWriter, r *http.Request) {
	owner := appmw.CurrentOwner(r)
	id, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "invalid booking id")
		return
	}

	codes, err := h.access.ListByBooking(r.Context(), owner.HotelIDs, id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, codes)
}

func (h *BookingsHandler) sendMessage(w http.ResponseWriter, r *http.Request) {
	owner := appmw.CurrentOwner(r)
	id, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "invalid booking id")
		return
	}

	var in domain.MessageSendReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	msg, err := h.messaging.Send(r.Context(), owner.HotelIDs, id, &in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, msg)
}

func (h *BookingsHandler) listMessages(w http.ResponseWriter, r *http.Request) {
	owner := appmw.CurrentOwner(r)
	id, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "invalid booking id")
		return
	}

	msgs, err := h.messaging.ListByBooking(r.Context(), owner.HotelIDs, id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, msgs)
}

func (h *BookingsHandler) createInvoice(w http.ResponseWriter, r *http.Request) {
	owner := appmw.CurrentOwner(r)
	id, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "invalid booking id")
		return
	}

	var in service.InvoiceCreateReq
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			response.BadRequest(w, "invalid json")
			return
		}
	}

	inv, err := h.billing.CreateInvoice(r.Context(), owner.HotelIDs, id, &in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, inv)
}

func (h *BookingsHandler) listInvoices(w http.ResponseWriter, r *http.Request) {
	owner := appmw.CurrentOwner(r)
	id, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "invalid booking id")
		return
	}

	invoices, err := h.billing.ListByBooking(r.Context(), owner.HotelIDs, id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, invoices)
}
