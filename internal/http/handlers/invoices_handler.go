package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	appmw "github.com/F0u4d8/whelhost-PMS-sub002/internal/http/middleware"
	"github.com/F0u4d8/whelhost-PMS-sub002/internal/http/response"
	"github.com/F0u4d8/whelhost-PMS-sub002/internal/service"
)

type InvoicesHandler struct {
	billing service.BillingService
}

func NewInvoicesHandler(billing service.BillingService) *InvoicesHandler {
	return &InvoicesHandler{billing: billing}
}

func (h *InvoicesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Post("/{id}/pay", h.pay)
	return r
}

type invoiceCreateBody struct {
	BookingID int64 `json:"booking_id"`
	service.InvoiceCreateReq
}

func (h *InvoicesHandler) create(w http.ResponseWriter, r *http.Request) {
	owner := appmw.CurrentOwner(r)

	var in invoiceCreateBody
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}
	if in.BookingID <= 0 {
		response.BadRequest(w, "booking_id is required")
		return
	}

	inv, err := h.billing.CreateInvoice(r.Context(), owner.HotelIDs, in.BookingID, &in.InvoiceCreateReq)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, inv)
}

func (h *InvoicesHandler) get(w http.ResponseWriter, r *http.Request) {
	owner := appmw.CurrentOwner(r)
	id, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "invalid invoice id")
		return
	}

	inv, err := h.billing.GetInvoice(r.Context(), owner.HotelIDs, id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, inv)
}

func (h *InvoicesHandler) pay(w http.ResponseWriter, r *http.Request) {
	owner := appmw.CurrentOwner(r)
	id, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "invalid invoice id")
		return
	}

	var in service.PayReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	payment, err := h.billing.Pay(r.Context(), owner.HotelIDs, id, &in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, payment)
}
