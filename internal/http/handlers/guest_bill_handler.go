package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/F0u4d8/whelhost-PMS-sub002/internal/http/response"
	"github.com/F0u4d8/whelhost-PMS-sub002/internal/service"
)

// GuestBillHandler is the only unauthenticated surface: guests open their
// bill with the bearer token mailed at check-out.
type GuestBillHandler struct {
	billing service.BillingService
}

func NewGuestBillHandler(billing service.BillingService) *GuestBillHandler {
	return &GuestBillHandler{billing: billing}
}

func (h *GuestBillHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/bills/{token}", h.bill)
	return r
}

func (h *GuestBillHandler) bill(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		response.Unauthorized(w, "unauthorized")
		return
	}

	bill, err := h.billing.ResolveBill(r.Context(), token)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, bill)
}
