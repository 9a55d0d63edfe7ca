package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	appmw "github.com/F0u4d8/whelhost-PMS-sub002/internal/http/middleware"
	"github.com/F0u4d8/whelhost-PMS-sub002/internal/http/response"
	"github.com/F0u4d8/whelhost-PMS-sub002/internal/service"
)

type ReportsHandler struct {
	reports service.ReportService
}

func NewReportsHandler(reports service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

func (h *ReportsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/occupancy", h.occupancy)
	r.Get("/revenue", h.revenue)
	return r
}

func reportQuery(r *http.Request) (hotelID int64, from, to time.Time, ok bool) {
	hotelID, err := strconv.ParseInt(r.URL.Query().Get("hotel_id"), 10, 64)
	if err != nil || hotelID <= 0 {
		return 0, time.Time{}, time.Time{}, false
	}
	from, err = time.Parse("2006-01-02", r.URL.Query().Get("from"))
	if err != nil {
		return 0, time.Time{}, time.Time{}, false
	}
	to, err = time.Parse("2006-01-02", r.URL.Query().Get("to"))
	if err != nil {
		return 0, time.Time{}, time.Time{}, false
	}
	return hotelID, from, to, true
}

func (h *ReportsHandler) occupancy(w http.ResponseWriter, r *http.Request) {
	owner := appmw.CurrentOwner(r)
	hotelID, from, to, ok := reportQuery(r)
	if !ok {
		response.BadRequest(w, "hotel_id, from and to (YYYY-MM-DD) are required")
		return
	}

	rows, err := h.reports.Occupancy(r.Context(), owner.HotelIDs, hotelID, from, to)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, rows)
}

func (h *ReportsHandler) revenue(w http.ResponseWriter, r *http.Request) {
	owner := appmw.CurrentOwner(r)
	hotelID, from, to, ok := reportQuery(r)
	if !ok {
		response.BadRequest(w, "hotel_id, from and to (YYYY-MM-DD) are required")
		return
	}

	rows, err := h.reports.Revenue(r.Context(), owner.HotelIDs, hotelID, from, to)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, rows)
}
