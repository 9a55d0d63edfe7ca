// Package handlers exposes the owner-facing REST API. Every handler reads the
// authenticated owner from the request context and scopes its work to the
// owner's hotel set.
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

type HotelsHandler struct {
	catalog service.CatalogService
}

func NewHotelsHandler(catalog service.CatalogService) *HotelsHandler {
	return &HotelsHandler{catalog: catalog}
}

func (h *HotelsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)

	r.Post("/{id}/units", h.createUnit)
	r.Get("/{id}/units", h.listUnits)
	r.Post("/{id}/room-types", h.createRoomType)
	r.Get("/{id}/room-types", h.listRoomTypes)
	r.Post("/{id}/guests", h.createGuest)
	r.Get("/{id}/guests", h.listGuests)
	return r
}

// UnitRoutes serves the unit endpoints that are not hotel-scoped.
func (h *HotelsHandler) UnitRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{id}", h.getUnit)
	r.Patch("/{id}", h.updateUnit)
	r.Delete("/{id}", h.deleteUnit)
	return r
}

// RoomTypeRoutes serves the room type endpoints that are not hotel-scoped.
func (h *HotelsHandler) RoomTypeRoutes() chi.Router {
	r := chi.NewRouter()
	r.Patch("/{id}", h.updateRoomType)
	r.Delete("/{id}", h.deleteRoomType)
	return r
}

func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

func (h *HotelsHandler) create(w http.ResponseWriter, r *http.Request) {
	owner := appmw.CurrentOwner(r)

	var in domain.Hotel
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	hotel, err := h.catalog.CreateHotel(r.Context(), owner.ID, &in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, hotel)
}

func (h *HotelsHandler) list(w http.ResponseWriter, r *http.Request) {
	owner := appmw.CurrentOwner(r)

	hotels, err := h.catalog.ListHotels(r.Context(), owner.ID)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, hotels)
}

func (h *HotelsHandler) get(w http.ResponseWriter, r *http.Request) {
	owner := appmw.CurrentOwner(r)
	id, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "invalid hotel id")
		return
	}

	hotel, err := h.catalog.GetHotel(r.Context(), owner.ID, id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, hotel)
}

func (h *HotelsHandler) update(w http.ResponseWriter, r *http.Request) {
	owner := appmw.CurrentOwner(r)
	id, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "invalid hotel id")
		return
	}

	var patch domain.HotelPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	hotel, err := h.catalog.UpdateHotel(r.Context(), owner.ID, id, patch)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, hotel)
}

func (h *HotelsHandler) delete(w http.ResponseWriter, r *http.Request) {
	owner := appmw.CurrentOwner(r)
	id, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "invalid hotel id")
		return
	}

	if err := h.catalog.DeleteHotel(r.Context(), owner.ID, id); err != nil {
		response.FromError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HotelsHandler) createUnit(w http.ResponseWriter, r *http.Request) {
	owner := appmw.CurrentOwner(r)
	hotelID, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "invalid hotel id")
		return
	}

	var in domain.Unit
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}
	in.HotelID = hotelID

	unit, err := h.catalog.CreateUnit(r.Context(), owner.HotelIDs, &in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, unit)
}

func (h *HotelsHandler) listUnits(w http.ResponseWriter, r *http.Request) {
	owner := appmw.CurrentOwner(r)
	hotelID, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "invalid hotel id")
		return
	}

	units, err := h.catalog.ListUnits(r.Context(), owner.HotelIDs, hotelID)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, units)
}

func (h *HotelsHandler) getUnit(w http.ResponseWriter, r *http.Request) {
	owner := appmw.CurrentOwner(r)
	id, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "invalid unit id")
		return
	}

	unit, err := h.catalog.GetUnit(r.Context(), owner.HotelIDs, id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, unit)
}

func (h *HotelsHandler) updateUnit(w http.ResponseWriter, r *http.Request) {
	owner := appmw.CurrentOwner(r)
	id, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "invalid unit id")
		return
	}

	var patch domain.UnitPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	unit, err := h.catalog.UpdateUnit(r.Context(), owner.HotelIDs, id, patch)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, unit)
}

func (h *HotelsHandler) deleteUnit(w http.ResponseWriter, r *http.Request) {
	owner := appmw.CurrentOwner(r)
	id, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "invalid unit id")
		return
	}

	if err := h.catalog.DeleteUnit(r.Context(), owner.HotelIDs, id); err != nil {
		response.FromError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HotelsHandler) updateRoomType(w http.ResponseWriter, r *http.Request) {
	owner := appmw.CurrentOwner(r)
	id, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "invalid room type id")
		return
	}

	var in domain.RoomType
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}
	in.ID = id

	rt, err := h.catalog.UpdateRoomType(r.Context(), owner.HotelIDs, &in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, rt)
}

func (h *HotelsHandler) deleteRoomType(w http.ResponseWriter, r *http.Request) {
	owner := appmw.CurrentOwner(r)
	id, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "invalid room type id")
		return
	}

	if err := h.catalog.DeleteRoomType(r.Context(), owner.HotelIDs, id); err != nil {
		response.FromError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HotelsHandler) createRoomType(w http.ResponseWriter, r *http.Request) {
	owner := appmw.CurrentOwner(r)
	hotelID, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "invalid hotel id")
		return
	}

	var in domain.RoomType
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}
	in.HotelID = hotelID

	rt, err := h.catalog.CreateRoomType(r.Context(), owner.HotelIDs, &in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, rt)
}

func (h *HotelsHandler) listRoomTypes(w http.ResponseWriter, r *http.Request) {
	owner := appmw.CurrentOwner(r)
	hotelID, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "invalid hotel id")
		return
	}

	types, err := h.catalog.ListRoomTypes(r.Context(), owner.HotelIDs, hotelID)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, types)
}

func (h *HotelsHandler) createGuest(w http.ResponseWriter, r *http.Request) {
	owner := appmw.CurrentOwner(r)
	hotelID, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "invalid hotel id")
		return
	}

	var in domain.GuestCreateReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	guest, err := h.catalog.CreateGuest(r.Context(), owner.HotelIDs, hotelID, &in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, guest)
}

func (h *HotelsHandler) listGuests(w http.ResponseWriter, r *http.Request) {
	owner := appmw.CurrentOwner(r)
	hotelID, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "invalid hotel id")
		return
	}

	guests, err := h.catalog.ListGuests(r.Context(), owner.HotelIDs, hotelID)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, guests)
}
