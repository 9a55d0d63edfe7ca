package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/F0u4d8/whelhost-PMS-sub002/internal/domain"
	appmw "github.com/F0u4d8/whelhost-PMS-sub002/internal/http/middleware"
	"github.com/F0u4d8/whelhost-PMS-sub002/internal/http/response"
	"github.com/F0u4d8/whelhost-PMS-sub002/internal/service"
)

type TasksHandler struct {
	catalog service.CatalogService
}

func NewTasksHandler(catalog service.CatalogService) *TasksHandler {
	return &TasksHandler{catalog: catalog}
}

func (h *TasksHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/{id}/complete", h.complete)
	r.Patch("/{id}", h.complete)
	return r
}

func (h *TasksHandler) list(w http.ResponseWriter, r *http.Request) {
	owner := appmw.CurrentOwner(r)

	var status *domain.TaskStatus
	if s := r.URL.Query().Get("status"); s != "" {
		parsed := domain.TaskStatus(s)
		if parsed != domain.TaskOpen && parsed != domain.TaskDone {
			response.BadRequest(w, "unknown task status")
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

	tasks, err := h.catalog.ListTasks(r.Context(), hotelIDs, status, limit, offset)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, tasks)
}

func (h *TasksHandler) complete(w http.ResponseWriter, r *http.Request) {
	owner := appmw.CurrentOwner(r)
	id, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "invalid task id")
		return
	}

	task, err := h.catalog.CompleteTask(r.Context(), owner.HotelIDs, id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, task)
}
