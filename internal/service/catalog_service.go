package service

import (
	"context"
	"time"

	"github.com/F0u4d8/whelhost-PMS-sub002/internal/domain"
	"github.com/F0u4d8/whelhost-PMS-sub002/internal/repository"
)

// CatalogService manages the property inventory of an owner: hotels, their
// units and room types, guest profiles, and housekeeping tasks. Every method
// checks ownership before touching a row.
type CatalogService interface {
	CreateHotel(ctx context.Context, ownerID int64, h *domain.Hotel) (*domain.Hotel, error)
	GetHotel(ctx context.Context, ownerID, id int64) (*domain.Hotel, error)
	ListHotels(ctx context.Context, ownerID int64) ([]domain.Hotel, error)
	UpdateHotel(ctx context.Context, ownerID, id int64, patch domain.HotelPatch) (*domain.Hotel, error)
	DeleteHotel(ctx context.Context, ownerID, id int64) error

	CreateUnit(ctx context.Context, hotelIDs []int64, u *domain.Unit) (*domain.Unit, error)
	GetUnit(ctx context.Context, hotelIDs []int64, id int64) (*domain.Unit, error)
	ListUnits(ctx context.Context, hotelIDs []int64, hotelID int64) ([]domain.Unit, error)
	UpdateUnit(ctx context.Context, hotelIDs []int64, id int64, patch domain.UnitPatch) (*domain.Unit, error)
	DeleteUnit(ctx context.Context, hotelIDs []int64, id int64) error

	CreateRoomType(ctx context.Context, hotelIDs []int64, rt *domain.RoomType) (*domain.RoomType, error)
	ListRoomTypes(ctx context.Context, hotelIDs []int64, hotelID int64) ([]domain.RoomType, error)
	UpdateRoomType(ctx context.Context, hotelIDs []int64, rt *domain.RoomType) (*domain.RoomType, error)
	DeleteRoomType(ctx context.Context, hotelIDs []int64, id int64) error

	CreateGuest(ctx context.Context, hotelIDs []int64, hotelID int64, req *domain.GuestCreateReq) (*domain.Guest, error)
	ListGuests(ctx context.Context, hotelIDs []int64, hotelID int64) ([]domain.Guest, error)

	ListTasks(ctx context.Context, hotelIDs []int64, status *domain.TaskStatus, limit, offset int) ([]domain.Task, error)
	CompleteTask(ctx context.Context, hotelIDs []int64, id int64) (*domain.Task, error)
}

type catalogService struct {
	db        repository.Querier
	hotels    repository.HotelRepository
	units     repository.UnitRepository
	roomTypes repository.RoomTypeRepository
	guests    repository.GuestRepository
	tasks     repository.TaskRepository
}

func NewCatalogService(
	db repository.Querier,
	hotels repository.HotelRepository,
	units repository.UnitRepository,
	roomTypes repository.RoomTypeRepository,
	guests repository.GuestRepository,
	tasks repository.TaskRepository,
) CatalogService {
	return &catalogService{
		db:        db,
		hotels:    hotels,
		units:     units,
		roomTypes: roomTypes,
		guests:    guests,
		tasks:     tasks,
	}
}

func (s *catalogService) CreateHotel(ctx context.Context, ownerID int64, h *domain.Hotel) (*domain.Hotel, error) {
	if h.Name == "" {
		return nil, domain.Invalid("name", "is required")
	}
	if h.Timezone == "" {
		h.Timezone = "UTC"
	}
	if h.Currency == "" {
		h.Currency = "SAR"
	}
	h.OwnerID = ownerID
	if err := s.hotels.Create(ctx, s.db, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *catalogService) GetHotel(ctx context.Context, ownerID, id int64) (*domain.Hotel, error) {
	h, err := s.hotels.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if h.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	return h, nil
}

func (s *catalogService) ListHotels(ctx context.Context, ownerID int64) ([]domain.Hotel, error) {
	return s.hotels.ListByOwner(ctx, s.db, ownerID)
}

func (s *catalogService) UpdateHotel(ctx context.Context, ownerID, id int64, patch domain.HotelPatch) (*domain.Hotel, error) {
	if _, err := s.GetHotel(ctx, ownerID, id); err != nil {
		return nil, err
	}
	return s.hotels.Update(ctx, s.db, id, patch)
}

func (s *catalogService) DeleteHotel(ctx context.Context, ownerID, id int64) error {
	if _, err := s.GetHotel(ctx, ownerID, id); err != nil {
		return err
	}
	deleted, err := s.hotels.Delete(ctx, s.db, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}

func (s *catalogService) CreateUnit(ctx context.Context, hotelIDs []int64, u *domain.Unit) (*domain.Unit, error) {
	if !ownsHotel(hotelIDs, u.HotelID) {
		return nil, domain.ErrNotFound
	}
	if u.Name == "" {
		return nil, domain.Invalid("name", "is required")
	}
	if u.Status == "" {
		u.Status = domain.UnitAvailable
	}
	if _, ok := domain.ParseUnitStatus(string(u.Status)); !ok {
		return nil, domain.Invalid("status", "unknown unit status")
	}
	if u.RoomTypeID != nil {
		rt, err := s.roomTypes.GetByID(ctx, s.db, *u.RoomTypeID)
		if err != nil {
			return nil, err
		}
		if rt.HotelID != u.HotelID {
			return nil, domain.Invalid("room_type_id", "belongs to another hotel")
		}
	}
	if err := s.units.Create(ctx, s.db, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *catalogService) GetUnit(ctx context.Context, hotelIDs []int64, id int64) (*domain.Unit, error) {
	u, err := s.units.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if !ownsHotel(hotelIDs, u.HotelID) {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (s *catalogService) ListUnits(ctx context.Context, hotelIDs []int64, hotelID int64) ([]domain.Unit, error) {
	if !ownsHotel(hotelIDs, hotelID) {
		return nil, domain.ErrNotFound
	}
	return s.units.ListByHotel(ctx, s.db, hotelID)
}

func (s *catalogService) UpdateUnit(ctx context.Context, hotelIDs []int64, id int64, patch domain.UnitPatch) (*domain.Unit, error) {
	u, err := s.units.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if !ownsHotel(hotelIDs, u.HotelID) {
		return nil, domain.ErrNotFound
	}
	if patch.Status != nil {
		if _, ok := domain.ParseUnitStatus(*patch.Status); !ok {
			return nil, domain.Invalid("status", "unknown unit status")
		}
	}
	return s.units.Update(ctx, s.db, id, patch)
}

func (s *catalogService) DeleteUnit(ctx context.Context, hotelIDs []int64, id int64) error {
	u, err := s.units.GetByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if !ownsHotel(hotelIDs, u.HotelID) {
		return domain.ErrNotFound
	}
	deleted, err := s.units.Delete(ctx, s.db, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}

func (s *catalogService) CreateRoomType(ctx context.Context, hotelIDs []int64, rt *domain.RoomType) (*domain.RoomType, error) {
	if !ownsHotel(hotelIDs, rt.HotelID) {
		return nil, domain.ErrNotFound
	}
	if rt.Name == "" {
		return nil, domain.Invalid("name", "is required")
	}
	if rt.MaxGuests < 1 {
		return nil, domain.Invalid("max_guests", "must be at least 1")
	}
	if err := s.roomTypes.Create(ctx, s.db, rt); err != nil {
		return nil, err
	}
	return rt, nil
}

func (s *catalogService) ListRoomTypes(ctx context.Context, hotelIDs []int64, hotelID int64) ([]domain.RoomType, error) {
	if !ownsHotel(hotelIDs, hotelID) {
		return nil, domain.ErrNotFound
	}
	return s.roomTypes.ListByHotel(ctx, s.db, hotelID)
}

func (s *catalogService) UpdateRoomType(ctx context.Context, hotelIDs []int64, rt *domain.RoomType) (*domain.RoomType, error) {
	existing, err := s.roomTypes.GetByID(ctx, s.db, rt.ID)
	if err != nil {
		return nil, err
	}
	if !ownsHotel(hotelIDs, existing.HotelID) {
		return nil, domain.ErrNotFound
	}
	rt.HotelID = existing.HotelID
	return s.roomTypes.Update(ctx, s.db, rt)
}

func (s *catalogService) DeleteRoomType(ctx context.Context, hotelIDs []int64, id int64) error {
	existing, err := s.roomTypes.GetByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if !ownsHotel(hotelIDs, existing.HotelID) {
		return domain.ErrNotFound
	}
	deleted, err := s.roomTypes.Delete(ctx, s.db, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}

func (s *catalogService) CreateGuest(ctx context.Context, hotelIDs []int64, hotelID int64, req *domain.GuestCreateReq) (*domain.Guest, error) {
	if !ownsHotel(hotelIDs, hotelID) {
		return nil, domain.ErrNotFound
	}
	if req.FullName == "" {
		return nil, domain.Invalid("full_name", "is required")
	}
	if req.Email == "" {
		return nil, domain.Invalid("email", "is required")
	}
	if existing, err := s.guests.FindByEmail(ctx, s.db, hotelID, req.Email); err == nil {
		return existing, nil
	} else if err != domain.ErrNotFound {
		return nil, err
	}
	g := &domain.Guest{
		HotelID:  hotelID,
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
	}
	if err := s.guests.Create(ctx, s.db, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *catalogService) ListGuests(ctx context.Context, hotelIDs []int64, hotelID int64) ([]domain.Guest, error) {
	if !ownsHotel(hotelIDs, hotelID) {
		return nil, domain.ErrNotFound
	}
	return s.guests.ListByHotel(ctx, s.db, hotelID)
}

func (s *catalogService) ListTasks(ctx context.Context, hotelIDs []int64, status *domain.TaskStatus, limit, offset int) ([]domain.Task, error) {
	if len(hotelIDs) == 0 {
		return []domain.Task{}, nil
	}
	return s.tasks.List(ctx, s.db, repository.TaskFilter{
		HotelIDs: hotelIDs,
		Status:   status,
		Limit:    limit,
		Offset:   offset,
	})
}

func (s *catalogService) CompleteTask(ctx context.Context, hotelIDs []int64, id int64) (*domain.Task, error) {
	t, err := s.tasks.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if !ownsHotel(hotelIDs, t.HotelID) {
		return nil, domain.ErrNotFound
	}
	if t.Status == domain.TaskDone {
		return t, nil
	}
	return s.tasks.Complete(ctx, s.db, id, time.Now().UTC())
}
