package service

import (
	"context"
	"time"

	"github.com/F0u4d8/whelhost-PMS-sub002/internal/domain"
	"github.com/F0u4d8/whelhost-PMS-sub002/internal/repository"
)

type ReportService interface {
	Occupancy(ctx context.Context, hotelIDs []int64, hotelID int64, from, to time.Time) ([]repository.OccupancyRow, error)
	Revenue(ctx context.Context, hotelIDs []int64, hotelID int64, from, to time.Time) ([]repository.RevenueRow, error)
}

type reportService struct {
	db      repository.Querier
	reports repository.ReportRepository
}

func NewReportService(db repository.Querier, reports repository.ReportRepository) ReportService {
	return &reportService{db: db, reports: reports}
}

func (s *reportService) validateRange(hotelIDs []int64, hotelID int64, from, to time.Time) error {
	if !ownsHotel(hotelIDs, hotelID) {
		return domain.ErrNotFound
	}
	if from.IsZero() || to.IsZero() {
		return domain.Invalid("range", "from and to are required")
	}
	if to.Before(from) {
		return domain.Invalid("to", "must not be before from")
	}
	// A year of daily rows is plenty for one call.
	if to.Sub(from) > 366*24*time.Hour {
		return domain.Invalid("range", "must not exceed one year")
	}
	return nil
}

func (s *reportService) Occupancy(ctx context.Context, hotelIDs []int64, hotelID int64, from, to time.Time) ([]repository.OccupancyRow, error) {
	if err := s.validateRange(hotelIDs, hotelID, from, to); err != nil {
		return nil, err
	}
	return s.reports.Occupancy(ctx, s.db, hotelID, from, to)
}

func (s *reportService) Revenue(ctx context.Context, hotelIDs []int64, hotelID int64, from, to time.Time) ([]repository.RevenueRow, error) {
	if err := s.validateRange(hotelIDs, hotelID, from, to); err != nil {
		return nil, err
	}
	return s.reports.Revenue(ctx, s.db, hotelID, from, to)
}
