package reservations

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, r *Reservation) (*Reservation, error)
	GetByID(ctx context.Context, id int) (*ReservationWithDetails, error)
	ExistsForDateVacancy(ctx context.Context, forDate time.Time, vacancyID int) (bool, error)
	NextRepeatSeries(ctx context.Context) (int, error)
	DeleteByID(ctx context.Context, id int) error
	DeleteBySeries(ctx context.Context, series int) (int, error)
	ByCourtSetup(ctx context.Context, setupID int) ([]ReservationWithDetails, error)
	ByDate(ctx context.Context, setupID int, forDate time.Time) ([]ReservationWithDetails, error)
	FromDate(ctx context.Context, setupID int, forDate time.Time) ([]ReservationWithDetails, error)
	UpToDate(ctx context.Context, setupID int, forDate time.Time) ([]ReservationWithDetails, error)
	CountForDate(ctx context.Context, forDate time.Time) (int, error)
	CountForRange(ctx context.Context, from, to time.Time) (int, error)
}
