package clubs

import (
	"context"
	"time"
)

type CourtSetupRepository interface {
	Create(ctx context.Context, clubID int, name string, isActive bool) (*CourtSetup, error)
	GetByID(ctx context.Context, id int) (*CourtSetup, error)
	GetActive(ctx context.Context, clubID int) (*CourtSetup, error)
	GetByClub(ctx context.Context, clubID int) ([]CourtSetup, error)
	Count(ctx context.Context, clubID int) (int, error)
	CountReservations(ctx context.Context, setupID int) (int, error)
	Rename(ctx context.Context, id int, name string) error
	Activate(ctx context.Context, clubID, setupID int) error
	DeleteCascade(ctx context.Context, setupID int, force bool) error
}

type CourtRepository interface {
	Create(ctx context.Context, setupID, number int, attrs CourtAttrs) (*Court, error)
	GetByID(ctx context.Context, id int) (*Court, error)
	GetBySetup(ctx context.Context, setupID int) ([]Court, error)
	GetAvailable(ctx context.Context, setupID int) ([]Court, error)
	Count(ctx context.Context, setupID int) (int, error)
	MaxNumber(ctx context.Context, setupID int) (int, error)
	SetAvailable(ctx context.Context, id int, available bool) error
	Delete(ctx context.Context, id int) error
	DeleteReservations(ctx context.Context, courtID int) (int, error)
	CopyPrices(ctx context.Context, fromCourtID, toCourtID int) error
}

type VacancyRepository interface {
	GetByID(ctx context.Context, id int) (*Vacancy, error)
	Get(ctx context.Context, courtID, dayOfWeek, hour int) (*Vacancy, error)
	GetAll(ctx context.Context, courtIDs, days, hours []int) ([]Vacancy, error)
	GetFree(ctx context.Context, setupID int, forDate time.Time, hour int) ([]VacancyWithCourt, error)
	BulkUpdatePrice(ctx context.Context, ids []int, price *float64) error
}
