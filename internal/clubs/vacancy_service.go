package clubs

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type VacancyService interface {
	GetGrid(ctx context.Context, clubID, setupID int, courtIDs, days, hours []int) ([]Vacancy, error)
	GetFree(ctx context.Context, setupID int, forDate time.Time, hour int) ([]VacancyWithCourt, error)
	UpdatePrices(ctx context.Context, clubID, courtID int, prices map[int]string) error
}

type vacancyService struct {
	vacancyRepo VacancyRepository
	courtRepo   CourtRepository
	setupRepo   CourtSetupRepository
}

func NewVacancyService(vacancyRepo VacancyRepository, courtRepo CourtRepository, setupRepo CourtSetupRepository) VacancyService {
	return &vacancyService{
		vacancyRepo: vacancyRepo,
		courtRepo:   courtRepo,
		setupRepo:   setupRepo,
	}
}

// GetGrid returns the template slots of a setup, optionally narrowed to
// courts, weekdays and hours. Empty filter slices mean "all".
func (s *vacancyService) GetGrid(ctx context.Context, clubID, setupID int, courtIDs, days, hours []int) ([]Vacancy, error) {
	cs, err := s.setupRepo.GetByID(ctx, setupID)
	if err != nil {
		return nil, err
	}
	if cs.ClubID != clubID {
		return nil, ErrCourtSetupNotFound
	}

	if len(courtIDs) == 0 {
		courts, err := s.courtRepo.GetBySetup(ctx, setupID)
		if err != nil {
			return nil, err
		}
		for _, c := range courts {
			courtIDs = append(courtIDs, c.ID)
		}
	}
	if len(courtIDs) == 0 {
		return nil, nil
	}

	return s.vacancyRepo.GetAll(ctx, courtIDs, days, hours)
}

func (s *vacancyService) GetFree(ctx context.Context, setupID int, forDate time.Time, hour int) ([]VacancyWithCourt, error) {
	if hour < FirstHour || hour > LastHour {
		return nil, fmt.Errorf("hour %d outside bookable range %d..%d", hour, FirstHour, LastHour)
	}

	return s.vacancyRepo.GetFree(ctx, setupID, forDate, hour)
}

// UpdatePrices bulk-sets the price on the given slots, one statement per
// distinct value. Inputs that do not parse as a price clear the slot to
// unpriced instead of failing the batch.
func (s *vacancyService) UpdatePrices(ctx context.Context, clubID, courtID int, prices map[int]string) error {
	court, err := s.courtRepo.GetByID(ctx, courtID)
	if err != nil {
		return err
	}

	cs, err := s.setupRepo.GetByID(ctx, court.CourtSetupID)
	if err != nil {
		return err
	}
	if cs.ClubID != clubID {
		return ErrCourtNotFound
	}

	groups := make(map[float64][]int)
	var toClear []int
	for id, raw := range prices {
		if price, ok := parsePrice(raw); ok {
			groups[price] = append(groups[price], id)
		} else {
			toClear = append(toClear, id)
		}
	}

	if err := s.vacancyRepo.BulkUpdatePrice(ctx, toClear, nil); err != nil {
		return err
	}
	for price, ids := range groups {
		price := price
		if err := s.vacancyRepo.BulkUpdatePrice(ctx, ids, &price); err != nil {
			return err
		}
	}

	return nil
}

// parsePrice accepts either decimal separator; anything else means
// "no price".
func parsePrice(raw string) (float64, bool) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if raw == "" {
		return 0, false
	}

	price, err := strconv.ParseFloat(raw, 64)
	if err != nil || price < 0 {
		return 0, false
	}

	return price, true
}
