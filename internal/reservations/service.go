package reservations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lichinka/ht/internal/activity"
	"github.com/lichinka/ht/internal/clubs"
	"github.com/lichinka/ht/internal/metrics"
	"github.com/lichinka/ht/internal/profile"
)

var (
	ErrMixedCourtSetups = errors.New("reservations span multiple court setups")
	ErrSameCourtSetup   = errors.New("target court setup equals the source")
)

type Service interface {
	Book(ctx context.Context, req BookRequest, commit bool) (*Reservation, error)
	BookWeekly(ctx context.Context, fromDate, untilDate time.Time, req BookRequest, commit bool) ([]Reservation, error)
	WeeklyReservationCount(fromDate, untilDate time.Time) int
	Delete(ctx context.Context, userID, reservationID int) error
	ByCourtSetup(ctx context.Context, setupID int) ([]ReservationWithDetails, error)
	ByDate(ctx context.Context, setupID int, forDate time.Time) ([]ReservationWithDetails, error)
	FromDate(ctx context.Context, setupID int, forDate time.Time) ([]ReservationWithDetails, error)
	UpToDate(ctx context.Context, setupID int, forDate time.Time) ([]ReservationWithDetails, error)
	CountForDate(ctx context.Context, forDate time.Time) (int, error)
	CountForRange(ctx context.Context, from, to time.Time) (int, error)
	CopyToCourtSetup(ctx context.Context, targetSetupID int, list []ReservationWithDetails, commit bool) ([]Reservation, error)
}

type service struct {
	repo        Repository
	vacancyRepo clubs.VacancyRepository
	courtRepo   clubs.CourtRepository
	setupRepo   clubs.CourtSetupRepository
	profileRepo profile.Repository
	recorder    activity.Recorder
}

func NewService(
	repo Repository,
	vacancyRepo clubs.VacancyRepository,
	courtRepo clubs.CourtRepository,
	setupRepo clubs.CourtSetupRepository,
	profileRepo profile.Repository,
	recorder activity.Recorder,
) Service {
	if recorder == nil {
		recorder = activity.NopRecorder{}
	}
	return &service{
		repo:        repo,
		vacancyRepo: vacancyRepo,
		courtRepo:   courtRepo,
		setupRepo:   setupRepo,
		profileRepo: profileRepo,
		recorder:    recorder,
	}
}

// Book reserves a vacancy template slot for one concrete date. It returns
// (nil, nil) when the booking cannot be made: slot already taken, court
// unavailable, or the user's role cannot be resolved. The caller decides
// how to report that. With commit=false the reservation is validated and
// returned without being persisted.
func (s *service) Book(ctx context.Context, req BookRequest, commit bool) (*Reservation, error) {
	vacancy, err := s.vacancyRepo.GetByID(ctx, req.VacancyID)
	if err != nil {
		return nil, err
	}

	court, err := s.courtRepo.GetByID(ctx, vacancy.CourtID)
	if err != nil {
		return nil, err
	}
	if !court.IsAvailable {
		metrics.RecordBookingConflict()
		return nil, nil
	}

	taken, err := s.repo.ExistsForDateVacancy(ctx, req.ForDate, req.VacancyID)
	if err != nil {
		return nil, err
	}
	if taken {
		metrics.RecordBookingConflict()
		return nil, nil
	}

	prof, err := s.profileRepo.GetByUserID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var resType string
	switch prof.Kind() {
	case profile.KindPlayer:
		resType = TypePlayer
	case profile.KindClub:
		resType = TypeClub
	default:
		return nil, nil
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = prof.DisplayName()
	}

	res := &Reservation{
		CreatedOn:    time.Now(),
		ForDate:      req.ForDate,
		Type:         resType,
		Description:  description,
		UserID:       req.UserID,
		VacancyID:    req.VacancyID,
		RepeatSeries: req.RepeatSeries,
	}

	if !commit {
		return res, nil
	}

	created, err := s.repo.Create(ctx, res)
	if err != nil {
		// A concurrent booking won the race between our check and the
		// insert; same outcome as finding the slot taken up front.
		if errors.Is(err, ErrSlotTaken) {
			metrics.RecordBookingConflict()
			return nil, nil
		}
		return nil, err
	}

	metrics.RecordReservation(resType)
	s.recorder.Record(ctx, fmt.Sprintf("user:%d", req.UserID), "booked", fmt.Sprintf("reservation:%d", created.ID))
	return created, nil
}

// BookWeekly books the same slot every 7 days from fromDate up to and
// including untilDate, all sharing one fresh series id. Dates already
// taken are skipped, not rolled back; callers wanting all-or-nothing
// dry-run with commit=false and compare against WeeklyReservationCount.
func (s *service) BookWeekly(ctx context.Context, fromDate, untilDate time.Time, req BookRequest, commit bool) ([]Reservation, error) {
	if !untilDate.After(fromDate) {
		return nil, nil
	}

	series, err := s.repo.NextRepeatSeries(ctx)
	if err != nil {
		return nil, err
	}
	req.RepeatSeries = &series

	var booked []Reservation
	for d := fromDate; !d.After(untilDate); d = d.AddDate(0, 0, 7) {
		dayReq := req
		dayReq.ForDate = d

		res, err := s.Book(ctx, dayReq, commit)
		if err != nil {
			return booked, err
		}
		if res != nil {
			booked = append(booked, *res)
		}
	}

	if commit && len(booked) > 0 {
		metrics.RecordWeeklySeries()
	}
	return booked, nil
}

// WeeklyReservationCount is the number of dates BookWeekly generates for
// the range; the two must always agree.
func (s *service) WeeklyReservationCount(fromDate, untilDate time.Time) int {
	if !untilDate.After(fromDate) {
		return 0
	}

	days := int(untilDate.Sub(fromDate).Hours() / 24)
	return (days + 7 - days%7) / 7
}

// Delete removes a reservation, or the entire repeat series when the
// reservation belongs to one. Players may delete their own bookings, clubs
// any booking within their setups; everything else reads as "not found".
func (s *service) Delete(ctx context.Context, userID, reservationID int) error {
	res, err := s.repo.GetByID(ctx, reservationID)
	if err != nil {
		return err
	}

	prof, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return ErrReservationNotFound
	}

	allowed := res.UserID == userID
	if !allowed && prof.IsClub() && prof.ClubID != nil {
		cs, err := s.setupRepo.GetByID(ctx, res.CourtSetupID)
		if err == nil && cs.ClubID == *prof.ClubID {
			allowed = true
		}
	}
	if !allowed {
		return ErrReservationNotFound
	}

	if res.RepeatSeries != nil {
		if _, err := s.repo.DeleteBySeries(ctx, *res.RepeatSeries); err != nil {
			return err
		}
	} else {
		if err := s.repo.DeleteByID(ctx, res.ID); err != nil {
			return err
		}
	}

	metrics.RecordReservationDeletion()
	s.recorder.Record(ctx, fmt.Sprintf("user:%d", userID), "deleted", fmt.Sprintf("reservation:%d", reservationID))
	return nil
}

func (s *service) ByCourtSetup(ctx context.Context, setupID int) ([]ReservationWithDetails, error) {
	return s.repo.ByCourtSetup(ctx, setupID)
}

func (s *service) ByDate(ctx context.Context, setupID int, forDate time.Time) ([]ReservationWithDetails, error) {
	return s.repo.ByDate(ctx, setupID, forDate)
}

func (s *service) FromDate(ctx context.Context, setupID int, forDate time.Time) ([]ReservationWithDetails, error) {
	return s.repo.FromDate(ctx, setupID, forDate)
}

func (s *service) UpToDate(ctx context.Context, setupID int, forDate time.Time) ([]ReservationWithDetails, error) {
	return s.repo.UpToDate(ctx, setupID, forDate)
}

func (s *service) CountForDate(ctx context.Context, forDate time.Time) (int, error) {
	return s.repo.CountForDate(ctx, forDate)
}

func (s *service) CountForRange(ctx context.Context, from, to time.Time) (int, error) {
	return s.repo.CountForRange(ctx, from, to)
}

// CopyToCourtSetup re-creates reservations in another setup at the same
// (date, hour). The court with the same number is preferred; any free
// court is the fallback; a reservation with no free slot in the target is
// dropped from the result, not an error. All inputs must share one source
// setup and the target must differ, otherwise the whole operation fails.
// Repeating series get fresh ids in the target, never the source's.
func (s *service) CopyToCourtSetup(ctx context.Context, targetSetupID int, list []ReservationWithDetails, commit bool) ([]Reservation, error) {
	if len(list) == 0 {
		return nil, nil
	}

	sourceSetupID := list[0].CourtSetupID
	for _, r := range list {
		if r.CourtSetupID != sourceSetupID {
			return nil, ErrMixedCourtSetups
		}
	}
	if targetSetupID == sourceSetupID {
		return nil, ErrSameCourtSetup
	}
	if _, err := s.setupRepo.GetByID(ctx, targetSetupID); err != nil {
		return nil, err
	}

	nextSeries, err := s.repo.NextRepeatSeries(ctx)
	if err != nil {
		return nil, err
	}
	seriesIDs := make(map[int]int)

	var copied []Reservation
	for _, src := range list {
		free, err := s.vacancyRepo.GetFree(ctx, targetSetupID, src.ForDate, src.AvailableFrom)
		if err != nil {
			return nil, err
		}

		var target *clubs.VacancyWithCourt
		for i := range free {
			if free[i].CourtNumber == src.CourtNumber {
				target = &free[i]
				break
			}
		}
		if target == nil && len(free) > 0 {
			target = &free[0]
		}
		if target == nil {
			metrics.RecordTransfer("dropped")
			continue
		}

		var series *int
		if src.RepeatSeries != nil {
			id, ok := seriesIDs[*src.RepeatSeries]
			if !ok {
				id = nextSeries
				nextSeries++
				seriesIDs[*src.RepeatSeries] = id
			}
			series = &id
		}

		res := Reservation{
			CreatedOn:    src.CreatedOn,
			ForDate:      src.ForDate,
			Type:         src.Type,
			Description:  src.Description,
			UserID:       src.UserID,
			VacancyID:    target.ID,
			RepeatSeries: series,
		}

		if commit {
			created, err := s.repo.Create(ctx, &res)
			if err != nil {
				if errors.Is(err, ErrSlotTaken) {
					metrics.RecordTransfer("dropped")
					continue
				}
				return copied, err
			}
			res = *created
		}

		metrics.RecordTransfer("copied")
		copied = append(copied, res)
	}

	return copied, nil
}
