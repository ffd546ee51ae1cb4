package clubs

import (
	"context"
	"errors"
	"fmt"

	"github.com/lichinka/ht/internal/activity"
	"github.com/lichinka/ht/internal/metrics"
)

var (
	ErrLastCourtSetup = errors.New("cannot delete the last court setup of a club")
	ErrLastCourt      = errors.New("cannot delete the last court of a setup")
)

// DefaultSetupName is given to the setup created alongside a club profile.
const DefaultSetupName = "Default"

type CourtSetupService interface {
	CreateDefault(ctx context.Context, clubID int) (*CourtSetup, error)
	Create(ctx context.Context, clubID int, name string) (*CourtSetup, error)
	GetByID(ctx context.Context, clubID, setupID int) (*CourtSetup, error)
	GetActive(ctx context.Context, clubID int) (*CourtSetup, error)
	GetByClub(ctx context.Context, clubID int) ([]CourtSetup, error)
	Rename(ctx context.Context, clubID, setupID int, name string) error
	Activate(ctx context.Context, clubID, setupID int) error
	Delete(ctx context.Context, clubID, setupID int, force bool) error
	Clone(ctx context.Context, clubID, setupID int) (*CourtSetup, error)
}

type courtSetupService struct {
	setupRepo CourtSetupRepository
	courtRepo CourtRepository
	recorder  activity.Recorder
}

func NewCourtSetupService(setupRepo CourtSetupRepository, courtRepo CourtRepository, recorder activity.Recorder) CourtSetupService {
	if recorder == nil {
		recorder = activity.NopRecorder{}
	}
	return &courtSetupService{
		setupRepo: setupRepo,
		courtRepo: courtRepo,
		recorder:  recorder,
	}
}

// CreateDefault is the post-creation hook for new club profiles: one active
// setup named "Default" with one court and its vacancy grid.
func (s *courtSetupService) CreateDefault(ctx context.Context, clubID int) (*CourtSetup, error) {
	cs, err := s.setupRepo.Create(ctx, clubID, DefaultSetupName, true)
	if err != nil {
		return nil, err
	}

	if err := s.createDefaultCourt(ctx, cs.ID); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, fmt.Sprintf("club:%d", clubID), "created", fmt.Sprintf("court_setup:%d", cs.ID))
	return cs, nil
}

func (s *courtSetupService) Create(ctx context.Context, clubID int, name string) (*CourtSetup, error) {
	cs, err := s.setupRepo.Create(ctx, clubID, name, false)
	if err != nil {
		return nil, err
	}

	if err := s.createDefaultCourt(ctx, cs.ID); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, fmt.Sprintf("club:%d", clubID), "created", fmt.Sprintf("court_setup:%d", cs.ID))
	return cs, nil
}

// createDefaultCourt fires only on setup creation, never on updates or
// bulk loads.
func (s *courtSetupService) createDefaultCourt(ctx context.Context, setupID int) error {
	count, err := s.courtRepo.Count(ctx, setupID)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	next, err := s.courtRepo.MaxNumber(ctx, setupID)
	if err != nil {
		return err
	}

	_, err = s.courtRepo.Create(ctx, setupID, next+1, DefaultCourtAttrs())
	return err
}

func (s *courtSetupService) GetByID(ctx context.Context, clubID, setupID int) (*CourtSetup, error) {
	return s.ownedSetup(ctx, clubID, setupID)
}

func (s *courtSetupService) GetActive(ctx context.Context, clubID int) (*CourtSetup, error) {
	return s.setupRepo.GetActive(ctx, clubID)
}

func (s *courtSetupService) GetByClub(ctx context.Context, clubID int) ([]CourtSetup, error) {
	return s.setupRepo.GetByClub(ctx, clubID)
}

func (s *courtSetupService) Rename(ctx context.Context, clubID, setupID int, name string) error {
	if _, err := s.ownedSetup(ctx, clubID, setupID); err != nil {
		return err
	}

	if err := s.setupRepo.Rename(ctx, setupID, name); err != nil {
		return err
	}

	s.recorder.Record(ctx, fmt.Sprintf("club:%d", clubID), "updated", fmt.Sprintf("court_setup:%d", setupID))
	return nil
}

func (s *courtSetupService) Activate(ctx context.Context, clubID, setupID int) error {
	if _, err := s.ownedSetup(ctx, clubID, setupID); err != nil {
		return err
	}

	return s.setupRepo.Activate(ctx, clubID, setupID)
}

// Delete refuses to remove the last setup of a club, and refuses a setup
// with reservations attached unless forced. The caller owns the
// transfer-or-force decision.
func (s *courtSetupService) Delete(ctx context.Context, clubID, setupID int, force bool) error {
	if _, err := s.ownedSetup(ctx, clubID, setupID); err != nil {
		return err
	}

	count, err := s.setupRepo.Count(ctx, clubID)
	if err != nil {
		return err
	}
	if count <= 1 {
		return ErrLastCourtSetup
	}

	if !force {
		resCount, err := s.setupRepo.CountReservations(ctx, setupID)
		if err != nil {
			return err
		}
		if resCount > 0 {
			return ErrSetupHasReservations
		}
	}

	if err := s.setupRepo.DeleteCascade(ctx, setupID, force); err != nil {
		return err
	}

	s.recorder.Record(ctx, fmt.Sprintf("club:%d", clubID), "deleted", fmt.Sprintf("court_setup:%d", setupID))
	return nil
}

// Clone copies a setup court-for-court, number-for-number, carrying only
// priced slots over. The clone starts inactive and without the default
// court a normal creation would bring, so copied numbers never collide.
func (s *courtSetupService) Clone(ctx context.Context, clubID, setupID int) (*CourtSetup, error) {
	src, err := s.ownedSetup(ctx, clubID, setupID)
	if err != nil {
		return nil, err
	}

	clone, err := s.setupRepo.Create(ctx, clubID, "Copy of "+src.Name, false)
	if err != nil {
		return nil, err
	}

	courts, err := s.courtRepo.GetBySetup(ctx, src.ID)
	if err != nil {
		return nil, err
	}

	for _, court := range courts {
		attrs := CourtAttrs{
			Indoor:      court.Indoor,
			Light:       court.Light,
			Surface:     court.Surface,
			SingleOnly:  court.SingleOnly,
			IsAvailable: court.IsAvailable,
		}
		clonedCourt, err := s.courtRepo.Create(ctx, clone.ID, court.Number, attrs)
		if err != nil {
			return nil, err
		}
		if err := s.courtRepo.CopyPrices(ctx, court.ID, clonedCourt.ID); err != nil {
			return nil, err
		}
	}

	metrics.RecordCourtSetupClone()
	s.recorder.Record(ctx, fmt.Sprintf("club:%d", clubID), "cloned", fmt.Sprintf("court_setup:%d", src.ID))
	return clone, nil
}

// ownedSetup resolves a setup and hides other clubs' setups behind
// "not found".
func (s *courtSetupService) ownedSetup(ctx context.Context, clubID, setupID int) (*CourtSetup, error) {
	cs, err := s.setupRepo.GetByID(ctx, setupID)
	if err != nil {
		return nil, err
	}
	if cs.ClubID != clubID {
		return nil, ErrCourtSetupNotFound
	}
	return cs, nil
}
