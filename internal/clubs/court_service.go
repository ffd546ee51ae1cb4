package clubs

import (
	"context"
	"fmt"

	"github.com/lichinka/ht/internal/activity"
)

type CourtService interface {
	Create(ctx context.Context, clubID, setupID int, req CreateCourtRequest) (*Court, error)
	GetBySetup(ctx context.Context, setupID int) ([]Court, error)
	GetAvailable(ctx context.Context, setupID int) ([]Court, error)
	Count(ctx context.Context, setupID int) (int, error)
	Clone(ctx context.Context, clubID, courtID int) (*Court, error)
	ToggleAvailable(ctx context.Context, clubID, courtID int) (*Court, error)
	Delete(ctx context.Context, clubID, courtID int) error
	DeleteReservations(ctx context.Context, clubID, courtID int) (int, error)
}

type courtService struct {
	courtRepo CourtRepository
	setupRepo CourtSetupRepository
	recorder  activity.Recorder
}

func NewCourtService(courtRepo CourtRepository, setupRepo CourtSetupRepository, recorder activity.Recorder) CourtService {
	if recorder == nil {
		recorder = activity.NopRecorder{}
	}
	return &courtService{
		courtRepo: courtRepo,
		setupRepo: setupRepo,
		recorder:  recorder,
	}
}

func (s *courtService) Create(ctx context.Context, clubID, setupID int, req CreateCourtRequest) (*Court, error) {
	if _, err := s.ownedSetup(ctx, clubID, setupID); err != nil {
		return nil, err
	}

	attrs := CourtAttrs{
		Indoor:      req.Indoor,
		Light:       req.Light,
		Surface:     req.Surface,
		SingleOnly:  req.SingleOnly,
		IsAvailable: true,
	}
	if attrs.Surface == "" {
		attrs.Surface = SurfaceClay
	}
	if !attrs.validSurface() {
		return nil, fmt.Errorf("unknown court surface %q", attrs.Surface)
	}

	next, err := s.courtRepo.MaxNumber(ctx, setupID)
	if err != nil {
		return nil, err
	}

	court, err := s.courtRepo.Create(ctx, setupID, next+1, attrs)
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, fmt.Sprintf("club:%d", clubID), "created", fmt.Sprintf("court:%d", court.ID))
	return court, nil
}

func (s *courtService) GetBySetup(ctx context.Context, setupID int) ([]Court, error) {
	return s.courtRepo.GetBySetup(ctx, setupID)
}

func (s *courtService) GetAvailable(ctx context.Context, setupID int) ([]Court, error) {
	return s.courtRepo.GetAvailable(ctx, setupID)
}

func (s *courtService) Count(ctx context.Context, setupID int) (int, error) {
	return s.courtRepo.Count(ctx, setupID)
}

// Clone adds a new court to the same setup under the next unused number,
// with identical physical properties and the priced slots copied over.
func (s *courtService) Clone(ctx context.Context, clubID, courtID int) (*Court, error) {
	court, err := s.ownedCourt(ctx, clubID, courtID)
	if err != nil {
		return nil, err
	}

	next, err := s.courtRepo.MaxNumber(ctx, court.CourtSetupID)
	if err != nil {
		return nil, err
	}

	attrs := CourtAttrs{
		Indoor:      court.Indoor,
		Light:       court.Light,
		Surface:     court.Surface,
		SingleOnly:  court.SingleOnly,
		IsAvailable: court.IsAvailable,
	}

	clone, err := s.courtRepo.Create(ctx, court.CourtSetupID, next+1, attrs)
	if err != nil {
		return nil, err
	}

	if err := s.courtRepo.CopyPrices(ctx, court.ID, clone.ID); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, fmt.Sprintf("club:%d", clubID), "cloned", fmt.Sprintf("court:%d", court.ID))
	return clone, nil
}

func (s *courtService) ToggleAvailable(ctx context.Context, clubID, courtID int) (*Court, error) {
	court, err := s.ownedCourt(ctx, clubID, courtID)
	if err != nil {
		return nil, err
	}

	if err := s.courtRepo.SetAvailable(ctx, courtID, !court.IsAvailable); err != nil {
		return nil, err
	}
	court.IsAvailable = !court.IsAvailable

	s.recorder.Record(ctx, fmt.Sprintf("club:%d", clubID), "updated", fmt.Sprintf("court:%d", court.ID))
	return court, nil
}

// Delete refuses to remove the last court of a setup. Courts with
// reservations attached surface ErrCourtHasReservations from the storage
// layer.
func (s *courtService) Delete(ctx context.Context, clubID, courtID int) error {
	court, err := s.ownedCourt(ctx, clubID, courtID)
	if err != nil {
		return err
	}

	count, err := s.courtRepo.Count(ctx, court.CourtSetupID)
	if err != nil {
		return err
	}
	if count <= 1 {
		return ErrLastCourt
	}

	if err := s.courtRepo.Delete(ctx, courtID); err != nil {
		return err
	}

	s.recorder.Record(ctx, fmt.Sprintf("club:%d", clubID), "deleted", fmt.Sprintf("court:%d", courtID))
	return nil
}

func (s *courtService) DeleteReservations(ctx context.Context, clubID, courtID int) (int, error) {
	if _, err := s.ownedCourt(ctx, clubID, courtID); err != nil {
		return 0, err
	}

	return s.courtRepo.DeleteReservations(ctx, courtID)
}

// ownedSetup resolves a setup and hides other clubs' setups behind
// "not found".
func (s *courtService) ownedSetup(ctx context.Context, clubID, setupID int) (*CourtSetup, error) {
	cs, err := s.setupRepo.GetByID(ctx, setupID)
	if err != nil {
		return nil, err
	}
	if cs.ClubID != clubID {
		return nil, ErrCourtSetupNotFound
	}
	return cs, nil
}

func (s *courtService) ownedCourt(ctx context.Context, clubID, courtID int) (*Court, error) {
	court, err := s.courtRepo.GetByID(ctx, courtID)
	if err != nil {
		return nil, err
	}

	cs, err := s.setupRepo.GetByID(ctx, court.CourtSetupID)
	if err != nil {
		return nil, err
	}
	if cs.ClubID != clubID {
		return nil, ErrCourtNotFound
	}

	return court, nil
}
