package reservations

import (
	"context"
	"fmt"

	"github.com/lichinka/ht/internal/activity"
	"github.com/lichinka/ht/internal/clubs"
	"github.com/lichinka/ht/internal/logger"
)

// TransferService retires a court setup. Its reservations are either moved
// to another setup or discarded, after which the setup itself is removed.
type TransferService interface {
	TransferAndDelete(ctx context.Context, clubID, sourceSetupID, targetSetupID int) (copied, dropped int, err error)
	DeleteAll(ctx context.Context, clubID, setupID int) error
}

type transferService struct {
	reservations Service
	setups       clubs.CourtSetupService
	recorder     activity.Recorder
}

func NewTransferService(reservations Service, setups clubs.CourtSetupService, recorder activity.Recorder) TransferService {
	if recorder == nil {
		recorder = activity.NopRecorder{}
	}
	return &transferService{
		reservations: reservations,
		setups:       setups,
		recorder:     recorder,
	}
}

// TransferAndDelete copies every reservation of the source setup into the
// target, then force-deletes the source. Reservations without a free slot
// in the target are dropped; their count is reported so the caller can
// surface it. The last remaining setup of a club cannot be retired.
func (s *transferService) TransferAndDelete(ctx context.Context, clubID, sourceSetupID, targetSetupID int) (int, int, error) {
	if _, err := s.setups.GetByID(ctx, clubID, sourceSetupID); err != nil {
		return 0, 0, err
	}
	if _, err := s.setups.GetByID(ctx, clubID, targetSetupID); err != nil {
		return 0, 0, err
	}

	list, err := s.reservations.ByCourtSetup(ctx, sourceSetupID)
	if err != nil {
		return 0, 0, err
	}

	copied, err := s.reservations.CopyToCourtSetup(ctx, targetSetupID, list, true)
	if err != nil {
		return len(copied), 0, err
	}
	dropped := len(list) - len(copied)

	if err := s.setups.Delete(ctx, clubID, sourceSetupID, true); err != nil {
		return len(copied), dropped, err
	}

	logger.Info("court setup transferred",
		"source_setup_id", sourceSetupID,
		"target_setup_id", targetSetupID,
		"copied", len(copied),
		"dropped", dropped,
	)
	s.recorder.Record(ctx, fmt.Sprintf("club:%d", clubID), "transferred", fmt.Sprintf("court_setup:%d", sourceSetupID))
	return len(copied), dropped, nil
}

// DeleteAll discards the setup's reservations along with the setup.
func (s *transferService) DeleteAll(ctx context.Context, clubID, setupID int) error {
	if _, err := s.setups.GetByID(ctx, clubID, setupID); err != nil {
		return err
	}

	if err := s.setups.Delete(ctx, clubID, setupID, true); err != nil {
		return err
	}

	s.recorder.Record(ctx, fmt.Sprintf("club:%d", clubID), "retired", fmt.Sprintf("court_setup:%d", setupID))
	return nil
}
