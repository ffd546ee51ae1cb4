package clubs

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrCourtSetupNotFound = errors.New("court setup not found")
	ErrNoActiveCourtSetup = errors.New("club has no active court setup")
)

type courtSetupRepository struct {
	db *sqlx.DB
}

func NewCourtSetupRepository(db *sqlx.DB) CourtSetupRepository {
	return &courtSetupRepository{db: db}
}

func (r *courtSetupRepository) Create(ctx context.Context, clubID int, name string, isActive bool) (*CourtSetup, error) {
	query := `
		INSERT INTO court_setups (club_id, name, is_active)
		VALUES ($1, $2, $3)
		RETURNING id, club_id, name, is_active
	`

	var cs CourtSetup
	err := r.db.GetContext(ctx, &cs, query, clubID, name, isActive)
	if err != nil {
		return nil, err
	}

	return &cs, nil
}

func (r *courtSetupRepository) GetByID(ctx context.Context, id int) (*CourtSetup, error) {
	query := `
		SELECT id, club_id, name, is_active
		FROM court_setups
		WHERE id = $1
	`

	var cs CourtSetup
	err := r.db.GetContext(ctx, &cs, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourtSetupNotFound
		}
		return nil, err
	}

	return &cs, nil
}

func (r *courtSetupRepository) GetActive(ctx context.Context, clubID int) (*CourtSetup, error) {
	query := `
		SELECT id, club_id, name, is_active
		FROM court_setups
		WHERE club_id = $1 AND is_active
	`

	var cs CourtSetup
	err := r.db.GetContext(ctx, &cs, query, clubID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoActiveCourtSetup
		}
		return nil, err
	}

	return &cs, nil
}

func (r *courtSetupRepository) GetByClub(ctx context.Context, clubID int) ([]CourtSetup, error) {
	query := `
		SELECT id, club_id, name, is_active
		FROM court_setups
		WHERE club_id = $1
		ORDER BY id
	`

	var setups []CourtSetup
	err := r.db.SelectContext(ctx, &setups, query, clubID)
	if err != nil {
		return nil, err
	}

	return setups, nil
}

func (r *courtSetupRepository) Count(ctx context.Context, clubID int) (int, error) {
	query := `SELECT COUNT(*) FROM court_setups WHERE club_id = $1`

	var count int
	err := r.db.GetContext(ctx, &count, query, clubID)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *courtSetupRepository) CountReservations(ctx context.Context, setupID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM reservations r
		JOIN vacancies v ON r.vacancy_id = v.id
		JOIN courts c ON v.court_id = c.id
		WHERE c.court_setup_id = $1
	`

	var count int
	err := r.db.GetContext(ctx, &count, query, setupID)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *courtSetupRepository) Rename(ctx context.Context, id int, name string) error {
	query := `UPDATE court_setups SET name = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, name)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrCourtSetupNotFound
	}

	return nil
}

// Activate deactivates every setup of the club and activates the given one
// in a single transaction, so readers never observe zero or two active
// setups for a club.
func (r *courtSetupRepository) Activate(ctx context.Context, clubID, setupID int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE court_setups SET is_active = FALSE WHERE club_id = $1 AND is_active`,
		clubID); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE court_setups SET is_active = TRUE WHERE id = $1 AND club_id = $2`,
		setupID, clubID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrCourtSetupNotFound
	}

	return tx.Commit()
}

// DeleteCascade removes the setup together with its courts and vacancies.
// With force it first deletes every reservation attached to the setup;
// without force any remaining reservation trips the RESTRICT constraint on
// vacancies and the whole transaction rolls back. Afterwards, if the club
// is left without an active setup, the lowest-id remaining one is activated.
func (r *courtSetupRepository) DeleteCascade(ctx context.Context, setupID int, force bool) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var clubID int
	if err := tx.GetContext(ctx, &clubID,
		`SELECT club_id FROM court_setups WHERE id = $1`, setupID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCourtSetupNotFound
		}
		return err
	}

	if force {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM reservations
			WHERE vacancy_id IN (
				SELECT v.id
				FROM vacancies v
				JOIN courts c ON v.court_id = c.id
				WHERE c.court_setup_id = $1
			)`, setupID); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM court_setups WHERE id = $1`, setupID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrSetupHasReservations
		}
		return err
	}

	var activeCount int
	if err := tx.GetContext(ctx, &activeCount,
		`SELECT COUNT(*) FROM court_setups WHERE club_id = $1 AND is_active`,
		clubID); err != nil {
		return err
	}

	if activeCount == 0 {
		if _, err := tx.ExecContext(ctx, `
			UPDATE court_setups SET is_active = TRUE
			WHERE id = (
				SELECT id FROM court_setups WHERE club_id = $1 ORDER BY id LIMIT 1
			)`, clubID); err != nil {
			return err
		}
	}

	return tx.Commit()
}
