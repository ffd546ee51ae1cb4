package clubs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrCourtNotFound        = errors.New("court not found")
	ErrCourtNumberTaken     = errors.New("court number already taken in this setup")
	ErrCourtHasReservations = errors.New("court has reservations attached")
	ErrSetupHasReservations = errors.New("court setup has reservations attached")
)

type courtRepository struct {
	db *sqlx.DB
}

func NewCourtRepository(db *sqlx.DB) CourtRepository {
	return &courtRepository{db: db}
}

// Create inserts the court and generates its full vacancy grid, one row per
// (day, hour) slot with no price, in the same transaction. The grid exists
// from the moment the court does.
func (r *courtRepository) Create(ctx context.Context, setupID, number int, attrs CourtAttrs) (*Court, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO courts (court_setup_id, number, indoor, light, surface, single_only, is_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, court_setup_id, number, indoor, light, surface, single_only, is_available
	`

	var court Court
	err = tx.GetContext(ctx, &court, query,
		setupID, number, attrs.Indoor, attrs.Light, attrs.Surface, attrs.SingleOnly, attrs.IsAvailable)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrCourtNumberTaken
		}
		return nil, err
	}

	if err := insertVacancyGrid(ctx, tx, court.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &court, nil
}

// insertVacancyGrid bulk-inserts all 119 template slots for a court.
func insertVacancyGrid(ctx context.Context, tx *sqlx.Tx, courtID int) error {
	values := make([]string, 0, GridSize)
	args := make([]interface{}, 0, GridSize*3)
	i := 1
	for day := FirstDay; day <= LastDay; day++ {
		for hour := FirstHour; hour <= LastHour; hour++ {
			values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d)", i, i+1, i+2, i+3))
			args = append(args, courtID, day, hour, hour+1)
			i += 4
		}
	}

	query := `
		INSERT INTO vacancies (court_id, day_of_week, available_from, available_to)
		VALUES ` + strings.Join(values, ", ")

	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

func (r *courtRepository) GetByID(ctx context.Context, id int) (*Court, error) {
	query := `
		SELECT id, court_setup_id, number, indoor, light, surface, single_only, is_available
		FROM courts
		WHERE id = $1
	`

	var court Court
	err := r.db.GetContext(ctx, &court, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourtNotFound
		}
		return nil, err
	}

	return &court, nil
}

func (r *courtRepository) GetBySetup(ctx context.Context, setupID int) ([]Court, error) {
	query := `
		SELECT id, court_setup_id, number, indoor, light, surface, single_only, is_available
		FROM courts
		WHERE court_setup_id = $1
		ORDER BY number
	`

	var courts []Court
	err := r.db.SelectContext(ctx, &courts, query, setupID)
	if err != nil {
		return nil, err
	}

	return courts, nil
}

func (r *courtRepository) GetAvailable(ctx context.Context, setupID int) ([]Court, error) {
	query := `
		SELECT id, court_setup_id, number, indoor, light, surface, single_only, is_available
		FROM courts
		WHERE court_setup_id = $1 AND is_available
		ORDER BY number
	`

	var courts []Court
	err := r.db.SelectContext(ctx, &courts, query, setupID)
	if err != nil {
		return nil, err
	}

	return courts, nil
}

func (r *courtRepository) Count(ctx context.Context, setupID int) (int, error) {
	query := `SELECT COUNT(*) FROM courts WHERE court_setup_id = $1`

	var count int
	err := r.db.GetContext(ctx, &count, query, setupID)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *courtRepository) MaxNumber(ctx context.Context, setupID int) (int, error) {
	query := `SELECT COALESCE(MAX(number), 0) FROM courts WHERE court_setup_id = $1`

	var max int
	err := r.db.GetContext(ctx, &max, query, setupID)
	if err != nil {
		return 0, err
	}

	return max, nil
}

func (r *courtRepository) SetAvailable(ctx context.Context, id int, available bool) error {
	query := `UPDATE courts SET is_available = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, available)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrCourtNotFound
	}

	return nil
}

// Delete removes the court and, via cascade, its vacancy grid. Vacancies
// that still have reservations attached trip the RESTRICT constraint.
func (r *courtRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM courts WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrCourtHasReservations
		}
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrCourtNotFound
	}

	return nil
}

func (r *courtRepository) DeleteReservations(ctx context.Context, courtID int) (int, error) {
	query := `
		DELETE FROM reservations
		WHERE vacancy_id IN (SELECT id FROM vacancies WHERE court_id = $1)
	`

	result, err := r.db.ExecContext(ctx, query, courtID)
	if err != nil {
		return 0, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(rowsAffected), nil
}

// CopyPrices copies every priced slot of one court onto the matching
// (day, hour) slot of another in a single statement. Unpriced source slots
// leave the target untouched.
func (r *courtRepository) CopyPrices(ctx context.Context, fromCourtID, toCourtID int) error {
	query := `
		UPDATE vacancies dst
		SET price = src.price
		FROM vacancies src
		WHERE src.court_id = $1
		  AND dst.court_id = $2
		  AND src.day_of_week = dst.day_of_week
		  AND src.available_from = dst.available_from
		  AND src.price IS NOT NULL
	`

	_, err := r.db.ExecContext(ctx, query, fromCourtID, toCourtID)
	return err
}
