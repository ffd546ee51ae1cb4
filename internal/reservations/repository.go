package reservations

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrReservationNotFound = errors.New("reservation not found")
	// ErrSlotTaken is the storage layer losing the booking race: the
	// (for_date, vacancy) pair is already reserved.
	ErrSlotTaken = errors.New("vacancy already reserved for this date")
)

const dateLayout = "2006-01-02"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Create inserts the reservation. The unique index on (for_date,
// vacancy_id) is the arbiter between concurrent bookings of the same slot;
// the loser gets ErrSlotTaken.
func (r *repository) Create(ctx context.Context, res *Reservation) (*Reservation, error) {
	query := `
		INSERT INTO reservations (created_on, for_date, type, description, user_id, vacancy_id, repeat_series)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_on, for_date, type, description, user_id, vacancy_id, repeat_series
	`

	var created Reservation
	err := r.db.GetContext(ctx, &created, query,
		res.CreatedOn, res.ForDate.Format(dateLayout), res.Type, res.Description,
		res.UserID, res.VacancyID, res.RepeatSeries)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrSlotTaken
		}
		return nil, err
	}

	return &created, nil
}

const detailsSelect = `
	SELECT
		r.id, r.created_on, r.for_date, r.type, r.description, r.user_id, r.vacancy_id, r.repeat_series,
		v.day_of_week, v.available_from, v.available_to,
		c.id AS court_id,
		c.number AS court_number,
		c.court_setup_id,
		u.username AS user_name
	FROM reservations r
	JOIN vacancies v ON r.vacancy_id = v.id
	JOIN courts c ON v.court_id = c.id
	JOIN users u ON r.user_id = u.id
`

func (r *repository) GetByID(ctx context.Context, id int) (*ReservationWithDetails, error) {
	query := detailsSelect + ` WHERE r.id = $1`

	var res ReservationWithDetails
	err := r.db.GetContext(ctx, &res, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}

	return &res, nil
}

func (r *repository) ExistsForDateVacancy(ctx context.Context, forDate time.Time, vacancyID int) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM reservations
			WHERE for_date = $1 AND vacancy_id = $2
		)
	`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, forDate.Format(dateLayout), vacancyID)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *repository) NextRepeatSeries(ctx context.Context) (int, error) {
	query := `SELECT COALESCE(MAX(repeat_series), 0) + 1 FROM reservations`

	var next int
	err := r.db.GetContext(ctx, &next, query)
	if err != nil {
		return 0, err
	}

	return next, nil
}

func (r *repository) DeleteByID(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

func (r *repository) DeleteBySeries(ctx context.Context, series int) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM reservations WHERE repeat_series = $1`, series)
	if err != nil {
		return 0, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(rowsAffected), nil
}

// The read filters below deliberately include reservations sitting on
// courts that were later marked unavailable.

func (r *repository) ByCourtSetup(ctx context.Context, setupID int) ([]ReservationWithDetails, error) {
	query := detailsSelect + `
		WHERE c.court_setup_id = $1
		ORDER BY r.for_date, v.available_from, c.number
	`

	var list []ReservationWithDetails
	err := r.db.SelectContext(ctx, &list, query, setupID)
	if err != nil {
		return nil, err
	}

	return list, nil
}

func (r *repository) ByDate(ctx context.Context, setupID int, forDate time.Time) ([]ReservationWithDetails, error) {
	query := detailsSelect + `
		WHERE c.court_setup_id = $1 AND r.for_date = $2
		ORDER BY v.available_from, c.number
	`

	var list []ReservationWithDetails
	err := r.db.SelectContext(ctx, &list, query, setupID, forDate.Format(dateLayout))
	if err != nil {
		return nil, err
	}

	return list, nil
}

func (r *repository) FromDate(ctx context.Context, setupID int, forDate time.Time) ([]ReservationWithDetails, error) {
	query := detailsSelect + `
		WHERE c.court_setup_id = $1 AND r.for_date >= $2
		ORDER BY r.for_date, v.available_from, c.number
	`

	var list []ReservationWithDetails
	err := r.db.SelectContext(ctx, &list, query, setupID, forDate.Format(dateLayout))
	if err != nil {
		return nil, err
	}

	return list, nil
}

func (r *repository) UpToDate(ctx context.Context, setupID int, forDate time.Time) ([]ReservationWithDetails, error) {
	query := detailsSelect + `
		WHERE c.court_setup_id = $1 AND r.for_date <= $2
		ORDER BY r.for_date, v.available_from, c.number
	`

	var list []ReservationWithDetails
	err := r.db.SelectContext(ctx, &list, query, setupID, forDate.Format(dateLayout))
	if err != nil {
		return nil, err
	}

	return list, nil
}

func (r *repository) CountForDate(ctx context.Context, forDate time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM reservations WHERE for_date = $1`

	var count int
	err := r.db.GetContext(ctx, &count, query, forDate.Format(dateLayout))
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *repository) CountForRange(ctx context.Context, from, to time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM reservations WHERE for_date BETWEEN $1 AND $2`

	var count int
	err := r.db.GetContext(ctx, &count, query, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return 0, err
	}

	return count, nil
}
