package clubs

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrVacancyNotFound = errors.New("vacancy not found")

type vacancyRepository struct {
	db *sqlx.DB
}

func NewVacancyRepository(db *sqlx.DB) VacancyRepository {
	return &vacancyRepository{db: db}
}

func (r *vacancyRepository) GetByID(ctx context.Context, id int) (*Vacancy, error) {
	query := `
		SELECT id, court_id, day_of_week, available_from, available_to, price
		FROM vacancies
		WHERE id = $1
	`

	var v Vacancy
	err := r.db.GetContext(ctx, &v, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVacancyNotFound
		}
		return nil, err
	}

	return &v, nil
}

func (r *vacancyRepository) Get(ctx context.Context, courtID, dayOfWeek, hour int) (*Vacancy, error) {
	query := `
		SELECT id, court_id, day_of_week, available_from, available_to, price
		FROM vacancies
		WHERE court_id = $1 AND day_of_week = $2 AND available_from = $3
	`

	var v Vacancy
	err := r.db.GetContext(ctx, &v, query, courtID, dayOfWeek, hour)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVacancyNotFound
		}
		return nil, err
	}

	return &v, nil
}

// GetAll returns template slots filtered by any combination of courts,
// weekdays and hours; a nil or empty slice means no filter on that axis.
func (r *vacancyRepository) GetAll(ctx context.Context, courtIDs, days, hours []int) ([]Vacancy, error) {
	query := `
		SELECT id, court_id, day_of_week, available_from, available_to, price
		FROM vacancies
		WHERE 1=1
	`
	var args []interface{}

	if len(courtIDs) > 0 {
		query += ` AND court_id IN (?)`
		args = append(args, courtIDs)
	}
	if len(days) > 0 {
		query += ` AND day_of_week IN (?)`
		args = append(args, days)
	}
	if len(hours) > 0 {
		query += ` AND available_from IN (?)`
		args = append(args, hours)
	}

	query += ` ORDER BY court_id, day_of_week, available_from`

	query, flatArgs, err := sqlx.In(query, args...)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)

	var vacancies []Vacancy
	if err := r.db.SelectContext(ctx, &vacancies, query, flatArgs...); err != nil {
		return nil, err
	}

	return vacancies, nil
}

// ISOWeekday maps a calendar date onto the grid's day axis
// (Monday = 1 .. Sunday = 7).
func ISOWeekday(d time.Time) int {
	return (int(d.Weekday())+6)%7 + 1
}

// GetFree returns the slots of a setup still bookable at (weekday of
// forDate, hour): courts must be available and no reservation may exist for
// that exact date. Booking state lives in reservations, the template rows
// are reused every week, hence the anti-join on the concrete date.
func (r *vacancyRepository) GetFree(ctx context.Context, setupID int, forDate time.Time, hour int) ([]VacancyWithCourt, error) {
	query := `
		SELECT
			v.id, v.court_id, v.day_of_week, v.available_from, v.available_to, v.price,
			c.number AS court_number,
			c.court_setup_id
		FROM vacancies v
		JOIN courts c ON v.court_id = c.id
		WHERE c.court_setup_id = $1
		  AND v.day_of_week = $2
		  AND v.available_from = $3
		  AND c.is_available
		  AND NOT EXISTS (
			SELECT 1 FROM reservations r
			WHERE r.vacancy_id = v.id AND r.for_date = $4
		  )
		ORDER BY c.number
	`

	var free []VacancyWithCourt
	err := r.db.SelectContext(ctx, &free, query,
		setupID, ISOWeekday(forDate), hour, forDate.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}

	return free, nil
}

// BulkUpdatePrice sets (or clears, with nil) the price on a batch of slots
// in one statement.
func (r *vacancyRepository) BulkUpdatePrice(ctx context.Context, ids []int, price *float64) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`UPDATE vacancies SET price = ? WHERE id IN (?)`, price, ids)
	if err != nil {
		return err
	}
	query = r.db.Rebind(query)

	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}
