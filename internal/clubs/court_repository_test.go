package clubs

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	return sqlx.NewDb(db, "postgres"), mock, func() { db.Close() }
}

func courtRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "court_setup_id", "number", "indoor", "light", "surface", "single_only", "is_available",
	})
}

func TestCourtRepository_CreateGeneratesGrid(t *testing.T) {
	dbx, mock, closeDB := newMockDB(t)
	defer closeDB()
	repo := NewCourtRepository(dbx)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO courts.*RETURNING`).
		WithArgs(1, 1, false, true, SurfaceClay, false, true).
		WillReturnRows(courtRows().AddRow(10, 1, 1, false, true, SurfaceClay, false, true))
	// One bulk insert carrying the full 7x17 grid for the new court.
	mock.ExpectExec(`INSERT INTO vacancies \(court_id, day_of_week, available_from, available_to\) VALUES.*`).
		WillReturnResult(sqlmock.NewResult(0, GridSize))
	mock.ExpectCommit()

	court, err := repo.Create(context.Background(), 1, 1, DefaultCourtAttrs())
	assert.NoError(t, err)
	assert.Equal(t, 10, court.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourtRepository_CreateNumberTaken(t *testing.T) {
	dbx, mock, closeDB := newMockDB(t)
	defer closeDB()
	repo := NewCourtRepository(dbx)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO courts.*`).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	court, err := repo.Create(context.Background(), 1, 1, DefaultCourtAttrs())
	assert.ErrorIs(t, err, ErrCourtNumberTaken)
	assert.Nil(t, court)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourtRepository_DeleteWithReservations(t *testing.T) {
	dbx, mock, closeDB := newMockDB(t)
	defer closeDB()
	repo := NewCourtRepository(dbx)

	mock.ExpectExec(`DELETE FROM courts WHERE id = \$1`).
		WithArgs(10).
		WillReturnError(&pq.Error{Code: "23503"})

	err := repo.Delete(context.Background(), 10)
	assert.ErrorIs(t, err, ErrCourtHasReservations)
}

func TestCourtRepository_DeleteReservations(t *testing.T) {
	dbx, mock, closeDB := newMockDB(t)
	defer closeDB()
	repo := NewCourtRepository(dbx)

	mock.ExpectExec(`DELETE FROM reservations.*WHERE vacancy_id IN \(SELECT id FROM vacancies WHERE court_id = \$1\)`).
		WithArgs(10).
		WillReturnResult(sqlmock.NewResult(0, 4))

	count, err := repo.DeleteReservations(context.Background(), 10)
	assert.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestCourtRepository_CopyPrices(t *testing.T) {
	dbx, mock, closeDB := newMockDB(t)
	defer closeDB()
	repo := NewCourtRepository(dbx)

	mock.ExpectExec(`UPDATE vacancies dst.*SET price = src\.price.*src\.price IS NOT NULL`).
		WithArgs(10, 20).
		WillReturnResult(sqlmock.NewResult(0, 12))

	err := repo.CopyPrices(context.Background(), 10, 20)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourtRepository_MaxNumber(t *testing.T) {
	dbx, mock, closeDB := newMockDB(t)
	defer closeDB()
	repo := NewCourtRepository(dbx)

	mock.ExpectQuery(`SELECT COALESCE\(MAX\(number\), 0\) FROM courts WHERE court_setup_id = \$1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(3))

	max, err := repo.MaxNumber(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, 3, max)
}
