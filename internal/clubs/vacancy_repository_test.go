package clubs

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestISOWeekday(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"2025-06-02", 1}, // Monday
		{"2025-06-04", 3}, // Wednesday
		{"2025-06-07", 6}, // Saturday
		{"2025-06-08", 7}, // Sunday
	}

	for _, tt := range tests {
		d, err := time.Parse("2006-01-02", tt.date)
		assert.NoError(t, err)
		assert.Equal(t, tt.want, ISOWeekday(d), "date=%s", tt.date)
	}
}

func TestVacancyRepository_GetFree(t *testing.T) {
	dbx, mock, closeDB := newMockDB(t)
	defer closeDB()
	repo := NewVacancyRepository(dbx)

	// Monday 9:00; the query keys on the weekday of the concrete date.
	forDate := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "court_id", "day_of_week", "available_from", "available_to", "price",
		"court_number", "court_setup_id",
	}).
		AddRow(100, 10, 1, 9, 10, nil, 1, 1).
		AddRow(119, 11, 1, 9, 10, 8.5, 2, 1)

	mock.ExpectQuery(`SELECT.*FROM vacancies v.*JOIN courts c.*c\.is_available.*NOT EXISTS.*ORDER BY c\.number`).
		WithArgs(1, 1, 9, "2025-06-02").
		WillReturnRows(rows)

	free, err := repo.GetFree(context.Background(), 1, forDate, 9)
	assert.NoError(t, err)
	assert.Len(t, free, 2)
	assert.Equal(t, 1, free[0].CourtNumber)
	assert.Nil(t, free[0].Price)
	assert.NotNil(t, free[1].Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVacancyRepository_BulkUpdatePrice(t *testing.T) {
	t.Run("sets a price on a batch", func(t *testing.T) {
		dbx, mock, closeDB := newMockDB(t)
		defer closeDB()
		repo := NewVacancyRepository(dbx)

		price := 12.5
		mock.ExpectExec(`UPDATE vacancies SET price = \$1 WHERE id IN \(\$2, \$3\)`).
			WithArgs(price, 1, 2).
			WillReturnResult(sqlmock.NewResult(0, 2))

		err := repo.BulkUpdatePrice(context.Background(), []int{1, 2}, &price)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("clears with nil", func(t *testing.T) {
		dbx, mock, closeDB := newMockDB(t)
		defer closeDB()
		repo := NewVacancyRepository(dbx)

		mock.ExpectExec(`UPDATE vacancies SET price = \$1 WHERE id IN \(\$2\)`).
			WithArgs(nil, 3).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.BulkUpdatePrice(context.Background(), []int{3}, nil)
		assert.NoError(t, err)
	})

	t.Run("empty batch touches nothing", func(t *testing.T) {
		dbx, mock, closeDB := newMockDB(t)
		defer closeDB()
		repo := NewVacancyRepository(dbx)

		err := repo.BulkUpdatePrice(context.Background(), nil, nil)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestVacancyRepository_GetAllFilters(t *testing.T) {
	dbx, mock, closeDB := newMockDB(t)
	defer closeDB()
	repo := NewVacancyRepository(dbx)

	rows := sqlmock.NewRows([]string{
		"id", "court_id", "day_of_week", "available_from", "available_to", "price",
	}).AddRow(1, 10, 1, 9, 10, nil)

	mock.ExpectQuery(`SELECT.*FROM vacancies.*court_id IN \(\$1\).*day_of_week IN \(\$2\).*ORDER BY court_id, day_of_week, available_from`).
		WithArgs(10, 1).
		WillReturnRows(rows)

	grid, err := repo.GetAll(context.Background(), []int{10}, []int{1}, nil)
	assert.NoError(t, err)
	assert.Len(t, grid, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
