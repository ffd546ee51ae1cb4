package reservations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/lichinka/ht/internal/clubs"
	"github.com/lichinka/ht/internal/profile"
)

// Mock repositories
type MockReservationRepo struct{ mock.Mock }
type MockVacancyRepo struct{ mock.Mock }
type MockCourtRepo struct{ mock.Mock }
type MockSetupRepo struct{ mock.Mock }
type MockProfileRepo struct{ mock.Mock }

func (m *MockReservationRepo) Create(ctx context.Context, r *Reservation) (*Reservation, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Reservation), args.Error(1)
}

func (m *MockReservationRepo) GetByID(ctx context.Context, id int) (*ReservationWithDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ReservationWithDetails), args.Error(1)
}

func (m *MockReservationRepo) ExistsForDateVacancy(ctx context.Context, forDate time.Time, vacancyID int) (bool, error) {
	args := m.Called(ctx, forDate, vacancyID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReservationRepo) NextRepeatSeries(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockReservationRepo) DeleteByID(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockReservationRepo) DeleteBySeries(ctx context.Context, series int) (int, error) {
	args := m.Called(ctx, series)
	return args.Int(0), args.Error(1)
}

func (m *MockReservationRepo) ByCourtSetup(ctx context.Context, setupID int) ([]ReservationWithDetails, error) {
	args := m.Called(ctx, setupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ReservationWithDetails), args.Error(1)
}

func (m *MockReservationRepo) ByDate(ctx context.Context, setupID int, forDate time.Time) ([]ReservationWithDetails, error) {
	args := m.Called(ctx, setupID, forDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ReservationWithDetails), args.Error(1)
}

func (m *MockReservationRepo) FromDate(ctx context.Context, setupID int, forDate time.Time) ([]ReservationWithDetails, error) {
	args := m.Called(ctx, setupID, forDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ReservationWithDetails), args.Error(1)
}

func (m *MockReservationRepo) UpToDate(ctx context.Context, setupID int, forDate time.Time) ([]ReservationWithDetails, error) {
	args := m.Called(ctx, setupID, forDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ReservationWithDetails), args.Error(1)
}

func (m *MockReservationRepo) CountForDate(ctx context.Context, forDate time.Time) (int, error) {
	args := m.Called(ctx, forDate)
	return args.Int(0), args.Error(1)
}

func (m *MockReservationRepo) CountForRange(ctx context.Context, from, to time.Time) (int, error) {
	args := m.Called(ctx, from, to)
	return args.Int(0), args.Error(1)
}

func (m *MockVacancyRepo) GetByID(ctx context.Context, id int) (*clubs.Vacancy, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clubs.Vacancy), args.Error(1)
}

func (m *MockVacancyRepo) Get(ctx context.Context, courtID, dayOfWeek, hour int) (*clubs.Vacancy, error) {
	args := m.Called(ctx, courtID, dayOfWeek, hour)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clubs.Vacancy), args.Error(1)
}

func (m *MockVacancyRepo) GetAll(ctx context.Context, courtIDs, days, hours []int) ([]clubs.Vacancy, error) {
	args := m.Called(ctx, courtIDs, days, hours)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]clubs.Vacancy), args.Error(1)
}

func (m *MockVacancyRepo) GetFree(ctx context.Context, setupID int, forDate time.Time, hour int) ([]clubs.VacancyWithCourt, error) {
	args := m.Called(ctx, setupID, forDate, hour)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]clubs.VacancyWithCourt), args.Error(1)
}

func (m *MockVacancyRepo) BulkUpdatePrice(ctx context.Context, ids []int, price *float64) error {
	return m.Called(ctx, ids, price).Error(0)
}

func (m *MockCourtRepo) Create(ctx context.Context, setupID, number int, attrs clubs.CourtAttrs) (*clubs.Court, error) {
	args := m.Called(ctx, setupID, number, attrs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clubs.Court), args.Error(1)
}

func (m *MockCourtRepo) GetByID(ctx context.Context, id int) (*clubs.Court, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clubs.Court), args.Error(1)
}

func (m *MockCourtRepo) GetBySetup(ctx context.Context, setupID int) ([]clubs.Court, error) {
	args := m.Called(ctx, setupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]clubs.Court), args.Error(1)
}

func (m *MockCourtRepo) GetAvailable(ctx context.Context, setupID int) ([]clubs.Court, error) {
	args := m.Called(ctx, setupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]clubs.Court), args.Error(1)
}

func (m *MockCourtRepo) Count(ctx context.Context, setupID int) (int, error) {
	args := m.Called(ctx, setupID)
	return args.Int(0), args.Error(1)
}

func (m *MockCourtRepo) MaxNumber(ctx context.Context, setupID int) (int, error) {
	args := m.Called(ctx, setupID)
	return args.Int(0), args.Error(1)
}

func (m *MockCourtRepo) SetAvailable(ctx context.Context, id int, available bool) error {
	return m.Called(ctx, id, available).Error(0)
}

func (m *MockCourtRepo) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCourtRepo) DeleteReservations(ctx context.Context, courtID int) (int, error) {
	args := m.Called(ctx, courtID)
	return args.Int(0), args.Error(1)
}

func (m *MockCourtRepo) CopyPrices(ctx context.Context, fromCourtID, toCourtID int) error {
	return m.Called(ctx, fromCourtID, toCourtID).Error(0)
}

func (m *MockSetupRepo) Create(ctx context.Context, clubID int, name string, isActive bool) (*clubs.CourtSetup, error) {
	args := m.Called(ctx, clubID, name, isActive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clubs.CourtSetup), args.Error(1)
}

func (m *MockSetupRepo) GetByID(ctx context.Context, id int) (*clubs.CourtSetup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clubs.CourtSetup), args.Error(1)
}

func (m *MockSetupRepo) GetActive(ctx context.Context, clubID int) (*clubs.CourtSetup, error) {
	args := m.Called(ctx, clubID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clubs.CourtSetup), args.Error(1)
}

func (m *MockSetupRepo) GetByClub(ctx context.Context, clubID int) ([]clubs.CourtSetup, error) {
	args := m.Called(ctx, clubID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]clubs.CourtSetup), args.Error(1)
}

func (m *MockSetupRepo) Count(ctx context.Context, clubID int) (int, error) {
	args := m.Called(ctx, clubID)
	return args.Int(0), args.Error(1)
}

func (m *MockSetupRepo) CountReservations(ctx context.Context, setupID int) (int, error) {
	args := m.Called(ctx, setupID)
	return args.Int(0), args.Error(1)
}

func (m *MockSetupRepo) Rename(ctx context.Context, id int, name string) error {
	return m.Called(ctx, id, name).Error(0)
}

func (m *MockSetupRepo) Activate(ctx context.Context, clubID, setupID int) error {
	return m.Called(ctx, clubID, setupID).Error(0)
}

func (m *MockSetupRepo) DeleteCascade(ctx context.Context, setupID int, force bool) error {
	return m.Called(ctx, setupID, force).Error(0)
}

func (m *MockProfileRepo) GetByUserID(ctx context.Context, userID int) (*profile.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.Profile), args.Error(1)
}

func (m *MockProfileRepo) GetByUsername(ctx context.Context, username string) (*profile.Profile, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.Profile), args.Error(1)
}

type serviceMocks struct {
	res     *MockReservationRepo
	vacancy *MockVacancyRepo
	court   *MockCourtRepo
	setup   *MockSetupRepo
	profile *MockProfileRepo
}

func newTestService() (Service, *serviceMocks) {
	m := &serviceMocks{
		res:     new(MockReservationRepo),
		vacancy: new(MockVacancyRepo),
		court:   new(MockCourtRepo),
		setup:   new(MockSetupRepo),
		profile: new(MockProfileRepo),
	}
	svc := NewService(m.res, m.vacancy, m.court, m.setup, m.profile, nil)
	return svc, m
}

func intPtr(v int) *int { return &v }

func playerProfile() *profile.Profile {
	return &profile.Profile{UserID: 5, Username: "ana", FirstName: "Ana", LastName: "Kovac", Role: "player"}
}

func availableCourt() *clubs.Court {
	return &clubs.Court{ID: 10, CourtSetupID: 1, Number: 1, Surface: clubs.SurfaceClay, IsAvailable: true}
}

func mondayMorning() *clubs.Vacancy {
	return &clubs.Vacancy{ID: 100, CourtID: 10, DayOfWeek: 1, AvailableFrom: 9, AvailableTo: 10}
}

func TestService_Book(t *testing.T) {
	forDate := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	t.Run("successful booking by a player", func(t *testing.T) {
		svc, m := newTestService()
		m.vacancy.On("GetByID", mock.Anything, 100).Return(mondayMorning(), nil)
		m.court.On("GetByID", mock.Anything, 10).Return(availableCourt(), nil)
		m.res.On("ExistsForDateVacancy", mock.Anything, forDate, 100).Return(false, nil)
		m.profile.On("GetByUserID", mock.Anything, 5).Return(playerProfile(), nil)
		m.res.On("Create", mock.Anything, mock.MatchedBy(func(r *Reservation) bool {
			return r.Type == TypePlayer && r.VacancyID == 100 && r.ForDate.Equal(forDate)
		})).Return(&Reservation{ID: 1, ForDate: forDate, Type: TypePlayer, UserID: 5, VacancyID: 100}, nil)

		res, err := svc.Book(context.Background(), BookRequest{ForDate: forDate, VacancyID: 100, UserID: 5, Description: "practice"}, true)
		assert.NoError(t, err)
		assert.NotNil(t, res)
		assert.Equal(t, TypePlayer, res.Type)
		m.res.AssertExpectations(t)
	})

	t.Run("blank description defaults to the player's name", func(t *testing.T) {
		svc, m := newTestService()
		m.vacancy.On("GetByID", mock.Anything, 100).Return(mondayMorning(), nil)
		m.court.On("GetByID", mock.Anything, 10).Return(availableCourt(), nil)
		m.res.On("ExistsForDateVacancy", mock.Anything, forDate, 100).Return(false, nil)
		m.profile.On("GetByUserID", mock.Anything, 5).Return(playerProfile(), nil)

		res, err := svc.Book(context.Background(), BookRequest{ForDate: forDate, VacancyID: 100, UserID: 5, Description: "  "}, false)
		assert.NoError(t, err)
		assert.NotNil(t, res)
		assert.Equal(t, "Kovac, Ana", res.Description)
	})

	t.Run("club bookings carry the club type", func(t *testing.T) {
		svc, m := newTestService()
		m.vacancy.On("GetByID", mock.Anything, 100).Return(mondayMorning(), nil)
		m.court.On("GetByID", mock.Anything, 10).Return(availableCourt(), nil)
		m.res.On("ExistsForDateVacancy", mock.Anything, forDate, 100).Return(false, nil)
		m.profile.On("GetByUserID", mock.Anything, 7).Return(&profile.Profile{
			UserID: 7, Username: "tk-novo", FirstName: "TK", LastName: "Novo", Role: "club", ClubID: intPtr(3),
		}, nil)

		res, err := svc.Book(context.Background(), BookRequest{ForDate: forDate, VacancyID: 100, UserID: 7}, false)
		assert.NoError(t, err)
		assert.NotNil(t, res)
		assert.Equal(t, TypeClub, res.Type)
		assert.Equal(t, "TK Novo", res.Description)
	})

	t.Run("taken slot yields no reservation and no error", func(t *testing.T) {
		svc, m := newTestService()
		m.vacancy.On("GetByID", mock.Anything, 100).Return(mondayMorning(), nil)
		m.court.On("GetByID", mock.Anything, 10).Return(availableCourt(), nil)
		m.res.On("ExistsForDateVacancy", mock.Anything, forDate, 100).Return(true, nil)

		res, err := svc.Book(context.Background(), BookRequest{ForDate: forDate, VacancyID: 100, UserID: 5}, true)
		assert.NoError(t, err)
		assert.Nil(t, res)
		m.res.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unavailable court yields no reservation", func(t *testing.T) {
		svc, m := newTestService()
		closed := availableCourt()
		closed.IsAvailable = false
		m.vacancy.On("GetByID", mock.Anything, 100).Return(mondayMorning(), nil)
		m.court.On("GetByID", mock.Anything, 10).Return(closed, nil)

		res, err := svc.Book(context.Background(), BookRequest{ForDate: forDate, VacancyID: 100, UserID: 5}, true)
		assert.NoError(t, err)
		assert.Nil(t, res)
	})

	t.Run("losing the insert race reads as a taken slot", func(t *testing.T) {
		svc, m := newTestService()
		m.vacancy.On("GetByID", mock.Anything, 100).Return(mondayMorning(), nil)
		m.court.On("GetByID", mock.Anything, 10).Return(availableCourt(), nil)
		m.res.On("ExistsForDateVacancy", mock.Anything, forDate, 100).Return(false, nil)
		m.profile.On("GetByUserID", mock.Anything, 5).Return(playerProfile(), nil)
		m.res.On("Create", mock.Anything, mock.Anything).Return(nil, ErrSlotTaken)

		res, err := svc.Book(context.Background(), BookRequest{ForDate: forDate, VacancyID: 100, UserID: 5}, true)
		assert.NoError(t, err)
		assert.Nil(t, res)
	})

	t.Run("dry run never touches storage", func(t *testing.T) {
		svc, m := newTestService()
		m.vacancy.On("GetByID", mock.Anything, 100).Return(mondayMorning(), nil)
		m.court.On("GetByID", mock.Anything, 10).Return(availableCourt(), nil)
		m.res.On("ExistsForDateVacancy", mock.Anything, forDate, 100).Return(false, nil)
		m.profile.On("GetByUserID", mock.Anything, 5).Return(playerProfile(), nil)

		res, err := svc.Book(context.Background(), BookRequest{ForDate: forDate, VacancyID: 100, UserID: 5}, false)
		assert.NoError(t, err)
		assert.NotNil(t, res)
		assert.Zero(t, res.ID)
		m.res.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestService_BookWeekly(t *testing.T) {
	from := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	until := from.AddDate(0, 0, 21)

	t.Run("books every seventh day under one series", func(t *testing.T) {
		svc, m := newTestService()
		m.res.On("NextRepeatSeries", mock.Anything).Return(4, nil)
		m.vacancy.On("GetByID", mock.Anything, 100).Return(mondayMorning(), nil)
		m.court.On("GetByID", mock.Anything, 10).Return(availableCourt(), nil)
		m.res.On("ExistsForDateVacancy", mock.Anything, mock.Anything, 100).Return(false, nil)
		m.profile.On("GetByUserID", mock.Anything, 5).Return(playerProfile(), nil)
		m.res.On("Create", mock.Anything, mock.MatchedBy(func(r *Reservation) bool {
			return r.RepeatSeries != nil && *r.RepeatSeries == 4
		})).Return(&Reservation{ID: 1, RepeatSeries: intPtr(4)}, nil)

		booked, err := svc.BookWeekly(context.Background(), from, until, BookRequest{VacancyID: 100, UserID: 5}, true)
		assert.NoError(t, err)
		assert.Len(t, booked, 4)
		m.res.AssertNumberOfCalls(t, "Create", 4)
	})

	t.Run("taken dates are skipped without failing the rest", func(t *testing.T) {
		svc, m := newTestService()
		m.res.On("NextRepeatSeries", mock.Anything).Return(4, nil)
		m.vacancy.On("GetByID", mock.Anything, 100).Return(mondayMorning(), nil)
		m.court.On("GetByID", mock.Anything, 10).Return(availableCourt(), nil)
		m.res.On("ExistsForDateVacancy", mock.Anything, from.AddDate(0, 0, 7), 100).Return(true, nil)
		m.res.On("ExistsForDateVacancy", mock.Anything, mock.Anything, 100).Return(false, nil)
		m.profile.On("GetByUserID", mock.Anything, 5).Return(playerProfile(), nil)
		m.res.On("Create", mock.Anything, mock.Anything).Return(&Reservation{ID: 1}, nil)

		booked, err := svc.BookWeekly(context.Background(), from, until, BookRequest{VacancyID: 100, UserID: 5}, true)
		assert.NoError(t, err)
		assert.Len(t, booked, 3)
	})

	t.Run("inverted range books nothing", func(t *testing.T) {
		svc, m := newTestService()

		booked, err := svc.BookWeekly(context.Background(), until, from, BookRequest{VacancyID: 100, UserID: 5}, true)
		assert.NoError(t, err)
		assert.Empty(t, booked)
		m.res.AssertNotCalled(t, "NextRepeatSeries", mock.Anything)
	})
}

func TestService_WeeklyReservationCount(t *testing.T) {
	svc, _ := newTestService()
	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		days int
		want int
	}{
		{"one day apart", 1, 1},
		{"six days apart", 6, 1},
		{"exactly one week", 7, 2},
		{"eight days", 8, 2},
		{"three weeks", 21, 4},
		{"same day", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.WeeklyReservationCount(base, base.AddDate(0, 0, tt.days))
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("agrees with the dates BookWeekly generates", func(t *testing.T) {
		for days := 1; days <= 30; days++ {
			until := base.AddDate(0, 0, days)
			generated := 0
			for d := base; !d.After(until); d = d.AddDate(0, 0, 7) {
				generated++
			}
			assert.Equal(t, generated, svc.WeeklyReservationCount(base, until), "days=%d", days)
		}
	})
}

func TestService_Delete(t *testing.T) {
	t.Run("single reservation deleted by its owner", func(t *testing.T) {
		svc, m := newTestService()
		m.res.On("GetByID", mock.Anything, 1).Return(&ReservationWithDetails{
			Reservation: Reservation{ID: 1, UserID: 5}, CourtSetupID: 1,
		}, nil)
		m.profile.On("GetByUserID", mock.Anything, 5).Return(playerProfile(), nil)
		m.res.On("DeleteByID", mock.Anything, 1).Return(nil)

		err := svc.Delete(context.Background(), 5, 1)
		assert.NoError(t, err)
		m.res.AssertNotCalled(t, "DeleteBySeries", mock.Anything, mock.Anything)
	})

	t.Run("series member takes the whole series", func(t *testing.T) {
		svc, m := newTestService()
		m.res.On("GetByID", mock.Anything, 1).Return(&ReservationWithDetails{
			Reservation: Reservation{ID: 1, UserID: 5, RepeatSeries: intPtr(4)}, CourtSetupID: 1,
		}, nil)
		m.profile.On("GetByUserID", mock.Anything, 5).Return(playerProfile(), nil)
		m.res.On("DeleteBySeries", mock.Anything, 4).Return(3, nil)

		err := svc.Delete(context.Background(), 5, 1)
		assert.NoError(t, err)
		m.res.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
	})

	t.Run("club may delete bookings in its own setups", func(t *testing.T) {
		svc, m := newTestService()
		m.res.On("GetByID", mock.Anything, 1).Return(&ReservationWithDetails{
			Reservation: Reservation{ID: 1, UserID: 5}, CourtSetupID: 1,
		}, nil)
		m.profile.On("GetByUserID", mock.Anything, 7).Return(&profile.Profile{
			UserID: 7, Role: "club", ClubID: intPtr(3),
		}, nil)
		m.setup.On("GetByID", mock.Anything, 1).Return(&clubs.CourtSetup{ID: 1, ClubID: 3}, nil)
		m.res.On("DeleteByID", mock.Anything, 1).Return(nil)

		err := svc.Delete(context.Background(), 7, 1)
		assert.NoError(t, err)
	})

	t.Run("someone else's booking reads as not found", func(t *testing.T) {
		svc, m := newTestService()
		m.res.On("GetByID", mock.Anything, 1).Return(&ReservationWithDetails{
			Reservation: Reservation{ID: 1, UserID: 5}, CourtSetupID: 1,
		}, nil)
		m.profile.On("GetByUserID", mock.Anything, 9).Return(&profile.Profile{
			UserID: 9, Role: "player",
		}, nil)

		err := svc.Delete(context.Background(), 9, 1)
		assert.ErrorIs(t, err, ErrReservationNotFound)
		m.res.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
	})
}

func TestService_CopyToCourtSetup(t *testing.T) {
	forDate := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	source := func(id, courtNumber int, series *int) ReservationWithDetails {
		return ReservationWithDetails{
			Reservation: Reservation{
				ID: id, CreatedOn: forDate.AddDate(0, -1, 0), ForDate: forDate,
				Type: TypePlayer, Description: "Kovac, Ana", UserID: 5, VacancyID: 100,
				RepeatSeries: series,
			},
			AvailableFrom: 9, CourtNumber: courtNumber, CourtSetupID: 1,
		}
	}

	freeSlot := func(vacancyID, courtNumber int) clubs.VacancyWithCourt {
		return clubs.VacancyWithCourt{
			Vacancy:     clubs.Vacancy{ID: vacancyID, DayOfWeek: 1, AvailableFrom: 9, AvailableTo: 10},
			CourtNumber: courtNumber, CourtSetupID: 2,
		}
	}

	t.Run("prefers the court with the matching number", func(t *testing.T) {
		svc, m := newTestService()
		m.setup.On("GetByID", mock.Anything, 2).Return(&clubs.CourtSetup{ID: 2, ClubID: 3}, nil)
		m.res.On("NextRepeatSeries", mock.Anything).Return(10, nil)
		m.vacancy.On("GetFree", mock.Anything, 2, forDate, 9).Return([]clubs.VacancyWithCourt{
			freeSlot(200, 1), freeSlot(201, 2),
		}, nil)
		m.res.On("Create", mock.Anything, mock.MatchedBy(func(r *Reservation) bool {
			return r.VacancyID == 201
		})).Return(&Reservation{ID: 50, VacancyID: 201}, nil)

		copied, err := svc.CopyToCourtSetup(context.Background(), 2, []ReservationWithDetails{source(1, 2, nil)}, true)
		assert.NoError(t, err)
		assert.Len(t, copied, 1)
		m.res.AssertExpectations(t)
	})

	t.Run("falls back to any free court", func(t *testing.T) {
		svc, m := newTestService()
		m.setup.On("GetByID", mock.Anything, 2).Return(&clubs.CourtSetup{ID: 2, ClubID: 3}, nil)
		m.res.On("NextRepeatSeries", mock.Anything).Return(10, nil)
		m.vacancy.On("GetFree", mock.Anything, 2, forDate, 9).Return([]clubs.VacancyWithCourt{
			freeSlot(200, 1),
		}, nil)
		m.res.On("Create", mock.Anything, mock.MatchedBy(func(r *Reservation) bool {
			return r.VacancyID == 200
		})).Return(&Reservation{ID: 50, VacancyID: 200}, nil)

		copied, err := svc.CopyToCourtSetup(context.Background(), 2, []ReservationWithDetails{source(1, 4, nil)}, true)
		assert.NoError(t, err)
		assert.Len(t, copied, 1)
	})

	t.Run("drops reservations with no free slot", func(t *testing.T) {
		svc, m := newTestService()
		m.setup.On("GetByID", mock.Anything, 2).Return(&clubs.CourtSetup{ID: 2, ClubID: 3}, nil)
		m.res.On("NextRepeatSeries", mock.Anything).Return(10, nil)
		m.vacancy.On("GetFree", mock.Anything, 2, forDate, 9).Return([]clubs.VacancyWithCourt{}, nil)

		copied, err := svc.CopyToCourtSetup(context.Background(), 2, []ReservationWithDetails{source(1, 1, nil)}, true)
		assert.NoError(t, err)
		assert.Empty(t, copied)
		m.res.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("series get fresh ids, one per source series", func(t *testing.T) {
		svc, m := newTestService()
		m.setup.On("GetByID", mock.Anything, 2).Return(&clubs.CourtSetup{ID: 2, ClubID: 3}, nil)
		m.res.On("NextRepeatSeries", mock.Anything).Return(10, nil)
		m.vacancy.On("GetFree", mock.Anything, 2, mock.Anything, 9).Return([]clubs.VacancyWithCourt{
			freeSlot(200, 1),
		}, nil)

		list := []ReservationWithDetails{
			source(1, 1, intPtr(4)),
			source(2, 1, intPtr(4)),
			source(3, 1, intPtr(5)),
		}
		list[1].ForDate = forDate.AddDate(0, 0, 7)
		list[2].ForDate = forDate.AddDate(0, 0, 14)

		copied, err := svc.CopyToCourtSetup(context.Background(), 2, list, false)
		assert.NoError(t, err)
		assert.Len(t, copied, 3)
		assert.Equal(t, 10, *copied[0].RepeatSeries)
		assert.Equal(t, 10, *copied[1].RepeatSeries)
		assert.Equal(t, 11, *copied[2].RepeatSeries)
	})

	t.Run("mixed source setups are rejected outright", func(t *testing.T) {
		svc, _ := newTestService()
		other := source(2, 1, nil)
		other.CourtSetupID = 9

		_, err := svc.CopyToCourtSetup(context.Background(), 2, []ReservationWithDetails{source(1, 1, nil), other}, true)
		assert.ErrorIs(t, err, ErrMixedCourtSetups)
	})

	t.Run("copying into the source setup is rejected", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.CopyToCourtSetup(context.Background(), 1, []ReservationWithDetails{source(1, 1, nil)}, true)
		assert.ErrorIs(t, err, ErrSameCourtSetup)
	})

	t.Run("creation details survive the copy", func(t *testing.T) {
		svc, m := newTestService()
		m.setup.On("GetByID", mock.Anything, 2).Return(&clubs.CourtSetup{ID: 2, ClubID: 3}, nil)
		m.res.On("NextRepeatSeries", mock.Anything).Return(10, nil)
		m.vacancy.On("GetFree", mock.Anything, 2, forDate, 9).Return([]clubs.VacancyWithCourt{
			freeSlot(200, 1),
		}, nil)

		src := source(1, 1, nil)
		copied, err := svc.CopyToCourtSetup(context.Background(), 2, []ReservationWithDetails{src}, false)
		assert.NoError(t, err)
		assert.Len(t, copied, 1)
		assert.Equal(t, src.CreatedOn, copied[0].CreatedOn)
		assert.Equal(t, src.Description, copied[0].Description)
		assert.Equal(t, src.UserID, copied[0].UserID)
		assert.Equal(t, src.Type, copied[0].Type)
	})
}
