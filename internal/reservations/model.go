package reservations

import "time"

// Reservation types, stored as one-letter codes.
const (
	TypePlayer = "P"
	TypeClub   = "C"
	TypeRepair = "R"
)

// Reservation books one vacancy template slot on one concrete calendar
// date. RepeatSeries groups weekly-repeating reservations; nil means a
// one-off booking.
type Reservation struct {
	ID           int       `db:"id" json:"id"`
	CreatedOn    time.Time `db:"created_on" json:"created_on"`
	ForDate      time.Time `db:"for_date" json:"for_date"`
	Type         string    `db:"type" json:"type"`
	Description  string    `db:"description" json:"description"`
	UserID       int       `db:"user_id" json:"user_id"`
	VacancyID    int       `db:"vacancy_id" json:"vacancy_id"`
	RepeatSeries *int      `db:"repeat_series" json:"repeat_series,omitempty"`
}

// ReservationWithDetails joins in the slot and court the reservation sits
// on; reads and the transfer engine need this context.
type ReservationWithDetails struct {
	Reservation
	DayOfWeek     int    `db:"day_of_week" json:"day_of_week"`
	AvailableFrom int    `db:"available_from" json:"available_from"`
	AvailableTo   int    `db:"available_to" json:"available_to"`
	CourtID       int    `db:"court_id" json:"court_id"`
	CourtNumber   int    `db:"court_number" json:"court_number"`
	CourtSetupID  int    `db:"court_setup_id" json:"court_setup_id"`
	UserName      string `db:"user_name" json:"user_name"`
}

type BookRequest struct {
	ForDate      time.Time
	VacancyID    int
	UserID       int
	Description  string
	RepeatSeries *int
}

type BookJSONRequest struct {
	ForDate     string `json:"for_date" binding:"required" validate:"required,datetime=2006-01-02"`
	VacancyID   int    `json:"vacancy_id" binding:"required" validate:"required,gt=0"`
	Description string `json:"description" validate:"max=128"`
}

type BookWeeklyJSONRequest struct {
	FromDate    string `json:"from_date" binding:"required" validate:"required,datetime=2006-01-02"`
	UntilDate   string `json:"until_date" binding:"required" validate:"required,datetime=2006-01-02"`
	VacancyID   int    `json:"vacancy_id" binding:"required" validate:"required,gt=0"`
	Description string `json:"description" validate:"max=128"`
}

type TransferRequest struct {
	// "transfer" moves reservations to TargetSetupID first, "delete" drops
	// them with the setup. Both remove the setup.
	Action        string `json:"action" binding:"required" validate:"required,oneof=transfer delete"`
	TargetSetupID int    `json:"target_setup_id"`
}
