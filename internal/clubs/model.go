package clubs

// Court surfaces, stored as two-letter codes.
const (
	SurfaceClay   = "CL"
	SurfaceCement = "CE"
	SurfaceGrass  = "GR"
	SurfaceRubber = "RU"
	SurfaceCarpet = "CA"
)

// The vacancy grid spans ISO weekdays 1 (Monday) through 7 (Sunday) and
// hourly slots starting at 7:00 up to and including 23:00. The 24:00 mark
// only ever closes the last slot, it never opens one.
const (
	FirstDay  = 1
	LastDay   = 7
	FirstHour = 7
	LastHour  = 23

	HoursPerDay = LastHour - FirstHour + 1
	GridSize    = (LastDay - FirstDay + 1) * HoursPerDay
)

type CourtSetup struct {
	ID       int    `db:"id" json:"id"`
	ClubID   int    `db:"club_id" json:"club_id"`
	Name     string `db:"name" json:"name"`
	IsActive bool   `db:"is_active" json:"is_active"`
}

type Court struct {
	ID           int    `db:"id" json:"id"`
	CourtSetupID int    `db:"court_setup_id" json:"court_setup_id"`
	Number       int    `db:"number" json:"number"`
	Indoor       bool   `db:"indoor" json:"indoor"`
	Light        bool   `db:"light" json:"light"`
	Surface      string `db:"surface" json:"surface"`
	SingleOnly   bool   `db:"single_only" json:"single_only"`
	IsAvailable  bool   `db:"is_available" json:"is_available"`
}

// CourtAttrs are the physical properties of a court, everything except its
// identity within a setup.
type CourtAttrs struct {
	Indoor      bool   `json:"indoor"`
	Light       bool   `json:"light"`
	Surface     string `json:"surface"`
	SingleOnly  bool   `json:"single_only"`
	IsAvailable bool   `json:"is_available"`
}

// DefaultCourtAttrs matches the properties of the auto-created first court.
func DefaultCourtAttrs() CourtAttrs {
	return CourtAttrs{
		Indoor:      false,
		Light:       true,
		Surface:     SurfaceClay,
		SingleOnly:  false,
		IsAvailable: true,
	}
}

func (a CourtAttrs) validSurface() bool {
	switch a.Surface {
	case SurfaceClay, SurfaceCement, SurfaceGrass, SurfaceRubber, SurfaceCarpet:
		return true
	}
	return false
}

// Vacancy is a recurring weekly template slot on one court. Price is nil
// until the club sets it.
type Vacancy struct {
	ID            int      `db:"id" json:"id"`
	CourtID       int      `db:"court_id" json:"court_id"`
	DayOfWeek     int      `db:"day_of_week" json:"day_of_week"`
	AvailableFrom int      `db:"available_from" json:"available_from"`
	AvailableTo   int      `db:"available_to" json:"available_to"`
	Price         *float64 `db:"price" json:"price,omitempty"`
}

// VacancyWithCourt augments a vacancy with the court it belongs to, as
// needed when picking a free slot.
type VacancyWithCourt struct {
	Vacancy
	CourtNumber  int `db:"court_number" json:"court_number"`
	CourtSetupID int `db:"court_setup_id" json:"court_setup_id"`
}

type CreateCourtSetupRequest struct {
	Name string `json:"name" binding:"required"`
}

type CreateCourtRequest struct {
	Indoor     bool   `json:"indoor"`
	Light      bool   `json:"light"`
	Surface    string `json:"surface"`
	SingleOnly bool   `json:"single_only"`
}

type UpdatePricesRequest struct {
	// Vacancy id -> raw price input. Unparsable values clear the price.
	Prices map[int]string `json:"prices" binding:"required"`
}
