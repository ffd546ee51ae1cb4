package clubs

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lichinka/ht/internal/api"
	"github.com/lichinka/ht/internal/auth"
	"github.com/lichinka/ht/internal/logger"
	"github.com/lichinka/ht/internal/profile"
)

type Handler struct {
	setups    CourtSetupService
	courts    CourtService
	vacancies VacancyService
	profiles  profile.Repository
}

func NewHandler(setups CourtSetupService, courts CourtService, vacancies VacancyService, profiles profile.Repository) *Handler {
	return &Handler{
		setups:    setups,
		courts:    courts,
		vacancies: vacancies,
		profiles:  profiles,
	}
}

// clubID resolves the authenticated user's club. A player token or a club
// user without a club row gets a 404, written before returning false.
func (h *Handler) clubID(c *gin.Context) (int, bool) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return 0, false
	}

	prof, err := h.profiles.GetByUserID(c.Request.Context(), userID)
	if err != nil || prof.ClubID == nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "not found"})
		return 0, false
	}
	return *prof.ClubID, true
}

func queryInts(c *gin.Context, name string) ([]int, bool) {
	raw := c.QueryArray(name)
	if len(raw) == 0 {
		return nil, true
	}

	out := make([]int, 0, len(raw))
	for _, v := range raw {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid " + name})
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}

func parseDateQuery(c *gin.Context, name string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", c.Query(name))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s, want YYYY-MM-DD", name)
	}
	return d, nil
}

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid " + name})
		return 0, false
	}
	return id, true
}

func (h *Handler) CreateCourtSetup(c *gin.Context) {
	clubID, ok := h.clubID(c)
	if !ok {
		return
	}

	var req CreateCourtSetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	setup, err := h.setups.Create(c.Request.Context(), clubID, req.Name)
	if err != nil {
		logger.Error("create court setup failed", "club_id", clubID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to create court setup"})
		return
	}

	c.JSON(http.StatusCreated, setup)
}

func (h *Handler) ListCourtSetups(c *gin.Context) {
	clubID, ok := h.clubID(c)
	if !ok {
		return
	}

	setups, err := h.setups.GetByClub(c.Request.Context(), clubID)
	if err != nil {
		logger.Error("list court setups failed", "club_id", clubID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to list court setups"})
		return
	}

	c.JSON(http.StatusOK, setups)
}

func (h *Handler) GetActiveCourtSetup(c *gin.Context) {
	clubID, ok := h.clubID(c)
	if !ok {
		return
	}

	setup, err := h.setups.GetActive(c.Request.Context(), clubID)
	if err != nil {
		if errors.Is(err, ErrNoActiveCourtSetup) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "no active court setup"})
			return
		}
		logger.Error("get active court setup failed", "club_id", clubID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to get active court setup"})
		return
	}

	c.JSON(http.StatusOK, setup)
}

func (h *Handler) GetCourtSetup(c *gin.Context) {
	clubID, ok := h.clubID(c)
	if !ok {
		return
	}
	setupID, ok := pathID(c, "id")
	if !ok {
		return
	}

	setup, err := h.setups.GetByID(c.Request.Context(), clubID, setupID)
	if err != nil {
		if errors.Is(err, ErrCourtSetupNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "court setup not found"})
			return
		}
		logger.Error("get court setup failed", "setup_id", setupID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to get court setup"})
		return
	}

	c.JSON(http.StatusOK, setup)
}

func (h *Handler) RenameCourtSetup(c *gin.Context) {
	clubID, ok := h.clubID(c)
	if !ok {
		return
	}
	setupID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req CreateCourtSetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.setups.Rename(c.Request.Context(), clubID, setupID, req.Name); err != nil {
		if errors.Is(err, ErrCourtSetupNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "court setup not found"})
			return
		}
		logger.Error("rename court setup failed", "setup_id", setupID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to rename court setup"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "court setup renamed"})
}

func (h *Handler) ActivateCourtSetup(c *gin.Context) {
	clubID, ok := h.clubID(c)
	if !ok {
		return
	}
	setupID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.setups.Activate(c.Request.Context(), clubID, setupID); err != nil {
		if errors.Is(err, ErrCourtSetupNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "court setup not found"})
			return
		}
		logger.Error("activate court setup failed", "setup_id", setupID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to activate court setup"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "court setup activated"})
}

func (h *Handler) CloneCourtSetup(c *gin.Context) {
	clubID, ok := h.clubID(c)
	if !ok {
		return
	}
	setupID, ok := pathID(c, "id")
	if !ok {
		return
	}

	clone, err := h.setups.Clone(c.Request.Context(), clubID, setupID)
	if err != nil {
		if errors.Is(err, ErrCourtSetupNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "court setup not found"})
			return
		}
		logger.Error("clone court setup failed", "setup_id", setupID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to clone court setup"})
		return
	}

	c.JSON(http.StatusCreated, clone)
}

func (h *Handler) DeleteCourtSetup(c *gin.Context) {
	clubID, ok := h.clubID(c)
	if !ok {
		return
	}
	setupID, ok := pathID(c, "id")
	if !ok {
		return
	}
	force := c.Query("force") == "true"

	err := h.setups.Delete(c.Request.Context(), clubID, setupID, force)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, api.MessageResponse{Message: "court setup deleted"})
	case errors.Is(err, ErrCourtSetupNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "court setup not found"})
	case errors.Is(err, ErrLastCourtSetup):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "cannot delete the last court setup"})
	case errors.Is(err, ErrSetupHasReservations):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "court setup has reservations; retry with force=true"})
	default:
		logger.Error("delete court setup failed", "setup_id", setupID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to delete court setup"})
	}
}

func (h *Handler) CreateCourt(c *gin.Context) {
	clubID, ok := h.clubID(c)
	if !ok {
		return
	}
	setupID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req CreateCourtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	court, err := h.courts.Create(c.Request.Context(), clubID, setupID, req)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, court)
	case errors.Is(err, ErrCourtSetupNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "court setup not found"})
	case errors.Is(err, ErrCourtNumberTaken):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "court number already taken"})
	default:
		logger.Error("create court failed", "setup_id", setupID, "error", err)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	}
}

func (h *Handler) ListCourts(c *gin.Context) {
	clubID, ok := h.clubID(c)
	if !ok {
		return
	}
	setupID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if _, err := h.setups.GetByID(c.Request.Context(), clubID, setupID); err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "court setup not found"})
		return
	}

	var (
		courts []Court
		err    error
	)
	if c.Query("available") == "true" {
		courts, err = h.courts.GetAvailable(c.Request.Context(), setupID)
	} else {
		courts, err = h.courts.GetBySetup(c.Request.Context(), setupID)
	}
	if err != nil {
		logger.Error("list courts failed", "setup_id", setupID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to list courts"})
		return
	}

	c.JSON(http.StatusOK, courts)
}

func (h *Handler) CloneCourt(c *gin.Context) {
	clubID, ok := h.clubID(c)
	if !ok {
		return
	}
	courtID, ok := pathID(c, "id")
	if !ok {
		return
	}

	clone, err := h.courts.Clone(c.Request.Context(), clubID, courtID)
	if err != nil {
		if errors.Is(err, ErrCourtNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "court not found"})
			return
		}
		logger.Error("clone court failed", "court_id", courtID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to clone court"})
		return
	}

	c.JSON(http.StatusCreated, clone)
}

func (h *Handler) ToggleCourtAvailable(c *gin.Context) {
	clubID, ok := h.clubID(c)
	if !ok {
		return
	}
	courtID, ok := pathID(c, "id")
	if !ok {
		return
	}

	court, err := h.courts.ToggleAvailable(c.Request.Context(), clubID, courtID)
	if err != nil {
		if errors.Is(err, ErrCourtNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "court not found"})
			return
		}
		logger.Error("toggle court failed", "court_id", courtID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to toggle court"})
		return
	}

	c.JSON(http.StatusOK, court)
}

func (h *Handler) DeleteCourt(c *gin.Context) {
	clubID, ok := h.clubID(c)
	if !ok {
		return
	}
	courtID, ok := pathID(c, "id")
	if !ok {
		return
	}

	err := h.courts.Delete(c.Request.Context(), clubID, courtID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, api.MessageResponse{Message: "court deleted"})
	case errors.Is(err, ErrCourtNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "court not found"})
	case errors.Is(err, ErrLastCourt):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "cannot delete the last court"})
	case errors.Is(err, ErrCourtHasReservations):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "court has reservations; delete them first"})
	default:
		logger.Error("delete court failed", "court_id", courtID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to delete court"})
	}
}

func (h *Handler) DeleteCourtReservations(c *gin.Context) {
	clubID, ok := h.clubID(c)
	if !ok {
		return
	}
	courtID, ok := pathID(c, "id")
	if !ok {
		return
	}

	count, err := h.courts.DeleteReservations(c.Request.Context(), clubID, courtID)
	if err != nil {
		if errors.Is(err, ErrCourtNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "court not found"})
			return
		}
		logger.Error("delete court reservations failed", "court_id", courtID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to delete reservations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": count})
}

// GetVacancyGrid returns the setup's weekly template, optionally narrowed
// by repeated court_id, day and hour query parameters.
func (h *Handler) GetVacancyGrid(c *gin.Context) {
	clubID, ok := h.clubID(c)
	if !ok {
		return
	}
	setupID, ok := pathID(c, "id")
	if !ok {
		return
	}

	courtIDs, ok := queryInts(c, "court_id")
	if !ok {
		return
	}
	days, ok := queryInts(c, "day")
	if !ok {
		return
	}
	hours, ok := queryInts(c, "hour")
	if !ok {
		return
	}

	grid, err := h.vacancies.GetGrid(c.Request.Context(), clubID, setupID, courtIDs, days, hours)
	if err != nil {
		if errors.Is(err, ErrCourtSetupNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "court setup not found"})
			return
		}
		logger.Error("get vacancy grid failed", "setup_id", setupID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to get vacancies"})
		return
	}

	c.JSON(http.StatusOK, grid)
}

// GetFreeVacancies lists bookable slots of the caller's active setup for a
// date and hour. Open to players and clubs alike.
func (h *Handler) GetFreeVacancies(c *gin.Context) {
	clubID, ok := pathID(c, "club_id")
	if !ok {
		return
	}

	forDate, err := parseDateQuery(c, "date")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	hour, err := strconv.Atoi(c.Query("hour"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid hour"})
		return
	}

	setup, err := h.setups.GetActive(c.Request.Context(), clubID)
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "no active court setup"})
		return
	}

	free, err := h.vacancies.GetFree(c.Request.Context(), setup.ID, forDate, hour)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, free)
}

func (h *Handler) UpdatePrices(c *gin.Context) {
	clubID, ok := h.clubID(c)
	if !ok {
		return
	}
	courtID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdatePricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.vacancies.UpdatePrices(c.Request.Context(), clubID, courtID, req.Prices); err != nil {
		if errors.Is(err, ErrCourtNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "court not found"})
			return
		}
		logger.Error("update prices failed", "court_id", courtID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to update prices"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "prices updated"})
}
