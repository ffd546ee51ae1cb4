package reservations

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lichinka/ht/internal/api"
	"github.com/lichinka/ht/internal/auth"
	"github.com/lichinka/ht/internal/clubs"
	"github.com/lichinka/ht/internal/logger"
	"github.com/lichinka/ht/internal/profile"
)

type Handler struct {
	reservations Service
	transfers    TransferService
	setups       clubs.CourtSetupService
	profiles     profile.Repository
}

func NewHandler(reservations Service, transfers TransferService, setups clubs.CourtSetupService, profiles profile.Repository) *Handler {
	return &Handler{
		reservations: reservations,
		transfers:    transfers,
		setups:       setups,
		profiles:     profiles,
	}
}

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

// Book reserves one slot for one date. With ?dry_run=true the reservation
// is validated and returned without being stored.
func (h *Handler) Book(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	var req BookJSONRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	forDate, err := time.Parse("2006-01-02", req.ForDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid for_date, want YYYY-MM-DD"})
		return
	}
	commit := c.Query("dry_run") != "true"

	res, err := h.reservations.Book(c.Request.Context(), BookRequest{
		ForDate:     forDate,
		VacancyID:   req.VacancyID,
		UserID:      userID,
		Description: req.Description,
	}, commit)
	if err != nil {
		if errors.Is(err, clubs.ErrVacancyNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "vacancy not found"})
			return
		}
		logger.Error("booking failed", "user_id", userID, "vacancy_id", req.VacancyID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to book"})
		return
	}
	if res == nil {
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "slot is not available"})
		return
	}

	c.JSON(http.StatusCreated, res)
}

// BookWeekly books the slot every 7 days across the range. The response
// reports how many dates the range spans next to the bookings actually
// made, so partial success is visible to the caller.
func (h *Handler) BookWeekly(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	var req BookWeeklyJSONRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	fromDate, err := time.Parse("2006-01-02", req.FromDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid from_date, want YYYY-MM-DD"})
		return
	}
	untilDate, err := time.Parse("2006-01-02", req.UntilDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid until_date, want YYYY-MM-DD"})
		return
	}
	if !untilDate.After(fromDate) {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "until_date must be after from_date"})
		return
	}
	commit := c.Query("dry_run") != "true"

	booked, err := h.reservations.BookWeekly(c.Request.Context(), fromDate, untilDate, BookRequest{
		VacancyID:   req.VacancyID,
		UserID:      userID,
		Description: req.Description,
	}, commit)
	if err != nil {
		if errors.Is(err, clubs.ErrVacancyNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "vacancy not found"})
			return
		}
		logger.Error("weekly booking failed", "user_id", userID, "vacancy_id", req.VacancyID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to book"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"requested": h.reservations.WeeklyReservationCount(fromDate, untilDate),
		"booked":    booked,
	})
}

// Delete removes a reservation; a reservation that is part of a weekly
// series takes the whole series with it.
func (h *Handler) Delete(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid id"})
		return
	}

	if err := h.reservations.Delete(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, ErrReservationNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "reservation not found"})
			return
		}
		logger.Error("delete reservation failed", "reservation_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to delete reservation"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "reservation deleted"})
}

// ListForSetup returns a club's reservations for one of its setups,
// narrowed by ?date=, ?from= or ?to=.
func (h *Handler) ListForSetup(c *gin.Context) {
	clubID, ok := h.clubID(c)
	if !ok {
		return
	}

	setupID, err := strconv.Atoi(c.Param("id"))
	if err != nil || setupID <= 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid id"})
		return
	}
	if _, err := h.setups.GetByID(c.Request.Context(), clubID, setupID); err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "court setup not found"})
		return
	}

	ctx := c.Request.Context()
	var list []ReservationWithDetails
	switch {
	case c.Query("date") != "":
		d, perr := time.Parse("2006-01-02", c.Query("date"))
		if perr != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid date, want YYYY-MM-DD"})
			return
		}
		list, err = h.reservations.ByDate(ctx, setupID, d)
	case c.Query("from") != "":
		d, perr := time.Parse("2006-01-02", c.Query("from"))
		if perr != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid from, want YYYY-MM-DD"})
			return
		}
		list, err = h.reservations.FromDate(ctx, setupID, d)
	case c.Query("to") != "":
		d, perr := time.Parse("2006-01-02", c.Query("to"))
		if perr != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid to, want YYYY-MM-DD"})
			return
		}
		list, err = h.reservations.UpToDate(ctx, setupID, d)
	default:
		list, err = h.reservations.ByCourtSetup(ctx, setupID)
	}
	if err != nil {
		logger.Error("list reservations failed", "setup_id", setupID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to list reservations"})
		return
	}

	c.JSON(http.StatusOK, list)
}

// Transfer retires a court setup: action "transfer" moves its reservations
// to target_setup_id first, action "delete" discards them.
func (h *Handler) Transfer(c *gin.Context) {
	clubID, ok := h.clubID(c)
	if !ok {
		return
	}

	setupID, err := strconv.Atoi(c.Param("id"))
	if err != nil || setupID <= 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid id"})
		return
	}

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	switch req.Action {
	case "transfer":
		if req.TargetSetupID <= 0 {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "target_setup_id is required for transfer"})
			return
		}
		copied, dropped, err := h.transfers.TransferAndDelete(c.Request.Context(), clubID, setupID, req.TargetSetupID)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{"copied": copied, "dropped": dropped})
		case errors.Is(err, clubs.ErrCourtSetupNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "court setup not found"})
		case errors.Is(err, ErrSameCourtSetup):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "target setup equals the source"})
		case errors.Is(err, clubs.ErrLastCourtSetup):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "cannot retire the last court setup"})
		default:
			logger.Error("transfer failed", "setup_id", setupID, "target_setup_id", req.TargetSetupID, "error", err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "transfer failed"})
		}
	case "delete":
		err := h.transfers.DeleteAll(c.Request.Context(), clubID, setupID)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, api.MessageResponse{Message: "court setup and reservations deleted"})
		case errors.Is(err, clubs.ErrCourtSetupNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "court setup not found"})
		case errors.Is(err, clubs.ErrLastCourtSetup):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "cannot retire the last court setup"})
		default:
			logger.Error("setup cleanup failed", "setup_id", setupID, "error", err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "cleanup failed"})
		}
	default:
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "action must be transfer or delete"})
	}
}
