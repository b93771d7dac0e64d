package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campushq/institute-portal-api/internal/models"
	"github.com/campushq/institute-portal-api/internal/service"
	appErrors "github.com/campushq/institute-portal-api/pkg/errors"
	"github.com/campushq/institute-portal-api/pkg/response"
)

// TimetableHandler handles master grid, class timetable and conflict endpoints.
type TimetableHandler struct {
	timetables *service.TimetableService
	conflicts  *service.ConflictService
}

// NewTimetableHandler constructs a timetable handler.
func NewTimetableHandler(timetables *service.TimetableService, conflicts *service.ConflictService) *TimetableHandler {
	return &TimetableHandler{timetables: timetables, conflicts: conflicts}
}

type updatePeriodsRequest struct {
	Periods []models.Period `json:"periods" binding:"required"`
}

func classCoordinates(c *gin.Context) (int, string, string, error) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return 0, "", "", appErrors.Clone(appErrors.ErrValidation, "year must be numeric")
	}
	return year, c.Param("department"), c.Param("division"), nil
}

// GetMaster godoc
// @Summary Get the master timetable shape
// @Tags Timetables
// @Produce json
// @Param code path string true "Institute code"
// @Success 200 {object} response.Envelope
// @Router /institutes/{code}/master-timetable [get]
func (h *TimetableHandler) GetMaster(c *gin.Context) {
	master, err := h.timetables.GetMaster(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, master, nil)
}

// UpdatePeriods godoc
// @Summary Replace the master period list
// @Tags Timetables
// @Accept json
// @Produce json
// @Param code path string true "Institute code"
// @Param payload body updatePeriodsRequest true "New period list"
// @Success 200 {object} response.Envelope
// @Router /institutes/{code}/master-timetable/periods [put]
func (h *TimetableHandler) UpdatePeriods(c *gin.Context) {
	var req updatePeriodsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid periods payload"))
		return
	}

	master, err := h.timetables.UpdatePeriods(c.Request.Context(), c.Param("code"), req.Periods)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, master, nil)
}

// List godoc
// @Summary List class timetables
// @Tags Timetables
// @Produce json
// @Param code path string true "Institute code"
// @Success 200 {object} response.Envelope
// @Router /institutes/{code}/timetables [get]
func (h *TimetableHandler) List(c *gin.Context) {
	summaries, err := h.timetables.List(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summaries, nil)
}

type createTimetableRequest struct {
	Year       int    `json:"year" binding:"required"`
	Department string `json:"department" binding:"required"`
	Division   string `json:"division" binding:"required"`
}

// Create godoc
// @Summary Create an empty class timetable
// @Tags Timetables
// @Accept json
// @Produce json
// @Param code path string true "Institute code"
// @Param payload body createTimetableRequest true "Class coordinates"
// @Success 201 {object} response.Envelope
// @Router /institutes/{code}/timetables [post]
func (h *TimetableHandler) Create(c *gin.Context) {
	var req createTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable payload"))
		return
	}

	tt, err := h.timetables.CreateEmpty(c.Request.Context(), c.Param("code"), req.Year, req.Department, req.Division)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, tt)
}

// Get godoc
// @Summary Get a class timetable
// @Tags Timetables
// @Produce json
// @Param code path string true "Institute code"
// @Param year path int true "Year"
// @Param department path string true "Department ID"
// @Param division path string true "Division"
// @Success 200 {object} response.Envelope
// @Router /institutes/{code}/timetables/{year}/{department}/{division} [get]
func (h *TimetableHandler) Get(c *gin.Context) {
	year, department, division, err := classCoordinates(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	tt, err := h.timetables.Get(c.Request.Context(), c.Param("code"), year, department, division)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tt, nil)
}

// Delete godoc
// @Summary Delete a class timetable
// @Tags Timetables
// @Param code path string true "Institute code"
// @Param year path int true "Year"
// @Param department path string true "Department ID"
// @Param division path string true "Division"
// @Success 204
// @Router /institutes/{code}/timetables/{year}/{department}/{division} [delete]
func (h *TimetableHandler) Delete(c *gin.Context) {
	year, department, division, err := classCoordinates(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.timetables.Delete(c.Request.Context(), c.Param("code"), year, department, division); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SetSlot godoc
// @Summary Write a timetable cell
// @Tags Timetables
// @Accept json
// @Produce json
// @Param code path string true "Institute code"
// @Param year path int true "Year"
// @Param department path string true "Department ID"
// @Param division path string true "Division"
// @Param day path string true "Day name"
// @Param period path int true "Period index (0-based)"
// @Param payload body service.SlotRequest true "Slot payload"
// @Success 200 {object} response.Envelope
// @Router /institutes/{code}/timetables/{year}/{department}/{division}/slots/{day}/{period} [put]
func (h *TimetableHandler) SetSlot(c *gin.Context) {
	year, department, division, err := classCoordinates(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	periodIndex, err := strconv.Atoi(c.Param("period"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "period must be numeric"))
		return
	}

	var req service.SlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot payload"))
		return
	}

	tt, err := h.timetables.SetSlot(c.Request.Context(), c.Param("code"), year, department, division, c.Param("day"), periodIndex, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tt, nil)
}

// ClearSlot godoc
// @Summary Clear a timetable cell
// @Tags Timetables
// @Produce json
// @Param code path string true "Institute code"
// @Param year path int true "Year"
// @Param department path string true "Department ID"
// @Param division path string true "Division"
// @Param day path string true "Day name"
// @Param period path int true "Period index (0-based)"
// @Success 200 {object} response.Envelope
// @Router /institutes/{code}/timetables/{year}/{department}/{division}/slots/{day}/{period} [delete]
func (h *TimetableHandler) ClearSlot(c *gin.Context) {
	year, department, division, err := classCoordinates(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	periodIndex, err := strconv.Atoi(c.Param("period"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "period must be numeric"))
		return
	}

	tt, err := h.timetables.ClearSlot(c.Request.Context(), c.Param("code"), year, department, division, c.Param("day"), periodIndex)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tt, nil)
}

// Conflicts godoc
// @Summary Detect teacher and room double-bookings
// @Tags Timetables
// @Produce json
// @Param code path string true "Institute code"
// @Success 200 {object} response.Envelope
// @Router /institutes/{code}/conflicts [get]
func (h *TimetableHandler) Conflicts(c *gin.Context) {
	conflicts, err := h.conflicts.Detect(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, conflicts, nil)
}
