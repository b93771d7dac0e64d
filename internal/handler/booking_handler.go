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

// BookingHandler handles booking ledger and room availability endpoints.
type BookingHandler struct {
	bookings     *service.BookingService
	availability *service.AvailabilityService
}

// NewBookingHandler constructs a booking handler.
func NewBookingHandler(bookings *service.BookingService, availability *service.AvailabilityService) *BookingHandler {
	return &BookingHandler{bookings: bookings, availability: availability}
}

// List godoc
// @Summary List room bookings
// @Tags Bookings
// @Produce json
// @Param code path string true "Institute code"
// @Param date query string false "Filter to one date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /institutes/{code}/bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	bookings, err := h.bookings.List(c.Request.Context(), c.Param("code"), c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bookings, nil)
}

// Create godoc
// @Summary Create a room booking
// @Tags Bookings
// @Accept json
// @Produce json
// @Param code path string true "Institute code"
// @Param payload body service.CreateBookingRequest true "Booking payload"
// @Success 201 {object} response.Envelope
// @Router /institutes/{code}/bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	var req service.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload"))
		return
	}

	// Teachers book in their own name only; admins can book for anyone.
	if claims := claimsFromContext(c); claims != nil && claims.Role == models.RoleTeacher && req.TeacherID != claims.TeacherID {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "teachers can only book rooms for themselves"))
		return
	}

	booking, err := h.bookings.Create(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, booking)
}

// Cancel godoc
// @Summary Cancel a room booking
// @Tags Bookings
// @Param code path string true "Institute code"
// @Param id path string true "Booking ID"
// @Success 204
// @Router /institutes/{code}/bookings/{id} [delete]
func (h *BookingHandler) Cancel(c *gin.Context) {
	if err := h.bookings.Cancel(c.Request.Context(), c.Param("code"), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AvailableRooms godoc
// @Summary List rooms with their availability for a date and period
// @Tags Bookings
// @Produce json
// @Param code path string true "Institute code"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param period query int true "Period index (0-based)"
// @Success 200 {object} response.Envelope
// @Router /institutes/{code}/rooms/available [get]
func (h *BookingHandler) AvailableRooms(c *gin.Context) {
	periodIndex, err := strconv.Atoi(c.Query("period"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "period must be numeric"))
		return
	}

	rooms, err := h.availability.AvailableRooms(c.Request.Context(), c.Param("code"), c.Query("date"), periodIndex)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms, nil)
}
