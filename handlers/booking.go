package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"fieldserve/middleware"
	"fieldserve/models"
	"fieldserve/services/booking"
	"fieldserve/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes the booking lifecycle over HTTP.
type BookingHandler struct {
	Service booking.BookingService
}

func NewBookingHandler(service booking.BookingService) *BookingHandler {
	return &BookingHandler{Service: service}
}

// respondError converts a domain error into the HTTP error envelope.
func respondError(c *gin.Context, err error) {
	message := "request failed"
	var domainErr *booking.Error
	if errors.As(err, &domainErr) {
		message = domainErr.Message
	}
	utils.JSONError(c, booking.HTTPStatus(err), booking.CodeOf(err), message)
}

// CreateBooking handles POST /bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var input models.BookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, booking.CodeValidation, "invalid booking payload: "+err.Error())
		return
	}

	view, err := h.Service.Create(principal, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": view})
}

// ListBookings handles GET /bookings.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	query := booking.ListQuery{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))

	var err error
	if query.StartDate, err = parseDate(c.Query("startDate")); err != nil {
		utils.JSONError(c, http.StatusBadRequest, booking.CodeValidation, "invalid startDate")
		return
	}
	if query.EndDate, err = parseDate(c.Query("endDate")); err != nil {
		utils.JSONError(c, http.StatusBadRequest, booking.CodeValidation, "invalid endDate")
		return
	}

	page, err := h.Service.List(principal, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetBooking handles GET /bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	view, err := h.Service.Get(principal, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": view})
}

// UpdateBookingStatus handles PUT /bookings/:id/status.
func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, booking.CodeValidation, "status is required")
		return
	}

	view, err := h.Service.ChangeStatus(principal, c.Param("id"), input.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": view})
}

// AssignTechnician handles PUT /bookings/:id/assign-technician.
func (h *BookingHandler) AssignTechnician(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var input struct {
		TechnicianID string `json:"technicianId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, booking.CodeValidation, "technicianId is required")
		return
	}

	view, err := h.Service.AssignTechnician(principal, c.Param("id"), input.TechnicianID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": view})
}

// CancelBooking handles DELETE /bookings/:id. Cancellation is a state change,
// never a hard delete.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	view, err := h.Service.Cancel(principal, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": view})
}

// parseDate accepts "2006-01-02" or RFC3339 values.
func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
