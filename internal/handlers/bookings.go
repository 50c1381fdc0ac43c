package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tablebook/internal/middleware"
	"tablebook/internal/models"
)

// CreateBooking - POST /api/bookings
// Reserves the requested seats for the authenticated user.
func (h *Handlers) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	principal, ok := middleware.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	response, err := h.services.Bookings.Reserve(c.Request.Context(), principal.ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// MyBookings - GET /api/me/bookings
// Active view: reserved and not yet expired.
func (h *Handlers) MyBookings(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	bookings, err := h.services.Bookings.ListActive(c.Request.Context(), principal.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MyBookingsResponse{Bookings: bookings})
}

// MyTickets - GET /api/me/tickets
// Confirmed view.
func (h *Handlers) MyTickets(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	tickets, err := h.services.Bookings.ListTickets(c.Request.Context(), principal.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MyBookingsResponse{Bookings: tickets})
}
