package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"tablebook/internal/models"
)

// Admin handlers. All routes here sit behind Authenticate + RequireAdmin.

// AdminListBookings - GET /api/admin/bookings
// Full ledger, optional ?status= filter.
func (h *Handlers) AdminListBookings(c *gin.Context) {
	bookings, err := h.services.Bookings.ListLedger(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// AdminConfirmBooking - POST /api/admin/bookings/:id/confirm
// Promotes a paid reservation; seats become sold.
func (h *Handlers) AdminConfirmBooking(c *gin.Context) {
	booking, err := h.services.Bookings.Confirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ConfirmBookingResponse{Booking: booking})
}

// AdminRejectBooking - POST /api/admin/bookings/:id/reject
// Cancels an unpaid reservation and frees its seats.
func (h *Handlers) AdminRejectBooking(c *gin.Context) {
	booking, err := h.services.Bookings.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ConfirmBookingResponse{Booking: booking})
}

// AdminCreateEvent - POST /api/admin/events
func (h *Handlers) AdminCreateEvent(c *gin.Context) {
	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.services.Events.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

// AdminUpdateEvent - PUT /api/admin/events/:id
func (h *Handlers) AdminUpdateEvent(c *gin.Context) {
	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.services.Events.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// AdminDeleteEvent - DELETE /api/admin/events/:id
// Removes the event and its seats; bookings remain as audit trail.
func (h *Handlers) AdminDeleteEvent(c *gin.Context) {
	if err := h.services.Events.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// AdminCreateSeats - POST /api/admin/seats
// Accepts a single seat object or an array of them.
func (h *Handlers) AdminCreateSeats(c *gin.Context) {
	var items []models.CreateSeatItem
	if err := c.ShouldBindBodyWith(&items, binding.JSON); err != nil {
		var single models.CreateSeatItem
		if err := c.ShouldBindBodyWith(&single, binding.JSON); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		items = []models.CreateSeatItem{single}
	}

	created, err := h.services.Events.CreateSeats(c.Request.Context(), items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// AdminListSeats - GET /api/admin/seats?event_id=
func (h *Handlers) AdminListSeats(c *gin.Context) {
	eventID := c.Query("event_id")
	if eventID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event_id is required"})
		return
	}

	seats, err := h.services.Events.ListSeats(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, seats)
}

// AdminEventAnalytics - GET /api/admin/events/:id/analytics
func (h *Handlers) AdminEventAnalytics(c *gin.Context) {
	analytics, err := h.services.Events.Analytics(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}
