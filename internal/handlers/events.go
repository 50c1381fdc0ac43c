package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListEvents - GET /api/events
// Public catalog, served from cache when possible.
func (h *Handlers) ListEvents(c *gin.Context) {
	ctx := c.Request.Context()
	catalogCache := h.services.Events.CatalogCache()

	if catalogCache != nil {
		// Raw JSON to avoid an unmarshal/marshal round trip on hits.
		if rawJSON, err := catalogCache.GetEventsListRaw(ctx); err == nil {
			c.Data(http.StatusOK, "application/json", rawJSON)
			return
		}
	}

	events, err := h.services.Events.List(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	if catalogCache != nil {
		if data, err := json.Marshal(events); err == nil {
			if err := catalogCache.SetEventsListRaw(ctx, data); err != nil {
				slog.Warn("Failed to cache events list", "error", err)
			}
		}
	}

	c.JSON(http.StatusOK, events)
}

// GetEvent - GET /api/events/:id
func (h *Handlers) GetEvent(c *gin.Context) {
	event, err := h.services.Events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// ListEventSeats - GET /api/events/:id/seats
// Public seat map of one event.
func (h *Handlers) ListEventSeats(c *gin.Context) {
	seats, err := h.services.Events.ListSeats(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, seats)
}
