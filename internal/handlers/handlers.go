package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"tablebook/internal/apperr"
	"tablebook/internal/auth"
	"tablebook/internal/service"
)

type Handlers struct {
	services *service.Services
	resolver *auth.Resolver
}

func NewHandlers(services *service.Services, resolver *auth.Resolver) *Handlers {
	return &Handlers{services: services, resolver: resolver}
}

// respondError maps the stable error kinds to HTTP statuses. Unknown errors
// become opaque 500s; the wrapped detail stays in the logs only.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrInvalidRequest),
		errors.Is(err, apperr.ErrInvalidState),
		errors.Is(err, apperr.ErrExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, apperr.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	default:
		slog.Error("Request failed", "error", err, "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
