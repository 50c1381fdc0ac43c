package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tablebook/internal/auth"
	"tablebook/internal/models"
)

// AdminLogin - POST /api/auth/admin-login
// Issues an admin token against the configured operator credentials.
func (h *Handlers) AdminLogin(c *gin.Context) {
	var req models.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.resolver.CheckAdminLogin(req.Login, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := h.resolver.Issue(auth.Principal{ID: "admin", Role: auth.RoleAdmin})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.TokenResponse{Token: token, Role: string(auth.RoleAdmin)})
}

// UserLogin - POST /api/auth/user-login
// Dev convenience login: issues a token for a raw user id; the role comes
// from the configured admin id list.
func (h *Handlers) UserLogin(c *gin.Context) {
	var req models.UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := h.resolver.RoleFor(req.UserID)
	token, err := h.resolver.Issue(auth.Principal{ID: req.UserID, Role: role})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.TokenResponse{Token: token, Role: string(role)})
}
