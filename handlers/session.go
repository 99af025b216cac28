package handlers

import (
	"net/http"

	"github.com/stevejford/sassiart/cart"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	Carts *cart.Manager
}

// StartSession issues a fresh shopper session with an empty cart. The
// storefront calls this once on load and sends the token back on every
// cart request.
func (h *SessionHandler) StartSession(c *gin.Context) {
	token, expiresAt := h.Carts.NewSession()
	c.JSON(http.StatusCreated, gin.H{
		"token":      token,
		"expires_at": expiresAt,
	})
}
