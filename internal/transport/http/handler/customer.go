package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mingle-social/mingle/internal/domain"
	"github.com/mingle-social/mingle/internal/principal"
)

type CustomerHandler struct{}

func NewCustomerHandler() *CustomerHandler {
	return &CustomerHandler{}
}

type meResponse struct {
	CustomerID string      `json:"customer_id"`
	Email      string      `json:"email"`
	Role       domain.Role `json:"role"`
}

// GET /me — echoes the authenticated principal.
func (h *CustomerHandler) Me(c *gin.Context) {
	p, ok := principal.FromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	c.JSON(http.StatusOK, meResponse{
		CustomerID: p.CustomerID,
		Email:      p.Email,
		Role:       p.Role,
	})
}
