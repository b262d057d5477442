package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mingle-social/mingle/internal/domain"
)

// authService is the subset of usecase.AuthService the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authService interface {
	Login(ctx context.Context, email, rawPassword string) (string, error)
}

type AuthHandler struct {
	auth   authService
	logger *slog.Logger
}

func NewAuthHandler(auth authService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger.With("component", "auth_handler"),
	}
}

type loginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /login
// Returns {"token": "<jwt>"} on success. Bad credentials are a generic 401;
// not-verified and suspended are distinguishable 403s because the caller has
// already proved credential possession.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBadCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": errBadCredentials})
		case errors.Is(err, domain.ErrAccountNotVerified):
			c.JSON(http.StatusForbidden, gin.H{"error": domain.ErrAccountNotVerified.Error()})
		case errors.Is(err, domain.ErrAccountSuspended):
			c.JSON(http.StatusForbidden, gin.H{"error": domain.ErrAccountSuspended.Error()})
		default:
			h.logger.ErrorContext(c.Request.Context(), "login", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
