package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mingle-social/mingle/internal/domain"
	"github.com/mingle-social/mingle/internal/principal"
	"github.com/mingle-social/mingle/internal/usecase"
)

// accountService is the subset of usecase.AccountService the handler needs.
type accountService interface {
	Register(ctx context.Context, input usecase.RegisterInput) (*domain.Customer, error)
	Activate(ctx context.Context, rawToken string) error
	ResendActivation(ctx context.Context, email string) error
	RequestPasswordReset(ctx context.Context, email string) error
	FinalizePasswordReset(ctx context.Context, rawToken, newPassword string) error
	ChangePassword(ctx context.Context, customerID, currentPassword, newPassword string) error
	Suspend(ctx context.Context, customerID string) error
	Reinstate(ctx context.Context, customerID string) error
}

type AccountHandler struct {
	accounts accountService
	logger   *slog.Logger
}

func NewAccountHandler(accounts accountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		logger:   logger.With("component", "account_handler"),
	}
}

type registerRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Name     string `json:"name"     binding:"max=100"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type registerResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type emailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password"     binding:"required,min=8,max=72"`
}

// POST /accounts/register
func (h *AccountHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.accounts.Register(c.Request.Context(), usecase.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": errEmailTaken})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "register", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusCreated, registerResponse{
		ID:        customer.ID,
		Email:     customer.Email,
		CreatedAt: customer.CreatedAt,
	})
}

// GET /accounts/activate/:token
func (h *AccountHandler) Activate(c *gin.Context) {
	if err := h.accounts.Activate(c.Request.Context(), c.Param("token")); err != nil {
		h.tokenFailure(c, err, "activate")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "activated"})
}

// POST /accounts/resend-activation
func (h *AccountHandler) ResendActivation(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.accounts.ResendActivation(c.Request.Context(), req.Email); err != nil {
		h.emailFailure(c, err, "resend activation")
		return
	}
	c.Status(http.StatusOK)
}

// POST /accounts/reset-password
func (h *AccountHandler) RequestPasswordReset(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.accounts.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		h.emailFailure(c, err, "request password reset")
		return
	}
	c.Status(http.StatusOK)
}

// POST /accounts/reset-password/:token
func (h *AccountHandler) FinalizePasswordReset(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.accounts.FinalizePasswordReset(c.Request.Context(), c.Param("token"), req.Password); err != nil {
		h.tokenFailure(c, err, "finalize password reset")
		return
	}
	c.Status(http.StatusOK)
}

// PATCH /accounts/password — requires an authenticated principal.
func (h *AccountHandler) ChangePassword(c *gin.Context) {
	p, ok := principal.FromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.accounts.ChangePassword(c.Request.Context(), p.CustomerID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, domain.ErrBadCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": errBadCredentials})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "change password", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.Status(http.StatusOK)
}

// POST /admin/accounts/:customerID/suspend
func (h *AccountHandler) Suspend(c *gin.Context) {
	h.adminTransition(c, h.accounts.Suspend, "suspend account")
}

// POST /admin/accounts/:customerID/reinstate
func (h *AccountHandler) Reinstate(c *gin.Context) {
	h.adminTransition(c, h.accounts.Reinstate, "reinstate account")
}

func (h *AccountHandler) adminTransition(c *gin.Context, op func(context.Context, string) error, what string) {
	if err := op(c.Request.Context(), c.Param("customerID")); err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountNotFound), errors.Is(err, domain.ErrCustomerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errEmailUnknown})
		case errors.Is(err, domain.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": errAccountState})
		default:
			h.logger.ErrorContext(c.Request.Context(), what, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}
	c.Status(http.StatusOK)
}

// tokenFailure maps single-use token errors: unknown tokens (and tokens of
// the wrong type, indistinguishable to the caller) are 404, burnt or expired
// tokens are 410 Gone.
func (h *AccountHandler) tokenFailure(c *gin.Context, err error, what string) {
	switch {
	case errors.Is(err, domain.ErrTokenNotFound), errors.Is(err, domain.ErrTokenTypeMismatch):
		c.JSON(http.StatusNotFound, gin.H{"error": errTokenNotFound})
	case errors.Is(err, domain.ErrTokenExpired), errors.Is(err, domain.ErrTokenAlreadyUsed):
		c.JSON(http.StatusGone, gin.H{"error": errTokenGone})
	case errors.Is(err, domain.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": errAccountState})
	default:
		h.logger.ErrorContext(c.Request.Context(), what, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
	}
}

func (h *AccountHandler) emailFailure(c *gin.Context, err error, what string) {
	if errors.Is(err, domain.ErrCustomerNotFound) || errors.Is(err, domain.ErrAccountNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": errEmailUnknown})
		return
	}
	h.logger.ErrorContext(c.Request.Context(), what, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
}
