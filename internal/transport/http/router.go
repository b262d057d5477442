package httptransport

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	sloggin "github.com/samber/slog-gin"

	"github.com/mingle-social/mingle/internal/domain"
	"github.com/mingle-social/mingle/internal/repository"
	"github.com/mingle-social/mingle/internal/session"
	"github.com/mingle-social/mingle/internal/transport/http/handler"
	"github.com/mingle-social/mingle/internal/transport/http/middleware"
)

func NewRouter(
	logger *slog.Logger,
	authHandler *handler.AuthHandler,
	accountHandler *handler.AccountHandler,
	customerHandler *handler.CustomerHandler,
	sessions *session.Service,
	customers repository.CustomerRepository,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	// Every request passes the authentication filter; it only rejects
	// requests that present an invalid token. RequireAuth/RequireRole do
	// the gating on protected routes.
	r.Use(middleware.Authenticate(sessions, customers))

	r.POST("/login", authHandler.Login)

	accounts := r.Group("/accounts")
	accounts.POST("/register", accountHandler.Register)
	accounts.GET("/activate/:token", accountHandler.Activate)
	accounts.POST("/resend-activation", accountHandler.ResendActivation)
	accounts.POST("/reset-password", accountHandler.RequestPasswordReset)
	accounts.POST("/reset-password/:token", accountHandler.FinalizePasswordReset)
	accounts.PATCH("/password", middleware.RequireAuth(), accountHandler.ChangePassword)

	r.GET("/me", middleware.RequireAuth(), customerHandler.Me)

	admin := r.Group("/admin", middleware.RequireAuth(), middleware.RequireRole(domain.RoleAdmin))
	admin.POST("/accounts/:customerID/suspend", accountHandler.Suspend)
	admin.POST("/accounts/:customerID/reinstate", accountHandler.Reinstate)

	return r
}
