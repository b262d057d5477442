package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mingle-social/mingle/config"
	"github.com/mingle-social/mingle/internal/email"
	"github.com/mingle-social/mingle/internal/health"
	"github.com/mingle-social/mingle/internal/infrastructure/postgres"
	ctxlog "github.com/mingle-social/mingle/internal/log"
	"github.com/mingle-social/mingle/internal/metrics"
	"github.com/mingle-social/mingle/internal/password"
	"github.com/mingle-social/mingle/internal/session"
	httptransport "github.com/mingle-social/mingle/internal/transport/http"
	"github.com/mingle-social/mingle/internal/transport/http/handler"
	"github.com/mingle-social/mingle/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if err := postgres.Migrate(ctx, cfg.DatabaseURL); err != nil {
		stop()
		log.Fatalf("migrate: %v", err)
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	accountRepo := postgres.NewAccountRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	tokenRepo := postgres.NewTokenRepository(pool)

	hasher, err := password.NewHasher(cfg.BcryptCost, cfg.HashWorkers)
	if err != nil {
		stop()
		log.Fatalf("hasher: %v", err)
	}
	sessions := session.NewService([]byte(cfg.JWTSecret), time.Duration(cfg.SessionTTLHours)*time.Hour)
	ledger := usecase.NewTokenLedger(tokenRepo, time.Duration(cfg.AccountTokenTTLHours)*time.Hour)
	sender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)

	authService := usecase.NewAuthService(accountRepo, hasher, sessions)
	accountService := usecase.NewAccountService(accountRepo, customerRepo, ledger, hasher, sender, cfg.LinkBase, logger)

	authHandler := handler.NewAuthHandler(authService, logger)
	accountHandler := handler.NewAccountHandler(accountService, logger)
	customerHandler := handler.NewCustomerHandler()

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, authHandler, accountHandler, customerHandler, sessions, customerRepo),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
