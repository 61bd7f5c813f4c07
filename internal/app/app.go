package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/mvalerio/account-service/internal/config"
	"github.com/mvalerio/account-service/internal/handler"
	"github.com/mvalerio/account-service/internal/repository"
	"github.com/mvalerio/account-service/internal/service"
	"github.com/mvalerio/account-service/internal/utils"
	"github.com/mvalerio/account-service/pkg/observability"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	infra  Infrastructure
	config *config.Config
	router *gin.Engine
	server *http.Server
}

func NewApp(infra Infrastructure, cfg *config.Config) *App {
	jwtManager := utils.NewJWTManager(cfg.Token.Secret, cfg.Token.SessionExpiry.Duration)

	repos := repository.NewRepositories(infra.Postgres(), infra.Redis(), jwtManager.SessionExpiry())

	accountService := service.NewAccountService(repos.Account, jwtManager, infra.Notifier())
	personService := service.NewPersonService(repos.Person)
	blacklistService := service.NewTokenBlacklistService(repos.TokenBlacklist)
	rateLimiter := service.NewRateLimiter(infra.Redis())
	healthChecker := NewHealthChecker(infra)

	accountHandler := handler.NewAccountHandler(accountService, personService)
	authHandler := handler.NewAuthHandler(accountService, blacklistService)
	personHandler := handler.NewPersonHandler(personService)

	router := gin.Default()
	router.Use(otelgin.Middleware("account-service"))
	router.Use(handler.LoggerMiddleware(infra.Logger()))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))

	setupRoutes(router, routeHandlers{
		account:   accountHandler,
		auth:      authHandler,
		person:    personHandler,
		authGuard: handler.AuthMiddleware(jwtManager, blacklistService),
		rateLimiter: handler.RateLimitMiddleware(
			rateLimiter,
			cfg.Security.RateLimitRequests,
			cfg.Security.RateLimitWindow.Duration,
			handler.IPBasedKey,
		),
		health:  healthChecker,
		metrics: infra.MetricsHandler(),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	return &App{
		infra:  infra,
		config: cfg,
		router: router,
		server: srv,
	}
}

func (a *App) Router() *gin.Engine {
	return a.router
}

type routeHandlers struct {
	account     *handler.AccountHandler
	auth        *handler.AuthHandler
	person      *handler.PersonHandler
	authGuard   gin.HandlerFunc
	rateLimiter gin.HandlerFunc
	health      *HealthChecker
	metrics     http.Handler
}

func setupRoutes(router *gin.Engine, h routeHandlers) {
	router.GET("/metrics", observability.PrometheusHandler(h.metrics))
	router.GET("/health", h.health.Handler)

	api := router.Group("/api/v1")
	{
		accounts := api.Group("/accounts")
		{
			accounts.POST("", h.rateLimiter, h.account.Create)
			accounts.POST("/activate", h.authGuard, h.account.Activate)
			accounts.POST("/activation-code", h.authGuard, h.account.ChangeActivationCode)
			accounts.PUT("/password", h.authGuard, h.account.UpdatePassword)
			accounts.POST("/recover/request", h.rateLimiter, h.account.RequestRecoverPassword)
			accounts.POST("/recover", h.rateLimiter, h.account.RecoverPassword)
		}

		auth := api.Group("/auth")
		{
			auth.POST("/sign-in", h.rateLimiter, h.auth.SignIn)
			auth.POST("/sign-out", h.authGuard, h.auth.SignOut)
		}

		api.PUT("/persons", h.authGuard, h.person.Update)
	}
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		a.infra.Logger().Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.infra.Logger().Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		a.infra.Logger().Error("Application failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		a.infra.Logger().Info("Application stopped by context")
	}

	if err := a.Shutdown(); err != nil {
		a.infra.Logger().Error("Shutdown error", zap.Error(err))
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}

func (a *App) Shutdown() error {
	a.infra.Logger().Info("Application shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	errs := make(chan error, 2)

	go func() {
		errs <- a.server.Shutdown(ctx)
	}()

	go func() {
		errs <- a.infra.Shutdown(ctx)
	}()

	err := errors.Join(<-errs, <-errs)
	if err != nil {
		a.infra.Logger().Error("Shutdown failed", zap.Error(err))
		return err
	}

	a.infra.Logger().Info("Application exited successfully")
	return nil
}
