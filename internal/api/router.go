package api

import (
	"database/sql"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/scholarbridge/assistant-api/internal/api/handler"
	"github.com/scholarbridge/assistant-api/internal/api/middleware"
	"github.com/scholarbridge/assistant-api/internal/core/domain"
	"github.com/scholarbridge/assistant-api/internal/core/service"
	"github.com/scholarbridge/assistant-api/internal/infrastructure/config"
	redisdb "github.com/scholarbridge/assistant-api/internal/infrastructure/db/redis"
	"github.com/scholarbridge/assistant-api/internal/infrastructure/db/sqlite"
	"github.com/scholarbridge/assistant-api/internal/infrastructure/upstream"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *sql.DB, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("assistant"))

	// --- Dependencies ---
	authRepo := sqlite.NewAuthRepository(db)
	sessionCache := redisdb.NewSessionCache(rdb)
	authService := service.NewAuthService(authRepo, sessionCache, cfg.SessionTTL)
	sessionService := service.NewSessionService(authRepo, sessionCache, log)
	gateway := upstream.New(cfg.AIService.BaseURL, cfg.AIService.Timeout)
	proxyService := service.NewProxyService(gateway, log)

	authHandler := handler.NewAuthHandler(authService)
	proxyHandler := handler.NewProxyHandler(proxyService, cfg.DemoUserID)
	requireAuth := middleware.Auth(sessionService)
	optionalAuth := middleware.OptionalAuth(sessionService)

	// --- Auth routes ---
	e.POST("/api/auth/sign-up", authHandler.SignUp)
	e.POST("/api/auth/sign-in", authHandler.SignIn)
	e.POST("/api/auth/sign-out", authHandler.SignOut, requireAuth)
	e.POST("/api/auth/verify-email", authHandler.VerifyEmail)
	e.GET("/api/auth/session", authHandler.Session, requireAuth)

	// --- Authenticated proxy routes ---
	e.GET("/api/applications/dashboard", proxyHandler.Dashboard, requireAuth)
	e.GET("/api/insights", proxyHandler.Insights, requireAuth)
	e.GET("/api/chat-orchestrator/history", proxyHandler.ChatHistory, optionalAuth)

	// --- Admin ---
	e.GET("/api/admin/users", authHandler.ListUsers, requireAuth, middleware.RBAC(domain.RoleAdmin))

	// --- Health probes and status (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/api/chat-orchestrator", healthHandler.ChatOrchestratorStatus)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
