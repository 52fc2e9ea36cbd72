// Package http provides the Gin-based HTTP server and route wiring.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	otelmetric "go.opentelemetry.io/otel/metric"

	authDomain "github.com/allisson/filevault/internal/auth/domain"
	authHTTP "github.com/allisson/filevault/internal/auth/http"
	authUseCase "github.com/allisson/filevault/internal/auth/usecase"
	"github.com/allisson/filevault/internal/config"
	filesHTTP "github.com/allisson/filevault/internal/files/http"
	"github.com/allisson/filevault/internal/metrics"
)

// Server represents the main API HTTP server.
type Server struct {
	db     *sql.DB
	router *gin.Engine
	server *http.Server
	logger *slog.Logger
}

// NewServer creates a new HTTP server. The router must be configured with
// SetupRouter before calling Start.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// RouterOptions holds the handlers and use cases required to wire routes.
type RouterOptions struct {
	AccountHandler *authHTTP.AccountHandler
	SessionHandler *authHTTP.SessionHandler
	MfaHandler     *authHTTP.MfaHandler
	FileHandler    *filesHTTP.FileHandler
	SessionUseCase authUseCase.SessionUseCase

	// MeterProvider enables HTTP request metrics when non-nil.
	MeterProvider otelmetric.MeterProvider
}

// SetupRouter builds the Gin router with all middleware and routes.
func (s *Server) SetupRouter(cfg *config.Config, opts RouterOptions) {
	gin.SetMode(cfg.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if opts.MeterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(opts.MeterProvider, cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	authMiddleware := authHTTP.AuthenticationMiddleware(opts.SessionUseCase, s.logger)
	adminOnly := authHTTP.RequireRoleMiddleware(authDomain.RoleAdmin, s.logger)

	v1 := router.Group("/v1")
	{
		login := v1.Group("/auth")
		if cfg.RateLimitLoginEnabled {
			login.Use(authHTTP.LoginRateLimitMiddleware(
				cfg.RateLimitLoginRequestsPerSec,
				cfg.RateLimitLoginBurst,
				s.logger,
			))
		}
		login.POST("/login", opts.SessionHandler.LoginHandler)
		login.POST("/login/mfa", opts.SessionHandler.MfaLoginHandler)

		auth := v1.Group("/auth", authMiddleware)
		{
			auth.GET("/session", opts.SessionHandler.GetSessionHandler)
			auth.POST("/mfa/setup", opts.MfaHandler.BeginSetupHandler)
			auth.POST("/mfa/verify", opts.MfaHandler.ConfirmSetupHandler)
			auth.POST("/mfa/disable", opts.MfaHandler.DisableHandler)
		}

		accounts := v1.Group("/accounts", authMiddleware)
		{
			accounts.POST("", adminOnly, opts.AccountHandler.RegisterHandler)
			accounts.GET("/me", opts.AccountHandler.MeHandler)
		}

		files := v1.Group("/files", authMiddleware)
		{
			files.POST("", opts.FileHandler.UploadHandler)
			files.GET("", opts.FileHandler.ListHandler)
			files.GET("/:id", opts.FileHandler.GetHandler)
			files.GET("/:id/content", opts.FileHandler.DownloadHandler)
			files.DELETE("/:id", opts.FileHandler.DeleteHandler)
		}
	}

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can serve traffic. The database
// is the only hard dependency checked here; blob storage failures surface per
// request.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}
	status := http.StatusOK
	overall := "ready"

	if s.db == nil {
		components["database"] = "error"
		status = http.StatusServiceUnavailable
		overall = "not_ready"
	} else if err := s.db.PingContext(c.Request.Context()); err != nil {
		s.logger.Error("database ping failed", slog.String("error", err.Error()))
		components["database"] = "error"
		status = http.StatusServiceUnavailable
		overall = "not_ready"
	} else {
		components["database"] = "ok"
	}

	c.JSON(status, gin.H{"status": overall, "components": components})
}

// Start starts the HTTP server. Blocks until the server stops.
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
