// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Ninano9/camera/internal/auth"
	"github.com/Ninano9/camera/internal/config"
	"github.com/Ninano9/camera/internal/jobs"
	"github.com/Ninano9/camera/internal/mapping"
	"github.com/Ninano9/camera/internal/middleware"
	"github.com/Ninano9/camera/internal/profile"
	"github.com/Ninano9/camera/internal/shared"
	"github.com/Ninano9/camera/internal/telemetry"
	"github.com/Ninano9/camera/internal/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	// Handlers
	authHandler      *auth.Handler
	userHandler      *user.Handler
	profileHandler   *profile.Handler
	mappingHandler   *mapping.Handler
	telemetryHandler *telemetry.Handler

	// Jobs
	telemetryRetentionJob *jobs.TelemetryRetentionJob

	// Middleware instances
	authMW gin.HandlerFunc
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	profileHandler *profile.Handler,
	mappingHandler *mapping.Handler,
	telemetryHandler *telemetry.Handler,
	telemetryRetentionJob *jobs.TelemetryRetentionJob,
	tokenService shared.TokenService,
	blocklist middleware.TokenBlocklist,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	// CORS Middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	authMW := middleware.AuthMiddleware(tokenService, blocklist, logger.Named("AuthMiddleware"))

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Camera API is healthy!"})
	})

	// Routes are mounted at the root so clients address /auth/login,
	// /users/me, /profiles, /mappings and /telemetry directly.
	root := router.Group("")
	authHandler.RegisterRoutes(root, authMW)
	userHandler.RegisterRoutes(root, authMW)
	profileHandler.RegisterRoutes(root, authMW)
	mappingHandler.RegisterRoutes(root, authMW)
	telemetryHandler.RegisterRoutes(root, authMW)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:            httpServer,
		router:                router,
		cfg:                   cfg,
		logger:                logger,
		authHandler:           authHandler,
		userHandler:           userHandler,
		profileHandler:        profileHandler,
		mappingHandler:        mappingHandler,
		telemetryHandler:      telemetryHandler,
		telemetryRetentionJob: telemetryRetentionJob,
		authMW:                authMW,
	}, nil
}

// Router exposes the underlying gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) Start() error {
	if s.telemetryRetentionJob != nil {
		if err := s.telemetryRetentionJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start telemetry retention job", zap.Error(err))
		}
	} else {
		s.logger.Info("Telemetry retention job is not configured, skipping start.")
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped gracefully or an error occurred")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.telemetryRetentionJob != nil {
		s.telemetryRetentionJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}

// AutoMigrate creates or updates the database schema for all registered models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&profile.Profile{},
		&mapping.Mapping{},
		&telemetry.Record{},
	)
}
