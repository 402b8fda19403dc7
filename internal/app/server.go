// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"local_services_backend/internal/auth"
	"local_services_backend/internal/category"
	"local_services_backend/internal/config"
	"local_services_backend/internal/jobs"
	"local_services_backend/internal/middleware"
	"local_services_backend/internal/platform/redis"
	"local_services_backend/internal/provider"
	"local_services_backend/internal/review"
	"local_services_backend/internal/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	events   provider.EventBus
	sweepJob *jobs.OrphanReviewSweepJob
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	redisClient *redis.Client,
	authService auth.Service,
	userHandler *user.Handler,
	authHandler *auth.Handler,
	categoryHandler *category.Handler,
	providerHandler *provider.Handler,
	reviewHandler *review.Handler,
	events provider.EventBus,
	sweepJob *jobs.OrphanReviewSweepJob,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := category.RegisterValidation(v); err != nil {
			return nil, fmt.Errorf("failed to register category validation: %w", err)
		}
	}

	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) == 0 || (len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	authMW := middleware.AuthMiddleware(authService, logger.Named("AuthMiddleware"))
	optionalAuthMW := middleware.OptionalAuthMiddleware(authService, logger.Named("AuthMiddleware"))

	// --- Setup Routes ---
	router.GET("/health", healthHandler(db, redisClient, logger))

	v1 := router.Group("/api/v1")
	categoryHandler.RegisterRoutes(v1)
	providerHandler.RegisterRoutes(v1, authMW, optionalAuthMW)
	reviewHandler.RegisterRoutes(v1, authMW)
	authHandler.RegisterRoutes(v1, authMW, optionalAuthMW)
	userHandler.RegisterRoutes(v1, authMW)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:        addr,
		Handler:     router,
		ReadTimeout: cfg.ServerTimeout,
		// No WriteTimeout: /providers/stream holds its response open.
		IdleTimeout: 120 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		cfg:        cfg,
		logger:     logger,
		events:     events,
		sweepJob:   sweepJob,
	}, nil
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) Start() error {
	if s.sweepJob != nil {
		if err := s.sweepJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start orphan review sweep", zap.Error(err))
		}
	} else {
		s.logger.Info("Orphan review sweep is not configured, skipping start.")
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.sweepJob != nil {
		s.sweepJob.Stop()
	}
	// Closing the bus ends open change-feed streams so Shutdown is not held up by them.
	if s.events != nil {
		if err := s.events.Close(); err != nil {
			s.logger.Warn("Error closing provider event bus", zap.Error(err))
		}
	}
	return s.httpServer.Shutdown(ctx)
}

func healthHandler(db *gorm.DB, redisClient *redis.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		checks := gin.H{}
		healthy := true

		if db != nil {
			if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
				checks["database"] = "DOWN"
				healthy = false
			} else {
				checks["database"] = "UP"
			}
		}
		if redisClient != nil {
			if err := redisClient.Ping(ctx); err != nil {
				logger.Warn("Redis health check failed", zap.Error(err))
				checks["redis"] = "DOWN"
				healthy = false
			} else {
				checks["redis"] = "UP"
			}
		}

		if !healthy {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DOWN", "checks": checks})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Local Services API is healthy!", "checks": checks})
	}
}
