// Package api exposes the record store and evaluation engines over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/neurotriage/stroke-triage-server/internal/domain"
	"github.com/neurotriage/stroke-triage-server/internal/middleware"
	"github.com/neurotriage/stroke-triage-server/internal/service"
)

// Server represents the HTTP server
type Server struct {
	configManager domain.ConfigManager
	store         domain.RecordStore
	evaluator     *service.Evaluator
	logger        *logrus.Logger
	router        *gin.Engine
	server        *http.Server
}

// NewServer creates a new HTTP server instance
func NewServer(configManager domain.ConfigManager, store domain.RecordStore, evaluator *service.Evaluator, logger *logrus.Logger) *Server {
	cfg := configManager.GetConfig()

	// Set Gin mode based on environment
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Add middleware
	router.Use(middleware.AuditLogger())
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CorrelationID())
	if cfg.Server.RateLimitRPS > 0 {
		router.Use(middleware.RateLimit(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst))
	}

	server := &Server{
		configManager: configManager,
		store:         store,
		evaluator:     evaluator,
		logger:        logger,
		router:        router,
	}

	// Setup routes
	server.setupRoutes()

	return server
}

// Start starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.configManager.GetServerConfig()
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	s.logger.WithField("addr", addr).Info("HTTP server started")

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.GET("/health", s.handleHealth)

	// API v1 routes
	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/patients", s.handleCreatePatient)
		v1.GET("/patients", s.handleListPatients)
		v1.GET("/patients/:id", s.handleGetPatient)
		v1.PUT("/patients/:id", s.handleUpdatePatient)
		v1.DELETE("/patients/:id", s.handleDeletePatient)

		v1.POST("/patients/:id/assessments", s.handleCreateAssessment)
		v1.GET("/patients/:id/assessments", s.handleListAssessments)

		v1.GET("/assessments/:id", s.handleGetAssessment)
		v1.PUT("/assessments/:id", s.handleUpdateAssessment)
		v1.DELETE("/assessments/:id", s.handleDeleteAssessment)

		v1.GET("/assessments/:id/evaluation", s.handleEvaluateAssessment)

		v1.GET("/guidelines", s.handleGetGuidelines)
	}
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	status := "healthy"
	code := http.StatusOK
	if err := s.store.Ping(c.Request.Context()); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
		s.logger.WithError(err).Warn("Record store health check failed")
	}
	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC(),
		"facility":  s.configManager.GetFacility().Name,
	})
}

// handleGetGuidelines returns the active clinical thresholds so clients can
// display the basis of every recommendation.
func (s *Server) handleGetGuidelines(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"guidelines": s.configManager.GetGuidelines(),
		"facility":   s.configManager.GetFacility(),
	})
}
