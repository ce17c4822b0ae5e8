package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/concave-dev/thinkmap/internal/logging"
	"github.com/concave-dev/thinkmap/internal/version"
)

// Server is the thinkmapd HTTP API server.
type Server struct {
	config     *Config
	router     *gin.Engine
	httpServer *http.Server
	startTime  time.Time
}

// NewServer validates config and builds the router.
func NewServer(config *Config) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid API config: %w", err)
	}

	s := &Server{
		config:    config,
		startTime: time.Now(),
	}

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// Configure Gin logging only if not already configured by CLI tools
	if !logging.IsConfiguredByCLI() {
		gin.DefaultWriter = logging.NewLevelWriter("DEBUG", "gin")
		gin.DefaultErrorWriter = logging.NewLevelWriter("ERROR", "gin")
	}

	router := gin.New()
	router.Use(s.loggingMiddleware())
	router.Use(s.metricsMiddleware())
	router.Use(s.corsMiddleware())
	router.Use(gin.Recovery())
	s.setupRoutes(router)
	s.router = router

	s.httpServer = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Feedback generation can take as long as the configured timeout.
		WriteTimeout: config.FeedbackTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve serves on a listener bound by the caller and blocks until Shutdown.
func (s *Server) Serve(listener net.Listener) error {
	logging.Success("HTTP API server listening on %s", listener.Addr())
	if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down HTTP API server...")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) version() string {
	return version.ThinkmapdVersion
}
