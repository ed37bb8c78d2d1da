package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	ginhandler "user-directory-service/internal/adapter/gin/handler"
	"user-directory-service/internal/adapter/gin/middleware"
	ginrouter "user-directory-service/internal/adapter/gin/router"
	"user-directory-service/internal/config"

	"go.uber.org/zap"
)

// Server struct holds all server dependencies
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	HTTP   *http.Server
}

// New creates a new server instance
func New(
	cfg *config.Config,
	l *zap.Logger,
	userHandler *ginhandler.UserHandler,
	rateLimiter *middleware.RateLimiter,
) *Server {
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.App.CORSAllowedOrigins

	router := ginrouter.SetupRouter(userHandler, rateLimiter, corsConfig, cfg.App.Environment, l)

	return &Server{
		Config: cfg,
		Logger: l,
		HTTP:   SetupHTTPServer(router, ":"+cfg.App.HTTPPort, l),
	}
}

// Start starts the HTTP server and blocks until the listener stops
func (s *Server) Start() error {
	s.Logger.Info("HTTP server running", zap.String("address", s.HTTP.Addr))

	if err := s.HTTP.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server, letting in-flight
// requests finish within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.HTTP == nil {
		return nil
	}
	return s.HTTP.Shutdown(ctx)
}
