// internal/server/server.go

// Package server exposes the inference engine over HTTP: single and batch
// prediction, model metadata, health probes, and Prometheus metrics.
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"clustering-service/internal/common/config"
	"clustering-service/internal/common/logger"
	"clustering-service/internal/common/observability"
	"clustering-service/internal/inference"
)

// Server wraps the gin router in an http.Server with configured timeouts.
type Server struct {
	httpServer *http.Server
	logger     logger.Logger
}

// New builds the HTTP server around an engine that already holds a validated
// model bundle. Startup ordering guarantees the bundle exists before any
// route is reachable.
func New(cfg *config.Config, engine *inference.Engine, log logger.Logger, obs *observability.Observability) *Server {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr(),
			Handler:      NewRouter(cfg, engine, log, obs),
			ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
			WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
		},
		logger: log.WithFields(map[string]interface{}{"component": "http-server"}),
	}
}

// Start serves requests until Shutdown is called or the listener fails.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", map[string]interface{}{"addr": s.httpServer.Addr})

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and drains in-flight requests until
// ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP server draining", nil)
	return s.httpServer.Shutdown(ctx)
}
