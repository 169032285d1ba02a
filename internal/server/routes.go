// internal/server/routes.go
package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"clustering-service/internal/common/config"
	"clustering-service/internal/common/errors"
	"clustering-service/internal/common/logger"
	"clustering-service/internal/common/observability"
	"clustering-service/internal/inference"
)

// NewRouter wires middleware and routes around the engine.
func NewRouter(cfg *config.Config, engine *inference.Engine, log logger.Logger, obs *observability.Observability) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(RequestLogger(log))
	if cfg.HTTP.CORSEnabled {
		router.Use(CORS())
	}
	if cfg.Observability.TracingEnabled {
		router.Use(otelgin.Middleware(cfg.App.Name))
	}

	errHandler := errors.NewErrorHandler(log)

	router.GET("/", HandleHome(cfg, engine))
	router.GET("/health", HandleHealth())
	router.GET("/ready", HandleReady())
	router.GET("/info", HandleModelInfo(cfg, engine))
	router.POST("/predict", HandlePredict(engine, errHandler, obs))
	router.POST("/predict-batch", HandlePredictBatch(engine, errHandler, obs))

	if cfg.Observability.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	return router
}
