// internal/server/handlers.go
package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"clustering-service/internal/common/config"
	"clustering-service/internal/common/errors"
	"clustering-service/internal/common/metrics"
	"clustering-service/internal/common/observability"
	"clustering-service/internal/inference"
	"clustering-service/internal/models"
)

// HandleHome returns the service banner with the documented endpoints.
func HandleHome(cfg *config.Config, engine *inference.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		bundle := engine.Bundle()
		c.JSON(http.StatusOK, models.HomeResponse{
			Message:  "Socioeconomic clustering API for Honduran departments",
			Service:  cfg.App.Name,
			Version:  cfg.App.Version,
			Model:    cfg.Model.Name,
			Features: bundle.Schema.Count(),
			Endpoints: map[string]string{
				"home":          "GET /",
				"health":        "GET /health",
				"ready":         "GET /ready",
				"model_info":    "GET /info",
				"predict":       "POST /predict",
				"predict_batch": "POST /predict-batch",
				"metrics":       "GET /metrics",
			},
		})
	}
}

// HandleHealth reports liveness. Ready is always true here: startup fails
// closed, so a process that answers at all is serving a validated model.
func HandleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthResponse{Status: "healthy", Ready: true})
	}
}

// HandleReady reports readiness for deployment probes.
func HandleReady() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.ReadyResponse{
			Status: "ready",
			Time:   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// HandleModelInfo returns metadata of the loaded artifact.
func HandleModelInfo(cfg *config.Config, engine *inference.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		bundle := engine.Bundle()
		c.JSON(http.StatusOK, models.ModelInfoResponse{
			Model:     cfg.Model.Name,
			NClusters: bundle.Model.NClusters,
			Features:  bundle.Schema.Names,
			NFeatures: bundle.Schema.Count(),
			NIter:     bundle.Model.NIter,
			Inertia:   bundle.Model.Inertia,
		})
	}
}

// HandlePredict classifies a single record.
func HandlePredict(engine *inference.Engine, errs *errors.ErrorHandler, obs *observability.Observability) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.RequestsActive.WithLabelValues("single").Inc()
		defer metrics.RequestsActive.WithLabelValues("single").Dec()

		var record inference.RawRecord
		if err := c.ShouldBindJSON(&record); err != nil {
			recordFailure(c, obs, "single", errors.NewInvalidJSONError(err), errs)
			return
		}

		assignment, err := engine.Predict(record)
		if err != nil {
			recordFailure(c, obs, "single", err, errs)
			return
		}

		metrics.ClusterAssignments.WithLabelValues(strconv.Itoa(assignment.Cluster)).Inc()
		recordSuccess(c, obs, "single", start)
		c.JSON(http.StatusOK, assignment)
	}
}

// HandlePredictBatch classifies up to the configured maximum of records in
// one request. Any invalid record rejects the whole batch.
func HandlePredictBatch(engine *inference.Engine, errs *errors.ErrorHandler, obs *observability.Observability) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.RequestsActive.WithLabelValues("batch").Inc()
		defer metrics.RequestsActive.WithLabelValues("batch").Dec()

		var req models.BatchPredictionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			recordFailure(c, obs, "batch", errors.NewInvalidJSONError(err), errs)
			return
		}

		result, err := engine.PredictBatch(req.Records)
		if err != nil {
			recordFailure(c, obs, "batch", err, errs)
			return
		}

		metrics.BatchSize.Observe(float64(result.Total))
		for cluster, count := range result.Summary {
			if count > 0 {
				metrics.ClusterAssignments.WithLabelValues(strconv.Itoa(cluster)).Add(float64(count))
			}
		}
		recordSuccess(c, obs, "batch", start)
		c.JSON(http.StatusOK, models.NewBatchPredictionResponse(result))
	}
}

func recordSuccess(c *gin.Context, obs *observability.Observability, mode string, start time.Time) {
	metrics.PredictionsCompleted.WithLabelValues(mode).Inc()
	metrics.PredictionDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	if obs != nil {
		obs.RecordPrediction(c.Request.Context(), mode, "success")
		obs.RecordPredictionDuration(c.Request.Context(), time.Since(start), mode, "success")
	}
}

func recordFailure(c *gin.Context, obs *observability.Observability, mode string, err error, errs *errors.ErrorHandler) {
	code := string(errors.ErrCodeInternalError)
	if stdErr, ok := err.(*errors.StandardError); ok {
		code = string(stdErr.Code)
	}

	metrics.PredictionsFailed.WithLabelValues(mode, code).Inc()
	if obs != nil {
		obs.RecordPrediction(c.Request.Context(), mode, "error")
	}
	errs.Respond(c, err)
}
