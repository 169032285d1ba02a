// cmd/clustering-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"clustering-service/internal/artifact"
	"clustering-service/internal/common/config"
	"clustering-service/internal/common/errors"
	commonhttp "clustering-service/internal/common/http"
	"clustering-service/internal/common/logger"
	"clustering-service/internal/common/observability"
	"clustering-service/internal/inference"
	"clustering-service/internal/server"
)

// retryWithBackoff attempts to execute a function with exponential backoff.
// Non-retryable errors abort immediately: a malformed artifact document will
// not fix itself on a retry.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if stdErr, ok := err.(*errors.StandardError); ok && !errors.IsRetryableErrorCode(stdErr.Code) {
			return err
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")

	zapLog.Info("Starting clustering server...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	// Rebuild the logger with the configured level and format.
	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	if cfg.Observability.TracingEnabled {
		traceShutdown, err := observability.InitTracer(cfg.App.Name, cfg.Observability.OTLPEndpoint)
		if err != nil {
			zapLog.Fatal("tracer initialization failed", zap.Error(err))
		}
		defer traceShutdown(context.Background())
		zapLog.Info("Tracing enabled", zap.String("endpoint", cfg.Observability.OTLPEndpoint))
	}

	ctx := context.Background()

	// --- Load Model Artifact ---
	// Blob URLs win when all three are configured; otherwise the local
	// directory is used. Either way the process refuses to start on an
	// inconsistent bundle.
	var bundle *artifact.Bundle
	if cfg.Model.URLs.Complete() {
		client := commonhttp.NewClient(config.GetDuration(cfg.Model.FetchTimeout))
		urls := artifact.URLs{
			FeatureNames: cfg.Model.URLs.FeatureNames,
			ScalerParams: cfg.Model.URLs.ScalerParams,
			Centroids:    cfg.Model.URLs.Centroids,
		}

		err = retryWithBackoff(func() error {
			var err error
			bundle, err = artifact.LoadFromURLs(ctx, client, urls, cfg.Model.RatioFeatures)
			return err
		}, 5, 2*time.Second, zapLog, "Artifact download")
	} else {
		bundle, err = artifact.LoadFromDir(cfg.Model.Dir, cfg.Model.RatioFeatures)
	}

	if err != nil {
		zapLog.Fatal("model artifact load failed", zap.Error(err))
	}
	zapLog.Info("Model artifact loaded",
		zap.Int("features", bundle.Schema.Count()),
		zap.Int("clusters", bundle.Model.NClusters),
		zap.Int("ratioFeatures", len(bundle.Schema.Ratio)),
	)

	// --- Build Engine & HTTP Server ---
	engine := inference.NewEngine(
		&inference.Config{MaxBatchSize: cfg.Engine.MaxBatchSize},
		bundle,
		log,
	)

	srv := server.New(cfg, engine, log, obs)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()
	zapLog.Info("Clustering server started",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("environment", cfg.App.Environment),
	)

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	case <-sigCh:
		zapLog.Info("Shutdown signal received, draining requests...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			zapLog.Error("Error during shutdown", zap.Error(err))
		}
	}

	zapLog.Info("Clustering server stopped gracefully")
}
