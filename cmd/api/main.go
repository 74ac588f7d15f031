package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fieldmed/dictation-platform/internal/api/router"
	"github.com/fieldmed/dictation-platform/internal/assistant"
	appconfig "github.com/fieldmed/dictation-platform/internal/config"
	"github.com/fieldmed/dictation-platform/internal/fieldreport"
	"github.com/fieldmed/dictation-platform/internal/observability/metrics"
	"github.com/fieldmed/dictation-platform/internal/submission"
	"github.com/fieldmed/dictation-platform/pkg/logging"
)

func main() {
	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting dictation-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	assistantMetrics := metrics.NewAssistantMetrics(nil)
	submissionMetrics := metrics.NewSubmissionMetrics(nil)

	routerCfg := &router.Config{
		Logger:             logger,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}

	// Assistant and field report endpoints require a Gemini API key.
	if cfg.GeminiAPIKey != "" {
		llm, err := assistant.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.AssistantModelID)
		if err != nil {
			logger.Error("failed to create Gemini client", "error", err)
			os.Exit(1)
		}
		defer llm.Close()

		svc := assistant.NewService(llm, cfg.AssistantModelID, logger, assistantMetrics)
		routerCfg.AssistantHandler = assistant.NewHandler(svc, logger, assistantMetrics)

		generator := fieldreport.NewGenerator(llm, cfg.FieldReportModel, logger)
		routerCfg.FieldReportHandler = fieldreport.NewHandler(generator, logger)
	} else {
		logger.Warn("GEMINI_API_KEY not set, assistant and field report endpoints disabled")
	}

	// Record submission requires a GCP project.
	if cfg.GCPProjectID != "" {
		bqClient, err := bigquery.NewClient(ctx, cfg.GCPProjectID)
		if err != nil {
			logger.Error("failed to create BigQuery client", "error", err)
			os.Exit(1)
		}
		defer bqClient.Close()

		inserter := submission.NewBigQueryInserter(bqClient, cfg.BigQueryDataset, cfg.BigQueryTable)
		writer := submission.NewRetryWriter(inserter, logger, submissionMetrics).
			WithBudget(cfg.InsertMaxAttempts, cfg.InsertBaseDelay)
		routerCfg.SubmissionHandler = submission.NewHandler(writer, logger, submissionMetrics)
	} else {
		logger.Warn("GCP_PROJECT_ID not set, record submission endpoint disabled")
	}

	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
