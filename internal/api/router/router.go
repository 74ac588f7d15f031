package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fieldmed/dictation-platform/internal/assistant"
	"github.com/fieldmed/dictation-platform/internal/fieldreport"
	httpmiddleware "github.com/fieldmed/dictation-platform/internal/http/middleware"
	"github.com/fieldmed/dictation-platform/internal/submission"
	"github.com/fieldmed/dictation-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	AssistantHandler   *assistant.Handler
	SubmissionHandler  *submission.Handler
	FieldReportHandler *fieldreport.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.AssistantHandler != nil {
		r.Route("/assistant", func(r chi.Router) {
			r.Post("/message", cfg.AssistantHandler.Message)
		})
	}
	if cfg.SubmissionHandler != nil {
		r.Route("/records", func(r chi.Router) {
			r.Post("/submit", cfg.SubmissionHandler.Submit)
		})
	}
	if cfg.FieldReportHandler != nil {
		r.Post("/field-report", cfg.FieldReportHandler.Generate)
	}

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
