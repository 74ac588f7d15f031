package fieldreport

import (
	"encoding/json"
	"net/http"

	"github.com/fieldmed/dictation-platform/pkg/logging"
)

// Handler wires HTTP requests to the field report generator.
type Handler struct {
	generator *Generator
	logger    *logging.Logger
}

// NewHandler creates a field report handler.
func NewHandler(generator *Generator, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		generator: generator,
		logger:    logger,
	}
}

// Generate handles POST /field-report.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	report, err := h.generator.Generate(r.Context())
	if err != nil {
		h.logger.Error("failed to generate field report", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to generate field report"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"fieldReport": report})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
