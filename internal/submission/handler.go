package submission

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fieldmed/dictation-platform/internal/observability/metrics"
	"github.com/fieldmed/dictation-platform/internal/record"
	"github.com/fieldmed/dictation-platform/pkg/logging"
)

// Handler wires HTTP requests to record submission.
type Handler struct {
	writer  *RetryWriter
	logger  *logging.Logger
	metrics *metrics.SubmissionMetrics
}

// NewHandler creates a submission handler.
func NewHandler(writer *RetryWriter, logger *logging.Logger, m *metrics.SubmissionMetrics) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		writer:  writer,
		logger:  logger,
		metrics: m,
	}
}

type submitRequest struct {
	Record map[string]any `json:"record"`
}

// Submit handles POST /records/submit: validate the finished record, then
// write it downstream with bounded retry.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "No JSON data provided")
		return
	}
	if len(req.Record) == 0 {
		h.writeError(w, http.StatusBadRequest, "No record provided")
		return
	}

	rec := record.Record(req.Record)
	if err := Validate(rec); err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			h.metrics.ObserveValidationFailure()
			h.logger.Warn("record failed submission validation", "reason", validationErr.Reason)
			h.writeError(w, http.StatusBadRequest, "Invalid record: "+validationErr.Reason)
			return
		}
		h.writeError(w, http.StatusBadRequest, "Invalid record")
		return
	}

	if err := h.writer.Write(r.Context(), rec); err != nil {
		h.logger.Error("failed to insert record", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to insert record")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Record successfully inserted"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}
