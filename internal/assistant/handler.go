package assistant

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fieldmed/dictation-platform/internal/observability/metrics"
	"github.com/fieldmed/dictation-platform/pkg/logging"
)

// Handler wires HTTP requests to the record-filling engine.
type Handler struct {
	service *Service
	logger  *logging.Logger
	metrics *metrics.AssistantMetrics
}

// NewHandler creates an assistant handler.
func NewHandler(service *Service, logger *logging.Logger, m *metrics.AssistantMetrics) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service: service,
		logger:  logger,
		metrics: m,
	}
}

// Message handles POST /assistant/message: one conversational turn.
func (h *Handler) Message(w http.ResponseWriter, r *http.Request) {
	var req TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.metrics.ObserveTurn("input_error")
		h.writeError(w, http.StatusBadRequest, "No JSON data provided")
		return
	}

	resp, err := h.service.ProcessTurn(r.Context(), req)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.metrics.ObserveTurn("ok")
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var inputErr *InputError
	if errors.As(err, &inputErr) {
		h.metrics.ObserveTurn("input_error")
		h.writeError(w, http.StatusBadRequest, inputErr.Reason)
		return
	}

	var malformed *MalformedResponseError
	if errors.As(err, &malformed) {
		h.metrics.ObserveTurn("malformed_response")
		h.logger.Error("model returned malformed response",
			"error", malformed.Err,
			"raw_response", malformed.Raw,
			"sanitized_response", malformed.Sanitized,
		)
		h.writeError(w, http.StatusInternalServerError, "Error decoding model response")
		return
	}

	h.metrics.ObserveTurn("error")
	h.logger.Error("failed to process turn", "error", err)
	h.writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.")
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
