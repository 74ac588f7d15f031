package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fieldmed/dictation-platform/internal/observability/metrics"
	"github.com/fieldmed/dictation-platform/internal/record"
	"github.com/fieldmed/dictation-platform/pkg/logging"
)

var serviceTracer = otel.Tracer("dictation.internal.assistant.service")

// Generation parameters for the record-filling path. Temperature stays
// at zero so the same partial record and utterance produce the same
// proposed update.
const (
	defaultMaxOutputTokens = 1024
	defaultTopP            = 0.8
	defaultTopK            = 40
)

const recordCompleteMessage = "The record is complete. You can now submit it or continue adding more information."

// InputError marks a caller mistake (empty message, malformed record);
// handlers map it to a 400.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string { return "assistant: " + e.Reason }

// TurnRequest is one conversational turn. The record is client-held state
// passed in full on every call; the service keeps nothing between turns.
type TurnRequest struct {
	UserMessage   string          `json:"userMessage"`
	CurrentRecord json.RawMessage `json:"currentRecord,omitempty"`
	CurrentPrompt *record.Prompt  `json:"currentPrompt,omitempty"`
}

// TurnResponse carries the merged record plus two independent completion
// signals: the next conversational question (nil when there are no more)
// and the stricter ready-to-insert gate. They can diverge.
type TurnResponse struct {
	UpdatedRecord record.Record  `json:"updated_record"`
	NextPrompt    *record.Prompt `json:"next_prompt"`
	ReadyToInsert bool           `json:"ready_to_insert"`
	Message       string         `json:"message"`
}

// Service runs the incremental record-completion engine.
type Service struct {
	llm     LLMClient
	modelID string
	logger  *logging.Logger
	metrics *metrics.AssistantMetrics
}

// NewService creates the per-turn engine around an opaque model client.
func NewService(llm LLMClient, modelID string, logger *logging.Logger, m *metrics.AssistantMetrics) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		llm:     llm,
		modelID: modelID,
		logger:  logger,
		metrics: m,
	}
}

// ProcessTurn executes one turn: select the outstanding field, compile the
// prompt, call the model, sanitize and parse its output, merge the
// proposed update, and recompute both completion signals. A parse failure
// aborts the turn with the record untouched.
func (s *Service) ProcessTurn(ctx context.Context, req TurnRequest) (*TurnResponse, error) {
	if strings.TrimSpace(req.UserMessage) == "" {
		return nil, &InputError{Reason: "user message cannot be empty"}
	}

	rec, err := decodeRecord(req.CurrentRecord)
	if err != nil {
		return nil, err
	}

	prompt := BuildPrompt(req.UserMessage, rec, req.CurrentPrompt)

	ctx, span := serviceTracer.Start(ctx, "assistant.turn")
	defer span.End()

	start := time.Now()
	resp, err := s.llm.Complete(ctx, LLMRequest{
		Model:          s.modelID,
		Prompt:         prompt,
		MaxTokens:      defaultMaxOutputTokens,
		Temperature:    0,
		TopP:           defaultTopP,
		TopK:           defaultTopK,
		CandidateCount: 1,
	})
	s.metrics.ObserveLLMLatency(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("assistant: model call failed: %w", err)
	}

	sanitized, err := SanitizeModelJSON(resp.Text)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	update, message, err := parseModelUpdate(resp.Text, sanitized)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	stats := record.Merge(rec, update, s.logger)
	s.metrics.ObserveDroppedFields(len(stats.DroppedFields))
	span.SetAttributes(
		attribute.Int("dictation.dropped_fields", len(stats.DroppedFields)),
		attribute.Int("dictation.rejected_dates", len(stats.RejectedDates)),
	)

	next := record.NextPrompt(rec)
	ready := record.ReadyToInsert(rec)
	if ready {
		message = recordCompleteMessage
	}

	return &TurnResponse{
		UpdatedRecord: rec,
		NextPrompt:    next,
		ReadyToInsert: ready,
		Message:       strings.TrimSpace(message),
	}, nil
}

// decodeRecord parses the client-held record, defaulting to the empty
// schema when absent.
func decodeRecord(raw json.RawMessage) (record.Record, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return record.New(), nil
	}
	var rec map[string]any
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, &InputError{Reason: "invalid current record format"}
	}
	return record.Record(rec), nil
}

// parseModelUpdate extracts the proposed update and assistant message from
// sanitized model JSON. A response without a top-level updated_record
// object is malformed, not partially usable.
func parseModelUpdate(raw, sanitized string) (map[string]any, string, error) {
	var payload map[string]any
	if err := json.Unmarshal([]byte(sanitized), &payload); err != nil {
		return nil, "", &MalformedResponseError{Raw: raw, Sanitized: sanitized, Err: err}
	}
	updateVal, ok := payload["updated_record"]
	if !ok {
		return nil, "", &MalformedResponseError{
			Raw:       raw,
			Sanitized: sanitized,
			Err:       fmt.Errorf("response missing updated_record"),
		}
	}
	update, ok := updateVal.(map[string]any)
	if !ok {
		return nil, "", &MalformedResponseError{
			Raw:       raw,
			Sanitized: sanitized,
			Err:       fmt.Errorf("updated_record is not an object"),
		}
	}
	message, _ := payload["message"].(string)
	return update, message, nil
}
