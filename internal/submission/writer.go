package submission

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fieldmed/dictation-platform/internal/observability/metrics"
	"github.com/fieldmed/dictation-platform/internal/record"
	"github.com/fieldmed/dictation-platform/pkg/logging"
)

var writerTracer = otel.Tracer("dictation.internal.submission.writer")

// RowError is a per-row failure descriptor reported by the storage
// collaborator. An empty slice means full success.
type RowError struct {
	Index  int
	Reason string
}

// RowInserter is the opaque storage collaborator: insert rows, report
// per-row errors.
type RowInserter interface {
	Insert(ctx context.Context, rows []map[string]any) ([]RowError, error)
}

// RetryWriter hands validated records to the storage client, retrying
// transient failures with exponential backoff. Per-row errors count as
// failures. Exhausting the attempt budget reports failure to the caller
// rather than panicking past the component boundary.
type RetryWriter struct {
	inserter    RowInserter
	maxAttempts int
	baseDelay   time.Duration
	sleep       func(time.Duration)
	logger      *logging.Logger
	metrics     *metrics.SubmissionMetrics
}

// NewRetryWriter builds a writer with the default 3-attempt budget and
// 1s base delay (so sleeps of 1s then 2s between attempts).
func NewRetryWriter(inserter RowInserter, logger *logging.Logger, m *metrics.SubmissionMetrics) *RetryWriter {
	if logger == nil {
		logger = logging.Default()
	}
	return &RetryWriter{
		inserter:    inserter,
		maxAttempts: 3,
		baseDelay:   time.Second,
		sleep:       time.Sleep,
		logger:      logger,
		metrics:     m,
	}
}

// WithBudget overrides the attempt budget and base delay; values <= 0
// keep the current setting.
func (w *RetryWriter) WithBudget(maxAttempts int, baseDelay time.Duration) *RetryWriter {
	if maxAttempts > 0 {
		w.maxAttempts = maxAttempts
	}
	if baseDelay > 0 {
		w.baseDelay = baseDelay
	}
	return w
}

// Write normalizes the record through a JSON round-trip and inserts it,
// retrying with doubling delays. The backoff sleep blocks the calling
// request.
func (w *RetryWriter) Write(ctx context.Context, rec record.Record) error {
	row, err := normalizeRow(rec)
	if err != nil {
		return fmt.Errorf("submission: failed to normalize record: %w", err)
	}

	ctx, span := writerTracer.Start(ctx, "submission.insert")
	defer span.End()

	var lastErr error
	for attempt := 0; attempt < w.maxAttempts; attempt++ {
		w.metrics.ObserveInsertAttempt()
		rowErrs, err := w.inserter.Insert(ctx, []map[string]any{row})
		if err == nil && len(rowErrs) == 0 {
			span.SetAttributes(attribute.Int("dictation.insert_attempts", attempt+1))
			return nil
		}

		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("storage reported %d row error(s): %s", len(rowErrs), rowErrs[0].Reason)
		}
		w.metrics.ObserveInsertFailure()
		w.logger.Error("insert attempt failed",
			"attempt", attempt+1,
			"max_attempts", w.maxAttempts,
			"error", lastErr,
		)

		if attempt < w.maxAttempts-1 {
			w.sleep(w.baseDelay * (1 << attempt))
		}
	}

	span.RecordError(lastErr)
	return fmt.Errorf("submission: insert failed after %d attempts: %w", w.maxAttempts, lastErr)
}

// normalizeRow round-trips the record through JSON to strip any
// non-serializable values and to default the three sections, matching
// what the destination table expects.
func normalizeRow(rec record.Record) (map[string]any, error) {
	shaped := map[string]any{
		"patient":   sectionOrEmpty(rec, "patient"),
		"procedure": sectionOrEmpty(rec, "procedure"),
		"coding": map[string]any{
			"snomed_ct": codingListOrEmpty(rec, "snomed_ct"),
			"icd_10":    codingListOrEmpty(rec, "icd_10"),
			"cpt":       codingListOrEmpty(rec, "cpt"),
		},
	}

	b, err := json.Marshal(shaped)
	if err != nil {
		return nil, err
	}
	var row map[string]any
	if err := json.Unmarshal(b, &row); err != nil {
		return nil, err
	}
	return row, nil
}

func sectionOrEmpty(rec record.Record, name string) map[string]any {
	if m, ok := rec[name].(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func codingListOrEmpty(rec record.Record, name string) []any {
	if coding, ok := rec["coding"].(map[string]any); ok {
		if list, ok := coding[name].([]any); ok {
			return list
		}
	}
	return []any{}
}
