package metrics

import "github.com/prometheus/client_golang/prometheus"

// AssistantMetrics exposes counters/histograms for the record-filling flow.
type AssistantMetrics struct {
	turnsTotal    *prometheus.CounterVec
	llmLatency    prometheus.Histogram
	droppedFields prometheus.Counter
}

func NewAssistantMetrics(reg prometheus.Registerer) *AssistantMetrics {
	m := &AssistantMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dictation",
			Subsystem: "assistant",
			Name:      "turns_total",
			Help:      "Total conversation turns processed",
		}, []string{"status"}),
		llmLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dictation",
			Subsystem: "assistant",
			Name:      "llm_latency_seconds",
			Help:      "Latency of generative model calls",
			Buckets:   prometheus.DefBuckets,
		}),
		droppedFields: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dictation",
			Subsystem: "assistant",
			Name:      "dropped_fields_total",
			Help:      "Proposed update fields dropped by the closed-schema merge",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.llmLatency, m.droppedFields)
	return m
}

func (m *AssistantMetrics) ObserveTurn(status string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(status).Inc()
}

func (m *AssistantMetrics) ObserveLLMLatency(seconds float64) {
	if m == nil {
		return
	}
	m.llmLatency.Observe(seconds)
}

func (m *AssistantMetrics) ObserveDroppedFields(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.droppedFields.Add(float64(n))
}

// SubmissionMetrics exposes counters for the downstream write path.
type SubmissionMetrics struct {
	insertAttempts     prometheus.Counter
	insertFailures     prometheus.Counter
	validationFailures prometheus.Counter
}

func NewSubmissionMetrics(reg prometheus.Registerer) *SubmissionMetrics {
	m := &SubmissionMetrics{
		insertAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dictation",
			Subsystem: "submission",
			Name:      "insert_attempts_total",
			Help:      "Total BigQuery insert attempts, including retries",
		}),
		insertFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dictation",
			Subsystem: "submission",
			Name:      "insert_failures_total",
			Help:      "Insert attempts that failed or reported row errors",
		}),
		validationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dictation",
			Subsystem: "submission",
			Name:      "validation_failures_total",
			Help:      "Records rejected by submission validation",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.insertAttempts, m.insertFailures, m.validationFailures)
	return m
}

func (m *SubmissionMetrics) ObserveInsertAttempt() {
	if m == nil {
		return
	}
	m.insertAttempts.Inc()
}

func (m *SubmissionMetrics) ObserveInsertFailure() {
	if m == nil {
		return
	}
	m.insertFailures.Inc()
}

func (m *SubmissionMetrics) ObserveValidationFailure() {
	if m == nil {
		return
	}
	m.validationFailures.Inc()
}
