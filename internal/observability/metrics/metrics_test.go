package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestAssistantMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAssistantMetrics(reg)
	m.ObserveTurn("ok")
	m.ObserveTurn("malformed_response")
	m.ObserveLLMLatency(0.5)
	m.ObserveDroppedFields(2)
	m.ObserveDroppedFields(0)
}

func TestSubmissionMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSubmissionMetrics(reg)
	m.ObserveInsertAttempt()
	m.ObserveInsertFailure()
	m.ObserveValidationFailure()
}

func TestMetricsNilSafe(t *testing.T) {
	var a *AssistantMetrics
	a.ObserveTurn("ok")
	a.ObserveLLMLatency(0.1)
	a.ObserveDroppedFields(1)

	var s *SubmissionMetrics
	s.ObserveInsertAttempt()
	s.ObserveInsertFailure()
	s.ObserveValidationFailure()
}
