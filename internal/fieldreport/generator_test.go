package fieldreport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fieldmed/dictation-platform/internal/assistant"
	"github.com/fieldmed/dictation-platform/pkg/logging"
)

type stubLLMClient struct {
	text string
	err  error
	last assistant.LLMRequest
}

func (s *stubLLMClient) Complete(_ context.Context, req assistant.LLMRequest) (assistant.LLMResponse, error) {
	s.last = req
	if s.err != nil {
		return assistant.LLMResponse{}, s.err
	}
	return assistant.LLMResponse{Text: s.text}, nil
}

func testLogger() *logging.Logger {
	return logging.NewWithWriter("error", io.Discard)
}

func TestGenerateUsesHighVarianceSampling(t *testing.T) {
	llm := &stubLLMClient{text: "This is Captain Jane Smith, dictating..."}
	g := NewGenerator(llm, "gemini-1.5-flash", testLogger())

	report, err := g.Generate(context.Background())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !strings.HasPrefix(report, "This is Captain") {
		t.Fatalf("unexpected report: %q", report)
	}

	if llm.last.Temperature != 1.45 {
		t.Fatalf("expected temperature 1.45, got %v", llm.last.Temperature)
	}
	if llm.last.TopP != 0.95 {
		t.Fatalf("expected topP 0.95, got %v", llm.last.TopP)
	}
	if llm.last.MaxTokens != 8192 {
		t.Fatalf("expected 8192 max tokens, got %d", llm.last.MaxTokens)
	}
	if llm.last.Model != "gemini-1.5-flash" {
		t.Fatalf("expected model override, got %q", llm.last.Model)
	}
	if !strings.Contains(llm.last.System, "field reports") {
		t.Fatalf("expected dictation instruction as system prompt")
	}
}

func TestGenerateEmptyReportIsError(t *testing.T) {
	g := NewGenerator(&stubLLMClient{text: "   "}, "", testLogger())
	if _, err := g.Generate(context.Background()); err == nil {
		t.Fatalf("expected error for empty report")
	}
}

func TestHandlerGenerate(t *testing.T) {
	llm := &stubLLMClient{text: "Dictated report text."}
	h := NewHandler(NewGenerator(llm, "", testLogger()), testLogger())

	req := httptest.NewRequest(http.MethodPost, "/field-report", nil)
	w := httptest.NewRecorder()
	h.Generate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "fieldReport") {
		t.Fatalf("expected fieldReport key, got %s", w.Body.String())
	}
}

func TestHandlerGenerateFailure(t *testing.T) {
	llm := &stubLLMClient{err: errors.New("model down")}
	h := NewHandler(NewGenerator(llm, "", testLogger()), testLogger())

	req := httptest.NewRequest(http.MethodPost, "/field-report", nil)
	w := httptest.NewRecorder()
	h.Generate(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "model down") {
		t.Fatalf("internal error must not leak: %s", w.Body.String())
	}
}
