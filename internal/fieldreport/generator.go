package fieldreport

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fieldmed/dictation-platform/internal/assistant"
	"github.com/fieldmed/dictation-platform/pkg/logging"
)

// High-variance sampling: each generated report should read differently,
// the opposite trade-off from the deterministic record-filling path.
const (
	generateTemperature = 1.45
	generateTopP        = 0.95
	generateMaxTokens   = 8192
)

const dictationInstruction = `Generate random military physician field reports based on procedures performed. It should read like a spoken dictation with awkward (yet natural) oral wordings. Provide variation in the procedures that would fit into these CPT Category 1 codes:
Evaluation and Management (99202-99499)
Anesthesia (00100-01999)
Surgery (10004-69990)
Radiology (70010-79999)
Pathology and Laboratory (80047-89398)
Medicine (90281-99199, 99500-99607)

The report must include, in spoken-dictation style: the dictating physician, the patient's name, age, sex, and medical record number, the procedure date and location, the surgical team, preoperative and postoperative diagnoses, the procedures performed, indications, a narrative of the procedure itself, estimated blood loss, fluids administered, complications, and disposition.

Example opening: "This is Captain Jane Smith, dictating an operative report for Sergeant John Doe. Uh, let's see, he's twenty-eight years old, male. Medical record number is one, two, three, four, five, six, seven, eight, nine, zero."`

// Generator produces synthetic field-report dictations for demo and
// training use. It is stateless: every call is an independent one-shot
// generation.
type Generator struct {
	llm     assistant.LLMClient
	modelID string
	logger  *logging.Logger
}

// NewGenerator creates a field report generator.
func NewGenerator(llm assistant.LLMClient, modelID string, logger *logging.Logger) *Generator {
	if logger == nil {
		logger = logging.Default()
	}
	return &Generator{
		llm:     llm,
		modelID: modelID,
		logger:  logger,
	}
}

// Generate returns one synthetic dictation.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	resp, err := g.llm.Complete(ctx, assistant.LLMRequest{
		Model:       g.modelID,
		System:      dictationInstruction,
		Prompt:      "Generate a new field report.",
		MaxTokens:   generateMaxTokens,
		Temperature: generateTemperature,
		TopP:        generateTopP,
	})
	if err != nil {
		return "", fmt.Errorf("fieldreport: generation failed: %w", err)
	}

	report := strings.TrimSpace(resp.Text)
	if report == "" {
		return "", errors.New("fieldreport: model returned an empty report")
	}
	g.logger.Info("generated field report", "chars", len(report))
	return report, nil
}
