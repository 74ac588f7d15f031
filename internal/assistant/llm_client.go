package assistant

import "context"

type TokenUsage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

// LLMRequest is a single-shot generation request. The engine compiles the
// entire turn (instructions, record snapshot, user message) into one
// prompt, so there is no chat history to carry.
type LLMRequest struct {
	Model          string
	System         string
	Prompt         string
	MaxTokens      int32
	Temperature    float32
	TopP           float32
	TopK           int32
	CandidateCount int32
}

type LLMResponse struct {
	Text       string
	Usage      TokenUsage
	StopReason string
}

// LLMClient is the opaque generative model collaborator: prompt in, raw
// text out. The engine never depends on a concrete provider.
type LLMClient interface {
	Complete(ctx context.Context, req LLMRequest) (LLMResponse, error)
}
