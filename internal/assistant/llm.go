package assistant

import "context"

// LLMClient generates a text completion for a single prompt.
// Implementations can be swapped (Gemini, Bedrock) without changing callers.
type LLMClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
