package ai

import "context"

// Request describes a single generation call to an LLM provider. The two
// prompt roles map onto the provider's system and user messages.
type Request struct {
	System          string
	Prompt          string
	Temperature     float32
	MaxOutputTokens int
}

// Generator produces free-form text for a request. Implementations wrap a
// concrete provider client and return the first textual response unmodified.
type Generator interface {
	GenerateContent(ctx context.Context, req Request) (string, error)
	Model() string
}
