package core

import "context"

// Options controls model behavior; fields are optional per provider.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int
	SystemPrompt        string
}

// Client is a provider-agnostic interface for the LLM operations we need.
type Client interface {
	// Generate sends a single prompt and returns the model's text output.
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}
