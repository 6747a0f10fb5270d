package schema

import "context"

// GenerateOptions configures a single completion request.
type GenerateOptions struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

func NewGenerateOptions(model string, maxTokens int, temperature float64) GenerateOptions {
	return GenerateOptions{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
}

// ModelClient sends one prompt to a remote model and returns the generated
// text. Any non-success status or transport failure is returned as an error.
type ModelClient interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	HealthCheck(ctx context.Context) bool
}
