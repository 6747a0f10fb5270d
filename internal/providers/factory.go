package providers

import (
	"time"

	"github.com/crystaldolphin/archbot/internal/schema"
)

// Params are the raw values needed to construct a schema.ModelClient.
// Extracted from config.Config by the caller to avoid an import cycle.
type Params struct {
	APIKey       string
	Endpoint     string
	Model        string
	Temperature  float64
	MaxTokens    int
	Timeout      time.Duration
	ExtraHeaders map[string]string
}

// New creates the schema.ModelClient for the given params.
func New(p Params) schema.ModelClient {
	return NewOpenRouterClient(p)
}
