// Package config defines the configuration schema for archbot.
//
// Keys use camelCase in the config file; every key can be overridden with an
// ARCHBOT_ environment variable (dots become underscores, e.g.
// ARCHBOT_LLM_APIKEY).
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// LLMConfig configures the remote model client.
type LLMConfig struct {
	APIKey       string            `mapstructure:"apiKey" yaml:"apiKey"`
	Endpoint     string            `mapstructure:"endpoint" yaml:"endpoint"`
	Model        string            `mapstructure:"model" yaml:"model"`
	Temperature  float64           `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens    int               `mapstructure:"maxTokens" yaml:"maxTokens"`
	Timeout      time.Duration     `mapstructure:"timeout" yaml:"timeout"`
	ExtraHeaders map[string]string `mapstructure:"extraHeaders" yaml:"extraHeaders,omitempty"`
}

// WebToolConfig configures the generic HTTP tool.
type WebToolConfig struct {
	Enabled  bool          `mapstructure:"enabled" yaml:"enabled"`
	Name     string        `mapstructure:"name" yaml:"name"`
	BaseURL  string        `mapstructure:"baseUrl" yaml:"baseUrl"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxBytes int64         `mapstructure:"maxBytes" yaml:"maxBytes"`
}

// ToolsConfig configures the tool registry.
type ToolsConfig struct {
	Web WebToolConfig `mapstructure:"web" yaml:"web"`
	// HealthCheckSpec is a cron spec for periodic re-probing; empty disables it.
	HealthCheckSpec string `mapstructure:"healthCheckSpec" yaml:"healthCheckSpec"`
}

// LogConfig configures process logging.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// Config is the root configuration object.
type Config struct {
	LLM   LLMConfig   `mapstructure:"llm" yaml:"llm"`
	Tools ToolsConfig `mapstructure:"tools" yaml:"tools"`
	Log   LogConfig   `mapstructure:"log" yaml:"log"`
}

// DefaultConfig returns a Config with every default filled in.
func DefaultConfig() Config {
	return Config{
		LLM: LLMConfig{
			Endpoint:    "https://openrouter.ai/api/v1/chat/completions",
			Model:       "anthropic/claude-3.5-sonnet:beta",
			Temperature: 0.1,
			MaxTokens:   512,
			Timeout:     30 * time.Second,
		},
		Tools: ToolsConfig{
			Web: WebToolConfig{
				Enabled:  true,
				Name:     "WebAPITool",
				Timeout:  30 * time.Second,
				MaxBytes: 1 << 20,
			},
		},
		Log: LogConfig{Level: "info"},
	}
}

// Validate checks the values the model client depends on. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		errs = append(errs, errors.New("llm.apiKey must not be empty"))
	}
	if strings.TrimSpace(c.LLM.Endpoint) == "" {
		errs = append(errs, errors.New("llm.endpoint must not be empty"))
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		errs = append(errs, errors.New("llm.model must not be empty"))
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, fmt.Errorf("llm.temperature must be within [0, 2], got %v", c.LLM.Temperature))
	}
	if c.LLM.MaxTokens < 1 {
		errs = append(errs, fmt.Errorf("llm.maxTokens must be >= 1, got %d", c.LLM.MaxTokens))
	}
	if c.LLM.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("llm.timeout must be positive, got %s", c.LLM.Timeout))
	}
	if c.Tools.Web.Enabled && strings.TrimSpace(c.Tools.Web.Name) == "" {
		errs = append(errs, errors.New("tools.web.name must not be empty when the web tool is enabled"))
	}
	return errors.Join(errs...)
}
