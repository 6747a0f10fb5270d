// Package schema holds the contracts shared across archbot packages: the
// Tool capability set, the model client, and the closed-world parameter
// schema tools declare their inputs with.
package schema

import "context"

// Capability keys every tool is expected to report.
const (
	CapRequiresNetwork = "requires_network"
	CapAsyncCompatible = "async_compatible"
	CapToolType        = "tool_type"
)

// Capabilities is static, read-only metadata describing a tool.
type Capabilities map[string]any

// Clone returns a copy so callers can't mutate a tool's descriptor.
func (c Capabilities) Clone() Capabilities {
	out := make(Capabilities, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Result is whatever a tool produced: the decoded payload on success, or a
// structured error value on a recoverable failure.
type Result any

// Tool is the capability set every pluggable tool provides.
type Tool interface {
	// Schema returns the tool's parameter declaration.
	Schema() ParameterSchema
	// Validate checks semantic constraints on constructed values. It returns
	// false for expected-invalid input; an error means the check itself broke
	// and callers treat it as a validation failure.
	Validate(ctx context.Context, params Values) (bool, error)
	// Execute performs the tool's effect. Recoverable external failures come
	// back as an error value inside Result, never as a Go error.
	Execute(ctx context.Context, params Values) Result
	// HealthCheck is a cheap availability probe used to gate registration.
	HealthCheck(ctx context.Context) bool
	Capabilities() Capabilities
}
