package schema

import (
	"fmt"
	"strings"
)

// FieldIssue names one offending parameter and why it was rejected.
type FieldIssue struct {
	Field  string
	Reason string
}

// SchemaValidationError is returned when raw parameters don't satisfy a
// ParameterSchema (missing required field, unknown field or wrong type).
type SchemaValidationError struct {
	Issues []FieldIssue
}

func (e *SchemaValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", is.Field, is.Reason))
	}
	return "invalid parameters: " + strings.Join(parts, "; ")
}

// Fields returns the names of every offending field.
func (e *SchemaValidationError) Fields() []string {
	out := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		out = append(out, is.Field)
	}
	return out
}
