// Package providers implements the remote model client used for free-text
// prompts. The endpoint is any OpenRouter/OpenAI-compatible completion API.
package providers

import (
	"fmt"
	"strings"

	"github.com/crystaldolphin/archbot/internal/shared/stringutils"
)

const maxErrorBody = 300

// ModelCallError is returned when the endpoint answers with a non-200 status.
type ModelCallError struct {
	Status int
	Body   string
}

func (e *ModelCallError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, friendlyHTTPError(e.Status, e.Body))
}

func friendlyHTTPError(code int, body string) string {
	if code == 429 {
		return "rate limit exceeded"
	}
	return stringutils.Truncate(strings.TrimSpace(body), maxErrorBody)
}
