package agent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/crystaldolphin/archbot/internal/tools"
)

// RenderResult formats a tool result as single-line JSON with ", " and
// ": " separators, e.g. {"ok": true}. Object keys are sorted.
func RenderResult(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	return spaceSeparators(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// spaceSeparators adds a space after every ',' and ':' outside strings.
func spaceSeparators(compact []byte) string {
	var sb strings.Builder
	sb.Grow(len(compact) + len(compact)/4)

	inString, escaped := false, false
	for _, b := range compact {
		sb.WriteByte(b)
		switch {
		case escaped:
			escaped = false
		case inString && b == '\\':
			escaped = true
		case b == '"':
			inString = !inString
		case !inString && (b == ',' || b == ':'):
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

// formatToolList renders the registry summary for the /tools command.
func formatToolList(names []string, summary map[string]tools.Summary) string {
	if len(names) == 0 {
		return "No tools registered."
	}

	var sb strings.Builder
	sb.WriteString("Registered tools:")
	for _, name := range names {
		s, ok := summary[name]
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "\n  %s", name)
		if caps := formatCapabilities(s.Capabilities); caps != "" {
			fmt.Fprintf(&sb, "  [%s]", caps)
		}
		for _, line := range formatParams(s.Schema) {
			sb.WriteString("\n    " + line)
		}
	}
	return sb.String()
}

func formatCapabilities(caps map[string]any) string {
	keys := make([]string, 0, len(caps))
	for k := range caps {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, caps[k]))
	}
	return strings.Join(parts, " ")
}

func formatParams(desc map[string]any) []string {
	props, _ := desc["properties"].(map[string]any)
	required := make(map[string]bool)
	if req, ok := desc["required"].([]string); ok {
		for _, r := range req {
			required[r] = true
		}
	}

	names := make([]string, 0, len(props))
	for n := range props {
		names = append(names, n)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, n := range names {
		p, _ := props[n].(map[string]any)
		line := fmt.Sprintf("%s (%v", n, p["type"])
		if required[n] {
			line += ", required"
		} else if def, ok := p["default"]; ok {
			if s, err := RenderResult(def); err == nil {
				line += ", default " + s
			}
		}
		lines = append(lines, line+")")
	}
	return lines
}
