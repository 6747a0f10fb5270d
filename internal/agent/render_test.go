package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crystaldolphin/archbot/internal/tools"
)

func TestRenderResult(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"object", map[string]any{"ok": true}, `{"ok": true}`},
		{"sorted keys", map[string]any{"b": 1, "a": []any{1, 2}}, `{"a": [1, 2], "b": 1}`},
		{"separators inside strings untouched", map[string]any{"t": "a,b:c"}, `{"t": "a,b:c"}`},
		{"escaped quote", map[string]any{"q": `say "hi", ok`}, `{"q": "say \"hi\", ok"}`},
		{"html not escaped", "<b>", `"<b>"`},
		{"nil", nil, `null`},
		{
			"error value",
			tools.ErrorResult{Error: "HTTP 500 Internal Server Error", Code: tools.CodeUpstreamFailure},
			`{"error": "HTTP 500 Internal Server Error", "code": "UPSTREAM_FAILURE"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderResult(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderResult_Unencodable(t *testing.T) {
	_, err := RenderResult(map[string]any{"ch": make(chan int)})
	assert.Error(t, err)
}

func TestFormatToolList(t *testing.T) {
	assert.Equal(t, "No tools registered.", formatToolList(nil, nil))

	reg := tools.NewRegistry()
	require.NoError(t, reg.Register(context.Background(), "Web", tools.NewHTTPTool("", 0, 0)))
	out := formatToolList(reg.Names(), reg.List())

	assert.Contains(t, out, "Web  [async_compatible=true requires_network=true tool_type=web_api]")
	assert.Contains(t, out, "url (string, required)")
	assert.Contains(t, out, `method (string, default "GET")`)
	assert.Contains(t, out, "headers (object, default {})")
}
