package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Command
	}{
		{"empty", "   ", Command{Kind: KindEmpty}},
		{"exit", "exit", Command{Kind: KindExit}},
		{"exit upper", "EXIT", Command{Kind: KindExit}},
		{"quit padded", "  quit  ", Command{Kind: KindExit}},
		{"exit inside sentence", "exit the building", Command{Kind: KindPrompt, Text: "exit the building"}},
		{"help", "/help", Command{Kind: KindHelp}},
		{"list tools", "/tools", Command{Kind: KindListTools}},
		{"free text", "design a cache", Command{Kind: KindPrompt, Text: "design a cache"}},
		{"tool no name", "/tool", Command{Kind: KindTool, Params: map[string]string{}}},
		{"tool no params", "/tool Web", Command{Kind: KindTool, Tool: "Web", Params: map[string]string{}}},
		{
			"tool with params",
			"/tool Web url=https://example.com/data method=GET",
			Command{Kind: KindTool, Tool: "Web", Params: map[string]string{
				"url":    "https://example.com/data",
				"method": "GET",
			}},
		},
		{
			"split on first equals only",
			"/tool Web url=https://x.com/?a=b&c=d",
			Command{Kind: KindTool, Tool: "Web", Params: map[string]string{"url": "https://x.com/?a=b&c=d"}},
		},
		{
			"tokens without equals ignored",
			"/tool Web verbose url=https://x.com   extra",
			Command{Kind: KindTool, Tool: "Web", Params: map[string]string{"url": "https://x.com"}},
		},
		{
			"empty value kept",
			"/tool Web url=",
			Command{Kind: KindTool, Tool: "Web", Params: map[string]string{"url": ""}},
		},
		{
			"later duplicate wins",
			"/tool Web method=GET method=POST",
			Command{Kind: KindTool, Tool: "Web", Params: map[string]string{"method": "POST"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCommand(tt.input))
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	got := BuildPrompt("design a cache")
	assert.Equal(t, systemPrompt+"\nUser: design a cache\nAssistant:", got)
	assert.Contains(t, got, "system architecture assistant")
}

func TestCommandKindString(t *testing.T) {
	assert.Equal(t, "tool", KindTool.String())
	assert.Equal(t, "prompt", KindPrompt.String())
	assert.Equal(t, "unknown", CommandKind(99).String())
}
