package tools

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/crystaldolphin/archbot/internal/schema"
)

type pendingTool struct {
	name string
	tool schema.Tool
}

// RegistryBuilder accumulates tools during the construction phase.
// Call Build() to health-check them and produce a Registry.
type RegistryBuilder struct {
	tools []pendingTool
}

// NewRegistryBuilder returns a fresh RegistryBuilder.
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{}
}

// WithTool adds a tool under name and returns the builder, enabling chaining.
func (b *RegistryBuilder) WithTool(name string, tool schema.Tool) *RegistryBuilder {
	b.tools = append(b.tools, pendingTool{name: name, tool: tool})

	return b
}

// Build probes every tool concurrently, then registers the healthy ones in
// the order they were added. Tools that fail are left out and their
// registration errors returned; a failed tool never aborts the build.
func (b *RegistryBuilder) Build(ctx context.Context) (*Registry, []error) {
	healthy := make([]bool, len(b.tools))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range b.tools {
		if p.tool == nil {
			continue
		}
		i, p := i, p
		g.Go(func() error {
			healthy[i] = probe(gctx, p.name, p.tool)
			return nil
		})
	}
	_ = g.Wait()

	reg := NewRegistry()
	var errs []error
	for i, p := range b.tools {
		switch {
		case p.name == "":
			errs = append(errs, &ToolRegistrationError{Name: p.name, Reason: "empty tool name"})
		case p.tool == nil:
			errs = append(errs, &ToolRegistrationError{Name: p.name, Reason: "nil tool"})
		case !healthy[i]:
			slog.Error("Tool failed health check", "tool", p.name)
			errs = append(errs, &ToolRegistrationError{Name: p.name, Reason: "failed health check"})
		default:
			reg.store(p.name, p.tool)
		}
	}
	return reg, errs
}
