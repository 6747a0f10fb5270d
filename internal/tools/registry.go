package tools

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/crystaldolphin/archbot/internal/schema"
)

// Summary is the introspection view of one registered tool.
type Summary struct {
	Capabilities schema.Capabilities `json:"capabilities" yaml:"capabilities"`
	Schema       map[string]any      `json:"schema" yaml:"schema"`
}

// Registry holds the currently available, health-checked tools.
// Create one with NewRegistry at startup and pass it explicitly.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]schema.Tool
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]schema.Tool)}
}

// Register health-checks tool and stores it under name. A failing health
// check returns a *ToolRegistrationError and leaves the registry unchanged.
// Registering an existing name replaces the previous tool.
func (r *Registry) Register(ctx context.Context, name string, tool schema.Tool) error {
	if name == "" {
		return &ToolRegistrationError{Name: name, Reason: "empty tool name"}
	}
	if tool == nil {
		return &ToolRegistrationError{Name: name, Reason: "nil tool"}
	}
	if !probe(ctx, name, tool) {
		slog.Error("Tool failed health check", "tool", name)
		return &ToolRegistrationError{Name: name, Reason: "failed health check"}
	}

	r.store(name, tool)
	return nil
}

// probe runs tool's health check. A panicking check counts as unhealthy.
func probe(ctx context.Context, name string, tool schema.Tool) (healthy bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Tool health check panicked", "tool", name, "panic", r)
			healthy = false
		}
	}()
	return tool.HealthCheck(ctx)
}

// store inserts an already health-checked tool, last write wins.
func (r *Registry) store(name string, tool schema.Tool) {
	r.mu.Lock()
	_, replaced := r.tools[name]
	r.tools[name] = tool
	r.mu.Unlock()

	if replaced {
		slog.Warn("Tool replaced", "tool", name)
	}
	slog.Info("Registered tool", "tool", name)
}

// Get returns the tool registered under name. Health is not re-checked.
func (r *Registry) Get(name string) (schema.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]
	return t, ok
}

// Lookup is Get with an error wrapping ErrToolNotFound.
func (r *Registry) Lookup(name string) (schema.Tool, error) {
	if t, ok := r.Get(name); ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
}

// Unregister removes name and reports whether it was present.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tools[name]; !ok {
		return false
	}
	delete(r.tools, name)
	return true
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns a snapshot summary of every registered tool.
func (r *Registry) List() map[string]Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]Summary, len(r.tools))
	for name, t := range r.tools {
		out[name] = Summary{
			Capabilities: t.Capabilities().Clone(),
			Schema:       t.Schema().Describe(),
		}
	}
	return out
}

func (r *Registry) snapshot() map[string]schema.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]schema.Tool, len(r.tools))
	for k, v := range r.tools {
		out[k] = v
	}
	return out
}
