// Package dependency wires core archbot services using go.uber.org/dig.
package dependency

import (
	"context"
	"io"

	"go.uber.org/dig"

	"github.com/crystaldolphin/archbot/internal/agent"
	"github.com/crystaldolphin/archbot/internal/channels"
	"github.com/crystaldolphin/archbot/internal/config"
	"github.com/crystaldolphin/archbot/internal/logging"
	"github.com/crystaldolphin/archbot/internal/providers"
	"github.com/crystaldolphin/archbot/internal/schema"
	"github.com/crystaldolphin/archbot/internal/tools"
)

// Container holds the resolved core service singletons.
// Callers use the typed getter methods; they never need to import dig directly.
type Container struct {
	cfg        *config.Config
	model      schema.ModelClient
	registry   *tools.Registry
	dispatcher *agent.Dispatcher
	monitor    *tools.HealthMonitor
}

func (c *Container) Config() *config.Config        { return c.cfg }
func (c *Container) Model() schema.ModelClient     { return c.model }
func (c *Container) Registry() *tools.Registry     { return c.registry }
func (c *Container) Dispatcher() *agent.Dispatcher { return c.dispatcher }

// HealthMonitor is nil unless tools.healthCheckSpec is configured.
func (c *Container) HealthMonitor() *tools.HealthMonitor { return c.monitor }

// IO is the terminal the console reads from and writes to.
type IO struct {
	In  io.Reader
	Out io.Writer
}

// New builds and wires all core services from cfg. ctx bounds the tool
// health checks run while building the registry.
func New(ctx context.Context, cfg *config.Config, term IO) (*Container, error) {
	d := dig.New()

	if err := d.Provide(func() *config.Config { return cfg }); err != nil {
		return nil, err
	}
	if err := d.Provide(func() context.Context { return ctx }); err != nil {
		return nil, err
	}
	if err := d.Provide(func() IO { return term }); err != nil {
		return nil, err
	}
	if err := d.Provide(newModelClient); err != nil {
		return nil, err
	}
	if err := d.Provide(newToolRegistry); err != nil {
		return nil, err
	}
	if err := d.Provide(newHealthMonitor); err != nil {
		return nil, err
	}
	if err := d.Provide(newConsole); err != nil {
		return nil, err
	}
	if err := d.Provide(agent.NewDispatcher); err != nil {
		return nil, err
	}

	var result *Container
	err := d.Invoke(func(
		model schema.ModelClient,
		registry *tools.Registry,
		dispatcher *agent.Dispatcher,
		monitor *tools.HealthMonitor,
	) {
		result = &Container{
			cfg:        cfg,
			model:      model,
			registry:   registry,
			dispatcher: dispatcher,
			monitor:    monitor,
		}
	})
	return result, err
}

func newModelClient(cfg *config.Config) schema.ModelClient {
	return providers.New(providers.Params{
		APIKey:       cfg.LLM.APIKey,
		Endpoint:     cfg.LLM.Endpoint,
		Model:        cfg.LLM.Model,
		Temperature:  cfg.LLM.Temperature,
		MaxTokens:    cfg.LLM.MaxTokens,
		Timeout:      cfg.LLM.Timeout,
		ExtraHeaders: cfg.LLM.ExtraHeaders,
	})
}

// newToolRegistry registers the configured tools. A tool that fails its
// health check is logged and left out; startup continues without it.
func newToolRegistry(ctx context.Context, cfg *config.Config) *tools.Registry {
	log := logging.Component(nil, "dependency")

	b := tools.NewRegistryBuilder()
	if web := cfg.Tools.Web; web.Enabled {
		b.WithTool(web.Name, tools.NewHTTPTool(web.BaseURL, web.Timeout, web.MaxBytes))
	}

	registry, errs := b.Build(ctx)
	for _, err := range errs {
		log.Warn("Tool not registered", "err", err)
	}
	return registry
}

func newHealthMonitor(cfg *config.Config, registry *tools.Registry) (*tools.HealthMonitor, error) {
	if cfg.Tools.HealthCheckSpec == "" {
		return nil, nil
	}
	return tools.NewHealthMonitor(registry, cfg.Tools.HealthCheckSpec)
}

func newConsole(term IO) agent.Console {
	return channels.NewCLIChannel(term.In, term.Out)
}
