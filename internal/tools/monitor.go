package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	robfigcron "github.com/robfig/cron/v3"
)

const probeTimeout = 10 * time.Second

// HealthMonitor periodically re-probes registered tools and unregisters any
// that stop passing their health check. It is opt-in: the registry itself
// only checks health at registration time.
type HealthMonitor struct {
	registry *Registry
	spec     string
	robfig   *robfigcron.Cron
}

// NewHealthMonitor validates spec (standard 5-field cron or a descriptor
// such as "@every 5m") and returns a monitor for registry.
func NewHealthMonitor(registry *Registry, spec string) (*HealthMonitor, error) {
	parser := robfigcron.NewParser(
		robfigcron.Minute | robfigcron.Hour | robfigcron.Dom | robfigcron.Month | robfigcron.Dow | robfigcron.Descriptor,
	)
	if _, err := parser.Parse(spec); err != nil {
		return nil, fmt.Errorf("parse health check schedule %q: %w", spec, err)
	}
	return &HealthMonitor{
		registry: registry,
		spec:     spec,
		robfig:   robfigcron.New(robfigcron.WithParser(parser)),
	}, nil
}

// Start schedules the probe and blocks until ctx is cancelled.
func (m *HealthMonitor) Start(ctx context.Context) error {
	if _, err := m.robfig.AddFunc(m.spec, func() { m.CheckNow(ctx) }); err != nil {
		return fmt.Errorf("schedule health check: %w", err)
	}
	m.robfig.Start()
	slog.Info("tools: health monitor started", "schedule", m.spec)

	<-ctx.Done()
	<-m.robfig.Stop().Done()
	return nil
}

// CheckNow probes every registered tool once and returns the names removed.
func (m *HealthMonitor) CheckNow(ctx context.Context) []string {
	var removed []string
	for name, t := range m.registry.snapshot() {
		pctx, cancel := context.WithTimeout(ctx, probeTimeout)
		ok := probe(pctx, name, t)
		cancel()
		if ok {
			continue
		}
		if m.registry.Unregister(name) {
			slog.Warn("tools: unregistered unhealthy tool", "tool", name)
			removed = append(removed, name)
		}
	}
	return removed
}
