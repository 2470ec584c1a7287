// Package driver runs periodic work, such as autosaving, on a fixed tick.
package driver

import (
	"context"
	"log/slog"
	"time"
)

const (
	DefaultTickLength = time.Minute
)

// Manager is anything that does work on every tick.
type Manager interface {
	Tick(context.Context) error
}

// ManagerFunc adapts a plain function to Manager.
type ManagerFunc func(context.Context) error

func (f ManagerFunc) Tick(ctx context.Context) error { return f(ctx) }

// Driver calls its managers in order on every tick. A failing manager is
// logged and the remaining managers still run.
type Driver struct {
	tickLength time.Duration
	managers   []Manager
}

func NewDriver(managers []Manager, opts ...DriverOpt) *Driver {
	d := &Driver{
		tickLength: DefaultTickLength,
		managers:   managers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *Driver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()

	slog.InfoContext(ctx, "driver started", "tick", d.tickLength, "managers", len(d.managers))

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			d.Tick(ctx)
		}
	}
}

// Tick runs every manager once and returns how many failed.
func (d *Driver) Tick(ctx context.Context) int {
	failed := 0
	for i, m := range d.managers {
		if err := m.Tick(ctx); err != nil {
			slog.WarnContext(ctx, "tick failed", "manager", i, "error", err)
			failed++
		}
	}
	return failed
}
