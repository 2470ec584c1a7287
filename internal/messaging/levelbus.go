package messaging

import (
	"context"
	"fmt"
	"log/slog"
)

// Bus is the slice of NatsServer the level bus needs.
type Bus interface {
	Subscribe(subject string, handler func(data []byte)) (func(), error)
	Request(ctx context.Context, subject string, data []byte) ([]byte, error)
}

// LevelBus lets the session controller drive a level host that lives on
// the other side of nats. It satisfies session.LevelLoader and
// session.LevelEvents.
type LevelBus struct {
	bus      Bus
	dispatch func(func())
}

type LevelBusOpt func(*LevelBus)

// WithDispatch routes level-loaded callbacks through fn instead of running
// them on the nats delivery goroutine.
func WithDispatch(fn func(func())) LevelBusOpt {
	return func(b *LevelBus) {
		b.dispatch = fn
	}
}

func NewLevelBus(bus Bus, opts ...LevelBusOpt) *LevelBus {
	b := &LevelBus{
		bus:      bus,
		dispatch: func(fn func()) { fn() },
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// LoadLevel asks the host to load name and waits for it to finish.
func (b *LevelBus) LoadLevel(name string) error {
	if _, err := b.bus.Request(context.Background(), SubjectLevelLoad, []byte(name)); err != nil {
		return fmt.Errorf("loading level %q: %w", name, err)
	}
	return nil
}

// OnLevelLoaded calls fn every time the host announces a loaded level.
func (b *LevelBus) OnLevelLoaded(fn func()) (func(), error) {
	return b.bus.Subscribe(SubjectLevelLoaded, func([]byte) {
		b.dispatch(fn)
	})
}

// LevelHost is the host side of the bus.
type LevelHost interface {
	LoadLevel(name string) error
	OnLevelLoaded(fn func()) (func(), error)
}

// ServeLevels exposes host on the level subjects of srv. The returned func
// stops serving.
func ServeLevels(srv *NatsServer, host LevelHost) (func(), error) {
	stopHandle, err := srv.Handle(SubjectLevelLoad, func(data []byte) ([]byte, error) {
		return nil, host.LoadLevel(string(data))
	})
	if err != nil {
		return nil, err
	}

	stopEvents, err := host.OnLevelLoaded(func() {
		if err := srv.Publish(SubjectLevelLoaded, nil); err != nil {
			slog.Warn("announcing level load", "error", err)
		}
	})
	if err != nil {
		stopHandle()
		return nil, fmt.Errorf("watching level host: %w", err)
	}

	return func() {
		stopEvents()
		stopHandle()
	}, nil
}
