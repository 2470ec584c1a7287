package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"log/slog"

	"github.com/pixil98/go-savestate/internal/game"
	"github.com/pixil98/go-savestate/internal/messaging"
)

// SaveStore is a Store that can also enumerate its saves.
type SaveStore interface {
	Store
	ListSaves() iter.Seq2[string, error]
}

// Server is the nats surface the service runs on.
type Server interface {
	messaging.Bus
	WaitReady(ctx context.Context) error
	Handle(subject string, handler messaging.Handler) (func(), error)
}

// Status describes the game in progress.
type Status struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

// Service runs a Controller behind the session subjects. Every controller
// call, including level-loaded binds and autosaves, runs on the Start
// goroutine.
type Service struct {
	server Server
	store  SaveStore
	world  *game.World
	opts   []ControllerOpt

	jobs    chan func()
	stopped chan struct{}
	ctrl    *Controller
}

func NewService(server Server, store SaveStore, world *game.World, opts ...ControllerOpt) *Service {
	return &Service{
		server:  server,
		store:   store,
		world:   world,
		opts:    opts,
		jobs:    make(chan func(), 32),
		stopped: make(chan struct{}),
	}
}

func (s *Service) Start(ctx context.Context) error {
	defer close(s.stopped)
	defer s.closeStore()

	if err := s.server.WaitReady(ctx); err != nil {
		return nil
	}

	bus := messaging.NewLevelBus(s.server, messaging.WithDispatch(s.enqueue))
	s.ctrl = NewController(s.store, bus, WorldBindings(s.world), s.opts...)
	if err := s.ctrl.Attach(bus); err != nil {
		return err
	}
	defer func() { _ = s.ctrl.Close() }()

	handlers := map[string]func([]byte) ([]byte, error){
		messaging.SubjectSessionNew:    s.newGame,
		messaging.SubjectSessionSave:   s.saveGame,
		messaging.SubjectSessionLoad:   s.loadGame,
		messaging.SubjectSessionReload: s.reloadGame,
		messaging.SubjectSessionDelete: s.deleteGame,
		messaging.SubjectSessionList:   s.listSaves,
		messaging.SubjectSessionStatus: func([]byte) ([]byte, error) { return s.status() },
	}
	for subject, h := range handlers {
		stop, err := s.server.Handle(subject, s.serialize(ctx, h))
		if err != nil {
			return fmt.Errorf("serving %s: %w", subject, err)
		}
		defer stop()
	}

	slog.InfoContext(ctx, "session service ready")

	for {
		select {
		case <-ctx.Done():
			return nil
		case job := <-s.jobs:
			job()
		}
	}
}

// Tick autosaves the game in progress. It is a no-op before the first new
// or loaded game.
func (s *Service) Tick(ctx context.Context) error {
	_, err := s.do(ctx, func() ([]byte, error) {
		if s.ctrl.Current() == nil {
			return nil, nil
		}
		slog.DebugContext(ctx, "autosaving", "name", s.ctrl.Current().Name)
		return s.saveGame(nil)
	})
	return err
}

func (s *Service) newGame([]byte) ([]byte, error) {
	if err := s.ctrl.NewGame(); err != nil {
		return nil, err
	}
	return s.status()
}

func (s *Service) saveGame([]byte) ([]byte, error) {
	if s.ctrl.Current() != nil {
		s.world.Capture()
	}
	if err := s.ctrl.SaveGame(); err != nil {
		return nil, err
	}
	return s.status()
}

func (s *Service) loadGame(data []byte) ([]byte, error) {
	if err := s.ctrl.LoadGame(string(data)); err != nil {
		return nil, err
	}
	return s.status()
}

func (s *Service) reloadGame([]byte) ([]byte, error) {
	if err := s.ctrl.ReloadGame(); err != nil {
		return nil, err
	}
	return s.status()
}

func (s *Service) deleteGame(data []byte) ([]byte, error) {
	return nil, s.ctrl.DeleteGame(string(data))
}

func (s *Service) listSaves([]byte) ([]byte, error) {
	names := []string{}
	for name, err := range s.store.ListSaves() {
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return json.Marshal(names)
}

func (s *Service) status() ([]byte, error) {
	cur := s.ctrl.Current()
	if cur == nil {
		return nil, ErrNoGame
	}
	return json.Marshal(Status{Name: cur.Name, Level: cur.CurrentLevelName})
}

// serialize wraps h so it runs on the service goroutine.
func (s *Service) serialize(ctx context.Context, h func([]byte) ([]byte, error)) messaging.Handler {
	return func(data []byte) ([]byte, error) {
		return s.do(ctx, func() ([]byte, error) { return h(data) })
	}
}

type result struct {
	data []byte
	err  error
}

func (s *Service) do(ctx context.Context, fn func() ([]byte, error)) ([]byte, error) {
	out := make(chan result, 1)
	job := func() {
		data, err := fn()
		out <- result{data: data, err: err}
	}

	select {
	case s.jobs <- job:
	case <-s.stopped:
		return nil, fmt.Errorf("session service stopped")
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case r := <-out:
		return r.data, r.err
	case <-s.stopped:
		return nil, fmt.Errorf("session service stopped")
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// closeStore releases stores that hold resources, such as a database.
func (s *Service) closeStore() {
	c, ok := s.store.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		slog.Warn("closing save store", "error", err)
	}
}

func (s *Service) enqueue(fn func()) {
	select {
	case s.jobs <- fn:
	case <-s.stopped:
	}
}
