// Package world is an in-process level host. It instantiates a level's
// entities into a game.World and announces when they are ready.
package world

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/pixil98/go-savestate/internal/game"
	"github.com/pixil98/go-savestate/internal/storage"
)

// LevelSource looks up level definitions by name.
type LevelSource interface {
	Get(id storage.Identifier) (*game.Level, bool)
}

// Host satisfies session.LevelLoader and session.LevelEvents.
type Host struct {
	levels LevelSource
	world  *game.World

	mu        sync.Mutex
	nextSub   int
	listeners map[int]func()
}

func NewHost(levels LevelSource, world *game.World) *Host {
	return &Host{
		levels:    levels,
		world:     world,
		listeners: map[int]func(){},
	}
}

// LoadLevel replaces the world's entities with the named level's and then
// notifies every listener once.
func (h *Host) LoadLevel(name string) error {
	lvl, ok := h.levels.Get(storage.Identifier(name))
	if !ok {
		return fmt.Errorf("%w: %q", game.ErrLevelNotFound, name)
	}

	p, chests := lvl.Spawn()
	h.world.Replace(name, p, chests)
	slog.Info("level loaded", "level", name, "chests", len(chests), "player", p != nil)

	for _, fn := range h.snapshotListeners() {
		fn()
	}
	return nil
}

// OnLevelLoaded registers fn to run after every level load, in
// registration order.
func (h *Host) OnLevelLoaded(fn func()) (func(), error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextSub
	h.nextSub++
	h.listeners[id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.listeners, id)
	}, nil
}

// snapshotListeners copies the listeners so they run without the lock
// held; a listener may load another level.
func (h *Host) snapshotListeners() []func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	ids := slices.Sorted(maps.Keys(h.listeners))
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, h.listeners[id])
	}
	return fns
}
