package game

import (
	"slices"
	"sync"
)

// World holds the entities instantiated by the currently loaded level.
// The level host fills it and binders read it, possibly from different
// goroutines.
type World struct {
	mu     sync.RWMutex
	level  string
	player *Player
	chests []*Chest
}

func NewWorld() *World {
	return &World{}
}

// Replace swaps in the entities of a freshly loaded level.
func (w *World) Replace(level string, p *Player, chests []*Chest) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.level = level
	w.player = p
	w.chests = chests
}

// Level returns the name of the loaded level, or "" before the first load.
func (w *World) Level() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.level
}

// Player returns the live player, if the level has one.
func (w *World) Player() (*Player, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.player, w.player != nil
}

// Chests returns every live chest.
func (w *World) Chests() []*Chest {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.chests)
}

// Capture copies every live entity's state into its bound record. Game
// logic calls this before a save.
func (w *World) Capture() {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.player != nil {
		w.player.Capture()
	}
	for _, c := range w.chests {
		c.Capture()
	}
}
