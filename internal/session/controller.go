// Package session owns the current game and the operations a player
// triggers on it: new, save, load, reload and delete.
package session

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/pixil98/go-savestate/internal/game"
)

// Store is the persistence the controller needs.
type Store interface {
	Save(rec *game.GameRecord, overwrite bool) error
	Load(name string) (*game.GameRecord, error)
	Delete(name string) error
}

// LevelLoader asks the host to load a level by name.
type LevelLoader interface {
	LoadLevel(name string) error
}

// LevelEvents lets the controller hear when a level has finished loading
// and its entities can be looked up. The returned func unregisters fn.
type LevelEvents interface {
	OnLevelLoaded(fn func()) (unsubscribe func(), err error)
}

// Controller holds the current game record. It does no locking: callers
// running it from several goroutines must serialize calls themselves.
type Controller struct {
	store    Store
	loader   LevelLoader
	bindings []Binding

	defaultLevel string
	newGameName  string
	logger       *slog.Logger

	current     *game.GameRecord
	unsubscribe func()
}

func NewController(store Store, loader LevelLoader, bindings []Binding, opts ...ControllerOpt) *Controller {
	c := &Controller{
		store:        store,
		loader:       loader,
		bindings:     bindings,
		defaultLevel: game.DefaultLevel,
		newGameName:  game.DefaultGameName,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Current returns the game in progress, or nil before the first
// NewGame or LoadGame.
func (c *Controller) Current() *game.GameRecord {
	return c.current
}

// NewGame replaces the current game with a fresh one and loads the default
// level.
func (c *Controller) NewGame() error {
	c.current = game.NewGameRecord(c.newGameName, c.defaultLevel)
	c.logger.Info("starting new game", "name", c.current.Name, "level", c.current.CurrentLevelName)

	return c.loadLevel(c.current.CurrentLevelName)
}

// SaveGame writes the current game, replacing any save with the same name.
func (c *Controller) SaveGame() error {
	if c.current == nil {
		return ErrNoGame
	}

	if err := c.current.Validate(); err != nil {
		return fmt.Errorf("validating game %q: %w", c.current.Name, err)
	}

	if err := c.store.Save(c.current, true); err != nil {
		return fmt.Errorf("saving game %q: %w", c.current.Name, err)
	}

	c.logger.Info("game saved", "name", c.current.Name)
	return nil
}

// LoadGame makes the named save the current game and loads its level. A
// save without a level falls back to the default level.
func (c *Controller) LoadGame(name string) error {
	rec, err := c.store.Load(name)
	if err != nil {
		return fmt.Errorf("loading game %q: %w", name, err)
	}

	if strings.TrimSpace(rec.CurrentLevelName) == "" {
		rec.CurrentLevelName = c.defaultLevel
	}

	c.current = rec
	c.logger.Info("game loaded", "name", rec.Name, "level", rec.CurrentLevelName)

	return c.loadLevel(rec.CurrentLevelName)
}

// ReloadGame discards unsaved progress by loading the current game's save
// again.
func (c *Controller) ReloadGame() error {
	if c.current == nil {
		return ErrNoGame
	}
	return c.LoadGame(c.current.Name)
}

// DeleteGame removes the named save. The current game is left as is, even
// when it was loaded from that save.
func (c *Controller) DeleteGame(name string) error {
	if err := c.store.Delete(name); err != nil {
		return fmt.Errorf("deleting game %q: %w", name, err)
	}

	c.logger.Info("game deleted", "name", name)
	return nil
}

// LevelLoaded binds the freshly instantiated entities to the current game,
// running every binding in registration order.
func (c *Controller) LevelLoaded() {
	if c.current == nil {
		c.logger.Warn("level loaded with no game in progress, skipping bind")
		return
	}

	for _, b := range c.bindings {
		b.Bind(c.current)
		c.logger.Debug("bound entities", "kind", b.Kind, "game", c.current.Name)
	}
}

// Attach registers LevelLoaded with events. Attaching again drops the
// earlier registration first.
func (c *Controller) Attach(events LevelEvents) error {
	c.detach()

	unsub, err := events.OnLevelLoaded(c.LevelLoaded)
	if err != nil {
		return fmt.Errorf("subscribing to level events: %w", err)
	}

	c.unsubscribe = unsub
	return nil
}

// Close unregisters from level events. It is safe to call more than once.
func (c *Controller) Close() error {
	c.detach()
	return nil
}

func (c *Controller) detach() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

func (c *Controller) loadLevel(name string) error {
	if err := c.loader.LoadLevel(name); err != nil {
		return fmt.Errorf("loading level %q: %w", name, err)
	}
	return nil
}
