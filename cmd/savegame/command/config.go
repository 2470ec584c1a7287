package command

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-savestate/internal/game"
	"github.com/pixil98/go-savestate/internal/session"
	"github.com/pixil98/go-savestate/internal/storage"
)

type Config struct {
	// Autosave is how often the game in progress is saved; empty disables it
	Autosave string        `json:"autosave"`
	Storage  StorageConfig `json:"storage"`
	Levels   LevelsConfig  `json:"levels"`
	Session  SessionConfig `json:"session"`
	Nats     NatsConfig    `json:"nats"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if c.Autosave != "" {
		d, err := time.ParseDuration(c.Autosave)
		if err != nil {
			el.Add(fmt.Errorf("parsing autosave: %w", err))
		} else if d < time.Second {
			el.Add(fmt.Errorf("autosave must be at least 1 second"))
		}
	}

	el.Add(c.Storage.validate())
	el.Add(c.Levels.validate())
	el.Add(c.Nats.validate())

	return el.Err()
}

func (c *Config) autosaveInterval() (time.Duration, bool) {
	if c.Autosave == "" {
		return 0, false
	}
	d, err := time.ParseDuration(c.Autosave)
	if err != nil {
		return 0, false
	}
	return d, true
}

type SessionConfig struct {
	DefaultLevel string `json:"default_level"`
	NewGameName  string `json:"new_game_name"`
}

func (c *SessionConfig) controllerOpts() []session.ControllerOpt {
	var opts []session.ControllerOpt
	if c.DefaultLevel != "" {
		opts = append(opts, session.WithDefaultLevel(c.DefaultLevel))
	}
	if c.NewGameName != "" {
		opts = append(opts, session.WithNewGameName(c.NewGameName))
	}
	return opts
}

// checkLevels fails when the level new games start on is not among the
// loaded levels.
func (c *SessionConfig) checkLevels(levels map[storage.Identifier]*game.Level) error {
	level := c.DefaultLevel
	if level == "" {
		level = game.DefaultLevel
	}
	if _, ok := levels[storage.Identifier(level)]; ok {
		return nil
	}

	ids := slices.Sorted(maps.Keys(levels))
	return fmt.Errorf("%w: default level %q not in %v", game.ErrLevelNotFound, level, ids)
}
