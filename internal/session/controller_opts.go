package session

import "log/slog"

type ControllerOpt func(*Controller)

// WithDefaultLevel sets the level used for new games and for saves that
// carry no level.
func WithDefaultLevel(level string) ControllerOpt {
	return func(c *Controller) {
		c.defaultLevel = level
	}
}

// WithNewGameName sets the record name given to new games.
func WithNewGameName(name string) ControllerOpt {
	return func(c *Controller) {
		c.newGameName = name
	}
}

func WithLogger(l *slog.Logger) ControllerOpt {
	return func(c *Controller) {
		c.logger = l
	}
}
