package command

import (
	"fmt"
	"log/slog"

	"github.com/pixil98/go-savestate/internal/driver"
	"github.com/pixil98/go-savestate/internal/game"
	"github.com/pixil98/go-savestate/internal/session"
	"github.com/pixil98/go-savestate/internal/world"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	server, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	store, err := cfg.Storage.BuildStore()
	if err != nil {
		return nil, fmt.Errorf("opening save store: %w", err)
	}

	levels, err := cfg.Levels.BuildCatalog()
	if err != nil {
		return nil, fmt.Errorf("loading levels: %w", err)
	}
	all := levels.GetAll()
	if err := cfg.Session.checkLevels(all); err != nil {
		return nil, err
	}
	slog.Info("levels loaded", "count", len(all))

	w := game.NewWorld()
	sessions := session.NewService(server, store, w, cfg.Session.controllerOpts()...)

	workers := service.WorkerList{
		"nats":    server,
		"world":   world.NewService(server, world.NewHost(levels, w)),
		"session": sessions,
	}

	if d, ok := cfg.autosaveInterval(); ok {
		workers["autosave"] = driver.NewDriver([]driver.Manager{sessions}, driver.WithTickLength(d))
	}

	return workers, nil
}
