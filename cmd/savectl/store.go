package main

import (
	"fmt"
	"iter"

	"github.com/pixil98/go-savestate/internal/game"
	"github.com/pixil98/go-savestate/internal/storage"
)

type saveStore interface {
	Load(name string) (*game.GameRecord, error)
	Delete(name string) error
	DeleteAll() error
	Exists(name string) (bool, error)
	ListSaves() iter.Seq2[string, error]
}

func openStore(path, format string) (saveStore, func(), error) {
	noop := func() {}
	switch format {
	case "json":
		s, err := storage.NewRecordStore[*game.GameRecord](path, storage.JSONSerializer{})
		return s, noop, err
	case "yaml":
		s, err := storage.NewRecordStore[*game.GameRecord](path, storage.YAMLSerializer{})
		return s, noop, err
	case "sqlite":
		s, err := storage.OpenSQLiteStore[*game.GameRecord](path, storage.JSONSerializer{})
		if err != nil {
			return nil, noop, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("unknown store format %q", format)
	}
}
