package command

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-savestate/internal/game"
	"github.com/pixil98/go-savestate/internal/session"
	"github.com/pixil98/go-savestate/internal/storage"
)

type StorageFormat string

const (
	FormatJSON   StorageFormat = "json"
	FormatYAML   StorageFormat = "yaml"
	FormatSQLite StorageFormat = "sqlite"
)

// StorageConfig picks where saves live. Path is a directory for the file
// formats and a database file for sqlite.
type StorageConfig struct {
	Path   string        `json:"path"`
	Format StorageFormat `json:"format"`
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()

	if c.Path == "" {
		el.Add(fmt.Errorf("storage: path is required"))
	}

	switch c.Format {
	case "", FormatJSON, FormatYAML, FormatSQLite:
	default:
		el.Add(fmt.Errorf("storage: unknown format %q", c.Format))
	}

	return el.Err()
}

// BuildStore opens the configured save store.
func (c *StorageConfig) BuildStore() (session.SaveStore, error) {
	switch c.Format {
	case "", FormatJSON:
		return storage.NewRecordStore[*game.GameRecord](c.Path, storage.JSONSerializer{})
	case FormatYAML:
		return storage.NewRecordStore[*game.GameRecord](c.Path, storage.YAMLSerializer{})
	case FormatSQLite:
		return storage.OpenSQLiteStore[*game.GameRecord](c.Path, storage.JSONSerializer{})
	default:
		return nil, fmt.Errorf("unknown storage format %q", c.Format)
	}
}

type LevelsConfig struct {
	Path string `json:"path"`
}

func (c *LevelsConfig) validate() error {
	if c.Path == "" {
		return fmt.Errorf("levels: path is required")
	}
	info, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("levels: invalid path %q: %w", c.Path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("levels: %q is not a directory", filepath.Clean(c.Path))
	}

	return nil
}

func (c *LevelsConfig) BuildCatalog() (*storage.Catalog[*game.Level], error) {
	return storage.NewCatalog[*game.Level](c.Path)
}
