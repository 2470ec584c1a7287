package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Catalog is a read-only set of versioned assets loaded once from a
// directory tree of .json files. Level definitions live here; save games
// do not.
type Catalog[T ValidatingSpec] struct {
	path    string
	records map[Identifier]T

	mu sync.RWMutex
}

func NewCatalog[T ValidatingSpec](path string) (*Catalog[T], error) {
	c := &Catalog[T]{
		path:    path,
		records: map[Identifier]T{},
	}

	err := c.load()
	if err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Catalog[T]) load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records = map[Identifier]T{}

	err := filepath.Walk(c.path, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		asset, err := c.loadAsset(path)
		if err != nil {
			return fmt.Errorf("loading %s: %w", filepath.Base(path), err)
		}

		err = asset.Validate()
		if err != nil {
			return fmt.Errorf("validating %s: %w", filepath.Base(path), err)
		}

		// Error if the key is already in use
		if _, ok := c.records[asset.Id()]; ok {
			return fmt.Errorf("duplicate key detected: %s", asset.Id())
		}

		c.records[asset.Id()] = asset.Spec
		return nil
	})
	if err != nil {
		return fmt.Errorf("walking catalog %s: %w", c.path, err)
	}

	return nil
}

// Get returns the asset with the given id.
func (c *Catalog[T]) Get(id Identifier) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	val, ok := c.records[id]
	return val, ok
}

// GetAll returns a copy of every loaded asset keyed by id.
func (c *Catalog[T]) GetAll() map[Identifier]T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	vals := make(map[Identifier]T, len(c.records))
	for id, v := range c.records {
		vals[id] = v
	}

	return vals
}

func (c *Catalog[T]) loadAsset(path string) (*Asset[T], error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}

	// Ignoring close error - file is read-only, error is not actionable
	defer func() { _ = file.Close() }()

	jsonData, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	asset := &Asset[T]{}
	err = json.Unmarshal(jsonData, asset)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling asset: %w", err)
	}

	return asset, nil
}
