package game

import (
	"fmt"
	"strings"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-savestate/internal/identity"
	"github.com/pixil98/go-savestate/internal/storage"
)

const (
	// DefaultGameName names the record created by a new game.
	DefaultGameName = "New Game"

	// DefaultLevel is loaded for new games and for saves without a level.
	DefaultLevel = "Demo"
)

// GameRecord is the root unit persisted for a save slot.
type GameRecord struct {
	// Name is the save slot name and the record's storage key
	Name string `json:"name" yaml:"name"`

	// CurrentLevelName is the level to load when the save is restored
	CurrentLevelName string `json:"current_level_name" yaml:"current_level_name"`

	PlayerData *PlayerData  `json:"player_data,omitempty" yaml:"player_data,omitempty"`
	Chests     []*ChestData `json:"chests,omitempty" yaml:"chests,omitempty"`

	// Ext holds world flags owned by game logic (quest progress, visit counts, ...)
	Ext storage.ExtensionState `json:"ext,omitempty" yaml:"ext,omitempty"`
}

// NewGameRecord returns an empty record for a fresh game.
func NewGameRecord(name, level string) *GameRecord {
	return &GameRecord{
		Name:             name,
		CurrentLevelName: level,
	}
}

// RecordName satisfies storage.Record.
func (g *GameRecord) RecordName() string {
	return g.Name
}

func (g *GameRecord) Validate() error {
	el := errors.NewErrorList()

	if strings.TrimSpace(g.Name) == "" {
		el.Add(fmt.Errorf("name is required"))
	}

	seen := map[identity.ID]bool{}
	for i, c := range g.Chests {
		if c == nil {
			el.Add(fmt.Errorf("chest %d is empty", i))
			continue
		}
		if seen[c.Id] {
			el.Add(fmt.Errorf("chest %d: duplicate id %s", i, c.Id))
		}
		seen[c.Id] = true
	}

	return el.Err()
}

// Vec3 is a position in level space.
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// PlayerData is the persisted state of the player entity.
type PlayerData struct {
	Id        identity.ID `json:"id" yaml:"id"`
	Position  Vec3        `json:"position" yaml:"position"`
	Health    int         `json:"health" yaml:"health"`
	Inventory []string    `json:"inventory,omitempty" yaml:"inventory,omitempty"`
}

func (d *PlayerData) ID() identity.ID      { return d.Id }
func (d *PlayerData) SetID(id identity.ID) { d.Id = id }

// ChestData is the persisted state of one chest.
type ChestData struct {
	Id       identity.ID `json:"id" yaml:"id"`
	Opened   bool        `json:"opened" yaml:"opened"`
	Contents []string    `json:"contents,omitempty" yaml:"contents,omitempty"`
}

func (d *ChestData) ID() identity.ID      { return d.Id }
func (d *ChestData) SetID(id identity.ID) { d.Id = id }
