package game

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-savestate/internal/identity"
)

// Level describes what a level instantiates when it loads. Entity ids are
// fixed here so the same chest is the same chest across every load.
type Level struct {
	Title  string       `json:"title"`
	Player *PlayerSpawn `json:"player,omitempty"`
	Chests []ChestSpawn `json:"chests,omitempty"`
}

type PlayerSpawn struct {
	Id       identity.ID `json:"id"`
	Position Vec3        `json:"position"`
	Health   int         `json:"health,omitempty"`
}

type ChestSpawn struct {
	Id       identity.ID `json:"id"`
	Contents []string    `json:"contents,omitempty"`
}

// Validate satisfies storage.ValidatingSpec. Chest ids must be unique
// within a level; binding relies on it.
func (l *Level) Validate() error {
	el := errors.NewErrorList()

	if l.Player != nil && l.Player.Id.IsZero() {
		el.Add(fmt.Errorf("player id is required"))
	}

	seen := map[identity.ID]bool{}
	for i, c := range l.Chests {
		if c.Id.IsZero() {
			el.Add(fmt.Errorf("chest %d: id is required", i))
			continue
		}
		if seen[c.Id] {
			el.Add(fmt.Errorf("chest %d: duplicate id %s", i, c.Id))
		}
		seen[c.Id] = true
	}

	return el.Err()
}

// Spawn instantiates the level's live entities. The player is nil when the
// level has none.
func (l *Level) Spawn() (*Player, []*Chest) {
	var p *Player
	if l.Player != nil {
		p = NewPlayer(l.Player.Id, l.Player.Position, l.Player.Health)
	}

	chests := make([]*Chest, 0, len(l.Chests))
	for _, c := range l.Chests {
		chests = append(chests, NewChest(c.Id, c.Contents))
	}

	return p, chests
}
