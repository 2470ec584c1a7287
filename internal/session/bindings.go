package session

import (
	"github.com/pixil98/go-savestate/internal/binding"
	"github.com/pixil98/go-savestate/internal/game"
)

// Binding reconciles one kind of live entity with its slot in the game
// record. The composition root supplies the list; the controller runs it
// in order after every level load.
type Binding struct {
	Kind string
	Bind func(*game.GameRecord)
}

// BindSingle builds a Binding for a kind with at most one live instance,
// stored in the record field returned by slot.
func BindSingle[R binding.Saveable, E binding.Bindable[R]](
	kind string,
	find func() (E, bool),
	slot func(*game.GameRecord) *R,
	newRecord func(E) R,
) Binding {
	return Binding{
		Kind: kind,
		Bind: func(rec *game.GameRecord) {
			entity, ok := find()
			data := slot(rec)
			*data = binding.One(entity, ok, *data, newRecord)
		},
	}
}

// BindCollection builds a Binding for a kind with any number of live
// instances, stored in the record list returned by slot.
func BindCollection[R binding.Saveable, E binding.Bindable[R]](
	kind string,
	find func() []E,
	slot func(*game.GameRecord) *[]R,
	newRecord func(E) R,
) Binding {
	return Binding{
		Kind: kind,
		Bind: func(rec *game.GameRecord) {
			records := slot(rec)
			*records = binding.Many(find(), *records, newRecord)
		},
	}
}

// WorldBindings is the standard registry for the entities a game.World
// knows about: the player first, then chests.
func WorldBindings(w *game.World) []Binding {
	return []Binding{
		BindSingle("player", w.Player,
			func(g *game.GameRecord) **game.PlayerData { return &g.PlayerData },
			(*game.Player).Snapshot),
		BindCollection("chest", w.Chests,
			func(g *game.GameRecord) *[]*game.ChestData { return &g.Chests },
			(*game.Chest).Snapshot),
	}
}
