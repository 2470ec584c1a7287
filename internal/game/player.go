package game

import (
	"slices"

	"github.com/pixil98/go-savestate/internal/identity"
)

const DefaultHealth = 100

// Player is the live player entity for the loaded level.
type Player struct {
	id identity.ID

	Position  Vec3
	Health    int
	Inventory []string

	data *PlayerData
}

func NewPlayer(id identity.ID, pos Vec3, health int) *Player {
	if health <= 0 {
		health = DefaultHealth
	}
	return &Player{id: id, Position: pos, Health: health}
}

func (p *Player) ID() identity.ID      { return p.id }
func (p *Player) SetID(id identity.ID) { p.id = id }

// Bind attaches d to the player and applies its state.
func (p *Player) Bind(d *PlayerData) {
	p.data = d
	p.id = d.Id
	p.Position = d.Position
	p.Health = d.Health
	p.Inventory = slices.Clone(d.Inventory)
}

// Bound returns the record the player is attached to, if any.
func (p *Player) Bound() *PlayerData {
	return p.data
}

// Snapshot builds a new record from the player's current state.
func (p *Player) Snapshot() *PlayerData {
	return &PlayerData{
		Id:        p.id,
		Position:  p.Position,
		Health:    p.Health,
		Inventory: slices.Clone(p.Inventory),
	}
}

// Capture writes the player's current state into the bound record.
func (p *Player) Capture() {
	if p.data == nil {
		return
	}
	p.data.Position = p.Position
	p.data.Health = p.Health
	p.data.Inventory = slices.Clone(p.Inventory)
}
