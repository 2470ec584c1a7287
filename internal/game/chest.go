package game

import (
	"slices"

	"github.com/pixil98/go-savestate/internal/identity"
)

// Chest is a live container placed by a level.
type Chest struct {
	id identity.ID

	Opened   bool
	Contents []string

	data *ChestData
}

func NewChest(id identity.ID, contents []string) *Chest {
	return &Chest{id: id, Contents: slices.Clone(contents)}
}

func (c *Chest) ID() identity.ID      { return c.id }
func (c *Chest) SetID(id identity.ID) { c.id = id }

func (c *Chest) Bind(d *ChestData) {
	c.data = d
	c.id = d.Id
	c.Opened = d.Opened
	c.Contents = slices.Clone(d.Contents)
}

func (c *Chest) Bound() *ChestData {
	return c.data
}

func (c *Chest) Snapshot() *ChestData {
	return &ChestData{
		Id:       c.id,
		Opened:   c.Opened,
		Contents: slices.Clone(c.Contents),
	}
}

func (c *Chest) Capture() {
	if c.data == nil {
		return
	}
	c.data.Opened = c.Opened
	c.data.Contents = slices.Clone(c.Contents)
}

// Loot opens the chest and moves its contents into the player's inventory.
func (c *Chest) Loot(p *Player) {
	c.Opened = true
	p.Inventory = append(p.Inventory, c.Contents...)
	c.Contents = nil
}
