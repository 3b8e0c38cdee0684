package crafting

import (
	"errors"
	"fmt"

	"tileworld/internal/domain/inventory"
	"tileworld/internal/domain/world"
)

var (
	ErrNoItem        = errors.New("no item in hand")
	ErrInvalidItem   = errors.New("item cannot be used on tiles")
	ErrNothingUsable = errors.New("nothing on the tile to use this on")
	ErrWrongTool     = errors.New("wrong tool for this resource")
)

type ToolOutcome string

const (
	OutcomeTerraformed ToolOutcome = "terraformed"
	OutcomeDamaged     ToolOutcome = "damaged"
	OutcomeDestroyed   ToolOutcome = "destroyed"
)

type ToolResult struct {
	Target    world.Point         `json:"target"`
	Tile      world.MapTile       `json:"tile"`
	Inventory inventory.Inventory `json:"inventory"`
	Outcome   ToolOutcome         `json:"outcome"`
	Resource  string              `json:"resource,omitempty"`
	LifeLeft  int                 `json:"lifeLeft"`
	Yield     map[string]int      `json:"yield,omitempty"`
	ToolBroke bool                `json:"toolBroke"`
	Message   string              `json:"message"`
}

// ApplyTool uses the item in slot on the tile one step from actor in dir.
// The map and inventory are left untouched; the caller commits Tile at
// Target and the returned Inventory.
func (s Service) ApplyTool(m *world.WorldMap, actor world.Point, dir world.Direction, slot int, inv inventory.Inventory) (ToolResult, error) {
	held, err := inv.Slot(slot)
	if err != nil || held.IsEmpty() {
		return ToolResult{}, ErrNoItem
	}
	tool, ok := s.Catalog.Get(held.ResourceID)
	if !ok || (!tool.ProduceTile && !tool.CanInflictDamage) {
		return ToolResult{}, ErrInvalidItem
	}
	dx, dy := dir.Delta()
	target := actor.Add(dir)
	current, ok := m.At(target)
	if !ok || (dx == 0 && dy == 0) {
		return ToolResult{}, fmt.Errorf("%w: (%d,%d)", world.ErrOutOfBounds, target.X, target.Y)
	}

	if tool.ProduceTile && len(current.Resources) == 0 {
		return s.terraform(tool, target, current, slot, inv)
	}
	return s.damage(tool, target, current, slot, inv)
}

func (s Service) terraform(tool world.Resource, target world.Point, current world.MapTile, slot int, inv inventory.Inventory) (ToolResult, error) {
	if current.Type == tool.ProduceTileType {
		return ToolResult{}, ErrNothingUsable
	}
	tile := current.Clone()
	from := tile.Type
	tile.SetType(tool.ProduceTileType)
	next := inv.Clone()
	broke, _ := next.Wear(slot, toolWear(tool, 0))
	return ToolResult{
		Target:    target,
		Tile:      tile,
		Inventory: next,
		Outcome:   OutcomeTerraformed,
		ToolBroke: broke,
		Message:   fmt.Sprintf("Turned %s into %s", from, tile.Type),
	}, nil
}

func (s Service) damage(tool world.Resource, target world.Point, current world.MapTile, slot int, inv inventory.Inventory) (ToolResult, error) {
	if len(current.Resources) == 0 {
		return ToolResult{}, ErrNothingUsable
	}
	var victim world.Resource
	found, destructible := false, false
	for _, id := range current.Resources {
		r, ok := s.Catalog.Get(id)
		if !ok || !r.Destructible {
			continue
		}
		destructible = true
		if r.DestroyableBy(tool.ID) {
			victim, found = r, true
			break
		}
	}
	if !destructible {
		return ToolResult{}, ErrNothingUsable
	}
	if !found || tool.Damage <= 0 {
		return ToolResult{}, ErrWrongTool
	}

	tile := current.Clone()
	next := inv.Clone()
	broke, _ := next.Wear(slot, toolWear(tool, tool.Damage))

	life := tile.LifeOf(victim) - tool.Damage
	if life > 0 {
		tile.SetLife(victim.ID, life)
		return ToolResult{
			Target:    target,
			Tile:      tile,
			Inventory: next,
			Outcome:   OutcomeDamaged,
			Resource:  victim.ID,
			LifeLeft:  life,
			ToolBroke: broke,
			Message:   fmt.Sprintf("Hit %s (%d/%d)", victim.Name, life, victim.MaxLife),
		}, nil
	}

	tile.RemoveResource(victim.ID)
	yield := map[string]int{}
	for _, in := range breakdown(victim) {
		if got := next.Deposit(in.ResourceID, in.Quantity); got < in.Quantity {
			return ToolResult{}, inventory.ErrInventoryFull
		}
		yield[in.ResourceID] += in.Quantity
	}
	return ToolResult{
		Target:    target,
		Tile:      tile,
		Inventory: next,
		Outcome:   OutcomeDestroyed,
		Resource:  victim.ID,
		Yield:     yield,
		ToolBroke: broke,
		Message:   fmt.Sprintf("Destroyed %s", victim.Name),
	}, nil
}

// breakdown returns the first recipe's ingredients in recipe order, or the
// resource itself when it has no recipe.
func breakdown(r world.Resource) []world.Ingredient {
	rec, ok := r.FirstRecipe()
	if !ok {
		return []world.Ingredient{{ResourceID: r.ID, Quantity: 1}}
	}
	return rec.Ingredients
}

func toolWear(tool world.Resource, dealt int) int {
	if tool.UseLife || tool.ProduceTile {
		return tool.LifeDecreasePerUse
	}
	return dealt
}
