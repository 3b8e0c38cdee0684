package survival

import (
	"errors"
	"fmt"

	"tileworld/internal/domain/inventory"
	"tileworld/internal/domain/world"
)

var ErrBlocked = errors.New("destination blocked")

func NewPlayerState(memberID string, spawn world.Point, inventorySize, coins int) PlayerState {
	if inventorySize < inventory.MinCapacity {
		inventorySize = inventory.MinCapacity
	}
	return PlayerState{
		MemberID:  memberID,
		Position:  spawn,
		Inventory: inventory.New(inventorySize),
		Coins:     coins,
		UserColor: DefaultUserColor,
		Health:    MaxHealth,
	}
}

// Normalize repairs a loaded state: pads the inventory, clamps vitals.
func (s *PlayerState) Normalize(inventorySize int) {
	if inventorySize < inventory.MinCapacity {
		inventorySize = inventory.MinCapacity
	}
	s.Inventory = inventory.Normalize(s.Inventory, inventorySize)
	s.Health = clamp(s.Health, 0, MaxHealth)
	if s.XP < 0 {
		s.XP = 0
	}
	if s.Coins < 0 {
		s.Coins = 0
	}
	if s.UserColor == "" {
		s.UserColor = DefaultUserColor
	}
}

func (s PlayerState) Clone() PlayerState {
	out := s
	out.Inventory = s.Inventory.Clone()
	out.Areas = append([]Area(nil), s.Areas...)
	return out
}

// Move takes one step in dir when the destination is in bounds, walkable by
// terrain and not blocked by impassable resources.
func (s *PlayerState) Move(m *world.WorldMap, catalog world.Catalog, dir world.Direction) error {
	next := s.Position.Add(dir)
	tile, ok := m.At(next)
	if !ok || next == s.Position {
		return fmt.Errorf("%w: (%d,%d)", world.ErrOutOfBounds, next.X, next.Y)
	}
	if !tile.IsPassable(catalog) {
		return ErrBlocked
	}
	s.Position = next
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
