package survival

import (
	"time"

	"tileworld/internal/domain/inventory"
	"tileworld/internal/domain/world"
)

// PlayerState is the durable per-member state of one world.
type PlayerState struct {
	MemberID    string              `json:"memberId"`
	Position    world.Point         `json:"position"`
	Inventory   inventory.Inventory `json:"inventory"`
	Coins       int                 `json:"coins"`
	UserColor   string              `json:"userColor"`
	Health      int                 `json:"health"`
	XP          int                 `json:"xp"`
	Sovereignty string              `json:"sovereignty,omitempty"`
	Areas       []Area              `json:"areas,omitempty"`
	DecayHours  int64               `json:"decayHours"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// Area is a named rectangle a player has marked on the map.
type Area struct {
	Name string      `json:"name"`
	From world.Point `json:"from"`
	To   world.Point `json:"to"`
}

type DecayRates struct {
	HealthPerHour int `json:"healthPerHour" yaml:"health_per_hour"`
	XPPerHour     int `json:"xpPerHour" yaml:"xp_per_hour"`
}

func DefaultDecayRates() DecayRates {
	return DecayRates{HealthPerHour: DefaultHealthDecayPerHour, XPPerHour: DefaultXPPerHour}
}
