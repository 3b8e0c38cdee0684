// Package agent drives autonomous NPCs and Strangers with one shared
// policy. The two kinds differ only in thresholds and in whether they may
// claim land.
package agent

import (
	"time"

	"tileworld/internal/domain/inventory"
	"tileworld/internal/domain/world"
)

type Kind string

const (
	KindNPC      Kind = "npc"
	KindStranger Kind = "stranger"
)

type Agent struct {
	ID             string              `json:"id"`
	Kind           Kind                `json:"kind"`
	Position       world.Point         `json:"position"`
	Coins          int                 `json:"coins"`
	Inventory      inventory.Inventory `json:"inventory"`
	Health         int                 `json:"health"`
	LastActionTime time.Time           `json:"lastActionTime"`
}

func (a Agent) Clone() Agent {
	out := a
	out.Inventory = a.Inventory.Clone()
	return out
}

// Policy holds the per-kind tuning of the decision rules.
type Policy struct {
	Kind             Kind          `yaml:"-"`
	ConsumeThreshold int           `yaml:"consume_threshold"`
	ConsumeChance    float64       `yaml:"consume_chance"`
	CanClaim         bool          `yaml:"can_claim"`
	ClaimChance      float64       `yaml:"claim_chance"`
	ClaimRadius      int           `yaml:"claim_radius"`
	MoveChance       float64       `yaml:"move_chance"`
	HealthDrain      int           `yaml:"health_drain"`
	Interval         time.Duration `yaml:"interval"`
	Window           int           `yaml:"window"`
	StartingCoins    int           `yaml:"starting_coins"`
	InventorySize    int           `yaml:"inventory_size"`
}

func DefaultPolicy(kind Kind) Policy {
	if kind == KindStranger {
		return Policy{
			Kind:             KindStranger,
			ConsumeThreshold: 40,
			ConsumeChance:    0.3,
			MoveChance:       0.7,
			HealthDrain:      1,
			Interval:         5 * time.Second,
			Window:           50,
			StartingCoins:    20,
			InventorySize:    10,
		}
	}
	return Policy{
		Kind:             KindNPC,
		ConsumeThreshold: 50,
		ConsumeChance:    0.5,
		CanClaim:         true,
		ClaimChance:      0.1,
		ClaimRadius:      5,
		MoveChance:       0.5,
		HealthDrain:      1,
		Interval:         3 * time.Second,
		StartingCoins:    200,
		InventorySize:    10,
	}
}
