package agent

import (
	"math"
	"time"

	"github.com/google/uuid"

	"tileworld/internal/domain/inventory"
	"tileworld/internal/domain/world"
)

// Settings are the durable population knobs of a world. Individual agents
// are never persisted.
type Settings struct {
	NPCEnabled      bool    `json:"npcEnabled"`
	NPCCount        int     `json:"npcCount"`
	StrangerEnabled bool    `json:"strangerEnabled"`
	StrangerDensity float64 `json:"strangerDensity"`
}

// StrangerCount converts a density per walkable tile into a head count.
func StrangerCount(density float64, walkable int) int {
	if density <= 0 || walkable <= 0 {
		return 0
	}
	return int(math.Round(density * float64(walkable)))
}

// Regenerate sizes a population to count. Growth keeps existing agents and
// appends new ones; anything else discards the population and places a new
// one at random.
func Regenerate(existing []Agent, enabled bool, count int, p Policy, m *world.WorldMap, rng Roller, now time.Time) []Agent {
	if !enabled || count <= 0 || m == nil {
		return nil
	}
	if len(existing) > 0 && count >= len(existing) {
		return append(existing, Spawn(count-len(existing), p, m, rng, now)...)
	}
	return Spawn(count, p, m, rng, now)
}

// Spawn places n new agents of p.Kind on random passable tiles.
func Spawn(n int, p Policy, m *world.WorldMap, rng Roller, now time.Time) []Agent {
	if n <= 0 {
		return nil
	}
	var open []world.Point
	m.Each(func(pt world.Point, t *world.MapTile) {
		if t.IsWalkable() {
			open = append(open, pt)
		}
	})
	if len(open) == 0 {
		return nil
	}
	size := p.InventorySize
	if size <= 0 {
		size = 10
	}
	out := make([]Agent, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Agent{
			ID:             string(p.Kind) + "-" + uuid.NewString(),
			Kind:           p.Kind,
			Position:       open[rng.IntN(len(open))],
			Coins:          p.StartingCoins,
			Inventory:      inventory.New(size),
			Health:         100,
			LastActionTime: now,
		})
	}
	return out
}
