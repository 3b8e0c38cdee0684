package agent

import (
	"time"

	"tileworld/internal/domain/crafting"
	"tileworld/internal/domain/economy"
	"tileworld/internal/domain/world"
)

// Roller is the randomness the policy draws from. *rand.Rand satisfies it.
type Roller interface {
	Float64() float64
	IntN(n int) int
}

// Env is the shared world an agent acts on during a pass.
type Env struct {
	Map      *world.WorldMap
	Economy  economy.Service
	Crafting crafting.Service
	Rand     Roller
	Now      time.Time
}

type Action string

const (
	ActionIdle    Action = "idle"
	ActionConsume Action = "consume"
	ActionClaim   Action = "claim"
	ActionGather  Action = "gather"
	ActionMove    Action = "move"
)

type StepResult struct {
	Action     Action      `json:"action"`
	Target     world.Point `json:"target"`
	Resource   string      `json:"resource,omitempty"`
	MapChanged bool        `json:"mapChanged"`
}

// Step evaluates one tick for a. Rules run in priority order and the first
// one that acts ends the tick.
func Step(a *Agent, p Policy, env Env) StepResult {
	a.LastActionTime = env.Now
	if res, ok := tryConsume(a, p, env); ok {
		return res
	}
	res := decide(a, p, env)
	a.Health -= p.HealthDrain
	if a.Health < 0 {
		a.Health = 0
	}
	return res
}

func decide(a *Agent, p Policy, env Env) StepResult {
	if p.CanClaim && env.Rand.Float64() < p.ClaimChance {
		if res, ok := tryClaim(a, p, env); ok {
			return res
		}
	}
	if res, ok := tryGather(a, p, env); ok {
		return res
	}
	if env.Rand.Float64() < p.MoveChance {
		if res, ok := tryMove(a, p, env); ok {
			return res
		}
	}
	return StepResult{Action: ActionIdle, Target: a.Position}
}

func tryConsume(a *Agent, p Policy, env Env) (StepResult, bool) {
	if a.Health >= p.ConsumeThreshold {
		return StepResult{}, false
	}
	if env.Rand.Float64() >= p.ConsumeChance {
		return StepResult{}, false
	}
	id, ok := env.Crafting.FirstHealingItem(a.Inventory)
	if !ok {
		return StepResult{}, false
	}
	res, err := env.Crafting.Consume(id, a.Inventory, a.Health, 0)
	if err != nil {
		return StepResult{}, false
	}
	a.Inventory = res.Inventory
	a.Health = res.Health
	return StepResult{Action: ActionConsume, Target: a.Position, Resource: id}, true
}

func tryClaim(a *Agent, p Policy, env Env) (StepResult, bool) {
	var preferred, rest []world.Point
	for _, pt := range env.Map.Window(a.Position, p.ClaimRadius) {
		tile, _ := env.Map.At(pt)
		if tile.IsClaimed() || !tile.IsWalkable() {
			continue
		}
		if env.Economy.TileValue(tile) > a.Coins {
			continue
		}
		if len(tile.Resources) > 0 {
			preferred = append(preferred, pt)
		} else {
			rest = append(rest, pt)
		}
	}
	candidates := preferred
	if len(candidates) == 0 {
		candidates = rest
	}
	if len(candidates) == 0 {
		return StepResult{}, false
	}
	pt := candidates[env.Rand.IntN(len(candidates))]
	res, err := env.Economy.Claim(env.Map, pt, a.ID, a.Coins, a.Inventory)
	if err != nil {
		return StepResult{}, false
	}
	a.Coins = res.NewBalance
	return StepResult{Action: ActionClaim, Target: pt, MapChanged: true}, true
}

func tryGather(a *Agent, p Policy, env Env) (StepResult, bool) {
	var pt world.Point
	if p.CanClaim {
		var owned []world.Point
		env.Map.Each(func(at world.Point, t *world.MapTile) {
			if t.ClaimedBy == a.ID && len(t.GatherableResources()) > 0 {
				owned = append(owned, at)
			}
		})
		if len(owned) == 0 {
			return StepResult{}, false
		}
		pt = owned[env.Rand.IntN(len(owned))]
	} else {
		pt = a.Position
	}
	tile, ok := env.Map.At(pt)
	if !ok {
		return StepResult{}, false
	}
	if tile.IsClaimed() && tile.ClaimedBy != a.ID {
		return StepResult{}, false
	}
	gatherable := tile.GatherableResources()
	if len(gatherable) == 0 {
		return StepResult{}, false
	}
	id := gatherable[env.Rand.IntN(len(gatherable))]
	if _, err := env.Economy.Gather(env.Map, pt, id, a.ID, a.Inventory); err != nil {
		return StepResult{}, false
	}
	return StepResult{Action: ActionGather, Target: pt, Resource: id, MapChanged: true}, true
}

func tryMove(a *Agent, p Policy, env Env) (StepResult, bool) {
	var preferred, rest []world.Point
	for _, pt := range env.Map.Neighbors(a.Position) {
		tile, _ := env.Map.At(pt)
		if !tile.IsPassable(env.Economy.Catalog) {
			continue
		}
		good := !tile.IsClaimed()
		if !p.CanClaim {
			good = len(tile.GatherableResources()) > 0
		}
		if good {
			preferred = append(preferred, pt)
		} else {
			rest = append(rest, pt)
		}
	}
	candidates := preferred
	if len(candidates) == 0 {
		candidates = rest
	}
	if len(candidates) == 0 {
		return StepResult{}, false
	}
	a.Position = candidates[env.Rand.IntN(len(candidates))]
	return StepResult{Action: ActionMove, Target: a.Position}, true
}
