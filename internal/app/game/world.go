package game

import (
	"time"

	"tileworld/internal/domain/agent"
	"tileworld/internal/domain/crafting"
	"tileworld/internal/domain/economy"
	"tileworld/internal/domain/survival"
	"tileworld/internal/domain/world"
)

// GameWorld is the aggregate owned by the engine goroutine. Nothing outside
// the engine loop holds a reference to it.
type GameWorld struct {
	ID            string
	Map           *world.WorldMap
	Catalog       world.Catalog
	Clock         world.Clock
	Player        survival.PlayerState
	Members       []string
	Settings      agent.Settings
	NPCs          []agent.Agent
	Strangers     []agent.Agent
	BaseLandValue int
}

func (w *GameWorld) economy() economy.Service {
	return economy.NewService(w.Catalog, w.BaseLandValue)
}

// playerEconomy refuses collections that do not fit the inventory.
func (w *GameWorld) playerEconomy() economy.Service {
	svc := w.economy()
	svc.StrictDeposit = true
	return svc
}

func (w *GameWorld) crafting() crafting.Service {
	return crafting.NewService(w.Catalog)
}

func (w *GameWorld) env(rng agent.Roller, now time.Time) agent.Env {
	return agent.Env{
		Map:      w.Map,
		Economy:  w.economy(),
		Crafting: w.crafting(),
		Rand:     rng,
		Now:      now,
	}
}

func (w *GameWorld) population(kind agent.Kind) *[]agent.Agent {
	if kind == agent.KindStranger {
		return &w.Strangers
	}
	return &w.NPCs
}

func (w *GameWorld) hasMember(id string) bool {
	for _, m := range w.Members {
		if m == id {
			return true
		}
	}
	return false
}

type AgentView struct {
	ID       string      `json:"id"`
	Kind     agent.Kind  `json:"kind"`
	Position world.Point `json:"position"`
	Health   int         `json:"health"`
	Coins    int         `json:"coins"`
}

type TileView struct {
	Position world.Point   `json:"position"`
	Tile     world.MapTile `json:"tile"`
}

// StateView is a read-only copy of what a player sees.
type StateView struct {
	WorldID    string               `json:"worldId"`
	Width      int                  `json:"width"`
	Height     int                  `json:"height"`
	SpawnPoint world.Point          `json:"spawnPoint"`
	CreatedAt  time.Time            `json:"createdAt"`
	WorldHours int64                `json:"worldHours"`
	Player     survival.PlayerState `json:"player"`
	Members    []string             `json:"members"`
	Settings   agent.Settings       `json:"agentSettings"`
	Agents     []AgentView          `json:"agents"`
	Nearby     []TileView           `json:"nearby"`
}

func (w *GameWorld) view(now time.Time, radius int) StateView {
	out := StateView{
		WorldID:    w.ID,
		Width:      w.Map.Width,
		Height:     w.Map.Height,
		SpawnPoint: w.Map.SpawnPoint,
		CreatedAt:  w.Clock.CreatedAt,
		WorldHours: w.Clock.HoursAt(now),
		Player:     w.Player.Clone(),
		Members:    append([]string(nil), w.Members...),
		Settings:   w.Settings,
		Agents:     make([]AgentView, 0, len(w.NPCs)+len(w.Strangers)),
	}
	for _, pop := range [][]agent.Agent{w.NPCs, w.Strangers} {
		for _, a := range pop {
			out.Agents = append(out.Agents, AgentView{ID: a.ID, Kind: a.Kind, Position: a.Position, Health: a.Health, Coins: a.Coins})
		}
	}
	for _, p := range w.Map.Window(w.Player.Position, radius) {
		tile, _ := w.Map.At(p)
		out.Nearby = append(out.Nearby, TileView{Position: p, Tile: tile.Clone()})
	}
	return out
}
