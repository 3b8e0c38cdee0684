package game

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tileworld/internal/domain/agent"
	"tileworld/internal/domain/crafting"
	"tileworld/internal/domain/economy"
	"tileworld/internal/domain/survival"
	"tileworld/internal/domain/world"
)

// State returns a copy of the player's view of the world.
func (e *Engine) State(ctx context.Context) (StateView, error) {
	var out StateView
	err := e.do(ctx, func(w *GameWorld, now time.Time) error {
		out = w.view(now, e.cfg.ViewRadius)
		return nil
	})
	return out, err
}

// Map returns a copy of the whole map.
func (e *Engine) Map(ctx context.Context) (*world.WorldMap, error) {
	var out *world.WorldMap
	err := e.do(ctx, func(w *GameWorld, _ time.Time) error {
		out = w.Map.Clone()
		return nil
	})
	return out, err
}

func (e *Engine) Catalog(ctx context.Context) ([]world.Resource, error) {
	var out []world.Resource
	err := e.do(ctx, func(w *GameWorld, _ time.Time) error {
		out = w.Catalog.All()
		return nil
	})
	return out, err
}

func (e *Engine) Move(ctx context.Context, dir world.Direction) (world.Point, error) {
	var out world.Point
	err := e.act(ctx, "move", func(w *GameWorld, _ time.Time) (change, error) {
		if err := w.Player.Move(w.Map, w.Catalog, dir); err != nil {
			return 0, err
		}
		out = w.Player.Position
		return changedPlayer, nil
	})
	return out, err
}

func (e *Engine) Claim(ctx context.Context, p world.Point) (economy.ClaimResult, error) {
	var out economy.ClaimResult
	err := e.act(ctx, "claim", func(w *GameWorld, _ time.Time) (change, error) {
		res, err := w.playerEconomy().Claim(w.Map, p, w.Player.MemberID, w.Player.Coins, w.Player.Inventory)
		if err != nil {
			return 0, err
		}
		w.Player.Coins = res.NewBalance
		out = res
		return changedMap | changedPlayer, nil
	})
	return out, err
}

// ClaimArea claims every claimable tile of the rectangle spanned by from and
// to, or none of them.
func (e *Engine) ClaimArea(ctx context.Context, from, to world.Point) (economy.BulkClaimResult, error) {
	var out economy.BulkClaimResult
	err := e.act(ctx, "claim_many", func(w *GameWorld, _ time.Time) (change, error) {
		res, err := w.playerEconomy().ClaimMany(w.Map, economy.Rect(from, to, w.Map.Width, w.Map.Height), w.Player.MemberID, w.Player.Coins, w.Player.Inventory)
		if err != nil {
			return 0, err
		}
		w.Player.Coins = res.NewBalance
		out = res
		if res.Count == 0 {
			return 0, nil
		}
		return changedMap | changedPlayer, nil
	})
	return out, err
}

// Gather picks one unit up for the player. Unlike agents, a player with no
// room gets ErrInventoryFull and the tile keeps the unit.
func (e *Engine) Gather(ctx context.Context, p world.Point, resourceID string) error {
	return e.act(ctx, "gather", func(w *GameWorld, _ time.Time) (change, error) {
		if _, err := w.playerEconomy().Gather(w.Map, p, resourceID, w.Player.MemberID, w.Player.Inventory); err != nil {
			return 0, err
		}
		return changedMap | changedPlayer, nil
	})
}

func (e *Engine) Place(ctx context.Context, p world.Point, slot int) (string, error) {
	var out string
	err := e.act(ctx, "place", func(w *GameWorld, _ time.Time) (change, error) {
		id, err := w.playerEconomy().Place(w.Map, p, slot, w.Player.Inventory)
		if err != nil {
			return 0, err
		}
		out = id
		return changedMap | changedPlayer, nil
	})
	return out, err
}

func (e *Engine) Craft(ctx context.Context, resourceID, recipeID string) (crafting.CraftResult, error) {
	var out crafting.CraftResult
	err := e.act(ctx, "craft", func(w *GameWorld, _ time.Time) (change, error) {
		res, err := w.crafting().Craft(resourceID, recipeID, w.Player.Inventory)
		if err != nil {
			return 0, err
		}
		w.Player.Inventory = res.Inventory
		out = res
		out.Inventory = res.Inventory.Clone()
		return changedPlayer, nil
	})
	return out, err
}

func (e *Engine) Consume(ctx context.Context, resourceID string) (crafting.ConsumeResult, error) {
	var out crafting.ConsumeResult
	err := e.act(ctx, "consume", func(w *GameWorld, _ time.Time) (change, error) {
		res, err := w.crafting().Consume(resourceID, w.Player.Inventory, w.Player.Health, w.Player.XP)
		if err != nil {
			return 0, err
		}
		w.Player.Inventory = res.Inventory
		w.Player.Health = res.Health
		w.Player.XP = res.XP
		out = res
		out.Inventory = res.Inventory.Clone()
		return changedPlayer, nil
	})
	return out, err
}

// UseTool applies the item in slot to the tile next to the player.
func (e *Engine) UseTool(ctx context.Context, dir world.Direction, slot int) (crafting.ToolResult, error) {
	var out crafting.ToolResult
	err := e.act(ctx, "use_tool", func(w *GameWorld, _ time.Time) (change, error) {
		res, err := w.crafting().ApplyTool(w.Map, w.Player.Position, dir, slot, w.Player.Inventory)
		if err != nil {
			return 0, err
		}
		if err := w.Map.Set(res.Target, res.Tile); err != nil {
			return 0, err
		}
		w.Player.Inventory = res.Inventory
		out = res
		out.Inventory = res.Inventory.Clone()
		return changedMap | changedPlayer, nil
	})
	return out, err
}

func (e *Engine) Buy(ctx context.Context, resourceID string, qty int) (economy.TradeResult, error) {
	var out economy.TradeResult
	err := e.act(ctx, "buy", func(w *GameWorld, _ time.Time) (change, error) {
		res, err := w.playerEconomy().Buy(resourceID, qty, w.Player.Coins, w.Player.Inventory)
		if err != nil {
			return 0, err
		}
		w.Player.Coins = res.NewBalance
		out = res
		return changedPlayer, nil
	})
	return out, err
}

func (e *Engine) Sell(ctx context.Context, resourceID string, qty int) (economy.TradeResult, error) {
	var out economy.TradeResult
	err := e.act(ctx, "sell", func(w *GameWorld, _ time.Time) (change, error) {
		res, err := w.playerEconomy().Sell(resourceID, qty, w.Player.Coins, w.Player.Inventory)
		if err != nil {
			return 0, err
		}
		w.Player.Coins = res.NewBalance
		out = res
		return changedPlayer, nil
	})
	return out, err
}

func (e *Engine) RenameTile(ctx context.Context, p world.Point, name string) error {
	return e.act(ctx, "rename", func(w *GameWorld, _ time.Time) (change, error) {
		if err := w.playerEconomy().Rename(w.Map, p, w.Player.MemberID, name); err != nil {
			return 0, err
		}
		return changedMap, nil
	})
}

// MarkArea records a named rectangle on the player's state.
func (e *Engine) MarkArea(ctx context.Context, area survival.Area) error {
	return e.act(ctx, "mark_area", func(w *GameWorld, _ time.Time) (change, error) {
		area.Name = strings.TrimSpace(area.Name)
		if area.Name == "" || !w.Map.InBounds(area.From) || !w.Map.InBounds(area.To) {
			return 0, ErrInvalidRequest
		}
		w.Player.Areas = append(w.Player.Areas, area)
		return changedPlayer, nil
	})
}

// RespawnResources reseeds unclaimed tiles and returns the units added.
func (e *Engine) RespawnResources(ctx context.Context) (int, error) {
	var out int
	err := e.act(ctx, "respawn", func(w *GameWorld, _ time.Time) (change, error) {
		out = world.Respawn(w.Map, w.Catalog, e.rng)
		if out == 0 {
			return 0, nil
		}
		return changedMap, nil
	})
	return out, err
}

// UpdateAgents changes the population settings and regenerates the
// populations that changed.
func (e *Engine) UpdateAgents(ctx context.Context, s agent.Settings) (agent.Settings, error) {
	if s.NPCCount < 0 || s.NPCCount > e.cfg.MaxNPCCount {
		return agent.Settings{}, fmt.Errorf("%w: npc_count must be within 0..%d", ErrInvalidRequest, e.cfg.MaxNPCCount)
	}
	if s.StrangerDensity < 0 || s.StrangerDensity > 1 {
		return agent.Settings{}, fmt.Errorf("%w: stranger_density must be within 0..1", ErrInvalidRequest)
	}
	err := e.act(ctx, "agent_settings", func(w *GameWorld, now time.Time) (change, error) {
		prev := w.Settings
		w.Settings = s
		e.regenerate(w, &prev, now)
		return changedSettings, nil
	})
	return s, err
}

// PutResource adds or replaces a catalog entry for this world.
func (e *Engine) PutResource(ctx context.Context, r world.Resource) error {
	return e.act(ctx, "put_resource", func(w *GameWorld, _ time.Time) (change, error) {
		next, err := w.Catalog.With(r)
		if err != nil {
			return 0, err
		}
		w.Catalog = next
		e.writes <- writeJob{kind: writeResource, worldID: w.ID, resource: r}
		return 0, nil
	})
}

// RemoveResource drops a resource from this world's catalog. The shared
// definition stays in storage.
func (e *Engine) RemoveResource(ctx context.Context, id string) error {
	return e.act(ctx, "remove_resource", func(w *GameWorld, _ time.Time) (change, error) {
		if _, ok := w.Catalog.Get(id); !ok {
			return 0, fmt.Errorf("%w: %s", economy.ErrUnknownResource, id)
		}
		w.Catalog = w.Catalog.Without(id)
		e.writes <- writeJob{kind: writeUnlink, worldID: w.ID, id: id}
		return 0, nil
	})
}
