package economy

import (
	"errors"
	"fmt"
	"strings"

	"tileworld/internal/domain/inventory"
	"tileworld/internal/domain/world"
)

const DefaultBaseLandValue = 10

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAlreadyClaimed    = errors.New("tile already claimed")
	ErrNotPresent        = errors.New("resource not present on tile")
	ErrNotOwner          = errors.New("tile claimed by someone else")
	ErrIsPlaced          = errors.New("placed resources must be destroyed, not gathered")
	ErrNotPlaceable      = errors.New("resource is not placeable")
	ErrNotWalkable       = errors.New("tile is not walkable")
	ErrAlreadyPresent    = errors.New("resource already on tile")
	ErrTileFull          = errors.New("tile has no room")
	ErrUnknownResource   = errors.New("unknown resource")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInvalidName       = errors.New("invalid tile name")
)

const maxTileNameLen = 32

// Service applies tile ownership and tile resource pool changes. Every
// method either fully applies or returns an error with no mutation.
type Service struct {
	Catalog       world.Catalog
	BaseLandValue int
	// StrictDeposit makes claims and gathers fail with
	// inventory.ErrInventoryFull when collected units would not fit.
	// Without it the overflow is dropped.
	StrictDeposit bool
}

func NewService(catalog world.Catalog, baseLandValue int) Service {
	if baseLandValue < 0 {
		baseLandValue = DefaultBaseLandValue
	}
	return Service{Catalog: catalog, BaseLandValue: baseLandValue}
}

// TileValue is the base land value plus the coin value of every resource in
// the pool.
func (s Service) TileValue(tile world.MapTile) int {
	v := s.BaseLandValue
	for _, id := range tile.Resources {
		if r, ok := s.Catalog.Get(id); ok {
			v += r.CoinValue
		}
	}
	return v
}

type ClaimResult struct {
	Cost       int      `json:"cost"`
	NewBalance int      `json:"newBalance"`
	Collected  []string `json:"collectedResources"`
	Dropped    int      `json:"dropped,omitempty"`
}

// Claim buys the tile at p for claimant and moves its resource pool into inv.
func (s Service) Claim(m *world.WorldMap, p world.Point, claimant string, balance int, inv inventory.Inventory) (ClaimResult, error) {
	tile := m.Tile(p)
	if tile == nil {
		return ClaimResult{}, fmt.Errorf("%w: (%d,%d)", world.ErrOutOfBounds, p.X, p.Y)
	}
	if tile.IsClaimed() {
		return ClaimResult{}, ErrAlreadyClaimed
	}
	cost := s.TileValue(*tile)
	if balance < cost {
		return ClaimResult{}, ErrInsufficientFunds
	}
	if s.StrictDeposit && !inv.CanDepositAll(tile.Resources) {
		return ClaimResult{}, inventory.ErrInventoryFull
	}
	collected, dropped := s.takePool(tile, claimant, inv)
	return ClaimResult{Cost: cost, NewBalance: balance - cost, Collected: collected, Dropped: dropped}, nil
}

type BulkClaimResult struct {
	Count      int      `json:"count"`
	TotalCost  int      `json:"totalCost"`
	NewBalance int      `json:"newBalance"`
	Collected  []string `json:"collectedResources"`
	Dropped    int      `json:"dropped,omitempty"`
}

// ClaimMany validates the whole selection before mutating anything.
// Out-of-range, duplicate and already-claimed points are skipped.
func (s Service) ClaimMany(m *world.WorldMap, points []world.Point, claimant string, balance int, inv inventory.Inventory) (BulkClaimResult, error) {
	seen := make(map[world.Point]struct{}, len(points))
	eligible := make([]world.Point, 0, len(points))
	pool := []string{}
	total := 0
	for _, p := range points {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		tile, ok := m.At(p)
		if !ok || tile.IsClaimed() {
			continue
		}
		eligible = append(eligible, p)
		pool = append(pool, tile.Resources...)
		total += s.TileValue(tile)
	}
	if total > balance {
		return BulkClaimResult{}, ErrInsufficientFunds
	}
	if s.StrictDeposit && !inv.CanDepositAll(pool) {
		return BulkClaimResult{}, inventory.ErrInventoryFull
	}
	out := BulkClaimResult{Count: len(eligible), TotalCost: total, NewBalance: balance - total, Collected: []string{}}
	for _, p := range eligible {
		collected, dropped := s.takePool(m.Tile(p), claimant, inv)
		out.Collected = append(out.Collected, collected...)
		out.Dropped += dropped
	}
	return out, nil
}

// Rect lists the in-bounds points of the selection spanned by two corners
// on a width x height map. A rectangle entirely off the map is empty.
func Rect(a, b world.Point, width, height int) []world.Point {
	minX, maxX := a.X, b.X
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minY, maxY := a.Y, b.Y
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	if maxX < 0 || maxY < 0 || minX >= width || minY >= height {
		return []world.Point{}
	}
	minX, maxX = max(minX, 0), min(maxX, width-1)
	minY, maxY = max(minY, 0), min(maxY, height-1)
	out := make([]world.Point, 0, (maxX-minX+1)*(maxY-minY+1))
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			out = append(out, world.Point{X: x, Y: y})
		}
	}
	return out
}

func (s Service) takePool(tile *world.MapTile, claimant string, inv inventory.Inventory) ([]string, int) {
	collected := append([]string{}, tile.Resources...)
	dropped := 0
	for _, id := range collected {
		dropped += 1 - inv.Deposit(id, 1)
	}
	tile.ClaimedBy = claimant
	tile.Resources = []string{}
	tile.PlacedResources = []string{}
	tile.ResourceLife = nil
	return collected, dropped
}

// Gather moves one unit of resourceID from the tile into inv. Without
// StrictDeposit the tile loses the unit even when inv has no room.
func (s Service) Gather(m *world.WorldMap, p world.Point, resourceID, claimant string, inv inventory.Inventory) (int, error) {
	tile := m.Tile(p)
	if tile == nil {
		return 0, fmt.Errorf("%w: (%d,%d)", world.ErrOutOfBounds, p.X, p.Y)
	}
	if !tile.HasResource(resourceID) {
		return 0, ErrNotPresent
	}
	if tile.IsClaimed() && tile.ClaimedBy != claimant {
		return 0, ErrNotOwner
	}
	if tile.IsPlaced(resourceID) {
		return 0, ErrIsPlaced
	}
	if s.StrictDeposit && !inv.CanDeposit(resourceID, 1) {
		return 0, inventory.ErrInventoryFull
	}
	tile.RemoveResource(resourceID)
	return inv.Deposit(resourceID, 1), nil
}

// Place puts one unit from inventory slot onto the tile at p.
func (s Service) Place(m *world.WorldMap, p world.Point, slot int, inv inventory.Inventory) (string, error) {
	held, err := inv.Slot(slot)
	if err != nil {
		return "", err
	}
	if held.IsEmpty() || held.Quantity < 1 {
		return "", inventory.ErrEmptySlot
	}
	r, ok := s.Catalog.Get(held.ResourceID)
	if !ok || !r.Placeable {
		return "", ErrNotPlaceable
	}
	tile := m.Tile(p)
	if tile == nil {
		return "", fmt.Errorf("%w: (%d,%d)", world.ErrOutOfBounds, p.X, p.Y)
	}
	if !tile.IsWalkable() {
		return "", ErrNotWalkable
	}
	if tile.HasResource(r.ID) {
		return "", ErrAlreadyPresent
	}
	if !tile.CanHold(r, s.Catalog) {
		return "", ErrTileFull
	}
	if err := inv.TakeFromSlot(slot, 1); err != nil {
		return "", err
	}
	tile.AddResource(r.ID, true)
	return r.ID, nil
}

type TradeResult struct {
	ResourceID string `json:"resourceId"`
	Quantity   int    `json:"quantity"`
	Coins      int    `json:"coins"`
	NewBalance int    `json:"newBalance"`
}

// Buy purchases qty units at catalog coin value. A full inventory is an
// explicit error here.
func (s Service) Buy(resourceID string, qty, balance int, inv inventory.Inventory) (TradeResult, error) {
	r, ok := s.Catalog.Get(resourceID)
	if !ok {
		return TradeResult{}, ErrUnknownResource
	}
	if qty <= 0 {
		return TradeResult{}, ErrInvalidQuantity
	}
	cost := r.CoinValue * qty
	if balance < cost {
		return TradeResult{}, ErrInsufficientFunds
	}
	if !inv.CanDeposit(r.ID, qty) {
		return TradeResult{}, inventory.ErrInventoryFull
	}
	inv.Deposit(r.ID, qty)
	return TradeResult{ResourceID: r.ID, Quantity: qty, Coins: cost, NewBalance: balance - cost}, nil
}

func (s Service) Sell(resourceID string, qty, balance int, inv inventory.Inventory) (TradeResult, error) {
	r, ok := s.Catalog.Get(resourceID)
	if !ok {
		return TradeResult{}, ErrUnknownResource
	}
	if qty <= 0 {
		return TradeResult{}, ErrInvalidQuantity
	}
	if err := inv.Remove(r.ID, qty); err != nil {
		return TradeResult{}, err
	}
	earned := r.CoinValue * qty
	return TradeResult{ResourceID: r.ID, Quantity: qty, Coins: earned, NewBalance: balance + earned}, nil
}

// Rename sets the display name of a tile owned by claimant.
func (s Service) Rename(m *world.WorldMap, p world.Point, claimant, name string) error {
	tile := m.Tile(p)
	if tile == nil {
		return fmt.Errorf("%w: (%d,%d)", world.ErrOutOfBounds, p.X, p.Y)
	}
	if !tile.IsClaimed() || tile.ClaimedBy != claimant {
		return ErrNotOwner
	}
	name = strings.TrimSpace(name)
	if len(name) > maxTileNameLen {
		return ErrInvalidName
	}
	tile.Name = name
	return nil
}
