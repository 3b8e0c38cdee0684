package world

import (
	"encoding/json"
	"testing"
)

func TestMapTile_StaleWalkableIgnored(t *testing.T) {
	tile := NewTile(TileWater)
	tile.Walkable = true
	if tile.IsWalkable() {
		t.Fatalf("stored walkable flag must not override terrain catalog")
	}
}

func TestMapTile_CanHoldRule(t *testing.T) {
	catalog := DefaultCatalog()
	wood, _ := catalog.Get("wood")
	tree, _ := catalog.Get("oak_tree")
	container, _ := catalog.Get("storage_container")

	tile := NewTile(TileForest)
	if !tile.CanHold(tree, catalog) {
		t.Fatalf("empty tile should hold a large resource")
	}
	tile.AddResource("wood", false)
	if tile.CanHold(tree, catalog) {
		t.Fatalf("large resource must not share a tile")
	}
	if !container.IsLarge() {
		t.Fatalf("container should count as large")
	}
	if !tile.CanHold(wood, catalog) {
		t.Fatalf("second small resource should fit")
	}
	tile.AddResource("wood", false)
	if tile.CanHold(wood, catalog) {
		t.Fatalf("third small resource must not fit")
	}

	big := NewTile(TileForest)
	big.AddResource("oak_tree", false)
	if big.CanHold(wood, catalog) {
		t.Fatalf("nothing fits next to a large resource")
	}
}

func TestMapTile_RemoveResourceKeepsPlacedSubset(t *testing.T) {
	tile := NewTile(TileGrass)
	tile.AddResource("campfire", true)
	tile.SetLife("campfire", 3)

	if !tile.RemoveResource("campfire") {
		t.Fatalf("expected removal")
	}
	if tile.IsPlaced("campfire") || tile.HasResource("campfire") {
		t.Fatalf("resource still present: %+v", tile)
	}
	if tile.ResourceLife != nil {
		t.Fatalf("expected life map cleared, got %+v", tile.ResourceLife)
	}
}

func TestMapTile_GatherableExcludesPlaced(t *testing.T) {
	tile := NewTile(TileGrass)
	tile.AddResource("wood", false)
	tile.AddResource("campfire", true)
	got := tile.GatherableResources()
	if len(got) != 1 || got[0] != "wood" {
		t.Fatalf("unexpected gatherable: %v", got)
	}
}

func TestWorldMap_JSONShape(t *testing.T) {
	m, _ := NewWorldMap(3, 2, TileGrass)
	m.Tile(Point{X: 2, Y: 1}).AddResource("wood", false)

	raw, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var shape struct {
		Tiles [][]map[string]any `json:"tiles"`
	}
	if err := json.Unmarshal(raw, &shape); err != nil {
		t.Fatalf("unmarshal shape: %v", err)
	}
	if len(shape.Tiles) != 2 || len(shape.Tiles[0]) != 3 {
		t.Fatalf("expected tiles[2][3], got %d rows", len(shape.Tiles))
	}
	if _, ok := shape.Tiles[0][0]["resourceLife"]; ok {
		t.Fatalf("empty resourceLife must be omitted")
	}

	var back WorldMap
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	tile, _ := back.At(Point{X: 2, Y: 1})
	if !tile.HasResource("wood") {
		t.Fatalf("resource lost on decode: %+v", tile)
	}
}

func TestWorldMap_OutOfBoundsIsNoop(t *testing.T) {
	m, _ := NewWorldMap(2, 2, TileGrass)
	if _, ok := m.At(Point{X: -1, Y: 0}); ok {
		t.Fatalf("expected out of bounds")
	}
	if m.Tile(Point{X: 2, Y: 0}) != nil {
		t.Fatalf("expected nil tile pointer")
	}
	if err := m.Set(Point{X: 0, Y: 9}, NewTile(TileSand)); err == nil {
		t.Fatalf("expected error on out of bounds set")
	}
	if got := len(m.Neighbors(Point{X: 0, Y: 0})); got != 2 {
		t.Fatalf("corner should have 2 neighbours, got %d", got)
	}
}
