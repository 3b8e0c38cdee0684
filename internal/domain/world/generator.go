package world

import (
	"math"
	"math/rand/v2"
	"time"
)

const noiseFrequency = 0.1

// TerrainWeight is one band of the terrain threshold ladder. Bands are laid
// out in slice order from low field values to high.
type TerrainWeight struct {
	Type   TileType `json:"type" yaml:"type"`
	Weight float64  `json:"weight" yaml:"weight"`
}

var defaultWeights = []TerrainWeight{
	{Type: TileWater, Weight: 0.15},
	{Type: TileSand, Weight: 0.10},
	{Type: TileGrass, Weight: 0.30},
	{Type: TileForest, Weight: 0.20},
	{Type: TileDirt, Weight: 0.15},
	{Type: TileStone, Weight: 0.10},
}

// DefaultTerrainWeights returns a copy of the default ladder.
func DefaultTerrainWeights() []TerrainWeight {
	return append([]TerrainWeight(nil), defaultWeights...)
}

// NewRand returns a PCG source; seed 0 means non-reproducible.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		now := uint64(time.Now().UnixNano())
		return rand.New(rand.NewPCG(now, now>>17|1))
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

type threshold struct {
	upper float64
	tile  TileType
}

func buildThresholds(weights []TerrainWeight) []threshold {
	total := 0.0
	for _, w := range weights {
		if w.Weight > 0 && IsKnownTileType(w.Type) {
			total += w.Weight
		}
	}
	if total <= 0 {
		return buildThresholds(defaultWeights)
	}
	out := make([]threshold, 0, len(weights))
	acc := 0.0
	for _, w := range weights {
		if w.Weight <= 0 || !IsKnownTileType(w.Type) {
			continue
		}
		acc += w.Weight / total
		out = append(out, threshold{upper: acc, tile: w.Type})
	}
	out[len(out)-1].upper = math.Inf(1)
	return out
}

func classify(v float64, ladder []threshold) TileType {
	for _, th := range ladder {
		if v < th.upper {
			return th.tile
		}
	}
	return ladder[len(ladder)-1].tile
}

// Generate builds a new map. Weights may be nil for the default ladder and
// rng may be nil for a non-reproducible run. It never leaves a tile without
// a valid type.
func Generate(width, height int, catalog Catalog, weights []TerrainWeight, rng *rand.Rand) (*WorldMap, error) {
	m, err := NewWorldMap(width, height, TileGrass)
	if err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewRand(0)
	}
	ladder := buildThresholds(weights)
	m.Each(func(p Point, t *MapTile) {
		field := (math.Sin(float64(p.X)*noiseFrequency)*math.Cos(float64(p.Y)*noiseFrequency) + 1) / 2
		v := field*0.75 + rng.Float64()*0.25
		*t = NewTile(classify(v, ladder))
	})
	m.Each(func(_ Point, t *MapTile) {
		seedTile(t, catalog, rng)
	})
	return m, nil
}

// Respawn re-seeds every unclaimed tile. Placed resources and their tracked
// life survive; naturally spawned ones are rolled again. It returns the
// number of resources spawned.
func Respawn(m *WorldMap, catalog Catalog, rng *rand.Rand) int {
	if m == nil {
		return 0
	}
	if rng == nil {
		rng = NewRand(0)
	}
	spawned := 0
	m.Each(func(_ Point, t *MapTile) {
		if t.IsClaimed() {
			return
		}
		t.Resources = append(make([]string, 0, len(t.PlacedResources)), t.PlacedResources...)
		if t.ResourceLife != nil {
			for id := range t.ResourceLife {
				if !t.IsPlaced(id) {
					delete(t.ResourceLife, id)
				}
			}
			if len(t.ResourceLife) == 0 {
				t.ResourceLife = nil
			}
		}
		spawned += seedTile(t, catalog, rng)
	})
	return spawned
}

func seedTile(t *MapTile, catalog Catalog, rng *rand.Rand) int {
	n := 0
	for _, r := range catalog.All() {
		if r.SpawnChance <= 0 || !r.SpawnsOn(t.Type) {
			continue
		}
		if rng.Float64() >= r.SpawnChance {
			continue
		}
		if !t.CanHold(r, catalog) {
			continue
		}
		t.AddResource(r.ID, false)
		n++
	}
	return n
}
