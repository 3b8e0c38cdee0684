package world

type TileType string

const (
	TileWater    TileType = "water"
	TileSand     TileType = "sand"
	TileGrass    TileType = "grass"
	TileForest   TileType = "forest"
	TileDirt     TileType = "dirt"
	TileStone    TileType = "stone"
	TileSwamp    TileType = "swamp"
	TileSnow     TileType = "snow"
	TileMountain TileType = "mountain"
	TileLava     TileType = "lava"
)

type Terrain struct {
	Type     TileType `json:"type"`
	Walkable bool     `json:"walkable"`
}

// terrainCatalog is the authoritative walkability table. Stored tile flags
// are derived from it and never read back.
var terrainCatalog = map[TileType]Terrain{
	TileWater:    {Type: TileWater, Walkable: false},
	TileSand:     {Type: TileSand, Walkable: true},
	TileGrass:    {Type: TileGrass, Walkable: true},
	TileForest:   {Type: TileForest, Walkable: true},
	TileDirt:     {Type: TileDirt, Walkable: true},
	TileStone:    {Type: TileStone, Walkable: true},
	TileSwamp:    {Type: TileSwamp, Walkable: true},
	TileSnow:     {Type: TileSnow, Walkable: true},
	TileMountain: {Type: TileMountain, Walkable: false},
	TileLava:     {Type: TileLava, Walkable: false},
}

// DefaultTerrainOrder is the low-to-high ordering used to map the noise field
// onto terrain when no probabilities are configured.
var DefaultTerrainOrder = []TileType{TileWater, TileSand, TileGrass, TileForest, TileDirt, TileStone}

// ExtendedTerrainOrder adds the extra biomes.
var ExtendedTerrainOrder = []TileType{TileWater, TileSwamp, TileSand, TileGrass, TileForest, TileDirt, TileStone, TileSnow, TileMountain, TileLava}

func IsKnownTileType(t TileType) bool {
	_, ok := terrainCatalog[t]
	return ok
}

func IsWalkable(t TileType) bool {
	return terrainCatalog[t].Walkable
}

func TerrainOf(t TileType) (Terrain, bool) {
	tr, ok := terrainCatalog[t]
	return tr, ok
}
