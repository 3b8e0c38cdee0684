package world

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrOutOfBounds  = errors.New("coordinate out of bounds")
	ErrInvalidSize  = errors.New("invalid map size")
	ErrInvalidTiles = errors.New("invalid tile grid")
)

// WorldMap stores tiles row-major in a flat arena addressed by (x,y).
// On the wire it is tiles[height][width].
type WorldMap struct {
	Width      int
	Height     int
	SpawnPoint Point
	tiles      []MapTile
}

func NewWorldMap(width, height int, fill TileType) (*WorldMap, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	m := &WorldMap{
		Width:      width,
		Height:     height,
		SpawnPoint: CenterOf(width, height),
		tiles:      make([]MapTile, width*height),
	}
	for i := range m.tiles {
		m.tiles[i] = NewTile(fill)
	}
	return m, nil
}

// CenterOf is the spawn point for a map of the given size.
func CenterOf(width, height int) Point {
	return Point{X: width / 2, Y: height / 2}
}

func (m *WorldMap) InBounds(p Point) bool {
	return m != nil && p.X >= 0 && p.Y >= 0 && p.X < m.Width && p.Y < m.Height
}

func (m *WorldMap) index(p Point) int {
	return p.Y*m.Width + p.X
}

// At returns a copy of the tile at p.
func (m *WorldMap) At(p Point) (MapTile, bool) {
	if !m.InBounds(p) {
		return MapTile{}, false
	}
	return m.tiles[m.index(p)], true
}

// Tile returns a pointer into the arena for in-place mutation by the single
// writer. Nil when p is out of bounds.
func (m *WorldMap) Tile(p Point) *MapTile {
	if !m.InBounds(p) {
		return nil
	}
	return &m.tiles[m.index(p)]
}

// Set replaces the tile at p.
func (m *WorldMap) Set(p Point, t MapTile) error {
	if !m.InBounds(p) {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, p.X, p.Y)
	}
	m.tiles[m.index(p)] = t
	return nil
}

// Each visits every tile in row-major order.
func (m *WorldMap) Each(fn func(p Point, t *MapTile)) {
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			p := Point{X: x, Y: y}
			fn(p, &m.tiles[m.index(p)])
		}
	}
}

// Neighbors returns the in-bounds 4-neighbours of p.
func (m *WorldMap) Neighbors(p Point) []Point {
	out := make([]Point, 0, 4)
	for _, d := range Directions {
		if n := p.Add(d); m.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

// Window returns in-bounds points within radius of center (Chebyshev).
func (m *WorldMap) Window(center Point, radius int) []Point {
	out := make([]Point, 0, (2*radius+1)*(2*radius+1))
	for y := center.Y - radius; y <= center.Y+radius; y++ {
		for x := center.X - radius; x <= center.X+radius; x++ {
			if p := (Point{X: x, Y: y}); m.InBounds(p) {
				out = append(out, p)
			}
		}
	}
	return out
}

func (m *WorldMap) WalkableCount() int {
	n := 0
	for _, t := range m.tiles {
		if t.IsWalkable() {
			n++
		}
	}
	return n
}

func (m *WorldMap) Clone() *WorldMap {
	if m == nil {
		return nil
	}
	out := &WorldMap{Width: m.Width, Height: m.Height, SpawnPoint: m.SpawnPoint, tiles: make([]MapTile, len(m.tiles))}
	for i, t := range m.tiles {
		out.tiles[i] = t.Clone()
	}
	return out
}

type wireMap struct {
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	Tiles      [][]MapTile `json:"tiles"`
	SpawnPoint Point       `json:"spawnPoint"`
}

func (m *WorldMap) MarshalJSON() ([]byte, error) {
	rows := make([][]MapTile, m.Height)
	for y := 0; y < m.Height; y++ {
		rows[y] = m.tiles[y*m.Width : (y+1)*m.Width]
	}
	return json.Marshal(wireMap{Width: m.Width, Height: m.Height, Tiles: rows, SpawnPoint: m.SpawnPoint})
}

// UnmarshalJSON restores the arena and re-derives walkability and the spawn
// point so stale stored values never leak into the simulation.
func (m *WorldMap) UnmarshalJSON(data []byte) error {
	var w wireMap
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Width <= 0 || w.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, w.Width, w.Height)
	}
	if len(w.Tiles) != w.Height {
		return fmt.Errorf("%w: %d rows for height %d", ErrInvalidTiles, len(w.Tiles), w.Height)
	}
	tiles := make([]MapTile, 0, w.Width*w.Height)
	for y, row := range w.Tiles {
		if len(row) != w.Width {
			return fmt.Errorf("%w: row %d has %d tiles for width %d", ErrInvalidTiles, y, len(row), w.Width)
		}
		for _, t := range row {
			if !IsKnownTileType(t.Type) {
				return fmt.Errorf("%w: unknown tile type %q", ErrInvalidTiles, t.Type)
			}
			if t.Resources == nil {
				t.Resources = []string{}
			}
			if t.PlacedResources == nil {
				t.PlacedResources = []string{}
			}
			if len(t.ResourceLife) == 0 {
				t.ResourceLife = nil
			}
			t.Walkable = IsWalkable(t.Type)
			tiles = append(tiles, t)
		}
	}
	m.Width, m.Height, m.tiles = w.Width, w.Height, tiles
	m.SpawnPoint = CenterOf(w.Width, w.Height)
	return nil
}
