package world

// MapTile is one cell of the world grid. Walkable is a stored copy of the
// terrain catalog value; readers use IsWalkable instead.
type MapTile struct {
	Type            TileType       `json:"type"`
	Resources       []string       `json:"resources"`
	PlacedResources []string       `json:"placedResources"`
	Walkable        bool           `json:"walkable"`
	ClaimedBy       string         `json:"claimedBy,omitempty"`
	Name            string         `json:"name,omitempty"`
	ResourceLife    map[string]int `json:"resourceLife,omitempty"`
}

func NewTile(t TileType) MapTile {
	return MapTile{
		Type:            t,
		Resources:       []string{},
		PlacedResources: []string{},
		Walkable:        IsWalkable(t),
	}
}

func (t MapTile) IsWalkable() bool {
	return IsWalkable(t.Type)
}

func (t MapTile) IsClaimed() bool {
	return t.ClaimedBy != ""
}

func (t MapTile) HasResource(id string) bool {
	return indexOf(t.Resources, id) >= 0
}

func (t MapTile) IsPlaced(id string) bool {
	return indexOf(t.PlacedResources, id) >= 0
}

// GatherableResources lists resource ids that are not placed.
func (t MapTile) GatherableResources() []string {
	placed := append([]string(nil), t.PlacedResources...)
	out := make([]string, 0, len(t.Resources))
	for _, id := range t.Resources {
		if i := indexOf(placed, id); i >= 0 {
			placed = append(placed[:i], placed[i+1:]...)
			continue
		}
		out = append(out, id)
	}
	return out
}

// CanHold applies the co-occupancy rule: at most two small resources, or
// exactly one large one.
func (t MapTile) CanHold(r Resource, catalog Catalog) bool {
	if len(t.Resources) == 0 {
		return true
	}
	if r.IsLarge() {
		return false
	}
	for _, id := range t.Resources {
		if existing, ok := catalog.Get(id); ok && existing.IsLarge() {
			return false
		}
	}
	return len(t.Resources) < 2
}

// IsPassable reports whether an actor may step onto the tile.
func (t MapTile) IsPassable(catalog Catalog) bool {
	if !t.IsWalkable() {
		return false
	}
	for _, id := range t.Resources {
		if r, ok := catalog.Get(id); ok && !r.Passable {
			return false
		}
	}
	return true
}

// LifeOf returns the tracked life for id, defaulting to its max life.
func (t MapTile) LifeOf(r Resource) int {
	if life, ok := t.ResourceLife[r.ID]; ok {
		return life
	}
	return r.MaxLife
}

// Clone deep-copies the tile so callers can mutate it without aliasing.
func (t MapTile) Clone() MapTile {
	out := t
	out.Resources = append(make([]string, 0, len(t.Resources)), t.Resources...)
	out.PlacedResources = append(make([]string, 0, len(t.PlacedResources)), t.PlacedResources...)
	if len(t.ResourceLife) > 0 {
		out.ResourceLife = make(map[string]int, len(t.ResourceLife))
		for k, v := range t.ResourceLife {
			out.ResourceLife[k] = v
		}
	} else {
		out.ResourceLife = nil
	}
	return out
}

// AddResource appends id to the pool, and to the placed list when placed.
func (t *MapTile) AddResource(id string, placed bool) {
	t.Resources = append(t.Resources, id)
	if placed {
		t.PlacedResources = append(t.PlacedResources, id)
	}
}

// RemoveResource drops one occurrence of id from the pool and, if present,
// from the placed list, keeping PlacedResources a subset of Resources.
func (t *MapTile) RemoveResource(id string) bool {
	i := indexOf(t.Resources, id)
	if i < 0 {
		return false
	}
	t.Resources = append(t.Resources[:i:i], t.Resources[i+1:]...)
	if j := indexOf(t.PlacedResources, id); j >= 0 {
		t.PlacedResources = append(t.PlacedResources[:j:j], t.PlacedResources[j+1:]...)
	}
	if !t.HasResource(id) && t.ResourceLife != nil {
		delete(t.ResourceLife, id)
		if len(t.ResourceLife) == 0 {
			t.ResourceLife = nil
		}
	}
	return true
}

func (t *MapTile) SetLife(id string, life int) {
	if t.ResourceLife == nil {
		t.ResourceLife = map[string]int{}
	}
	t.ResourceLife[id] = life
}

// SetType rewrites the terrain and recomputes walkability from the catalog.
func (t *MapTile) SetType(tt TileType) {
	t.Type = tt
	t.Walkable = IsWalkable(tt)
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
