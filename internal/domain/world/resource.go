package world

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type Rarity string

const (
	RarityCommon   Rarity = "common"
	RarityUncommon Rarity = "uncommon"
	RarityRare     Rarity = "rare"
	RarityEpic     Rarity = "epic"
)

// Resource is an immutable catalog definition, not a stack.
type Resource struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Rarity             Rarity     `json:"rarity"`
	SpawnTiles         []TileType `json:"spawnTiles"`
	SpawnChance        float64    `json:"spawnChance"`
	CoinValue          int        `json:"coinValue"`
	GatherTime         int        `json:"gatherTime"`
	Consumable         bool       `json:"consumable"`
	HealthGain         int        `json:"healthGain"`
	GivesXP            bool       `json:"givesXp"`
	XPAmount           int        `json:"xpAmount"`
	CanInflictDamage   bool       `json:"canInflictDamage"`
	Damage             int        `json:"damage"`
	Placeable          bool       `json:"placeable"`
	Passable           bool       `json:"passable"`
	Destructible       bool       `json:"destructible"`
	MaxLife            int        `json:"maxLife"`
	DestroyedBy        []string   `json:"destroyedBy,omitempty"`
	Recipes            []Recipe   `json:"recipes,omitempty"`
	ProduceTile        bool       `json:"produceTile"`
	ProduceTileType    TileType   `json:"produceTileType,omitempty"`
	UseLife            bool       `json:"useLife"`
	LifeDecreasePerUse int        `json:"lifeDecreasePerUse"`
	TileWidth          int        `json:"tileWidth"`
	TileHeight         int        `json:"tileHeight"`
}

type Ingredient struct {
	ResourceID string `json:"resourceId"`
	Quantity   int    `json:"quantity"`
}

// Recipe is scoped to the resource that owns it.
type Recipe struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Ingredients    []Ingredient `json:"ingredients"`
	OutputQuantity int          `json:"outputQuantity"`
}

// IsLarge reports whether the resource needs a tile to itself.
func (r Resource) IsLarge() bool {
	w, h := r.TileWidth, r.TileHeight
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if w*h > 1 {
		return true
	}
	key := strings.ToLower(r.ID + " " + r.Name)
	return strings.Contains(key, "container") || strings.Contains(key, "floating")
}

func (r Resource) SpawnsOn(t TileType) bool {
	for _, st := range r.SpawnTiles {
		if st == t {
			return true
		}
	}
	return false
}

// DestroyableBy reports whether toolID may damage the resource. An empty
// allow-list accepts any tool.
func (r Resource) DestroyableBy(toolID string) bool {
	if !r.Destructible {
		return false
	}
	if len(r.DestroyedBy) == 0 {
		return true
	}
	for _, id := range r.DestroyedBy {
		if id == toolID {
			return true
		}
	}
	return false
}

func (r Resource) RecipeByID(id string) (Recipe, bool) {
	for _, rec := range r.Recipes {
		if rec.ID == id {
			return rec, true
		}
	}
	return Recipe{}, false
}

func (r Resource) FirstRecipe() (Recipe, bool) {
	if len(r.Recipes) == 0 {
		return Recipe{}, false
	}
	return r.Recipes[0], true
}

var ErrInvalidResource = errors.New("invalid resource definition")

func (r Resource) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidResource)
	}
	if r.SpawnChance < 0 || r.SpawnChance > 1 {
		return fmt.Errorf("%w: %s spawn chance %v", ErrInvalidResource, r.ID, r.SpawnChance)
	}
	if r.ProduceTile && !IsKnownTileType(r.ProduceTileType) {
		return fmt.Errorf("%w: %s produces unknown tile %q", ErrInvalidResource, r.ID, r.ProduceTileType)
	}
	for _, rec := range r.Recipes {
		if rec.ID == "" || rec.OutputQuantity <= 0 || len(rec.Ingredients) == 0 {
			return fmt.Errorf("%w: %s recipe %q", ErrInvalidResource, r.ID, rec.ID)
		}
		for _, in := range rec.Ingredients {
			if in.ResourceID == "" || in.Quantity <= 0 {
				return fmt.Errorf("%w: %s recipe %q ingredient", ErrInvalidResource, r.ID, rec.ID)
			}
		}
	}
	return nil
}

// Catalog is the set of resources referenced by a world, keyed by id.
type Catalog struct {
	byID map[string]Resource
	ids  []string
}

func NewCatalog(resources []Resource) (Catalog, error) {
	c := Catalog{byID: make(map[string]Resource, len(resources))}
	for _, r := range resources {
		if err := r.Validate(); err != nil {
			return Catalog{}, err
		}
		if _, dup := c.byID[r.ID]; dup {
			return Catalog{}, fmt.Errorf("%w: duplicate id %s", ErrInvalidResource, r.ID)
		}
		c.byID[r.ID] = r
		c.ids = append(c.ids, r.ID)
	}
	sort.Strings(c.ids)
	return c, nil
}

func (c Catalog) Get(id string) (Resource, bool) {
	r, ok := c.byID[id]
	return r, ok
}

// IDs returns resource ids in stable sorted order.
func (c Catalog) IDs() []string {
	out := make([]string, len(c.ids))
	copy(out, c.ids)
	return out
}

func (c Catalog) All() []Resource {
	out := make([]Resource, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.byID[id])
	}
	return out
}

func (c Catalog) Len() int { return len(c.ids) }

// With returns a copy of the catalog with r inserted or replaced.
func (c Catalog) With(r Resource) (Catalog, error) {
	all := make([]Resource, 0, len(c.ids)+1)
	for _, id := range c.ids {
		if id == r.ID {
			continue
		}
		all = append(all, c.byID[id])
	}
	all = append(all, r)
	return NewCatalog(all)
}

// Without drops id from this catalog view. The catalog store is not touched.
func (c Catalog) Without(id string) Catalog {
	all := make([]Resource, 0, len(c.ids))
	for _, rid := range c.ids {
		if rid != id {
			all = append(all, c.byID[rid])
		}
	}
	out, _ := NewCatalog(all)
	return out
}
