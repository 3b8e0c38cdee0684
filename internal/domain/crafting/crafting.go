package crafting

import (
	"errors"
	"fmt"

	"tileworld/internal/domain/inventory"
	"tileworld/internal/domain/world"
)

const DefaultHealthCap = 100

var (
	ErrUnknownResource   = errors.New("unknown resource")
	ErrUnknownRecipe     = errors.New("unknown recipe")
	ErrMissingIngredient = errors.New("missing ingredient")
	ErrNotFound          = errors.New("item not found in inventory")
	ErrNotConsumable     = errors.New("item is not consumable")
)

// Service crafts and consumes against a resource catalog. Methods never
// touch the inventory they are given; they return the next inventory.
type Service struct {
	Catalog   world.Catalog
	HealthCap int
}

func NewService(catalog world.Catalog) Service {
	return Service{Catalog: catalog, HealthCap: DefaultHealthCap}
}

type CraftResult struct {
	Inventory inventory.Inventory `json:"inventory"`
	Output    string              `json:"output"`
	Quantity  int                 `json:"quantity"`
	Message   string              `json:"message"`
}

// Craft makes resourceID with recipeID; an empty recipeID selects the first
// recipe.
func (s Service) Craft(resourceID, recipeID string, inv inventory.Inventory) (CraftResult, error) {
	r, ok := s.Catalog.Get(resourceID)
	if !ok {
		return CraftResult{}, ErrUnknownResource
	}
	var rec world.Recipe
	if recipeID == "" {
		rec, ok = r.FirstRecipe()
	} else {
		rec, ok = r.RecipeByID(recipeID)
	}
	if !ok {
		return CraftResult{}, ErrUnknownRecipe
	}
	owned := inv.Totals()
	for _, in := range rec.Ingredients {
		if owned[in.ResourceID] < in.Quantity {
			return CraftResult{}, fmt.Errorf("%w: need %d %s, have %d", ErrMissingIngredient, in.Quantity, in.ResourceID, owned[in.ResourceID])
		}
		owned[in.ResourceID] -= in.Quantity
	}
	next := inv.Clone()
	for _, in := range rec.Ingredients {
		if err := next.Remove(in.ResourceID, in.Quantity); err != nil {
			return CraftResult{}, fmt.Errorf("%w: %v", ErrMissingIngredient, err)
		}
	}
	if got := next.Deposit(r.ID, rec.OutputQuantity); got < rec.OutputQuantity {
		return CraftResult{}, inventory.ErrInventoryFull
	}
	return CraftResult{
		Inventory: next,
		Output:    r.ID,
		Quantity:  rec.OutputQuantity,
		Message:   fmt.Sprintf("Crafted %d %s", rec.OutputQuantity, r.Name),
	}, nil
}

type ConsumeResult struct {
	Inventory inventory.Inventory `json:"inventory"`
	Health    int                 `json:"health"`
	XP        int                 `json:"xp"`
	Message   string              `json:"message"`
}

// Consume eats one unit of resourceID.
func (s Service) Consume(resourceID string, inv inventory.Inventory, health, xp int) (ConsumeResult, error) {
	r, ok := s.Catalog.Get(resourceID)
	if !ok {
		return ConsumeResult{}, ErrNotFound
	}
	if !r.Consumable {
		return ConsumeResult{}, ErrNotConsumable
	}
	if inv.Count(r.ID) <= 0 {
		return ConsumeResult{}, ErrNotFound
	}
	next := inv.Clone()
	if err := next.Remove(r.ID, 1); err != nil {
		return ConsumeResult{}, ErrNotFound
	}
	healthCap := s.HealthCap
	if healthCap <= 0 {
		healthCap = DefaultHealthCap
	}
	health += r.HealthGain
	if health > healthCap {
		health = healthCap
	}
	if r.GivesXP {
		xp += r.XPAmount
	}
	return ConsumeResult{
		Inventory: next,
		Health:    health,
		XP:        xp,
		Message:   fmt.Sprintf("Ate %s", r.Name),
	}, nil
}

// FirstHealingItem returns the first consumable with a positive health gain
// held in inv.
func (s Service) FirstHealingItem(inv inventory.Inventory) (string, bool) {
	for _, slot := range inv {
		if slot.IsEmpty() {
			continue
		}
		if r, ok := s.Catalog.Get(slot.ResourceID); ok && r.Consumable && r.HealthGain > 0 {
			return r.ID, true
		}
	}
	return "", false
}
