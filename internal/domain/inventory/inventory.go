package inventory

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	MaxStack    = 99
	FullLife    = 100
	MinCapacity = 30
)

var (
	ErrInventoryFull    = errors.New("inventory full")
	ErrSlotOutOfRange   = errors.New("inventory slot out of range")
	ErrEmptySlot        = errors.New("inventory slot empty")
	ErrNotEnough        = errors.New("not enough items")
	ErrInvalidInventory = errors.New("invalid inventory")
)

// Slot is one inventory cell. A slot is empty iff ResourceID is "", which is
// serialized as null. Life tracks remaining uses of the top item of a
// wearable stack.
type Slot struct {
	ResourceID string
	Quantity   int
	Life       *int
}

func (s Slot) IsEmpty() bool { return s.ResourceID == "" }

// CurrentLife returns the tracked life, full when untracked.
func (s Slot) CurrentLife() int {
	if s.Life == nil {
		return FullLife
	}
	return *s.Life
}

type wireSlot struct {
	ResourceID *string `json:"resourceId"`
	Quantity   int     `json:"quantity"`
	Life       *int    `json:"life,omitempty"`
}

func (s Slot) MarshalJSON() ([]byte, error) {
	w := wireSlot{Quantity: s.Quantity, Life: s.Life}
	if !s.IsEmpty() {
		id := s.ResourceID
		w.ResourceID = &id
	}
	return json.Marshal(w)
}

func (s *Slot) UnmarshalJSON(data []byte) error {
	var w wireSlot
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*s = Slot{Quantity: w.Quantity, Life: w.Life}
	if w.ResourceID != nil {
		s.ResourceID = *w.ResourceID
	}
	if s.ResourceID == "" || s.Quantity <= 0 {
		*s = Slot{}
	}
	return nil
}

// Inventory is a fixed-length ordered sequence of slots.
type Inventory []Slot

func New(size int) Inventory {
	if size < 0 {
		size = 0
	}
	return make(Inventory, size)
}

// Normalize pads inv to at least size empty slots.
func Normalize(inv Inventory, size int) Inventory {
	if len(inv) >= size {
		return inv
	}
	out := make(Inventory, size)
	copy(out, inv)
	return out
}

func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	for i, s := range inv {
		out[i] = s
		if s.Life != nil {
			life := *s.Life
			out[i].Life = &life
		}
	}
	return out
}

// Count aggregates the quantity held of id across all slots.
func (inv Inventory) Count(id string) int {
	n := 0
	for _, s := range inv {
		if s.ResourceID == id {
			n += s.Quantity
		}
	}
	return n
}

// Totals aggregates quantities per resource id.
func (inv Inventory) Totals() map[string]int {
	out := map[string]int{}
	for _, s := range inv {
		if !s.IsEmpty() {
			out[s.ResourceID] += s.Quantity
		}
	}
	return out
}

// Room returns how many units of id could be deposited right now.
func (inv Inventory) Room(id string) int {
	n := 0
	for _, s := range inv {
		switch {
		case s.IsEmpty():
			n += MaxStack
		case s.ResourceID == id:
			n += MaxStack - s.Quantity
		}
	}
	return n
}

func (inv Inventory) CanDeposit(id string, count int) bool {
	return count <= inv.Room(id)
}

// CanDepositAll reports whether one unit of every id fits at once.
func (inv Inventory) CanDepositAll(ids []string) bool {
	trial := inv.Clone()
	for _, id := range ids {
		if trial.Deposit(id, 1) < 1 {
			return false
		}
	}
	return true
}

// Deposit places count units of id: first topping up stacks of the same id,
// then filling the first empty slot, spilling over as needed. It returns the
// number deposited; the remainder is dropped.
func (inv Inventory) Deposit(id string, count int) int {
	if id == "" || count <= 0 {
		return 0
	}
	left := count
	for left > 0 {
		i := inv.slotFor(id)
		if i < 0 {
			break
		}
		if inv[i].IsEmpty() {
			inv[i] = Slot{ResourceID: id}
		}
		add := MaxStack - inv[i].Quantity
		if add > left {
			add = left
		}
		inv[i].Quantity += add
		left -= add
	}
	return count - left
}

func (inv Inventory) slotFor(id string) int {
	for i, s := range inv {
		if s.ResourceID == id && s.Quantity < MaxStack {
			return i
		}
	}
	for i, s := range inv {
		if s.IsEmpty() {
			return i
		}
	}
	return -1
}

// Remove deducts count units of id, oldest slot first, emptying slots that
// reach zero. Nothing changes when fewer than count are held.
func (inv Inventory) Remove(id string, count int) error {
	if count <= 0 {
		return nil
	}
	if inv.Count(id) < count {
		return fmt.Errorf("%w: %s", ErrNotEnough, id)
	}
	left := count
	for i := range inv {
		if left == 0 {
			break
		}
		if inv[i].ResourceID != id {
			continue
		}
		take := inv[i].Quantity
		if take > left {
			take = left
		}
		inv[i].Quantity -= take
		left -= take
		if inv[i].Quantity == 0 {
			inv[i] = Slot{}
		}
	}
	return nil
}

// Slot returns a copy of slot i.
func (inv Inventory) Slot(i int) (Slot, error) {
	if i < 0 || i >= len(inv) {
		return Slot{}, ErrSlotOutOfRange
	}
	return inv[i], nil
}

// TakeFromSlot removes count units from slot i.
func (inv Inventory) TakeFromSlot(i, count int) error {
	if i < 0 || i >= len(inv) {
		return ErrSlotOutOfRange
	}
	if inv[i].IsEmpty() {
		return ErrEmptySlot
	}
	if inv[i].Quantity < count {
		return ErrNotEnough
	}
	inv[i].Quantity -= count
	if inv[i].Quantity == 0 {
		inv[i] = Slot{}
	}
	return nil
}

// FirstSlotOf returns the index of the first slot holding id, or -1.
func (inv Inventory) FirstSlotOf(id string) int {
	for i, s := range inv {
		if s.ResourceID == id && s.Quantity > 0 {
			return i
		}
	}
	return -1
}

// Wear subtracts amount from the life of slot i. When life runs out one unit
// is consumed and the remaining stack starts again at full life. It reports
// whether a unit broke.
func (inv Inventory) Wear(i, amount int) (bool, error) {
	if i < 0 || i >= len(inv) {
		return false, ErrSlotOutOfRange
	}
	if inv[i].IsEmpty() {
		return false, ErrEmptySlot
	}
	if amount <= 0 {
		return false, nil
	}
	life := inv[i].CurrentLife() - amount
	if life > 0 {
		inv[i].Life = &life
		return false, nil
	}
	inv[i].Quantity--
	if inv[i].Quantity <= 0 {
		inv[i] = Slot{}
		return true, nil
	}
	full := FullLife
	inv[i].Life = &full
	return true, nil
}

// Validate checks the slot invariants.
func (inv Inventory) Validate() error {
	for i, s := range inv {
		if s.Quantity < 0 || s.Quantity > MaxStack {
			return fmt.Errorf("%w: slot %d quantity %d", ErrInvalidInventory, i, s.Quantity)
		}
		if s.Quantity == 0 && !s.IsEmpty() {
			return fmt.Errorf("%w: slot %d holds %s with zero quantity", ErrInvalidInventory, i, s.ResourceID)
		}
		if s.IsEmpty() && s.Quantity != 0 {
			return fmt.Errorf("%w: slot %d empty with quantity %d", ErrInvalidInventory, i, s.Quantity)
		}
		if s.Life != nil && (*s.Life < 0 || *s.Life > FullLife) {
			return fmt.Errorf("%w: slot %d life %d", ErrInvalidInventory, i, *s.Life)
		}
	}
	return nil
}
