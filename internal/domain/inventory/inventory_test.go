package inventory

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDeposit_TopsUpThenUsesFirstEmpty(t *testing.T) {
	inv := New(3)
	inv[1] = Slot{ResourceID: "wood", Quantity: 98}

	if got := inv.Deposit("wood", 3); got != 3 {
		t.Fatalf("deposit mismatch: got=%d want=3", got)
	}
	if inv[1].Quantity != 99 {
		t.Fatalf("expected existing stack topped up to 99, got %d", inv[1].Quantity)
	}
	if inv[0].ResourceID != "wood" || inv[0].Quantity != 2 {
		t.Fatalf("expected spill into first empty slot, got %+v", inv[0])
	}
}

func TestDeposit_DropsWhenFull(t *testing.T) {
	inv := New(1)
	inv[0] = Slot{ResourceID: "stone", Quantity: 5}
	if got := inv.Deposit("wood", 1); got != 0 {
		t.Fatalf("expected nothing deposited, got %d", got)
	}
	if inv.CanDeposit("wood", 1) {
		t.Fatalf("expected CanDeposit false")
	}
	if !inv.CanDeposit("stone", 94) || inv.CanDeposit("stone", 95) {
		t.Fatalf("room for stone should be exactly 94")
	}
}

func TestRemove_OldestSlotFirstAndClearsEmpty(t *testing.T) {
	inv := New(3)
	inv[0] = Slot{ResourceID: "wood", Quantity: 2}
	inv[2] = Slot{ResourceID: "wood", Quantity: 5}

	if err := inv.Remove("wood", 4); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if !inv[0].IsEmpty() || inv[0].Quantity != 0 {
		t.Fatalf("expected first slot cleared, got %+v", inv[0])
	}
	if inv[2].Quantity != 3 {
		t.Fatalf("expected 3 left in later slot, got %d", inv[2].Quantity)
	}
}

func TestRemove_ShortLeavesInventoryUntouched(t *testing.T) {
	inv := New(2)
	inv[0] = Slot{ResourceID: "wood", Quantity: 2}
	if err := inv.Remove("wood", 3); !errors.Is(err, ErrNotEnough) {
		t.Fatalf("expected ErrNotEnough, got %v", err)
	}
	if inv[0].Quantity != 2 {
		t.Fatalf("inventory mutated on failure")
	}
}

func TestWear_BreaksOneUnitAndResetsLife(t *testing.T) {
	inv := New(1)
	inv[0] = Slot{ResourceID: "axe", Quantity: 2}

	broke, err := inv.Wear(0, 60)
	if err != nil || broke {
		t.Fatalf("unexpected wear result broke=%v err=%v", broke, err)
	}
	if inv[0].CurrentLife() != 40 {
		t.Fatalf("expected life 40, got %d", inv[0].CurrentLife())
	}
	broke, _ = inv.Wear(0, 40)
	if !broke {
		t.Fatalf("expected a unit to break at zero life")
	}
	if inv[0].Quantity != 1 || inv[0].CurrentLife() != FullLife {
		t.Fatalf("expected 1 axe at full life, got %+v life=%d", inv[0], inv[0].CurrentLife())
	}
	broke, _ = inv.Wear(0, 150)
	if !broke || !inv[0].IsEmpty() {
		t.Fatalf("expected last unit consumed and slot cleared, got %+v", inv[0])
	}
}

func TestSlotJSON_EmptyIsNull(t *testing.T) {
	inv := New(2)
	inv[1] = Slot{ResourceID: "wood", Quantity: 4}
	raw, err := json.Marshal(inv)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got, want := string(raw), `[{"resourceId":null,"quantity":0},{"resourceId":"wood","quantity":4}]`; got != want {
		t.Fatalf("wire mismatch:\n got=%s\nwant=%s", got, want)
	}
	var back Inventory
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(back) != 2 || back[1].ResourceID != "wood" || !back[0].IsEmpty() {
		t.Fatalf("decode mismatch: %+v", back)
	}
}

func TestValidate_FlagsBrokenInvariant(t *testing.T) {
	inv := New(1)
	inv[0] = Slot{ResourceID: "wood", Quantity: 0}
	if err := inv.Validate(); !errors.Is(err, ErrInvalidInventory) {
		t.Fatalf("expected invalid inventory, got %v", err)
	}
}
