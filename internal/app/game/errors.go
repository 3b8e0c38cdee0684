package game

import (
	"context"
	"errors"

	"tileworld/internal/app/ports"
	"tileworld/internal/domain/crafting"
	"tileworld/internal/domain/economy"
	"tileworld/internal/domain/inventory"
	"tileworld/internal/domain/survival"
	"tileworld/internal/domain/world"
)

var (
	ErrWorldNotLoaded = errors.New("world not loaded")
	ErrEngineStopped  = errors.New("engine stopped")
	ErrInvalidRequest = errors.New("invalid request")
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindUnavailable
)

type errorClass struct {
	err  error
	code string
	kind ErrorKind
}

var errorClasses = []errorClass{
	{ErrWorldNotLoaded, "world_not_loaded", KindUnavailable},
	{ErrEngineStopped, "engine_stopped", KindUnavailable},
	{context.DeadlineExceeded, "timeout", KindUnavailable},
	{context.Canceled, "canceled", KindUnavailable},
	{ErrInvalidRequest, "invalid_request", KindValidation},
	{ports.ErrNotFound, "not_found", KindNotFound},
	{ports.ErrConflict, "conflict", KindConflict},
	{economy.ErrAlreadyClaimed, "already_claimed", KindConflict},
	{economy.ErrNotOwner, "not_owner", KindConflict},
	{economy.ErrInsufficientFunds, "insufficient_funds", KindValidation},
	{economy.ErrNotPresent, "not_present", KindValidation},
	{economy.ErrIsPlaced, "is_placed", KindValidation},
	{economy.ErrNotPlaceable, "not_placeable", KindValidation},
	{economy.ErrNotWalkable, "not_walkable", KindValidation},
	{economy.ErrAlreadyPresent, "already_present", KindValidation},
	{economy.ErrTileFull, "tile_full", KindValidation},
	{economy.ErrUnknownResource, "unknown_resource", KindValidation},
	{economy.ErrInvalidQuantity, "invalid_quantity", KindValidation},
	{economy.ErrInvalidName, "invalid_name", KindValidation},
	{inventory.ErrInventoryFull, "inventory_full", KindValidation},
	{inventory.ErrSlotOutOfRange, "slot_out_of_range", KindValidation},
	{inventory.ErrEmptySlot, "empty_slot", KindValidation},
	{inventory.ErrNotEnough, "not_enough", KindValidation},
	{crafting.ErrUnknownResource, "unknown_resource", KindValidation},
	{crafting.ErrUnknownRecipe, "unknown_recipe", KindValidation},
	{crafting.ErrMissingIngredient, "missing_ingredient", KindValidation},
	{crafting.ErrNotFound, "not_found_in_inventory", KindValidation},
	{crafting.ErrNotConsumable, "not_consumable", KindValidation},
	{crafting.ErrNoItem, "no_item", KindValidation},
	{crafting.ErrInvalidItem, "invalid_item", KindValidation},
	{crafting.ErrNothingUsable, "nothing_usable", KindValidation},
	{crafting.ErrWrongTool, "wrong_tool", KindValidation},
	{survival.ErrBlocked, "blocked", KindValidation},
	{world.ErrOutOfBounds, "out_of_bounds", KindValidation},
	{world.ErrInvalidResource, "invalid_resource", KindValidation},
}

// Classify maps an engine error to a stable code and its kind.
func Classify(err error) (string, ErrorKind) {
	for _, c := range errorClasses {
		if errors.Is(err, c.err) {
			return c.code, c.kind
		}
	}
	return "internal_error", KindInternal
}
