package httpadapter

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"tileworld/internal/domain/inventory"
	"tileworld/internal/domain/survival"
	"tileworld/internal/domain/world"

	"github.com/cloudwego/hertz/pkg/app"
)

func TestMapResponseUsesRowMajorTiles(t *testing.T) {
	h := Handler{World: &fakeWorld{}}
	ctx := &app.RequestContext{}

	h.worldMap(context.Background(), ctx)

	var out struct {
		Width  int                `json:"width"`
		Height int                `json:"height"`
		Tiles  [][]map[string]any `json:"tiles"`
	}
	if err := json.Unmarshal(ctx.Response.Body(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Width != 2 || out.Height != 1 || len(out.Tiles) != 1 || len(out.Tiles[0]) != 2 {
		t.Fatalf("unexpected shape: %s", ctx.Response.Body())
	}
	for _, key := range []string{"type", "resources", "placedResources", "walkable"} {
		if _, ok := out.Tiles[0][0][key]; !ok {
			t.Fatalf("tile missing %q: %s", key, ctx.Response.Body())
		}
	}
}

func TestPlayerJSONUsesCamelCase(t *testing.T) {
	state := survival.NewPlayerState("alice", world.Point{X: 1, Y: 2}, 2, 50)
	state.Inventory[0] = inventory.Slot{ResourceID: "wood", Quantity: 3}

	raw, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	text := string(raw)
	for _, want := range []string{`"memberId"`, `"userColor"`, `"decayHours"`, `"resourceId":"wood"`, `"resourceId":null`} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %s in %s", want, text)
		}
	}
	if strings.Contains(text, "member_id") {
		t.Fatalf("unexpected snake_case key in %s", text)
	}
}
