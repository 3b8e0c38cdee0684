package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"tileworld/internal/app/game"
	"tileworld/internal/app/ports"
	"tileworld/internal/domain/agent"
	"tileworld/internal/domain/economy"
	"tileworld/internal/domain/inventory"
	"tileworld/internal/domain/survival"
	"tileworld/internal/domain/world"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/cloudwego/hertz/pkg/route/param"
)

// fakeWorld panics on any method a test does not override.
type fakeWorld struct {
	World

	moved    world.Direction
	claimed  world.Point
	gathered string
	put      world.Resource
	settings agent.Settings
	area     survival.Area
	err      error
}

func (f *fakeWorld) Move(_ context.Context, dir world.Direction) (world.Point, error) {
	f.moved = dir
	return world.Point{X: 3, Y: 4}, f.err
}

func (f *fakeWorld) Claim(_ context.Context, p world.Point) (economy.ClaimResult, error) {
	f.claimed = p
	return economy.ClaimResult{}, f.err
}

func (f *fakeWorld) Gather(_ context.Context, _ world.Point, id string) error {
	f.gathered = id
	return f.err
}

func (f *fakeWorld) PutResource(_ context.Context, r world.Resource) error {
	f.put = r
	return f.err
}

func (f *fakeWorld) UpdateAgents(_ context.Context, s agent.Settings) (agent.Settings, error) {
	f.settings = s
	return s, f.err
}

func (f *fakeWorld) MarkArea(_ context.Context, a survival.Area) error {
	f.area = a
	return f.err
}

func (f *fakeWorld) Map(context.Context) (*world.WorldMap, error) {
	if f.err != nil {
		return nil, f.err
	}
	return world.NewWorldMap(2, 1, world.TileGrass)
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeErrorBody(t *testing.T, ctx *app.RequestContext) errorBody {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, ctx.Response.Body())
	}
	return body
}

func jsonRequest(body string) *app.RequestContext {
	ctx := &app.RequestContext{}
	ctx.Request.SetBody([]byte(body))
	return ctx
}

func TestWriteError_StatusByKind(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{economy.ErrAlreadyClaimed, consts.StatusConflict, "already_claimed"},
		{fmt.Errorf("claim: %w", economy.ErrNotOwner), consts.StatusConflict, "not_owner"},
		{inventory.ErrInventoryFull, consts.StatusBadRequest, "inventory_full"},
		{survival.ErrBlocked, consts.StatusBadRequest, "blocked"},
		{ports.ErrNotFound, consts.StatusNotFound, "not_found"},
		{game.ErrWorldNotLoaded, consts.StatusServiceUnavailable, "world_not_loaded"},
		{ErrInvalidJSON, consts.StatusBadRequest, "invalid_json"},
		{ErrInvalidDirection, consts.StatusBadRequest, "invalid_direction"},
	}
	for _, tc := range cases {
		ctx := &app.RequestContext{}
		writeError(ctx, tc.err)
		if got := ctx.Response.StatusCode(); got != tc.status {
			t.Fatalf("%v: status=%d want %d", tc.err, got, tc.status)
		}
		if got := decodeErrorBody(t, ctx).Error.Code; got != tc.code {
			t.Fatalf("%v: code=%q want %q", tc.err, got, tc.code)
		}
	}
}

func TestWriteError_InternalHidesMessage(t *testing.T) {
	ctx := &app.RequestContext{}
	writeError(ctx, errors.New("pq: connection refused"))

	if got := ctx.Response.StatusCode(); got != consts.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", got)
	}
	body := decodeErrorBody(t, ctx)
	if body.Error.Code != "internal_error" || body.Error.Message != "internal error" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestMove_ParsesDirection(t *testing.T) {
	fw := &fakeWorld{}
	h := Handler{World: fw}
	ctx := jsonRequest(`{"direction":" North "}`)

	h.move(context.Background(), ctx)

	if got := ctx.Response.StatusCode(); got != consts.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", got, ctx.Response.Body())
	}
	if fw.moved != world.DirUp {
		t.Fatalf("expected up, got %q", fw.moved)
	}
	var out struct {
		Position world.Point `json:"position"`
	}
	if err := json.Unmarshal(ctx.Response.Body(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Position != (world.Point{X: 3, Y: 4}) {
		t.Fatalf("unexpected position %+v", out.Position)
	}
}

func TestMove_InvalidDirection(t *testing.T) {
	h := Handler{World: &fakeWorld{}}
	ctx := jsonRequest(`{"direction":"sideways"}`)

	h.move(context.Background(), ctx)

	if got := ctx.Response.StatusCode(); got != consts.StatusBadRequest {
		t.Fatalf("expected 400, got %d", got)
	}
	if got := decodeErrorBody(t, ctx).Error.Code; got != "invalid_direction" {
		t.Fatalf("unexpected code %q", got)
	}
}

func TestClaim_InvalidJSON(t *testing.T) {
	h := Handler{World: &fakeWorld{}}
	ctx := jsonRequest(`{"x":`)

	h.claim(context.Background(), ctx)

	if got := decodeErrorBody(t, ctx).Error.Code; got != "invalid_json" {
		t.Fatalf("unexpected code %q", got)
	}
}

func TestClaim_PassesPointAndMapsConflict(t *testing.T) {
	fw := &fakeWorld{err: economy.ErrAlreadyClaimed}
	h := Handler{World: fw}
	ctx := jsonRequest(`{"x":5,"y":6}`)

	h.claim(context.Background(), ctx)

	if fw.claimed != (world.Point{X: 5, Y: 6}) {
		t.Fatalf("unexpected point %+v", fw.claimed)
	}
	if got := ctx.Response.StatusCode(); got != consts.StatusConflict {
		t.Fatalf("expected 409, got %d", got)
	}
}

func TestGather_ReportsResource(t *testing.T) {
	fw := &fakeWorld{}
	h := Handler{World: fw}
	ctx := jsonRequest(`{"x":1,"y":1,"resource_id":"oak_tree"}`)

	h.gather(context.Background(), ctx)

	if fw.gathered != "oak_tree" {
		t.Fatalf("unexpected resource %q", fw.gathered)
	}
	if got := ctx.Response.StatusCode(); got != consts.StatusOK {
		t.Fatalf("expected 200, got %d", got)
	}
}

func TestPutResource_UsesPathID(t *testing.T) {
	fw := &fakeWorld{}
	h := Handler{World: fw}
	ctx := jsonRequest(`{"name":"Stone","coinValue":3}`)
	ctx.Params = param.Params{{Key: "id", Value: "stone"}}

	h.putResource(context.Background(), ctx)

	if got := ctx.Response.StatusCode(); got != consts.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", got, ctx.Response.Body())
	}
	if fw.put.ID != "stone" {
		t.Fatalf("expected path id, got %q", fw.put.ID)
	}
}

func TestPutResource_IDMismatch(t *testing.T) {
	fw := &fakeWorld{}
	h := Handler{World: fw}
	ctx := jsonRequest(`{"id":"wood"}`)
	ctx.Params = param.Params{{Key: "id", Value: "stone"}}

	h.putResource(context.Background(), ctx)

	if got := decodeErrorBody(t, ctx).Error.Code; got != "id_mismatch" {
		t.Fatalf("unexpected code %q", got)
	}
	if fw.put.ID != "" {
		t.Fatalf("resource should not be stored")
	}
}

func TestAgents_MapsBody(t *testing.T) {
	fw := &fakeWorld{}
	h := Handler{World: fw}
	ctx := jsonRequest(`{"npc_enabled":true,"npc_count":4,"stranger_enabled":true,"stranger_density":0.25}`)

	h.agents(context.Background(), ctx)

	want := agent.Settings{NPCEnabled: true, NPCCount: 4, StrangerEnabled: true, StrangerDensity: 0.25}
	if fw.settings != want {
		t.Fatalf("settings=%+v want %+v", fw.settings, want)
	}
}

func TestAgents_ValidationError(t *testing.T) {
	h := Handler{World: &fakeWorld{err: fmt.Errorf("%w: density", game.ErrInvalidRequest)}}
	ctx := jsonRequest(`{"stranger_density":2}`)

	h.agents(context.Background(), ctx)

	if got := ctx.Response.StatusCode(); got != consts.StatusBadRequest {
		t.Fatalf("expected 400, got %d", got)
	}
}

func TestMarkArea_BuildsArea(t *testing.T) {
	fw := &fakeWorld{}
	h := Handler{World: fw}
	ctx := jsonRequest(`{"name":"farm","from":{"x":1,"y":2},"to":{"x":3,"y":4}}`)

	h.markArea(context.Background(), ctx)

	want := survival.Area{Name: "farm", From: world.Point{X: 1, Y: 2}, To: world.Point{X: 3, Y: 4}}
	if fw.area != want {
		t.Fatalf("area=%+v want %+v", fw.area, want)
	}
}

func TestWorldMap_NotLoaded(t *testing.T) {
	h := Handler{World: &fakeWorld{err: game.ErrWorldNotLoaded}}
	ctx := &app.RequestContext{}

	h.worldMap(context.Background(), ctx)

	if got := ctx.Response.StatusCode(); got != consts.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", got)
	}
}

type fakeKPI struct{}

func (fakeKPI) SnapshotAny() any { return map[string]int{"claim": 2} }

func TestKPI(t *testing.T) {
	ctx := &app.RequestContext{}
	Handler{}.kpi(context.Background(), ctx)
	if got := ctx.Response.StatusCode(); got != consts.StatusNotFound {
		t.Fatalf("expected 404 without provider, got %d", got)
	}

	ctx = &app.RequestContext{}
	Handler{KPI: fakeKPI{}}.kpi(context.Background(), ctx)
	if got := ctx.Response.StatusCode(); got != consts.StatusOK {
		t.Fatalf("expected 200, got %d", got)
	}
}
