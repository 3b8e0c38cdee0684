package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"tileworld/internal/app/game"
	"tileworld/internal/domain/agent"
	"tileworld/internal/domain/crafting"
	"tileworld/internal/domain/economy"
	"tileworld/internal/domain/survival"
	"tileworld/internal/domain/world"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// World is the engine surface the routes drive.
type World interface {
	State(ctx context.Context) (game.StateView, error)
	Map(ctx context.Context) (*world.WorldMap, error)
	Catalog(ctx context.Context) ([]world.Resource, error)
	Move(ctx context.Context, dir world.Direction) (world.Point, error)
	Claim(ctx context.Context, p world.Point) (economy.ClaimResult, error)
	ClaimArea(ctx context.Context, from, to world.Point) (economy.BulkClaimResult, error)
	Gather(ctx context.Context, p world.Point, resourceID string) error
	Place(ctx context.Context, p world.Point, slot int) (string, error)
	Craft(ctx context.Context, resourceID, recipeID string) (crafting.CraftResult, error)
	Consume(ctx context.Context, resourceID string) (crafting.ConsumeResult, error)
	UseTool(ctx context.Context, dir world.Direction, slot int) (crafting.ToolResult, error)
	Buy(ctx context.Context, resourceID string, qty int) (economy.TradeResult, error)
	Sell(ctx context.Context, resourceID string, qty int) (economy.TradeResult, error)
	RenameTile(ctx context.Context, p world.Point, name string) error
	MarkArea(ctx context.Context, area survival.Area) error
	RespawnResources(ctx context.Context) (int, error)
	UpdateAgents(ctx context.Context, s agent.Settings) (agent.Settings, error)
	PutResource(ctx context.Context, r world.Resource) error
	RemoveResource(ctx context.Context, id string) error
}

type Handler struct {
	World World
	KPI   kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	w := s.Group("/api/world")
	w.GET("/state", h.state)
	w.GET("/map", h.worldMap)
	w.GET("/catalog", h.catalog)
	w.PUT("/catalog/:id", h.putResource)
	w.DELETE("/catalog/:id", h.removeResource)
	w.PUT("/agents", h.agents)
	w.POST("/respawn", h.respawn)

	act := w.Group("/actions")
	act.POST("/move", h.move)
	act.POST("/claim", h.claim)
	act.POST("/claim-area", h.claimArea)
	act.POST("/gather", h.gather)
	act.POST("/place", h.place)
	act.POST("/craft", h.craft)
	act.POST("/consume", h.consume)
	act.POST("/use-tool", h.useTool)
	act.POST("/buy", h.buy)
	act.POST("/sell", h.sell)
	act.POST("/rename", h.rename)
	act.POST("/mark-area", h.markArea)

	s.GET("/ops/kpi", h.kpi)
}

type pointBody struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p pointBody) point() world.Point { return world.Point{X: p.X, Y: p.Y} }

type actionRequest struct {
	pointBody
	Direction  string    `json:"direction,omitempty"`
	Slot       int       `json:"slot,omitempty"`
	ResourceID string    `json:"resource_id,omitempty"`
	RecipeID   string    `json:"recipe_id,omitempty"`
	Quantity   int       `json:"quantity,omitempty"`
	Name       string    `json:"name,omitempty"`
	From       pointBody `json:"from"`
	To         pointBody `json:"to"`
}

type agentsRequest struct {
	NPCEnabled      bool    `json:"npc_enabled"`
	NPCCount        int     `json:"npc_count"`
	StrangerEnabled bool    `json:"stranger_enabled"`
	StrangerDensity float64 `json:"stranger_density"`
}

var (
	ErrInvalidJSON      = errors.New("invalid json")
	ErrInvalidDirection = errors.New("invalid direction")
)

// bind decodes the body and resolves the direction field when the route
// needs one.
func bind(ctx *app.RequestContext, needDirection bool) (actionRequest, world.Direction, error) {
	var body actionRequest
	if err := decodeJSON(ctx, &body); err != nil {
		return body, "", ErrInvalidJSON
	}
	if !needDirection {
		return body, "", nil
	}
	dir, ok := world.ParseDirection(strings.TrimSpace(body.Direction))
	if !ok {
		return body, "", ErrInvalidDirection
	}
	return body, dir, nil
}

func (h Handler) state(c context.Context, ctx *app.RequestContext) {
	view, err := h.World.State(c)
	respond(ctx, view, err)
}

func (h Handler) worldMap(c context.Context, ctx *app.RequestContext) {
	m, err := h.World.Map(c)
	respond(ctx, m, err)
}

func (h Handler) catalog(c context.Context, ctx *app.RequestContext) {
	resources, err := h.World.Catalog(c)
	respond(ctx, map[string]any{"resources": resources}, err)
}

func (h Handler) putResource(c context.Context, ctx *app.RequestContext) {
	var r world.Resource
	if err := decodeJSON(ctx, &r); err != nil {
		writeError(ctx, ErrInvalidJSON)
		return
	}
	if id := ctx.Param("id"); r.ID == "" {
		r.ID = id
	} else if r.ID != id {
		writeErrorBody(ctx, consts.StatusBadRequest, "id_mismatch", "body id does not match path")
		return
	}
	respond(ctx, r, h.World.PutResource(c, r))
}

func (h Handler) removeResource(c context.Context, ctx *app.RequestContext) {
	respond(ctx, map[string]any{"removed": ctx.Param("id")}, h.World.RemoveResource(c, ctx.Param("id")))
}

func (h Handler) agents(c context.Context, ctx *app.RequestContext) {
	var body agentsRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeError(ctx, ErrInvalidJSON)
		return
	}
	s, err := h.World.UpdateAgents(c, agent.Settings{
		NPCEnabled:      body.NPCEnabled,
		NPCCount:        body.NPCCount,
		StrangerEnabled: body.StrangerEnabled,
		StrangerDensity: body.StrangerDensity,
	})
	respond(ctx, s, err)
}

func (h Handler) respawn(c context.Context, ctx *app.RequestContext) {
	n, err := h.World.RespawnResources(c)
	respond(ctx, map[string]int{"spawned": n}, err)
}

func (h Handler) move(c context.Context, ctx *app.RequestContext) {
	_, dir, err := bind(ctx, true)
	if err != nil {
		writeError(ctx, err)
		return
	}
	pos, err := h.World.Move(c, dir)
	respond(ctx, map[string]any{"position": pos}, err)
}

func (h Handler) claim(c context.Context, ctx *app.RequestContext) {
	body, _, err := bind(ctx, false)
	if err != nil {
		writeError(ctx, err)
		return
	}
	res, err := h.World.Claim(c, body.point())
	respond(ctx, res, err)
}

func (h Handler) claimArea(c context.Context, ctx *app.RequestContext) {
	body, _, err := bind(ctx, false)
	if err != nil {
		writeError(ctx, err)
		return
	}
	res, err := h.World.ClaimArea(c, body.From.point(), body.To.point())
	respond(ctx, res, err)
}

func (h Handler) gather(c context.Context, ctx *app.RequestContext) {
	body, _, err := bind(ctx, false)
	if err != nil {
		writeError(ctx, err)
		return
	}
	err = h.World.Gather(c, body.point(), body.ResourceID)
	respond(ctx, map[string]any{"resourceId": body.ResourceID, "quantity": 1}, err)
}

func (h Handler) place(c context.Context, ctx *app.RequestContext) {
	body, _, err := bind(ctx, false)
	if err != nil {
		writeError(ctx, err)
		return
	}
	id, err := h.World.Place(c, body.point(), body.Slot)
	respond(ctx, map[string]any{"resourceId": id, "position": body.point()}, err)
}

func (h Handler) craft(c context.Context, ctx *app.RequestContext) {
	body, _, err := bind(ctx, false)
	if err != nil {
		writeError(ctx, err)
		return
	}
	res, err := h.World.Craft(c, body.ResourceID, body.RecipeID)
	respond(ctx, res, err)
}

func (h Handler) consume(c context.Context, ctx *app.RequestContext) {
	body, _, err := bind(ctx, false)
	if err != nil {
		writeError(ctx, err)
		return
	}
	res, err := h.World.Consume(c, body.ResourceID)
	respond(ctx, res, err)
}

func (h Handler) useTool(c context.Context, ctx *app.RequestContext) {
	body, dir, err := bind(ctx, true)
	if err != nil {
		writeError(ctx, err)
		return
	}
	res, err := h.World.UseTool(c, dir, body.Slot)
	respond(ctx, res, err)
}

func (h Handler) buy(c context.Context, ctx *app.RequestContext) {
	body, _, err := bind(ctx, false)
	if err != nil {
		writeError(ctx, err)
		return
	}
	res, err := h.World.Buy(c, body.ResourceID, body.Quantity)
	respond(ctx, res, err)
}

func (h Handler) sell(c context.Context, ctx *app.RequestContext) {
	body, _, err := bind(ctx, false)
	if err != nil {
		writeError(ctx, err)
		return
	}
	res, err := h.World.Sell(c, body.ResourceID, body.Quantity)
	respond(ctx, res, err)
}

func (h Handler) rename(c context.Context, ctx *app.RequestContext) {
	body, _, err := bind(ctx, false)
	if err != nil {
		writeError(ctx, err)
		return
	}
	err = h.World.RenameTile(c, body.point(), body.Name)
	respond(ctx, map[string]any{"position": body.point(), "name": strings.TrimSpace(body.Name)}, err)
}

func (h Handler) markArea(c context.Context, ctx *app.RequestContext) {
	body, _, err := bind(ctx, false)
	if err != nil {
		writeError(ctx, err)
		return
	}
	area := survival.Area{Name: body.Name, From: body.From.point(), To: body.To.point()}
	respond(ctx, area, h.World.MarkArea(c, area))
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func respond(ctx *app.RequestContext, payload any, err error) {
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, payload)
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

var kindStatus = map[game.ErrorKind]int{
	game.KindValidation:  consts.StatusBadRequest,
	game.KindNotFound:    consts.StatusNotFound,
	game.KindConflict:    consts.StatusConflict,
	game.KindUnavailable: consts.StatusServiceUnavailable,
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, ErrInvalidJSON):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", err.Error())
		return
	case errors.Is(err, ErrInvalidDirection):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_direction", err.Error())
		return
	}
	code, kind := game.Classify(err)
	status, ok := kindStatus[kind]
	if !ok {
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeErrorBody(ctx, status, code, err.Error())
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
