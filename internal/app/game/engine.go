package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"

	"tileworld/internal/app/ports"
	"tileworld/internal/domain/agent"
	"tileworld/internal/domain/inventory"
	"tileworld/internal/domain/survival"
	"tileworld/internal/domain/world"
)

const DefaultMaxNPCCount = 100

type Config struct {
	WorldID       string
	MemberID      string
	Width         int
	Height        int
	InventorySize int
	StartingCoins int
	BaseLandValue int
	Seed          int64
	Catalog       world.Catalog
	Terrain       []world.TerrainWeight

	NPC           agent.Policy
	Stranger      agent.Policy
	DefaultAgents agent.Settings
	MaxNPCCount   int

	PollInterval    time.Duration
	LoadRetry       time.Duration
	PlayerSaveDelay time.Duration
	AgentSaveDelay  time.Duration
	SaveTimeout     time.Duration
	Decay           survival.DecayRates
	ViewRadius      int
}

func DefaultConfig() Config {
	return Config{
		WorldID:         "default",
		MemberID:        "player",
		Width:           80,
		Height:          50,
		InventorySize:   survival.DefaultInventorySize,
		StartingCoins:   survival.DefaultStartingCoins,
		BaseLandValue:   10,
		Catalog:         world.DefaultCatalog(),
		NPC:             agent.DefaultPolicy(agent.KindNPC),
		Stranger:        agent.DefaultPolicy(agent.KindStranger),
		MaxNPCCount:     DefaultMaxNPCCount,
		PollInterval:    500 * time.Millisecond,
		LoadRetry:       5 * time.Second,
		PlayerSaveDelay: time.Second,
		AgentSaveDelay:  5 * time.Second,
		SaveTimeout:     10 * time.Second,
		Decay:           survival.DefaultDecayRates(),
		ViewRadius:      5,
	}
}

type Deps struct {
	Worlds  ports.WorldStore
	Catalog ports.CatalogStore
	Tx      ports.TxManager
	Metrics ports.ActionMetrics
	Logger  logrus.FieldLogger
	Now     func() time.Time
}

// Engine is the single writer of one world. Player actions, agent passes,
// passive decay and save scheduling all run on the Run goroutine; callers
// reach the world only through the mailbox.
type Engine struct {
	cfg     Config
	worlds  ports.WorldStore
	catalog ports.CatalogStore
	tx      ports.TxManager
	metrics ports.ActionMetrics
	log     logrus.FieldLogger
	now     func() time.Time
	rng     *rand.Rand

	mailbox chan func(now time.Time)
	writes  chan writeJob
	stopped chan struct{}

	// owned by the Run goroutine
	world       *GameWorld
	saves       *SaveQueue
	lastLoadTry time.Time
	lastPass    map[agent.Kind]time.Time
}

func NewEngine(cfg Config, deps Deps) *Engine {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	if cfg.Catalog.Len() == 0 {
		cfg.Catalog = world.DefaultCatalog()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 500 * time.Millisecond
	}
	if cfg.MaxNPCCount <= 0 {
		cfg.MaxNPCCount = DefaultMaxNPCCount
	}
	if cfg.SaveTimeout <= 0 {
		cfg.SaveTimeout = 10 * time.Second
	}
	cfg.NPC.Kind = agent.KindNPC
	cfg.Stranger.Kind = agent.KindStranger
	return &Engine{
		cfg:      cfg,
		worlds:   deps.Worlds,
		catalog:  deps.Catalog,
		tx:       deps.Tx,
		metrics:  deps.Metrics,
		log:      deps.Logger.WithField("world_id", cfg.WorldID),
		now:      deps.Now,
		rng:      world.NewRand(cfg.Seed),
		mailbox:  make(chan func(time.Time)),
		writes:   make(chan writeJob, 64),
		stopped:  make(chan struct{}),
		saves:    NewSaveQueue(),
		lastPass: map[agent.Kind]time.Time{},
	}
}

// Run loads the world and serves the mailbox until ctx is done. Pending
// saves are flushed before it returns.
func (e *Engine) Run(ctx context.Context) error {
	written := make(chan struct{})
	go e.writeLoop(written)
	defer func() {
		e.flush(e.saves.Drain())
		close(e.writes)
		<-written
		close(e.stopped)
		e.log.Info("engine stopped")
	}()

	e.load(ctx, e.now())
	ticker := time.NewTicker(e.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-e.mailbox:
			cmd(e.now())
		case <-ticker.C:
			e.tick(ctx, e.now())
		}
	}
}

// Tick runs one scheduler step immediately instead of waiting for the poll
// ticker.
func (e *Engine) Tick(ctx context.Context) error {
	return e.post(ctx, func(now time.Time) error {
		e.tick(ctx, now)
		return nil
	})
}

func (e *Engine) post(ctx context.Context, fn func(now time.Time) error) error {
	done := make(chan error, 1)
	cmd := func(now time.Time) { done <- fn(now) }
	select {
	case e.mailbox <- cmd:
	case <-e.stopped:
		return ErrEngineStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) do(ctx context.Context, fn func(w *GameWorld, now time.Time) error) error {
	return e.post(ctx, func(now time.Time) error {
		if e.world == nil {
			return ErrWorldNotLoaded
		}
		return fn(e.world, now)
	})
}

type change uint8

const (
	changedMap change = 1 << iota
	changedPlayer
	changedSettings
)

// act runs a player action, schedules the saves it asks for and records the
// outcome.
func (e *Engine) act(ctx context.Context, action string, fn func(w *GameWorld, now time.Time) (change, error)) error {
	err := e.do(ctx, func(w *GameWorld, now time.Time) error {
		changed, err := fn(w, now)
		if err != nil {
			return err
		}
		if changed&changedPlayer != 0 {
			w.Player.UpdatedAt = now
		}
		e.schedule(changed, now, e.cfg.PlayerSaveDelay)
		return nil
	})
	e.record(action, err)
	return err
}

func (e *Engine) record(action string, err error) {
	if e.metrics == nil {
		return
	}
	if err == nil {
		e.metrics.RecordSuccess(action)
		return
	}
	code, kind := Classify(err)
	if kind == KindUnavailable || kind == KindInternal {
		e.metrics.RecordFailure(action)
		return
	}
	e.metrics.RecordRejected(action, code)
}

func (e *Engine) schedule(c change, now time.Time, delay time.Duration) {
	if c&changedMap != 0 {
		e.saves.Schedule(SaveMap, now, delay)
	}
	if c&changedPlayer != 0 {
		e.saves.Schedule(SavePlayer, now, delay)
	}
	if c&changedSettings != 0 {
		e.saves.Schedule(SaveSettings, now, delay)
	}
}

func (e *Engine) tick(ctx context.Context, now time.Time) {
	if e.world == nil {
		if now.Sub(e.lastLoadTry) >= e.cfg.LoadRetry {
			e.load(ctx, now)
		}
		return
	}
	e.runAgents(now)
	if hours := survival.ApplyPassiveDecay(&e.world.Player, e.world.Clock, now, e.cfg.Decay); hours > 0 {
		e.world.Player.UpdatedAt = now
		e.saves.Schedule(SavePlayer, now, e.cfg.PlayerSaveDelay)
		e.log.WithField("hours", hours).Debug("passive decay applied")
	}
	e.flush(e.saves.Due(now))
}

// load replaces the world with a fresh fetch. Any failure leaves the engine
// without a world; nothing from a partial load is kept.
func (e *Engine) load(ctx context.Context, now time.Time) {
	e.lastLoadTry = now
	e.world = nil
	if e.worlds == nil {
		e.log.Warn("no world store configured")
		return
	}
	loaded, err := e.worlds.LoadWorld(ctx, e.cfg.WorldID, e.cfg.MemberID)
	if errors.Is(err, ports.ErrNotFound) {
		loaded, err = e.create(ctx, now)
	}
	if err != nil {
		e.log.WithError(err).Warn("world load failed")
		return
	}
	e.world = e.assemble(loaded, now)
	e.log.WithFields(logrus.Fields{
		"members":   len(e.world.Members),
		"npcs":      len(e.world.NPCs),
		"strangers": len(e.world.Strangers),
	}).Info("world loaded")
}

func (e *Engine) create(ctx context.Context, now time.Time) (ports.LoadedWorld, error) {
	m, err := world.Generate(e.cfg.Width, e.cfg.Height, e.cfg.Catalog, e.cfg.Terrain, e.rng)
	if err != nil {
		return ports.LoadedWorld{}, fmt.Errorf("generate world: %w", err)
	}
	loaded := ports.LoadedWorld{
		WorldID:   e.cfg.WorldID,
		Map:       m,
		Catalog:   e.cfg.Catalog,
		Settings:  e.cfg.DefaultAgents,
		CreatedAt: now,
	}
	err = e.inTx(ctx, func(ctx context.Context) error {
		if e.catalog != nil {
			for _, r := range e.cfg.Catalog.All() {
				if err := e.catalog.PutResource(ctx, r); err != nil {
					return fmt.Errorf("store resource %s: %w", r.ID, err)
				}
			}
		}
		if err := e.worlds.CreateWorld(ctx, loaded); err != nil {
			return fmt.Errorf("create world: %w", err)
		}
		if e.catalog != nil {
			if err := e.catalog.LinkResources(ctx, e.cfg.WorldID, e.cfg.Catalog.IDs()); err != nil {
				return fmt.Errorf("link resources: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return ports.LoadedWorld{}, err
	}
	e.log.WithFields(logrus.Fields{"width": m.Width, "height": m.Height}).Info("world generated")
	return loaded, nil
}

func (e *Engine) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if e.tx == nil {
		return fn(ctx)
	}
	return e.tx.RunInTx(ctx, fn)
}

func (e *Engine) assemble(loaded ports.LoadedWorld, now time.Time) *GameWorld {
	w := &GameWorld{
		ID:            loaded.WorldID,
		Map:           loaded.Map,
		Catalog:       loaded.Catalog,
		Clock:         world.NewClock(loaded.CreatedAt),
		Members:       append([]string(nil), loaded.Members...),
		Settings:      loaded.Settings,
		BaseLandValue: e.cfg.BaseLandValue,
	}
	if w.Settings.NPCCount > e.cfg.MaxNPCCount {
		e.log.WithField("npc_count", w.Settings.NPCCount).Warn("stored npc count above limit; clamped")
		w.Settings.NPCCount = e.cfg.MaxNPCCount
	}
	if w.Catalog.Len() == 0 {
		w.Catalog = e.cfg.Catalog
	}
	if loaded.Player != nil {
		w.Player = loaded.Player.Clone()
	} else {
		w.Player = survival.NewPlayerState(e.cfg.MemberID, w.Map.SpawnPoint, e.inventorySize(), e.cfg.StartingCoins)
		w.Player.UpdatedAt = now
		// A new member starts with decay already caught up to the world clock.
		w.Player.DecayHours = w.Clock.HoursAt(now)
		e.saves.Schedule(SavePlayer, now, e.cfg.PlayerSaveDelay)
	}
	w.Player.Normalize(e.inventorySize())
	if !w.hasMember(w.Player.MemberID) {
		w.Members = append(w.Members, w.Player.MemberID)
	}
	e.regenerate(w, nil, now)
	return w
}

// regenerate resizes both populations from w.Settings. prev is the settings
// the current populations were built for; nil rebuilds from scratch.
func (e *Engine) regenerate(w *GameWorld, prev *agent.Settings, now time.Time) {
	if prev == nil || prev.NPCEnabled != w.Settings.NPCEnabled || prev.NPCCount != w.Settings.NPCCount {
		existing := w.NPCs
		if prev == nil || !prev.NPCEnabled {
			existing = nil
		}
		w.NPCs = agent.Regenerate(existing, w.Settings.NPCEnabled, w.Settings.NPCCount, e.cfg.NPC, w.Map, e.rng, now)
	}
	if prev == nil || prev.StrangerEnabled != w.Settings.StrangerEnabled || prev.StrangerDensity != w.Settings.StrangerDensity {
		existing := w.Strangers
		if prev == nil || !prev.StrangerEnabled {
			existing = nil
		}
		count := agent.StrangerCount(w.Settings.StrangerDensity, w.Map.WalkableCount())
		w.Strangers = agent.Regenerate(existing, w.Settings.StrangerEnabled, count, e.cfg.Stranger, w.Map, e.rng, now)
	}
}

func (e *Engine) runAgents(now time.Time) {
	for _, p := range []agent.Policy{e.cfg.NPC, e.cfg.Stranger} {
		pop := e.world.population(p.Kind)
		if len(*pop) == 0 {
			continue
		}
		if last, ok := e.lastPass[p.Kind]; ok && now.Sub(last) < p.Interval {
			continue
		}
		e.lastPass[p.Kind] = now
		res := agent.RunPass(*pop, p, e.world.env(e.rng, now))
		if e.metrics != nil {
			e.metrics.RecordAgentPass(string(p.Kind), res.Processed)
		}
		if res.MapChanged {
			e.saves.Schedule(SaveMap, now, e.cfg.AgentSaveDelay)
		}
		e.log.WithFields(logrus.Fields{
			"agent_kind": p.Kind,
			"start":      res.Start,
			"processed":  res.Processed,
			"actions":    res.Actions,
		}).Debug("agent pass")
	}
}

type writeKind int

const (
	writeMap writeKind = iota
	writePlayer
	writeSettings
	writeResource
	writeUnlink
)

type writeJob struct {
	kind     writeKind
	worldID  string
	m        *world.WorldMap
	player   survival.PlayerState
	settings agent.Settings
	resource world.Resource
	id       string
}

// flush snapshots the named targets and hands them to the writer.
func (e *Engine) flush(targets []SaveTarget) {
	if e.world == nil {
		return
	}
	for _, target := range targets {
		job := writeJob{worldID: e.world.ID}
		switch target {
		case SaveMap:
			job.kind, job.m = writeMap, e.world.Map.Clone()
		case SavePlayer:
			job.kind, job.player = writePlayer, e.world.Player.Clone()
		case SaveSettings:
			job.kind, job.settings = writeSettings, e.world.Settings
		default:
			continue
		}
		e.writes <- job
	}
}

// writeLoop performs storage writes in order, off the engine goroutine.
// Failures are logged; the in-memory world stays authoritative.
func (e *Engine) writeLoop(done chan<- struct{}) {
	defer close(done)
	for job := range e.writes {
		ctx, cancel := context.WithTimeout(context.Background(), e.cfg.SaveTimeout)
		err := e.write(ctx, job)
		cancel()
		if err != nil {
			e.log.WithError(err).WithField("write", job.kind).Warn("save failed")
		}
	}
}

func (e *Engine) write(ctx context.Context, job writeJob) error {
	switch job.kind {
	case writeMap:
		return e.worlds.SaveMap(ctx, job.worldID, job.m)
	case writePlayer:
		return e.worlds.SavePlayerState(ctx, job.worldID, job.player)
	case writeSettings:
		return e.worlds.SaveSettings(ctx, job.worldID, job.settings)
	case writeResource:
		if e.catalog == nil {
			return nil
		}
		if err := e.catalog.PutResource(ctx, job.resource); err != nil {
			return err
		}
		return e.catalog.LinkResources(ctx, job.worldID, []string{job.resource.ID})
	case writeUnlink:
		if e.catalog == nil {
			return nil
		}
		return e.catalog.UnlinkResource(ctx, job.worldID, job.id)
	}
	return nil
}

// inventorySize is the configured size, never below the minimum.
func (e *Engine) inventorySize() int {
	if e.cfg.InventorySize < inventory.MinCapacity {
		return inventory.MinCapacity
	}
	return e.cfg.InventorySize
}
