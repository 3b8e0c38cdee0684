package game

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"tileworld/internal/app/ports"
	"tileworld/internal/domain/agent"
	"tileworld/internal/domain/survival"
	"tileworld/internal/domain/world"
)

type stubClock struct {
	mu sync.Mutex
	at time.Time
}

func (c *stubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.at
}

func (c *stubClock) Set(at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.at = at
}

type stubStore struct {
	mu            sync.Mutex
	loadErr       error
	loaded        *ports.LoadedWorld
	created       int
	mapSaves      int
	playerSaves   int
	settingsSaves int
	lastMap       *world.WorldMap
	lastPlayer    survival.PlayerState
	lastSettings  agent.Settings
	resources     map[string]world.Resource
	links         map[string]bool
}

func newStubStore() *stubStore {
	return &stubStore{resources: map[string]world.Resource{}, links: map[string]bool{}}
}

func (s *stubStore) LoadWorld(_ context.Context, _, _ string) (ports.LoadedWorld, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return ports.LoadedWorld{}, s.loadErr
	}
	if s.loaded == nil {
		return ports.LoadedWorld{}, ports.ErrNotFound
	}
	out := *s.loaded
	out.Map = s.loaded.Map.Clone()
	return out, nil
}

func (s *stubStore) CreateWorld(_ context.Context, w ports.LoadedWorld) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created++
	s.loaded = &w
	return nil
}

func (s *stubStore) SaveMap(_ context.Context, _ string, m *world.WorldMap) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mapSaves++
	s.lastMap = m
	return nil
}

func (s *stubStore) SavePlayerState(_ context.Context, _ string, state survival.PlayerState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playerSaves++
	s.lastPlayer = state
	return nil
}

func (s *stubStore) SaveSettings(_ context.Context, _ string, settings agent.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settingsSaves++
	s.lastSettings = settings
	return nil
}

func (s *stubStore) GetResources(_ context.Context, ids []string) ([]world.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]world.Resource, 0, len(ids))
	for _, id := range ids {
		if r, ok := s.resources[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubStore) PutResource(_ context.Context, r world.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources[r.ID] = r
	return nil
}

func (s *stubStore) LinkResources(_ context.Context, _ string, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.links[id] = true
	}
	return nil
}

func (s *stubStore) UnlinkResource(_ context.Context, _, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.links, id)
	return nil
}

type stubMetrics struct {
	mu       sync.Mutex
	success  map[string]int
	rejected map[string]int
	failure  map[string]int
	passes   map[string]int
}

func newStubMetrics() *stubMetrics {
	return &stubMetrics{success: map[string]int{}, rejected: map[string]int{}, failure: map[string]int{}, passes: map[string]int{}}
}

func (m *stubMetrics) RecordSuccess(action string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.success[action]++
}

func (m *stubMetrics) RecordRejected(action, code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected[action+":"+code]++
}

func (m *stubMetrics) RecordFailure(action string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failure[action]++
}

func (m *stubMetrics) RecordAgentPass(kind string, processed int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.passes[kind] += processed
}

var t0 = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

type harness struct {
	engine  *Engine
	store   *stubStore
	metrics *stubMetrics
	clock   *stubClock
	stop    func()
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.WorldID = "w1"
	cfg.MemberID = "alice"
	cfg.Width = 20
	cfg.Height = 12
	cfg.Seed = 7
	cfg.PollInterval = time.Hour
	return cfg
}

func startHarness(t *testing.T, cfg Config, store *stubStore) *harness {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	h := &harness{store: store, metrics: newStubMetrics(), clock: &stubClock{at: t0}}
	h.engine = NewEngine(cfg, Deps{Worlds: store, Catalog: store, Metrics: h.metrics, Logger: logger, Now: h.clock.Now})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = h.engine.Run(ctx)
	}()
	var once sync.Once
	h.stop = func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
	t.Cleanup(h.stop)
	return h
}

// grassWorld is a small all-grass world owned by alice with no agents.
func grassWorld(t *testing.T, w, h int) *ports.LoadedWorld {
	t.Helper()
	m, err := world.NewWorldMap(w, h, world.TileGrass)
	if err != nil {
		t.Fatalf("NewWorldMap: %v", err)
	}
	player := survival.NewPlayerState("alice", m.SpawnPoint, 30, 500)
	return &ports.LoadedWorld{
		WorldID:   "w1",
		Map:       m,
		Catalog:   world.DefaultCatalog(),
		Player:    &player,
		Members:   []string{"alice"},
		CreatedAt: t0,
	}
}
