package sqliterepo

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"tileworld/internal/app/ports"
	"tileworld/internal/domain/agent"
	"tileworld/internal/domain/survival"
	"tileworld/internal/domain/world"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "tileworld.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seed(t *testing.T, db *sql.DB, worldID string) *world.WorldMap {
	t.Helper()
	m, err := world.Generate(10, 6, world.DefaultCatalog(), nil, world.NewRand(11))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	resources := NewResourceRepo(db)
	err = NewTxManager(db).RunInTx(context.Background(), func(ctx context.Context) error {
		for _, r := range world.DefaultCatalog().All() {
			if err := resources.PutResource(ctx, r); err != nil {
				return err
			}
		}
		if err := NewWorldRepo(db).CreateWorld(ctx, ports.LoadedWorld{
			WorldID:   worldID,
			Map:       m,
			Settings:  agent.Settings{NPCEnabled: true, NPCCount: 3},
			CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		}); err != nil {
			return err
		}
		return resources.LinkResources(ctx, worldID, world.DefaultCatalog().IDs())
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return m
}

func TestWorldRepo_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewWorldRepo(db)

	if _, err := repo.LoadWorld(ctx, "w1", "alice"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	m := seed(t, db, "w1")

	loaded, err := repo.LoadWorld(ctx, "w1", "alice")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Player != nil || loaded.Settings.NPCCount != 3 || !loaded.CreatedAt.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Fatalf("unexpected world %+v", loaded)
	}
	if loaded.Map.Width != m.Width || loaded.Catalog.Len() != world.DefaultCatalog().Len() {
		t.Fatalf("map/catalog mismatch")
	}

	m.Tile(world.Point{X: 2, Y: 2}).ClaimedBy = "alice"
	if err := repo.SaveMap(ctx, "w1", m); err != nil {
		t.Fatalf("save map: %v", err)
	}
	state := survival.NewPlayerState("alice", world.Point{X: 2, Y: 2}, 30, 77)
	state.Inventory.Deposit("stone", 3)
	if err := repo.SavePlayerState(ctx, "w1", state); err != nil {
		t.Fatalf("save player: %v", err)
	}
	if err := repo.SaveSettings(ctx, "w1", agent.Settings{StrangerEnabled: true, StrangerDensity: 0.1}); err != nil {
		t.Fatalf("save settings: %v", err)
	}

	loaded, err = repo.LoadWorld(ctx, "w1", "alice")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	tile, _ := loaded.Map.At(world.Point{X: 2, Y: 2})
	if tile.ClaimedBy != "alice" {
		t.Fatalf("map update lost")
	}
	if loaded.Player == nil || loaded.Player.Coins != 77 || loaded.Player.Inventory.Count("stone") != 3 {
		t.Fatalf("player mismatch %+v", loaded.Player)
	}
	if loaded.Settings.NPCEnabled || !loaded.Settings.StrangerEnabled || loaded.Settings.StrangerDensity != 0.1 {
		t.Fatalf("settings mismatch %+v", loaded.Settings)
	}
	if err := repo.SavePlayerState(ctx, "missing", state); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestWorldRepo_CreateTwiceConflicts(t *testing.T) {
	db := openTestDB(t)
	m := seed(t, db, "w1")
	err := NewWorldRepo(db).CreateWorld(context.Background(), ports.LoadedWorld{WorldID: "w1", Map: m, CreatedAt: time.Now()})
	if !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	boom := errors.New("boom")
	gem := world.Resource{ID: "gem", Name: "Gem", TileWidth: 1, TileHeight: 1}

	err := NewTxManager(db).RunInTx(ctx, func(ctx context.Context) error {
		if err := NewResourceRepo(db).PutResource(ctx, gem); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	got, err := NewResourceRepo(db).GetResources(ctx, []string{"gem"})
	if err != nil || len(got) != 0 {
		t.Fatalf("expected rollback, got %v %+v", err, got)
	}
}

func TestResourceRepo_UnlinkKeepsDefinition(t *testing.T) {
	db := openTestDB(t)
	seed(t, db, "w1")
	ctx := context.Background()
	resources := NewResourceRepo(db)

	if err := resources.UnlinkResource(ctx, "w1", "apple"); err != nil {
		t.Fatalf("unlink: %v", err)
	}
	loaded, err := NewWorldRepo(db).LoadWorld(ctx, "w1", "alice")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := loaded.Catalog.Get("apple"); ok {
		t.Fatalf("apple still linked")
	}
	got, _ := resources.GetResources(ctx, []string{"apple"})
	if len(got) != 1 {
		t.Fatalf("definition removed")
	}
}
