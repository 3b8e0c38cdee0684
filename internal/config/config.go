package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"tileworld/internal/app/game"
	"tileworld/internal/domain/agent"
	"tileworld/internal/domain/survival"
	"tileworld/internal/domain/world"
)

const DefaultPath = "configs/tileworld.yaml"

var ErrInvalidConfig = errors.New("invalid config")

// npcCountCeiling bounds max_npc_count; NPCs are processed in full every pass.
const npcCountCeiling = 10000

type Config struct {
	HTTP        HTTPConfig          `yaml:"http"`
	Storage     StorageConfig       `yaml:"storage"`
	Log         LogConfig           `yaml:"log"`
	World       WorldConfig         `yaml:"world"`
	Agents      AgentsConfig        `yaml:"agents"`
	Persistence PersistenceConfig   `yaml:"persistence"`
	Decay       survival.DecayRates `yaml:"decay"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type WorldConfig struct {
	ID            string `yaml:"id"`
	MemberID      string `yaml:"member_id"`
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	InventorySize int    `yaml:"inventory_size"`
	StartingCoins int    `yaml:"starting_coins"`
	Seed          int64  `yaml:"seed"`
	BaseLandValue int    `yaml:"base_land_value"`
	CatalogFile   string `yaml:"catalog_file"`
	ViewRadius    int    `yaml:"view_radius"`
}

type AgentsConfig struct {
	PollInterval    time.Duration `yaml:"poll_interval"`
	NPCEnabled      bool          `yaml:"npc_enabled"`
	NPCCount        int           `yaml:"npc_count"`
	StrangerEnabled bool          `yaml:"stranger_enabled"`
	StrangerDensity float64       `yaml:"stranger_density"`
	MaxNPCCount     int           `yaml:"max_npc_count"`
	NPC             agent.Policy  `yaml:"npc"`
	Stranger        agent.Policy  `yaml:"stranger"`
}

type PersistenceConfig struct {
	PlayerSaveDelay time.Duration `yaml:"player_save_delay"`
	AgentSaveDelay  time.Duration `yaml:"agent_save_delay"`
	SaveTimeout     time.Duration `yaml:"save_timeout"`
	LoadRetry       time.Duration `yaml:"load_retry"`
}

func Defaults() Config {
	g := game.DefaultConfig()
	return Config{
		HTTP:    HTTPConfig{Addr: ":8080"},
		Storage: StorageConfig{Driver: "memory"},
		Log:     LogConfig{Level: "info", Format: "text"},
		World: WorldConfig{
			ID:            g.WorldID,
			MemberID:      g.MemberID,
			Width:         g.Width,
			Height:        g.Height,
			InventorySize: g.InventorySize,
			StartingCoins: g.StartingCoins,
			BaseLandValue: g.BaseLandValue,
			ViewRadius:    g.ViewRadius,
		},
		Agents: AgentsConfig{
			PollInterval: g.PollInterval,
			MaxNPCCount:  g.MaxNPCCount,
			NPC:          g.NPC,
			Stranger:     g.Stranger,
		},
		Persistence: PersistenceConfig{
			PlayerSaveDelay: g.PlayerSaveDelay,
			AgentSaveDelay:  g.AgentSaveDelay,
			SaveTimeout:     g.SaveTimeout,
			LoadRetry:       g.LoadRetry,
		},
		Decay: g.Decay,
	}
}

// Load reads the YAML file at path, then applies environment overrides.
// A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("%s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Path picks the config file location from TILEWORLD_CONFIG.
func Path() string {
	if p, ok := os.LookupEnv("TILEWORLD_CONFIG"); ok && strings.TrimSpace(p) != "" {
		return p
	}
	return DefaultPath
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str("TILEWORLD_HTTP_ADDR", &c.HTTP.Addr)
	str("TILEWORLD_DB_DRIVER", &c.Storage.Driver)
	str("TILEWORLD_DB_DSN", &c.Storage.DSN)
	str("TILEWORLD_WORLD_ID", &c.World.ID)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	if v, ok := lookup("TILEWORLD_SEED"); ok && strings.TrimSpace(v) != "" {
		seed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("%w: TILEWORLD_SEED %q", ErrInvalidConfig, v)
		}
		c.World.Seed = seed
	}
	return nil
}

func (c *Config) Normalize() {
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	c.Log.Format = strings.ToLower(c.Log.Format)
	if c.World.InventorySize < survival.DefaultInventorySize {
		c.World.InventorySize = survival.DefaultInventorySize
	}
	if c.World.ViewRadius < 0 {
		c.World.ViewRadius = 0
	}
	if c.Agents.NPCCount < 0 {
		c.Agents.NPCCount = 0
	}
}

func (c Config) Validate() error {
	switch c.Storage.Driver {
	case "memory":
	case "postgres", "sqlite":
		if c.Storage.DSN == "" {
			return fmt.Errorf("%w: storage.dsn is required for %s", ErrInvalidConfig, c.Storage.Driver)
		}
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, c.Storage.Driver)
	}
	if c.World.ID == "" {
		return fmt.Errorf("%w: world.id is required", ErrInvalidConfig)
	}
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("%w: world size %dx%d", ErrInvalidConfig, c.World.Width, c.World.Height)
	}
	if c.Agents.MaxNPCCount <= 0 || c.Agents.MaxNPCCount > npcCountCeiling {
		return fmt.Errorf("%w: max_npc_count must be within 1..%d", ErrInvalidConfig, npcCountCeiling)
	}
	if c.Agents.NPCCount > c.Agents.MaxNPCCount {
		return fmt.Errorf("%w: npc_count %d above max_npc_count %d", ErrInvalidConfig, c.Agents.NPCCount, c.Agents.MaxNPCCount)
	}
	if c.Agents.StrangerDensity < 0 || c.Agents.StrangerDensity > 1 {
		return fmt.Errorf("%w: stranger_density %v", ErrInvalidConfig, c.Agents.StrangerDensity)
	}
	return nil
}

// Game builds the engine configuration, loading the catalog file when one
// is set.
func (c Config) Game() (game.Config, error) {
	g := game.DefaultConfig()
	g.WorldID = c.World.ID
	if c.World.MemberID != "" {
		g.MemberID = c.World.MemberID
	}
	g.Width = c.World.Width
	g.Height = c.World.Height
	g.InventorySize = c.World.InventorySize
	g.StartingCoins = c.World.StartingCoins
	g.BaseLandValue = c.World.BaseLandValue
	g.Seed = c.World.Seed
	g.ViewRadius = c.World.ViewRadius
	g.MaxNPCCount = c.Agents.MaxNPCCount
	g.NPC = c.Agents.NPC
	g.Stranger = c.Agents.Stranger
	g.DefaultAgents = agent.Settings{
		NPCEnabled:      c.Agents.NPCEnabled,
		NPCCount:        c.Agents.NPCCount,
		StrangerEnabled: c.Agents.StrangerEnabled,
		StrangerDensity: c.Agents.StrangerDensity,
	}
	g.PollInterval = c.Agents.PollInterval
	g.PlayerSaveDelay = c.Persistence.PlayerSaveDelay
	g.AgentSaveDelay = c.Persistence.AgentSaveDelay
	g.SaveTimeout = c.Persistence.SaveTimeout
	g.LoadRetry = c.Persistence.LoadRetry
	g.Decay = c.Decay
	if c.World.CatalogFile != "" {
		catalog, err := world.LoadCatalogFile(c.World.CatalogFile)
		if err != nil {
			return g, fmt.Errorf("catalog %s: %w", c.World.CatalogFile, err)
		}
		g.Catalog = catalog
	}
	return g, nil
}
