// Command statecraft runs the coalition dynamics simulation: it seeds a
// world of countries, advances turns, and records state and decisions.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/talgya/statecraft/internal/engine"
	"github.com/talgya/statecraft/internal/persistence"
	"github.com/talgya/statecraft/internal/strategy"
	"github.com/talgya/statecraft/internal/worldgen"
)

// Config is the run configuration, loaded from config.yaml when present.
type Config struct {
	Seed       int64  `yaml:"seed"`
	Turns      int    `yaml:"turns"`
	DBPath     string `yaml:"db_path"`
	RosterPath string `yaml:"roster_path"`
	SaveEvery  int    `yaml:"save_every"` // turns between autosaves
	LogDebug   bool   `yaml:"log_debug"`
}

func defaultConfig() Config {
	return Config{
		Seed:       42,
		Turns:      200,
		DBPath:     "data/statecraft.db",
		RosterPath: "configs/countries.yaml",
		SaveEvery:  10,
	}
}

func loadConfig(path string) Config {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		slog.Warn("config parse failed, using defaults", "path", path, "error", err)
		return defaultConfig()
	}
	return cfg
}

func main() {
	configPath := "config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	cfg := loadConfig(configPath)

	level := slog.LevelInfo
	if cfg.LogDebug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	slog.Info("statecraft coalition dynamics simulation", "seed", cfg.Seed, "turns", cfg.Turns)

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll(filepath.Dir(cfg.DBPath), 0755)
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	// ── Load or Generate World State ─────────────────────────────────
	var world *engine.World
	if db.HasWorldState() {
		slog.Info("found saved world state, loading...")
		world, err = restoreWorld(db, cfg.Seed)
		if err != nil {
			slog.Error("failed to restore world", "error", err)
			os.Exit(1)
		}
		slog.Info("world state restored",
			"countries", len(world.Countries),
			"coalitions", world.Coalitions.Len(),
			"turn", world.Turn,
		)
	} else {
		slog.Info("no saved state found, seeding new world...", "roster", cfg.RosterPath)
		roster, err := worldgen.LoadRoster(cfg.RosterPath)
		if err != nil {
			slog.Error("failed to load roster", "error", err)
			os.Exit(1)
		}
		countries := worldgen.BuildCountries(roster, cfg.Seed)
		world = engine.NewWorld(countries, cfg.Seed)

		if err := db.SaveWorldState(world); err != nil {
			slog.Error("initial save failed", "error", err)
		}
	}

	world.OnOutcome = func(o strategy.Outcome) {
		if err := db.RecordDecision(o); err != nil {
			slog.Warn("decision record failed", "country", o.Country, "error", err)
		}
	}

	totalGDP := 0.0
	for _, c := range world.Countries {
		totalGDP += c.GDP
	}
	fmt.Printf("\n%d countries, combined GDP %s, starting at turn %d.\n",
		len(world.Countries), humanize.CommafWithDigits(totalGDP, 0), world.Turn)

	// ── Run ───────────────────────────────────────────────────────────
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	endTurn := world.Turn + cfg.Turns
	for world.Turn < endTurn {
		select {
		case sig := <-stop:
			slog.Info("received signal, stopping", "signal", sig)
			endTurn = world.Turn
		default:
			world.AdvanceTurn()
			if cfg.SaveEvery > 0 && world.Turn%cfg.SaveEvery == 0 {
				if err := db.SaveWorldState(world); err != nil {
					slog.Error("autosave failed", "error", err)
				}
			}
		}
	}

	// Final save on shutdown.
	slog.Info("final save...")
	if err := db.SaveWorldState(world); err != nil {
		slog.Error("final save failed", "error", err)
	}

	fmt.Printf("Simulation stopped at turn %d. %d coalitions formed over the run.\n",
		world.Turn, world.Coalitions.Len())
}

// restoreWorld rebuilds the world aggregate from the database.
func restoreWorld(db *persistence.DB, seed int64) (*engine.World, error) {
	countries, err := db.LoadCountries()
	if err != nil {
		return nil, fmt.Errorf("load countries: %w", err)
	}
	world := engine.NewWorld(countries, seed)

	reg, err := db.LoadCoalitions()
	if err != nil {
		return nil, fmt.Errorf("load coalitions: %w", err)
	}
	world.Coalitions = reg

	relations, err := db.LoadRelations()
	if err != nil {
		return nil, fmt.Errorf("load relations: %w", err)
	}
	world.Relations = relations

	if turnStr, err := db.GetMeta("last_turn"); err == nil {
		if t, err := strconv.Atoi(turnStr); err == nil {
			world.Turn = t
		}
	}

	return world, nil
}
