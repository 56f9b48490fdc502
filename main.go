package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/pthm-cable/biosim/components"
	"github.com/pthm-cable/biosim/config"
	"github.com/pthm-cable/biosim/game"
)

// overrideFlag collects repeated "target.key=value" flags.
type overrideFlag []game.Override

func (f *overrideFlag) String() string {
	parts := make([]string, len(*f))
	for i, o := range *f {
		parts[i] = o.Target + "." + o.Key
	}
	return strings.Join(parts, ",")
}

func (f *overrideFlag) Set(s string) error {
	o, err := game.ParseOverride(s)
	if err != nil {
		return err
	}
	*f = append(*f, o)
	return nil
}

func main() {
	var animalOverrides, landscapeOverrides overrideFlag

	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Uint64("seed", 0, "RNG seed (default: config seed)")
	years := flag.Int("years", 0, "Years to simulate (0 = use config)")
	logStats := flag.Bool("log-stats", false, "Output yearly stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	censusDir := flag.String("census-dir", "", "Directory for census dumps")
	dbPath := flag.String("db", "", "SQLite file recording runs and yearly stats")
	generateMap := flag.Bool("generate-map", false, "Generate the island layout from noise")
	flag.Var(&animalOverrides, "set", "Species override species.key=value (repeatable)")
	flag.Var(&landscapeOverrides, "set-landscape", "Terrain override terrain.f_max=value (repeatable)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	var seedOpt *uint64
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			seedOpt = seed
		}
	})

	target := cfg.Years
	if *years > 0 {
		target = *years
	}

	g, err := game.NewGame(cfg, game.Options{
		Seed:               seedOpt,
		LogStats:           *logStats,
		OutputDir:          *outputDir,
		CensusDir:          *censusDir,
		DBPath:             *dbPath,
		GenerateMap:        *generateMap,
		AnimalOverrides:    animalOverrides,
		LandscapeOverrides: landscapeOverrides,
	})
	if err != nil {
		slog.Error("failed to set up island", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting simulation", "seed", g.Seed(), "years", target, "run_id", g.RunID())
	start := time.Now()
	runErr := g.Run(ctx, target)
	if errors.Is(runErr, context.Canceled) {
		slog.Warn("interrupted", "year", g.Year())
		runErr = nil
	}

	counts := g.Island().Counts()
	slog.Info("simulation finished",
		"years", g.Year(),
		"herbivores", humanize.Comma(int64(counts[components.Herbivore])),
		"carnivores", humanize.Comma(int64(counts[components.Carnivore])),
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
	)

	if err := errors.Join(runErr, g.Close()); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}
